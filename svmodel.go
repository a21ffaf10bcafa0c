// Package svmodel builds structural models of SystemVerilog designs.
//
// A model records, for every module and interface declaration, its
// parameters, ports, internal signals, continuous assignments, procedural
// blocks, generate constructs, instantiations and modports. Models are
// collected into a design.Design, which binds instantiations to their
// definitions, elaborates hierarchies and generates top-level wrappers.
//
// Basic usage:
//
//	d, err := svmodel.LoadDir(ctx, "rtl", "sv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := d.Resolve(); err != nil {
//	    log.Fatal(err)
//	}
//	root, err := d.Elaborate("soc_top")
package svmodel

import (
	"log/slog"
	"runtime"

	"github.com/daubuild/svmodel/errors"
	"github.com/daubuild/svmodel/internal/types"
)

// ErrNoSources is returned when Load is called without a source.
var ErrNoSources = errors.New(errors.PhaseLoad, errors.KindInvalidInput).
	Detail("no SystemVerilog sources provided").
	Build()

// LevelTrace is a custom log level more verbose than Debug.
// Use for per-item iteration logging (ports, instances, connections).
// Enable with: &slog.HandlerOptions{Level: slog.Level(-8)}
const LevelTrace = types.LevelTrace

// DefaultExtension is the file extension used when none is given.
const DefaultExtension = "sv"

// Option configures loading.
type Option func(*loadConfig)

type loadConfig struct {
	logger       *slog.Logger
	extensions   []string
	concurrency  int
	diagConfig   *DiagnosticConfig
	libraryPaths []string
	systemPaths  bool
}

func newLoadConfig(opts []Option) loadConfig {
	cfg := loadConfig{
		extensions:  DefaultExtensions,
		concurrency: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}
	return cfg
}

// WithLogger sets the logger for debug/trace output.
// If not set, no logging occurs.
func WithLogger(logger *slog.Logger) Option {
	return func(c *loadConfig) { c.logger = logger }
}

// WithExtensions sets the file extensions recognized when listing
// directories, e.g. WithExtensions("sv", "v").
func WithExtensions(exts ...string) Option {
	return func(c *loadConfig) {
		c.extensions = c.extensions[:0:0]
		for _, ext := range exts {
			c.extensions = append(c.extensions, normalizeExt(ext))
		}
	}
}

// WithConcurrency bounds the number of files parsed at once. The default
// is the number of CPUs.
func WithConcurrency(n int) Option {
	return func(c *loadConfig) { c.concurrency = n }
}

// WithDiagnosticConfig filters the diagnostics attached to loaded modules
// and the design. Without it every diagnostic is kept.
func WithDiagnosticConfig(cfg DiagnosticConfig) Option {
	return func(c *loadConfig) { c.diagConfig = &cfg }
}

// WithLibraryPaths adds directories searched, in order, for module
// definitions not found under the resolution root.
func WithLibraryPaths(dirs ...string) Option {
	return func(c *loadConfig) { c.libraryPaths = append(c.libraryPaths, dirs...) }
}

// WithSystemPaths appends the library directories named by the
// SVMODEL_PATH environment variable and the standard install locations to
// the library search path.
func WithSystemPaths() Option {
	return func(c *loadConfig) { c.systemPaths = true }
}

// keep reports whether a diagnostic survives the configured filter and
// applies any severity override.
func (c *loadConfig) keep(diags []Diagnostic) []Diagnostic {
	if c.diagConfig == nil {
		return diags
	}
	var out []Diagnostic
	for _, d := range diags {
		sev, ok := c.diagConfig.Apply(d.Code, d.Severity)
		if !ok {
			continue
		}
		d.Severity = sev
		out = append(out, d)
	}
	return out
}
