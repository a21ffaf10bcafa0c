// Package config loads the svmodel project file.
//
// A project file is YAML. Load looks for it in the working directory,
// then in the design root, then in the user config directory, and falls
// back to Default when none exists.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/daubuild/svmodel/internal/types"
)

// FileNames are the project file names checked in each directory, in
// order.
var FileNames = []string{"svmodel.yaml", ".svmodel.yaml"}

// Config is the project file.
type Config struct {
	// Ext is the source extension used for directory loads, without the
	// leading dot.
	Ext string `yaml:"ext"`

	// LibDirs are extra directories searched for module definitions
	// during directory resolution.
	LibDirs []string `yaml:"libdirs"`

	// Concurrency bounds parallel file loading; 0 means one per CPU.
	Concurrency int `yaml:"concurrency"`

	Diagnostics Diagnostics `yaml:"diagnostics"`
	Top         Top         `yaml:"top"`
	Lint        Lint        `yaml:"lint"`

	// path is the file the config was read from, empty for defaults.
	path string
}

// Diagnostics selects which diagnostics are reported.
type Diagnostics struct {
	// Level is the least severe severity still reported: fatal, error,
	// warning or info.
	Level     string            `yaml:"level"`
	Overrides map[string]string `yaml:"overrides"`
	Ignore    []string          `yaml:"ignore"`
}

// Top holds defaults for wrapper generation.
type Top struct {
	Name    string   `yaml:"name"`
	Clock   string   `yaml:"clk"`
	Reset   string   `yaml:"reset"`
	Modules []string `yaml:"modules"`
}

// Lint enables or disables policy rules by name.
type Lint struct {
	Disable []string `yaml:"disable"`
	// FailOn is the least severe finding that makes lint fail.
	FailOn string `yaml:"fail_on"`
}

// Default returns the configuration used when no project file exists.
func Default() *Config {
	return &Config{
		Ext:         "sv",
		Concurrency: runtime.NumCPU(),
		Diagnostics: Diagnostics{Level: "info"},
		Top:         Top{Name: "top", Clock: "clk", Reset: "reset"},
		Lint:        Lint{FailOn: "error"},
	}
}

// Load finds and reads the project file for a design rooted at root.
// Search order is the working directory, root (when different), then
// ~/.config/svmodel/config.yaml.
func Load(root string) (*Config, error) {
	for _, path := range searchPaths(root) {
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return Default(), nil
}

func searchPaths(root string) []string {
	var dirs []string
	cwd, err := os.Getwd()
	if err == nil {
		dirs = append(dirs, cwd)
	}
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil && abs != cwd {
			dirs = append(dirs, abs)
		}
	}

	var paths []string
	for _, dir := range dirs {
		for _, name := range FileNames {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "svmodel", "config.yaml"))
	}
	return paths
}

// LoadFile reads the project file at path. Missing fields keep their
// defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.path = path
	return cfg, nil
}

// Parse decodes a project file. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the config was read from, or "" for defaults.
func (c *Config) Path() string { return c.path }

func (c *Config) applyDefaults() {
	def := Default()
	c.Ext = strings.TrimPrefix(c.Ext, ".")
	if c.Ext == "" {
		c.Ext = def.Ext
	}
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.Diagnostics.Level == "" {
		c.Diagnostics.Level = def.Diagnostics.Level
	}
	if c.Top.Name == "" {
		c.Top.Name = def.Top.Name
	}
	if c.Top.Clock == "" {
		c.Top.Clock = def.Top.Clock
	}
	if c.Top.Reset == "" {
		c.Top.Reset = def.Top.Reset
	}
	if c.Lint.FailOn == "" {
		c.Lint.FailOn = def.Lint.FailOn
	}
}

func (c *Config) validate() error {
	if _, ok := types.ParseSeverity(c.Diagnostics.Level); !ok {
		return fmt.Errorf("diagnostics.level: unknown severity %q", c.Diagnostics.Level)
	}
	for code, sev := range c.Diagnostics.Overrides {
		if _, ok := types.ParseSeverity(sev); !ok {
			return fmt.Errorf("diagnostics.overrides.%s: unknown severity %q", code, sev)
		}
	}
	if _, ok := types.ParseSeverity(c.Lint.FailOn); !ok {
		return fmt.Errorf("lint.fail_on: unknown severity %q", c.Lint.FailOn)
	}
	return nil
}

// DiagnosticConfig converts the diagnostics section. The config must
// have been validated.
func (c *Config) DiagnosticConfig() types.DiagnosticConfig {
	level, _ := types.ParseSeverity(c.Diagnostics.Level)
	dc := types.DiagnosticConfig{Level: level, Ignore: c.Diagnostics.Ignore}
	if len(c.Diagnostics.Overrides) > 0 {
		dc.Overrides = make(map[string]types.Severity, len(c.Diagnostics.Overrides))
		for code, name := range c.Diagnostics.Overrides {
			sev, _ := types.ParseSeverity(name)
			dc.Overrides[code] = sev
		}
	}
	return dc
}

// FailOn returns the lint failure threshold.
func (c *Config) FailOn() types.Severity {
	sev, _ := types.ParseSeverity(c.Lint.FailOn)
	return sev
}
