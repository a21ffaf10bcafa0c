// Command svmodel loads SystemVerilog sources, resolves their module
// hierarchy and generates top-level wrappers.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"

	"github.com/daubuild/svmodel"
	"github.com/daubuild/svmodel/cmd/internal/cliutil"
	"github.com/daubuild/svmodel/internal/config"
)

// Exit codes.
const (
	exitOK         = 0 // success
	exitError      = 1 // user error or processing failure
	exitLintFailed = 2 // lint found issues at or above the failure threshold
)

const usage = `svmodel - SystemVerilog structural model tool

Usage:
  svmodel <command> [options] [arguments]

Commands:
  parse   Parse one file and print its modules
  list    List modules found under a directory
  tree    Print the instance hierarchy
  dump    Output the design as JSON
  top     Generate a top-level wrapper module
  lint    Check the design for structural issues
  version Show version

Common options:
  -c, --config FILE  Project file (default: svmodel.yaml discovery)
  --ext EXT          Source extension for directory loads (default: sv)
  --no-color         Disable styled output
  -v, --verbose      Enable debug logging
  -vv                Enable trace logging (implies -v)
  -h, --help         Show help

Examples:
  svmodel parse rtl/fifo.sv
  svmodel tree -d rtl soc_top
  svmodel dump -d rtl --validate
  svmodel top -d rtl -n chip -m fifo -m adder -o chip.sv
  svmodel lint -d rtl
`

type cli struct {
	cliutil.GlobalFlags
	stdout io.Writer
	stderr io.Writer
	cfg    *config.Config
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	flags, cmd, cmdArgs := cliutil.ParseArgs(args)
	c := &cli{GlobalFlags: flags, stdout: stdout, stderr: stderr}

	if c.HelpFlag && cmd == "" {
		_, _ = fmt.Fprint(stdout, usage)
		return exitOK
	}
	if cmd == "" {
		_, _ = fmt.Fprint(stderr, usage)
		return exitError
	}

	switch cmd {
	case "parse":
		return c.cmdParse(cmdArgs)
	case "list":
		return c.cmdList(cmdArgs)
	case "tree":
		return c.cmdTree(cmdArgs)
	case "dump":
		return c.cmdDump(cmdArgs)
	case "top":
		return c.cmdTop(cmdArgs)
	case "lint":
		return c.cmdLint(cmdArgs)
	case "version":
		c.printVersion()
		return exitOK
	case "help":
		_, _ = fmt.Fprint(stdout, usage)
		return exitOK
	default:
		_, _ = fmt.Fprintf(stderr, "unknown command: %s\n\n", cmd)
		_, _ = fmt.Fprint(stderr, usage)
		return exitError
	}
}

func (c *cli) setupLogger() *slog.Logger {
	if c.Verbose == 0 {
		return nil
	}
	level := slog.LevelDebug
	if c.Verbose >= 2 {
		level = svmodel.LevelTrace
	}
	return slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// loadConfig reads the project file named by -c, or discovers one for a
// design rooted at dir.
func (c *cli) loadConfig(dir string) error {
	var (
		cfg *config.Config
		err error
	)
	if c.Config != "" {
		cfg, err = config.LoadFile(c.Config)
	} else {
		cfg, err = config.Load(dir)
	}
	if err != nil {
		return err
	}
	if c.Ext != "" {
		cfg.Ext = c.Ext
	}
	c.cfg = cfg
	return nil
}

// options returns library options from the project file and flags.
// loadConfig must have been called.
func (c *cli) options() []svmodel.Option {
	opts := []svmodel.Option{
		svmodel.WithConcurrency(c.cfg.Concurrency),
		svmodel.WithDiagnosticConfig(c.cfg.DiagnosticConfig()),
	}
	if len(c.cfg.LibDirs) > 0 {
		opts = append(opts, svmodel.WithLibraryPaths(c.cfg.LibDirs...))
	}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, svmodel.WithLogger(logger))
	}
	return opts
}

// loadDesign loads every source under dir with the project settings.
func (c *cli) loadDesign(dir string) (*svmodel.Design, error) {
	if err := c.loadConfig(dir); err != nil {
		return nil, err
	}
	return svmodel.LoadDir(context.Background(), dir, c.cfg.Ext, c.options()...)
}

func (c *cli) printError(format string, args ...any) {
	cliutil.PrintError(c.stderr, format, args...)
}

func (c *cli) printVersion() {
	version := "(devel)"
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		version = info.Main.Version
	}
	_, _ = fmt.Fprintf(c.stdout, "svmodel %s\n", version)
}

// printDiagnostics writes the diagnostics at least as severe as level to
// stderr and reports whether any of them is an error.
func (c *cli) printDiagnostics(diags []svmodel.Diagnostic, level svmodel.Severity) bool {
	pal := newPalette(cliutil.ColorEnabled(c.stderr, c.NoColor))
	failed := false
	for _, diag := range diags {
		if !diag.Severity.AtLeast(level) {
			continue
		}
		if diag.Severity.AtLeast(svmodel.SeverityError) {
			failed = true
		}
		_, _ = fmt.Fprintln(c.stderr, pal.severity(diag.Severity, diagnosticLine(diag)))
	}
	return failed
}

// diagnosticLine renders diag followed by its code.
func diagnosticLine(diag svmodel.Diagnostic) string {
	return diag.String() + " (" + diag.Code + ")"
}
