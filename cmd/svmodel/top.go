package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/daubuild/svmodel"
	"github.com/daubuild/svmodel/cmd/internal/cliutil"
)

const topUsage = `svmodel top - Generate a top-level wrapper module

Usage:
  svmodel top [options]

Writes a module that instantiates each selected module once. Clock and
reset inputs are shared; every other port p of module m becomes a wrapper
port m_p. Parameters are passed with their default values.

Defaults for -n, --clk, --reset and -m come from the top section of the
project file.

Options:
  -d DIR        Design directory (default: .)
  -n NAME       Wrapper module name (default: top)
  -m MODULE     Module to instantiate (repeatable, default: all modules)
  --tops        Instantiate only the design's top modules
  --clk NAME    Shared clock port name (default: clk)
  --reset NAME  Shared reset port name (default: reset)
  -o FILE       Write to FILE instead of stdout
  -h, --help    Show help

Examples:
  svmodel top -d rtl -n chip -m fifo -m adder
  svmodel top -d rtl --tops -o chip_top.sv
`

func (c *cli) cmdTop(args []string) int {
	fs := flag.NewFlagSet("top", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() { _, _ = fmt.Fprint(c.stderr, topUsage) }

	var modules []string
	dir := fs.String("d", ".", "design directory")
	name := fs.String("n", "", "wrapper module name")
	fs.Func("m", "module to instantiate", func(s string) error {
		modules = append(modules, s)
		return nil
	})
	topsOnly := fs.Bool("tops", false, "instantiate top modules")
	clk := fs.String("clk", "", "clock port name")
	reset := fs.String("reset", "", "reset port name")
	output := fs.String("o", "", "output file")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(c.stdout, topUsage)
		return exitOK
	}

	d, err := c.loadDesign(*dir)
	if err != nil {
		c.printError("%v", err)
		return exitError
	}
	c.printDiagnostics(d.Diagnostics(), svmodel.SeverityError)

	top := c.cfg.Top
	if *name != "" {
		top.Name = *name
	}
	if *clk != "" {
		top.Clock = *clk
	}
	if *reset != "" {
		top.Reset = *reset
	}
	switch {
	case len(modules) > 0 && *topsOnly:
		c.printError("-m and --tops are mutually exclusive")
		return exitError
	case len(modules) > 0:
		top.Modules = modules
	case *topsOnly:
		top.Modules = d.Tops()
	}

	src, err := d.GenerateTop(top.Name, top.Modules, top.Clock, top.Reset)
	if err != nil {
		c.printError("%v", err)
		return exitError
	}

	w, closeOut, err := cliutil.GetOutput(*output, c.stdout)
	if err != nil {
		c.printError("%v", err)
		return exitError
	}
	if _, err := io.WriteString(w, src); err != nil {
		_ = closeOut()
		c.printError("%v", err)
		return exitError
	}
	if err := closeOut(); err != nil {
		c.printError("%v", err)
		return exitError
	}
	return exitOK
}
