package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/daubuild/svmodel"
)

const parseUsage = `svmodel parse - Parse files and print their modules

Usage:
  svmodel parse [options] FILE...

Prints the structural model of every module and interface declared in
the given files. A file with a syntax error fails the command.

Options:
  --json       Output modules as JSON
  -h, --help   Show help

Examples:
  svmodel parse rtl/fifo.sv
  svmodel parse --json rtl/stream.sv
`

func (c *cli) cmdParse(args []string) int {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() { _, _ = fmt.Fprint(c.stderr, parseUsage) }

	jsonOut := fs.Bool("json", false, "output as JSON")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(c.stdout, parseUsage)
		return exitOK
	}
	files := fs.Args()
	if len(files) == 0 {
		c.printError("no files given")
		_, _ = fmt.Fprint(c.stderr, parseUsage)
		return exitError
	}

	if err := c.loadConfig(filepath.Dir(files[0])); err != nil {
		c.printError("%v", err)
		return exitError
	}
	d, err := svmodel.LoadFiles(context.Background(), files, c.options()...)
	if err != nil {
		c.printError("%v", err)
		return exitError
	}

	if c.printDiagnostics(d.Diagnostics(), svmodel.SeverityInfo) {
		return exitError
	}

	if *jsonOut {
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(d.Modules()); err != nil {
			c.printError("encoding JSON: %v", err)
			return exitError
		}
		return exitOK
	}
	for i, m := range d.Modules() {
		if i > 0 {
			_, _ = fmt.Fprintln(c.stdout)
		}
		_, _ = fmt.Fprint(c.stdout, m.String())
	}
	return exitOK
}
