package main

import (
	"encoding/json"
	"flag"
	"fmt"

	"github.com/daubuild/svmodel/cmd/internal/cliutil"
	"github.com/daubuild/svmodel/internal/validator"
)

const dumpUsage = `svmodel dump - Output the design as JSON

Usage:
  svmodel dump [options]

Loads and resolves the design directory and writes its snapshot: every
module, the instance bindings, the top modules and all diagnostics.

Options:
  -d DIR         Design directory (default: .)
  -o FILE        Write to FILE instead of stdout
  --validate     Check the snapshot against the JSON schema before writing
  --compact      Write compact JSON
  --no-resolve   Dump the registry without resolving instances
  -h, --help     Show help

Examples:
  svmodel dump -d rtl
  svmodel dump -d rtl --validate -o design.json
`

func (c *cli) cmdDump(args []string) int {
	fs := flag.NewFlagSet("dump", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() { _, _ = fmt.Fprint(c.stderr, dumpUsage) }

	dir := fs.String("d", ".", "design directory")
	output := fs.String("o", "", "output file")
	validate := fs.Bool("validate", false, "validate against the schema")
	compact := fs.Bool("compact", false, "compact JSON")
	noResolve := fs.Bool("no-resolve", false, "skip resolution")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(c.stdout, dumpUsage)
		return exitOK
	}

	d, err := c.loadDesign(*dir)
	if err != nil {
		c.printError("%v", err)
		return exitError
	}
	if !*noResolve {
		if err := d.Resolve(); err != nil {
			c.printError("%v", err)
			return exitError
		}
	}
	snap := d.Snapshot()

	if *validate {
		v, err := validator.New()
		if err != nil {
			c.printError("%v", err)
			return exitError
		}
		if errs := v.Errors(snap); len(errs) > 0 {
			for _, e := range errs {
				c.printError("%s", e)
			}
			return exitError
		}
	}

	return c.writeJSON(*output, snap, *compact)
}

func (c *cli) writeJSON(output string, v any, compact bool) int {
	w, closeOut, err := cliutil.GetOutput(output, c.stdout)
	if err != nil {
		c.printError("%v", err)
		return exitError
	}
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		_ = closeOut()
		c.printError("encoding JSON: %v", err)
		return exitError
	}
	if err := closeOut(); err != nil {
		c.printError("%v", err)
		return exitError
	}
	return exitOK
}
