package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"slices"

	"github.com/daubuild/svmodel"
)

const listUsage = `svmodel list - List modules found under a directory

Usage:
  svmodel list [options]

Loads every source file under the directory and lists the declared module
and interface names in load order. Files that fail to parse are reported
on stderr and skipped.

Options:
  -d DIR       Design directory (default: .)
  --tops       List only top modules
  --count      Print only the module count
  --json       Output as JSON array
  -h, --help   Show help

Examples:
  svmodel list -d rtl
  svmodel list -d rtl --tops
  svmodel list -d rtl --json
`

type listEntry struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
	File string `json:"file,omitempty"`
	Top  bool   `json:"top,omitempty"`
}

func (c *cli) cmdList(args []string) int {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() { _, _ = fmt.Fprint(c.stderr, listUsage) }

	dir := fs.String("d", ".", "design directory")
	topsOnly := fs.Bool("tops", false, "list only top modules")
	count := fs.Bool("count", false, "print only module count")
	jsonOut := fs.Bool("json", false, "output as JSON array")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(c.stdout, listUsage)
		return exitOK
	}

	d, err := c.loadDesign(*dir)
	if err != nil {
		c.printError("%v", err)
		return exitError
	}
	c.printDiagnostics(d.Diagnostics(), svmodel.SeverityError)

	tops := d.Tops()
	var entries []listEntry
	for _, m := range d.Modules() {
		top := slices.Contains(tops, m.Name)
		if *topsOnly && !top {
			continue
		}
		entries = append(entries, listEntry{Name: m.Name, Kind: m.Kind.String(), File: m.File, Top: top})
	}

	if *count {
		_, _ = fmt.Fprintln(c.stdout, len(entries))
		return exitOK
	}
	if *jsonOut {
		if entries == nil {
			entries = []listEntry{}
		}
		enc := json.NewEncoder(c.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(entries); err != nil {
			c.printError("encoding JSON: %v", err)
			return exitError
		}
		return exitOK
	}
	pal := c.palette()
	for _, e := range entries {
		line := pal.render(pal.module, e.Name)
		if e.Kind != "module" {
			line += " " + pal.render(pal.dim, "("+e.Kind+")")
		}
		_, _ = fmt.Fprintln(c.stdout, line)
	}
	return exitOK
}
