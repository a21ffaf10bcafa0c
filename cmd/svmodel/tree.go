package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/daubuild/svmodel"
)

const treeUsage = `svmodel tree - Print the instance hierarchy

Usage:
  svmodel tree [options] [TOP...]

Loads the design directory, resolves every instantiation and prints the
hierarchy below each TOP. Without TOP, every top module is printed.

With --by-name, only TOP is loaded up front and each instantiated module
is then looked up as {dir}/{name}.{ext}, falling back to the configured
library directories. Exactly one TOP is required.

Options:
  -d DIR       Design directory (default: .)
  --by-name    Load definitions by file name on demand
  -h, --help   Show help

Examples:
  svmodel tree -d rtl
  svmodel tree -d rtl soc_top
  svmodel tree -d rtl --by-name soc_top
`

func (c *cli) cmdTree(args []string) int {
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() { _, _ = fmt.Fprint(c.stderr, treeUsage) }

	dir := fs.String("d", ".", "design directory")
	byName := fs.Bool("by-name", false, "load definitions by file name")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(c.stdout, treeUsage)
		return exitOK
	}

	var (
		d    *svmodel.Design
		tops = fs.Args()
		err  error
	)
	if *byName {
		if len(tops) != 1 {
			c.printError("--by-name needs exactly one top module")
			return exitError
		}
		d, err = c.resolveByName(*dir, tops[0])
	} else {
		d, err = c.loadDesign(*dir)
		if err == nil {
			c.printDiagnostics(d.Diagnostics(), svmodel.SeverityError)
			err = d.Resolve()
		}
	}
	if err != nil {
		c.printError("%v", err)
		return exitError
	}

	if len(tops) == 0 {
		tops = d.Tops()
	}
	if len(tops) == 0 {
		c.printError("no top module found in %s", *dir)
		return exitError
	}

	pal := c.palette()
	for _, top := range tops {
		node, err := d.Elaborate(top)
		if err != nil {
			c.printError("%v", err)
			return exitError
		}
		writeTree(c.stdout, node, pal)
	}
	return exitOK
}

func (c *cli) resolveByName(dir, top string) (*svmodel.Design, error) {
	if err := c.loadConfig(dir); err != nil {
		return nil, err
	}
	opts := c.options()
	mod, err := svmodel.FromModule(top, dir, c.cfg.Ext, opts...)
	if err != nil {
		return nil, err
	}
	return svmodel.ResolveFromDir(context.Background(), mod, dir, c.cfg.Ext, opts...)
}

// writeTree prints node and its descendants with box-drawing branches.
func writeTree(w io.Writer, node *svmodel.Node, pal palette) {
	_, _ = fmt.Fprintln(w, pal.render(pal.module, node.Module.Name))
	var walk func(n *svmodel.Node, prefix string)
	walk = func(n *svmodel.Node, prefix string) {
		for i, child := range n.Children {
			branch, next := "├── ", "│   "
			if i == len(n.Children)-1 {
				branch, next = "└── ", "    "
			}
			_, _ = fmt.Fprintln(w, prefix+branch+nodeLabel(child, pal))
			walk(child, prefix+next)
		}
	}
	walk(node, "")
}

func nodeLabel(n *svmodel.Node, pal palette) string {
	var b strings.Builder
	b.WriteString(pal.render(pal.inst, n.Instance.Name))
	if n.Instance.Array != "" {
		b.WriteString(n.Instance.Array)
	}
	b.WriteString(": ")
	if n.Module == nil {
		b.WriteString(pal.render(pal.errs, n.Instance.Type+" (unresolved)"))
		return b.String()
	}
	b.WriteString(pal.render(pal.module, n.Module.Name))
	if n.Module.IsInterface() {
		b.WriteString(" " + pal.render(pal.dim, "(interface)"))
	}
	return b.String()
}
