package main

import (
	"context"
	"flag"
	"fmt"
	"slices"

	"github.com/daubuild/svmodel"
	"github.com/daubuild/svmodel/internal/policy"
	"github.com/daubuild/svmodel/internal/types"
)

const lintUsage = `svmodel lint - Check the design for structural issues

Usage:
  svmodel lint [options]

Loads and resolves the design directory, then reports its diagnostics
together with the findings of the lint rules. Diagnostics are filtered by
the diagnostics section of the project file.

Rules:
  unresolved-instance         Instance of a module not in the design
  output-not-driven           Output port never assigned or connected
  undeclared-connection       Connection to a signal the parent never declares
  unconnected-port            Empty named or positional connection
  module-without-ports        Instantiated module without ports
  interface-without-modports  Interface declaring no modports
  multiple-tops               More than one top module

Options:
  -d DIR          Design directory (default: .)
  --disable RULE  Disable a rule (repeatable)
  --policy DIR    Add the .rego policies in DIR
  --fail-on SEV   Exit 2 on an issue of SEV or worse: fatal, error,
                  warning, info (default: lint.fail_on or error)
  --json          Output as JSON
  --quiet         No output, exit code only
  -h, --help      Show help

Examples:
  svmodel lint -d rtl
  svmodel lint -d rtl --disable multiple-tops --fail-on warning
  svmodel lint -d rtl --policy policies --json
`

type lintReport struct {
	Diagnostics []svmodel.Diagnostic `json:"diagnostics"`
	Findings    []policy.Finding     `json:"findings"`
	Summary     policy.Summary       `json:"summary"`
}

func (c *cli) cmdLint(args []string) int {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	fs.Usage = func() { _, _ = fmt.Fprint(c.stderr, lintUsage) }

	var disabled []string
	dir := fs.String("d", ".", "design directory")
	fs.Func("disable", "disable a rule", func(s string) error {
		disabled = append(disabled, s)
		return nil
	})
	policyDir := fs.String("policy", "", "extra policy directory")
	failOn := fs.String("fail-on", "", "failure threshold")
	jsonOut := fs.Bool("json", false, "output as JSON")
	quiet := fs.Bool("quiet", false, "no output")
	help := fs.Bool("h", false, "show help")
	fs.BoolVar(help, "help", false, "show help")

	if err := fs.Parse(args); err != nil {
		return exitError
	}
	if *help || c.HelpFlag {
		_, _ = fmt.Fprint(c.stdout, lintUsage)
		return exitOK
	}

	if *policyDir == "" {
		for _, r := range disabled {
			if !slices.Contains(policy.Rules, r) {
				c.printError("unknown rule %q", r)
				return exitError
			}
		}
	}

	d, err := c.loadDesign(*dir)
	if err != nil {
		c.printError("%v", err)
		return exitError
	}
	if err := d.Resolve(); err != nil {
		c.printError("%v", err)
		return exitError
	}

	threshold := c.cfg.FailOn()
	if *failOn != "" {
		sev, ok := types.ParseSeverity(*failOn)
		if !ok {
			c.printError("unknown severity %q", *failOn)
			return exitError
		}
		threshold = sev
	}

	ctx := context.Background()
	opts := []policy.Option{policy.WithDisabled(slices.Concat(c.cfg.Lint.Disable, disabled)...)}
	if *policyDir != "" {
		opts = append(opts, policy.WithPolicyDir(*policyDir))
	}
	if logger := c.setupLogger(); logger != nil {
		opts = append(opts, policy.WithLogger(logger))
	}
	res, err := policy.Lint(ctx, d, opts...)
	if err != nil {
		c.printError("%v", err)
		return exitError
	}

	report := lintReport{
		Diagnostics: d.Report(c.cfg.DiagnosticConfig()),
		Findings:    res.Findings,
		Summary:     res.Summary,
	}
	if report.Diagnostics == nil {
		report.Diagnostics = []svmodel.Diagnostic{}
	}
	for _, diag := range report.Diagnostics {
		report.Summary.Total++
		switch {
		case diag.Severity.AtLeast(svmodel.SeverityError):
			report.Summary.Errors++
		case diag.Severity == svmodel.SeverityWarning:
			report.Summary.Warnings++
		default:
			report.Summary.Info++
		}
	}

	failed := res.Failed(threshold) || slices.ContainsFunc(report.Diagnostics, func(diag svmodel.Diagnostic) bool {
		return diag.Severity.AtLeast(threshold)
	})
	exit := exitOK
	if failed {
		exit = exitLintFailed
	}

	switch {
	case *quiet:
		return exit
	case *jsonOut:
		if code := c.writeJSON("", report, false); code != exitOK {
			return code
		}
		return exit
	}

	pal := c.palette()
	for _, diag := range report.Diagnostics {
		_, _ = fmt.Fprintln(c.stdout, pal.severity(diag.Severity, diagnosticLine(diag)))
	}
	for _, f := range report.Findings {
		_, _ = fmt.Fprintln(c.stdout, pal.severity(f.Severity, f.String()))
	}
	s := report.Summary
	_, _ = fmt.Fprintln(c.stdout, pal.render(pal.dim,
		fmt.Sprintf("%d issues: %d errors, %d warnings, %d info", s.Total, s.Errors, s.Warnings, s.Info)))
	return exit
}
