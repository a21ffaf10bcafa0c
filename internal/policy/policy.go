// Package policy evaluates structural lint rules against a design.
//
// Rules are Rego policies in package svmodel.lint evaluated over the
// JSON snapshot of a design. The built-in rules are embedded; extra
// policy files may add findings to the same package.
package policy

import (
	"cmp"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/open-policy-agent/opa/v1/rego"
	"github.com/open-policy-agent/opa/v1/storage/inmem"

	"github.com/daubuild/svmodel/design"
	"github.com/daubuild/svmodel/internal/types"
)

//go:embed rules/*.rego
var builtin embed.FS

const (
	reportQuery  = "data.svmodel.lint.report"
	summaryQuery = "data.svmodel.lint.summary"
)

// Rules lists the built-in rule names.
var Rules = []string{
	"unresolved-instance",
	"output-not-driven",
	"undeclared-connection",
	"unconnected-port",
	"module-without-ports",
	"interface-without-modports",
	"multiple-tops",
}

// Finding is one rule violation.
type Finding struct {
	Rule     string         `json:"rule"`
	Severity types.Severity `json:"severity"`
	Module   string         `json:"module,omitempty"`
	File     string         `json:"file,omitempty"`
	Line     int            `json:"line,omitempty"`
	Message  string         `json:"message"`
}

func (f Finding) String() string {
	d := types.Diagnostic{
		Severity: f.Severity,
		Code:     f.Rule,
		Message:  f.Message,
		Module:   f.Module,
		File:     f.File,
		Line:     f.Line,
	}
	return d.String() + " (" + f.Rule + ")"
}

// Summary counts findings by severity.
type Summary struct {
	Total    int `json:"total"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Result is the outcome of one evaluation.
type Result struct {
	Findings []Finding `json:"findings"`
	Summary  Summary   `json:"summary"`
}

// Failed reports whether any finding is at least as severe as level.
func (r *Result) Failed(level types.Severity) bool {
	return slices.ContainsFunc(r.Findings, func(f Finding) bool {
		return f.Severity.AtLeast(level)
	})
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	logger    *slog.Logger
	disabled  []string
	policyDir string
}

// WithLogger sets the logger for policy evaluation.
func WithLogger(logger *slog.Logger) Option {
	return func(c *engineConfig) { c.logger = logger }
}

// WithDisabled turns off rules by name.
func WithDisabled(rules ...string) Option {
	return func(c *engineConfig) { c.disabled = append(c.disabled, rules...) }
}

// WithPolicyDir adds every .rego file in dir to the built-in rules.
func WithPolicyDir(dir string) Option {
	return func(c *engineConfig) { c.policyDir = dir }
}

// Engine holds prepared lint queries.
type Engine struct {
	report  rego.PreparedEvalQuery
	summary rego.PreparedEvalQuery
	types.Logger
}

// New compiles the built-in rules and any extra policies.
func New(ctx context.Context, opts ...Option) (*Engine, error) {
	var cfg engineConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	e := &Engine{Logger: types.Logger{L: types.Component(cfg.logger, "policy")}}

	modules, err := loadModules(cfg.policyDir)
	if err != nil {
		return nil, err
	}
	disabled := make([]any, len(cfg.disabled))
	for i, r := range cfg.disabled {
		disabled[i] = r
	}
	store := inmem.NewFromObject(map[string]any{
		"svmodel": map[string]any{
			"config": map[string]any{"disabled": disabled},
		},
	})

	prepare := func(query string) (rego.PreparedEvalQuery, error) {
		args := []func(*rego.Rego){rego.Query(query), rego.Store(store)}
		for name, src := range modules {
			args = append(args, rego.Module(name, src))
		}
		pq, err := rego.New(args...).PrepareForEval(ctx)
		if err != nil {
			return pq, fmt.Errorf("preparing %s: %w", query, err)
		}
		return pq, nil
	}
	if e.report, err = prepare(reportQuery); err != nil {
		return nil, err
	}
	if e.summary, err = prepare(summaryQuery); err != nil {
		return nil, err
	}
	e.Log(slog.LevelDebug, "policy engine ready",
		slog.Int("modules", len(modules)),
		slog.Int("disabled", len(cfg.disabled)))
	return e, nil
}

func loadModules(dir string) (map[string]string, error) {
	modules := make(map[string]string)
	err := fs.WalkDir(builtin, "rules", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		src, err := builtin.ReadFile(path)
		if err != nil {
			return err
		}
		modules[path] = string(src)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading built-in rules: %w", err)
	}
	if dir == "" {
		return modules, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.rego"))
	if err != nil {
		return nil, fmt.Errorf("finding policy files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no policy files found in %s", dir)
	}
	for _, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", f, err)
		}
		modules[f] = string(src)
	}
	return modules, nil
}

// Evaluate runs the rules against a design snapshot. Findings are ordered
// by severity, then module, line and rule.
func (e *Engine) Evaluate(ctx context.Context, snap *design.Snapshot) (*Result, error) {
	input, err := toInput(snap)
	if err != nil {
		return nil, fmt.Errorf("converting input: %w", err)
	}

	result := &Result{Findings: []Finding{}}
	if err := evalInto(ctx, e.report, input, &result.Findings); err != nil {
		return nil, fmt.Errorf("evaluating findings: %w", err)
	}
	if err := evalInto(ctx, e.summary, input, &result.Summary); err != nil {
		return nil, fmt.Errorf("evaluating summary: %w", err)
	}
	slices.SortFunc(result.Findings, func(a, b Finding) int {
		return cmp.Or(
			cmp.Compare(a.Severity, b.Severity),
			cmp.Compare(a.Module, b.Module),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Rule, b.Rule),
			cmp.Compare(a.Message, b.Message),
		)
	})
	e.Log(slog.LevelDebug, "policy evaluated",
		slog.Int("findings", len(result.Findings)))
	return result, nil
}

// Lint evaluates a design with a fresh engine.
func Lint(ctx context.Context, d *design.Design, opts ...Option) (*Result, error) {
	e, err := New(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(ctx, d.Snapshot())
}

func toInput(snap *design.Snapshot) (map[string]any, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	var input map[string]any
	err = json.Unmarshal(data, &input)
	return input, err
}

// evalInto runs a prepared query and decodes its single value into out.
// An undefined result leaves out unchanged.
func evalInto(ctx context.Context, q rego.PreparedEvalQuery, input map[string]any, out any) error {
	rs, err := q.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return err
	}
	if len(rs) == 0 || len(rs[0].Expressions) == 0 {
		return nil
	}
	data, err := json.Marshal(rs[0].Expressions[0].Value)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
