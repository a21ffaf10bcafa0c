// Package extract builds design.Module records from parsed module and
// interface declarations.
//
// Extraction runs a fixed sequence of passes over one declaration:
// parameters, ports, instantiations, modports, wires, continuous
// assignments, procedural blocks and generate constructs. Later passes
// see the parameters of earlier ones; a width expression only sees the
// parameters declared before it.
package extract

import (
	"log/slog"
	"strings"

	"github.com/daubuild/svmodel/design"
	"github.com/daubuild/svmodel/errors"
	"github.com/daubuild/svmodel/internal/ast"
	"github.com/daubuild/svmodel/internal/types"
)

// Context tracks state while extracting one declaration.
type Context struct {
	source []byte
	lines  types.LineTable
	file   string
	unit   *ast.UnitDecl
	mod    *design.Module

	params  []visibleParam
	signals map[string]*design.Wire
	body    []*design.Wire

	// Diagnostics collected during extraction.
	Diagnostics []types.Diagnostic
	types.Logger
}

// Module extracts the structural record of unit. source is the text unit
// was parsed from and lines its line table (built from source when nil).
// file labels the module and its diagnostics; it may be empty.
// If logger is nil, logging is disabled.
func Module(unit *ast.UnitDecl, source []byte, lines types.LineTable, file string, logger *slog.Logger) (*design.Module, error) {
	if lines == nil {
		lines = types.BuildLineTable(source)
	}
	kind := design.KindModule
	if unit.Kind == ast.UnitInterface {
		kind = design.KindInterface
	}
	ctx := &Context{
		source: source,
		lines:  lines,
		file:   file,
		unit:   unit,
		mod:    design.NewModule(kind, unit.Name.Name),
		Logger: types.Logger{L: logger},
	}
	ctx.mod.File = file
	ctx.mod.Line = ctx.line(unit.Name.Span)
	ctx.mod.Syntax = unit

	ctx.Log(slog.LevelDebug, "extracting module",
		slog.String("module", unit.Name.Name),
		slog.String("kind", kind.String()))

	passes := []struct {
		name string
		run  func() error
	}{
		{"parameters", ctx.extractParameters},
		{"ports", ctx.extractPorts},
		{"instantiations", ctx.extractInstantiations},
		{"modports", ctx.extractModports},
		{"wires", ctx.extractWires},
		{"assigns", ctx.extractAssigns},
		{"blocks", ctx.extractBlocks},
		{"generates", ctx.extractGenerates},
		{"skipped", ctx.reportSkipped},
	}
	for _, pass := range passes {
		if err := pass.run(); err != nil {
			ctx.Log(slog.LevelDebug, "extraction failed",
				slog.String("module", unit.Name.Name),
				slog.String("pass", pass.name),
				slog.String("error", err.Error()))
			return nil, err
		}
		ctx.Trace("pass complete", slog.String("module", unit.Name.Name), slog.String("pass", pass.name))
	}

	ctx.mod.Diagnostics = ctx.Diagnostics
	ctx.Log(slog.LevelDebug, "extraction complete",
		slog.String("module", ctx.mod.Name),
		slog.Int("parameters", len(ctx.mod.Parameters)),
		slog.Int("ports", len(ctx.mod.Ports())),
		slog.Int("wires", len(ctx.mod.Wires)),
		slog.Int("instances", len(ctx.mod.Instances)),
		slog.Int("generates", len(ctx.mod.Generates)))
	return ctx.mod, nil
}

// text returns the source covered by span with surrounding space removed.
func (ctx *Context) text(span types.Span) string {
	return strings.TrimSpace(span.Text(ctx.source))
}

func (ctx *Context) exprText(e ast.Expr) string {
	if e == nil {
		return ""
	}
	return ctx.text(e.ExprSpan())
}

func (ctx *Context) line(span types.Span) int {
	line, _ := ctx.lines.Position(span.Start)
	return line
}

// warn records a warning located at span.
func (ctx *Context) warn(code string, span types.Span, message string) {
	ctx.addDiagnostic(types.SeverityWarning, code, span, message)
}

func (ctx *Context) info(code string, span types.Span, message string) {
	ctx.addDiagnostic(types.SeverityInfo, code, span, message)
}

func (ctx *Context) addDiagnostic(sev types.Severity, code string, span types.Span, message string) {
	ctx.Diagnostics = append(ctx.Diagnostics, types.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  message,
		Module:   ctx.mod.Name,
		File:     ctx.file,
		Line:     ctx.line(span),
	})
	ctx.Trace("diagnostic", slog.String("code", code), slog.String("message", message))
}

// locate attributes err to this module and the line of span.
func (ctx *Context) locate(err error, span types.Span) error {
	e, ok := err.(*errors.Error)
	if !ok {
		return err
	}
	e = e.WithModule(ctx.mod.Name, ctx.file)
	if e.Line == 0 {
		e.Line = ctx.line(span)
	}
	return e
}

func (ctx *Context) unsupported(span types.Span, format string, args ...any) error {
	return errors.New(errors.PhaseExtract, errors.KindUnsupportedConstruct).
		Module(ctx.mod.Name).
		File(ctx.file).
		Line(ctx.line(span)).
		Detail(format, args...).
		Build()
}

func (ctx *Context) duplicate(span types.Span, what, name string) error {
	return errors.New(errors.PhaseExtract, errors.KindInvalidInput).
		Module(ctx.mod.Name).
		File(ctx.file).
		Line(ctx.line(span)).
		Detail("%s %s declared twice", what, name).
		Build()
}
