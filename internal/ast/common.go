// Package ast provides syntax tree types for parsed SystemVerilog source.
package ast

import (
	"slices"

	"github.com/daubuild/svmodel/internal/types"
)

// Ident is an identifier with source location.
type Ident struct {
	Name string
	Span types.Span
}

// NewIdent creates a new identifier.
func NewIdent(name string, span types.Span) Ident {
	return Ident{Name: name, Span: span}
}

// IsZero reports whether the identifier is absent.
func (i Ident) IsZero() bool {
	return i.Name == ""
}

// SourceFile is the root node for one parsed source text.
type SourceFile struct {
	Units       []*UnitDecl
	Span        types.Span
	Diagnostics []types.SpanDiagnostic
}

// HasErrors reports whether any diagnostic has error severity or worse.
func (f *SourceFile) HasErrors() bool {
	return slices.ContainsFunc(f.Diagnostics, func(d types.SpanDiagnostic) bool {
		return d.Severity.AtLeast(types.SeverityError)
	})
}

// FirstError returns the first error diagnostic, if any.
func (f *SourceFile) FirstError() (types.SpanDiagnostic, bool) {
	for _, d := range f.Diagnostics {
		if d.Severity.AtLeast(types.SeverityError) {
			return d, true
		}
	}
	return types.SpanDiagnostic{}, false
}

// Direction is a port or modport member direction.
type Direction int

const (
	// DirNone means no direction keyword was written.
	DirNone Direction = iota
	DirInput
	DirOutput
	DirInout
	DirRef
)

func (d Direction) String() string {
	switch d {
	case DirInput:
		return "input"
	case DirOutput:
		return "output"
	case DirInout:
		return "inout"
	case DirRef:
		return "ref"
	default:
		return ""
	}
}
