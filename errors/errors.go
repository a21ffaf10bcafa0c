package errors

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse    Phase = "parse"    // lexing and syntax
	PhaseExtract  Phase = "extract"  // declaration extraction
	PhaseEval     Phase = "eval"     // parameter and width arithmetic
	PhaseLoad     Phase = "load"     // file and directory loading
	PhaseResolve  Phase = "resolve"  // hierarchy binding
	PhaseGenerate Phase = "generate" // top-level synthesis
	PhaseConfig   Phase = "config"   // project configuration
)

// Kind categorizes the error
type Kind string

const (
	KindParse                    Kind = "parse_error"
	KindUnsupportedPortListShape Kind = "unsupported_port_list_shape"
	KindUnsupportedConstruct     Kind = "unsupported_construct"
	KindUnresolvedIdentifier     Kind = "unresolved_identifier"
	KindMalformedExpression      Kind = "malformed_expression"
	KindModuleNotFound           Kind = "module_not_found"
	KindCyclicHierarchy          Kind = "cyclic_hierarchy"
	KindInvalidInput             Kind = "invalid_input"
)

// Sentinels for errors.Is. They match any phase.
var (
	ErrParse                    = &Error{Kind: KindParse}
	ErrUnsupportedPortListShape = &Error{Kind: KindUnsupportedPortListShape}
	ErrUnsupportedConstruct     = &Error{Kind: KindUnsupportedConstruct}
	ErrUnresolvedIdentifier     = &Error{Kind: KindUnresolvedIdentifier}
	ErrMalformedExpression      = &Error{Kind: KindMalformedExpression}
	ErrModuleNotFound           = &Error{Kind: KindModuleNotFound}
	ErrCyclicHierarchy          = &Error{Kind: KindCyclicHierarchy}
	ErrInvalidInput             = &Error{Kind: KindInvalidInput}
)

// Error is the structured error type used throughout svmodel
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Module string
	File   string
	Line   int
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if loc := e.location(); loc != "" {
		b.WriteString(" in ")
		b.WriteString(loc)
	}

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, " -> "))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

func (e *Error) location() string {
	var parts []string
	if e.Module != "" {
		parts = append(parts, "module "+e.Module)
	}
	if e.File != "" {
		f := e.File
		if e.Line > 0 {
			f += ":" + strconv.Itoa(e.Line)
		}
		parts = append(parts, f)
	} else if e.Line > 0 {
		parts = append(parts, "line "+strconv.Itoa(e.Line))
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// WithModule returns a copy of e attributed to module and file, keeping
// fields that are already set.
func (e *Error) WithModule(module, file string) *Error {
	c := *e
	if c.Module == "" {
		c.Module = module
	}
	if c.File == "" {
		c.File = file
	}
	return &c
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Module sets the module the error belongs to
func (b *Builder) Module(name string) *Builder {
	b.err.Module = name
	return b
}

// File sets the source file
func (b *Builder) File(path string) *Builder {
	b.err.File = path
	return b
}

// Line sets the 1-based source line
func (b *Builder) Line(line int) *Builder {
	b.err.Line = line
	return b
}

// Path sets the instantiation path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// Parse creates a syntax error for file at line.
func Parse(file string, line int, detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindParse,
		File:   file,
		Line:   line,
		Detail: detail,
	}
}

// UnsupportedPortList creates an error for a non-ANSI port list.
func UnsupportedPortList(module, shape string) *Error {
	return &Error{
		Phase:  PhaseExtract,
		Kind:   KindUnsupportedPortListShape,
		Module: module,
		Detail: fmt.Sprintf("%s port list is not supported, use an ANSI port list", shape),
	}
}

// Unsupported creates an unsupported construct error.
func Unsupported(phase Phase, module, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedConstruct,
		Module: module,
		Detail: what,
	}
}

// UnresolvedIdentifier creates an error for a name missing from the
// evaluation scope.
func UnresolvedIdentifier(name string) *Error {
	return &Error{
		Phase:  PhaseEval,
		Kind:   KindUnresolvedIdentifier,
		Detail: fmt.Sprintf("identifier %q is not a visible parameter", name),
	}
}

// MalformedExpression creates an error for an expression outside the
// integer arithmetic grammar.
func MalformedExpression(expr, reason string) *Error {
	detail := reason
	if expr != "" {
		detail = fmt.Sprintf("%q: %s", expr, reason)
	}
	return &Error{
		Phase:  PhaseEval,
		Kind:   KindMalformedExpression,
		Detail: detail,
	}
}

// ModuleNotFound creates a not-found error for a module definition.
func ModuleNotFound(phase Phase, name, where string) *Error {
	detail := fmt.Sprintf("module %q not found", name)
	if where != "" {
		detail += " in " + where
	}
	return &Error{
		Phase:  phase,
		Kind:   KindModuleNotFound,
		Module: name,
		Detail: detail,
	}
}

// CyclicHierarchy creates an error for an instantiation cycle. The path
// lists module names from the first repeated module back to itself.
func CyclicHierarchy(path []string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindCyclicHierarchy,
		Path:   path,
		Detail: "module instantiates itself",
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
