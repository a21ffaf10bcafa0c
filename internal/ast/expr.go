package ast

import "github.com/daubuild/svmodel/internal/types"

// Expr is an expression node.
type Expr interface {
	ExprSpan() types.Span
	exprNode()
}

// IdentExpr is a simple, system ($clog2) or macro (`W) identifier.
type IdentExpr struct {
	Name   string
	System bool
	Macro  bool
	Span   types.Span
}

// ScopedExpr is scope::name.
type ScopedExpr struct {
	Scope Expr
	Name  Ident
	Span  types.Span
}

// MemberExpr is x.name (hierarchical or member access).
type MemberExpr struct {
	X    Expr
	Name Ident
	Span types.Span
}

// IndexExpr is x[index].
type IndexExpr struct {
	X     Expr
	Index Expr
	Span  types.Span
}

// RangeExpr is x[left:right], x[base+:width] or x[base-:width].
type RangeExpr struct {
	X     Expr
	Op    string
	Left  Expr
	Right Expr
	Span  types.Span
}

// LitKind classifies literals.
type LitKind int

const (
	// LitDecimal is an unsized decimal number.
	LitDecimal LitKind = iota
	// LitBased is a sized or unsized based literal (8'hFF, 'd3).
	LitBased
	// LitUnbased is '0, '1, 'x or 'z.
	LitUnbased
	// LitReal is a real number.
	LitReal
	// LitString is a quoted string.
	LitString
)

// LiteralExpr is a number or string literal. Text is the source spelling.
type LiteralExpr struct {
	Kind LitKind
	Text string
	Span types.Span
}

// UnaryExpr is op x.
type UnaryExpr struct {
	Op   string
	X    Expr
	Span types.Span
}

// BinaryExpr is x op y.
type BinaryExpr struct {
	Op   string
	X    Expr
	Y    Expr
	Span types.Span
}

// TernaryExpr is cond ? then : else.
type TernaryExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Span types.Span
}

// ParenExpr is (x).
type ParenExpr struct {
	X    Expr
	Span types.Span
}

// CallExpr is fun(args...).
type CallExpr struct {
	Fun  Expr
	Args []Expr
	Span types.Span
}

// ConcatExpr is {a, b, ...}.
type ConcatExpr struct {
	Elems []Expr
	Span  types.Span
}

// ReplicateExpr is {count{elems...}}.
type ReplicateExpr struct {
	Count Expr
	Elems []Expr
	Span  types.Span
}

// OpaqueExpr covers expression forms kept as text only (assignment
// patterns, casts, streaming concatenations, type references).
type OpaqueExpr struct {
	Span types.Span
}

func (e *IdentExpr) ExprSpan() types.Span     { return e.Span }
func (e *ScopedExpr) ExprSpan() types.Span    { return e.Span }
func (e *MemberExpr) ExprSpan() types.Span    { return e.Span }
func (e *IndexExpr) ExprSpan() types.Span     { return e.Span }
func (e *RangeExpr) ExprSpan() types.Span     { return e.Span }
func (e *LiteralExpr) ExprSpan() types.Span   { return e.Span }
func (e *UnaryExpr) ExprSpan() types.Span     { return e.Span }
func (e *BinaryExpr) ExprSpan() types.Span    { return e.Span }
func (e *TernaryExpr) ExprSpan() types.Span   { return e.Span }
func (e *ParenExpr) ExprSpan() types.Span     { return e.Span }
func (e *CallExpr) ExprSpan() types.Span      { return e.Span }
func (e *ConcatExpr) ExprSpan() types.Span    { return e.Span }
func (e *ReplicateExpr) ExprSpan() types.Span { return e.Span }
func (e *OpaqueExpr) ExprSpan() types.Span    { return e.Span }

func (*IdentExpr) exprNode()     {}
func (*ScopedExpr) exprNode()    {}
func (*MemberExpr) exprNode()    {}
func (*IndexExpr) exprNode()     {}
func (*RangeExpr) exprNode()     {}
func (*LiteralExpr) exprNode()   {}
func (*UnaryExpr) exprNode()     {}
func (*BinaryExpr) exprNode()    {}
func (*TernaryExpr) exprNode()   {}
func (*ParenExpr) exprNode()     {}
func (*CallExpr) exprNode()      {}
func (*ConcatExpr) exprNode()    {}
func (*ReplicateExpr) exprNode() {}
func (*OpaqueExpr) exprNode()    {}

// IsName reports whether e is a plain, scoped or hierarchical name
// (a, pkg::a, a.b.c) with no selects or operators.
func IsName(e Expr) bool {
	switch x := e.(type) {
	case *IdentExpr:
		return !x.System
	case *ScopedExpr:
		return IsName(x.Scope)
	case *MemberExpr:
		return IsName(x.X)
	default:
		return false
	}
}
