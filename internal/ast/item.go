package ast

import "github.com/daubuild/svmodel/internal/types"

// Item is a module, interface or generate block item.
type Item interface {
	ItemSpan() types.Span
	itemNode()
}

// DataDecl is a net or variable declaration with one or more declarators.
type DataDecl struct {
	// NetType is the net keyword (wire, tri, ...) or empty for variables.
	NetType string
	Var     bool
	Const   bool
	// Type is never nil; net declarations without a data type carry an
	// implicit type.
	Type        *DataType
	Declarators []*Declarator
	Span        types.Span
}

func (*DataDecl) itemNode()              {}
func (d *DataDecl) ItemSpan() types.Span { return d.Span }

// Declarator is one name in a data declaration.
type Declarator struct {
	Name     Ident
	Unpacked []*Dimension
	// UnpackedSpan covers all unpacked dimensions; empty when there are none.
	UnpackedSpan types.Span
	Init         Expr
	Span         types.Span
}

// PortDecl is a non-ANSI port direction declaration in the module body.
type PortDecl struct {
	Direction Direction
	NetType   string
	Type      *DataType
	Names     []Ident
	Span      types.Span
}

func (*PortDecl) itemNode()              {}
func (d *PortDecl) ItemSpan() types.Span { return d.Span }

// ContinuousAssign is an assign statement with one or more assignments.
type ContinuousAssign struct {
	Assignments []*Assignment
	Span        types.Span
}

func (*ContinuousAssign) itemNode()              {}
func (a *ContinuousAssign) ItemSpan() types.Span { return a.Span }

// Assignment is one lhs = rhs pair.
type Assignment struct {
	LHS  Expr
	RHS  Expr
	Span types.Span
}

// ProcKind is the keyword that introduced a procedural block.
type ProcKind int

const (
	ProcAlways ProcKind = iota
	ProcAlwaysComb
	ProcAlwaysFF
	ProcAlwaysLatch
	ProcInitial
	ProcFinal
)

// ProceduralBlock is an always/initial/final construct.
type ProceduralBlock struct {
	Kind ProcKind
	// Timing covers a leading event control (@(...), @*, #delay); empty if none.
	Timing types.Span
	// Body covers the statement following the keyword and timing control.
	Body types.Span
	Span types.Span
}

func (*ProceduralBlock) itemNode()              {}
func (b *ProceduralBlock) ItemSpan() types.Span { return b.Span }

// Instantiation is a hierarchy instantiation: Type #(params) inst(...), ...;
type Instantiation struct {
	Type      Ident
	Params    []*ParamAssign
	Instances []*HierInstance
	Span      types.Span
}

func (*Instantiation) itemNode()              {}
func (i *Instantiation) ItemSpan() types.Span { return i.Span }

// ParamAssign is one parameter value assignment; Name is empty when ordered.
type ParamAssign struct {
	Name  Ident
	Value Expr
	Span  types.Span
}

// HierInstance is one instance within an instantiation.
type HierInstance struct {
	Name        Ident
	Unpacked    []*Dimension
	Connections []*PortConnection
	Span        types.Span
}

// ConnKind classifies a port connection.
type ConnKind int

const (
	// ConnOrdered is a positional connection.
	ConnOrdered ConnKind = iota
	// ConnNamed is .port(expr) or .port().
	ConnNamed
	// ConnImplicit is .port.
	ConnImplicit
	// ConnWildcard is .*.
	ConnWildcard
)

// PortConnection is one port connection of an instance. Expr is nil for
// empty connections.
type PortConnection struct {
	Kind ConnKind
	Name Ident
	Expr Expr
	Span types.Span
}

// ModportDecl is a modport declaration with one or more items.
type ModportDecl struct {
	Items []*ModportItem
	Span  types.Span
}

func (*ModportDecl) itemNode()              {}
func (d *ModportDecl) ItemSpan() types.Span { return d.Span }

// ModportItem is name(ports...).
type ModportItem struct {
	Name  Ident
	Ports []*ModportPort
	Span  types.Span
}

// ModportPort is one simple modport port. Expr is set for .name(expr).
type ModportPort struct {
	Direction Direction
	Name      Ident
	Expr      Expr
	Span      types.Span
}

// GenerateRegion is generate ... endgenerate.
type GenerateRegion struct {
	Items []Item
	Span  types.Span
}

func (*GenerateRegion) itemNode()              {}
func (r *GenerateRegion) ItemSpan() types.Span { return r.Span }

// LoopGenerate is for (init; cond; step) body.
type LoopGenerate struct {
	Genvar Ident
	// Header covers the parenthesized loop control.
	Header types.Span
	Body   Item
	Span   types.Span
}

func (*LoopGenerate) itemNode()              {}
func (g *LoopGenerate) ItemSpan() types.Span { return g.Span }

// IfGenerate is if (cond) then [else else].
type IfGenerate struct {
	Cond Expr
	Then Item
	// Else is nil when there is no else branch.
	Else Item
	Span types.Span
}

func (*IfGenerate) itemNode()              {}
func (g *IfGenerate) ItemSpan() types.Span { return g.Span }

// CaseGenerate is case (expr) items endcase.
type CaseGenerate struct {
	Expr  Expr
	Items []*CaseGenerateItem
	Span  types.Span
}

func (*CaseGenerate) itemNode()              {}
func (g *CaseGenerate) ItemSpan() types.Span { return g.Span }

// CaseGenerateItem is one arm of a case generate.
type CaseGenerateItem struct {
	Exprs   []Expr
	Default bool
	Body    Item
	Span    types.Span
}

// GenerateBlock is a begin [: label] ... end block inside a generate construct.
type GenerateBlock struct {
	Label Ident
	Items []Item
	Span  types.Span
}

func (*GenerateBlock) itemNode()              {}
func (b *GenerateBlock) ItemSpan() types.Span { return b.Span }

// GenvarDecl is genvar i, j;
type GenvarDecl struct {
	Names []Ident
	Span  types.Span
}

func (*GenvarDecl) itemNode()              {}
func (d *GenvarDecl) ItemSpan() types.Span { return d.Span }

// SkippedItem is a construct the parser consumed without modeling
// (functions, tasks, typedefs, imports, assertions, ...).
type SkippedItem struct {
	What string
	Span types.Span
}

func (*SkippedItem) itemNode()              {}
func (s *SkippedItem) ItemSpan() types.Span { return s.Span }

// NullItem is a lone semicolon.
type NullItem struct {
	Span types.Span
}

func (*NullItem) itemNode()              {}
func (n *NullItem) ItemSpan() types.Span { return n.Span }
