package ast

import "github.com/daubuild/svmodel/internal/types"

// UnitKind distinguishes module declarations from interface declarations.
type UnitKind int

const (
	UnitModule UnitKind = iota
	UnitInterface
)

func (k UnitKind) String() string {
	if k == UnitInterface {
		return "interface"
	}
	return "module"
}

// UnitDecl is a module or interface declaration.
type UnitDecl struct {
	Kind UnitKind
	Name Ident
	// Params holds the #(...) parameter port list, in order.
	Params []*ParamDecl
	// Ports is nil when the header has no port list at all.
	Ports *PortList
	Items []Item
	Span  types.Span
}

// PortListShape classifies the header port list.
type PortListShape int

const (
	// PortListAnsi is module m(input a, output b).
	PortListAnsi PortListShape = iota
	// PortListNonAnsi is module m(a, b) with directions declared in the body.
	PortListNonAnsi
	// PortListWildcard is module m(.*).
	PortListWildcard
)

func (s PortListShape) String() string {
	switch s {
	case PortListAnsi:
		return "ansi"
	case PortListNonAnsi:
		return "non-ansi"
	case PortListWildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}

// PortList is the parenthesized port list of a module header.
type PortList struct {
	Shape PortListShape
	Ports []*AnsiPort
	// Names holds the port identifiers of a non-ANSI list.
	Names []Ident
	Span  types.Span
}

// AnsiPort is one ANSI-style port declaration. Direction, NetType and Type
// hold only what was written for this port; inheritance from the previous
// port is applied during extraction.
type AnsiPort struct {
	Direction Direction
	NetType   string
	Var       bool
	Type      *DataType
	// Interface is set for interface-typed ports (intf.mp name, interface name).
	Interface *InterfaceRef
	Name      Ident
	Unpacked  []*Dimension
	Default   Expr
	Span      types.Span
}

// InterfaceRef names the interface (and optional modport) of an interface port.
type InterfaceRef struct {
	Interface Ident
	Modport   Ident
	Generic   bool
	Span      types.Span
}

// ParamDecl is one parameter declarator from a parameter port list or a
// parameter/localparam item.
type ParamDecl struct {
	Local bool
	// TypeParam is set for "parameter type T = ...".
	TypeParam bool
	Type      *DataType
	Name      Ident
	Unpacked  []*Dimension
	// Value is nil when no default is given.
	Value Expr
	// ValueSpan covers the default text; for type parameters it covers the type.
	ValueSpan types.Span
	InHeader  bool
	Span      types.Span
}

func (*ParamDecl) itemNode()              {}
func (d *ParamDecl) ItemSpan() types.Span { return d.Span }

// TypeKind classifies a data type.
type TypeKind int

const (
	// TypeImplicit has no type keyword; only signing and packed dimensions.
	TypeImplicit TypeKind = iota
	// TypeVector is logic, reg or bit.
	TypeVector
	// TypeAtom is byte, shortint, int, longint, integer or time.
	TypeAtom
	// TypeReal is real, shortreal or realtime.
	TypeReal
	// TypeString is string.
	TypeString
	// TypeUser is a named type (typedef, class, package-scoped type).
	TypeUser
	// TypeAggregate is an inline enum, struct or union.
	TypeAggregate
	// TypeOther is any other type form (type(expr), event, chandle, void).
	TypeOther
)

// DataType is a parsed data type reference.
type DataType struct {
	Kind TypeKind
	// Keyword is the type keyword or user type name as written.
	Keyword string
	Signed  bool
	Packed  []*Dimension
	Span    types.Span
}

// DimKind classifies a bracketed dimension.
type DimKind int

const (
	// DimRange is [left:right].
	DimRange DimKind = iota
	// DimSingle is [size].
	DimSingle
	// DimUnsized is [].
	DimUnsized
	// DimAssoc is [*] or [type].
	DimAssoc
	// DimQueue is [$] or [$:N].
	DimQueue
)

// Dimension is one bracketed dimension.
type Dimension struct {
	Kind  DimKind
	Left  Expr
	Right Expr
	Span  types.Span
}
