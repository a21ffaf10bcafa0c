package design

import (
	"fmt"
	"slices"

	"github.com/daubuild/svmodel/internal/ast"
)

// Kind tags a Module as a module or an interface declaration.
type Kind int

const (
	KindModule Kind = iota
	KindInterface
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindInterface:
		return "interface"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Direction is a port or modport member direction.
type Direction string

const (
	DirInput  Direction = "input"
	DirOutput Direction = "output"
	DirInout  Direction = "inout"
	DirRef    Direction = "ref"
)

// Parameter is an integer parameter or localparam.
type Parameter struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	// Expr is the default value as written.
	Expr  string `json:"expr"`
	Local bool   `json:"local,omitempty"`
	Line  int    `json:"line,omitempty"`
}

// Port is one ANSI port of a module.
type Port struct {
	Name      string    `json:"name"`
	Direction Direction `json:"direction"`
	// Keyword is the net or data type keyword (wire, logic, bit, reg, int,
	// ...) or a user type name; "logic" when the type is implicit.
	Keyword string     `json:"keyword"`
	Signed  bool       `json:"signed,omitempty"`
	Dims    Dimensions `json:"dims"`
	// Unpacked is the unpacked dimension suffix as written, e.g. "[4]".
	Unpacked string `json:"unpacked,omitempty"`
	Line     int    `json:"line,omitempty"`
}

// Wire is an internal net or variable declared in a module body.
type Wire struct {
	Name     string     `json:"name"`
	Keyword  string     `json:"keyword"`
	Signed   bool       `json:"signed,omitempty"`
	Dims     Dimensions `json:"dims"`
	Unpacked string     `json:"unpacked,omitempty"`
	// Text is the full declaration the wire came from.
	Text string `json:"text"`
	Line int    `json:"line,omitempty"`
}

// Assignment is one lhs = rhs pair of a continuous assign. Both sides are
// kept verbatim.
type Assignment struct {
	LHS  string `json:"lhs"`
	RHS  string `json:"rhs"`
	Text string `json:"text"`
	Line int    `json:"line,omitempty"`
}

// BlockKind tags a procedural block by its introducing keyword.
type BlockKind int

const (
	BlockAlwaysComb BlockKind = iota
	BlockAlwaysFF
	BlockAlwaysLatch
	BlockAlways
	BlockInitial
	BlockFinal
)

// BlockKinds lists every procedural block kind in rendering order.
var BlockKinds = []BlockKind{
	BlockAlwaysComb, BlockAlwaysFF, BlockAlwaysLatch, BlockAlways, BlockInitial, BlockFinal,
}

func (k BlockKind) String() string {
	switch k {
	case BlockAlwaysComb:
		return "always_comb"
	case BlockAlwaysFF:
		return "always_ff"
	case BlockAlwaysLatch:
		return "always_latch"
	case BlockAlways:
		return "always"
	case BlockInitial:
		return "initial"
	case BlockFinal:
		return "final"
	default:
		return fmt.Sprintf("block(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k BlockKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// ProceduralBlock is an always, initial or final construct.
type ProceduralBlock struct {
	Kind BlockKind `json:"kind"`
	// Sensitivity is the event control text of an always_ff block, empty
	// for every other kind.
	Sensitivity string `json:"sensitivity,omitempty"`
	Body        string `json:"body"`
	Line        int    `json:"line,omitempty"`
}

// GenerateKind tags a generate construct.
type GenerateKind int

const (
	GenerateRegion GenerateKind = iota
	GenerateFor
	GenerateIf
	GenerateCase
)

func (k GenerateKind) String() string {
	switch k {
	case GenerateRegion:
		return "region"
	case GenerateFor:
		return "for"
	case GenerateIf:
		return "if"
	case GenerateCase:
		return "case"
	default:
		return fmt.Sprintf("generate(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k GenerateKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// GenerateBlock is a generate construct and every instantiation found
// anywhere inside it, depth-first in source order.
type GenerateBlock struct {
	Kind      GenerateKind `json:"kind"`
	Label     string       `json:"label,omitempty"`
	Text      string       `json:"text"`
	Instances []*Instance  `json:"instances,omitempty"`
	Line      int          `json:"line,omitempty"`
}

// LinkKind classifies the actual side of a port connection.
type LinkKind int

const (
	// LinkIdentifier is a plain signal name.
	LinkIdentifier LinkKind = iota
	// LinkScoped is a scoped or hierarchical name (pkg::x, a.b).
	LinkScoped
	// LinkExpression is any other expression, kept as text.
	LinkExpression
	// LinkImplicit is .port, connecting the signal of the same name.
	LinkImplicit
	// LinkEmpty is .port() or an empty positional slot.
	LinkEmpty
)

func (k LinkKind) String() string {
	switch k {
	case LinkIdentifier:
		return "identifier"
	case LinkScoped:
		return "scoped"
	case LinkExpression:
		return "expression"
	case LinkImplicit:
		return "implicit"
	case LinkEmpty:
		return "empty"
	default:
		return fmt.Sprintf("link(%d)", int(k))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k LinkKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Link is one actual-to-formal port connection of an instance.
type Link struct {
	// Port is the formal port name; empty for positional connections.
	Port     string   `json:"port,omitempty"`
	Position int      `json:"position"`
	Actual   string   `json:"actual"`
	Kind     LinkKind `json:"kind"`
}

// ParamOverride is one #(...) parameter value of an instantiation. Name is
// empty for positional overrides.
type ParamOverride struct {
	Name     string `json:"name,omitempty"`
	Position int    `json:"position"`
	Value    string `json:"value"`
}

// Instance is an instantiation stub. It names the instantiated module by
// Type; the definition is bound by the Design, never embedded.
type Instance struct {
	Type   string          `json:"type"`
	Name   string          `json:"name"`
	Params []ParamOverride `json:"params,omitempty"`
	Links  []*Link         `json:"links"`
	// Array is the instance array suffix as written, e.g. "[3:0]".
	Array string `json:"array,omitempty"`
	Line  int    `json:"line,omitempty"`
}

// Link returns the named link for port, or nil.
func (i *Instance) Link(port string) *Link {
	for _, l := range i.Links {
		if l.Port == port {
			return l
		}
	}
	return nil
}

// ModportMember is one signal of a modport with its resolved type.
type ModportMember struct {
	Name      string     `json:"name"`
	Direction Direction  `json:"direction"`
	Keyword   string     `json:"keyword"`
	Dims      Dimensions `json:"dims"`
	// Resolved is false when no declaration of the signal was found and
	// the default type was used.
	Resolved bool `json:"resolved"`
}

// Modport is a named directional view of an interface's signals.
type Modport struct {
	Name    string           `json:"name"`
	Inputs  []*ModportMember `json:"inputs,omitempty"`
	Outputs []*ModportMember `json:"outputs,omitempty"`
	Inouts  []*ModportMember `json:"inouts,omitempty"`
	Line    int              `json:"line,omitempty"`
}

// Members returns every member in input, output, inout order.
func (m *Modport) Members() []*ModportMember {
	return slices.Concat(m.Inputs, m.Outputs, m.Inouts)
}

// Module is the structural record of one module or interface declaration.
type Module struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
	// File is the path the module was loaded from, empty for text input.
	File string `json:"file,omitempty"`
	Line int    `json:"line,omitempty"`

	Parameters []*Parameter       `json:"parameters"`
	Inputs     []*Port            `json:"inputs"`
	Outputs    []*Port            `json:"outputs"`
	Inouts     []*Port            `json:"inouts"`
	Wires      []*Wire            `json:"wires"`
	Assigns    []*Assignment      `json:"assigns"`
	Blocks     []*ProceduralBlock `json:"blocks"`
	Generates  []*GenerateBlock   `json:"generates"`
	Modports   []*Modport         `json:"modports"`
	Instances  []*Instance        `json:"instances"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`

	// Syntax is the declaration the module was extracted from.
	Syntax *ast.UnitDecl `json:"-"`
}

// NewModule returns an empty module with every list allocated, so that
// snapshots encode empty lists rather than null.
func NewModule(kind Kind, name string) *Module {
	return &Module{
		Kind:       kind,
		Name:       name,
		Parameters: []*Parameter{},
		Inputs:     []*Port{},
		Outputs:    []*Port{},
		Inouts:     []*Port{},
		Wires:      []*Wire{},
		Assigns:    []*Assignment{},
		Blocks:     []*ProceduralBlock{},
		Generates:  []*GenerateBlock{},
		Modports:   []*Modport{},
		Instances:  []*Instance{},
	}
}

// IsInterface reports whether the module is an interface declaration.
func (m *Module) IsInterface() bool { return m.Kind == KindInterface }

// Parameter returns the parameter with the given name, or nil.
func (m *Module) Parameter(name string) *Parameter {
	for _, p := range m.Parameters {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Ports returns every port in input, output, inout order.
func (m *Module) Ports() []*Port {
	return slices.Concat(m.Inputs, m.Outputs, m.Inouts)
}

// Port returns the port with the given name, or nil.
func (m *Module) Port(name string) *Port {
	for _, p := range m.Ports() {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Wire returns the wire with the given name, or nil.
func (m *Module) Wire(name string) *Wire {
	for _, w := range m.Wires {
		if w.Name == name {
			return w
		}
	}
	return nil
}

// BlocksOf returns the procedural blocks of one kind in declaration order.
func (m *Module) BlocksOf(kind BlockKind) []*ProceduralBlock {
	var out []*ProceduralBlock
	for _, b := range m.Blocks {
		if b.Kind == kind {
			out = append(out, b)
		}
	}
	return out
}

// AllInstances returns the module's direct instances followed by those
// nested in generate constructs.
func (m *Module) AllInstances() []*Instance {
	out := slices.Clone(m.Instances)
	for _, g := range m.Generates {
		out = append(out, g.Instances...)
	}
	return out
}

// Instance returns the instance with the given name, searching generate
// constructs too, or nil.
func (m *Module) Instance(name string) *Instance {
	for _, inst := range m.AllInstances() {
		if inst.Name == name {
			return inst
		}
	}
	return nil
}

// Modport returns the modport with the given name, or nil.
func (m *Module) Modport(name string) *Modport {
	for _, mp := range m.Modports {
		if mp.Name == name {
			return mp
		}
	}
	return nil
}
