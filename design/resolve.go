package design

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/daubuild/svmodel/errors"
	"github.com/daubuild/svmodel/internal/types"
)

// Resolve binds every instance of every module, including instances
// nested in generate constructs, to the registry entry of its module
// type. Instances whose type is not in the registry stay stubs and are
// reported with an instance-unresolved warning.
//
// Resolve fails with a CyclicHierarchy error, leaving any previous
// resolution in place, when modules instantiate each other in a cycle.
// Resolving again without adding modules yields the same bindings and
// diagnostics.
func (d *Design) Resolve() error {
	g := d.instanceGraph()
	if cycles := g.FindCycles(); len(cycles) > 0 {
		path := g.CyclePath(cycles[0])
		d.log.Log(slog.LevelDebug, "instantiation cycle", slog.String("path", strings.Join(path, " -> ")))
		return errors.CyclicHierarchy(path)
	}

	bindings := make(map[*Instance]int)
	var diags []Diagnostic
	for _, m := range d.modules {
		for _, inst := range m.AllInstances() {
			idx, ok := d.index[inst.Type]
			if !ok {
				diags = append(diags, Diagnostic{
					Severity: SeverityWarning,
					Code:     types.DiagInstanceUnresolved,
					Message:  fmt.Sprintf("instance %s: module %s not found", inst.Name, inst.Type),
					Module:   m.Name,
					File:     m.File,
					Line:     inst.Line,
				})
				continue
			}
			bindings[inst] = idx
			diags = append(diags, checkLinks(m, inst, d.modules[idx])...)
		}
	}

	d.bindings = bindings
	d.resolveDiags = diags
	d.resolved = true
	d.log.Log(slog.LevelDebug, "design resolved",
		slog.Int("modules", len(d.modules)),
		slog.Int("bound", len(bindings)),
		slog.Int("diagnostics", len(diags)))
	return nil
}

// checkLinks compares an instance's connections with its definition's
// ports.
func checkLinks(parent *Module, inst *Instance, def *Module) []Diagnostic {
	var diags []Diagnostic
	report := func(format string, args ...any) {
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Code:     types.DiagLinkCount,
			Message:  fmt.Sprintf("instance %s of %s: ", inst.Name, def.Name) + fmt.Sprintf(format, args...),
			Module:   parent.Name,
			File:     parent.File,
			Line:     inst.Line,
		})
	}
	ports := len(def.Ports())
	positional := 0
	for _, l := range inst.Links {
		if l.Port == "" {
			positional++
			continue
		}
		if def.Port(l.Port) == nil {
			report("no port named %s", l.Port)
		}
	}
	if positional > ports {
		report("%d positional connections for %d ports", positional, ports)
	}
	return diags
}

// IsResolved reports whether Resolve has run since the last Add.
func (d *Design) IsResolved() bool { return d.resolved }

// Definition returns the module inst is bound to, or nil when the design
// is not resolved or inst is an unresolved stub.
func (d *Design) Definition(inst *Instance) *Module {
	if idx, ok := d.bindings[inst]; ok {
		return d.modules[idx]
	}
	return nil
}

// Unresolved returns every instance left as a stub by the last Resolve,
// as parent module and instance pairs in registry order.
func (d *Design) Unresolved() []InstanceRef {
	var out []InstanceRef
	if !d.resolved {
		return out
	}
	for _, m := range d.modules {
		for _, inst := range m.AllInstances() {
			if _, ok := d.bindings[inst]; !ok {
				out = append(out, InstanceRef{Parent: m.Name, Instance: inst})
			}
		}
	}
	return out
}

// InstanceRef locates an instance by its parent module.
type InstanceRef struct {
	Parent   string
	Instance *Instance
}

// Node is one instance in an elaborated hierarchy.
type Node struct {
	// Instance is nil for the top node.
	Instance *Instance
	// Module is the bound definition, nil for an unresolved stub.
	Module   *Module
	Path     string
	Children []*Node
}

// Name returns the instance name, or the module name for the top node.
func (n *Node) Name() string {
	if n.Instance != nil {
		return n.Instance.Name
	}
	if n.Module != nil {
		return n.Module.Name
	}
	return ""
}

// Walk calls fn for n and its descendants depth-first. Returning false
// from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(cur) {
			continue
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}

// String renders the hierarchy one instance per line.
func (n *Node) String() string {
	var b strings.Builder
	var write func(n *Node, depth int)
	write = func(n *Node, depth int) {
		b.WriteString(strings.Repeat("\t", depth))
		switch {
		case n.Instance == nil:
			b.WriteString(n.Module.Name)
		case n.Module == nil:
			b.WriteString(n.Instance.Name + ": " + n.Instance.Type + " (unresolved)")
		default:
			b.WriteString(n.Instance.Name + ": " + n.Module.Name)
		}
		b.WriteByte('\n')
		for _, c := range n.Children {
			write(c, depth+1)
		}
	}
	write(n, 0)
	return b.String()
}

// Elaborate resolves the design if needed and returns the instance tree
// below top. Every node keeps its own Instance, so two instances of one
// module type stay distinct while sharing the definition.
func (d *Design) Elaborate(top string) (*Node, error) {
	root := d.Module(top)
	if root == nil {
		return nil, errors.ModuleNotFound(errors.PhaseResolve, top, "design")
	}
	if !d.resolved {
		if err := d.Resolve(); err != nil {
			return nil, err
		}
	}

	visiting := make(map[string]bool)
	var stack []string
	var build func(n *Node) error
	build = func(n *Node) error {
		name := n.Module.Name
		if visiting[name] {
			i := slices.Index(stack, name)
			return errors.CyclicHierarchy(append(slices.Clone(stack[i:]), name))
		}
		visiting[name] = true
		stack = append(stack, name)
		defer func() {
			visiting[name] = false
			stack = stack[:len(stack)-1]
		}()
		for _, inst := range n.Module.AllInstances() {
			child := &Node{
				Instance: inst,
				Module:   d.Definition(inst),
				Path:     n.Path + "." + inst.Name,
			}
			n.Children = append(n.Children, child)
			if child.Module != nil {
				if err := build(child); err != nil {
					return err
				}
			}
		}
		return nil
	}

	node := &Node{Module: root, Path: root.Name}
	if err := build(node); err != nil {
		return nil, err
	}
	return node, nil
}
