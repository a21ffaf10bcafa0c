package design

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/daubuild/svmodel/internal/graph"
	"github.com/daubuild/svmodel/internal/types"
)

// Design is an arena of Modules keyed by name. Instances refer to their
// definitions by module name; Resolve binds each name to an arena slot.
// Modules in the arena are never copied or modified by the Design.
type Design struct {
	modules []*Module
	index   map[string]int

	// bindings maps every bound instance to its definition's arena slot.
	bindings map[*Instance]int
	resolved bool

	diagnostics  []Diagnostic
	resolveDiags []Diagnostic

	log types.Logger
}

// New returns an empty Design. Pass nil for logger to disable logging.
func New(logger *slog.Logger) *Design {
	return &Design{
		index: make(map[string]int),
		log:   types.Logger{L: logger},
	}
}

// Add inserts m under its name. A module whose name is already present
// replaces the earlier one in place, keeping its registry position, and a
// duplicate-module warning is recorded. Adding invalidates any previous
// resolution.
func (d *Design) Add(m *Module) {
	d.resolved = false
	d.bindings = nil
	d.resolveDiags = nil

	if i, ok := d.index[m.Name]; ok {
		prev := d.modules[i]
		d.AddDiagnostic(Diagnostic{
			Severity: SeverityWarning,
			Code:     types.DiagDuplicateModule,
			Message:  fmt.Sprintf("module %s redefined, replacing definition from %s", m.Name, sourceName(prev)),
			Module:   m.Name,
			File:     m.File,
			Line:     m.Line,
		})
		d.modules[i] = m
		return
	}
	d.index[m.Name] = len(d.modules)
	d.modules = append(d.modules, m)
	d.log.Trace("module added", slog.String("module", m.Name), slog.String("kind", m.Kind.String()))
}

func sourceName(m *Module) string {
	if m.File != "" {
		return m.File
	}
	return "text"
}

// AddDiagnostic records a design-level diagnostic, such as a skipped file.
func (d *Design) AddDiagnostic(diag Diagnostic) {
	d.diagnostics = append(d.diagnostics, diag)
}

// Module returns the module with the given name, or nil.
func (d *Design) Module(name string) *Module {
	if i, ok := d.index[name]; ok {
		return d.modules[i]
	}
	return nil
}

// Modules returns every module in registry order.
func (d *Design) Modules() []*Module { return slices.Clone(d.modules) }

// Names returns every module name in registry order.
func (d *Design) Names() []string {
	names := make([]string, len(d.modules))
	for i, m := range d.modules {
		names[i] = m.Name
	}
	return names
}

// Len returns the number of modules.
func (d *Design) Len() int { return len(d.modules) }

// Diagnostics returns design-level diagnostics, then every module's own
// diagnostics in registry order, then those of the last resolution.
func (d *Design) Diagnostics() []Diagnostic {
	out := slices.Clone(d.diagnostics)
	for _, m := range d.modules {
		out = append(out, m.Diagnostics...)
	}
	return append(out, d.resolveDiags...)
}

// HasErrors reports whether any diagnostic is error severity or worse.
func (d *Design) HasErrors() bool {
	return slices.ContainsFunc(d.Diagnostics(), func(diag Diagnostic) bool {
		return diag.Severity.AtLeast(SeverityError)
	})
}

// Tops returns the non-interface modules no other module instantiates,
// in registry order.
func (d *Design) Tops() []string {
	var tops []string
	for _, name := range d.instanceGraph().Roots() {
		if m := d.Module(name); m != nil && !m.IsInterface() {
			tops = append(tops, name)
		}
	}
	return tops
}

// instanceGraph builds the module graph with an edge for every instance
// whose type is in the registry.
func (d *Design) instanceGraph() *graph.Graph {
	g := graph.New()
	for _, m := range d.modules {
		g.AddNode(m.Name)
	}
	for _, m := range d.modules {
		for _, inst := range m.AllInstances() {
			if _, ok := d.index[inst.Type]; ok {
				g.AddEdge(m.Name, inst.Type)
			}
		}
	}
	return g
}

// ElaborationOrder returns module names with every module after the
// modules it instantiates.
func (d *Design) ElaborationOrder() []string {
	order, _ := d.instanceGraph().ElaborationOrder()
	return order
}

// String renders every module in registry order. After Resolve, each
// instance is annotated with its binding.
func (d *Design) String() string {
	var r renderer
	status := func(inst *Instance) string {
		if !d.resolved {
			return "(stub)"
		}
		if def := d.Definition(inst); def != nil {
			return "-> " + def.Name
		}
		return "(unresolved)"
	}
	for i, m := range d.modules {
		if i > 0 {
			r.b.WriteByte('\n')
		}
		r.module(m, status)
	}
	return strings.TrimSuffix(r.b.String(), "\n") + "\n"
}
