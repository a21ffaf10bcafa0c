package design

import (
	"encoding/json"
)

// Snapshot is the serializable view of a Design.
type Snapshot struct {
	Modules     []*Module    `json:"modules"`
	Bindings    []Binding    `json:"bindings"`
	Tops        []string     `json:"tops"`
	Resolved    bool         `json:"resolved"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Binding records where one instance is bound.
type Binding struct {
	Parent   string `json:"parent"`
	Instance string `json:"instance"`
	Type     string `json:"type"`
	// Definition is the bound module name, empty for an unresolved stub.
	Definition string `json:"definition,omitempty"`
}

// Snapshot returns the current state of the design. Bindings are only
// present once the design is resolved.
func (d *Design) Snapshot() *Snapshot {
	s := &Snapshot{
		Modules:     d.Modules(),
		Bindings:    []Binding{},
		Tops:        d.Tops(),
		Resolved:    d.resolved,
		Diagnostics: d.Diagnostics(),
	}
	if s.Tops == nil {
		s.Tops = []string{}
	}
	if s.Diagnostics == nil {
		s.Diagnostics = []Diagnostic{}
	}
	if !d.resolved {
		return s
	}
	for _, m := range d.modules {
		for _, inst := range m.AllInstances() {
			b := Binding{Parent: m.Name, Instance: inst.Name, Type: inst.Type}
			if def := d.Definition(inst); def != nil {
				b.Definition = def.Name
			}
			s.Bindings = append(s.Bindings, b)
		}
	}
	return s
}

// MarshalJSON encodes the design snapshot.
func (d *Design) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Snapshot())
}
