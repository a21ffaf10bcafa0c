package design

import (
	"strconv"
	"strings"
)

// String renders an indented dump of every substructure in declaration
// order. Rendering the same Module always yields the same text.
func (m *Module) String() string {
	var r renderer
	r.module(m, nil)
	return r.b.String()
}

type renderer struct {
	b     strings.Builder
	depth int
}

func (r *renderer) line(parts ...string) {
	for range r.depth {
		r.b.WriteByte('\t')
	}
	for _, p := range parts {
		r.b.WriteString(p)
	}
	r.b.WriteByte('\n')
}

func (r *renderer) section(title string, n int, each func(i int)) {
	if n == 0 {
		return
	}
	r.line(title, ":")
	r.depth++
	for i := range n {
		each(i)
	}
	r.depth--
}

// module renders m. status, when non-nil, annotates each instance with
// its binding.
func (r *renderer) module(m *Module, status func(*Instance) string) {
	head := m.Kind.String() + " " + m.Name
	if m.File != "" {
		head += " (" + m.File + ")"
	}
	r.line(head)
	r.depth++
	defer func() { r.depth-- }()

	r.section("parameters", len(m.Parameters), func(i int) {
		p := m.Parameters[i]
		kw := "parameter"
		if p.Local {
			kw = "localparam"
		}
		v := strconv.FormatInt(p.Value, 10)
		if p.Expr != v {
			v += " (" + p.Expr + ")"
		}
		r.line(kw, " ", p.Name, " = ", v)
	})
	for _, group := range []struct {
		title string
		ports []*Port
	}{{"inputs", m.Inputs}, {"outputs", m.Outputs}, {"inouts", m.Inouts}} {
		r.section(group.title, len(group.ports), func(i int) {
			r.line(portText(group.ports[i]))
		})
	}
	r.section("wires", len(m.Wires), func(i int) {
		w := m.Wires[i]
		r.line(signalText(w.Keyword, w.Signed, w.Dims, w.Name, w.Unpacked))
	})
	r.section("assigns", len(m.Assigns), func(i int) {
		a := m.Assigns[i]
		r.line(a.LHS, " = ", a.RHS)
	})
	for _, kind := range BlockKinds {
		blocks := m.BlocksOf(kind)
		r.section(kind.String(), len(blocks), func(i int) {
			b := blocks[i]
			text := oneLine(b.Body)
			if b.Sensitivity != "" {
				text = b.Sensitivity + " " + text
			}
			r.line(text)
		})
	}
	r.section("generates", len(m.Generates), func(i int) {
		g := m.Generates[i]
		head := g.Kind.String()
		if g.Label != "" {
			head += " " + g.Label
		}
		r.line(head)
		r.depth++
		for _, inst := range g.Instances {
			r.instance(inst, status)
		}
		r.depth--
	})
	r.section("modports", len(m.Modports), func(i int) {
		mp := m.Modports[i]
		r.line(mp.Name)
		r.depth++
		for _, mm := range mp.Members() {
			text := string(mm.Direction) + " " + signalText(mm.Keyword, false, mm.Dims, mm.Name, "")
			if !mm.Resolved {
				text += " (unresolved)"
			}
			r.line(text)
		}
		r.depth--
	})
	r.section("instances", len(m.Instances), func(i int) {
		r.instance(m.Instances[i], status)
	})
}

func (r *renderer) instance(inst *Instance, status func(*Instance) string) {
	text := inst.Name + inst.Array + ": " + InstanceText(inst)
	if status != nil {
		text += " " + status(inst)
	}
	r.line(text)
}

// InstanceText renders an instantiation as type #(params) (links).
func InstanceText(inst *Instance) string {
	var b strings.Builder
	b.WriteString(inst.Type)
	if len(inst.Params) > 0 {
		b.WriteString(" #(")
		for i, p := range inst.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			if p.Name != "" {
				b.WriteString("." + p.Name + "(" + p.Value + ")")
			} else {
				b.WriteString(p.Value)
			}
		}
		b.WriteByte(')')
	}
	b.WriteString(" (")
	for i, l := range inst.Links {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(LinkText(l))
	}
	b.WriteByte(')')
	return b.String()
}

// LinkText renders one connection as it would be written in source.
func LinkText(l *Link) string {
	switch {
	case l.Port == "":
		return l.Actual
	case l.Kind == LinkImplicit:
		return "." + l.Port
	default:
		return "." + l.Port + "(" + l.Actual + ")"
	}
}

func portText(p *Port) string {
	return string(p.Direction) + " " + signalText(p.Keyword, p.Signed, p.Dims, p.Name, p.Unpacked)
}

func signalText(keyword string, signed bool, dims Dimensions, name, unpacked string) string {
	parts := make([]string, 0, 5)
	parts = append(parts, keyword)
	if signed {
		parts = append(parts, "signed")
	}
	if d := dims.String(); d != "" {
		parts = append(parts, d)
	}
	parts = append(parts, name)
	text := strings.Join(parts, " ")
	if unpacked != "" {
		text += " " + unpacked
	}
	return text
}

// oneLine collapses runs of whitespace so multi-line bodies render on one
// line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
