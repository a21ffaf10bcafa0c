package design

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/daubuild/svmodel/errors"
)

// Default clock and reset port names for GenerateTop.
const (
	DefaultClock = "clk"
	DefaultReset = "reset"
)

// GenerateTop returns the source of a wrapper module called name that
// instantiates each selected module once. With no selection every
// non-interface module is instantiated, in registry order.
//
// Inputs named clk or reset are bound to shared wrapper inputs declared
// exactly once. Every other port p of module m is exposed as a wrapper
// port m_p with the same direction, type and dimensions. Non-local
// parameters are passed as #(.P(V)) overrides with their default values.
// Empty clk or reset select the default names.
func (d *Design) GenerateTop(name string, modules []string, clk, reset string) (string, error) {
	if clk == "" {
		clk = DefaultClock
	}
	if reset == "" {
		reset = DefaultReset
	}
	if name == "" {
		return "", errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
			Detail("top module name is empty").Build()
	}

	selected, err := d.selectModules(name, modules)
	if err != nil {
		return "", err
	}

	shared := map[string]bool{clk: true, reset: true}
	ports := []string{"input logic " + clk, "input logic " + reset}
	seen := map[string]string{clk: "clock", reset: "reset"}
	for _, m := range selected {
		for _, p := range m.Ports() {
			if p.Direction == DirInput && shared[p.Name] {
				continue
			}
			wrapper := m.Name + "_" + p.Name
			if owner, ok := seen[wrapper]; ok {
				return "", errors.Unsupported(errors.PhaseGenerate, m.Name,
					fmt.Sprintf("wrapper port %s of port %s collides with %s", wrapper, p.Name, owner))
			}
			seen[wrapper] = "port " + p.Name + " of " + m.Name
			ports = append(ports, wrapperPort(p, wrapper))
		}
	}

	var b strings.Builder
	b.WriteString("module " + name + " (\n")
	writeList(&b, "\t", ports)
	b.WriteString(");\n")

	for _, m := range selected {
		b.WriteByte('\n')
		b.WriteString("\t" + m.Name)
		var overrides []string
		for _, p := range m.Parameters {
			if !p.Local {
				overrides = append(overrides, "."+p.Name+"("+strconv.FormatInt(p.Value, 10)+")")
			}
		}
		if len(overrides) > 0 {
			b.WriteString(" #(" + strings.Join(overrides, ", ") + ")")
		}
		b.WriteString(" " + m.Name + "_inst (")

		var conns []string
		for _, p := range m.Ports() {
			actual := m.Name + "_" + p.Name
			if p.Direction == DirInput && shared[p.Name] {
				actual = p.Name
			}
			conns = append(conns, "."+p.Name+"("+actual+")")
		}
		if len(conns) == 0 {
			b.WriteString(");\n")
			continue
		}
		b.WriteByte('\n')
		writeList(&b, "\t\t", conns)
		b.WriteString("\t);\n")
	}

	b.WriteString("\nendmodule\n")
	return b.String(), nil
}

func (d *Design) selectModules(top string, names []string) ([]*Module, error) {
	if len(names) == 0 {
		var out []*Module
		for _, m := range d.modules {
			if !m.IsInterface() && m.Name != top {
				out = append(out, m)
			}
		}
		return out, nil
	}
	out := make([]*Module, 0, len(names))
	for i, n := range names {
		m := d.Module(n)
		switch {
		case m == nil:
			return nil, errors.ModuleNotFound(errors.PhaseGenerate, n, "design")
		case m.IsInterface():
			return nil, errors.Unsupported(errors.PhaseGenerate, n, "interfaces cannot be instantiated in a generated top")
		case slices.Contains(names[:i], n):
			return nil, errors.Unsupported(errors.PhaseGenerate, n, "module selected more than once")
		case n == top:
			return nil, errors.Unsupported(errors.PhaseGenerate, n, "generated top cannot instantiate itself")
		}
		out = append(out, m)
	}
	return out, nil
}

func wrapperPort(p *Port, name string) string {
	keyword := p.Keyword
	if p.Direction == DirInout && isVariableKeyword(keyword) {
		keyword = "wire"
	}
	return string(p.Direction) + " " + signalText(keyword, p.Signed, p.Dims.AsPacked(), name, p.Unpacked)
}

func isVariableKeyword(kw string) bool {
	switch kw {
	case "logic", "bit", "reg":
		return true
	}
	return false
}

// writeList writes items one per line, comma separated, with no trailing
// comma.
func writeList(b *strings.Builder, indent string, items []string) {
	for i, item := range items {
		b.WriteString(indent + item)
		if i < len(items)-1 {
			b.WriteByte(',')
		}
		b.WriteByte('\n')
	}
}
