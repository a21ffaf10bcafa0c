package extract

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/daubuild/svmodel/design"
	"github.com/daubuild/svmodel/internal/ast"
	"github.com/daubuild/svmodel/internal/types"
)

// unresolvedKeyword types a modport member with no declaration.
const unresolvedKeyword = "input"

// bodySignals builds the table of nets and variables declared directly in
// the module body. It runs once; the modport and wire passes share it.
func (ctx *Context) bodySignals() error {
	if ctx.signals != nil {
		return nil
	}
	ctx.signals = make(map[string]*design.Wire)
	for _, item := range ctx.unit.Items {
		decl, ok := item.(*ast.DataDecl)
		if !ok {
			continue
		}
		if decl.Const {
			continue
		}
		switch decl.Type.Kind {
		case ast.TypeUser, ast.TypeAggregate, ast.TypeOther:
			ctx.info(types.DiagUserTypeSkipped, decl.Span,
				fmt.Sprintf("declaration of %s with type %s is not modeled", declNames(decl), ctx.text(decl.Type.Span)))
			continue
		}

		dims, err := ctx.dimensions(decl.Type)
		if err != nil {
			return err
		}
		kw := keyword(decl.NetType, decl.Type)
		for _, d := range decl.Declarators {
			name := d.Name.Name
			if _, dup := ctx.signals[name]; dup || ctx.mod.Port(name) != nil {
				return ctx.duplicate(d.Name.Span, "signal", name)
			}
			unpacked, err := ctx.unpacked(d.Unpacked, "signal "+name)
			if err != nil {
				return err
			}
			w := &design.Wire{
				Name:     name,
				Keyword:  kw,
				Signed:   decl.Type.Signed,
				Dims:     dims,
				Unpacked: unpacked,
				Text:     ctx.text(decl.Span),
				Line:     ctx.line(d.Span),
			}
			ctx.signals[name] = w
			ctx.body = append(ctx.body, w)
		}
	}
	return nil
}

func declNames(decl *ast.DataDecl) string {
	names := make([]string, len(decl.Declarators))
	for i, d := range decl.Declarators {
		names[i] = d.Name.Name
	}
	return strings.Join(names, ", ")
}

// extractWires records the body signals in declaration order.
func (ctx *Context) extractWires() error {
	if err := ctx.bodySignals(); err != nil {
		return err
	}
	ctx.mod.Wires = append(ctx.mod.Wires, ctx.body...)
	return nil
}

// extractModports records each modport with its members' types. A member
// is typed from the body signal of the same name, then from the ports;
// when neither exists it gets the default type and a warning.
func (ctx *Context) extractModports() error {
	if err := ctx.bodySignals(); err != nil {
		return err
	}
	for _, item := range ctx.unit.Items {
		decl, ok := item.(*ast.ModportDecl)
		if !ok {
			continue
		}
		for _, mi := range decl.Items {
			if ctx.mod.Modport(mi.Name.Name) != nil {
				return ctx.duplicate(mi.Name.Span, "modport", mi.Name.Name)
			}
			mp := &design.Modport{Name: mi.Name.Name, Line: ctx.line(mi.Span)}
			for _, p := range mi.Ports {
				m := ctx.modportMember(mp.Name, p)
				switch m.Direction {
				case design.DirInput:
					mp.Inputs = append(mp.Inputs, m)
				case design.DirOutput:
					mp.Outputs = append(mp.Outputs, m)
				default:
					mp.Inouts = append(mp.Inouts, m)
				}
			}
			ctx.mod.Modports = append(ctx.mod.Modports, mp)
			ctx.Trace("modport", slog.String("name", mp.Name), slog.Int("members", len(mp.Members())))
		}
	}
	return nil
}

func (ctx *Context) modportMember(modport string, p *ast.ModportPort) *design.ModportMember {
	m := &design.ModportMember{
		Name:      p.Name.Name,
		Direction: direction(p.Direction),
	}
	target := p.Name.Name
	if p.Expr != nil {
		id, ok := p.Expr.(*ast.IdentExpr)
		if !ok {
			target = ""
		} else {
			target = id.Name
		}
	}

	if w, ok := ctx.signals[target]; ok {
		m.Keyword, m.Dims, m.Resolved = w.Keyword, w.Dims, true
		return m
	}
	if port := ctx.mod.Port(target); port != nil && target != "" {
		m.Keyword, m.Dims, m.Resolved = port.Keyword, port.Dims, true
		return m
	}
	m.Keyword = unresolvedKeyword
	ctx.warn(types.DiagModportUnresolved, p.Span,
		fmt.Sprintf("modport %s: no declaration found for %s", modport, p.Name.Name))
	return m
}
