package extract

import (
	"log/slog"

	"github.com/daubuild/svmodel/design"
	"github.com/daubuild/svmodel/internal/ast"
)

// extractInstantiations records the instantiations written directly in the
// module body. Instantiations inside generate constructs are recorded by
// extractGenerates.
func (ctx *Context) extractInstantiations() error {
	for _, item := range ctx.unit.Items {
		inst, ok := item.(*ast.Instantiation)
		if !ok {
			continue
		}
		stubs, err := ctx.instances(inst)
		if err != nil {
			return err
		}
		ctx.mod.Instances = append(ctx.mod.Instances, stubs...)
	}
	return nil
}

// instances builds one stub per instance of an instantiation.
func (ctx *Context) instances(inst *ast.Instantiation) ([]*design.Instance, error) {
	var params []design.ParamOverride
	for i, pa := range inst.Params {
		params = append(params, design.ParamOverride{
			Name:     pa.Name.Name,
			Position: i,
			Value:    ctx.exprText(pa.Value),
		})
	}

	out := make([]*design.Instance, 0, len(inst.Instances))
	for _, h := range inst.Instances {
		stub := &design.Instance{
			Type:   inst.Type.Name,
			Name:   h.Name.Name,
			Params: params,
			Links:  []*design.Link{},
			Line:   ctx.line(h.Span),
		}
		if len(h.Unpacked) > 0 {
			stub.Array = ctx.text(spanOf(h.Unpacked))
		}
		for i, c := range h.Connections {
			link, err := ctx.link(stub, i, c)
			if err != nil {
				return nil, err
			}
			stub.Links = append(stub.Links, link)
		}
		ctx.Trace("instance",
			slog.String("type", stub.Type),
			slog.String("name", stub.Name),
			slog.Int("links", len(stub.Links)))
		out = append(out, stub)
	}
	return out, nil
}

func (ctx *Context) link(stub *design.Instance, position int, c *ast.PortConnection) (*design.Link, error) {
	link := &design.Link{Port: c.Name.Name, Position: position}
	switch c.Kind {
	case ast.ConnWildcard:
		return nil, ctx.unsupported(c.Span, "wildcard port connection on instance %s of %s", stub.Name, stub.Type)
	case ast.ConnImplicit:
		link.Actual = c.Name.Name
		link.Kind = design.LinkImplicit
		return link, nil
	}

	link.Actual = ctx.exprText(c.Expr)
	switch x := c.Expr.(type) {
	case nil:
		link.Kind = design.LinkEmpty
	case *ast.IdentExpr:
		if x.System || x.Macro {
			link.Kind = design.LinkExpression
		} else {
			link.Kind = design.LinkIdentifier
		}
	default:
		if ast.IsName(c.Expr) {
			link.Kind = design.LinkScoped
		} else {
			link.Kind = design.LinkExpression
		}
	}
	return link, nil
}

// extractGenerates records each generate construct written directly in
// the module body, with every instantiation nested anywhere inside it.
func (ctx *Context) extractGenerates() error {
	for _, item := range ctx.unit.Items {
		var g *design.GenerateBlock
		switch x := item.(type) {
		case *ast.GenerateRegion:
			g = &design.GenerateBlock{Kind: design.GenerateRegion}
		case *ast.LoopGenerate:
			g = &design.GenerateBlock{Kind: design.GenerateFor, Label: blockLabel(x.Body)}
		case *ast.IfGenerate:
			g = &design.GenerateBlock{Kind: design.GenerateIf, Label: blockLabel(x.Then)}
		case *ast.CaseGenerate:
			g = &design.GenerateBlock{Kind: design.GenerateCase}
			if len(x.Items) > 0 {
				g.Label = blockLabel(x.Items[0].Body)
			}
		default:
			continue
		}
		g.Text = ctx.text(item.ItemSpan())
		g.Line = ctx.line(item.ItemSpan())
		for _, inst := range ast.Instantiations(item) {
			stubs, err := ctx.instances(inst)
			if err != nil {
				return err
			}
			g.Instances = append(g.Instances, stubs...)
		}
		ctx.mod.Generates = append(ctx.mod.Generates, g)
	}
	return nil
}

// blockLabel returns the label of a generate block body, or "".
func blockLabel(item ast.Item) string {
	if b, ok := item.(*ast.GenerateBlock); ok {
		return b.Label.Name
	}
	return ""
}
