package extract

import (
	"fmt"

	"github.com/daubuild/svmodel/design"
	"github.com/daubuild/svmodel/internal/ast"
	"github.com/daubuild/svmodel/internal/eval"
	"github.com/daubuild/svmodel/internal/types"
)

// visibleParam is an evaluated parameter and where it was declared.
type visibleParam struct {
	name  string
	value int64
	start types.ByteOffset
}

// scopeAt returns the parameters declared before offset.
func (ctx *Context) scopeAt(offset types.ByteOffset) eval.Params {
	scope := make(eval.Params, len(ctx.params))
	for _, p := range ctx.params {
		if p.start < offset {
			scope[p.name] = p.value
		}
	}
	return scope
}

// extractParameters records the header parameter port list, then body
// parameter and localparam items, in declaration order. Type parameters
// and parameters without an integer value are reported and skipped.
func (ctx *Context) extractParameters() error {
	decls := append([]*ast.ParamDecl{}, ctx.unit.Params...)
	for _, item := range ctx.unit.Items {
		if p, ok := item.(*ast.ParamDecl); ok {
			decls = append(decls, p)
		}
	}

	for _, d := range decls {
		name := d.Name.Name
		switch {
		case d.TypeParam:
			ctx.info(types.DiagParameterValue, d.Span, fmt.Sprintf("type parameter %s is not modeled", name))
			continue
		case d.Value == nil:
			ctx.warn(types.DiagParameterValue, d.Span, fmt.Sprintf("parameter %s has no default value", name))
			continue
		case d.Type != nil && (d.Type.Kind == ast.TypeReal || d.Type.Kind == ast.TypeString):
			ctx.info(types.DiagParameterValue, d.Span, fmt.Sprintf("%s parameter %s is not modeled", d.Type.Keyword, name))
			continue
		case len(d.Unpacked) > 0:
			ctx.info(types.DiagParameterValue, d.Span, fmt.Sprintf("array parameter %s is not modeled", name))
			continue
		}
		if ctx.mod.Parameter(name) != nil {
			return ctx.duplicate(d.Name.Span, "parameter", name)
		}

		v, err := eval.Eval(d.Value, ctx.scopeAt(d.Span.Start))
		if err != nil {
			ctx.warn(types.DiagParameterValue, d.Span,
				fmt.Sprintf("parameter %s = %s is not an integer constant: %v", name, ctx.exprText(d.Value), err))
			continue
		}
		ctx.params = append(ctx.params, visibleParam{name: name, value: v, start: d.Span.Start})
		ctx.mod.Parameters = append(ctx.mod.Parameters, &design.Parameter{
			Name:  name,
			Value: v,
			Expr:  ctx.exprText(d.Value),
			Local: d.Local,
			Line:  ctx.line(d.Span),
		})
	}
	return nil
}
