package extract

import (
	"github.com/daubuild/svmodel/design"
	"github.com/daubuild/svmodel/internal/ast"
	"github.com/daubuild/svmodel/internal/types"
)

// extractAssigns records continuous assignments verbatim, one entry per
// lhs = rhs pair.
func (ctx *Context) extractAssigns() error {
	for _, item := range ctx.unit.Items {
		ca, ok := item.(*ast.ContinuousAssign)
		if !ok {
			continue
		}
		for _, a := range ca.Assignments {
			ctx.mod.Assigns = append(ctx.mod.Assigns, &design.Assignment{
				LHS:  ctx.exprText(a.LHS),
				RHS:  ctx.exprText(a.RHS),
				Text: ctx.text(a.Span),
				Line: ctx.line(a.Span),
			})
		}
	}
	return nil
}

var blockKinds = map[ast.ProcKind]design.BlockKind{
	ast.ProcAlways:      design.BlockAlways,
	ast.ProcAlwaysComb:  design.BlockAlwaysComb,
	ast.ProcAlwaysFF:    design.BlockAlwaysFF,
	ast.ProcAlwaysLatch: design.BlockAlwaysLatch,
	ast.ProcInitial:     design.BlockInitial,
	ast.ProcFinal:       design.BlockFinal,
}

// extractBlocks records procedural blocks with their bodies as text. Only
// always_ff keeps its event control as the sensitivity.
func (ctx *Context) extractBlocks() error {
	for _, item := range ctx.unit.Items {
		pb, ok := item.(*ast.ProceduralBlock)
		if !ok {
			continue
		}
		b := &design.ProceduralBlock{
			Kind: blockKinds[pb.Kind],
			Body: ctx.text(pb.Body),
			Line: ctx.line(pb.Span),
		}
		if pb.Kind == ast.ProcAlwaysFF {
			b.Sensitivity = ctx.text(pb.Timing)
		}
		ctx.mod.Blocks = append(ctx.mod.Blocks, b)
	}
	return nil
}

// reportSkipped notes body items that are parsed but not modeled.
func (ctx *Context) reportSkipped() error {
	for _, item := range ctx.unit.Items {
		switch x := item.(type) {
		case *ast.SkippedItem:
			ctx.info(types.DiagSkippedConstruct, x.Span, x.What+" is not modeled")
		case *ast.PortDecl:
			ctx.warn(types.DiagSkippedConstruct, x.Span, "port declaration in module body ignored: "+ctx.text(x.Span))
		}
	}
	return nil
}
