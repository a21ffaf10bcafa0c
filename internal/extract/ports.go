package extract

import (
	"log/slog"

	"github.com/daubuild/svmodel/design"
	"github.com/daubuild/svmodel/errors"
	"github.com/daubuild/svmodel/internal/ast"
	"github.com/daubuild/svmodel/internal/eval"
	"github.com/daubuild/svmodel/internal/types"
)

// implicitKeyword is the keyword recorded when a port or net has no type.
const implicitKeyword = "logic"

// atomWidths holds the implicit widths of the integer atom types.
var atomWidths = map[string]int64{
	"byte":     8,
	"shortint": 16,
	"int":      32,
	"longint":  64,
	"integer":  32,
	"time":     64,
}

func direction(d ast.Direction) design.Direction {
	switch d {
	case ast.DirInput:
		return design.DirInput
	case ast.DirOutput:
		return design.DirOutput
	case ast.DirRef:
		return design.DirRef
	default:
		return design.DirInout
	}
}

// extractPorts records ANSI ports. A missing or empty port list yields no
// ports; non-ANSI and wildcard lists are rejected.
func (ctx *Context) extractPorts() error {
	list := ctx.unit.Ports
	if list == nil {
		return nil
	}
	if list.Shape != ast.PortListAnsi {
		e := errors.UnsupportedPortList(ctx.mod.Name, list.Shape.String())
		e.File = ctx.file
		e.Line = ctx.line(list.Span)
		return e
	}

	var prev *design.Port
	for _, p := range list.Ports {
		if ref := p.Interface; ref != nil {
			if !ref.Modport.IsZero() {
				return ctx.unsupported(p.Span, "modport port %s (%s.%s)", p.Name.Name, ref.Interface.Name, ref.Modport.Name)
			}
			return ctx.unsupported(p.Span, "interface port %s of type %s", p.Name.Name, ref.Interface.Name)
		}
		port, err := ctx.ansiPort(p, prev)
		if err != nil {
			return err
		}
		if ctx.mod.Port(port.Name) != nil {
			return ctx.duplicate(p.Name.Span, "port", port.Name)
		}
		switch port.Direction {
		case design.DirInput:
			ctx.mod.Inputs = append(ctx.mod.Inputs, port)
		case design.DirOutput:
			ctx.mod.Outputs = append(ctx.mod.Outputs, port)
		default:
			ctx.mod.Inouts = append(ctx.mod.Inouts, port)
		}
		prev = port
	}
	return nil
}

// ansiPort builds one port. A port written with only a name inherits the
// direction, type and dimensions of the previous port; a port with only a
// type inherits the previous direction.
func (ctx *Context) ansiPort(p *ast.AnsiPort, prev *design.Port) (*design.Port, error) {
	port := &design.Port{
		Name: p.Name.Name,
		Line: ctx.line(p.Span),
	}

	explicitType := p.NetType != "" || p.Var || p.Type != nil
	switch {
	case p.Direction != ast.DirNone:
		port.Direction = direction(p.Direction)
	case prev != nil:
		port.Direction = prev.Direction
	default:
		port.Direction = design.DirInout
	}

	if p.Direction == ast.DirNone && !explicitType && prev != nil {
		port.Keyword = prev.Keyword
		port.Signed = prev.Signed
		port.Dims = prev.Dims
	} else {
		port.Keyword = keyword(p.NetType, p.Type)
		dims, err := ctx.dimensions(p.Type)
		if err != nil {
			return nil, err
		}
		port.Dims = dims
		port.Signed = p.Type != nil && p.Type.Signed
	}

	unpacked, err := ctx.unpacked(p.Unpacked, "port "+port.Name)
	if err != nil {
		return nil, err
	}
	port.Unpacked = unpacked
	ctx.Trace("port",
		slog.String("name", port.Name),
		slog.String("direction", string(port.Direction)),
		slog.String("keyword", port.Keyword))
	return port, nil
}

// keyword returns the keyword recorded for a declaration: the net type
// when present, else the data type keyword, else the implicit keyword.
func keyword(netType string, dt *ast.DataType) string {
	if netType != "" {
		return netType
	}
	if dt == nil || dt.Kind == ast.TypeImplicit || dt.Keyword == "" {
		return implicitKeyword
	}
	return dt.Keyword
}

// dimensions evaluates the packed dimensions of dt against the parameters
// declared before them. Integer atom types without packed dimensions get
// their implicit width.
func (ctx *Context) dimensions(dt *ast.DataType) (design.Dimensions, error) {
	var dims design.Dimensions
	if dt == nil {
		return dims, nil
	}
	if len(dt.Packed) == 0 {
		if w, ok := atomWidths[dt.Keyword]; ok && dt.Kind == ast.TypeAtom {
			dims.Ranges = []design.Range{{High: w - 1, Low: 0, Implicit: true}}
		}
		return dims, nil
	}
	for _, d := range dt.Packed {
		r, err := ctx.packedRange(d)
		if err != nil {
			return design.Dimensions{}, err
		}
		dims.Ranges = append(dims.Ranges, r)
	}
	return dims, nil
}

func (ctx *Context) packedRange(d *ast.Dimension) (design.Range, error) {
	scope := ctx.scopeAt(d.Span.Start)
	switch d.Kind {
	case ast.DimRange:
		high, err := eval.Eval(d.Left, scope)
		if err != nil {
			return design.Range{}, ctx.locate(err, d.Span)
		}
		low, err := eval.Eval(d.Right, scope)
		if err != nil {
			return design.Range{}, ctx.locate(err, d.Span)
		}
		if high-low+1 < 1 {
			return design.Range{}, ctx.locate(
				errors.MalformedExpression(ctx.text(d.Span), "dimension size must be at least 1"), d.Span)
		}
		return design.Range{High: high, Low: low}, nil
	case ast.DimSingle:
		n, err := eval.Eval(d.Left, scope)
		if err != nil {
			return design.Range{}, ctx.locate(err, d.Span)
		}
		if n < 1 {
			return design.Range{}, ctx.locate(
				errors.MalformedExpression(ctx.text(d.Span), "dimension size must be at least 1"), d.Span)
		}
		return design.Range{High: n, Single: true}, nil
	default:
		return design.Range{}, ctx.unsupported(d.Span, "packed dimension %s", ctx.text(d.Span))
	}
}

// unpacked returns the unpacked dimension text of a declaration. More than
// one unpacked dimension is rejected.
func (ctx *Context) unpacked(dims []*ast.Dimension, what string) (string, error) {
	switch len(dims) {
	case 0:
		return "", nil
	case 1:
		return ctx.text(dims[0].Span), nil
	default:
		span := dims[0].Span.Cover(dims[len(dims)-1].Span)
		return "", ctx.unsupported(span, "%s has %d unpacked dimensions %s", what, len(dims), ctx.text(span))
	}
}

// spanOf covers a list of dimensions.
func spanOf(dims []*ast.Dimension) types.Span {
	if len(dims) == 0 {
		return types.Span{}
	}
	return dims[0].Span.Cover(dims[len(dims)-1].Span)
}
