package parser

import (
	"log/slog"

	"github.com/daubuild/svmodel/internal/ast"
	"github.com/daubuild/svmodel/internal/lexer"
	"github.com/daubuild/svmodel/internal/types"
)

// parseItem parses one module, interface or generate item. Parameter
// declarations yield one item per declarator.
func (p *Parser) parseItem() ([]ast.Item, *types.SpanDiagnostic) {
	tok := p.peek()

	switch tok.Kind {
	case lexer.TokSemicolon:
		p.advance()
		return []ast.Item{&ast.NullItem{Span: tok.Span}}, nil

	case lexer.TokKwParameter, lexer.TokKwLocalparam:
		return p.parseParamItem()

	case lexer.TokKwInput, lexer.TokKwOutput, lexer.TokKwInout, lexer.TokKwRef:
		return one(p.parsePortDecl())

	case lexer.TokKwNetType, lexer.TokKwVar, lexer.TokKwConst,
		lexer.TokKwVectorType, lexer.TokKwAtomType, lexer.TokKwRealType,
		lexer.TokKwString, lexer.TokKwSigning,
		lexer.TokKwEnum, lexer.TokKwStruct, lexer.TokKwUnion:
		return one(p.parseDataDecl())

	case lexer.TokKwStatic, lexer.TokKwAutomatic:
		if next := p.peekNth(1).Kind; next.IsDataType() || next == lexer.TokKwVar {
			return one(p.parseDataDecl())
		}
		return one(p.skipItem())

	case lexer.TokKwAssign:
		return one(p.parseContinuousAssign())

	case lexer.TokKwAlways, lexer.TokKwAlwaysComb, lexer.TokKwAlwaysFF,
		lexer.TokKwAlwaysLatch, lexer.TokKwInitial, lexer.TokKwFinal:
		return one(p.parseProceduralBlock())

	case lexer.TokKwGenerate:
		return one(p.parseGenerateRegion())

	case lexer.TokKwFor:
		return one(p.parseLoopGenerate())

	case lexer.TokKwIf:
		return one(p.parseIfGenerate())

	case lexer.TokKwCase:
		return one(p.parseCaseGenerate())

	case lexer.TokKwBegin:
		return one(p.parseGenerateBlock())

	case lexer.TokKwGenvar:
		return one(p.parseGenvarDecl())

	case lexer.TokKwModport:
		return one(p.parseModportDecl())

	case lexer.TokKwModule, lexer.TokKwMacromodule, lexer.TokKwInterface:
		return one(p.skipNestedUnit())

	case lexer.TokIdent:
		if p.checkNth(1, lexer.TokColon) {
			// label: item
			p.advance()
			p.advance()
			return p.parseItem()
		}
		if p.isInstantiation() {
			return one(p.parseInstantiation())
		}
		if p.identStartsType(0) {
			return one(p.parseDataDecl())
		}
		return one(p.skipItem())

	case lexer.TokKwEnd, lexer.TokKwEndgenerate, lexer.TokKwEndcase:
		// stray block end; reported by the caller
		return nil, nil
	}

	return one(p.skipItem())
}

func one[T ast.Item](item T, err *types.SpanDiagnostic) ([]ast.Item, *types.SpanDiagnostic) {
	if err != nil {
		return nil, err
	}
	return []ast.Item{item}, nil
}

// parseParamItem parses parameter/localparam declarations in a body.
func (p *Parser) parseParamItem() ([]ast.Item, *types.SpanDiagnostic) {
	kw := p.advance()
	local := kw.Kind == lexer.TokKwLocalparam
	typeParam := p.accept(lexer.TokKwType)
	var dt *ast.DataType
	if !typeParam && p.startsParamType() {
		var err *types.SpanDiagnostic
		dt, err = p.parseDataType()
		if err != nil {
			return nil, err
		}
	}
	var items []ast.Item
	for {
		start := p.currentSpan().Start
		if len(items) == 0 {
			start = kw.Span.Start
		}
		decl, err := p.parseParamDeclarator(start, local, typeParam, dt)
		if err != nil {
			return nil, err
		}
		items = append(items, decl)
		if !p.accept(lexer.TokComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	return items, nil
}

// parsePortDecl parses a non-ANSI body port declaration.
func (p *Parser) parsePortDecl() (*ast.PortDecl, *types.SpanDiagnostic) {
	start := p.currentSpan().Start
	decl := &ast.PortDecl{}
	switch p.advance().Kind {
	case lexer.TokKwInput:
		decl.Direction = ast.DirInput
	case lexer.TokKwOutput:
		decl.Direction = ast.DirOutput
	case lexer.TokKwInout:
		decl.Direction = ast.DirInout
	default:
		decl.Direction = ast.DirRef
	}
	if p.check(lexer.TokKwNetType) {
		decl.NetType = p.tokenText(p.advance())
	}
	p.accept(lexer.TokKwVar)
	if p.startsPortType() {
		dt, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		decl.Type = dt
	}
	for {
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		decl.Names = append(decl.Names, name)
		if _, err := p.parseDimensions(); err != nil {
			return nil, err
		}
		if p.accept(lexer.TokAssign) {
			if _, err := p.parseExpr(); err != nil {
				return nil, err
			}
		}
		if !p.accept(lexer.TokComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	decl.Span = p.spanFrom(start)
	return decl, nil
}

// parseDataDecl parses a net or variable declaration.
func (p *Parser) parseDataDecl() (*ast.DataDecl, *types.SpanDiagnostic) {
	start := p.currentSpan().Start
	decl := &ast.DataDecl{}

	if p.accept(lexer.TokKwConst) {
		decl.Const = true
	}
	if p.check(lexer.TokKwStatic) || p.check(lexer.TokKwAutomatic) {
		p.advance()
	}
	if p.check(lexer.TokKwNetType) {
		decl.NetType = p.tokenText(p.advance())
		// drive or charge strength
		if p.check(lexer.TokLParen) {
			p.skipToken()
		}
		for p.isKeywordText(p.peek(), "vectored") || p.isKeywordText(p.peek(), "scalared") {
			p.advance()
		}
		if p.check(lexer.TokHash) {
			p.skipDelay()
		}
	}
	if p.accept(lexer.TokKwVar) {
		decl.Var = true
	}

	if p.check(lexer.TokIdent) && !p.identStartsType(0) {
		decl.Type = &ast.DataType{Kind: ast.TypeImplicit, Span: types.NewSpan(p.currentSpan().Start, p.currentSpan().Start)}
	} else {
		dt, err := p.parseDataType()
		if err != nil {
			return nil, err
		}
		decl.Type = dt
	}

	for {
		d, err := p.parseDeclarator()
		if err != nil {
			return nil, err
		}
		decl.Declarators = append(decl.Declarators, d)
		if !p.accept(lexer.TokComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	decl.Span = p.spanFrom(start)
	return decl, nil
}

func (p *Parser) parseDeclarator() (*ast.Declarator, *types.SpanDiagnostic) {
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	d := &ast.Declarator{Name: name}
	unpackedStart := p.currentSpan().Start
	d.Unpacked, err = p.parseDimensions()
	if err != nil {
		return nil, err
	}
	if len(d.Unpacked) > 0 {
		d.UnpackedSpan = p.spanFrom(unpackedStart)
	}
	if p.accept(lexer.TokAssign) {
		d.Init, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	d.Span = p.spanFrom(name.Span.Start)
	return d, nil
}

// parseContinuousAssign parses assign [strength] [delay] lhs = rhs {, lhs = rhs};
func (p *Parser) parseContinuousAssign() (*ast.ContinuousAssign, *types.SpanDiagnostic) {
	start := p.advance().Span.Start
	if p.check(lexer.TokLParen) {
		next := p.peekNth(1).Kind
		if next == lexer.TokKwOther || next == lexer.TokKwNetType {
			p.skipToken()
		}
	}
	if p.check(lexer.TokHash) {
		p.skipDelay()
	}
	assign := &ast.ContinuousAssign{}
	for {
		lhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokAssign); err != nil {
			return nil, err
		}
		rhs, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		assign.Assignments = append(assign.Assignments, &ast.Assignment{
			LHS:  lhs,
			RHS:  rhs,
			Span: types.NewSpan(lhs.ExprSpan().Start, rhs.ExprSpan().End),
		})
		if !p.accept(lexer.TokComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	assign.Span = p.spanFrom(start)
	return assign, nil
}

// isInstantiation matches Type [#(...) | #value] name [dims] ( at the
// current position.
func (p *Parser) isInstantiation() bool {
	n := 1
	if p.checkNth(n, lexer.TokHash) {
		n++
		if p.checkNth(n, lexer.TokLParen) {
			end, ok := p.matchingClose(n)
			if !ok {
				return false
			}
			n = end + 1
		} else {
			n++
		}
	}
	if !p.checkNth(n, lexer.TokIdent) {
		return false
	}
	n++
	for p.checkNth(n, lexer.TokLBracket) {
		end, ok := p.matchingClose(n)
		if !ok {
			return false
		}
		n = end + 1
	}
	return p.checkNth(n, lexer.TokLParen)
}

// parseInstantiation parses Type [#(params)] inst(conns) {, inst(conns)};
func (p *Parser) parseInstantiation() (*ast.Instantiation, *types.SpanDiagnostic) {
	typeTok := p.advance()
	inst := &ast.Instantiation{Type: p.makeIdent(typeTok)}

	if p.accept(lexer.TokHash) {
		params, err := p.parseParamAssignments()
		if err != nil {
			return nil, err
		}
		inst.Params = params
	}

	for {
		hi, err := p.parseHierInstance()
		if err != nil {
			return nil, err
		}
		inst.Instances = append(inst.Instances, hi)
		if !p.accept(lexer.TokComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	inst.Span = p.spanFrom(typeTok.Span.Start)
	p.Log(slog.LevelDebug, "parsed instantiation",
		slog.String("type", inst.Type.Name),
		slog.Int("instances", len(inst.Instances)))
	return inst, nil
}

// parseParamAssignments parses the value list after '#'.
func (p *Parser) parseParamAssignments() ([]*ast.ParamAssign, *types.SpanDiagnostic) {
	if !p.check(lexer.TokLParen) {
		start := p.currentSpan().Start
		expr, err := p.parsePrimary()
		if err != nil {
			return nil, err
		}
		return []*ast.ParamAssign{{Value: expr, Span: p.spanFrom(start)}}, nil
	}
	p.advance()
	var params []*ast.ParamAssign
	for !p.check(lexer.TokRParen) {
		start := p.currentSpan().Start
		pa := &ast.ParamAssign{}
		if p.accept(lexer.TokDot) {
			name, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			pa.Name = name
			if _, err := p.expect(lexer.TokLParen); err != nil {
				return nil, err
			}
			if !p.check(lexer.TokRParen) {
				value, err := p.parseParamValue()
				if err != nil {
					return nil, err
				}
				pa.Value = value
			}
			if _, err := p.expect(lexer.TokRParen); err != nil {
				return nil, err
			}
		} else {
			value, err := p.parseParamValue()
			if err != nil {
				return nil, err
			}
			pa.Value = value
		}
		pa.Span = p.spanFrom(start)
		params = append(params, pa)
		if !p.accept(lexer.TokComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	return params, nil
}

// parseParamValue parses an expression or, for type parameters, a type.
func (p *Parser) parseParamValue() (ast.Expr, *types.SpanDiagnostic) {
	k := p.peek().Kind
	if (k.IsDataType() || k == lexer.TokKwEnum || k == lexer.TokKwStruct) &&
		!p.checkNth(1, lexer.TokApostrophe) {
		start := p.currentSpan().Start
		if _, err := p.parseDataType(); err != nil {
			return nil, err
		}
		return &ast.OpaqueExpr{Span: p.spanFrom(start)}, nil
	}
	return p.parseExpr()
}

func (p *Parser) parseHierInstance() (*ast.HierInstance, *types.SpanDiagnostic) {
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	hi := &ast.HierInstance{Name: name}
	hi.Unpacked, err = p.parseDimensions()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	if !p.check(lexer.TokRParen) {
		for {
			conn, err := p.parsePortConnection()
			if err != nil {
				return nil, err
			}
			hi.Connections = append(hi.Connections, conn)
			if !p.accept(lexer.TokComma) {
				break
			}
		}
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	hi.Span = p.spanFrom(name.Span.Start)
	return hi, nil
}

func (p *Parser) parsePortConnection() (*ast.PortConnection, *types.SpanDiagnostic) {
	start := p.currentSpan().Start
	conn := &ast.PortConnection{}
	switch {
	case p.accept(lexer.TokDotStar):
		conn.Kind = ast.ConnWildcard
	case p.accept(lexer.TokDot):
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		conn.Name = name
		if !p.accept(lexer.TokLParen) {
			conn.Kind = ast.ConnImplicit
			break
		}
		conn.Kind = ast.ConnNamed
		if !p.check(lexer.TokRParen) {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			conn.Expr = expr
		}
		if _, err := p.expect(lexer.TokRParen); err != nil {
			return nil, err
		}
	case p.check(lexer.TokComma), p.check(lexer.TokRParen):
		conn.Kind = ast.ConnOrdered
	default:
		conn.Kind = ast.ConnOrdered
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		conn.Expr = expr
	}
	conn.Span = p.spanFrom(start)
	return conn, nil
}

// parseModportDecl parses modport item {, item};
func (p *Parser) parseModportDecl() (*ast.ModportDecl, *types.SpanDiagnostic) {
	start := p.advance().Span.Start
	decl := &ast.ModportDecl{}
	for {
		item, err := p.parseModportItem()
		if err != nil {
			return nil, err
		}
		decl.Items = append(decl.Items, item)
		if !p.accept(lexer.TokComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	decl.Span = p.spanFrom(start)
	return decl, nil
}

func (p *Parser) parseModportItem() (*ast.ModportItem, *types.SpanDiagnostic) {
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	item := &ast.ModportItem{Name: name}
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	dir := ast.DirNone
	for !p.isEOF() && !p.check(lexer.TokRParen) {
		switch p.peek().Kind {
		case lexer.TokKwInput:
			dir = ast.DirInput
			p.advance()
		case lexer.TokKwOutput:
			dir = ast.DirOutput
			p.advance()
		case lexer.TokKwInout:
			dir = ast.DirInout
			p.advance()
		case lexer.TokKwRef:
			dir = ast.DirRef
			p.advance()
		case lexer.TokKwImport, lexer.TokKwExport, lexer.TokKwClocking:
			// subroutine and clocking ports carry no signal direction
			dir = ast.DirNone
			p.skipModportClause()
			continue
		}
		port, err := p.parseModportPort(dir)
		if err != nil {
			return nil, err
		}
		item.Ports = append(item.Ports, port)
		if !p.accept(lexer.TokComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	item.Span = p.spanFrom(name.Span.Start)
	return item, nil
}

func (p *Parser) parseModportPort(dir ast.Direction) (*ast.ModportPort, *types.SpanDiagnostic) {
	start := p.currentSpan().Start
	if dir == ast.DirNone {
		return nil, p.errorf("modport port without direction")
	}
	port := &ast.ModportPort{Direction: dir}
	if p.accept(lexer.TokDot) {
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		port.Name = name
		if _, err := p.expect(lexer.TokLParen); err != nil {
			return nil, err
		}
		if !p.check(lexer.TokRParen) {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			port.Expr = expr
		}
		if _, err := p.expect(lexer.TokRParen); err != nil {
			return nil, err
		}
	} else {
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		port.Name = name
	}
	port.Span = p.spanFrom(start)
	return port, nil
}

// skipModportClause skips an import/export/clocking modport clause up to
// the comma that starts the next clause, or the closing parenthesis.
func (p *Parser) skipModportClause() {
	p.advance()
	for !p.isEOF() && !p.check(lexer.TokRParen) {
		if p.check(lexer.TokComma) {
			switch p.peekNth(1).Kind {
			case lexer.TokKwInput, lexer.TokKwOutput, lexer.TokKwInout, lexer.TokKwRef,
				lexer.TokKwImport, lexer.TokKwExport, lexer.TokKwClocking:
				p.advance()
				return
			}
		}
		p.skipToken()
	}
}

// parseGenerateRegion parses generate items endgenerate.
func (p *Parser) parseGenerateRegion() (*ast.GenerateRegion, *types.SpanDiagnostic) {
	start := p.advance().Span.Start
	region := &ast.GenerateRegion{Items: p.parseItemsUntil(lexer.TokKwEndgenerate)}
	if _, err := p.expect(lexer.TokKwEndgenerate); err != nil {
		return nil, err
	}
	region.Span = p.spanFrom(start)
	return region, nil
}

// parseGenerateBlock parses begin [: label] items end [: label].
func (p *Parser) parseGenerateBlock() (*ast.GenerateBlock, *types.SpanDiagnostic) {
	start := p.advance().Span.Start
	block := &ast.GenerateBlock{}
	if p.check(lexer.TokColon) && p.checkNth(1, lexer.TokIdent) {
		p.advance()
		block.Label = p.makeIdent(p.advance())
	}
	block.Items = p.parseItemsUntil(lexer.TokKwEnd)
	if _, err := p.expect(lexer.TokKwEnd); err != nil {
		return nil, err
	}
	p.parseEndLabel()
	block.Span = p.spanFrom(start)
	return block, nil
}

// parseGenerateBody parses the single item controlled by a generate
// construct. Several items from one declaration are grouped in an
// unlabeled block.
func (p *Parser) parseGenerateBody() (ast.Item, *types.SpanDiagnostic) {
	start := p.currentSpan().Start
	items, err := p.parseItem()
	if err != nil {
		return nil, err
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return &ast.GenerateBlock{Items: items, Span: p.spanFrom(start)}, nil
}

// parseLoopGenerate parses for ([genvar] i = init; cond; step) body.
func (p *Parser) parseLoopGenerate() (*ast.LoopGenerate, *types.SpanDiagnostic) {
	start := p.advance().Span.Start
	loop := &ast.LoopGenerate{}
	open, err := p.expect(lexer.TokLParen)
	if err != nil {
		return nil, err
	}
	p.accept(lexer.TokKwGenvar)
	if p.check(lexer.TokIdent) {
		loop.Genvar = p.makeIdent(p.peek())
	}
	p.skipBalanced()
	loop.Header = p.spanFrom(open.Span.Start)
	loop.Body, err = p.parseGenerateBody()
	if err != nil {
		return nil, err
	}
	loop.Span = p.spanFrom(start)
	return loop, nil
}

// parseIfGenerate parses if (cond) item [else item].
func (p *Parser) parseIfGenerate() (*ast.IfGenerate, *types.SpanDiagnostic) {
	start := p.advance().Span.Start
	gen := &ast.IfGenerate{}
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	gen.Cond = cond
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	gen.Then, err = p.parseGenerateBody()
	if err != nil {
		return nil, err
	}
	if p.accept(lexer.TokKwElse) {
		gen.Else, err = p.parseGenerateBody()
		if err != nil {
			return nil, err
		}
	}
	gen.Span = p.spanFrom(start)
	return gen, nil
}

// parseCaseGenerate parses case (expr) items endcase.
func (p *Parser) parseCaseGenerate() (*ast.CaseGenerate, *types.SpanDiagnostic) {
	start := p.advance().Span.Start
	gen := &ast.CaseGenerate{}
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	gen.Expr = expr
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	for !p.isEOF() && !p.check(lexer.TokKwEndcase) {
		armStart := p.currentSpan().Start
		arm := &ast.CaseGenerateItem{}
		if p.accept(lexer.TokKwDefault) {
			arm.Default = true
			p.accept(lexer.TokColon)
		} else {
			for {
				e, err := p.parseExpr()
				if err != nil {
					return nil, err
				}
				arm.Exprs = append(arm.Exprs, e)
				if !p.accept(lexer.TokComma) {
					break
				}
			}
			if _, err := p.expect(lexer.TokColon); err != nil {
				return nil, err
			}
		}
		arm.Body, err = p.parseGenerateBody()
		if err != nil {
			return nil, err
		}
		arm.Span = p.spanFrom(armStart)
		gen.Items = append(gen.Items, arm)
	}
	if _, err := p.expect(lexer.TokKwEndcase); err != nil {
		return nil, err
	}
	gen.Span = p.spanFrom(start)
	return gen, nil
}

func (p *Parser) parseGenvarDecl() (*ast.GenvarDecl, *types.SpanDiagnostic) {
	start := p.advance().Span.Start
	decl := &ast.GenvarDecl{}
	for {
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		decl.Names = append(decl.Names, name)
		if p.accept(lexer.TokAssign) {
			if _, err := p.parseExpr(); err != nil {
				return nil, err
			}
		}
		if !p.accept(lexer.TokComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}
	decl.Span = p.spanFrom(start)
	return decl, nil
}

// skipNestedUnit skips a nested module or interface declaration.
func (p *Parser) skipNestedUnit() (*ast.SkippedItem, *types.SpanDiagnostic) {
	open := p.advance()
	end := unitEnd(open.Kind)
	if open.Kind == lexer.TokKwInterface && p.check(lexer.TokKwClass) {
		return p.skipItem()
	}
	depth := 1
	for !p.isEOF() && depth > 0 {
		switch p.advance().Kind {
		case open.Kind:
			depth++
		case end:
			depth--
		}
	}
	p.parseEndLabel()
	return &ast.SkippedItem{What: "nested " + p.tokenText(open), Span: p.spanFrom(open.Span.Start)}, nil
}
