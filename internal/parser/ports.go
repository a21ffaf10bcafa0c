package parser

import (
	"github.com/daubuild/svmodel/internal/ast"
	"github.com/daubuild/svmodel/internal/lexer"
	"github.com/daubuild/svmodel/internal/types"
)

// parseParamPortList parses the body of #( ... ). The '#' is consumed.
func (p *Parser) parseParamPortList() ([]*ast.ParamDecl, *types.SpanDiagnostic) {
	if _, err := p.expect(lexer.TokLParen); err != nil {
		return nil, err
	}
	var (
		params    []*ast.ParamDecl
		local     bool
		typeParam bool
		curType   *ast.DataType
	)
	for !p.check(lexer.TokRParen) {
		start := p.currentSpan().Start
		switch {
		case p.accept(lexer.TokKwParameter):
			local, typeParam, curType = false, false, nil
		case p.accept(lexer.TokKwLocalparam):
			local, typeParam, curType = true, false, nil
		}
		if p.accept(lexer.TokKwType) {
			typeParam, curType = true, nil
		}
		if !typeParam && p.startsParamType() {
			dt, err := p.parseDataType()
			if err != nil {
				return nil, err
			}
			curType = dt
		}
		decl, err := p.parseParamDeclarator(start, local, typeParam, curType)
		if err != nil {
			return nil, err
		}
		decl.InHeader = true
		params = append(params, decl)
		if !p.accept(lexer.TokComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	return params, nil
}

// startsParamType reports whether a data type precedes the parameter name.
func (p *Parser) startsParamType() bool {
	switch p.peek().Kind {
	case lexer.TokKwVectorType, lexer.TokKwAtomType, lexer.TokKwRealType,
		lexer.TokKwString, lexer.TokKwSigning, lexer.TokLBracket,
		lexer.TokKwEnum, lexer.TokKwStruct, lexer.TokKwUnion:
		return true
	case lexer.TokIdent:
		return p.identStartsType(0)
	default:
		return false
	}
}

// parseParamDeclarator parses name [unpacked] [= value].
func (p *Parser) parseParamDeclarator(start types.ByteOffset, local, typeParam bool, dt *ast.DataType) (*ast.ParamDecl, *types.SpanDiagnostic) {
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	decl := &ast.ParamDecl{
		Local:     local,
		TypeParam: typeParam,
		Type:      dt,
		Name:      name,
	}
	decl.Unpacked, err = p.parseDimensions()
	if err != nil {
		return nil, err
	}
	if p.accept(lexer.TokAssign) {
		valueStart := p.currentSpan().Start
		if typeParam {
			if _, err := p.parseDataType(); err != nil {
				return nil, err
			}
		} else {
			expr, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			decl.Value = expr
		}
		decl.ValueSpan = p.spanFrom(valueStart)
	}
	decl.Span = p.spanFrom(start)
	return decl, nil
}

// parsePortList parses the parenthesized header port list.
func (p *Parser) parsePortList() (*ast.PortList, *types.SpanDiagnostic) {
	open := p.advance()
	list := &ast.PortList{Shape: ast.PortListAnsi}

	switch {
	case p.check(lexer.TokRParen):
		p.advance()
		list.Span = p.spanFrom(open.Span.Start)
		return list, nil
	case p.check(lexer.TokDotStar):
		list.Shape = ast.PortListWildcard
		p.skipBalanced()
		list.Span = p.spanFrom(open.Span.Start)
		return list, nil
	case !p.startsAnsiPort():
		list.Shape = ast.PortListNonAnsi
		return p.parseNonAnsiPorts(list, open)
	}

	var prev *ast.AnsiPort
	for {
		port, err := p.parseAnsiPort(prev)
		if err != nil {
			return nil, err
		}
		list.Ports = append(list.Ports, port)
		prev = port
		if !p.accept(lexer.TokComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	list.Span = p.spanFrom(open.Span.Start)
	return list, nil
}

// startsAnsiPort reports whether the first port carries a header (direction,
// type or interface) rather than being a bare non-ANSI port name.
func (p *Parser) startsAnsiPort() bool {
	switch p.peek().Kind {
	case lexer.TokKwInput, lexer.TokKwOutput, lexer.TokKwInout, lexer.TokKwRef,
		lexer.TokKwNetType, lexer.TokKwVar, lexer.TokKwInterface,
		lexer.TokKwVectorType, lexer.TokKwAtomType, lexer.TokKwRealType,
		lexer.TokKwString, lexer.TokKwSigning, lexer.TokLBracket,
		lexer.TokKwEnum, lexer.TokKwStruct, lexer.TokKwUnion:
		return true
	case lexer.TokIdent:
		return p.identStartsType(0) || p.isInterfacePortHeader()
	default:
		return false
	}
}

// parseNonAnsiPorts records the names of a non-ANSI list. Port expressions
// (.a(b), {a, b}) are skipped.
func (p *Parser) parseNonAnsiPorts(list *ast.PortList, open lexer.Token) (*ast.PortList, *types.SpanDiagnostic) {
	for !p.isEOF() && !p.check(lexer.TokRParen) {
		if p.check(lexer.TokIdent) && (p.checkNth(1, lexer.TokComma) || p.checkNth(1, lexer.TokRParen)) {
			list.Names = append(list.Names, p.makeIdent(p.advance()))
		} else {
			for !p.isEOF() && !p.check(lexer.TokComma) && !p.check(lexer.TokRParen) {
				p.skipToken()
			}
		}
		p.accept(lexer.TokComma)
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	list.Span = p.spanFrom(open.Span.Start)
	return list, nil
}

// isInterfacePortHeader matches "intf name" or "intf.mp name" at the
// current position.
func (p *Parser) isInterfacePortHeader() bool {
	if !p.check(lexer.TokIdent) {
		return false
	}
	if p.checkNth(1, lexer.TokIdent) {
		return true
	}
	return p.checkNth(1, lexer.TokDot) && p.checkNth(2, lexer.TokIdent) && p.checkNth(3, lexer.TokIdent)
}

// parseAnsiPort parses one ANSI port. prev is the previous port in the
// list, or nil for the first.
func (p *Parser) parseAnsiPort(prev *ast.AnsiPort) (*ast.AnsiPort, *types.SpanDiagnostic) {
	start := p.currentSpan().Start
	port := &ast.AnsiPort{}

	switch p.peek().Kind {
	case lexer.TokKwInput:
		port.Direction = ast.DirInput
	case lexer.TokKwOutput:
		port.Direction = ast.DirOutput
	case lexer.TokKwInout:
		port.Direction = ast.DirInout
	case lexer.TokKwRef:
		port.Direction = ast.DirRef
	}
	if port.Direction != ast.DirNone {
		p.advance()
	}

	if p.check(lexer.TokKwInterface) {
		ref := &ast.InterfaceRef{Generic: true, Interface: p.makeIdent(p.advance())}
		if p.accept(lexer.TokDot) {
			mp, err := p.expectIdentifier()
			if err != nil {
				return nil, err
			}
			ref.Modport = mp
		}
		ref.Span = p.spanFrom(ref.Interface.Span.Start)
		port.Interface = ref
	} else {
		if p.check(lexer.TokKwNetType) {
			port.NetType = p.tokenText(p.advance())
		}
		if p.accept(lexer.TokKwVar) {
			port.Var = true
		}
		headerless := port.Direction == ast.DirNone && port.NetType == "" && !port.Var
		inheritsDirection := prev != nil && prev.Interface == nil
		switch {
		case headerless && !inheritsDirection && p.isInterfacePortHeader():
			ref := &ast.InterfaceRef{Interface: p.makeIdent(p.advance())}
			if p.accept(lexer.TokDot) {
				ref.Modport = p.makeIdent(p.advance())
			}
			ref.Span = p.spanFrom(ref.Interface.Span.Start)
			port.Interface = ref
		case p.startsPortType():
			dt, err := p.parseDataType()
			if err != nil {
				return nil, err
			}
			port.Type = dt
		}
	}

	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	port.Name = name
	port.Unpacked, err = p.parseDimensions()
	if err != nil {
		return nil, err
	}
	if p.accept(lexer.TokAssign) {
		port.Default, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	port.Span = p.spanFrom(start)
	return port, nil
}

func (p *Parser) startsPortType() bool {
	switch p.peek().Kind {
	case lexer.TokKwVectorType, lexer.TokKwAtomType, lexer.TokKwRealType,
		lexer.TokKwString, lexer.TokKwSigning, lexer.TokLBracket,
		lexer.TokKwEnum, lexer.TokKwStruct, lexer.TokKwUnion, lexer.TokKwType:
		return true
	case lexer.TokIdent:
		return p.identStartsType(0)
	default:
		return false
	}
}

// identStartsType reports whether the identifier at offset n begins a
// user type that is followed by a declared name:
// Ident {:: Ident} [#(...)] {[...]} Ident.
func (p *Parser) identStartsType(n int) bool {
	if !p.checkNth(n, lexer.TokIdent) {
		return false
	}
	n++
	for p.checkNth(n, lexer.TokColonColon) && p.checkNth(n+1, lexer.TokIdent) {
		n += 2
	}
	if p.checkNth(n, lexer.TokHash) && p.checkNth(n+1, lexer.TokLParen) {
		end, ok := p.matchingClose(n + 1)
		if !ok {
			return false
		}
		n = end + 1
	}
	for p.checkNth(n, lexer.TokLBracket) {
		end, ok := p.matchingClose(n)
		if !ok {
			return false
		}
		n = end + 1
	}
	return p.checkNth(n, lexer.TokIdent)
}

// matchingClose returns the lookahead offset of the bracket closing the
// one at offset n.
func (p *Parser) matchingClose(n int) (int, bool) {
	depth := 0
	for i := n; p.pos+i < len(p.tokens); i++ {
		switch p.peekNth(i).Kind {
		case lexer.TokLParen, lexer.TokLBracket, lexer.TokLBrace:
			depth++
		case lexer.TokRParen, lexer.TokRBracket, lexer.TokRBrace:
			depth--
			if depth == 0 {
				return i, true
			}
		case lexer.TokSemicolon, lexer.TokEOF:
			return 0, false
		}
	}
	return 0, false
}

// parseDataType parses a data type, including an implicit type made of
// only signing and packed dimensions.
func (p *Parser) parseDataType() (*ast.DataType, *types.SpanDiagnostic) {
	start := p.currentSpan().Start
	dt := &ast.DataType{Kind: ast.TypeImplicit}

	switch p.peek().Kind {
	case lexer.TokKwVectorType:
		dt.Kind = ast.TypeVector
		dt.Keyword = p.tokenText(p.advance())
	case lexer.TokKwAtomType:
		dt.Kind = ast.TypeAtom
		dt.Keyword = p.tokenText(p.advance())
	case lexer.TokKwRealType, lexer.TokKwString:
		if p.check(lexer.TokKwString) {
			dt.Kind = ast.TypeString
		} else {
			dt.Kind = ast.TypeReal
		}
		dt.Keyword = p.tokenText(p.advance())
		dt.Span = p.spanFrom(start)
		return dt, nil
	case lexer.TokKwEnum, lexer.TokKwStruct, lexer.TokKwUnion:
		dt.Kind = ast.TypeAggregate
		dt.Keyword = p.tokenText(p.advance())
		for !p.isEOF() && !p.check(lexer.TokLBrace) && !p.check(lexer.TokSemicolon) {
			p.skipToken()
		}
		if _, err := p.expect(lexer.TokLBrace); err != nil {
			return nil, err
		}
		p.skipBalanced()
	case lexer.TokKwType:
		dt.Kind = ast.TypeOther
		dt.Keyword = p.tokenText(p.advance())
		if p.check(lexer.TokLParen) {
			p.skipToken()
		}
	case lexer.TokIdent:
		dt.Kind = ast.TypeUser
		for {
			p.advance()
			if !(p.check(lexer.TokColonColon) && p.checkNth(1, lexer.TokIdent)) {
				break
			}
			p.advance()
		}
		dt.Keyword = p.text(p.spanFrom(start))
		if p.check(lexer.TokHash) && p.checkNth(1, lexer.TokLParen) {
			p.advance()
			p.skipToken()
		}
	}

	if p.check(lexer.TokKwSigning) {
		dt.Signed = p.tokenText(p.advance()) == "signed"
	}
	dims, err := p.parseDimensions()
	if err != nil {
		return nil, err
	}
	dt.Packed = dims
	dt.Span = p.spanFrom(start)
	return dt, nil
}

// parseDimensions parses zero or more bracketed dimensions.
func (p *Parser) parseDimensions() ([]*ast.Dimension, *types.SpanDiagnostic) {
	var dims []*ast.Dimension
	for p.check(lexer.TokLBracket) {
		dim, err := p.parseDimension()
		if err != nil {
			return nil, err
		}
		dims = append(dims, dim)
	}
	return dims, nil
}

func (p *Parser) parseDimension() (*ast.Dimension, *types.SpanDiagnostic) {
	open := p.advance()
	dim := &ast.Dimension{}
	switch {
	case p.check(lexer.TokRBracket):
		dim.Kind = ast.DimUnsized
	case p.check(lexer.TokStar):
		dim.Kind = ast.DimAssoc
		p.advance()
	case p.check(lexer.TokDollar):
		dim.Kind = ast.DimQueue
		for !p.isEOF() && !p.check(lexer.TokRBracket) {
			p.skipToken()
		}
	case p.startsTypeKeyword():
		dim.Kind = ast.DimAssoc
		if _, err := p.parseDataType(); err != nil {
			return nil, err
		}
	default:
		left, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		dim.Left = left
		dim.Kind = ast.DimSingle
		if p.accept(lexer.TokColon) {
			right, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			dim.Right = right
			dim.Kind = ast.DimRange
		}
	}
	if _, err := p.expect(lexer.TokRBracket); err != nil {
		return nil, err
	}
	dim.Span = p.spanFrom(open.Span.Start)
	return dim, nil
}

// startsTypeKeyword reports whether a built-in type keyword is next.
func (p *Parser) startsTypeKeyword() bool {
	return p.peek().Kind.IsDataType()
}
