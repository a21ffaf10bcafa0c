package parser

import (
	"strings"

	"github.com/daubuild/svmodel/internal/ast"
	"github.com/daubuild/svmodel/internal/lexer"
	"github.com/daubuild/svmodel/internal/types"
)

// Binary operator precedence, higher binds tighter.
var binaryPrec = map[lexer.TokenKind]int{
	lexer.TokArrow:    1,
	lexer.TokEquiv:    1,
	lexer.TokLogOr:    3,
	lexer.TokLogAnd:   4,
	lexer.TokOr:       5,
	lexer.TokXor:      6,
	lexer.TokXnor:     6,
	lexer.TokAnd:      7,
	lexer.TokEq:       8,
	lexer.TokNeq:      8,
	lexer.TokCaseEq:   8,
	lexer.TokCaseNeq:  8,
	lexer.TokWildEq:   8,
	lexer.TokWildNeq:  8,
	lexer.TokLt:       9,
	lexer.TokLe:       9,
	lexer.TokGt:       9,
	lexer.TokGe:       9,
	lexer.TokKwInside: 9,
	lexer.TokShl:      10,
	lexer.TokShr:      10,
	lexer.TokAShl:     10,
	lexer.TokAShr:     10,
	lexer.TokPlus:     11,
	lexer.TokMinus:    11,
	lexer.TokStar:     12,
	lexer.TokSlash:    12,
	lexer.TokPercent:  12,
	lexer.TokPower:    13,
}

// ternaryPrec sits between implication and logical or.
const ternaryPrec = 2

// parseExpr parses a full expression.
func (p *Parser) parseExpr() (ast.Expr, *types.SpanDiagnostic) {
	return p.parseBinary(1)
}

func (p *Parser) parseBinary(minPrec int) (ast.Expr, *types.SpanDiagnostic) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.Kind == lexer.TokQuestion && ternaryPrec >= minPrec {
			left, err = p.parseTernary(left)
			if err != nil {
				return nil, err
			}
			continue
		}
		prec, ok := binaryPrec[tok.Kind]
		if !ok || prec < minPrec {
			return left, nil
		}
		p.advance()
		if tok.Kind == lexer.TokKwInside {
			if !p.check(lexer.TokLBrace) {
				return nil, p.errorf("expected '{' after inside")
			}
			p.skipToken()
			left = &ast.OpaqueExpr{Span: p.spanFrom(left.ExprSpan().Start)}
			continue
		}
		right, err := p.parseBinary(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{
			Op:   p.tokenText(tok),
			X:    left,
			Y:    right,
			Span: types.NewSpan(left.ExprSpan().Start, right.ExprSpan().End),
		}
	}
}

func (p *Parser) parseTernary(cond ast.Expr) (ast.Expr, *types.SpanDiagnostic) {
	p.advance()
	then, err := p.parseBinary(ternaryPrec)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokColon); err != nil {
		return nil, err
	}
	els, err := p.parseBinary(ternaryPrec)
	if err != nil {
		return nil, err
	}
	return &ast.TernaryExpr{
		Cond: cond,
		Then: then,
		Else: els,
		Span: types.NewSpan(cond.ExprSpan().Start, els.ExprSpan().End),
	}, nil
}

func isUnaryOp(kind lexer.TokenKind) bool {
	switch kind {
	case lexer.TokPlus, lexer.TokMinus, lexer.TokLogNot, lexer.TokTilde,
		lexer.TokAnd, lexer.TokNand, lexer.TokOr, lexer.TokNor,
		lexer.TokXor, lexer.TokXnor, lexer.TokIncr, lexer.TokDecr:
		return true
	default:
		return false
	}
}

func (p *Parser) parseUnary() (ast.Expr, *types.SpanDiagnostic) {
	tok := p.peek()
	if !isUnaryOp(tok.Kind) {
		return p.parsePostfix()
	}
	p.advance()
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return &ast.UnaryExpr{
		Op:   p.tokenText(tok),
		X:    x,
		Span: types.NewSpan(tok.Span.Start, x.ExprSpan().End),
	}, nil
}

// parsePostfix parses a primary followed by selects, member and scope
// accesses, calls and casts.
func (p *Parser) parsePostfix() (ast.Expr, *types.SpanDiagnostic) {
	x, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	start := x.ExprSpan().Start
	for {
		switch {
		case p.check(lexer.TokColonColon) && p.checkNth(1, lexer.TokIdent):
			p.advance()
			name := p.makeIdent(p.advance())
			x = &ast.ScopedExpr{Scope: x, Name: name, Span: p.spanFrom(start)}

		case p.check(lexer.TokDot) && p.checkNth(1, lexer.TokIdent):
			p.advance()
			name := p.makeIdent(p.advance())
			x = &ast.MemberExpr{X: x, Name: name, Span: p.spanFrom(start)}

		case p.check(lexer.TokLBracket):
			x, err = p.parseSelect(x)
			if err != nil {
				return nil, err
			}

		case p.check(lexer.TokLParen) && isCallable(x):
			args, err := p.parseCallArgs()
			if err != nil {
				return nil, err
			}
			x = &ast.CallExpr{Fun: x, Args: args, Span: p.spanFrom(start)}

		case p.check(lexer.TokApostrophe) && p.checkNth(1, lexer.TokLParen):
			// cast: T'(expr)
			p.advance()
			p.skipToken()
			x = &ast.OpaqueExpr{Span: p.spanFrom(start)}

		case p.check(lexer.TokIncr) || p.check(lexer.TokDecr):
			p.advance()
			x = &ast.OpaqueExpr{Span: p.spanFrom(start)}

		default:
			return x, nil
		}
	}
}

func isCallable(x ast.Expr) bool {
	switch x.(type) {
	case *ast.IdentExpr, *ast.ScopedExpr, *ast.MemberExpr:
		return true
	default:
		return false
	}
}

// parseSelect parses [index], [left:right], [base+:width] or [base-:width].
func (p *Parser) parseSelect(x ast.Expr) (ast.Expr, *types.SpanDiagnostic) {
	p.advance()
	left, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var op string
	switch {
	case p.check(lexer.TokColon), p.check(lexer.TokPlusColon), p.check(lexer.TokMinusColon):
		op = p.tokenText(p.advance())
	}
	var result ast.Expr
	if op == "" {
		if _, err := p.expect(lexer.TokRBracket); err != nil {
			return nil, err
		}
		result = &ast.IndexExpr{X: x, Index: left, Span: p.spanFrom(x.ExprSpan().Start)}
		return result, nil
	}
	right, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokRBracket); err != nil {
		return nil, err
	}
	return &ast.RangeExpr{X: x, Op: op, Left: left, Right: right, Span: p.spanFrom(x.ExprSpan().Start)}, nil
}

// parseCallArgs parses (args). Empty argument slots are allowed, as in
// system task calls.
func (p *Parser) parseCallArgs() ([]ast.Expr, *types.SpanDiagnostic) {
	p.advance()
	var args []ast.Expr
	for !p.check(lexer.TokRParen) {
		if p.check(lexer.TokComma) {
			p.advance()
			continue
		}
		if p.check(lexer.TokDot) && p.checkNth(1, lexer.TokIdent) {
			// named argument .name(expr)
			start := p.currentSpan().Start
			p.advance()
			p.advance()
			if p.check(lexer.TokLParen) {
				p.skipToken()
			}
			args = append(args, &ast.OpaqueExpr{Span: p.spanFrom(start)})
		} else {
			arg, err := p.parseCallArg()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
		}
		if !p.accept(lexer.TokComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokRParen); err != nil {
		return nil, err
	}
	return args, nil
}

// parseCallArg accepts a type where system functions take one ($bits(logic)).
func (p *Parser) parseCallArg() (ast.Expr, *types.SpanDiagnostic) {
	if p.peek().Kind.IsDataType() && !p.checkNth(1, lexer.TokApostrophe) {
		start := p.currentSpan().Start
		if _, err := p.parseDataType(); err != nil {
			return nil, err
		}
		return &ast.OpaqueExpr{Span: p.spanFrom(start)}, nil
	}
	return p.parseExpr()
}

func (p *Parser) parsePrimary() (ast.Expr, *types.SpanDiagnostic) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.TokNumber:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LitDecimal, Text: p.tokenText(tok), Span: tok.Span}, nil
	case lexer.TokBasedNumber:
		p.advance()
		text := p.tokenText(tok)
		kind := ast.LitBased
		if len(text) == 2 && text[0] == '\'' && strings.ContainsRune("01xXzZ", rune(text[1])) {
			kind = ast.LitUnbased
		}
		return &ast.LiteralExpr{Kind: kind, Text: text, Span: tok.Span}, nil
	case lexer.TokRealNumber:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LitReal, Text: p.tokenText(tok), Span: tok.Span}, nil
	case lexer.TokString:
		p.advance()
		return &ast.LiteralExpr{Kind: ast.LitString, Text: p.tokenText(tok), Span: tok.Span}, nil

	case lexer.TokIdent:
		p.advance()
		return &ast.IdentExpr{Name: p.tokenText(tok), Span: tok.Span}, nil
	case lexer.TokSystemIdent:
		p.advance()
		return &ast.IdentExpr{Name: p.tokenText(tok), System: true, Span: tok.Span}, nil
	case lexer.TokMacro:
		p.advance()
		return &ast.IdentExpr{Name: p.tokenText(tok), Macro: true, Span: tok.Span}, nil
	case lexer.TokDollar:
		p.advance()
		return &ast.IdentExpr{Name: "$", System: true, Span: tok.Span}, nil

	case lexer.TokLParen:
		p.advance()
		x, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.check(lexer.TokColon) {
			// min:typ:max
			for !p.isEOF() && !p.check(lexer.TokRParen) {
				p.skipToken()
			}
			if _, err := p.expect(lexer.TokRParen); err != nil {
				return nil, err
			}
			return &ast.OpaqueExpr{Span: p.spanFrom(tok.Span.Start)}, nil
		}
		if _, err := p.expect(lexer.TokRParen); err != nil {
			return nil, err
		}
		return &ast.ParenExpr{X: x, Span: p.spanFrom(tok.Span.Start)}, nil

	case lexer.TokLBrace:
		return p.parseConcat()

	case lexer.TokApostrophe:
		// assignment pattern '{...}
		p.advance()
		if !p.check(lexer.TokLBrace) {
			return nil, p.errorf("expected '{' after apostrophe")
		}
		p.skipToken()
		return &ast.OpaqueExpr{Span: p.spanFrom(tok.Span.Start)}, nil

	case lexer.TokKwVectorType, lexer.TokKwAtomType, lexer.TokKwRealType,
		lexer.TokKwString, lexer.TokKwSigning, lexer.TokKwConst:
		if p.checkNth(1, lexer.TokApostrophe) && p.checkNth(2, lexer.TokLParen) {
			p.advance()
			p.advance()
			p.skipToken()
			return &ast.OpaqueExpr{Span: p.spanFrom(tok.Span.Start)}, nil
		}

	case lexer.TokKwType:
		p.advance()
		if p.check(lexer.TokLParen) {
			p.skipToken()
		}
		return &ast.OpaqueExpr{Span: p.spanFrom(tok.Span.Start)}, nil

	case lexer.TokKwOther:
		switch p.tokenText(tok) {
		case "null", "this", "super":
			p.advance()
			return &ast.OpaqueExpr{Span: tok.Span}, nil
		}
	}
	return nil, p.errorf("expected expression, found %s", p.describe(tok))
}

// parseConcat parses {a, b}, {n{a, b}} and streaming concatenations.
func (p *Parser) parseConcat() (ast.Expr, *types.SpanDiagnostic) {
	open := p.advance()
	if p.check(lexer.TokShl) || p.check(lexer.TokShr) || p.check(lexer.TokRBrace) {
		p.skipBalanced()
		return &ast.OpaqueExpr{Span: p.spanFrom(open.Span.Start)}, nil
	}
	first, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.TokLBrace) {
		p.advance()
		elems, err := p.parseExprList(lexer.TokRBrace)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokRBrace); err != nil {
			return nil, err
		}
		return &ast.ReplicateExpr{Count: first, Elems: elems, Span: p.spanFrom(open.Span.Start)}, nil
	}
	elems := []ast.Expr{first}
	if p.accept(lexer.TokComma) {
		rest, err := p.parseExprList(lexer.TokRBrace)
		if err != nil {
			return nil, err
		}
		elems = append(elems, rest...)
	} else if _, err := p.expect(lexer.TokRBrace); err != nil {
		return nil, err
	}
	return &ast.ConcatExpr{Elems: elems, Span: p.spanFrom(open.Span.Start)}, nil
}

// parseExprList parses expr {, expr} up to close and consumes close.
func (p *Parser) parseExprList(close lexer.TokenKind) ([]ast.Expr, *types.SpanDiagnostic) {
	var elems []ast.Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		if !p.accept(lexer.TokComma) {
			break
		}
	}
	if _, err := p.expect(close); err != nil {
		return nil, err
	}
	return elems, nil
}
