package parser

import (
	"github.com/daubuild/svmodel/internal/ast"
	"github.com/daubuild/svmodel/internal/lexer"
	"github.com/daubuild/svmodel/internal/types"
)

var procKinds = map[lexer.TokenKind]ast.ProcKind{
	lexer.TokKwAlways:      ast.ProcAlways,
	lexer.TokKwAlwaysComb:  ast.ProcAlwaysComb,
	lexer.TokKwAlwaysFF:    ast.ProcAlwaysFF,
	lexer.TokKwAlwaysLatch: ast.ProcAlwaysLatch,
	lexer.TokKwInitial:     ast.ProcInitial,
	lexer.TokKwFinal:       ast.ProcFinal,
}

// parseProceduralBlock parses always*/initial/final with its statement.
func (p *Parser) parseProceduralBlock() (*ast.ProceduralBlock, *types.SpanDiagnostic) {
	kw := p.advance()
	block := &ast.ProceduralBlock{Kind: procKinds[kw.Kind]}

	if p.check(lexer.TokAt) || p.check(lexer.TokHash) {
		timingStart := p.currentSpan().Start
		if err := p.skipTimingControl(); err != nil {
			return nil, err
		}
		block.Timing = p.spanFrom(timingStart)
	}

	bodyStart := p.currentSpan().Start
	if err := p.skipStatement(); err != nil {
		return nil, err
	}
	block.Body = p.spanFrom(bodyStart)
	block.Span = p.spanFrom(kw.Span.Start)
	return block, nil
}

// skipTimingControl skips @(...), @*, @(*), @name, ##n or #delay.
func (p *Parser) skipTimingControl() *types.SpanDiagnostic {
	switch {
	case p.accept(lexer.TokAt):
		switch {
		case p.check(lexer.TokLParen):
			p.skipToken()
		case p.accept(lexer.TokStar):
		case p.check(lexer.TokIdent):
			p.advance()
			for p.check(lexer.TokDot) && p.checkNth(1, lexer.TokIdent) {
				p.advance()
				p.advance()
			}
		default:
			return p.errorf("malformed event control")
		}
	case p.check(lexer.TokHash), p.check(lexer.TokHashHash):
		p.skipDelay()
	}
	return nil
}

// skipDelay skips #value, #(expr) and #value<unit>.
func (p *Parser) skipDelay() {
	p.advance()
	if p.check(lexer.TokLParen) {
		p.skipToken()
		return
	}
	tok := p.advance()
	next := p.peek()
	if next.Kind == lexer.TokIdent && next.Span.Start == tok.Span.End && isTimeUnit(p.tokenText(next)) {
		p.advance()
	}
}

func isTimeUnit(s string) bool {
	switch s {
	case "s", "ms", "us", "ns", "ps", "fs":
		return true
	default:
		return false
	}
}

// skipStatement consumes one procedural statement.
func (p *Parser) skipStatement() *types.SpanDiagnostic {
	tok := p.peek()
	switch tok.Kind {
	case lexer.TokEOF:
		return p.errorf("unexpected end of file in statement")

	case lexer.TokSemicolon:
		p.advance()
		return nil

	case lexer.TokKwBegin:
		return p.skipSeqBlock(lexer.TokKwEnd)

	case lexer.TokKwFork:
		return p.skipSeqBlock(lexer.TokKwJoin)

	case lexer.TokKwUniquePriority:
		p.advance()
		return p.skipStatement()

	case lexer.TokKwIf:
		p.advance()
		if !p.check(lexer.TokLParen) {
			return p.errorf("expected '(' after if")
		}
		p.skipToken()
		if err := p.skipStatement(); err != nil {
			return err
		}
		if p.accept(lexer.TokKwElse) {
			return p.skipStatement()
		}
		return nil

	case lexer.TokKwCase:
		return p.skipCaseStatement()

	case lexer.TokKwFor, lexer.TokKwForeach, lexer.TokKwWhile, lexer.TokKwRepeat:
		p.advance()
		if !p.check(lexer.TokLParen) {
			return p.errorf("expected '(' after %s", tok.Kind)
		}
		p.skipToken()
		return p.skipStatement()

	case lexer.TokKwForever:
		p.advance()
		return p.skipStatement()

	case lexer.TokKwDo:
		p.advance()
		if err := p.skipStatement(); err != nil {
			return err
		}
		if _, err := p.expect(lexer.TokKwWhile); err != nil {
			return err
		}
		return p.skipToSemicolon()

	case lexer.TokKwWait:
		p.advance()
		if p.check(lexer.TokLParen) {
			p.skipToken()
			return p.skipStatement()
		}
		return p.skipToSemicolon()

	case lexer.TokAt, lexer.TokHash, lexer.TokHashHash:
		if err := p.skipTimingControl(); err != nil {
			return err
		}
		return p.skipStatement()

	case lexer.TokKwOther:
		switch p.tokenText(tok) {
		case "assert", "assume", "cover":
			return p.skipImmediateAssertion()
		}

	case lexer.TokIdent:
		if p.checkNth(1, lexer.TokColon) {
			p.advance()
			p.advance()
			return p.skipStatement()
		}

	case lexer.TokKwEnd, lexer.TokKwJoin, lexer.TokKwEndcase,
		lexer.TokKwEndmodule, lexer.TokKwEndinterface:
		return p.errorf("expected statement, found %s", tok.Kind)
	}

	return p.skipToSemicolon()
}

// skipSeqBlock skips begin ... end or fork ... join with labels.
func (p *Parser) skipSeqBlock(end lexer.TokenKind) *types.SpanDiagnostic {
	p.advance()
	p.parseEndLabel()
	for !p.check(end) {
		if p.isEOF() || p.check(lexer.TokKwEndmodule) || p.check(lexer.TokKwEndinterface) {
			return p.errorf("expected %s, found %s", end, p.describe(p.peek()))
		}
		if err := p.skipStatement(); err != nil {
			return err
		}
	}
	p.advance()
	p.parseEndLabel()
	return nil
}

// skipCaseStatement skips case (expr) [inside] items endcase.
func (p *Parser) skipCaseStatement() *types.SpanDiagnostic {
	p.advance()
	if !p.check(lexer.TokLParen) {
		return p.errorf("expected '(' after case")
	}
	p.skipToken()
	if p.check(lexer.TokKwInside) || p.isKeywordText(p.peek(), "matches") {
		p.advance()
	}
	for !p.check(lexer.TokKwEndcase) {
		if p.isEOF() || p.check(lexer.TokKwEndmodule) || p.check(lexer.TokKwEndinterface) {
			return p.errorf("expected 'endcase', found %s", p.describe(p.peek()))
		}
		if p.accept(lexer.TokKwDefault) {
			p.accept(lexer.TokColon)
		} else {
			for !p.isEOF() && !p.check(lexer.TokColon) && !p.check(lexer.TokKwEndcase) {
				p.skipToken()
			}
			if _, err := p.expect(lexer.TokColon); err != nil {
				return err
			}
		}
		if err := p.skipStatement(); err != nil {
			return err
		}
	}
	p.advance()
	return nil
}

// skipImmediateAssertion skips assert/assume/cover [#0|final] (expr) action [else action].
func (p *Parser) skipImmediateAssertion() *types.SpanDiagnostic {
	p.advance()
	for p.check(lexer.TokHash) || p.isKeywordText(p.peek(), "final") || p.check(lexer.TokKwProperty) {
		if p.check(lexer.TokHash) {
			p.skipDelay()
		} else {
			p.advance()
		}
	}
	if p.check(lexer.TokLParen) {
		p.skipToken()
	}
	if err := p.skipStatement(); err != nil {
		return err
	}
	if p.accept(lexer.TokKwElse) {
		return p.skipStatement()
	}
	return nil
}

// skipItem consumes an item that is not modeled and returns it as a
// SkippedItem. Block constructs (function, task, class, ...) are skipped
// to their end keyword; everything else to the next semicolon.
func (p *Parser) skipItem() (*ast.SkippedItem, *types.SpanDiagnostic) {
	start := p.peek()
	what := p.tokenText(start)

	switch start.Kind {
	case lexer.TokKwTypedef, lexer.TokKwImport, lexer.TokKwExport,
		lexer.TokKwDefparam, lexer.TokKwBind, lexer.TokKwLet:
		err := p.skipToSemicolon()
		return &ast.SkippedItem{What: what, Span: p.spanFrom(start.Span.Start)}, err
	case lexer.TokKwDefault:
		var err *types.SpanDiagnostic
		if p.checkNth(1, lexer.TokKwClocking) && p.clockingHasBody(2) {
			p.advance()
			p.skipBlock()
		} else {
			err = p.skipToSemicolon()
		}
		return &ast.SkippedItem{What: what, Span: p.spanFrom(start.Span.Start)}, err
	}
	if p.isKeywordText(start, "extern") {
		err := p.skipToSemicolon()
		return &ast.SkippedItem{What: what, Span: p.spanFrom(start.Span.Start)}, err
	}

	for p.check(lexer.TokKwVirtual) || p.check(lexer.TokKwStatic) || p.check(lexer.TokKwAutomatic) ||
		p.isKeywordText(p.peek(), "pure") || p.isKeywordText(p.peek(), "protected") ||
		p.isKeywordText(p.peek(), "local") || p.isKeywordText(p.peek(), "global") {
		if _, ok := p.peekNth(1).Kind.BlockEnd(); !ok && !p.isQualifierAt(1) {
			break
		}
		p.advance()
	}
	var err *types.SpanDiagnostic
	if p.check(lexer.TokKwClocking) && !p.clockingHasBody(1) {
		err = p.skipToSemicolon()
	} else if _, ok := p.peek().Kind.BlockEnd(); ok {
		what = p.tokenText(p.peek())
		p.skipBlock()
	} else {
		err = p.skipToSemicolon()
	}
	return &ast.SkippedItem{What: what, Span: p.spanFrom(start.Span.Start)}, err
}

func (p *Parser) isQualifierAt(n int) bool {
	tok := p.peekNth(n)
	switch tok.Kind {
	case lexer.TokKwVirtual, lexer.TokKwStatic, lexer.TokKwAutomatic:
		return true
	}
	for _, q := range []string{"pure", "protected", "local", "global"} {
		if p.isKeywordText(tok, q) {
			return true
		}
	}
	return false
}

// clockingHasBody reports whether the clocking construct whose name or
// event starts at lookahead n is a block (has an event control before
// its first semicolon) rather than a "default clocking name;" reference.
func (p *Parser) clockingHasBody(n int) bool {
	for i := n; ; i++ {
		switch p.peekNth(i).Kind {
		case lexer.TokAt:
			return true
		case lexer.TokSemicolon, lexer.TokEOF:
			return false
		}
	}
}

// skipBlock skips from a block keyword to its matching end keyword,
// counting nested blocks of the same kind.
func (p *Parser) skipBlock() {
	open := p.advance()
	end, _ := open.Kind.BlockEnd()
	depth := 1
	for !p.isEOF() && depth > 0 {
		kind := p.advance().Kind
		switch kind {
		case open.Kind:
			depth++
		case end:
			depth--
		}
	}
	p.parseEndLabel()
}

// skipToSemicolon skips to just past the next semicolon at bracket depth
// zero. A begin ... end block also terminates the construct. Reaching the
// end of the design unit or the file first is an error; the unit end is
// not consumed.
func (p *Parser) skipToSemicolon() *types.SpanDiagnostic {
	for !p.isEOF() {
		switch p.peek().Kind {
		case lexer.TokSemicolon:
			p.advance()
			return nil
		case lexer.TokKwBegin:
			if err := p.skipSeqBlock(lexer.TokKwEnd); err != nil {
				return err
			}
			if p.check(lexer.TokKwElse) {
				p.advance()
				continue
			}
			return nil
		case lexer.TokKwEndmodule, lexer.TokKwEndinterface:
			return p.errorf("expected ';', found %s", p.describe(p.peek()))
		}
		p.skipToken()
	}
	return p.errorf("expected ';', found end of file")
}

// skipToken consumes one token; an opening bracket is consumed together
// with everything up to its matching close.
func (p *Parser) skipToken() {
	tok := p.advance()
	switch tok.Kind {
	case lexer.TokLParen, lexer.TokLBracket, lexer.TokLBrace:
		p.skipBalanced()
	}
}

// skipBalanced consumes tokens until the bracket matching an already
// consumed opening bracket has been consumed.
func (p *Parser) skipBalanced() {
	depth := 1
	for !p.isEOF() && depth > 0 {
		switch p.advance().Kind {
		case lexer.TokLParen, lexer.TokLBracket, lexer.TokLBrace:
			depth++
		case lexer.TokRParen, lexer.TokRBracket, lexer.TokRBrace:
			depth--
		}
	}
}
