// Package parser provides SystemVerilog parsing into an AST.
//
// The parser models the structural subset of the language: module and
// interface headers, parameter and port lists, net and variable
// declarations, continuous assignments, instantiations, modports and
// generate constructs. Procedural statements, functions, tasks, classes,
// assertions and other items are consumed by balanced skipping and kept
// as spans. Syntax errors are collected as diagnostics; the parser
// recovers at the next item boundary and continues.
package parser

import (
	"fmt"
	"log/slog"

	"github.com/daubuild/svmodel/internal/ast"
	"github.com/daubuild/svmodel/internal/lexer"
	"github.com/daubuild/svmodel/internal/types"
)

// Parser converts a token stream into an AST with diagnostics.
type Parser struct {
	source      []byte
	tokens      []lexer.Token
	pos         int
	lastEnd     types.ByteOffset
	lexDiags    []types.SpanDiagnostic
	diagnostics []types.SpanDiagnostic
	eofToken    lexer.Token
	types.Logger
}

// New returns a Parser that lexes the source and prepares for parsing.
// Pass nil for logger to disable logging.
func New(source []byte, logger *slog.Logger) *Parser {
	var lexLogger *slog.Logger
	if logger != nil {
		lexLogger = logger.With(slog.String("component", "lexer"))
	}
	tokens, lexDiags := lexer.New(source, lexLogger).Tokenize()
	eofSpan := types.NewSpan(types.ByteOffset(len(source)), types.ByteOffset(len(source)))
	p := &Parser{
		source:   source,
		tokens:   tokens,
		lexDiags: lexDiags,
		eofToken: lexer.NewToken(lexer.TokEOF, eofSpan),
		Logger:   types.Logger{L: logger},
	}
	p.Log(slog.LevelDebug, "parser initialized", slog.Int("tokens", len(tokens)))
	return p
}

// Parse is a convenience wrapper for New(source, logger).ParseFile().
func Parse(source []byte, logger *slog.Logger) *ast.SourceFile {
	return New(source, logger).ParseFile()
}

// ParseExpr parses source as one expression. Lexer errors, syntax errors
// and trailing tokens are all reported in the returned diagnostics.
func (p *Parser) ParseExpr() (ast.Expr, []types.SpanDiagnostic) {
	expr, err := p.parseExpr()
	if err == nil && !p.isEOF() {
		err = p.errorf("unexpected %s after expression", p.describe(p.peek()))
	}
	if err != nil {
		p.recordParseError(*err)
	}
	diags := append(append([]types.SpanDiagnostic{}, p.lexDiags...), p.diagnostics...)
	return expr, diags
}

// ParseFile parses every design unit in the source. Compilation-unit items
// other than modules and interfaces are skipped.
func (p *Parser) ParseFile() *ast.SourceFile {
	file := &ast.SourceFile{}
	for !p.isEOF() {
		before := p.pos
		switch p.peek().Kind {
		case lexer.TokKwModule, lexer.TokKwMacromodule, lexer.TokKwInterface:
			if p.peek().Kind == lexer.TokKwInterface && p.peekNth(1).Kind == lexer.TokKwClass {
				p.advance()
				if _, err := p.skipItem(); err != nil {
					p.recordParseError(*err)
				}
				continue
			}
			unit, err := p.parseUnit()
			if err != nil {
				p.recordParseError(*err)
				p.recoverToUnitEnd()
				continue
			}
			file.Units = append(file.Units, unit)
		case lexer.TokSemicolon:
			p.advance()
		default:
			if _, err := p.skipItem(); err != nil {
				p.recordParseError(*err)
			}
		}
		if p.pos == before {
			p.advance()
		}
	}
	file.Span = types.NewSpan(0, types.ByteOffset(len(p.source)))
	file.Diagnostics = append(append([]types.SpanDiagnostic{}, p.lexDiags...), p.diagnostics...)

	p.Log(slog.LevelDebug, "parsing complete",
		slog.Int("units", len(file.Units)),
		slog.Int("diagnostics", len(file.Diagnostics)))
	return file
}

func (p *Parser) isEOF() bool {
	return p.peek().Kind == lexer.TokEOF
}

func (p *Parser) peek() lexer.Token {
	return p.peekNth(0)
}

func (p *Parser) peekNth(n int) lexer.Token {
	if idx := p.pos + n; idx < len(p.tokens) {
		return p.tokens[idx]
	}
	return p.eofToken
}

func (p *Parser) advance() lexer.Token {
	tok := p.peek()
	if tok.Kind != lexer.TokEOF {
		p.pos++
		p.lastEnd = tok.Span.End
	}
	return tok
}

func (p *Parser) check(kind lexer.TokenKind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) checkNth(n int, kind lexer.TokenKind) bool {
	return p.peekNth(n).Kind == kind
}

// accept consumes the current token if it has the given kind.
func (p *Parser) accept(kind lexer.TokenKind) bool {
	if p.check(kind) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, *types.SpanDiagnostic) {
	if p.check(kind) {
		return p.advance(), nil
	}
	diag := p.makeError(fmt.Sprintf("expected %s, found %s", kind, p.describe(p.peek())))
	return lexer.Token{}, &diag
}

func (p *Parser) expectIdentifier() (ast.Ident, *types.SpanDiagnostic) {
	if p.check(lexer.TokIdent) {
		return p.makeIdent(p.advance()), nil
	}
	diag := p.makeError(fmt.Sprintf("expected identifier, found %s", p.describe(p.peek())))
	return ast.Ident{}, &diag
}

// describe renders a token for error messages.
func (p *Parser) describe(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.TokEOF:
		return "end of file"
	case lexer.TokIdent, lexer.TokNumber, lexer.TokBasedNumber:
		return fmt.Sprintf("%q", p.text(tok.Span))
	}
	if tok.Kind.IsKeyword() {
		return "'" + p.text(tok.Span) + "'"
	}
	return tok.Kind.String()
}

func (p *Parser) currentSpan() types.Span {
	return p.peek().Span
}

func (p *Parser) spanFrom(start types.ByteOffset) types.Span {
	end := p.lastEnd
	if end < start {
		end = start
	}
	return types.NewSpan(start, end)
}

func (p *Parser) text(span types.Span) string {
	return span.Text(p.source)
}

func (p *Parser) tokenText(tok lexer.Token) string {
	return p.text(tok.Span)
}

func (p *Parser) isKeywordText(tok lexer.Token, text string) bool {
	return tok.Kind == lexer.TokKwOther && p.tokenText(tok) == text
}

func (p *Parser) makeIdent(token lexer.Token) ast.Ident {
	return ast.NewIdent(p.text(token.Span), token.Span)
}

// recordParseError appends a structural parse error.
func (p *Parser) recordParseError(diag types.SpanDiagnostic) {
	p.diagnostics = append(p.diagnostics, diag)
	p.Log(slog.LevelDebug, "parse error",
		slog.String("message", diag.Message),
		slog.Int("offset", int(diag.Span.Start)))
}

func (p *Parser) makeError(message string) types.SpanDiagnostic {
	return types.SpanDiagnostic{
		Severity: types.SeverityError,
		Code:     types.DiagParseError,
		Span:     p.currentSpan(),
		Message:  message,
	}
}

func (p *Parser) errorf(format string, args ...any) *types.SpanDiagnostic {
	diag := p.makeError(fmt.Sprintf(format, args...))
	return &diag
}

// unitEnd returns the closing keyword for a design unit keyword.
func unitEnd(kind lexer.TokenKind) lexer.TokenKind {
	if kind == lexer.TokKwInterface {
		return lexer.TokKwEndinterface
	}
	return lexer.TokKwEndmodule
}

// parseUnit parses a module or interface declaration.
func (p *Parser) parseUnit() (*ast.UnitDecl, *types.SpanDiagnostic) {
	kwTok := p.advance()
	start := kwTok.Span.Start
	unit := &ast.UnitDecl{Kind: ast.UnitModule}
	if kwTok.Kind == lexer.TokKwInterface {
		unit.Kind = ast.UnitInterface
	}
	endKind := unitEnd(kwTok.Kind)

	if p.check(lexer.TokKwStatic) || p.check(lexer.TokKwAutomatic) {
		p.advance()
	}
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}
	unit.Name = name
	p.Log(slog.LevelDebug, "parsing unit",
		slog.String("kind", unit.Kind.String()),
		slog.String("name", name.Name))

	for p.check(lexer.TokKwImport) {
		if err := p.skipToSemicolon(); err != nil {
			return nil, err
		}
	}

	if p.accept(lexer.TokHash) {
		params, err := p.parseParamPortList()
		if err != nil {
			return nil, err
		}
		unit.Params = params
	}

	if p.check(lexer.TokLParen) {
		ports, err := p.parsePortList()
		if err != nil {
			return nil, err
		}
		unit.Ports = ports
	}

	if _, err := p.expect(lexer.TokSemicolon); err != nil {
		return nil, err
	}

	unit.Items = p.parseItemsUntil(endKind)

	if _, err := p.expect(endKind); err != nil {
		return nil, err
	}
	p.parseEndLabel()
	unit.Span = p.spanFrom(start)

	p.Log(slog.LevelDebug, "parsed unit",
		slog.String("name", name.Name),
		slog.Int("items", len(unit.Items)))
	return unit, nil
}

// parseEndLabel consumes an optional ": label" after an end keyword.
func (p *Parser) parseEndLabel() {
	if p.check(lexer.TokColon) && p.checkNth(1, lexer.TokIdent) {
		p.advance()
		p.advance()
	}
}

// parseItemsUntil parses items until one of the terminators (not consumed)
// or the end of a design unit.
func (p *Parser) parseItemsUntil(terminators ...lexer.TokenKind) []ast.Item {
	var items []ast.Item
	for !p.isEOF() {
		kind := p.peek().Kind
		if containsKind(terminators, kind) {
			break
		}
		if kind == lexer.TokKwEndmodule || kind == lexer.TokKwEndinterface {
			break
		}
		before := p.pos
		parsed, err := p.parseItem()
		if err != nil {
			p.recordParseError(*err)
			p.recoverToItem()
		} else {
			items = append(items, parsed...)
		}
		if p.pos == before {
			diag := p.makeError(fmt.Sprintf("unexpected %s", p.describe(p.peek())))
			p.recordParseError(diag)
			p.advance()
		}
	}
	return items
}

func containsKind(kinds []lexer.TokenKind, kind lexer.TokenKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// recoverToItem skips to just past the next semicolon, or to a block end
// keyword, whichever comes first.
func (p *Parser) recoverToItem() {
	for !p.isEOF() {
		switch p.peek().Kind {
		case lexer.TokSemicolon:
			p.advance()
			return
		case lexer.TokKwEnd, lexer.TokKwEndgenerate, lexer.TokKwEndcase,
			lexer.TokKwEndmodule, lexer.TokKwEndinterface:
			return
		}
		p.advance()
	}
}

// recoverToUnitEnd skips past the end of the current design unit.
func (p *Parser) recoverToUnitEnd() {
	for !p.isEOF() {
		tok := p.advance()
		if tok.Kind == lexer.TokKwEndmodule || tok.Kind == lexer.TokKwEndinterface {
			p.parseEndLabel()
			return
		}
	}
}
