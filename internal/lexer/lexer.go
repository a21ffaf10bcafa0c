package lexer

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/daubuild/svmodel/internal/types"
)

// Lexer tokenizes SystemVerilog source text.
//
// Comments, attribute instances and compiler directives are skipped.
// Macro usages are returned as TokMacro so the parser can treat them
// as opaque primaries.
type Lexer struct {
	source      []byte
	pos         int
	diagnostics []types.SpanDiagnostic
	types.Logger
}

// New returns a Lexer that tokenizes the given source bytes.
func New(source []byte, logger *slog.Logger) *Lexer {
	l := &Lexer{
		source: source,
		Logger: types.Logger{L: logger},
	}
	l.Log(slog.LevelDebug, "lexer initialized", slog.Int("bytes", len(source)))
	return l
}

// Diagnostics returns a copy of all collected diagnostics.
func (l *Lexer) Diagnostics() []types.SpanDiagnostic {
	return slices.Clone(l.diagnostics)
}

func (l *Lexer) traceToken(tok Token) {
	if l.TraceEnabled() {
		l.Trace("token",
			slog.String("kind", tok.Kind.String()),
			slog.Int("start", int(tok.Span.Start)),
			slog.Int("end", int(tok.Span.End)))
	}
}

// Tokenize consumes all source text and returns the token stream
// along with any diagnostics generated during lexing.
func (l *Lexer) Tokenize() ([]Token, []types.SpanDiagnostic) {
	estimatedTokens := max(len(l.source)/4, 64)
	tokens := make([]Token, 0, estimatedTokens)
	for {
		tok := l.NextToken()
		tokens = append(tokens, tok)
		if tok.Kind == TokEOF {
			break
		}
	}
	l.Log(slog.LevelDebug, "tokenization complete",
		slog.Int("tokens", len(tokens)),
		slog.Int("diagnostics", len(l.diagnostics)))
	return tokens, l.diagnostics
}

// NextToken advances the lexer and returns the next token.
// Returns TokEOF when all input is consumed.
func (l *Lexer) NextToken() Token {
	for {
		tok, retry := l.nextNormalToken()
		if retry {
			continue
		}
		return tok
	}
}

func (l *Lexer) peek() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	return l.source[l.pos], true
}

func (l *Lexer) peekAt(offset int) (byte, bool) {
	idx := l.pos + offset
	if idx >= len(l.source) {
		return 0, false
	}
	return l.source[idx], true
}

func (l *Lexer) peekAtEquals(offset int, expected byte) bool {
	b, ok := l.peekAt(offset)
	return ok && b == expected
}

func (l *Lexer) advance() (byte, bool) {
	if l.pos >= len(l.source) {
		return 0, false
	}
	b := l.source[l.pos]
	l.pos++
	return b, true
}

func (l *Lexer) skipWhitespace() {
	for {
		b, ok := l.peek()
		if !ok || !isSpace(b) {
			return
		}
		l.advance()
	}
}

// skipToEOL skips to the end of the current line. A backslash before the
// newline continues the line, as in macro definitions.
func (l *Lexer) skipToEOL() {
	for {
		b, ok := l.peek()
		if !ok {
			return
		}
		if b == '\\' && (l.peekAtEquals(1, '\n') || l.peekAtEquals(1, '\r')) {
			l.advance()
			l.advance()
			continue
		}
		if b == '\n' {
			l.advance()
			return
		}
		l.advance()
	}
}

func (l *Lexer) error(span types.Span, message string) {
	l.diagnostics = append(l.diagnostics, types.SpanDiagnostic{
		Severity: types.SeverityError,
		Code:     types.DiagLexError,
		Span:     span,
		Message:  message,
	})
}

func (l *Lexer) spanFrom(start int) types.Span {
	return types.Span{
		Start: types.ByteOffset(start),
		End:   types.ByteOffset(l.pos),
	}
}

func (l *Lexer) token(kind TokenKind, start int) Token {
	tok := Token{
		Kind: kind,
		Span: l.spanFrom(start),
	}
	l.traceToken(tok)
	return tok
}

// op consumes n bytes and returns a token of the given kind.
func (l *Lexer) op(kind TokenKind, start, n int) (Token, bool) {
	l.pos += n
	return l.token(kind, start), false
}

// nextNormalToken scans the next token. Returns (token, retry) where
// retry=true means the caller should loop after skipping trivia.
func (l *Lexer) nextNormalToken() (Token, bool) {
	l.skipWhitespace()

	start := l.pos

	b, ok := l.peek()
	if !ok {
		return l.token(TokEOF, start), false
	}

	if b == '/' {
		if l.peekAtEquals(1, '/') {
			l.skipToEOL()
			return Token{}, true
		}
		if l.peekAtEquals(1, '*') {
			l.skipBlockComment(start, "*/", "unterminated block comment")
			return Token{}, true
		}
	}

	// (* attr *) but not @(*)
	if b == '(' && l.peekAtEquals(1, '*') && !l.peekAtEquals(2, ')') {
		l.skipBlockComment(start, "*)", "unterminated attribute instance")
		return Token{}, true
	}

	if b == '`' {
		return l.scanDirectiveOrMacro()
	}

	if isDigit(b) {
		return l.scanNumber(), false
	}

	if b == '\'' {
		return l.scanApostrophe(), false
	}

	if b == '"' {
		return l.scanString(), false
	}

	if isIdentStart(b) {
		return l.scanIdentifierOrKeyword(), false
	}

	if b == '\\' {
		return l.scanEscapedIdentifier(), false
	}

	if b == '$' {
		if next, ok := l.peekAt(1); ok && isIdentStart(next) {
			l.advance()
			l.skipIdentChars()
			return l.token(TokSystemIdent, start), false
		}
		return l.op(TokDollar, start, 1)
	}

	return l.scanOperator(start, b)
}

func (l *Lexer) scanOperator(start int, b byte) (Token, bool) {
	at := func(off int, c byte) bool { return l.peekAtEquals(off, c) }

	switch b {
	case '(':
		return l.op(TokLParen, start, 1)
	case ')':
		return l.op(TokRParen, start, 1)
	case '[':
		return l.op(TokLBracket, start, 1)
	case ']':
		return l.op(TokRBracket, start, 1)
	case '{':
		return l.op(TokLBrace, start, 1)
	case '}':
		return l.op(TokRBrace, start, 1)
	case ';':
		return l.op(TokSemicolon, start, 1)
	case ',':
		return l.op(TokComma, start, 1)
	case '?':
		return l.op(TokQuestion, start, 1)
	case '.':
		if at(1, '*') {
			return l.op(TokDotStar, start, 2)
		}
		return l.op(TokDot, start, 1)
	case ':':
		switch {
		case at(1, ':'):
			return l.op(TokColonColon, start, 2)
		case at(1, '='):
			return l.op(TokColonAssign, start, 2)
		case at(1, '/'):
			return l.op(TokColonSlash, start, 2)
		}
		return l.op(TokColon, start, 1)
	case '#':
		if at(1, '#') {
			return l.op(TokHashHash, start, 2)
		}
		return l.op(TokHash, start, 1)
	case '@':
		if at(1, '@') {
			return l.op(TokAtAt, start, 2)
		}
		return l.op(TokAt, start, 1)
	case '=':
		switch {
		case at(1, '=') && at(2, '='):
			return l.op(TokCaseEq, start, 3)
		case at(1, '=') && at(2, '?'):
			return l.op(TokWildEq, start, 3)
		case at(1, '='):
			return l.op(TokEq, start, 2)
		}
		return l.op(TokAssign, start, 1)
	case '!':
		switch {
		case at(1, '=') && at(2, '='):
			return l.op(TokCaseNeq, start, 3)
		case at(1, '=') && at(2, '?'):
			return l.op(TokWildNeq, start, 3)
		case at(1, '='):
			return l.op(TokNeq, start, 2)
		}
		return l.op(TokLogNot, start, 1)
	case '+':
		switch {
		case at(1, '+'):
			return l.op(TokIncr, start, 2)
		case at(1, '='):
			return l.op(TokCompoundAssign, start, 2)
		case at(1, ':'):
			return l.op(TokPlusColon, start, 2)
		}
		return l.op(TokPlus, start, 1)
	case '-':
		switch {
		case at(1, '-'):
			return l.op(TokDecr, start, 2)
		case at(1, '='):
			return l.op(TokCompoundAssign, start, 2)
		case at(1, ':'):
			return l.op(TokMinusColon, start, 2)
		case at(1, '>') && at(2, '>'):
			return l.op(TokDoubleArrow, start, 3)
		case at(1, '>'):
			return l.op(TokArrow, start, 2)
		}
		return l.op(TokMinus, start, 1)
	case '*':
		switch {
		case at(1, '*'):
			return l.op(TokPower, start, 2)
		case at(1, '='):
			return l.op(TokCompoundAssign, start, 2)
		}
		return l.op(TokStar, start, 1)
	case '/':
		if at(1, '=') {
			return l.op(TokCompoundAssign, start, 2)
		}
		return l.op(TokSlash, start, 1)
	case '%':
		if at(1, '=') {
			return l.op(TokCompoundAssign, start, 2)
		}
		return l.op(TokPercent, start, 1)
	case '<':
		switch {
		case at(1, '<') && at(2, '<') && at(3, '='):
			return l.op(TokCompoundAssign, start, 4)
		case at(1, '<') && at(2, '<'):
			return l.op(TokAShl, start, 3)
		case at(1, '<') && at(2, '='):
			return l.op(TokCompoundAssign, start, 3)
		case at(1, '<'):
			return l.op(TokShl, start, 2)
		case at(1, '-') && at(2, '>'):
			return l.op(TokEquiv, start, 3)
		case at(1, '='):
			return l.op(TokLe, start, 2)
		}
		return l.op(TokLt, start, 1)
	case '>':
		switch {
		case at(1, '>') && at(2, '>') && at(3, '='):
			return l.op(TokCompoundAssign, start, 4)
		case at(1, '>') && at(2, '>'):
			return l.op(TokAShr, start, 3)
		case at(1, '>') && at(2, '='):
			return l.op(TokCompoundAssign, start, 3)
		case at(1, '>'):
			return l.op(TokShr, start, 2)
		case at(1, '='):
			return l.op(TokGe, start, 2)
		}
		return l.op(TokGt, start, 1)
	case '&':
		switch {
		case at(1, '&') && at(2, '&'):
			return l.op(TokTripleAnd, start, 3)
		case at(1, '&'):
			return l.op(TokLogAnd, start, 2)
		case at(1, '='):
			return l.op(TokCompoundAssign, start, 2)
		}
		return l.op(TokAnd, start, 1)
	case '|':
		switch {
		case at(1, '|'):
			return l.op(TokLogOr, start, 2)
		case at(1, '='):
			return l.op(TokCompoundAssign, start, 2)
		}
		return l.op(TokOr, start, 1)
	case '^':
		switch {
		case at(1, '~'):
			return l.op(TokXnor, start, 2)
		case at(1, '='):
			return l.op(TokCompoundAssign, start, 2)
		}
		return l.op(TokXor, start, 1)
	case '~':
		switch {
		case at(1, '&'):
			return l.op(TokNand, start, 2)
		case at(1, '|'):
			return l.op(TokNor, start, 2)
		case at(1, '^'):
			return l.op(TokXnor, start, 2)
		}
		return l.op(TokTilde, start, 1)
	}

	l.advance()
	span := l.spanFrom(start)
	l.error(span, fmt.Sprintf("unexpected character: 0x%02x", b))
	return l.token(TokError, start), false
}

func (l *Lexer) skipBlockComment(start int, terminator, message string) {
	l.pos += 2
	for {
		b, ok := l.peek()
		if !ok {
			l.error(l.spanFrom(start), message)
			return
		}
		if b == terminator[0] && l.peekAtEquals(1, terminator[1]) {
			l.pos += 2
			return
		}
		l.advance()
	}
}

func (l *Lexer) skipIdentChars() {
	for {
		b, ok := l.peek()
		if !ok || !isIdentChar(b) {
			return
		}
		l.advance()
	}
}

func (l *Lexer) scanIdentifierOrKeyword() Token {
	start := l.pos
	l.skipIdentChars()
	text := string(l.source[start:l.pos])
	if kind, ok := LookupKeyword(text); ok {
		return l.token(kind, start)
	}
	return l.token(TokIdent, start)
}

// scanEscapedIdentifier scans \name up to the next whitespace.
func (l *Lexer) scanEscapedIdentifier() Token {
	start := l.pos
	l.advance()
	for {
		b, ok := l.peek()
		if !ok || isSpace(b) {
			break
		}
		l.advance()
	}
	if l.pos-start == 1 {
		l.error(l.spanFrom(start), "empty escaped identifier")
		return l.token(TokError, start)
	}
	return l.token(TokIdent, start)
}

// scanDirectiveOrMacro handles a backtick. Directives are consumed together
// with their arguments; anything else is a macro usage.
func (l *Lexer) scanDirectiveOrMacro() (Token, bool) {
	start := l.pos
	l.advance()
	nameStart := l.pos
	l.skipIdentChars()
	name := string(l.source[nameStart:l.pos])
	if name == "" {
		l.error(l.spanFrom(start), "stray backtick")
		return l.token(TokError, start), false
	}
	if !IsDirective(name) {
		return l.token(TokMacro, start), false
	}
	l.Log(slog.LevelDebug, "skipping directive",
		slog.String("directive", name), slog.Int("offset", start))
	switch name {
	case "ifdef", "ifndef", "elsif", "undef":
		l.skipInlineSpace()
		l.skipIdentChars()
	case "else", "endif", "resetall", "celldefine", "endcelldefine",
		"nounconnected_drive", "end_keywords", "undefineall":
	default:
		l.skipToEOL()
	}
	return Token{}, true
}

func (l *Lexer) skipInlineSpace() {
	for {
		b, ok := l.peek()
		if !ok || (b != ' ' && b != '\t') {
			return
		}
		l.advance()
	}
}

// scanNumber scans a decimal number, a real number, or a sized based
// literal such as 8'hFF.
func (l *Lexer) scanNumber() Token {
	start := l.pos
	l.skipDigits()

	b, _ := l.peek()
	switch {
	case b == '\'' && l.isBaseAt(1):
		l.advance()
		l.scanBasedDigits()
		return l.token(TokBasedNumber, start)
	case b == '.' && l.isDigitAt(1):
		l.advance()
		l.skipDigits()
		l.scanExponent()
		return l.token(TokRealNumber, start)
	case b == 'e' || b == 'E':
		if l.scanExponent() {
			return l.token(TokRealNumber, start)
		}
	}
	return l.token(TokNumber, start)
}

func (l *Lexer) skipDigits() {
	for {
		b, ok := l.peek()
		if !ok || !(isDigit(b) || b == '_') {
			return
		}
		l.advance()
	}
}

func (l *Lexer) isDigitAt(offset int) bool {
	b, ok := l.peekAt(offset)
	return ok && isDigit(b)
}

// scanExponent consumes e[+-]digits if present.
func (l *Lexer) scanExponent() bool {
	b, ok := l.peek()
	if !ok || (b != 'e' && b != 'E') {
		return false
	}
	off := 1
	if s, ok := l.peekAt(1); ok && (s == '+' || s == '-') {
		off = 2
	}
	if !l.isDigitAt(off) {
		return false
	}
	l.pos += off
	l.skipDigits()
	return true
}

// isBaseAt reports whether a base specifier ([sS]?[bBoOdDhH]) starts at offset.
func (l *Lexer) isBaseAt(offset int) bool {
	b, ok := l.peekAt(offset)
	if !ok {
		return false
	}
	if b == 's' || b == 'S' {
		b, ok = l.peekAt(offset + 1)
		if !ok {
			return false
		}
	}
	return isBaseChar(b)
}

// scanBasedDigits consumes the base specifier and value digits of a based
// literal. The apostrophe has already been consumed.
func (l *Lexer) scanBasedDigits() {
	if b, _ := l.peek(); b == 's' || b == 'S' {
		l.advance()
	}
	l.advance()
	l.skipInlineSpace()
	for {
		b, ok := l.peek()
		if !ok || !(isHexDigit(b) || b == '_' || b == 'x' || b == 'X' ||
			b == 'z' || b == 'Z' || b == '?') {
			return
		}
		l.advance()
	}
}

// scanApostrophe scans an unsized based literal ('hFF), an unbased unsized
// literal ('0 '1 'x 'z) or a bare apostrophe used by casts and patterns.
func (l *Lexer) scanApostrophe() Token {
	start := l.pos
	if l.isBaseAt(1) {
		l.advance()
		l.scanBasedDigits()
		return l.token(TokBasedNumber, start)
	}
	if b, ok := l.peekAt(1); ok && isUnbasedChar(b) {
		if next, ok := l.peekAt(2); !ok || !isIdentChar(next) {
			l.pos += 2
			return l.token(TokBasedNumber, start)
		}
	}
	l.advance()
	return l.token(TokApostrophe, start)
}

func (l *Lexer) scanString() Token {
	start := l.pos
	l.advance()
	for {
		b, ok := l.peek()
		if !ok || b == '\n' {
			l.error(l.spanFrom(start), "unterminated string literal")
			return l.token(TokString, start)
		}
		l.advance()
		if b == '\\' {
			l.advance()
			continue
		}
		if b == '"' {
			return l.token(TokString, start)
		}
	}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f' || b == '\v'
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func isIdentStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_'
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || isDigit(b) || b == '$'
}

func isBaseChar(b byte) bool {
	switch b {
	case 'b', 'B', 'o', 'O', 'd', 'D', 'h', 'H':
		return true
	default:
		return false
	}
}

func isUnbasedChar(b byte) bool {
	switch b {
	case '0', '1', 'x', 'X', 'z', 'Z':
		return true
	default:
		return false
	}
}
