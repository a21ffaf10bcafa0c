// Package lexer provides tokenization for SystemVerilog source text.
package lexer

import (
	"fmt"

	"github.com/daubuild/svmodel/internal/types"
)

// Token is a token with kind and source span.
type Token struct {
	Kind TokenKind
	Span types.Span
}

// NewToken creates a new token.
func NewToken(kind TokenKind, span types.Span) Token {
	return Token{Kind: kind, Span: span}
}

// TokenKind identifies a token type.
type TokenKind int

const (
	// === Special ===

	// TokError is a lexical error.
	TokError TokenKind = iota
	// TokEOF is end of input.
	TokEOF

	// === Identifiers ===

	// TokIdent is a simple or escaped identifier.
	TokIdent
	// TokSystemIdent is a system task or function name ($clog2, $display).
	TokSystemIdent
	// TokMacro is a text macro usage (`WIDTH).
	TokMacro

	// === Literals ===

	// TokNumber is an unsized decimal number (may contain underscores).
	TokNumber
	// TokBasedNumber is a based or unbased literal (8'hFF, 'd3, '0).
	TokBasedNumber
	// TokRealNumber is a real literal (1.5, 2e3).
	TokRealNumber
	// TokString is a quoted string literal.
	TokString

	// === Punctuation ===

	TokLParen     // (
	TokRParen     // )
	TokLBracket   // [
	TokRBracket   // ]
	TokLBrace     // {
	TokRBrace     // }
	TokSemicolon  // ;
	TokComma      // ,
	TokDot        // .
	TokDotStar    // .*
	TokColon      // :
	TokColonColon // ::
	TokHash       // #
	TokHashHash   // ##
	TokAt         // @
	TokAtAt       // @@
	TokQuestion   // ?
	TokApostrophe // '
	TokDollar     // $

	// === Operators ===

	TokAssign         // =
	TokPlus           // +
	TokMinus          // -
	TokStar           // *
	TokSlash          // /
	TokPercent        // %
	TokPower          // **
	TokEq             // ==
	TokNeq            // !=
	TokCaseEq         // ===
	TokCaseNeq        // !==
	TokWildEq         // ==?
	TokWildNeq        // !=?
	TokLt             // <
	TokLe             // <=
	TokGt             // >
	TokGe             // >=
	TokLogAnd         // &&
	TokLogOr          // ||
	TokLogNot         // !
	TokAnd            // &
	TokOr             // |
	TokXor            // ^
	TokTilde          // ~
	TokNand           // ~&
	TokNor            // ~|
	TokXnor           // ~^ or ^~
	TokShl            // <<
	TokShr            // >>
	TokAShl           // <<<
	TokAShr           // >>>
	TokCompoundAssign // += -= *= /= %= &= |= ^= <<= >>= <<<= >>>=
	TokIncr           // ++
	TokDecr           // --
	TokArrow          // ->
	TokDoubleArrow    // ->>
	TokEquiv          // <->
	TokPlusColon      // +:
	TokMinusColon     // -:
	TokColonAssign    // :=
	TokColonSlash     // :/
	TokTripleAnd      // &&&

	// === Design unit keywords ===

	TokKwModule
	TokKwMacromodule
	TokKwEndmodule
	TokKwInterface
	TokKwEndinterface
	TokKwProgram
	TokKwEndprogram
	TokKwPackage
	TokKwEndpackage
	TokKwClass
	TokKwEndclass
	TokKwPrimitive
	TokKwEndprimitive
	TokKwConfig
	TokKwEndconfig
	TokKwChecker
	TokKwEndchecker

	// === Declaration keywords ===

	TokKwInput
	TokKwOutput
	TokKwInout
	TokKwRef
	TokKwParameter
	TokKwLocalparam
	TokKwDefparam
	TokKwNetType    // wire tri tri0 tri1 wand wor triand trior trireg supply0 supply1 uwire
	TokKwVectorType // logic reg bit
	TokKwAtomType   // byte shortint int longint integer time
	TokKwRealType   // real shortreal realtime
	TokKwString
	TokKwVar
	TokKwSigning // signed unsigned
	TokKwTypedef
	TokKwEnum
	TokKwStruct
	TokKwUnion
	TokKwPacked
	TokKwType
	TokKwGenvar
	TokKwModport
	TokKwImport
	TokKwExport
	TokKwConst
	TokKwAutomatic
	TokKwStatic
	TokKwVirtual
	TokKwBind
	TokKwLet

	// === Behavioral keywords ===

	TokKwAssign
	TokKwAlways
	TokKwAlwaysComb
	TokKwAlwaysFF
	TokKwAlwaysLatch
	TokKwInitial
	TokKwFinal
	TokKwBegin
	TokKwEnd
	TokKwFork
	TokKwJoin // join join_any join_none
	TokKwGenerate
	TokKwEndgenerate
	TokKwFor
	TokKwForeach
	TokKwWhile
	TokKwRepeat
	TokKwForever
	TokKwDo
	TokKwIf
	TokKwElse
	TokKwCase // case casez casex randcase
	TokKwEndcase
	TokKwDefault
	TokKwInside
	TokKwUniquePriority // unique unique0 priority
	TokKwWait

	// === Block keywords skipped as a whole ===

	TokKwFunction
	TokKwEndfunction
	TokKwTask
	TokKwEndtask
	TokKwClocking
	TokKwEndclocking
	TokKwProperty
	TokKwEndproperty
	TokKwSequence
	TokKwEndsequence
	TokKwCovergroup
	TokKwEndgroup
	TokKwSpecify
	TokKwEndspecify
	TokKwTable
	TokKwEndtable

	// TokKwOther is any other reserved word (posedge, or, assert, ...).
	TokKwOther
)

var punctNames = map[TokenKind]string{
	TokError: "error", TokEOF: "end of file",
	TokIdent: "identifier", TokSystemIdent: "system identifier", TokMacro: "macro",
	TokNumber: "number", TokBasedNumber: "based number", TokRealNumber: "real number",
	TokString: "string",
	TokLParen: "'('", TokRParen: "')'", TokLBracket: "'['", TokRBracket: "']'",
	TokLBrace: "'{'", TokRBrace: "'}'", TokSemicolon: "';'", TokComma: "','",
	TokDot: "'.'", TokDotStar: "'.*'", TokColon: "':'", TokColonColon: "'::'",
	TokHash: "'#'", TokHashHash: "'##'", TokAt: "'@'", TokAtAt: "'@@'",
	TokQuestion: "'?'", TokApostrophe: "'''", TokDollar: "'$'",
	TokAssign: "'='", TokPlus: "'+'", TokMinus: "'-'", TokStar: "'*'",
	TokSlash: "'/'", TokPercent: "'%'", TokPower: "'**'",
	TokEq: "'=='", TokNeq: "'!='", TokCaseEq: "'==='", TokCaseNeq: "'!=='",
	TokWildEq: "'==?'", TokWildNeq: "'!=?'",
	TokLt: "'<'", TokLe: "'<='", TokGt: "'>'", TokGe: "'>='",
	TokLogAnd: "'&&'", TokLogOr: "'||'", TokLogNot: "'!'",
	TokAnd: "'&'", TokOr: "'|'", TokXor: "'^'", TokTilde: "'~'",
	TokNand: "'~&'", TokNor: "'~|'", TokXnor: "'~^'",
	TokShl: "'<<'", TokShr: "'>>'", TokAShl: "'<<<'", TokAShr: "'>>>'",
	TokCompoundAssign: "compound assignment", TokIncr: "'++'", TokDecr: "'--'",
	TokArrow: "'->'", TokDoubleArrow: "'->>'", TokEquiv: "'<->'",
	TokPlusColon: "'+:'", TokMinusColon: "'-:'", TokColonAssign: "':='",
	TokColonSlash: "':/'", TokTripleAnd: "'&&&'",
	TokKwOther: "keyword",
}

// String returns a human-readable token kind name for diagnostics.
func (k TokenKind) String() string {
	if name, ok := punctNames[k]; ok {
		return name
	}
	if text, ok := keywordText(k); ok {
		return "'" + text + "'"
	}
	return fmt.Sprintf("token(%d)", int(k))
}

// IsKeyword returns true if this token is a reserved word.
func (k TokenKind) IsKeyword() bool {
	return k >= TokKwModule && k <= TokKwOther
}

// IsDirection returns true for port direction keywords.
func (k TokenKind) IsDirection() bool {
	switch k {
	case TokKwInput, TokKwOutput, TokKwInout, TokKwRef:
		return true
	default:
		return false
	}
}

// IsDataType returns true for keywords that start a built-in data type.
func (k TokenKind) IsDataType() bool {
	switch k {
	case TokKwVectorType, TokKwAtomType, TokKwRealType, TokKwString:
		return true
	default:
		return false
	}
}

// IsProcedure returns true for keywords that start a procedural block.
func (k TokenKind) IsProcedure() bool {
	switch k {
	case TokKwAlways, TokKwAlwaysComb, TokKwAlwaysFF, TokKwAlwaysLatch,
		TokKwInitial, TokKwFinal:
		return true
	default:
		return false
	}
}

// BlockEnd returns the closing keyword for constructs that are skipped as a
// whole (functions, tasks, classes, ...), or false if k opens no such block.
func (k TokenKind) BlockEnd() (TokenKind, bool) {
	switch k {
	case TokKwFunction:
		return TokKwEndfunction, true
	case TokKwTask:
		return TokKwEndtask, true
	case TokKwClocking:
		return TokKwEndclocking, true
	case TokKwProperty:
		return TokKwEndproperty, true
	case TokKwSequence:
		return TokKwEndsequence, true
	case TokKwCovergroup:
		return TokKwEndgroup, true
	case TokKwSpecify:
		return TokKwEndspecify, true
	case TokKwTable:
		return TokKwEndtable, true
	case TokKwClass:
		return TokKwEndclass, true
	case TokKwPackage:
		return TokKwEndpackage, true
	case TokKwProgram:
		return TokKwEndprogram, true
	case TokKwPrimitive:
		return TokKwEndprimitive, true
	case TokKwConfig:
		return TokKwEndconfig, true
	case TokKwChecker:
		return TokKwEndchecker, true
	default:
		return TokError, false
	}
}
