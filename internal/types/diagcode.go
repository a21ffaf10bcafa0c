package types

// Diagnostic codes emitted by the parser, extraction, loading and resolution.
// Centralizing these prevents silent breakage from typos in string literals.

// Parser diagnostic codes.
const (
	DiagParseError       = "parse-error"
	DiagLexError         = "lex-error"
	DiagSkippedConstruct = "skipped-construct"
)

// Extraction diagnostic codes.
const (
	DiagModportUnresolved = "modport-member-unresolved"
	DiagUserTypeSkipped   = "user-type-skipped"
	DiagParameterValue    = "parameter-not-integer"
)

// Loader diagnostic codes.
const (
	DiagFileSkipped     = "file-skipped"
	DiagDuplicateModule = "duplicate-module"
)

// Resolution diagnostic codes.
const (
	DiagInstanceUnresolved = "instance-unresolved"
	DiagLinkCount          = "link-count-mismatch"
)

// AllDiagnosticCodes returns all known diagnostic codes grouped by phase.
func AllDiagnosticCodes() []DiagCodeInfo {
	return []DiagCodeInfo{
		{Code: DiagParseError, Phase: "parser"},
		{Code: DiagLexError, Phase: "parser"},
		{Code: DiagSkippedConstruct, Phase: "parser"},
		{Code: DiagModportUnresolved, Phase: "extract"},
		{Code: DiagUserTypeSkipped, Phase: "extract"},
		{Code: DiagParameterValue, Phase: "extract"},
		{Code: DiagFileSkipped, Phase: "loader"},
		{Code: DiagDuplicateModule, Phase: "loader"},
		{Code: DiagInstanceUnresolved, Phase: "resolver"},
		{Code: DiagLinkCount, Phase: "resolver"},
	}
}

// DiagCodeInfo describes a diagnostic code and the phase that emits it.
type DiagCodeInfo struct {
	Code  string
	Phase string
}
