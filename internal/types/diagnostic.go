package types

import (
	"fmt"
	"slices"
	"strings"
)

// Severity orders diagnostics; lower values are more severe.
type Severity int

const (
	SeverityFatal Severity = iota
	SeverityError
	SeverityWarning
	SeverityInfo
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// AtLeast reports whether s is at least as severe as other.
func (s Severity) AtLeast(other Severity) bool {
	return s <= other
}

// ParseSeverity maps a severity name back to its value.
func ParseSeverity(name string) (Severity, bool) {
	switch strings.ToLower(name) {
	case "fatal":
		return SeverityFatal, true
	case "error":
		return SeverityError, true
	case "warning", "warn":
		return SeverityWarning, true
	case "info":
		return SeverityInfo, true
	default:
		return SeverityInfo, false
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	v, ok := ParseSeverity(string(text))
	if !ok {
		return fmt.Errorf("unknown severity %q", text)
	}
	*s = v
	return nil
}

// SpanDiagnostic is a message from the lexer or parser, located by span.
// It is converted to a Diagnostic with line information during extraction.
type SpanDiagnostic struct {
	Severity Severity
	Code     string
	Span     Span
	Message  string
}

// Diagnostic represents an issue found while loading or resolving a design.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"` // e.g. "duplicate-module", "file-skipped"
	Message  string   `json:"message"`
	Module   string   `json:"module,omitempty"`
	File     string   `json:"file,omitempty"`
	Line     int      `json:"line,omitempty"` // 1-based, 0 if not applicable
}

// String returns a human-readable representation of the diagnostic.
// Format: "[severity] location: message" with location parts omitted when empty.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(d.Severity.String())
	b.WriteString("] ")
	loc := d.File
	if loc == "" {
		loc = d.Module
	}
	if loc != "" {
		b.WriteString(loc)
		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
		}
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	return b.String()
}

// DiagnosticConfig controls which diagnostics are kept.
type DiagnosticConfig struct {
	// Level is the least severe severity still reported.
	Level Severity

	// Overrides change severity for specific diagnostic codes.
	Overrides map[string]Severity

	// Ignore lists diagnostic codes to suppress entirely.
	// Supports glob patterns (e.g., "modport-*").
	Ignore []string
}

// DefaultConfig reports warnings and above.
func DefaultConfig() DiagnosticConfig {
	return DiagnosticConfig{Level: SeverityWarning}
}

// VerboseConfig reports everything, including info diagnostics.
func VerboseConfig() DiagnosticConfig {
	return DiagnosticConfig{Level: SeverityInfo}
}

// Apply returns the effective severity for code and whether it is reported.
func (c DiagnosticConfig) Apply(code string, sev Severity) (Severity, bool) {
	if slices.ContainsFunc(c.Ignore, func(pattern string) bool {
		return MatchGlob(pattern, code)
	}) {
		return sev, false
	}
	if override, ok := c.Overrides[code]; ok {
		sev = override
	}
	return sev, sev <= c.Level
}

// ShouldReport returns true if a diagnostic with the given code and severity
// should be reported under this configuration.
func (c DiagnosticConfig) ShouldReport(code string, sev Severity) bool {
	_, ok := c.Apply(code, sev)
	return ok
}

// MatchGlob performs simple glob matching with * wildcard.
func MatchGlob(pattern, s string) bool {
	if pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(s, prefix)
	}
	if suffix, ok := strings.CutPrefix(pattern, "*"); ok {
		return strings.HasSuffix(s, suffix)
	}
	return pattern == s
}
