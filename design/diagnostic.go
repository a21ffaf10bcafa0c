package design

import "github.com/daubuild/svmodel/internal/types"

// Diagnostic is an issue found while building, loading or resolving a
// design.
type Diagnostic = types.Diagnostic

// Severity orders diagnostics; lower values are more severe.
type Severity = types.Severity

const (
	SeverityFatal   = types.SeverityFatal
	SeverityError   = types.SeverityError
	SeverityWarning = types.SeverityWarning
	SeverityInfo    = types.SeverityInfo
)

// DiagnosticConfig selects which diagnostics are reported and at what
// severity.
type DiagnosticConfig = types.DiagnosticConfig

// Report returns the diagnostics kept by cfg, with severity overrides
// applied.
func (d *Design) Report(cfg DiagnosticConfig) []Diagnostic {
	var out []Diagnostic
	for _, diag := range d.Diagnostics() {
		sev, ok := cfg.Apply(diag.Code, diag.Severity)
		if !ok {
			continue
		}
		diag.Severity = sev
		out = append(out, diag)
	}
	return out
}
