package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern string
		s       string
		want    bool
	}{
		{"*", "anything", true},
		{"*", "", true},

		{"modport-*", "modport-member-unresolved", true},
		{"modport-*", "modport-", true},
		{"modport-*", "instance-unresolved", false},
		{"modport-*", "modport", false},

		{"*-unresolved", "instance-unresolved", true},
		{"*-module", "duplicate-module", true},
		{"*-module", "duplicate-modules", false},

		{"exact", "exact", true},
		{"exact", "other", false},

		{"", "", true},
		{"", "x", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.s, func(t *testing.T) {
			require.Equal(t, tt.want, MatchGlob(tt.pattern, tt.s))
		})
	}
}

func TestDiagnosticConfigApply(t *testing.T) {
	cfg := DiagnosticConfig{
		Level:     SeverityWarning,
		Overrides: map[string]Severity{DiagDuplicateModule: SeverityError},
		Ignore:    []string{"modport-*"},
	}

	sev, ok := cfg.Apply(DiagDuplicateModule, SeverityWarning)
	require.True(t, ok)
	require.Equal(t, SeverityError, sev)

	_, ok = cfg.Apply(DiagModportUnresolved, SeverityWarning)
	require.False(t, ok, "ignored code must not be reported")

	require.False(t, cfg.ShouldReport(DiagFileSkipped, SeverityInfo))
	require.True(t, VerboseConfig().ShouldReport(DiagFileSkipped, SeverityInfo))
}

func TestDiagnosticString(t *testing.T) {
	d := Diagnostic{
		Severity: SeverityWarning,
		Code:     DiagDuplicateModule,
		Message:  `module "fifo" redefined`,
		File:     "rtl/fifo2.sv",
		Line:     3,
	}
	require.Equal(t, `[warning] rtl/fifo2.sv:3: module "fifo" redefined`, d.String())

	d.File = ""
	d.Line = 0
	d.Module = "fifo"
	require.Equal(t, `[warning] fifo: module "fifo" redefined`, d.String())
}

func TestSeverityText(t *testing.T) {
	for _, sev := range []Severity{SeverityFatal, SeverityError, SeverityWarning, SeverityInfo} {
		text, err := sev.MarshalText()
		require.NoError(t, err)
		var back Severity
		require.NoError(t, back.UnmarshalText(text))
		require.Equal(t, sev, back)
	}
	var s Severity
	require.Error(t, s.UnmarshalText([]byte("loud")))
}

func TestLineTablePosition(t *testing.T) {
	src := []byte("module a;\n  wire x;\nendmodule\n")
	table := BuildLineTable(src)

	line, col := table.Position(0)
	require.Equal(t, 1, line)
	require.Equal(t, 1, col)

	line, col = table.Position(12)
	require.Equal(t, 2, line)
	require.Equal(t, 3, col)

	line, _ = table.Position(ByteOffset(len(src) - 1))
	require.Equal(t, 3, line)
}

func TestSpanText(t *testing.T) {
	src := []byte("assign a = b;")
	require.Equal(t, "a = b", NewSpan(7, 12).Text(src))
	require.Equal(t, "", NewSpan(20, 30).Text(src))
	require.Equal(t, NewSpan(2, 9), NewSpan(2, 5).Cover(NewSpan(4, 9)))
}
