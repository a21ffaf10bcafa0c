package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseExtract,
				Kind:   KindUnsupportedConstruct,
				Module: "top",
				File:   "rtl/top.sv",
				Line:   14,
				Detail: "wildcard port connection",
			},
			contains: []string{"[extract]", "unsupported_construct", "module top", "rtl/top.sv:14", "wildcard port connection"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseEval,
				Kind:  KindMalformedExpression,
			},
			contains: []string{"[eval]", "malformed_expression"},
		},
		{
			name:     "cycle path",
			err:      CyclicHierarchy([]string{"a", "b", "a"}),
			contains: []string{"[resolve]", "cyclic_hierarchy", "a -> b -> a"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseLoad,
				Kind:   KindModuleNotFound,
				Detail: "module \"alu\" not found",
				Cause:  errors.New("open alu.sv: no such file"),
			},
			contains: []string{"[load]", "module_not_found", "caused by", "no such file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(PhaseLoad, KindParse, cause, "read file")

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find cause in chain")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseEval,
		Kind:  KindUnresolvedIdentifier,
	}

	if !err.Is(&Error{Phase: PhaseEval, Kind: KindUnresolvedIdentifier}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseResolve, Kind: KindUnresolvedIdentifier}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseEval, Kind: KindMalformedExpression}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrUnresolvedIdentifier) {
		t.Error("errors.Is should match phaseless sentinel")
	}
	if errors.Is(err, ErrMalformedExpression) {
		t.Error("errors.Is should not match other sentinel")
	}

	wrapped := fmt.Errorf("width of port data: %w", err)
	if !errors.Is(wrapped, ErrUnresolvedIdentifier) {
		t.Error("errors.Is should see through fmt wrapping")
	}
	var target *Error
	if !errors.As(wrapped, &target) || target.Kind != KindUnresolvedIdentifier {
		t.Error("errors.As should recover *Error")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseExtract, KindUnsupportedConstruct).
		Module("fifo").
		File("fifo.sv").
		Line(3).
		Path("top", "fifo").
		Cause(cause).
		Detail("%d unpacked dimensions on %s", 2, "mem").
		Build()

	if err.Phase != PhaseExtract {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseExtract)
	}
	if err.Kind != KindUnsupportedConstruct {
		t.Errorf("Kind = %v, want %v", err.Kind, KindUnsupportedConstruct)
	}
	if err.Module != "fifo" || err.File != "fifo.sv" || err.Line != 3 {
		t.Errorf("location = %s %s %d", err.Module, err.File, err.Line)
	}
	if len(err.Path) != 2 || err.Path[1] != "fifo" {
		t.Errorf("Path = %v", err.Path)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "2 unpacked dimensions on mem" {
		t.Errorf("Detail = %q", err.Detail)
	}
}

func TestWithModule(t *testing.T) {
	base := UnresolvedIdentifier("WIDTH")
	err := base.WithModule("fifo", "fifo.sv")
	if err.Module != "fifo" || err.File != "fifo.sv" {
		t.Errorf("WithModule = %s %s", err.Module, err.File)
	}
	if base.Module != "" {
		t.Error("WithModule must not modify the receiver")
	}
	again := err.WithModule("other", "other.sv")
	if again.Module != "fifo" {
		t.Errorf("WithModule overwrote module: %s", again.Module)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		sentinel error
	}{
		{"Parse", Parse("a.sv", 2, "expected ';'"), ErrParse},
		{"UnsupportedPortList", UnsupportedPortList("m", "non-ANSI"), ErrUnsupportedPortListShape},
		{"Unsupported", Unsupported(PhaseExtract, "m", "interface port"), ErrUnsupportedConstruct},
		{"UnresolvedIdentifier", UnresolvedIdentifier("N"), ErrUnresolvedIdentifier},
		{"MalformedExpression", MalformedExpression("1 +", "unexpected end"), ErrMalformedExpression},
		{"ModuleNotFound", ModuleNotFound(PhaseResolve, "alu", "rtl"), ErrModuleNotFound},
		{"CyclicHierarchy", CyclicHierarchy([]string{"a", "a"}), ErrCyclicHierarchy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("%v does not match %v", tt.err, tt.sentinel)
			}
			if tt.err.Phase == "" {
				t.Error("constructor should set a phase")
			}
		})
	}
}
