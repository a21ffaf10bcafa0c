package testutil

import (
	"slices"

	"github.com/daubuild/svmodel/design"
)

// Summarize reduces m to the counts compared against fixtures. Instances
// counts every instance, including those inside generate constructs.
func Summarize(m *design.Module) *Expectation {
	return &Expectation{
		Kind:       m.Kind.String(),
		Parameters: len(m.Parameters),
		Inputs:     len(m.Inputs),
		Outputs:    len(m.Outputs),
		Inouts:     len(m.Inouts),
		Wires:      len(m.Wires),
		Assigns:    len(m.Assigns),
		Blocks:     len(m.Blocks),
		Generates:  len(m.Generates),
		Modports:   len(m.Modports),
		Instances:  len(m.AllInstances()),
	}
}

// PortNames returns the names of m's ports in input, output, inout order.
func PortNames(m *design.Module) []string {
	var names []string
	for _, p := range m.Ports() {
		names = append(names, p.Name)
	}
	return names
}

// DiagnosticCodes returns the distinct codes of diags, sorted.
func DiagnosticCodes(diags []design.Diagnostic) []string {
	var codes []string
	for _, d := range diags {
		if !slices.Contains(codes, d.Code) {
			codes = append(codes, d.Code)
		}
	}
	slices.Sort(codes)
	return codes
}
