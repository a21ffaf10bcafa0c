// Package errors provides structured error types for svmodel.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the module, file and line the failure
// belongs to, plus an optional cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseExtract, errors.KindUnsupportedConstruct).
//		Module("top").
//		Line(12).
//		Detail("wildcard port connection .* on instance %s", "u0").
//		Build()
//
// Callers test for a kind with the standard library and the sentinels:
//
//	if errors.Is(err, svmerrors.ErrModuleNotFound) { ... }
//
// A sentinel carries no phase, so it matches an error of that kind raised in
// any phase.
package errors
