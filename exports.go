package svmodel

import "github.com/daubuild/svmodel/design"

// Type aliases for the public API; the model types live in the design
// package.

// Design is a registry of modules with hierarchy resolution.
type Design = design.Design

// Module is the structural record of one module or interface.
type Module = design.Module

// Kind tags a Module as a module or an interface.
type Kind = design.Kind

// Port is one ANSI port of a module.
type Port = design.Port

// Parameter is an integer parameter or localparam.
type Parameter = design.Parameter

// Wire is an internal net or variable.
type Wire = design.Wire

// Instance is an instantiation stub naming its module type.
type Instance = design.Instance

// Link is one port connection of an instance.
type Link = design.Link

// Modport is a named directional view of an interface.
type Modport = design.Modport

// Dimensions are the packed ranges of a declaration.
type Dimensions = design.Dimensions

// Node is one instance of an elaborated hierarchy.
type Node = design.Node

// Snapshot is the serializable form of a Design.
type Snapshot = design.Snapshot

// Severity for diagnostics.
type Severity = design.Severity

// Diagnostic represents a parse, extraction or resolution issue.
type Diagnostic = design.Diagnostic

// DiagnosticConfig filters diagnostics by code and severity.
type DiagnosticConfig = design.DiagnosticConfig

// Severity levels, most severe first.
const (
	SeverityFatal   = design.SeverityFatal
	SeverityError   = design.SeverityError
	SeverityWarning = design.SeverityWarning
	SeverityInfo    = design.SeverityInfo
)

// Module kinds.
const (
	KindModule    = design.KindModule
	KindInterface = design.KindInterface
)

// NewDesign returns an empty Design.
var NewDesign = design.New
