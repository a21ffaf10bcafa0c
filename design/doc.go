// Package design provides the structural model of SystemVerilog modules
// and interfaces and the registry that composes them into a hierarchy.
//
// A [Module] records what one module or interface declares: parameters,
// ports, internal signals, continuous assignments, procedural blocks,
// generate constructs, modports and sub-instantiations. Instantiations are
// [Instance] stubs that carry only the instantiated module's name, the
// instance name and its port links.
//
// A [Design] is an arena of Modules keyed by name. [Design.Resolve] binds
// every Instance to the registry entry of its module type without copying
// or mutating any Module, detects instantiation cycles, and is idempotent.
// [Design.Elaborate] builds the composed tree below one top module, and
// [Design.GenerateTop] synthesizes a wrapper module that instantiates a
// selection of modules.
//
// Modules are built by the svmodel package from source text; this package
// only holds and relates them.
package design
