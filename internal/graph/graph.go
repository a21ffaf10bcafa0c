// Package graph provides the module instantiation graph and its analysis:
// cycle detection, elaboration order and hierarchy roots.
package graph

import (
	"slices"
)

// Graph is a directed graph of module names. An edge from parent to child
// records that parent instantiates child.
type Graph struct {
	order []string
	nodes map[string]struct{}
	edges map[string][]string
}

// New returns a graph with no nodes or edges.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		edges: make(map[string][]string),
	}
}

// AddNode registers a module. Duplicate calls are no-ops. Nodes keep
// their first insertion order, which every analysis uses as tie-break.
func (g *Graph) AddNode(name string) {
	if _, ok := g.nodes[name]; ok {
		return
	}
	g.nodes[name] = struct{}{}
	g.order = append(g.order, name)
}

// AddEdge records that parent instantiates child. Missing nodes are
// created implicitly. Duplicate edges are ignored.
func (g *Graph) AddEdge(parent, child string) {
	g.AddNode(parent)
	g.AddNode(child)

	if slices.Contains(g.edges[parent], child) {
		return
	}
	g.edges[parent] = append(g.edges[parent], child)
}

// Children returns the modules instantiated by name, in insertion order.
func (g *Graph) Children(name string) []string {
	return slices.Clone(g.edges[name])
}

// HasNode reports whether the module exists in the graph.
func (g *Graph) HasNode(name string) bool {
	_, ok := g.nodes[name]
	return ok
}

// Nodes returns every module in insertion order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.order)
}

// Roots returns the modules no other module instantiates, in insertion
// order. Modules that only appear inside a cycle are never roots.
func (g *Graph) Roots() []string {
	instantiated := make(map[string]bool)
	for _, children := range g.edges {
		for _, c := range children {
			instantiated[c] = true
		}
	}
	var roots []string
	for _, n := range g.order {
		if !instantiated[n] {
			roots = append(roots, n)
		}
	}
	return roots
}
