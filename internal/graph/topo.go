package graph

import "slices"

// TopologicalOrder returns modules ordered so that parents come before the
// modules they instantiate (Kahn's algorithm, insertion order as
// tie-break). Modules involved in or below a cycle are returned separately
// in the second slice, in insertion order.
func (g *Graph) TopologicalOrder() (order []string, cyclic []string) {
	inDegree := make(map[string]int, len(g.order))
	for _, n := range g.order {
		for _, dep := range g.edges[n] {
			inDegree[dep]++
		}
	}

	var queue []string
	for _, n := range g.order {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)

		for _, dep := range g.edges[n] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				queue = append(queue, dep)
			}
		}
	}

	for _, n := range g.order {
		if inDegree[n] > 0 {
			cyclic = append(cyclic, n)
		}
	}

	return order, cyclic
}

// ElaborationOrder returns modules with children before their parents,
// the reverse of TopologicalOrder.
func (g *Graph) ElaborationOrder() (order []string, cyclic []string) {
	order, cyclic = g.TopologicalOrder()
	slices.Reverse(order)
	return order, cyclic
}
