package graph

// FindCycles returns every strongly connected component with more than
// one module, plus single modules that instantiate themselves, found via
// Tarjan's algorithm. Components are reported in discovery order over the
// insertion-ordered node list, so the result is deterministic.
func (g *Graph) FindCycles() [][]string {
	var (
		index    int
		stack    []string
		onStack  = make(map[string]bool)
		indices  = make(map[string]int)
		lowlinks = make(map[string]int)
		sccs     [][]string
	)

	var strongConnect func(name string)
	strongConnect = func(name string) {
		indices[name] = index
		lowlinks[name] = index
		index++
		stack = append(stack, name)
		onStack[name] = true

		for _, dep := range g.edges[name] {
			if _, visited := indices[dep]; !visited {
				strongConnect(dep)
				lowlinks[name] = min(lowlinks[name], lowlinks[dep])
			} else if onStack[dep] {
				lowlinks[name] = min(lowlinks[name], indices[dep])
			}
		}

		if lowlinks[name] == indices[name] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == name {
					break
				}
			}
			if len(scc) > 1 || g.selfLoop(scc[0]) {
				sccs = append(sccs, scc)
			}
		}
	}

	for _, name := range g.order {
		if _, visited := indices[name]; !visited {
			strongConnect(name)
		}
	}

	return sccs
}

func (g *Graph) selfLoop(name string) bool {
	for _, dep := range g.edges[name] {
		if dep == name {
			return true
		}
	}
	return false
}

// HasCycles reports whether the graph contains any cycles.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}

// CyclePath returns one closed instantiation path through the component,
// starting and ending at the component member inserted first, for example
// [a b c a]. It returns nil when scc is not a cycle of this graph.
func (g *Graph) CyclePath(scc []string) []string {
	if len(scc) == 0 {
		return nil
	}
	member := make(map[string]bool, len(scc))
	for _, n := range scc {
		member[n] = true
	}
	start := scc[0]
	for _, n := range g.order {
		if member[n] {
			start = n
			break
		}
	}

	// Depth-first search restricted to the component, back to start.
	path := []string{start}
	visited := map[string]bool{start: true}
	var walk func(name string) bool
	walk = func(name string) bool {
		for _, dep := range g.edges[name] {
			if !member[dep] {
				continue
			}
			if dep == start {
				path = append(path, dep)
				return true
			}
			if visited[dep] {
				continue
			}
			visited[dep] = true
			path = append(path, dep)
			if walk(dep) {
				return true
			}
			path = path[:len(path)-1]
		}
		return false
	}
	if !walk(start) {
		return nil
	}
	return path
}
