package graph

import (
	"slices"
	"testing"
)

func TestGraphBasic(t *testing.T) {
	g := New()

	g.AddNode("top")
	g.AddNode("fifo")
	g.AddEdge("top", "fifo")

	if !g.HasNode("top") {
		t.Error("graph should have node top")
	}
	if !g.HasNode("fifo") {
		t.Error("graph should have node fifo")
	}
	if got := g.Children("top"); !slices.Equal(got, []string{"fifo"}) {
		t.Errorf("top children = %v, want [fifo]", got)
	}
}

func TestAddEdgeCreatesNodes(t *testing.T) {
	g := New()

	// No AddNode calls, only AddEdge.
	g.AddEdge("top", "alu")

	if !g.HasNode("top") {
		t.Error("AddEdge should create parent node")
	}
	if !g.HasNode("alu") {
		t.Error("AddEdge should create child node")
	}
	if want := []string{"top", "alu"}; !slices.Equal(g.Nodes(), want) {
		t.Errorf("nodes = %v, want %v", g.Nodes(), want)
	}
}

func TestDuplicateEdges(t *testing.T) {
	g := New()

	g.AddEdge("top", "alu")
	g.AddEdge("top", "alu")
	g.AddEdge("top", "alu")

	if len(g.Children("top")) != 1 {
		t.Errorf("children = %d, want 1 (duplicate edges deduplicated)", len(g.Children("top")))
	}
	if g.HasCycles() {
		t.Error("duplicate edges should not form a cycle")
	}
}

func TestRoots(t *testing.T) {
	g := New()
	g.AddNode("tb")
	g.AddEdge("top", "core")
	g.AddEdge("core", "alu")
	g.AddEdge("top", "alu")
	g.AddNode("unused")

	want := []string{"tb", "top", "unused"}
	if got := g.Roots(); !slices.Equal(got, want) {
		t.Errorf("roots = %v, want %v", got, want)
	}
}

func TestTopologicalOrderChain(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")

	order, cyclic := g.TopologicalOrder()
	if len(cyclic) != 0 {
		t.Errorf("cyclic = %v, want none", cyclic)
	}
	if want := []string{"a", "b", "c"}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}

	order, _ = g.ElaborationOrder()
	if want := []string{"c", "b", "a"}; !slices.Equal(order, want) {
		t.Errorf("elaboration order = %v, want %v", order, want)
	}
}

func TestTopologicalOrderDiamond(t *testing.T) {
	g := New()

	// top instantiates left and right, both instantiate leaf.
	g.AddEdge("top", "left")
	g.AddEdge("top", "right")
	g.AddEdge("left", "leaf")
	g.AddEdge("right", "leaf")

	order, cyclic := g.ElaborationOrder()
	if len(cyclic) != 0 {
		t.Errorf("cyclic = %v, want none", cyclic)
	}
	if len(order) != 4 {
		t.Fatalf("order = %d, want 4", len(order))
	}

	indexOf := func(s string) int { return slices.Index(order, s) }
	if indexOf("leaf") >= indexOf("left") || indexOf("leaf") >= indexOf("right") {
		t.Error("leaf should come before left and right")
	}
	if indexOf("left") >= indexOf("top") || indexOf("right") >= indexOf("top") {
		t.Error("left and right should come before top")
	}
}

func TestTopologicalOrderCycle(t *testing.T) {
	g := New()
	g.AddEdge("top", "a")
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")
	g.AddNode("other")

	order, cyclic := g.TopologicalOrder()
	if want := []string{"top", "other"}; !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
	if want := []string{"a", "b"}; !slices.Equal(cyclic, want) {
		t.Errorf("cyclic = %v, want %v", cyclic, want)
	}
}

func TestFindCyclesSimple(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("cycles = %d, want 1", len(cycles))
	}
	if len(cycles[0]) != 2 {
		t.Errorf("cycle length = %d, want 2", len(cycles[0]))
	}
	if want := []string{"a", "b", "a"}; !slices.Equal(g.CyclePath(cycles[0]), want) {
		t.Errorf("path = %v, want %v", g.CyclePath(cycles[0]), want)
	}
}

func TestFindCyclesTriangle(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("cycles = %d, want 1", len(cycles))
	}
	if want := []string{"a", "b", "c", "a"}; !slices.Equal(g.CyclePath(cycles[0]), want) {
		t.Errorf("path = %v, want %v", g.CyclePath(cycles[0]), want)
	}
}

func TestSelfLoop(t *testing.T) {
	g := New()
	g.AddEdge("top", "rec")
	g.AddEdge("rec", "rec")

	cycles := g.FindCycles()
	if len(cycles) != 1 {
		t.Fatalf("cycles = %d, want 1", len(cycles))
	}
	if len(cycles[0]) != 1 || cycles[0][0] != "rec" {
		t.Errorf("self-loop cycle = %v, want [rec]", cycles[0])
	}
	if want := []string{"rec", "rec"}; !slices.Equal(g.CyclePath(cycles[0]), want) {
		t.Errorf("path = %v, want %v", g.CyclePath(cycles[0]), want)
	}
}

func TestFindCyclesMultipleSCCs(t *testing.T) {
	// Adapted from the Wikipedia Tarjan's example.
	// Three cycles ({a,b,c}, {d,e}, {f,g}), one self-loop (h).
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")
	g.AddEdge("d", "b")
	g.AddEdge("d", "c")
	g.AddEdge("d", "e")
	g.AddEdge("e", "d")
	g.AddEdge("f", "c")
	g.AddEdge("f", "g")
	g.AddEdge("g", "f")
	g.AddEdge("h", "e")
	g.AddEdge("h", "g")
	g.AddEdge("h", "h")

	cycles := g.FindCycles()
	if len(cycles) != 4 {
		t.Errorf("cycles = %d, want 4", len(cycles))
		for i, cyc := range cycles {
			t.Logf("  cycle %d: %v", i, cyc)
		}
	}
	for _, cyc := range cycles {
		path := g.CyclePath(cyc)
		if len(path) < 2 || path[0] != path[len(path)-1] {
			t.Errorf("path %v for %v is not closed", path, cyc)
		}
	}
}

func TestNoCycles(t *testing.T) {
	g := New()
	g.AddEdge("top", "a")
	g.AddEdge("top", "b")
	g.AddEdge("a", "b")

	if g.HasCycles() {
		t.Errorf("unexpected cycles: %v", g.FindCycles())
	}
	if g.CyclePath(nil) != nil {
		t.Error("CyclePath(nil) should be nil")
	}
}
