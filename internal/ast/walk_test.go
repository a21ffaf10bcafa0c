package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func inst(name string) *Instantiation {
	return &Instantiation{Type: Ident{Name: name}}
}

func TestInstantiationsDepthFirst(t *testing.T) {
	region := &GenerateRegion{Items: []Item{
		inst("a"),
		&LoopGenerate{Body: &GenerateBlock{Items: []Item{
			inst("b"),
			&IfGenerate{
				Then: &GenerateBlock{Items: []Item{inst("c")}},
				Else: inst("d"),
			},
		}}},
		&CaseGenerate{Items: []*CaseGenerateItem{
			{Body: inst("e")},
			{Default: true, Body: &GenerateBlock{Items: []Item{&NullItem{}, inst("f")}}},
		}},
		&DataDecl{},
	}}

	var names []string
	for _, i := range Instantiations(region) {
		names = append(names, i.Type.Name)
	}
	require.Equal(t, []string{"a", "b", "c", "d", "e", "f"}, names)
}

func TestInspectPrune(t *testing.T) {
	region := &GenerateRegion{Items: []Item{
		&GenerateBlock{Items: []Item{inst("hidden")}},
		inst("seen"),
	}}
	var visited int
	Inspect(region, func(item Item) bool {
		visited++
		_, isBlock := item.(*GenerateBlock)
		return !isBlock
	})
	require.Equal(t, 3, visited)
}

func TestIsName(t *testing.T) {
	a := &IdentExpr{Name: "a"}
	require.True(t, IsName(a))
	require.True(t, IsName(&ScopedExpr{Scope: &IdentExpr{Name: "pkg"}, Name: Ident{Name: "x"}}))
	require.True(t, IsName(&MemberExpr{X: a, Name: Ident{Name: "b"}}))
	require.False(t, IsName(&IndexExpr{X: a, Index: &LiteralExpr{Text: "0"}}))
	require.False(t, IsName(&IdentExpr{Name: "$clog2", System: true}))
}
