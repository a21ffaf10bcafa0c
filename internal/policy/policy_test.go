package policy_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daubuild/svmodel"
	"github.com/daubuild/svmodel/internal/policy"
	"github.com/daubuild/svmodel/internal/types"
)

func lintText(t *testing.T, src string, opts ...policy.Option) *policy.Result {
	t.Helper()
	mods, err := svmodel.ParseText(src)
	require.NoError(t, err)
	d := svmodel.NewDesign(nil)
	for _, m := range mods {
		d.Add(m)
	}
	_ = d.Resolve()
	res, err := policy.Lint(context.Background(), d, opts...)
	require.NoError(t, err)
	return res
}

func rules(res *policy.Result) []string {
	var out []string
	for _, f := range res.Findings {
		out = append(out, f.Rule)
	}
	return out
}

func TestFixtureFindings(t *testing.T) {
	ctx := context.Background()
	d, err := svmodel.LoadDir(ctx, filepath.Join("..", "..", "testdata", "rtl"), "sv")
	require.NoError(t, err)
	require.NoError(t, d.Resolve())

	res, err := policy.Lint(ctx, d)
	require.NoError(t, err)

	require.Len(t, res.Findings, 2)
	top := res.Findings[0]
	assert.Equal(t, "multiple-tops", top.Rule)
	assert.Equal(t, types.SeverityInfo, top.Severity)
	assert.Equal(t, "design has 3 top modules: soc_top, stream_src, stream_sink", top.Message)

	slot := res.Findings[1]
	assert.Equal(t, "unconnected-port", slot.Rule)
	assert.Equal(t, "soc_top", slot.Module)
	assert.Equal(t, "instance u_cnt leaves position 3 unconnected", slot.Message)
	assert.Positive(t, slot.Line)

	assert.Equal(t, policy.Summary{Total: 2, Info: 2}, res.Summary)
	assert.False(t, res.Failed(types.SeverityWarning))
	assert.True(t, res.Failed(types.SeverityInfo))
}

func TestRules(t *testing.T) {
	res := lintText(t, `
module leaf;
endmodule

interface plain_if;
  logic x;
endinterface

module top (input logic clk, output logic q, output logic idle);
  leaf u_leaf ();
  ghost u_ghost (.a(clk));
  sub u_sub (.clk(clck), .d(), .q(q));
endmodule

module sub (input logic clk, input logic d, output logic q);
  always_ff @(posedge clk) q <= d;
endmodule
`)

	assert.ElementsMatch(t, []string{
		"unresolved-instance",
		"output-not-driven",
		"undeclared-connection",
		"unconnected-port",
		"module-without-ports",
		"interface-without-modports",
	}, rules(res))

	byRule := map[string]policy.Finding{}
	for _, f := range res.Findings {
		byRule[f.Rule] = f
	}
	assert.Equal(t, "instance u_ghost of ghost has no definition", byRule["unresolved-instance"].Message)
	assert.Equal(t, "output idle is never assigned", byRule["output-not-driven"].Message)
	assert.Equal(t, "instance u_sub connects undeclared signal clck", byRule["undeclared-connection"].Message)
	assert.Equal(t, "instance u_sub leaves port d unconnected", byRule["unconnected-port"].Message)
	assert.Equal(t, "leaf", byRule["module-without-ports"].Module)
	assert.Equal(t, "plain_if", byRule["interface-without-modports"].Module)

	assert.Equal(t, "unresolved-instance", res.Findings[0].Rule, "errors sort first")
	assert.Equal(t, 1, res.Summary.Errors)
	assert.Equal(t, 2, res.Summary.Warnings)
	assert.Equal(t, 3, res.Summary.Info)
	assert.True(t, res.Failed(types.SeverityError))
}

func TestIdentifiersWithMetacharacters(t *testing.T) {
	res := lintText(t, `
module m (input logic a, output logic q$r, output logic q$s);
  assign q$r = a;
endmodule
`)
	var undriven []string
	for _, f := range res.Findings {
		if f.Rule == "output-not-driven" {
			undriven = append(undriven, f.Message)
		}
	}
	assert.Equal(t, []string{"output q$s is never assigned"}, undriven)
}

func TestUnresolvedNeedsResolve(t *testing.T) {
	mods, err := svmodel.ParseText(`module top; ghost u_ghost (); endmodule`)
	require.NoError(t, err)
	d := svmodel.NewDesign(nil)
	d.Add(mods[0])

	res, err := policy.Lint(context.Background(), d)
	require.NoError(t, err)
	assert.Empty(t, res.Findings)
}

func TestDisabled(t *testing.T) {
	src := `
module top (output logic q);
endmodule
`
	res := lintText(t, src)
	assert.Equal(t, []string{"output-not-driven"}, rules(res))

	res = lintText(t, src, policy.WithDisabled("output-not-driven"))
	assert.Empty(t, res.Findings)
	assert.Zero(t, res.Summary.Total)
}

func TestPolicyDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "naming.rego"), []byte(`
package svmodel.lint

import rego.v1

findings contains f if {
	some m in input.modules
	not startswith(m.name, "x_")
	f := finding("module-prefix", "warning", m, line_of(m), sprintf("module %s lacks the x_ prefix", [m.name]))
}
`), 0o644))

	res := lintText(t, "module top;\nendmodule\n", policy.WithPolicyDir(dir))
	require.Len(t, res.Findings, 1)
	assert.Equal(t, "module-prefix", res.Findings[0].Rule)
	assert.Equal(t, types.SeverityWarning, res.Findings[0].Severity)
	assert.Equal(t, 1, res.Findings[0].Line)

	_, err := policy.New(context.Background(), policy.WithPolicyDir(t.TempDir()))
	require.Error(t, err)
}

func TestFindingString(t *testing.T) {
	f := policy.Finding{
		Rule:     "output-not-driven",
		Severity: types.SeverityWarning,
		Module:   "top",
		Line:     3,
		Message:  "output q is never assigned",
	}
	assert.Contains(t, f.String(), "output q is never assigned")
	assert.Contains(t, f.String(), "warning")
}
