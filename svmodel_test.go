package svmodel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daubuild/svmodel/design"
	"github.com/daubuild/svmodel/errors"
	"github.com/daubuild/svmodel/internal/testutil"
)

func TestFromText(t *testing.T) {
	m, err := FromText(`
module counter #(parameter PARAM = 32) (
  input  logic             clk,
  output logic [PARAM-1:0] value
);
endmodule
`)
	require.NoError(t, err)
	assert.Equal(t, "counter", m.Name)
	assert.Empty(t, m.File)
	assert.Equal(t, int64(32), m.Port("value").Dims.Size())
}

func TestFromTextErrors(t *testing.T) {
	_, err := FromText("module broken (input logic a\nendmodule\n")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrParse)

	_, err = FromText("// nothing here\n")
	assert.ErrorIs(t, err, errors.ErrModuleNotFound)

	_, err = FromText("module legacy (a); input a; endmodule")
	assert.ErrorIs(t, err, errors.ErrUnsupportedPortListShape)

	m, err := FromText("module m(input logic a); initial foo begin x = 1; endmodule")
	assert.ErrorIs(t, err, errors.ErrParse)
	assert.Nil(t, m)
}

func TestParseTextReturnsAllUnits(t *testing.T) {
	mods, err := ParseText(`
package pkg; endpackage
module a (); endmodule
interface b (); endinterface
`)
	require.NoError(t, err)
	require.Len(t, mods, 2)
	assert.Equal(t, KindModule, mods[0].Kind)
	assert.Equal(t, KindInterface, mods[1].Kind)
}

func TestFromFile(t *testing.T) {
	m, err := FromFile("testdata/rtl/stream.sv")
	require.NoError(t, err)
	assert.Equal(t, "stream_src", m.Name, "first module of the file")

	_, err = FromFile("testdata/rtl/missing.sv")
	assert.ErrorIs(t, err, errors.ErrModuleNotFound)

	_, err = FromFile("testdata/bad/broken.sv")
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindParse, e.Kind)
	assert.Equal(t, "testdata/bad/broken.sv", e.File)
	assert.Positive(t, e.Line)
}

func TestFromModule(t *testing.T) {
	m, err := FromModule("fifo", "testdata/rtl", "sv")
	require.NoError(t, err)
	assert.Equal(t, "fifo", m.Name)

	m, err = FromModule("fifo", "testdata/rtl", ".sv")
	require.NoError(t, err)
	assert.Equal(t, "fifo", m.Name)

	_, err = FromModule("nope", "testdata/rtl", "sv")
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrModuleNotFound)
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.PhaseLoad, e.Phase)

	// stream.sv declares stream_src and stream_sink, not stream.
	_, err = FromModule("stream", "testdata/rtl", "sv")
	assert.ErrorIs(t, err, errors.ErrModuleNotFound)

	_, err = FromModule("fifo", "testdata/no_such_dir", "sv")
	assert.ErrorIs(t, err, errors.ErrModuleNotFound)
}

func TestRenderIdempotent(t *testing.T) {
	d := loadRTL(t)
	for _, m := range d.Modules() {
		first := m.String()
		assert.Equal(t, first, m.String(), m.Name)
		assert.True(t, strings.HasPrefix(first, m.Kind.String()+" "+m.Name), m.Name)
	}
	before := d.String()
	require.NoError(t, d.Resolve())
	require.NoError(t, d.Resolve())
	assert.NotEqual(t, before, d.String(), "bindings are rendered once resolved")
	assert.Equal(t, d.String(), d.String())
}

func TestFixtureInvariants(t *testing.T) {
	d := loadRTL(t)
	seen := map[design.BlockKind]bool{}
	for _, m := range d.Modules() {
		names := testutil.PortNames(m)
		unique := map[string]bool{}
		for _, n := range names {
			assert.False(t, unique[n], "duplicate port %s in %s", n, m.Name)
			unique[n] = true
		}
		for _, inst := range m.AllInstances() {
			assert.NotEmpty(t, inst.Links, "%s.%s", m.Name, inst.Name)
		}
		for _, mp := range m.Modports {
			assert.NotEmpty(t, mp.Members(), "%s.%s", m.Name, mp.Name)
		}
		for _, b := range m.Blocks {
			seen[b.Kind] = true
		}
	}
	for _, kind := range design.BlockKinds {
		assert.True(t, seen[kind], "fixtures exercise %s", kind)
	}
}

func TestFixtureDetails(t *testing.T) {
	d := loadRTL(t)

	counter := d.Module("counter")
	assert.Equal(t, int64(32), counter.Port("value").Dims.Size())

	fifo := d.Module("fifo")
	assert.Equal(t, int64(4), fifo.Parameter("AW").Value)
	assert.Equal(t, "[DEPTH]", fifo.Wire("mem").Unpacked)
	assert.Equal(t, int64(5), fifo.Wire("count").Dims.Size())
	ff := fifo.BlocksOf(design.BlockAlwaysFF)
	require.Len(t, ff, 1)
	assert.Equal(t, "@(posedge clk or posedge reset)", ff[0].Sensitivity)

	bus := d.Module("bus_if")
	master := bus.Modport("master")
	require.NotNil(t, master)
	require.Len(t, master.Outputs, 2)
	assert.Equal(t, int64(32), master.Outputs[0].Dims.Size())
	assert.True(t, master.Outputs[1].Resolved)
	monitor := bus.Modport("monitor")
	assert.False(t, monitor.Inputs[1].Resolved)

	top := d.Module("soc_top")
	add := top.Instance("u_add")
	require.NotNil(t, add)
	assert.Equal(t, design.LinkImplicit, add.Link("clk").Kind)
	cnt := top.Instance("u_cnt")
	require.Len(t, cnt.Links, 4)
	assert.Equal(t, design.LinkEmpty, cnt.Links[3].Kind)
	require.Len(t, top.Generates, 1)
	assert.Equal(t, "u_lane", top.Generates[0].Instances[0].Name)
	assert.Equal(t, "in_data[i*8 +: 7]", top.Generates[0].Instances[0].Link("a").Actual)
}

func TestGenerateTopFromFixtures(t *testing.T) {
	d := loadRTL(t)
	text, err := d.GenerateTop("wrapper", []string{"counter", "stream_sink"}, "", "")
	require.NoError(t, err)

	assert.Contains(t, text, "module wrapper (")
	assert.Contains(t, text, "\tinput logic clk,\n\tinput logic reset,\n")
	assert.Contains(t, text, "output logic [31:0] counter_value")
	assert.Contains(t, text, "inout wire stream_sink_probe")
	assert.Contains(t, text, "\tcounter #(.PARAM(32)) counter_inst (\n")
	assert.NotContains(t, text, ",\n\t);")
	assert.True(t, strings.HasSuffix(text, "endmodule\n"))

	again, err := d.GenerateTop("wrapper", []string{"counter", "stream_sink"}, "", "")
	require.NoError(t, err)
	assert.Equal(t, text, again)

	_, err = d.GenerateTop("wrapper", []string{"bus_if"}, "", "")
	assert.ErrorIs(t, err, errors.ErrUnsupportedConstruct)
	_, err = d.GenerateTop("wrapper", []string{"nope"}, "", "")
	assert.ErrorIs(t, err, errors.ErrModuleNotFound)
}
