package design

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daubuild/svmodel/errors"
)

func TestGenerateTopSingleModule(t *testing.T) {
	m := NewModule(KindModule, "M")
	m.Parameters = append(m.Parameters, &Parameter{Name: "P", Value: 4, Expr: "4"})
	m.Inputs = append(m.Inputs,
		port(DirInput, "clk", Dimensions{}),
		port(DirInput, "reset", Dimensions{}),
		port(DirInput, "din", Packed(3, 0)))
	m.Outputs = append(m.Outputs, port(DirOutput, "dout", Packed(3, 0)))

	d := newDesign(m)
	out, err := d.GenerateTop("wrapper", []string{"M"}, "clk", "reset")
	require.NoError(t, err)

	want := `module wrapper (
	input logic clk,
	input logic reset,
	input logic [3:0] M_din,
	output logic [3:0] M_dout
);

	M #(.P(4)) M_inst (
		.clk(clk),
		.reset(reset),
		.din(M_din),
		.dout(M_dout)
	);

endmodule
`
	require.Equal(t, want, out)
	require.Contains(t, out, "module wrapper")
	require.Contains(t, out, "endmodule")
	require.Contains(t, out, "M #(.P(4)) M_inst")
}

func TestGenerateTopDefaults(t *testing.T) {
	d := newDesign(adder(), bus(), top())
	out, err := d.GenerateTop("sys", nil, "", "")
	require.NoError(t, err)

	// interfaces are never selected by default
	require.NotContains(t, out, "bus_if")
	require.Contains(t, out, "adder #(.WIDTH(8)) adder_inst (")
	require.NotContains(t, out, "MSB")
	require.Contains(t, out, "top top_inst (")
	require.Contains(t, out, "output logic [8:0] adder_sum")
	require.Equal(t, 1, strings.Count(out, "input logic clk"))
	require.Equal(t, 1, strings.Count(out, "input logic reset"))
	require.Less(t, strings.Index(out, "adder_inst"), strings.Index(out, "top_inst"))

	// no trailing commas before a closing parenthesis
	require.NotContains(t, out, ",\n)")
	require.NotContains(t, out, ",\n\t)")

	again, err := d.GenerateTop("sys", nil, "", "")
	require.NoError(t, err)
	require.Equal(t, out, again)
}

func TestGenerateTopCustomClock(t *testing.T) {
	m := NewModule(KindModule, "core")
	m.Inputs = append(m.Inputs, port(DirInput, "aclk", Dimensions{}), port(DirInput, "clk", Dimensions{}))
	m.Inouts = append(m.Inouts, port(DirInout, "pad", Dimensions{}))

	out, err := newDesign(m).GenerateTop("t", nil, "aclk", "aresetn")
	require.NoError(t, err)
	require.Contains(t, out, "input logic aclk,")
	require.Contains(t, out, "input logic aresetn,")
	require.Contains(t, out, "input logic core_clk,")
	require.Contains(t, out, "inout wire core_pad\n")
	require.Contains(t, out, ".aclk(aclk),")
	require.Contains(t, out, ".clk(core_clk),")
}

func TestGenerateTopSingleBoundPorts(t *testing.T) {
	m := NewModule(KindModule, "w")
	m.Inputs = append(m.Inputs, port(DirInput, "data", Width(8)))
	m.Outputs = append(m.Outputs, port(DirOutput, "flags", Dimensions{Ranges: []Range{{High: 2, Single: true}, {High: 3, Low: 0}}}))

	out, err := newDesign(m).GenerateTop("t", nil, "", "")
	require.NoError(t, err)
	require.Contains(t, out, "input logic [7:0] w_data")
	require.Contains(t, out, "output logic [1:0][3:0] w_flags")
	require.NotContains(t, out, "[8]")
	require.Equal(t, "[8]", m.Inputs[0].Dims.String())
}

func TestGenerateTopNoPorts(t *testing.T) {
	out, err := newDesign(NewModule(KindModule, "empty")).GenerateTop("t", nil, "", "")
	require.NoError(t, err)
	require.Contains(t, out, "\tempty empty_inst ();\n")
}

func TestGenerateTopErrors(t *testing.T) {
	d := newDesign(adder(), bus())

	_, err := d.GenerateTop("t", []string{"nope"}, "", "")
	require.ErrorIs(t, err, errors.ErrModuleNotFound)

	_, err = d.GenerateTop("t", []string{"bus_if"}, "", "")
	require.ErrorIs(t, err, errors.ErrUnsupportedConstruct)

	_, err = d.GenerateTop("t", []string{"adder", "adder"}, "", "")
	require.ErrorIs(t, err, errors.ErrUnsupportedConstruct)

	_, err = d.GenerateTop("adder", []string{"adder"}, "", "")
	require.ErrorIs(t, err, errors.ErrUnsupportedConstruct)

	_, err = d.GenerateTop("", nil, "", "")
	require.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestGenerateTopPortCollision(t *testing.T) {
	a := NewModule(KindModule, "a")
	a.Inputs = append(a.Inputs, port(DirInput, "b_c", Dimensions{}))
	ab := NewModule(KindModule, "a_b")
	ab.Inputs = append(ab.Inputs, port(DirInput, "c", Dimensions{}))

	_, err := newDesign(a, ab).GenerateTop("t", nil, "", "")
	require.ErrorIs(t, err, errors.ErrUnsupportedConstruct)
	require.ErrorContains(t, err, "a_b_c")
}

func TestModuleString(t *testing.T) {
	m := adder()
	m.File = "adder.sv"
	m.Wires = append(m.Wires, &Wire{Name: "mem", Keyword: "logic", Dims: Packed(7, 0), Unpacked: "[4]"})
	m.Assigns = append(m.Assigns, &Assignment{LHS: "sum", RHS: "a + b"})
	m.Blocks = append(m.Blocks,
		&ProceduralBlock{Kind: BlockAlwaysFF, Sensitivity: "@(posedge clk)", Body: "begin\n  q <= d;\nend"},
		&ProceduralBlock{Kind: BlockAlwaysComb, Body: "x = y;"})
	m.Instances = append(m.Instances, &Instance{
		Type:   "reg_slice",
		Name:   "u_rs",
		Params: []ParamOverride{{Name: "W", Value: "WIDTH"}},
		Links: []*Link{
			{Port: "d", Actual: "a", Kind: LinkIdentifier},
			{Port: "q", Kind: LinkEmpty},
			{Port: "clk", Actual: "clk", Kind: LinkImplicit},
		},
	})

	want := `module adder (adder.sv)
	parameters:
		parameter WIDTH = 8
		localparam MSB = 7 (WIDTH-1)
	inputs:
		input logic clk
		input logic [7:0] a
		input logic [7:0] b
	outputs:
		output logic [8:0] sum
	wires:
		logic [7:0] mem [4]
	assigns:
		sum = a + b
	always_comb:
		x = y;
	always_ff:
		@(posedge clk) begin q <= d; end
	instances:
		u_rs: reg_slice #(.W(WIDTH)) (.d(a), .q(), .clk)
`
	require.Equal(t, want, m.String())
	require.Equal(t, m.String(), m.String())
}

func TestDesignStringAnnotatesBindings(t *testing.T) {
	d := newDesign(top(), adder(), bus())
	require.Contains(t, d.String(), "u0: adder (.clk(clk), .a(a), .b(b), .sum(sum)) (stub)")

	require.NoError(t, d.Resolve())
	s := d.String()
	require.Contains(t, s, "u0: adder (.clk(clk), .a(a), .b(b), .sum(sum)) -> adder")
	require.Contains(t, s, "u_x: missing (.q(q)) (unresolved)")
	require.Contains(t, s, "interface bus_if")
	require.Contains(t, s, "output logic [31:0] data")
}
