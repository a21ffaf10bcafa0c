package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daubuild/svmodel/internal/ast"
)

func parseOK(t *testing.T, source string) *ast.SourceFile {
	t.Helper()
	file := Parse([]byte(source), nil)
	require.False(t, file.HasErrors(), "diagnostics: %v", file.Diagnostics)
	return file
}

func parseUnit(t *testing.T, source string) *ast.UnitDecl {
	t.Helper()
	file := parseOK(t, source)
	require.Len(t, file.Units, 1)
	return file.Units[0]
}

func itemsOf[T ast.Item](items []ast.Item) []T {
	var out []T
	for _, it := range items {
		if v, ok := it.(T); ok {
			out = append(out, v)
		}
	}
	return out
}

func TestModuleHeader(t *testing.T) {
	source := `
module counter #(
    parameter int WIDTH = 8,
    parameter DEPTH = WIDTH * 2,
    localparam type T = logic [3:0]
) (
    input  logic             clk,
    input  wire              rst_n,
    input        [WIDTH-1:0] d, e,
    output logic [WIDTH-1:0] q
);
endmodule : counter
`
	unit := parseUnit(t, source)
	require.Equal(t, ast.UnitModule, unit.Kind)
	require.Equal(t, "counter", unit.Name.Name)

	require.Len(t, unit.Params, 3)
	require.Equal(t, "WIDTH", unit.Params[0].Name.Name)
	require.Equal(t, "int", unit.Params[0].Type.Keyword)
	require.Equal(t, "8", unit.Params[0].Value.(*ast.LiteralExpr).Text)
	require.IsType(t, &ast.BinaryExpr{}, unit.Params[1].Value)
	require.True(t, unit.Params[2].Local)
	require.True(t, unit.Params[2].TypeParam)
	require.Nil(t, unit.Params[2].Value)

	require.NotNil(t, unit.Ports)
	require.Equal(t, ast.PortListAnsi, unit.Ports.Shape)
	ports := unit.Ports.Ports
	require.Len(t, ports, 5)
	require.Equal(t, ast.DirInput, ports[0].Direction)
	require.Equal(t, "logic", ports[0].Type.Keyword)
	require.Equal(t, "wire", ports[1].NetType)
	require.Nil(t, ports[1].Type)
	require.Equal(t, ast.TypeImplicit, ports[2].Type.Kind)
	require.Len(t, ports[2].Type.Packed, 1)
	require.Equal(t, "e", ports[3].Name.Name)
	require.Equal(t, ast.DirNone, ports[3].Direction)
	require.Nil(t, ports[3].Type)
	require.Equal(t, ast.DirOutput, ports[4].Direction)
}

func TestPortListShapes(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		unit := parseUnit(t, "module top; endmodule")
		require.Nil(t, unit.Ports)
	})
	t.Run("empty", func(t *testing.T) {
		unit := parseUnit(t, "module top(); endmodule")
		require.NotNil(t, unit.Ports)
		require.Equal(t, ast.PortListAnsi, unit.Ports.Shape)
		require.Empty(t, unit.Ports.Ports)
	})
	t.Run("non-ansi", func(t *testing.T) {
		unit := parseUnit(t, "module m(a, b);\n input a;\n output [3:0] b;\nendmodule")
		require.Equal(t, ast.PortListNonAnsi, unit.Ports.Shape)
		require.Len(t, unit.Ports.Names, 2)
		decls := itemsOf[*ast.PortDecl](unit.Items)
		require.Len(t, decls, 2)
		require.Equal(t, ast.DirOutput, decls[1].Direction)
	})
	t.Run("interface ports", func(t *testing.T) {
		unit := parseUnit(t, "module m(bus_if.master bus, simple_if s, input logic clk); endmodule")
		ports := unit.Ports.Ports
		require.Len(t, ports, 3)
		require.NotNil(t, ports[0].Interface)
		require.Equal(t, "bus_if", ports[0].Interface.Interface.Name)
		require.Equal(t, "master", ports[0].Interface.Modport.Name)
		require.NotNil(t, ports[1].Interface)
		require.Nil(t, ports[2].Interface)
	})
	t.Run("user typed port after direction", func(t *testing.T) {
		unit := parseUnit(t, "module m(input logic a, pkg::word_t b); endmodule")
		ports := unit.Ports.Ports
		require.Nil(t, ports[1].Interface)
		require.Equal(t, ast.TypeUser, ports[1].Type.Kind)
		require.Equal(t, "pkg::word_t", ports[1].Type.Keyword)
	})
}

func TestBodyItems(t *testing.T) {
	source := `
module body #(parameter N = 4) (input logic clk, output logic [N-1:0] y);
    localparam int M = N + 1, K = 2;
    wire [N-1:0] a, b;
    logic mem [0:15];
    my_t custom;
    reg [7:0] r = 8'h00;
    assign a = b, y = a & b;
    assign #1 b = {N{1'b0}};
    always_ff @(posedge clk or negedge rst_n) begin
        if (!rst_n) r <= '0;
        else r <= r + 1;
    end
    always_comb y2 = a;
    always @* begin : blk
        case (a)
            2'b00: x = 1;
            default: x = 0;
        endcase
    end
    always_latch if (en) l = d;
    initial begin
        #10ns;
        $display("hello %d", N);
        for (int i = 0; i < 4; i++) begin end
    end
    final $finish;
    function automatic int f(input int x);
        return x + 1;
    endfunction
    task t; endtask
    typedef enum logic [1:0] {IDLE, RUN} state_t;
    assert property (@(posedge clk) a |-> b) else $error("bad");
endmodule
`
	unit := parseUnit(t, source)

	params := itemsOf[*ast.ParamDecl](unit.Items)
	require.Len(t, params, 2)
	require.True(t, params[0].Local)
	require.Equal(t, "K", params[1].Name.Name)

	decls := itemsOf[*ast.DataDecl](unit.Items)
	require.Len(t, decls, 4)
	require.Equal(t, "wire", decls[0].NetType)
	require.Len(t, decls[0].Declarators, 2)
	require.Equal(t, "[0:15]", decls[1].Declarators[0].UnpackedSpan.Text([]byte(source)))
	require.Equal(t, ast.TypeUser, decls[2].Type.Kind)
	require.NotNil(t, decls[3].Declarators[0].Init)

	assigns := itemsOf[*ast.ContinuousAssign](unit.Items)
	require.Len(t, assigns, 2)
	require.Len(t, assigns[0].Assignments, 2)
	require.IsType(t, &ast.ReplicateExpr{}, assigns[1].Assignments[0].RHS)

	blocks := itemsOf[*ast.ProceduralBlock](unit.Items)
	require.Len(t, blocks, 6)
	kinds := make([]ast.ProcKind, len(blocks))
	for i, b := range blocks {
		kinds[i] = b.Kind
	}
	require.Equal(t, []ast.ProcKind{
		ast.ProcAlwaysFF, ast.ProcAlwaysComb, ast.ProcAlways,
		ast.ProcAlwaysLatch, ast.ProcInitial, ast.ProcFinal,
	}, kinds)
	require.Equal(t, "@(posedge clk or negedge rst_n)", blocks[0].Timing.Text([]byte(source)))
	require.Equal(t, "@*", blocks[2].Timing.Text([]byte(source)))
	require.True(t, blocks[1].Timing.IsEmpty())

	skipped := itemsOf[*ast.SkippedItem](unit.Items)
	require.Len(t, skipped, 4)
	require.Equal(t, "function", skipped[0].What)
	require.Equal(t, "typedef", skipped[2].What)
}

func TestInstantiations(t *testing.T) {
	source := `
module top(input logic clk);
    counter #(.WIDTH(16), .T(logic [3:0])) u_cnt (.clk(clk), .rst(), .q(pkg::sig), .en);
    shifter #(4) u_a (clk, , data[3:0]), u_b (clk, x, y);
    bus_if bus();
    and g1 (o, a, b);
endmodule
`
	unit := parseUnit(t, source)
	insts := itemsOf[*ast.Instantiation](unit.Items)
	require.Len(t, insts, 3)

	cnt := insts[0]
	require.Equal(t, "counter", cnt.Type.Name)
	require.Len(t, cnt.Params, 2)
	require.Equal(t, "WIDTH", cnt.Params[0].Name.Name)
	require.IsType(t, &ast.OpaqueExpr{}, cnt.Params[1].Value)
	conns := cnt.Instances[0].Connections
	require.Len(t, conns, 4)
	require.Equal(t, ast.ConnNamed, conns[0].Kind)
	require.Nil(t, conns[1].Expr)
	require.IsType(t, &ast.ScopedExpr{}, conns[2].Expr)
	require.Equal(t, ast.ConnImplicit, conns[3].Kind)

	sh := insts[1]
	require.Len(t, sh.Params, 1)
	require.True(t, sh.Params[0].Name.IsZero())
	require.Len(t, sh.Instances, 2)
	require.Len(t, sh.Instances[0].Connections, 3)
	require.Nil(t, sh.Instances[0].Connections[1].Expr)
	require.IsType(t, &ast.RangeExpr{}, sh.Instances[0].Connections[2].Expr)

	require.Empty(t, insts[2].Instances[0].Connections)
}

func TestWildcardConnection(t *testing.T) {
	unit := parseUnit(t, "module top; sub u (.*); endmodule")
	inst := itemsOf[*ast.Instantiation](unit.Items)[0]
	require.Equal(t, ast.ConnWildcard, inst.Instances[0].Connections[0].Kind)
}

func TestInterfaceModports(t *testing.T) {
	source := `
interface bus_if #(parameter W = 8);
    logic [W-1:0] data;
    logic valid, ready;
    modport master (output data, valid, input ready, import send),
            slave  (input data, valid, output ready, .alias_o(data[0]));
endinterface
`
	unit := parseUnit(t, source)
	require.Equal(t, ast.UnitInterface, unit.Kind)
	mods := itemsOf[*ast.ModportDecl](unit.Items)
	require.Len(t, mods, 1)
	require.Len(t, mods[0].Items, 2)

	master := mods[0].Items[0]
	require.Equal(t, "master", master.Name.Name)
	require.Len(t, master.Ports, 3)
	require.Equal(t, ast.DirOutput, master.Ports[1].Direction)
	require.Equal(t, ast.DirInput, master.Ports[2].Direction)

	slave := mods[0].Items[1]
	require.Len(t, slave.Ports, 4)
	require.Equal(t, "alias_o", slave.Ports[3].Name.Name)
	require.NotNil(t, slave.Ports[3].Expr)
}

func TestGenerateConstructs(t *testing.T) {
	source := `
module gen #(parameter N = 2) (input logic clk);
    genvar i;
    generate
        for (i = 0; i < N; i = i + 1) begin : g_loop
            stage u_stage (.clk(clk));
        end
    endgenerate
    for (genvar j = 0; j < N; j++) begin : g_bare
        if (j == 0) begin : g_first
            head u_head (.clk(clk));
        end else begin
            tail u_tail (.clk(clk));
        end
    end
    if (N > 1) mid u_mid (.clk(clk));
    case (N)
        1: begin end
        2, 3: pair u_pair (.clk(clk));
        default: ;
    endcase
endmodule
`
	unit := parseUnit(t, source)
	require.Len(t, itemsOf[*ast.GenvarDecl](unit.Items), 1)

	regions := itemsOf[*ast.GenerateRegion](unit.Items)
	require.Len(t, regions, 1)
	loop := regions[0].Items[0].(*ast.LoopGenerate)
	require.Equal(t, "i", loop.Genvar.Name)
	require.Equal(t, "g_loop", loop.Body.(*ast.GenerateBlock).Label.Name)

	loops := itemsOf[*ast.LoopGenerate](unit.Items)
	require.Len(t, loops, 1)
	require.Equal(t, "j", loops[0].Genvar.Name)
	names := func(item ast.Item) []string {
		var out []string
		for _, inst := range ast.Instantiations(item) {
			out = append(out, inst.Type.Name)
		}
		return out
	}
	require.Equal(t, []string{"head", "tail"}, names(loops[0]))

	ifs := itemsOf[*ast.IfGenerate](unit.Items)
	require.Len(t, ifs, 1)
	require.Nil(t, ifs[0].Else)
	require.Equal(t, []string{"mid"}, names(ifs[0]))

	cases := itemsOf[*ast.CaseGenerate](unit.Items)
	require.Len(t, cases, 1)
	require.Len(t, cases[0].Items, 3)
	require.Len(t, cases[0].Items[1].Exprs, 2)
	require.True(t, cases[0].Items[2].Default)
	require.Equal(t, []string{"pair"}, names(cases[0]))
}

func TestCompilationUnitItemsSkipped(t *testing.T) {
	source := "`timescale 1ns/1ps\n" + `
package pkg;
    typedef logic [7:0] byte_t;
    function automatic int f(); return 0; endfunction
endpackage
import pkg::*;
virtual class Base; endclass
module a; endmodule
interface b; endinterface
module c import pkg::*; (input logic x); endmodule
`
	file := parseOK(t, source)
	require.Len(t, file.Units, 3)
	require.Equal(t, "a", file.Units[0].Name.Name)
	require.Equal(t, ast.UnitInterface, file.Units[1].Kind)
	require.Len(t, file.Units[2].Ports.Ports, 1)
}

func TestExpressionPrecedence(t *testing.T) {
	unit := parseUnit(t, "module m #(parameter P = 1 + 2 * 3 ** 2 - (4 >> 1), Q = A ? B : C ? D : E); endmodule")
	sum := unit.Params[0].Value.(*ast.BinaryExpr)
	require.Equal(t, "-", sum.Op)
	left := sum.X.(*ast.BinaryExpr)
	require.Equal(t, "+", left.Op)
	mul := left.Y.(*ast.BinaryExpr)
	require.Equal(t, "*", mul.Op)
	require.Equal(t, "**", mul.Y.(*ast.BinaryExpr).Op)
	require.IsType(t, &ast.ParenExpr{}, sum.Y)

	tern := unit.Params[1].Value.(*ast.TernaryExpr)
	require.IsType(t, &ast.TernaryExpr{}, tern.Else)
}

func TestCallsAndCasts(t *testing.T) {
	source := "module m #(parameter W = $clog2(DEPTH), V = int'(3), X = '{default: 0}, Y = $bits(logic [3:0])); endmodule"
	unit := parseUnit(t, source)
	call := unit.Params[0].Value.(*ast.CallExpr)
	require.Equal(t, "$clog2", call.Fun.(*ast.IdentExpr).Name)
	require.Len(t, call.Args, 1)
	require.IsType(t, &ast.OpaqueExpr{}, unit.Params[1].Value)
	require.IsType(t, &ast.OpaqueExpr{}, unit.Params[2].Value)
	require.IsType(t, &ast.CallExpr{}, unit.Params[3].Value)
}

func TestSyntaxErrors(t *testing.T) {
	t.Run("missing semicolon", func(t *testing.T) {
		file := Parse([]byte("module m(input logic a) wire x; endmodule"), nil)
		require.True(t, file.HasErrors())
		d, ok := file.FirstError()
		require.True(t, ok)
		require.Contains(t, d.Message, "expected ';'")
	})
	t.Run("bad item recovers", func(t *testing.T) {
		file := Parse([]byte("module m; wire [3:0 x; logic y; endmodule module n; endmodule"), nil)
		require.True(t, file.HasErrors())
		require.Len(t, file.Units, 2)
	})
	t.Run("missing endmodule", func(t *testing.T) {
		file := Parse([]byte("module m; wire x;"), nil)
		require.True(t, file.HasErrors())
	})
	t.Run("unterminated begin in statement", func(t *testing.T) {
		file := Parse([]byte("module m(input logic a); initial foo begin x = 1; endmodule"), nil)
		require.True(t, file.HasErrors())
		d, ok := file.FirstError()
		require.True(t, ok)
		require.Contains(t, d.Message, "expected 'end'")
	})
	t.Run("statement runs into endmodule", func(t *testing.T) {
		file := Parse([]byte("module m; initial $display(1) endmodule"), nil)
		require.True(t, file.HasErrors())
		d, ok := file.FirstError()
		require.True(t, ok)
		require.Contains(t, d.Message, "expected ';'")
	})
	t.Run("skipped item runs into end of file", func(t *testing.T) {
		file := Parse([]byte("typedef logic [7:0] byte_t"), nil)
		require.True(t, file.HasErrors())
	})
	t.Run("stray end", func(t *testing.T) {
		file := Parse([]byte("module m; end endmodule"), nil)
		require.True(t, file.HasErrors())
		require.Len(t, file.Units, 1)
	})
}
