package eval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/daubuild/svmodel/errors"
)

func TestEvalString(t *testing.T) {
	scope := Params{"WIDTH": 32, "DEPTH": 16, "pkg::N": 4}
	tests := []struct {
		expr string
		want int64
	}{
		{"0", 0},
		{"1_000", 1000},
		{"8'hFF", 255},
		{"'d12", 12},
		{"16'sd5", 5},
		{"4'b1010", 10},
		{"'o17", 15},
		{"'0", 0},
		{"WIDTH", 32},
		{"WIDTH-1", 31},
		{"WIDTH - 1 - 0", 31},
		{"(WIDTH+1)/2", 16},
		{"WIDTH*2+1", 65},
		{"WIDTH*(2+1)", 96},
		{"-WIDTH", -32},
		{"+3", 3},
		{"7 % 3", 1},
		{"-7 / 2", -3},
		{"2**10", 1024},
		{"2**0", 1},
		{"2 ** -1", 0},
		{"1 << 4", 16},
		{"256 >> 2", 64},
		{"$clog2(DEPTH)", 4},
		{"$clog2(17)", 5},
		{"$clog2(1)", 0},
		{"$clog2(WIDTH)-1", 4},
		{"WIDTH > DEPTH ? WIDTH : DEPTH", 32},
		{"WIDTH == 32 && DEPTH != 0", 1},
		{"!WIDTH", 0},
		{"~0", -1},
		{"pkg::N", 4},
		{"((((5))))", 5},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := EvalString(tt.expr, scope)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEvalStringUnresolved(t *testing.T) {
	for _, expr := range []string{"N", "N-1", "WIDTH+N", "$clog2(N)", "other::N", "`WIDTH"} {
		t.Run(expr, func(t *testing.T) {
			_, err := EvalString(expr, Params{"WIDTH": 8})
			require.ErrorIs(t, err, errors.ErrUnresolvedIdentifier)
		})
	}
}

func TestEvalStringMalformed(t *testing.T) {
	for _, expr := range []string{
		"",
		"   ",
		"1 +",
		"(1",
		"1 2",
		"1 / 0",
		"5 % 0",
		"4'bx1",
		"'1",
		"1.5",
		`"str"`,
		"a[3]",
		"f(1)",
		"$bits(x)",
		"$clog2(1, 2)",
		"{1, 2}",
		"1 << 64",
		"0 ** -1",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := EvalString(expr, Params{"a": 1, "x": 1})
			require.ErrorIs(t, err, errors.ErrMalformedExpression)
		})
	}
}

func TestSizedLiterals(t *testing.T) {
	tests := []struct {
		expr string
		want int64
	}{
		{"4'hFF", 15},
		{"8'd300", 44},
		{"4'sb1111", -1},
		{"4'sb0111", 7},
		{"64'sh8000_0000_0000_0000", -9223372036854775808},
		{"64'h7FFF_FFFF_FFFF_FFFF", 9223372036854775807},
		{"72'hFF", 255},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			got, err := EvalString(tt.expr, nil)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestOverflow(t *testing.T) {
	for _, expr := range []string{
		"64'hFFFFFFFFFFFFFFFF",
		"'hFFFF_FFFF_FFFF_FFFF",
		"9223372036854775808",
		"0'd1",
		"9223372036854775807 + 1",
		"-9223372036854775807 - 2",
		"4294967296 * 4294967296",
		"-3037000500 * 3037000500",
		"2 ** 63",
		"3 ** 40",
		"1 << 63",
		"-(-9223372036854775807 - 1)",
		"(-9223372036854775807 - 1) / -1",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := EvalString(expr, nil)
			require.ErrorIs(t, err, errors.ErrMalformedExpression)
			require.ErrorContains(t, err, expr)
		})
	}

	v, err := EvalString("2 ** 62 + (2 ** 62 - 1)", nil)
	require.NoError(t, err)
	require.Equal(t, int64(9223372036854775807), v)

	v, err = EvalString("(-2) ** 63", nil)
	require.NoError(t, err)
	require.Equal(t, int64(-9223372036854775808), v)
}

func TestUnboundNeverZero(t *testing.T) {
	v, err := EvalString("UNBOUND", nil)
	require.Error(t, err)
	require.Zero(t, v)
	require.NotErrorIs(t, err, errors.ErrMalformedExpression)
}

func TestShortCircuit(t *testing.T) {
	v, err := EvalString("0 && MISSING", Empty)
	require.NoError(t, err)
	require.Equal(t, int64(0), v)

	v, err = EvalString("1 || MISSING", Empty)
	require.NoError(t, err)
	require.Equal(t, int64(1), v)
}

func TestMalformedDetailNamesExpression(t *testing.T) {
	_, err := EvalString("8 / 0", nil)
	require.ErrorContains(t, err, `"8 / 0"`)
	require.ErrorContains(t, err, "division by zero")
}

func TestClog2(t *testing.T) {
	cases := map[int64]int64{-1: 0, 0: 0, 1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 1024: 10, 1025: 11}
	for in, want := range cases {
		require.Equal(t, want, Clog2(in), "Clog2(%d)", in)
	}
}
