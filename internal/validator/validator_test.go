package validator_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daubuild/svmodel"
	"github.com/daubuild/svmodel/internal/validator"
)

func fixtureDesign(t *testing.T) *svmodel.Design {
	t.Helper()
	d, err := svmodel.LoadDir(context.Background(), filepath.Join("..", "..", "testdata", "rtl"), "sv")
	require.NoError(t, err)
	return d
}

func TestSnapshotValid(t *testing.T) {
	v, err := validator.New()
	require.NoError(t, err)

	d := fixtureDesign(t)
	require.NoError(t, v.Validate(d.Snapshot()), "unresolved snapshot")

	require.NoError(t, d.Resolve())
	require.NoError(t, v.Validate(d), "resolved snapshot via MarshalJSON")
	assert.Nil(t, v.Errors(d.Snapshot()))
}

func TestEmptySnapshotValid(t *testing.T) {
	v, err := validator.New()
	require.NoError(t, err)
	require.NoError(t, v.Validate(svmodel.NewDesign(nil).Snapshot()))
}

func TestSnapshotInvalid(t *testing.T) {
	v, err := validator.New()
	require.NoError(t, err)

	tests := []struct {
		name string
		json string
	}{
		{"missing lists", `{"modules": [], "resolved": false}`},
		{"null list", `{"modules": null, "bindings": [], "tops": [], "resolved": false, "diagnostics": []}`},
		{"unknown field", `{"modules": [], "bindings": [], "tops": [], "resolved": false, "diagnostics": [], "extra": 1}`},
		{"bad severity", `{"modules": [], "bindings": [], "tops": [], "resolved": true,
			"diagnostics": [{"severity": "loud", "code": "x", "message": "m"}]}`},
		{"bad top name", `{"modules": [], "bindings": [], "tops": ["1top"], "resolved": false, "diagnostics": []}`},
		{"not json", `{"modules": [`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, v.ValidateJSON([]byte(tt.json)))
		})
	}
}

func TestModuleDefinition(t *testing.T) {
	v, err := validator.NewFor(validator.Module)
	require.NoError(t, err)

	m, err := svmodel.FromText(`
module m #(parameter int W = 4) (input logic clk, output logic [W-1:0] q);
  always_ff @(posedge clk) q <= q + 1;
endmodule`)
	require.NoError(t, err)
	require.NoError(t, v.Validate(m))

	m.Inputs[0].Direction = "sideways"
	errs := v.Errors(m)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0], "direction")
}

func TestUnknownDefinition(t *testing.T) {
	_, err := validator.NewFor("#Nope")
	require.Error(t, err)
}
