// Package testutil provides fixtures and comparison helpers for tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Expectation is the structural summary of one fixture module, as recorded
// in testdata/expected.json.
type Expectation struct {
	Kind       string `json:"kind"`
	Parameters int    `json:"parameters"`
	Inputs     int    `json:"inputs"`
	Outputs    int    `json:"outputs"`
	Inouts     int    `json:"inouts"`
	Wires      int    `json:"wires"`
	Assigns    int    `json:"assigns"`
	Blocks     int    `json:"blocks"`
	Generates  int    `json:"generates"`
	Modports   int    `json:"modports"`
	Instances  int    `json:"instances"`
}

// LoadExpectations reads a JSON object mapping module names to their
// expected summaries.
func LoadExpectations(t testing.TB, path string) map[string]*Expectation {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading fixture %s", path)
	var out map[string]*Expectation
	require.NoError(t, json.Unmarshal(data, &out), "parsing fixture %s", path)
	return out
}

// WriteTree writes files (relative path -> content) under a fresh
// temporary directory and returns the directory.
func WriteTree(t testing.TB, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}
