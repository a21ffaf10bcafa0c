package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	rtlDir = filepath.Join("..", "..", "testdata", "rtl")
	badDir = filepath.Join("..", "..", "testdata", "bad")
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestUsage(t *testing.T) {
	code, out, _ := runCLI(t, "--help")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Commands:")

	code, _, errOut := runCLI(t)
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "Usage:")

	code, _, errOut = runCLI(t, "frobnicate")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "unknown command: frobnicate")

	code, out, _ = runCLI(t, "lint", "-h")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "svmodel lint")
}

func TestVersion(t *testing.T) {
	code, out, _ := runCLI(t, "version")
	assert.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "svmodel "))
}

func TestParse(t *testing.T) {
	code, out, _ := runCLI(t, "parse", filepath.Join(rtlDir, "stream.sv"))
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "module stream_src")
	assert.Contains(t, out, "module stream_sink")

	code, out, _ = runCLI(t, "parse", "--json", filepath.Join(rtlDir, "counter.sv"))
	require.Equal(t, exitOK, code)
	var mods []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &mods))
	require.Len(t, mods, 1)
	assert.Equal(t, "counter", mods[0]["name"])
}

func TestParseErrors(t *testing.T) {
	code, _, errOut := runCLI(t, "parse", filepath.Join(badDir, "broken.sv"))
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "file-skipped")

	code, _, errOut = runCLI(t, "parse")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "no files given")
}

func TestList(t *testing.T) {
	code, out, _ := runCLI(t, "list", "-d", rtlDir, "--count")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "7\n", out)

	code, out, _ = runCLI(t, "list", "-d", rtlDir, "--tops")
	require.Equal(t, exitOK, code)
	assert.Equal(t, "soc_top\nstream_src\nstream_sink\n", out)

	code, out, _ = runCLI(t, "list", "-d", rtlDir, "--json")
	require.Equal(t, exitOK, code)
	var entries []listEntry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 7)
	assert.Equal(t, "bus_if", entries[1].Name)
	assert.Equal(t, "interface", entries[1].Kind)
}

func TestListReportsSkippedFiles(t *testing.T) {
	code, out, errOut := runCLI(t, "list", "-d", badDir)
	require.Equal(t, exitOK, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "broken.sv")
}

func TestTree(t *testing.T) {
	want := "soc_top\n" +
		"├── u_fifo: fifo\n" +
		"├── u_add: adder\n" +
		"├── u_cnt: counter\n" +
		"└── u_lane: adder\n"

	code, out, _ := runCLI(t, "tree", "-d", rtlDir, "soc_top")
	require.Equal(t, exitOK, code)
	assert.Equal(t, want, out)

	code, out, _ = runCLI(t, "tree", "-d", rtlDir, "--by-name", "soc_top")
	require.Equal(t, exitOK, code)
	assert.Equal(t, want, out)

	code, out, _ = runCLI(t, "tree", "-d", rtlDir)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "stream_src\n")
	assert.Contains(t, out, "stream_sink\n")

	code, _, errOut := runCLI(t, "tree", "-d", rtlDir, "nope")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "nope")
}

func TestDump(t *testing.T) {
	code, out, errOut := runCLI(t, "dump", "-d", rtlDir, "--validate", "--compact")
	require.Equal(t, exitOK, code, errOut)
	assert.Equal(t, 1, strings.Count(out, "\n"))

	var snap struct {
		Modules  []map[string]any `json:"modules"`
		Bindings []map[string]any `json:"bindings"`
		Tops     []string         `json:"tops"`
		Resolved bool             `json:"resolved"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Len(t, snap.Modules, 7)
	assert.True(t, snap.Resolved)
	assert.Equal(t, []string{"soc_top", "stream_src", "stream_sink"}, snap.Tops)
	assert.Len(t, snap.Bindings, 4)

	path := filepath.Join(t.TempDir(), "design.json")
	code, out, _ = runCLI(t, "dump", "-d", rtlDir, "--no-resolve", "-o", path)
	require.Equal(t, exitOK, code)
	assert.Empty(t, out)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"resolved": false`)
}

func TestTop(t *testing.T) {
	code, out, _ := runCLI(t, "top", "-d", rtlDir, "-n", "chip", "-m", "counter")
	require.Equal(t, exitOK, code)
	assert.True(t, strings.HasPrefix(out, "module chip (\n"))
	assert.Contains(t, out, "counter #(.PARAM(32)) counter_inst (")
	assert.Contains(t, out, "counter_value")

	code, _, errOut := runCLI(t, "top", "-d", rtlDir, "-m", "bus_if")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "bus_if")

	code, _, errOut = runCLI(t, "top", "-d", rtlDir, "-m", "adder", "--tops")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "mutually exclusive")
}

func TestTopFromConfig(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "svmodel.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("top:\n  name: from_config\n  modules: [adder]\n"), 0o644))

	out := filepath.Join(t.TempDir(), "top.sv")
	code, _, errOut := runCLI(t, "-c", cfg, "top", "-d", rtlDir, "-o", out)
	require.Equal(t, exitOK, code, errOut)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "module from_config (\n"))
	assert.Contains(t, string(data), "adder_inst")
	assert.NotContains(t, string(data), "counter_inst")
}

func TestLint(t *testing.T) {
	code, out, _ := runCLI(t, "lint", "-d", rtlDir)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "multiple-tops")
	assert.Contains(t, out, "unconnected-port")
	assert.Contains(t, out, "modport-member-unresolved")

	code, _, _ = runCLI(t, "lint", "-d", rtlDir, "--fail-on", "warning", "--quiet")
	assert.Equal(t, exitLintFailed, code)

	code, out, _ = runCLI(t, "lint", "-d", rtlDir, "--disable", "multiple-tops", "--json")
	assert.Equal(t, exitOK, code)
	var report lintReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	for _, f := range report.Findings {
		assert.NotEqual(t, "multiple-tops", f.Rule)
	}
	assert.Equal(t, len(report.Findings)+len(report.Diagnostics), report.Summary.Total)

	code, _, errOut := runCLI(t, "lint", "-d", rtlDir, "--disable", "no-such-rule")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "unknown rule")

	code, _, errOut = runCLI(t, "lint", "-d", rtlDir, "--fail-on", "sometimes")
	assert.Equal(t, exitError, code)
	assert.Contains(t, errOut, "unknown severity")
}
