package svmodel

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/daubuild/svmodel/internal/types"
)

func TestParseEnvValue(t *testing.T) {
	sep := string(os.PathListSeparator)
	tests := []struct {
		value  string
		wantOp pathOp
		want   []string
	}{
		{"/lib/sv", pathReplace, []string{"/lib/sv"}},
		{"/a" + sep + "/b", pathReplace, []string{"/a", "/b"}},
		{"+/extra", pathAppend, []string{"/extra"}},
		{"-/first" + sep + "/second", pathPrepend, []string{"/first", "/second"}},
		{"/a" + sep + sep + "/b", pathReplace, []string{"/a", "/b"}},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			op, dirs := parseEnvValue(tt.value)
			if op != tt.wantOp {
				t.Errorf("op = %v, want %v", op, tt.wantOp)
			}
			if !slices.Equal(dirs, tt.want) {
				t.Errorf("dirs = %v, want %v", dirs, tt.want)
			}
		})
	}
}

func TestApplyOp(t *testing.T) {
	tests := []struct {
		name string
		op   pathOp
		dirs []string
		want []string
	}{
		{"replace", pathReplace, []string{"/new"}, []string{"/new"}},
		{"append", pathAppend, []string{"/extra"}, []string{"/default", "/extra"}},
		{"prepend", pathPrepend, []string{"/first"}, []string{"/first", "/default"}},
		{"append multiple", pathAppend, []string{"/a", "/b"}, []string{"/default", "/a", "/b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyOp(tt.op, tt.dirs, []string{"/default"})
			if !slices.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDedup(t *testing.T) {
	got := dedup([]string{"/a", "/b", "/a", "/c", "/b"})
	want := []string{"/a", "/b", "/c"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestFilterExistingDirs(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.sv")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got := filterExistingDirs([]string{dir, file, filepath.Join(dir, "missing")})
	if !slices.Equal(got, []string{dir}) {
		t.Errorf("got %v, want [%s]", got, dir)
	}
}

func TestDiscoverSystemPathsFromEnv(t *testing.T) {
	lib := t.TempDir()
	t.Setenv(PathEnv, lib)

	got := discoverSystemPaths(types.Logger{})
	if !slices.Equal(got, []string{lib}) {
		t.Errorf("got %v, want [%s]", got, lib)
	}

	t.Setenv(PathEnv, "-"+lib)
	got = discoverSystemPaths(types.Logger{})
	if len(got) == 0 || got[0] != lib {
		t.Errorf("prepended dir should come first, got %v", got)
	}
	for _, d := range got[1:] {
		if !strings.Contains(d, "svmodel") {
			t.Errorf("unexpected default dir %s", d)
		}
	}
}
