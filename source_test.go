package svmodel

import (
	"io"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirNonExistentPath(t *testing.T) {
	_, err := Dir("/this/path/does/not/exist/at/all")
	require.Error(t, err)
}

func TestDirNotADirectory(t *testing.T) {
	_, err := Dir("testdata/rtl/adder.sv")
	require.Error(t, err, "Dir with a file path should fail")
}

func TestMustDirPanicsOnError(t *testing.T) {
	assert.Panics(t, func() { MustDir("/this/path/does/not/exist") })
}

func TestDirSourceFind(t *testing.T) {
	src := MustDir("testdata/rtl", WithSourceExtensions("sv"))

	r, path, err := src.Find("adder")
	require.NoError(t, err)
	_ = r.Close()
	assert.Contains(t, path, "adder.sv")

	_, _, err = src.Find("no_such_module")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDirSourceListFiles(t *testing.T) {
	src := MustDir("testdata/rtl")
	files, err := src.ListFiles()
	require.NoError(t, err)
	assert.Len(t, files, 6)
}

func TestDirTreeFindsAcrossSubdirs(t *testing.T) {
	src := MustDirTree("testdata")

	r, _, err := src.Find("legacy")
	require.NoError(t, err)
	_ = r.Close()

	files, err := src.ListFiles()
	require.NoError(t, err)
	require.Len(t, files, 8)
	assert.Contains(t, files[0], "broken.sv", "walk order is lexical")
}

func TestDirTreeNotADirectory(t *testing.T) {
	_, err := DirTree("testdata/rtl/adder.sv")
	require.Error(t, err)
	assert.Panics(t, func() { MustDirTree("/this/path/does/not/exist") })
}

func TestFilesSource(t *testing.T) {
	src := Files("testdata/rtl/fifo.sv", "testdata/rtl/adder.sv")
	files, err := src.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"testdata/rtl/fifo.sv", "testdata/rtl/adder.sv"}, files)

	r, _, err := src.Find("adder")
	require.NoError(t, err)
	_ = r.Close()

	_, _, err = src.Find("counter")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFSSource(t *testing.T) {
	memFS := fstest.MapFS{
		"ip/leaf.sv":   &fstest.MapFile{Data: []byte("module leaf (input logic a); endmodule\n")},
		"ip/notes.txt": &fstest.MapFile{Data: []byte("not verilog")},
	}
	src := FS("mem", memFS)

	r, path, err := src.Find("leaf")
	require.NoError(t, err)
	_ = r.Close()
	assert.Equal(t, "mem:ip/leaf.sv", path)

	files, err := src.ListFiles()
	require.NoError(t, err)
	require.Equal(t, []string{"mem:ip/leaf.sv"}, files)

	f, err := src.Open(files[0])
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	_ = f.Close()
	require.NoError(t, err)
	assert.Contains(t, string(data), "module leaf")

	_, _, err = FS("empty", fstest.MapFS{}).Find("leaf")
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestMultiSourceFindOrder(t *testing.T) {
	first := FS("first", fstest.MapFS{"adder.sv": &fstest.MapFile{Data: []byte("module adder; endmodule\n")}})
	src := Multi(first, MustDir("testdata/rtl"))

	r, path, err := src.Find("adder")
	require.NoError(t, err)
	_ = r.Close()
	assert.Equal(t, "first:adder.sv", path)

	r, path, err = src.Find("fifo")
	require.NoError(t, err)
	_ = r.Close()
	assert.Contains(t, path, "fifo.sv")

	files, err := src.ListFiles()
	require.NoError(t, err)
	assert.Len(t, files, 7)

	f, err := src.Open("first:adder.sv")
	require.NoError(t, err)
	_ = f.Close()
}

func TestNormalizeExt(t *testing.T) {
	assert.Equal(t, ".sv", normalizeExt("sv"))
	assert.Equal(t, ".sv", normalizeExt(".sv"))
	assert.Equal(t, "", normalizeExt(""))
}
