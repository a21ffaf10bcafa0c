package svmodel

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// DefaultExtensions are the file extensions recognized as SystemVerilog
// sources.
var DefaultExtensions = []string{".sv", ".svh", ".v"}

// Source finds SystemVerilog files by module name and lists the files it
// holds.
type Source interface {
	// Find locates the file named after a module.
	// Returns the file content, its path for diagnostics, or fs.ErrNotExist.
	Find(name string) (io.ReadCloser, string, error)

	// ListFiles returns every source file path, in a stable order.
	ListFiles() ([]string, error)

	// Open opens a path returned by ListFiles.
	Open(path string) (io.ReadCloser, error)
}

// SourceOption configures a source.
type SourceOption func(*sourceConfig)

type sourceConfig struct {
	extensions []string
}

func defaultSourceConfig() sourceConfig {
	return sourceConfig{extensions: DefaultExtensions}
}

// WithSourceExtensions sets the file extensions recognized by a source.
// A leading dot is optional.
func WithSourceExtensions(exts ...string) SourceOption {
	return func(c *sourceConfig) {
		c.extensions = nil
		for _, ext := range exts {
			c.extensions = append(c.extensions, normalizeExt(ext))
		}
	}
}

func normalizeExt(ext string) string {
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

func newSourceConfig(opts []SourceOption) sourceConfig {
	cfg := defaultSourceConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func checkDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "open", Path: path, Err: os.ErrInvalid}
	}
	return nil
}

func openFile(path string) (io.ReadCloser, error) { return os.Open(path) }

// --- Dir Source (single directory, lazy) ---

type dirSource struct {
	path   string
	config sourceConfig
}

// Dir creates a Source that searches a single directory (no recursion).
// Files are looked up lazily on each Find call.
func Dir(path string, opts ...SourceOption) (Source, error) {
	if err := checkDir(path); err != nil {
		return nil, err
	}
	return &dirSource{path: path, config: newSourceConfig(opts)}, nil
}

// MustDir is like Dir but panics on error.
func MustDir(path string, opts ...SourceOption) Source {
	src, err := Dir(path, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *dirSource) Find(name string) (io.ReadCloser, string, error) {
	for _, ext := range s.config.extensions {
		fullPath := filepath.Join(s.path, name+ext)
		f, err := os.Open(fullPath)
		if err == nil {
			return f, fullPath, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fullPath, err
		}
	}
	return nil, "", fs.ErrNotExist
}

func (s *dirSource) ListFiles() ([]string, error) {
	extSet := makeExtensionSet(s.config.extensions)
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		p := filepath.Join(s.path, entry.Name())
		if hasValidExtension(p, extSet) {
			files = append(files, p)
		}
	}
	return files, nil
}

func (s *dirSource) Open(path string) (io.ReadCloser, error) { return openFile(path) }

// --- DirTree Source (recursive directory, indexed) ---

type treeSource struct {
	files  []string          // walk order
	index  map[string]string // module name -> file path
	config sourceConfig
}

// DirTree creates a Source that recursively indexes a directory tree.
// It walks the tree once at construction and builds a name->path index.
// First match wins for duplicate names.
func DirTree(root string, opts ...SourceOption) (Source, error) {
	if err := checkDir(root); err != nil {
		return nil, err
	}
	cfg := newSourceConfig(opts)
	extSet := makeExtensionSet(cfg.extensions)
	s := &treeSource{index: make(map[string]string), config: cfg}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !hasValidExtension(path, extSet) {
			return nil
		}
		s.files = append(s.files, path)
		name := moduleNameFromPath(path)
		if _, exists := s.index[name]; !exists {
			s.index[name] = path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// MustDirTree is like DirTree but panics on error.
func MustDirTree(root string, opts ...SourceOption) Source {
	src, err := DirTree(root, opts...)
	if err != nil {
		panic(err)
	}
	return src
}

func (s *treeSource) Find(name string) (io.ReadCloser, string, error) {
	path, ok := s.index[name]
	if !ok {
		return nil, "", fs.ErrNotExist
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, path, err
	}
	return f, path, nil
}

func (s *treeSource) ListFiles() ([]string, error) {
	return append([]string(nil), s.files...), nil
}

func (s *treeSource) Open(path string) (io.ReadCloser, error) { return openFile(path) }

// --- Files Source (explicit list) ---

type filesSource struct {
	paths []string
}

// Files creates a Source over an explicit list of paths. ListFiles returns
// them in the given order; Find matches a module name against file base
// names.
func Files(paths ...string) Source {
	return &filesSource{paths: paths}
}

func (s *filesSource) Find(name string) (io.ReadCloser, string, error) {
	for _, p := range s.paths {
		if moduleNameFromPath(p) == name {
			f, err := os.Open(p)
			return f, p, err
		}
	}
	return nil, "", fs.ErrNotExist
}

func (s *filesSource) ListFiles() ([]string, error) {
	return append([]string(nil), s.paths...), nil
}

func (s *filesSource) Open(path string) (io.ReadCloser, error) { return openFile(path) }

// --- FS Source (for embed.FS, testing, http filesystems) ---

type fsSource struct {
	name   string
	fsys   fs.FS
	config sourceConfig

	once  sync.Once
	files []string
	index map[string]string
	err   error
}

// FS creates a Source backed by an fs.FS (e.g., embed.FS).
// The name prefixes reported paths ("name:path").
// It lazily indexes the filesystem on first use.
func FS(name string, fsys fs.FS, opts ...SourceOption) Source {
	return &fsSource{name: name, fsys: fsys, config: newSourceConfig(opts)}
}

func (s *fsSource) init() error {
	s.once.Do(func() { s.err = s.buildIndex() })
	return s.err
}

func (s *fsSource) Find(name string) (io.ReadCloser, string, error) {
	if err := s.init(); err != nil {
		return nil, "", err
	}
	p, ok := s.index[name]
	if !ok {
		return nil, "", fs.ErrNotExist
	}
	f, err := s.fsys.Open(p)
	return f, s.name + ":" + p, err
}

func (s *fsSource) ListFiles() ([]string, error) {
	if err := s.init(); err != nil {
		return nil, err
	}
	files := make([]string, len(s.files))
	for i, p := range s.files {
		files[i] = s.name + ":" + p
	}
	return files, nil
}

func (s *fsSource) Open(p string) (io.ReadCloser, error) {
	rel, ok := strings.CutPrefix(p, s.name+":")
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
	}
	return s.fsys.Open(rel)
}

func (s *fsSource) buildIndex() error {
	extSet := makeExtensionSet(s.config.extensions)
	s.index = make(map[string]string)
	return fs.WalkDir(s.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !hasValidExtension(p, extSet) {
			return nil
		}
		s.files = append(s.files, p)
		name := strings.TrimSuffix(path.Base(p), path.Ext(p))
		if _, exists := s.index[name]; !exists {
			s.index[name] = p
		}
		return nil
	})
}

// --- Multi Source (combines multiple sources) ---

type multiSource struct {
	sources []Source

	mu     sync.Mutex
	owners map[string]Source
}

// Multi combines multiple sources into one.
// Find tries each source in order, returning the first match.
func Multi(sources ...Source) Source {
	return &multiSource{sources: sources}
}

func (s *multiSource) Find(name string) (io.ReadCloser, string, error) {
	for _, src := range s.sources {
		r, p, err := src.Find(name)
		if err == nil {
			return r, p, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, p, err
		}
	}
	return nil, "", fs.ErrNotExist
}

func (s *multiSource) ListFiles() ([]string, error) {
	owners := make(map[string]Source)
	var files []string
	for _, src := range s.sources {
		f, err := src.ListFiles()
		if err != nil {
			return nil, err
		}
		for _, p := range f {
			if _, seen := owners[p]; !seen {
				owners[p] = src
				files = append(files, p)
			}
		}
	}
	s.mu.Lock()
	s.owners = owners
	s.mu.Unlock()
	return files, nil
}

func (s *multiSource) Open(p string) (io.ReadCloser, error) {
	s.mu.Lock()
	src, ok := s.owners[p]
	s.mu.Unlock()
	if ok {
		return src.Open(p)
	}
	return nil, &fs.PathError{Op: "open", Path: p, Err: fs.ErrNotExist}
}

// --- Helpers ---

func makeExtensionSet(extensions []string) map[string]struct{} {
	set := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		set[strings.ToLower(ext)] = struct{}{}
	}
	return set
}

func hasValidExtension(path string, extSet map[string]struct{}) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := extSet[ext]
	return ok
}

func moduleNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
