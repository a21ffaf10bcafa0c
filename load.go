package svmodel

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/daubuild/svmodel/design"
	"github.com/daubuild/svmodel/errors"
	"github.com/daubuild/svmodel/internal/extract"
	"github.com/daubuild/svmodel/internal/parser"
	"github.com/daubuild/svmodel/internal/types"
)

// parsed is everything extracted from one source text.
type parsed struct {
	modules     []*design.Module
	diagnostics []Diagnostic
}

// parseSource parses content and extracts every module and interface in
// it. file labels modules and diagnostics; it may be empty. Any syntax
// error fails the whole text.
func parseSource(content []byte, file string, cfg *loadConfig) (parsed, error) {
	sf := parser.Parse(content, types.Component(cfg.logger, "parser"))
	lines := types.BuildLineTable(content)
	if diag, bad := sf.FirstError(); bad {
		line, _ := lines.Position(diag.Span.Start)
		return parsed{}, errors.Parse(file, line, diag.Message)
	}

	var out parsed
	for _, d := range sf.Diagnostics {
		line, _ := lines.Position(d.Span.Start)
		out.diagnostics = append(out.diagnostics, Diagnostic{
			Severity: d.Severity,
			Code:     d.Code,
			Message:  d.Message,
			File:     file,
			Line:     line,
		})
	}
	out.diagnostics = cfg.keep(out.diagnostics)

	logger := types.Component(cfg.logger, "extract")
	for _, unit := range sf.Units {
		mod, err := extract.Module(unit, content, lines, file, logger)
		if err != nil {
			return parsed{}, err
		}
		mod.Diagnostics = cfg.keep(mod.Diagnostics)
		out.modules = append(out.modules, mod)
	}
	return out, nil
}

func readSource(src Source, path string) ([]byte, error) {
	r, err := src.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close() //nolint:errcheck // read-only
	return io.ReadAll(r)
}

// fileResult is the outcome of loading one file of a batch.
type fileResult struct {
	path string
	parsed
	err error
}

// Load parses every file of source in parallel and merges the results,
// in listing order, into a new Design. A file that cannot be read, parsed
// or extracted is skipped and recorded as a file-skipped diagnostic.
// Only context cancellation and listing failures abort the load.
//
// Example:
//
//	d, err := svmodel.Load(ctx,
//	    svmodel.Multi(svmodel.MustDirTree("rtl"), svmodel.MustDir("ip")),
//	    svmodel.WithLogger(slog.Default()),
//	)
func Load(ctx context.Context, source Source, opts ...Option) (*design.Design, error) {
	if source == nil {
		return nil, ErrNoSources
	}
	cfg := newLoadConfig(opts)
	log := types.Logger{L: types.Component(cfg.logger, "loader")}

	files, err := source.ListFiles()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "listing sources")
	}
	log.Log(slog.LevelInfo, "parallel loading",
		slog.Int("files", len(files)),
		slog.Int("workers", cfg.concurrency))

	results := make([]fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.concurrency)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i].path = path
			content, err := readSource(source, path)
			if err != nil {
				results[i].err = errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "reading "+path)
				return nil
			}
			results[i].parsed, results[i].err = parseSource(content, path, &cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d := design.New(types.Component(cfg.logger, "design"))
	skipped := 0
	for _, r := range results {
		if r.err != nil {
			skipped++
			log.Log(slog.LevelDebug, "file skipped", slog.String("path", r.path), slog.String("error", r.err.Error()))
			for _, diag := range cfg.keep([]Diagnostic{skippedDiagnostic(r.path, r.err)}) {
				d.AddDiagnostic(diag)
			}
			continue
		}
		for _, diag := range r.diagnostics {
			d.AddDiagnostic(diag)
		}
		for _, m := range r.modules {
			d.Add(m)
		}
	}

	log.Log(slog.LevelInfo, "parallel loading complete",
		slog.Int("modules", d.Len()),
		slog.Int("skipped", skipped))
	return d, nil
}

func skippedDiagnostic(path string, err error) Diagnostic {
	diag := Diagnostic{
		Severity: types.SeverityError,
		Code:     types.DiagFileSkipped,
		Message:  fmt.Sprintf("file skipped: %v", err),
		File:     path,
	}
	var e *errors.Error
	if stderrors.As(err, &e) {
		diag.Module = e.Module
		diag.Line = e.Line
	}
	return diag
}

// LoadFiles loads an explicit list of files, in order.
func LoadFiles(ctx context.Context, paths []string, opts ...Option) (*design.Design, error) {
	return Load(ctx, Files(paths...), opts...)
}

// LoadDir loads every file under dir, recursively, whose extension is ext
// (default "sv"). A leading dot on ext is optional.
func LoadDir(ctx context.Context, dir, ext string, opts ...Option) (*design.Design, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	src, err := DirTree(dir, WithSourceExtensions(ext))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "scanning "+dir)
	}
	return Load(ctx, src, opts...)
}

// ResolveFromDir builds the hierarchy under mod by loading each
// instantiated definition by name from root ({root}/{type}.{ext}), then
// from any configured library paths, recursively. Each definition is
// loaded once however often it is instantiated. A definition that cannot
// be found fails with ModuleNotFound; an instantiation cycle fails with
// CyclicHierarchy. The returned Design is resolved.
func ResolveFromDir(ctx context.Context, mod *Module, root, ext string, opts ...Option) (*design.Design, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	cfg := newLoadConfig(opts)
	log := types.Logger{L: types.Component(cfg.logger, "loader")}

	rootSrc, err := Dir(root, WithSourceExtensions(ext))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseResolve, errors.KindModuleNotFound, err, "opening "+root)
	}
	source := Multi(append([]Source{rootSrc}, librarySources(&cfg, ext)...)...)

	d := design.New(types.Component(cfg.logger, "design"))
	d.Add(mod)
	loaded := map[string]bool{mod.Name: true}
	queue := []*Module{mod}
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parent := queue[0]
		queue = queue[1:]
		for _, inst := range parent.AllInstances() {
			if loaded[inst.Type] {
				continue
			}
			mods, err := findDefinition(source, inst.Type, root, &cfg)
			if err != nil {
				if e, ok := err.(*errors.Error); ok && e.Kind == errors.KindModuleNotFound {
					e.Detail += fmt.Sprintf(" (instance %s of %s)", inst.Name, parent.Name)
				}
				return nil, err
			}
			for _, m := range mods {
				if loaded[m.Name] {
					continue
				}
				loaded[m.Name] = true
				d.Add(m)
				queue = append(queue, m)
				log.Trace("definition loaded", slog.String("module", m.Name), slog.String("file", m.File))
			}
		}
	}

	if err := d.Resolve(); err != nil {
		return nil, err
	}
	log.Log(slog.LevelDebug, "hierarchy resolved",
		slog.String("top", mod.Name),
		slog.Int("modules", d.Len()))
	return d, nil
}

// findDefinition loads the file named after module name and returns every
// declaration in it, the named one first.
func findDefinition(src Source, name, root string, cfg *loadConfig) ([]*Module, error) {
	r, path, err := src.Find(name)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.ModuleNotFound(errors.PhaseResolve, name, root)
		}
		return nil, errors.Wrap(errors.PhaseResolve, errors.KindModuleNotFound, err, "opening "+path)
	}
	content, err := io.ReadAll(r)
	_ = r.Close()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseResolve, errors.KindModuleNotFound, err, "reading "+path)
	}
	p, err := parseSource(content, path, cfg)
	if err != nil {
		return nil, err
	}
	for i, m := range p.modules {
		if m.Name == name {
			mods := append([]*Module{m}, p.modules[:i]...)
			return append(mods, p.modules[i+1:]...), nil
		}
	}
	return nil, errors.ModuleNotFound(errors.PhaseResolve, name, path)
}

// ParseText parses source and returns every module and interface declared
// in it, in source order. Lexer and parser warnings are attached to the
// first module.
func ParseText(source string, opts ...Option) ([]*Module, error) {
	cfg := newLoadConfig(opts)
	p, err := parseSource([]byte(source), "", &cfg)
	if err != nil {
		return nil, err
	}
	if len(p.modules) > 0 && len(p.diagnostics) > 0 {
		p.modules[0].Diagnostics = append(p.diagnostics, p.modules[0].Diagnostics...)
	}
	return p.modules, nil
}

// FromText parses source and returns its first module or interface.
func FromText(source string, opts ...Option) (*Module, error) {
	mods, err := ParseText(source, opts...)
	if err != nil {
		return nil, err
	}
	if len(mods) == 0 {
		return nil, errors.New(errors.PhaseLoad, errors.KindModuleNotFound).
			Detail("no module or interface declared in text").
			Build()
	}
	return mods[0], nil
}

// FromFile parses the file at path and returns its first module or
// interface.
func FromFile(path string, opts ...Option) (*Module, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New(errors.PhaseLoad, errors.KindModuleNotFound).
				File(path).
				Cause(err).
				Detail("file not found").
				Build()
		}
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidInput, err, "reading "+path)
	}
	cfg := newLoadConfig(opts)
	p, err := parseSource(content, path, &cfg)
	if err != nil {
		return nil, err
	}
	if len(p.modules) == 0 {
		return nil, errors.New(errors.PhaseLoad, errors.KindModuleNotFound).
			File(path).
			Detail("no module or interface declared").
			Build()
	}
	p.modules[0].Diagnostics = append(p.diagnostics, p.modules[0].Diagnostics...)
	return p.modules[0], nil
}

// FromModule loads module name from {root}/{name}.{ext} (ext defaults to
// "sv"). It fails with ModuleNotFound when the file is absent or does not
// declare name.
func FromModule(name, root, ext string, opts ...Option) (*Module, error) {
	if ext == "" {
		ext = DefaultExtension
	}
	src, err := Dir(root, WithSourceExtensions(ext))
	if err != nil {
		return nil, errors.New(errors.PhaseLoad, errors.KindModuleNotFound).
			Module(name).
			Cause(err).
			Detail("module %q not found: cannot open %s", name, root).
			Build()
	}
	cfg := newLoadConfig(opts)
	mods, err := findDefinition(src, name, root, &cfg)
	if err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) && e.Kind == errors.KindModuleNotFound {
			e.Phase = errors.PhaseLoad
		}
		return nil, err
	}
	return mods[0], nil
}
