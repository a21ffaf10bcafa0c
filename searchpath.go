package svmodel

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/daubuild/svmodel/internal/types"
)

// PathEnv names the environment variable holding library directories.
// A value starting with "+" appends to the default directories, one
// starting with "-" prepends to them, and any other value replaces them.
const PathEnv = "SVMODEL_PATH"

type pathOp int

const (
	pathReplace pathOp = iota
	pathAppend
	pathPrepend
)

// librarySources returns a Source for every configured library directory
// that exists, searched after the resolution root.
func librarySources(cfg *loadConfig, ext string) []Source {
	dirs := append([]string(nil), cfg.libraryPaths...)
	if cfg.systemPaths {
		dirs = append(dirs, discoverSystemPaths(types.Logger{L: types.Component(cfg.logger, "loader")})...)
	}
	var sources []Source
	for _, d := range filterExistingDirs(dedup(dirs)) {
		if src, err := Dir(d, WithSourceExtensions(ext)); err == nil {
			sources = append(sources, src)
		}
	}
	return sources
}

// discoverSystemPaths returns the default library directories adjusted by
// PathEnv, deduplicated and filtered to directories that exist.
func discoverSystemPaths(logger types.Logger) []string {
	paths := systemDefaults()
	if v := os.Getenv(PathEnv); v != "" {
		op, dirs := parseEnvValue(v)
		paths = applyOp(op, dirs, paths)
		logger.Log(slog.LevelDebug, "library path from environment",
			slog.String("var", PathEnv),
			slog.Int("dirs", len(dirs)))
	}
	return filterExistingDirs(dedup(paths))
}

func systemDefaults() []string {
	var paths []string
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".local", "share", "svmodel", "lib"))
	}
	return append(paths,
		"/usr/local/share/svmodel/lib",
		"/usr/share/svmodel/lib",
	)
}

func parseEnvValue(value string) (pathOp, []string) {
	if rest, ok := strings.CutPrefix(value, "+"); ok {
		return pathAppend, splitPaths(rest)
	}
	if rest, ok := strings.CutPrefix(value, "-"); ok {
		return pathPrepend, splitPaths(rest)
	}
	return pathReplace, splitPaths(value)
}

func applyOp(op pathOp, dirs, current []string) []string {
	switch op {
	case pathAppend:
		return append(current, dirs...)
	case pathPrepend:
		return append(dirs, current...)
	default:
		return dirs
	}
}

func splitPaths(s string) []string {
	var result []string
	for _, p := range filepath.SplitList(s) {
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func dedup(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	var result []string
	for _, p := range paths {
		if _, ok := seen[p]; !ok {
			seen[p] = struct{}{}
			result = append(result, p)
		}
	}
	return result
}

func filterExistingDirs(paths []string) []string {
	var result []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err == nil && info.IsDir() {
			result = append(result, p)
		}
	}
	return result
}
