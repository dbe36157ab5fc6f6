package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dbsmedya/depaudit/internal/logger"
	"github.com/dbsmedya/depaudit/internal/pymodule"
)

// Resolution is the successful outcome of resolving a qualified name.
// Origin is the module's defining file; it is empty for builtin modules.
type Resolution struct {
	Name   string
	Origin string
}

// Resolver locates qualified module names through an explicit context of
// search roots. Nothing process-wide is ever mutated; the per-attempt
// extra root is a parameter, so resolving the same name twice always
// yields the same answer.
type Resolver struct {
	env    *Environment
	roots  []string // project search roots, tried before the environment
	logger *logger.Logger
}

// New creates a Resolver over the given environment and project roots.
func New(env *Environment, roots []string, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Resolver{env: env, roots: roots, logger: log}
}

// Resolve attempts to locate name. extraRoot, when non-empty, is searched
// first and only for this attempt — it plays the role the importing file's
// package parent played on the module search path, scoped instead of
// global. The boolean result distinguishes resolved from unresolvable;
// unresolvable is an expected outcome, not an error.
func (r *Resolver) Resolve(name, extraRoot string) (Resolution, bool) {
	if r.env.IsBuiltin(name) {
		return Resolution{Name: name}, true
	}

	var roots []string
	if extraRoot != "" {
		roots = append(roots, extraRoot)
	}
	roots = append(roots, r.roots...)
	roots = append(roots, r.env.StdlibRoots...)
	roots = append(roots, r.env.PackageRoots...)

	for _, root := range roots {
		if origin, ok := locate(root, name); ok {
			return Resolution{Name: name, Origin: origin}, true
		}
	}

	r.logger.Debugw("module not found", "module", name)
	return Resolution{}, false
}

// locate walks the dotted name down from root, directory by directory,
// and returns the origin file of the final segment.
func locate(root, name string) (string, bool) {
	parts := strings.Split(name, ".")
	dir := root

	for _, part := range parts[:len(parts)-1] {
		next := filepath.Join(dir, part)
		if !isDir(next) {
			return "", false
		}
		dir = next
	}

	last := parts[len(parts)-1]

	if origin := filepath.Join(dir, last+".py"); isFile(origin) {
		return origin, true
	}
	if pkg := filepath.Join(dir, last); isDir(pkg) {
		if origin := filepath.Join(pkg, pymodule.PackageMarker); isFile(origin) {
			return origin, true
		}
	}
	// Compiled extension modules carry platform tags in their file names.
	if matches, err := filepath.Glob(filepath.Join(dir, last+".*.so")); err == nil && len(matches) > 0 {
		return matches[0], true
	}
	if origin := filepath.Join(dir, last+".so"); isFile(origin) {
		return origin, true
	}

	return "", false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
