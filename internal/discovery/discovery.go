// Package discovery enumerates the source files that form the package
// corpus and the test corpus of an audited project.
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dbsmedya/depaudit/internal/config"
	"github.com/dbsmedya/depaudit/internal/logger"
	"github.com/dbsmedya/depaudit/internal/pymodule"
	"github.com/dbsmedya/depaudit/internal/setupfile"
)

// Discoverer resolves the package and test file sets for a project tree.
type Discoverer struct {
	root   string // absolute project root
	cfg    *config.Config
	setup  *setupfile.Reader
	logger *logger.Logger
}

// New creates a Discoverer for the configured project.
// The setup reader supplies standalone module declarations when the
// configuration does not list them explicitly.
func New(cfg *config.Config, setup *setupfile.Reader, log *logger.Logger) (*Discoverer, error) {
	root, err := filepath.Abs(cfg.Project.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("project root is not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", root)
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &Discoverer{root: root, cfg: cfg, setup: setup, logger: log}, nil
}

// Root returns the absolute project root.
func (d *Discoverer) Root() string {
	return d.root
}

// PackagePaths returns every source file belonging to the package proper:
// the declared (or discovered) package directories expanded to their source
// files, plus the declared standalone module files.
func (d *Discoverer) PackagePaths() ([]string, error) {
	packages := d.cfg.Project.Packages
	if len(packages) == 0 {
		found, err := FindPackages(d.root)
		if err != nil {
			return nil, fmt.Errorf("failed to discover packages: %w", err)
		}
		packages = found
	}

	modules := d.cfg.Project.Modules
	if len(modules) == 0 && d.setup != nil {
		modules = d.setup.Names(d.cfg.Sections.Modules)
	}

	var paths []string
	seen := make(map[string]bool)

	for _, pkg := range packages {
		dir := filepath.Join(d.root, filepath.FromSlash(strings.ReplaceAll(pkg, ".", "/")))
		files, err := sourceFilesUnder(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package %s: %w", pkg, err)
		}
		for _, f := range files {
			if !seen[f] {
				seen[f] = true
				paths = append(paths, f)
			}
		}
	}

	for _, mod := range modules {
		path := filepath.Join(d.root, mod)
		if !strings.HasSuffix(path, ".py") {
			path += ".py"
		}
		if _, err := os.Stat(path); err != nil {
			d.logger.Warnw("declared module file not found", "module", mod, "path", path)
			continue
		}
		if !seen[path] {
			seen[path] = true
			paths = append(paths, path)
		}
	}

	d.logger.Debugw("package corpus discovered", "files", len(paths))
	return paths, nil
}

// TestPaths returns every source file under the project root that is not
// part of the package corpus. The full-tree scan minus the package set is
// what defines the test corpus.
func (d *Discoverer) TestPaths(packagePaths []string) ([]string, error) {
	inPackage := make(map[string]bool, len(packagePaths))
	for _, p := range packagePaths {
		inPackage[p] = true
	}

	all, err := sourceFilesUnder(d.root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan project tree: %w", err)
	}

	var paths []string
	for _, p := range all {
		if !inPackage[p] {
			paths = append(paths, p)
		}
	}

	d.logger.Debugw("test corpus discovered", "files", len(paths))
	return paths, nil
}

// FindPackages returns the dotted names of every package directory under
// root: a directory carrying the package marker whose ancestors up to root
// all carry it too.
func FindPackages(root string) ([]string, error) {
	var packages []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() || path == root {
			return nil
		}
		if strings.HasPrefix(entry.Name(), ".") {
			return filepath.SkipDir
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		// Every level from root down must be a package for the dotted
		// name to be importable.
		segments := strings.Split(rel, string(filepath.Separator))
		prefix := root
		for _, seg := range segments {
			prefix = filepath.Join(prefix, seg)
			if _, statErr := os.Stat(filepath.Join(prefix, pymodule.PackageMarker)); statErr != nil {
				if prefix == path {
					return nil
				}
				return filepath.SkipDir
			}
		}

		packages = append(packages, strings.ReplaceAll(rel, string(filepath.Separator), "."))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return packages, nil
}

// sourceFilesUnder returns all Python source files under dir in lexical
// walk order. Hidden directories are skipped.
func sourceFilesUnder(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if path != dir && strings.HasPrefix(entry.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasSuffix(entry.Name(), ".py") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	return files, nil
}
