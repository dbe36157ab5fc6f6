// Package pymodule maps filesystem paths to qualified Python module names
// and maintains an index of every module importable from the project tree.
package pymodule

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PackageMarker is the sentinel file whose presence declares a directory
// a module-namespace root.
const PackageMarker = "__init__.py"

// ErrRootIsPackage is returned when the topmost directory of a path carries
// the package marker, leaving no directory that can serve as package parent.
var ErrRootIsPackage = errors.New("cannot determine package parent: the root directory carries the package marker")

// PackageParentPath returns the directory immediately above the topmost
// package root on path. A file outside any package yields its own directory.
func PackageParentPath(path string) (string, error) {
	parts := splitPath(path)
	for i := range parts {
		prefix := joinParts(parts[:i+1])
		if hasMarker(prefix) {
			if i == 0 {
				return "", ErrRootIsPackage
			}
			return filepath.Dir(prefix), nil
		}
	}
	return filepath.Dir(path), nil
}

// ToModule converts a source file or package directory path into its
// dot-separated qualified module name, rooted at the topmost ancestor that
// carries the package marker. A path outside any package maps to its
// final component alone.
func ToModule(path string) string {
	parts := splitPath(path)
	rootIndex := len(parts) - 1
	for i := range parts {
		prefix := joinParts(parts[:i+1])
		if hasMarker(prefix) {
			rootIndex = i
			break
		}
	}

	moduleParts := append([]string{}, parts[rootIndex:]...)
	if moduleParts[len(moduleParts)-1] == PackageMarker {
		moduleParts = moduleParts[:len(moduleParts)-1]
	}
	if last := moduleParts[len(moduleParts)-1]; strings.HasSuffix(last, ".py") {
		moduleParts[len(moduleParts)-1] = strings.TrimSuffix(last, ".py")
	}
	return strings.Join(moduleParts, ".")
}

// RebuildSourceModule resolves a relative import into a fully qualified
// module name. level counts ancestor hops from the importing file: level 1
// is the file's own package, level 2 its parent, and so on. moduleName is
// the optional dotted name following the dots; with level 0 it is required
// (a bare "from import" is invalid syntax).
func RebuildSourceModule(moduleName string, level int, path string) (string, error) {
	if level == 0 {
		if moduleName == "" {
			return "", fmt.Errorf("relative import in %s has neither level nor module name", path)
		}
		return moduleName, nil
	}

	parent := path
	for i := 0; i < level; i++ {
		parent = filepath.Dir(parent)
	}
	base := ToModule(parent)
	if moduleName == "" {
		return base, nil
	}
	return base + "." + moduleName, nil
}

// splitPath breaks a cleaned path into components, keeping the root
// separator as the first component for absolute paths.
func splitPath(path string) []string {
	clean := filepath.Clean(path)
	sep := string(filepath.Separator)

	var parts []string
	rest := clean
	if strings.HasPrefix(rest, sep) {
		parts = append(parts, sep)
		rest = rest[1:]
	}
	for _, p := range strings.Split(rest, sep) {
		if p != "" && p != "." {
			parts = append(parts, p)
		}
	}
	return parts
}

// joinParts reassembles components produced by splitPath.
func joinParts(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return filepath.Join(parts...)
}

// hasMarker reports whether dir contains the package marker file.
func hasMarker(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, PackageMarker))
	return err == nil && !info.IsDir()
}
