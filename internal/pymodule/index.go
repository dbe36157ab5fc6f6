package pymodule

import (
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// Index is the precomputed set of qualified module names importable from
// the project tree. It answers the submodule-vs-symbol question for
// relative imports without loading any code.
type Index struct {
	modules *orderedmap.OrderedMap[string, string] // qualified name -> defining path
}

// NewIndex builds an Index from the given project source paths. Paths whose
// qualified name contains a dash are skipped: they are scripts, not
// importable modules.
func NewIndex(paths []string) *Index {
	idx := &Index{modules: orderedmap.NewOrderedMap[string, string]()}
	for _, path := range paths {
		name := ToModule(path)
		if strings.Contains(name, "-") {
			continue
		}
		if _, exists := idx.modules.Get(name); !exists {
			idx.modules.Set(name, path)
		}
	}
	return idx
}

// Has reports whether the exact qualified name is a known module.
func (i *Index) Has(name string) bool {
	_, ok := i.modules.Get(name)
	return ok
}

// HasPrefix reports whether any known module lives under the given name.
func (i *Index) HasPrefix(name string) bool {
	prefix := name + "."
	for el := i.modules.Front(); el != nil; el = el.Next() {
		if strings.HasPrefix(el.Key, prefix) {
			return true
		}
	}
	return false
}

// Path returns the defining source path for a known module name.
func (i *Index) Path(name string) (string, bool) {
	return i.modules.Get(name)
}

// Modules returns all known qualified names in insertion order.
func (i *Index) Modules() []string {
	names := make([]string, 0, i.modules.Len())
	for el := i.modules.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

// Len returns the number of indexed modules.
func (i *Index) Len() int {
	return i.modules.Len()
}

// ModuleNames maps each path to its qualified module name, preserving order
// and dropping duplicates and dash-named scripts. This is the corpus module
// list the cross-reference step checks for unused local modules.
func ModuleNames(paths []string) []string {
	seen := orderedmap.NewOrderedMap[string, bool]()
	for _, path := range paths {
		name := ToModule(path)
		if strings.Contains(name, "-") {
			continue
		}
		seen.Set(name, true)
	}
	names := make([]string, 0, seen.Len())
	for el := seen.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}
