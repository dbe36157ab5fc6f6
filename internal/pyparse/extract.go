package pyparse

import (
	"github.com/dbsmedya/depaudit/internal/pymodule"
)

// Prober answers whether a qualified name is a known module. It replaces
// the trial load that disambiguates importing a submodule from importing a
// name out of a module.
type Prober interface {
	Has(name string) bool
}

// Record is one fully qualified import: the importing file, the statement
// line, and the resolved module name. Relative imports are rewritten
// eagerly; no record carries an unresolved relative reference.
type Record struct {
	Path   string
	Line   int
	Module string
}

// ExtractRecords parses path and rewrites its imports into qualified module
// records.
func ExtractRecords(path string, prober Prober) ([]Record, error) {
	f, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return f.Records(prober)
}

// Records rewrites the parsed statements into qualified module records.
// Plain imports are recorded as stated. Relative from-imports are first
// rebuilt into the enclosing package's qualified name; then each imported
// name is probed as base.name — a hit records the submodule, a miss means
// the name lives inside base and base itself is recorded once. Absolute
// from-imports name symbols of already-absolute modules and produce no
// records.
func (f *File) Records(prober Prober) ([]Record, error) {
	var records []Record

	for _, imp := range f.Imports {
		records = append(records, Record{Path: f.Path, Line: imp.Line, Module: imp.Module})
	}

	for _, fr := range f.Froms {
		if fr.Level == 0 {
			continue
		}

		base, err := pymodule.RebuildSourceModule(fr.Module, fr.Level, f.Path)
		if err != nil {
			return nil, err
		}

		importSource := false
		for _, name := range fr.Names {
			if name == "*" {
				importSource = true
				continue
			}
			full := base + "." + name
			if prober.Has(full) {
				records = append(records, Record{Path: f.Path, Line: fr.Line, Module: full})
			} else {
				importSource = true
			}
		}
		if importSource {
			records = append(records, Record{Path: f.Path, Line: fr.Line, Module: base})
		}
	}

	return records, nil
}
