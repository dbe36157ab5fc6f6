// Package crossref reconciles used imports, declared dependencies, and the
// project's own module list into diagnostic sets.
package crossref

import (
	"strings"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/depaudit/internal/pyparse"
	"github.com/dbsmedya/depaudit/internal/setupfile"
)

// Sets holds the four diagnostic collections for one corpus. Each is
// disjoint from the others; a qualified name lands in at most one.
type Sets struct {
	// Missing are imports the resolver could not load at all.
	Missing []pyparse.Record
	// MissingDeclaration are external imports absent from the declared
	// dependency section.
	MissingDeclaration []pyparse.Record
	// UnusedDeclaration are declared external dependencies no source file
	// imports.
	UnusedDeclaration []setupfile.Declaration
	// UnusedLocal are the corpus's own modules nothing else imports.
	UnusedLocal []string
}

// Empty reports whether no diagnostics were found.
func (s Sets) Empty() bool {
	return len(s.Missing) == 0 &&
		len(s.MissingDeclaration) == 0 &&
		len(s.UnusedDeclaration) == 0 &&
		len(s.UnusedLocal) == 0
}

// Input carries the three independently sourced sets being reconciled,
// plus the allow-lists that exempt fixed names.
type Input struct {
	// External maps used external module names to their first import site.
	External *orderedmap.OrderedMap[string, pyparse.Record]
	// Project maps used project-local module names to their first import site.
	Project *orderedmap.OrderedMap[string, pyparse.Record]
	// Missing maps unresolvable module names to their first import site.
	Missing *orderedmap.OrderedMap[string, pyparse.Record]
	// Declared is the corpus's declaration section.
	Declared []setupfile.Declaration
	// LocalModules is the corpus's own module list.
	LocalModules []string
	// AllowToolchain are external names implicitly provided by the
	// packaging toolchain; they need no declaration.
	AllowToolchain []string
	// AllowUnimported are local modules that are structurally required
	// but never imported.
	AllowUnimported []string
}

// Compute reconciles the input into the four diagnostic sets.
func Compute(in Input) Sets {
	var sets Sets

	if in.Missing != nil {
		for el := in.Missing.Front(); el != nil; el = el.Next() {
			sets.Missing = append(sets.Missing, el.Value)
		}
	}

	sets.MissingDeclaration = missingDeclarations(in)
	sets.UnusedDeclaration = unusedDeclarations(in)
	sets.UnusedLocal = unusedLocalModules(in)

	return sets
}

// missingDeclarations returns used external modules that are neither
// declared nor provided by the toolchain itself.
func missingDeclarations(in Input) []pyparse.Record {
	declared := make(map[string]bool, len(in.Declared))
	for _, d := range in.Declared {
		declared[d.Name] = true
	}
	allowed := toSet(in.AllowToolchain)

	var missing []pyparse.Record
	if in.External == nil {
		return missing
	}
	for el := in.External.Front(); el != nil; el = el.Next() {
		if declared[el.Key] || allowed[el.Key] {
			continue
		}
		missing = append(missing, el.Value)
	}
	return missing
}

// unusedDeclarations returns declared external dependencies that no source
// file imports.
func unusedDeclarations(in Input) []setupfile.Declaration {
	var unused []setupfile.Declaration
	for _, d := range in.Declared {
		if in.External != nil {
			if _, used := in.External.Get(d.Name); used {
				continue
			}
		}
		unused = append(unused, d)
	}
	return unused
}

// unusedLocalModules returns corpus modules that nothing imports, either
// directly or as an ancestor package of an imported name.
func unusedLocalModules(in Input) []string {
	allowed := toSet(in.AllowUnimported)

	var unused []string
	for _, mod := range in.LocalModules {
		if allowed[mod] {
			continue
		}
		if in.Project != nil && usedLocally(in.Project, mod) {
			continue
		}
		unused = append(unused, mod)
	}
	return unused
}

// usedLocally reports whether mod or any of its submodules was imported.
func usedLocally(project *orderedmap.OrderedMap[string, pyparse.Record], mod string) bool {
	if _, ok := project.Get(mod); ok {
		return true
	}
	prefix := mod + "."
	for el := project.Front(); el != nil; el = el.Next() {
		if strings.HasPrefix(el.Key, prefix) {
			return true
		}
	}
	return false
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
