package crossref

import (
	"reflect"
	"testing"

	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/depaudit/internal/pyparse"
	"github.com/dbsmedya/depaudit/internal/setupfile"
)

func recordMap(entries ...pyparse.Record) *orderedmap.OrderedMap[string, pyparse.Record] {
	m := orderedmap.NewOrderedMap[string, pyparse.Record]()
	for _, rec := range entries {
		m.Set(rec.Module, rec)
	}
	return m
}

func TestCompute_Clean(t *testing.T) {
	in := Input{
		External: recordMap(
			pyparse.Record{Path: "widgets/core.py", Line: 3, Module: "requests"},
		),
		Project: recordMap(
			pyparse.Record{Path: "widgets/core.py", Line: 4, Module: "widgets.helpers"},
		),
		Declared: []setupfile.Declaration{
			{Line: 10, Name: "requests"},
		},
		LocalModules:    []string{"widgets", "widgets.core", "widgets.helpers"},
		AllowUnimported: []string{"widgets", "widgets.core"},
	}

	sets := Compute(in)
	if !sets.Empty() {
		t.Errorf("expected clean result, got %+v", sets)
	}
}

func TestCompute_Missing(t *testing.T) {
	rec := pyparse.Record{Path: "widgets/core.py", Line: 7, Module: "gone"}
	sets := Compute(Input{Missing: recordMap(rec)})

	if len(sets.Missing) != 1 || sets.Missing[0] != rec {
		t.Errorf("Missing = %v, want [%v]", sets.Missing, rec)
	}
	if sets.Empty() {
		t.Error("result with missing modules must not be empty")
	}
}

func TestCompute_MissingDeclaration(t *testing.T) {
	rec := pyparse.Record{Path: "widgets/core.py", Line: 3, Module: "requests"}
	sets := Compute(Input{
		External:       recordMap(rec),
		AllowToolchain: []string{"setuptools"},
	})

	if len(sets.MissingDeclaration) != 1 || sets.MissingDeclaration[0] != rec {
		t.Errorf("MissingDeclaration = %v, want [%v]", sets.MissingDeclaration, rec)
	}
}

func TestCompute_ToolchainAllowance(t *testing.T) {
	sets := Compute(Input{
		External: recordMap(
			pyparse.Record{Path: "setup.py", Line: 1, Module: "setuptools"},
		),
		AllowToolchain: []string{"setuptools"},
	})

	if len(sets.MissingDeclaration) != 0 {
		t.Errorf("toolchain module should need no declaration, got %v", sets.MissingDeclaration)
	}
}

func TestCompute_UnusedDeclaration(t *testing.T) {
	decl := setupfile.Declaration{Line: 12, Name: "leftover"}
	sets := Compute(Input{
		External: recordMap(
			pyparse.Record{Path: "widgets/core.py", Line: 3, Module: "requests"},
		),
		Declared: []setupfile.Declaration{
			{Line: 11, Name: "requests"},
			decl,
		},
	})

	if len(sets.UnusedDeclaration) != 1 || sets.UnusedDeclaration[0] != decl {
		t.Errorf("UnusedDeclaration = %v, want [%v]", sets.UnusedDeclaration, decl)
	}
}

func TestCompute_UnusedLocal(t *testing.T) {
	sets := Compute(Input{
		Project: recordMap(
			pyparse.Record{Path: "widgets/core.py", Line: 4, Module: "widgets.helpers"},
		),
		LocalModules:    []string{"widgets", "widgets.core", "widgets.helpers", "widgets.orphan"},
		AllowUnimported: []string{"widgets.core"},
	})

	// widgets is used as an ancestor of widgets.helpers; orphan is not.
	want := []string{"widgets.orphan"}
	if !reflect.DeepEqual(sets.UnusedLocal, want) {
		t.Errorf("UnusedLocal = %v, want %v", sets.UnusedLocal, want)
	}
}

func TestCompute_UnusedLocalAllowance(t *testing.T) {
	sets := Compute(Input{
		LocalModules:    []string{"setup", "test", "example_module"},
		AllowUnimported: []string{"setup", "test", "example_module"},
	})

	if len(sets.UnusedLocal) != 0 {
		t.Errorf("allowed local modules should not be reported, got %v", sets.UnusedLocal)
	}
}

func TestCompute_DisjointSets(t *testing.T) {
	// A declared and used external module lands in neither declaration
	// diagnostic.
	sets := Compute(Input{
		External: recordMap(
			pyparse.Record{Path: "widgets/core.py", Line: 3, Module: "requests"},
		),
		Declared: []setupfile.Declaration{{Line: 11, Name: "requests"}},
	})

	if len(sets.MissingDeclaration) != 0 || len(sets.UnusedDeclaration) != 0 {
		t.Errorf("declared-and-used module misclassified: %+v", sets)
	}
}
