package graph

import (
	"strings"

	"github.com/dbsmedya/depaudit/internal/pymodule"
	"github.com/dbsmedya/depaudit/internal/pyparse"
)

// Builder constructs the project import graph from the module index and
// per-file import records.
type Builder struct {
	index *pymodule.Index
	g     *Graph
}

// NewBuilder creates a builder with one node per indexed project module.
func NewBuilder(index *pymodule.Index) *Builder {
	b := &Builder{index: index, g: New()}
	for _, name := range index.Modules() {
		path, _ := index.Path(name)
		b.g.AddNode(name, path)
	}
	return b
}

// AddRecords wires import edges for one file's qualified import records.
// Records naming modules outside the project are ignored; the graph covers
// project-local imports only.
func (b *Builder) AddRecords(records []pyparse.Record) {
	for _, rec := range records {
		from := pymodule.ToModule(rec.Path)
		if !b.g.HasNode(from) {
			continue // scripts and foreign files are not graph nodes
		}
		to, ok := b.localTarget(rec.Module)
		if !ok || to == from {
			continue
		}
		b.g.AddEdge(from, to, &EdgeMeta{Path: rec.Path, Line: rec.Line})
	}
}

// localTarget maps an imported qualified name onto the project module
// defining it, trimming trailing segments until a known module matches.
func (b *Builder) localTarget(name string) (string, bool) {
	cur := name
	for {
		if b.index.Has(cur) {
			return cur, true
		}
		i := strings.LastIndex(cur, ".")
		if i < 0 {
			return "", false
		}
		cur = cur[:i]
	}
}

// Graph returns the built import graph.
func (b *Builder) Graph() *Graph {
	return b.g
}
