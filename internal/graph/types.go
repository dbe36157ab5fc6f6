// Package graph provides the project-local import graph and its ordering
// and cycle-detection algorithms.
package graph

// Node represents one project module in the import graph.
type Node struct {
	Name string // qualified module name
	Path string // defining source file
}

// Edge represents an importer -> imported relationship between modules.
type Edge struct {
	From string // importing module
	To   string // imported module
}

// EdgeMeta records where an import edge was first seen.
type EdgeMeta struct {
	Path string // source file containing the import statement
	Line int    // statement line
}

// Graph is the directed import graph over project modules.
type Graph struct {
	Nodes        map[string]*Node    // module name -> node
	Imports      map[string][]string // module name -> modules it imports (outgoing edges)
	ImportedBy   map[string][]string // module name -> modules importing it (incoming edges)
	order        []string            // insertion order of nodes, for deterministic traversal
	edgeMetadata map[Edge]*EdgeMeta
}

// New creates an empty import graph.
func New() *Graph {
	return &Graph{
		Nodes:        make(map[string]*Node),
		Imports:      make(map[string][]string),
		ImportedBy:   make(map[string][]string),
		edgeMetadata: make(map[Edge]*EdgeMeta),
	}
}

// AddNode adds a module node to the graph. Re-adding a known module keeps
// the first registration.
func (g *Graph) AddNode(name, path string) {
	if _, exists := g.Nodes[name]; exists {
		return
	}
	g.Nodes[name] = &Node{Name: name, Path: path}
	g.order = append(g.order, name)
}

// AddEdge adds an importer -> imported relationship, maintaining the
// reverse mapping for efficient importer lookups. Duplicate edges collapse;
// the first occurrence's metadata wins.
func (g *Graph) AddEdge(from, to string, meta *EdgeMeta) {
	edge := Edge{From: from, To: to}
	if _, exists := g.edgeMetadata[edge]; exists {
		return
	}

	g.Imports[from] = append(g.Imports[from], to)
	g.ImportedBy[to] = append(g.ImportedBy[to], from)
	if meta == nil {
		meta = &EdgeMeta{}
	}
	g.edgeMetadata[edge] = meta
}

// GetImports returns the modules that name imports.
func (g *Graph) GetImports(name string) []string {
	return g.Imports[name]
}

// GetImporters returns the modules importing name.
func (g *Graph) GetImporters(name string) []string {
	return g.ImportedBy[name]
}

// GetNode returns the node for a module name, or nil if not present.
func (g *Graph) GetNode(name string) *Node {
	return g.Nodes[name]
}

// GetEdgeMeta returns the first import site for an edge, or nil.
func (g *Graph) GetEdgeMeta(from, to string) *EdgeMeta {
	return g.edgeMetadata[Edge{From: from, To: to}]
}

// HasNode returns true if the graph contains the module.
func (g *Graph) HasNode(name string) bool {
	_, exists := g.Nodes[name]
	return exists
}

// NodeCount returns the number of modules in the graph.
func (g *Graph) NodeCount() int {
	return len(g.Nodes)
}

// EdgeCount returns the number of import edges in the graph.
func (g *Graph) EdgeCount() int {
	return len(g.edgeMetadata)
}

// AllNodes returns all module names in insertion order.
func (g *Graph) AllNodes() []string {
	return append([]string(nil), g.order...)
}

// AllEdges returns all import edges, grouped by importer in insertion order.
func (g *Graph) AllEdges() []Edge {
	var edges []Edge
	for _, from := range g.order {
		for _, to := range g.Imports[from] {
			edges = append(edges, Edge{From: from, To: to})
		}
	}
	return edges
}

// LeafNodes returns modules that import no other project module.
func (g *Graph) LeafNodes() []string {
	var leaves []string
	for _, name := range g.order {
		if len(g.Imports[name]) == 0 {
			leaves = append(leaves, name)
		}
	}
	return leaves
}

// RootNodes returns modules no other project module imports.
func (g *Graph) RootNodes() []string {
	var roots []string
	for _, name := range g.order {
		if len(g.ImportedBy[name]) == 0 {
			roots = append(roots, name)
		}
	}
	return roots
}

// InDegree returns the number of modules importing name.
func (g *Graph) InDegree(name string) int {
	return len(g.ImportedBy[name])
}

// OutDegree returns the number of modules name imports.
func (g *Graph) OutDegree(name string) int {
	return len(g.Imports[name])
}
