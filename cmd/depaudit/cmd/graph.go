package cmd

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/depaudit/internal/audit"
	"github.com/dbsmedya/depaudit/internal/graph"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Show the project-local import graph",
	Long: `Graph extracts every project-local import and displays the resulting
module dependency graph.

The graph shows:
  - Visual import tree rooted at modules nothing imports
  - Load order (dependencies first)
  - Import cycles, when present

Example:
  depaudit graph --config depaudit.yaml --root ./myproject`,
	RunE: runGraph,
}

func init() {
	rootCmd.AddCommand(graphCmd)
}

func runGraph(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	runner := audit.NewRunner(cfg, log)
	g, err := runner.BuildGraph()
	if err != nil {
		return fmt.Errorf("failed to build import graph: %w", err)
	}

	printHeader("Import Graph: %s", cfg.Project.Root)

	fmt.Fprintln(outputWriter)
	printSection("Overview")
	fmt.Fprintf(outputWriter, "  Modules: %d\n", g.NodeCount())
	fmt.Fprintf(outputWriter, "  Imports: %d\n", g.EdgeCount())

	fmt.Fprintln(outputWriter)
	printSection("Import Tree")
	printImportTree(g)

	fmt.Fprintln(outputWriter)
	printSection("Load Order (dependencies first)")
	order, err := g.DependencyOrder()
	if err != nil {
		printCycle(g)
		return fmt.Errorf("failed to order modules: %w", err)
	}
	for i, name := range order {
		fmt.Fprintf(outputWriter, "  [%d] %s\n", i+1, name)
	}

	return nil
}

// printImportTree renders each root module's import subtree. Modules that
// have already been expanded elsewhere are marked instead of repeated, so
// shared subtrees and cycles stay readable.
func printImportTree(g *graph.Graph) {
	roots := g.RootNodes()
	if len(roots) == 0 {
		// Every module is imported by something, so the graph is all
		// cycles; expand from each node instead.
		roots = g.AllNodes()
	}

	expanded := make(map[string]bool)
	for _, root := range roots {
		if expanded[root] {
			continue
		}
		fmt.Fprint(outputWriter, "  ")
		printSubtree(g, root, "  ", expanded, make(map[string]bool))
	}
}

// printSubtree prints the node's label after the caller's connector, then
// recurses into its imports with the extended prefix.
func printSubtree(g *graph.Graph, name, prefix string, expanded, onPath map[string]bool) {
	label := name
	switch {
	case onPath[name]:
		label += " (cycle)"
	case expanded[name] && g.OutDegree(name) > 0:
		label += " ..."
	}
	fmt.Fprintf(outputWriter, "%s\n", label)

	if onPath[name] || expanded[name] {
		return
	}
	expanded[name] = true
	onPath[name] = true
	defer delete(onPath, name)

	imports := g.GetImports(name)
	for i, imported := range imports {
		connector, childIndent := "├─ ", "│  "
		if i == len(imports)-1 {
			connector, childIndent = "└─ ", "   "
		}
		fmt.Fprintf(outputWriter, "%s%s", prefix, connector)
		printSubtree(g, imported, prefix+childIndent, expanded, onPath)
	}
}

// printCycle reports cycle details when ordering fails.
func printCycle(g *graph.Graph) {
	info := g.DetectIncompleteProcessing()
	if info == nil {
		return
	}
	fmt.Fprintf(outputWriter, "  cycle: %d of %d modules could not be ordered\n",
		len(info.UnprocessedNodes), info.TotalNodes)
	if len(info.CyclePath) > 0 {
		fmt.Fprintf(outputWriter, "  path:  %s\n", strings.Join(info.CyclePath, " -> "))
	}
}

// printHeader prints a formatted header
func printHeader(format string, args ...interface{}) {
	title := fmt.Sprintf(format, args...)
	width := len(title) + 4
	fmt.Fprintln(outputWriter, strings.Repeat("=", width))
	fmt.Fprintf(outputWriter, "  %s\n", title)
	fmt.Fprintln(outputWriter, strings.Repeat("=", width))
}

// printSection prints a section header
func printSection(title string) {
	fmt.Fprintf(outputWriter, "[%s]\n", title)
	fmt.Fprintln(outputWriter, strings.Repeat("-", len(title)+2))
}
