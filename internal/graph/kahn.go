package graph

import (
	"container/list"
	"errors"
	"fmt"
	"strings"
)

// ProcessingQueue wraps a list-based queue for Kahn's algorithm processing.
// It holds modules that are ready to be processed (have in-degree of 0).
type ProcessingQueue struct {
	queue *list.List
}

// NewProcessingQueue creates a new empty processing queue.
func NewProcessingQueue() *ProcessingQueue {
	return &ProcessingQueue{
		queue: list.New(),
	}
}

// InitializeQueue creates a processing queue populated with all modules
// that have in-degree of 0 (no importers). Insertion order follows the
// graph's node order so repeated runs sort identically.
func (g *Graph) InitializeQueue(inDegree map[string]int) *ProcessingQueue {
	pq := NewProcessingQueue()

	for _, name := range g.order {
		if inDegree[name] == 0 {
			pq.Enqueue(name)
		}
	}

	return pq
}

// Enqueue adds a module to the back of the queue.
func (pq *ProcessingQueue) Enqueue(node string) {
	pq.queue.PushBack(node)
}

// Dequeue removes and returns the module at the front of the queue.
// Returns empty string and false if queue is empty.
func (pq *ProcessingQueue) Dequeue() (string, bool) {
	if pq.queue.Len() == 0 {
		return "", false
	}
	elem := pq.queue.Front()
	pq.queue.Remove(elem)
	return elem.Value.(string), true
}

// Len returns the number of modules in the queue.
func (pq *ProcessingQueue) Len() int {
	return pq.queue.Len()
}

// IsEmpty returns true if the queue has no modules.
func (pq *ProcessingQueue) IsEmpty() bool {
	return pq.queue.Len() == 0
}

// CalculateInDegrees computes the number of importers for each module in
// the graph. This is the first step of Kahn's algorithm for topological
// sorting.
func (g *Graph) CalculateInDegrees() map[string]int {
	inDegree := make(map[string]int)

	for name := range g.Nodes {
		inDegree[name] = 0
	}

	for _, imported := range g.Imports {
		for _, to := range imported {
			inDegree[to]++
		}
	}

	return inDegree
}

// ErrCycleDetected is returned when the import graph contains a cycle,
// making topological sorting impossible.
var ErrCycleDetected = errors.New("cycle detected in import graph")

// CycleInfo contains information about incomplete processing due to cycles.
type CycleInfo struct {
	TotalNodes        int      // Total number of modules in the graph
	ProcessedNodes    int      // Number of modules successfully processed
	UnprocessedNodes  []string // Modules that couldn't be processed (part of or blocked by cycle)
	CycleParticipants []string // Modules that are actually part of a cycle (subset of UnprocessedNodes)
	CyclePath         []string // Ordered path showing the cycle (e.g., [A, B, C, A])
}

// CycleError represents a cycle detection error with detailed information
// about which modules are involved and which are blocked by the cycle.
type CycleError struct {
	Info *CycleInfo
}

// Error implements the error interface with a descriptive message that
// includes the modules in the cycle and any modules blocked by it.
func (e *CycleError) Error() string {
	msg := fmt.Sprintf("cycle detected in import graph: %d of %d modules could not be ordered",
		len(e.Info.UnprocessedNodes), e.Info.TotalNodes)

	if len(e.Info.CyclePath) > 0 {
		msg += fmt.Sprintf("\nCycle path: %s", strings.Join(e.Info.CyclePath, " -> "))
	}

	if len(e.Info.CycleParticipants) > 0 {
		msg += fmt.Sprintf("\nModules in cycle: %s", strings.Join(e.Info.CycleParticipants, ", "))
	}

	if len(e.Info.UnprocessedNodes) > len(e.Info.CycleParticipants) {
		participantSet := make(map[string]bool)
		for _, p := range e.Info.CycleParticipants {
			participantSet[p] = true
		}

		var blocked []string
		for _, u := range e.Info.UnprocessedNodes {
			if !participantSet[u] {
				blocked = append(blocked, u)
			}
		}

		if len(blocked) > 0 {
			msg += fmt.Sprintf("\nModules blocked by cycle: %s", strings.Join(blocked, ", "))
		}
	}

	return msg
}

// Unwrap lets callers match the sentinel with errors.Is.
func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}

// DetectIncompleteProcessing runs Kahn's algorithm and returns information
// about any modules that couldn't be ordered. If all modules are processed,
// returns nil (no cycle).
func (g *Graph) DetectIncompleteProcessing() *CycleInfo {
	inDegree := g.CalculateInDegrees()
	queue := g.InitializeQueue(inDegree)

	processed := make(map[string]bool)

	for !queue.IsEmpty() {
		node, _ := queue.Dequeue()
		processed[node] = true

		for _, imported := range g.GetImports(node) {
			inDegree[imported]--
			if inDegree[imported] == 0 {
				queue.Enqueue(imported)
			}
		}
	}

	if len(processed) == len(g.Nodes) {
		return nil // No cycle detected
	}

	var unprocessed []string
	for _, name := range g.order {
		if !processed[name] {
			unprocessed = append(unprocessed, name)
		}
	}

	unprocessedSet := make(map[string]bool)
	for _, node := range unprocessed {
		unprocessedSet[node] = true
	}

	var cycleParticipants []string
	for _, node := range unprocessed {
		if g.canReachSelf(node, unprocessedSet) {
			cycleParticipants = append(cycleParticipants, node)
		}
	}

	var cyclePath []string
	if len(cycleParticipants) > 0 {
		cyclePath = g.FindCyclePath(cycleParticipants[0], unprocessedSet)
	}

	return &CycleInfo{
		TotalNodes:        len(g.Nodes),
		ProcessedNodes:    len(processed),
		UnprocessedNodes:  unprocessed,
		CycleParticipants: cycleParticipants,
		CyclePath:         cyclePath,
	}
}

// HasCycle returns true if the import graph contains a cycle.
func (g *Graph) HasCycle() bool {
	return g.DetectIncompleteProcessing() != nil
}

// FindCyclePath finds the actual path that forms a cycle starting from the
// given module. Returns the ordered list of modules forming the cycle
// (including the start module at both ends).
func (g *Graph) FindCyclePath(start string, allowedNodes map[string]bool) []string {
	visited := make(map[string]bool)
	path := []string{start}

	if g.dfsFindPath(start, start, visited, allowedNodes, &path) {
		return path
	}

	return nil
}

// dfsFindPath performs DFS to find a path back to the target module.
func (g *Graph) dfsFindPath(current, target string, visited, allowedNodes map[string]bool, path *[]string) bool {
	for _, next := range g.GetImports(current) {
		if !allowedNodes[next] {
			continue
		}

		if next == target {
			*path = append(*path, target)
			return true
		}

		if visited[next] {
			continue
		}

		visited[next] = true
		*path = append(*path, next)

		if g.dfsFindPath(next, target, visited, allowedNodes, path) {
			return true
		}

		// Backtrack
		*path = (*path)[:len(*path)-1]
	}

	return false
}

// canReachSelf checks if a module can reach itself through the subgraph
// defined by the allowedNodes set.
func (g *Graph) canReachSelf(start string, allowedNodes map[string]bool) bool {
	visited := make(map[string]bool)
	return g.dfsCanReach(start, start, visited, allowedNodes, true)
}

// dfsCanReach performs DFS to check if we can reach the target module.
// isStart is true only for the initial call to avoid immediate self-match.
func (g *Graph) dfsCanReach(current, target string, visited, allowedNodes map[string]bool, isStart bool) bool {
	if current == target && !isStart {
		return true
	}

	if visited[current] {
		return false
	}
	if !allowedNodes[current] {
		return false
	}

	visited[current] = true

	for _, next := range g.GetImports(current) {
		if g.dfsCanReach(next, target, visited, allowedNodes, false) {
			return true
		}
	}

	return false
}

// TopologicalSort returns modules in topological order using Kahn's
// algorithm: every module appears before the modules it imports.
// Returns a CycleError if the graph contains a cycle.
func (g *Graph) TopologicalSort() ([]string, error) {
	inDegree := g.CalculateInDegrees()
	queue := g.InitializeQueue(inDegree)

	var result []string
	processed := 0

	for !queue.IsEmpty() {
		node, _ := queue.Dequeue()

		result = append(result, node)
		processed++

		for _, imported := range g.GetImports(node) {
			inDegree[imported]--
			if inDegree[imported] == 0 {
				queue.Enqueue(imported)
			}
		}
	}

	if processed != len(g.Nodes) {
		cycleInfo := g.DetectIncompleteProcessing()
		return nil, &CycleError{Info: cycleInfo}
	}

	return result, nil
}

// DependencyOrder returns modules with dependencies first: every module
// appears after the modules it imports. This is the reverse of the
// topological order.
func (g *Graph) DependencyOrder() ([]string, error) {
	order, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}

	reversed := make([]string, len(order))
	for i, name := range order {
		reversed[len(order)-1-i] = name
	}

	return reversed, nil
}

// Validate checks the graph for structural issues such as cycles.
// Returns a CycleError if the graph contains cycles, nil otherwise.
func (g *Graph) Validate() error {
	cycleInfo := g.DetectIncompleteProcessing()
	if cycleInfo != nil {
		return &CycleError{Info: cycleInfo}
	}

	return nil
}
