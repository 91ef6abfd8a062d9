// Package graph provides the ordered task graph the traversal engine runs on.
// Nodes carry task payloads; directed edges are owned by the graph and
// deduplicated, and neighbor lookups are derived from the edge set rather
// than stored on nodes.
package graph

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Edge is a directed connection between two nodes. Edges are owned by the
// graph; nodes never hold edge references.
type Edge struct {
	From *Node
	To   *Node
}

// Graph is an ordered, mutable collection of nodes and directed edges.
// It owns node identity and insertion order.
type Graph struct {
	mu sync.RWMutex
	// id prefixes every node id so nodes stay correlated with their graph
	// in logs.
	id   string
	name string
	// nodes maps node ID to the node; order keeps insertion sequence.
	nodes map[string]*Node
	order []*Node
	edges []Edge
	// adjacency is refreshed on edge insertion when autoAdjacency is set.
	// It backs ShortestPath; the traversal engine itself never reads it.
	adjacency     [][]int
	autoAdjacency bool
	// debugLog is an optional logging function.
	debugLog func(format string, args ...interface{})
}

// New creates an empty graph. The adjacency matrix is kept in sync on
// every edge insertion; use SetAutoAdjacency(false) to defer that work
// and call UpdateAdjacencyMatrix manually before path queries.
func New(name string) *Graph {
	if name == "" {
		name = "graph"
	}
	return &Graph{
		id:            uuid.New().String(),
		name:          name,
		nodes:         make(map[string]*Node),
		autoAdjacency: true,
		debugLog:      func(format string, args ...interface{}) {}, // no-op by default
	}
}

// FromList builds a graph with n anonymous nodes and the given edges,
// where each edge pair indexes nodes by insertion order.
func FromList(n int, edges [][2]int) *Graph {
	g := New("")
	nodes := make([]*Node, n)
	for i := range nodes {
		nodes[i] = g.AddNode()
	}
	for _, e := range edges {
		g.AddEdge(nodes[e[0]], nodes[e[1]])
	}
	g.UpdateAdjacencyMatrix()
	return g
}

// SetDebugLog sets the debug logging function.
func (g *Graph) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		g.debugLog = fn
	}
}

// SetAutoAdjacency toggles automatic adjacency-matrix refresh on AddEdge.
func (g *Graph) SetAutoAdjacency(auto bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.autoAdjacency = auto
}

// ID returns the graph's identifier.
func (g *Graph) ID() string {
	return g.id
}

// Name returns the graph's display name.
func (g *Graph) Name() string {
	return g.name
}

// AddNode appends a new inactive node, assigning the next sequential
// order number and a stable id derived from it.
func (g *Graph) AddNode() *Node {
	g.mu.Lock()
	defer g.mu.Unlock()

	order := len(g.order)
	node := &Node{
		id:    g.id + "_N" + strconv.Itoa(order),
		order: order,
		graph: g,
	}
	g.nodes[node.id] = node
	g.order = append(g.order, node)
	g.debugLog("[graph.AddNode] added node id=%s order=%d", node.id, order)
	return node
}

// AddEdge inserts a directed edge. Adding an edge that already exists is
// a no-op, so the edge set never contains duplicates.
func (g *Graph) AddEdge(from, to *Node) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, e := range g.edges {
		if e.From == from && e.To == to {
			g.debugLog("[graph.AddEdge] edge %s -> %s already exists, skipping", from.id, to.id)
			return
		}
	}
	g.edges = append(g.edges, Edge{From: from, To: to})
	g.debugLog("[graph.AddEdge] added edge %s -> %s (%d edges total)", from.id, to.id, len(g.edges))
	if g.autoAdjacency {
		g.adjacency = g.adjacencyLocked()
	}
}

// Get returns the node with the given insertion order, or nil if it
// does not exist.
func (g *Graph) Get(order int) *Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if order < 0 || order >= len(g.order) {
		g.debugLog("[graph.Get] node with order %d does not exist", order)
		return nil
	}
	return g.order[order]
}

// Root returns the first node added to the graph, or nil if the graph
// is empty.
func (g *Graph) Root() *Node {
	return g.Get(0)
}

// Len returns the number of nodes in the graph.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Nodes returns the graph's nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Node, len(g.order))
	copy(out, g.order)
	return out
}

// adjacencyLocked builds the adjacency matrix from the edge set.
// Callers must hold the lock.
func (g *Graph) adjacencyLocked() [][]int {
	n := len(g.order)
	matrix := make([][]int, n)
	for i := range matrix {
		matrix[i] = make([]int, n)
	}
	for _, e := range g.edges {
		matrix[e.From.order][e.To.order] = 1
	}
	return matrix
}

// UpdateAdjacencyMatrix rebuilds the adjacency matrix from the current
// edge set. Needed before ShortestPath when auto refresh is off.
func (g *Graph) UpdateAdjacencyMatrix() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.adjacency = g.adjacencyLocked()
}

// AdjacencyMatrix returns a copy of the current adjacency matrix.
func (g *Graph) AdjacencyMatrix() [][]int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([][]int, len(g.adjacency))
	for i, row := range g.adjacency {
		out[i] = make([]int, len(row))
		copy(out[i], row)
	}
	return out
}

// ShortestPath runs breadth-first search over the adjacency matrix and
// returns the ordered node path from start to end, or an empty slice if
// end is unreachable. Read-only; provided for external tooling, the
// traversal engine does not use it.
func (g *Graph) ShortestPath(start, end *Node) []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n := len(g.adjacency)
	if start == nil || end == nil || start.order >= n || end.order >= n {
		return nil
	}
	if start == end {
		return []*Node{start}
	}

	visited := make([]bool, n)
	predecessor := make([]int, n)
	for i := range predecessor {
		predecessor[i] = -1
	}

	queue := []*Node{start}
	visited[start.order] = true

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for i := 0; i < n; i++ {
			if g.adjacency[node.order][i] != 1 || visited[i] {
				continue
			}
			queue = append(queue, g.order[i])
			visited[i] = true
			predecessor[i] = node.order
			if i == end.order {
				var path []*Node
				for cur := end.order; cur != -1; cur = predecessor[cur] {
					path = append(path, g.order[cur])
				}
				for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
					path[l], path[r] = path[r], path[l]
				}
				return path
			}
		}
	}

	return nil
}

// predecessorsOf derives the nodes with an edge into n by scanning the
// edge set.
func (g *Graph) predecessorsOf(n *Node) []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var preds []*Node
	for _, e := range g.edges {
		if e.To == n {
			preds = append(preds, e.From)
		}
	}
	return preds
}

// successorsOf derives the nodes n has an edge into.
func (g *Graph) successorsOf(n *Node) []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var succs []*Node
	for _, e := range g.edges {
		if e.From == n {
			succs = append(succs, e.To)
		}
	}
	return succs
}
