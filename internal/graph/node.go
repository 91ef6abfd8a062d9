package graph

import (
	"errors"

	"github.com/frasnym/hackathon-universa-bali/pkg/models"
)

// ErrNodeAlreadyActive indicates an attempt to activate a node that
// already carries a task. The payload is a write-once slot unless the
// caller explicitly replaces it.
var ErrNodeAlreadyActive = errors.New("node already has a task attached")

// ErrNoPrecedingNode indicates a node has no insertion-order predecessor.
var ErrNoPrecedingNode = errors.New("no preceding node available")

// Node is a vertex of the graph: a stable id, an immutable insertion
// order, an activation flag, and a task payload. Neighbors are derived
// from the graph's edge set on demand, never stored here.
type Node struct {
	id    string
	order int
	graph *Graph

	active bool
	task   *models.Task
}

// ID returns the node's stable identifier.
func (n *Node) ID() string {
	return n.id
}

// Graph returns the graph that owns this node.
func (n *Node) Graph() *Graph {
	return n.graph
}

// Order returns the node's insertion sequence number. It never changes
// after creation and is the sort key for sibling traversal.
func (n *Node) Order() int {
	return n.order
}

// Active reports whether the node has been activated with a task.
func (n *Node) Active() bool {
	n.graph.mu.RLock()
	defer n.graph.mu.RUnlock()
	return n.active
}

// Task returns the node's task payload, or nil if the node is inactive.
func (n *Node) Task() *models.Task {
	n.graph.mu.RLock()
	defer n.graph.mu.RUnlock()
	return n.task
}

// Activate attaches a task to the node and marks it active. Activating
// an already-active node fails with ErrNodeAlreadyActive unless replace
// is set.
func (n *Node) Activate(task *models.Task, replace bool) error {
	n.graph.mu.Lock()
	defer n.graph.mu.Unlock()

	if n.task != nil && !replace {
		return ErrNodeAlreadyActive
	}
	n.task = task
	n.active = true
	return nil
}

// Deactivate detaches the task and clears the active flag.
func (n *Node) Deactivate() {
	n.graph.mu.Lock()
	defer n.graph.mu.Unlock()
	n.task = nil
	n.active = false
}

// Solved reports whether the node carries a solved task.
func (n *Node) Solved() bool {
	t := n.Task()
	return t != nil && t.Solved
}

// Predecessors returns the nodes with an edge into this node.
func (n *Node) Predecessors() []*Node {
	return n.graph.predecessorsOf(n)
}

// Successors returns the nodes this node has an edge into.
func (n *Node) Successors() []*Node {
	return n.graph.successorsOf(n)
}

// PrecedingNode returns the node added to the graph immediately before
// this one, regardless of edges. Returns ErrNoPrecedingNode for the
// first node.
func (n *Node) PrecedingNode() (*Node, error) {
	if n.order == 0 {
		return nil, ErrNoPrecedingNode
	}
	prev := n.graph.Get(n.order - 1)
	if prev == nil {
		return nil, ErrNoPrecedingNode
	}
	return prev, nil
}

// AddSuccessor creates a new node activated with the given task and
// adds an edge from this node to it.
func (n *Node) AddSuccessor(task *models.Task) (*Node, error) {
	child := n.graph.AddNode()
	if err := child.Activate(task, false); err != nil {
		return nil, err
	}
	n.graph.AddEdge(n, child)
	return child, nil
}

// AddPredecessor creates a new node activated with the given task and
// adds an edge from it to this node.
func (n *Node) AddPredecessor(task *models.Task) (*Node, error) {
	parent := n.graph.AddNode()
	if err := parent.Activate(task, false); err != nil {
		return nil, err
	}
	n.graph.AddEdge(parent, n)
	return parent, nil
}
