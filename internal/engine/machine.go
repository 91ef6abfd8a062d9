// Package engine drives task decomposition: a state machine walks the
// task graph, consults the planner for decompose/solve decisions, and
// descends or backtracks until every reachable task is solved.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/frasnym/hackathon-universa-bali/internal/graph"
	"github.com/frasnym/hackathon-universa-bali/internal/planner"
	"github.com/frasnym/hackathon-universa-bali/pkg/models"
)

// ErrEmptyGraph indicates Run was called on a graph with no nodes.
var ErrEmptyGraph = errors.New("graph has no nodes")

// defaultRetries is the bound on planner invocation attempts.
const defaultRetries = 3

// Planner is the decision oracle the engine consults. Decide returns a
// structured decompose/solve decision for a planning query; Solve
// returns a plain solution string.
type Planner interface {
	Decide(ctx context.Context, query string) (*models.Decision, error)
	Solve(ctx context.Context, query string) (string, error)
}

// State is the engine's view of the current node, derived from its
// context shape after every transition.
type State int

const (
	// StateRootIdle: no parent, no children. Covers the root both before
	// work starts and after a direct solve.
	StateRootIdle State = iota
	// StateRootPending: no parent, has children.
	StateRootPending
	// StateIntermediate: has parent and children.
	StateIntermediate
	// StateLeaf: has parent, no children.
	StateLeaf
	// StateStopped is terminal.
	StateStopped
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateRootIdle:
		return "root-idle"
	case StateRootPending:
		return "root-pending"
	case StateIntermediate:
		return "intermediate"
	case StateLeaf:
		return "leaf"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// stateFromShape maps a node context shape to the engine state.
func stateFromShape(shape graph.Shape) State {
	switch shape {
	case graph.ShapeIsolated:
		return StateRootIdle
	case graph.ShapeRootWithChildren:
		return StateRootPending
	case graph.ShapeIntermediate:
		return StateIntermediate
	case graph.ShapeLeaf:
		return StateLeaf
	default:
		return StateStopped
	}
}

// Machine is the traversal engine. Single-threaded and synchronous:
// exactly one node is current at a time, and each loop iteration
// performs one planner call or one descend/backtrack step.
type Machine struct {
	planner  Planner
	router   Router
	retries  int
	maxNodes int

	state    State
	nodeCtx  *graph.NodeContext
	trail    []string
	orphaned bool

	debugLog func(format string, args ...interface{})
}

// NewMachine creates a traversal engine around the given planner.
func NewMachine(p Planner) *Machine {
	return &Machine{
		planner:  p,
		retries:  defaultRetries,
		state:    StateRootIdle,
		debugLog: func(format string, args ...interface{}) {}, // no-op by default
	}
}

// SetDebugLog sets the debug logging function.
func (m *Machine) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		m.debugLog = fn
	}
}

// SetRetries overrides the planner retry bound.
func (m *Machine) SetRetries(n int) {
	if n > 0 {
		m.retries = n
	}
}

// SetMaxNodes aborts a run whose graph grows past n nodes, guarding
// against runaway decomposition. Zero disables the guard.
func (m *Machine) SetMaxNodes(n int) {
	m.maxNodes = n
}

// State returns the engine's current state.
func (m *Machine) State() State {
	return m.state
}

// Trail returns the ids of the nodes the engine has had current, in
// visit order. Nodes appear once per visit.
func (m *Machine) Trail() []string {
	out := make([]string, len(m.trail))
	copy(out, m.trail)
	return out
}

// Orphaned reports whether the run stopped because a backtrack found no
// active predecessor.
func (m *Machine) Orphaned() bool {
	return m.orphaned
}

// updateState recomputes the node context and the engine state for the
// node. Solved nodes are excluded from the active neighbor lists.
func (m *Machine) updateState(node *graph.Node) {
	m.nodeCtx = node.Context(graph.ExcludeSolved)
	m.state = stateFromShape(m.nodeCtx.Shape)
	if len(m.trail) == 0 || m.trail[len(m.trail)-1] != node.ID() {
		m.trail = append(m.trail, node.ID())
	}
	m.debugLog("[engine] node %s: shape=%s state=%s", node.ID(), m.nodeCtx.Shape, m.state)
}

// resolved reports whether a node needs no further work: its task is
// solved, or it was decomposed and every child is resolved. Descending
// into an exhausted branch would bounce straight back, so selection
// skips them; only a leaf Solve ever flips the solved flag itself.
func resolved(n *graph.Node) bool {
	if n.Solved() {
		return true
	}
	children := n.Successors()
	if len(children) == 0 {
		return false
	}
	for _, child := range children {
		if !resolved(child) {
			return false
		}
	}
	return true
}

// firstUnsolved returns the first node from the list, in insertion
// order, that still needs work, or nil if none does.
func firstUnsolved(nodes []*graph.Node) *graph.Node {
	sorted := make([]*graph.Node, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Order() < sorted[j].Order() })
	for _, n := range sorted {
		if !resolved(n) {
			return n
		}
	}
	return nil
}

// backtrack returns the first active predecessor of the current node.
// A single parent is assumed; with no active predecessor the machine
// stops with an orphan-branch warning and the node itself comes back.
func (m *Machine) backtrack(node *graph.Node) *graph.Node {
	parents := m.nodeCtx.ActivePredecessors
	if len(parents) == 0 {
		m.debugLog("[engine] no active predecessor for node %s, stopping (orphan branch)", node.ID())
		m.orphaned = true
		m.state = StateStopped
		return node
	}
	return parents[0]
}

// runPlanner builds the planner context for the node, obtains a
// decision (bounded retry; a malformed decision is fatal immediately),
// routes it to an operation, and applies it.
func (m *Machine) runPlanner(ctx context.Context, node *graph.Node) error {
	taskAtHand, narrative, err := BuildPlannerContext(node)
	if err != nil {
		return fmt.Errorf("build planner context: %w", err)
	}

	query := narrative +
		"\n\nBased on the information above, what would be your decision for the following task:\n<task>\n" +
		taskAtHand + "\n</task>"
	m.debugLog("[engine] planner query for node %s:\n%s", node.ID(), query)

	var decision *models.Decision
	var lastErr error
	for attempt := 1; attempt <= m.retries; attempt++ {
		decision, lastErr = m.planner.Decide(ctx, query)
		if lastErr == nil {
			break
		}
		if errors.Is(lastErr, planner.ErrMalformedDecision) {
			return lastErr
		}
		m.debugLog("[engine] planner attempt %d/%d failed: %v", attempt, m.retries, lastErr)
	}
	if lastErr != nil {
		return fmt.Errorf("planner failed after %d attempts: %w", m.retries, lastErr)
	}
	m.debugLog("[engine] planner decision for node %s: decompose=%v reason=%q subtasks=%d",
		node.ID(), decision.IsDecompose, decision.Reason, len(decision.Subtasks))

	op := m.router.Route(decision)
	return m.execute(ctx, op, node)
}

// Run drives the state machine over the graph until it stops. The graph
// is mutated in place; on error it is left in its last consistent state.
//
// Note the root termination check in root-idle inspects only the root
// task's own solved flag, which only a direct root solve sets. A root
// that was decomposed terminates through root-pending running out of
// unsolved children instead.
func (m *Machine) Run(ctx context.Context, g *graph.Graph) error {
	current := g.Root()
	if current == nil {
		return ErrEmptyGraph
	}

	m.orphaned = false
	m.trail = nil
	m.updateState(current)

	for m.state != StateStopped {
		if err := ctx.Err(); err != nil {
			return err
		}
		if m.maxNodes > 0 && g.Len() > m.maxNodes {
			return fmt.Errorf("graph grew past %d nodes, aborting run", m.maxNodes)
		}

		switch m.state {
		case StateRootIdle:
			if current.Solved() {
				m.debugLog("[engine] root task solved, stopping")
				m.state = StateStopped
				continue
			}
			if err := m.runPlanner(ctx, current); err != nil {
				return err
			}
			m.updateState(current)

		case StateRootPending:
			next := firstUnsolved(m.nodeCtx.ActiveSuccessors)
			if next == nil {
				m.debugLog("[engine] no unsolved children left at the root, stopping")
				m.state = StateStopped
				continue
			}
			current = next
			m.updateState(current)

		case StateIntermediate:
			next := firstUnsolved(m.nodeCtx.ActiveSuccessors)
			if next == nil {
				next = m.backtrack(current)
				if m.state == StateStopped {
					continue
				}
			}
			current = next
			m.updateState(current)

		case StateLeaf:
			if current.Solved() {
				next := m.backtrack(current)
				if m.state == StateStopped {
					continue
				}
				current = next
			} else {
				if err := m.runPlanner(ctx, current); err != nil {
					return err
				}
			}
			m.updateState(current)
		}
	}

	for _, node := range g.Nodes() {
		if t := node.Task(); t != nil {
			m.debugLog("[engine] node %s solved=%v solution=%q", node.ID(), t.Solved, t.Solution)
		}
	}
	return nil
}
