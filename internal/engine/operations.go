package engine

import (
	"context"
	"fmt"

	"github.com/frasnym/hackathon-universa-bali/internal/graph"
	"github.com/frasnym/hackathon-universa-bali/pkg/models"
)

// OpKind identifies one of the two effects a planner decision can
// trigger. The set is closed: the state machine switches over it
// exhaustively.
type OpKind int

const (
	// OpSolve produces a final answer for a leaf-like task.
	OpSolve OpKind = iota
	// OpDecompose expands a task into new child tasks.
	OpDecompose
)

// String returns the operation name for logs.
func (k OpKind) String() string {
	switch k {
	case OpSolve:
		return "solve"
	case OpDecompose:
		return "decompose"
	default:
		return "unknown"
	}
}

// Operation is a tagged variant: a kind plus the arguments the kind
// needs. Decompose carries the subtask list, Solve carries nothing.
type Operation struct {
	Kind     OpKind
	Subtasks []string
}

// OperationError reports a failed operation. The engine treats any
// operation failure as fatal for the current run.
type OperationError struct {
	Kind OpKind
	Err  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s operation failed: %v", e.Kind, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Router maps a planner decision to the operation it triggers.
// Pure mapping, no side effects.
type Router struct{}

// Route selects Decompose with the decision's subtask list when the
// planner chose to decompose, Solve with no arguments otherwise.
func (Router) Route(decision *models.Decision) Operation {
	if decision.IsDecompose {
		return Operation{Kind: OpDecompose, Subtasks: decision.Subtasks}
	}
	return Operation{Kind: OpSolve}
}

// execute applies the operation to the node, mutating its task or
// growing the graph. Failures come back wrapped in OperationError.
func (m *Machine) execute(ctx context.Context, op Operation, node *graph.Node) error {
	var err error
	switch op.Kind {
	case OpSolve:
		err = m.solve(ctx, node)
	case OpDecompose:
		err = m.decompose(node, op.Subtasks)
	default:
		err = fmt.Errorf("unknown operation kind %d", op.Kind)
	}
	if err != nil {
		return &OperationError{Kind: op.Kind, Err: err}
	}
	return nil
}

// solve invokes the solver oracle and writes the answer into the node's
// task. For every node but the root, the query carries the content of
// the node immediately preceding it in graph insertion order as context.
func (m *Machine) solve(ctx context.Context, node *graph.Node) error {
	task := node.Task()
	if task == nil {
		return fmt.Errorf("node %s has no task attached", node.ID())
	}
	content := task.Content()

	query := content
	if node.Order() != 0 {
		preceding, err := node.PrecedingNode()
		if err != nil {
			return fmt.Errorf("resolve preceding node: %w", err)
		}
		precedingTask := preceding.Task()
		if precedingTask == nil {
			return fmt.Errorf("preceding node %s has no task attached", preceding.ID())
		}
		query = fmt.Sprintf("<context>\n%s\n</context>\n\n<problem>\n%s\n</problem>",
			precedingTask.Content(), content)
	}

	solution, err := m.planner.Solve(ctx, query)
	if err != nil {
		return err
	}

	task.Solve(solution)
	m.debugLog("[engine.solve] solved task %q on node %s", task.Description, node.ID())
	return nil
}

// decompose creates one new child node per subtask description, each
// wrapping a fresh unsolved task. The current node is not marked solved;
// only leaf solves do that. Fan-out is not bounded here, the planner
// prompt self-limits.
func (m *Machine) decompose(node *graph.Node, subtasks []string) error {
	if len(subtasks) == 0 {
		return fmt.Errorf("decomposition chosen but subtask list is empty")
	}
	for _, sub := range subtasks {
		child, err := node.AddSuccessor(models.NewTask(sub))
		if err != nil {
			return fmt.Errorf("add subtask node: %w", err)
		}
		m.debugLog("[engine.decompose] node %s gained child %s (%d nodes total)",
			node.ID(), child.ID(), node.Graph().Len())
	}
	return nil
}
