package engine

import (
	"context"
	"testing"

	"github.com/frasnym/hackathon-universa-bali/internal/graph"
	"github.com/frasnym/hackathon-universa-bali/pkg/models"
)

func TestRouterMapsDecisions(t *testing.T) {
	var r Router

	op := r.Route(&models.Decision{IsDecompose: true, Subtasks: []string{"a", "b"}})
	if op.Kind != OpDecompose {
		t.Errorf("expected decompose, got %v", op.Kind)
	}
	if len(op.Subtasks) != 2 {
		t.Errorf("decompose should carry the subtask list, got %v", op.Subtasks)
	}

	op = r.Route(&models.Decision{IsDecompose: false})
	if op.Kind != OpSolve {
		t.Errorf("expected solve, got %v", op.Kind)
	}
	if len(op.Subtasks) != 0 {
		t.Errorf("solve takes no arguments, got %v", op.Subtasks)
	}
}

func TestDecomposeCreatesChildren(t *testing.T) {
	g := newRootGraph(t, "root")
	m := NewMachine(&fakePlanner{})

	err := m.execute(context.Background(), Operation{
		Kind:     OpDecompose,
		Subtasks: []string{"one", "two", "three"},
	}, g.Root())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if g.Len() != 4 {
		t.Fatalf("expected 4 nodes, got %d", g.Len())
	}
	children := g.Root().Successors()
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}
	for i, want := range []string{"one", "two", "three"} {
		task := children[i].Task()
		if task == nil || task.Description != want {
			t.Errorf("child %d: expected task %q, got %v", i, want, task)
		}
		if task.Solved {
			t.Errorf("child %d should start unsolved", i)
		}
		if !children[i].Active() {
			t.Errorf("child %d should be active", i)
		}
	}
	if g.Root().Solved() {
		t.Error("decompose must not mark the parent solved")
	}
}

func TestDecomposeThenSolveRoundTrip(t *testing.T) {
	g := newRootGraph(t, "root")
	root := g.Root()
	fp := &fakePlanner{}
	m := NewMachine(fp)

	if root.Context(nil).Shape != graph.ShapeIsolated {
		t.Fatal("root should start isolated")
	}

	err := m.execute(context.Background(), Operation{
		Kind:     OpDecompose,
		Subtasks: []string{"one", "two"},
	}, root)
	if err != nil {
		t.Fatalf("decompose: %v", err)
	}

	for _, child := range root.Successors() {
		if err := m.execute(context.Background(), Operation{Kind: OpSolve}, child); err != nil {
			t.Fatalf("solve child: %v", err)
		}
		if !child.Solved() {
			t.Errorf("child %s should be solved", child.ID())
		}
	}

	ctx := root.Context(graph.ExcludeSolved)
	if ctx.Shape != graph.ShapeRootWithChildren {
		t.Errorf("root should have children now, got %v", ctx.Shape)
	}
	if len(ctx.ActiveSuccessors) != 0 {
		t.Errorf("no unsolved children should remain, got %d", len(ctx.ActiveSuccessors))
	}
}

func TestSolveOnUntaskedNode(t *testing.T) {
	g := graph.New("test")
	n := g.AddNode()
	m := NewMachine(&fakePlanner{})

	if err := m.execute(context.Background(), Operation{Kind: OpSolve}, n); err == nil {
		t.Error("solving a node without a task should fail")
	}
}

func TestOperationErrorUnwrap(t *testing.T) {
	g := newRootGraph(t, "root")
	m := NewMachine(&fakePlanner{})

	err := m.execute(context.Background(), Operation{Kind: OpDecompose}, g.Root())
	opErr, ok := err.(*OperationError)
	if !ok {
		t.Fatalf("expected *OperationError, got %T", err)
	}
	if opErr.Unwrap() == nil {
		t.Error("operation error should wrap a cause")
	}
	if opErr.Kind.String() != "decompose" {
		t.Errorf("unexpected kind string: %q", opErr.Kind)
	}
}
