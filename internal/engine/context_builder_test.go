package engine

import (
	"strings"
	"testing"

	"github.com/frasnym/hackathon-universa-bali/internal/graph"
	"github.com/frasnym/hackathon-universa-bali/pkg/models"
)

func mustChild(t *testing.T, parent *graph.Node, desc string) *graph.Node {
	t.Helper()
	child, err := parent.AddSuccessor(models.NewTask(desc))
	if err != nil {
		t.Fatalf("add child %q: %v", desc, err)
	}
	return child
}

func TestBuildPlannerContextRootOnly(t *testing.T) {
	g := newRootGraph(t, "main task")

	taskAtHand, narrative, err := BuildPlannerContext(g.Root())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taskAtHand != "Task 1: main task" {
		t.Errorf("unexpected task at hand: %q", taskAtHand)
	}
	if !strings.Contains(narrative, "Our main task at the top of the tree-like graph is this:\nTask 1: main task") {
		t.Errorf("narrative should open with the root task, got %q", narrative)
	}
}

func TestBuildPlannerContextDottedNumbering(t *testing.T) {
	g := newRootGraph(t, "root")
	root := g.Root()
	a := mustChild(t, root, "child a")
	mustChild(t, root, "child b")
	target := mustChild(t, a, "grandchild")

	taskAtHand, narrative, err := BuildPlannerContext(target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taskAtHand != "Task 1.1.1: grandchild" {
		t.Errorf("unexpected task at hand: %q", taskAtHand)
	}
	for _, want := range []string{
		"In order to solve Task 1 we first have to solve the following subtasks: ",
		"Task 1.1: child a",
		"Task 1.2: child b",
		"In order to solve Task 1.1 we first have to solve the following subtasks: ",
		"Task 1.1.1: grandchild",
	} {
		if !strings.Contains(narrative, want) {
			t.Errorf("narrative missing %q:\n%s", want, narrative)
		}
	}
}

func TestBuildPlannerContextSolvedSiblings(t *testing.T) {
	g := newRootGraph(t, "root")
	root := g.Root()
	a := mustChild(t, root, "child a")
	b := mustChild(t, root, "child b")
	a.Task().Solve("done a")

	taskAtHand, narrative, err := BuildPlannerContext(b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The first unsolved child in insertion order becomes the task at hand.
	if taskAtHand != "Task 1.2: child b" {
		t.Errorf("unexpected task at hand: %q", taskAtHand)
	}
	if !strings.Contains(narrative, "The solved subtasks of Task 1 are: Task 1.1.") {
		t.Errorf("narrative should name the solved sibling:\n%s", narrative)
	}
	// Solved siblings still appear in the listing itself.
	if !strings.Contains(narrative, "Task 1.1: child a") {
		t.Errorf("solved sibling should stay in the listing:\n%s", narrative)
	}
}

func TestBuildPlannerContextLeftmostBias(t *testing.T) {
	// With two unsolved children, the walk follows the first by
	// insertion order; the second is narrated but never descended into.
	g := newRootGraph(t, "root")
	root := g.Root()
	a := mustChild(t, root, "child a")
	mustChild(t, root, "child b")
	target := mustChild(t, a, "a's work")

	taskAtHand, _, err := BuildPlannerContext(target)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if taskAtHand != "Task 1.1.1: a's work" {
		t.Errorf("walk should descend the leftmost unsolved branch, got %q", taskAtHand)
	}
}

func TestBuildPlannerContextOffPathTarget(t *testing.T) {
	g := newRootGraph(t, "root")
	root := g.Root()
	mustChild(t, root, "child a") // unsolved, leftmost
	b := mustChild(t, root, "child b")
	offPath := mustChild(t, b, "unreachable")

	if _, _, err := BuildPlannerContext(offPath); err == nil {
		t.Error("expected an error for a target off the leftmost unsolved path")
	}
}

func TestBuildPlannerContextUntaskedRoot(t *testing.T) {
	g := graph.New("test")
	n := g.AddNode()
	if _, _, err := BuildPlannerContext(n); err == nil {
		t.Error("expected an error when the root has no task")
	}
}
