package graph

import (
	"strings"
	"testing"

	"github.com/frasnym/hackathon-universa-bali/pkg/models"
)

func TestNewGraph(t *testing.T) {
	g := New("test")
	if g.Len() != 0 {
		t.Errorf("expected empty graph, got %d nodes", g.Len())
	}
	if g.Root() != nil {
		t.Error("empty graph should have no root")
	}
	if g.ID() == "" {
		t.Error("graph should have an id")
	}
}

func TestAddNodeAssignsSequentialOrder(t *testing.T) {
	g := New("test")
	for i := 0; i < 3; i++ {
		n := g.AddNode()
		if n.Order() != i {
			t.Errorf("expected order %d, got %d", i, n.Order())
		}
		if !strings.HasPrefix(n.ID(), g.ID()+"_N") {
			t.Errorf("node id %q should be prefixed with graph id", n.ID())
		}
	}
	if g.Len() != 3 {
		t.Errorf("expected 3 nodes, got %d", g.Len())
	}
}

func TestGetAndRoot(t *testing.T) {
	g := New("test")
	first := g.AddNode()
	second := g.AddNode()

	if g.Root() != first {
		t.Error("root should be the first node added")
	}
	if g.Get(1) != second {
		t.Error("Get(1) should return the second node")
	}
	if g.Get(5) != nil {
		t.Error("Get out of range should return nil")
	}
	if g.Get(-1) != nil {
		t.Error("Get with negative order should return nil")
	}
}

func TestAddEdgeIdempotent(t *testing.T) {
	g := New("test")
	a := g.AddNode()
	b := g.AddNode()

	g.AddEdge(a, b)
	g.AddEdge(a, b)

	if g.EdgeCount() != 1 {
		t.Errorf("duplicate edge should be a no-op, got %d edges", g.EdgeCount())
	}

	// Reverse direction is a distinct edge.
	g.AddEdge(b, a)
	if g.EdgeCount() != 2 {
		t.Errorf("expected 2 edges after adding reverse, got %d", g.EdgeCount())
	}
}

func TestDerivedNeighbors(t *testing.T) {
	g := New("test")
	root := g.AddNode()
	a := g.AddNode()
	b := g.AddNode()
	g.AddEdge(root, a)
	g.AddEdge(root, b)

	succs := root.Successors()
	if len(succs) != 2 {
		t.Fatalf("expected 2 successors, got %d", len(succs))
	}
	if succs[0] != a || succs[1] != b {
		t.Error("successors should come back in edge insertion order")
	}

	preds := a.Predecessors()
	if len(preds) != 1 || preds[0] != root {
		t.Errorf("expected root as sole predecessor, got %v", preds)
	}
	if len(root.Predecessors()) != 0 {
		t.Error("root should have no predecessors")
	}
}

func TestActivateWriteOnce(t *testing.T) {
	g := New("test")
	n := g.AddNode()

	if n.Active() {
		t.Error("fresh node should be inactive")
	}
	if err := n.Activate(models.NewTask("first"), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !n.Active() {
		t.Error("node should be active after Activate")
	}

	err := n.Activate(models.NewTask("second"), false)
	if err != ErrNodeAlreadyActive {
		t.Errorf("expected ErrNodeAlreadyActive, got %v", err)
	}
	if n.Task().Description != "first" {
		t.Error("failed activation must not replace the task")
	}

	if err := n.Activate(models.NewTask("second"), true); err != nil {
		t.Fatalf("replace activation failed: %v", err)
	}
	if n.Task().Description != "second" {
		t.Error("replace activation should swap the task")
	}
}

func TestDeactivate(t *testing.T) {
	g := New("test")
	n := g.AddNode()
	if err := n.Activate(models.NewTask("t"), false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n.Deactivate()
	if n.Active() || n.Task() != nil {
		t.Error("deactivate should clear task and active flag")
	}
}

func TestPrecedingNode(t *testing.T) {
	g := New("test")
	first := g.AddNode()
	second := g.AddNode()

	if _, err := first.PrecedingNode(); err != ErrNoPrecedingNode {
		t.Errorf("first node should have no preceding node, got %v", err)
	}
	prev, err := second.PrecedingNode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if prev != first {
		t.Error("preceding node should be the previously inserted node")
	}
}

func TestAddSuccessorAndPredecessor(t *testing.T) {
	g := New("test")
	root := g.AddNode()

	child, err := root.AddSuccessor(models.NewTask("child"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !child.Active() {
		t.Error("AddSuccessor should activate the new node")
	}
	if len(root.Successors()) != 1 || root.Successors()[0] != child {
		t.Error("AddSuccessor should wire an edge from the node")
	}

	parent, err := child.AddPredecessor(models.NewTask("parent"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	preds := child.Predecessors()
	if len(preds) != 2 || preds[1] != parent {
		t.Errorf("AddPredecessor should wire an edge into the node, got %d preds", len(preds))
	}
}

func TestShortestPath(t *testing.T) {
	// 0 -> 1 -> 3, 0 -> 2 -> 3, plus a detour 1 -> 4.
	g := FromList(5, [][2]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}, {1, 4}})

	path := g.ShortestPath(g.Get(0), g.Get(3))
	if len(path) != 3 {
		t.Fatalf("expected path of 3 nodes, got %d", len(path))
	}
	if path[0] != g.Get(0) || path[2] != g.Get(3) {
		t.Error("path endpoints wrong")
	}

	// Unreachable: edges are directed.
	if got := g.ShortestPath(g.Get(3), g.Get(0)); len(got) != 0 {
		t.Errorf("expected empty path for unreachable target, got %d nodes", len(got))
	}

	// Trivial path.
	self := g.ShortestPath(g.Get(2), g.Get(2))
	if len(self) != 1 || self[0] != g.Get(2) {
		t.Error("path from a node to itself should be the node alone")
	}
}

func TestAdjacencyMatrixAutoUpdate(t *testing.T) {
	g := New("test")
	a := g.AddNode()
	b := g.AddNode()
	g.AddEdge(a, b)

	m := g.AdjacencyMatrix()
	if len(m) != 2 || m[0][1] != 1 || m[1][0] != 0 {
		t.Errorf("unexpected adjacency matrix: %v", m)
	}
}

func TestAdjacencyMatrixManualUpdate(t *testing.T) {
	g := New("test")
	g.SetAutoAdjacency(false)
	a := g.AddNode()
	b := g.AddNode()
	g.AddEdge(a, b)

	if m := g.AdjacencyMatrix(); len(m) != 0 {
		t.Errorf("matrix should be stale with auto update off, got %v", m)
	}
	g.UpdateAdjacencyMatrix()
	if m := g.AdjacencyMatrix(); len(m) != 2 || m[0][1] != 1 {
		t.Errorf("matrix should reflect edges after manual update, got %v", m)
	}
}
