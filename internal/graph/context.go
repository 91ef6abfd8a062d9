package graph

// Shape classifies a node's position in the tree from its derived
// predecessor and successor counts.
type Shape int

const (
	// ShapeIsolated: no predecessors, no successors. The root before it
	// has been decomposed.
	ShapeIsolated Shape = iota
	// ShapeRootWithChildren: no predecessors, at least one successor.
	ShapeRootWithChildren
	// ShapeIntermediate: both predecessors and successors.
	ShapeIntermediate
	// ShapeLeaf: predecessors only.
	ShapeLeaf
)

// String returns the shape name for logs.
func (s Shape) String() string {
	switch s {
	case ShapeIsolated:
		return "isolated"
	case ShapeRootWithChildren:
		return "root-with-children"
	case ShapeIntermediate:
		return "intermediate"
	case ShapeLeaf:
		return "leaf"
	default:
		return "unknown"
	}
}

// NodeContext is an ephemeral snapshot of a node's derived neighborhood.
// It is recomputed every time the engine needs it and never persisted.
type NodeContext struct {
	// NodeID is the id of the node the context was built for.
	NodeID string
	// Predecessors and Successors are the full derived neighbor lists.
	Predecessors []*Node
	Successors   []*Node
	// ActivePredecessors and ActiveSuccessors are filtered to active
	// nodes, then by the exclusion predicate if one was given.
	ActivePredecessors []*Node
	ActiveSuccessors   []*Node
	// Shape classifies the full (unfiltered) neighbor counts.
	Shape Shape
}

// Context builds a NodeContext for the node. The optional exclude
// predicate drops nodes from the active lists; the engine uses it to
// drop already-solved nodes from consideration.
func (n *Node) Context(exclude func(*Node) bool) *NodeContext {
	preds := n.Predecessors()
	succs := n.Successors()

	filter := func(nodes []*Node) []*Node {
		var out []*Node
		for _, nd := range nodes {
			if !nd.Active() {
				continue
			}
			if exclude != nil && exclude(nd) {
				continue
			}
			out = append(out, nd)
		}
		return out
	}

	return &NodeContext{
		NodeID:             n.id,
		Predecessors:       preds,
		Successors:         succs,
		ActivePredecessors: filter(preds),
		ActiveSuccessors:   filter(succs),
		Shape:              classify(len(preds), len(succs)),
	}
}

// ExcludeSolved is the exclusion predicate used by the traversal engine:
// it drops nodes whose task is already solved.
func ExcludeSolved(n *Node) bool {
	return n.Solved()
}

func classify(preds, succs int) Shape {
	switch {
	case preds == 0 && succs == 0:
		return ShapeIsolated
	case preds == 0:
		return ShapeRootWithChildren
	case succs == 0:
		return ShapeLeaf
	default:
		return ShapeIntermediate
	}
}
