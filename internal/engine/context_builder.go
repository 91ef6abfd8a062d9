package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/frasnym/hackathon-universa-bali/internal/graph"
)

// BuildPlannerContext walks the tree from the root to the target node
// and produces the literal next task to hand the planner plus a
// hierarchical narrative of the tree for the planner to reason over.
//
// The walk always descends into the first unsolved child in insertion
// order; later unsolved siblings appear in the narrative but are never
// followed. The traversal engine relies on the same leftmost-first
// tie-break, which is what makes the walk land on the target.
//
// Each level lists its sibling subtasks with dotted numbering
// ("Task 1.2.1") and names the siblings already solved.
func BuildPlannerContext(target *graph.Node) (taskAtHand string, narrative string, err error) {
	root := target.Graph().Root()
	if root == nil {
		return "", "", fmt.Errorf("graph has no root")
	}
	rootTask := root.Task()
	if rootTask == nil {
		return "", "", fmt.Errorf("root node has no task attached")
	}

	lines := []string{
		fmt.Sprintf("Our main task at the top of the tree-like graph is this:\nTask 1: %s\n", rootTask.Description),
	}
	numbers := []string{"1"}
	taskAtHand = "Task 1: " + rootTask.Description

	current := root
	for current != target {
		taskNumber := strings.Join(numbers, ".")
		lines = append(lines,
			fmt.Sprintf("In order to solve Task %s we first have to solve the following subtasks: ", taskNumber))

		var unsolved *graph.Node
		var solvedNumbers []string

		for i, child := range current.Successors() {
			childTask := child.Task()
			if childTask == nil {
				return "", "", fmt.Errorf("child node %s has no task attached", child.ID())
			}
			line := fmt.Sprintf("Task %s.%d: %s", taskNumber, i+1, childTask.Description)
			lines = append(lines, line)

			// Same tie-break as the traversal engine: skip solved
			// children and exhausted branches alike.
			if !resolved(child) {
				if unsolved == nil {
					unsolved = child
					numbers = append(numbers, strconv.Itoa(i+1))
					taskAtHand = line
				}
			} else {
				solvedNumbers = append(solvedNumbers, fmt.Sprintf("Task %s.%d", taskNumber, i+1))
			}
		}

		if len(solvedNumbers) > 0 {
			lines = append(lines,
				fmt.Sprintf("\nThe solved subtasks of Task %s are: %s.\n", taskNumber, strings.Join(solvedNumbers, " ")))
		}

		if unsolved == nil {
			return "", "", fmt.Errorf("node %s is not on the leftmost unsolved path from the root", target.ID())
		}
		current = unsolved
	}

	return taskAtHand, strings.Join(lines, "\n"), nil
}
