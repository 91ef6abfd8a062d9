package models

// Task represents a unit of work attached to a graph node.
// It carries the task description, the eventual solution, and a short
// most-recent-first history of everything the task has accumulated.
type Task struct {
	// Description is the text of the task to solve.
	Description string `json:"description"`
	// History holds the task's content stack, most recent first.
	// A fresh task starts with its own description as the only entry.
	History []string `json:"history"`
	// Solution is the final answer, set exactly once by Solve.
	Solution string `json:"solution,omitempty"`
	// Solved indicates whether a solution has been recorded.
	Solved bool `json:"solved"`
}

// NewTask creates an unsolved task with the given description.
// The history stack is seeded with the description.
func NewTask(description string) *Task {
	return &Task{
		Description: description,
		History:     []string{description},
	}
}

// Solve records the solution, marks the task solved, and pushes the
// solution onto the history stack.
func (t *Task) Solve(solution string) {
	t.Solution = solution
	t.Solved = true
	t.Remember(solution)
}

// Remember prepends content to the task's history stack.
func (t *Task) Remember(content string) {
	t.History = append([]string{content}, t.History...)
}

// Content returns the solution if the task is solved, otherwise the
// description. This is what neighboring tasks see as this task's output.
func (t *Task) Content() string {
	if t.Solved {
		return t.Solution
	}
	return t.Description
}
