package models

// Decision is the structured output of a planner call: either decompose
// the task into subtasks or solve it directly.
type Decision struct {
	// IsDecompose is true when the planner wants the task split up.
	IsDecompose bool `json:"is_decompose"`
	// Reason is the planner's short justification for the decision.
	Reason string `json:"reason"`
	// Subtasks lists the subtask descriptions when decomposing.
	// Empty when the planner chose to solve directly.
	Subtasks []string `json:"subtasks"`
}
