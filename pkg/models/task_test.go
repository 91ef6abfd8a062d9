package models

import "testing"

func TestNewTask(t *testing.T) {
	task := NewTask("write a haiku")
	if task.Solved {
		t.Error("new task should not be solved")
	}
	if task.Solution != "" {
		t.Errorf("new task should have empty solution, got %q", task.Solution)
	}
	if len(task.History) != 1 || task.History[0] != "write a haiku" {
		t.Errorf("history should be seeded with the description, got %v", task.History)
	}
}

func TestTaskSolve(t *testing.T) {
	task := NewTask("2+2")
	task.Solve("4")

	if !task.Solved {
		t.Error("task should be solved")
	}
	if task.Solution != "4" {
		t.Errorf("expected solution %q, got %q", "4", task.Solution)
	}
	// Solution is prepended, description stays at the bottom.
	if len(task.History) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(task.History))
	}
	if task.History[0] != "4" || task.History[1] != "2+2" {
		t.Errorf("unexpected history order: %v", task.History)
	}
}

func TestTaskContent(t *testing.T) {
	task := NewTask("2+2")
	if got := task.Content(); got != "2+2" {
		t.Errorf("unsolved task content should be the description, got %q", got)
	}
	task.Solve("4")
	if got := task.Content(); got != "4" {
		t.Errorf("solved task content should be the solution, got %q", got)
	}
}

func TestTaskRemember(t *testing.T) {
	task := NewTask("root")
	task.Remember("note")
	if task.History[0] != "note" {
		t.Errorf("remember should prepend, got %v", task.History)
	}
	if task.Solved {
		t.Error("remember must not mark the task solved")
	}
}
