package state

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStartAndFinishRun(t *testing.T) {
	db := openTestDB(t)

	if err := db.StartRun("run-1", "write a poem"); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	if runs[0].Status != RunStatusRunning {
		t.Errorf("expected status %q, got %q", RunStatusRunning, runs[0].Status)
	}
	if runs[0].FinishedAt != nil {
		t.Error("expected nil FinishedAt for running run")
	}

	if err := db.FinishRun("run-1", RunStatusCompleted, 120, 340, 4, 4); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}

	runs, err = db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	r := runs[0]
	if r.Status != RunStatusCompleted {
		t.Errorf("expected status %q, got %q", RunStatusCompleted, r.Status)
	}
	if r.FinishedAt == nil {
		t.Error("expected FinishedAt to be set")
	}
	if r.InputTokens != 120 || r.OutputTokens != 340 {
		t.Errorf("unexpected token counts: %d/%d", r.InputTokens, r.OutputTokens)
	}
	if r.Nodes != 4 || r.Solved != 4 {
		t.Errorf("unexpected node counts: %d/%d", r.Nodes, r.Solved)
	}
}

func TestRecordAndQuerySolutions(t *testing.T) {
	db := openTestDB(t)

	if err := db.StartRun("run-1", "root"); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}

	sols := []Solution{
		{RunID: "run-1", NodeID: "n2", NodeOrder: 2, Description: "second", Solution: "done 2"},
		{RunID: "run-1", NodeID: "n1", NodeOrder: 1, Description: "first", Solution: "done 1"},
	}
	if err := db.RecordSolutions(sols); err != nil {
		t.Fatalf("RecordSolutions failed: %v", err)
	}

	got, err := db.Solutions("run-1")
	if err != nil {
		t.Fatalf("Solutions failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 solutions, got %d", len(got))
	}
	if got[0].NodeID != "n1" || got[1].NodeID != "n2" {
		t.Errorf("expected node order sorting, got %s then %s", got[0].NodeID, got[1].NodeID)
	}

	// Re-recording the same node replaces it.
	if err := db.RecordSolutions([]Solution{
		{RunID: "run-1", NodeID: "n1", NodeOrder: 1, Description: "first", Solution: "revised"},
	}); err != nil {
		t.Fatalf("RecordSolutions replace failed: %v", err)
	}
	got, err = db.Solutions("run-1")
	if err != nil {
		t.Fatalf("Solutions failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 solutions after replace, got %d", len(got))
	}
	if got[0].Solution != "revised" {
		t.Errorf("expected replaced solution, got %q", got[0].Solution)
	}
}

func TestListRunsOrderAndLimit(t *testing.T) {
	db := openTestDB(t)

	for _, id := range []string{"a", "b", "c"} {
		if err := db.StartRun(id, "task "+id); err != nil {
			t.Fatalf("StartRun %s failed: %v", id, err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs with limit, got %d", len(runs))
	}
}

func TestSolutionsEmptyRun(t *testing.T) {
	db := openTestDB(t)

	if err := db.StartRun("run-1", "root"); err != nil {
		t.Fatalf("StartRun failed: %v", err)
	}
	got, err := db.Solutions("run-1")
	if err != nil {
		t.Fatalf("Solutions failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no solutions, got %d", len(got))
	}
}
