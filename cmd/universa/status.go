package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/frasnym/hackathon-universa-bali/internal/config"
	"github.com/frasnym/hackathon-universa-bali/internal/state"
)

var (
	statusLimit int
	statusRunID string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show past runs from the journal",
	Long: `Display runs recorded in the journal database.

Without flags, lists the most recent runs with their outcome and token
usage. With --run, prints the solutions recorded for that run.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().IntVar(&statusLimit, "limit", 10, "Number of runs to list")
	statusCmd.Flags().StringVar(&statusRunID, "run", "", "Show solutions for a specific run ID")
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	dbPath := cfg.State.DBPath
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("No runs recorded yet. Run 'universa run <task>' to start.")
		return nil
	}

	db, err := state.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open journal database: %w", err)
	}
	defer db.Close()

	if statusRunID != "" {
		return displaySolutions(db, statusRunID)
	}
	return displayRuns(db)
}

func displayRuns(db *state.DB) error {
	runs, err := db.ListRuns(statusLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet. Run 'universa run <task>' to start.")
		return nil
	}

	for _, r := range runs {
		marker := statusMarker(r.Status)
		desc := r.RootTask
		if len(desc) > 60 {
			desc = desc[:57] + "..."
		}
		fmt.Printf("%s %s  %s\n", marker, r.ID, desc)
		fmt.Printf("    %s  started %s", r.Status, r.StartedAt.Local().Format(time.RFC822))
		if r.FinishedAt != nil {
			fmt.Printf("  took %s", r.FinishedAt.Sub(r.StartedAt).Round(time.Second))
		}
		fmt.Printf("\n    %d/%d tasks solved, %d in / %d out tokens\n",
			r.Solved, r.Nodes, r.InputTokens, r.OutputTokens)
	}

	fmt.Println("\nUse 'universa status --run <id>' to see recorded solutions.")
	return nil
}

func displaySolutions(db *state.DB, runID string) error {
	solutions, err := db.Solutions(runID)
	if err != nil {
		return fmt.Errorf("query solutions: %w", err)
	}
	if len(solutions) == 0 {
		fmt.Printf("No solutions recorded for run %s.\n", runID)
		return nil
	}

	for _, s := range solutions {
		color.New(color.FgGreen).Printf("● %s\n", s.Description)
		fmt.Printf("%s\n\n", s.Solution)
	}
	return nil
}

func statusMarker(status string) string {
	switch status {
	case state.RunStatusCompleted:
		return color.GreenString("✓")
	case state.RunStatusFailed:
		return color.RedString("✗")
	case state.RunStatusOrphaned:
		return color.YellowString("⚠")
	default:
		return color.CyanString("…")
	}
}
