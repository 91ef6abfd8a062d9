package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "universa",
	Short: "Recursive task decomposition engine",
	Long: `Universa solves tasks by recursive decomposition.

Given a task, a planner model decides whether to solve it directly or
break it into subtasks. Subtasks are arranged in a tree and worked
leftmost-first: the engine descends into unsolved branches, solves
leaves, and backtracks until every task in the tree is solved.

Core capabilities:
- Decides solve-vs-decompose per task via a planner model
- Builds a task tree and traverses it depth-first
- Feeds each subtask the solution of the task solved before it
- Journals runs and solutions to a local SQLite database`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
