package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/frasnym/hackathon-universa-bali/internal/config"
	"github.com/frasnym/hackathon-universa-bali/internal/engine"
	"github.com/frasnym/hackathon-universa-bali/internal/graph"
	"github.com/frasnym/hackathon-universa-bali/internal/planner"
	"github.com/frasnym/hackathon-universa-bali/internal/render"
	"github.com/frasnym/hackathon-universa-bali/internal/state"
	"github.com/frasnym/hackathon-universa-bali/pkg/models"
)

var (
	runConfigPath    string
	runModel         string
	runBedrock       bool
	runMaxNodes      int
	runRetries       int
	runDebugLog      string
	runShowSolutions bool
	runNoJournal     bool
)

var runCmd = &cobra.Command{
	Use:   "run <task>",
	Short: "Solve a task by recursive decomposition",
	Long: `Solve a task using the planner model.

The planner decides whether the task can be solved directly or needs
to be broken into subtasks. Subtasks form a tree that is worked
depth-first, leftmost branch first. Each solved task feeds its
solution as context into the next one.

The run and its solutions are journaled to a local SQLite database;
inspect past runs with 'universa status'.

Examples:
  universa run "Write a haiku about autumn"
  universa run --model claude-haiku-4-5-20251001 "Plan a three-day trip to Kyoto"
  universa run --show-solutions "Outline a blog post about SQLite internals"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTask,
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "Path to a config file (overrides discovery)")
	runCmd.Flags().StringVar(&runModel, "model", "", "Planner model to use")
	runCmd.Flags().BoolVar(&runBedrock, "bedrock", false, "Use AWS Bedrock instead of the direct API")
	runCmd.Flags().IntVar(&runMaxNodes, "max-nodes", 0, "Abort once the tree exceeds this many nodes (0 = config default)")
	runCmd.Flags().IntVar(&runRetries, "retries", 0, "Planner retry attempts on transient failures (0 = config default)")
	runCmd.Flags().StringVar(&runDebugLog, "debug-log", "", "Write a debug trace to this file")
	runCmd.Flags().BoolVar(&runShowSolutions, "show-solutions", false, "Print solution text under each solved task")
	runCmd.Flags().BoolVar(&runNoJournal, "no-journal", false, "Skip recording the run to the journal database")
}

func runTask(cmd *cobra.Command, args []string) (retErr error) {
	defer func() {
		if r := recover(); r != nil {
			retErr = fmt.Errorf("PANIC in runTask: %v", r)
		}
	}()

	taskDescription := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyRunFlags(cfg)

	client, err := planner.NewClient(planner.ClientConfig{
		Model:         anthropic.Model(cfg.Anthropic.Model),
		APIKey:        cfg.Anthropic.APIKey,
		UseAWSBedrock: cfg.Anthropic.UseBedrock,
		AWSRegion:     cfg.Anthropic.AWSRegion,
		AWSProfile:    cfg.Anthropic.AWSProfile,
	})
	if err != nil {
		return fmt.Errorf("create planner client: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nReceived interrupt, shutting down...")
		cancel()
	}()

	g := graph.New("run")
	root := g.AddNode()
	if err := root.Activate(models.NewTask(taskDescription), false); err != nil {
		return fmt.Errorf("activate root task: %w", err)
	}

	machine := engine.NewMachine(planner.New(client))
	if cfg.Engine.PlannerRetries > 0 {
		machine.SetRetries(cfg.Engine.PlannerRetries)
	}
	if cfg.Engine.MaxNodes > 0 {
		machine.SetMaxNodes(cfg.Engine.MaxNodes)
	}

	if cfg.Engine.DebugLog != "" {
		logger, err := engine.NewDebugLogger(cfg.Engine.DebugLog)
		if err != nil {
			return fmt.Errorf("open debug log: %w", err)
		}
		defer logger.Close()
		machine.SetDebugLog(logger.Log)
		g.SetDebugLog(logger.Log)
	}

	var journal *state.DB
	runID := uuid.NewString()
	if !runNoJournal {
		dbPath := cfg.State.DBPath
		if dbPath == "" {
			dbPath = config.DefaultDBPath()
		}
		journal, err = state.Open(dbPath)
		if err != nil {
			fmt.Printf("Warning: journal unavailable: %v\n", err)
			journal = nil
		} else {
			defer journal.Close()
			if err := journal.StartRun(runID, taskDescription); err != nil {
				fmt.Printf("Warning: record run start: %v\n", err)
			}
		}
	}

	fmt.Printf("Solving: %s\n\n", taskDescription)

	runErr := machine.Run(ctx, g)

	status := state.RunStatusCompleted
	switch {
	case runErr != nil:
		status = state.RunStatusFailed
	case machine.Orphaned():
		status = state.RunStatusOrphaned
	}

	if journal != nil {
		recordRun(journal, runID, status, client.Tracker(), g)
	}

	renderer := render.NewTreeRenderer()
	renderer.ShowSolutions(runShowSolutions)
	fmt.Println(renderer.Render(g))

	in, out := client.Tracker().Total()
	fmt.Printf("\n%s  (%d planner calls, %d in / %d out tokens, ~$%.4f)\n",
		render.Summary(g), client.Tracker().Calls(), in, out, client.Tracker().Cost())

	if runErr != nil {
		printStatus("✗", fmt.Sprintf("Run failed: %v", runErr), color.FgRed)
		return runErr
	}
	if machine.Orphaned() {
		printStatus("⚠", "Run stopped on an orphaned branch; some tasks remain unsolved", color.FgYellow)
		return nil
	}

	printStatus("✓", "All tasks solved", color.FgGreen)
	if !runShowSolutions {
		if t := root.Task(); t != nil && t.Solved {
			fmt.Printf("\n%s\n", t.Solution)
		}
	}
	return nil
}

func loadConfig() (*config.Config, error) {
	if runConfigPath != "" {
		cfg, err := config.LoadFromPath(runConfigPath)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", runConfigPath, err)
		}
		return cfg, nil
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// applyRunFlags lets command-line flags override the loaded config.
func applyRunFlags(cfg *config.Config) {
	if runModel != "" {
		cfg.Anthropic.Model = runModel
	}
	if runBedrock {
		cfg.Anthropic.UseBedrock = true
	}
	if runMaxNodes > 0 {
		cfg.Engine.MaxNodes = runMaxNodes
	}
	if runRetries > 0 {
		cfg.Engine.PlannerRetries = runRetries
	}
	if runDebugLog != "" {
		cfg.Engine.DebugLog = runDebugLog
	}
}

func recordRun(journal *state.DB, runID, status string, tracker *planner.TokenTracker, g *graph.Graph) {
	var solutions []state.Solution
	total := 0
	solved := 0
	for _, n := range g.Nodes() {
		t := n.Task()
		if t == nil {
			continue
		}
		total++
		if !t.Solved {
			continue
		}
		solved++
		solutions = append(solutions, state.Solution{
			RunID:       runID,
			NodeID:      n.ID(),
			NodeOrder:   n.Order(),
			Description: t.Description,
			Solution:    t.Solution,
		})
	}

	if len(solutions) > 0 {
		if err := journal.RecordSolutions(solutions); err != nil {
			fmt.Printf("Warning: record solutions: %v\n", err)
		}
	}

	in, out := tracker.Total()
	if err := journal.FinishRun(runID, status, in, out, total, solved); err != nil {
		fmt.Printf("Warning: record run finish: %v\n", err)
	}
}

// printStatus prints a status line with color
func printStatus(symbol, message string, colorAttr color.Attribute) {
	c := color.New(colorAttr)
	fmt.Printf("%s %s\n", c.Sprint(symbol), message)
}
