package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/frasnym/hackathon-universa-bali/internal/config"
)

var (
	initForce bool
	initUser  bool
)

var initCmd = &cobra.Command{
	Use:   "init [directory]",
	Short: "Create a Universa config file",
	Long: `Create a configuration file with the default settings.

By default this writes .universa.yaml into the target directory (the
current directory unless one is given). With --user it writes the user
config at ~/.config/universa/config.yaml instead.

The directory argument is optional and defaults to the current directory.

Examples:
  universa init             # Create .universa.yaml here
  universa init ./myproject # Create it in a specific directory
  universa init --user      # Create the user-level config
  universa init --force     # Overwrite an existing config`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
	initCmd.Flags().BoolVar(&initUser, "user", false, "Write the user config instead of a project config")
}

// configTemplate mirrors the config file layout for yaml output.
type configTemplate struct {
	Anthropic struct {
		APIKey     string `yaml:"api_key"`
		Model      string `yaml:"model"`
		UseBedrock bool   `yaml:"use_bedrock"`
		AWSRegion  string `yaml:"aws_region,omitempty"`
		AWSProfile string `yaml:"aws_profile,omitempty"`
	} `yaml:"anthropic"`
	Engine struct {
		PlannerRetries int    `yaml:"planner_retries"`
		MaxNodes       int    `yaml:"max_nodes"`
		DebugLog       string `yaml:"debug_log,omitempty"`
	} `yaml:"engine"`
	State struct {
		DBPath string `yaml:"db_path,omitempty"`
	} `yaml:"state"`
}

func runInit(cmd *cobra.Command, args []string) error {
	var configPath string
	if initUser {
		configPath = config.UserConfigPath()
	} else {
		targetDir := "."
		if len(args) > 0 {
			targetDir = args[0]
		}
		absPath, err := filepath.Abs(targetDir)
		if err != nil {
			return fmt.Errorf("resolving absolute path: %w", err)
		}
		if err := os.MkdirAll(absPath, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", absPath, err)
		}
		configPath = filepath.Join(absPath, config.ProjectConfigName)
	}

	if _, err := os.Stat(configPath); err == nil && !initForce {
		fmt.Printf("Config already exists at %s. Use --force to overwrite.\n", configPath)
		return nil
	}

	defaults := config.Default()
	tmpl := configTemplate{}
	tmpl.Anthropic.APIKey = "${ANTHROPIC_API_KEY}"
	tmpl.Engine.PlannerRetries = defaults.Engine.PlannerRetries
	tmpl.Engine.MaxNodes = defaults.Engine.MaxNodes

	data, err := yaml.Marshal(&tmpl)
	if err != nil {
		return fmt.Errorf("marshaling config template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	header := "# Universa configuration\n# Environment variables (UNIVERSA_*, ANTHROPIC_API_KEY) take precedence.\n\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	printStatus("✓", fmt.Sprintf("Created %s", configPath), color.FgGreen)

	if os.Getenv("ANTHROPIC_API_KEY") == "" {
		printStatus("⚠", "ANTHROPIC_API_KEY not set (you can set it later)", color.FgYellow)
	} else {
		printStatus("✓", "ANTHROPIC_API_KEY is set", color.FgGreen)
	}

	fmt.Println("\nNext steps:")
	fmt.Println("  universa run \"your task here\"")
	return nil
}
