// Package config handles configuration loading for Universa.
// It supports XDG config paths, project-level overrides, and environment
// variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ProjectConfigName is the per-project config file searched for in the
// working directory and its parents.
const ProjectConfigName = ".universa.yaml"

// Config holds all configuration for Universa.
type Config struct {
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Engine    EngineConfig    `mapstructure:"engine"`
	State     StateConfig     `mapstructure:"state"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	// APIKey is the Anthropic API key; ${VAR} references are expanded.
	APIKey string `mapstructure:"api_key"`
	// Model is the Claude model used for both planning and solving.
	Model string `mapstructure:"model"`
	// UseBedrock routes calls through AWS Bedrock instead of the direct API.
	UseBedrock bool `mapstructure:"use_bedrock"`
	// AWSRegion is the Bedrock region (e.g. "us-west-2").
	AWSRegion string `mapstructure:"aws_region"`
	// AWSProfile is the optional AWS profile for Bedrock credentials.
	AWSProfile string `mapstructure:"aws_profile"`
}

// EngineConfig holds traversal engine settings.
type EngineConfig struct {
	// PlannerRetries bounds attempts per planner invocation.
	PlannerRetries int `mapstructure:"planner_retries"`
	// MaxNodes aborts a run whose graph grows past this size, guarding
	// against runaway decomposition. Zero disables the guard.
	MaxNodes int `mapstructure:"max_nodes"`
	// DebugLog is an optional path for the engine debug log.
	DebugLog string `mapstructure:"debug_log"`
}

// StateConfig holds run journal settings.
type StateConfig struct {
	// DBPath overrides the journal database location.
	DBPath string `mapstructure:"db_path"`
}

// Load loads configuration with the following precedence, highest first:
// environment variables (UNIVERSA_*, ANTHROPIC_API_KEY), the project
// config (.universa.yaml in the current directory or a parent), the user
// config (~/.config/universa/config.yaml), built-in defaults.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
				return nil, fmt.Errorf("merging project config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("UNIVERSA")
	v.AutomaticEnv()
	v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Anthropic.APIKey = os.ExpandEnv(cfg.Anthropic.APIKey)

	return cfg, nil
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Anthropic: AnthropicConfig{},
		Engine: EngineConfig{
			PlannerRetries: 3,
			MaxNodes:       200,
		},
		State: StateConfig{},
	}
}

// DefaultDBPath returns the journal location used when state.db_path is
// unset.
func DefaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "universa", "runs.db")
}

// UserConfigPath returns the path to the user config file.
func UserConfigPath() string {
	return filepath.Join(userConfigDir(), "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.model", "")
	v.SetDefault("anthropic.use_bedrock", false)
	v.SetDefault("engine.planner_retries", 3)
	v.SetDefault("engine.max_nodes", 200)
	v.SetDefault("engine.debug_log", "")
	v.SetDefault("state.db_path", "")
}

// userConfigDir returns the XDG config directory for Universa.
func userConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "universa")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "universa")
	}
	return filepath.Join(home, ".config", "universa")
}

// findProjectConfig searches for .universa.yaml in the current directory
// and its parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		configPath := filepath.Join(cwd, ProjectConfigName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}
	return ""
}
