// Package config handles loading and managing priomage configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for priomage.
type Config struct {
	GitHub  GitHubConfig  `yaml:"github"`
	Scoring ScoringConfig `yaml:"scoring"`
	Logging LoggingConfig `yaml:"logging"`
}

// GitHubConfig holds default project coordinates. The token never
// lives in the config file; it comes from the environment.
type GitHubConfig struct {
	Organization  string `yaml:"organization"`
	ProjectNumber int    `yaml:"project_number"`
}

// ScoringConfig controls scoring behavior.
type ScoringConfig struct {
	// GoalWeights overrides or extends the built-in goal weight table.
	GoalWeights map[string]float64 `yaml:"goal_weights"`
	// UpdateThreshold is the minimum absolute score change before a
	// remote update is issued.
	UpdateThreshold float64 `yaml:"update_threshold"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			GoalWeights:     map[string]float64{},
			UpdateThreshold: 2.0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads a config file from the given path.
// If the file does not exist, it returns the default config.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// FindConfigFile looks for .priomage/config.yaml in the given directory
// and its parents, returning the path if found, or "" if not.
func FindConfigFile(dir string) string {
	for {
		candidate := filepath.Join(dir, ".priomage", "config.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
