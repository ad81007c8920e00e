// Package main provides the priomage CLI entry point.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/priomage/priomage/internal/github"
	"github.com/priomage/priomage/internal/logging"
	"github.com/priomage/priomage/pkg/config"
	"github.com/priomage/priomage/pkg/scoring"
	"github.com/priomage/priomage/pkg/surface"
)

var version = "dev"

func main() {
	var (
		configPath string
		logLevel   string
		logFile    string
	)

	rootCmd := &cobra.Command{
		Use:   "priomage",
		Short: "Priority scoring for GitHub project boards",
		Long: `Priomage computes priority scores for items on a GitHub Projects V2
board from their labels, status, impact, effort and due date, and can
sync the scores back into a priority field on the board.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(configPath)
			if err != nil {
				return err
			}
			logger, err := logging.Setup(firstNonEmpty(logLevel, cfg.Logging.Level), firstNonEmpty(logFile, cfg.Logging.File))
			if err != nil {
				return err
			}
			slog.SetDefault(logger)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: nearest .priomage/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Also write logs to this file")

	rootCmd.AddCommand(
		newUpdateCmd(&configPath),
		newListCmd(&configPath),
		newExplainCmd(&configPath),
		newFieldsCmd(&configPath),
	)

	err := rootCmd.Execute()
	_ = logging.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// resolveConfig loads the config file named by the flag, or the nearest
// .priomage/config.yaml above the working directory.
func resolveConfig(configPath string) (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}
	if found := config.FindConfigFile(cwd); found != "" {
		return config.Load(found)
	}
	return config.DefaultConfig(), nil
}

// newGitHubClient builds a project client from flags, environment and
// config, in that order of precedence.
func newGitHubClient(cfg *config.Config, orgFlag string, projectFlag int) (*github.Client, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, err
	}

	org := firstNonEmpty(orgFlag, env.Organization, cfg.GitHub.Organization)
	project := firstNonZero(projectFlag, env.ProjectNumber, cfg.GitHub.ProjectNumber)
	if org == "" {
		return nil, fmt.Errorf("organization is required (--org, GITHUB_ORG, or config)")
	}
	if project == 0 {
		return nil, fmt.Errorf("project number is required (--project, GITHUB_PROJECT_NUMBER, or config)")
	}

	return github.NewClient(env.Token, org, project)
}

// newCalculator builds the scoring engine with any config overrides.
func newCalculator(cfg *config.Config) *scoring.Calculator {
	sc := scoring.Defaults()
	sc.OverrideGoalWeights(cfg.Scoring.GoalWeights)
	return scoring.NewCalculatorWith(sc)
}

// pickRenderer selects the output renderer for --output.
func pickRenderer(outputFmt string, showFields bool) (surface.Renderer, error) {
	switch outputFmt {
	case "json":
		return &surface.JSONRenderer{}, nil
	case "", "text":
		return &surface.TerminalRenderer{ShowFields: showFields}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want text or json)", outputFmt)
	}
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstNonZero(vals ...int) int {
	for _, v := range vals {
		if v != 0 {
			return v
		}
	}
	return 0
}
