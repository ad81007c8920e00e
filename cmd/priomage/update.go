package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/priomage/priomage/pkg/item"
)

func newUpdateCmd(configPath *string) *cobra.Command {
	var (
		org       string
		project   int
		dryRun    bool
		threshold float64
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Compute priorities and write them back to the board",
		Long: `Fetches all scorable issues from the project, computes their priority
scores, and updates the board's priority field for any item whose score
changed by more than the update threshold.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), updateOpts{
				configPath:   *configPath,
				org:          org,
				project:      project,
				dryRun:       dryRun,
				threshold:    threshold,
				thresholdSet: cmd.Flags().Changed("threshold"),
			})
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "GitHub organization login")
	cmd.Flags().IntVar(&project, "project", 0, "Project number")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show planned updates without writing")
	cmd.Flags().Float64Var(&threshold, "threshold", 2.0, "Minimum absolute score change before updating")

	return cmd
}

type updateOpts struct {
	configPath   string
	org          string
	project      int
	dryRun       bool
	threshold    float64
	thresholdSet bool
}

func runUpdate(ctx context.Context, opts updateOpts) error {
	cfg, err := resolveConfig(opts.configPath)
	if err != nil {
		return err
	}
	client, err := newGitHubClient(cfg, opts.org, opts.project)
	if err != nil {
		return err
	}
	calc := newCalculator(cfg)

	threshold := cfg.Scoring.UpdateThreshold
	if opts.thresholdSet {
		threshold = opts.threshold
	}

	fmt.Fprintf(os.Stderr, "Fetching items from %s\n", client.ProjectURL())
	items, err := client.FetchItems(ctx)
	if err != nil {
		return err
	}

	var updated, skipped, failed int
	for i := range items {
		w := &items[i]
		if !w.IsIssue() {
			continue
		}

		score := calc.Score(w)
		current := currentPriority(w)
		if current != nil && math.Abs(score-*current) <= threshold {
			skipped++
			slog.Debug("priority unchanged", "item", w.Number, "score", score)
			continue
		}

		if opts.dryRun {
			fmt.Fprintf(os.Stderr, "Would update #%d %q: %s -> %.2f\n",
				w.Number, w.Title, formatCurrent(current), score)
			updated++
			continue
		}

		if client.UpdatePriority(ctx, w.ProjectItemID, score) {
			fmt.Fprintf(os.Stderr, "Updated #%d %q: %s -> %.2f\n",
				w.Number, w.Title, formatCurrent(current), score)
			updated++
		} else {
			fmt.Fprintf(os.Stderr, "Failed to update #%d %q\n", w.Number, w.Title)
			failed++
		}
	}

	verb := "updated"
	if opts.dryRun {
		verb = "would update"
	}
	fmt.Fprintf(os.Stderr, "Done: %s %d, skipped %d, failed %d\n", verb, updated, skipped, failed)
	if failed > 0 {
		return fmt.Errorf("%d item update(s) failed", failed)
	}
	return nil
}

// currentPriority reads the board's existing priority value for an item.
// Single-select priorities are names, not numbers, so they always count
// as changed.
func currentPriority(w *item.WorkItem) *float64 {
	fv, ok := w.Field("priority")
	if !ok {
		fv, ok = w.Field("prio")
	}
	if !ok {
		return nil
	}
	switch fv.Kind {
	case item.KindNumber:
		return fv.Number
	case item.KindText:
		if n, err := strconv.ParseFloat(fv.Text, 64); err == nil {
			return &n
		}
	}
	return nil
}

func formatCurrent(v *float64) string {
	if v == nil {
		return "unset"
	}
	return fmt.Sprintf("%.2f", *v)
}
