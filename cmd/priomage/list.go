package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/priomage/priomage/pkg/surface"
)

func newListCmd(configPath *string) *cobra.Command {
	var (
		org        string
		project    int
		showPRs    bool
		showFields bool
		outputFmt  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List project items with computed priorities",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), listOpts{
				configPath: *configPath,
				org:        org,
				project:    project,
				showPRs:    showPRs,
				showFields: showFields,
				outputFmt:  outputFmt,
			})
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "GitHub organization login")
	cmd.Flags().IntVar(&project, "project", 0, "Project number")
	cmd.Flags().BoolVar(&showPRs, "show-prs", false, "Include pull requests in the listing")
	cmd.Flags().BoolVar(&showFields, "show-fields", false, "Show all custom field values per item")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")

	return cmd
}

type listOpts struct {
	configPath string
	org        string
	project    int
	showPRs    bool
	showFields bool
	outputFmt  string
}

func runList(ctx context.Context, opts listOpts) error {
	cfg, err := resolveConfig(opts.configPath)
	if err != nil {
		return err
	}
	client, err := newGitHubClient(cfg, opts.org, opts.project)
	if err != nil {
		return err
	}
	renderer, err := pickRenderer(opts.outputFmt, opts.showFields)
	if err != nil {
		return err
	}
	calc := newCalculator(cfg)

	fmt.Fprintf(os.Stderr, "Fetching items from %s\n", client.ProjectURL())
	items, err := client.FetchItems(ctx)
	if err != nil {
		return err
	}

	var reports []surface.ItemReport
	for i := range items {
		w := items[i]
		if !w.IsIssue() {
			if !opts.showPRs {
				continue
			}
			reports = append(reports, surface.ItemReport{Item: w})
			continue
		}
		score := calc.Score(&w)
		reports = append(reports, surface.ItemReport{
			Item:       w,
			Score:      score,
			Level:      calc.Level(score),
			GoalWeight: calc.GoalWeight(w.Labels),
			Scored:     true,
		})
	}

	// Most urgent first; unscored pull requests sink to the bottom.
	sort.SliceStable(reports, func(i, j int) bool {
		if reports[i].Scored != reports[j].Scored {
			return reports[i].Scored
		}
		return reports[i].Score < reports[j].Score
	})

	return renderer.RenderList(os.Stdout, reports)
}
