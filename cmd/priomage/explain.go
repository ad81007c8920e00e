package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/priomage/priomage/pkg/surface"
)

func newExplainCmd(configPath *string) *cobra.Command {
	var (
		org       string
		project   int
		itemNums  []int
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Show the full scoring breakdown for one or more items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd.Context(), explainOpts{
				configPath: *configPath,
				org:        org,
				project:    project,
				itemNums:   itemNums,
				outputFmt:  outputFmt,
			})
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "GitHub organization login")
	cmd.Flags().IntVar(&project, "project", 0, "Project number")
	cmd.Flags().IntSliceVar(&itemNums, "item", nil, "Issue number to explain (repeatable)")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")
	_ = cmd.MarkFlagRequired("item")

	return cmd
}

type explainOpts struct {
	configPath string
	org        string
	project    int
	itemNums   []int
	outputFmt  string
}

func runExplain(ctx context.Context, opts explainOpts) error {
	cfg, err := resolveConfig(opts.configPath)
	if err != nil {
		return err
	}
	client, err := newGitHubClient(cfg, opts.org, opts.project)
	if err != nil {
		return err
	}
	renderer, err := pickRenderer(opts.outputFmt, true)
	if err != nil {
		return err
	}
	calc := newCalculator(cfg)

	fmt.Fprintf(os.Stderr, "Fetching items from %s\n", client.ProjectURL())
	items, err := client.FetchItems(ctx)
	if err != nil {
		return err
	}

	byNumber := make(map[int]int, len(items))
	for i := range items {
		byNumber[items[i].Number] = i
	}

	var missing int
	for _, num := range opts.itemNums {
		i, ok := byNumber[num]
		if !ok {
			fmt.Fprintf(os.Stderr, "Item #%d not found among scorable project items\n", num)
			missing++
			continue
		}
		w := items[i]
		report := surface.ExplainReport{Item: w, Explanation: calc.Explain(&w)}
		if err := renderer.RenderExplanation(os.Stdout, report); err != nil {
			return err
		}
	}
	if missing > 0 {
		return fmt.Errorf("%d item(s) not found", missing)
	}
	return nil
}
