package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func newFieldsCmd(configPath *string) *cobra.Command {
	var (
		org       string
		project   int
		outputFmt string
	)

	cmd := &cobra.Command{
		Use:   "fields",
		Short: "Show the project's field schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFields(cmd.Context(), fieldsOpts{
				configPath: *configPath,
				org:        org,
				project:    project,
				outputFmt:  outputFmt,
			})
		},
	}

	cmd.Flags().StringVar(&org, "org", "", "GitHub organization login")
	cmd.Flags().IntVar(&project, "project", 0, "Project number")
	cmd.Flags().StringVar(&outputFmt, "output", "text", "Output format: text or json")

	return cmd
}

type fieldsOpts struct {
	configPath string
	org        string
	project    int
	outputFmt  string
}

func runFields(ctx context.Context, opts fieldsOpts) error {
	cfg, err := resolveConfig(opts.configPath)
	if err != nil {
		return err
	}
	client, err := newGitHubClient(cfg, opts.org, opts.project)
	if err != nil {
		return err
	}
	renderer, err := pickRenderer(opts.outputFmt, false)
	if err != nil {
		return err
	}

	info, err := client.FetchProjectInfo(ctx)
	if err != nil {
		return err
	}
	return renderer.RenderProject(os.Stdout, info, client.ProjectURL())
}
