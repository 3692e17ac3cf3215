package main

import (
	"github.com/spf13/cobra"

	"github.com/jakeswenson/retroqwest/internal/cli"
	"github.com/jakeswenson/retroqwest/internal/parser"
)

func newCleanCmd(a *app) *cobra.Command {
	cleanCmd := &cobra.Command{
		Use:   "clean [patterns...]",
		Short: "Delete generated client files",
		Long: `clean removes the generated file from the directories matching patterns.
Files that do not start with the generated code header are kept.`,
		Example: `  retroqwest clean ./...`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			a.bind(cmd.Flags(), "output")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := a.config(args)
			if err != nil {
				return err
			}
			reporter := a.reporter(config)

			removed, err := cli.NewCleaner(config.Output, reporter).Clean(config.Dir, config.Patterns)
			if err != nil {
				reporter.ReportError(err)
				return &reportedError{err: err}
			}
			reporter.Summary(cli.GenerationSummary{Removed: removed})
			return nil
		},
	}

	cleanCmd.Flags().StringP("output", "o", parser.GeneratedFileName, "name of the generated file to delete")
	return cleanCmd
}
