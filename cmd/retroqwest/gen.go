package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/jakeswenson/retroqwest/internal/cli"
	"github.com/jakeswenson/retroqwest/internal/parser"
)

func newGenCmd(a *app) *cobra.Command {
	genCmd := &cobra.Command{
		Use:   "gen [patterns...]",
		Short: "Generate clients for the packages matching patterns",
		Long: `gen writes a client file into every package matching patterns (default ".")
that declares at least one //retroqwest::client interface. Patterns follow
the go tool, e.g. ./... or ./internal/api.`,
		Example: `  retroqwest gen ./...
  retroqwest gen --check ./...
  retroqwest gen --output client_gen.go ./api`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			a.bind(cmd.Flags(), "output", "check", "jobs", "skip-module-check")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := a.config(args)
			if err != nil {
				return err
			}
			reporter := a.reporter(config)

			summary, err := cli.NewGenerator(config, reporter).Run(cmd.Context())
			if err == nil || errors.Is(err, cli.ErrStale) {
				reporter.Summary(summary)
			}
			if errors.Is(err, cli.ErrStale) {
				reporter.Diagnostics().Error("%v", err)
			}
			if err != nil {
				return &reportedError{err: err}
			}
			return nil
		},
	}

	flags := genCmd.Flags()
	flags.StringP("output", "o", parser.GeneratedFileName, "name of the generated file in each package")
	flags.Bool("check", false, "fail when a generated file is missing or out of date, and write nothing")
	flags.IntP("jobs", "j", 0, "packages generated concurrently (default GOMAXPROCS)")
	flags.Bool("skip-module-check", false, "do not check that go.mod requires "+cli.RuntimeModule)
	return genCmd
}
