package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jakeswenson/retroqwest/internal/cli"
	"github.com/jakeswenson/retroqwest/internal/parser"
)

func newWatchCmd(a *app) *cobra.Command {
	watchCmd := &cobra.Command{
		Use:   "watch [dirs...]",
		Short: "Regenerate clients whenever their interfaces change",
		Long: `watch generates once, then regenerates a package each time one of its Go
files is written. Directories are watched recursively; bursts of changes
within the debounce window are batched.`,
		Example: `  retroqwest watch ./internal
  retroqwest watch --debounce 1s`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			a.bind(cmd.Flags(), "output", "jobs", "skip-module-check")
			a.bindAs(cmd.Flags(), "watch.debounce", "debounce")
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := a.config(args)
			if err != nil {
				return err
			}
			reporter := a.reporter(config)
			generator := cli.NewGenerator(config, reporter)

			if summary, err := generator.Run(cmd.Context()); err == nil {
				reporter.Summary(summary)
			}

			regenerate := func(ctx context.Context, dirs []string) error {
				summary, err := generator.RunPatterns(ctx, dirs)
				if err == nil {
					reporter.Summary(summary)
				}
				return err
			}

			reporter.Diagnostics().Header("watching for changes, press Ctrl+C to stop")
			watcher := cli.NewWatcher(config.Output, config.Watch.Debounce, reporter, regenerate)
			if err := watcher.Run(cmd.Context(), watchRoots(config)); err != nil {
				reporter.ReportError(err)
				return &reportedError{err: err}
			}
			return nil
		},
	}

	flags := watchCmd.Flags()
	flags.StringP("output", "o", parser.GeneratedFileName, "name of the generated file in each package")
	flags.IntP("jobs", "j", 0, "packages generated concurrently (default GOMAXPROCS)")
	flags.Bool("skip-module-check", false, "do not check that go.mod requires "+cli.RuntimeModule)
	flags.Duration("debounce", 0, "quiet period before regenerating (default 300ms)")
	return watchCmd
}

// watchRoots turns package patterns into the directories to watch
func watchRoots(config cli.Config) []string {
	roots := make([]string, 0, len(config.Patterns))
	for _, pattern := range config.Patterns {
		root, _ := strings.CutSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}
		if config.Dir != "" && !filepath.IsAbs(root) {
			root = filepath.Join(config.Dir, root)
		}
		roots = append(roots, root)
	}
	return roots
}
