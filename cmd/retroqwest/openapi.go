package main

import (
	"github.com/spf13/cobra"

	"github.com/jakeswenson/retroqwest/internal/cli"
)

func newOpenAPICmd(a *app) *cobra.Command {
	openapiCmd := &cobra.Command{
		Use:   "openapi [pattern]",
		Short: "Describe the client interfaces of a package as an OpenAPI document",
		Long: `openapi writes an OpenAPI 3 document with one operation per client method.
Named Go types become schema components; their fields are not inspected.`,
		Example: `  retroqwest openapi ./api
  retroqwest openapi ./api --format json --out api.json --title "Users API" --version 1.4.0`,
		Args: cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			for _, name := range []string{"format", "out", "title", "version", "server"} {
				a.bindAs(flags, "openapi."+name, name)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := a.config(nil)
			if err != nil {
				return err
			}
			pattern := "."
			if len(args) == 1 {
				pattern = args[0]
			}

			reporter := a.reporter(config)
			if err := cli.NewExporter(config, reporter).Export(cmd.Context(), pattern, a.stdout); err != nil {
				return &reportedError{err: err}
			}
			return nil
		},
	}

	flags := openapiCmd.Flags()
	flags.StringP("format", "f", "yaml", "document format, json or yaml")
	flags.String("out", "", "file to write (default is stdout)")
	flags.String("title", "", "info.title (default is \"<package> API\")")
	flags.String("version", "0.0.0", "info.version")
	flags.String("server", "", "base URL listed under servers")
	return openapiCmd
}
