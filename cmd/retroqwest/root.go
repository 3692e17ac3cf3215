package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jakeswenson/retroqwest/internal/cli"
	"github.com/jakeswenson/retroqwest/internal/utils"
)

// reportedError marks a failure the diagnostics already printed
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// app is the state shared by all commands of one invocation
type app struct {
	v          *viper.Viper
	configFile string
	stdout     io.Writer
	stderr     io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{v: viper.New(), stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "retroqwest",
		Short: "Generate HTTP clients from annotated Go interfaces",
		Long: `retroqwest reads interfaces marked with //retroqwest::client and writes a
client implementation next to them. Methods carry a verb annotation such as
//retroqwest::get "/users/{id}"; parameters fill path placeholders unless
marked with //retroqwest::query or //retroqwest::json.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.LoadConfig(a.v, a.configFile)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default is ./"+cli.DefaultConfigName+" when present)")
	flags.BoolP("verbose", "v", false, "show detailed output and error hints")
	flags.BoolP("quiet", "q", false, "only show errors")
	flags.String("dir", "", "directory patterns are resolved in (default is the working directory)")
	a.bind(flags, "verbose", "quiet", "dir")

	rootCmd.AddCommand(
		newGenCmd(a),
		newCleanCmd(a),
		newWatchCmd(a),
		newOpenAPICmd(a),
	)
	return rootCmd
}

// bind maps flags onto viper keys of the same name
func (a *app) bind(flags *pflag.FlagSet, names ...string) {
	for _, name := range names {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}
}

// bindAs maps flag onto a nested viper key
func (a *app) bindAs(flags *pflag.FlagSet, key, name string) {
	_ = a.v.BindPFlag(key, flags.Lookup(name))
}

// config decodes the settings, using args as patterns when given
func (a *app) config(args []string) (cli.Config, error) {
	if len(args) > 0 {
		a.v.Set("patterns", args)
	}
	return cli.DecodeConfig(a.v)
}

func (a *app) reporter(config cli.Config) *cli.DiagnosticReporter {
	level := utils.DiagnosticInfo
	switch {
	case config.Quiet:
		level = utils.DiagnosticError
	case config.Verbose:
		level = utils.DiagnosticVerbose
	}
	diagnostics := utils.NewDiagnosticSystem(level)
	if a.stdout != os.Stdout || a.stderr != os.Stderr {
		diagnostics.SetOutput(a.stdout, a.stderr)
	}
	return cli.NewDiagnosticReporter(diagnostics)
}
