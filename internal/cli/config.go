package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"

	rqerrors "github.com/jakeswenson/retroqwest/internal/errors"
	"github.com/jakeswenson/retroqwest/internal/parser"
)

const (
	// DefaultConfigName is looked up in the working directory when no --config is given
	DefaultConfigName = ".retroqwest.yaml"

	// EnvPrefix prefixes environment overrides, e.g. RETROQWEST_JOBS
	EnvPrefix = "RETROQWEST"

	// RuntimeModule is the module generated code imports
	RuntimeModule = "github.com/jakeswenson/retroqwest"
)

// Config holds the configuration for the CLI commands
type Config struct {
	// Patterns are the package patterns to process, e.g. ./...
	Patterns []string `mapstructure:"patterns"`

	// Dir is the working directory patterns are resolved in
	Dir string `mapstructure:"dir"`

	// Output is the name of the generated file in each package
	Output string `mapstructure:"output"`

	// Check fails when the generated file is missing or stale, and writes nothing
	Check bool `mapstructure:"check"`

	// Jobs bounds the number of packages generated concurrently
	Jobs int `mapstructure:"jobs"`

	Verbose bool `mapstructure:"verbose"`
	Quiet   bool `mapstructure:"quiet"`

	// SkipModuleCheck disables the go.mod require check
	SkipModuleCheck bool `mapstructure:"skip-module-check"`

	Watch   WatchConfig   `mapstructure:"watch"`
	OpenAPI OpenAPIConfig `mapstructure:"openapi"`
}

// WatchConfig configures the watch command
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// OpenAPIConfig configures the openapi command
type OpenAPIConfig struct {
	Format  string `mapstructure:"format"`
	Out     string `mapstructure:"out"`
	Title   string `mapstructure:"title"`
	Version string `mapstructure:"version"`
	Server  string `mapstructure:"server"`
}

// SetDefaults registers the default of every setting on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("patterns", []string{"."})
	v.SetDefault("dir", "")
	v.SetDefault("output", parser.GeneratedFileName)
	v.SetDefault("check", false)
	v.SetDefault("jobs", runtime.GOMAXPROCS(0))
	v.SetDefault("verbose", false)
	v.SetDefault("quiet", false)
	v.SetDefault("skip-module-check", false)
	v.SetDefault("watch.debounce", 300*time.Millisecond)
	v.SetDefault("openapi.format", "yaml")
	v.SetDefault("openapi.out", "")
	v.SetDefault("openapi.title", "")
	v.SetDefault("openapi.version", "0.0.0")
	v.SetDefault("openapi.server", "")
}

// LoadConfig reads configFile, or .retroqwest.yaml when it exists, and
// RETROQWEST_* environment variables into v. Flags bound to v win over both.
func LoadConfig(v *viper.Viper, configFile string) error {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile == "" {
		if _, err := os.Stat(DefaultConfigName); err != nil {
			return nil
		}
		configFile = DefaultConfigName
	}

	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return rqerrors.WrapConfigurationError(configFile, err)
	}
	return nil
}

// DecodeConfig builds a Config from v and validates it
func DecodeConfig(v *viper.Viper) (Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return config, rqerrors.WrapConfigurationError("settings", err)
	}
	if err := config.Validate(); err != nil {
		return config, err
	}
	return config, nil
}

// Validate checks the settings that cannot be defaulted
func (c *Config) Validate() error {
	if c.Jobs < 1 {
		return rqerrors.Newf(rqerrors.ConfigurationErrorCode, "jobs must be at least 1, got %d", c.Jobs)
	}
	if c.Output == "" || strings.ContainsAny(c.Output, `/\`) || !strings.HasSuffix(c.Output, ".go") {
		return rqerrors.Newf(rqerrors.ConfigurationErrorCode, "output must be a .go file name, got %q", c.Output).
			WithSuggestion("The generated file is always written next to the interface, e.g. --output client_gen.go")
	}
	if strings.HasSuffix(c.Output, "_test.go") {
		return rqerrors.Newf(rqerrors.ConfigurationErrorCode, "output %q would be a test file", c.Output)
	}
	if c.Verbose && c.Quiet {
		return rqerrors.New(rqerrors.ConfigurationErrorCode, "verbose and quiet are mutually exclusive")
	}
	switch c.OpenAPI.Format {
	case "json", "yaml":
	default:
		return rqerrors.Newf(rqerrors.ConfigurationErrorCode, "openapi format must be json or yaml, got %q", c.OpenAPI.Format)
	}
	if len(c.Patterns) == 0 {
		c.Patterns = []string{"."}
	}
	return nil
}

// String renders the effective settings for verbose output
func (c Config) String() string {
	return fmt.Sprintf("patterns=%v output=%s check=%t jobs=%d", c.Patterns, c.Output, c.Check, c.Jobs)
}
