package cli

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rqerrors "github.com/jakeswenson/retroqwest/internal/errors"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	v := viper.New()
	require.NoError(t, LoadConfig(v, ""))
	config, err := DecodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"."}, config.Patterns)
	assert.Equal(t, "retroqwest_client.go", config.Output)
	assert.GreaterOrEqual(t, config.Jobs, 1)
	assert.False(t, config.Check)
	assert.Equal(t, 300*time.Millisecond, config.Watch.Debounce)
	assert.Equal(t, "yaml", config.OpenAPI.Format)
	assert.Equal(t, "0.0.0", config.OpenAPI.Version)
}

func TestLoadConfig_FileAndEnvironment(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"retroqwest.yaml": `patterns: ["./api/..."]
output: client_gen.go
jobs: 2
watch:
  debounce: 1s
openapi:
  format: json
  title: Shop
`,
	})
	t.Setenv("RETROQWEST_JOBS", "5")
	t.Setenv("RETROQWEST_OPENAPI_SERVER", "https://shop.example.com")

	v := viper.New()
	require.NoError(t, LoadConfig(v, filepath.Join(dir, "retroqwest.yaml")))
	config, err := DecodeConfig(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"./api/..."}, config.Patterns)
	assert.Equal(t, "client_gen.go", config.Output)
	assert.Equal(t, 5, config.Jobs, "environment wins over the file")
	assert.Equal(t, time.Second, config.Watch.Debounce)
	assert.Equal(t, "json", config.OpenAPI.Format)
	assert.Equal(t, "Shop", config.OpenAPI.Title)
	assert.Equal(t, "https://shop.example.com", config.OpenAPI.Server)
}

func TestLoadConfig_DefaultFile(t *testing.T) {
	dir := writeTree(t, map[string]string{DefaultConfigName: "check: true\n"})
	t.Chdir(dir)

	v := viper.New()
	require.NoError(t, LoadConfig(v, ""))
	config, err := DecodeConfig(v)
	require.NoError(t, err)
	assert.True(t, config.Check)
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	dir := writeTree(t, map[string]string{"bad.yaml": "jobs: [\n"})

	err := LoadConfig(viper.New(), filepath.Join(dir, "bad.yaml"))
	require.Error(t, err)
	assert.Equal(t, rqerrors.ConfigurationErrorCode, rqerrors.CodeOf(err))
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{Output: "retroqwest_client.go", Jobs: 1, OpenAPI: OpenAPIConfig{Format: "yaml"}}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero jobs", mutate: func(c *Config) { c.Jobs = 0 }, wantErr: "jobs must be at least 1"},
		{name: "output with directory", mutate: func(c *Config) { c.Output = "gen/client.go" }, wantErr: "output must be a .go file name"},
		{name: "output without extension", mutate: func(c *Config) { c.Output = "client" }, wantErr: "output must be a .go file name"},
		{name: "test file output", mutate: func(c *Config) { c.Output = "client_test.go" }, wantErr: "would be a test file"},
		{name: "verbose and quiet", mutate: func(c *Config) { c.Verbose, c.Quiet = true, true }, wantErr: "mutually exclusive"},
		{name: "openapi format", mutate: func(c *Config) { c.OpenAPI.Format = "toml" }, wantErr: "openapi format must be json or yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(&config)
			err := config.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, []string{"."}, config.Patterns)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, rqerrors.ConfigurationErrorCode, rqerrors.CodeOf(err))
		})
	}
}
