package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakeswenson/retroqwest/internal/models"
	"github.com/jakeswenson/retroqwest/internal/utils"
)

// shopModule does not require the runtime, so every run warns about it
func shopModule(t *testing.T) string {
	t.Helper()
	return writeTree(t, map[string]string{
		"go.mod":           "module example.com/shop\n\ngo 1.22\n",
		"orders/orders.go": ordersSource,
		"plain/plain.go":   plainSource,
	})
}

func testConfig(dir string) Config {
	return Config{
		Patterns: []string{"./..."},
		Dir:      dir,
		Output:   "retroqwest_client.go",
		Jobs:     2,
		OpenAPI:  OpenAPIConfig{Format: "yaml"},
	}
}

func TestGenerator_Run(t *testing.T) {
	dir := shopModule(t)
	reporter, out := newTestReporter(utils.DiagnosticInfo)

	summary, err := NewGenerator(testConfig(dir), reporter).Run(context.Background())
	require.NoError(t, err)

	generated := filepath.Join(dir, "orders", "retroqwest_client.go")
	assert.Equal(t, []string{generated}, summary.Written)
	assert.Empty(t, summary.Stale)
	assert.NoFileExists(t, filepath.Join(dir, "plain", "retroqwest_client.go"))

	content, err := os.ReadFile(generated)
	require.NoError(t, err)
	assert.Contains(t, string(content), "// Code generated by retroqwest. DO NOT EDIT.")
	assert.Contains(t, string(content), "type OrdersClient struct {")
	assert.Contains(t, string(content), `{Name: "status", Kind: retroqwest.QueryParam}`)

	assert.Contains(t, out.out.String(), "- wrote "+filepath.Join("orders", "retroqwest_client.go")+" (1 clients)")
	assert.Contains(t, out.errOut.String(), "does not require github.com/jakeswenson/retroqwest")
}

func TestGenerator_Check(t *testing.T) {
	dir := shopModule(t)
	reporter, out := newTestReporter(utils.DiagnosticInfo)

	config := testConfig(dir)
	config.Check = true
	config.SkipModuleCheck = true

	summary, err := NewGenerator(config, reporter).Run(context.Background())
	require.ErrorIs(t, err, ErrStale)

	assert.Equal(t, []string{filepath.Join(dir, "orders", "retroqwest_client.go")}, summary.Stale)
	assert.Empty(t, summary.Written)
	assert.NoFileExists(t, filepath.Join(dir, "orders", "retroqwest_client.go"), "check mode writes nothing")
	assert.Contains(t, out.errOut.String(), "is out of date")
	assert.NotContains(t, out.errOut.String(), "does not require")
}

const brokenSource = `package broken

//retroqwest::client
type Broken interface {
	Missing() (string, error)
}
`

func TestGenerator_ParseErrorsAreReported(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"go.mod":           "module example.com/shop\n\ngo 1.22\n",
		"broken/broken.go": brokenSource,
		"orders/orders.go": ordersSource,
	})
	reporter, out := newTestReporter(utils.DiagnosticInfo)

	config := testConfig(dir)
	config.SkipModuleCheck = true
	summary, err := NewGenerator(config, reporter).Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "orders", "retroqwest_client.go")}, summary.Written,
		"healthy packages are still generated")
	assert.Contains(t, out.errOut.String(), "broken.go")
	assert.Contains(t, out.errOut.String(), "missing HTTP method attribute")
}

func TestGenerator_NoPackages(t *testing.T) {
	dir := writeTree(t, map[string]string{"go.mod": "module example.com/empty\n\ngo 1.22\n"})
	reporter, _ := newTestReporter(utils.DiagnosticError)

	_, err := NewGenerator(testConfig(dir), reporter).Run(context.Background())
	assert.Error(t, err)
}

func TestGenerator_Apply(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "retroqwest_client.go")
	content := []byte("// Code generated by retroqwest. DO NOT EDIT.\n\npackage orders\n")
	result := packageResult{
		pkg:  LoadedPackage{PkgPath: "example.com/shop/orders", Dir: dir},
		file: &models.GeneratedFile{PackageName: "orders", FilePath: path, Content: content, Clients: []string{"OrdersClient"}},
	}

	reporter, _ := newTestReporter(utils.DiagnosticError)
	g := NewGenerator(testConfig(dir), reporter)

	summary, err := g.apply([]packageResult{result})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, summary.Written)

	summary, err = g.apply([]packageResult{result})
	require.NoError(t, err)
	assert.Empty(t, summary.Written)
	assert.Equal(t, []string{path}, summary.Unchanged, "identical output is not rewritten")

	g.config.Check = true
	summary, err = g.apply([]packageResult{result})
	require.NoError(t, err)
	assert.Equal(t, []string{path}, summary.Unchanged)
}

func TestGenerator_OrphanedFile(t *testing.T) {
	content := "// Code generated by retroqwest. DO NOT EDIT.\n\npackage orders\n\nvar _ Orders = (*OrdersClient)(nil)\n"

	t.Run("removed", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"retroqwest_client.go": content})
		path := filepath.Join(dir, "retroqwest_client.go")
		reporter, _ := newTestReporter(utils.DiagnosticError)

		summary, err := NewGenerator(testConfig(dir), reporter).apply([]packageResult{{pkg: LoadedPackage{Dir: dir}}})
		require.NoError(t, err)
		assert.Equal(t, []string{path}, summary.Removed)
		assert.NoFileExists(t, path)
	})

	t.Run("stale in check mode", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"retroqwest_client.go": content})
		path := filepath.Join(dir, "retroqwest_client.go")
		reporter, out := newTestReporter(utils.DiagnosticError)
		config := testConfig(dir)
		config.Check = true

		summary, err := NewGenerator(config, reporter).apply([]packageResult{{pkg: LoadedPackage{Dir: dir}}})
		assert.ErrorIs(t, err, ErrStale)
		assert.Equal(t, []string{path}, summary.Stale)
		assert.FileExists(t, path)
		assert.Contains(t, out.errOut.String(), "declares no clients")
	})

	t.Run("hand-written file kept", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"retroqwest_client.go": "package orders\n"})
		reporter, _ := newTestReporter(utils.DiagnosticError)

		summary, err := NewGenerator(testConfig(dir), reporter).apply([]packageResult{{pkg: LoadedPackage{Dir: dir}}})
		require.NoError(t, err)
		assert.Empty(t, summary.Removed)
		assert.FileExists(t, filepath.Join(dir, "retroqwest_client.go"))
	})

	t.Run("nothing to remove", func(t *testing.T) {
		dir := t.TempDir()
		reporter, _ := newTestReporter(utils.DiagnosticError)

		summary, err := NewGenerator(testConfig(dir), reporter).apply([]packageResult{{pkg: LoadedPackage{Dir: dir}}})
		require.NoError(t, err)
		assert.Empty(t, summary.Removed)
	})
}
