package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakeswenson/retroqwest/internal/utils"
)

func TestExporter_Export(t *testing.T) {
	dir := shopModule(t)

	t.Run("stdout", func(t *testing.T) {
		reporter, _ := newTestReporter(utils.DiagnosticError)
		config := testConfig(dir)
		config.OpenAPI.Title = "Shop"

		var stdout bytes.Buffer
		require.NoError(t, NewExporter(config, reporter).Export(context.Background(), "./orders", &stdout))

		assert.Contains(t, stdout.String(), "openapi: 3.0.3\n")
		assert.Contains(t, stdout.String(), "title: Shop\n")
		assert.Contains(t, stdout.String(), "operationId: ordersGet")
		assert.Contains(t, stdout.String(), "operationId: ordersList")
	})

	t.Run("file", func(t *testing.T) {
		reporter, out := newTestReporter(utils.DiagnosticInfo)
		config := testConfig(dir)
		config.OpenAPI.Format = "json"
		config.OpenAPI.Out = filepath.Join(t.TempDir(), "orders.json")

		var stdout bytes.Buffer
		require.NoError(t, NewExporter(config, reporter).Export(context.Background(), "./orders", &stdout))
		assert.Empty(t, stdout.String())

		data, err := os.ReadFile(config.OpenAPI.Out)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"operationId": "ordersGet"`)
		assert.Contains(t, out.out.String(), "- wrote ")
	})

	t.Run("several packages", func(t *testing.T) {
		reporter, out := newTestReporter(utils.DiagnosticError)
		err := NewExporter(testConfig(dir), reporter).Export(context.Background(), "./...", &bytes.Buffer{})
		require.Error(t, err)
		assert.Contains(t, out.errOut.String(), "matches 2 packages")
	})

	t.Run("no clients", func(t *testing.T) {
		reporter, _ := newTestReporter(utils.DiagnosticError)
		err := NewExporter(testConfig(dir), reporter).Export(context.Background(), "./plain", &bytes.Buffer{})
		assert.Error(t, err)
	})
}
