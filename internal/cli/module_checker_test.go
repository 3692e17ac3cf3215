package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleChecker_Check(t *testing.T) {
	t.Run("module requires the runtime", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"go.mod": testGoMod})

		warning, err := NewModuleChecker(RuntimeModule).Check(dir, filepath.Join(dir, "orders"))
		require.NoError(t, err)
		assert.Empty(t, warning)
	})

	t.Run("missing require is reported once", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"go.mod": "module example.com/shop\n\ngo 1.22\n"})
		checker := NewModuleChecker(RuntimeModule)

		warning, err := checker.Check(dir, dir)
		require.NoError(t, err)
		assert.Contains(t, warning, "does not require github.com/jakeswenson/retroqwest")
		assert.Contains(t, warning, "run: go get github.com/jakeswenson/retroqwest")

		warning, err = checker.Check(dir, filepath.Join(dir, "other"))
		require.NoError(t, err)
		assert.Empty(t, warning)
	})

	t.Run("module dir is found from the package", func(t *testing.T) {
		dir := writeTree(t, map[string]string{
			"go.mod":          testGoMod,
			"orders/order.go": "package orders\n",
		})

		warning, err := NewModuleChecker(RuntimeModule).Check("", filepath.Join(dir, "orders"))
		require.NoError(t, err)
		assert.Empty(t, warning)
	})

	t.Run("the runtime module itself", func(t *testing.T) {
		dir := writeTree(t, map[string]string{"go.mod": "module github.com/jakeswenson/retroqwest\n\ngo 1.25\n"})

		warning, err := NewModuleChecker(RuntimeModule).Check(dir, dir)
		require.NoError(t, err)
		assert.Empty(t, warning)
	})
}
