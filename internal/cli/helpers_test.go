package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jakeswenson/retroqwest/internal/utils"
)

type capture struct {
	out    bytes.Buffer
	errOut bytes.Buffer
}

func newTestReporter(level utils.DiagnosticLevel) (*DiagnosticReporter, *capture) {
	c := &capture{}
	diagnostics := utils.NewDiagnosticSystem(level)
	diagnostics.SetOutput(&c.out, &c.errOut)
	return NewDiagnosticReporter(diagnostics), c
}

// writeTree creates files below a fresh temp dir and returns the dir
func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

const testGoMod = `module example.com/shop

go 1.22

require github.com/jakeswenson/retroqwest v0.1.0
`

const ordersSource = `package orders

import "context"

//retroqwest::client
type Orders interface {
	//retroqwest::get "/orders/{id}"
	Get(ctx context.Context, id string) (Order, error)

	//retroqwest::get "/orders"
	//retroqwest::query status
	List(ctx context.Context, status string) ([]Order, error)
}

type Order struct {
	ID     string
	Status string
}
`

const plainSource = `package plain

type Service interface {
	Do() error
}
`
