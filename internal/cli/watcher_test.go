package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakeswenson/retroqwest/internal/utils"
)

func TestWatcher_Relevant(t *testing.T) {
	w := NewWatcher("retroqwest_client.go", 0, nil, nil)
	assert.Equal(t, 300*time.Millisecond, w.debounce)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"source write", fsnotify.Event{Name: "api/users.go", Op: fsnotify.Write}, true},
		{"source created", fsnotify.Event{Name: "api/orders.go", Op: fsnotify.Create}, true},
		{"source removed", fsnotify.Event{Name: "api/orders.go", Op: fsnotify.Remove}, true},
		{"chmod only", fsnotify.Event{Name: "api/users.go", Op: fsnotify.Chmod}, false},
		{"generated file", fsnotify.Event{Name: "api/retroqwest_client.go", Op: fsnotify.Write}, false},
		{"test file", fsnotify.Event{Name: "api/users_test.go", Op: fsnotify.Write}, false},
		{"not go", fsnotify.Event{Name: "api/README.md", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.relevant(tt.event))
		})
	}
}

func TestWatcher_Run(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"api/users.go":       "package api\n",
		"api/.cache/x.go":    "package cache\n",
		"vendor/dep/dep.go":  "package dep\n",
		"testdata/golden.go": "package golden\n",
	})

	var mu sync.Mutex
	var batches [][]string
	regenerate := func(ctx context.Context, dirs []string) error {
		mu.Lock()
		defer mu.Unlock()
		batches = append(batches, dirs)
		return nil
	}
	calls := func() [][]string {
		mu.Lock()
		defer mu.Unlock()
		return append([][]string(nil), batches...)
	}

	reporter, _ := newTestReporter(utils.DiagnosticSilent)
	w := NewWatcher("retroqwest_client.go", 20*time.Millisecond, reporter, regenerate)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, []string{dir}) }()

	source := filepath.Join(dir, "api", "users.go")
	generated := filepath.Join(dir, "api", "retroqwest_client.go")
	assert.Eventually(t, func() bool {
		// Rewrite until the watcher has registered the directory
		_ = os.WriteFile(generated, []byte("package api\n"), 0o644)
		_ = os.WriteFile(source, []byte("package api\n\ntype T int\n"), 0o644)
		return len(calls()) > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	for _, batch := range calls() {
		assert.Equal(t, []string{filepath.Join(dir, "api")}, batch)
	}
}

func TestWatcher_RelativeRootRegeneratesPackage(t *testing.T) {
	dir := writeTree(t, map[string]string{
		"go.mod":           "module example.com/shop\n\ngo 1.22\n",
		"orders/orders.go": "package orders\n",
	})
	t.Chdir(dir)

	config := testConfig("")
	config.SkipModuleCheck = true
	reporter, _ := newTestReporter(utils.DiagnosticSilent)
	generator := NewGenerator(config, reporter)

	var mu sync.Mutex
	var batches [][]string
	regenerate := func(ctx context.Context, dirs []string) error {
		mu.Lock()
		batches = append(batches, dirs)
		mu.Unlock()
		_, err := generator.RunPatterns(ctx, dirs)
		return err
	}

	w := NewWatcher(config.Output, 20*time.Millisecond, reporter, regenerate)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, []string{"."}) }()

	generated := filepath.Join(dir, "orders", "retroqwest_client.go")
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join("orders", "orders.go"), []byte(ordersSource), 0o644)
		_, err := os.Stat(generated)
		return err == nil
	}, 10*time.Second, 100*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	content, err := os.ReadFile(generated)
	require.NoError(t, err)
	assert.Contains(t, string(content), "func (c *OrdersClient) List(")

	mu.Lock()
	defer mu.Unlock()
	for _, batch := range batches {
		for _, batchDir := range batch {
			assert.True(t, filepath.IsAbs(batchDir), batchDir)
		}
	}
}
