package cli

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/jakeswenson/retroqwest/internal/utils"
)

// ModuleChecker warns when a module with generated clients cannot import the runtime
type ModuleChecker struct {
	gomod   *utils.GoModParser
	module  string
	mu      sync.Mutex
	checked map[string]bool
}

// NewModuleChecker creates a checker for imports of module
func NewModuleChecker(module string) *ModuleChecker {
	return &ModuleChecker{
		gomod:   utils.NewGoModParser(),
		module:  module,
		checked: make(map[string]bool),
	}
}

// Check returns a warning for the module at moduleDir, or "" when the module
// requires the runtime. Each module is only reported once.
func (m *ModuleChecker) Check(moduleDir, packageDir string) (string, error) {
	if moduleDir == "" {
		found, err := m.gomod.FindGoModFile(packageDir)
		if err != nil {
			return fmt.Sprintf("%s is not inside a Go module; generated code imports %s", packageDir, m.module), nil
		}
		moduleDir = filepath.Dir(found)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.checked[moduleDir] {
		return "", nil
	}

	goMod := filepath.Join(moduleDir, "go.mod")
	ok, err := m.gomod.Requires(goMod, m.module)
	if err != nil {
		return "", err
	}

	m.checked[moduleDir] = true
	if ok {
		return "", nil
	}
	return fmt.Sprintf("%s does not require %s; run: go get %s", goMod, m.module, m.module), nil
}
