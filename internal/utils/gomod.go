package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

// GoModParser provides utilities for parsing go.mod files
type GoModParser struct{}

// NewGoModParser creates a new go.mod parser
func NewGoModParser() *GoModParser {
	return &GoModParser{}
}

// Parse reads and parses a go.mod file
func (p *GoModParser) Parse(goModPath string) (*modfile.File, error) {
	cleanPath := filepath.Clean(goModPath)
	if filepath.Base(cleanPath) != "go.mod" {
		return nil, fmt.Errorf("file is not a go.mod file: %s", goModPath)
	}

	content, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read go.mod file: %w", err)
	}

	modFile, err := modfile.Parse(cleanPath, content, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse go.mod file: %w", err)
	}

	if modFile.Module == nil {
		return nil, fmt.Errorf("no module declaration found in %s", goModPath)
	}

	return modFile, nil
}

// ParseModuleName extracts the module name from a go.mod file
func (p *GoModParser) ParseModuleName(goModPath string) (string, error) {
	modFile, err := p.Parse(goModPath)
	if err != nil {
		return "", err
	}
	return modFile.Module.Mod.Path, nil
}

// Requires reports whether the module is modulePath itself, or requires it
// directly or through a replace directive
func (p *GoModParser) Requires(goModPath, modulePath string) (bool, error) {
	modFile, err := p.Parse(goModPath)
	if err != nil {
		return false, err
	}

	if modFile.Module.Mod.Path == modulePath || strings.HasPrefix(modFile.Module.Mod.Path, modulePath+"/") {
		return true, nil
	}
	for _, req := range modFile.Require {
		if req.Mod.Path == modulePath {
			return true, nil
		}
	}
	for _, rep := range modFile.Replace {
		if rep.Old.Path == modulePath {
			return true, nil
		}
	}
	return false, nil
}

// FindGoModFile searches for go.mod file starting from the given directory and walking up
func (p *GoModParser) FindGoModFile(startDir string) (string, error) {
	currentDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(currentDir, "go.mod")
		if info, err := os.Stat(goModPath); err == nil && !info.IsDir() {
			return goModPath, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", fmt.Errorf("go.mod file not found above %s", startDir)
}
