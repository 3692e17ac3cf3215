package templates

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jakeswenson/retroqwest/internal/models"
)

// ImportManager handles import generation and deduplication
type ImportManager struct {
	standardImports map[string]string // path -> explicit name
	packageImports  map[string]string // path -> explicit name
}

// NewImportManager creates a new import manager
func NewImportManager() *ImportManager {
	return &ImportManager{
		standardImports: make(map[string]string),
		packageImports:  make(map[string]string),
	}
}

// AddImport adds an import. name is empty unless the import is renamed.
func (im *ImportManager) AddImport(name, importPath string) {
	if importPath == "" {
		return
	}
	target := im.packageImports
	if isStandardLibraryPackage(importPath) {
		target = im.standardImports
	}
	if _, exists := target[importPath]; !exists {
		target[importPath] = name
	}
}

// Names returns the local names of every import, sorted
func (im *ImportManager) Names() []string {
	var names []string
	for _, imp := range im.all() {
		names = append(names, imp.LocalName())
	}
	sort.Strings(names)
	return names
}

// Validate reports two import paths sharing one local name
func (im *ImportManager) Validate() error {
	seen := make(map[string]string)
	for _, imp := range im.all() {
		name := imp.LocalName()
		if other, exists := seen[name]; exists {
			return fmt.Errorf("imports %q and %q are both named %s; rename one of them", other, imp.Path, name)
		}
		seen[name] = imp.Path
	}
	return nil
}

// GenerateImports generates the import section, standard library first
func (im *ImportManager) GenerateImports() string {
	groups := [][]models.Import{sorted(im.standardImports), sorted(im.packageImports)}

	var lines []string
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		for _, imp := range group {
			if imp.Name != "" {
				lines = append(lines, fmt.Sprintf("\t%s %q", imp.Name, imp.Path))
			} else {
				lines = append(lines, fmt.Sprintf("\t%q", imp.Path))
			}
		}
	}

	if len(lines) == 0 {
		return ""
	}

	var result strings.Builder
	result.WriteString("import (\n")
	for _, line := range lines {
		result.WriteString(line)
		result.WriteString("\n")
	}
	result.WriteString(")\n")

	return result.String()
}

func (im *ImportManager) all() []models.Import {
	return append(sorted(im.standardImports), sorted(im.packageImports)...)
}

func sorted(imports map[string]string) []models.Import {
	result := make([]models.Import, 0, len(imports))
	for importPath, name := range imports {
		result = append(result, models.Import{Name: name, Path: importPath})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result
}

// isStandardLibraryPackage reports whether the first path element lacks a dot
func isStandardLibraryPackage(importPath string) bool {
	first, _, _ := strings.Cut(importPath, "/")
	return !strings.Contains(first, ".")
}
