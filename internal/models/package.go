package models

import (
	"path"
	"strings"
)

// PackageMetadata represents all client interfaces found in a package
type PackageMetadata struct {
	PackageName string              // name of the Go package
	PackagePath string              // file system path to the package
	Interfaces  []InterfaceMetadata // annotated interfaces in declaration order
	Imports     []Import            // imports referenced by method signatures
	Warnings    []Warning           // non-fatal findings
}

// HasClients reports whether the package has anything to generate
func (p *PackageMetadata) HasClients() bool {
	return len(p.Interfaces) > 0
}

// Import is a package imported by the generated file
type Import struct {
	Name string // explicit import name, empty when it matches the package name
	Path string // import path
}

// Warning is a non-fatal finding reported alongside generation
type Warning struct {
	Message  string
	FileName string
	Line     int
	Column   int
}

// LocalName returns the identifier the import is referenced by
func (i Import) LocalName() string {
	if i.Name != "" {
		return i.Name
	}
	return DefaultImportName(i.Path)
}

// DefaultImportName guesses the package name of an import path:
// the last element without a major version suffix or go- prefix
func DefaultImportName(importPath string) string {
	base := path.Base(importPath)
	if len(base) > 1 && base[0] == 'v' && isDigits(base[1:]) {
		base = path.Base(path.Dir(importPath))
	}
	if i := strings.Index(base, ".v"); i > 0 && isDigits(base[i+2:]) {
		base = base[:i]
	}
	base = strings.TrimPrefix(base, "go-")
	return strings.ReplaceAll(base, "-", "_")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
