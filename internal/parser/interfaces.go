package parser

import (
	"go/ast"

	"github.com/jakeswenson/retroqwest/internal/models"
)

// InterfaceParser extracts annotated client interfaces from Go source
type InterfaceParser interface {
	ParseDirectory(path string) (*models.PackageMetadata, error)
	ParseSource(filename, source string) (*models.PackageMetadata, error)
	ParseFiles(dir string, files []*ast.File) (*models.PackageMetadata, error)
}
