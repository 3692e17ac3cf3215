package generator

import (
	"path/filepath"

	rqerrors "github.com/jakeswenson/retroqwest/internal/errors"
	"github.com/jakeswenson/retroqwest/internal/models"
	"github.com/jakeswenson/retroqwest/internal/parser"
	"github.com/jakeswenson/retroqwest/internal/templates"
	"github.com/jakeswenson/retroqwest/internal/utils"
)

// Generator implements the CodeGenerator interface
type Generator struct {
	fileName string
}

var _ CodeGenerator = (*Generator)(nil)

// NewGenerator creates a new code generator writing retroqwest_client.go
func NewGenerator() *Generator {
	return NewGeneratorWithFileName(parser.GeneratedFileName)
}

// NewGeneratorWithFileName creates a generator writing fileName in each package
func NewGeneratorWithFileName(fileName string) *Generator {
	if fileName == "" {
		fileName = parser.GeneratedFileName
	}
	return &Generator{fileName: fileName}
}

// FileName returns the name of the generated file
func (g *Generator) FileName() string {
	return g.fileName
}

// GenerateFile renders and formats the client file for a package. The
// output depends only on metadata, so repeated runs are byte-identical.
func (g *Generator) GenerateFile(metadata *models.PackageMetadata) (*models.GeneratedFile, error) {
	if metadata == nil {
		return nil, rqerrors.New(rqerrors.GenerationErrorCode, "metadata cannot be nil")
	}
	if !metadata.HasClients() {
		return nil, rqerrors.Newf(rqerrors.GenerationErrorCode,
			"no //retroqwest::client interfaces in package %s", metadata.PackageName).
			WithSuggestion("Add //retroqwest::client to the doc comment of an interface")
	}

	filePath := filepath.Join(metadata.PackagePath, g.fileName)

	source, err := templates.RenderFile(metadata)
	if err != nil {
		return nil, rqerrors.WrapGenerateError(filePath, err)
	}

	formatted, err := utils.FormatGoSource(filePath, source)
	if err != nil {
		return nil, rqerrors.WrapGenerateError(filePath, err)
	}

	file := &models.GeneratedFile{
		PackageName: metadata.PackageName,
		FilePath:    filePath,
		Content:     formatted,
	}
	for _, iface := range metadata.Interfaces {
		file.Clients = append(file.Clients, iface.ClientName())
	}

	return file, nil
}
