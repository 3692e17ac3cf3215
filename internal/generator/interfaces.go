package generator

import "github.com/jakeswenson/retroqwest/internal/models"

// CodeGenerator defines the interface for generating client files from parsed interfaces
type CodeGenerator interface {
	GenerateFile(metadata *models.PackageMetadata) (*models.GeneratedFile, error)
}
