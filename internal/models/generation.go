package models

// GeneratedFile is the output for one package
type GeneratedFile struct {
	PackageName string   // name of the package
	FilePath    string   // path where the file should be written
	Content     []byte   // formatted Go source
	Clients     []string // names of the generated client structs
}
