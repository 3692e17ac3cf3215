package utils

import (
	"fmt"
	"go/parser"
	"go/token"

	"golang.org/x/tools/imports"
)

// FormatGoSource formats generated source and sorts its import groups the
// way goimports does. filename is only used in error messages.
func FormatGoSource(filename string, source []byte) ([]byte, error) {
	formatted, err := imports.Process(filename, source, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		// Report the syntax error against the unformatted text
		fset := token.NewFileSet()
		if _, parseErr := parser.ParseFile(fset, filename, source, parser.ParseComments); parseErr != nil {
			return nil, fmt.Errorf("invalid Go syntax: %w", parseErr)
		}
		return nil, fmt.Errorf("failed to format %s: %w", filename, err)
	}
	return formatted, nil
}
