package cli

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	rqerrors "github.com/jakeswenson/retroqwest/internal/errors"
)

// LoadedPackage is one package matched by the patterns
type LoadedPackage struct {
	Name    string
	PkgPath string
	Dir     string
	Files   []*ast.File
	// ModuleDir is the directory holding the package's go.mod, empty outside a module
	ModuleDir string
}

// PackageLoader resolves package patterns with go/packages. Every file is
// parsed into one shared file set so positions stay comparable.
type PackageLoader struct {
	fileSet *token.FileSet
}

// NewPackageLoader creates a loader with a fresh file set
func NewPackageLoader() *PackageLoader {
	return &PackageLoader{fileSet: token.NewFileSet()}
}

// FileSet returns the file set all loaded files belong to
func (l *PackageLoader) FileSet() *token.FileSet {
	return l.fileSet
}

// Load lists and parses the packages matching patterns in dir. Types are
// not checked, so a stale generated file never blocks regeneration.
func (l *PackageLoader) Load(ctx context.Context, dir string, patterns []string) ([]LoadedPackage, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedSyntax |
			packages.NeedModule,
		Dir:  dir,
		Fset: l.fileSet,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, rqerrors.Wrapf(rqerrors.FileSystemErrorCode, err, "failed to load packages %s", strings.Join(patterns, " "))
	}

	var errs []string
	var result []LoadedPackage
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, e.Error())
		}
		if len(pkg.GoFiles) == 0 {
			continue
		}

		loaded := LoadedPackage{
			Name:    pkg.Name,
			PkgPath: pkg.PkgPath,
			Dir:     filepath.Dir(pkg.GoFiles[0]),
			Files:   pkg.Syntax,
		}
		if pkg.Module != nil {
			loaded.ModuleDir = pkg.Module.Dir
		}
		result = append(result, loaded)
	}

	if len(errs) > 0 {
		return nil, rqerrors.Newf(rqerrors.SyntaxErrorCode, "%s", strings.Join(errs, "\n"))
	}
	if len(result) == 0 {
		return nil, rqerrors.Newf(rqerrors.FileSystemErrorCode, "no Go packages match %s", strings.Join(patterns, " ")).
			WithSuggestion(fmt.Sprintf("Run from the module root or pass a pattern such as ./... (dir: %s)", displayDir(dir)))
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Dir < result[j].Dir })
	return result, nil
}

func displayDir(dir string) string {
	if dir == "" {
		return "."
	}
	return dir
}
