package cli

import (
	"context"
	"io"

	rqerrors "github.com/jakeswenson/retroqwest/internal/errors"
	"github.com/jakeswenson/retroqwest/internal/openapi"
	"github.com/jakeswenson/retroqwest/internal/parser"
	"github.com/jakeswenson/retroqwest/internal/utils"
)

// Exporter writes the OpenAPI document of one package
type Exporter struct {
	config   Config
	loader   *PackageLoader
	reporter *DiagnosticReporter
}

// NewExporter creates an exporter using config.OpenAPI
func NewExporter(config Config, reporter *DiagnosticReporter) *Exporter {
	return &Exporter{config: config, loader: NewPackageLoader(), reporter: reporter}
}

// Export describes the package matching pattern. The document goes to
// config.OpenAPI.Out, or to stdout when no file is configured.
func (e *Exporter) Export(ctx context.Context, pattern string, stdout io.Writer) error {
	data, err := e.render(ctx, pattern)
	if err != nil {
		e.reporter.ReportError(err)
		return err
	}

	out := e.config.OpenAPI.Out
	if out == "" {
		_, err := stdout.Write(data)
		return err
	}
	written, err := utils.WriteFileIfChanged(out, data)
	if err != nil {
		err = rqerrors.WrapFileSystemError("write", out, err)
		e.reporter.ReportError(err)
		return err
	}
	if written {
		e.reporter.Diagnostics().List("wrote %s", relative(e.config.Dir, out))
	} else {
		e.reporter.Diagnostics().Verbose("%s is up to date", relative(e.config.Dir, out))
	}
	return nil
}

func (e *Exporter) render(ctx context.Context, pattern string) ([]byte, error) {
	if pattern == "" {
		pattern = "."
	}
	pkgs, err := e.loader.Load(ctx, e.config.Dir, []string{pattern})
	if err != nil {
		return nil, err
	}
	if len(pkgs) > 1 {
		return nil, rqerrors.Newf(rqerrors.ConfigurationErrorCode, "%s matches %d packages; openapi describes one package", pattern, len(pkgs)).
			WithSuggestion("Pass a single package directory, e.g. ./api")
	}

	pkg := pkgs[0]
	metadata, err := parser.NewParserWithFileSet(e.loader.FileSet()).ParseFiles(pkg.Dir, pkg.Files)
	if err != nil {
		return nil, err
	}
	for _, warning := range metadata.Warnings {
		e.reporter.ReportWarning(warning)
	}

	opts := openapi.Options{
		Title:   e.config.OpenAPI.Title,
		Version: e.config.OpenAPI.Version,
		Server:  e.config.OpenAPI.Server,
	}
	doc, err := openapi.Build(ctx, metadata, opts)
	if err != nil {
		return nil, err
	}
	return openapi.Marshal(doc, e.config.OpenAPI.Format)
}
