package cli

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	rqerrors "github.com/jakeswenson/retroqwest/internal/errors"
	"github.com/jakeswenson/retroqwest/internal/generator"
	"github.com/jakeswenson/retroqwest/internal/models"
	"github.com/jakeswenson/retroqwest/internal/parser"
	"github.com/jakeswenson/retroqwest/internal/templates"
	"github.com/jakeswenson/retroqwest/internal/utils"
)

// ErrStale is returned by check runs when a generated file is missing or out of date
var ErrStale = errors.New("generated files are out of date; run retroqwest gen")

// GenerationSummary tracks the files touched by a run
type GenerationSummary struct {
	Written   []string
	Unchanged []string
	Stale     []string
	Removed   []string
	Duration  time.Duration
}

func (s *GenerationSummary) sort() {
	sort.Strings(s.Written)
	sort.Strings(s.Unchanged)
	sort.Strings(s.Stale)
	sort.Strings(s.Removed)
}

// Generator coordinates the CLI generation process
type Generator struct {
	config        Config
	loader        *PackageLoader
	codeGenerator generator.CodeGenerator
	modules       *ModuleChecker
	reporter      *DiagnosticReporter
}

// NewGenerator creates a new CLI generator
func NewGenerator(config Config, reporter *DiagnosticReporter) *Generator {
	return &Generator{
		config:        config,
		loader:        NewPackageLoader(),
		codeGenerator: generator.NewGeneratorWithFileName(config.Output),
		modules:       NewModuleChecker(RuntimeModule),
		reporter:      reporter,
	}
}

type packageResult struct {
	pkg      LoadedPackage
	file     *models.GeneratedFile
	warnings []models.Warning
	err      error
}

// Run loads the configured patterns and generates every package with client
// interfaces, at most config.Jobs at a time. Errors of all packages are
// reported; the returned error joins them.
func (g *Generator) Run(ctx context.Context) (GenerationSummary, error) {
	return g.RunPatterns(ctx, g.config.Patterns)
}

// RunPatterns is Run over patterns instead of the configured ones
func (g *Generator) RunPatterns(ctx context.Context, patterns []string) (GenerationSummary, error) {
	start := time.Now()
	diagnostics := g.reporter.Diagnostics()
	diagnostics.Verbose("%s", g.config)

	pkgs, err := g.loader.Load(ctx, g.config.Dir, patterns)
	if err != nil {
		g.reporter.ReportError(err)
		return GenerationSummary{}, err
	}
	diagnostics.Debug("loaded %d packages", len(pkgs))

	results := make([]packageResult, len(pkgs))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(g.config.Jobs)
	for i := range pkgs {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = g.generatePackage(pkgs[i])
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return GenerationSummary{}, err
	}

	summary, err := g.apply(results)
	summary.Duration = time.Since(start)
	summary.sort()
	return summary, err
}

func (g *Generator) generatePackage(pkg LoadedPackage) packageResult {
	result := packageResult{pkg: pkg}

	p := parser.NewParserWithFileSet(g.loader.FileSet())
	metadata, err := p.ParseFiles(pkg.Dir, pkg.Files)
	if err != nil {
		result.err = err
		return result
	}
	result.warnings = metadata.Warnings
	if !metadata.HasClients() {
		return result
	}

	if !g.config.SkipModuleCheck {
		warning, err := g.modules.Check(pkg.ModuleDir, pkg.Dir)
		if err != nil {
			result.err = err
			return result
		}
		if warning != "" {
			result.warnings = append(result.warnings, models.Warning{Message: warning})
		}
	}

	result.file, result.err = g.codeGenerator.GenerateFile(metadata)
	return result
}

// apply reports and writes results in package order
func (g *Generator) apply(results []packageResult) (GenerationSummary, error) {
	var summary GenerationSummary
	var errs []error
	diagnostics := g.reporter.Diagnostics()

	for _, result := range results {
		for _, warning := range result.warnings {
			g.reporter.ReportWarning(warning)
		}
		if result.err != nil {
			errs = append(errs, result.err)
			continue
		}
		if result.file == nil {
			diagnostics.Debug("%s: no client interfaces", result.pkg.PkgPath)
			if err := g.removeOrphan(&summary, result.pkg.Dir); err != nil {
				errs = append(errs, err)
			}
			continue
		}

		path := result.file.FilePath
		if g.config.Check {
			existing, err := os.ReadFile(path)
			if err != nil && !os.IsNotExist(err) {
				errs = append(errs, rqerrors.WrapFileSystemError("read", path, err))
				continue
			}
			if bytes.Equal(existing, result.file.Content) {
				summary.Unchanged = append(summary.Unchanged, path)
			} else {
				summary.Stale = append(summary.Stale, path)
				diagnostics.Error("%s is out of date", relative(g.config.Dir, path))
			}
			continue
		}

		written, err := utils.WriteFileIfChanged(path, result.file.Content)
		if err != nil {
			errs = append(errs, rqerrors.WrapFileSystemError("write", path, err))
			continue
		}
		if written {
			summary.Written = append(summary.Written, path)
			diagnostics.List("wrote %s (%d clients)", relative(g.config.Dir, path), len(result.file.Clients))
		} else {
			summary.Unchanged = append(summary.Unchanged, path)
			diagnostics.Verbose("%s is up to date", relative(g.config.Dir, path))
		}
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		g.reporter.ReportError(err)
		return summary, err
	}
	if len(summary.Stale) > 0 {
		return summary, ErrStale
	}
	return summary, nil
}

// removeOrphan deletes the generated file of a package that no longer
// declares clients. Check runs report it as stale instead. Files without the
// generated header are left alone.
func (g *Generator) removeOrphan(summary *GenerationSummary, dir string) error {
	name := g.config.Output
	if name == "" {
		name = parser.GeneratedFileName
	}
	path := filepath.Join(dir, name)

	generated, err := utils.IsGeneratedFile(path, templates.GeneratedHeader)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return rqerrors.WrapFileSystemError("read", path, err)
	}
	if !generated {
		return nil
	}

	diagnostics := g.reporter.Diagnostics()
	if g.config.Check {
		summary.Stale = append(summary.Stale, path)
		diagnostics.Error("%s is left over; its package declares no clients", relative(g.config.Dir, path))
		return nil
	}
	if err := os.Remove(path); err != nil {
		return rqerrors.WrapFileSystemError("remove", path, err)
	}
	summary.Removed = append(summary.Removed, path)
	diagnostics.List("removed %s (no client interfaces)", relative(g.config.Dir, path))
	return nil
}

// relative shortens path for display, falling back to path itself
func relative(base, path string) string {
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return path
		}
		base = wd
	}
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
