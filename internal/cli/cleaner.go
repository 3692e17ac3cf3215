package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	rqerrors "github.com/jakeswenson/retroqwest/internal/errors"
	"github.com/jakeswenson/retroqwest/internal/templates"
	"github.com/jakeswenson/retroqwest/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileName string
	reporter *DiagnosticReporter
}

// NewCleaner creates a cleaner removing files named fileName
func NewCleaner(fileName string, reporter *DiagnosticReporter) *Cleaner {
	return &Cleaner{fileName: fileName, reporter: reporter}
}

// Clean removes generated files below the directories named by patterns.
// A pattern ending in /... is walked recursively. Files without the
// generated header are left alone even if their name matches.
func (c *Cleaner) Clean(dir string, patterns []string) ([]string, error) {
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	var removed []string
	for _, pattern := range patterns {
		root, recursive := strings.CutSuffix(pattern, "/...")
		if root == "" {
			root = "."
		}
		if dir != "" && !filepath.IsAbs(root) {
			root = filepath.Join(dir, root)
		}

		files, err := c.candidates(root, recursive)
		if err != nil {
			return removed, err
		}
		for _, file := range files {
			ok, err := c.removeIfGenerated(file)
			if err != nil {
				return removed, err
			}
			if ok {
				removed = append(removed, file)
			}
		}
	}

	sort.Strings(removed)
	return removed, nil
}

func (c *Cleaner) candidates(root string, recursive bool) ([]string, error) {
	if !recursive {
		file := filepath.Join(root, c.fileName)
		if _, err := os.Stat(file); err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, rqerrors.WrapFileSystemError("stat", file, err)
		}
		return []string{file}, nil
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == c.fileName {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, rqerrors.WrapFileSystemError("walk", root, err)
	}
	return files, nil
}

func (c *Cleaner) removeIfGenerated(file string) (bool, error) {
	generated, err := utils.IsGeneratedFile(file, templates.GeneratedHeader)
	if err != nil {
		return false, rqerrors.WrapFileSystemError("read", file, err)
	}
	if !generated {
		c.reporter.Diagnostics().Warn("%s has no generated header, keeping it", file)
		return false, nil
	}
	if err := os.Remove(file); err != nil {
		return false, rqerrors.WrapFileSystemError("remove", file, err)
	}
	c.reporter.Diagnostics().List("removed %s", file)
	return true, nil
}
