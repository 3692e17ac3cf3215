package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	rqerrors "github.com/jakeswenson/retroqwest/internal/errors"
)

// RegenerateFunc regenerates the packages in dirs
type RegenerateFunc func(ctx context.Context, dirs []string) error

// Watcher regenerates packages whose Go files change. Bursts of events
// within the debounce window trigger a single regeneration.
type Watcher struct {
	fileName   string
	debounce   time.Duration
	reporter   *DiagnosticReporter
	regenerate RegenerateFunc
}

// NewWatcher creates a watcher ignoring changes to the generated fileName
func NewWatcher(fileName string, debounce time.Duration, reporter *DiagnosticReporter, regenerate RegenerateFunc) *Watcher {
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Watcher{
		fileName:   fileName,
		debounce:   debounce,
		reporter:   reporter,
		regenerate: regenerate,
	}
}

// Run watches roots and their subdirectories until ctx is done. Relative
// roots are resolved against the working directory, and regenerate always
// receives absolute directories.
func (w *Watcher) Run(ctx context.Context, roots []string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return rqerrors.Wrap(rqerrors.FileSystemErrorCode, "failed to start file watcher", err)
	}
	defer fsw.Close()

	for _, root := range roots {
		// go/packages reads a bare relative directory as an import path
		abs, err := filepath.Abs(root)
		if err != nil {
			return rqerrors.WrapFileSystemError("watch", root, err)
		}
		if err := w.addTree(fsw, abs); err != nil {
			return err
		}
	}
	diagnostics := w.reporter.Diagnostics()
	diagnostics.Info("watching %d directories", len(fsw.WatchList()))

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(fsw, event.Name); err != nil {
						diagnostics.Warn("%v", err)
					}
				}
			}
			if !w.relevant(event) {
				continue
			}
			diagnostics.Debug("%s %s", event.Op, event.Name)
			pending[filepath.Dir(event.Name)] = true
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			diagnostics.Warn("watch error: %v", err)

		case <-timer.C:
			dirs := make([]string, 0, len(pending))
			for dir := range pending {
				dirs = append(dirs, dir)
			}
			sort.Strings(dirs)
			clear(pending)

			diagnostics.Verbose("regenerating %s", strings.Join(dirs, ", "))
			if err := w.regenerate(ctx, dirs); err != nil {
				diagnostics.Verbose("regeneration failed: %v", err)
			}
		}
	}
}

// relevant reports whether event touches a non-generated, non-test Go file
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
		return false
	}
	return name != w.fileName
}

// addTree watches root and every package directory below it. Files are ignored.
func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return rqerrors.WrapFileSystemError("watch", path, err)
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if path != root && (name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return rqerrors.WrapFileSystemError("watch", path, err)
		}
		return nil
	})
}
