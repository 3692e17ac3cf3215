package cli

import (
	"sort"
	"strings"
	"time"

	rqerrors "github.com/jakeswenson/retroqwest/internal/errors"
	"github.com/jakeswenson/retroqwest/internal/models"
	"github.com/jakeswenson/retroqwest/internal/utils"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	diagnostics *utils.DiagnosticSystem
}

// NewDiagnosticReporter creates a new diagnostic reporter
func NewDiagnosticReporter(diagnostics *utils.DiagnosticSystem) *DiagnosticReporter {
	return &DiagnosticReporter{diagnostics: diagnostics}
}

// Diagnostics returns the underlying output
func (r *DiagnosticReporter) Diagnostics() *utils.DiagnosticSystem {
	return r.diagnostics
}

// ReportWarning prints a non-fatal finding
func (r *DiagnosticReporter) ReportWarning(warning models.Warning) {
	if warning.FileName != "" {
		loc := rqerrors.SourceLocation{File: warning.FileName, Line: warning.Line, Column: warning.Column}
		r.diagnostics.Warn("%s: %s", loc, warning.Message)
		return
	}
	r.diagnostics.Warn("%s", warning.Message)
}

// ReportError prints every error joined into err. Generation errors render as
// file:line:col: message, followed by their suggestions in verbose mode.
func (r *DiagnosticReporter) ReportError(err error) {
	for _, e := range flatten(err) {
		genErr, ok := rqerrors.As(e)
		if !ok {
			r.diagnostics.Error("%s", e)
			continue
		}

		r.diagnostics.Error("%s", genErr)
		if !r.diagnostics.Enabled(utils.DiagnosticVerbose) {
			continue
		}

		for _, suggestion := range genErr.Suggestions() {
			r.diagnostics.Hint("%s", suggestion)
		}
		if context := genErr.Context(); len(context) > 0 {
			keys := make([]string, 0, len(context))
			for key := range context {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				r.diagnostics.Hint("%s: %v", formatContextKey(key), context[key])
			}
		}
		if cause := genErr.Unwrap(); cause != nil && !strings.Contains(genErr.Error(), cause.Error()) {
			r.diagnostics.Hint("cause: %v", cause)
		}
	}
}

// flatten expands errors.Join trees into their leaves
func flatten(err error) []error {
	if err == nil {
		return nil
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var result []error
		for _, e := range joined.Unwrap() {
			result = append(result, flatten(e)...)
		}
		return result
	}
	return []error{err}
}

// formatContextKey converts snake_case context keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// Summary prints the counts of a generation run
func (r *DiagnosticReporter) Summary(summary GenerationSummary) {
	var counts []utils.Count
	add := func(label string, n int) {
		if n > 0 {
			counts = append(counts, utils.Count{Label: label, N: n})
		}
	}
	add("written", len(summary.Written))
	add("unchanged", len(summary.Unchanged))
	add("stale", len(summary.Stale))
	add("removed", len(summary.Removed))
	if len(counts) == 0 {
		r.diagnostics.Info("no client interfaces found")
		return
	}
	r.diagnostics.Summary(counts...)
	if summary.Duration > 0 {
		r.diagnostics.Verbose("finished in %s", summary.Duration.Round(time.Millisecond))
	}
}
