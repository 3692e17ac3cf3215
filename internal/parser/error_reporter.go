package parser

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/jakeswenson/retroqwest/internal/annotations"
	rqerrors "github.com/jakeswenson/retroqwest/internal/errors"
)

// ErrorReporter builds located diagnostics with fix suggestions
type ErrorReporter struct {
	fileSet *token.FileSet
}

// NewErrorReporter creates a new error reporter for positions in fileSet
func NewErrorReporter(fileSet *token.FileSet) *ErrorReporter {
	return &ErrorReporter{fileSet: fileSet}
}

// Location converts a token position into a source location
func (r *ErrorReporter) Location(pos token.Pos) rqerrors.SourceLocation {
	position := r.fileSet.Position(pos)
	return rqerrors.SourceLocation{
		File:   position.Filename,
		Line:   position.Line,
		Column: position.Column,
	}
}

// AnnotationLocation converts a token position into an annotation location
func (r *ErrorReporter) AnnotationLocation(pos token.Pos) annotations.SourceLocation {
	position := r.fileSet.Position(pos)
	return annotations.SourceLocation{
		File:   position.Filename,
		Line:   position.Line,
		Column: position.Column,
	}
}

// Validation creates a validation error at pos
func (r *ErrorReporter) Validation(pos token.Pos, format string, args ...interface{}) *rqerrors.BaseError {
	return rqerrors.At(rqerrors.ValidationErrorCode, r.Location(pos), format, args...)
}

// Annotation converts an annotation parse failure
func (r *ErrorReporter) Annotation(err error, pos token.Pos) *rqerrors.BaseError {
	return rqerrors.FromAnnotation(err, r.Location(pos))
}

// MissingVerb reports a method without a verb annotation
func (r *ErrorReporter) MissingVerb(pos token.Pos, method string) *rqerrors.BaseError {
	return r.Validation(pos, MsgMissingVerb).
		WithContext("method", method).
		WithSuggestion(fmt.Sprintf("Add a verb annotation above %s, e.g. //retroqwest::get \"/path\"", method))
}

// MultipleVerbs reports a second verb annotation on the same method
func (r *ErrorReporter) MultipleVerbs(pos token.Pos, method string, verbs []string) *rqerrors.BaseError {
	return r.Validation(pos, MsgMultipleVerbs).
		WithContext("method", method).
		WithSuggestion(fmt.Sprintf("Keep exactly one of %s on %s", strings.Join(verbs, ", "), method))
}

// DefaultBody reports a hand-written implementation of an interface method
func (r *ErrorReporter) DefaultBody(pos token.Pos, client, method string) *rqerrors.BaseError {
	return r.Validation(pos, MsgDefaultBody).
		WithContext("client", client).
		WithContext("method", method).
		WithSuggestion(fmt.Sprintf("Remove %s.%s; its body is generated", client, method)).
		WithSuggestion("Add helpers under a different name, or wrap the client in your own type")
}

// ResultShape reports a method that does not return (T, error)
func (r *ErrorReporter) ResultShape(pos token.Pos, method, actual string) *rqerrors.BaseError {
	return r.Validation(pos, MsgResultShape+", got %s", actual).
		WithContext("method", method).
		WithSuggestion("Decode the response into a type, e.g. (User, error) or (retroqwest.NoContent, error)")
}

// PlaceholderMismatch reports a path template that does not match the path parameters
func (r *ErrorReporter) PlaceholderMismatch(pos token.Pos, method string, cause error) *rqerrors.BaseError {
	return rqerrors.Wrap(rqerrors.ValidationErrorCode, cause.Error(), cause).
		WithLocation(r.Location(pos)).
		WithContext("method", method).
		WithSuggestion("Unmarked parameters fill {placeholders}; mark others with //retroqwest::query or //retroqwest::json")
}
