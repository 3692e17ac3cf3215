package errors

import (
	"fmt"

	"github.com/jakeswenson/retroqwest/internal/annotations"
)

// FromAnnotation converts an annotation parse error into a located
// generation error. Other errors are wrapped as syntax errors at loc.
func FromAnnotation(err error, loc SourceLocation) *BaseError {
	annErr, ok := err.(annotations.AnnotationError)
	if !ok {
		return Wrap(SyntaxErrorCode, err.Error(), err).WithLocation(loc)
	}

	code := SyntaxErrorCode
	if annErr.Code() != annotations.SyntaxErrorCode {
		code = ValidationErrorCode
	}

	annLoc := annErr.Location()
	result := Wrap(code, annotationMessage(annErr), err).WithLocation(SourceLocation{
		File:   annLoc.File,
		Line:   annLoc.Line,
		Column: annLoc.Column,
	})
	return result.WithSuggestion(annErr.Suggestion())
}

// annotationMessage strips the location prefix the annotation errors carry
func annotationMessage(err annotations.AnnotationError) string {
	prefix := err.Location().String() + ": "
	msg := err.Error()
	if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
		return msg[len(prefix):]
	}
	return msg
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *BaseError {
	return Wrap(SyntaxErrorCode, fmt.Sprintf("failed to parse %s: %v", item, cause), cause)
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, cause error) *BaseError {
	return Wrap(GenerationErrorCode, fmt.Sprintf("failed to generate %s: %v", item, cause), cause).
		WithContext("target", item)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s': %v", operation, path, cause)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapConfigurationError wraps configuration-related errors
func WrapConfigurationError(source string, cause error) *BaseError {
	message := fmt.Sprintf("invalid configuration in %s: %v", source, cause)
	return Wrap(ConfigurationErrorCode, message, cause).
		WithContext("source", source)
}
