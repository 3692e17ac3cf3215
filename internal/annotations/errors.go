package annotations

import (
	"fmt"
	"strings"
)

// AnnotationError defines the interface for annotation-related errors
type AnnotationError interface {
	error
	Location() SourceLocation
	Suggestion() string
	Code() ErrorCode
}

// ErrorCode represents different types of annotation errors
type ErrorCode int

const (
	SyntaxErrorCode ErrorCode = iota
	ValidationErrorCode
	SchemaErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case SyntaxErrorCode:
		return "SyntaxError"
	case ValidationErrorCode:
		return "ValidationError"
	case SchemaErrorCode:
		return "SchemaError"
	default:
		return "UnknownError"
	}
}

// ValidationError represents a parameter validation error
type ValidationError struct {
	Parameter string         // Parameter or argument that failed validation
	Msg       string         // What went wrong
	Loc       SourceLocation // Where the error occurred
	Hint      string         // Suggested fix
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Loc, e.Parameter, e.Msg)
}

func (e *ValidationError) Location() SourceLocation { return e.Loc }
func (e *ValidationError) Suggestion() string       { return e.Hint }
func (e *ValidationError) Code() ErrorCode          { return ValidationErrorCode }

// SyntaxError represents a syntax parsing error
type SyntaxError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred
	Hint string         // Suggested fix
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error: %s", e.Loc, e.Msg)
}

func (e *SyntaxError) Location() SourceLocation { return e.Loc }
func (e *SyntaxError) Suggestion() string       { return e.Hint }
func (e *SyntaxError) Code() ErrorCode          { return SyntaxErrorCode }

// SchemaError represents an annotation that does not fit its schema
type SchemaError struct {
	Msg  string         // Error message
	Loc  SourceLocation // Where the error occurred
	Hint string         // Suggested fix
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: %s", e.Loc, e.Msg)
}

func (e *SchemaError) Location() SourceLocation { return e.Loc }
func (e *SchemaError) Suggestion() string       { return e.Hint }
func (e *SchemaError) Code() ErrorCode          { return SchemaErrorCode }

// NewSyntaxErrorWithContext creates a syntax error with a suggestion derived from the input
func NewSyntaxErrorWithContext(msg string, loc SourceLocation, input string) *SyntaxError {
	return &SyntaxError{
		Msg:  msg,
		Loc:  loc,
		Hint: generateSyntaxSuggestion(input),
	}
}

// NewSchemaErrorWithContext creates a schema error with the schema's examples as a hint
func NewSchemaErrorWithContext(msg string, loc SourceLocation, schema AnnotationSchema) *SchemaError {
	hint := ""
	if len(schema.Examples) > 0 {
		hint = "Example: " + strings.Join(schema.Examples, " or ")
	}
	return &SchemaError{Msg: msg, Loc: loc, Hint: hint}
}

func generateSyntaxSuggestion(input string) string {
	switch {
	case strings.Count(input, `"`)%2 != 0:
		return "Close the quoted path with a matching '\"'"
	case strings.Contains(input, "retroqwest:") && !strings.Contains(input, "retroqwest::"):
		return "Use '::' between retroqwest and the annotation type, e.g. //retroqwest::get \"/path\""
	case strings.Contains(input, "--"):
		return "Named parameters take a single dash, e.g. -Name=page_size"
	default:
		return "Annotations look like //retroqwest::<type> [args] [-Key=value]"
	}
}
