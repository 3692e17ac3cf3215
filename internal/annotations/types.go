package annotations

import (
	"fmt"
	"strings"
)

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	ClientAnnotation AnnotationType = iota
	GetAnnotation
	PostAnnotation
	PutAnnotation
	PatchAnnotation
	DeleteAnnotation
	HeadAnnotation
	OptionsAnnotation
	QueryAnnotation
	JSONAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case ClientAnnotation:
		return "client"
	case GetAnnotation:
		return "get"
	case PostAnnotation:
		return "post"
	case PutAnnotation:
		return "put"
	case PatchAnnotation:
		return "patch"
	case DeleteAnnotation:
		return "delete"
	case HeadAnnotation:
		return "head"
	case OptionsAnnotation:
		return "options"
	case QueryAnnotation:
		return "query"
	case JSONAnnotation:
		return "json"
	default:
		return "unknown"
	}
}

// IsVerb reports whether the annotation declares the HTTP method of a call
func (a AnnotationType) IsVerb() bool {
	return a >= GetAnnotation && a <= OptionsAnnotation
}

// Verb returns the HTTP method for verb annotations, e.g. "GET"
func (a AnnotationType) Verb() string {
	if !a.IsVerb() {
		return ""
	}
	return strings.ToUpper(a.String())
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "client":
		return ClientAnnotation, nil
	case "get":
		return GetAnnotation, nil
	case "post":
		return PostAnnotation, nil
	case "put":
		return PutAnnotation, nil
	case "patch":
		return PatchAnnotation, nil
	case "delete":
		return DeleteAnnotation, nil
	case "head":
		return HeadAnnotation, nil
	case "options":
		return OptionsAnnotation, nil
	case "query":
		return QueryAnnotation, nil
	case "json":
		return JSONAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// SourceLocation represents the location of an annotation in source code
type SourceLocation struct {
	File   string // File path
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based)
}

// String renders the location as file:line:col
func (l SourceLocation) String() string {
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
}

// ParsedAnnotation represents a fully parsed annotation with type-safe parameters
type ParsedAnnotation struct {
	Type       AnnotationType         // Annotation type enum
	Args       []string               // Positional arguments, unquoted
	Parameters map[string]interface{} // Named -Key=value parameters
	Location   SourceLocation         // Source location
	Raw        string                 // Original annotation text
}

// Arg returns the positional argument at index i, or "" when absent
func (p *ParsedAnnotation) Arg(i int) string {
	if i < 0 || i >= len(p.Args) {
		return ""
	}
	return p.Args[i]
}

// GetString returns a string parameter value with optional default
func (p *ParsedAnnotation) GetString(paramName string, defaultValue ...string) string {
	if value, exists := p.Parameters[paramName]; exists {
		if strValue, ok := value.(string); ok {
			return strValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetBool returns a boolean parameter value with optional default
func (p *ParsedAnnotation) GetBool(paramName string, defaultValue ...bool) bool {
	if value, exists := p.Parameters[paramName]; exists {
		if boolValue, ok := value.(bool); ok {
			return boolValue
		}
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return false
}

// HasParameter checks if a parameter exists
func (p *ParsedAnnotation) HasParameter(paramName string) bool {
	_, exists := p.Parameters[paramName]
	return exists
}

// ParameterType represents the type of a parameter
type ParameterType int

const (
	StringType ParameterType = iota
	BoolType
)

// String returns the string representation of the parameter type
func (p ParameterType) String() string {
	switch p {
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	default:
		return "unknown"
	}
}

// ParameterSpec defines the specification for a named annotation parameter
type ParameterSpec struct {
	Type         ParameterType           // Parameter type
	Required     bool                    // Whether parameter is required
	DefaultValue interface{}             // Default value if not provided
	Description  string                  // Parameter description
	Validator    func(interface{}) error // Custom validator function
}

// ArgSpec defines a positional argument
type ArgSpec struct {
	Name        string
	Description string
	Validator   func(string) error
}

// CustomValidator represents a custom validation function for annotations
type CustomValidator func(*ParsedAnnotation) error

// AnnotationSchema defines the schema for an annotation type
type AnnotationSchema struct {
	Type        AnnotationType           // Annotation type enum
	Description string                   // Human-readable description
	Args        []ArgSpec                // Required positional arguments, in order
	Parameters  map[string]ParameterSpec // Named parameter specifications
	Validators  []CustomValidator        // Custom validation functions
	Examples    []string                 // Usage examples
}
