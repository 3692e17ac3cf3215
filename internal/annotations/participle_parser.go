package annotations

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// Prefix opens every retroqwest annotation
const Prefix = "retroqwest::"

// ParticipleParser parses annotation comments with alecthomas/participle
type ParticipleParser struct {
	parser   *participle.Parser[annotationAST]
	registry AnnotationRegistry
}

// annotationAST is the grammar of a single annotation comment:
//
//	"//" "retroqwest" "::" Type Arg* Flag*
type annotationAST struct {
	Pos   lexer.Position
	Type  string      `parser:"Comment Prefix Separator @Ident"`
	Args  []*valueAST `parser:"@@*"`
	Flags []*flagAST  `parser:"@@*"`
}

type valueAST struct {
	Pos    lexer.Position
	String *string `parser:"  @String"`
	Path   *string `parser:"| @Path"`
	Ident  *string `parser:"| @Ident"`
	Number *string `parser:"| @Number"`
}

func (v *valueAST) text() string {
	switch {
	case v.String != nil:
		return *v.String
	case v.Path != nil:
		return *v.Path
	case v.Ident != nil:
		return *v.Ident
	case v.Number != nil:
		return *v.Number
	default:
		return ""
	}
}

type flagAST struct {
	Pos   lexer.Position
	Name  string    `parser:"Dash @Ident"`
	Value *valueAST `parser:"( Equals @@ )?"`
}

var annotationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//`},
	{Name: "Prefix", Pattern: `retroqwest\b`},
	{Name: "Separator", Pattern: `::`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Path", Pattern: `/[^\s"]*`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[0-9]+(\.[0-9]+)?`},
	{Name: "Equals", Pattern: `=`},
	{Name: "Dash", Pattern: `-`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// NewParticipleParser creates a new parser validating against registry.
// A nil registry skips schema validation.
func NewParticipleParser(registry AnnotationRegistry) *ParticipleParser {
	parser := participle.MustBuild[annotationAST](
		participle.Lexer(annotationLexer),
		participle.Elide("Whitespace"),
		participle.Unquote("String"),
	)

	return &ParticipleParser{
		parser:   parser,
		registry: registry,
	}
}

// IsAnnotation reports whether a comment line is a retroqwest annotation
func IsAnnotation(comment string) bool {
	content := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(comment), "//"))
	return strings.HasPrefix(content, Prefix)
}

// ParseAnnotation parses one annotation comment. location is the position
// of the comment's first character.
func (p *ParticipleParser) ParseAnnotation(comment string, location SourceLocation) (*ParsedAnnotation, error) {
	comment = strings.TrimRight(comment, " \t\r\n")

	ast, err := p.parser.ParseString(location.File, comment)
	if err != nil {
		loc := location
		var perr participle.Error
		if errors.As(err, &perr) {
			loc.Column += perr.Position().Column - 1
			return nil, NewSyntaxErrorWithContext(perr.Message(), loc, comment)
		}
		return nil, NewSyntaxErrorWithContext(err.Error(), loc, comment)
	}

	annotationType, err := ParseAnnotationType(ast.Type)
	if err != nil {
		return nil, &SchemaError{
			Msg:  fmt.Sprintf("unknown annotation type '%s'", ast.Type),
			Loc:  location,
			Hint: "Supported types: client, get, post, put, patch, delete, head, options, query, json",
		}
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Parameters: make(map[string]interface{}),
		Location:   location,
		Raw:        comment,
	}
	for _, arg := range ast.Args {
		parsed.Args = append(parsed.Args, arg.text())
	}

	var schema *AnnotationSchema
	if p.registry != nil {
		s, err := p.registry.GetSchema(annotationType)
		if err != nil {
			return nil, &SchemaError{Msg: err.Error(), Loc: location}
		}
		schema = &s
	}

	for _, flag := range ast.Flags {
		if _, exists := parsed.Parameters[flag.Name]; exists {
			return nil, &SchemaError{
				Msg: fmt.Sprintf("duplicate parameter '%s'", flag.Name),
				Loc: offset(location, flag.Pos),
			}
		}
		parsed.Parameters[flag.Name] = p.convertParameterValue(schema, flag)
	}

	if schema != nil {
		if err := p.validateAgainstSchema(parsed, *schema); err != nil {
			return nil, err
		}
	}

	return parsed, nil
}

// convertParameterValue turns a flag into its typed value. A bare flag is
// true for bool parameters and the default value for the rest.
func (p *ParticipleParser) convertParameterValue(schema *AnnotationSchema, flag *flagAST) interface{} {
	var spec ParameterSpec
	known := false
	if schema != nil {
		spec, known = schema.Parameters[flag.Name]
	}

	if flag.Value == nil {
		if known && spec.Type != BoolType && spec.DefaultValue != nil {
			return spec.DefaultValue
		}
		return true
	}

	raw := flag.Value.text()
	if known && spec.Type == BoolType {
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
	}
	return raw
}

// validateAgainstSchema checks positional arguments and named parameters
func (p *ParticipleParser) validateAgainstSchema(annotation *ParsedAnnotation, schema AnnotationSchema) error {
	if len(annotation.Args) != len(schema.Args) {
		return NewSchemaErrorWithContext(argumentCountMessage(annotation, schema), annotation.Location, schema)
	}

	for i, spec := range schema.Args {
		if spec.Validator == nil {
			continue
		}
		if err := spec.Validator(annotation.Args[i]); err != nil {
			return &ValidationError{
				Parameter: spec.Name,
				Msg:       err.Error(),
				Loc:       annotation.Location,
				Hint:      spec.Description,
			}
		}
	}

	for paramName, paramValue := range annotation.Parameters {
		spec, exists := schema.Parameters[paramName]
		if !exists {
			return NewSchemaErrorWithContext(
				fmt.Sprintf("unknown parameter '%s' for %s annotation", paramName, annotation.Type),
				annotation.Location, schema)
		}

		if spec.Type == StringType {
			if _, ok := paramValue.(string); !ok {
				return &ValidationError{
					Parameter: paramName,
					Msg:       "a value is required, e.g. -" + paramName + "=value",
					Loc:       annotation.Location,
					Hint:      spec.Description,
				}
			}
		}

		if spec.Validator != nil {
			if err := spec.Validator(paramValue); err != nil {
				return &ValidationError{
					Parameter: paramName,
					Msg:       err.Error(),
					Loc:       annotation.Location,
					Hint:      spec.Description,
				}
			}
		}
	}

	for paramName, spec := range schema.Parameters {
		if spec.Required && !annotation.HasParameter(paramName) {
			return NewSchemaErrorWithContext(
				fmt.Sprintf("missing required parameter '%s' for %s annotation", paramName, annotation.Type),
				annotation.Location, schema)
		}
	}

	for _, validator := range schema.Validators {
		if err := validator(annotation); err != nil {
			return &SchemaError{Msg: err.Error(), Loc: annotation.Location}
		}
	}

	return nil
}

func argumentCountMessage(annotation *ParsedAnnotation, schema AnnotationSchema) string {
	if annotation.Type.IsVerb() && len(annotation.Args) == 0 {
		return fmt.Sprintf("%s annotation requires a path (e.g., //retroqwest::%s \"/users\")", annotation.Type, annotation.Type)
	}
	if len(schema.Args) == 0 {
		return fmt.Sprintf("%s annotation takes no arguments, got %d", annotation.Type, len(annotation.Args))
	}
	names := make([]string, len(schema.Args))
	for i, arg := range schema.Args {
		names[i] = arg.Name
	}
	return fmt.Sprintf("%s annotation expects %d argument(s) (%s), got %d",
		annotation.Type, len(schema.Args), strings.Join(names, ", "), len(annotation.Args))
}

func offset(loc SourceLocation, pos lexer.Position) SourceLocation {
	loc.Column += pos.Column - 1
	return loc
}
