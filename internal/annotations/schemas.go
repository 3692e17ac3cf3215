package annotations

import (
	"fmt"
	"go/token"
	"strings"

	"github.com/jakeswenson/retroqwest/pkg/retroqwest"
)

// Built-in annotation schemas

// ClientAnnotationSchema defines the schema for //retroqwest::client annotations
var ClientAnnotationSchema = AnnotationSchema{
	Type:        ClientAnnotation,
	Description: "Marks an interface as a remote HTTP API to generate a client for",
	Parameters:  map[string]ParameterSpec{},
	Examples: []string{
		"//retroqwest::client",
	},
}

// QueryAnnotationSchema defines the schema for //retroqwest::query annotations
var QueryAnnotationSchema = AnnotationSchema{
	Type:        QueryAnnotation,
	Description: "Sends a method parameter as a query string entry",
	Args: []ArgSpec{
		{Name: "param", Description: "Name of the method parameter", Validator: validateIdentifier},
	},
	Parameters: map[string]ParameterSpec{
		"Name": {
			Type:        StringType,
			Required:    false,
			Description: "Query string key, defaults to the parameter name",
			Validator: func(v interface{}) error {
				name := v.(string)
				if name == "" || strings.ContainsAny(name, " \t&=?#") {
					return fmt.Errorf("invalid query name '%s'", name)
				}
				return nil
			},
		},
	},
	Examples: []string{
		"//retroqwest::query q",
		"//retroqwest::query pageSize -Name=page_size",
	},
}

// JSONAnnotationSchema defines the schema for //retroqwest::json annotations
var JSONAnnotationSchema = AnnotationSchema{
	Type:        JSONAnnotation,
	Description: "Sends a method parameter as the JSON request body",
	Args: []ArgSpec{
		{Name: "param", Description: "Name of the method parameter", Validator: validateIdentifier},
	},
	Parameters: map[string]ParameterSpec{},
	Examples: []string{
		"//retroqwest::json body",
	},
}

// VerbAnnotationSchema builds the schema shared by the HTTP method annotations
func VerbAnnotationSchema(annotationType AnnotationType) AnnotationSchema {
	verb := annotationType.String()
	return AnnotationSchema{
		Type:        annotationType,
		Description: fmt.Sprintf("Sends the call as an HTTP %s request", annotationType.Verb()),
		Args: []ArgSpec{
			{Name: "path", Description: "Path template, e.g. /users/{id}", Validator: validatePath},
		},
		Parameters: map[string]ParameterSpec{},
		Examples: []string{
			fmt.Sprintf("//retroqwest::%s \"/anything\"", verb),
			fmt.Sprintf("//retroqwest::%s \"/anything/{name}\"", verb),
		},
	}
}

func validateIdentifier(s string) error {
	if !token.IsIdentifier(s) {
		return fmt.Errorf("'%s' is not a valid parameter name", s)
	}
	return nil
}

func validatePath(s string) error {
	if !strings.HasPrefix(s, "/") {
		return fmt.Errorf("path must start with '/', got '%s'", s)
	}
	if _, err := retroqwest.ParsePathTemplate(s); err != nil {
		return err
	}
	return nil
}

// RegisterBuiltinSchemas registers all built-in annotation schemas with the given registry
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	schemas := []AnnotationSchema{
		ClientAnnotationSchema,
		QueryAnnotationSchema,
		JSONAnnotationSchema,
	}
	for t := GetAnnotation; t <= OptionsAnnotation; t++ {
		schemas = append(schemas, VerbAnnotationSchema(t))
	}

	for _, schema := range schemas {
		if err := registry.Register(schema.Type, schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", schema.Type, err)
		}
	}
	return nil
}
