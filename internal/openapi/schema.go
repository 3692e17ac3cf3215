package openapi

import (
	"fmt"
	"go/ast"
	"go/parser"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/iancoleman/strcase"
)

const componentPrefix = "#/components/schemas/"

// schemaResolver turns Go type expressions from method signatures into
// schemas. Named types become components referenced by $ref.
type schemaResolver struct {
	imports    map[string]string // local name -> import path
	components openapi3.Schemas
}

func newSchemaResolver(imports map[string]string, components openapi3.Schemas) *schemaResolver {
	return &schemaResolver{imports: imports, components: components}
}

// resolve parses typ and returns its schema
func (r *schemaResolver) resolve(typ string) (*openapi3.SchemaRef, error) {
	expr, err := parser.ParseExpr(typ)
	if err != nil {
		return nil, fmt.Errorf("unsupported type %q: %w", typ, err)
	}
	return r.expr(expr, typ)
}

func (r *schemaResolver) expr(expr ast.Expr, source string) (*openapi3.SchemaRef, error) {
	switch t := expr.(type) {
	case *ast.Ident:
		if schema := builtinSchema(t.Name); schema != nil {
			return schema.NewRef(), nil
		}
		return r.component(t.Name, t.Name), nil

	case *ast.SelectorExpr:
		pkg, ok := t.X.(*ast.Ident)
		if !ok {
			return nil, fmt.Errorf("unsupported type %q", source)
		}
		qualified := r.imports[pkg.Name] + "." + t.Sel.Name
		switch qualified {
		case "github.com/google/uuid.UUID":
			return openapi3.NewUUIDSchema().NewRef(), nil
		case "time.Time":
			return openapi3.NewDateTimeSchema().NewRef(), nil
		case "time.Duration":
			return openapi3.NewInt64Schema().NewRef(), nil
		case "encoding/json.RawMessage":
			return openapi3.NewSchema().NewRef(), nil
		case "github.com/jakeswenson/retroqwest/pkg/retroqwest.NoContent":
			return nil, nil
		}
		return r.component(pkg.Name+"."+t.Sel.Name, pkg.Name+"_"+t.Sel.Name), nil

	case *ast.StarExpr:
		inner, err := r.expr(t.X, source)
		if err != nil || inner == nil {
			return inner, err
		}
		if inner.Ref != "" {
			// Siblings of $ref are ignored, so wrap it
			schema := openapi3.NewSchema()
			schema.AllOf = openapi3.SchemaRefs{inner}
			schema.Nullable = true
			return schema.NewRef(), nil
		}
		nullable := *inner.Value
		nullable.Nullable = true
		return nullable.NewRef(), nil

	case *ast.ArrayType:
		if ident, ok := t.Elt.(*ast.Ident); ok && ident.Name == "byte" {
			return openapi3.NewBytesSchema().NewRef(), nil
		}
		items, err := r.expr(t.Elt, source)
		if err != nil {
			return nil, err
		}
		schema := openapi3.NewArraySchema()
		schema.Items = items
		return schema.NewRef(), nil

	case *ast.MapType:
		value, err := r.expr(t.Value, source)
		if err != nil {
			return nil, err
		}
		schema := openapi3.NewObjectSchema()
		schema.AdditionalProperties = openapi3.AdditionalProperties{Schema: value}
		return schema.NewRef(), nil

	case *ast.InterfaceType:
		return openapi3.NewSchema().NewRef(), nil

	case *ast.StructType:
		if t.Fields == nil || len(t.Fields.List) == 0 {
			return nil, nil
		}
		return openapi3.NewObjectSchema().NewRef(), nil

	default:
		return nil, fmt.Errorf("unsupported type %q", source)
	}
}

// component registers a named type once and returns a reference to it
func (r *schemaResolver) component(goType, name string) *openapi3.SchemaRef {
	name = strcase.ToCamel(name)
	existing, exists := r.components[name]
	if !exists {
		schema := openapi3.NewObjectSchema()
		schema.Extensions = map[string]interface{}{"x-go-type": goType}
		existing = schema.NewRef()
		r.components[name] = existing
	}
	return openapi3.NewSchemaRef(componentPrefix+name, existing.Value)
}

func builtinSchema(name string) *openapi3.Schema {
	switch name {
	case "string":
		return openapi3.NewStringSchema()
	case "bool":
		return openapi3.NewBoolSchema()
	case "int8", "int16", "int32", "uint8", "uint16", "rune":
		return openapi3.NewInt32Schema()
	case "int", "int64", "uint", "uint32", "uint64":
		return openapi3.NewInt64Schema()
	case "float32":
		return openapi3.NewFloat64Schema().WithFormat("float")
	case "float64":
		return openapi3.NewFloat64Schema()
	case "byte":
		return openapi3.NewInt32Schema()
	case "any":
		return openapi3.NewSchema()
	default:
		return nil
	}
}

// isOptionalQuery reports whether a query parameter may be omitted: nil
// pointers are dropped and empty slices send nothing
func isOptionalQuery(typ string) bool {
	return strings.HasPrefix(typ, "*") || strings.HasPrefix(typ, "[]")
}
