// Package openapi describes retroqwest client interfaces as OpenAPI 3 documents.
package openapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/iancoleman/strcase"

	rqerrors "github.com/jakeswenson/retroqwest/internal/errors"
	"github.com/jakeswenson/retroqwest/internal/models"
)

// Version is the OpenAPI version of generated documents
const Version = "3.0.3"

// Options controls the document info block
type Options struct {
	Title   string
	Version string
	Server  string
}

// Build describes every client interface of metadata. Each method becomes
// one operation tagged with its interface name.
func Build(ctx context.Context, metadata *models.PackageMetadata, opts Options) (*openapi3.T, error) {
	if metadata == nil {
		return nil, fmt.Errorf("metadata cannot be nil")
	}
	if !metadata.HasClients() {
		return nil, rqerrors.Newf(rqerrors.GenerationErrorCode,
			"no //retroqwest::client interfaces in package %s", metadata.PackageName)
	}

	title := opts.Title
	if title == "" {
		title = metadata.PackageName + " API"
	}
	version := opts.Version
	if version == "" {
		version = "0.0.0"
	}

	doc := &openapi3.T{
		OpenAPI: Version,
		Info:    &openapi3.Info{Title: title, Version: version},
		Paths:   openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{},
		},
	}
	if opts.Server != "" {
		doc.Servers = openapi3.Servers{{URL: strings.TrimSuffix(opts.Server, "/")}}
	}

	imports := make(map[string]string, len(metadata.Imports))
	for _, imp := range metadata.Imports {
		imports[imp.LocalName()] = imp.Path
	}
	resolver := newSchemaResolver(imports, doc.Components.Schemas)

	owners := make(map[string]string)
	for _, iface := range metadata.Interfaces {
		doc.Tags = append(doc.Tags, &openapi3.Tag{Name: iface.Name, Description: strings.Join(iface.Doc, " ")})

		for _, method := range iface.Methods {
			path, _, _ := strings.Cut(method.Path, "?")
			key := method.Verb + " " + path
			owner := iface.Name + "." + method.Name
			if previous, exists := owners[key]; exists {
				return nil, rqerrors.At(rqerrors.ValidationErrorCode, location(method),
					"%s is declared by both %s and %s", key, previous, owner)
			}
			owners[key] = owner

			op, err := buildOperation(resolver, iface, method)
			if err != nil {
				return nil, rqerrors.At(rqerrors.GenerationErrorCode, location(method), "%s: %v", owner, err)
			}

			item := doc.Paths.Value(path)
			if item == nil {
				item = &openapi3.PathItem{}
				doc.Paths.Set(path, item)
			}
			item.SetOperation(method.Verb, op)
		}
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, rqerrors.Wrap(rqerrors.GenerationErrorCode, "generated OpenAPI document is invalid", err)
	}
	return doc, nil
}

func buildOperation(resolver *schemaResolver, iface models.InterfaceMetadata, method models.MethodMetadata) (*openapi3.Operation, error) {
	op := openapi3.NewOperation()
	op.OperationID = strcase.ToLowerCamel(iface.Name + "_" + method.Name)
	op.Summary = fmt.Sprintf("%s sends %s %s", method.Name, method.Verb, method.Path)
	op.Tags = []string{iface.Name}

	for _, param := range method.Parameters {
		schema, err := resolver.resolve(param.Type)
		if err != nil {
			return nil, err
		}
		if schema == nil {
			return nil, fmt.Errorf("parameter %s has no content type", param.Name)
		}

		switch param.Kind {
		case models.PathParameter:
			p := openapi3.NewPathParameter(param.Name)
			p.Schema = schema
			op.AddParameter(p)

		case models.QueryParameter:
			p := openapi3.NewQueryParameter(param.QueryKey()).WithRequired(!isOptionalQuery(param.Type))
			p.Schema = schema
			op.AddParameter(p)

		case models.JSONParameter:
			body := openapi3.NewRequestBody().WithRequired(true).WithJSONSchemaRef(schema)
			op.RequestBody = &openapi3.RequestBodyRef{Value: body}
		}
	}

	result, err := resolver.resolve(method.ResultType)
	if err != nil {
		return nil, err
	}
	status := http.StatusOK
	response := openapi3.NewResponse().WithDescription("Success")
	switch {
	case result == nil:
		status = http.StatusNoContent
		response.WithDescription("No Content")
	case method.Verb == http.MethodHead:
		// HEAD responses carry no body
	default:
		response.WithJSONSchemaRef(result)
	}
	op.Responses = openapi3.NewResponses(openapi3.WithStatus(status, &openapi3.ResponseRef{Value: response}))
	return op, nil
}

func location(method models.MethodMetadata) rqerrors.SourceLocation {
	return rqerrors.SourceLocation{File: method.FileName, Line: method.Line, Column: method.Column}
}
