package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterfaceMetadata(t *testing.T) {
	iface := InterfaceMetadata{Name: "HTTPBin"}
	assert.Equal(t, "HTTPBinClient", iface.ClientName())
	assert.False(t, iface.HasEmbeds())

	iface.Embeds = []string{"io.Closer"}
	assert.True(t, iface.HasEmbeds())
}

func TestInterfaceMetadata_GeneratedNames(t *testing.T) {
	assert.Equal(t, "usersMethods", InterfaceMetadata{Name: "Users"}.DescriptorVar())
	assert.Equal(t, []string{"HTTPBinClient", "NewHTTPBinClient", "httpbinMethods"}, InterfaceMetadata{Name: "HTTPBin"}.GeneratedNames())
}

func TestMethodMetadata_ParametersByKind(t *testing.T) {
	method := MethodMetadata{
		Parameters: []ParameterMetadata{
			{Name: "name", Kind: PathParameter},
			{Name: "q", Kind: QueryParameter},
			{Name: "page", Kind: QueryParameter, QueryName: "page_number"},
			{Name: "body", Kind: JSONParameter},
		},
	}

	query := method.ParametersByKind(QueryParameter)
	assert.Len(t, query, 2)
	assert.Equal(t, "q", query[0].QueryKey())
	assert.Equal(t, "page_number", query[1].QueryKey())
	assert.Len(t, method.ParametersByKind(JSONParameter), 1)
	assert.Len(t, method.ParametersByKind(PathParameter), 1)
}

func TestParameterKind(t *testing.T) {
	assert.Equal(t, "path", PathParameter.String())
	assert.Equal(t, "retroqwest.QueryParam", QueryParameter.RuntimeKind())
	assert.Equal(t, "retroqwest.JSONParam", JSONParameter.RuntimeKind())
	assert.Equal(t, "unknown", ParameterKind(9).String())
}

func TestPackageMetadata_HasClients(t *testing.T) {
	pkg := &PackageMetadata{}
	assert.False(t, pkg.HasClients())
	pkg.Interfaces = append(pkg.Interfaces, InterfaceMetadata{Name: "A"})
	assert.True(t, pkg.HasClients())
}

func TestDefaultImportName(t *testing.T) {
	tests := map[string]string{
		"context":                      "context",
		"github.com/google/uuid":       "uuid",
		"github.com/labstack/echo/v4":  "echo",
		"gopkg.in/yaml.v3":             "yaml",
		"github.com/go-resty/resty/v2": "resty",
		"github.com/google/go-cmp/cmp": "cmp",
	}
	for importPath, expected := range tests {
		assert.Equal(t, expected, DefaultImportName(importPath), importPath)
	}
}

func TestImport_LocalName(t *testing.T) {
	assert.Equal(t, "uuid", Import{Path: "github.com/google/uuid"}.LocalName())
	assert.Equal(t, "guuid", Import{Name: "guuid", Path: "github.com/google/uuid"}.LocalName())
}
