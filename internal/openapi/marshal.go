package openapi

import (
	"bytes"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Formats supported by Marshal
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Marshal renders doc as indented JSON or as YAML. Both end with a newline.
func Marshal(doc *openapi3.T, format string) ([]byte, error) {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal OpenAPI document: %w", err)
	}

	switch format {
	case FormatJSON, "":
		var out bytes.Buffer
		if err := json.Indent(&out, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("failed to indent OpenAPI document: %w", err)
		}
		out.WriteByte('\n')
		return out.Bytes(), nil

	case FormatYAML:
		// JSON is valid YAML; decoding it yields plain maps with sorted keys
		var tree interface{}
		if err := yaml.Unmarshal(raw, &tree); err != nil {
			return nil, fmt.Errorf("failed to convert OpenAPI document: %w", err)
		}
		var out bytes.Buffer
		enc := yaml.NewEncoder(&out)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return nil, fmt.Errorf("failed to encode OpenAPI document: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return out.Bytes(), nil

	default:
		return nil, fmt.Errorf("unknown OpenAPI format %q (want %s or %s)", format, FormatJSON, FormatYAML)
	}
}
