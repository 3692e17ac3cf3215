package retroqwest

import (
	"github.com/goccy/go-json"
)

// Codec encodes request bodies and decodes response bodies
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec is the default codec, backed by goccy/go-json
type JSONCodec struct{}

// Marshal implements Codec
func (JSONCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal implements Codec
func (JSONCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// DefaultCodec is used when a builder does not set one
var DefaultCodec Codec = JSONCodec{}
