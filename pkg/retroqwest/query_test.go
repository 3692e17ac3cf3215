package retroqwest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type color int

func (c color) String() string {
	switch c {
	case 1:
		return "red"
	default:
		return "none"
	}
}

func TestQueryValues(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	page := 3
	var nilPage *int
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name     string
		value    any
		expected []QueryPair
	}{
		{name: "string verbatim", value: "hello world", expected: []QueryPair{{"q", "hello world"}}},
		{name: "bool", value: true, expected: []QueryPair{{"q", "true"}}},
		{name: "int", value: -12, expected: []QueryPair{{"q", "-12"}}},
		{name: "uint", value: uint8(7), expected: []QueryPair{{"q", "7"}}},
		{name: "float shortest", value: 1.5, expected: []QueryPair{{"q", "1.5"}}},
		{name: "float32", value: float32(0.1), expected: []QueryPair{{"q", "0.1"}}},
		{name: "stringer", value: color(1), expected: []QueryPair{{"q", "red"}}},
		{name: "text marshaler", value: ts, expected: []QueryPair{{"q", "2024-01-02T03:04:05Z"}}},
		{name: "uuid", value: id, expected: []QueryPair{{"q", id.String()}}},
		{name: "pointer", value: &page, expected: []QueryPair{{"q", "3"}}},
		{name: "nil pointer omitted", value: nilPage, expected: nil},
		{name: "nil omitted", value: nil, expected: nil},
		{name: "slice repeats key", value: []string{"a", "b"}, expected: []QueryPair{{"q", "a"}, {"q", "b"}}},
		{name: "bytes as string", value: []byte("raw"), expected: []QueryPair{{"q", "raw"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pairs, err := QueryValues("q", tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, pairs)
		})
	}
}

func TestQueryValues_Unsupported(t *testing.T) {
	_, err := QueryValues("q", map[string]string{"a": "b"})
	assert.ErrorContains(t, err, "unsupported value type")
}

func TestEncodeQuery(t *testing.T) {
	t.Run("keeps declaration order", func(t *testing.T) {
		query := EncodeQuery([]QueryPair{{"z", "1"}, {"a", "2"}})
		assert.Equal(t, "z=1&a=2", query)
	})

	t.Run("escapes names and values", func(t *testing.T) {
		query := EncodeQuery([]QueryPair{{"a b", "c&d=e"}})
		assert.Equal(t, "a+b=c%26d%3De", query)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "", EncodeQuery(nil))
	})
}
