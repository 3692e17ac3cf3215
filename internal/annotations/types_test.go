package annotations

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotationType_RoundTrip(t *testing.T) {
	for typ := ClientAnnotation; typ <= JSONAnnotation; typ++ {
		parsed, err := ParseAnnotationType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}

	_, err := ParseAnnotationType("route")
	assert.Error(t, err)
	assert.Equal(t, "unknown", AnnotationType(99).String())
}

func TestAnnotationType_Verb(t *testing.T) {
	tests := []struct {
		typ    AnnotationType
		isVerb bool
		verb   string
	}{
		{GetAnnotation, true, "GET"},
		{PostAnnotation, true, "POST"},
		{PutAnnotation, true, "PUT"},
		{PatchAnnotation, true, "PATCH"},
		{DeleteAnnotation, true, "DELETE"},
		{HeadAnnotation, true, "HEAD"},
		{OptionsAnnotation, true, "OPTIONS"},
		{ClientAnnotation, false, ""},
		{QueryAnnotation, false, ""},
		{JSONAnnotation, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.isVerb, tt.typ.IsVerb())
			assert.Equal(t, tt.verb, tt.typ.Verb())
		})
	}
}

func TestParsedAnnotation_Accessors(t *testing.T) {
	parsed := &ParsedAnnotation{
		Args:       []string{"q"},
		Parameters: map[string]interface{}{"Name": "page_size", "Flag": true},
	}

	assert.Equal(t, "q", parsed.Arg(0))
	assert.Equal(t, "", parsed.Arg(1))
	assert.Equal(t, "page_size", parsed.GetString("Name"))
	assert.Equal(t, "fallback", parsed.GetString("Missing", "fallback"))
	assert.True(t, parsed.GetBool("Flag"))
	assert.False(t, parsed.GetBool("Name"))
	assert.True(t, parsed.HasParameter("Flag"))
	assert.False(t, parsed.HasParameter("Other"))
}

func TestSourceLocation_String(t *testing.T) {
	assert.Equal(t, "api.go:12:3", SourceLocation{File: "api.go", Line: 12, Column: 3}.String())
}
