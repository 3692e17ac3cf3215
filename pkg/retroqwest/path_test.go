package retroqwest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePathTemplate(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		placeholders []string
		expectError  bool
	}{
		{
			name:  "static path",
			input: "/anything",
		},
		{
			name:         "single placeholder",
			input:        "/anything/{name}",
			placeholders: []string{"name"},
		},
		{
			name:         "multiple placeholders",
			input:        "/users/{id}/posts/{post_id}",
			placeholders: []string{"id", "post_id"},
		},
		{
			name:         "repeated placeholder",
			input:        "/{a}/{a}",
			placeholders: []string{"a"},
		},
		{
			name:         "adjacent placeholders",
			input:        "/{a}{b}.json",
			placeholders: []string{"a", "b"},
		},
		{
			name:        "unclosed placeholder",
			input:       "/anything/{name",
			expectError: true,
		},
		{
			name:        "stray closing brace",
			input:       "/anything/name}",
			expectError: true,
		},
		{
			name:        "empty placeholder",
			input:       "/anything/{}",
			expectError: true,
		},
		{
			name:        "invalid placeholder name",
			input:       "/anything/{1st}",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParsePathTemplate(tt.input)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, tmpl.Raw())
			assert.Equal(t, tt.placeholders, tmpl.Placeholders())
		})
	}
}

func TestPathTemplate_Expand(t *testing.T) {
	t.Run("substitutes values", func(t *testing.T) {
		tmpl := MustParsePathTemplate("/anything/{name}/{id}")
		path, err := tmpl.Expand(map[string]string{"name": "test", "id": "42"})
		require.NoError(t, err)
		assert.Equal(t, "/anything/test/42", path)
	})

	t.Run("escapes values", func(t *testing.T) {
		tmpl := MustParsePathTemplate("/anything/{name}")
		path, err := tmpl.Expand(map[string]string{"name": "a b/c?d"})
		require.NoError(t, err)
		assert.Equal(t, "/anything/a%20b%2Fc%3Fd", path)
	})

	t.Run("missing value", func(t *testing.T) {
		tmpl := MustParsePathTemplate("/anything/{name}")
		_, err := tmpl.Expand(map[string]string{})
		assert.ErrorContains(t, err, "{name}")
	})

	t.Run("static path", func(t *testing.T) {
		tmpl := MustParsePathTemplate("/anything")
		path, err := tmpl.Expand(nil)
		require.NoError(t, err)
		assert.Equal(t, "/anything", path)
	})
}

func TestMustParsePathTemplate_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustParsePathTemplate("/{broken")
	})
}
