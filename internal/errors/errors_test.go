package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jakeswenson/retroqwest/internal/annotations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceLocation_String(t *testing.T) {
	tests := []struct {
		loc      SourceLocation
		expected string
	}{
		{SourceLocation{}, "unknown location"},
		{SourceLocation{File: "api.go"}, "api.go"},
		{SourceLocation{File: "api.go", Line: 4}, "api.go:4"},
		{SourceLocation{File: "api.go", Line: 4, Column: 2}, "api.go:4:2"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.loc.String())
	}
}

func TestBaseError(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(FileSystemErrorCode, "failed to write", cause).
		WithLocation(SourceLocation{File: "api.go", Line: 3, Column: 1}).
		WithContext("path", "retroqwest_client.go").
		WithSuggestion("free some space").
		WithSuggestion("")

	assert.Equal(t, "api.go:3:1: failed to write", err.Error())
	assert.Equal(t, FileSystemErrorCode, err.ErrorCode())
	assert.Equal(t, []string{"free some space"}, err.Suggestions())
	assert.Equal(t, "retroqwest_client.go", err.Context()["path"])
	assert.ErrorIs(t, err, cause)

	plain := New(GenerationErrorCode, "no location")
	assert.Equal(t, "no location", plain.Error())
	assert.Empty(t, plain.Context())
}

func TestAt(t *testing.T) {
	err := At(ValidationErrorCode, SourceLocation{File: "api.go", Line: 9, Column: 2}, "missing %s", "HTTP method attribute")
	assert.Equal(t, "api.go:9:2: missing HTTP method attribute", err.Error())
}

func TestAsAndCodeOf(t *testing.T) {
	err := fmt.Errorf("generating: %w", New(ValidationErrorCode, "bad"))

	genErr, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, ValidationErrorCode, genErr.ErrorCode())
	assert.Equal(t, ValidationErrorCode, CodeOf(err))
	assert.Equal(t, UnknownErrorCode, CodeOf(errors.New("plain")))
}

func TestFromAnnotation(t *testing.T) {
	parser := annotations.NewParticipleParser(annotations.DefaultRegistry())
	loc := annotations.SourceLocation{File: "api.go", Line: 5, Column: 1}

	t.Run("schema error", func(t *testing.T) {
		_, annErr := parser.ParseAnnotation("//retroqwest::get", loc)
		require.Error(t, annErr)

		err := FromAnnotation(annErr, SourceLocation{})
		assert.Equal(t, ValidationErrorCode, err.ErrorCode())
		assert.Equal(t, `api.go:5:1: get annotation requires a path (e.g., //retroqwest::get "/users")`, err.Error())
		assert.NotEmpty(t, err.Suggestions())
	})

	t.Run("syntax error", func(t *testing.T) {
		_, annErr := parser.ParseAnnotation(`//retroqwest::get "/x`, loc)
		require.Error(t, annErr)

		err := FromAnnotation(annErr, SourceLocation{})
		assert.Equal(t, SyntaxErrorCode, err.ErrorCode())
		assert.Contains(t, err.Error(), "api.go:5:")
	})

	t.Run("plain error", func(t *testing.T) {
		err := FromAnnotation(errors.New("boom"), SourceLocation{File: "x.go", Line: 1, Column: 1})
		assert.Equal(t, "x.go:1:1: boom", err.Error())
	})
}

func TestWrappers(t *testing.T) {
	cause := errors.New("cause")

	assert.Equal(t, SyntaxErrorCode, WrapParseError("api.go", cause).ErrorCode())
	assert.Equal(t, GenerationErrorCode, WrapGenerateError("retroqwest_client.go", cause).ErrorCode())

	fsErr := WrapFileSystemError("write", "out.go", cause)
	assert.Equal(t, "failed to write file 'out.go': cause", fsErr.Error())
	assert.Equal(t, "write", fsErr.Context()["operation"])

	cfgErr := WrapConfigurationError(".retroqwest.yaml", cause)
	assert.Equal(t, ConfigurationErrorCode, cfgErr.ErrorCode())
	assert.ErrorIs(t, cfgErr, cause)
}
