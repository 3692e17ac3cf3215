package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatGoSource(t *testing.T) {
	source := "package api\nimport (\n\"github.com/google/uuid\"\n\"context\"\n)\nvar _ = context.Background\nvar _  uuid.UUID\n"

	formatted, err := FormatGoSource("api.go", []byte(source))
	require.NoError(t, err)
	out := string(formatted)
	assert.Less(t, strings.Index(out, `"context"`), strings.Index(out, `"github.com/google/uuid"`))
	assert.Contains(t, out, "\nvar _ uuid.UUID\n")
}

func TestFormatGoSource_SyntaxError(t *testing.T) {
	_, err := FormatGoSource("api.go", []byte("package api\nfunc {"))
	assert.ErrorContains(t, err, "invalid Go syntax")
}
