package retroqwest

import (
	"fmt"
	"net/url"
	"strings"
)

// PathPartType represents the type of path part
type PathPartType int

const (
	StaticPart PathPartType = iota
	PlaceholderPart
)

// PathPart represents a single part of a path template
type PathPart struct {
	Type  PathPartType
	Value string // literal text for static parts, placeholder name otherwise
}

// PathTemplate is a URL path with {name} placeholders, e.g. /users/{id}/posts
type PathTemplate struct {
	raw   string
	parts []PathPart
}

// ParsePathTemplate splits a template into static and placeholder parts.
// Placeholder names must be Go identifiers and braces must balance.
func ParsePathTemplate(raw string) (PathTemplate, error) {
	tmpl := PathTemplate{raw: raw}

	i := 0
	for i < len(raw) {
		switch raw[i] {
		case '{':
			end := strings.IndexByte(raw[i+1:], '}')
			if end == -1 {
				return PathTemplate{}, fmt.Errorf("unclosed placeholder at offset %d in %q", i, raw)
			}
			name := raw[i+1 : i+1+end]
			if !isIdentifier(name) {
				return PathTemplate{}, fmt.Errorf("invalid placeholder name %q in %q", name, raw)
			}
			tmpl.parts = append(tmpl.parts, PathPart{Type: PlaceholderPart, Value: name})
			i += end + 2
		case '}':
			return PathTemplate{}, fmt.Errorf("unexpected '}' at offset %d in %q", i, raw)
		default:
			start := i
			for i < len(raw) && raw[i] != '{' && raw[i] != '}' {
				i++
			}
			tmpl.parts = append(tmpl.parts, PathPart{Type: StaticPart, Value: raw[start:i]})
		}
	}

	return tmpl, nil
}

// MustParsePathTemplate is like ParsePathTemplate but panics on error
func MustParsePathTemplate(raw string) PathTemplate {
	tmpl, err := ParsePathTemplate(raw)
	if err != nil {
		panic(err)
	}
	return tmpl
}

// Raw returns the template as written
func (t PathTemplate) Raw() string {
	return t.raw
}

// Parts returns the parsed parts in order
func (t PathTemplate) Parts() []PathPart {
	return t.parts
}

// Placeholders returns placeholder names in order of first appearance
func (t PathTemplate) Placeholders() []string {
	var names []string
	seen := make(map[string]bool)
	for _, part := range t.parts {
		if part.Type == PlaceholderPart && !seen[part.Value] {
			seen[part.Value] = true
			names = append(names, part.Value)
		}
	}
	return names
}

// Expand substitutes placeholders with path-escaped values
func (t PathTemplate) Expand(values map[string]string) (string, error) {
	var b strings.Builder
	for _, part := range t.parts {
		if part.Type == StaticPart {
			b.WriteString(part.Value)
			continue
		}
		value, ok := values[part.Value]
		if !ok {
			return "", fmt.Errorf("no value for placeholder {%s}", part.Value)
		}
		b.WriteString(url.PathEscape(value))
	}
	return b.String(), nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
