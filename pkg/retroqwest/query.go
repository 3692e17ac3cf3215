package retroqwest

import (
	"encoding"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// QueryPair is a single name=value entry of a query string
type QueryPair struct {
	Name  string
	Value string
}

// EncodeQuery renders pairs in the given order. url.Values sorts keys, which
// would lose declaration order, so the string is built by hand.
func EncodeQuery(pairs []QueryPair) string {
	var b strings.Builder
	for i, pair := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(pair.Name))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(pair.Value))
	}
	return b.String()
}

// QueryValues converts a parameter value into query pairs. Slices and arrays
// repeat the name once per element; nil pointers and nil slices produce nothing.
func QueryValues(name string, v any) ([]QueryPair, error) {
	rv := reflect.ValueOf(v)
	for rv.IsValid() && rv.Kind() == reflect.Pointer && !implementsFormatter(rv) {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, nil
	}

	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && !implementsFormatter(rv) && rv.Type().Elem().Kind() != reflect.Uint8 {
		var pairs []QueryPair
		for i := 0; i < rv.Len(); i++ {
			s, ok, err := formatValue(rv.Index(i))
			if err != nil {
				return nil, fmt.Errorf("query parameter %s[%d]: %w", name, i, err)
			}
			if ok {
				pairs = append(pairs, QueryPair{Name: name, Value: s})
			}
		}
		return pairs, nil
	}

	s, ok, err := formatValue(rv)
	if err != nil {
		return nil, fmt.Errorf("query parameter %s: %w", name, err)
	}
	if !ok {
		return nil, nil
	}
	return []QueryPair{{Name: name, Value: s}}, nil
}

// FormatValue renders a single value using its natural string form.
// The boolean result is false when the value is absent (nil pointer or interface).
func FormatValue(v any) (string, bool, error) {
	return formatValue(reflect.ValueOf(v))
}

var (
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	stringerType      = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

func implementsFormatter(rv reflect.Value) bool {
	t := rv.Type()
	return t.Implements(textMarshalerType) || t.Implements(stringerType)
}

func formatValue(rv reflect.Value) (string, bool, error) {
	if !rv.IsValid() {
		return "", false, nil
	}
	if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
		return "", false, nil
	}

	if rv.CanInterface() {
		switch x := rv.Interface().(type) {
		case encoding.TextMarshaler:
			text, err := x.MarshalText()
			if err != nil {
				return "", false, err
			}
			return string(text), true, nil
		case fmt.Stringer:
			return x.String(), true, nil
		}
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return formatValue(rv.Elem())
	case reflect.String:
		return rv.String(), true, nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true, nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 32), true, nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), true, nil
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes()), true, nil
		}
	}

	return "", false, fmt.Errorf("unsupported value type %s", rv.Type())
}
