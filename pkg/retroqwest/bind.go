package retroqwest

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/fatih/structtag"
)

const (
	methodTagKey = "retroqwest"
	paramsTagKey = "params"
)

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// BindError reports a malformed field of a struct passed to Bind
type BindError struct {
	Struct string
	Field  string
	Err    error
}

// Error implements the error interface
func (e *BindError) Error() string {
	return fmt.Sprintf("%s.%s: %v", e.Struct, e.Field, e.Err)
}

// Unwrap returns the underlying cause
func (e *BindError) Unwrap() error {
	return e.Err
}

// Bind fills every tagged func field of the struct pointed to by target with a
// dispatcher that performs the described HTTP call.
//
//	type HTTPBin struct {
//		GetByName func(ctx context.Context, name string) (Response, error) `retroqwest:"GET /anything/{name}" params:"name"`
//		Search    func(q string, page int) (Response, error)               `retroqwest:"GET /search" params:"q:query,page:query=page_number"`
//	}
//
// The params tag lists the non-context parameters in order as name[:kind[=key]]
// where kind is path (default), query or json. Fields tagged retroqwest:"-"
// are skipped. Fields that are already set are rejected.
func Bind(target any, baseURL string, builder *ClientBuilder) error {
	rv := reflect.ValueOf(target)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("retroqwest: Bind target must be a non-nil pointer to a struct, got %T", target)
	}
	sv := rv.Elem()
	st := sv.Type()

	type binding struct {
		index  int
		method Method
		hasCtx bool
	}

	var bindings []binding
	var methods []Method
	for i := 0; i < st.NumField(); i++ {
		field := st.Field(i)
		if field.Type.Kind() != reflect.Func {
			continue
		}

		method, hasCtx, skip, err := describeField(field)
		if err != nil {
			return &BindError{Struct: st.Name(), Field: field.Name, Err: err}
		}
		if skip {
			continue
		}
		if !sv.Field(i).CanSet() {
			return &BindError{Struct: st.Name(), Field: field.Name, Err: errors.New("field must be exported")}
		}
		if !sv.Field(i).IsNil() {
			return &BindError{Struct: st.Name(), Field: field.Name, Err: errors.New("interface methods cannot have a default body")}
		}

		bindings = append(bindings, binding{index: i, method: method, hasCtx: hasCtx})
		methods = append(methods, method)
	}

	client, err := NewClient(st.Name(), baseURL, builder, methods...)
	if err != nil {
		return err
	}

	for _, b := range bindings {
		sv.Field(b.index).Set(makeDispatcher(client, b.method.Name, st.Field(b.index).Type, b.hasCtx))
	}
	return nil
}

// describeField turns a tagged func field into a method descriptor
func describeField(field reflect.StructField) (Method, bool, bool, error) {
	tags, err := structtag.Parse(string(field.Tag))
	if err != nil {
		return Method{}, false, false, fmt.Errorf("invalid struct tag: %w", err)
	}

	methodTag, err := tags.Get(methodTagKey)
	if err != nil {
		return Method{}, false, false, errors.New("missing HTTP method attribute")
	}
	if methodTag.Name == "-" {
		return Method{}, false, true, nil
	}
	if len(methodTag.Options) > 0 {
		return Method{}, false, false, errors.New("multiple HTTP method attributes")
	}

	verb, path, ok := strings.Cut(strings.TrimSpace(methodTag.Name), " ")
	if !ok {
		return Method{}, false, false, fmt.Errorf("retroqwest tag %q must be \"VERB /path\"", methodTag.Name)
	}
	method := Method{
		Name: field.Name,
		Verb: strings.ToUpper(verb),
		Path: strings.TrimSpace(path),
	}

	ft := field.Type
	hasCtx := ft.NumIn() > 0 && ft.In(0) == contextType
	if ft.IsVariadic() {
		return Method{}, false, false, errors.New("variadic functions are not supported")
	}
	if ft.NumOut() != 2 || ft.Out(1) != errorType {
		return Method{}, false, false, errors.New("function must return (T, error)")
	}

	var entries []string
	if paramsTag, err := tags.Get(paramsTagKey); err == nil {
		entries = append([]string{paramsTag.Name}, paramsTag.Options...)
		if len(entries) == 1 && entries[0] == "" {
			entries = nil
		}
	}

	inputs := ft.NumIn()
	if hasCtx {
		inputs--
	}
	if len(entries) != inputs {
		return Method{}, false, false, fmt.Errorf("params tag names %d parameters, function has %d", len(entries), inputs)
	}

	for _, entry := range entries {
		param, err := parseParamEntry(entry)
		if err != nil {
			return Method{}, false, false, err
		}
		method.Params = append(method.Params, param)
	}

	return method, hasCtx, false, nil
}

// parseParamEntry parses name[:kind[=key]]
func parseParamEntry(entry string) (Param, error) {
	name, rest, _ := strings.Cut(strings.TrimSpace(entry), ":")
	if !isIdentifier(name) {
		return Param{}, fmt.Errorf("invalid parameter name %q", name)
	}
	param := Param{Name: name}

	kind, key, hasKey := strings.Cut(rest, "=")
	switch kind {
	case "", "path":
		param.Kind = PathParam
	case "query":
		param.Kind = QueryParam
	case "json":
		param.Kind = JSONParam
	default:
		return Param{}, fmt.Errorf("parameter %s: unknown kind %q", name, kind)
	}

	if hasKey {
		if param.Kind != QueryParam {
			return Param{}, fmt.Errorf("parameter %s: only query parameters can be renamed", name)
		}
		if key == "" {
			return Param{}, fmt.Errorf("parameter %s: empty query name", name)
		}
		param.Key = key
	}
	return param, nil
}

func makeDispatcher(client *Client, name string, ft reflect.Type, hasCtx bool) reflect.Value {
	resultType := ft.Out(0)
	return reflect.MakeFunc(ft, func(in []reflect.Value) []reflect.Value {
		ctx := context.Background()
		if hasCtx {
			if c, ok := in[0].Interface().(context.Context); ok && c != nil {
				ctx = c
			}
			in = in[1:]
		}

		args := make([]any, len(in))
		for i, v := range in {
			args[i] = v.Interface()
		}

		out := reflect.New(resultType)
		if err := client.invoke(ctx, name, args, out.Interface()); err != nil {
			errValue := reflect.New(errorType).Elem()
			errValue.Set(reflect.ValueOf(err))
			return []reflect.Value{reflect.Zero(resultType), errValue}
		}
		return []reflect.Value{out.Elem(), reflect.Zero(errorType)}
	})
}
