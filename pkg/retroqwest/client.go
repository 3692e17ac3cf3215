// Package retroqwest is the runtime behind generated and bound HTTP clients.
//
// A client is described by a descriptor table: one Method per remote call,
// each with a verb, a path template and an ordered list of parameters
// classified as path, query or JSON body. The table is validated once by
// NewClient and every call goes through Call, which runs a fixed pipeline:
//
//	URL = endpoint + expanded path template
//	query string in declaration order, if any query parameters
//	JSON body, if a body parameter exists
//	send; transport failure is a RequestError
//	non-2xx status is a ResponseError
//	decode the body into the result type; failure is a JsonParse error
//
// Code produced by the retroqwest generator and clients filled by Bind
// share this pipeline.
package retroqwest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// ParamKind classifies how a parameter reaches the request
type ParamKind int

const (
	// PathParam substitutes a {name} placeholder of the path template
	PathParam ParamKind = iota
	// QueryParam contributes a name=value pair to the query string
	QueryParam
	// JSONParam is encoded as the request body
	JSONParam
)

// String returns the string representation of the parameter kind
func (k ParamKind) String() string {
	switch k {
	case PathParam:
		return "path"
	case QueryParam:
		return "query"
	case JSONParam:
		return "json"
	default:
		return "unknown"
	}
}

// Param describes one method parameter, in declaration order
type Param struct {
	Name string
	Kind ParamKind
	// Key overrides the query string name of a QueryParam. Defaults to Name.
	Key string
}

// QueryKey returns the name used in the query string
func (p Param) QueryKey() string {
	if p.Key != "" {
		return p.Key
	}
	return p.Name
}

// Method describes a single remote call
type Method struct {
	Name   string
	Verb   string
	Path   string
	Params []Param
}

// NoContent can be used as a result type for calls whose response has no body.
// Decoding is skipped for it.
type NoContent struct{}

var noContentType = reflect.TypeOf(NoContent{})

// Supported HTTP verbs
var verbs = map[string]bool{
	resty.MethodGet:     true,
	resty.MethodPost:    true,
	resty.MethodPut:     true,
	resty.MethodPatch:   true,
	resty.MethodDelete:  true,
	resty.MethodHead:    true,
	resty.MethodOptions: true,
}

type boundMethod struct {
	Method
	template PathTemplate
}

// Client is the descriptor-table client shared by every generated client.
// It is immutable after NewClient and safe for concurrent use.
type Client struct {
	service  string
	endpoint string
	http     *resty.Client
	codec    Codec
	logger   *slog.Logger
	metrics  *callMetrics
	order    []string
	methods  map[string]*boundMethod
}

// NewClient validates the descriptor table and builds the HTTP client.
// All trailing slashes are trimmed from baseURL. A nil builder uses defaults.
// Every failure is a FailedToBuildClient error.
func NewClient(service, baseURL string, builder *ClientBuilder, methods ...Method) (*Client, error) {
	if builder == nil {
		builder = NewClientBuilder()
	}

	c := &Client{
		service:  service,
		endpoint: strings.TrimRight(baseURL, "/"),
		codec:    builder.codecOrDefault(),
		logger:   builder.logger,
		methods:  make(map[string]*boundMethod, len(methods)),
	}

	for _, m := range methods {
		bound, err := bindMethod(m)
		if err != nil {
			return nil, newError(FailedToBuildClient, fmt.Errorf("%s.%s: %w", service, m.Name, err))
		}
		if _, exists := c.methods[m.Name]; exists {
			return nil, newError(FailedToBuildClient, fmt.Errorf("%s: method %s registered twice", service, m.Name))
		}
		c.methods[m.Name] = bound
		c.order = append(c.order, m.Name)
	}

	httpClient, err := builder.Build()
	if err != nil {
		return nil, err
	}
	c.http = httpClient

	if builder.registerer != nil {
		metrics, err := newCallMetrics(builder.registerer)
		if err != nil {
			return nil, newError(FailedToBuildClient, err)
		}
		c.metrics = metrics
	}

	return c, nil
}

// bindMethod validates a descriptor and parses its path template
func bindMethod(m Method) (*boundMethod, error) {
	if m.Name == "" {
		return nil, errors.New("method name is required")
	}
	m.Verb = strings.ToUpper(m.Verb)
	if !verbs[m.Verb] {
		return nil, fmt.Errorf("unsupported HTTP method %q", m.Verb)
	}
	if !strings.HasPrefix(m.Path, "/") {
		return nil, fmt.Errorf("path %q must start with /", m.Path)
	}

	tmpl, err := ParsePathTemplate(m.Path)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(m.Params))
	pathParams := make(map[string]bool)
	bodies := 0
	for _, p := range m.Params {
		if p.Name == "" {
			return nil, errors.New("parameter name is required")
		}
		if seen[p.Name] {
			return nil, fmt.Errorf("duplicate parameter %s", p.Name)
		}
		seen[p.Name] = true

		switch p.Kind {
		case PathParam:
			pathParams[p.Name] = true
		case QueryParam:
		case JSONParam:
			if !AllowsBody(m.Verb) {
				return nil, fmt.Errorf("parameter %s: %s requests cannot carry a json body", p.Name, m.Verb)
			}
			bodies++
			if bodies > 1 {
				return nil, fmt.Errorf("parameter %s: only one json body parameter is allowed", p.Name)
			}
		default:
			return nil, fmt.Errorf("parameter %s: unknown kind %d", p.Name, p.Kind)
		}
	}

	if err := MatchPlaceholders(tmpl, pathParams); err != nil {
		return nil, err
	}

	return &boundMethod{Method: m, template: tmpl}, nil
}

// AllowsBody reports whether requests with the given verb can carry a json
// body. HEAD and OPTIONS requests are always sent without one.
func AllowsBody(verb string) bool {
	verb = strings.ToUpper(verb)
	return verb != http.MethodHead && verb != http.MethodOptions
}

// MatchPlaceholders checks that every placeholder has a path parameter and
// every path parameter is used by a placeholder
func MatchPlaceholders(tmpl PathTemplate, pathParams map[string]bool) error {
	placeholders := tmpl.Placeholders()
	used := make(map[string]bool, len(placeholders))
	for _, name := range placeholders {
		if !pathParams[name] {
			return fmt.Errorf("path placeholder {%s} has no matching parameter", name)
		}
		used[name] = true
	}
	for name := range pathParams {
		if !used[name] {
			return fmt.Errorf("parameter %s is not used by path %q; mark it as query or json", name, tmpl.Raw())
		}
	}
	return nil
}

// Service returns the name the client was registered under
func (c *Client) Service() string {
	return c.service
}

// Endpoint returns the base URL with trailing slashes trimmed
func (c *Client) Endpoint() string {
	return c.endpoint
}

// HTTP returns the underlying resty client
func (c *Client) HTTP() *resty.Client {
	return c.http
}

// Methods returns the descriptor table in registration order
func (c *Client) Methods() []Method {
	methods := make([]Method, 0, len(c.order))
	for _, name := range c.order {
		methods = append(methods, c.methods[name].Method)
	}
	return methods
}

// String implements fmt.Stringer
func (c *Client) String() string {
	return fmt.Sprintf("%s{endpoint: %q}", c.service, c.endpoint)
}

// Call invokes a registered method with arguments in declaration order and
// decodes the response body into T
func Call[T any](ctx context.Context, c *Client, method string, args ...any) (T, error) {
	var out T
	err := c.invoke(ctx, method, args, &out)
	return out, err
}

func (c *Client) invoke(ctx context.Context, method string, args []any, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	m, ok := c.methods[method]
	if !ok {
		return newError(RequestError, fmt.Errorf("unknown method %s.%s", c.service, method))
	}
	if len(args) != len(m.Params) {
		return newError(RequestError, fmt.Errorf("%s.%s expects %d arguments, got %d", c.service, method, len(m.Params), len(args)))
	}

	req, url, err := c.prepare(ctx, m, args)
	if err != nil {
		return newError(RequestError, err)
	}

	start := time.Now()
	resp, err := req.Execute(m.Verb, url)
	elapsed := time.Since(start)
	if err != nil {
		c.observe(ctx, m, url, 0, elapsed, RequestError)
		return newError(RequestError, err)
	}

	status := resp.StatusCode()
	if !resp.IsSuccess() {
		c.observe(ctx, m, url, status, elapsed, ResponseError)
		return newResponseError(status, &StatusError{
			StatusCode: status,
			Method:     m.Verb,
			URL:        url,
			Body:       resp.Body(),
		})
	}

	if reflect.TypeOf(out).Elem() == noContentType {
		c.observe(ctx, m, url, status, elapsed, 0)
		return nil
	}

	body := resp.Body()
	if len(body) == 0 {
		c.observe(ctx, m, url, status, elapsed, JsonParse)
		return newError(JsonParse, errors.New("empty response body"))
	}
	if err := c.codec.Unmarshal(body, out); err != nil {
		c.observe(ctx, m, url, status, elapsed, JsonParse)
		return newError(JsonParse, err)
	}

	c.observe(ctx, m, url, status, elapsed, 0)
	return nil
}

// prepare builds the URL and the resty request for one call
func (c *Client) prepare(ctx context.Context, m *boundMethod, args []any) (*resty.Request, string, error) {
	pathValues := make(map[string]string)
	var query []QueryPair
	var body any
	hasBody := false

	for i, p := range m.Params {
		arg := args[i]
		switch p.Kind {
		case PathParam:
			s, ok, err := FormatValue(arg)
			if err != nil {
				return nil, "", fmt.Errorf("path parameter %s: %w", p.Name, err)
			}
			if !ok {
				return nil, "", fmt.Errorf("path parameter %s is nil", p.Name)
			}
			pathValues[p.Name] = s
		case QueryParam:
			pairs, err := QueryValues(p.QueryKey(), arg)
			if err != nil {
				return nil, "", err
			}
			query = append(query, pairs...)
		case JSONParam:
			body = arg
			hasBody = true
		}
	}

	path, err := m.template.Expand(pathValues)
	if err != nil {
		return nil, "", err
	}

	url := c.endpoint + path
	if len(query) > 0 {
		sep := "?"
		if strings.Contains(url, "?") {
			sep = "&"
		}
		url += sep + EncodeQuery(query)
	}

	req := c.http.R().SetContext(ctx)
	if hasBody {
		data, err := c.codec.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode body: %w", err)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(data)
	}

	return req, url, nil
}

// observe records logs and metrics for a finished call. kind is zero on success.
func (c *Client) observe(ctx context.Context, m *boundMethod, url string, status int, elapsed time.Duration, kind Kind) {
	outcome := "ok"
	if kind != 0 {
		outcome = kind.String()
	}

	if c.logger != nil {
		c.logger.DebugContext(ctx, "retroqwest call",
			"service", c.service,
			"method", m.Name,
			"verb", m.Verb,
			"url", url,
			"status", status,
			"outcome", outcome,
			"duration", elapsed,
		)
	}

	if c.metrics != nil {
		c.metrics.observe(c.service, m.Name, status, outcome, elapsed)
	}
}
