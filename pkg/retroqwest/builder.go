package retroqwest

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// ClientBuilder collects the configuration of the underlying HTTP client.
// The zero value is not usable; start from NewClientBuilder.
type ClientBuilder struct {
	timeout     time.Duration
	headers     map[string]string
	userAgent   string
	proxy       string
	rootCAFile  string
	insecure    bool
	retryCount  int
	transport   http.RoundTripper
	debug       bool
	logger      *slog.Logger
	registerer  prometheus.Registerer
	codec       Codec
	restyClient *resty.Client
}

// NewClientBuilder creates a builder with default settings
func NewClientBuilder() *ClientBuilder {
	return &ClientBuilder{
		headers: make(map[string]string),
	}
}

// Timeout sets the overall request timeout
func (b *ClientBuilder) Timeout(d time.Duration) *ClientBuilder {
	b.timeout = d
	return b
}

// Header adds a header sent with every request
func (b *ClientBuilder) Header(name, value string) *ClientBuilder {
	b.headers[name] = value
	return b
}

// UserAgent sets the User-Agent header
func (b *ClientBuilder) UserAgent(ua string) *ClientBuilder {
	b.userAgent = ua
	return b
}

// Proxy routes requests through the given proxy URL
func (b *ClientBuilder) Proxy(proxyURL string) *ClientBuilder {
	b.proxy = proxyURL
	return b
}

// RootCAFile trusts only the PEM certificates in path
func (b *ClientBuilder) RootCAFile(path string) *ClientBuilder {
	b.rootCAFile = path
	return b
}

// InsecureSkipVerify disables TLS certificate verification
func (b *ClientBuilder) InsecureSkipVerify(skip bool) *ClientBuilder {
	b.insecure = skip
	return b
}

// RetryCount enables resty's retry on transport errors
func (b *ClientBuilder) RetryCount(n int) *ClientBuilder {
	b.retryCount = n
	return b
}

// Transport replaces the HTTP transport
func (b *ClientBuilder) Transport(rt http.RoundTripper) *ClientBuilder {
	b.transport = rt
	return b
}

// Debug enables resty's request/response dumps through the logger
func (b *ClientBuilder) Debug(debug bool) *ClientBuilder {
	b.debug = debug
	return b
}

// Logger sets the logger used for per-call debug logs
func (b *ClientBuilder) Logger(logger *slog.Logger) *ClientBuilder {
	b.logger = logger
	return b
}

// Metrics registers call metrics with reg
func (b *ClientBuilder) Metrics(reg prometheus.Registerer) *ClientBuilder {
	b.registerer = reg
	return b
}

// Codec replaces the JSON codec
func (b *ClientBuilder) Codec(codec Codec) *ClientBuilder {
	b.codec = codec
	return b
}

// Resty starts from an existing resty client instead of resty.New
func (b *ClientBuilder) Resty(client *resty.Client) *ClientBuilder {
	b.restyClient = client
	return b
}

// Build creates the resty client. Every failure is a FailedToBuildClient error.
func (b *ClientBuilder) Build() (*resty.Client, error) {
	client := b.restyClient
	if client == nil {
		client = resty.New()
	}
	// json parameters on GET methods are sent as the request body
	client.SetAllowGetMethodPayload(true)

	if b.transport != nil {
		client.SetTransport(b.transport)
	}

	if b.rootCAFile != "" || b.insecure {
		if b.transport != nil {
			if _, ok := b.transport.(*http.Transport); !ok {
				return nil, newError(FailedToBuildClient, fmt.Errorf("TLS options require an *http.Transport, got %T", b.transport))
			}
		}
		tlsConfig := &tls.Config{InsecureSkipVerify: b.insecure} //nolint:gosec
		if b.rootCAFile != "" {
			pool, err := loadCertPool(b.rootCAFile)
			if err != nil {
				return nil, newError(FailedToBuildClient, err)
			}
			tlsConfig.RootCAs = pool
		}
		client.SetTLSClientConfig(tlsConfig)
	}

	if b.proxy != "" {
		u, err := url.Parse(b.proxy)
		if err != nil {
			return nil, newError(FailedToBuildClient, fmt.Errorf("invalid proxy URL %q: %w", b.proxy, err))
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, newError(FailedToBuildClient, fmt.Errorf("invalid proxy URL %q: scheme and host are required", b.proxy))
		}
		client.SetProxy(b.proxy)
	}

	if b.timeout > 0 {
		client.SetTimeout(b.timeout)
	}
	if b.retryCount > 0 {
		client.SetRetryCount(b.retryCount)
	}
	for name, value := range b.headers {
		client.SetHeader(name, value)
	}
	if b.userAgent != "" {
		client.SetHeader("User-Agent", b.userAgent)
	}

	codec := b.codecOrDefault()
	client.SetJSONMarshaler(codec.Marshal)
	client.SetJSONUnmarshaler(codec.Unmarshal)

	if b.logger != nil {
		client.SetLogger(&restyLogger{logger: b.logger})
	}
	client.SetDebug(b.debug)

	return client, nil
}

func (b *ClientBuilder) codecOrDefault() Codec {
	if b == nil || b.codec == nil {
		return DefaultCodec
	}
	return b.codec
}

func loadCertPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read root CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("no certificates found in %s", path)
	}
	return pool, nil
}

// restyLogger adapts slog to resty.Logger
type restyLogger struct {
	logger *slog.Logger
}

func (l *restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l *restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, v...))
}

func (l *restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...))
}
