package http

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/crmarques/srvinv/config"
	"github.com/crmarques/srvinv/faults"
	"github.com/crmarques/srvinv/internal/providers/shared/tlsconfig"
	"github.com/crmarques/srvinv/telemetry"
	"github.com/crmarques/srvinv/transport"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const (
	defaultMediaType = "application/json"
	requestIDHeader  = "X-Request-Id"
	maxResponseBytes = 64 << 20
)

var _ transport.Transport = (*Gateway)(nil)

// Gateway is the HTTP transport to the inventory service. Every call is one
// exchange: no retries, no caching.
type Gateway struct {
	baseURL        *url.URL
	apiVersion     string
	defaultHeaders map[string]string
	auth           authConfig
	client         *http.Client
	limiter        *rate.Limiter
	tlsDebug       tlsDebugInfo
	metrics        *telemetry.Metrics
	tracer         trace.Tracer
	now            func() time.Time
}

type Option func(*Gateway)

// WithHTTPClient replaces the client built from the TLS and timeout settings.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		if client != nil {
			g.client = client
		}
	}
}

func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(g *Gateway) { g.metrics = metrics }
}

func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(g *Gateway) { g.tracer = telemetry.Tracer(provider) }
}

func New(cfg config.Server, opts ...Option) (*Gateway, error) {
	baseURL, err := parseBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	auth, err := buildAuthConfig(cfg.Auth)
	if err != nil {
		return nil, err
	}

	tlsConfig, err := tlsconfig.Build(cfg.TLS, "server")
	if err != nil {
		return nil, err
	}

	apiVersion := strings.Trim(strings.TrimSpace(cfg.APIVersion), "/")
	if apiVersion == "" {
		apiVersion = config.DefaultAPIVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}

	httpTransport := http.DefaultTransport.(*http.Transport).Clone()
	httpTransport.TLSClientConfig = tlsConfig

	gateway := &Gateway{
		baseURL:        baseURL,
		apiVersion:     apiVersion,
		defaultHeaders: cloneStringMap(cfg.DefaultHeaders),
		auth:           auth,
		client: &http.Client{
			Timeout:   timeout,
			Transport: httpTransport,
		},
		limiter:  newLimiter(cfg.RequestsPerSecond, cfg.Burst),
		tlsDebug: newTLSDebugInfo(cfg.TLS),
		tracer:   telemetry.Tracer(nil),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(gateway)
	}
	return gateway, nil
}

func newLimiter(requestsPerSecond float64, burst int) *rate.Limiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, validationError("server.base-url is required", nil)
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, validationError("server.base-url is invalid", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, validationError("server.base-url must use http or https", nil)
	}
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed, nil
}

// resolveURL joins the base path, the API version and the request path. The
// request path segments are already escaped.
func (g *Gateway) resolveURL(request transport.Request) (*url.URL, error) {
	basePath := strings.TrimRight(g.baseURL.EscapedPath(), "/")
	escapedPath := basePath + "/" + url.PathEscape(g.apiVersion) + "/" + request.Path()

	target := *g.baseURL
	unescaped, err := url.PathUnescape(escapedPath)
	if err != nil {
		return nil, validationError("request path is invalid", err)
	}
	target.Path = unescaped
	target.RawPath = escapedPath
	return &target, nil
}

func (g *Gateway) applyHeaders(request *http.Request, requestID string, hasBody bool) {
	request.Header.Set("Accept", defaultMediaType)
	if hasBody {
		request.Header.Set("Content-Type", defaultMediaType)
	}

	keys := make([]string, 0, len(g.defaultHeaders))
	for key := range g.defaultHeaders {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		request.Header.Set(key, g.defaultHeaders[key])
	}

	request.Header.Set(requestIDHeader, requestID)
	g.applyAuth(request)
}

func newRequestID() string {
	return uuid.NewString()
}

func cloneStringMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	cloned := make(map[string]string, len(values))
	for key, value := range values {
		cloned[key] = value
	}
	return cloned
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func transportError(message string, cause error) error {
	return faults.NewTypedError(faults.TransportError, message, cause)
}

func decodeError(message string, cause error) error {
	return faults.NewTypedError(faults.DecodeError, message, cause)
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
