package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/rshade/bookcat/internal/logging"
)

// Client defaults.
const (
	DefaultEndpoint = "http://localhost:8080/graphql"
	DefaultTimeout  = 10 * time.Second

	// RequestIDHeader carries the request's trace id.
	RequestIDHeader = "X-Request-ID"

	maxResponseBytes = 16 << 20
	maxErrorBodyLen  = 200
)

// ErrInvalidEndpoint is returned by NewClient for unusable endpoints.
var ErrInvalidEndpoint = errors.New("invalid GraphQL endpoint")

// Request is the JSON body sent to the endpoint.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

// Response is the JSON envelope returned by the endpoint.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors,omitempty"`
}

// Doer is the subset of *http.Client used by Client.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client sends GraphQL requests to one endpoint.
type Client struct {
	endpoint string
	http     Doer
	timeout  time.Duration
	limiter  *rate.Limiter
	metrics  *Metrics
	logger   *zerolog.Logger
	header   http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithTimeout bounds each request. Zero disables the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithRateLimit caps outgoing requests at rps per second with the given
// burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), max(burst, 1))
	}
}

// WithMetrics records request metrics in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithLogger sets the client logger. Without it, the logger carried by
// each request's context is used.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) {
		cl := logging.ComponentLogger(l, "graphql")
		c.logger = &cl
	}
}

// WithHeader adds a header to every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Add(key, value) }
}

// NewClient returns a client for endpoint, which must be an absolute
// http or https URL.
func NewClient(endpoint string, opts ...Option) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEndpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q must be an absolute http(s) URL", ErrInvalidEndpoint, endpoint)
	}

	c := &Client{
		endpoint: u.String(),
		http:     http.DefaultClient,
		timeout:  DefaultTimeout,
		header:   make(http.Header),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Do sends query with vars and decodes the response's data into out.
// operation names the call in errors, logs and metrics. out may be nil.
func (c *Client) Do(ctx context.Context, operation, query string, vars map[string]any, out any) error {
	start := time.Now()
	err := c.do(ctx, operation, query, vars, out)

	outcome := OutcomeOK
	switch {
	case IsServer(err):
		outcome = OutcomeServerError
	case err != nil:
		outcome = OutcomeNetworkError
	}
	c.metrics.observe(operation, outcome, time.Since(start))

	log := c.logger
	if log == nil {
		cl := logging.ComponentLogger(*logging.FromContext(ctx), "graphql")
		log = &cl
	}
	event := log.Debug()
	if err != nil {
		event = log.Warn().Err(err)
	}
	event.Ctx(ctx).
		Str("operation", operation).
		Str("outcome", outcome).
		Dur("duration_ms", time.Since(start)).
		Msg("graphql request")

	return err
}

func (c *Client) do(ctx context.Context, operation, query string, vars map[string]any, out any) error {
	if c.limiter != nil {
		waitStart := time.Now()
		if err := c.limiter.Wait(ctx); err != nil {
			return c.networkError(operation, 0, fmt.Errorf("rate limiter: %w", err))
		}
		c.metrics.observeWait(time.Since(waitStart))
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	body, err := json.Marshal(Request{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("%s: encoding request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return c.networkError(operation, 0, err)
	}
	for key, values := range c.header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, logging.GetOrGenerateTraceID(ctx))

	resp, err := c.http.Do(req)
	if err != nil {
		return c.networkError(operation, 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return c.networkError(operation, resp.StatusCode, fmt.Errorf("reading response: %w", err))
	}

	var envelope Response
	if decodeErr := json.Unmarshal(raw, &envelope); decodeErr != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return c.networkError(operation, resp.StatusCode, errors.New(snippet(raw)))
		}
		return c.networkError(operation, resp.StatusCode, fmt.Errorf("decoding response: %w", decodeErr))
	}

	if len(envelope.Errors) > 0 {
		return &ServerError{Operation: operation, Errors: envelope.Errors}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.networkError(operation, resp.StatusCode, errors.New(http.StatusText(resp.StatusCode)))
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%s: decoding data: %w", operation, err)
	}
	return nil
}

func (c *Client) networkError(operation string, status int, err error) *NetworkError {
	return &NetworkError{Operation: operation, Endpoint: c.endpoint, StatusCode: status, Err: err}
}

func snippet(raw []byte) string {
	s := string(bytes.TrimSpace(raw))
	if len(s) > maxErrorBodyLen {
		cut := maxErrorBodyLen
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		s = s[:cut] + "..."
	}
	if s == "" {
		return "empty response body"
	}
	return s
}
