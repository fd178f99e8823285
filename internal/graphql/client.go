package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 64 << 20

// Request is the JSON body sent for each call.
type Request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// Response is a decoded GraphQL response.
type Response struct {
	// Data is the raw "data" member, left for the caller to decode.
	Data json.RawMessage `json:"data"`

	// Errors holds GraphQL-level errors reported alongside the data.
	Errors Errors `json:"errors,omitempty"`
}

// Client sends GraphQL requests to one endpoint.
type Client struct {
	endpoint   string
	apiKey     string
	userAgent  string
	proxyURL   string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Proxy and timeout options are
// ignored when a client is supplied.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger used for request traces.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit caps outgoing requests per second. Zero or less disables it.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		} else {
			c.limiter = nil
		}
	}
}

// WithProxy routes requests through an http, https, socks5 or socks5h proxy.
func WithProxy(proxyURL string) Option {
	return func(c *Client) {
		c.proxyURL = proxyURL
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a client for endpoint authenticated with apiKey.
func NewClient(endpoint, apiKey string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}

	c := &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		timeout:  2 * time.Minute,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient == nil {
		transport, err := newTransport(c.proxyURL)
		if err != nil {
			return nil, err
		}
		c.httpClient = &http.Client{
			Transport: transport,
			Timeout:   c.timeout,
		}
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
		"Content-Type":  "application/json",
	}
	if c.userAgent != "" {
		headers["User-Agent"] = c.userAgent
	}

	base := c.httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	// Copy so a caller-supplied client is not mutated.
	hc := *c.httpClient
	hc.Transport = &headerInjectingTransport{base: base, headers: headers}
	c.httpClient = &hc

	return c, nil
}

// Endpoint returns the URL requests are sent to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Do sends query with variables and returns the decoded response.
//
// A non-200 status returns *StatusError. A 200 whose body is not JSON
// returns an error wrapping ErrMalformedResponse. GraphQL errors inside a
// 200 response are not treated as failures.
func (c *Client) Do(ctx context.Context, query string, variables map[string]any) (*Response, error) {
	if variables == nil {
		variables = map[string]any{}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter cancelled: %w", err)
		}
	}

	payload, err := json.Marshal(Request{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var out Response
	decodeErr := json.Unmarshal(body, &out)

	c.trace(ctx, query, variables, resp.StatusCode, body)

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if decodeErr != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(decodeErr, &syntaxErr) || len(bytes.TrimSpace(body)) == 0 {
			return nil, fmt.Errorf("%w: response is not JSON", ErrMalformedResponse)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, decodeErr)
	}

	return &out, nil
}

// trace logs one request and response at debug level.
func (c *Client) trace(ctx context.Context, query string, variables map[string]any, status int, body []byte) {
	if !c.logger.Enabled(ctx, slog.LevelDebug) {
		return
	}

	vars, err := json.MarshalIndent(variables, "", " ")
	if err != nil {
		vars = []byte(fmt.Sprint(variables))
	}

	response := body
	var indented bytes.Buffer
	if json.Indent(&indented, body, "", " ") == nil {
		response = indented.Bytes()
	}

	c.logger.DebugContext(ctx, "GraphQL debug information",
		"query", query,
		"variables", string(vars),
		"status", status,
		"response", string(response),
	)
}
