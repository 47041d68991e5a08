// Package fetch is the shared HTTP client used for every upstream call.
// It issues GET and POST requests, decodes JSON bodies and turns non-2xx
// responses into a *RequestError.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/NERVsystems/mapsmcp/pkg/version"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// maxSnippet bounds the response body carried by a RequestError.
const maxSnippet = 512

// RequestError reports an upstream response with a non-success status.
type RequestError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *RequestError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status %d: %s", e.StatusCode, e.Body)
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the overall per-request timeout. Zero leaves only the
// transport defaults in place.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithHTTPClient replaces the underlying client. Its transport is used as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// Client performs upstream HTTP requests. It holds no per-call state and is
// safe for concurrent use.
type Client struct {
	http      *http.Client
	userAgent string
	logger    *slog.Logger
}

// New creates a Client whose transport records an OpenTelemetry span for
// each outbound request.
func New(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Transport: otelhttp.NewTransport(&http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			}),
		},
		userAgent: version.UserAgent(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetJSON issues a GET to target and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, target string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, out)
}

// PostJSON marshals body, POSTs it to target with the extra headers and decodes
// the JSON response into out.
func (c *Client) PostJSON(ctx context.Context, target string, body any, headers map[string]string, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, target, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.doJSON(req, out)
}

// Do sends a GET to target and returns the raw response. The caller owns the
// body. Unlike GetJSON it does not treat non-2xx statuses as errors.
func (c *Client) Do(ctx context.Context, target string) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, redact(req, err)
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, target string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) doJSON(req *http.Request, out any) error {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		err = redact(req, err)
		c.logger.Debug("upstream request failed", "error", err)
		return err
	}
	defer resp.Body.Close()

	c.logger.Debug("upstream response",
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxSnippet))
		return &RequestError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(bytes.TrimSpace(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// redact rewrites a transport error so the query string, which carries the
// API key for Google endpoints, never reaches logs or tool results.
func redact(req *http.Request, err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return fmt.Errorf("%s %s://%s%s: %w", req.Method, req.URL.Scheme, req.URL.Host, req.URL.Path, uerr.Err)
	}
	return err
}
