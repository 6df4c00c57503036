// Package client talks to the archive's GraphQL endpoint.
package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/samwightt/archivist/pkg/gql"
	"github.com/samwightt/archivist/pkg/schema"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 4096

// HTTPError is returned for non-2xx responses.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("graphql endpoint returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("graphql endpoint returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Body)
}

// Client sends GraphQL documents as GET requests. The escaped document is
// appended to the endpoint, which therefore usually ends in "?query=".
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithLogger sets the logger. Requests are logged at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the configured endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// URL returns the request URL for document.
func (c *Client) URL(document string) string {
	return c.endpoint + url.QueryEscape(document)
}

// Get sends document and returns the raw response body.
func (c *Client) Get(ctx context.Context, document string) ([]byte, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(document), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("graphql request failed",
			slog.String("endpoint", c.endpoint),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	c.logger.Debug("graphql request completed",
		slog.String("endpoint", c.endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Int("bytes", len(body)),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// Introspect fetches the endpoint's schema. It returns schema.ErrNoSchema
// when the response has no schema data.
func (c *Client) Introspect(ctx context.Context) (*schema.Schema, error) {
	body, err := c.Get(ctx, gql.IntrospectionQuery)
	if err != nil {
		return nil, err
	}
	s, err := schema.ParseIntrospection(body)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, schema.ErrNoSchema
	}
	return s, nil
}
