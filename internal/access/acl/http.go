package acl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"caregate/pkg/platform/sentinel"
)

const capabilitiesPath = "/v1/acl/capabilities"

// HTTPClient queries the external capability-lookup service over HTTP.
// Every failure mode — timeout, refused connection, non-success status,
// malformed body — surfaces as sentinel.ErrUnavailable so the evaluator
// can fail closed without inspecting transport detail.
type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// HTTPOption configures an HTTPClient.
type HTTPOption func(*HTTPClient)

// WithHTTPClient swaps the underlying http.Client (custom transports,
// test servers).
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *HTTPClient) {
		if client != nil {
			c.client = client
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(logger *slog.Logger) HTTPOption {
	return func(c *HTTPClient) {
		c.logger = logger
	}
}

// NewHTTPClient builds a client for the capability service at baseURL.
// The client sets no timeout of its own: lookups run under the
// caller-supplied context deadline.
func NewHTTPClient(baseURL string, opts ...HTTPOption) *HTTPClient {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type capabilitiesRequest struct {
	Accessor string `json:"accessor"`
	Path     string `json:"path"`
}

type capabilitiesResponse struct {
	Capabilities []string `json:"capabilities"`
}

// Capabilities returns the tokens granted to the accessor at the path.
func (c *HTTPClient) Capabilities(ctx context.Context, accessor, path string) (TokenSet, error) {
	body, err := json.Marshal(capabilitiesRequest{Accessor: accessor, Path: path})
	if err != nil {
		return nil, fmt.Errorf("encode capabilities request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+capabilitiesPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build capabilities request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.warn(ctx, "capability lookup failed", path, start, err)
		return nil, fmt.Errorf("capability lookup for %q: %w: %w", path, sentinel.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.warn(ctx, "capability lookup returned non-success status", path, start, nil)
		return nil, fmt.Errorf("capability lookup for %q: status %d: %w", path, resp.StatusCode, sentinel.ErrUnavailable)
	}

	var decoded capabilitiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.warn(ctx, "capability lookup returned malformed body", path, start, err)
		return nil, fmt.Errorf("decode capabilities response for %q: %w: %w", path, sentinel.ErrUnavailable, err)
	}

	return ParseTokens(decoded.Capabilities), nil
}

func (c *HTTPClient) warn(ctx context.Context, msg, path string, start time.Time, err error) {
	if c.logger == nil {
		return
	}
	attrs := []any{
		"path", path,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		attrs = append(attrs, "error", err)
	}
	c.logger.WarnContext(ctx, msg, attrs...)
}
