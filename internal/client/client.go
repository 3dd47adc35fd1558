// Package client is an HTTP client for the vidshare API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 5 * time.Second

	maxBodyBytes = 8 << 20
)

// APIError is a failure reported by the API, either as a non-2xx status
// or as a {success:false, message} envelope.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client calls the vidshare API. Each call is bounded by the configured timeout.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// New creates a Client for the API rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: http.DefaultClient,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListAll fetches GET /api/video/all. A null body yields an empty slice.
func (c *Client) ListAll(ctx context.Context) ([]VideoSummary, error) {
	var out []VideoSummary
	if err := c.do(ctx, http.MethodGet, "/api/video/all", nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []VideoSummary{}
	}
	return out, nil
}

// ListDetails fetches GET /api/video, the whole catalog with detail fields.
func (c *Client) ListDetails(ctx context.Context) ([]VideoDetail, error) {
	var env detailEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/video", nil, &env); err != nil {
		return nil, err
	}
	if !env.Success {
		return nil, &APIError{StatusCode: http.StatusOK, Message: env.Message}
	}
	if env.Data == nil {
		env.Data = []VideoDetail{}
	}
	return env.Data, nil
}

// IncrementViews calls POST /api/video/views?id=.
// Any 2xx response counts as accepted unless the body says success is false.
func (c *Client) IncrementViews(ctx context.Context, videoID string) error {
	var env statusEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/video/views", url.Values{"id": {videoID}}, &env); err != nil {
		return err
	}
	if env.Success != nil && !*env.Success {
		return &APIError{StatusCode: http.StatusOK, Message: env.Message}
	}
	return nil
}

// Profile fetches GET /api/profile?username=.
func (c *Client) Profile(ctx context.Context, username string) (*Profile, error) {
	var env profileEnvelope
	if err := c.do(ctx, http.MethodGet, "/api/profile", url.Values{"username": {username}}, &env); err != nil {
		return nil, err
	}
	if !env.Success || env.Profile == nil {
		return nil, &APIError{StatusCode: http.StatusOK, Message: env.Message}
	}
	return env.Profile, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var env statusEnvelope
		if json.Unmarshal(body, &env) == nil {
			apiErr.Message = env.Message
		}
		return apiErr
	}

	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
