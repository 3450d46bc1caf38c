// Package gemini implements the client for the Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mandalnilabja/gemrelay/internal/config"
	"github.com/mandalnilabja/gemrelay/internal/types"
)

// Client sends generateContent calls for a single configured model.
// The API key is supplied per call and never stored on the client.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	Model      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for upstream calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithBaseURL sets the API root, e.g. an httptest server in tests.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.BaseURL = base }
}

// WithModel sets the model id.
func WithModel(model string) Option {
	return func(c *Client) { c.Model = model }
}

// New creates a client for the public Gemini endpoint and default model.
// The default HTTP client has no explicit timeout.
func New(opts ...Option) *Client {
	c := &Client{
		HTTPClient: &http.Client{},
		BaseURL:    config.DefaultBaseURL,
		Model:      config.DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a client from application configuration.
func NewFromConfig(cfg *config.Config) *Client {
	return New(WithBaseURL(cfg.BaseURL), WithModel(cfg.Model))
}

// Name returns the provider identifier
func (c *Client) Name() string {
	return "gemini"
}

// Result is a completed upstream exchange, successful or not.
type Result struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the upstream answered with a 2xx status.
func (r *Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// GenerateContent posts {"contents": contents} to the model endpoint.
// Any HTTP response is returned as a Result; err is non-nil only when no
// response was obtained. Errors never contain the API key.
func (c *Client) GenerateContent(ctx context.Context, apiKey string, contents json.RawMessage) (*Result, error) {
	payload, err := json.Marshal(types.GenerateContentRequest{Contents: contents})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	targetURL, err := buildTargetURL(c.BaseURL, c.Model, apiKey)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, bytes.NewReader(payload))
	if err != nil {
		return nil, redact(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, redact(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &Result{StatusCode: resp.StatusCode, Body: body}, nil
}
