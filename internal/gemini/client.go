// Package gemini rewrites contact-form messages through the Gemini
// generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DefaultModel is the model used when none is configured.
	DefaultModel = "gemini-2.0-flash-exp"
	// DefaultBaseURL is the public Gemini API root.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultTimeout bounds a single improvement call.
	DefaultTimeout = 30 * time.Second

	// HeaderAPIKey carries the API key.
	HeaderAPIKey = "x-goog-api-key"

	maxResponseBytes = 1 << 20
)

// Config configures a Client.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client calls the Gemini API. It is safe for concurrent use.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	timeout time.Duration
	http    *http.Client
}

// Improvement is a rewritten message.
type Improvement struct {
	Text       string
	TokensUsed *int
}

// NewHTTPClient creates an HTTP client for provider calls. The overall
// deadline comes from the request context.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// New creates a Client, filling defaults for empty fields.
func New(cfg Config) *Client {
	c := &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: cfg.Timeout,
		http:    cfg.HTTPClient,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.http == nil {
		c.http = NewHTTPClient()
	}
	return c
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Model returns the configured model name.
func (c *Client) Model() string {
	return c.model
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Improve asks the model to rewrite message. A single attempt is made,
// bounded by the client timeout.
func (c *Client) Improve(ctx context.Context, message string) (*Improvement, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: BuildPrompt(message)}},
		}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", ErrProvider, err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(c.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrProvider, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderAPIKey, c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, classify(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classify(parseAPIError(resp.StatusCode, body))
	}

	return parseImprovement(body)
}

func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	if gjson.ValidBytes(body) {
		apiErr.Status = gjson.GetBytes(body, "error.status").String()
		apiErr.Message = gjson.GetBytes(body, "error.message").String()
	}
	return apiErr
}

func parseImprovement(body []byte) (*Improvement, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid response body", ErrProvider)
	}

	var sb strings.Builder
	for _, text := range gjson.GetBytes(body, "candidates.0.content.parts.#.text").Array() {
		sb.WriteString(text.String())
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, fmt.Errorf("%w: %w", ErrProvider, errEmptyResponse)
	}

	out := &Improvement{Text: text}
	if tokens := gjson.GetBytes(body, "usageMetadata.totalTokenCount"); tokens.Exists() {
		n := int(tokens.Int())
		out.TokensUsed = &n
	}
	return out, nil
}
