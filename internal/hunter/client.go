// Package hunter is a thin client for the Hunter.io v2 API. Every call is
// a GET carrying the API key as a query parameter; successful bodies are
// returned as raw JSON so callers can reproduce them byte-for-byte.
package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the production Hunter API root.
const DefaultBaseURL = "https://api.hunter.io/v2"

// Client is the Hunter HTTP API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API root, e.g. to point at a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a Hunter API client.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FindEmail finds the most likely email address for a person at a domain.
func (c *Client) FindEmail(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return c.get(ctx, "/email-finder", params)
}

// VerifyEmail checks the deliverability of an email address.
func (c *Client) VerifyEmail(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return c.get(ctx, "/email-verifier", params)
}

// DomainSearch lists email addresses found for a domain or company.
func (c *Client) DomainSearch(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return c.get(ctx, "/domain-search", params)
}

// EmailCount returns the number of addresses Hunter has for a domain or
// company. This endpoint does not require authentication, but the key is
// sent anyway for consistent accounting.
func (c *Client) EmailCount(ctx context.Context, params url.Values) (json.RawMessage, error) {
	return c.get(ctx, "/email-count", params)
}

// Account returns information about the authenticated account.
func (c *Client) Account(ctx context.Context) (json.RawMessage, error) {
	return c.get(ctx, "/account", nil)
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, parseErrorResponse(resp.StatusCode, body)
	}
	return json.RawMessage(body), nil
}

// parseErrorResponse extracts the first entry of Hunter's error body,
// {"errors":[{"id","code","details"}]}, falling back to the raw text.
func parseErrorResponse(status int, body []byte) error {
	var errResp struct {
		Errors []struct {
			ID      string `json:"id"`
			Code    int    `json:"code"`
			Details string `json:"details"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && len(errResp.Errors) > 0 {
		return &Error{
			StatusCode: status,
			ID:         errResp.Errors[0].ID,
			Details:    errResp.Errors[0].Details,
		}
	}
	return &Error{StatusCode: status, Details: string(body)}
}
