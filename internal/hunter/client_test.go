package hunter

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("expected error for empty API key")
	}
}

func TestGetSendsAPIKeyAndParams(t *testing.T) {
	var gotQuery url.Values
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"email":"patrick@stripe.com"}}`))
	}))
	defer ts.Close()

	c, err := New("secret-key", WithBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	params := url.Values{}
	params.Set("domain", "stripe.com")
	params.Set("first_name", "Patrick")
	body, err := c.FindEmail(context.Background(), params)
	if err != nil {
		t.Fatalf("FindEmail: %v", err)
	}

	if gotPath != "/email-finder" {
		t.Errorf("path = %q, want /email-finder", gotPath)
	}
	if got := gotQuery.Get("api_key"); got != "secret-key" {
		t.Errorf("api_key = %q", got)
	}
	if got := gotQuery.Get("domain"); got != "stripe.com" {
		t.Errorf("domain = %q", got)
	}
	if got := gotQuery.Get("first_name"); got != "Patrick" {
		t.Errorf("first_name = %q", got)
	}
	if string(body) != `{"data":{"email":"patrick@stripe.com"}}` {
		t.Errorf("body = %s", body)
	}
}

func TestEndpointPaths(t *testing.T) {
	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c, err := New("k", WithBaseURL(ts.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	calls := []struct {
		name string
		call func() error
		path string
	}{
		{"verify", func() error { _, err := c.VerifyEmail(ctx, nil); return err }, "/email-verifier"},
		{"domain search", func() error { _, err := c.DomainSearch(ctx, nil); return err }, "/domain-search"},
		{"email count", func() error { _, err := c.EmailCount(ctx, nil); return err }, "/email-count"},
		{"account", func() error { _, err := c.Account(ctx); return err }, "/account"},
	}
	for _, tc := range calls {
		if err := tc.call(); err != nil {
			t.Fatalf("%s: %v", tc.name, err)
		}
		if gotPath != tc.path {
			t.Errorf("%s: path = %q, want %q", tc.name, gotPath, tc.path)
		}
	}
}

func TestErrorBodyParsing(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"id":"authentication_failed","code":401,"details":"No valid API key"}]}`))
	}))
	defer ts.Close()

	c, _ := New("bad-key", WithBaseURL(ts.URL))
	_, err := c.Account(context.Background())

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *Error", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if apiErr.Details != "No valid API key" {
		t.Errorf("details = %q", apiErr.Details)
	}
	if apiErr.ID != "authentication_failed" {
		t.Errorf("id = %q", apiErr.ID)
	}
}

func TestErrorBodyFallbackToRawText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream unavailable"))
	}))
	defer ts.Close()

	c, _ := New("k", WithBaseURL(ts.URL))
	_, err := c.Account(context.Background())

	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %T, want *Error", err)
	}
	if apiErr.Details != "upstream unavailable" {
		t.Errorf("details = %q", apiErr.Details)
	}
}

func TestIsRateLimited(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"429 api error", &Error{StatusCode: 429}, true},
		{"500 api error", &Error{StatusCode: 500}, false},
		{"message marker", errors.New("remote said: rate limit exceeded"), true},
		{"status text marker", errors.New("unexpected status 429"), true},
		{"plain failure", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRateLimited(tc.err); got != tc.want {
				t.Fatalf("IsRateLimited(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestMessagePrefersServiceDetails(t *testing.T) {
	apiErr := &Error{StatusCode: 429, Details: "Too many requests, retry later"}
	if got := Message(apiErr); got != "Too many requests, retry later" {
		t.Errorf("Message = %q", got)
	}
	plain := errors.New("dial tcp: connection refused")
	if got := Message(plain); got != plain.Error() {
		t.Errorf("Message = %q", got)
	}
}
