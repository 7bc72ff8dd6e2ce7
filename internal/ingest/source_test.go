// ABOUTME: Tests for the HTTP page source and start URL construction.
// ABOUTME: Uses httptest servers for request headers and status handling.
package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestStartURL(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		limit   int
		offset  int
		status  string
		want    string
		wantErr bool
	}{
		{name: "all parameters", base: "https://musclewiki.com/newapi/exercise/exercises/", limit: 50, offset: 1050, status: "Published",
			want: "https://musclewiki.com/newapi/exercise/exercises/?limit=50&offset=1050&status=Published"},
		{name: "zero values omitted", base: "https://example.test/ex/", want: "https://example.test/ex/"},
		{name: "existing query kept", base: "https://example.test/ex/?lang=en", limit: 10, want: "https://example.test/ex/?lang=en&limit=10"},
		{name: "relative", base: "/ex/", wantErr: true},
		{name: "garbage", base: "://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := StartURL(tt.base, tt.limit, tt.offset, tt.status)
			if (err != nil) != tt.wantErr {
				t.Fatalf("StartURL error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("StartURL = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPSourceSendsHeaders(t *testing.T) {
	var accept, agent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accept = r.Header.Get("Accept")
		agent = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte(`{"results": []}`))
	}))
	defer srv.Close()

	body, err := NewHTTPSource(time.Second, "exercises-test/1.0").Page(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Page failed: %v", err)
	}
	if string(body) != `{"results": []}` {
		t.Errorf("unexpected body %q", body)
	}
	if accept != "application/json" {
		t.Errorf("expected Accept application/json, got %q", accept)
	}
	if agent != "exercises-test/1.0" {
		t.Errorf("expected custom User-Agent, got %q", agent)
	}
}

func TestHTTPSourceStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewHTTPSource(time.Second, "").Page(context.Background(), srv.URL)
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", statusErr.StatusCode)
	}
}

func TestHTTPSourceTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if _, err := NewHTTPSource(time.Second, "").Page(context.Background(), url); err == nil {
		t.Fatal("expected transport error")
	}
}
