package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

// RecordedRequest is a snapshot of one request received by an Upstream.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Upstream is an httptest server standing in for a third-party API. It
// records every request it receives.
type Upstream struct {
	*httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest
}

// NewUpstream starts an Upstream serving handler. The server is closed when
// the test finishes.
func NewUpstream(t testing.TB, handler http.Handler) *Upstream {
	t.Helper()
	u := &Upstream{}
	u.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		u.mu.Lock()
		u.requests = append(u.requests, RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		u.mu.Unlock()
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(u.Close)
	return u
}

// JSON returns a handler replying with status and the given JSON body.
func JSON(status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

// Bytes returns a handler replying with status and a raw body.
func Bytes(status int, contentType string, body []byte) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(status)
		_, _ = w.Write(body)
	})
}

// Requests returns a copy of the requests received so far.
func (u *Upstream) Requests() []RecordedRequest {
	u.mu.Lock()
	defer u.mu.Unlock()
	out := make([]RecordedRequest, len(u.requests))
	copy(out, u.requests)
	return out
}

// LastRequest returns the most recent request, failing the test if none arrived.
func (u *Upstream) LastRequest(t testing.TB) RecordedRequest {
	t.Helper()
	reqs := u.Requests()
	if len(reqs) == 0 {
		t.Fatal("upstream received no requests")
	}
	return reqs[len(reqs)-1]
}

// ResultText returns the text of the single text block in res and whether it
// is flagged as an error.
func ResultText(t testing.TB, res *mcp.CallToolResult) (string, bool) {
	t.Helper()
	if res == nil {
		t.Fatal("nil tool result")
	}
	if len(res.Content) != 1 {
		t.Fatalf("got %d content blocks, want 1", len(res.Content))
	}
	tc, ok := mcp.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("content block is %T, want text", res.Content[0])
	}
	if tc.Type != "text" {
		t.Fatalf("content type = %q, want text", tc.Type)
	}
	return tc.Text, res.IsError
}

// RequireError fails the test unless res is an error result whose text
// contains want.
func RequireError(t testing.TB, res *mcp.CallToolResult, want string) {
	t.Helper()
	text, isErr := ResultText(t, res)
	if !isErr {
		t.Fatalf("expected error result, got success: %s", text)
	}
	if !strings.Contains(text, want) {
		t.Fatalf("error text = %q, want it to contain %q", text, want)
	}
}
