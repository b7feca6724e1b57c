package httpclient

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClientAppliesTimeout(t *testing.T) {
	client := NewClient(5 * time.Second)
	if client.Timeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", client.Timeout)
	}
}

func TestNewClientNegativeTimeoutMeansNoCap(t *testing.T) {
	client := NewClient(-1)
	if client.Timeout != 0 {
		t.Fatalf("expected no timeout, got %s", client.Timeout)
	}
}

func TestReadBodyReturnsFullPayload(t *testing.T) {
	payload := strings.Repeat("x", 4096)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(payload))
	}))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, err := ReadBody(resp)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if len(body) != len(payload) {
		t.Fatalf("expected %d bytes, got %d", len(payload), len(body))
	}
}

func TestReadBodySnippetTruncates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("y", 2048)))
	}))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	snippet := ReadBodySnippet(resp, 100)
	if len(snippet) != 100 {
		t.Fatalf("expected 100-byte snippet, got %d", len(snippet))
	}
}
