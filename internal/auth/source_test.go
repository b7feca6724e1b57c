package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"querybench/internal/config"
)

func TestStaticTokenSourceReturnsToken(t *testing.T) {
	src := NewStaticTokenSource("abc123")
	if got := src.CurrentToken(); got != "abc123" {
		t.Fatalf("expected abc123, got %q", got)
	}
}

func TestStaticTokenSourceRefreshFails(t *testing.T) {
	src := NewStaticTokenSource("abc123")
	_, err := src.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected refresh error for static token")
	}
	var refreshErr *RefreshError
	if !errors.As(err, &refreshErr) {
		t.Fatalf("expected RefreshError, got %T", err)
	}
}

func TestEndpointTokenSourceRefresh(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		user, pass, ok := r.BasicAuth()
		if !ok || user != "client" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "client_credentials" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		n := atomic.LoadInt64(&calls)
		fmt.Fprintf(w, `{"access_token":"token-%d","token_type":"Bearer","expires_in":3600}`, n)
	}))
	defer server.Close()

	src := NewEndpointTokenSource(server.URL, "client", "secret", "")
	defer src.Close()

	if src.CurrentToken() != "" {
		t.Fatalf("expected empty initial token, got %q", src.CurrentToken())
	}

	tok, err := src.Refresh(context.Background())
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if tok != "token-1" {
		t.Fatalf("expected token-1, got %q", tok)
	}
	if src.CurrentToken() != "token-1" {
		t.Fatalf("current token not updated: %q", src.CurrentToken())
	}

	tok, err = src.Refresh(context.Background())
	if err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	if tok != "token-2" {
		t.Fatalf("expected token-2, got %q", tok)
	}
}

func TestEndpointTokenSourceRefreshErrorStatuses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	src := NewEndpointTokenSource(server.URL, "client", "secret", "")
	defer src.Close()

	_, err := src.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected refresh error")
	}
	var refreshErr *RefreshError
	if !errors.As(err, &refreshErr) {
		t.Fatalf("expected RefreshError, got %T", err)
	}
}

func TestEndpointTokenSourceRejectsEmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"token_type":"Bearer"}`)
	}))
	defer server.Close()

	src := NewEndpointTokenSource(server.URL, "client", "secret", "")
	defer src.Close()

	if _, err := src.Refresh(context.Background()); err == nil {
		t.Fatal("expected error for response without access token")
	}
}

func TestSessionWithTokenDoesNotMutateOriginal(t *testing.T) {
	original := NewSession("https://backend.example.com", config.AuthConfig{
		Mode:  config.AuthModeToken,
		Token: "old",
	})
	refreshed := original.WithToken("new")
	if original.Token != "old" {
		t.Fatalf("original session mutated: %q", original.Token)
	}
	if refreshed.Token != "new" {
		t.Fatalf("refreshed session missing new token: %q", refreshed.Token)
	}
	if refreshed.BaseURL != original.BaseURL || refreshed.Mode != original.Mode {
		t.Fatal("refreshed session lost unrelated fields")
	}
}
