package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"querybench/internal/httpclient"
)

// TokenSource supplies bearer tokens for token-mode sessions. Refresh is
// invoked synchronously by the gateway when the backend rejects the current
// token; implementations fetch a new token and return it.
type TokenSource interface {
	// CurrentToken returns the most recently issued token, which may be empty
	// before the first refresh.
	CurrentToken() string

	// Refresh obtains a new token. A failure is terminal for the retry chain
	// that requested it.
	Refresh(ctx context.Context) (string, error)

	// Close releases any resources held by the source.
	Close() error
}

// RefreshError reports a failed token refresh.
type RefreshError struct {
	Err error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh failed: %v", e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// StaticTokenSource returns a pre-configured token and cannot refresh it.
// This is typically used for tokens obtained outside of the application.
type StaticTokenSource struct {
	token string
}

// NewStaticTokenSource creates a static token source with the given token.
func NewStaticTokenSource(token string) *StaticTokenSource {
	return &StaticTokenSource{token: token}
}

func (s *StaticTokenSource) CurrentToken() string {
	return s.token
}

// Refresh always fails: a static token has no issuing endpoint to return to.
func (s *StaticTokenSource) Refresh(ctx context.Context) (string, error) {
	return "", &RefreshError{Err: fmt.Errorf("static token cannot be refreshed")}
}

func (s *StaticTokenSource) Close() error {
	return nil
}

// EndpointTokenSource fetches tokens from an OAuth2-style token endpoint
// using the client credentials grant.
type EndpointTokenSource struct {
	tokenURL     string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	current      string
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Error       string `json:"error,omitempty"`
	ErrorDesc   string `json:"error_description,omitempty"`
}

// NewEndpointTokenSource creates a token source backed by a token endpoint.
// The initial token may be empty; the first refresh populates it.
func NewEndpointTokenSource(tokenURL, clientID, clientSecret, initialToken string) *EndpointTokenSource {
	return &EndpointTokenSource{
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		current:      initialToken,
	}
}

func (s *EndpointTokenSource) CurrentToken() string {
	return s.current
}

// Refresh fetches a new token from the endpoint and records it as current.
func (s *EndpointTokenSource) Refresh(ctx context.Context) (string, error) {
	token, err := s.fetchToken(ctx)
	if err != nil {
		return "", &RefreshError{Err: err}
	}
	s.current = token
	return token, nil
}

func (s *EndpointTokenSource) fetchToken(ctx context.Context) (string, error) {
	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, "POST", s.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.clientID, s.clientSecret)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet := strings.TrimSpace(httpclient.ReadBodySnippet(resp, 256))
		if snippet != "" {
			return "", fmt.Errorf("token request failed with status %d: %s", resp.StatusCode, snippet)
		}
		return "", fmt.Errorf("token request failed with status %d", resp.StatusCode)
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResp.Error != "" {
		return "", fmt.Errorf("token endpoint error: %s - %s", tokenResp.Error, tokenResp.ErrorDesc)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("no access token in response")
	}

	return tokenResp.AccessToken, nil
}

func (s *EndpointTokenSource) Close() error {
	s.httpClient.CloseIdleConnections()
	return nil
}
