// Package gateway dispatches request descriptors with authentication and a
// bounded retry on auth rejection.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"querybench/internal/auth"
	"querybench/internal/config"
	"querybench/internal/httpclient"
	"querybench/internal/request"
	"querybench/internal/tracing"
)

const (
	// maxAuthRetries bounds how many times a rejected token-mode call is
	// retried after a refresh.
	maxAuthRetries = 2

	maxErrorBodyBytes = 1024
)

// Response carries the status and the fully read body of a dispatched call.
type Response struct {
	StatusCode int
	Body       []byte
}

// HTTPError represents a non-auth HTTP failure with status details.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// AuthError reports an auth rejection that survived the retry budget.
type AuthError struct {
	StatusCode int
	Attempts   int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed with HTTP %d after %d attempt(s)", e.StatusCode, e.Attempts)
}

// NetworkError wraps transport-level failures (DNS, connection, timeout).
// The gateway never retries these; retry-on-network-error belongs to callers.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ErrInvalidDescriptor is returned for descriptors carrying validation issues.
var ErrInvalidDescriptor = errors.New("descriptor has validation issues")

// Gateway attaches auth headers per session mode and dispatches descriptors.
type Gateway struct {
	client    *http.Client
	source    auth.TokenSource
	tracer    trace.Tracer
	propagate bool
}

// Option configures optional gateway behavior.
type Option func(*Gateway)

// WithTokenSource wires the token collaborator used for refresh in token mode.
func WithTokenSource(source auth.TokenSource) Option {
	return func(g *Gateway) { g.source = source }
}

// WithTracePropagation injects W3C trace context headers into outbound calls.
func WithTracePropagation() Option {
	return func(g *Gateway) { g.propagate = true }
}

// WithTracer records a client span around every dispatched call.
func WithTracer(tracer trace.Tracer) Option {
	return func(g *Gateway) { g.tracer = tracer }
}

func New(client *http.Client, opts ...Option) *Gateway {
	g := &Gateway{client: client}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Execute dispatches the descriptor with the session's credentials. On 401
// or 403 in token mode it refreshes the token and retries the same
// descriptor, at most maxAuthRetries times. The (possibly refreshed) session
// is returned so subsequent calls observe the new token.
func (g *Gateway) Execute(ctx context.Context, desc request.Descriptor, session auth.Session) (*Response, auth.Session, error) {
	if !desc.Valid() {
		return nil, session, fmt.Errorf("%w: %s", ErrInvalidDescriptor, desc.IssueSummary())
	}

	attempts := 0
	for {
		attempts++
		resp, err := g.dispatch(ctx, desc, session)
		if err != nil {
			return nil, session, err
		}

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			if session.Mode != config.AuthModeToken || g.source == nil || attempts > maxAuthRetries {
				return nil, session, &AuthError{StatusCode: resp.StatusCode, Attempts: attempts}
			}
			token, refreshErr := g.source.Refresh(ctx)
			if refreshErr != nil {
				return nil, session, refreshErr
			}
			session = session.WithToken(token)
			continue
		}

		if resp.StatusCode >= 400 {
			snippet := resp.Body
			if len(snippet) > maxErrorBodyBytes {
				snippet = snippet[:maxErrorBodyBytes]
			}
			return nil, session, &HTTPError{
				StatusCode: resp.StatusCode,
				Body:       strings.TrimSpace(string(snippet)),
			}
		}

		return resp, session, nil
	}
}

func (g *Gateway) dispatch(ctx context.Context, desc request.Descriptor, session auth.Session) (resp *Response, err error) {
	target, err := resolveTarget(desc, session)
	if err != nil {
		return nil, err
	}

	if g.tracer != nil {
		var span trace.Span
		ctx, span = tracing.StartCallSpan(ctx, g.tracer, desc.Method, desc.Path)
		defer func() {
			var attrs []attribute.KeyValue
			if resp != nil {
				attrs = append(attrs, attribute.Int("http.response.status_code", resp.StatusCode))
			}
			tracing.EndSpan(span, err, attrs...)
		}()
	}

	var body *strings.Reader
	if len(desc.Body) > 0 {
		body = strings.NewReader(string(desc.Body))
	} else {
		body = strings.NewReader("")
	}

	req, err := http.NewRequestWithContext(ctx, desc.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if desc.ContentType != "" {
		req.Header.Set("Content-Type", desc.ContentType)
	}

	switch session.Mode {
	case config.AuthModeToken:
		req.Header.Set("Authorization", "Bearer "+session.Token)
	default:
		req.SetBasicAuth(session.Username, session.Password)
	}

	if g.propagate {
		tracing.InjectHTTPHeaders(ctx, req.Header)
	}

	httpResp, doErr := g.client.Do(req)
	if doErr != nil {
		return nil, &NetworkError{Err: doErr}
	}

	data, readErr := httpclient.ReadBody(httpResp)
	if readErr != nil {
		return nil, &NetworkError{Err: readErr}
	}

	return &Response{StatusCode: httpResp.StatusCode, Body: data}, nil
}

// resolveTarget joins the descriptor path with the session base URL. Token
// mode refuses absolute descriptor URLs: token-mode dispatch is relative
// only, so a stale descriptor can never send the bearer token cross-origin.
func resolveTarget(desc request.Descriptor, session auth.Session) (string, error) {
	parsed, err := url.Parse(desc.Path)
	if err != nil {
		return "", fmt.Errorf("descriptor path: %w", err)
	}

	if parsed.IsAbs() {
		if session.Mode == config.AuthModeToken {
			return "", fmt.Errorf("token mode requires a relative descriptor path, got %q", desc.Path)
		}
		return desc.Path, nil
	}

	base, err := url.Parse(session.BaseURL)
	if err != nil {
		return "", fmt.Errorf("session base url: %w", err)
	}
	return base.ResolveReference(parsed).String(), nil
}
