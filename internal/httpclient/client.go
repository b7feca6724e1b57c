// Package httpclient provides a tuned HTTP client shared by the benchmark
// gateway and token sources.
package httpclient

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// NewClient builds an HTTP client with sane transport defaults and the
// per-request timeout from configuration. A zero timeout disables the cap.
func NewClient(timeout time.Duration) *http.Client {
	if timeout < 0 {
		timeout = 0
	}

	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          256,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// ReadBody drains and returns the full response body. The duration of a
// benchmark attempt covers this read, so the measurement ends only once the
// body has been fully received.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return data, nil
}

// ReadBodySnippet reads at most limit bytes for error reporting and discards
// the remainder so the connection can be reused.
func ReadBodySnippet(resp *http.Response, limit int64) string {
	defer resp.Body.Close()
	snippet, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return ""
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return string(snippet)
}
