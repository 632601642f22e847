// Package registry implements package download, extraction and resolution
// from a remote package registry.
package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.trai.ch/vellum/internal/core/domain"
	"go.trai.ch/vellum/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultBaseURL is the default package registry.
	DefaultBaseURL = "https://packages.vellum.dev"

	// DefaultRetryCount is the default maximum number of request attempts.
	DefaultRetryCount = 3

	// DefaultRetryDelay is the default pause between request attempts.
	DefaultRetryDelay = 500 * time.Millisecond

	httpClientTimeout = 30 * time.Second
)

var _ ports.RegistryClient = (*Client)(nil)

// Client implements ports.RegistryClient over HTTP. Only transient failures
// (connection errors, timeouts, 5xx responses) are retried, with a bounded
// delay between attempts; a missing package or version fails immediately.
type Client struct {
	httpClient *http.Client
	baseURL    string
	attempts   int
	delay      time.Duration
	logger     ports.Logger
}

// ClientOption configures a Client during construction.
type ClientOption func(*Client)

// WithHTTPClient overrides the HTTP client. Callers wanting a different
// timeout configure it on the client they pass in.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL overrides the registry base URL.
func WithBaseURL(url string) ClientOption {
	return func(cl *Client) {
		cl.baseURL = url
	}
}

// WithRetry overrides the maximum attempt count and the delay between
// attempts.
func WithRetry(attempts int, delay time.Duration) ClientOption {
	return func(cl *Client) {
		if attempts > 0 {
			cl.attempts = attempts
		}
		if delay >= 0 {
			cl.delay = delay
		}
	}
}

// NewClient creates a Client with the default registry and retry policy.
func NewClient(logger ports.Logger, opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: httpClientTimeout},
		baseURL:    DefaultBaseURL,
		attempts:   DefaultRetryCount,
		delay:      DefaultRetryDelay,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the deterministic archive location for a package.
func (c *Client) URL(spec domain.PackageSpec) string {
	return fmt.Sprintf("%s/%s/%s-%s.tar.gz", c.baseURL, spec.Namespace, spec.Name, spec.Version)
}

// Download fetches the compressed archive for the given package, retrying
// transient failures up to the configured attempt budget.
func (c *Client) Download(ctx context.Context, spec domain.PackageSpec) (io.ReadCloser, error) {
	url := c.URL(spec)

	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			if err := c.wait(ctx); err != nil {
				return nil, err
			}
		}

		body, retryable, err := c.get(ctx, url)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}

		lastErr = err
		c.logger.Warn(fmt.Sprintf("failed fetching %s (attempt %d of %d)", url, attempt, c.attempts))
	}

	netErr := zerr.With(domain.ErrNetworkFailed, "url", url)
	netErr = zerr.With(netErr, "attempts", c.attempts)
	return nil, zerr.With(netErr, "cause", lastErr.Error())
}

// get performs one GET attempt. The second return value reports whether the
// failure is transient and worth retrying.
func (c *Client) get(ctx context.Context, url string) (io.ReadCloser, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, false, zerr.Wrap(err, "failed to build registry request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Connection failures and timeouts are transient.
		return nil, true, zerr.Wrap(err, "registry request failed")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp.Body, false, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		_ = resp.Body.Close()
		return nil, true, zerr.With(domain.ErrRegistryStatus, "status_code", resp.StatusCode)
	case resp.StatusCode == http.StatusNotFound:
		_ = resp.Body.Close()
		return nil, false, zerr.With(domain.ErrFileNotFound, "url", url)
	default:
		_ = resp.Body.Close()
		statusErr := zerr.With(domain.ErrRegistryStatus, "status_code", resp.StatusCode)
		return nil, false, zerr.With(statusErr, "url", url)
	}
}

func (c *Client) wait(ctx context.Context) error {
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
