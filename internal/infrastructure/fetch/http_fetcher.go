package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout  = 20 * time.Second
	defaultMaxBytes = 10 << 20
	userAgent       = "image-filter/1.0"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected upstream status")
	ErrTooLarge         = errors.New("image exceeds size limit")
)

// Config bounds a single download.
type Config struct {
	Timeout  time.Duration
	MaxBytes int64
}

// HTTPFetcher downloads images over HTTP(S).
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPFetcher returns a fetcher with cfg limits. Zero values fall back to
// package defaults.
func NewHTTPFetcher(cfg Config) *HTTPFetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}
	return &HTTPFetcher{
		client:   &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
	}
}

// Fetch copies the response body of rawURL into dst. The download aborts
// when ctx is done, the client timeout elapses or the body exceeds the
// size limit.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, dst io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := f.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("get image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	if resp.ContentLength > f.maxBytes {
		return 0, fmt.Errorf("%w: declared %d bytes", ErrTooLarge, resp.ContentLength)
	}

	// Read one byte past the limit to detect oversized bodies without a
	// Content-Length header.
	n, err := io.Copy(dst, io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return n, fmt.Errorf("read body: %w", err)
	}
	if n > f.maxBytes {
		return n, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, f.maxBytes)
	}
	return n, nil
}
