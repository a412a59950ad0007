// Package source loads the raw perron dataset and the station registry.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"perrons/internal/config"
	"perrons/internal/logger"
	"perrons/pkg/utils"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// maxBodyBytes bounds a registry download.
const maxBodyBytes = 512 << 20

// Fetcher reads sources from disk or over HTTP with config-driven retries.
type Fetcher struct {
	client      *http.Client
	retryPolicy config.RetryPolicy
	headers     http.Header
	log         *logger.Logger
	sleep       func(ctx context.Context, d time.Duration) error
}

// NewFetcher creates a fetcher using the given retry policy.
func NewFetcher(retryPolicy config.RetryPolicy, log *logger.Logger) *Fetcher {
	if log == nil {
		log = logger.Discard()
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: retryPolicy.GetTimeout(),
		},
		retryPolicy: retryPolicy,
		headers:     utils.NewHTTPHelper().BuildHeaders(nil),
		log:         log,
		sleep:       sleepContext,
	}
}

// Fetch returns the content of a local file or URL.
func (f *Fetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if utils.IsHTTPURL(src) {
		return f.FetchURL(ctx, src)
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read local file %s: %w", src, err)
	}

	return data, nil
}

// FetchURL performs a GET, retrying transport errors and temporary statuses.
func (f *Fetcher) FetchURL(ctx context.Context, url string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= f.retryPolicy.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := f.retryPolicy.GetRetryDelay(attempt)
			f.log.Debug("retrying download", "url", url, "attempt", attempt, "delay", delay)

			if err := f.sleep(ctx, delay); err != nil {
				return nil, err
			}
		}

		body, retry, err := f.get(ctx, url)
		if err == nil {
			f.log.Debug("downloaded", "url", url, "bytes", len(body), "attempt", attempt)
			return body, nil
		}

		lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, f.retryPolicy.MaxAttempts, err)

		if !retry || ctx.Err() != nil {
			break
		}

		f.log.Warn("download failed", "url", url, "attempt", attempt, "error", err)
	}

	return nil, lastErr
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = f.headers.Clone()

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, isRetryableStatus(resp.StatusCode), fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, false, nil
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable, http.StatusGatewayTimeout, http.StatusBadGateway,
		http.StatusTooManyRequests, http.StatusRequestTimeout:
		return true
	}

	return false
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
