// Package netutil waits for local network endpoints to become reachable.
package netutil

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const probeTimeout = 2 * time.Second

// TimeoutError reports that an endpoint did not become reachable within the
// configured budget.
type TimeoutError struct {
	URL     string
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout waiting for %s after %s", e.URL, e.Timeout)
}

// IsTimeout returns true when err is a readiness timeout.
func IsTimeout(err error) bool {
	var timeoutErr *TimeoutError

	return errors.As(err, &timeoutErr)
}

// WaitForHTTP polls url at fixed intervals until it answers an HTTP request,
// the timeout elapses or the context is cancelled. There is no backoff and no
// jitter: the target is a local, single-tenant process. Any HTTP response,
// whatever its status code, counts as reachable.
func WaitForHTTP(ctx context.Context, url string, timeout, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client := &http.Client{Timeout: probeTimeout}

	if probe(ctx, client, url) {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return &TimeoutError{URL: url, Timeout: timeout}
			}

			return errors.Wrap(ctx.Err(), "readiness poll aborted")
		case <-ticker.C:
			if probe(ctx, client, url) {
				return nil
			}
		}
	}
}

func probe(ctx context.Context, client *http.Client, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false
	}

	resp, err := client.Do(req)
	if err != nil {
		return false
	}

	_ = resp.Body.Close()

	return true
}
