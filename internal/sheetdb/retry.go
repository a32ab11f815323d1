package sheetdb

import (
	"context"
	"errors"
	"time"

	"google.golang.org/api/googleapi"
)

// Transient HTTP statuses worth another attempt. Anything else fails
// immediately with the original error.
var retryableStatuses = map[int]bool{
	429: true,
	500: true,
	502: true,
	503: true,
	504: true,
}

// defaultBackoff is the fixed retry schedule: not adaptive, not
// jittered. Fine for a low-QPS admin tool, not for high concurrency.
var defaultBackoff = []time.Duration{
	100 * time.Millisecond,
	300 * time.Millisecond,
	600 * time.Millisecond,
}

// statusCoder lets non-googleapi errors participate in retry decisions.
type statusCoder interface {
	HTTPStatus() int
}

func httpStatus(err error) (int, bool) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code, true
	}
	var sc statusCoder
	if errors.As(err, &sc) {
		return sc.HTTPStatus(), true
	}
	return 0, false
}

// withRetry runs op up to cfg.MaxAttempts times, sleeping per the
// backoff schedule between attempts. Only retryable statuses earn a
// retry; exhaustion re-raises the last error unmodified.
func (s *Store) withRetry(ctx context.Context, op func() error) error {
	var lastErr error
	for attempt := 0; attempt < s.cfg.MaxAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}

		status, ok := httpStatus(lastErr)
		if !ok || !retryableStatuses[status] {
			return lastErr
		}
		if attempt == s.cfg.MaxAttempts-1 {
			break
		}

		delay := s.cfg.Backoff[len(s.cfg.Backoff)-1]
		if attempt < len(s.cfg.Backoff) {
			delay = s.cfg.Backoff[attempt]
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
