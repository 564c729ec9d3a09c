package tracker

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"
)

const (
	// Transport-level retry only; the engine above never retries.
	defaultMaxRetries   = 3
	defaultInitialDelay = 1 * time.Second
)

// retryWithBackoff executes fn with exponential backoff on transient
// network failures. API-level errors fail immediately, and a cancelled
// context cuts the backoff wait short.
func retryWithBackoff(ctx context.Context, fn func() error) error {
	var lastErr error
	delay := defaultInitialDelay

	for attempt := 0; attempt <= defaultMaxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("[Tracker] Retry attempt %d/%d after %v delay", attempt+1, defaultMaxRetries+1, delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
			delay *= 2 // 1s -> 2s -> 4s
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isRetryableError(lastErr) {
			return lastErr
		}
	}

	log.Printf("[Tracker] All %d attempts failed, giving up", defaultMaxRetries+1)
	return lastErr
}

// isRetryableError reports whether an error looks like a transient
// network failure. Anything the API itself said is permanent.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	var gqlErr *GraphQLError
	if errors.As(err, &gqlErr) {
		return false
	}

	errStr := strings.ToLower(err.Error())
	retryablePatterns := []string{
		"eof",
		"timeout",
		"connection refused",
		"temporary failure",
		"connection reset",
		"broken pipe",
		"no such host",
		"network is unreachable",
	}
	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
