package llm

import (
	"context"
	"errors"
	"time"
)

type rateLimitError struct{}

func (e *rateLimitError) Error() string { return "rate limited" }

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

type serverError struct {
	statusCode int
	body       string
	cause      error
}

func (e *serverError) Error() string {
	if e.cause != nil {
		return "sending request: " + e.cause.Error()
	}
	return "provider server error: " + e.body
}

// isUnavailable reports whether an error means the provider could not serve
// the request at all, as opposed to a malformed request on our side.
func isUnavailable(err error) bool {
	var rl *rateLimitError
	var srv *serverError
	var auth *authError
	return errors.As(err, &rl) || errors.As(err, &srv) || errors.As(err, &auth)
}

// retryWithBackoff retries fn with exponential backoff for transient provider
// failures. Auth errors are returned immediately; rate limits and server-side
// failures are retried.
func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		var auth *authError
		if errors.As(lastErr, &auth) {
			return lastErr
		}

		var rl *rateLimitError
		var srv *serverError
		if !errors.As(lastErr, &rl) && !errors.As(lastErr, &srv) {
			return lastErr
		}

		if attempt < maxRetries {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
