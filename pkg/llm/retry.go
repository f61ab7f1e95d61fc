package llm

import (
	"context"
	"errors"
	"time"
)

// retryableError wraps an error to indicate the request may succeed on a
// second attempt. Transport failures, timeouts, 429s, and 5xx responses
// qualify; API rejections (4xx) do not.
type retryableError struct{ err error }

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

// retryable wraps err as transient.
func retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

func isRetryable(err error) bool {
	return errors.As(err, new(*retryableError))
}

// retryStatus reports whether an HTTP status code warrants a retry.
func retryStatus(code int) bool {
	return code == 429 || code >= 500
}

// withRetry executes fn up to 3 times with exponential backoff, starting
// at one second. Only errors wrapped with retryable trigger another
// attempt; other errors return immediately. Returns ctx.Err() if the
// context is cancelled while waiting.
func withRetry(ctx context.Context, fn func() error) error {
	const attempts = 3
	delay := time.Second
	var lastErr error

	for i := 0; i < attempts; i++ {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
