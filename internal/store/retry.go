package store

import (
	"context"
	"time"

	"feedfind-api-server/internal/apperrors"
)

// ReadAttempts is the retry budget for read paths. Writes are never
// auto-retried; a failed write surfaces immediately so the client can offer
// an explicit retry action.
const ReadAttempts = 3

var baseBackoff = 100 * time.Millisecond

// Retry runs fn up to attempts times with exponential backoff. Only
// transient network errors are retried; validation, permission and not-found
// errors return immediately.
func Retry(ctx context.Context, attempts int, fn func(context.Context) error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if !apperrors.IsRetryable(err) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-time.After(baseBackoff << uint(i)):
		case <-ctx.Done():
			return err
		}
	}
	return err
}
