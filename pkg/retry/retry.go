// Package retry wraps flaky network operations with a fixed retry policy.
package retry

import (
	"context"
	"time"
)

// Do calls op up to attempts times, sleeping delay between attempts.
// Every failure is treated the same; no backoff growth. The last error is
// returned once attempts are exhausted. The wait between attempts is aborted
// when ctx is done.
func Do(ctx context.Context, attempts int, delay time.Duration, op func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if lastErr = op(); lastErr == nil {
			return nil
		}

		if attempt < attempts {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	return lastErr
}
