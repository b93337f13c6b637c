// Package retry provides the shared executor for fallible network and tool
// calls: a bounded number of attempts with randomized backoff between them.
//
// The backoff duration is drawn uniformly from [1s, 3s) so many items retrying
// at once do not synchronize into a retry storm. Every individual failure is
// logged immediately, independent of whether a later attempt succeeds, so
// operators see transient flakiness even when the overall call recovers.
package retry

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"factreel/internal/logging"
)

// DefaultMaxAttempts is used when Executor.MaxAttempts is unset.
const DefaultMaxAttempts = 3

const (
	backoffMin = time.Second
	backoffMax = 3 * time.Second
)

// Executor holds the retry policy. The zero value retries three times with the
// default randomized backoff and no logging.
type Executor struct {
	Logger      *slog.Logger
	MaxAttempts int

	// Backoff and Sleep are seams for tests; nil values use the defaults.
	Backoff func() time.Duration
	Sleep   func(context.Context, time.Duration) error
}

// Do runs op up to the executor's attempt limit, sleeping between attempts but
// not after the final one. On exhaustion it returns the zero value and the last
// error; earlier errors are only reported through the logger.
func Do[T any](ctx context.Context, exec Executor, operation string, op func(context.Context) (T, error)) (T, error) {
	logger := exec.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	maxAttempts := exec.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	backoff := exec.Backoff
	if backoff == nil {
		backoff = randomBackoff
	}
	sleep := exec.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err
		logger.Warn("attempt failed",
			logging.String("operation", operation),
			logging.Int(logging.FieldAttempt, attempt),
			logging.Int("max_attempts", maxAttempts),
			logging.Error(err),
		)

		if attempt == maxAttempts {
			break
		}
		delay := backoff()
		logger.Info("retrying after backoff",
			logging.String("operation", operation),
			logging.Duration("backoff", delay),
			logging.Int(logging.FieldAttempt, attempt+1),
		)
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	logger.Error("all attempts failed",
		logging.String("operation", operation),
		logging.Int("max_attempts", maxAttempts),
		logging.Error(lastErr),
	)
	return zero, lastErr
}

func randomBackoff() time.Duration {
	return backoffMin + rand.N(backoffMax-backoffMin)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
