package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Caller wraps a single external call with bounded retry and pure
// exponential backoff: BaseDelay, 2*BaseDelay, 4*BaseDelay, ... with no
// jitter and no cap beyond the attempt count. Every Call is independent;
// nothing is cached between calls.
type Caller struct {
	// MaxRetries is the number of retries after the first attempt, so the
	// operation runs at most MaxRetries+1 times.
	MaxRetries int

	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration

	Logger *slog.Logger
}

// CallError reports an operation that kept failing after every attempt.
type CallError struct {
	Label    string
	Attempts int
	Err      error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("%s failed after %d attempts: %v", e.Label, e.Attempts, e.Err)
}

func (e *CallError) Unwrap() error { return e.Err }

// Call runs op until it succeeds or the attempt budget is exhausted. Each
// failed attempt logs one warning; the warnings are observability only and
// never change control flow. The backoff wait is context-aware.
func (c Caller) Call(ctx context.Context, label string, op func(ctx context.Context) (string, error)) (string, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	attempts := c.MaxRetries + 1
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		lastErr = err
		logger.Warn("external call failed",
			"label", label,
			"attempt", attempt+1,
			"max_attempts", attempts,
			"error", err)

		if attempt == attempts-1 {
			break
		}

		delay := c.BaseDelay * (1 << uint(attempt))
		select {
		case <-ctx.Done():
			return "", &CallError{Label: label, Attempts: attempt + 1, Err: ctx.Err()}
		case <-time.After(delay):
		}
	}
	return "", &CallError{Label: label, Attempts: attempts, Err: lastErr}
}
