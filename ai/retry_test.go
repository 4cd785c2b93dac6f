package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestCallRetriesUntilSuccess(t *testing.T) {
	attempts := 0
	caller := Caller{MaxRetries: 3, BaseDelay: time.Millisecond}

	out, err := caller.Call(context.Background(), "test", func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", fmt.Errorf("temporary failure")
		}
		return "ok", nil
	})

	if err != nil {
		t.Fatalf("expected success after retries, got error: %v", err)
	}
	if out != "ok" {
		t.Errorf("expected %q, got %q", "ok", out)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestCallExhaustsAttempts(t *testing.T) {
	attempts := 0
	caller := Caller{MaxRetries: 2, BaseDelay: time.Millisecond}
	opErr := fmt.Errorf("always fails")

	_, err := caller.Call(context.Background(), "doomed", func(ctx context.Context) (string, error) {
		attempts++
		return "", opErr
	})

	// first try + MaxRetries retries
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
	var callErr *CallError
	if !errors.As(err, &callErr) {
		t.Fatalf("expected *CallError, got %T: %v", err, err)
	}
	if callErr.Label != "doomed" {
		t.Errorf("expected label %q, got %q", "doomed", callErr.Label)
	}
	if callErr.Attempts != 3 {
		t.Errorf("expected 3 recorded attempts, got %d", callErr.Attempts)
	}
	if !errors.Is(err, opErr) {
		t.Errorf("expected wrapped cause %v, got %v", opErr, err)
	}
}

func TestCallZeroRetriesMakesOneAttempt(t *testing.T) {
	attempts := 0
	caller := Caller{MaxRetries: 0, BaseDelay: time.Millisecond}

	_, err := caller.Call(context.Background(), "once", func(ctx context.Context) (string, error) {
		attempts++
		return "", fmt.Errorf("nope")
	})

	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestCallBackoffSchedule(t *testing.T) {
	base := 20 * time.Millisecond
	caller := Caller{MaxRetries: 3, BaseDelay: base}

	var stamps []time.Time
	_, err := caller.Call(context.Background(), "schedule", func(ctx context.Context) (string, error) {
		stamps = append(stamps, time.Now())
		return "", fmt.Errorf("fail")
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if len(stamps) != 4 {
		t.Fatalf("expected 4 attempts, got %d", len(stamps))
	}

	// gaps follow base, 2*base, 4*base with no jitter and no cap
	for i := 1; i < len(stamps); i++ {
		want := base * time.Duration(1<<uint(i-1))
		gap := stamps[i].Sub(stamps[i-1])
		if gap < want {
			t.Errorf("gap %d: expected at least %v, got %v", i, want, gap)
		}
		if gap > want+50*time.Millisecond {
			t.Errorf("gap %d: expected close to %v, got %v", i, want, gap)
		}
	}
}

func TestCallContextCancelledDuringBackoff(t *testing.T) {
	attempts := 0
	caller := Caller{MaxRetries: 5, BaseDelay: time.Second}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := caller.Call(ctx, "cancelled", func(ctx context.Context) (string, error) {
		attempts++
		return "", fmt.Errorf("fail")
	})

	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt before cancellation, got %d", attempts)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("cancellation during backoff took too long: %v", elapsed)
	}
}

func TestCallSuccessIsNotRetried(t *testing.T) {
	attempts := 0
	caller := Caller{MaxRetries: 3, BaseDelay: time.Millisecond}

	out, err := caller.Call(context.Background(), "first-shot", func(ctx context.Context) (string, error) {
		attempts++
		return "done", nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "done" || attempts != 1 {
		t.Errorf("expected single successful attempt, got %q after %d attempts", out, attempts)
	}
}
