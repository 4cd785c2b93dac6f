package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func fragmentStream(fragments ...string) StreamFunc {
	return func(ctx context.Context, onFragment func(string) error) error {
		for _, f := range fragments {
			if err := onFragment(f); err != nil {
				return err
			}
		}
		return nil
	}
}

func TestAccumulateJoinsFragmentsInOrder(t *testing.T) {
	out, err := Accumulate(context.Background(), fragmentStream("The ", "quick ", "", "fox"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "The quick fox" {
		t.Errorf("expected %q, got %q", "The quick fox", out)
	}
}

func TestAccumulateEmptyStream(t *testing.T) {
	for name, stream := range map[string]StreamFunc{
		"no fragments":         fragmentStream(),
		"only empty fragments": fragmentStream("", "", ""),
	} {
		t.Run(name, func(t *testing.T) {
			out, err := Accumulate(context.Background(), stream)
			if !errors.Is(err, ErrEmptyStream) {
				t.Errorf("expected ErrEmptyStream, got %v", err)
			}
			if out != "" {
				t.Errorf("expected no output, got %q", out)
			}
		})
	}
}

func TestAccumulateProviderError(t *testing.T) {
	provErr := fmt.Errorf("connection reset")
	stream := func(ctx context.Context, onFragment func(string) error) error {
		if err := onFragment("partial"); err != nil {
			return err
		}
		return provErr
	}

	out, err := Accumulate(context.Background(), stream)
	if !errors.Is(err, provErr) {
		t.Errorf("expected provider error, got %v", err)
	}
	if out != "" {
		t.Errorf("expected no partial output, got %q", out)
	}
}

func TestAccumulateCancelledMidStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	stream := func(ctx context.Context, onFragment func(string) error) error {
		if err := onFragment("first"); err != nil {
			return err
		}
		cancel()
		return onFragment("second")
	}

	out, err := Accumulate(ctx, stream)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if out != "" {
		t.Errorf("expected no partial output, got %q", out)
	}
}
