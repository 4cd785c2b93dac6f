package blockbuster

import (
	"context"
	"errors"
	"fmt"

	"github.com/mediawar/blockbuster/ai"
	"github.com/mediawar/blockbuster/script"
)

// isCancellation distinguishes operator-initiated aborts from real
// failures; cancellation transitions cleanly to completed, never to failed.
func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

// failureMessage renders the one human-readable line recorded for a failed
// run. Raw internal errors never reach the boundary unformatted.
func failureMessage(stage Stage, err error) string {
	var callErr *ai.CallError
	var parseErr *script.ParseError
	switch {
	case errors.As(err, &parseErr):
		return fmt.Sprintf("stage %s returned output that does not match its schema: %v", stage, parseErr.Err)
	case errors.Is(err, ai.ErrEmptyStream):
		return fmt.Sprintf("stage %s produced no content", stage)
	case errors.As(err, &callErr):
		return fmt.Sprintf("stage %s: generation service failed after %d attempts: %v", stage, callErr.Attempts, callErr.Err)
	default:
		return fmt.Sprintf("stage %s failed: %v", stage, err)
	}
}
