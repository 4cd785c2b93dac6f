package ai

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyStream reports a streaming generation that completed without
// producing any text. An empty generation is always a failure, never valid
// output.
var ErrEmptyStream = errors.New("stream completed with no content")

// StreamFunc produces an ordered sequence of text fragments from a single
// producer, calling onFragment for each one. Returning an error from
// onFragment must abort the stream.
type StreamFunc func(ctx context.Context, onFragment func(fragment string) error) error

// Accumulate collects a fragment stream into one completed payload.
// Cancellation through ctx stops accumulation immediately and surfaces no
// partial result.
func Accumulate(ctx context.Context, stream StreamFunc) (string, error) {
	var sb strings.Builder
	err := stream(ctx, func(fragment string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		sb.WriteString(fragment)
		return nil
	})
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if sb.Len() == 0 {
		return "", ErrEmptyStream
	}
	return sb.String(), nil
}
