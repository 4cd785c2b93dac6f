package ai

import (
	"context"
)

// NewDummyModel is useful for testing purposes. It allows you to mock the
// model's response.
func NewDummyModel(respond func(ctx context.Context, prompt string) (string, error)) *Model {
	return &Model{
		ModelName: "dummy",
		generateFunc: func(ctx context.Context, m *Model, prompt string, jsonMode bool) (string, error) {
			return respond(ctx, prompt)
		},
	}
}

// NewDummyStreamModel mocks a streaming model: each returned fragment is
// delivered to the consumer in order.
func NewDummyStreamModel(respond func(ctx context.Context, prompt string) ([]string, error)) *Model {
	return &Model{
		ModelName: "dummy-stream",
		generateFunc: func(ctx context.Context, m *Model, prompt string, jsonMode bool) (string, error) {
			fragments, err := respond(ctx, prompt)
			if err != nil {
				return "", err
			}
			var out string
			for _, f := range fragments {
				out += f
			}
			return out, nil
		},
		streamFunc: func(ctx context.Context, m *Model, prompt string, jsonMode bool, onFragment func(string) error) error {
			fragments, err := respond(ctx, prompt)
			if err != nil {
				return err
			}
			for _, f := range fragments {
				if err := onFragment(f); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
