// Package ai wraps the external text-generation collaborator: a provider
// model plus the retry and stream-accumulation primitives the pipeline
// builds on. The model is treated as an opaque function returning text,
// possibly incrementally.
package ai

import (
	"context"
	"fmt"
	"net/http"
)

// Model is a generic model container that uses function variables for
// provider-specific logic.
type Model struct {
	ModelName string
	APIKey    string
	BaseURL   string
	client    *http.Client

	// generateFunc is the non-streaming implementation for the provider.
	generateFunc func(ctx context.Context, m *Model, prompt string, jsonMode bool) (string, error)

	// streamFunc is the streaming implementation; it calls onFragment for
	// each text fragment in arrival order.
	streamFunc func(ctx context.Context, m *Model, prompt string, jsonMode bool, onFragment func(string) error) error
}

// Generate makes a single non-streaming call to the model.
func (m *Model) Generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	if m.generateFunc == nil {
		return "", fmt.Errorf("model %s has no generate function", m.ModelName)
	}
	return m.generateFunc(ctx, m, prompt, jsonMode)
}

// GenerateStream makes a single streaming call to the model, invoking
// onFragment for every fragment as it arrives.
func (m *Model) GenerateStream(ctx context.Context, prompt string, jsonMode bool, onFragment func(string) error) error {
	if m.streamFunc != nil {
		return m.streamFunc(ctx, m, prompt, jsonMode, onFragment)
	}
	// Providers without native streaming degrade to one fragment.
	out, err := m.Generate(ctx, prompt, jsonMode)
	if err != nil {
		return err
	}
	return onFragment(out)
}
