package ai

import (
	"context"
	"fmt"
	"testing"
)

func TestDummyModelGenerate(t *testing.T) {
	m := NewDummyModel(func(ctx context.Context, prompt string) (string, error) {
		return "echo: " + prompt, nil
	})

	out, err := m.Generate(context.Background(), "hello", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "echo: hello" {
		t.Errorf("expected echo, got %q", out)
	}
}

func TestDummyStreamModelDeliversFragmentsInOrder(t *testing.T) {
	m := NewDummyStreamModel(func(ctx context.Context, prompt string) ([]string, error) {
		return []string{"a", "b", "c"}, nil
	})

	var got []string
	err := m.GenerateStream(context.Background(), "hi", false, func(f string) error {
		got = append(got, f)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got[0] != "a" || got[2] != "c" {
		t.Errorf("unexpected fragments: %q", got)
	}
}

func TestGenerateStreamFallsBackToSingleFragment(t *testing.T) {
	// a model without a streaming implementation degrades to one fragment
	m := NewDummyModel(func(ctx context.Context, prompt string) (string, error) {
		return "whole response", nil
	})

	var got []string
	err := m.GenerateStream(context.Background(), "hi", false, func(f string) error {
		got = append(got, f)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "whole response" {
		t.Errorf("expected one fragment, got %q", got)
	}
}

func TestGenerateWithoutImplementation(t *testing.T) {
	m := &Model{ModelName: "hollow"}
	if _, err := m.Generate(context.Background(), "hi", false); err == nil {
		t.Fatal("expected error for model without generate function")
	}
}

func TestDummyModelPropagatesError(t *testing.T) {
	wantErr := fmt.Errorf("provider down")
	m := NewDummyModel(func(ctx context.Context, prompt string) (string, error) {
		return "", wantErr
	})

	if _, err := m.Generate(context.Background(), "hi", false); err != wantErr {
		t.Errorf("expected %v, got %v", wantErr, err)
	}
}
