// Package history persists completed pipeline runs. The pipeline only
// writes: it constructs one item per completed run and hands it to the
// store, never reading history back into pipeline state.
package history

import (
	"context"
	"time"

	"github.com/mediawar/blockbuster/script"
)

// Item is one completed run: the topic, the model that narrated it, and the
// timed script blocks.
type Item struct {
	ID        string         `json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	Topic     string         `json:"topic"`
	ModelID   string         `json:"model_id"`
	Blocks    []script.Block `json:"blocks"`
}

// Store provides read/write access to run history.
type Store interface {
	Save(ctx context.Context, topic, modelID string, blocks []script.Block) (*Item, error)
	List(ctx context.Context) ([]Item, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// NopStore is the degraded mode when no store is configured: saves succeed
// with a nil item, listings are empty, deletes report nothing removed. The
// pipeline never fails for lack of a history store.
type NopStore struct{}

var _ Store = NopStore{}

func (NopStore) Save(ctx context.Context, topic, modelID string, blocks []script.Block) (*Item, error) {
	return nil, nil
}

func (NopStore) List(ctx context.Context) ([]Item, error) { return nil, nil }

func (NopStore) Delete(ctx context.Context, id string) (bool, error) { return false, nil }
