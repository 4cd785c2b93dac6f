package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mediawar/blockbuster/script"
)

const schema = `
CREATE TABLE IF NOT EXISTS history_items (
	id         TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	topic      TEXT NOT NULL,
	model_id   TEXT NOT NULL,
	blocks     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_history_created_at ON history_items(created_at);
`

// SQLiteStore persists run history in a SQLite database.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

var _ Store = (*SQLiteStore)(nil)

// Open initializes or connects to the history database at path.
func Open(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Save(ctx context.Context, topic, modelID string, blocks []script.Block) (*Item, error) {
	item := Item{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Topic:     topic,
		ModelID:   modelID,
		Blocks:    blocks,
	}

	encoded, err := json.Marshal(item.Blocks)
	if err != nil {
		return nil, fmt.Errorf("encode blocks: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO history_items (id, created_at, topic, model_id, blocks) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.CreatedAt.Format(time.RFC3339Nano), item.Topic, item.ModelID, string(encoded))
	if err != nil {
		return nil, fmt.Errorf("insert history item: %w", err)
	}
	return &item, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, topic, model_id, blocks FROM history_items ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list history items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		var createdAt, blocks string
		if err := rows.Scan(&item.ID, &createdAt, &item.Topic, &item.ModelID, &blocks); err != nil {
			return nil, fmt.Errorf("scan history item: %w", err)
		}
		item.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", createdAt, err)
		}
		if err := json.Unmarshal([]byte(blocks), &item.Blocks); err != nil {
			return nil, fmt.Errorf("decode blocks for %s: %w", item.ID, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM history_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete history item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
