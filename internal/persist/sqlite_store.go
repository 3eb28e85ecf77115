package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/pixtweak/internal/adjust"
	"github.com/cristianoliveira/pixtweak/internal/colors"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS adjustments (
	image_key  TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

var pragmas = []string{
	"PRAGMA busy_timeout = 5000",
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
}

// SQLiteStore keeps one row per image in an SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteStore opens or creates the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite store: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite store: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open db: %w", err)
	}

	s := &SQLiteStore{db: db, now: time.Now}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	for _, p := range pragmas {
		if _, err := s.db.Exec(p); err != nil {
			return fmt.Errorf("sqlite store: %s: %w", p, err)
		}
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite store: create schema: %w", err)
	}
	return nil
}

// Load returns the record for key.
func (s *SQLiteStore) Load(key string) (adjust.Partial, bool) {
	var payload string
	err := s.db.QueryRowContext(context.Background(),
		`SELECT payload FROM adjustments WHERE image_key = ?`, key).Scan(&payload)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			colors.Debug(fmt.Sprintf("sqlite store: load %s: %v", key, err))
		}
		return nil, false
	}
	return Decode([]byte(payload))
}

// Save upserts the record for key.
func (s *SQLiteStore) Save(key string, st adjust.State) error {
	raw, err := Encode(st)
	if err != nil {
		return fmt.Errorf("sqlite store: encode: %w", err)
	}
	_, err = s.db.ExecContext(context.Background(), `
INSERT INTO adjustments (image_key, payload, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(image_key) DO UPDATE SET
	payload = excluded.payload,
	updated_at = excluded.updated_at`,
		key, string(raw), s.now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("sqlite store: save: %w", err)
	}
	return nil
}

// Forget deletes the record for key.
func (s *SQLiteStore) Forget(key string) error {
	if _, err := s.db.ExecContext(context.Background(),
		`DELETE FROM adjustments WHERE image_key = ?`, key); err != nil {
		return fmt.Errorf("sqlite store: forget: %w", err)
	}
	return nil
}

// Close closes the underlying SQLite connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
