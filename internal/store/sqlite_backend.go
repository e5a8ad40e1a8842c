// SQLite Backend using ncruces/go-sqlite3 through database/sql.
// The sqlite-vec bindings are registered alongside the driver so vec
// virtual tables are available on the same connection.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/asg017/sqlite-vec-go-bindings/ncruces"
	_ "github.com/ncruces/go-sqlite3/driver"
)

// SQLiteBackend stores collection blobs in a single kv table.
type SQLiteBackend struct {
	db *sql.DB
}

const kvSchema = `
CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at INTEGER NOT NULL DEFAULT (unixepoch('subsec') * 1000)
);
`

// NewSQLiteBackend opens a SQLite-backed store.
// Use ":memory:" for in-memory or a file path for persistent storage.
func NewSQLiteBackend(dsn string) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec(kvSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Load(key string) ([]byte, bool, error) {
	var data []byte
	err := b.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load %q: %w", key, err)
	}
	return data, true, nil
}

func (b *SQLiteBackend) Save(key string, data []byte) error {
	_, err := b.db.Exec(`
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, unixepoch('subsec') * 1000)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, data)
	if err != nil {
		return fmt.Errorf("failed to save %q: %w", key, err)
	}
	return nil
}

// Close closes the database connection.
func (b *SQLiteBackend) Close() error {
	if b.db != nil {
		return b.db.Close()
	}
	return nil
}

var _ Backend = (*SQLiteBackend)(nil)
