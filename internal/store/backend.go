// This file contains the persistence Backend interface and the in-memory
// and filesystem implementations. The SQLite implementation lives in
// sqlite_backend.go.
package store

import (
	"errors"
	"path"
	"sync"

	"github.com/hack-pad/hackpadfs"
)

// Backing-store keys, one JSON blob per logical collection.
const (
	KeyEntries     = "journal_entries"
	KeyFortunes    = "fortune_history"
	KeyProfile     = "user_profile"
	KeyReflections = "reflections"
	KeyReviews     = "weekly_reviews"
	KeyChat        = "chat_messages"
	KeyTrial       = "trial_state"
	KeyLanguage    = "language"
)

// Backend is the injected persistence layer. Load reports a missing key as
// (nil, false, nil), not an error.
type Backend interface {
	Load(key string) (data []byte, ok bool, err error)
	Save(key string, data []byte) error
	Close() error
}

// =============================================================================
// MemBackend
// =============================================================================

// MemBackend is an in-memory Backend for tests.
type MemBackend struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemBackend creates an empty in-memory backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{blobs: make(map[string][]byte)}
}

func (b *MemBackend) Load(key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, ok := b.blobs[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (b *MemBackend) Save(key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	stored := make([]byte, len(data))
	copy(stored, data)
	b.blobs[key] = stored
	return nil
}

// Close is a no-op for MemBackend.
func (b *MemBackend) Close() error {
	return nil
}

// =============================================================================
// FSBackend
// =============================================================================

// FSBackend stores one file per key under a directory of a hackpadfs.FS.
type FSBackend struct {
	fs  hackpadfs.FS
	dir string
}

// NewFSBackend creates a filesystem backend rooted at dir, creating the
// directory if needed.
func NewFSBackend(fsys hackpadfs.FS, dir string) (*FSBackend, error) {
	if err := hackpadfs.MkdirAll(fsys, dir, 0o755); err != nil {
		return nil, err
	}
	return &FSBackend{fs: fsys, dir: dir}, nil
}

func (b *FSBackend) keyPath(key string) string {
	return path.Join(b.dir, key+".json")
}

func (b *FSBackend) Load(key string) ([]byte, bool, error) {
	data, err := hackpadfs.ReadFile(b.fs, b.keyPath(key))
	if err != nil {
		if errors.Is(err, hackpadfs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (b *FSBackend) Save(key string, data []byte) error {
	return hackpadfs.WriteFullFile(b.fs, b.keyPath(key), data, 0o644)
}

// Close is a no-op for FSBackend.
func (b *FSBackend) Close() error {
	return nil
}

// Compile-time interface checks
var (
	_ Backend = (*MemBackend)(nil)
	_ Backend = (*FSBackend)(nil)
)
