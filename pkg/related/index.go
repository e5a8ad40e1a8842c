// Package related finds journal entries similar to a piece of text.
// Entries are embedded as feature-hashed bag-of-words vectors and held in
// an HNSW index with a cosine surface, persisted to a hackpadfs filesystem.
package related

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"sync"

	"github.com/fogfish/hnsw"
	"github.com/fogfish/hnsw/vector"
	"github.com/hack-pad/hackpadfs"
	kvector "github.com/kshard/vector"

	"github.com/kagamiapp/kagami/internal/keyword"
)

// vectorDim is the feature-hashing dimensionality. Small on purpose: the
// corpus is one person's journal, not a search engine.
const vectorDim = 64

// Index manages the HNSW index, the key/entry-id mapping and persistence.
type Index struct {
	idx  *hnsw.HNSW[vector.VF32]
	fs   hackpadfs.FS
	path string

	keys map[uint32]string // hnsw key -> journal entry id
	next uint32
	mu   sync.RWMutex
}

// snapshot is the gob-persisted form of the index.
type snapshot struct {
	Nodes hnsw.Nodes[vector.VF32]
	Keys  map[uint32]string
	Next  uint32
}

// NewIndex opens the index at path, loading an existing snapshot when one
// is present and starting empty otherwise.
func NewIndex(fsys hackpadfs.FS, path string) (*Index, error) {
	idx := &Index{
		fs:   fsys,
		path: path,
		keys: make(map[uint32]string),
	}

	if err := idx.load(); err != nil {
		if !errors.Is(err, hackpadfs.ErrNotExist) {
			return nil, err
		}
		idx.idx = hnsw.New[vector.VF32](vector.SurfaceVF32(kvector.Cosine()))
	}

	return idx, nil
}

// Vectorize embeds text as an L2-normalized feature-hashed vector.
// Stop words are filtered with the shared tokenizer.
func Vectorize(text string) []float32 {
	vec := make([]float32, vectorDim)
	for _, token := range keyword.TokenizeNorm(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[h.Sum32()%vectorDim]++
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}

// Add embeds the entry text and inserts it under the entry id.
func (x *Index) Add(entryID, text string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.idx == nil {
		return fmt.Errorf("index not initialized")
	}

	key := x.next
	x.next++
	x.keys[key] = entryID

	x.idx.Insert(vector.VF32{Key: key, Vec: Vectorize(text)})
	return nil
}

// Related returns up to k entry ids nearest to the text, nearest first.
func (x *Index) Related(text string, k int) ([]string, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if x.idx == nil {
		return nil, fmt.Errorf("index not initialized")
	}
	if x.idx.Size() == 0 || k <= 0 {
		return nil, nil
	}

	// efSearch: usually k * 2 or similar, floored generously.
	ef := k * 2
	if ef < 100 {
		ef = 100
	}

	results := x.idx.Search(vector.VF32{Vec: Vectorize(text)}, k, ef)

	ids := make([]string, 0, len(results))
	for _, r := range results {
		if id, ok := x.keys[r.Key]; ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Size returns the number of indexed entries.
func (x *Index) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.idx == nil {
		return 0
	}
	return x.idx.Size()
}

// Save persists the index snapshot to the filesystem.
func (x *Index) Save() error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if x.idx == nil {
		return nil
	}

	snap := snapshot{
		Nodes: x.idx.Nodes(),
		Keys:  x.keys,
		Next:  x.next,
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	if err := hackpadfs.WriteFullFile(x.fs, x.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write index file: %w", err)
	}

	return nil
}

// load reads the index snapshot from the filesystem.
func (x *Index) load() error {
	content, err := hackpadfs.ReadFile(x.fs, x.path)
	if err != nil {
		return err
	}

	var snap snapshot
	if err := gob.NewDecoder(bytes.NewReader(content)).Decode(&snap); err != nil {
		return fmt.Errorf("failed to decode index: %w", err)
	}

	x.idx = hnsw.FromNodes[vector.VF32](
		vector.SurfaceVF32(kvector.Cosine()),
		snap.Nodes,
	)
	x.keys = snap.Keys
	x.next = snap.Next
	return nil
}
