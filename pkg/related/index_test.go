package related

import (
	"testing"

	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *Index {
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	idx, err := NewIndex(fsys, "related.idx")
	require.NoError(t, err)
	return idx
}

func TestVectorizeIsNormalized(t *testing.T) {
	vec := Vectorize("walked to the shrine in the rain")
	require.Len(t, vec, vectorDim)

	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, norm, 0.001)
}

func TestVectorizeEmptyTextIsZero(t *testing.T) {
	vec := Vectorize("the and of")
	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestRelatedFindsSimilarEntries(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.Add("walk-1", "long walk by the river, watched the water"))
	require.NoError(t, idx.Add("walk-2", "another walk along the river bank today"))
	require.NoError(t, idx.Add("work-1", "endless meetings at the office, deadline pressure"))

	ids, err := idx.Related("went walking near the river again", 2)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.ElementsMatch(t, []string{"walk-1", "walk-2"}, ids)
}

func TestRelatedOnEmptyIndex(t *testing.T) {
	idx := newTestIndex(t)
	ids, err := idx.Related("anything", 3)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSaveAndReload(t *testing.T) {
	fsys, err := mem.NewFS()
	require.NoError(t, err)

	idx, err := NewIndex(fsys, "related.idx")
	require.NoError(t, err)
	require.NoError(t, idx.Add("e1", "soup and tea on a rainy evening"))
	require.NoError(t, idx.Add("e2", "meeting ran long, tired after work"))
	require.NoError(t, idx.Save())

	reloaded, err := NewIndex(fsys, "related.idx")
	require.NoError(t, err)
	assert.Equal(t, 2, reloaded.Size())

	ids, err := reloaded.Related("rainy dinner with warm soup", 1)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, "e1", ids[0])
}
