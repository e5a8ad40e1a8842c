package omikuji

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagamiapp/kagami/internal/almanac"
	"github.com/kagamiapp/kagami/internal/store"
)

var drawNow = time.Date(2026, 7, 7, 9, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, seed int64) (*Engine, *store.Store) {
	s := store.New(store.Options{
		Now:          func() time.Time { return drawNow },
		SkipDemoSeed: true,
	})
	require.NoError(t, s.Open())
	e := New(s, rand.New(rand.NewSource(seed)), func() time.Time { return drawNow })
	return e, s
}

func TestDrawRecordsHistoryAndAnalysisEntry(t *testing.T) {
	e, s := newTestEngine(t, 1)

	draw, err := e.Draw()
	require.NoError(t, err)

	draws := s.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, draw.ID, draws[0].ID)
	assert.GreaterOrEqual(t, draw.FortuneID, 1)
	assert.LessOrEqual(t, draw.FortuneID, 7)
	assert.NotEmpty(t, draw.Microseason.Name)
	assert.NotEmpty(t, draw.WorkAdvice)
	assert.False(t, draw.Tied)

	entries := s.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, store.EntrySystem, entries[0].Kind)
	// Analysis entry is stamped one second after the draw.
	assert.Equal(t, draw.DrawnAt+1000, entries[0].CreatedAt)
	assert.Contains(t, entries[0].Text, draw.Proverb)
}

func TestDrawDefaultsBloodTypeToA(t *testing.T) {
	e, _ := newTestEngine(t, 1)

	draw, err := e.Draw()
	require.NoError(t, err)
	assert.Equal(t, almanac.BloodA, draw.BloodType)
	assert.Equal(t, almanac.WorkAdvice(almanac.BloodA, draw.FortuneID), draw.WorkAdvice)
}

func TestDrawSnapshotsProfileBloodType(t *testing.T) {
	e, s := newTestEngine(t, 1)
	require.NoError(t, s.SetBloodType("B"))

	draw, err := e.Draw()
	require.NoError(t, err)
	assert.Equal(t, almanac.BloodB, draw.BloodType)
	assert.Equal(t, almanac.WorkAdvice(almanac.BloodB, draw.FortuneID), draw.WorkAdvice)
}

func TestDrawNeverDedupesPerDay(t *testing.T) {
	e, s := newTestEngine(t, 1)

	for i := 0; i < 3; i++ {
		_, err := e.Draw()
		require.NoError(t, err)
	}
	assert.Len(t, s.Draws(), 3)
}

// Over many seeded draws every fortune id appears with a frequency close
// to uniform.
func TestDrawDistributionIsRoughlyUniform(t *testing.T) {
	e, _ := newTestEngine(t, 99)

	const n = 7000
	counts := make(map[int]int)
	for i := 0; i < n; i++ {
		draw, err := e.Draw()
		require.NoError(t, err)
		counts[draw.FortuneID]++
	}

	require.Len(t, counts, 7)
	expected := float64(n) / 7
	for id, c := range counts {
		assert.InDelta(t, expected, float64(c), expected*0.15,
			"fortune id %d is far from uniform", id)
	}
}

func TestTieDelegatesToStore(t *testing.T) {
	e, s := newTestEngine(t, 1)

	draw, err := e.Draw()
	require.NoError(t, err)

	require.NoError(t, e.Tie(draw.ID))
	draws := s.Draws()
	require.Len(t, draws, 1)
	assert.True(t, draws[0].Tied)
}
