package store

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/hack-pad/hackpadfs/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Backend Factory for Testing All Implementations
// =============================================================================

// backendFactory creates a backend for testing.
// The same suite runs against MemBackend, FSBackend and SQLiteBackend.
type backendFactory func(t *testing.T) Backend

func memBackendFactory(_ *testing.T) Backend {
	return NewMemBackend()
}

func fsBackendFactory(t *testing.T) Backend {
	fsys, err := mem.NewFS()
	require.NoError(t, err)
	b, err := NewFSBackend(fsys, "kagami")
	require.NoError(t, err)
	return b
}

func sqliteBackendFactory(t *testing.T) Backend {
	b, err := NewSQLiteBackend(":memory:")
	require.NoError(t, err)
	return b
}

func runForAllBackends(t *testing.T, testFn func(t *testing.T, backend Backend)) {
	factories := map[string]backendFactory{
		"MemBackend":    memBackendFactory,
		"FSBackend":     fsBackendFactory,
		"SQLiteBackend": sqliteBackendFactory,
	}

	for name, factory := range factories {
		t.Run(name, func(t *testing.T) {
			backend := factory(t)
			defer backend.Close()
			testFn(t, backend)
		})
	}
}

// openStore opens a ready store over the backend with a fixed clock and
// seeded rng, demo seeding off unless the test wants it.
func openStore(t *testing.T, backend Backend, now time.Time) *Store {
	s := New(Options{
		Backend:      backend,
		Rand:         rand.New(rand.NewSource(1)),
		Now:          func() time.Time { return now },
		SkipDemoSeed: true,
	})
	require.NoError(t, s.Open())
	require.Equal(t, PhaseReady, s.Phase())
	return s
}

var testNow = time.Date(2026, 7, 7, 9, 0, 0, 0, time.UTC)

// =============================================================================
// Lifecycle
// =============================================================================

func TestMutationsRejectedBeforeOpen(t *testing.T) {
	s := New(Options{SkipDemoSeed: true})
	require.Equal(t, PhaseUninitialized, s.Phase())

	_, err := s.AddEntry("hello", EntryUser)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, s.TieFortune("x"), ErrNotReady)
	assert.ErrorIs(t, s.SetBloodType("A"), ErrNotReady)
}

type failingBackend struct{}

func (failingBackend) Load(string) ([]byte, bool, error) {
	return nil, false, errors.New("disk on fire")
}
func (failingBackend) Save(string, []byte) error { return errors.New("disk on fire") }
func (failingBackend) Close() error              { return nil }

func TestOpenTreatsLoadFailureAsEmpty(t *testing.T) {
	s := New(Options{Backend: failingBackend{}, SkipDemoSeed: true})
	require.NoError(t, s.Open())
	assert.Equal(t, PhaseReady, s.Phase())
	assert.Empty(t, s.Entries())
	assert.Empty(t, s.Draws())
}

func TestOpenTreatsCorruptBlobAsEmpty(t *testing.T) {
	backend := NewMemBackend()
	require.NoError(t, backend.Save(KeyEntries, []byte("not json {{{")))

	s := openStore(t, backend, testNow)
	assert.Empty(t, s.Entries())
}

func TestCollectionsSurviveReopen(t *testing.T) {
	runForAllBackends(t, func(t *testing.T, backend Backend) {
		s := openStore(t, backend, testNow)
		entry, err := s.AddEntry("walked to the shrine", EntryUser)
		require.NoError(t, err)
		require.NoError(t, s.SetBloodType("AB"))
		require.NoError(t, s.SetLanguage("ja"))

		reopened := openStore(t, backend, testNow)
		entries := reopened.Entries()
		require.Len(t, entries, 1)
		assert.Equal(t, entry.ID, entries[0].ID)
		assert.Equal(t, "walked to the shrine", entries[0].Text)
		assert.Equal(t, "AB", string(reopened.Profile().BloodType))
		assert.Equal(t, "ja", reopened.Language())
	})
}

// =============================================================================
// Journal Entries
// =============================================================================

func TestUpdateEntryBumpsLastModified(t *testing.T) {
	backend := NewMemBackend()
	clock := testNow
	s := New(Options{
		Backend:      backend,
		Now:          func() time.Time { return clock },
		SkipDemoSeed: true,
	})
	require.NoError(t, s.Open())

	entry, err := s.AddEntry("draft", EntryUser)
	require.NoError(t, err)

	clock = clock.Add(time.Hour)
	require.NoError(t, s.UpdateEntry(entry.ID, "final"))

	got, ok := s.Entry(entry.ID)
	require.True(t, ok)
	assert.Equal(t, "final", got.Text)
	assert.Equal(t, entry.CreatedAt, got.CreatedAt)
	assert.Greater(t, got.LastModifiedAt, got.CreatedAt)

	// Unknown id is a no-op, not an error.
	assert.NoError(t, s.UpdateEntry("no-such-id", "x"))
}

func TestDeleteEntryCascadesToReflections(t *testing.T) {
	runForAllBackends(t, func(t *testing.T, backend Backend) {
		s := openStore(t, backend, testNow)

		keep, err := s.AddEntry("keep me", EntryUser)
		require.NoError(t, err)
		gone, err := s.AddEntry("delete me", EntryUser)
		require.NoError(t, err)

		_, err = s.AddReflection(gone.ID, "about the deleted one")
		require.NoError(t, err)
		_, err = s.AddReflection(keep.ID, "about the kept one")
		require.NoError(t, err)

		require.NoError(t, s.DeleteEntry(gone.ID))

		_, ok := s.Entry(gone.ID)
		assert.False(t, ok)
		assert.Empty(t, s.ReflectionsFor(gone.ID))
		assert.Len(t, s.ReflectionsFor(keep.ID), 1)

		// Unknown id is a no-op, not an error.
		assert.NoError(t, s.DeleteEntry("no-such-id"))
	})
}

// =============================================================================
// Fortune Draws
// =============================================================================

func TestTieFortuneIsIdempotent(t *testing.T) {
	runForAllBackends(t, func(t *testing.T, backend Backend) {
		s := openStore(t, backend, testNow)

		require.NoError(t, s.AppendDraw(FortuneDraw{
			ID: "draw-1", DrawnAt: testNow.UnixMilli(), FortuneID: 6,
		}))

		require.NoError(t, s.TieFortune("draw-1"))
		require.NoError(t, s.TieFortune("draw-1"))

		draws := s.Draws()
		require.Len(t, draws, 1)
		assert.True(t, draws[0].Tied)

		// Unknown id leaves all records unchanged.
		require.NoError(t, s.TieFortune("no-such-draw"))
		assert.Len(t, s.Draws(), 1)
	})
}

func TestLatestDrawOn(t *testing.T) {
	s := openStore(t, NewMemBackend(), testNow)

	yesterday := testNow.AddDate(0, 0, -1)
	require.NoError(t, s.AppendDraw(FortuneDraw{ID: "old", DrawnAt: yesterday.UnixMilli()}))
	require.NoError(t, s.AppendDraw(FortuneDraw{ID: "today-1", DrawnAt: testNow.UnixMilli()}))
	require.NoError(t, s.AppendDraw(FortuneDraw{ID: "today-2", DrawnAt: testNow.Add(time.Hour).UnixMilli()}))

	got, ok := s.LatestDrawOn(testNow)
	require.True(t, ok)
	assert.Equal(t, "today-2", got.ID)

	_, ok = s.LatestDrawOn(testNow.AddDate(0, 0, 1))
	assert.False(t, ok)
}

// =============================================================================
// Combined Timeline
// =============================================================================

func TestCombinedTimelineOrdering(t *testing.T) {
	s := openStore(t, NewMemBackend(), testNow)

	early := testNow.Add(-2 * time.Hour)
	late := testNow.Add(2 * time.Hour)

	_, err := s.AddEntryAt("early entry", EntryUser, early)
	require.NoError(t, err)
	mid, err := s.AddEntryAt("middle entry", EntryUser, testNow)
	require.NoError(t, err)
	require.NoError(t, s.AppendDraw(FortuneDraw{ID: "d1", DrawnAt: late.UnixMilli()}))
	require.NoError(t, s.AddReview(WeeklyReview{
		ID: "r1", GeneratedAt: testNow.Add(time.Hour).UnixMilli(), Title: "Week",
	}))

	items := s.CombinedTimeline()
	// 2 entries + 1 draw + 1 review + 2 fixed observations
	require.Len(t, items, 6)

	for i := 1; i < len(items); i++ {
		assert.GreaterOrEqual(t, items[i-1].Timestamp, items[i].Timestamp,
			"timeline must be sorted descending")
	}

	assert.Equal(t, TimelineFortune, items[0].Type)
	assert.Equal(t, TimelineReview, items[1].Type)
	assert.Equal(t, TimelineEntry, items[2].Type)
	assert.Equal(t, mid.ID, items[2].Entry.ID)
}

// =============================================================================
// Demo Seeding
// =============================================================================

func TestFreshStoreSeedsDemoEntries(t *testing.T) {
	seed := int64(42)
	backend := NewMemBackend()
	s := New(Options{
		Backend: backend,
		Rand:    rand.New(rand.NewSource(seed)),
		Now:     func() time.Time { return testNow },
	})
	require.NoError(t, s.Open())

	// Replay the seeding decisions with the same source to compute the
	// exact expected subset.
	replay := rand.New(rand.NewSource(seed))
	var wantDays []int
	for day := demoSeedDays; day >= 1; day-- {
		if replay.Float64() < demoSeedChance {
			replay.Intn(len(demoEntryTexts)) // text pick
			wantDays = append(wantDays, day)
		}
	}

	entries := s.Entries()
	require.Len(t, entries, len(wantDays))
	assert.GreaterOrEqual(t, len(entries), 0)
	assert.LessOrEqual(t, len(entries), demoSeedDays)

	for i, e := range entries {
		wantTs := testNow.AddDate(0, 0, -wantDays[i]).UnixMilli()
		assert.Equal(t, wantTs, e.CreatedAt)
		assert.Equal(t, EntryUser, e.Kind)
		assert.NotEmpty(t, e.Text)
	}

	// Seeded entries are persisted: a reopen does not re-seed.
	s2 := New(Options{
		Backend: backend,
		Rand:    rand.New(rand.NewSource(7)),
		Now:     func() time.Time { return testNow },
	})
	require.NoError(t, s2.Open())
	assert.Len(t, s2.Entries(), len(wantDays))
}

func TestSkipDemoSeedLeavesStoreEmpty(t *testing.T) {
	s := openStore(t, NewMemBackend(), testNow)
	assert.Empty(t, s.Entries())
}
