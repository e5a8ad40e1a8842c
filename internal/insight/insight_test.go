package insight

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kagamiapp/kagami/internal/store"
)

var insightNow = time.Date(2026, 7, 10, 9, 0, 0, 0, time.UTC)

// entriesOnDays builds one entry per given day offset back from insightNow.
func entriesOnDays(offsets ...int) []store.JournalEntry {
	var out []store.JournalEntry
	for _, off := range offsets {
		at := insightNow.AddDate(0, 0, -off)
		out = append(out, store.JournalEntry{
			ID:        "e",
			Kind:      store.EntryUser,
			Text:      "entry",
			CreatedAt: at.UnixMilli(),
		})
	}
	return out
}

func TestHighWalkPercentageWinsOutright(t *testing.T) {
	entries := entriesOnDays(1, 2, 3, 4)
	// 4 walk days over 4 analyzed days: 100% > 70.
	for seed := int64(0); seed < 10; seed++ {
		got := Generate(entries, 4, insightNow, rand.New(rand.NewSource(seed)))
		assert.Equal(t, CategoryWeatherWalk, got.Category,
			"weather_walk must outrank the random pick")
	}
}

func TestLowWalkPercentageEncourages(t *testing.T) {
	entries := entriesOnDays(1, 2, 3, 4)
	// 1 walk day over 4: 25% < 30.
	got := Generate(entries, 1, insightNow, rand.New(rand.NewSource(1)))
	assert.Equal(t, CategoryWeatherWalk, got.Category)
	assert.Contains(t, got.Text, "Not many walks")
}

func TestMiddleBandPicksUniformlyFromRemainingRules(t *testing.T) {
	entries := entriesOnDays(1, 2, 3, 4)
	// 2 walk days over 4: 50%, no weather_walk insight produced. Pool is
	// season (unconditional) only: fewer than 5 entries.
	seen := map[string]bool{}
	for seed := int64(0); seed < 20; seed++ {
		got := Generate(entries, 2, insightNow, rand.New(rand.NewSource(seed)))
		seen[got.Category] = true
	}
	assert.Equal(t, map[string]bool{CategorySeason: true}, seen)
}

func TestConsistencyJoinsPoolAtFiveEntries(t *testing.T) {
	entries := entriesOnDays(1, 2, 3, 4, 5, 6)
	seen := map[string]bool{}
	for seed := int64(0); seed < 40; seed++ {
		got := Generate(entries, 3, insightNow, rand.New(rand.NewSource(seed)))
		seen[got.Category] = true
	}
	// 3/6 = 50% keeps weather_walk out; season and consistency both appear
	// across seeds.
	assert.True(t, seen[CategorySeason])
	assert.True(t, seen[CategoryConsistency])
	assert.False(t, seen[CategoryWeatherWalk])
}

func TestEmptyEntriesStillProduceAnInsight(t *testing.T) {
	got := Generate(nil, 0, insightNow, rand.New(rand.NewSource(1)))
	// 0 walks over a floor of 1 day: 0% < 30 produces the encouragement.
	assert.Equal(t, CategoryWeatherWalk, got.Category)
	assert.NotEmpty(t, got.Text)
}

func TestDominantWeatherIsDeterministic(t *testing.T) {
	// Friday 2026-07-10: Weekday 5, bucket 5%3=2 ("rainy").
	entries := entriesOnDays(0, 0, 0)
	assert.Equal(t, "rainy", dominantWeather(entries))
}
