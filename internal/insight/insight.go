// Package insight produces the "mirror" reflection: a short message derived
// from recent journal and walk activity through a fixed rule table. The
// selection is rule-priority-then-random-tiebreak, not a ranking function.
package insight

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/kagamiapp/kagami/internal/almanac"
	"github.com/kagamiapp/kagami/internal/store"
)

// Insight categories.
const (
	CategoryWeatherWalk = "weather_walk"
	CategorySeason      = "season"
	CategoryConsistency = "consistency"
)

// Insight is one generated reflective message.
type Insight struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

// weather buckets for the crude dominant-weather estimate. Entry dates are
// hashed through day-of-week into three buckets; this is not real weather
// data and never was.
var weatherBuckets = []string{"sunny", "cloudy", "rainy"}

// dominantWeather buckets entry dates by weekday modulo three and returns
// the most frequent bucket. Ties resolve to the earliest bucket.
func dominantWeather(entries []store.JournalEntry) string {
	counts := [3]int{}
	for _, e := range entries {
		wd := time.UnixMilli(e.CreatedAt).UTC().Weekday()
		counts[int(wd)%3]++
	}
	best := 0
	for i := 1; i < 3; i++ {
		if counts[i] > counts[best] {
			best = i
		}
	}
	return weatherBuckets[best]
}

// distinctDays counts distinct UTC calendar days among the entries.
func distinctDays(entries []store.JournalEntry) int {
	days := map[string]bool{}
	for _, e := range entries {
		days[time.UnixMilli(e.CreatedAt).UTC().Format("2006-01-02")] = true
	}
	return len(days)
}

// Generate builds the insight pool from the fixed rules and picks one.
// A weather_walk insight, when produced, wins outright; otherwise the pick
// is uniform over the produced pool. walkDays is the number of days with a
// recorded walk inside the analyzed window.
func Generate(entries []store.JournalEntry, walkDays int, now time.Time, rng *rand.Rand) Insight {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	daysAnalyzed := distinctDays(entries)
	if daysAnalyzed == 0 {
		daysAnalyzed = 1
	}
	walkPercentage := float64(walkDays) / float64(daysAnalyzed) * 100
	weather := dominantWeather(entries)

	var pool []Insight

	// Threshold rule: only the outer bands produce a weather_walk insight;
	// the middle band contributes nothing from this rule.
	switch {
	case walkPercentage > 70:
		pool = append(pool, Insight{
			Category: CategoryWeatherWalk,
			Text: fmt.Sprintf(
				"You walked on most of the days you wrote, even the %s ones. That consistency is carrying your mood.",
				weather),
		})
	case walkPercentage < 30:
		pool = append(pool, Insight{
			Category: CategoryWeatherWalk,
			Text: fmt.Sprintf(
				"Not many walks lately. On the next %s day, even ten minutes outside would show up in these pages.",
				weather),
		})
	}

	// Season message is unconditional.
	pool = append(pool, seasonInsight(now))

	// Consistency message when the journal habit is established.
	if len(entries) >= 5 {
		pool = append(pool, Insight{
			Category: CategoryConsistency,
			Text: fmt.Sprintf(
				"%d entries in this window. Showing up is the whole trick, and you keep showing up.",
				len(entries)),
		})
	}

	// weather_walk outranks the random pick.
	for _, ins := range pool {
		if ins.Category == CategoryWeatherWalk {
			return ins
		}
	}
	return pool[rng.Intn(len(pool))]
}

func seasonInsight(now time.Time) Insight {
	var text string
	switch almanac.SeasonOf(now) {
	case almanac.Spring:
		text = "Your spring entries lean forward. Lots of plans in these pages."
	case almanac.Summer:
		text = "Summer writing runs short and warm. The long days do the talking."
	case almanac.Autumn:
		text = "Autumn suits your writing. More looking back, more settling."
	default:
		text = "Winter entries go inward. That quiet is worth keeping."
	}
	return Insight{Category: CategorySeason, Text: text}
}
