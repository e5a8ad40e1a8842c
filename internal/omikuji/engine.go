// Package omikuji implements the fortune draw engine: a uniform pick over
// the fixed 7-level table, enriched with the micro-season and blood-type
// advice active at draw time.
package omikuji

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/kagamiapp/kagami/internal/almanac"
	"github.com/kagamiapp/kagami/internal/store"
)

// Engine draws fortunes against a store. The random source and clock are
// injected so draws are deterministic under test.
type Engine struct {
	store *store.Store
	rng   *rand.Rand
	now   func() time.Time
}

// New creates an engine. Nil rng or now get working defaults.
func New(s *store.Store, rng *rand.Rand, now func() time.Time) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Engine{store: s, rng: rng, now: now}
}

// Draw selects one fortune uniformly at random, snapshots the current
// micro-season and the user's blood type (default A when unset), appends
// the draw to history unconditionally, and inserts the companion's analysis
// as a system journal entry one second after the draw so the pair keeps a
// stable order in descending sorts. The once-per-day convention, where a
// caller wants it, lives in the caller (see store.LatestDrawOn).
func (e *Engine) Draw() (store.FortuneDraw, error) {
	fortune := almanac.Fortunes[e.rng.Intn(len(almanac.Fortunes))]

	bloodType := e.store.Profile().BloodType
	if bloodType == almanac.BloodUnknown {
		bloodType = almanac.BloodA
	}

	now := e.now()
	draw := store.FortuneDraw{
		ID:          uuid.NewString(),
		DrawnAt:     now.UnixMilli(),
		FortuneID:   fortune.ID,
		Name:        fortune.Name,
		NameJA:      fortune.NameJA,
		Proverb:     fortune.Proverb,
		Color:       fortune.Color,
		WorkAdvice:  almanac.WorkAdvice(bloodType, fortune.ID),
		BloodType:   bloodType,
		Microseason: almanac.CurrentMicroseason(now),
	}

	if err := e.store.AppendDraw(draw); err != nil {
		return store.FortuneDraw{}, fmt.Errorf("omikuji: failed to record draw: %w", err)
	}

	analysis := analysisText(draw)
	if _, err := e.store.AddEntryAt(analysis, store.EntrySystem, now.Add(time.Second)); err != nil {
		return store.FortuneDraw{}, fmt.Errorf("omikuji: failed to record analysis: %w", err)
	}

	return draw, nil
}

// Tie marks a drawn fortune as symbolically left at the shrine.
func (e *Engine) Tie(drawID string) error {
	return e.store.TieFortune(drawID)
}

// analysisText renders the short companion analysis attached to a draw.
func analysisText(d store.FortuneDraw) string {
	return fmt.Sprintf(
		"Today's fortune is %s (%s). \"%s\" — during %s, this reads as a nudge: %s",
		d.Name, d.NameJA, d.Proverb, d.Microseason.Name, d.WorkAdvice,
	)
}
