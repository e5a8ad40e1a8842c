package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kagamiapp/kagami/internal/almanac"
)

// Phase is the store lifecycle state.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseReady
)

// ErrNotReady is returned by mutations before Open has completed.
var ErrNotReady = errors.New("store: not ready")

// demoSeedDays is how many calendar days of synthetic entries are considered
// on a fresh client, each included with demoSeedChance probability.
const (
	demoSeedDays   = 14
	demoSeedChance = 0.8
)

// demoEntryTexts are the synthetic entries seeded on a fresh client so the
// timeline is never empty.
var demoEntryTexts = []string{
	"Took the long way home past the shrine. The gravel sound is calming.",
	"Slept badly but the morning coffee fixed more than it should.",
	"Work was loud today. Wrote three lines here just to slow down.",
	"Saw the first plum blossoms on the corner tree. Stopped to look.",
	"Walked 20 minutes at lunch. Head much clearer afterwards.",
	"Rainy evening. Made soup and did nothing else. No regrets.",
	"Called my sister. We laughed about the same old story again.",
	"Tried journaling before bed instead of scrolling. Better.",
	"Busy day, short entry. Still counts.",
	"The convenience store clerk remembered my order. Small, nice thing.",
}

// mockObservations are fixed companion observations merged into the
// timeline. Timestamps are materialized at Open relative to the clock.
var mockObservations = []struct {
	text    string
	ageDays int
}{
	{"You tend to write longer entries on days you walked. The two seem connected for you.", 2},
	{"Your evenings read calmer than your mornings this week.", 5},
}

// Options configures a Store. Zero values get working defaults.
type Options struct {
	Backend Backend
	Logger  *zap.Logger
	Rand    *rand.Rand       // demo seeding; defaults to a time-seeded source
	Now     func() time.Time // clock; defaults to time.Now
	// SkipDemoSeed disables synthetic entry seeding on a fresh client.
	SkipDemoSeed bool
}

// Store is the persisted journal store. It exclusively owns every
// collection below and is the sole writer to the backend keys. Every
// mutation serializes and writes its owning collection synchronously.
type Store struct {
	mu       sync.RWMutex
	backend  Backend
	log      *zap.Logger
	rng      *rand.Rand
	now      func() time.Time
	skipSeed bool

	phase        Phase
	entries      []JournalEntry
	draws        []FortuneDraw
	profile      UserProfile
	reflections  []Reflection
	reviews      []WeeklyReview
	chat         []ChatMessage
	trial        TrialState
	language     string
	observations []Observation
}

// New creates a Store in the uninitialized phase. Call Open before use.
func New(opts Options) *Store {
	if opts.Backend == nil {
		opts.Backend = NewMemBackend()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{
		backend:  opts.Backend,
		log:      opts.Logger,
		rng:      opts.Rand,
		now:      opts.Now,
		skipSeed: opts.SkipDemoSeed,
	}
}

// Phase returns the current lifecycle phase.
func (s *Store) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

// Open loads every collection from the backend and moves the store to
// ready. Read failures are logged and treated as empty collections, never
// fatal. On a fresh client with no prior entries, demo entries are seeded.
func (s *Store) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase == PhaseReady {
		return nil
	}
	s.phase = PhaseLoading

	s.loadCollection(KeyEntries, &s.entries)
	s.loadCollection(KeyFortunes, &s.draws)
	s.loadCollection(KeyProfile, &s.profile)
	s.loadCollection(KeyReflections, &s.reflections)
	s.loadCollection(KeyReviews, &s.reviews)
	s.loadCollection(KeyChat, &s.chat)
	s.loadCollection(KeyTrial, &s.trial)
	s.loadCollection(KeyLanguage, &s.language)

	now := s.now()
	s.observations = s.observations[:0]
	for i, obs := range mockObservations {
		s.observations = append(s.observations, Observation{
			ID:        fmt.Sprintf("obs-%d", i+1),
			Text:      obs.text,
			CreatedAt: now.AddDate(0, 0, -obs.ageDays).UnixMilli(),
		})
	}

	s.phase = PhaseReady

	if len(s.entries) == 0 && !s.skipSeed {
		s.seedDemoEntries(now)
		if err := s.saveLocked(KeyEntries, s.entries); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// loadCollection reads one key into dst. Missing keys and read or decode
// failures leave dst at its zero value.
func (s *Store) loadCollection(key string, dst any) {
	data, ok, err := s.backend.Load(key)
	if err != nil {
		s.log.Warn("store: load failed, starting empty",
			zap.String("key", key), zap.Error(err))
		return
	}
	if !ok {
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.Warn("store: corrupt collection, starting empty",
			zap.String("key", key), zap.Error(err))
	}
}

// saveLocked serializes and writes one collection. Callers hold s.mu.
func (s *Store) saveLocked(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: failed to encode %q: %w", key, err)
	}
	if err := s.backend.Save(key, data); err != nil {
		return fmt.Errorf("store: failed to write %q: %w", key, err)
	}
	return nil
}

// seedDemoEntries considers the last demoSeedDays calendar days and writes
// one synthetic entry per included day. Callers hold s.mu.
func (s *Store) seedDemoEntries(now time.Time) {
	for day := demoSeedDays; day >= 1; day-- {
		if s.rng.Float64() >= demoSeedChance {
			continue
		}
		text := demoEntryTexts[s.rng.Intn(len(demoEntryTexts))]
		at := now.AddDate(0, 0, -day)
		ts := at.UnixMilli()
		s.entries = append(s.entries, JournalEntry{
			ID:             uuid.NewString(),
			Kind:           EntryUser,
			Text:           text,
			CreatedAt:      ts,
			LastModifiedAt: ts,
		})
	}
}

// =============================================================================
// Journal Entries
// =============================================================================

// AddEntry appends a new entry timestamped now. Empty-text rejection is the
// caller's responsibility.
func (s *Store) AddEntry(text string, kind EntryKind) (JournalEntry, error) {
	return s.AddEntryAt(text, kind, s.now())
}

// AddEntryAt appends a new entry with an explicit timestamp.
func (s *Store) AddEntryAt(text string, kind EntryKind, at time.Time) (JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return JournalEntry{}, ErrNotReady
	}

	ts := at.UnixMilli()
	entry := JournalEntry{
		ID:             uuid.NewString(),
		Kind:           kind,
		Text:           text,
		CreatedAt:      ts,
		LastModifiedAt: ts,
	}
	s.entries = append(s.entries, entry)
	if err := s.saveLocked(KeyEntries, s.entries); err != nil {
		return JournalEntry{}, err
	}
	return entry, nil
}

// UpdateEntry replaces the text and bumps LastModifiedAt on the matching
// entry. No-op when the id is unknown.
func (s *Store) UpdateEntry(id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return ErrNotReady
	}

	for i := range s.entries {
		if s.entries[i].ID == id {
			s.entries[i].Text = text
			s.entries[i].LastModifiedAt = s.now().UnixMilli()
			return s.saveLocked(KeyEntries, s.entries)
		}
	}
	return nil
}

// DeleteEntry removes the entry and cascades to reflections referencing it.
// No-op when the id is unknown.
func (s *Store) DeleteEntry(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return ErrNotReady
	}

	found := false
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return nil
	}
	s.entries = kept

	keptRefl := s.reflections[:0]
	for _, r := range s.reflections {
		if r.EntryID == id {
			continue
		}
		keptRefl = append(keptRefl, r)
	}
	s.reflections = keptRefl

	if err := s.saveLocked(KeyEntries, s.entries); err != nil {
		return err
	}
	return s.saveLocked(KeyReflections, s.reflections)
}

// Entry returns the entry with the given id.
func (s *Store) Entry(id string) (JournalEntry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.entries {
		if e.ID == id {
			return e, true
		}
	}
	return JournalEntry{}, false
}

// Entries returns a copy of all journal entries in insertion order.
func (s *Store) Entries() []JournalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JournalEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// EntriesSince returns entries created at or after t.
func (s *Store) EntriesSince(t time.Time) []JournalEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cutoff := t.UnixMilli()
	var out []JournalEntry
	for _, e := range s.entries {
		if e.CreatedAt >= cutoff {
			out = append(out, e)
		}
	}
	return out
}

// =============================================================================
// Fortune Draws
// =============================================================================

// AppendDraw adds a draw to history unconditionally. Dedup per day, where
// wanted, is the caller's convention (see LatestDrawOn).
func (s *Store) AppendDraw(draw FortuneDraw) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return ErrNotReady
	}

	s.draws = append(s.draws, draw)
	return s.saveLocked(KeyFortunes, s.draws)
}

// TieFortune sets Tied on the matching draw. Idempotent; no-op for an
// unknown id. Draws are never removed.
func (s *Store) TieFortune(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return ErrNotReady
	}

	for i := range s.draws {
		if s.draws[i].ID == id {
			s.draws[i].Tied = true
			return s.saveLocked(KeyFortunes, s.draws)
		}
	}
	return nil
}

// Draws returns a copy of the full draw history in insertion order.
func (s *Store) Draws() []FortuneDraw {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]FortuneDraw, len(s.draws))
	copy(out, s.draws)
	return out
}

// LatestDrawOn returns the most recent draw on the given calendar day, in
// the day's location.
func (s *Store) LatestDrawOn(day time.Time) (FortuneDraw, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := day.Format("2006-01-02")
	for i := len(s.draws) - 1; i >= 0; i-- {
		at := time.UnixMilli(s.draws[i].DrawnAt).In(day.Location())
		if at.Format("2006-01-02") == want {
			return s.draws[i], true
		}
	}
	return FortuneDraw{}, false
}

// =============================================================================
// Profile, Trial, Language
// =============================================================================

// Profile returns the current user profile.
func (s *Store) Profile() UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// SetBloodType updates the profile blood type.
func (s *Store) SetBloodType(bt string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return ErrNotReady
	}

	s.profile.BloodType = bloodTypeFromString(bt)
	return s.saveLocked(KeyProfile, s.profile)
}

// Trial returns the trial/subscription state.
func (s *Store) Trial() TrialState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trial
}

// SetTrial replaces the trial/subscription state.
func (s *Store) SetTrial(t TrialState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return ErrNotReady
	}

	s.trial = t
	return s.saveLocked(KeyTrial, s.trial)
}

// Language returns the stored language preference ("" when unset).
func (s *Store) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// SetLanguage stores the language preference.
func (s *Store) SetLanguage(lang string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return ErrNotReady
	}

	s.language = lang
	return s.saveLocked(KeyLanguage, s.language)
}

// =============================================================================
// Reflections, Reviews, Chat
// =============================================================================

// AddReflection attaches a reflection to an entry.
func (s *Store) AddReflection(entryID, text string) (Reflection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return Reflection{}, ErrNotReady
	}

	r := Reflection{
		ID:        uuid.NewString(),
		EntryID:   entryID,
		Text:      text,
		CreatedAt: s.now().UnixMilli(),
	}
	s.reflections = append(s.reflections, r)
	if err := s.saveLocked(KeyReflections, s.reflections); err != nil {
		return Reflection{}, err
	}
	return r, nil
}

// ReflectionsFor returns every reflection referencing the entry.
func (s *Store) ReflectionsFor(entryID string) []Reflection {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Reflection
	for _, r := range s.reflections {
		if r.EntryID == entryID {
			out = append(out, r)
		}
	}
	return out
}

// AddReview appends an immutable weekly review.
func (s *Store) AddReview(r WeeklyReview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return ErrNotReady
	}

	s.reviews = append(s.reviews, r)
	return s.saveLocked(KeyReviews, s.reviews)
}

// Reviews returns a copy of all weekly reviews.
func (s *Store) Reviews() []WeeklyReview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]WeeklyReview, len(s.reviews))
	copy(out, s.reviews)
	return out
}

// AddChatMessage appends one conversation turn.
func (s *Store) AddChatMessage(role, text string) (ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReady {
		return ChatMessage{}, ErrNotReady
	}

	m := ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Text:      text,
		CreatedAt: s.now().UnixMilli(),
	}
	s.chat = append(s.chat, m)
	if err := s.saveLocked(KeyChat, s.chat); err != nil {
		return ChatMessage{}, err
	}
	return m, nil
}

// ChatMessages returns a copy of the conversation history.
func (s *Store) ChatMessages() []ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ChatMessage, len(s.chat))
	copy(out, s.chat)
	return out
}

// =============================================================================
// Combined Timeline
// =============================================================================

// CombinedTimeline merges entries, fortune draws, weekly reviews and the
// fixed observations into one list sorted by timestamp descending. Pure
// projection; the full merged set is re-sorted on every call.
func (s *Store) CombinedTimeline() []TimelineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]TimelineItem, 0,
		len(s.entries)+len(s.draws)+len(s.reviews)+len(s.observations))

	for i := range s.entries {
		e := s.entries[i]
		items = append(items, TimelineItem{
			Type: TimelineEntry, Timestamp: e.CreatedAt, Entry: &e,
		})
	}
	for i := range s.draws {
		d := s.draws[i]
		items = append(items, TimelineItem{
			Type: TimelineFortune, Timestamp: d.DrawnAt, Draw: &d,
		})
	}
	for i := range s.reviews {
		r := s.reviews[i]
		items = append(items, TimelineItem{
			Type: TimelineReview, Timestamp: r.GeneratedAt, Review: &r,
		})
	}
	for i := range s.observations {
		o := s.observations[i]
		items = append(items, TimelineItem{
			Type: TimelineObservation, Timestamp: o.CreatedAt, Observation: &o,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp > items[j].Timestamp
	})
	return items
}

// bloodTypeFromString normalizes user input; anything unrecognized maps to
// Unknown.
func bloodTypeFromString(s string) almanac.BloodType {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A":
		return almanac.BloodA
	case "B":
		return almanac.BloodB
	case "O":
		return almanac.BloodO
	case "AB":
		return almanac.BloodAB
	default:
		return almanac.BloodUnknown
	}
}
