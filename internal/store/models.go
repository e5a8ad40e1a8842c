// Package store provides the persisted journal store for kagami.
// It is the sole owner and writer of all client collections, synchronized
// to a key-value Backend as one JSON blob per collection.
package store

import (
	"github.com/kagamiapp/kagami/internal/almanac"
)

// EntryKind distinguishes user-written entries from system-generated ones.
type EntryKind string

const (
	EntryUser   EntryKind = "user"
	EntrySystem EntryKind = "system"
)

// JournalEntry is a single journal record.
type JournalEntry struct {
	ID             string    `json:"id"`
	Kind           EntryKind `json:"kind"`
	Text           string    `json:"text"`
	CreatedAt      int64     `json:"createdAt"`      // unix millis
	LastModifiedAt int64     `json:"lastModifiedAt"` // unix millis
	// Encrypted is cosmetic; no encryption is performed anywhere.
	Encrypted bool `json:"isEncrypted"`
}

// FortuneDraw is one omikuji draw with the fortune row denormalized and the
// micro-season and blood type snapshotted at draw time. Tied is the only
// field ever mutated after creation.
type FortuneDraw struct {
	ID          string              `json:"id"`
	DrawnAt     int64               `json:"drawnAt"` // unix millis
	FortuneID   int                 `json:"fortuneId"`
	Name        string              `json:"name"`
	NameJA      string              `json:"nameJa"`
	Proverb     string              `json:"proverb"`
	Color       string              `json:"color"`
	WorkAdvice  string              `json:"workAdvice"`
	BloodType   almanac.BloodType   `json:"bloodType"`
	Microseason almanac.Microseason `json:"microseason"`
	Tied        bool                `json:"isTied"`
}

// UserProfile is the singleton per-client profile. BloodType stays Unknown
// until onboarding sets it.
type UserProfile struct {
	BloodType almanac.BloodType `json:"bloodType"`
}

// TrialState tracks the trial/subscription flags.
type TrialState struct {
	StartedAt  int64 `json:"startedAt"` // unix millis, 0 = not started
	Subscribed bool  `json:"subscribed"`
}

// Reflection is a short generated note attached to a journal entry.
// Deleted in cascade when its entry is deleted.
type Reflection struct {
	ID        string `json:"id"`
	EntryID   string `json:"entryId"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// ReviewStats are the summary numbers attached to a weekly review.
type ReviewStats struct {
	EntryCount int    `json:"entryCount"`
	WordCount  int    `json:"wordCount"`
	Mood       string `json:"mood"`
}

// WeeklyReview is an immutable generated review. Never deleted.
type WeeklyReview struct {
	ID          string      `json:"id"`
	GeneratedAt int64       `json:"generatedAt"`
	Title       string      `json:"title"`
	Summary     string      `json:"summary"`
	KeyThemes   []string    `json:"keyThemes"`
	Stats       ReviewStats `json:"stats"`
}

// ChatMessage is one turn of the companion conversation.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"` // "user" | "assistant"
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// Observation is a fixed mock companion observation surfaced in the
// timeline. Not persisted; materialized at Open relative to the clock.
type Observation struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

// Timeline item types.
const (
	TimelineEntry       = "entry"
	TimelineFortune     = "fortune"
	TimelineReview      = "review"
	TimelineObservation = "observation"
)

// TimelineItem is one row of the combined timeline projection. Exactly one
// of the payload pointers is set, matching Type.
type TimelineItem struct {
	Type        string        `json:"type"`
	Timestamp   int64         `json:"timestamp"`
	Entry       *JournalEntry `json:"entry,omitempty"`
	Draw        *FortuneDraw  `json:"fortune,omitempty"`
	Review      *WeeklyReview `json:"review,omitempty"`
	Observation *Observation  `json:"observation,omitempty"`
}
