package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kagamiapp/kagami/internal/store"
)

var reviewNow = time.Date(2026, 7, 12, 18, 0, 0, 0, time.UTC)

func entryWith(text string, daysAgo int) store.JournalEntry {
	return store.JournalEntry{
		ID:        "e",
		Kind:      store.EntryUser,
		Text:      text,
		CreatedAt: reviewNow.AddDate(0, 0, -daysAgo).UnixMilli(),
	}
}

func weekEntries() []store.JournalEntry {
	return []store.JournalEntry{
		entryWith("Long meeting at work, deadline moved again", 6),
		entryWith("Walked to the shrine after work, felt calm", 5),
		entryWith("Happy about the small win at work today", 3),
		entryWith("Rain all day, soup for dinner, glad anyway", 1),
	}
}

type stubLLM struct {
	reply string
	err   error
	calls int
}

func (s *stubLLM) Complete(_ context.Context, _, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestGenerateStatsAndThemes(t *testing.T) {
	g := New(nil, nil)
	r := g.Generate(context.Background(), weekEntries(), reviewNow)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, reviewNow.UnixMilli(), r.GeneratedAt)
	assert.Equal(t, 4, r.Stats.EntryCount)
	assert.Greater(t, r.Stats.WordCount, 20)
	assert.Equal(t, "positive", r.Stats.Mood) // happy/calm/glad vs nothing

	require.NotEmpty(t, r.KeyThemes)
	assert.LessOrEqual(t, len(r.KeyThemes), maxKeyThemes)
	assert.Equal(t, "Work", r.KeyThemes[0]) // "work" hits 3 times, most of any theme
	assert.Contains(t, r.Summary, "4 entries")
}

func TestGenerateEmptyWeek(t *testing.T) {
	g := New(nil, nil)
	r := g.Generate(context.Background(), nil, reviewNow)

	assert.Equal(t, 0, r.Stats.EntryCount)
	assert.Equal(t, "steady", r.Stats.Mood)
	assert.Empty(t, r.KeyThemes)
	assert.Contains(t, r.Summary, "quiet week")
}

func TestTitleNamesWeekStart(t *testing.T) {
	g := New(nil, nil)
	r := g.Generate(context.Background(), weekEntries(), reviewNow)
	assert.Equal(t, "Week of July 6", r.Title)
}

func TestLLMPolishIsUsedWhenItSucceeds(t *testing.T) {
	llm := &stubLLM{reply: "A week of work, walks and warm soup."}
	g := New(llm, nil)
	r := g.Generate(context.Background(), weekEntries(), reviewNow)

	assert.Equal(t, 1, llm.calls)
	assert.Equal(t, "A week of work, walks and warm soup.", r.Summary)
}

func TestLLMFailureFallsBackToTemplate(t *testing.T) {
	llm := &stubLLM{err: errors.New("api down")}
	g := New(llm, nil)
	r := g.Generate(context.Background(), weekEntries(), reviewNow)

	assert.Equal(t, 1, llm.calls) // single attempt, no retry
	assert.Contains(t, r.Summary, "4 entries")
}

func TestBlankLLMReplyFallsBackToTemplate(t *testing.T) {
	llm := &stubLLM{reply: "   "}
	g := New(llm, nil)
	r := g.Generate(context.Background(), weekEntries(), reviewNow)
	assert.Contains(t, r.Summary, "4 entries")
}
