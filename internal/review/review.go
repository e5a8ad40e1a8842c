// Package review generates the immutable weekly review: stats, key themes
// extracted by keyword matching, and a summary that an LLM may polish on a
// best-effort basis.
package review

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kagamiapp/kagami/internal/keyword"
	"github.com/kagamiapp/kagami/internal/store"
)

// maxKeyThemes caps how many themes a review lists.
const maxKeyThemes = 3

// LLMClient is the completion interface the review uses to polish its
// summary. Satisfied by companion.AnthropicClient.
type LLMClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Generator builds weekly reviews.
type Generator struct {
	dict *keyword.Dictionary
	llm  LLMClient // optional; nil means template summary only
	log  *zap.Logger
}

// New creates a Generator over the default theme dictionary. llm may be nil.
func New(llm LLMClient, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		dict: keyword.Compile(keyword.DefaultThemes()),
		llm:  llm,
		log:  log,
	}
}

// Generate builds a review over the given entries. The review is immutable
// once returned; persisting it is the caller's job.
func (g *Generator) Generate(ctx context.Context, entries []store.JournalEntry, now time.Time) store.WeeklyReview {
	texts := make([]string, len(entries))
	wordCount := 0
	for i, e := range entries {
		texts[i] = e.Text
		wordCount += len(strings.Fields(e.Text))
	}

	counts := g.dict.CountThemes(texts)
	mood := moodLabel(counts)
	themes := topThemes(g.dict, counts)

	title := fmt.Sprintf("Week of %s", now.AddDate(0, 0, -6).Format("January 2"))
	summary := g.summarize(ctx, entries, themes, mood)

	return store.WeeklyReview{
		ID:          uuid.NewString(),
		GeneratedAt: now.UnixMilli(),
		Title:       title,
		Summary:     summary,
		KeyThemes:   themes,
		Stats: store.ReviewStats{
			EntryCount: len(entries),
			WordCount:  wordCount,
			Mood:       mood,
		},
	}
}

// moodLabel compares positive and negative keyword hits.
func moodLabel(counts map[string]int) string {
	pos := counts[keyword.ThemeMoodPositive]
	neg := counts[keyword.ThemeMoodNegative]
	switch {
	case pos > neg:
		return "positive"
	case neg > pos:
		return "low"
	default:
		return "steady"
	}
}

// topThemes returns up to maxKeyThemes theme labels ordered by hit count
// descending, ties broken by theme id for determinism. Mood themes are
// excluded; they feed the label, not the list.
func topThemes(dict *keyword.Dictionary, counts map[string]int) []string {
	type hit struct {
		id    string
		count int
	}
	var hits []hit
	for id, c := range counts {
		if id == keyword.ThemeMoodPositive || id == keyword.ThemeMoodNegative || c == 0 {
			continue
		}
		hits = append(hits, hit{id, c})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].count != hits[j].count {
			return hits[i].count > hits[j].count
		}
		return hits[i].id < hits[j].id
	})

	var labels []string
	for _, h := range hits {
		if len(labels) == maxKeyThemes {
			break
		}
		if info := dict.Info(h.id); info != nil {
			labels = append(labels, info.Label)
		}
	}
	return labels
}

// summarize renders the template summary and, when an LLM is configured,
// tries a single polish call. Any failure falls back to the template; the
// review never surfaces an error.
func (g *Generator) summarize(ctx context.Context, entries []store.JournalEntry, themes []string, mood string) string {
	template := templateSummary(len(entries), themes, mood)
	if g.llm == nil {
		return template
	}

	var sample strings.Builder
	for i, e := range entries {
		if i == 5 {
			break
		}
		sample.WriteString("- ")
		sample.WriteString(e.Text)
		sample.WriteString("\n")
	}

	prompt := fmt.Sprintf(
		"Rewrite this weekly journal summary in two warm, plain sentences. Keep every fact.\n\nSummary: %s\n\nSample entries:\n%s",
		template, sample.String())

	polished, err := g.llm.Complete(ctx, reviewSystemPrompt, prompt)
	if err != nil || strings.TrimSpace(polished) == "" {
		g.log.Warn("review: summary polish failed, using template", zap.Error(err))
		return template
	}
	return strings.TrimSpace(polished)
}

func templateSummary(entryCount int, themes []string, mood string) string {
	if entryCount == 0 {
		return "A quiet week with no entries. The page will be here when you are."
	}
	themePart := "no single theme stood out"
	if len(themes) > 0 {
		themePart = "the week kept returning to " + strings.Join(themes, ", ")
	}
	return fmt.Sprintf(
		"You wrote %d entries this week and %s. Overall the mood reads %s.",
		entryCount, themePart, mood)
}

const reviewSystemPrompt = `You summarize a user's private journal week. Be warm, specific and brief. Never invent events that are not in the entries. Reply with the summary text only.`
