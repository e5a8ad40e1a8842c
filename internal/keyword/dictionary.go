// Package keyword provides a runtime theme dictionary using Aho-Corasick.
// A single automaton built from all keyword surface forms serves both exact
// lookup and linear-time scanning of journal text.
package keyword

import (
	"strings"
	"unicode"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// ============================================================================
// String Utilities
// ============================================================================

// NormalizeRaw cleans and lowercases text for matching.
func NormalizeRaw(s string) string {
	var out strings.Builder
	out.Grow(len(s))

	for _, ch := range s {
		c := unicode.ToLower(ch)

		// Curly apostrophe -> straight
		if c == '’' {
			out.WriteRune('\'')
			continue
		}

		if unicode.IsLetter(c) || unicode.IsDigit(c) || c == '\'' {
			out.WriteRune(c)
		} else {
			out.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(out.String()), " ")
}

// StopWords to filter in tokenization
var StopWords = map[string]bool{
	"the": true, "of": true, "and": true, "a": true, "an": true,
	"to": true, "in": true, "on": true, "for": true, "at": true, "by": true,
	"is": true, "it": true, "as": true, "be": true, "was": true,
	"are": true, "been": true, "with": true, "from": true, "into": true,
	"that": true, "this": true, "has": true, "have": true, "had": true,
	"i": true, "my": true, "me": true, "we": true, "our": true,
	"today": true, "but": true, "so": true, "just": true, "really": true,
}

// TokenizeNorm splits and normalizes, filtering stop words.
func TokenizeNorm(text string) []string {
	normalized := NormalizeRaw(text)
	words := strings.Fields(normalized)

	result := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) > 0 && !StopWords[w] {
			result = append(result, w)
		}
	}
	return result
}

// ============================================================================
// Themes
// ============================================================================

// ThemeInfo holds theme metadata.
type ThemeInfo struct {
	ID      string
	Label   string
	LabelJA string
}

// RegisteredTheme is input for dictionary compilation.
type RegisteredTheme struct {
	ID       string
	Label    string
	LabelJA  string
	Keywords []string
}

// ============================================================================
// Dictionary
// ============================================================================

// Dictionary maps keyword surface forms to themes via one AC automaton.
type Dictionary struct {
	ac ahocorasick.AhoCorasick

	// Pattern index -> theme IDs (multiple themes may share a keyword)
	patternToIDs [][]string

	// Normalized pattern -> pattern index
	patternIndex map[string]int

	// Theme ID -> ThemeInfo
	idToInfo map[string]*ThemeInfo

	// All patterns in order (for AC builder)
	patterns []string
}

// Compile builds a Dictionary from registered themes.
func Compile(themes []RegisteredTheme) *Dictionary {
	d := &Dictionary{
		patternToIDs: [][]string{},
		patternIndex: make(map[string]int),
		idToInfo:     make(map[string]*ThemeInfo),
		patterns:     []string{},
	}

	for _, t := range themes {
		d.idToInfo[t.ID] = &ThemeInfo{ID: t.ID, Label: t.Label, LabelJA: t.LabelJA}

		for _, kw := range t.Keywords {
			key := NormalizeRaw(kw)
			if key == "" {
				continue
			}
			if idx, exists := d.patternIndex[key]; exists {
				d.patternToIDs[idx] = appendUnique(d.patternToIDs[idx], t.ID)
			} else {
				idx := len(d.patterns)
				d.patterns = append(d.patterns, key)
				d.patternIndex[key] = idx
				d.patternToIDs = append(d.patternToIDs, []string{t.ID})
			}
		}
	}

	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: true,
		MatchOnlyWholeWords:  true,
		MatchKind:            ahocorasick.LeftMostLongestMatch,
	})
	d.ac = builder.Build(d.patterns)

	return d
}

// Info retrieves theme info by ID.
func (d *Dictionary) Info(id string) *ThemeInfo {
	return d.idToInfo[id]
}

// Match represents a detected keyword in text.
type Match struct {
	Start       int    // Byte offset start
	End         int    // Byte offset end
	MatchedText string // Original text slice
	ThemeIDs    []string
}

// Scan finds all keyword mentions in text (O(n) via AC).
func (d *Dictionary) Scan(text string) []Match {
	normalized := strings.ToLower(text)

	matches := d.ac.FindAll(normalized)
	result := make([]Match, 0, len(matches))

	for _, m := range matches {
		result = append(result, Match{
			Start:       m.Start(),
			End:         m.End(),
			MatchedText: text[m.Start():m.End()],
			ThemeIDs:    d.patternToIDs[m.Pattern()],
		})
	}

	return result
}

// CountThemes scans every text and tallies hits per theme ID.
func (d *Dictionary) CountThemes(texts []string) map[string]int {
	counts := make(map[string]int)
	for _, text := range texts {
		for _, m := range d.Scan(text) {
			for _, id := range m.ThemeIDs {
				counts[id]++
			}
		}
	}
	return counts
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
