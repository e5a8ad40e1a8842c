// Package suggest builds the daily suggestion: a handful of independent
// rules each contribute at most one candidate, and one is picked at random.
// No weighting, no priority.
package suggest

import (
	"math/rand"
	"time"

	"github.com/kagamiapp/kagami/internal/almanac"
)

// Suggestion is one candidate suggestion with bilingual text.
type Suggestion struct {
	Type   string `json:"type"` // "weather" | "festival" | "season" | "walk" | "bloodtype" | "default"
	Text   string `json:"text"`
	TextJA string `json:"textJa"`
}

// weatherSuggestions keys the weather rule by tag.
var weatherSuggestions = map[string]Suggestion{
	"sunny": {Type: "weather",
		Text:   "The sun is out. Ten minutes outside counts double today.",
		TextJA: "晴れています。今日の外の10分は2倍の価値があります。"},
	"rainy": {Type: "weather",
		Text:   "Rain is good journaling weather. Write by the window.",
		TextJA: "雨は日記日和。窓のそばで書きましょう。"},
	"cloudy": {Type: "weather",
		Text:   "A soft grey day. Good light for a slow walk.",
		TextJA: "やわらかな曇りの日。ゆっくり歩くのにいい光です。"},
	"snowy": {Type: "weather",
		Text:   "Snow quiets the street. Notice three sounds you usually miss.",
		TextJA: "雪が街を静かにします。いつも聞き逃す音を3つ探してみて。"},
}

// seasonSuggestions keys the season rule by bucket.
var seasonSuggestions = map[almanac.Season]Suggestion{
	almanac.Spring: {Type: "season",
		Text:   "Spring asks for beginnings. Start one tiny new habit.",
		TextJA: "春は始まりの季節。小さな習慣をひとつ始めましょう。"},
	almanac.Summer: {Type: "season",
		Text:   "Summer evenings are free air conditioning. Take the late walk.",
		TextJA: "夏の夕方は天然のクーラー。遅めの散歩へどうぞ。"},
	almanac.Autumn: {Type: "season",
		Text:   "Autumn is for finishing. Close one open loop today.",
		TextJA: "秋は締めくくりの季節。やりかけをひとつ片づけましょう。"},
	almanac.Winter: {Type: "season",
		Text:   "Winter rewards warmth shared. Message someone you miss.",
		TextJA: "冬は分け合う温もりの季節。会いたい人に連絡を。"},
}

// walkSuggestions: exactly one of the three is chosen at random when the
// walked-today flag is set.
var walkSuggestions = []Suggestion{
	{Type: "walk",
		Text:   "You already walked today. Note one thing you saw on the way.",
		TextJA: "今日はもう歩きましたね。道で見たものをひとつ書き留めて。"},
	{Type: "walk",
		Text:   "Nice walk today. Stretch your calves before the evening.",
		TextJA: "今日はいい散歩でした。夜になる前にふくらはぎを伸ばして。"},
	{Type: "walk",
		Text:   "A walked day deserves a longer entry. Give it three sentences.",
		TextJA: "歩いた日は少し長めの日記を。3文だけ書いてみましょう。"},
}

// bloodTypeSuggestions keys the blood-type rule.
var bloodTypeSuggestions = map[almanac.BloodType]Suggestion{
	almanac.BloodA: {Type: "bloodtype",
		Text:   "Type A day: one tidy corner beats a whole tidy house.",
		TextJA: "A型の日。家全体より、隅っこひとつの片づけを。"},
	almanac.BloodB: {Type: "bloodtype",
		Text:   "Type B day: follow the tangent. It might be the point.",
		TextJA: "B型の日。寄り道こそが本筋かもしれません。"},
	almanac.BloodO: {Type: "bloodtype",
		Text:   "Type O day: invite someone along. You carry the mood.",
		TextJA: "O型の日。誰かを誘ってみて。場の空気はあなた次第。"},
	almanac.BloodAB: {Type: "bloodtype",
		Text:   "Type AB day: your both-sides view will settle an argument.",
		TextJA: "AB型の日。両面からの視点が議論を収めます。"},
}

// defaultSuggestion is returned when no rule matched.
var defaultSuggestion = Suggestion{
	Type:   "default",
	Text:   "Write one honest sentence about today. That is enough.",
	TextJA: "今日について正直な一文を。それで十分です。",
}

// Generator picks suggestions with an injected random source.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator. A nil rng gets a time-seeded source.
func New(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// candidates tests each rule independently and collects at most one
// candidate per rule: weather tag, festival date, season bucket, walking
// (one of three at random), and blood type when set.
func (g *Generator) candidates(date time.Time, bloodType almanac.BloodType, weather string, hasWalked bool) []Suggestion {
	var out []Suggestion

	if s, ok := weatherSuggestions[weather]; ok {
		out = append(out, s)
	}
	if f, ok := almanac.FestivalOn(date); ok {
		out = append(out, Suggestion{
			Type:   "festival",
			Text:   "Today is " + f.Name + ". Mark the day, even with something small.",
			TextJA: "今日は" + f.NameJA + "。小さなことでもお祝いを。",
		})
	}
	if s, ok := seasonSuggestions[almanac.SeasonOf(date)]; ok {
		out = append(out, s)
	}
	if hasWalked {
		out = append(out, walkSuggestions[g.rng.Intn(len(walkSuggestions))])
	}
	if s, ok := bloodTypeSuggestions[bloodType]; ok {
		out = append(out, s)
	}

	return out
}

// Suggest returns one suggestion chosen uniformly from the matched
// candidates, or the fixed default when nothing matched.
func (g *Generator) Suggest(date time.Time, bloodType almanac.BloodType, weather string, hasWalked bool) Suggestion {
	pool := g.candidates(date, bloodType, weather, hasWalked)
	if len(pool) == 0 {
		return defaultSuggestion
	}
	return pool[g.rng.Intn(len(pool))]
}

// SuggestN returns up to n matched candidates in shuffled order. Fewer than
// n are returned when fewer rules matched; zero matches yields the default
// alone; n <= 0 yields nothing.
func (g *Generator) SuggestN(date time.Time, bloodType almanac.BloodType, weather string, hasWalked bool, n int) []Suggestion {
	if n <= 0 {
		return nil
	}
	pool := g.candidates(date, bloodType, weather, hasWalked)
	if len(pool) == 0 {
		return []Suggestion{defaultSuggestion}
	}
	g.rng.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if n < len(pool) {
		pool = pool[:n]
	}
	return pool
}
