package keyword

// Theme IDs used across the app. MoodPositive and MoodNegative feed the
// weekly review's mood label; the rest are timeline themes.
const (
	ThemeWork         = "work"
	ThemeFamily       = "family"
	ThemeHealth       = "health"
	ThemeGratitude    = "gratitude"
	ThemeNature       = "nature"
	ThemeFood         = "food"
	ThemeSleep        = "sleep"
	ThemeStress       = "stress"
	ThemeWalking      = "walking"
	ThemeMoodPositive = "mood_positive"
	ThemeMoodNegative = "mood_negative"
)

// DefaultThemes is the theme set the weekly review compiles its dictionary
// from.
func DefaultThemes() []RegisteredTheme {
	return []RegisteredTheme{
		{ID: ThemeWork, Label: "Work", LabelJA: "仕事", Keywords: []string{
			"work", "meeting", "deadline", "office", "project", "boss", "colleague", "overtime",
		}},
		{ID: ThemeFamily, Label: "Family", LabelJA: "家族", Keywords: []string{
			"family", "mother", "father", "sister", "brother", "kids", "parents", "grandma", "grandpa",
		}},
		{ID: ThemeHealth, Label: "Health", LabelJA: "健康", Keywords: []string{
			"health", "doctor", "headache", "tired", "energy", "exercise", "stretch", "medicine",
		}},
		{ID: ThemeGratitude, Label: "Gratitude", LabelJA: "感謝", Keywords: []string{
			"grateful", "thankful", "thanks", "appreciate", "lucky", "blessed",
		}},
		{ID: ThemeNature, Label: "Nature", LabelJA: "自然", Keywords: []string{
			"rain", "sun", "sunny", "snow", "wind", "blossom", "tree", "sky", "river", "park", "garden",
		}},
		{ID: ThemeFood, Label: "Food", LabelJA: "食事", Keywords: []string{
			"breakfast", "lunch", "dinner", "coffee", "tea", "soup", "cooking", "ramen", "bento",
		}},
		{ID: ThemeSleep, Label: "Sleep", LabelJA: "睡眠", Keywords: []string{
			"sleep", "slept", "nap", "dream", "insomnia", "bedtime", "woke",
		}},
		{ID: ThemeStress, Label: "Stress", LabelJA: "ストレス", Keywords: []string{
			"stress", "stressed", "anxious", "worry", "worried", "overwhelmed", "pressure",
		}},
		{ID: ThemeWalking, Label: "Walking", LabelJA: "散歩", Keywords: []string{
			"walk", "walked", "walking", "stroll", "steps", "shrine",
		}},
		{ID: ThemeMoodPositive, Label: "Positive", LabelJA: "前向き", Keywords: []string{
			"happy", "calm", "good", "nice", "laughed", "glad", "peaceful", "fun", "enjoyed",
		}},
		{ID: ThemeMoodNegative, Label: "Negative", LabelJA: "後ろ向き", Keywords: []string{
			"sad", "angry", "bad", "upset", "lonely", "frustrated", "exhausted", "gloomy",
		}},
	}
}
