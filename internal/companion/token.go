package companion

import "github.com/kagamiapp/kagami/internal/store"

// EstimateTokens estimates token count using the ~4 chars/token heuristic.
// Good enough for history-budget trimming. Not billing-accurate.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	// Round up: (len + 3) / 4
	return (len(text) + 3) / 4
}

// trimHistory keeps the newest messages whose combined estimate fits the
// budget, preserving chronological order.
func trimHistory(messages []store.ChatMessage, budget int) []store.ChatMessage {
	total := 0
	start := len(messages)
	for i := len(messages) - 1; i >= 0; i-- {
		cost := EstimateTokens(messages[i].Text)
		if total+cost > budget {
			break
		}
		total += cost
		start = i
	}
	return messages[start:]
}
