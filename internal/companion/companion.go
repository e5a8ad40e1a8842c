package companion

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kagamiapp/kagami/internal/store"
)

// historyTokenBudget caps how much conversation history rides along with
// each completion request.
const historyTokenBudget = 1500

// fallbackReplies are returned whenever the remote call fails or no API
// key is configured. The user never sees an error.
var fallbackReplies = []string{
	"I'm here. Tell me a little more about how today felt.",
	"Mm, I hear you. What was the best small moment of your day?",
	"That sounds like a full day. Want to write a line about it together?",
	"I'm listening. Sometimes saying it out loud is already half the entry.",
	"Thank you for telling me. Should we note that down before it fades?",
}

const companionSystemPrompt = `You are Kagami, a gentle journaling companion. You help the user reflect on their day in one or two short, warm sentences. You never give medical advice and never judge. Reply in the user's language.`

// Companion wraps an LLM client with the conversation store and the canned
// fallback path.
type Companion struct {
	llm   LLMClient // nil means fallback-only
	store *store.Store
	rng   *rand.Rand
	log   *zap.Logger
}

// New creates a Companion. llm may be nil; rng and log get defaults.
func New(llm LLMClient, s *store.Store, rng *rand.Rand, log *zap.Logger) *Companion {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Companion{llm: llm, store: s, rng: rng, log: log}
}

// Reply records the user's message, obtains a companion reply (remote call
// or canned fallback), records it, and returns it. The returned error only
// reflects store failures; remote failures degrade to the fallback.
func (c *Companion) Reply(ctx context.Context, userText string) (string, error) {
	if _, err := c.store.AddChatMessage("user", userText); err != nil {
		return "", fmt.Errorf("companion: failed to record message: %w", err)
	}

	reply := c.complete(ctx, userText)

	if _, err := c.store.AddChatMessage("assistant", reply); err != nil {
		return "", fmt.Errorf("companion: failed to record reply: %w", err)
	}
	return reply, nil
}

// complete performs the single best-effort remote call.
func (c *Companion) complete(ctx context.Context, userText string) string {
	if c.llm == nil {
		return c.fallback()
	}

	history := trimHistory(c.store.ChatMessages(), historyTokenBudget)

	var prompt strings.Builder
	if len(history) > 0 {
		prompt.WriteString("Conversation so far:\n")
		for _, m := range history {
			prompt.WriteString(m.Role)
			prompt.WriteString(": ")
			prompt.WriteString(m.Text)
			prompt.WriteString("\n")
		}
		prompt.WriteString("\n")
	}
	prompt.WriteString("User: ")
	prompt.WriteString(userText)

	reply, err := c.llm.Complete(ctx, companionSystemPrompt, prompt.String())
	if err != nil || strings.TrimSpace(reply) == "" {
		c.log.Warn("companion: completion failed, using fallback", zap.Error(err))
		return c.fallback()
	}
	return strings.TrimSpace(reply)
}

func (c *Companion) fallback() string {
	return fallbackReplies[c.rng.Intn(len(fallbackReplies))]
}
