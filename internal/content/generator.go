// internal/content/generator.go

// Package content turns a free-text topic into structured study cards and
// flattens cards into a narration script. It is a stateless transform with
// no storage knowledge.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/user/studyscroll/internal/types"
	"github.com/user/studyscroll/pkg/llm"
)

const systemPrompt = `You are a brilliant tutor who turns any topic into an engaging, scroll-friendly study feed.

Generate a JSON array of study cards. Each card should be short, punchy, and digestible — like a smart social feed, not a textbook.

Card types and their schemas:
- concept:   { "type": "concept",   "title": str, "body": str }
- analogy:   { "type": "analogy",   "title": str, "body": str }
- example:   { "type": "example",   "title": str, "body": str }
- deep_dive: { "type": "deep_dive", "title": str, "body": str }
- quiz:      { "type": "quiz",      "question": str, "answer": str }
- summary:   { "type": "summary",   "title": str, "body": str }

Rules:
- Generate 12-18 cards per topic
- Each body/answer must be under 120 words
- Start with a "concept" card that defines the topic clearly
- Sprinkle in 2-3 "quiz" cards throughout (not all at the end)
- End with a "summary" card
- Write like you're explaining to a curious 20-year-old, not a professor
- Use concrete language, no fluff

Return ONLY valid JSON array. No markdown, no explanation, no code fences.`

// MinTopicLength is the shortest topic worth generating a feed for.
const MinTopicLength = 3

// Generator produces study cards via an LLM provider, guarding the prompt
// against the model's context window.
type Generator struct {
	provider  llm.Provider
	tokenizer *tiktoken.Tiktoken
	maxInput  int
}

// NewGenerator creates a Generator. model selects the tokenizer used for
// the input budget check; maxContextTokens is the model's context window
// and reserve is held back for the response.
func NewGenerator(provider llm.Provider, model string, maxContextTokens, reserve int) (*Generator, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		// Fallback to cl100k_base for unknown models
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, fmt.Errorf("get tokenizer: %w", err)
		}
	}
	return &Generator{
		provider:  provider,
		tokenizer: enc,
		maxInput:  maxContextTokens - reserve,
	}, nil
}

func (g *Generator) countTokens(text string) int {
	return len(g.tokenizer.Encode(text, nil, nil))
}

// Cards asks the model for a study feed and parses the result. Malformed
// model output is returned as an error; the caller treats it as a
// recoverable, retryable failure.
func (g *Generator) Cards(ctx context.Context, topic string) ([]types.Card, error) {
	topic = strings.TrimSpace(topic)
	if len(topic) < MinTopicLength {
		return nil, fmt.Errorf("topic too short: %q", topic)
	}

	user := "Create a study feed for this topic: " + topic
	if used := g.countTokens(systemPrompt) + g.countTokens(user); used > g.maxInput {
		return nil, fmt.Errorf("topic exceeds input budget: %d tokens > %d", used, g.maxInput)
	}

	resp, err := g.provider.Complete(ctx, []llm.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user},
	})
	if err != nil {
		return nil, fmt.Errorf("generate cards: %w", err)
	}

	cards, err := parseCards(resp.Content)
	if err != nil {
		return nil, err
	}

	slog.Info("cards generated", "topic", topic, "cards", len(cards), "tokens", resp.Usage.TotalTokens)
	return cards, nil
}

// parseCards strips accidental markdown fences and unmarshals the card
// array, validating every card.
func parseCards(raw string) ([]types.Card, error) {
	raw = stripFences(strings.TrimSpace(raw))

	var cards []types.Card
	if err := json.Unmarshal([]byte(raw), &cards); err != nil {
		return nil, fmt.Errorf("model returned malformed card JSON: %w", err)
	}
	if len(cards) == 0 {
		return nil, fmt.Errorf("model returned no cards")
	}
	for i := range cards {
		if err := cards[i].Validate(); err != nil {
			return nil, fmt.Errorf("card %d: %w", i, err)
		}
	}
	return cards, nil
}

// stripFences removes a wrapping markdown code fence, with or without a
// "json" language tag. Some models add one despite instructions.
func stripFences(raw string) string {
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimPrefix(raw, "json")
	if i := strings.LastIndex(raw, "```"); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}

// Compile-time interface compliance check.
var _ types.CardGenerator = (*Generator)(nil)
