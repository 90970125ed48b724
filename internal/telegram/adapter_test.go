// internal/telegram/adapter_test.go
package telegram

import (
	"strings"
	"testing"

	"github.com/user/studyscroll/internal/feed"
	"github.com/user/studyscroll/internal/types"
)

func TestSplitMessage(t *testing.T) {
	short := "Hello world"
	parts := splitMessage(short)
	if len(parts) != 1 {
		t.Fatalf("expected 1 part, got %d", len(parts))
	}
	if parts[0] != short {
		t.Errorf("expected %q, got %q", short, parts[0])
	}
}

func TestSplitMessageLong(t *testing.T) {
	long := strings.Repeat("a", 5000)
	parts := splitMessage(long)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if len(parts[0]) != maxTelegramMessage {
		t.Errorf("expected first part length %d, got %d", maxTelegramMessage, len(parts[0]))
	}
}

func TestFeedReplyText(t *testing.T) {
	f := &feed.Feed{
		Topic: "Photosynthesis",
		Cards: []types.Card{
			{Kind: types.CardConcept},
			{Kind: types.CardQuiz},
			{Kind: types.CardSummary},
		},
	}
	text := feedReplyText(f)
	if !strings.Contains(text, `"Photosynthesis"`) {
		t.Errorf("reply missing topic: %q", text)
	}
	if !strings.Contains(text, "3 cards") {
		t.Errorf("reply missing card count: %q", text)
	}

	f.Cards = f.Cards[:1]
	if text := feedReplyText(f); !strings.Contains(text, "1 card.") {
		t.Errorf("singular form missing: %q", text)
	}
}

func TestAudioTitle(t *testing.T) {
	if got := audioTitle("Photosynthesis"); got != "Study: Photosynthesis" {
		t.Errorf("audioTitle = %q", got)
	}
}
