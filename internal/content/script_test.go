// internal/content/script_test.go
package content

import (
	"strings"
	"testing"

	"github.com/user/studyscroll/internal/types"
)

func TestScript(t *testing.T) {
	cards := []types.Card{
		{Kind: types.CardConcept, Title: "The basics", Body: "Plants eat light."},
		{Kind: types.CardQuiz, Question: "What gas goes in?", Answer: "Carbon dioxide."},
		{Kind: types.CardSummary, Title: "Recap", Body: "Light in, sugar out."},
	}

	script := Script("Photosynthesis", cards)

	if !strings.HasPrefix(script, "Let's study Photosynthesis.") {
		t.Errorf("missing intro line: %q", script)
	}
	if !strings.Contains(script, "The basics. Plants eat light.") {
		t.Errorf("missing concept narration: %q", script)
	}
	if !strings.Contains(script, "Quiz time. What gas goes in? ... Think about it ... The answer is: Carbon dioxide.") {
		t.Errorf("missing quiz narration: %q", script)
	}
	if !strings.Contains(script, "Summary. Recap. Light in, sugar out.") {
		t.Errorf("missing summary narration: %q", script)
	}

	// Narration order follows card order.
	concept := strings.Index(script, "The basics")
	quiz := strings.Index(script, "Quiz time")
	summary := strings.Index(script, "Summary.")
	if !(concept < quiz && quiz < summary) {
		t.Errorf("narration order wrong: concept=%d quiz=%d summary=%d", concept, quiz, summary)
	}
}

func TestScriptNoCards(t *testing.T) {
	script := Script("Nothing", nil)
	if !strings.Contains(script, "Let's study Nothing.") {
		t.Errorf("expected intro even with no cards: %q", script)
	}
}
