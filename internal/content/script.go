// internal/content/script.go
package content

import (
	"fmt"
	"strings"

	"github.com/user/studyscroll/internal/types"
)

// Script flattens a card document into a natural spoken narration for
// text-to-speech, preserving card order.
func Script(topic string, cards []types.Card) string {
	lines := []string{fmt.Sprintf("Let's study %s.\n", topic)}

	for _, card := range cards {
		switch card.Kind {
		case types.CardQuiz:
			lines = append(lines, fmt.Sprintf(
				"Quiz time. %s ... Think about it ... The answer is: %s",
				card.Question, card.Answer))
		case types.CardSummary:
			lines = append(lines, fmt.Sprintf("Summary. %s. %s", card.Title, card.Body))
		default:
			lines = append(lines, fmt.Sprintf("%s. %s", card.Title, card.Body))
		}
	}

	return strings.Join(lines, "\n\n")
}
