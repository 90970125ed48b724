// internal/types/models.go
package types

import "fmt"

// CardKind tags one study card variant.
type CardKind string

const (
	CardConcept  CardKind = "concept"
	CardAnalogy  CardKind = "analogy"
	CardExample  CardKind = "example"
	CardDeepDive CardKind = "deep_dive"
	CardQuiz     CardKind = "quiz"
	CardSummary  CardKind = "summary"
)

// Card is one unit of study content. All kinds except quiz carry
// Title/Body; quiz carries Question/Answer. The flat struct with omitempty
// matches the wire shape produced by the generator and stored on disk.
type Card struct {
	Kind     CardKind `json:"type"`
	Title    string   `json:"title,omitempty"`
	Body     string   `json:"body,omitempty"`
	Question string   `json:"question,omitempty"`
	Answer   string   `json:"answer,omitempty"`
}

// Validate checks that the card carries the fields its kind requires.
func (c *Card) Validate() error {
	switch c.Kind {
	case CardConcept, CardAnalogy, CardExample, CardDeepDive, CardSummary:
		if c.Title == "" || c.Body == "" {
			return fmt.Errorf("%s card requires title and body", c.Kind)
		}
	case CardQuiz:
		if c.Question == "" || c.Answer == "" {
			return fmt.Errorf("quiz card requires question and answer")
		}
	default:
		return fmt.Errorf("unknown card type: %q", c.Kind)
	}
	return nil
}

// Document is the canonical card document stored per session. Card order
// is significant: it defines the feed and narration order and is preserved
// verbatim from generation through storage through retrieval.
type Document struct {
	Topic string `json:"topic"`
	Cards []Card `json:"cards"`
}
