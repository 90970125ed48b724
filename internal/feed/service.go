// internal/feed/service.go

// Package feed orchestrates the study-feed lifecycle: generate cards,
// persist the session, then produce narration audio in the background.
package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/user/studyscroll/internal/content"
	"github.com/user/studyscroll/internal/jobs"
	"github.com/user/studyscroll/internal/types"
)

// Feed is the immediate result of a topic submission: the persisted cards
// and the viewer link. Audio follows later, or never.
type Feed struct {
	ID    types.SessionID
	Topic string
	Cards []types.Card
	URL   string
}

// Service wires the content pipeline, session store, and synthesizer
// together. It owns the sequencing rule that the document must exist
// before audio generation starts.
type Service struct {
	generator types.CardGenerator
	sessions  types.SessionStore
	synth     types.Synthesizer
	runner    *jobs.Runner
	baseURL   string
}

// NewService creates the orchestrator. baseURL is the public viewer URL
// shared with users.
func NewService(generator types.CardGenerator, sessions types.SessionStore, synth types.Synthesizer, runner *jobs.Runner, baseURL string) *Service {
	return &Service{
		generator: generator,
		sessions:  sessions,
		synth:     synth,
		runner:    runner,
		baseURL:   baseURL,
	}
}

// Create generates cards for the topic and persists them under a fresh
// session. Any failure aborts the whole operation; no session exists
// afterward.
func (s *Service) Create(ctx context.Context, topic string) (*Feed, error) {
	cards, err := s.generator.Cards(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("generate feed for %q: %w", topic, err)
	}

	id, err := s.sessions.Create(ctx, topic, cards)
	if err != nil {
		return nil, fmt.Errorf("persist feed for %q: %w", topic, err)
	}

	return &Feed{
		ID:    id,
		Topic: topic,
		Cards: cards,
		URL:   s.ViewerURL(id),
	}, nil
}

// ViewerURL builds the shareable web viewer link for a session.
func (s *Service) ViewerURL(id types.SessionID) string {
	return fmt.Sprintf("%s?session=%s", s.baseURL, id)
}

// QueueAudio schedules background narration synthesis for an already
// created feed. Audio is staged locally, then committed via SaveAudio so a
// synthesis failure never leaves a partial artifact visible. Failure is
// logged and reported through onDone; the session stays valid without
// audio. onDone may be nil.
func (s *Service) QueueAudio(feed *Feed, onDone func(localPath string, err error)) {
	job := jobs.Job{
		Name: "audio:" + string(feed.ID),
		Fn: func(ctx context.Context) error {
			script := content.Script(feed.Topic, feed.Cards)
			staged := s.sessions.StagingPath(feed.ID)

			if err := s.synth.Synthesize(ctx, script, staged); err != nil {
				if onDone != nil {
					onDone("", err)
				}
				return fmt.Errorf("synthesize audio for session %s: %w", feed.ID, err)
			}
			if err := s.sessions.SaveAudio(ctx, feed.ID, staged); err != nil {
				if onDone != nil {
					onDone("", err)
				}
				return err
			}

			if onDone != nil {
				onDone(staged, nil)
			}
			return nil
		},
	}

	if err := s.runner.Submit(job); err != nil {
		slog.Error("audio job rejected", "session_id", feed.ID, "error", err)
		if onDone != nil {
			onDone("", err)
		}
	}
}
