//go:build integration

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/user/studyscroll/internal/api"
	"github.com/user/studyscroll/internal/blob"
	"github.com/user/studyscroll/internal/feed"
	"github.com/user/studyscroll/internal/jobs"
	"github.com/user/studyscroll/internal/session"
	"github.com/user/studyscroll/internal/types"
)

type fixedGenerator struct {
	cards []types.Card
}

func (g *fixedGenerator) Cards(ctx context.Context, topic string) ([]types.Card, error) {
	return g.cards, nil
}

type fileSynth struct{}

func (fileSynth) Synthesize(ctx context.Context, script, outPath string) error {
	return os.WriteFile(outPath, []byte("MP3:"+script), 0o644)
}

// TestEndToEnd walks a topic through the full pipeline: card generation,
// session persistence, background audio synthesis, and retrieval over HTTP.
func TestEndToEnd(t *testing.T) {
	ctx := context.Background()

	sessions := session.New(blob.NewMemory(), t.TempDir())
	runner := jobs.NewRunner(2, 16)
	runner.Start(ctx)
	defer runner.Stop()

	generator := &fixedGenerator{cards: []types.Card{
		{Kind: types.CardConcept, Title: "What it is", Body: "Plants turn light into sugar."},
		{Kind: types.CardQuiz, Question: "What gas do plants absorb?", Answer: "Carbon dioxide."},
		{Kind: types.CardSummary, Title: "Recap", Body: "Light in, sugar out."},
	}}

	feeds := feed.NewService(generator, sessions, fileSynth{}, runner, "https://study.example.com/")

	f, err := feeds.Create(ctx, "Photosynthesis")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(f.URL, "session="+string(f.ID)) {
		t.Errorf("viewer URL missing session id: %s", f.URL)
	}

	srv := httptest.NewServer(api.NewServer(sessions, runner, nil, "", 1000))
	defer srv.Close()

	// Document is immediately readable.
	resp, err := http.Get(srv.URL + "/api/session/" + string(f.ID))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("session fetch returned %d", resp.StatusCode)
	}
	var doc types.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		t.Fatal(err)
	}
	if doc.Topic != "Photosynthesis" || len(doc.Cards) != 3 {
		t.Fatalf("unexpected document: %+v", doc)
	}

	// Audio arrives in the background.
	done := make(chan error, 1)
	feeds.QueueAudio(f, func(localPath string, err error) { done <- err })

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("audio never completed")
	}

	resp, err = http.Get(srv.URL + "/api/session/" + string(f.ID) + "/audio/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var status map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatal(err)
	}
	if !status["ready"] {
		t.Fatal("audio not ready after synthesis completed")
	}

	resp, err = http.Get(srv.URL + "/api/session/" + string(f.ID) + "/audio")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("audio fetch returned %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "audio/mpeg" {
		t.Errorf("Content-Type = %q", ct)
	}
}
