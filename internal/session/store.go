// internal/session/store.go

// Package session implements the identifier-keyed document/audio contract
// on top of an object store backend.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/user/studyscroll/internal/types"
)

// Store persists card documents and audio artifacts under keys
// sessions/<id>.json and sessions/<id>.mp3, regardless of backend.
//
// Sessions move through UNBORN -> DOCUMENT_ONLY -> DOCUMENT_AND_AUDIO.
// Audio synthesis failure leaves the session in DOCUMENT_ONLY; no failure
// marker is persisted.
type Store struct {
	objects    types.ObjectStore
	stagingDir string
}

// New creates a session store over the given backend. stagingDir is the
// local directory where audio is written before being committed via
// SaveAudio; it is created on demand by StagingPath callers writing to it.
func New(objects types.ObjectStore, stagingDir string) *Store {
	return &Store{objects: objects, stagingDir: stagingDir}
}

func documentKey(id types.SessionID) string {
	return fmt.Sprintf("sessions/%s.json", id)
}

func audioKey(id types.SessionID) string {
	return fmt.Sprintf("sessions/%s.mp3", id)
}

// encodeDocument serializes the document without HTML escaping so
// non-ASCII topic and card text is stored as UTF-8, not \u escapes.
func encodeDocument(doc *types.Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// Create mints a fresh identifier, persists the card document under it, and
// returns the identifier. If the write fails no identifier is returned and
// the session does not exist.
func (s *Store) Create(ctx context.Context, topic string, cards []types.Card) (types.SessionID, error) {
	id := types.NewSessionID()

	data, err := encodeDocument(&types.Document{Topic: topic, Cards: cards})
	if err != nil {
		return "", err
	}

	if err := s.objects.Put(ctx, documentKey(id), data, "application/json"); err != nil {
		return "", fmt.Errorf("create session %s: %w", id, err)
	}

	slog.Info("session created", "session_id", id, "topic", topic, "cards", len(cards))
	return id, nil
}

// Load reads and deserializes the document for id. An identifier that was
// never created is indistinguishable from one whose write failed: both
// surface as blob.ErrNotFound.
func (s *Store) Load(ctx context.Context, id types.SessionID) (*types.Document, error) {
	data, err := s.objects.GetBytes(ctx, documentKey(id))
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", id, err)
	}

	var doc types.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &doc, nil
}

// SaveAudio commits locally staged audio bytes into the store under the
// audio key for id. Sequencing after Create is the caller's obligation;
// the store does not enforce it.
func (s *Store) SaveAudio(ctx context.Context, id types.SessionID, localPath string) error {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return fmt.Errorf("read staged audio for session %s: %w", id, err)
	}
	if err := s.objects.Put(ctx, audioKey(id), data, "audio/mpeg"); err != nil {
		return fmt.Errorf("save audio for session %s: %w", id, err)
	}
	slog.Info("audio saved", "session_id", id, "bytes", len(data))
	return nil
}

// AudioExists reports whether audio has been committed for id. Absence is
// an ordinary "not ready yet" state, not an error.
func (s *Store) AudioExists(ctx context.Context, id types.SessionID) (bool, error) {
	return s.objects.Exists(ctx, audioKey(id))
}

// AudioPath resolves a servable local path to the audio bytes,
// materializing a fresh copy from remote backends. Safe to call
// concurrently for the same identifier; audio is immutable once written so
// independent copies cannot go stale.
func (s *Store) AudioPath(ctx context.Context, id types.SessionID) (string, error) {
	p, err := s.objects.GetLocalPath(ctx, audioKey(id))
	if err != nil {
		return "", fmt.Errorf("audio path for session %s: %w", id, err)
	}
	return p, nil
}

// StagingPath computes where the synthesizer should write audio before
// SaveAudio commits it. Pure path computation, no I/O: synthesis failures
// must never leave a partial artifact visible through AudioExists or
// AudioPath.
func (s *Store) StagingPath(id types.SessionID) string {
	return filepath.Join(s.stagingDir, string(id)+".mp3")
}

// Compile-time interface compliance check.
var _ types.SessionStore = (*Store)(nil)
