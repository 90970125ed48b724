// internal/api/server.go

// Package api exposes the HTTP surface: session JSON, audio streaming and
// readiness, health, the bot webhook, and the static web viewer.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/user/studyscroll/internal/blob"
	"github.com/user/studyscroll/internal/jobs"
	"github.com/user/studyscroll/internal/types"
)

// maxWebhookBody bounds how much of an inbound gateway payload is read.
const maxWebhookBody = 1 << 20

// UpdateHandler processes one raw gateway update payload. It runs on the
// jobs runner, never on the request goroutine, so the webhook can respond
// sub-second regardless of downstream latency.
type UpdateHandler func(payload []byte)

// Server is the HTTP handler for the viewer API and the bot webhook.
type Server struct {
	sessions types.SessionStore
	runner   *jobs.Runner
	updates  UpdateHandler
	dedup    *Dedup
	mux      *http.ServeMux
}

// NewServer creates a Server. updates may be nil when the bot runs in
// long-polling mode; webDir is the static viewer directory, empty for a
// placeholder page. dedupWindow bounds the webhook recency set.
func NewServer(sessions types.SessionStore, runner *jobs.Runner, updates UpdateHandler, webDir string, dedupWindow int) *Server {
	s := &Server{
		sessions: sessions,
		runner:   runner,
		updates:  updates,
		dedup:    NewDedup(dedupWindow),
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("POST /webhook", s.handleWebhook)
	s.mux.HandleFunc("GET /api/session/{id}", s.handleSession)
	s.mux.HandleFunc("GET /api/session/{id}/audio", s.handleAudio)
	s.mux.HandleFunc("GET /api/session/{id}/audio/status", s.handleAudioStatus)
	if webDir != "" {
		s.mux.Handle("GET /", http.FileServer(http.Dir(webDir)))
	} else {
		s.mux.HandleFunc("GET /", s.handleIndex)
	}
	return s
}

// ServeHTTP delegates to the internal mux, implementing http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// sessionID extracts and validates the {id} path value. Anything that is
// not a well-formed identifier gets the same 404 as an unknown session,
// and never reaches a storage key.
func sessionID(w http.ResponseWriter, r *http.Request) (types.SessionID, bool) {
	id := types.SessionID(r.PathValue("id"))
	if !id.Valid() {
		http.Error(w, `{"error":"session not found"}`, http.StatusNotFound)
		return "", false
	}
	return id, true
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	doc, err := s.sessions.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			http.Error(w, `{"error":"session not found"}`, http.StatusNotFound)
			return
		}
		slog.Error("load session failed", "session_id", id, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, doc)
}

func (s *Server) handleAudio(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	path, err := s.sessions.AudioPath(r.Context(), id)
	if err != nil {
		if errors.Is(err, blob.ErrNotFound) {
			http.Error(w, `{"error":"audio not generated yet"}`, http.StatusNotFound)
			return
		}
		slog.Error("resolve audio failed", "session_id", id, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="study_%s.mp3"`, id))
	http.ServeFile(w, r, path)
}

func (s *Server) handleAudioStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionID(w, r)
	if !ok {
		return
	}

	ready, err := s.sessions.AudioExists(r.Context(), id)
	if err != nil {
		slog.Error("audio status failed", "session_id", id, "error", err)
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]bool{"ready": ready})
}

// webhookUpdate extracts only the gateway's update identifier; the full
// payload is handed to the bot adapter untouched.
type webhookUpdate struct {
	UpdateID int64 `json:"update_id"`
}

// handleWebhook acknowledges the gateway immediately and dispatches
// processing through the jobs runner. Responses are 200 even on bad
// payloads so the gateway does not retry-storm a parse failure.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		slog.Error("webhook read failed", "error", err)
		writeJSON(w, map[string]any{"ok": false, "error": "read failed"})
		return
	}

	var update webhookUpdate
	if err := json.Unmarshal(payload, &update); err != nil {
		slog.Error("webhook payload invalid", "error", err)
		writeJSON(w, map[string]any{"ok": false, "error": "invalid payload"})
		return
	}

	if s.dedup.Seen(update.UpdateID) {
		slog.Info("skipping duplicate update", "update_id", update.UpdateID)
		writeJSON(w, map[string]any{"ok": true})
		return
	}

	if s.updates != nil {
		err := s.runner.Submit(jobs.Job{
			Name: fmt.Sprintf("update:%d", update.UpdateID),
			Fn: func(_ context.Context) error {
				s.updates(payload)
				return nil
			},
		})
		if err != nil {
			// Not recorded: a gateway retry of this update must not be
			// treated as a duplicate of work that was never queued.
			slog.Error("webhook dispatch failed", "update_id", update.UpdateID, "error", err)
			writeJSON(w, map[string]any{"ok": false, "error": "busy"})
			return
		}
		s.dedup.Record(update.UpdateID)
	}

	writeJSON(w, map[string]any{"ok": true})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte("<html><body>StudyScroll viewer not bundled</body></html>"))
}

// writeJSON encodes v without HTML escaping so card text passes through
// byte-for-byte.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}
