// cmd/studyscroll/wire.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/user/studyscroll/internal/blob"
	"github.com/user/studyscroll/internal/config"
	"github.com/user/studyscroll/internal/content"
	"github.com/user/studyscroll/internal/session"
	"github.com/user/studyscroll/internal/types"
	"github.com/user/studyscroll/pkg/llm"
	"github.com/user/studyscroll/pkg/llm/openai"
)

// newObjectStore picks the storage backend once, at startup. A configured
// GCS bucket wins; otherwise sessions live under the local data dir.
func newObjectStore(ctx context.Context, cfg *config.Config) (types.ObjectStore, error) {
	if cfg.UseGCS() {
		store, err := blob.NewGCS(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("connect to GCS bucket %q: %w", cfg.GCSBucket, err)
		}
		slog.Info("using GCS storage", "bucket", cfg.GCSBucket)
		return store, nil
	}

	store, err := blob.NewLocal(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("open local storage at %q: %w", cfg.DataDir, err)
	}
	slog.Info("using local storage", "data_dir", cfg.DataDir)
	return store, nil
}

// newSessionStore builds the session store with a staging directory for
// audio files awaiting commit.
func newSessionStore(ctx context.Context, cfg *config.Config) (*session.Store, string, error) {
	objects, err := newObjectStore(ctx, cfg)
	if err != nil {
		return nil, "", err
	}
	stagingDir := filepath.Join(cfg.DataDir, "staging")
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("create staging dir: %w", err)
	}
	return session.New(objects, stagingDir), stagingDir, nil
}

func newGenerator(cfg *config.Config) (*content.Generator, error) {
	provider := openai.New(&llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		JSONOnly:    true,
	})
	return content.NewGenerator(provider, cfg.LLM.Model, cfg.LLM.MaxContextTokens, cfg.LLM.OutputReserve)
}
