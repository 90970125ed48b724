// internal/sweeper/sweeper.go

// Package sweeper reclaims temporary audio files on a cron schedule:
// staged narration that was never committed, and scratch copies
// materialized from the object store.
package sweeper

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/user/studyscroll/internal/blob"
)

// Sweeper periodically deletes stale files from the staging directory and
// the system temp directory.
type Sweeper struct {
	stagingDir string
	ttl        time.Duration
	cron       *cron.Cron
}

// New creates a sweeper for the given staging directory. Files older than
// ttl are removed on each pass.
func New(stagingDir string, ttl time.Duration) *Sweeper {
	return &Sweeper{
		stagingDir: stagingDir,
		ttl:        ttl,
		cron:       cron.New(),
	}
}

// Start registers the sweep under the given schedule ("@every 1h" or a
// standard cron expression) and starts the ticker.
func (s *Sweeper) Start(schedule string) error {
	if _, err := s.cron.AddFunc(schedule, s.Sweep); err != nil {
		return err
	}
	s.cron.Start()
	slog.Info("sweeper started", "schedule", schedule, "ttl", s.ttl)
	return nil
}

// Stop stops the cron ticker.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep runs one cleanup pass immediately.
func (s *Sweeper) Sweep() {
	cutoff := time.Now().Add(-s.ttl)
	removed := s.sweepDir(s.stagingDir, func(string) bool { return true }, cutoff)
	removed += s.sweepDir(os.TempDir(), func(name string) bool {
		return strings.HasPrefix(name, blob.ScratchPrefix)
	}, cutoff)
	if removed > 0 {
		slog.Info("swept stale audio files", "removed", removed)
	}
}

func (s *Sweeper) sweepDir(dir string, match func(name string) bool, cutoff time.Time) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("sweep read dir failed", "dir", dir, "error", err)
		}
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !match(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := os.Remove(path); err != nil {
			slog.Warn("sweep remove failed", "path", path, "error", err)
			continue
		}
		removed++
	}
	return removed
}
