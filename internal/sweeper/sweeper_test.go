// internal/sweeper/sweeper_test.go
package sweeper

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeAged(t *testing.T, dir, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("mp3"), 0o644); err != nil {
		t.Fatal(err)
	}
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(path, stamp, stamp); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSweepRemovesStaleKeepsFresh(t *testing.T) {
	dir := t.TempDir()
	stale := writeAged(t, dir, "abc123.mp3", 2*time.Hour)
	fresh := writeAged(t, dir, "def456.mp3", time.Minute)

	s := New(dir, time.Hour)
	s.Sweep()

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale staging file survived sweep")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh staging file removed: %v", err)
	}
}

func TestSweepIgnoresSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	stamp := time.Now().Add(-2 * time.Hour)
	if err := os.Chtimes(sub, stamp, stamp); err != nil {
		t.Fatal(err)
	}

	s := New(dir, time.Hour)
	s.Sweep()

	if _, err := os.Stat(sub); err != nil {
		t.Errorf("subdirectory removed: %v", err)
	}
}

func TestSweepMissingDir(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "does-not-exist"), time.Hour)
	s.Sweep() // must not panic
}

func TestSweeperCronLifecycle(t *testing.T) {
	dir := t.TempDir()
	writeAged(t, dir, "old.mp3", 2*time.Hour)

	s := New(dir, time.Hour)
	if err := s.Start("@every 100ms"); err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for {
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("cron sweep never removed stale file")
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := New(t.TempDir(), time.Hour)
	if err := s.Start("not a schedule"); err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}
