// internal/blob/local.go
package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Local stores objects as plain files under a root directory. Keys use
// forward slashes and map directly onto the directory tree, so
// "sessions/abc.json" lands at <root>/sessions/abc.json.
type Local struct {
	root string
}

// NewLocal creates a filesystem-backed store rooted at the given directory,
// creating it if necessary.
func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &Local{root: root}, nil
}

// path maps a key onto the directory tree, refusing any key whose cleaned
// path would land outside the root.
func (l *Local) path(key string) (string, error) {
	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("key %q escapes storage root", key)
	}
	return filepath.Join(l.root, rel), nil
}

// Put writes the object atomically: write to a temp file, then rename, so
// a concurrent reader never observes a partial object.
func (l *Local) Put(_ context.Context, key string, data []byte, _ string) error {
	target, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create object dir for %s: %w", key, err)
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp object %s: %w", key, err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp object %s: %w", key, err)
	}
	return nil
}

// Exists probes the object without reading it.
func (l *Local) Exists(_ context.Context, key string) (bool, error) {
	p, err := l.path(key)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat object %s: %w", key, err)
	}
	return true, nil
}

// GetBytes reads the full object content.
func (l *Local) GetBytes(_ context.Context, key string) ([]byte, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object %s: %w", key, ErrNotFound)
		}
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return data, nil
}

// GetLocalPath returns the real on-disk path; the local backend is
// file-addressable so no copy is made.
func (l *Local) GetLocalPath(_ context.Context, key string) (string, error) {
	p, err := l.path(key)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(p); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("object %s: %w", key, ErrNotFound)
		}
		return "", fmt.Errorf("stat object %s: %w", key, err)
	}
	return p, nil
}
