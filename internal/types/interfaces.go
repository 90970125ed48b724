// internal/types/interfaces.go
package types

import "context"

// ObjectStore hides the storage backend behind four operations. Exactly one
// backend (local filesystem or GCS bucket) is active for the whole process,
// chosen at startup; the consumers never know which.
type ObjectStore interface {
	// Put writes content under key, overwriting if present.
	Put(ctx context.Context, key string, data []byte, contentType string) error

	// Exists is a cheap existence probe that never fetches content.
	Exists(ctx context.Context, key string) (bool, error)

	// GetBytes reads the full content under key. Returns an error wrapping
	// blob.ErrNotFound when the key does not exist.
	GetBytes(ctx context.Context, key string) ([]byte, error)

	// GetLocalPath resolves key to a readable local file path. Backends
	// that are not file-addressable materialize the content into a
	// temporary file; the caller owns that file's lifetime.
	GetLocalPath(ctx context.Context, key string) (string, error)
}

// SessionStore owns the identifier-keyed document/audio contract.
type SessionStore interface {
	Create(ctx context.Context, topic string, cards []Card) (SessionID, error)
	Load(ctx context.Context, id SessionID) (*Document, error)
	SaveAudio(ctx context.Context, id SessionID, localPath string) error
	AudioExists(ctx context.Context, id SessionID) (bool, error)
	AudioPath(ctx context.Context, id SessionID) (string, error)

	// StagingPath computes (no I/O) where synthesized audio should be
	// written before SaveAudio commits it into the store.
	StagingPath(id SessionID) string
}

// CardGenerator produces structured study cards from a free-text topic.
type CardGenerator interface {
	Cards(ctx context.Context, topic string) ([]Card, error)
}

// Synthesizer turns a narration script into an MP3 file at outPath.
// Implementations block; callers run them off the request path.
type Synthesizer interface {
	Synthesize(ctx context.Context, script, outPath string) error
}
