// Package blob provides the object storage backends behind the session
// store: local filesystem, Google Cloud Storage, and an in-memory store
// for tests.
package blob

import (
	"errors"

	"github.com/user/studyscroll/internal/types"
)

// ErrNotFound reports that a requested object does not exist. Callers
// check it with errors.Is; it is the only error kind that maps to an
// HTTP 404 rather than a 500.
var ErrNotFound = errors.New("object not found")

// ScratchPrefix names temporary files materialized from non-local
// backends so the sweeper can recognize and reclaim them.
const ScratchPrefix = "studyscroll-"

// Compile-time interface compliance checks.
var _ types.ObjectStore = (*Local)(nil)
var _ types.ObjectStore = (*GCS)(nil)
var _ types.ObjectStore = (*Memory)(nil)
