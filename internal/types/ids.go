// internal/types/ids.go
package types

import (
	"strings"

	"github.com/google/uuid"
)

// SessionID is the opaque token correlating a card document with its
// (optional, later-arriving) audio artifact. It is minted once at session
// creation and never changes.
type SessionID string

// NewSessionID returns a fresh 12-character hex identifier derived from a
// random UUID. Twelve characters keep share links short while leaving the
// collision probability negligible for any realistic process lifetime.
func NewSessionID() SessionID {
	return SessionID(strings.ReplaceAll(uuid.New().String(), "-", "")[:12])
}

// Valid reports whether id has the exact shape NewSessionID produces:
// 12 lowercase hex characters. Identifiers arrive from URLs, so anything
// else is rejected before it can reach a storage key.
func (id SessionID) Valid() bool {
	if len(id) != 12 {
		return false
	}
	for _, c := range id {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
