// File: database/repository/session/interface.go
package sessionRepo

import (
	"context"

	"dulai/models"
)

// SessionStore owns all conversational sessions. Sessions are keyed by an
// opaque token carried in the client's cookie.
//
// Stored history grows without bound for the life of a session; only the
// outbound prompt window is capped. Concurrent requests bearing the same token
// interleave reads and writes with no per-session isolation — accepted under
// the single-user-per-session assumption.
type SessionStore interface {
	// GetOrCreate returns the session for the token. An empty or unknown
	// token mints a fresh session with a new opaque id, empty fields and
	// empty history.
	GetOrCreate(ctx context.Context, token string) (*models.Session, error)
	// Save persists the session's current fields and history.
	Save(ctx context.Context, session *models.Session) error
}
