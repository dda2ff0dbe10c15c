package sessions

import "context"

// Repo defines the interface for login session storage.
// Get returns errors.ErrSessionNotFound for unknown ids.
type Repo interface {
	// Upsert creates or replaces a session
	Upsert(ctx context.Context, session *Session) error

	// Get retrieves a copy of the session
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Delete removes a session; deleting an unknown id is not an error
	Delete(ctx context.Context, sessionID string) error
}
