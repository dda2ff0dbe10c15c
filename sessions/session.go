package sessions

import (
	"time"

	"github.com/jrsteele09/bloghub-admin/users"
)

// Status tracks whether the provider is still checking a session
type Status string

const (
	// StatusPending is set while the profile sync or a token refresh is in flight
	StatusPending Status = "pending"
	// StatusActive means the stored user is current
	StatusActive Status = "active"
)

// Session is a logged in admin console session.
// RefreshToken is stored sealed, see Sealer.
type Session struct {
	ID           string      `json:"id"`
	User         *users.User `json:"user,omitempty"`
	AccessToken  string      `json:"access_token,omitempty"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	AccessExpiry time.Time   `json:"access_expiry"`
	Status       Status      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

// Loading reports whether the session check is still in progress
func (s *Session) Loading() bool {
	return s.Status == StatusPending
}

// Expired reports whether the session outlived its maximum age
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
