package users

import (
	"strings"
	"time"

	"github.com/jrsteele09/bloghub-admin/internal/utils"
)

// RoleType is the coarse role the BlogHub backend assigns to an account
type RoleType string

const (
	RoleAdmin  RoleType = "admin"
	RoleAuthor RoleType = "author"
	RoleReader RoleType = "reader"
)

// User is a BlogHub profile as returned by the content API.
// IsAdmin is a pointer because older profile payloads omit the field.
type User struct {
	ID         int       `json:"id"`
	Email      string    `json:"email"`
	Fullname   string    `json:"fullname,omitempty"`
	IsAdmin    *bool     `json:"is_admin,omitempty"`
	IsAuthor   bool      `json:"is_author,omitempty"`
	IsActive   bool      `json:"is_active,omitempty"`
	IsStaff    bool      `json:"is_staff,omitempty"`
	DateJoined time.Time `json:"date_joined,omitempty"`
}

// Admin reports whether the user may use the admin console.
// A missing is_admin field counts as false.
func (u *User) Admin() bool {
	if u == nil {
		return false
	}
	return utils.Value(u.IsAdmin)
}

// DisplayName prefers the full name and falls back to the email local part
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.Fullname); name != "" {
		return name
	}
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

// Role mirrors the backend's classification: admins first, then authors, everyone else reads
func (u *User) Role() RoleType {
	switch {
	case u.Admin():
		return RoleAdmin
	case u != nil && u.IsAuthor:
		return RoleAuthor
	default:
		return RoleReader
	}
}

// Status is the label used by the admin users filter
func (u *User) Status() string {
	if u != nil && u.IsActive {
		return "active"
	}
	return "suspended"
}
