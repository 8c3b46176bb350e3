// Package actor contains domain-level types for the principals acting on the
// marketplace. It is pure and free of framework/adapter concerns.
package actor

import "time"

// Role represents a marketplace authorization role.
// Keep string form for easy persistence and session payloads.
type Role string

const (
	RoleClient Role = "client"
	RoleWorker Role = "worker"
	RoleAdmin  Role = "admin"
)

// Valid returns true if the Role is one of the known marketplace roles.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleWorker || r == RoleAdmin
}

// Actor is the identity attempting an operation: who they are and what role
// they act under. Transition rules use both for ownership and permission checks.
type Actor struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// IsAdmin returns true when the actor acts with administrative rights.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Session is the server-side record persisted for an authenticated user.
// Sessions are created by the external auth system; this service only resolves
// opaque tokens back to an Actor.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Actor returns the acting principal described by the session.
func (s Session) Actor() Actor {
	return Actor{ID: s.UserID, Role: s.Role}
}
