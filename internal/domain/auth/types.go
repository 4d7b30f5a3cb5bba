package auth

// Package auth contains domain-level types for sessions and token claims.
// It is pure and free of framework/adapter concerns.

import "time"

// Role represents an application's authorization role.
// Keep string form for easy persistence and claims encoding.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStaff   Role = "staff"
	RoleStudent Role = "student"
	RoleParent  Role = "parent"
)

// Valid returns true if the role is one of the supported values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStaff, RoleStudent, RoleParent:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string { return string(r) }

// Session is the server-side record binding a user and tenant to a login.
// ID is an opaque session identifier (random UUID). Tokens issued for a
// session are honored only while the session entry is alive.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	TenantID     string    `json:"tenant_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// IdleSince reports how long the session has been idle at the given instant.
func (s Session) IdleSince(now time.Time) time.Duration {
	return now.Sub(s.LastActivity)
}

// TokenType distinguishes access tokens from refresh tokens. The two use
// independent signing secrets and are never interchangeable.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the payload carried inside a signed bearer token.
// TenantID and Email are populated on access tokens only; refresh tokens
// carry just enough to mint a new access token for the same session.
type Claims struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email,omitempty"`
	Role      Role      `json:"role,omitempty"`
	TenantID  string    `json:"tenantId,omitempty"`
	SessionID string    `json:"sessionId"`
	Type      TokenType `json:"type"`
}

// Principal is the authenticated identity exposed to request handlers after
// a successful authentication decision.
type Principal struct {
	UserID    string
	Role      Role
	TenantID  string
	SessionID string
}

// TokenPair bundles the access and refresh tokens issued at login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
