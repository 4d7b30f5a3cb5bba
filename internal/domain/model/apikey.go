package model

import (
	"strings"
	"time"

	apperrors "github.com/campushq/campus-trust/internal/errors"
)

// APIKey is a machine credential presented via the X-API-Key header as
// "<keyId>.<secret>". API keys live in a keyspace entirely separate from
// session tokens and carry their own permission list and rate limit.
type APIKey struct {
	ID          string     `json:"id"`
	SecretHash  string     `json:"-"`
	TenantID    string     `json:"tenant_id"`
	Name        string     `json:"name"`
	Permissions []string   `json:"permissions"`
	RateLimit   int        `json:"rate_limit"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
}

// Expired reports whether the key is past its expiry at the given instant.
// Keys without an expiry never expire.
func (k APIKey) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && now.After(*k.ExpiresAt)
}

// HasPermission reports whether the key grants the named permission.
// The wildcard permission "*" grants everything.
func (k APIKey) HasPermission(perm string) bool {
	for _, p := range k.Permissions {
		if p == "*" || p == perm {
			return true
		}
	}
	return false
}

// CreateAPIKeyRequest carries the fields needed to register a new API key.
type CreateAPIKeyRequest struct {
	TenantID    string   `json:"tenant_id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
	RateLimit   int      `json:"rate_limit,omitempty"`
	TTL         time.Duration
}

// Normalize trims identifier fields.
func (r *CreateAPIKeyRequest) Normalize() {
	r.TenantID = strings.TrimSpace(r.TenantID)
	r.Name = strings.TrimSpace(r.Name)
}

// Validate rejects malformed registration requests.
func (r *CreateAPIKeyRequest) Validate() error {
	if r.TenantID == "" {
		return apperrors.Validation("tenant_id is required")
	}
	if r.Name == "" {
		return apperrors.Validation("name is required")
	}
	if r.RateLimit < 0 {
		return apperrors.Validation("rate_limit cannot be negative")
	}
	return nil
}
