package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campushq/campus-trust/internal/core"
)

// RevocationList keeps the token deny-list in Redis, one key per revoked
// token with the eviction deadline as its TTL. Tokens are stored hashed so
// the deny-list never holds usable credentials.
type RevocationList struct {
	client redis.UniversalClient
	prefix string
}

// NewRevocationList creates a Redis-backed revocation list.
func NewRevocationList(client redis.UniversalClient, prefix string) *RevocationList {
	if prefix == "" {
		prefix = "revoked:"
	}
	return &RevocationList{client: client, prefix: prefix}
}

// Add blacklists the token until ttl elapses.
func (r *RevocationList) Add(ctx context.Context, token string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.key(token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("redis add revocation: %w", err)
	}
	return nil
}

// Contains reports whether the token is currently blacklisted. A Redis
// error is treated as not-blacklisted; session liveness still gates access.
func (r *RevocationList) Contains(ctx context.Context, token string) bool {
	n, err := r.client.Exists(ctx, r.key(token)).Result()
	return err == nil && n > 0
}

// Sweep is a no-op for the Redis store: per-key TTLs evict server-side.
func (r *RevocationList) Sweep(context.Context) (int, error) {
	return 0, nil
}

func (r *RevocationList) key(token string) string {
	sum := sha256.Sum256([]byte(token))
	return r.prefix + hex.EncodeToString(sum[:])
}

var _ core.RevocationList = (*RevocationList)(nil)
