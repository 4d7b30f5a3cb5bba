package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/campus-trust/internal/core"
	"github.com/campushq/campus-trust/internal/domain/model"
	apperrors "github.com/campushq/campus-trust/internal/errors"
)

// APIKeyService authenticates machine callers presenting the X-API-Key
// header. API keys live in a keyspace entirely separate from session
// tokens: a session-token limiter exhausting its window has no effect here
// and vice versa.
type APIKeyService struct {
	keys    core.APIKeyStore
	limiter core.RateLimiter
	events  core.EventLog
	window  time.Duration
	clock   core.TimeProvider
	logger  *slog.Logger
}

// APIKeyServiceOptions bundles dependencies for NewAPIKeyService.
type APIKeyServiceOptions struct {
	Keys       core.APIKeyStore
	Limiter    core.RateLimiter
	Events     core.EventLog
	RateWindow time.Duration
	Clock      core.TimeProvider
	Logger     *slog.Logger
}

// NewAPIKeyService constructs the API-key gateway. A zero RateWindow
// defaults to one minute.
func NewAPIKeyService(opts APIKeyServiceOptions) *APIKeyService {
	window := opts.RateWindow
	if window <= 0 {
		window = time.Minute
	}
	clock := opts.Clock
	if clock == nil {
		clock = core.RealTimeProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &APIKeyService{
		keys:    opts.Keys,
		limiter: opts.Limiter,
		events:  opts.Events,
		window:  window,
		clock:   clock,
		logger:  logger,
	}
}

// IssueResult carries a freshly minted key. RawKey is shown once and never
// recoverable; only its hash is stored.
type IssueResult struct {
	Key    model.APIKey
	RawKey string
}

// Issue registers a new API key and returns the raw "<keyId>.<secret>"
// credential.
func (s *APIKeyService) Issue(ctx context.Context, req model.CreateAPIKeyRequest) (*IssueResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	secret, err := randomSecret()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "generate api key secret")
	}

	key := model.APIKey{
		ID:          uuid.NewString(),
		SecretHash:  hashSecret(secret),
		TenantID:    req.TenantID,
		Name:        req.Name,
		Permissions: req.Permissions,
		RateLimit:   req.RateLimit,
		CreatedAt:   s.clock.Now(),
	}
	if req.TTL > 0 {
		exp := key.CreatedAt.Add(req.TTL)
		key.ExpiresAt = &exp
	}

	if err := s.keys.Create(ctx, key); err != nil {
		return nil, err
	}

	return &IssueResult{
		Key:    key,
		RawKey: key.ID + "." + secret,
	}, nil
}

// Authenticate validates an X-API-Key header value, checks the named
// permission, and meters the key's rate limit. Failures map to the error
// taxonomy: bad credential is unauthorized, missing permission is forbidden,
// over limit is rate_limited with a retry-after hint.
func (s *APIKeyService) Authenticate(ctx context.Context, headerValue, permission string) (model.APIKey, error) {
	keyID, secret, ok := splitAPIKey(headerValue)
	if !ok {
		return model.APIKey{}, apperrors.Unauthorized("invalid API key")
	}

	key, err := s.keys.Get(ctx, keyID)
	if err != nil {
		// Same response for unknown ID and bad secret; no key enumeration.
		return model.APIKey{}, apperrors.Unauthorized("invalid API key")
	}

	if subtle.ConstantTimeCompare([]byte(hashSecret(secret)), []byte(key.SecretHash)) != 1 {
		s.recordRejection(ctx, key, "secret_mismatch")
		return model.APIKey{}, apperrors.Unauthorized("invalid API key")
	}

	now := s.clock.Now()
	if key.Expired(now) {
		s.recordRejection(ctx, key, "expired")
		return model.APIKey{}, apperrors.Unauthorized("API key expired")
	}

	if permission != "" && !key.HasPermission(permission) {
		s.recordRejection(ctx, key, "missing_permission:"+permission)
		return model.APIKey{}, apperrors.Forbidden("insufficient permissions")
	}

	if key.RateLimit > 0 && s.limiter != nil {
		limitKey := "apikey:" + key.ID
		if !s.limiter.Allow(limitKey, key.RateLimit, s.window) {
			retry := int(s.limiter.RetryAfter(limitKey, s.window).Seconds()) + 1
			s.recordEvent(ctx, model.RecordEventRequest{
				Type:     model.EventTypeRateLimitExceeded,
				TenantID: key.TenantID,
				Severity: model.SeverityLow,
				Data:     map[string]any{"keyId": key.ID},
			})
			return model.APIKey{}, apperrors.RateLimited(
				fmt.Sprintf("rate limit exceeded for key %s", key.Name), retry)
		}
	}

	if err := s.keys.TouchLastUsed(ctx, key.ID, now); err != nil {
		s.logger.WarnContext(ctx, "api key last-used update failed", "key_id", key.ID, "error", err)
	}
	return key, nil
}

func (s *APIKeyService) recordRejection(ctx context.Context, key model.APIKey, reason string) {
	s.recordEvent(ctx, model.RecordEventRequest{
		Type:     model.EventTypeAPIKeyRejected,
		TenantID: key.TenantID,
		Severity: model.SeverityMedium,
		Data:     map[string]any{"keyId": key.ID, "reason": reason},
	})
}

func (s *APIKeyService) recordEvent(ctx context.Context, req model.RecordEventRequest) {
	if s.events == nil {
		return
	}
	if _, err := s.events.Record(ctx, req); err != nil {
		s.logger.ErrorContext(ctx, "security event record failed", "event_type", req.Type, "error", err)
	}
}

// splitAPIKey parses "<keyId>.<secret>"; the secret itself never contains a dot.
func splitAPIKey(v string) (keyID, secret string, ok bool) {
	v = strings.TrimSpace(v)
	idx := strings.LastIndexByte(v, '.')
	if idx <= 0 || idx == len(v)-1 {
		return "", "", false
	}
	return v[:idx], v[idx+1:], true
}

func randomSecret() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
