// Package service provides the business-logic services of the trust core:
// authentication decisions, API-key checks, rule evaluation, risk scoring,
// alert dispatch, and the background sweeps that keep the stores bounded.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campushq/campus-trust/internal/core"
	domainauth "github.com/campushq/campus-trust/internal/domain/auth"
	"github.com/campushq/campus-trust/internal/domain/model"
	apperrors "github.com/campushq/campus-trust/internal/errors"
	"github.com/campushq/campus-trust/internal/token"
)

// AuthConfig carries the token lifetimes and blacklist retention used by the
// authentication gateway.
type AuthConfig struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	RevocationTTL time.Duration
}

// DefaultAuthConfig returns the production defaults: 15-minute access
// tokens, 7-day refresh tokens, 24-hour blacklist retention.
func DefaultAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		RevocationTTL: 24 * time.Hour,
	}
}

// AuthService is the per-request authentication gateway. It composes the
// token codec, session store, and revocation list into a single decision,
// and owns the login/refresh/revoke lifecycle around it.
type AuthService struct {
	codec    *token.Codec
	sessions core.SessionStore
	revoked  core.RevocationList
	events   core.EventLog
	cfg      AuthConfig
	clock    core.TimeProvider
	logger   *slog.Logger
}

// AuthServiceOptions bundles dependencies for NewAuthService.
type AuthServiceOptions struct {
	Codec    *token.Codec
	Sessions core.SessionStore
	Revoked  core.RevocationList
	Events   core.EventLog
	Config   *AuthConfig
	Clock    core.TimeProvider
	Logger   *slog.Logger
}

// NewAuthService constructs the authentication gateway.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	cfg := DefaultAuthConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	clock := opts.Clock
	if clock == nil {
		clock = core.RealTimeProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		codec:    opts.Codec,
		sessions: opts.Sessions,
		revoked:  opts.Revoked,
		events:   opts.Events,
		cfg:      cfg,
		clock:    clock,
		logger:   logger,
	}
}

// LoginInput carries the identity fields established by credential
// verification (which lives outside this core).
type LoginInput struct {
	UserID   string
	Email    string
	Role     domainauth.Role
	TenantID string
}

// LoginResult is the session and token pair issued at login.
type LoginResult struct {
	SessionID string
	Tokens    domainauth.TokenPair
}

// Login creates a session and issues an access/refresh token pair bound to
// it. Called exactly once per login or signup.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.UserID == "" {
		return nil, apperrors.Validation("user id is required")
	}
	if !in.Role.Valid() {
		return nil, apperrors.Validationf("invalid role %q", in.Role)
	}

	now := s.clock.Now()
	sess := domainauth.Session{
		ID:           uuid.NewString(),
		UserID:       in.UserID,
		Email:        in.Email,
		Role:         in.Role,
		TenantID:     in.TenantID,
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	pair, err := s.issuePair(sess)
	if err != nil {
		// Roll the session back so a half-issued login leaves no state.
		_ = s.sessions.Revoke(ctx, sess.ID)
		return nil, err
	}

	s.recordEvent(ctx, model.RecordEventRequest{
		Type:     model.EventTypeLoginSuccess,
		UserID:   in.UserID,
		TenantID: in.TenantID,
		Severity: model.SeverityLow,
		Data:     map[string]any{"sessionId": sess.ID},
	})

	return &LoginResult{SessionID: sess.ID, Tokens: pair}, nil
}

// RecordLoginFailure logs a failed credential check into the event log so
// burst-detection rules can fire on it. Callers invoke it from the (out of
// scope) credential verification path.
func (s *AuthService) RecordLoginFailure(ctx context.Context, userID, tenantID, reason string) {
	s.recordEvent(ctx, model.RecordEventRequest{
		Type:     model.EventTypeLoginFailed,
		UserID:   userID,
		TenantID: tenantID,
		Severity: model.SeverityMedium,
		Data:     map[string]any{"reason": reason},
	})
}

// Authenticate is the per-request authentication decision. header is the raw
// Authorization header value. The checks short-circuit in order: header
// shape, revocation list, signature/expiry, session liveness. The success
// path is read-only.
func (s *AuthService) Authenticate(ctx context.Context, header string) (domainauth.Principal, error) {
	raw, ok := bearerToken(header)
	if !ok {
		return domainauth.Principal{}, apperrors.Unauthorized("missing credential")
	}

	if s.revoked.Contains(ctx, raw) {
		return domainauth.Principal{}, apperrors.Unauthorized("token has been revoked")
	}

	claims, err := s.codec.Verify(raw, domainauth.TokenTypeAccess)
	if err != nil {
		return domainauth.Principal{}, apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "invalid or expired token")
	}

	if !s.sessions.IsActive(ctx, claims.UserID, claims.SessionID) {
		return domainauth.Principal{}, apperrors.Unauthorized("session expired")
	}

	return domainauth.Principal{
		UserID:    claims.UserID,
		Role:      claims.Role,
		TenantID:  claims.TenantID,
		SessionID: claims.SessionID,
	}, nil
}

// Refresh verifies a refresh token and issues a new access token bound to
// the same session. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if s.revoked.Contains(ctx, refreshToken) {
		return "", apperrors.Unauthorized("token has been revoked")
	}

	claims, err := s.codec.Verify(refreshToken, domainauth.TokenTypeRefresh)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, "invalid or expired refresh token")
	}

	sess, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil || sess.UserID != claims.UserID {
		return "", apperrors.Unauthorized("session expired")
	}

	if touchErr := s.sessions.Touch(ctx, sess.ID, s.clock.Now()); touchErr != nil {
		// The session vanished between Get and Touch (concurrent revoke).
		return "", apperrors.Unauthorized("session expired")
	}

	access, err := s.codec.Issue(domainauth.Claims{
		UserID:    sess.UserID,
		Email:     sess.Email,
		Role:      sess.Role,
		TenantID:  sess.TenantID,
		SessionID: sess.ID,
		Type:      domainauth.TokenTypeAccess,
	}, s.cfg.AccessTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "access token issuance failed", "session_id", sess.ID, "error", err)
		return "", apperrors.Unauthorized("invalid or expired refresh token")
	}
	return access, nil
}

// Revoke blacklists the presented token and revokes its session, so every
// other token minted for that session dies at the session-liveness check.
// The two mechanisms are deliberate: the blacklist catches the exact token,
// session revocation catches its siblings.
func (s *AuthService) Revoke(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return apperrors.Unauthorized("missing credential")
	}

	if err := s.revoked.Add(ctx, rawToken, s.cfg.RevocationTTL); err != nil {
		return err
	}

	// Either token type may be presented at logout; try both.
	claims, err := s.codec.Verify(rawToken, domainauth.TokenTypeAccess)
	if err != nil {
		claims, err = s.codec.Verify(rawToken, domainauth.TokenTypeRefresh)
	}
	if err != nil {
		// Unparseable tokens stay blacklisted; there is no session to revoke.
		return nil
	}

	if err := s.sessions.Revoke(ctx, claims.SessionID); err != nil {
		return err
	}

	s.recordEvent(ctx, model.RecordEventRequest{
		Type:     model.EventTypeTokenRevoked,
		UserID:   claims.UserID,
		TenantID: claims.TenantID,
		Severity: model.SeverityLow,
		Data:     map[string]any{"sessionId": claims.SessionID},
	})
	return nil
}

// RevokeAllSessions removes every session for a user (password change,
// account compromise). Individual outstanding tokens die at the
// session-liveness check.
func (s *AuthService) RevokeAllSessions(ctx context.Context, userID string) (int, error) {
	n, err := s.sessions.RevokeAll(ctx, userID)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.recordEvent(ctx, model.RecordEventRequest{
			Type:     model.EventTypeSessionRevoked,
			UserID:   userID,
			Severity: model.SeverityMedium,
			Data:     map[string]any{"sessions": n},
		})
	}
	return n, nil
}

// issuePair mints the access and refresh tokens for a session.
func (s *AuthService) issuePair(sess domainauth.Session) (domainauth.TokenPair, error) {
	access, err := s.codec.Issue(domainauth.Claims{
		UserID:    sess.UserID,
		Email:     sess.Email,
		Role:      sess.Role,
		TenantID:  sess.TenantID,
		SessionID: sess.ID,
		Type:      domainauth.TokenTypeAccess,
	}, s.cfg.AccessTTL)
	if err != nil {
		return domainauth.TokenPair{}, err
	}

	refresh, err := s.codec.Issue(domainauth.Claims{
		UserID:    sess.UserID,
		SessionID: sess.ID,
		Type:      domainauth.TokenTypeRefresh,
	}, s.cfg.RefreshTTL)
	if err != nil {
		return domainauth.TokenPair{}, err
	}

	return domainauth.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// recordEvent appends to the event log, logging (never propagating)
// failures: authentication outcomes must not depend on event bookkeeping.
func (s *AuthService) recordEvent(ctx context.Context, req model.RecordEventRequest) {
	if s.events == nil {
		return
	}
	if _, err := s.events.Record(ctx, req); err != nil {
		s.logger.ErrorContext(ctx, "security event record failed", "event_type", req.Type, "error", err)
	}
}

// bearerToken extracts the token from an "Authorization: Bearer x" value.
func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}
	tok := strings.TrimSpace(header[len(prefix):])
	return tok, tok != ""
}
