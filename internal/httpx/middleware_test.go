package httpx

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/campus-trust/internal/core"
	domainauth "github.com/campushq/campus-trust/internal/domain/auth"
	apperrors "github.com/campushq/campus-trust/internal/errors"
	"github.com/campushq/campus-trust/internal/store"
)

// authenticatorFunc adapts a function to the Authenticator interface.
type authenticatorFunc func(ctx context.Context, header string) (domainauth.Principal, error)

func (f authenticatorFunc) Authenticate(ctx context.Context, header string) (domainauth.Principal, error) {
	return f(ctx, header)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	principal := domainauth.Principal{
		UserID:    "user-1",
		Role:      domainauth.RoleTeacher,
		TenantID:  "tenant-1",
		SessionID: "sess-1",
	}

	t.Run("valid token reaches the handler with a principal", func(t *testing.T) {
		auth := authenticatorFunc(func(_ context.Context, header string) (domainauth.Principal, error) {
			assert.Equal(t, "Bearer good", header)
			return principal, nil
		})

		var seen domainauth.Principal
		handler := RequireAuth(auth)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := GetPrincipal(r.Context())
			require.True(t, ok)
			seen = p
		}))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, r)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, principal, seen)
	})

	t.Run("rejection short-circuits with 401", func(t *testing.T) {
		auth := authenticatorFunc(func(context.Context, string) (domainauth.Principal, error) {
			return domainauth.Principal{}, apperrors.Unauthorized("token has been revoked")
		})

		called := false
		handler := RequireAuth(auth)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			called = true
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)

		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unauthorized", body["error"])
	})
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(domainauth.RoleAdmin, domainauth.RoleStaff)(okHandler())

	request := func(role domainauth.Role) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if role != "" {
			ctx := SetPrincipal(r.Context(), domainauth.Principal{UserID: "u", Role: role})
			r = r.WithContext(ctx)
		}
		return r
	}

	tests := []struct {
		name       string
		role       domainauth.Role
		wantStatus int
	}{
		{"admin allowed", domainauth.RoleAdmin, http.StatusOK},
		{"staff allowed", domainauth.RoleStaff, http.StatusOK},
		{"teacher forbidden", domainauth.RoleTeacher, http.StatusForbidden},
		{"student forbidden", domainauth.RoleStudent, http.StatusForbidden},
		{"no principal", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, request(tt.role))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRateLimit(t *testing.T) {
	clock := core.NewFakeTimeProvider(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	newHandler := func(limiter core.RateLimiter) http.Handler {
		return RateLimit(RateLimitOptions{
			Limiter:     limiter,
			Class:       "auth",
			MaxRequests: 2,
			Window:      time.Minute,
			Multipliers: store.MultiplierTable{"admin": 3, "student": 0.5},
		})(okHandler())
	}

	t.Run("anonymous keyed by client IP", func(t *testing.T) {
		handler := newHandler(store.NewRateLimiter(clock))

		send := func(addr string) int {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = addr
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)
			return rec.Code
		}

		assert.Equal(t, http.StatusOK, send("203.0.113.7:4431"))
		assert.Equal(t, http.StatusOK, send("203.0.113.7:4432"))
		// Same host, different port: still the same bucket.
		assert.Equal(t, http.StatusTooManyRequests, send("203.0.113.7:4433"))
		// A different host has its own budget.
		assert.Equal(t, http.StatusOK, send("198.51.100.9:1000"))
	})

	t.Run("authenticated keyed by user with role scaling", func(t *testing.T) {
		handler := newHandler(store.NewRateLimiter(clock))

		send := func(p domainauth.Principal) int {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r = r.WithContext(SetPrincipal(r.Context(), p))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, r)
			return rec.Code
		}

		admin := domainauth.Principal{UserID: "admin-1", Role: domainauth.RoleAdmin}
		for i := 0; i < 6; i++ {
			assert.Equal(t, http.StatusOK, send(admin), "admin request %d", i)
		}
		assert.Equal(t, http.StatusTooManyRequests, send(admin))

		// A student's budget rounds down to a single request.
		student := domainauth.Principal{UserID: "student-1", Role: domainauth.RoleStudent}
		assert.Equal(t, http.StatusOK, send(student))
		assert.Equal(t, http.StatusTooManyRequests, send(student))
	})

	t.Run("rejection carries Retry-After", func(t *testing.T) {
		handler := newHandler(store.NewRateLimiter(clock))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "203.0.113.7:1000"

		var rec *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			rec = httptest.NewRecorder()
			handler.ServeHTTP(rec, r)
		}

		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	})
}

func TestRecover(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestLogging(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}
