package httpx

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/campushq/campus-trust/internal/core"
	domainauth "github.com/campushq/campus-trust/internal/domain/auth"
	apperrors "github.com/campushq/campus-trust/internal/errors"
	"github.com/campushq/campus-trust/internal/store"
)

// Authenticator is the slice of the authentication gateway the middleware
// needs.
type Authenticator interface {
	Authenticate(ctx context.Context, header string) (domainauth.Principal, error)
}

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns a middleware that authenticates the bearer token and
// stores the principal in the request context. Failures surface as 401s
// without distinguishing malformed, expired, and revoked tokens.
func RequireAuth(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := auth.Authenticate(r.Context(), r.Header.Get("Authorization"))
			if err != nil {
				WriteError(w, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetPrincipal(r.Context(), principal)))
		})
	}
}

// RequireRole returns a middleware that allows only the given roles through.
// It must run after RequireAuth.
func RequireRole(roles ...domainauth.Role) func(http.Handler) http.Handler {
	allowed := make(map[domainauth.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok {
				WriteError(w, apperrors.Unauthorized("authentication required"))
				return
			}
			if _, ok := allowed[principal.Role]; !ok {
				WriteError(w, apperrors.Forbidden("insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitOptions configures a rate-limit middleware instance. Each
// instance carries its own class name, so distinct classes never share
// limiter keys.
type RateLimitOptions struct {
	Limiter     core.RateLimiter
	Class       string
	MaxRequests int
	Window      time.Duration
	Multipliers store.MultiplierTable
}

// RateLimit returns a middleware that meters requests per principal (or
// client IP for anonymous requests) against the class budget. The caller's
// role scales the budget through the multiplier table. Rejections answer
// 429 with a Retry-After header.
func RateLimit(opts RateLimitOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, max := opts.resolve(r)
			if !opts.Limiter.Allow(key, max, opts.Window) {
				retryAfter := int(opts.Limiter.RetryAfter(key, opts.Window).Seconds()) + 1
				WriteError(w, apperrors.RateLimited("rate limit exceeded", retryAfter))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// resolve picks the limiter key and the role-scaled budget for a request.
func (o RateLimitOptions) resolve(r *http.Request) (string, int) {
	if principal, ok := GetPrincipal(r.Context()); ok {
		return o.Class + ":user:" + principal.UserID, o.Multipliers.Scale(string(principal.Role), o.MaxRequests)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return o.Class + ":ip:" + host, o.MaxRequests
}
