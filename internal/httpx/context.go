package httpx

import (
	"context"

	domainauth "github.com/campushq/campus-trust/internal/domain/auth"
)

type contextKey string

const principalKey contextKey = "principal"

// SetPrincipal returns a context carrying the authenticated principal.
func SetPrincipal(ctx context.Context, p domainauth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// GetPrincipal extracts the authenticated principal from the context.
func GetPrincipal(ctx context.Context) (domainauth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domainauth.Principal)
	return p, ok
}
