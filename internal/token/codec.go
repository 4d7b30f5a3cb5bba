// Package token signs and verifies the bearer tokens issued by the trust
// core. Access and refresh tokens carry the same claim structure but are
// signed with independent secrets, so a leaked access secret cannot be used
// to mint refresh tokens.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campushq/campus-trust/internal/core"
	domainauth "github.com/campushq/campus-trust/internal/domain/auth"
)

// Typed verification failures. Callers translate these into the generic
// unauthorized responses; the distinction matters for logging and tests.
var (
	ErrMalformed        = errors.New("token is malformed")
	ErrInvalidSignature = errors.New("token signature is invalid")
	ErrExpired          = errors.New("token is expired")
	ErrWrongType        = errors.New("token type mismatch")
)

// jwtClaims embeds the registered claim set alongside the domain claims.
type jwtClaims struct {
	jwt.RegisteredClaims
	domainauth.Claims
}

// Codec issues and verifies signed bearer tokens. Issue and Verify are pure
// functions of secret, claims, and time; the codec holds no mutable state.
type Codec struct {
	accessSecret  []byte
	refreshSecret []byte
	issuer        string
	clock         core.TimeProvider
}

// Options configures a Codec.
type Options struct {
	AccessSecret  []byte
	RefreshSecret []byte
	Issuer        string
	Clock         core.TimeProvider
}

// NewCodec builds a Codec. Both secrets are required and must differ.
func NewCodec(opts Options) (*Codec, error) {
	if len(opts.AccessSecret) == 0 || len(opts.RefreshSecret) == 0 {
		return nil, errors.New("both access and refresh signing secrets are required")
	}
	if string(opts.AccessSecret) == string(opts.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must be distinct")
	}
	clock := opts.Clock
	if clock == nil {
		clock = core.RealTimeProvider{}
	}
	issuer := opts.Issuer
	if issuer == "" {
		issuer = "campus-trust"
	}
	return &Codec{
		accessSecret:  opts.AccessSecret,
		refreshSecret: opts.RefreshSecret,
		issuer:        issuer,
		clock:         clock,
	}, nil
}

// Issue signs the claims with the secret matching claims.Type and returns
// the encoded token, valid for ttl from now.
func (c *Codec) Issue(claims domainauth.Claims, ttl time.Duration) (string, error) {
	secret, err := c.secretFor(claims.Type)
	if err != nil {
		return "", err
	}

	now := c.clock.Now().UTC()
	full := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.UserID,
			Issuer:    c.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Claims: claims,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, full).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", claims.Type, err)
	}
	return signed, nil
}

// Verify parses the token against the secret for the expected type and
// returns the embedded claims. Failures map to ErrMalformed,
// ErrInvalidSignature, ErrExpired, or ErrWrongType.
func (c *Codec) Verify(tokenString string, expected domainauth.TokenType) (domainauth.Claims, error) {
	secret, err := c.secretFor(expected)
	if err != nil {
		return domainauth.Claims{}, err
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &jwtClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidSignature
			}
			return secret, nil
		},
		jwt.WithIssuer(c.issuer),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		return domainauth.Claims{}, classifyParseError(err)
	}

	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return domainauth.Claims{}, ErrMalformed
	}
	if claims.Type != expected {
		return domainauth.Claims{}, ErrWrongType
	}
	return claims.Claims, nil
}

func (c *Codec) secretFor(t domainauth.TokenType) ([]byte, error) {
	switch t {
	case domainauth.TokenTypeAccess:
		return c.accessSecret, nil
	case domainauth.TokenTypeRefresh:
		return c.refreshSecret, nil
	default:
		return nil, fmt.Errorf("unknown token type %q", t)
	}
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrMalformed
	}
}
