package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/blogsphere/api/internal/core/domain"
)

// jwtClaims is the wire form of domain.TokenClaims.
type jwtClaims struct {
	IdentityID int64    `json:"id"`
	Role       string   `json:"role"`
	Scopes     []string `json:"scopes,omitempty"`
	Refresh    bool     `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

// JWTCodec issues and decodes HS256 bearer tokens with a single static key.
type JWTCodec struct {
	secret []byte
	now    func() time.Time
}

// NewJWTCodec returns a codec signing with secret. now defaults to time.Now.
func NewJWTCodec(secret []byte, now func() time.Time) *JWTCodec {
	if now == nil {
		now = time.Now
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &JWTCodec{secret: key, now: now}
}

// Issue signs claims with an expiry ttl from now. ExpiresAt on the input is
// ignored; scopes are dropped from refresh tokens. The exp claim has whole
// second precision, so expiry is rounded up and a token never lapses before
// its ttl.
func (c *JWTCodec) Issue(claims domain.TokenClaims, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", fmt.Errorf("issue token: non-positive ttl %s", ttl)
	}

	now := c.now()
	exp := now.Add(ttl)
	if whole := exp.Truncate(time.Second); whole.Before(exp) {
		exp = whole.Add(time.Second)
	}
	wire := jwtClaims{
		IdentityID: claims.IdentityID,
		Role:       string(claims.Role),
		Refresh:    claims.IsRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	if !claims.IsRefresh {
		wire.Scopes = claims.Scopes
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, wire).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature and expiry of token and returns its claims.
func (c *JWTCodec) Decode(token string) (domain.TokenClaims, error) {
	var wire jwtClaims
	parsed, err := jwt.ParseWithClaims(token, &wire, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return domain.TokenClaims{}, classifyTokenError(err)
	}
	if !parsed.Valid {
		return domain.TokenClaims{}, domain.ErrTokenMalformed
	}

	role := domain.Role(wire.Role)
	if wire.Subject == "" || wire.IdentityID <= 0 || !role.Valid() {
		return domain.TokenClaims{}, domain.ErrTokenMalformed
	}

	claims := domain.TokenClaims{
		Subject:    wire.Subject,
		IdentityID: wire.IdentityID,
		Role:       role,
		IsRefresh:  wire.Refresh,
		ExpiresAt:  wire.ExpiresAt.Time,
	}
	if !wire.Refresh {
		claims.Scopes = wire.Scopes
	}
	return claims, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return domain.ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrTokenSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	default:
		return domain.ErrTokenMalformed
	}
}
