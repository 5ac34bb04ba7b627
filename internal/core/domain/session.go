package domain

import (
	"slices"
	"time"
)

// TokenKind distinguishes access tokens from refresh tokens.
type TokenKind int

const (
	AccessToken TokenKind = iota
	RefreshToken
)

func (k TokenKind) String() string {
	if k == RefreshToken {
		return "refresh"
	}
	return "access"
}

// TokenClaims is the typed payload carried by a bearer token.
type TokenClaims struct {
	Subject    string
	IdentityID int64
	Role       Role
	// Scopes is only set on access tokens.
	Scopes    []string
	IsRefresh bool
	ExpiresAt time.Time
}

// Kind returns the token kind encoded by the claims.
func (c TokenClaims) Kind() TokenKind {
	if c.IsRefresh {
		return RefreshToken
	}
	return AccessToken
}

// TokenPair is returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

// AccessPolicy describes what an endpoint demands from the bearer token.
type AccessPolicy struct {
	// Optional lets requests without a token through with no session.
	Optional bool
	Kind     TokenKind
	Scopes   []string
}

// Session is the identity resolved for a single request.
type Session struct {
	Identity *User
	Scopes   []string
	Claims   TokenClaims
}

// HasScopes reports whether every scope in required was granted.
func (s *Session) HasScopes(required []string) bool {
	for _, r := range required {
		if !slices.Contains(s.Scopes, r) {
			return false
		}
	}
	return true
}
