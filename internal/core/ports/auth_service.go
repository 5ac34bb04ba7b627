package ports

import (
	"context"
	"time"

	"github.com/blogsphere/api/internal/core/domain"
)

// PasswordHasher is a slow, salted one-way hash.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	// Verify never fails loudly: malformed hashes simply do not match.
	Verify(plaintext, hash string) bool
}

// TokenCodec signs and verifies bearer tokens.
type TokenCodec interface {
	Issue(claims domain.TokenClaims, ttl time.Duration) (string, error)
	// Decode returns domain.ErrTokenMalformed, domain.ErrTokenSignatureInvalid
	// or domain.ErrTokenExpired on failure.
	Decode(token string) (domain.TokenClaims, error)
}

// SessionResolver turns a bearer token into a request session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string, policy domain.AccessPolicy) (*domain.Session, error)
	Authenticate(ctx context.Context, token string, requiredScopes []string) (*domain.User, error)
}

// LoginInput carries the password-grant form.
type LoginInput struct {
	Username string
	Password string
	Scopes   []string
	IP       string
}

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (domain.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (domain.TokenPair, error)
}

// UserService covers account self-service and admin identity management.
type UserService interface {
	ChangePassword(ctx context.Context, identity *domain.User, current, next string) error
	DeleteAccount(ctx context.Context, identity *domain.User) error
	List(ctx context.Context, identity *domain.User, page domain.Page) (domain.Paged[domain.User], error)
	DeleteUser(ctx context.Context, identity *domain.User, targetID int64) error
	SetRole(ctx context.Context, username string, role domain.Role) (*domain.User, error)
}
