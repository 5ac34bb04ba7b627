package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/ports"
	"github.com/blogsphere/api/internal/metrics"
)

// SessionResolver reconstructs the caller's identity from a bearer token.
type SessionResolver struct {
	codec ports.TokenCodec
	users ports.CredentialStore
	log   zerolog.Logger
}

func NewSessionResolver(codec ports.TokenCodec, users ports.CredentialStore, log zerolog.Logger) *SessionResolver {
	return &SessionResolver{codec: codec, users: users, log: log}
}

// Resolve runs the token through decode, kind, identity and scope checks in
// that order. With an optional policy and no token it returns a nil session
// and no error.
//
// The returned identity is the stored row, so role changes made out of band
// apply to tokens already issued.
func (r *SessionResolver) Resolve(ctx context.Context, token string, policy domain.AccessPolicy) (*domain.Session, error) {
	if token == "" {
		if policy.Optional {
			return nil, nil
		}
		return nil, r.reject("missing_token", domain.ErrUnauthenticated)
	}

	claims, err := r.codec.Decode(token)
	if err != nil {
		r.log.Debug().Err(err).Msg("bearer token rejected")
		return nil, r.reject("invalid_token", domain.ErrUnauthenticated)
	}

	if claims.Kind() != policy.Kind {
		return nil, r.reject("wrong_kind", domain.ErrUnauthenticated)
	}

	user, err := r.users.FindByID(ctx, claims.IdentityID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, r.reject("unknown_identity", domain.ErrUnauthenticated)
		}
		return nil, domain.WrapInternal(err, "resolve session")
	}

	session := &domain.Session{
		Identity: user,
		Scopes:   claims.Scopes,
		Claims:   claims,
	}
	if !session.HasScopes(policy.Scopes) {
		return nil, r.reject("insufficient_scope", domain.ErrForbidden)
	}

	return session, nil
}

// Authenticate resolves a mandatory access token carrying requiredScopes.
func (r *SessionResolver) Authenticate(ctx context.Context, token string, requiredScopes []string) (*domain.User, error) {
	session, err := r.Resolve(ctx, token, domain.AccessPolicy{Kind: domain.AccessToken, Scopes: requiredScopes})
	if err != nil {
		return nil, err
	}
	return session.Identity, nil
}

func (r *SessionResolver) reject(reason string, err error) error {
	metrics.SessionRejectionsTotal.WithLabelValues(reason).Inc()
	return err
}
