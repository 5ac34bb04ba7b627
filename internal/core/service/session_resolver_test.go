package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogsphere/api/internal/core/domain"
)

type resolverFixture struct {
	clock    *fakeClock
	codec    *JWTCodec
	users    *stubUserStore
	resolver *SessionResolver
	alice    *domain.User
}

func newResolverFixture(t *testing.T) *resolverFixture {
	t.Helper()
	clock := newFakeClock()
	users := newStubUserStore()
	alice, err := users.Create(context.Background(), "alice", "hash", domain.RoleUser)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	codec := NewJWTCodec(testSecret, clock.Now)
	return &resolverFixture{
		clock:    clock,
		codec:    codec,
		users:    users,
		resolver: NewSessionResolver(codec, users, zerolog.Nop()),
		alice:    alice,
	}
}

func (f *resolverFixture) token(t *testing.T, refresh bool, scopes ...string) string {
	t.Helper()
	tok, err := f.codec.Issue(domain.TokenClaims{
		Subject:    f.alice.Username,
		IdentityID: f.alice.ID,
		Role:       f.alice.Role,
		Scopes:     scopes,
		IsRefresh:  refresh,
	}, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok
}

func TestSessionResolver_MissingToken(t *testing.T) {
	f := newResolverFixture(t)

	if _, err := f.resolver.Resolve(context.Background(), "", domain.AccessPolicy{}); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	session, err := f.resolver.Resolve(context.Background(), "", domain.AccessPolicy{Optional: true})
	if err != nil || session != nil {
		t.Fatalf("expected anonymous pass-through, got %v, %v", session, err)
	}
}

func TestSessionResolver_OptionalStillRejectsBadToken(t *testing.T) {
	f := newResolverFixture(t)

	_, err := f.resolver.Resolve(context.Background(), "garbage", domain.AccessPolicy{Optional: true})
	if err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSessionResolver_ResolvesAccessToken(t *testing.T) {
	f := newResolverFixture(t)

	session, err := f.resolver.Resolve(context.Background(), f.token(t, false, "user"), domain.AccessPolicy{Scopes: []string{"user"}})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if session.Identity.ID != f.alice.ID || session.Identity.Username != "alice" {
		t.Fatalf("unexpected identity: %+v", session.Identity)
	}
	if len(session.Scopes) != 1 || session.Scopes[0] != "user" {
		t.Fatalf("unexpected scopes: %v", session.Scopes)
	}
}

func TestSessionResolver_RejectsWrongKind(t *testing.T) {
	f := newResolverFixture(t)

	if _, err := f.resolver.Authenticate(context.Background(), f.token(t, true), nil); err != domain.ErrUnauthenticated {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}

	refreshPolicy := domain.AccessPolicy{Kind: domain.RefreshToken}
	if _, err := f.resolver.Resolve(context.Background(), f.token(t, false, "user"), refreshPolicy); err != domain.ErrUnauthenticated {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
	if _, err := f.resolver.Resolve(context.Background(), f.token(t, true), refreshPolicy); err != nil {
		t.Fatalf("refresh token rejected on refresh policy: %v", err)
	}
}

func TestSessionResolver_DeletedIdentity(t *testing.T) {
	f := newResolverFixture(t)
	tok := f.token(t, false, "user")

	if err := f.users.Delete(context.Background(), f.alice.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.resolver.Authenticate(context.Background(), tok, nil); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated for deleted identity, got %v", err)
	}
}

func TestSessionResolver_MissingScope(t *testing.T) {
	f := newResolverFixture(t)

	_, err := f.resolver.Authenticate(context.Background(), f.token(t, false, "user"), []string{"admin"})
	if err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestSessionResolver_UsesCurrentRole(t *testing.T) {
	f := newResolverFixture(t)
	tok := f.token(t, false, "user")

	if err := f.users.UpdateRole(context.Background(), f.alice.ID, domain.RoleAdmin); err != nil {
		t.Fatalf("update role: %v", err)
	}
	user, err := f.resolver.Authenticate(context.Background(), tok, nil)
	if err != nil {
		t.Fatalf("Authenticate returned error: %v", err)
	}
	if user.Role != domain.RoleAdmin {
		t.Fatalf("expected role from store, got %s", user.Role)
	}
}

func TestSessionResolver_StoreFailureIsInternal(t *testing.T) {
	f := newResolverFixture(t)
	tok := f.token(t, false)
	f.users.err = errors.New("database is locked")

	_, err := f.resolver.Authenticate(context.Background(), tok, nil)
	if !errors.Is(err, domain.ErrInternal) {
		t.Fatalf("expected ErrInternal, got %v", err)
	}
}
