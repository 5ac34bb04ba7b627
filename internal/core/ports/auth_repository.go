package ports

import (
	"context"

	"github.com/blogsphere/api/internal/core/domain"
)

// CredentialStore persists identities and their password hashes.
//
// Lookups return domain.ErrUserNotFound when the row is absent. Create
// returns domain.ErrDuplicateUsername on an exact, case-sensitive match.
type CredentialStore interface {
	Create(ctx context.Context, username, passwordHash string, role domain.Role) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	// UpdateRole is reserved for out-of-band administration.
	UpdateRole(ctx context.Context, id int64, role domain.Role) error
	// Delete removes the identity and, through the schema, its posts,
	// comments and likes.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, page domain.Page) ([]domain.User, int64, error)
}
