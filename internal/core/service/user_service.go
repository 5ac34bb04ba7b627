package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/ports"
)

// UserService covers account self-service and identity administration.
type UserService struct {
	users    ports.CredentialStore
	hasher   ports.PasswordHasher
	activity ports.ActivityPublisher
	now      func() time.Time
	log      zerolog.Logger
}

func NewUserService(users ports.CredentialStore, hasher ports.PasswordHasher, activity ports.ActivityPublisher, log zerolog.Logger) *UserService {
	if activity == nil {
		activity = nopPublisher{}
	}
	return &UserService{users: users, hasher: hasher, activity: activity, now: time.Now, log: log}
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, identity *domain.User, current, next string) error {
	if identity == nil {
		return domain.ErrUnauthenticated
	}
	if !s.hasher.Verify(current, identity.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	if err := validatePassword(next); err != nil {
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return domain.WrapInternal(err, "change password")
	}
	if err := s.users.UpdatePassword(ctx, identity.ID, hash); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUnauthenticated
		}
		return domain.WrapInternal(err, "change password")
	}

	s.log.Info().Int64("user_id", identity.ID).Msg("password changed")
	return nil
}

func (s *UserService) DeleteAccount(ctx context.Context, identity *domain.User) error {
	if identity == nil {
		return domain.ErrUnauthenticated
	}
	if err := s.remove(ctx, identity.ID); err != nil {
		return err
	}
	s.activity.Publish(domain.ActivityEvent{
		Kind:       domain.ActivityDelete,
		Username:   identity.Username,
		IdentityID: identity.ID,
		Success:    true,
		At:         s.now().UTC(),
	})
	return nil
}

func (s *UserService) List(ctx context.Context, identity *domain.User, page domain.Page) (domain.Paged[domain.User], error) {
	if err := domain.RequireRole(identity, domain.RoleAdmin); err != nil {
		return domain.Paged[domain.User]{}, err
	}
	page = page.Normalize()
	users, total, err := s.users.List(ctx, page)
	if err != nil {
		return domain.Paged[domain.User]{}, domain.WrapInternal(err, "list users")
	}
	return domain.NewPaged(users, total, page), nil
}

// DeleteUser removes another identity. Admin only.
func (s *UserService) DeleteUser(ctx context.Context, identity *domain.User, targetID int64) error {
	if err := domain.RequireRole(identity, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.remove(ctx, targetID); err != nil {
		return err
	}
	s.log.Info().Int64("admin_id", identity.ID).Int64("user_id", targetID).Msg("user deleted by admin")
	return nil
}

// SetRole changes a role out of band. It has no HTTP route.
func (s *UserService) SetRole(ctx context.Context, username string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, domain.InvalidInput("role must be USER or ADMIN")
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, domain.WrapInternal(err, "set role")
	}
	if err := s.users.UpdateRole(ctx, user.ID, role); err != nil {
		return nil, domain.WrapInternal(err, "set role")
	}
	user.Role = role
	s.log.Info().Int64("user_id", user.ID).Str("role", string(role)).Msg("role updated")
	return user, nil
}

func (s *UserService) remove(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return err
		}
		return domain.WrapInternal(err, "delete user")
	}
	return nil
}
