package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/ports"
)

type CategoryService struct {
	categories ports.CategoryRepository
	posts      ports.PostRepository
	log        zerolog.Logger
}

func NewCategoryService(categories ports.CategoryRepository, posts ports.PostRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{categories: categories, posts: posts, log: log}
}

func (s *CategoryService) Create(ctx context.Context, identity *domain.User, name string) (*domain.Category, error) {
	if err := domain.RequireRole(identity, domain.RoleAdmin); err != nil {
		return nil, err
	}
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.Create(ctx, name)
	if err != nil {
		return nil, storeErr(err, "create category")
	}
	s.log.Info().Int64("category_id", category.ID).Str("name", category.Name).Msg("category created")
	return category, nil
}

func (s *CategoryService) List(ctx context.Context, page domain.Page) (domain.Paged[domain.Category], error) {
	page = page.Normalize()
	items, total, err := s.categories.List(ctx, page)
	if err != nil {
		return domain.Paged[domain.Category]{}, storeErr(err, "list categories")
	}
	return domain.NewPaged(items, total, page), nil
}

// Posts lists the posts filed under categoryID, newest first.
func (s *CategoryService) Posts(ctx context.Context, categoryID int64, page domain.Page) (domain.Paged[domain.PostSummary], error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return domain.Paged[domain.PostSummary]{}, storeErr(err, "find category")
	}
	page = page.Normalize()
	items, total, err := s.posts.List(ctx, ports.PostFilter{CategoryID: categoryID, Page: page})
	if err != nil {
		return domain.Paged[domain.PostSummary]{}, storeErr(err, "list category posts")
	}
	return domain.NewPaged(items, total, page), nil
}

func (s *CategoryService) Rename(ctx context.Context, identity *domain.User, id int64, name string) (*domain.Category, error) {
	if err := domain.RequireRole(identity, domain.RoleAdmin); err != nil {
		return nil, err
	}
	name, err := normalizeCategoryName(name)
	if err != nil {
		return nil, err
	}
	category, err := s.categories.Rename(ctx, id, name)
	if err != nil {
		return nil, storeErr(err, "rename category")
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, identity *domain.User, id int64) error {
	if err := domain.RequireRole(identity, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return storeErr(err, "delete category")
	}
	s.log.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}

func normalizeCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > domain.CategoryNameMaxLen {
		return "", domain.InvalidInput("category name must be between 1 and 30 characters")
	}
	return name, nil
}
