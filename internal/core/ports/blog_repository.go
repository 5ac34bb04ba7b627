package ports

import (
	"context"

	"github.com/blogsphere/api/internal/core/domain"
)

// CategoryRepository returns domain.ErrCategoryNotFound for unknown ids and
// domain.ErrCategoryExists on a name collision.
type CategoryRepository interface {
	Create(ctx context.Context, name string) (*domain.Category, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	List(ctx context.Context, page domain.Page) ([]domain.Category, int64, error)
	Rename(ctx context.Context, id int64, name string) (*domain.Category, error)
	// Delete returns domain.ErrCategoryInUse while posts reference the category.
	Delete(ctx context.Context, id int64) error
}

// PostFilter narrows a post listing.
type PostFilter struct {
	CategoryID int64 // zero = any
	UserID     int64 // zero = any
	Page       domain.Page
}

// PostRepository returns domain.ErrPostNotFound for unknown ids and
// domain.ErrPostTitleTaken on a title collision.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	FindByID(ctx context.Context, id int64) (*domain.Post, error)
	Summary(ctx context.Context, id int64) (*domain.PostSummary, error)
	List(ctx context.Context, filter PostFilter) ([]domain.PostSummary, int64, error)
	Update(ctx context.Context, id int64, patch domain.PostUpdate) (*domain.Post, error)
	Delete(ctx context.Context, id int64) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	FindByID(ctx context.Context, id int64) (*domain.Comment, error)
	// ListByPost and ListByUser return newest first.
	ListByPost(ctx context.Context, postID int64, page domain.Page) ([]domain.Comment, error)
	ListByUser(ctx context.Context, userID int64, page domain.Page) ([]domain.Comment, error)
	UpdateContent(ctx context.Context, id int64, content string) (*domain.Comment, error)
	Delete(ctx context.Context, id int64) error
}

// LikeRepository returns domain.ErrAlreadyLiked on a repeated like and
// domain.ErrLikeNotFound when removing a like that does not exist.
type LikeRepository interface {
	Create(ctx context.Context, userID, postID int64) (*domain.Like, error)
	Delete(ctx context.Context, userID, postID int64) error
	ListByPost(ctx context.Context, postID int64, page domain.Page) ([]domain.Like, int64, error)
	ListByUser(ctx context.Context, userID int64, page domain.Page) ([]domain.Like, int64, error)
}

type ViewRepository interface {
	Record(ctx context.Context, view *domain.View) error
	CountByPost(ctx context.Context, postID int64) (int64, error)
}

// ViewDeduplicator reports whether viewerKey has not read postID within the
// current window, marking it as seen.
type ViewDeduplicator interface {
	FirstView(ctx context.Context, postID int64, viewerKey string) (bool, error)
}
