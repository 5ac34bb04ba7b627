package ports

import (
	"context"

	"github.com/blogsphere/api/internal/core/domain"
)

// Mutating methods take the acting identity explicitly and authorize it
// before writing.

type CategoryService interface {
	Create(ctx context.Context, identity *domain.User, name string) (*domain.Category, error)
	List(ctx context.Context, page domain.Page) (domain.Paged[domain.Category], error)
	Posts(ctx context.Context, categoryID int64, page domain.Page) (domain.Paged[domain.PostSummary], error)
	Rename(ctx context.Context, identity *domain.User, id int64, name string) (*domain.Category, error)
	Delete(ctx context.Context, identity *domain.User, id int64) error
}

// CreatePostInput is the payload of a new post.
type CreatePostInput struct {
	Title      string
	Content    string
	CategoryID int64
}

// ViewInput identifies the reader of a post. Viewer is nil for anonymous reads.
type ViewInput struct {
	Viewer *domain.User
	IP     string
}

type PostService interface {
	Create(ctx context.Context, identity *domain.User, in CreatePostInput) (*domain.Post, error)
	Get(ctx context.Context, id int64, view ViewInput) (*domain.PostSummary, error)
	List(ctx context.Context, filter PostFilter) (domain.Paged[domain.PostSummary], error)
	Update(ctx context.Context, identity *domain.User, id int64, patch domain.PostUpdate) (*domain.Post, error)
	Delete(ctx context.Context, identity *domain.User, id int64) error
	ViewCount(ctx context.Context, id int64) (int64, error)
}

type CommentService interface {
	Create(ctx context.Context, identity *domain.User, postID int64, content string) (*domain.Comment, error)
	ListByPost(ctx context.Context, postID int64, page domain.Page) ([]domain.Comment, error)
	ListByUser(ctx context.Context, userID int64, page domain.Page) ([]domain.Comment, error)
	Update(ctx context.Context, identity *domain.User, id int64, content string) (*domain.Comment, error)
	Delete(ctx context.Context, identity *domain.User, id int64) error
}

type LikeService interface {
	Like(ctx context.Context, identity *domain.User, postID int64) (*domain.Like, error)
	Unlike(ctx context.Context, identity *domain.User, postID int64) error
	ForPost(ctx context.Context, postID int64, page domain.Page) (*domain.PostLikes, error)
	ByUser(ctx context.Context, userID int64, page domain.Page) (domain.Paged[domain.Like], error)
}
