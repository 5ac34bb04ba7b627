package service

import (
	"context"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/ports"
	"github.com/blogsphere/api/internal/metrics"
)

type PostService struct {
	posts      ports.PostRepository
	categories ports.CategoryRepository
	views      ports.ViewRepository
	dedup      ports.ViewDeduplicator
	now        func() time.Time
	log        zerolog.Logger
}

// NewPostService wires the post use cases. dedup may be nil, in which case
// every read records a view.
func NewPostService(
	posts ports.PostRepository,
	categories ports.CategoryRepository,
	views ports.ViewRepository,
	dedup ports.ViewDeduplicator,
	log zerolog.Logger,
) *PostService {
	return &PostService{
		posts:      posts,
		categories: categories,
		views:      views,
		dedup:      dedup,
		now:        time.Now,
		log:        log,
	}
}

// Create requires an authenticated caller, who becomes the owner. There is no
// existing owner to guard against.
func (s *PostService) Create(ctx context.Context, identity *domain.User, in ports.CreatePostInput) (*domain.Post, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	title, err := validateTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if err := validateContent(in.Content); err != nil {
		return nil, err
	}
	if _, err := s.categories.FindByID(ctx, in.CategoryID); err != nil {
		return nil, storeErr(err, "find category")
	}

	now := s.now().UTC()
	post := &domain.Post{
		Title:      title,
		Content:    in.Content,
		UserID:     identity.ID,
		CategoryID: in.CategoryID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, storeErr(err, "create post")
	}

	s.log.Info().Int64("post_id", post.ID).Int64("user_id", identity.ID).Msg("post created")
	return post, nil
}

// Get returns the post with its counters and records a view for the reader.
// View bookkeeping never fails the read.
func (s *PostService) Get(ctx context.Context, id int64, view ports.ViewInput) (*domain.PostSummary, error) {
	summary, err := s.posts.Summary(ctx, id)
	if err != nil {
		return nil, storeErr(err, "get post")
	}

	if s.recordView(ctx, id, view) {
		summary.ViewCount++
	}
	return summary, nil
}

func (s *PostService) recordView(ctx context.Context, postID int64, in ports.ViewInput) bool {
	viewerKey := "ip:" + in.IP
	var userID *int64
	if in.Viewer != nil {
		id := in.Viewer.ID
		userID = &id
		viewerKey = "u:" + strconv.FormatInt(id, 10)
	}

	if s.dedup != nil {
		first, err := s.dedup.FirstView(ctx, postID, viewerKey)
		if err != nil {
			s.log.Warn().Err(err).Int64("post_id", postID).Msg("view dedup unavailable, recording view")
		} else if !first {
			metrics.PostViewsTotal.WithLabelValues("deduplicated").Inc()
			return false
		}
	}

	v := &domain.View{
		UserID:    userID,
		PostID:    postID,
		IPAddress: in.IP,
		ViewedAt:  s.now().UTC(),
	}
	if err := s.views.Record(ctx, v); err != nil {
		s.log.Error().Err(err).Int64("post_id", postID).Msg("failed to record view")
		return false
	}
	metrics.PostViewsTotal.WithLabelValues("recorded").Inc()
	return true
}

func (s *PostService) List(ctx context.Context, filter ports.PostFilter) (domain.Paged[domain.PostSummary], error) {
	filter.Page = filter.Page.Normalize()
	items, total, err := s.posts.List(ctx, filter)
	if err != nil {
		return domain.Paged[domain.PostSummary]{}, storeErr(err, "list posts")
	}
	return domain.NewPaged(items, total, filter.Page), nil
}

// Update applies patch if identity owns the post or is an admin.
func (s *PostService) Update(ctx context.Context, identity *domain.User, id int64, patch domain.PostUpdate) (*domain.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "find post")
	}
	if err := domain.RequireOwnerOrRole(identity, post.UserID, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if patch.Title != nil {
		title, err := validateTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if patch.Content != nil {
		if err := validateContent(*patch.Content); err != nil {
			return nil, err
		}
	}
	if patch.CategoryID != nil {
		if _, err := s.categories.FindByID(ctx, *patch.CategoryID); err != nil {
			return nil, storeErr(err, "find category")
		}
	}

	updated, err := s.posts.Update(ctx, id, patch)
	if err != nil {
		return nil, storeErr(err, "update post")
	}
	return updated, nil
}

func (s *PostService) Delete(ctx context.Context, identity *domain.User, id int64) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "find post")
	}
	if err := domain.RequireOwnerOrRole(identity, post.UserID, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return storeErr(err, "delete post")
	}
	s.log.Info().Int64("post_id", id).Int64("actor_id", identity.ID).Msg("post deleted")
	return nil
}

func (s *PostService) ViewCount(ctx context.Context, id int64) (int64, error) {
	if _, err := s.posts.FindByID(ctx, id); err != nil {
		return 0, storeErr(err, "find post")
	}
	count, err := s.views.CountByPost(ctx, id)
	if err != nil {
		return 0, storeErr(err, "count views")
	}
	return count, nil
}

func validateTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	n := utf8.RuneCountInString(title)
	if n < domain.PostTitleMinLen || n > domain.PostTitleMaxLen {
		return "", domain.InvalidInput("title must be between 3 and 100 characters")
	}
	return title, nil
}

func validateContent(content string) error {
	if utf8.RuneCountInString(strings.TrimSpace(content)) < domain.PostContentMinLen {
		return domain.InvalidInput("content must be at least 10 characters")
	}
	return nil
}
