package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/ports"
)

type CommentService struct {
	comments ports.CommentRepository
	posts    ports.PostRepository
	users    ports.CredentialStore
	now      func() time.Time
	log      zerolog.Logger
}

func NewCommentService(comments ports.CommentRepository, posts ports.PostRepository, users ports.CredentialStore, log zerolog.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, users: users, now: time.Now, log: log}
}

// Create attaches a comment owned by the caller to an existing post.
func (s *CommentService) Create(ctx context.Context, identity *domain.User, postID int64, content string) (*domain.Comment, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	content, err := validateComment(content)
	if err != nil {
		return nil, err
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, storeErr(err, "find post")
	}

	comment := &domain.Comment{
		Content:   content,
		UserID:    identity.ID,
		PostID:    postID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storeErr(err, "create comment")
	}
	return comment, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID int64, page domain.Page) ([]domain.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, storeErr(err, "find post")
	}
	comments, err := s.comments.ListByPost(ctx, postID, page.Normalize())
	if err != nil {
		return nil, storeErr(err, "list comments")
	}
	return nonNil(comments), nil
}

func (s *CommentService) ListByUser(ctx context.Context, userID int64, page domain.Page) ([]domain.Comment, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, storeErr(err, "find user")
	}
	comments, err := s.comments.ListByUser(ctx, userID, page.Normalize())
	if err != nil {
		return nil, storeErr(err, "list comments")
	}
	return nonNil(comments), nil
}

func (s *CommentService) Update(ctx context.Context, identity *domain.User, id int64, content string) (*domain.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "find comment")
	}
	if err := domain.RequireOwnerOrRole(identity, comment.UserID, domain.RoleAdmin); err != nil {
		return nil, err
	}
	content, err = validateComment(content)
	if err != nil {
		return nil, err
	}
	updated, err := s.comments.UpdateContent(ctx, id, content)
	if err != nil {
		return nil, storeErr(err, "update comment")
	}
	return updated, nil
}

func (s *CommentService) Delete(ctx context.Context, identity *domain.User, id int64) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return storeErr(err, "find comment")
	}
	if err := domain.RequireOwnerOrRole(identity, comment.UserID, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return storeErr(err, "delete comment")
	}
	return nil
}

func validateComment(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > domain.CommentMaxLen {
		return "", domain.InvalidInput("comment must be between 1 and 150 characters")
	}
	return content, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
