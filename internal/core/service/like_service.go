package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/ports"
)

type LikeService struct {
	likes ports.LikeRepository
	posts ports.PostRepository
	users ports.CredentialStore
	log   zerolog.Logger
}

func NewLikeService(likes ports.LikeRepository, posts ports.PostRepository, users ports.CredentialStore, log zerolog.Logger) *LikeService {
	return &LikeService{likes: likes, posts: posts, users: users, log: log}
}

// Like records identity's like on postID. A second like on the same post
// fails with domain.ErrAlreadyLiked.
func (s *LikeService) Like(ctx context.Context, identity *domain.User, postID int64) (*domain.Like, error) {
	if identity == nil {
		return nil, domain.ErrUnauthenticated
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, storeErr(err, "find post")
	}
	like, err := s.likes.Create(ctx, identity.ID, postID)
	if err != nil {
		return nil, storeErr(err, "like post")
	}
	return like, nil
}

func (s *LikeService) Unlike(ctx context.Context, identity *domain.User, postID int64) error {
	if identity == nil {
		return domain.ErrUnauthenticated
	}
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return storeErr(err, "find post")
	}
	return storeErr(s.likes.Delete(ctx, identity.ID, postID), "unlike post")
}

func (s *LikeService) ForPost(ctx context.Context, postID int64, page domain.Page) (*domain.PostLikes, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, storeErr(err, "find post")
	}
	likes, total, err := s.likes.ListByPost(ctx, postID, page.Normalize())
	if err != nil {
		return nil, storeErr(err, "list likes")
	}
	return &domain.PostLikes{PostID: postID, LikeCount: total, Likes: nonNil(likes)}, nil
}

func (s *LikeService) ByUser(ctx context.Context, userID int64, page domain.Page) (domain.Paged[domain.Like], error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return domain.Paged[domain.Like]{}, storeErr(err, "find user")
	}
	page = page.Normalize()
	likes, total, err := s.likes.ListByUser(ctx, userID, page)
	if err != nil {
		return domain.Paged[domain.Like]{}, storeErr(err, "list likes")
	}
	return domain.NewPaged(likes, total, page), nil
}
