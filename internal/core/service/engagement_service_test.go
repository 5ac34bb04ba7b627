package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/rs/zerolog"

	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/ports"
)

type stubCommentRepo struct {
	items map[int64]*domain.Comment
	next  int64
}

func (r *stubCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	if r.items == nil {
		r.items = map[int64]*domain.Comment{}
	}
	r.next++
	c.ID = r.next
	clone := *c
	r.items[c.ID] = &clone
	return nil
}

func (r *stubCommentRepo) FindByID(_ context.Context, id int64) (*domain.Comment, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCommentRepo) list(match func(*domain.Comment) bool, page domain.Page) []domain.Comment {
	var out []domain.Comment
	for _, c := range r.items {
		if match(c) {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return window(out, page)
}

func (r *stubCommentRepo) ListByPost(_ context.Context, postID int64, page domain.Page) ([]domain.Comment, error) {
	return r.list(func(c *domain.Comment) bool { return c.PostID == postID }, page), nil
}

func (r *stubCommentRepo) ListByUser(_ context.Context, userID int64, page domain.Page) ([]domain.Comment, error) {
	return r.list(func(c *domain.Comment) bool { return c.UserID == userID }, page), nil
}

func (r *stubCommentRepo) UpdateContent(_ context.Context, id int64, content string) (*domain.Comment, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrCommentNotFound
	}
	c.Content = content
	clone := *c
	return &clone, nil
}

func (r *stubCommentRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrCommentNotFound
	}
	delete(r.items, id)
	return nil
}

type stubLikeRepo struct {
	likes []domain.Like
}

func (r *stubLikeRepo) Create(_ context.Context, userID, postID int64) (*domain.Like, error) {
	for _, l := range r.likes {
		if l.UserID == userID && l.PostID == postID {
			return nil, domain.ErrAlreadyLiked
		}
	}
	l := domain.Like{ID: int64(len(r.likes) + 1), UserID: userID, PostID: postID}
	r.likes = append(r.likes, l)
	return &l, nil
}

func (r *stubLikeRepo) Delete(_ context.Context, userID, postID int64) error {
	for i, l := range r.likes {
		if l.UserID == userID && l.PostID == postID {
			r.likes = append(r.likes[:i], r.likes[i+1:]...)
			return nil
		}
	}
	return domain.ErrLikeNotFound
}

func (r *stubLikeRepo) filter(match func(domain.Like) bool, page domain.Page) ([]domain.Like, int64, error) {
	var out []domain.Like
	for _, l := range r.likes {
		if match(l) {
			out = append(out, l)
		}
	}
	return window(out, page), int64(len(out)), nil
}

func (r *stubLikeRepo) ListByPost(_ context.Context, postID int64, page domain.Page) ([]domain.Like, int64, error) {
	return r.filter(func(l domain.Like) bool { return l.PostID == postID }, page)
}

func (r *stubLikeRepo) ListByUser(_ context.Context, userID int64, page domain.Page) ([]domain.Like, int64, error) {
	return r.filter(func(l domain.Like) bool { return l.UserID == userID }, page)
}

type engagementFixture struct {
	*blogFixture
	users    *stubUserStore
	comments *CommentService
	likes    *LikeService
	postID   int64
}

func newEngagementFixture(t *testing.T) *engagementFixture {
	t.Helper()
	blog := newBlogFixture(t)
	users := newStubUserStore()
	for _, u := range []*domain.User{testAlice, testBob, testAdmin} {
		if _, err := users.Create(context.Background(), u.Username, "hash", u.Role); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	post := blog.seedPost(t, testAlice, "post under discussion")
	return &engagementFixture{
		blogFixture: blog,
		users:       users,
		comments:    NewCommentService(&stubCommentRepo{}, blog.posts, users, zerolog.Nop()),
		likes:       NewLikeService(&stubLikeRepo{}, blog.posts, users, zerolog.Nop()),
		postID:      post.ID,
	}
}

// ---------------------------------------------------------------------------
// comments

func TestCommentService_Lifecycle(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()

	c, err := f.comments.Create(ctx, testBob, f.postID, "  nice post  ")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if c.Content != "nice post" || c.UserID != testBob.ID {
		t.Fatalf("unexpected comment: %+v", c)
	}
	if _, err := f.comments.Create(ctx, testBob, 999, "orphan"); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
	if _, err := f.comments.Create(ctx, testBob, f.postID, ""); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	if _, err := f.comments.Update(ctx, testAlice, c.ID, "hijacked"); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.comments.Update(ctx, testBob, c.ID, "edited"); err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if err := f.comments.Delete(ctx, testAdmin, c.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}

	list, err := f.comments.ListByPost(ctx, f.postID, domain.Page{})
	if err != nil || len(list) != 0 {
		t.Fatalf("expected empty list, got %v, %v", list, err)
	}
}

func TestCreateIsOwnedByCaller(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()

	in := ports.CreatePostInput{Title: "anonymous post", Content: "long enough body", CategoryID: 1}
	if _, err := f.post.Create(ctx, nil, in); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated for post, got %v", err)
	}
	if _, err := f.comments.Create(ctx, nil, f.postID, "hello"); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated for comment, got %v", err)
	}

	post, err := f.post.Create(ctx, testAdmin, in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if post.UserID != testAdmin.ID {
		t.Fatalf("expected post owned by caller, got user %d", post.UserID)
	}
	// Only the owner or an admin may change it afterwards.
	title := "renamed by bob"
	if _, err := f.post.Update(ctx, testBob, post.ID, domain.PostUpdate{Title: &title}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	c, err := f.comments.Create(ctx, testBob, post.ID, "first")
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if c.UserID != testBob.ID {
		t.Fatalf("expected comment owned by caller, got user %d", c.UserID)
	}
}

func TestCommentService_ListByUnknownUser(t *testing.T) {
	f := newEngagementFixture(t)

	if _, err := f.comments.ListByUser(context.Background(), 77, domain.Page{}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// likes

func TestLikeService_OneLikePerUser(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()

	if _, err := f.likes.Like(ctx, testBob, f.postID); err != nil {
		t.Fatalf("Like returned error: %v", err)
	}
	if _, err := f.likes.Like(ctx, testBob, f.postID); err != domain.ErrAlreadyLiked {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}
	if _, err := f.likes.Like(ctx, testAdmin, f.postID); err != nil {
		t.Fatalf("Like returned error: %v", err)
	}

	summary, err := f.likes.ForPost(ctx, f.postID, domain.Page{})
	if err != nil {
		t.Fatalf("ForPost returned error: %v", err)
	}
	if summary.LikeCount != 2 || len(summary.Likes) != 2 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	if err := f.likes.Unlike(ctx, testBob, f.postID); err != nil {
		t.Fatalf("Unlike returned error: %v", err)
	}
	if err := f.likes.Unlike(ctx, testBob, f.postID); err != domain.ErrLikeNotFound {
		t.Fatalf("expected ErrLikeNotFound, got %v", err)
	}
}

func TestLikeService_ByUser(t *testing.T) {
	f := newEngagementFixture(t)
	ctx := context.Background()

	if _, err := f.likes.Like(ctx, testBob, f.postID); err != nil {
		t.Fatalf("Like returned error: %v", err)
	}
	page, err := f.likes.ByUser(ctx, testBob.ID, domain.Page{})
	if err != nil {
		t.Fatalf("ByUser returned error: %v", err)
	}
	if page.Total != 1 || page.Pages != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if _, err := f.likes.ByUser(ctx, 77, domain.Page{}); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
