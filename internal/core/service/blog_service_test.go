package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/ports"
)

var (
	testAlice = &domain.User{ID: 1, Username: "alice", Role: domain.RoleUser}
	testBob   = &domain.User{ID: 2, Username: "bob", Role: domain.RoleUser}
	testAdmin = &domain.User{ID: 3, Username: "root", Role: domain.RoleAdmin}
)

type blogFixture struct {
	categories *stubCategoryRepo
	posts      *stubPostRepo
	views      *stubViewRepo
	dedup      *stubDedup
	category   *CategoryService
	post       *PostService
}

func newBlogFixture(t *testing.T) *blogFixture {
	t.Helper()
	f := &blogFixture{
		categories: newStubCategoryRepo(),
		posts:      newStubPostRepo(),
		views:      &stubViewRepo{},
		dedup:      &stubDedup{},
	}
	f.category = NewCategoryService(f.categories, f.posts, zerolog.Nop())
	f.post = NewPostService(f.posts, f.categories, f.views, f.dedup, zerolog.Nop())
	if _, err := f.category.Create(context.Background(), testAdmin, "golang"); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return f
}

func (f *blogFixture) seedPost(t *testing.T, owner *domain.User, title string) *domain.Post {
	t.Helper()
	post, err := f.post.Create(context.Background(), owner, ports.CreatePostInput{
		Title:      title,
		Content:    "a body that is long enough",
		CategoryID: 1,
	})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	return post
}

// ---------------------------------------------------------------------------
// categories

func TestCategoryService_RequiresAdmin(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	if _, err := f.category.Create(ctx, testAlice, "rust"); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.category.Rename(ctx, testAlice, 1, "go"); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.category.Delete(ctx, nil, 1); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCategoryService_Validation(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	if _, err := f.category.Create(ctx, testAdmin, "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.category.Create(ctx, testAdmin, strings.Repeat("x", 31)); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := f.category.Create(ctx, testAdmin, "golang"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestCategoryService_DeleteInUse(t *testing.T) {
	f := newBlogFixture(t)
	f.categories.inUse[1] = true

	err := f.category.Delete(context.Background(), testAdmin, 1)
	if !errors.Is(err, domain.ErrCategoryInUse) || !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected ErrCategoryInUse, got %v", err)
	}
}

func TestCategoryService_Posts(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	f.seedPost(t, testAlice, "first post")
	f.seedPost(t, testBob, "second post")

	page, err := f.category.Posts(ctx, 1, domain.Page{})
	if err != nil {
		t.Fatalf("Posts returned error: %v", err)
	}
	if page.Total != 2 || page.Items[0].Title != "second post" {
		t.Fatalf("unexpected page: %+v", page)
	}
	if _, err := f.category.Posts(ctx, 42, domain.Page{}); err != domain.ErrCategoryNotFound {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// posts

func TestPostService_Create(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()

	post := f.seedPost(t, testAlice, "  hello world  ")
	if post.UserID != testAlice.ID || post.Title != "hello world" {
		t.Fatalf("unexpected post: %+v", post)
	}

	_, err := f.post.Create(ctx, testAlice, ports.CreatePostInput{Title: "x", Content: "long enough body", CategoryID: 1})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short title, got %v", err)
	}
	_, err = f.post.Create(ctx, testAlice, ports.CreatePostInput{Title: "fine title", Content: "short", CategoryID: 1})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short content, got %v", err)
	}
	_, err = f.post.Create(ctx, testAlice, ports.CreatePostInput{Title: "fine title", Content: "long enough body", CategoryID: 9})
	if err != domain.ErrCategoryNotFound {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	_, err = f.post.Create(ctx, testBob, ports.CreatePostInput{Title: "hello world", Content: "long enough body", CategoryID: 1})
	if err != domain.ErrPostTitleTaken {
		t.Fatalf("expected ErrPostTitleTaken, got %v", err)
	}
}

func TestPostService_OwnerOrAdmin(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	post := f.seedPost(t, testAlice, "owned by alice")
	title := "edited title"

	if _, err := f.post.Update(ctx, testBob, post.ID, domain.PostUpdate{Title: &title}); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	updated, err := f.post.Update(ctx, testAlice, post.ID, domain.PostUpdate{Title: &title})
	if err != nil || updated.Title != title {
		t.Fatalf("owner update failed: %+v, %v", updated, err)
	}
	if err := f.post.Delete(ctx, testBob, post.ID); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}
	if err := f.post.Delete(ctx, testAdmin, post.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if err := f.post.Delete(ctx, testAdmin, post.ID); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}

func TestPostService_GetRecordsDedupedViews(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	post := f.seedPost(t, testAlice, "viewed post")

	first, err := f.post.Get(ctx, post.ID, ports.ViewInput{Viewer: testBob, IP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if first.ViewCount != 1 {
		t.Fatalf("expected view count 1, got %d", first.ViewCount)
	}
	if _, err := f.post.Get(ctx, post.ID, ports.ViewInput{Viewer: testBob, IP: "10.0.0.2"}); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if _, err := f.post.Get(ctx, post.ID, ports.ViewInput{IP: "10.0.0.9"}); err != nil {
		t.Fatalf("Get returned error: %v", err)
	}

	count, err := f.post.ViewCount(ctx, post.ID)
	if err != nil {
		t.Fatalf("ViewCount returned error: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 recorded views, got %d", count)
	}
	if f.views.views[0].UserID == nil || *f.views.views[0].UserID != testBob.ID {
		t.Fatalf("expected viewer id on first view")
	}
	if f.views.views[1].UserID != nil {
		t.Fatalf("expected anonymous second view")
	}
}

func TestPostService_ViewFailuresDoNotFailRead(t *testing.T) {
	f := newBlogFixture(t)
	ctx := context.Background()
	post := f.seedPost(t, testAlice, "fragile post")

	f.dedup.err = errors.New("redis down")
	if _, err := f.post.Get(ctx, post.ID, ports.ViewInput{IP: "10.0.0.1"}); err != nil {
		t.Fatalf("dedup failure leaked: %v", err)
	}
	if len(f.views.views) != 1 {
		t.Fatalf("expected view recorded without dedup, got %d", len(f.views.views))
	}

	f.views.err = errors.New("database is locked")
	summary, err := f.post.Get(ctx, post.ID, ports.ViewInput{IP: "10.0.0.1"})
	if err != nil {
		t.Fatalf("view store failure leaked: %v", err)
	}
	if summary.ViewCount != 0 {
		t.Fatalf("expected unrecorded view not to be counted, got %d", summary.ViewCount)
	}
	if _, err := f.post.Get(ctx, 404, ports.ViewInput{}); err != domain.ErrPostNotFound {
		t.Fatalf("expected ErrPostNotFound, got %v", err)
	}
}
