package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/ports"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0).UTC()}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// ---------------------------------------------------------------------------
// credential store

type stubUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
	err    error
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{users: make(map[int64]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserStore) Create(_ context.Context, username, hash string, role domain.Role) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			return nil, domain.ErrDuplicateUsername
		}
	}
	r.nextID++
	u := &domain.User{ID: r.nextID, Username: username, PasswordHash: hash, Role: role, CreatedAt: time.Now().UTC()}
	r.users[u.ID] = u
	return cloneUser(u), nil
}

func (r *stubUserStore) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserStore) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *stubUserStore) UpdateRole(_ context.Context, id int64, role domain.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

func (r *stubUserStore) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *stubUserStore) List(_ context.Context, page domain.Page) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, page), int64(len(all)), nil
}

func window[T any](items []T, page domain.Page) []T {
	if page.Skip >= len(items) {
		return nil
	}
	end := page.Skip + page.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[page.Skip:end]
}

// ---------------------------------------------------------------------------
// blog repositories

type stubCategoryRepo struct {
	items map[int64]*domain.Category
	inUse map[int64]bool
	next  int64
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{items: map[int64]*domain.Category{}, inUse: map[int64]bool{}}
}

func (r *stubCategoryRepo) Create(_ context.Context, name string) (*domain.Category, error) {
	for _, c := range r.items {
		if c.Name == name {
			return nil, domain.ErrCategoryExists
		}
	}
	r.next++
	c := &domain.Category{ID: r.next, Name: name}
	r.items[c.ID] = c
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) List(_ context.Context, page domain.Page) ([]domain.Category, int64, error) {
	all := make([]domain.Category, 0, len(r.items))
	for _, c := range r.items {
		all = append(all, *c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, page), int64(len(all)), nil
}

func (r *stubCategoryRepo) Rename(_ context.Context, id int64, name string) (*domain.Category, error) {
	c, ok := r.items[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	c.Name = name
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	if r.inUse[id] {
		return domain.ErrCategoryInUse
	}
	delete(r.items, id)
	return nil
}

type stubPostRepo struct {
	items map[int64]*domain.Post
	next  int64
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{items: map[int64]*domain.Post{}}
}

func (r *stubPostRepo) Create(_ context.Context, post *domain.Post) error {
	for _, p := range r.items {
		if p.Title == post.Title {
			return domain.ErrPostTitleTaken
		}
	}
	r.next++
	post.ID = r.next
	clone := *post
	r.items[post.ID] = &clone
	return nil
}

func (r *stubPostRepo) FindByID(_ context.Context, id int64) (*domain.Post, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *stubPostRepo) Summary(ctx context.Context, id int64) (*domain.PostSummary, error) {
	p, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.PostSummary{Post: *p}, nil
}

func (r *stubPostRepo) List(_ context.Context, f ports.PostFilter) ([]domain.PostSummary, int64, error) {
	var all []domain.PostSummary
	for _, p := range r.items {
		if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
			continue
		}
		if f.UserID != 0 && p.UserID != f.UserID {
			continue
		}
		all = append(all, domain.PostSummary{Post: *p})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, f.Page), int64(len(all)), nil
}

func (r *stubPostRepo) Update(_ context.Context, id int64, patch domain.PostUpdate) (*domain.Post, error) {
	p, ok := r.items[id]
	if !ok {
		return nil, domain.ErrPostNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Content != nil {
		p.Content = *patch.Content
	}
	if patch.CategoryID != nil {
		p.CategoryID = *patch.CategoryID
	}
	clone := *p
	return &clone, nil
}

func (r *stubPostRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrPostNotFound
	}
	delete(r.items, id)
	return nil
}

type stubViewRepo struct {
	views []domain.View
	err   error
}

func (r *stubViewRepo) Record(_ context.Context, v *domain.View) error {
	if r.err != nil {
		return r.err
	}
	v.ID = int64(len(r.views) + 1)
	r.views = append(r.views, *v)
	return nil
}

func (r *stubViewRepo) CountByPost(_ context.Context, postID int64) (int64, error) {
	var n int64
	for _, v := range r.views {
		if v.PostID == postID {
			n++
		}
	}
	return n, nil
}

type stubDedup struct {
	seen map[string]bool
	err  error
}

func (d *stubDedup) FirstView(_ context.Context, postID int64, viewerKey string) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	key := fmt.Sprintf("%d|%s", postID, viewerKey)
	if d.seen[key] {
		return false, nil
	}
	d.seen[key] = true
	return true, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func (p *recordingPublisher) Publish(e domain.ActivityEvent) {
	p.mu.Lock()
	p.events = append(p.events, e)
	p.mu.Unlock()
}

func (p *recordingPublisher) kinds() []domain.ActivityKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.ActivityKind, len(p.events))
	for i, e := range p.events {
		out[i] = e.Kind
	}
	return out
}
