package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/service"
	"github.com/blogsphere/api/internal/infrastructure/db/sqlite"
)

type testServer struct {
	t     *testing.T
	srv   http.Handler
	users *service.UserService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := zerolog.Nop()
	users := sqlite.NewUserRepository(db)
	categories := sqlite.NewCategoryRepository(db)
	posts := sqlite.NewPostRepository(db)
	comments := sqlite.NewCommentRepository(db)
	likes := sqlite.NewLikeRepository(db)
	views := sqlite.NewViewRepository(db)

	hasher := service.NewBcryptHasher(4)
	codec := service.NewJWTCodec([]byte("0123456789abcdef0123456789abcdef"), time.Now)
	resolver := service.NewSessionResolver(codec, users, log)
	userService := service.NewUserService(users, hasher, nil, log)

	e := NewRouter(Dependencies{
		Auth:       service.NewAuthService(users, hasher, codec, resolver, service.AuthConfig{}, nil, log),
		Users:      userService,
		Categories: service.NewCategoryService(categories, posts, log),
		Posts:      service.NewPostService(posts, categories, views, nil, log),
		Comments:   service.NewCommentService(comments, posts, users, log),
		Likes:      service.NewLikeService(likes, posts, users, log),
		Sessions:   resolver,
		Registerer: prometheus.NewRegistry(),
		Gatherer:   prometheus.NewRegistry(),
		Log:        log,
	})
	return &testServer{t: t, srv: e, users: userService}
}

func (s *testServer) do(method, path, token, body string) *httptest.ResponseRecorder {
	s.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.srv.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(username, password, scope string) domain.TokenPair {
	s.t.Helper()
	form := url.Values{"username": {username}, "password": {password}, "scope": {scope}}
	req := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.srv.ServeHTTP(rec, req)
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var pair domain.TokenPair
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &pair))
	return pair
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRouter_AuthFlow(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/auth/register", "", `{"username":"alice","password":"wonderland"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/auth/register", "", `{"username":"alice","password":"wonderland"}`)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodPost, "/auth/login", "", `{"username":"alice","password":"nope-nope"}`)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
	require.Equal(t, "incorrect username or password", decode[map[string]string](t, rec)["error"])

	pair := s.login("alice", "wonderland", "")
	require.Equal(t, "bearer", pair.TokenType)

	rec = s.do(http.MethodGet, "/users/me", pair.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "alice", decode[domain.User](t, rec).Username)

	// A refresh token is not an access token.
	rec = s.do(http.MethodGet, "/users/me", pair.RefreshToken, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/auth/refresh", pair.RefreshToken, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	refreshed := decode[domain.TokenPair](t, rec)
	require.NotEmpty(t, refreshed.AccessToken)

	rec = s.do(http.MethodPost, "/auth/refresh", pair.AccessToken, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodGet, "/users/me", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestRouter_AdminScopes(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/auth/register", "", `{"username":"alice","password":"wonderland"}`).Code)
	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/auth/register", "", `{"username":"root","password":"superuser"}`).Code)
	_, err := s.users.SetRole(ctx, "root", domain.RoleAdmin)
	require.NoError(t, err)

	alice := s.login("alice", "wonderland", "")
	rec := s.do(http.MethodPost, "/categories", alice.AccessToken, `{"name":"go"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, `Bearer scope="admin"`, rec.Header().Get("WWW-Authenticate"))

	rec = s.do(http.MethodGet, "/users", alice.AccessToken, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	// An admin who asked only for the user scope cannot manage categories.
	narrow := s.login("root", "superuser", "user")
	rec = s.do(http.MethodPost, "/categories", narrow.AccessToken, `{"name":"go"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	admin := s.login("root", "superuser", "")
	rec = s.do(http.MethodPost, "/categories", admin.AccessToken, `{"name":"go"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/users", admin.AccessToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.EqualValues(t, 2, decode[domain.Paged[domain.User]](t, rec).Total)
}

func TestRouter_BlogFlow(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	for _, body := range []string{
		`{"username":"alice","password":"wonderland"}`,
		`{"username":"bob","password":"builder1"}`,
		`{"username":"root","password":"superuser"}`,
	} {
		require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/auth/register", "", body).Code)
	}
	_, err := s.users.SetRole(ctx, "root", domain.RoleAdmin)
	require.NoError(t, err)

	alice := s.login("alice", "wonderland", "").AccessToken
	bob := s.login("bob", "builder1", "").AccessToken
	admin := s.login("root", "superuser", "").AccessToken

	rec := s.do(http.MethodPost, "/categories", admin, `{"name":"golang"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	category := decode[domain.Category](t, rec)

	rec = s.do(http.MethodPost, "/posts", alice, `{"title":"Hello world","content":"first post body","category_id":`+itoa(category.ID)+`}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decode[domain.Post](t, rec)
	postPath := "/posts/" + itoa(post.ID)

	rec = s.do(http.MethodPost, "/posts", alice, `{"title":"Orphan","content":"no such category","category_id":999}`)
	require.Equal(t, http.StatusNotFound, rec.Code)

	// Owner-or-admin.
	require.Equal(t, http.StatusForbidden, s.do(http.MethodPatch, postPath, bob, `{"title":"Hijacked"}`).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPatch, postPath, alice, `{"title":"Hello again"}`).Code)

	// Anonymous read records a view.
	rec = s.do(http.MethodGet, postPath, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Hello again", decode[domain.PostSummary](t, rec).Title)
	rec = s.do(http.MethodGet, postPath+"/views", "", "")
	require.EqualValues(t, 1, decode[map[string]int64](t, rec)["view_count"])

	rec = s.do(http.MethodPost, "/comments", bob, `{"post_id":`+itoa(post.ID)+`,"content":"nice one"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	comment := decode[domain.Comment](t, rec)
	require.Equal(t, http.StatusForbidden, s.do(http.MethodDelete, "/comments/"+itoa(comment.ID), alice, "").Code)
	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/comments/"+itoa(comment.ID), admin, "").Code)

	require.Equal(t, http.StatusCreated, s.do(http.MethodPost, "/likes"+postPath, bob, "").Code)
	require.Equal(t, http.StatusConflict, s.do(http.MethodPost, "/likes"+postPath, bob, "").Code)
	rec = s.do(http.MethodGet, "/likes"+postPath, "", "")
	require.EqualValues(t, 1, decode[domain.PostLikes](t, rec).LikeCount)
	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/likes"+postPath, bob, "").Code)
	require.Equal(t, http.StatusNotFound, s.do(http.MethodDelete, "/likes"+postPath, bob, "").Code)

	// Categories with posts cannot be removed.
	require.Equal(t, http.StatusConflict, s.do(http.MethodDelete, "/categories/"+itoa(category.ID), admin, "").Code)

	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, postPath, alice, "").Code)
	require.Equal(t, http.StatusNotFound, s.do(http.MethodGet, postPath, "", "").Code)

	// Deleting the account invalidates its tokens.
	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/users/me", bob, "").Code)
	require.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/users/me", bob, "").Code)
}

func TestRouter_PublicReadsIgnoreBasicAuth(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/posts", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()
	s.srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.EqualValues(t, 0, decode[domain.Paged[domain.PostSummary]](t, rec).Total)
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/metrics", "", "").Code)
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
