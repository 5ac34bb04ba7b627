package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogsphere/api/internal/api/middleware"
	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/ports"
)

type PostHandler struct {
	posts ports.PostService
}

func NewPostHandler(posts ports.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

type createPostRequest struct {
	Title      string `json:"title"       validate:"required,min=3,max=100"`
	Content    string `json:"content"     validate:"required,min=10"`
	CategoryID int64  `json:"category_id" validate:"required,gt=0"`
}

type updatePostRequest struct {
	Title      *string `json:"title"       validate:"omitempty,min=3,max=100"`
	Content    *string `json:"content"     validate:"omitempty,min=10"`
	CategoryID *int64  `json:"category_id" validate:"omitempty,gt=0"`
}

type viewCountResponse struct {
	PostID    int64 `json:"post_id"`
	ViewCount int64 `json:"view_count"`
}

// Create publishes a post owned by the caller.
//
// @Summary      Create post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPostRequest  true  "Post"
// @Success      201   {object}  domain.Post
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /posts [post]
func (h *PostHandler) Create(c echo.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}
	var req createPostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.posts.Create(c.Request().Context(), user, ports.CreatePostInput{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, post)
}

// List pages through posts, optionally filtered by category or author.
//
// @Summary      List posts
// @Tags         posts
// @Produce      json
// @Param        category_id  query     int  false  "Category filter"
// @Param        user_id      query     int  false  "Author filter"
// @Param        skip         query     int  false  "Offset"
// @Param        limit        query     int  false  "Page size (1-100)"
// @Success      200          {object}  domain.Paged[domain.PostSummary]
// @Router       /posts [get]
func (h *PostHandler) List(c echo.Context) error {
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	filter := ports.PostFilter{Page: page}
	err = echo.QueryParamsBinder(c).
		Int64("category_id", &filter.CategoryID).
		Int64("user_id", &filter.UserID).
		BindError()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "category_id and user_id must be integers")
	}

	result, err := h.posts.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get returns one post with its counters and records a view.
//
// @Summary      Get post
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  domain.PostSummary
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [get]
func (h *PostHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	post, err := h.posts.Get(c.Request().Context(), id, ports.ViewInput{
		Viewer: middleware.CurrentIdentity(c),
		IP:     c.RealIP(),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Update applies a partial edit to a post. Owner or admin only.
//
// @Summary      Update post
// @Tags         posts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                true  "Post ID"
// @Param        body  body      updatePostRequest  true  "Fields to change"
// @Success      200   {object}  domain.Post
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /posts/{id} [patch]
func (h *PostHandler) Update(c echo.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	post, err := h.posts.Update(c.Request().Context(), user, id, domain.PostUpdate{
		Title:      req.Title,
		Content:    req.Content,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// Delete removes a post and its comments, likes and views. Owner or admin only.
//
// @Summary      Delete post
// @Tags         posts
// @Security     BearerAuth
// @Param        id   path  int  true  "Post ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id} [delete]
func (h *PostHandler) Delete(c echo.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.posts.Delete(c.Request().Context(), user, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Views returns how many times a post was viewed.
//
// @Summary      Post view count
// @Tags         posts
// @Produce      json
// @Param        id   path      int  true  "Post ID"
// @Success      200  {object}  viewCountResponse
// @Failure      404  {object}  map[string]string
// @Router       /posts/{id}/views [get]
func (h *PostHandler) Views(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	n, err := h.posts.ViewCount(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, viewCountResponse{PostID: id, ViewCount: n})
}
