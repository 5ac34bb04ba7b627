package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogsphere/api/internal/core/ports"
)

type LikeHandler struct {
	likes ports.LikeService
}

func NewLikeHandler(likes ports.LikeService) *LikeHandler {
	return &LikeHandler{likes: likes}
}

// Like records the caller's like on a post.
//
// @Summary      Like a post
// @Tags         likes
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Post ID"
// @Success      201  {object}  domain.Like
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /likes/posts/{id} [post]
func (h *LikeHandler) Like(c echo.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	like, err := h.likes.Like(c.Request().Context(), user, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, like)
}

// Unlike removes the caller's like from a post.
//
// @Summary      Remove a like
// @Tags         likes
// @Security     BearerAuth
// @Param        id   path  int  true  "Post ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /likes/posts/{id} [delete]
func (h *LikeHandler) Unlike(c echo.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.likes.Unlike(c.Request().Context(), user, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ForPost lists a post's likes with the total count.
//
// @Summary      Likes on a post
// @Tags         likes
// @Produce      json
// @Param        id     path      int  true   "Post ID"
// @Param        skip   query     int  false  "Offset"
// @Param        limit  query     int  false  "Page size (1-100)"
// @Success      200    {object}  domain.PostLikes
// @Failure      404    {object}  map[string]string
// @Router       /likes/posts/{id} [get]
func (h *LikeHandler) ForPost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	likes, err := h.likes.ForPost(c.Request().Context(), id, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likes)
}

// ByUser pages through the likes a user has given.
//
// @Summary      Likes by a user
// @Tags         likes
// @Produce      json
// @Param        id     path      int  true   "User ID"
// @Param        skip   query     int  false  "Offset"
// @Param        limit  query     int  false  "Page size (1-100)"
// @Success      200    {object}  domain.Paged[domain.Like]
// @Failure      404    {object}  map[string]string
// @Router       /likes/users/{id} [get]
func (h *LikeHandler) ByUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	likes, err := h.likes.ByUser(c.Request().Context(), id, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, likes)
}
