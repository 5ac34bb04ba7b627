package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogsphere/api/internal/core/ports"
)

type CommentHandler struct {
	comments ports.CommentService
}

func NewCommentHandler(comments ports.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

type createCommentRequest struct {
	PostID  int64  `json:"post_id" validate:"required,gt=0"`
	Content string `json:"content" validate:"required,max=150"`
}

type updateCommentRequest struct {
	Content string `json:"content" validate:"required,max=150"`
}

// Create adds a comment by the caller to a post.
//
// @Summary      Comment on a post
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCommentRequest  true  "Comment"
// @Success      201   {object}  domain.Comment
// @Failure      404   {object}  map[string]string
// @Router       /comments [post]
func (h *CommentHandler) Create(c echo.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}
	var req createCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Create(c.Request().Context(), user, req.PostID, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, comment)
}

// ByPost lists a post's comments, newest first.
//
// @Summary      Comments on a post
// @Tags         comments
// @Produce      json
// @Param        id     path      int  true   "Post ID"
// @Param        skip   query     int  false  "Offset"
// @Param        limit  query     int  false  "Page size (1-100)"
// @Success      200    {array}   domain.Comment
// @Failure      404    {object}  map[string]string
// @Router       /comments/post/{id} [get]
func (h *CommentHandler) ByPost(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	comments, err := h.comments.ListByPost(c.Request().Context(), id, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// ByUser lists a user's comments, newest first.
//
// @Summary      Comments by a user
// @Tags         comments
// @Produce      json
// @Param        id     path      int  true   "User ID"
// @Param        skip   query     int  false  "Offset"
// @Param        limit  query     int  false  "Page size (1-100)"
// @Success      200    {array}   domain.Comment
// @Failure      404    {object}  map[string]string
// @Router       /comments/user/{id} [get]
func (h *CommentHandler) ByUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	comments, err := h.comments.ListByUser(c.Request().Context(), id, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comments)
}

// Update edits a comment. Owner or admin only.
//
// @Summary      Edit comment
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Comment ID"
// @Param        body  body      updateCommentRequest  true  "New content"
// @Success      200   {object}  domain.Comment
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /comments/{id} [patch]
func (h *CommentHandler) Update(c echo.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	comment, err := h.comments.Update(c.Request().Context(), user, id, req.Content)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, comment)
}

// Delete removes a comment. Owner or admin only.
//
// @Summary      Delete comment
// @Tags         comments
// @Security     BearerAuth
// @Param        id   path  int  true  "Comment ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /comments/{id} [delete]
func (h *CommentHandler) Delete(c echo.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.comments.Delete(c.Request().Context(), user, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
