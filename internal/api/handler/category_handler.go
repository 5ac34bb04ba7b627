package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/blogsphere/api/internal/core/ports"
)

type CategoryHandler struct {
	categories ports.CategoryService
}

func NewCategoryHandler(categories ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=30"`
}

// Create adds a category. Admin only.
//
// @Summary      Create category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category name"
// @Success      201   {object}  domain.Category
// @Failure      403   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.categories.Create(c.Request().Context(), user, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, category)
}

// List pages through all categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        skip   query     int  false  "Offset"
// @Param        limit  query     int  false  "Page size (1-100)"
// @Success      200    {object}  domain.Paged[domain.Category]
// @Router       /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	result, err := h.categories.List(c.Request().Context(), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Posts lists the posts in a category, newest first.
//
// @Summary      Posts by category
// @Tags         categories
// @Produce      json
// @Param        id     path      int  true   "Category ID"
// @Param        skip   query     int  false  "Offset"
// @Param        limit  query     int  false  "Page size (1-100)"
// @Success      200    {object}  domain.Paged[domain.PostSummary]
// @Failure      404    {object}  map[string]string
// @Router       /categories/{id}/posts [get]
func (h *CategoryHandler) Posts(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	page, err := pageParams(c)
	if err != nil {
		return err
	}
	result, err := h.categories.Posts(c.Request().Context(), id, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Rename changes a category name. Admin only.
//
// @Summary      Rename category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int              true  "Category ID"
// @Param        body  body      categoryRequest  true  "New name"
// @Success      200   {object}  domain.Category
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /categories/{id} [patch]
func (h *CategoryHandler) Rename(c echo.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	category, err := h.categories.Rename(c.Request().Context(), user, id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, category)
}

// Delete removes an empty category.
//
// @Summary      Delete category
// @Tags         categories
// @Security     BearerAuth
// @Param        id   path  int  true  "Category ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	user, err := identity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.categories.Delete(c.Request().Context(), user, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
