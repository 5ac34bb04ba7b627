package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/blogsphere/api/internal/api/middleware"
	"github.com/blogsphere/api/internal/core/domain"
)

// identity returns the authenticated caller. Routes using it sit behind
// middleware.Authenticate, so a missing session means a wiring mistake or an
// optional route; both answer 401.
func identity(c echo.Context) (*domain.User, error) {
	user := middleware.CurrentIdentity(c)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// pageParams reads ?skip=&limit= with defaults 0 and 10.
func pageParams(c echo.Context) (domain.Page, error) {
	page := domain.Page{Limit: domain.DefaultPageLimit}
	err := echo.QueryParamsBinder(c).
		Int("skip", &page.Skip).
		Int("limit", &page.Limit).
		BindError()
	if err != nil {
		return domain.Page{}, echo.NewHTTPError(http.StatusBadRequest, "skip and limit must be integers")
	}
	if page.Skip < 0 {
		return domain.Page{}, domain.InvalidInput("skip must be zero or greater")
	}
	if page.Limit < 1 || page.Limit > domain.MaxPageLimit {
		return domain.Page{}, domain.InvalidInput("limit must be between 1 and 100")
	}
	return page, nil
}

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
