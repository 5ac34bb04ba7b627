package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/blogsphere/api/internal/core/domain"
)

// RBAC admits requests whose authenticated identity holds one of roles.
// It must run after Authenticate.
func RBAC(roles ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity := CurrentIdentity(c)
			if identity == nil {
				return domain.ErrUnauthenticated
			}
			for _, r := range roles {
				if domain.RequireRole(identity, r) == nil {
					return next(c)
				}
			}
			return domain.ErrForbidden
		}
	}
}
