package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/blogsphere/api/internal/core/domain"
	"github.com/blogsphere/api/internal/core/ports"
)

const sessionKey = "session"

// Authenticate resolves the bearer token against policy and stores the
// session on the context. With an optional policy a request without a bearer
// token, or with some other Authorization scheme, continues with no session.
func Authenticate(resolver ports.SessionResolver, policy domain.AccessPolicy) echo.MiddlewareFunc {
	challenge := "Bearer"
	if len(policy.Scopes) > 0 {
		challenge = `Bearer scope="` + strings.Join(policy.Scopes, " ") + `"`
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := BearerToken(c.Request())
			if !ok {
				if policy.Optional {
					return next(c)
				}
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, challenge)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			session, err := resolver.Resolve(c.Request().Context(), token, policy)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) || errors.Is(err, domain.ErrForbidden) {
					c.Response().Header().Set(echo.HeaderWWWAuthenticate, challenge)
				}
				return err
			}

			if session != nil {
				c.Set(sessionKey, session)
			}
			return next(c)
		}
	}
}

// BearerToken extracts the token from the Authorization header. A missing
// header yields an empty token; a header that is not a bearer credential
// reports false.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", true
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// CurrentSession returns the session set by Authenticate, or nil.
func CurrentSession(c echo.Context) *domain.Session {
	s, _ := c.Get(sessionKey).(*domain.Session)
	return s
}

// CurrentIdentity returns the authenticated user, or nil.
func CurrentIdentity(c echo.Context) *domain.User {
	if s := CurrentSession(c); s != nil {
		return s.Identity
	}
	return nil
}
