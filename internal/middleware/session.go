package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/combosss/combo-api/internal/metrics"
	"github.com/combosss/combo-api/internal/model"
	"github.com/combosss/combo-api/internal/repository"
)

// SessionResolver maps a raw session token onto its live session.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (model.Session, error)
}

// SessionAuth authenticates the request from the session cookie and
// stores the caller's Identity in the request context. Requests without a
// cookie, or whose token is unknown, expired or orphaned, get 401. An
// identity already attached by OptionalSession is reused.
func SessionAuth(store SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentIdentity(c); ok {
				return next(c)
			}
			cookie, err := c.Cookie(model.SessionCookieName)
			if err != nil || cookie.Value == "" {
				metrics.RecordAuthRejection("missing_session")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized: missing session"})
			}
			s, err := store.Resolve(c.Request().Context(), cookie.Value)
			if errors.Is(err, repository.ErrSessionNotFound) {
				metrics.RecordAuthRejection("invalid_session")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized: invalid or expired session"})
			}
			if err != nil {
				return err
			}
			setIdentity(c, Identity{UserID: s.UserID})
			return next(c)
		}
	}
}

// OptionalSession attaches an Identity when the cookie resolves and lets
// the request through anonymously otherwise.
func OptionalSession(store SessionResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CurrentIdentity(c); ok {
				return next(c)
			}
			cookie, err := c.Cookie(model.SessionCookieName)
			if err == nil && cookie.Value != "" {
				if s, err := store.Resolve(c.Request().Context(), cookie.Value); err == nil {
					setIdentity(c, Identity{UserID: s.UserID})
				} else if !errors.Is(err, repository.ErrSessionNotFound) {
					return err
				}
			}
			return next(c)
		}
	}
}
