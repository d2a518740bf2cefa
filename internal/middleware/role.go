package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/combosss/combo-api/internal/metrics"
	"github.com/combosss/combo-api/internal/model"
	"github.com/combosss/combo-api/internal/repository"
)

// UserDirectory looks users up by id.
type UserDirectory interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// RequireRole lets the request through only when the authenticated user
// currently holds one of roles. It must run after SessionAuth; the role
// is read from the directory on every request, so a demotion applies
// immediately. On success the role is added to the request's Identity.
func RequireRole(dir UserDirectory, roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		allowed[r] = true
		names = append(names, string(r))
	}
	forbidden := echo.Map{"error": "forbidden: requires one of the following roles: " + strings.Join(names, ", ")}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := CurrentIdentity(c)
			if !ok {
				metrics.RecordAuthRejection("missing_identity")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized: missing session"})
			}
			u, err := dir.GetByID(c.Request().Context(), id.UserID)
			if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
				return err
			}
			if err != nil || !allowed[u.Role] {
				metrics.RecordAuthRejection("role")
				return c.JSON(http.StatusForbidden, forbidden)
			}
			id.Role = u.Role
			setIdentity(c, id)
			return next(c)
		}
	}
}
