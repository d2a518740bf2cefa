package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/combosss/combo-api/internal/middleware"
	"github.com/combosss/combo-api/internal/model"
	"github.com/combosss/combo-api/internal/repository"
	"github.com/combosss/combo-api/internal/validation"
)

const dbTimeout = 5 * time.Second

func dbCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

func badID(c echo.Context, name string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid " + name})
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}

// identity returns the caller set by SessionAuth. Routes using it are
// always mounted behind SessionAuth, so a miss is a wiring bug.
func identity(c echo.Context) (middleware.Identity, error) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return middleware.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}

// selfOrAdmin reports whether the caller may act on userID's resources.
func selfOrAdmin(id middleware.Identity, userID uint64) bool {
	return id.UserID == userID || id.Role == model.RoleAdmin
}

// respondError maps service and repository errors onto HTTP responses.
// invalidMsg is the top-level message for validation failures.
func respondError(c echo.Context, log *zap.Logger, err error, invalidMsg string) error {
	var verr validation.Errors
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": invalidMsg, "errors": verr})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	log.Error("request failed",
		zap.String("method", c.Request().Method),
		zap.String("route", c.Path()),
		zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}
