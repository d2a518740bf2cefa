package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/combosss/combo-api/internal/repository"
)

type SessionHandler struct {
	Sessions *repository.SessionRepo
	Log      *zap.Logger
}

func NewSessionHandler(sessions *repository.SessionRepo, log *zap.Logger) *SessionHandler {
	return &SessionHandler{Sessions: sessions, Log: log}
}

// List returns every live session without its token.
func (h *SessionHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	sessions, err := h.Sessions.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, sessions)
}

// RevokeUser ends every session of :userID.
func (h *SessionHandler) RevokeUser(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	userID, ok := pathID(c, "userID")
	if !ok {
		return badID(c, "userID")
	}
	if !selfOrAdmin(id, userID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Sessions.RevokeByUser(ctx, userID); err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.NoContent(http.StatusNoContent)
}
