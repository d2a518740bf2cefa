package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/combosss/combo-api/internal/middleware"
	"github.com/combosss/combo-api/internal/model"
	"github.com/combosss/combo-api/internal/service"
)

const invalidCombo = "invalid combo data"

type ComboHandler struct {
	Combos *service.ComboService
	Log    *zap.Logger
}

func NewComboHandler(combos *service.ComboService, log *zap.Logger) *ComboHandler {
	return &ComboHandler{Combos: combos, Log: log}
}

func (h *ComboHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	combos, err := h.Combos.ListAll(ctx)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, combos)
}

// ListByCharacter adds per-viewer favorite/like flags when the request
// carries a valid session.
func (h *ComboHandler) ListByCharacter(c echo.Context) error {
	characterID, ok := pathID(c, "characterID")
	if !ok {
		return badID(c, "characterID")
	}
	var viewer *uint64
	if id, ok := middleware.CurrentIdentity(c); ok {
		viewer = &id.UserID
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	combos, err := h.Combos.ListByCharacter(ctx, characterID, viewer)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, combos)
}

func (h *ComboHandler) ListByUser(c echo.Context) error {
	userID, ok := pathID(c, "userID")
	if !ok {
		return badID(c, "userID")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	combos, err := h.Combos.ListByUser(ctx, userID)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, combos)
}

func (h *ComboHandler) Get(c echo.Context) error {
	comboID, ok := pathID(c, "comboID")
	if !ok {
		return badID(c, "comboID")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	combo, err := h.Combos.Get(ctx, comboID)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, combo)
}

// Create stores a combo owned by the caller; any owner in the body is
// ignored.
func (h *ComboHandler) Create(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	var sub model.ComboSubmission
	if err := c.Bind(&sub); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": invalidCombo})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	combo, err := h.Combos.CreateCombo(ctx, id.UserID, sub)
	if err != nil {
		return respondError(c, h.Log, err, invalidCombo)
	}
	return c.JSON(http.StatusCreated, combo)
}

func (h *ComboHandler) Delete(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	comboID, ok := pathID(c, "comboID")
	if !ok {
		return badID(c, "comboID")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Combos.DeleteCombo(ctx, comboID, id.UserID, id.Role); err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.NoContent(http.StatusNoContent)
}
