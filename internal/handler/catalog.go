package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/combosss/combo-api/internal/model"
	"github.com/combosss/combo-api/internal/repository"
)

// CatalogHandler administers characters, positions and inputs. Reads are
// public; writes are mounted behind the admin role.
type CatalogHandler struct {
	Characters *repository.CharacterRepo
	Positions  *repository.PositionRepo
	Inputs     *repository.InputRepo
	Log        *zap.Logger
}

func NewCatalogHandler(chars *repository.CharacterRepo, pos *repository.PositionRepo, inputs *repository.InputRepo, log *zap.Logger) *CatalogHandler {
	return &CatalogHandler{Characters: chars, Positions: pos, Inputs: inputs, Log: log}
}

// ----- characters -----

func (h *CatalogHandler) ListCharacters(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	chars, err := h.Characters.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, chars)
}

func (h *CatalogHandler) GetCharacter(c echo.Context) error {
	id, ok := pathID(c, "characterID")
	if !ok {
		return badID(c, "characterID")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	ch, err := h.Characters.GetByID(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *CatalogHandler) CreateCharacter(c echo.Context) error {
	var ch model.Character
	if err := c.Bind(&ch); err != nil {
		return invalidBody(c)
	}
	ch.ID = 0
	if err := c.Validate(&ch); err != nil {
		return respondError(c, h.Log, err, "invalid character data")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Characters.Create(ctx, &ch); err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusCreated, ch)
}

// UpdateCharacter applies the body's fields over the stored character.
func (h *CatalogHandler) UpdateCharacter(c echo.Context) error {
	id, ok := pathID(c, "characterID")
	if !ok {
		return badID(c, "characterID")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	ch, err := h.Characters.GetByID(ctx, id)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	if err := c.Bind(&ch); err != nil {
		return invalidBody(c)
	}
	ch.ID = id
	if err := c.Validate(&ch); err != nil {
		return respondError(c, h.Log, err, "invalid character data")
	}
	if err := h.Characters.Update(ctx, ch); err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *CatalogHandler) DeleteCharacter(c echo.Context) error {
	id, ok := pathID(c, "characterID")
	if !ok {
		return badID(c, "characterID")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Characters.Delete(ctx, id); err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- positions -----

func (h *CatalogHandler) ListPositions(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	positions, err := h.Positions.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, positions)
}

func (h *CatalogHandler) CreatePosition(c echo.Context) error {
	var req model.PositionFields
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.Log, err, "invalid position data")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	p, err := h.Positions.Create(ctx, req.PositionName)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *CatalogHandler) UpdatePosition(c echo.Context) error {
	id, ok := pathID(c, "positionID")
	if !ok {
		return badID(c, "positionID")
	}
	var req model.PositionFields
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.Log, err, "invalid position data")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Positions.Rename(ctx, id, req.PositionName); err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, model.Position{ID: id, Name: req.PositionName})
}

func (h *CatalogHandler) DeletePosition(c echo.Context) error {
	id, ok := pathID(c, "positionID")
	if !ok {
		return badID(c, "positionID")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Positions.Delete(ctx, id); err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- inputs -----

func (h *CatalogHandler) ListInputs(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	inputs, err := h.Inputs.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, inputs)
}

func (h *CatalogHandler) CreateInput(c echo.Context) error {
	var req model.InputFields
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.Log, err, "invalid input data")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	in, err := h.Inputs.Create(ctx, req.InputName, req.InputSrc)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusCreated, in)
}

func (h *CatalogHandler) UpdateInput(c echo.Context) error {
	id, ok := pathID(c, "inputID")
	if !ok {
		return badID(c, "inputID")
	}
	var req model.InputFields
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.Log, err, "invalid input data")
	}
	in := model.Input{ID: id, Name: req.InputName, Src: req.InputSrc}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Inputs.Update(ctx, in); err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, in)
}

func (h *CatalogHandler) DeleteInput(c echo.Context) error {
	id, ok := pathID(c, "inputID")
	if !ok {
		return badID(c, "inputID")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Inputs.Delete(ctx, id); err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.NoContent(http.StatusNoContent)
}
