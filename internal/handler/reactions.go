package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/combosss/combo-api/internal/repository"
	"github.com/combosss/combo-api/internal/service"
)

// ReactionHandler serves likes and favorites. Both are (user, combo)
// pairs stored by a ReactionRepo of the matching kind.
type ReactionHandler struct {
	Likes     *repository.ReactionRepo
	Favorites *repository.ReactionRepo
	Combos    *service.ComboService
	Log       *zap.Logger
}

func NewReactionHandler(likes, favorites *repository.ReactionRepo, combos *service.ComboService, log *zap.Logger) *ReactionHandler {
	return &ReactionHandler{Likes: likes, Favorites: favorites, Combos: combos, Log: log}
}

func (h *ReactionHandler) add(repo *repository.ReactionRepo) echo.HandlerFunc {
	return func(c echo.Context) error {
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
		rc, err := repo.Add(ctx, id.UserID, comboID)
		if err != nil {
			return respondError(c, h.Log, err, "")
		}
		return c.JSON(http.StatusCreated, rc)
	}
}

func (h *ReactionHandler) remove(repo *repository.ReactionRepo) echo.HandlerFunc {
	return func(c echo.Context) error {
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
		if err := repo.Remove(ctx, id.UserID, comboID); err != nil {
			return respondError(c, h.Log, err, "")
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func (h *ReactionHandler) Like(c echo.Context) error       { return h.add(h.Likes)(c) }
func (h *ReactionHandler) Unlike(c echo.Context) error     { return h.remove(h.Likes)(c) }
func (h *ReactionHandler) Favorite(c echo.Context) error   { return h.add(h.Favorites)(c) }
func (h *ReactionHandler) Unfavorite(c echo.Context) error { return h.remove(h.Favorites)(c) }

// LikeCount returns {"likeCount": n} for an existing combo.
func (h *ReactionHandler) LikeCount(c echo.Context) error {
	comboID, ok := pathID(c, "comboID")
	if !ok {
		return badID(c, "comboID")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if _, err := h.Combos.Get(ctx, comboID); err != nil {
		return respondError(c, h.Log, err, "")
	}
	n, err := h.Likes.CountByCombo(ctx, comboID)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"likeCount": n})
}

// ListFavorites returns the combos :userID has favorited.
func (h *ReactionHandler) ListFavorites(c echo.Context) error {
	userID, ok := pathID(c, "userID")
	if !ok {
		return badID(c, "userID")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	combos, err := h.Combos.ListFavorites(ctx, userID)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, combos)
}
