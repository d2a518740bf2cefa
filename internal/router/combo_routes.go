package router

import (
	"github.com/labstack/echo/v4"

	"github.com/combosss/combo-api/internal/handler"
)

// RegisterCombos mounts /v1/combos. Reads are public; listing by character
// also reports the viewer's favorite/like flags when the /v1 group resolved
// a session.
// Creating and deleting require an admin or visitor, and deletion is
// further limited to the owner or an admin.
func RegisterCombos(v1 *echo.Group, h *handler.ComboHandler, a access) {
	g := v1.Group("/combos")
	g.GET("", h.List)
	g.GET("/character/:characterID", h.ListByCharacter)
	g.GET("/user/:userID", h.ListByUser)
	g.GET("/:comboID", h.Get)
	g.POST("", h.Create, a.auth, a.anyRole)
	g.DELETE("/:comboID", h.Delete, a.auth, a.anyRole)
}

// RegisterReactions mounts /v1/likes and /v1/favorites. Like routes all
// need a session; a user's favorites list is public.
func RegisterReactions(v1 *echo.Group, h *handler.ReactionHandler, a access) {
	likes := v1.Group("/likes")
	likes.GET("/combo/:comboID", h.LikeCount, a.auth)
	likes.POST("/:comboID", h.Like, a.auth)
	likes.DELETE("/:comboID", h.Unlike, a.auth)

	favs := v1.Group("/favorites")
	favs.GET("/user/:userID", h.ListFavorites)
	favs.POST("/:comboID", h.Favorite, a.auth)
	favs.DELETE("/:comboID", h.Unfavorite, a.auth)
}
