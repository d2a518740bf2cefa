package router

import (
	"github.com/labstack/echo/v4"

	"github.com/combosss/combo-api/internal/handler"
)

// RegisterCatalog mounts characters, positions and inputs. Public reads go
// through the response cache; admin writes purge it.
func RegisterCatalog(v1 *echo.Group, h *handler.CatalogHandler, a access, cache, purge echo.MiddlewareFunc) {
	write := []echo.MiddlewareFunc{a.auth, a.admin, purge}

	ch := v1.Group("/characters")
	ch.GET("", h.ListCharacters, cache)
	ch.GET("/:characterID", h.GetCharacter, cache)
	ch.POST("", h.CreateCharacter, write...)
	ch.PATCH("/:characterID", h.UpdateCharacter, write...)
	ch.DELETE("/:characterID", h.DeleteCharacter, write...)

	pos := v1.Group("/positions")
	pos.GET("", h.ListPositions, cache)
	pos.POST("", h.CreatePosition, write...)
	pos.PATCH("/:positionID", h.UpdatePosition, write...)
	pos.DELETE("/:positionID", h.DeletePosition, write...)

	in := v1.Group("/inputs")
	in.GET("", h.ListInputs, cache)
	in.POST("", h.CreateInput, write...)
	in.PATCH("/:inputID", h.UpdateInput, write...)
	in.DELETE("/:inputID", h.DeleteInput, write...)
}
