package router

import (
	"github.com/labstack/echo/v4"

	"github.com/combosss/combo-api/internal/handler"
)

// RegisterUsers mounts /v1/users and /v1/sessions. Register, login and
// logout are open; listing users and sessions is admin only; the
// per-user routes check self-or-admin in the handler.
func RegisterUsers(v1 *echo.Group, u *handler.UserHandler, s *handler.SessionHandler, a access) {
	g := v1.Group("/users")
	g.POST("", u.Register)
	g.POST("/login", u.Login)
	g.POST("/logout", u.Logout)
	g.GET("", u.List, a.auth, a.admin)
	g.GET("/:userID", u.Get, a.auth, a.admin)
	g.PATCH("/:userID/password", u.ChangePassword, a.auth, a.anyRole)
	g.PATCH("/:userID/avatar", u.UpdateAvatar, a.auth, a.anyRole)
	g.DELETE("/:userID", u.Delete, a.auth, a.anyRole)

	sg := v1.Group("/sessions", a.auth)
	sg.GET("", s.List, a.admin)
	sg.DELETE("/:userID", s.RevokeUser, a.anyRole)
}
