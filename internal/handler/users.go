package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/combosss/combo-api/internal/metrics"
	"github.com/combosss/combo-api/internal/model"
	"github.com/combosss/combo-api/internal/repository"
	"github.com/combosss/combo-api/internal/utils"
)

// UserHandler serves registration, login/logout and account management.
type UserHandler struct {
	Users        *repository.UserRepo
	Sessions     *repository.SessionRepo
	CookieSecure bool
	Log          *zap.Logger

	hashPassword func(string) (string, error)
}

func NewUserHandler(users *repository.UserRepo, sessions *repository.SessionRepo, cookieSecure bool, log *zap.Logger) *UserHandler {
	return &UserHandler{Users: users, Sessions: sessions, CookieSecure: cookieSecure, Log: log, hashPassword: utils.HashPassword}
}

type loginResp struct {
	User           model.User `json:"user"`
	ExpirationTime time.Time  `json:"expirationTime"`
}

func (h *UserHandler) sessionCookie(s model.Session) *http.Cookie {
	return &http.Cookie{
		Name:     model.SessionCookieName,
		Value:    s.Token,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *UserHandler) clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     model.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Register creates a visitor account.
func (h *UserHandler) Register(c echo.Context) error {
	var req model.Registration
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.Log, err, "invalid user data")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.Create(ctx, req.Email, req.Pseudo, req.Password, model.RoleVisitor)
	if err != nil {
		return respondError(c, h.Log, err, "invalid user data")
	}
	return c.JSON(http.StatusCreated, u)
}

// Login verifies credentials and issues a session cookie. Legacy bcrypt
// hashes are upgraded to argon2id on success.
func (h *UserHandler) Login(c echo.Context) error {
	var req model.Credentials
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.Log, err, "invalid credentials")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	ok, rehash, err := utils.VerifyPassword(u.PasswordHash, req.Password)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if rehash {
		h.upgradeHash(ctx, u.ID, req.Password)
	}

	s, err := h.Sessions.Create(ctx, u.ID)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	metrics.RecordSessionIssued()
	c.SetCookie(h.sessionCookie(s))
	return c.JSON(http.StatusOK, loginResp{User: u, ExpirationTime: s.ExpiresAt})
}

// upgradeHash replaces a legacy hash after a successful login. Failures
// are logged; the login itself still succeeds.
func (h *UserHandler) upgradeHash(ctx context.Context, userID uint64, plain string) {
	hash, err := h.hashPassword(plain)
	if err != nil {
		h.Log.Warn("password rehash failed", zap.Uint64("user_id", userID), zap.Error(err))
		return
	}
	if err := h.Users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		h.Log.Warn("password rehash not stored", zap.Uint64("user_id", userID), zap.Error(err))
	}
}

// Logout revokes the cookie's session, if any, and clears the cookie.
func (h *UserHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(model.SessionCookieName)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusOK, echo.Map{"message": "no session"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Sessions.RevokeByToken(ctx, cookie.Value); err != nil {
		return respondError(c, h.Log, err, "")
	}
	h.clearCookie(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()
	users, err := h.Users.List(ctx)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c echo.Context) error {
	userID, ok := pathID(c, "userID")
	if !ok {
		return badID(c, "userID")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, u)
}

// ChangePassword lets a user replace their own password. Every other
// session of the user is revoked; the current one stays valid.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	id, err := identity(c)
	if err != nil {
		return err
	}
	userID, ok := pathID(c, "userID")
	if !ok {
		return badID(c, "userID")
	}
	if id.UserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	var req model.PasswordChange
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.Log, err, "invalid password")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	if ok, _, _ := utils.VerifyPassword(u.PasswordHash, req.OldPassword); !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid old password"})
	}
	hash, err := h.hashPassword(req.NewPassword)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	if err := h.Users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return respondError(c, h.Log, err, "")
	}
	current := ""
	if cookie, err := c.Cookie(model.SessionCookieName); err == nil {
		current = cookie.Value
	}
	if err := h.Sessions.RevokeOthers(ctx, userID, current); err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password updated"})
}

func (h *UserHandler) UpdateAvatar(c echo.Context) error {
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
	var req model.AvatarChange
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, h.Log, err, "invalid avatar")
	}
	ctx, cancel := dbCtx(c)
	defer cancel()
	if err := h.Users.UpdateAvatar(ctx, userID, req.AvatarURL); err != nil {
		return respondError(c, h.Log, err, "")
	}
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return respondError(c, h.Log, err, "")
	}
	return c.JSON(http.StatusOK, u)
}

// Delete removes an account with everything it owns. Users deleting
// themselves also lose their cookie.
func (h *UserHandler) Delete(c echo.Context) error {
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
	if err := h.Users.Delete(ctx, userID); err != nil {
		return respondError(c, h.Log, err, "")
	}
	if id.UserID == userID {
		h.clearCookie(c)
	}
	return c.NoContent(http.StatusNoContent)
}
