package middleware

import (
	"context"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/combosss/combo-api/internal/model"
)

// Identity is the authenticated caller of a request. Role is RoleNone
// until RequireRole has looked the user up.
type Identity struct {
	UserID uint64
	Role   model.Role
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by SessionAuth, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// CurrentIdentity is IdentityFrom for an echo request.
func CurrentIdentity(c echo.Context) (Identity, bool) {
	return IdentityFrom(c.Request().Context())
}

func setIdentity(c echo.Context, id Identity) {
	r := c.Request()
	c.SetRequest(r.WithContext(WithIdentity(r.Context(), id)))
}

// userKey identifies the caller for rate limiting; "anon" when unauthenticated.
func userKey(c echo.Context) string {
	if id, ok := CurrentIdentity(c); ok {
		return strconv.FormatUint(id.UserID, 10)
	}
	return "anon"
}
