package auth

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/shms/shms/internal/domain/admin"
)

type contextKey string

const (
	UserIDKey    contextKey = "user_id"
	UserRolesKey contextKey = "user_roles"
	LinkedIDKey  contextKey = "linked_id"
)

// Authenticator checks a username and password pair.
type Authenticator interface {
	Authenticate(username, password string) (admin.User, bool)
}

// BasicAuth validates HTTP Basic credentials against accounts. On success the
// username, role and linked record id go on the request context, and the
// username is set on the echo context under "username" for the request log.
// Requests matching AuthSkipper pass through unauthenticated.
func BasicAuth(accounts Authenticator) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Skipper: AuthSkipper,
		Realm:   "shms",
		Validator: func(username, password string, c echo.Context) (bool, error) {
			u, ok := accounts.Authenticate(username, password)
			if !ok {
				return false, nil
			}
			c.Set("username", u.Username)
			c.SetRequest(c.Request().WithContext(WithUser(c.Request().Context(), u)))
			return true, nil
		},
	})
}

// WithUser returns ctx carrying u's identity.
func WithUser(ctx context.Context, u admin.User) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, u.Username)
	ctx = context.WithValue(ctx, UserRolesKey, []string{u.Role})
	ctx = context.WithValue(ctx, LinkedIDKey, u.LinkedID)
	return ctx
}

func UserIDFromContext(ctx context.Context) string {
	uid, _ := ctx.Value(UserIDKey).(string)
	return uid
}

func RolesFromContext(ctx context.Context) []string {
	roles, _ := ctx.Value(UserRolesKey).([]string)
	return roles
}

// LinkedIDFromContext returns the record id the account is linked to, or 0.
func LinkedIDFromContext(ctx context.Context) int {
	id, _ := ctx.Value(LinkedIDKey).(int)
	return id
}
