package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/JongDeug/blog-backend/internal/auth"
	"github.com/JongDeug/blog-backend/internal/model"
)

// RequireRole returns the authorization gate for a route's declared
// minimum role. It never authenticates on its own: if Access did not
// run or rejected upstream there is no principal in the context and
// the request is refused. The ranking is the explicit total order on
// model.Role (lower rank = more privileged), so an admin passes every
// check a user passes.
func RequireRole(min model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(model.Role)
			if !ok || !role.AtLeast(min) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": auth.ErrForbidden.Error()})
			}
			return next(c)
		}
	}
}

// UserID extracts the authenticated subject id set by Access. The
// boolean is false when the request carries no principal.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(CtxUserID).(uint64)
	return id, ok
}

// RoleOf extracts the authenticated role set by Access.
func RoleOf(c echo.Context) (model.Role, bool) {
	r, ok := c.Get(CtxRole).(model.Role)
	return r, ok
}
