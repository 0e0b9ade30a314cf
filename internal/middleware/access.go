// Package middleware provides the request gates every non-public
// route passes through: authentication (Access) followed by
// authorization (RequireRole), plus redis-backed rate limiting and
// response caching.
package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/JongDeug/blog-backend/internal/auth"
)

// Cookie and context key names shared with the auth handlers. Tokens
// travel in http-only cookies by default; a bearer header is accepted
// as the alternative transport for non-browser clients.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	CtxUserID = "user_id"
	CtxRole   = "role"
)

// Access returns the authentication gate. Public routes are simply
// registered outside the groups this middleware wraps. A missing token
// is distinguished from an invalid one in the response; expired versus
// forged is distinguished only in the log line, never to the client.
func Access(codec *auth.TokenCodec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := tokenFromRequest(c, AccessCookie)
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrUnauthenticated.Error()})
			}
			claims, err := codec.Verify(raw, auth.KindAccess)
			if err != nil {
				log.Printf("access guard: %v", err)
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrUnauthorized.Error()})
			}
			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}

// tokenFromRequest reads a token from the named cookie, falling back
// to an Authorization bearer header.
func tokenFromRequest(c echo.Context, cookieName string) string {
	if ck, err := c.Cookie(cookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
