package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/JongDeug/blog-backend/internal/auth"
	"github.com/JongDeug/blog-backend/internal/config"
	"github.com/JongDeug/blog-backend/internal/middleware"
	"github.com/JongDeug/blog-backend/internal/model"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg  config.Config
	Auth *auth.Service
}

func NewAuthHandler(cfg config.Config, svc *auth.Service) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Auth: svc}
}

// ----- DTOs -----

type registerReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// authResp carries the token pair plus the profile. The profile rides
// along so clients do not need a follow-up /me call after login.
type authResp struct {
	Access  tokenPart `json:"access"`
	Refresh tokenPart `json:"refresh"`
	Info    userPart  `json:"info"`
}

func profileOf(u model.User) userPart {
	return userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role.String()}
}

// Register creates an account. It does not log the user in; clients
// chain a login to establish a session.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Auth.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": auth.ErrConflict.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, profileOf(u))
}

// Login authenticates a Basic authorization header and returns a fresh
// token pair, also delivered as http-only cookies.
func (h *AuthHandler) Login(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, pair, err := h.Auth.Login(ctx, c.Request().Header.Get("Authorization"))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMalformedCredential):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": auth.ErrMalformedCredential.Error()})
		case errors.Is(err, auth.ErrNotFound), errors.Is(err, auth.ErrInvalidCredential):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrInvalidCredential.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}

	h.setAuthCookies(c, pair)
	return c.JSON(http.StatusOK, authResp{
		Access:  tokenPart{Token: pair.AccessToken, Expires: pair.AccessExp},
		Refresh: tokenPart{Token: pair.RefreshToken, Expires: pair.RefreshExp},
		Info:    profileOf(u),
	})
}

// Refresh rotates the refresh token and returns a new pair. The
// presented token is single-use: after a successful rotation it will
// never be honored again.
func (h *AuthHandler) Refresh(c echo.Context) error {
	raw := refreshTokenFrom(c)
	if raw == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrUnauthenticated.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, pair, err := h.Auth.Rotate(ctx, raw)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrUnauthorized.Error()})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "refresh failed"})
	}

	h.setAuthCookies(c, pair)
	return c.JSON(http.StatusOK, authResp{
		Access:  tokenPart{Token: pair.AccessToken, Expires: pair.AccessExp},
		Refresh: tokenPart{Token: pair.RefreshToken, Expires: pair.RefreshExp},
		Info:    profileOf(u),
	})
}

// Logout ends the caller's session and clears both cookies. Runs
// behind the access guard; repeating it is a no-op.
func (h *AuthHandler) Logout(c echo.Context) error {
	uid, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": auth.ErrUnauthenticated.Error()})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "logout failed"})
	}
	h.clearAuthCookies(c)
	return c.NoContent(http.StatusNoContent)
}

// Revoke force-ends another user's session. Admin only; idempotent
// like logout.
func (h *AuthHandler) Revoke(c echo.Context) error {
	uid, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || uid == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.Revoke(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "revoke failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated principal.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, _ := middleware.UserID(c)
	role, _ := middleware.RoleOf(c)
	return c.JSON(http.StatusOK, echo.Map{
		"user_id": uid,
		"role":    role.String(),
	})
}

// refreshTokenFrom reads the refresh token from its cookie, falling
// back to a bearer header for non-browser clients.
func refreshTokenFrom(c echo.Context) string {
	if ck, err := c.Cookie(middleware.RefreshCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.Request().Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}

func (h *AuthHandler) setAuthCookies(c echo.Context, pair auth.TokenPair) {
	c.SetCookie(authCookie(middleware.AccessCookie, pair.AccessToken, pair.AccessExp, h.Cfg.CookieSecure))
	c.SetCookie(authCookie(middleware.RefreshCookie, pair.RefreshToken, pair.RefreshExp, h.Cfg.CookieSecure))
}

func (h *AuthHandler) clearAuthCookies(c echo.Context) {
	expired := time.Unix(0, 0)
	c.SetCookie(authCookie(middleware.AccessCookie, "", expired, h.Cfg.CookieSecure))
	c.SetCookie(authCookie(middleware.RefreshCookie, "", expired, h.Cfg.CookieSecure))
}

// authCookie builds a same-site, http-only cookie so tokens are never
// reachable from client-side script.
func authCookie(name, value string, expires time.Time, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// reqCtx bounds the duration of downstream calls for a request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
