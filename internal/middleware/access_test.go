package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/JongDeug/blog-backend/internal/auth"
	"github.com/JongDeug/blog-backend/internal/model"
)

func newTestCodec() *auth.TokenCodec {
	return auth.NewTokenCodec("access-secret", "refresh-secret", 5*time.Minute, time.Hour)
}

// echoRequest runs one request through the given middleware chain into
// a probe handler that records the principal it saw.
func echoRequest(t *testing.T, req *http.Request, mw ...echo.MiddlewareFunc) (*httptest.ResponseRecorder, *probe) {
	t.Helper()
	e := echo.New()
	p := &probe{}
	h := echo.HandlerFunc(p.handle)
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, h(c))
	return rec, p
}

type probe struct {
	called bool
	userID uint64
	role   model.Role
}

func (p *probe) handle(c echo.Context) error {
	p.called = true
	p.userID, _ = UserID(c)
	p.role, _ = RoleOf(c)
	return c.NoContent(http.StatusOK)
}

func TestAccess_MissingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	rec, p := echoRequest(t, req, Access(newTestCodec()))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, p.called)
	require.Contains(t, rec.Body.String(), auth.ErrUnauthenticated.Error())
}

func TestAccess_ValidCookie(t *testing.T) {
	codec := newTestCodec()
	raw, exp, err := codec.Sign(7, model.RoleAdmin, auth.KindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: raw, Expires: exp})
	rec, p := echoRequest(t, req, Access(codec))

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, p.called)
	require.Equal(t, uint64(7), p.userID)
	require.Equal(t, model.RoleAdmin, p.role)
}

func TestAccess_ValidBearerHeader(t *testing.T) {
	codec := newTestCodec()
	raw, _, err := codec.Sign(3, model.RoleUser, auth.KindAccess)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec, p := echoRequest(t, req, Access(codec))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, uint64(3), p.userID)
	require.Equal(t, model.RoleUser, p.role)
}

func TestAccess_RejectsRefreshToken(t *testing.T) {
	codec := newTestCodec()
	raw, _, err := codec.Sign(3, model.RoleUser, auth.KindRefresh)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec, p := echoRequest(t, req, Access(codec))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.False(t, p.called)
}

func TestAccess_RejectsGarbageAndExpired(t *testing.T) {
	codec := newTestCodec()

	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec, _ := echoRequest(t, req, Access(codec))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	expiredCodec := auth.NewTokenCodec("access-secret", "refresh-secret", -time.Minute, time.Hour)
	raw, _, err := expiredCodec.Sign(3, model.RoleUser, auth.KindAccess)
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec, _ = echoRequest(t, req, Access(codec))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	// The client-visible body never says whether the token expired or
	// was forged.
	require.Contains(t, rec.Body.String(), auth.ErrUnauthorized.Error())
	require.NotContains(t, rec.Body.String(), "expired")
}
