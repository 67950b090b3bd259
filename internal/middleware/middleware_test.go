package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/cakeorders/internal/auth"
	"github.com/suteetoe/cakeorders/pkg/config"
	"github.com/suteetoe/cakeorders/pkg/jwtutil"
)

func newJWT() *jwtutil.JWTUtil {
	return jwtutil.NewJWTUtil(&config.JWTConfig{SigningKey: "test", ExpirationHours: 1}, "cakeorders")
}

// whoami echoes the identity placed in the request context
func whoami(c echo.Context) error {
	id, ok := auth.IdentityFromContext(c.Request().Context())
	if !ok {
		return c.NoContent(http.StatusTeapot)
	}
	return c.JSON(http.StatusOK, echo.Map{"tenant_id": id.TenantID, "username": id.Username})
}

func serve(e *echo.Echo, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMiddleware(t *testing.T) {
	j := newJWT()
	e := echo.New()
	e.GET("/me", whoami, JWTAuthMiddleware(j))

	token, err := j.GenerateToken(3, "maria", false)
	require.NoError(t, err)

	rec := serve(e, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tenant_id":3,"username":"maria"}`, rec.Body.String())

	for name, header := range map[string]string{
		"missing":   "",
		"no scheme": token,
		"basic":     "Basic " + token,
		"garbage":   "Bearer not.a.token",
	} {
		rec := serve(e, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		assert.Contains(t, rec.Body.String(), "error", name)
	}
}

func TestRequireSuperuser(t *testing.T) {
	j := newJWT()
	e := echo.New()
	e.GET("/me", whoami, JWTAuthMiddleware(j), RequireSuperuser)

	plain, _ := j.GenerateToken(3, "maria", false)
	admin, _ := j.GenerateToken(1, "admin", true)

	assert.Equal(t, http.StatusForbidden, serve(e, "Bearer "+plain).Code)
	assert.Equal(t, http.StatusOK, serve(e, "Bearer "+admin).Code)

	bare := echo.New()
	bare.GET("/me", whoami, RequireSuperuser)
	assert.Equal(t, http.StatusUnauthorized, serve(bare, "").Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(RequestIDMiddleware())
	e.GET("/me", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Request().Header.Get(echo.HeaderXRequestID))
	})

	rec := serve(e, "")
	generated := rec.Header().Get(echo.HeaderXRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(echo.HeaderXRequestID, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(echo.HeaderXRequestID))
}
