package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleAtLeast("owner", "customer"))
	assert.True(t, RoleAtLeast("manager", "fulfillment"))
	assert.True(t, RoleAtLeast("fulfillment", "fulfillment"))
	assert.False(t, RoleAtLeast("customer", "fulfillment"))
	assert.False(t, RoleAtLeast("content_editor", "manager"))
	assert.False(t, RoleAtLeast("bogus", "customer"))
	assert.False(t, RoleAtLeast("owner", "bogus"))
}

func TestTokenRoundTrip(t *testing.T) {
	SetSecret("test-secret")

	token, err := GenerateToken("user-1", "a@b.com", "manager", 1)
	require.NoError(t, err)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	c := e.NewContext(req, httptest.NewRecorder())

	claims := TryGetClaimsFromAuthHeader(c)
	require.NotNil(t, claims)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "manager", claims.Role)
}

func TestJWTMiddlewareRejects(t *testing.T) {
	SetSecret("test-secret")
	e := echo.New()

	h := JWTMiddleware()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	// missing header
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// garbage token
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	SetSecret("test-secret")
	e := echo.New()

	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	token, err := GenerateToken("user-2", "f@b.com", "fulfillment", 1)
	require.NoError(t, err)

	call := func(min string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		h := JWTMiddleware()(RequireRole(min)(ok))
		require.NoError(t, h(c))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, call("customer"))
	assert.Equal(t, http.StatusOK, call("fulfillment"))
	assert.Equal(t, http.StatusForbidden, call("content_editor"))
	assert.Equal(t, http.StatusForbidden, call("owner"))
}
