package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"patrol/config"
	"patrol/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cfgWithSecrets() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "access-secret"
	cfg.SecretKey.Refresh = "refresh-secret"

	return cfg
}

func newAuthMiddlewareForTest(t *testing.T) *AuthMiddleware {
	t.Helper()

	cfg := cfgWithSecrets()
	tokenSvc, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	return NewAuthMiddleware(tokenSvc, cfg)
}

func newAuthContext(header string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/scans", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func TestAuthMiddleware_Authenticate_SetsIdentity(t *testing.T) {
	m := newAuthMiddlewareForTest(t)

	tokenSvc, err := auth.NewJWTService(cfgWithSecrets())
	require.NoError(t, err)
	userID := uuid.New()
	accessToken, _, err := tokenSvc.GenerateTokens(userID, "Asha Patel", []string{"guard"})
	require.NoError(t, err)

	c, _ := newAuthContext("Bearer " + accessToken)

	nextCalled := false
	next := func(c echo.Context) error {
		nextCalled = true

		return nil
	}

	require.NoError(t, m.Authenticate(next)(c))
	require.True(t, nextCalled)
	assert.Equal(t, userID, c.Get("userID"))
	assert.Equal(t, "Asha Patel", c.Get("userName"))
	assert.Equal(t, []string{"guard"}, c.Get("roles"))
}

func TestAuthMiddleware_Authenticate_MissingHeader(t *testing.T) {
	m := newAuthMiddlewareForTest(t)

	c, rec := newAuthContext("")

	next := func(c echo.Context) error {
		t.Fatal("next should not run without credentials")

		return nil
	}

	require.NoError(t, m.Authenticate(next)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Authenticate_NotBearer(t *testing.T) {
	m := newAuthMiddlewareForTest(t)

	c, rec := newAuthContext("Basic dXNlcjpwYXNz")

	next := func(c echo.Context) error {
		t.Fatal("next should not run with a non-bearer header")

		return nil
	}

	require.NoError(t, m.Authenticate(next)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_Authenticate_GarbageToken(t *testing.T) {
	m := newAuthMiddlewareForTest(t)

	c, rec := newAuthContext("Bearer not-a-jwt")

	next := func(c echo.Context) error {
		t.Fatal("next should not run with an invalid token")

		return nil
	}

	require.NoError(t, m.Authenticate(next)(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_RequireRole(t *testing.T) {
	m := newAuthMiddlewareForTest(t)

	tests := []struct {
		name       string
		roles      any
		wantStatus int
		wantNext   bool
	}{
		{"has role", []string{"admin"}, http.StatusOK, true},
		{"missing role", []string{"guard"}, http.StatusForbidden, false},
		{"no role information", nil, http.StatusForbidden, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newAuthContext("")
			if tt.roles != nil {
				c.Set("roles", tt.roles)
			}

			nextCalled := false
			next := func(c echo.Context) error {
				nextCalled = true

				return c.NoContent(http.StatusOK)
			}

			require.NoError(t, m.RequireRole("admin")(next)(c))
			assert.Equal(t, tt.wantNext, nextCalled)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
