package auth

import (
	"testing"

	"patrol/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTConfig() *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test_access_secret_key_very_long_for_testing"
	cfg.SecretKey.Refresh = "test_refresh_secret_key_very_long_for_testing"

	return cfg
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	cfg := newTestJWTConfig()
	jwtService, err := NewJWTService(cfg)
	require.NoError(t, err)

	userID := uuid.New()
	roles := []string{"guard"}

	accessToken, refreshToken, err := jwtService.GenerateTokens(userID, "Asha Patel", roles)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	// Access token carries subject, name and roles.
	token, err := jwtService.ValidateToken(accessToken, cfg.SecretKey.Access)
	require.NoError(t, err)
	assert.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, userID.String(), claims["sub"])
	assert.Equal(t, "Asha Patel", claims["name"])
	assert.Equal(t, "access", claims["type"])
	assert.Equal(t, []any{"guard"}, claims["roles"])

	// Refresh token carries neither name nor roles.
	token, err = jwtService.ValidateToken(refreshToken, cfg.SecretKey.Refresh)
	require.NoError(t, err)
	claims, ok = token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "refresh", claims["type"])
	assert.NotContains(t, claims, "roles")
	assert.NotContains(t, claims, "name")
}

func TestJWTService_RejectsWrongSecret(t *testing.T) {
	cfg := newTestJWTConfig()
	jwtService, err := NewJWTService(cfg)
	require.NoError(t, err)

	accessToken, _, err := jwtService.GenerateTokens(uuid.New(), "Guard", []string{"guard"})
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(accessToken, "some-other-secret")
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	cfg := newTestJWTConfig()
	jwtService, err := NewJWTService(cfg)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken("clearly-not-a-jwt", cfg.SecretKey.Access)
	assert.Error(t, err)
}

func TestNewJWTService_RequiresSecrets(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}
