package auth

import (
	"testing"
	"time"

	"pixgate/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "pixgate"}

	token, err := GenerateToken(cfg, 42)
	require.NoError(t, err)

	claims, err := ParseToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.TenantID)
	assert.Equal(t, "pixgate", claims.Issuer)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret", Expiry: time.Hour}
	token, err := GenerateToken(cfg, 42)
	require.NoError(t, err)

	_, err = ParseToken(&config.JWTConfig{Secret: "other-secret"}, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsMissingTenant(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret", Expiry: time.Hour}
	token, err := GenerateToken(cfg, 0)
	require.NoError(t, err)

	_, err = ParseToken(cfg, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	cfg := &config.JWTConfig{Secret: "test-secret", Expiry: -time.Minute}
	token, err := GenerateToken(cfg, 42)
	require.NoError(t, err)

	_, err = ParseToken(cfg, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
