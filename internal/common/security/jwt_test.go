package security

import (
	"testing"
	"time"

	"codearena/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	config.AppConfig = &config.Config{JWTKey: []byte("test-secret"), JWTExp: time.Hour}
	InitJWT()

	token, err := GenerateToken("alice_dev")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	decoded, err := TokenAuth.Decode(token)
	require.NoError(t, err)
	username, ok := decoded.Get("username")
	require.True(t, ok)
	assert.Equal(t, "alice_dev", username)
}

func TestGetUsernameFromClaims(t *testing.T) {
	username, err := GetUsernameFromClaims(map[string]interface{}{"username": "bob_coder"})
	require.NoError(t, err)
	assert.Equal(t, "bob_coder", username)

	_, err = GetUsernameFromClaims(map[string]interface{}{})
	assert.Error(t, err)

	_, err = GetUsernameFromClaims(map[string]interface{}{"username": 42})
	assert.Error(t, err)
}
