package utils_test

import (
	"testing"
	"time"

	"github.com/SscSPs/mma_statements/internal/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := utils.GenerateJWT("user-1", "secret", time.Minute, "mma")
	require.NoError(t, err)

	claims, err := utils.ParseAndValidateJWT(token, "secret", "mma")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	_, err = utils.ParseAndValidateJWT(token, "other-secret", "mma")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = utils.ParseAndValidateJWT(token, "secret", "someone-else")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	expired, err := utils.GenerateJWT("user-1", "secret", -time.Minute, "mma")
	require.NoError(t, err)
	_, err = utils.ParseAndValidateJWT(expired, "secret", "")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestHashContent(t *testing.T) {
	a := utils.HashContent([]byte("statement"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, utils.HashContent([]byte("statement")))
	assert.NotEqual(t, a, utils.HashContent([]byte("statement2")))
}
