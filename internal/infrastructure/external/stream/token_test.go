package stream

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseClaims(t *testing.T, signed, secret string) jwt.MapClaims {
	t.Helper()
	token, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)
	return token.Claims.(jwt.MapClaims)
}

func TestServerToken(t *testing.T) {
	signed, err := serverToken("api-secret")
	require.NoError(t, err)

	claims := parseClaims(t, signed, "api-secret")
	assert.Equal(t, true, claims["server"])
}

func TestUserToken(t *testing.T) {
	signed, err := UserToken("api-secret", "u1", time.Hour)
	require.NoError(t, err)

	claims := parseClaims(t, signed, "api-secret")
	assert.Equal(t, "u1", claims["user_id"])

	iat := int64(claims["iat"].(float64))
	exp := int64(claims["exp"].(float64))
	now := time.Now().Unix()

	assert.LessOrEqual(t, iat, now-30)
	assert.Greater(t, exp, now)
}
