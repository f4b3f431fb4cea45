package stream

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// serverToken mints the JWT the provider expects on server-side API calls
func serverToken(apiSecret string) (string, error) {
	claims := jwt.MapClaims{
		"server": true,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(apiSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign server token: %w", err)
	}
	return signed, nil
}

// UserToken mints a provider token for a dashboard user. The token is an
// HS256 JWT over the provider API secret; issued-at is backdated a minute
// to tolerate clock skew between us and the provider.
func UserToken(apiSecret, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Add(-time.Minute).Unix(),
		"exp":     now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(apiSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign user token: %w", err)
	}
	return signed, nil
}
