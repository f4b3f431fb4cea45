package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the authenticated dashboard identity
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}
