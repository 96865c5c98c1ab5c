package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the access token claims issued after login
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	jwt.RegisteredClaims
}
