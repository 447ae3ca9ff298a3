package auth

import (
	"github.com/golang-jwt/jwt/v4"
)

// JWTClaims are the custom claims carried by access tokens. The role claim is
// what grants the organizer capability on protected routes.
type JWTClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Type   string `json:"type"`
	jwt.RegisteredClaims
}
