package model

import "github.com/golang-jwt/jwt/v5"

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

type AppClaims struct {
	UserID    int    `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// RefreshClaims is the payload of a refresh token. Jti binds the token
// string to its refresh_tokens row independently of the string itself.
type RefreshClaims struct {
	TokenType string `json:"typ"`
	Jti       string `json:"jti"`
	jwt.RegisteredClaims
}
