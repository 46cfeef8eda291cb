// file: service/token_codec.go

package service

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Typed decode failures. Decoding is a pure cryptographic check and never
// touches the database; a token that decodes fine may still have been
// rotated or revoked.
var (
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
)

// TokenCodec signs and parses JWT strings with a process-wide secret.
// The secret is fixed at construction and never changes for the lifetime
// of the process.
type TokenCodec struct {
	secretKey []byte
}

func NewTokenCodec(secretKey string) *TokenCodec {
	return &TokenCodec{secretKey: []byte(secretKey)}
}

// Encode signs the given claims with HS256.
func (c *TokenCodec) Encode(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secretKey)
}

// Decode parses a token string into claims, verifying the signature and the
// exp claim. Failures are reported as ErrMalformedToken, ErrInvalidSignature
// or ErrTokenExpired.
func (c *TokenCodec) Decode(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return c.secretKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return ErrMalformedToken
		default:
			return ErrMalformedToken
		}
	}
	if !token.Valid {
		return ErrInvalidSignature
	}
	return nil
}
