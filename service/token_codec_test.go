// file: service/token_codec_test.go

package service

import (
	"go-shop-api/model"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func encodeTestClaims(t *testing.T, codec *TokenCodec, expiresAt time.Time) string {
	t.Helper()
	claims := &model.RefreshClaims{
		TokenType: model.TokenTypeRefresh,
		Jti:       "0123456789abcdef0123456789abcdef",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1@mail.com",
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	tokenString, err := codec.Encode(claims)
	assert.NoError(t, err)
	return tokenString
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec("secret-a")
	tokenString := encodeTestClaims(t, codec, time.Now().Add(time.Hour))

	decoded := &model.RefreshClaims{}
	err := codec.Decode(tokenString, decoded)

	assert.NoError(t, err)
	assert.Equal(t, model.TokenTypeRefresh, decoded.TokenType)
	assert.Equal(t, "0123456789abcdef0123456789abcdef", decoded.Jti)
	assert.Equal(t, "u1@mail.com", decoded.Subject)
}

func TestTokenCodec_Malformed(t *testing.T) {
	codec := NewTokenCodec("secret-a")

	for _, tokenString := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		err := codec.Decode(tokenString, &model.RefreshClaims{})
		assert.ErrorIs(t, err, ErrMalformedToken, "input: %q", tokenString)
	}
}

func TestTokenCodec_WrongKey(t *testing.T) {
	codec := NewTokenCodec("secret-a")
	other := NewTokenCodec("secret-b")
	tokenString := encodeTestClaims(t, codec, time.Now().Add(time.Hour))

	err := other.Decode(tokenString, &model.RefreshClaims{})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenCodec_FlippedSignatureByte(t *testing.T) {
	codec := NewTokenCodec("secret-a")
	tokenString := encodeTestClaims(t, codec, time.Now().Add(time.Hour))

	parts := strings.Split(tokenString, ".")
	assert.Len(t, parts, 3)

	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	err := codec.Decode(tampered, &model.RefreshClaims{})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenCodec_Expired(t *testing.T) {
	codec := NewTokenCodec("secret-a")
	tokenString := encodeTestClaims(t, codec, time.Now().Add(-time.Minute))

	err := codec.Decode(tokenString, &model.RefreshClaims{})
	assert.ErrorIs(t, err, ErrTokenExpired)
}
