// file: service/token_service.go

package service

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"go-shop-api/logger"
	"go-shop-api/model"
	"go-shop-api/repository"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

const (
	// AccessTokenTTL is the lifetime of a stateless access token.
	AccessTokenTTL = 15 * time.Minute
	// RefreshTokenTTL is the lifetime of a refresh token record.
	RefreshTokenTTL = 30 * 24 * time.Hour

	// maxIssueAttempts bounds the retries on a duplicate token/jti insert.
	// A collision on 16 random bytes is effectively impossible, so more
	// than one retry already means the storage layer is misbehaving.
	maxIssueAttempts = 3
)

// ErrInvalidRefreshToken is the uniform rejection for every validation
// failure: malformed, bad signature, expired, unknown jti, token string
// mismatch, record expired, rotation race lost. Callers must not be able
// to tell which check failed.
var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"refresh_token"`
	ExpiresIn        int       `json:"expires_in"`
	RefreshExpiresAt time.Time `json:"refresh_expires_at"`
}

// TokenService owns the refresh token lifecycle: issuing pairs, validating
// and rotating refresh tokens, and revoking them one by one or in bulk.
type TokenService struct {
	codec     *TokenCodec
	tokenRepo repository.ITokenRepository
	userRepo  repository.IUserRepository
}

func NewTokenService(codec *TokenCodec, tokenRepo repository.ITokenRepository, userRepo repository.IUserRepository) *TokenService {
	return &TokenService{
		codec:     codec,
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
	}
}

// IssueTokenPair creates an access token and a refresh token for the user
// and persists the refresh token record. Existing records of the user are
// left untouched: a user may hold one refresh token per device.
func (s *TokenService) IssueTokenPair(user *model.User) (*TokenPair, error) {
	accessToken, err := s.createAccessToken(user)
	if err != nil {
		return nil, err
	}

	var refreshToken string
	var record *model.RefreshToken
	for attempt := 1; ; attempt++ {
		refreshToken, record, err = s.createRefreshToken(user)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateToken) || attempt >= maxIssueAttempts {
			return nil, fmt.Errorf("failed to persist refresh token: %w", err)
		}
		logger.Log.WithFields(logrus.Fields{
			"user_id": user.ID,
			"attempt": attempt,
		}).Warn("Refresh token collision, retrying with fresh jti")
	}

	return &TokenPair{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresIn:        int(AccessTokenTTL.Seconds()),
		RefreshExpiresAt: record.ExpiresAt,
	}, nil
}

// ValidateRefreshToken checks a presented refresh token string against both
// its signature and its stored record. Any failure, whatever the cause,
// comes back as ErrInvalidRefreshToken; only infrastructure faults (store
// unreachable) surface as themselves.
func (s *TokenService) ValidateRefreshToken(tokenString string) (*model.RefreshToken, error) {
	claims := &model.RefreshClaims{}
	if err := s.codec.Decode(tokenString, claims); err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if claims.TokenType != model.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	// Defense in depth: the codec already enforces exp, but the claim is
	// cheap to re-check before the store lookup.
	if claims.ExpiresAt == nil || !time.Now().Before(claims.ExpiresAt.Time) {
		return nil, ErrInvalidRefreshToken
	}

	if claims.Jti == "" {
		return nil, ErrInvalidRefreshToken
	}

	record, err := s.tokenRepo.GetByJti(claims.Jti)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	// A forged token could carry a leaked jti with a different payload;
	// the stored string must match exactly.
	if record.Token != tokenString || !record.IsValid() {
		return nil, ErrInvalidRefreshToken
	}

	return record, nil
}

// RotateOnRefresh exchanges a valid refresh token for a brand-new pair.
// The old record is deleted first and the delete is the serialization
// point: of N concurrent calls with the same token, exactly one observes
// the row disappearing and wins; the rest get the uniform rejection.
func (s *TokenService) RotateOnRefresh(tokenString string) (*TokenPair, error) {
	record, err := s.ValidateRefreshToken(tokenString)
	if err != nil {
		return nil, err
	}

	deleted, err := s.tokenRepo.DeleteByID(record.ID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		// Lost the race against a concurrent rotation or revocation.
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.userRepo.GetUserByID(record.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	logger.Log.WithField("user_id", user.ID).Info("Refresh token rotated")
	return s.IssueTokenPair(user)
}

// RevokeToken deletes the record matching the exact token string. It is
// idempotent: revoking an unknown or already-revoked token reports false
// without error.
func (s *TokenService) RevokeToken(tokenString string) (bool, error) {
	record, err := s.tokenRepo.GetByToken(tokenString)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}

	deleted, err := s.tokenRepo.DeleteByID(record.ID)
	if err != nil {
		return false, err
	}
	return deleted, nil
}

// RevokeAllForUser deletes every refresh token the user holds, across all
// devices. Already-issued access tokens stay valid until their own short
// expiry; they are stateless and cannot be recalled without a denylist.
func (s *TokenService) RevokeAllForUser(userID int) (int64, error) {
	count, err := s.tokenRepo.DeleteByUserID(userID)
	if err != nil {
		return 0, err
	}
	logger.Log.WithFields(logrus.Fields{
		"user_id": userID,
		"revoked": count,
	}).Info("Revoked all refresh tokens for user")
	return count, nil
}

// SweepExpired purges records past their expiry. Pure storage hygiene:
// validation rejects expired records whether or not they were swept yet.
func (s *TokenService) SweepExpired() (int64, error) {
	count, err := s.tokenRepo.DeleteExpired()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Log.WithField("deleted", count).Info("Swept expired refresh tokens")
	}
	return count, nil
}

func (s *TokenService) createAccessToken(user *model.User) (string, error) {
	now := time.Now()
	claims := &model.AppClaims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenType: model.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenTTL)),
		},
	}

	tokenString, err := s.codec.Encode(claims)
	if err != nil {
		logger.Log.WithError(err).WithField("email", user.Email).Error("Failed to sign access token")
		return "", fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, nil
}

func (s *TokenService) createRefreshToken(user *model.User) (string, *model.RefreshToken, error) {
	jti, err := generateJti()
	if err != nil {
		return "", nil, err
	}

	now := time.Now()
	expiresAt := now.Add(RefreshTokenTTL)
	claims := &model.RefreshClaims{
		TokenType: model.TokenTypeRefresh,
		Jti:       jti,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	tokenString, err := s.codec.Encode(claims)
	if err != nil {
		logger.Log.WithError(err).WithField("email", user.Email).Error("Failed to sign refresh token")
		return "", nil, fmt.Errorf("failed to sign token string: %w", err)
	}

	record := &model.RefreshToken{
		UserID:    user.ID,
		Token:     tokenString,
		Jti:       jti,
		ExpiresAt: expiresAt,
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return "", nil, err
	}

	return tokenString, record, nil
}

// generateJti returns 16 random bytes as a 32 character hex string.
func generateJti() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate jti: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
