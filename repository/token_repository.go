// file: repository/token_repository.go

package repository

import (
	"database/sql"
	"errors"
	"go-shop-api/logger"
	"go-shop-api/model"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// ErrDuplicateToken is returned by Create when the token string or the jti
// collides with an existing row. The service retries with fresh randomness.
var ErrDuplicateToken = errors.New("refresh token or jti already exists")

// ITokenRepository defines the contract for refresh token database operations.
type ITokenRepository interface {
	Create(token *model.RefreshToken) error
	GetByToken(tokenString string) (*model.RefreshToken, error)
	GetByJti(jti string) (*model.RefreshToken, error)
	DeleteByID(id int) (bool, error)
	DeleteExpired() (int64, error)
	DeleteByUserID(userID int) (int64, error)
}

// TokenRepository implements ITokenRepository on top of postgres.
type TokenRepository struct {
	DB *sql.DB
}

// NewTokenRepository creates a new TokenRepository.
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{DB: db}
}

// Create inserts a new refresh token record into the database.
// A unique violation on token or jti is reported as ErrDuplicateToken.
func (r *TokenRepository) Create(token *model.RefreshToken) error {
	log := logger.Log.WithFields(logrus.Fields{
		"user_id":    token.UserID,
		"jti":        token.Jti,
		"expires_at": token.ExpiresAt,
	})
	log.Info("Executing query to create a new refresh token")

	query := `INSERT INTO refresh_tokens (user_id, token, jti, expires_at) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	err := r.DB.QueryRow(query, token.UserID, token.Token, token.Jti, token.ExpiresAt).Scan(&token.ID, &token.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			log.Warn("Duplicate refresh token or jti on insert")
			return ErrDuplicateToken
		}
		log.WithError(err).Error("Failed to execute create refresh token query")
		return err
	}
	return nil
}

// GetByToken retrieves a refresh token record by its exact token string.
func (r *TokenRepository) GetByToken(tokenString string) (*model.RefreshToken, error) {
	token := &model.RefreshToken{}
	query := `SELECT id, user_id, token, jti, created_at, expires_at FROM refresh_tokens WHERE token = $1`
	err := r.DB.QueryRow(query, tokenString).Scan(&token.ID, &token.UserID, &token.Token, &token.Jti, &token.CreatedAt, &token.ExpiresAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get refresh token by token query")
		}
		return nil, err // Return sql.ErrNoRows if not found
	}
	return token, nil
}

// GetByJti retrieves a refresh token record by its jti. This is the primary
// lookup used during validation; jti is indexed and not derivable from the
// token string alone.
func (r *TokenRepository) GetByJti(jti string) (*model.RefreshToken, error) {
	token := &model.RefreshToken{}
	query := `SELECT id, user_id, token, jti, created_at, expires_at FROM refresh_tokens WHERE jti = $1`
	err := r.DB.QueryRow(query, jti).Scan(&token.ID, &token.UserID, &token.Token, &token.Jti, &token.CreatedAt, &token.ExpiresAt)
	if err != nil {
		if err != sql.ErrNoRows {
			logger.Log.WithError(err).Error("Failed to execute get refresh token by jti query")
		}
		return nil, err
	}
	return token, nil
}

// DeleteByID deletes a single record and reports whether a row was actually
// removed. Concurrent rotations of the same token race on this delete: only
// the caller that sees true may proceed to issue a new pair.
func (r *TokenRepository) DeleteByID(id int) (bool, error) {
	res, err := r.DB.Exec(`DELETE FROM refresh_tokens WHERE id = $1`, id)
	if err != nil {
		logger.Log.WithError(err).WithField("token_id", id).Error("Failed to execute delete refresh token query")
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

// DeleteExpired removes all records past their expiry. Safe to run
// repeatedly and concurrently with request traffic.
func (r *TokenRepository) DeleteExpired() (int64, error) {
	res, err := r.DB.Exec(`DELETE FROM refresh_tokens WHERE expires_at <= NOW()`)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to execute delete expired refresh tokens query")
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByUserID deletes all refresh tokens for a specific user.
// This is used for logging out from all sessions.
func (r *TokenRepository) DeleteByUserID(userID int) (int64, error) {
	log := logger.Log.WithField("user_id", userID)
	log.Info("Executing query to delete all refresh tokens for a user")

	res, err := r.DB.Exec(`DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		log.WithError(err).Error("Failed to execute delete refresh tokens query")
		return 0, err
	}
	return res.RowsAffected()
}
