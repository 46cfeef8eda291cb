// file: repository/token_repository_test.go

package repository

import (
	"database/sql"
	"go-shop-api/model"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func newTokenRepoWithMock(t *testing.T) (*TokenRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewTokenRepository(db), mock
}

func TestTokenRepository_Create(t *testing.T) {
	record := &model.RefreshToken{
		UserID:    1,
		Token:     "signed.token.string",
		Jti:       "0123456789abcdef0123456789abcdef",
		ExpiresAt: time.Now().Add(30 * 24 * time.Hour),
	}

	t.Run("success", func(t *testing.T) {
		repo, mock := newTokenRepoWithMock(t)
		createdAt := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO refresh_tokens (user_id, token, jti, expires_at) VALUES ($1, $2, $3, $4) RETURNING id, created_at`)).
			WithArgs(record.UserID, record.Token, record.Jti, record.ExpiresAt).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(42, createdAt))

		err := repo.Create(record)
		assert.NoError(t, err)
		assert.Equal(t, 42, record.ID)
		assert.Equal(t, createdAt, record.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unique violation maps to ErrDuplicateToken", func(t *testing.T) {
		repo, mock := newTokenRepoWithMock(t)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO refresh_tokens`)).
			WithArgs(record.UserID, record.Token, record.Jti, record.ExpiresAt).
			WillReturnError(&pq.Error{Code: "23505", Constraint: "uniq_refresh_tokens_jti"})

		err := repo.Create(record)
		assert.ErrorIs(t, err, ErrDuplicateToken)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTokenRepository_GetByJti(t *testing.T) {
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		repo, mock := newTokenRepoWithMock(t)

		rows := sqlmock.NewRows([]string{"id", "user_id", "token", "jti", "created_at", "expires_at"}).
			AddRow(7, 1, "signed.token.string", "0123456789abcdef0123456789abcdef", now, now.Add(time.Hour))
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, token, jti, created_at, expires_at FROM refresh_tokens WHERE jti = $1`)).
			WithArgs("0123456789abcdef0123456789abcdef").
			WillReturnRows(rows)

		record, err := repo.GetByJti("0123456789abcdef0123456789abcdef")
		assert.NoError(t, err)
		assert.Equal(t, 7, record.ID)
		assert.Equal(t, "signed.token.string", record.Token)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("absent", func(t *testing.T) {
		repo, mock := newTokenRepoWithMock(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, user_id, token, jti, created_at, expires_at FROM refresh_tokens WHERE jti = $1`)).
			WithArgs("ffffffffffffffffffffffffffffffff").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByJti("ffffffffffffffffffffffffffffffff")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTokenRepository_DeleteByID(t *testing.T) {
	t.Run("row deleted", func(t *testing.T) {
		repo, mock := newTokenRepoWithMock(t)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_tokens WHERE id = $1`)).
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 1))

		deleted, err := repo.DeleteByID(7)
		assert.NoError(t, err)
		assert.True(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row already gone", func(t *testing.T) {
		repo, mock := newTokenRepoWithMock(t)

		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_tokens WHERE id = $1`)).
			WithArgs(7).
			WillReturnResult(sqlmock.NewResult(0, 0))

		deleted, err := repo.DeleteByID(7)
		assert.NoError(t, err)
		assert.False(t, deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestTokenRepository_DeleteExpired(t *testing.T) {
	repo, mock := newTokenRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_tokens WHERE expires_at <= NOW()`)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.DeleteExpired()
	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTokenRepository_DeleteByUserID(t *testing.T) {
	repo, mock := newTokenRepoWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM refresh_tokens WHERE user_id = $1`)).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.DeleteByUserID(1)
	assert.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
