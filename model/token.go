// file: model/token.go

package model

import "time"

// RefreshToken holds one row of the refresh_tokens table. Exactly one row
// exists per outstanding refresh token; deleting the row is the only form
// of revocation.
type RefreshToken struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Token     string    `json:"-"` // The signed token string is never exposed in JSON responses.
	Jti       string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsValid reports whether the record itself is still time-valid.
// Record presence is checked separately by the repository lookup.
func (t *RefreshToken) IsValid() bool {
	return time.Now().Before(t.ExpiresAt)
}
