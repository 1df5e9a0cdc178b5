package repositories

import (
	"fmt"
	"time"

	"github.com/desertthunder/trax/internal/models"
	"github.com/desertthunder/trax/internal/shared"
)

// DefaultTokenTTL is how long an issued bearer token stays valid.
const DefaultTokenTTL = 30 * 24 * time.Hour

// IssueToken mints an opaque bearer token for the given user and records it in
// the sessions table. A non-positive ttl falls back to [DefaultTokenTTL].
func (r *UserRepository) IssueToken(userID string, ttl time.Duration) (string, error) {
	if _, err := r.Get(userID); err != nil {
		return "", err
	}

	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	token := shared.GenerateID()
	now := time.Now()

	query := `INSERT INTO sessions (token, user_id, created_at, expires_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.Exec(query, token, userID, now, now.Add(ttl)); err != nil {
		return "", fmt.Errorf("failed to insert session: %w", err)
	}

	return token, nil
}

// RevokeToken deletes a bearer token from the sessions table.
func (r *UserRepository) RevokeToken(token string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("token not found")
	}

	return nil
}

// AuthenticateToken resolves an opaque bearer token to its user.
//
// Every failure mode (unknown token, expired token, deleted user, storage
// error) returns [shared.ErrInvalidLogin] so callers cannot distinguish
// between them.
func (r *UserRepository) AuthenticateToken(token string) (*models.User, error) {
	query := `SELECT user_id, expires_at FROM sessions WHERE token = ?`

	var (
		userID    string
		expiresAt time.Time
	)
	if err := r.db.QueryRow(query, token).Scan(&userID, &expiresAt); err != nil {
		return nil, shared.ErrInvalidLogin
	}

	if time.Now().After(expiresAt) {
		return nil, shared.ErrInvalidLogin
	}

	user, err := r.Get(userID)
	if err != nil {
		return nil, shared.ErrInvalidLogin
	}

	return user, nil
}
