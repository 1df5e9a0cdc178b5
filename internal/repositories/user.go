package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/trax/internal/models"
	"github.com/desertthunder/trax/internal/shared"
)

const userColumns = `id, sequence, spotify_id, name, email, image_url, product,
	access_token, refresh_token, token_expires_at, created_at, updated_at, deleted_at`

// UserRepository implements [models.Repository] for [models.User] persistence
// and doubles as the user store: it resolves opaque bearer tokens to users.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new [UserRepository] with the given database connection
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database with generated ID and sequence
func (r *UserRepository) Create(user *models.User) error {
	sequence, err := NextSequence(r.db, "users")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	user.SetID(shared.GenerateID())
	user.SetSequence(sequence)

	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO users (id, sequence, spotify_id, name, email, image_url, product,
			access_token, refresh_token, token_expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		user.ID(), user.Sequence(), user.SpotifyID(), user.Name(), user.Email(),
		user.ImageURL(), user.Product(), user.AccessToken(), user.RefreshToken(),
		nullableTime(user.TokenExpiry()), user.CreatedAt(), user.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}

	return nil
}

// Get retrieves a user by ID, excluding soft-deleted users
func (r *UserRepository) Get(id string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = ? AND deleted_at IS NULL`, userColumns)

	user, err := scanUser(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrUserNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return user, nil
}

// GetBySpotifyID retrieves a user by their Spotify account ID.
func (r *UserRepository) GetBySpotifyID(spotifyID string) (*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE spotify_id = ? AND deleted_at IS NULL`, userColumns)

	user, err := scanUser(r.db.QueryRow(query, spotifyID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: spotify id %s", shared.ErrUserNotFound, spotifyID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return user, nil
}

// Update modifies an existing user's profile and token fields
func (r *UserRepository) Update(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	user.SetUpdatedAt(now)

	query := `
		UPDATE users
		SET name = ?, email = ?, image_url = ?, product = ?,
			access_token = ?, refresh_token = ?, token_expires_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		user.Name(), user.Email(), user.ImageURL(), user.Product(),
		user.AccessToken(), user.RefreshToken(), nullableTime(user.TokenExpiry()), now,
		user.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, user.ID())
	}

	return nil
}

// Delete soft-deletes a user by ID
func (r *UserRepository) Delete(id string) error {
	query := `
		UPDATE users
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: %s", shared.ErrUserNotFound, id)
	}

	return nil
}

// List retrieves all users matching the given criteria, excluding soft-deleted users
func (r *UserRepository) List(criteria map[string]any) ([]*models.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE deleted_at IS NULL`, userColumns)
	args := []any{}

	if email, ok := criteria["email"].(string); ok && email != "" {
		query += " AND email = ?"
		args = append(args, email)
	}
	if spotifyID, ok := criteria["spotify_id"].(string); ok && spotifyID != "" {
		query += " AND spotify_id = ?"
		args = append(args, spotifyID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return users, nil
}

// UpsertBySpotifyID inserts the user or, if the Spotify account is already
// known, overwrites its profile and token bundle in place. The user's internal
// ID is set to the canonical row's ID either way.
func (r *UserRepository) UpsertBySpotifyID(user *models.User) error {
	existing, err := r.GetBySpotifyID(user.SpotifyID())
	if err != nil {
		return r.Create(user)
	}

	existing.SetProfile(user.Name(), user.Email(), user.ImageURL(), user.Product())
	existing.SetTokens(user.AccessToken(), user.RefreshToken(), user.TokenExpiry())

	if err := r.Update(existing); err != nil {
		return err
	}

	user.SetID(existing.ID())
	user.SetSequence(existing.Sequence())
	return nil
}

// UpdateAccessByRefresh stores a freshly refreshed access token on the user
// owning the given refresh token. A refresh token the store has never seen is
// not an error: clients may refresh tokens that were never persisted here.
func (r *UserRepository) UpdateAccessByRefresh(refreshToken, accessToken string, expiry time.Time) error {
	query := `
		UPDATE users
		SET access_token = ?, token_expires_at = ?, updated_at = ?
		WHERE refresh_token = ? AND deleted_at IS NULL
	`

	if _, err := r.db.Exec(query, accessToken, nullableTime(expiry), time.Now(), refreshToken); err != nil {
		return fmt.Errorf("failed to update access token: %w", err)
	}

	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanUser.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		id           string
		sequence     int
		spotifyID    string
		name         string
		email        string
		imageURL     string
		product      string
		accessToken  string
		refreshToken string
		tokenExpiry  sql.NullTime
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := row.Scan(&id, &sequence, &spotifyID, &name, &email, &imageURL, &product,
		&accessToken, &refreshToken, &tokenExpiry, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	user := models.NewUser(sequence, spotifyID, name, email)
	user.SetID(id)
	user.SetProfile(name, email, imageURL, product)
	user.SetTokens(accessToken, refreshToken, tokenExpiry.Time)
	user.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		user.SetDeletedAt(&deletedAt.Time)
	}

	return user, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
