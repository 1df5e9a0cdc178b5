// package models defines the data model for the trax gateway
package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models in the gateway.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// User is an account resolved from the Spotify authorization-code flow.
//
// A row is created the first time a user authorizes and its token bundle is
// overwritten on every subsequent authorization or refresh.
type User struct {
	id           string
	sequence     int
	spotifyID    string
	name         string
	email        string
	imageURL     string
	product      string
	accessToken  string
	refreshToken string
	tokenExpiry  time.Time
	createdAt    time.Time
	updatedAt    time.Time
	deletedAt    *time.Time
}

// NewUser creates a User for the given Spotify identity.
func NewUser(sequence int, spotifyID, name, email string) *User {
	now := time.Now()
	return &User{
		sequence:  sequence,
		spotifyID: spotifyID,
		name:      name,
		email:     email,
		createdAt: now,
		updatedAt: now,
	}
}

func (u *User) ID() string             { return u.id }
func (u *User) Sequence() int          { return u.sequence }
func (u *User) SpotifyID() string      { return u.spotifyID }
func (u *User) Name() string           { return u.name }
func (u *User) Email() string          { return u.email }
func (u *User) ImageURL() string       { return u.imageURL }
func (u *User) Product() string        { return u.product }
func (u *User) AccessToken() string    { return u.accessToken }
func (u *User) RefreshToken() string   { return u.refreshToken }
func (u *User) TokenExpiry() time.Time { return u.tokenExpiry }
func (u *User) CreatedAt() time.Time   { return u.createdAt }
func (u *User) UpdatedAt() time.Time   { return u.updatedAt }
func (u *User) DeletedAt() *time.Time  { return u.deletedAt }

func (u *User) SetID(id string)           { u.id = id }
func (u *User) SetSequence(sequence int)  { u.sequence = sequence }
func (u *User) SetUpdatedAt(t time.Time)  { u.updatedAt = t }
func (u *User) SetDeletedAt(t *time.Time) { u.deletedAt = t }

// SetProfile overwrites the profile fields fetched from the streaming API.
func (u *User) SetProfile(name, email, imageURL, product string) {
	u.name = name
	u.email = email
	u.imageURL = imageURL
	u.product = product
}

// SetTokens overwrites the stored OAuth token bundle.
func (u *User) SetTokens(access, refresh string, expiry time.Time) {
	u.accessToken = access
	u.refreshToken = refresh
	u.tokenExpiry = expiry
}

// Validate checks that the user carries the identity fields persistence requires.
func (u *User) Validate() error {
	if u.spotifyID == "" {
		return fmt.Errorf("user requires a spotify id")
	}
	return nil
}
