package models

import (
	"testing"
	"time"
)

func TestUser(t *testing.T) {
	t.Run("NewUser sets timestamps", func(t *testing.T) {
		user := NewUser(1, "spotify123", "Test User", "test@example.com")

		if user.CreatedAt().IsZero() {
			t.Error("expected created timestamp")
		}
		if user.UpdatedAt().IsZero() {
			t.Error("expected updated timestamp")
		}
		if user.ID() != "" {
			t.Error("ID should be unset until persisted")
		}
	})

	t.Run("Validate requires a spotify id", func(t *testing.T) {
		user := NewUser(1, "spotify123", "Test User", "test@example.com")
		if err := user.Validate(); err != nil {
			t.Errorf("expected valid user, got %v", err)
		}

		anonymous := NewUser(1, "", "No Account", "no@example.com")
		if err := anonymous.Validate(); err == nil {
			t.Error("expected validation error for missing spotify id")
		}
	})

	t.Run("SetProfile overwrites profile fields", func(t *testing.T) {
		user := NewUser(1, "spotify123", "Old Name", "old@example.com")
		user.SetProfile("New Name", "new@example.com", "http://img", "premium")

		if user.Name() != "New Name" || user.Email() != "new@example.com" {
			t.Errorf("profile not overwritten: %s / %s", user.Name(), user.Email())
		}
		if user.ImageURL() != "http://img" || user.Product() != "premium" {
			t.Errorf("profile not overwritten: %s / %s", user.ImageURL(), user.Product())
		}
	})

	t.Run("SetTokens overwrites the token bundle", func(t *testing.T) {
		user := NewUser(1, "spotify123", "Test User", "test@example.com")

		expiry := time.Now().Add(time.Hour)
		user.SetTokens("access", "refresh", expiry)

		if user.AccessToken() != "access" || user.RefreshToken() != "refresh" {
			t.Errorf("tokens not set: %s / %s", user.AccessToken(), user.RefreshToken())
		}
		if !user.TokenExpiry().Equal(expiry) {
			t.Errorf("expiry not set: %v", user.TokenExpiry())
		}
	})
}
