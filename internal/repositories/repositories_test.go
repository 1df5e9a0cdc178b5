package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/trax/internal/models"
	"github.com/desertthunder/trax/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestUserRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser(0, "spotify123", "Test User", "test@example.com")

		err := repo.Create(user)
		if err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		if user.ID() == "" {
			t.Error("user ID should be set after creation")
		}

		if user.Sequence() == 0 {
			t.Error("user sequence should be set after creation")
		}
	})

	t.Run("Create without spotify ID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser(0, "", "No Account", "no@example.com")

		if err := repo.Create(user); err == nil {
			t.Error("expected validation error for missing spotify ID")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser(0, "spotify123", "Test User", "test@example.com")

		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		retrieved, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}

		if retrieved.ID() != user.ID() {
			t.Errorf("expected ID %s, got %s", user.ID(), retrieved.ID())
		}

		if retrieved.Email() != user.Email() {
			t.Errorf("expected email %s, got %s", user.Email(), retrieved.Email())
		}
	})

	t.Run("GetBySpotifyID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser(0, "spotify123", "Test User", "test@example.com")

		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		retrieved, err := repo.GetBySpotifyID("spotify123")
		if err != nil {
			t.Fatalf("failed to get user by spotify id: %v", err)
		}

		if retrieved.ID() != user.ID() {
			t.Errorf("expected ID %s, got %s", user.ID(), retrieved.ID())
		}

		if _, err := repo.GetBySpotifyID("unknown"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser(0, "spotify123", "Test User", "test@example.com")

		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		user.SetProfile("New Name", "new@example.com", "http://img", "premium")
		user.SetTokens("access", "refresh", time.Now().Add(time.Hour))

		if err := repo.Update(user); err != nil {
			t.Fatalf("failed to update user: %v", err)
		}

		retrieved, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}

		if retrieved.Name() != "New Name" {
			t.Errorf("expected name 'New Name', got %s", retrieved.Name())
		}

		if retrieved.AccessToken() != "access" {
			t.Errorf("expected access token to persist, got %s", retrieved.AccessToken())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser(0, "spotify123", "Test User", "test@example.com")

		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		if err := repo.Delete(user.ID()); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		_, err := repo.Get(user.ID())
		if err == nil {
			t.Error("expected error when getting deleted user")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)

		users := []*models.User{
			models.NewUser(0, "account1", "User One", "user1@example.com"),
			models.NewUser(0, "account2", "User Two", "user2@example.com"),
			models.NewUser(0, "account3", "User Three", "user3@example.com"),
		}

		for _, user := range users {
			if err := repo.Create(user); err != nil {
				t.Fatalf("failed to create user: %v", err)
			}
		}

		retrieved, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}

		if len(retrieved) != 3 {
			t.Errorf("expected 3 users, got %d", len(retrieved))
		}

		filtered, err := repo.List(map[string]any{"email": "user2@example.com"})
		if err != nil {
			t.Fatalf("failed to list filtered users: %v", err)
		}

		if len(filtered) != 1 {
			t.Errorf("expected 1 user, got %d", len(filtered))
		}

		if len(filtered) > 0 && filtered[0].SpotifyID() != "account2" {
			t.Errorf("expected account2, got %s", filtered[0].SpotifyID())
		}
	})

	t.Run("UpsertBySpotifyID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)

		first := models.NewUser(0, "spotify123", "Original", "orig@example.com")
		if err := repo.UpsertBySpotifyID(first); err != nil {
			t.Fatalf("failed to upsert new user: %v", err)
		}

		second := models.NewUser(0, "spotify123", "Updated", "updated@example.com")
		second.SetTokens("new-access", "new-refresh", time.Now().Add(time.Hour))
		if err := repo.UpsertBySpotifyID(second); err != nil {
			t.Fatalf("failed to upsert existing user: %v", err)
		}

		if second.ID() != first.ID() {
			t.Errorf("upsert should keep the canonical ID: got %s, want %s", second.ID(), first.ID())
		}

		all, err := repo.List(map[string]any{"spotify_id": "spotify123"})
		if err != nil {
			t.Fatalf("failed to list users: %v", err)
		}
		if len(all) != 1 {
			t.Fatalf("expected a single row after upsert, got %d", len(all))
		}

		if all[0].Name() != "Updated" {
			t.Errorf("expected profile overwrite, got name %s", all[0].Name())
		}

		if all[0].AccessToken() != "new-access" {
			t.Errorf("expected token overwrite, got %s", all[0].AccessToken())
		}
	})

	t.Run("UpdateAccessByRefresh", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser(0, "spotify123", "Test User", "test@example.com")
		user.SetTokens("old-access", "refresh-abc", time.Now())

		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		expiry := time.Now().Add(time.Hour)
		if err := repo.UpdateAccessByRefresh("refresh-abc", "fresh-access", expiry); err != nil {
			t.Fatalf("failed to update access token: %v", err)
		}

		retrieved, err := repo.Get(user.ID())
		if err != nil {
			t.Fatalf("failed to get user: %v", err)
		}

		if retrieved.AccessToken() != "fresh-access" {
			t.Errorf("expected fresh-access, got %s", retrieved.AccessToken())
		}

		// Unknown refresh tokens are a silent no-op
		if err := repo.UpdateAccessByRefresh("never-seen", "x", expiry); err != nil {
			t.Errorf("unknown refresh token should not error: %v", err)
		}
	})
}

func TestSessions(t *testing.T) {
	t.Run("IssueToken and AuthenticateToken", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser(0, "spotify123", "Test User", "test@example.com")
		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		token, err := repo.IssueToken(user.ID(), 0)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		if token == "" {
			t.Fatal("expected a non-empty token")
		}

		resolved, err := repo.AuthenticateToken(token)
		if err != nil {
			t.Fatalf("failed to authenticate token: %v", err)
		}

		if resolved.ID() != user.ID() {
			t.Errorf("expected user %s, got %s", user.ID(), resolved.ID())
		}
	})

	t.Run("IssueToken for unknown user", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		if _, err := repo.IssueToken("no-such-user", 0); err == nil {
			t.Error("expected error issuing token for unknown user")
		}
	})

	t.Run("unknown token collapses to invalid login", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		if _, err := repo.AuthenticateToken("bogus"); !errors.Is(err, shared.ErrInvalidLogin) {
			t.Errorf("expected ErrInvalidLogin, got %v", err)
		}
	})

	t.Run("expired token collapses to invalid login", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser(0, "spotify123", "Test User", "test@example.com")
		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		token, err := repo.IssueToken(user.ID(), time.Nanosecond)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		time.Sleep(2 * time.Millisecond)

		if _, err := repo.AuthenticateToken(token); !errors.Is(err, shared.ErrInvalidLogin) {
			t.Errorf("expected ErrInvalidLogin for expired token, got %v", err)
		}
	})

	t.Run("deleted user collapses to invalid login", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser(0, "spotify123", "Test User", "test@example.com")
		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		token, err := repo.IssueToken(user.ID(), 0)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		if err := repo.Delete(user.ID()); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		if _, err := repo.AuthenticateToken(token); !errors.Is(err, shared.ErrInvalidLogin) {
			t.Errorf("expected ErrInvalidLogin for deleted user, got %v", err)
		}
	})

	t.Run("RevokeToken", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := models.NewUser(0, "spotify123", "Test User", "test@example.com")
		if err := repo.Create(user); err != nil {
			t.Fatalf("failed to create user: %v", err)
		}

		token, err := repo.IssueToken(user.ID(), 0)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}

		if err := repo.RevokeToken(token); err != nil {
			t.Fatalf("failed to revoke token: %v", err)
		}

		if _, err := repo.AuthenticateToken(token); !errors.Is(err, shared.ErrInvalidLogin) {
			t.Errorf("expected ErrInvalidLogin after revocation, got %v", err)
		}

		if err := repo.RevokeToken(token); err == nil {
			t.Error("revoking an unknown token should error")
		}
	})
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	seq1, err := NextSequence(db, "users")
	if err != nil {
		t.Fatalf("failed to get first sequence: %v", err)
	}

	if seq1 != 1 {
		t.Errorf("expected first sequence to be 1, got %d", seq1)
	}

	seq2, err := NextSequence(db, "users")
	if err != nil {
		t.Fatalf("failed to get second sequence: %v", err)
	}

	if seq2 != 2 {
		t.Errorf("expected second sequence to be 2, got %d", seq2)
	}
}
