package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfig(t *testing.T) {
	t.Run("DefaultConfig", func(t *testing.T) {
		t.Setenv("DATABASE_PATH", "")
		t.Setenv("PORT", "")

		config := DefaultConfig()

		if config.Database.Path != "trax.db" {
			t.Errorf("expected database path trax.db, got %s", config.Database.Path)
		}

		if config.Server.Port != 3000 {
			t.Errorf("expected server port 3000, got %d", config.Server.Port)
		}

		if config.Credentials.App.RedirectURI == "" {
			t.Error("expected a default redirect URI")
		}
	})

	t.Run("CreateConfigFile", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		if err := CreateConfigFile(configPath); err != nil {
			t.Fatalf("failed to create config file: %v", err)
		}

		if _, err := os.Stat(configPath); err != nil {
			t.Fatalf("config file should exist: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load created config: %v", err)
		}

		defaultConfig := DefaultConfig()
		if config.Database.Path != defaultConfig.Database.Path {
			t.Errorf("created config database path doesn't match default")
		}

		if err := CreateConfigFile(configPath); err == nil {
			t.Error("creating config file again should fail")
		}
	})

	t.Run("LoadConfig", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.toml")

		testConfig := `[database]
path = "/custom/path.db"
max_open_conns = 20
max_idle_conns = 10

[server]
host = "127.0.0.1"
port = 8080

[credentials.app]
client_id = "test_client_id"
client_secret = "test_secret"
redirect_uri = "http://localhost:3000/callback"

[credentials.api]
client_id = "catalog_id"
client_secret = "catalog_secret"
`
		if err := os.WriteFile(configPath, []byte(testConfig), 0644); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		config, err := LoadConfig(configPath)
		if err != nil {
			t.Fatalf("failed to load config: %v", err)
		}

		if config.Database.Path != "/custom/path.db" {
			t.Errorf("expected database path /custom/path.db, got %s", config.Database.Path)
		}

		if config.Server.Addr() != "127.0.0.1:8080" {
			t.Errorf("expected addr 127.0.0.1:8080, got %s", config.Server.Addr())
		}

		if config.Credentials.App.ClientID != "test_client_id" {
			t.Errorf("expected app client_id test_client_id, got %s", config.Credentials.App.ClientID)
		}

		if config.Credentials.API.ClientID != "catalog_id" {
			t.Errorf("expected api client_id catalog_id, got %s", config.Credentials.API.ClientID)
		}
	})

	t.Run("LoadConfig missing file", func(t *testing.T) {
		if _, err := LoadConfig("/nonexistent/config.toml"); err == nil {
			t.Error("expected error loading missing config")
		}
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("SPOTIFY_APP_CLIENT_ID", "env_app_id")
		t.Setenv("SPOTIFY_ID", "env_api_id")
		t.Setenv("DATABASE_PATH", "/tmp/env.db")
		t.Setenv("PORT", "9090")

		config := DefaultConfig()

		if config.Credentials.App.ClientID != "env_app_id" {
			t.Errorf("expected env app client_id, got %s", config.Credentials.App.ClientID)
		}

		if config.Credentials.API.ClientID != "env_api_id" {
			t.Errorf("expected env api client_id, got %s", config.Credentials.API.ClientID)
		}

		if config.Database.Path != "/tmp/env.db" {
			t.Errorf("expected env database path, got %s", config.Database.Path)
		}

		if config.Server.Port != 9090 {
			t.Errorf("expected env port 9090, got %d", config.Server.Port)
		}
	})

	t.Run("invalid PORT value ignored", func(t *testing.T) {
		t.Setenv("PORT", "not-a-number")

		config := DefaultConfig()
		if config.Server.Port != 3000 {
			t.Errorf("expected default port 3000, got %d", config.Server.Port)
		}
	})

	t.Run("Map includes redirect URI", func(t *testing.T) {
		app := AppConfig{ClientID: "id", ClientSecret: "secret", RedirectURI: "http://cb"}
		m := app.Map()

		if m["client_id"] != "id" || m["client_secret"] != "secret" || m["redirect_uri"] != "http://cb" {
			t.Errorf("Map() = %v", m)
		}
	})
}
