package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file,
// with environment variables taking precedence over file values.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig holds the two Spotify credential pairs.
//
// App is the user-facing OAuth application (authorization-code flow).
// API is the separate client-credentials pair backing catalog lookups.
type CredentialsConfig struct {
	App AppConfig `toml:"app"`
	API APIConfig `toml:"api"`
}

// AppConfig contains the OAuth application credentials.
type AppConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// Map converts the app credentials into the map form service constructors accept.
func (a AppConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     a.ClientID,
		"client_secret": a.ClientSecret,
		"redirect_uri":  a.RedirectURI,
	}
}

// APIConfig contains the client-credentials pair for app-level catalog access.
type APIConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port address string for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path,
// then applies environment variable overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config parsed from the embedded example config,
// with environment variable overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnv overrides config values from the environment. A .env file in the
// working directory is loaded first if present (missing file is not an error).
//
// Recognized variables: SPOTIFY_APP_CLIENT_ID, SPOTIFY_APP_CLIENT_SECRET,
// REDIRECT_URI, SPOTIFY_ID, SPOTIFY_SECRET, DATABASE_PATH, PORT.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("SPOTIFY_APP_CLIENT_ID"); v != "" {
		c.Credentials.App.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_APP_CLIENT_SECRET"); v != "" {
		c.Credentials.App.ClientSecret = v
	}
	if v := os.Getenv("REDIRECT_URI"); v != "" {
		c.Credentials.App.RedirectURI = v
	}
	if v := os.Getenv("SPOTIFY_ID"); v != "" {
		c.Credentials.API.ClientID = v
	}
	if v := os.Getenv("SPOTIFY_SECRET"); v != "" {
		c.Credentials.API.ClientSecret = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}
