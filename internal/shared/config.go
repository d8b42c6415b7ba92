package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the relay configuration loaded from a TOML file.
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Credentials CredentialsConfig `toml:"credentials"`
}

// CredentialsConfig contains per-service credentials.
type CredentialsConfig struct {
	Spotify OAuthClientConfig `toml:"spotify"`
	Google  OAuthClientConfig `toml:"google"`
	Gemini  GeminiConfig      `toml:"gemini"`
}

// OAuthClientConfig contains a registered OAuth client for one provider.
type OAuthClientConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// Configured reports whether the client has usable credentials.
func (c OAuthClientConfig) Configured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// GeminiConfig contains the Gemini API credential and model selection.
type GeminiConfig struct {
	APIKey     string `toml:"api_key"`
	TextModel  string `toml:"text_model"`
	ImageModel string `toml:"image_model"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path,
// then applies any RELAY_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMissingConfig, path, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	config.ApplyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded example
// config, with RELAY_* environment overrides applied. Deployments without a
// config file configure the relay entirely through the environment.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.ApplyEnv()
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

// ApplyEnv overrides config values with RELAY_* environment variables.
// Unset or empty variables leave the file-provided value intact.
func (c *Config) ApplyEnv() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Server.Host, "RELAY_HOST")
	if v := os.Getenv("RELAY_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}

	setString(&c.Credentials.Spotify.ClientID, "RELAY_SPOTIFY_CLIENT_ID")
	setString(&c.Credentials.Spotify.ClientSecret, "RELAY_SPOTIFY_CLIENT_SECRET")
	setString(&c.Credentials.Spotify.RedirectURI, "RELAY_SPOTIFY_REDIRECT_URI")

	setString(&c.Credentials.Google.ClientID, "RELAY_GOOGLE_CLIENT_ID")
	setString(&c.Credentials.Google.ClientSecret, "RELAY_GOOGLE_CLIENT_SECRET")
	setString(&c.Credentials.Google.RedirectURI, "RELAY_GOOGLE_REDIRECT_URI")

	setString(&c.Credentials.Gemini.APIKey, "RELAY_GEMINI_API_KEY")
	setString(&c.Credentials.Gemini.TextModel, "RELAY_GEMINI_TEXT_MODEL")
	setString(&c.Credentials.Gemini.ImageModel, "RELAY_GEMINI_IMAGE_MODEL")
}
