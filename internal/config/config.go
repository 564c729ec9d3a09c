package config

import (
	"fmt"
	"os"
	"strconv"
)

// DefaultEndpoint is the tracker GraphQL API endpoint.
const DefaultEndpoint = "https://api.tracker.dev/graphql"

// DefaultTokenURL is the OAuth token endpoint used for app auth.
const DefaultTokenURL = "https://api.tracker.dev/oauth/token"

// Config holds all configuration for trk
type Config struct {
	// Tracker API settings
	Endpoint string

	// Personal API key auth
	APIKey string

	// App (OAuth client assertion) auth
	AppID      string
	PrivateKey string
	TokenURL   string

	// GitHub mirror settings
	GitHubToken string

	// Display settings
	EmbeddedCommentLimit int

	// Serve settings
	Port int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Endpoint:             getEnv("TRACKER_ENDPOINT", DefaultEndpoint),
		APIKey:               os.Getenv("TRACKER_API_KEY"),
		AppID:                os.Getenv("TRACKER_APP_ID"),
		PrivateKey:           os.Getenv("TRACKER_PRIVATE_KEY"),
		TokenURL:             getEnv("TRACKER_TOKEN_URL", DefaultTokenURL),
		GitHubToken:          os.Getenv("GITHUB_TOKEN"),
		EmbeddedCommentLimit: getEnvInt("TRK_DEFAULT_LIMIT", 3),
		Port:                 getEnvInt("PORT", 8000),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// UseAppAuth reports whether app credentials are configured.
func (c *Config) UseAppAuth() bool {
	return c.AppID != "" && c.PrivateKey != ""
}

// validate checks that a usable auth mode is configured
func (c *Config) validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("TRACKER_ENDPOINT must not be empty")
	}
	if c.APIKey == "" && c.AppID == "" {
		return fmt.Errorf("TRACKER_API_KEY or TRACKER_APP_ID + TRACKER_PRIVATE_KEY is required")
	}
	if c.APIKey != "" && c.AppID != "" {
		return fmt.Errorf("TRACKER_API_KEY and TRACKER_APP_ID are mutually exclusive")
	}
	if c.AppID != "" && c.PrivateKey == "" {
		return fmt.Errorf("TRACKER_PRIVATE_KEY is required with TRACKER_APP_ID")
	}
	if c.EmbeddedCommentLimit < 0 {
		return fmt.Errorf("TRK_DEFAULT_LIMIT must not be negative")
	}
	if c.Port <= 0 {
		return fmt.Errorf("PORT must be greater than 0")
	}
	return nil
}

// getEnv gets environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets environment variable as int with a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
