// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/amrgaberM/codesense/internal/logger"
)

// Config holds the application's configuration values.
type Config struct {
	ServerPort string
	Log        logger.Config

	GroqAPIKey  string
	GroqModel   string
	GroqBaseURL string

	GitHubToken         string
	GitHubWebhookSecret string

	MaxWorkers    int
	MaxPatchBytes int
}

// LoadConfig reads configuration from environment variables and a .env file,
// sets sensible defaults, and validates required fields. It uses the Viper
// library to handle configuration loading and precedence.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("GROQ_MODEL", "llama-3.3-70b-versatile")
	v.SetDefault("GROQ_BASE_URL", "https://api.groq.com/openai/v1")
	v.SetDefault("MAX_WORKERS", 5)
	v.SetDefault("MAX_PATCH_BYTES", 4000)

	if err := v.ReadInConfig(); err != nil {
		// A missing .env file is fine; the environment alone may be complete.
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				slog.Warn("failed to read .env file", "error", err)
			}
		}
	}

	cfg := &Config{
		ServerPort: v.GetString("SERVER_PORT"),
		Log: logger.Config{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		GroqAPIKey:          v.GetString("GROQ_API_KEY"),
		GroqModel:           v.GetString("GROQ_MODEL"),
		GroqBaseURL:         v.GetString("GROQ_BASE_URL"),
		GitHubToken:         v.GetString("GITHUB_TOKEN"),
		GitHubWebhookSecret: v.GetString("GITHUB_WEBHOOK_SECRET"),
		MaxWorkers:          v.GetInt("MAX_WORKERS"),
		MaxPatchBytes:       v.GetInt("MAX_PATCH_BYTES"),
	}

	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 1
	}
	return cfg, nil
}

// ValidateForServer checks the fields the HTTP server and webhook need.
// The CLI skips these so purely local commands work without a full setup.
func (c *Config) ValidateForServer() error {
	if c.GroqAPIKey == "" {
		return fmt.Errorf("GROQ_API_KEY must be set")
	}
	if c.GitHubWebhookSecret == "" {
		return fmt.Errorf("GITHUB_WEBHOOK_SECRET must be set")
	}
	if c.GitHubToken == "" {
		return fmt.Errorf("GITHUB_TOKEN must be set")
	}
	return nil
}
