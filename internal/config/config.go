// Package config loads application configuration from environment variables.
package config

import (
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/dmforge/dmforge/internal/errors"
)

// Config holds everything the game session needs. Only the OpenRouter API
// key is required; everything else has a workable default.
type Config struct {
	// OpenRouterAPIKey authenticates against OpenRouter. Keys start with
	// sk-or- but other OpenAI-compatible keys are accepted with a warning
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`

	// Model is the OpenRouter model identifier
	Model string `env:"DM_MODEL" envDefault:"meta-llama/llama-3.1-8b-instruct:free"`

	// BaseURL is the OpenAI-compatible endpoint
	BaseURL string `env:"DM_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`

	// PlayerDataDir holds the party and character JSON files
	PlayerDataDir string `env:"DM_PLAYER_DATA_DIR" envDefault:"./player_data"`

	// RedisAddr enables the Redis game store when set; empty keeps world
	// elements in memory for the session
	RedisAddr string `env:"DM_REDIS_ADDR"`

	// Debug switches log output to debug level
	Debug bool `env:"DM_DEBUG"`

	// Temperature controls narration variety
	Temperature float64 `env:"DM_TEMPERATURE" envDefault:"0.8"`

	// MaxTokens caps each narration response
	MaxTokens int `env:"DM_MAX_TOKENS" envDefault:"1000"`

	// ConversationWindow is how many exchanges the DM remembers
	ConversationWindow int `env:"DM_CONVERSATION_WINDOW" envDefault:"10"`
}

// Load reads configuration from the environment and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if !strings.HasPrefix(cfg.OpenRouterAPIKey, "sk-or-") {
		slog.Warn("api key does not look like an OpenRouter key",
			"expected_prefix", "sk-or-")
	}

	return &cfg, nil
}

// Validate validates the Config.
func (cfg *Config) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}

	vb := errors.NewValidationBuilder()
	if cfg.OpenRouterAPIKey == "" {
		vb.Field("OPENROUTER_API_KEY", "is required; create a key at https://openrouter.ai/keys")
	}
	if cfg.Model == "" {
		vb.RequiredField("DM_MODEL")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		vb.Fieldf("DM_TEMPERATURE", "must be between 0 and 2, got %v", cfg.Temperature)
	}
	if cfg.MaxTokens <= 0 {
		vb.Fieldf("DM_MAX_TOKENS", "must be positive, got %d", cfg.MaxTokens)
	}
	if cfg.ConversationWindow <= 0 {
		vb.Fieldf("DM_CONVERSATION_WINDOW", "must be positive, got %d", cfg.ConversationWindow)
	}
	return vb.Build()
}

// LogLevel returns the slog level the Debug flag selects
func (cfg *Config) LogLevel() slog.Level {
	if cfg.Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
