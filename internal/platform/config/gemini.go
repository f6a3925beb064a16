package config

import (
	"fmt"
	"os"
	"time"
)

// GeminiConfig configures the outbound trip-plan generation call.
type GeminiConfig struct {
	APIKey string
	Model  string

	HTTPTimeout time.Duration
}

func LoadGeminiConfigFromEnv() (GeminiConfig, error) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		return GeminiConfig{}, fmt.Errorf("missing required env var: GEMINI_API_KEY")
	}

	cfg := GeminiConfig{
		APIKey:      key,
		Model:       "gemini-1.5-flash",
		HTTPTimeout: 30 * time.Second,
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("GEMINI_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return GeminiConfig{}, fmt.Errorf("GEMINI_HTTP_TIMEOUT must be a duration (e.g. 30s): %w", err)
		}
		cfg.HTTPTimeout = d
	}

	return cfg, nil
}
