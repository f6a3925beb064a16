package config

import (
	"fmt"
	"os"
	"time"
)

// AuthConfig configures token issuance and verification.
//
// The signing secret and both lifetimes are loaded once at startup and never
// rotated at runtime. The config is passed explicitly to the token service;
// there is no process-wide singleton.
type AuthConfig struct {
	// Secret is the HMAC signing secret shared by all tokens.
	Secret []byte

	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func LoadAuthConfigFromEnv() (AuthConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return AuthConfig{}, fmt.Errorf("missing required env var: JWT_SECRET")
	}

	cfg := AuthConfig{
		Secret:     []byte(secret),
		AccessTTL:  time.Hour,
		RefreshTTL: 7 * 24 * time.Hour,
	}

	if v := os.Getenv("JWT_ACCESS_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return AuthConfig{}, fmt.Errorf("JWT_ACCESS_TTL must be a duration (e.g. 1h): %w", err)
		}
		cfg.AccessTTL = d
	}
	if v := os.Getenv("JWT_REFRESH_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return AuthConfig{}, fmt.Errorf("JWT_REFRESH_TTL must be a duration (e.g. 168h): %w", err)
		}
		cfg.RefreshTTL = d
	}

	return cfg, nil
}
