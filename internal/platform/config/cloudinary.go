package config

import (
	"fmt"
	"os"
	"time"
)

// CloudinaryConfig configures the remote asset host adapter.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string

	// RootFolder prefixes every namespace (e.g. "travel-ai").
	RootFolder string

	HTTPTimeout time.Duration
}

func LoadCloudinaryConfigFromEnv() (CloudinaryConfig, error) {
	cloud := os.Getenv("CLOUDINARY_CLOUD_NAME")
	key := os.Getenv("CLOUDINARY_API_KEY")
	secret := os.Getenv("CLOUDINARY_API_SECRET")
	if cloud == "" || key == "" || secret == "" {
		return CloudinaryConfig{}, fmt.Errorf("missing required env vars: CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET")
	}

	cfg := CloudinaryConfig{
		CloudName:   cloud,
		APIKey:      key,
		APISecret:   secret,
		RootFolder:  "travel-ai",
		HTTPTimeout: 30 * time.Second,
	}
	if v := os.Getenv("CLOUDINARY_ROOT_FOLDER"); v != "" {
		cfg.RootFolder = v
	}
	if v := os.Getenv("CLOUDINARY_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return CloudinaryConfig{}, fmt.Errorf("CLOUDINARY_HTTP_TIMEOUT must be a duration (e.g. 30s): %w", err)
		}
		cfg.HTTPTimeout = d
	}

	return cfg, nil
}
