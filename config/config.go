// Package config loads application settings from the environment, with
// an optional .env file for local development.
package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DatabaseURL  string `envconfig:"DATABASE_URL" required:"true"`
	JWTSecretKey string `envconfig:"JWT_SECRET_KEY" required:"true"`
	ServerPort   int    `envconfig:"SERVER_PORT" default:"8080"`

	// AdminEmail registers as an admin account; further admins are
	// promoted through the role endpoint.
	AdminEmail string `envconfig:"ADMIN_EMAIL"`

	// Cloudflare R2 bucket for scorecard photos.
	R2AccountID       string `envconfig:"R2_ACCOUNT_ID" required:"true"`
	R2AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID" required:"true"`
	R2SecretAccessKey string `envconfig:"R2_SECRET_ACCESS_KEY" required:"true"`
	R2BucketName      string `envconfig:"R2_BUCKET_NAME" required:"true"`
	R2PublicBaseURL   string `envconfig:"R2_PUBLIC_BASE_URL" required:"true"`

	// NightlySweepCron triggers the full-league recompute sweep.
	NightlySweepCron string `envconfig:"NIGHTLY_SWEEP_CRON" default:"0 4 * * *"`
}

func Load() (*Config, error) {
	// A missing .env file is not an error; production sets real env vars.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}
	if cfg.ServerPort <= 0 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	return &cfg, nil
}
