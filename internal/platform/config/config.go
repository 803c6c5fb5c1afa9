// Copyright (c) 2026 Carbongold. All rights reserved.

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, object storage) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the documents API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis) — caches published review listings.
	RedisURL string `env:"REDIS_URL,required"`

	// Public key used to verify actor identity tokens issued by the
	// platform's identity provider. Token issuance is not this service's job.
	JWTPubKeyPath string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Object Storage (MinIO / S3-compatible) for document blobs,
	// thumbnails, and review attachments.
	S3Endpoint  string `env:"S3_ENDPOINT,required"`
	S3AccessKey string `env:"S3_ACCESS_KEY,required"`
	S3SecretKey string `env:"S3_SECRET_KEY,required"`
	S3Bucket    string `env:"S3_BUCKET"    envDefault:"carbongold-documents"`
	S3UseSSL    bool   `env:"S3_USE_SSL"   envDefault:"false"`

	// Upload policy
	DocumentMaxUploadBytes   int64 `env:"DOCUMENT_MAX_UPLOAD_BYTES"   envDefault:"20971520"` // 20 MiB
	AttachmentMaxUploadBytes int64 `env:"ATTACHMENT_MAX_UPLOAD_BYTES" envDefault:"5242880"`  // 5 MiB
	AllowZipDocuments        bool  `env:"ALLOW_ZIP_DOCUMENTS"         envDefault:"false"`

	// CategoryMaxDepth is the maximum nesting depth below a root category.
	// The default of 1 allows root categories plus one level of children.
	CategoryMaxDepth int `env:"CATEGORY_MAX_DEPTH" envDefault:"1"`

	// ReviewAutoPublish controls whether newly created reviews and replies
	// are immediately visible or held for moderation. The source product
	// shipped both behaviors at different times; it is a deployment choice.
	ReviewAutoPublish bool `env:"REVIEW_AUTO_PUBLISH" envDefault:"false"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
