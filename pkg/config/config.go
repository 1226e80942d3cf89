// Package config reads the runtime configuration from the environment.
// A .env file in the working directory is loaded first when present; real
// environment variables win over it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage modes
const (
	StorageLocal  = "local"
	StorageMemory = "memory"
	StorageS3     = "s3"
)

type Config struct {
	Storage StorageConfig
	Server  ServerConfig
}

// StorageConfig selects and configures the fsx backend
type StorageConfig struct {
	Mode      string
	UploadDir string

	AWSRegion         string
	AWSBucket         string
	AWSPrefix         string
	AWSEndpoint       string
	PresignExpiration time.Duration
}

// ServerConfig configures the HTTP surface
type ServerConfig struct {
	Port        string
	CORSOrigins string
	BodyLimit   int
	Debug       bool
}

// Load reads .env (if any) and the environment
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only
func FromEnv() (*Config, error) {
	cfg := &Config{
		Storage: StorageConfig{
			Mode:              strings.ToLower(getEnv("STORAGE_MODE", StorageLocal)),
			UploadDir:         getEnv("UPLOAD_DIR", "./uploads"),
			AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
			AWSBucket:         getEnv("AWS_BUCKET", "fileutil-uploads"),
			AWSPrefix:         getEnv("AWS_PREFIX", ""),
			AWSEndpoint:       getEnv("AWS_ENDPOINT", ""),
			PresignExpiration: getEnvDuration("PRESIGN_EXPIRATION", 15*time.Minute),
		},
		Server: ServerConfig{
			Port:        strings.TrimPrefix(getEnv("PORT", "8080"), ":"),
			CORSOrigins: getEnv("CORS_ORIGINS", "*"),
			BodyLimit:   getEnvInt("BODY_LIMIT", 10*1024*1024),
			Debug:       getEnvBool("DEBUG", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that cannot be defaulted
func (c *Config) Validate() error {
	switch c.Storage.Mode {
	case StorageLocal:
		if c.Storage.UploadDir == "" {
			return fmt.Errorf("UPLOAD_DIR is required for local storage")
		}
	case StorageMemory:
	case StorageS3:
		if c.Storage.AWSBucket == "" {
			return fmt.Errorf("AWS_BUCKET is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown STORAGE_MODE %q (use local, memory or s3)", c.Storage.Mode)
	}
	if c.Server.BodyLimit <= 0 {
		return fmt.Errorf("BODY_LIMIT must be positive, got %d", c.Server.BodyLimit)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}
