// Package config loads runtime settings from the environment with sane
// defaults, so the server runs with no configuration at all.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries every tunable of the dashboard server.
type Config struct {
	// HTTP server
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Upload gate applied at the HTTP layer, on top of the pipeline's own
	// file-size validation.
	MaxUploadBytes int64

	// Insight generation
	GeminiModel    string
	InsightTimeout time.Duration
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		ReadTimeout:     getEnvDuration("READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("WRITE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 10*1024*1024),

		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		InsightTimeout: getEnvDuration("INSIGHT_TIMEOUT", 45*time.Second),
	}
}

// Validate returns an error describing the first invalid setting found.
func (c *Config) Validate() error {
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("config: invalid PORT %q: must be numeric", c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("config: MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.GeminiModel == "" {
		return fmt.Errorf("config: GEMINI_MODEL must not be empty")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config: SHUTDOWN_TIMEOUT must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
