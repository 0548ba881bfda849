// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// AI provider settings. AIProvider names the active generation
	// provider; each provider activates only when its key is set.
	AIProvider string // "openai", "gemini", "claude", "mistral"

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	GeminiKey     string
	GeminiModel   string
	GeminiBaseURL string

	ClaudeKey     string
	ClaudeModel   string
	ClaudeBaseURL string

	MistralKey     string
	MistralModel   string
	MistralBaseURL string

	// Timezone is the venue operating region for date phrasing.
	Timezone string

	// Rate limiting (requests per window, per scope)
	UserRateLimit    int
	UserRateWindow   time.Duration
	TenantRateLimit  int
	TenantRateWindow time.Duration
	IPRateLimit      int
	IPRateWindow     time.Duration

	// Monthly token budget
	MonthlyTokenCap   int64
	TokensPerPlatform int64
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing in production mode.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "cheersai"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "cheersai"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AIProvider: envOrDefault("AI_PROVIDER", "openai"),

		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   envOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL: os.Getenv("GEMINI_BASE_URL"),

		ClaudeKey:     os.Getenv("CLAUDE_API_KEY"),
		ClaudeModel:   envOrDefault("CLAUDE_MODEL", "claude-sonnet-4-20250514"),
		ClaudeBaseURL: os.Getenv("CLAUDE_BASE_URL"),

		MistralKey:     os.Getenv("MISTRAL_API_KEY"),
		MistralModel:   envOrDefault("MISTRAL_MODEL", "mistral-small-latest"),
		MistralBaseURL: os.Getenv("MISTRAL_BASE_URL"),

		Timezone: envOrDefault("VENUE_TIMEZONE", "Europe/London"),

		UserRateLimit:    envOrDefaultInt("RATE_LIMIT_USER", 10),
		UserRateWindow:   envOrDefaultDuration("RATE_WINDOW_USER", time.Minute),
		TenantRateLimit:  envOrDefaultInt("RATE_LIMIT_TENANT", 60),
		TenantRateWindow: envOrDefaultDuration("RATE_WINDOW_TENANT", time.Minute),
		IPRateLimit:      envOrDefaultInt("RATE_LIMIT_IP", 120),
		IPRateWindow:     envOrDefaultDuration("RATE_WINDOW_IP", time.Minute),

		MonthlyTokenCap:   envOrDefaultInt64("MONTHLY_TOKEN_CAP", 500_000),
		TokensPerPlatform: envOrDefaultInt64("TOKENS_PER_PLATFORM", 800),
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envOrDefaultInt reads an integer environment variable; malformed values
// fall back silently so a bad override never prevents startup.
func envOrDefaultInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envOrDefaultInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envOrDefaultDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
