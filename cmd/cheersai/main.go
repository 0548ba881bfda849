// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the CheersAI generation API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/ai"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/cache"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/config"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/database"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/generation"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/handlers"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/limiter"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/middleware"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/router"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/store"
)

func main() {
	// Structured logger — outputs JSON in production, text in development.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Resolve the venue operating timezone for date phrasing.
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		slog.Warn("invalid VENUE_TIMEZONE, using Europe/London", "timezone", cfg.Timezone, "error", err)
		location = generation.DefaultLocation
	}

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey (Redis-compatible cache + rate limit counters).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Initialize data stores.
	tenantStore := store.NewTenantStore(db)
	brandStore := store.NewBrandStore(db)
	voiceStore := store.NewVoiceStore(db)
	guardrailStore := store.NewGuardrailStore(db)
	usageStore := store.NewUsageStore(db)

	// Brand profiles are read on every generation; cache them in Valkey.
	brandCache := cache.NewBrandCache(valkeyClient, cache.DefaultBrandTTL)

	// Initialize the AI provider registry with all configured providers.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai":  {APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"gemini":  {APIKey: cfg.GeminiKey, Model: cfg.GeminiModel, BaseURL: cfg.GeminiBaseURL},
		"claude":  {APIKey: cfg.ClaudeKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
		"mistral": {APIKey: cfg.MistralKey, Model: cfg.MistralModel, BaseURL: cfg.MistralBaseURL},
	})

	slog.Info("ai providers initialized",
		"active", aiRegistry.ActiveName(),
		"available", aiRegistry.Available(),
	)

	// Admission control: Valkey-backed request counters and the monthly
	// token budget gate over the usage store.
	counters := limiter.NewRedisCounterStore(valkeyClient)
	rateLimiter := limiter.NewRateLimiter(counters,
		limiter.Policy{Requests: cfg.UserRateLimit, Window: cfg.UserRateWindow},
		limiter.Policy{Requests: cfg.TenantRateLimit, Window: cfg.TenantRateWindow},
	)
	budgetGate := limiter.NewBudgetGate(usageStore, cfg.TokensPerPlatform, cfg.MonthlyTokenCap)

	// The generation service wires the whole pipeline together.
	service := generation.NewService(generation.Deps{
		Brands:     brandStore,
		Voices:     voiceStore,
		Guardrails: guardrailStore,
		Usage:      usageStore,
		Invoker:    aiRegistry,
		Moderator:  aiRegistry,
		Limiter:    rateLimiter,
		Budget:     budgetGate,
		Cache:      brandCache,
	}, generation.Config{
		TokensPerPlatform: cfg.TokensPerPlatform,
		Location:          location,
	})

	api := handlers.NewAPI(service, guardrailStore, usageStore)

	// Transport-level per-IP guard in front of authentication.
	ipLimiter := middleware.NewIPRateLimiter(cfg.IPRateLimit, cfg.IPRateWindow)
	defer ipLimiter.Stop()

	// Set up the Chi router with all middleware and routes.
	r := router.New(api, tenantStore, ipLimiter)

	// Create the HTTP server with sensible timeouts.
	// WriteTimeout must accommodate multi-platform requests that wait on
	// several sequential LLM responses.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
