// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains for the
// CheersAI API server.
package router

import (
	"github.com/go-chi/chi/v5"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/handlers"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(api *handlers.API, auth middleware.TenantAuthenticator, ipLimiter *middleware.IPRateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(ipLimiter.Middleware)

	// Health check — no auth.
	r.Get("/health", handlers.Health)

	// API routes — require a tenant API key.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireAPIKey(auth))

		r.Post("/generate", api.Generate)

		r.Get("/guardrails", api.ListGuardrails)
		r.Post("/guardrails", api.CreateGuardrail)
		r.Delete("/guardrails/{id}", api.DeactivateGuardrail)

		r.Get("/usage", api.Usage)
	})

	return r
}
