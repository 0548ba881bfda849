// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

// Package ai provides a unified interface for the LLM providers behind the
// caption generator (OpenAI, Gemini, Claude, Mistral). Each provider
// implements the Provider interface, and the Registry selects the active one
// by name. The contract is deliberately thin — text in, text out — so the
// generation pipeline never depends on model-specific features.
package ai

import (
	"context"
	"fmt"
	"sync"
)

// GenerateOpts carries the sampling parameters for one call. The generation
// pipeline fixes these per invocation; they are never exposed to API callers.
type GenerateOpts struct {
	Temperature float64
	MaxTokens   int
}

// defaultMaxTokens applies when a caller leaves MaxTokens unset.
const defaultMaxTokens = 1024

func (o GenerateOpts) maxTokens() int {
	if o.MaxTokens <= 0 {
		return defaultMaxTokens
	}
	return o.MaxTokens
}

// Provider defines the interface that all AI providers must implement.
// Each provider handles its own HTTP communication and response parsing.
type Provider interface {
	// Generate sends a prompt to the LLM and returns the generated text.
	// systemPrompt sets the model's behaviour; userPrompt is the request.
	Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOpts) (string, error)

	// Name returns the provider identifier (e.g., "openai", "gemini").
	Name() string
}

// ProviderConfig holds the credentials and settings for a single provider.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Registry manages available AI providers and selects the active one.
// All methods are safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
	active    string
	moderator Moderator // may be nil if no moderation API is available
}

// NewRegistry creates a registry and initialises providers for every config
// that has a non-empty API key. Providers without keys are silently skipped.
// A Moderator is configured automatically: OpenAI's free moderation API is
// preferred, Mistral's is the fallback, and when both keys exist a chained
// moderator fails over from one to the other.
func NewRegistry(active string, configs map[string]ProviderConfig) *Registry {
	r := &Registry{
		providers: make(map[string]Provider),
		active:    active,
	}

	for name, cfg := range configs {
		if cfg.APIKey == "" {
			continue
		}
		switch name {
		case "openai":
			r.providers[name] = newOpenAI(cfg)
		case "gemini":
			r.providers[name] = newGemini(cfg)
		case "claude":
			r.providers[name] = newClaude(cfg)
		case "mistral":
			r.providers[name] = newMistral(cfg)
		}
	}

	openaiCfg, hasOpenAI := configs["openai"]
	hasOpenAI = hasOpenAI && openaiCfg.APIKey != ""
	mistralCfg, hasMistral := configs["mistral"]
	hasMistral = hasMistral && mistralCfg.APIKey != ""

	switch {
	case hasOpenAI && hasMistral:
		r.moderator = newFallbackModerator(
			newOpenAIModerator(openaiCfg.APIKey, openaiCfg.BaseURL),
			newMistralModerator(mistralCfg.APIKey, mistralCfg.BaseURL),
		)
	case hasOpenAI:
		r.moderator = newOpenAIModerator(openaiCfg.APIKey, openaiCfg.BaseURL)
	case hasMistral:
		r.moderator = newMistralModerator(mistralCfg.APIKey, mistralCfg.BaseURL)
	}

	return r
}

// Generate calls the active provider's Generate method.
func (r *Registry) Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOpts) (string, error) {
	p, err := r.Active()
	if err != nil {
		return "", err
	}
	return p.Generate(ctx, systemPrompt, userPrompt, opts)
}

// Active returns the currently active provider.
func (r *Registry) Active() (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[r.active]
	if !ok {
		return nil, fmt.Errorf("ai: no provider configured for %q", r.active)
	}
	return p, nil
}

// SetActive switches the active provider at runtime. Returns an error if
// the named provider has no API key configured.
func (r *Registry) SetActive(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.providers[name]; !ok {
		return fmt.Errorf("ai: provider %q is not available (no API key?)", name)
	}
	r.active = name
	return nil
}

// ActiveName returns the name of the currently active provider.
func (r *Registry) ActiveName() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.active
}

// Available returns the names of all providers that have valid API keys.
func (r *Registry) Available() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// Register adds or replaces a provider in the registry. This allows
// injecting custom providers at runtime (e.g. fakes in tests).
func (r *Registry) Register(name string, p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// CheckPrompt runs a brief through the moderation API before generation.
// Returns Safe=true if the prompt passes or if no moderator is configured
// (graceful degradation — providers still apply their own safety filters).
func (r *Registry) CheckPrompt(ctx context.Context, prompt string) (*ModerationResult, error) {
	if r.moderator == nil {
		return &ModerationResult{Safe: true}, nil
	}
	return r.moderator.CheckSafety(ctx, prompt)
}

// HasProvider checks whether a named provider is configured and available.
func (r *Registry) HasProvider(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.providers[name]
	return ok
}
