// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ModerationResult contains the outcome of a brief safety check.
type ModerationResult struct {
	Safe       bool     // true if the brief passes moderation
	Categories []string // flagged category names (empty when safe)
}

// Moderator checks a caller's brief for policy violations before it is sent
// to a generation endpoint.
type Moderator interface {
	// CheckSafety evaluates a text brief and returns whether it is safe to
	// send on. If not safe, Categories lists the reasons.
	CheckSafety(ctx context.Context, text string) (*ModerationResult, error)
}

// moderationEndpoint describes one provider's OpenAI-style moderation API.
// Both OpenAI and Mistral accept {model, input} and return per-category
// boolean flags; only the URL, model name and flag semantics differ.
type moderationEndpoint struct {
	name    string
	url     string
	model   string
	apiKey  string
	client  *http.Client
	flagged func(moderationAPIResult) []string
}

// newOpenAIModerator creates a moderator backed by OpenAI's free
// moderation API (POST /v1/moderations).
func newOpenAIModerator(apiKey, baseURL string) Moderator {
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &moderationEndpoint{
		name:   "openai",
		url:    baseURL + "/moderations",
		model:  "omni-moderation-latest",
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
		flagged: func(r moderationAPIResult) []string {
			// OpenAI has a top-level flag; categories refine it.
			if !r.Flagged {
				return nil
			}
			return flaggedCategories(r.Categories)
		},
	}
}

// newMistralModerator creates a moderator backed by Mistral's
// classification endpoint. Used as fallback when OpenAI is unavailable.
func newMistralModerator(apiKey, baseURL string) Moderator {
	if baseURL == "" {
		baseURL = "https://api.mistral.ai/v1"
	}
	return &moderationEndpoint{
		name:   "mistral",
		url:    baseURL + "/moderations",
		model:  "mistral-moderation-latest",
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
		flagged: func(r moderationAPIResult) []string {
			// Mistral has no top-level flag; any true category counts.
			return flaggedCategories(r.Categories)
		},
	}
}

func (m *moderationEndpoint) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	payload, err := json.Marshal(moderationAPIRequest{Model: m.model, Input: text})
	if err != nil {
		return nil, fmt.Errorf("%s moderation marshal: %w", m.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%s moderation request: %w", m.name, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s moderation http: %w", m.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s moderation read body: %w", m.name, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s moderation API error (status %d): %s", m.name, resp.StatusCode, string(respBody))
	}

	var result moderationAPIResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("%s moderation unmarshal: %w", m.name, err)
	}

	if len(result.Results) == 0 {
		return &ModerationResult{Safe: true}, nil
	}

	categories := m.flagged(result.Results[0])
	return &ModerationResult{
		Safe:       len(categories) == 0,
		Categories: categories,
	}, nil
}

// flaggedCategories collects set category names in human-readable form,
// converting "hate/threatening" to "hate (threatening)".
func flaggedCategories(categories map[string]bool) []string {
	var flagged []string
	for cat, isFlagged := range categories {
		if !isFlagged {
			continue
		}
		display := strings.ReplaceAll(cat, "/", " (")
		if strings.Contains(cat, "/") {
			display += ")"
		}
		display = strings.ReplaceAll(display, "_", " ")
		flagged = append(flagged, display)
	}
	return flagged
}

// fallbackModerator tries a primary moderator and falls over to a secondary
// when the primary errors (e.g. a project-scoped key without moderation
// access). A flagged result from the primary is final, not retried.
type fallbackModerator struct {
	primary   Moderator
	secondary Moderator
}

func newFallbackModerator(primary, secondary Moderator) *fallbackModerator {
	return &fallbackModerator{primary: primary, secondary: secondary}
}

func (f *fallbackModerator) CheckSafety(ctx context.Context, text string) (*ModerationResult, error) {
	result, err := f.primary.CheckSafety(ctx, text)
	if err == nil {
		return result, nil
	}

	slog.Warn("primary moderator failed, using fallback", "error", err)
	return f.secondary.CheckSafety(ctx, text)
}

// --- Request/Response types (shared by OpenAI and Mistral) ---

type moderationAPIRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type moderationAPIResponse struct {
	Results []moderationAPIResult `json:"results"`
}

type moderationAPIResult struct {
	Flagged    bool            `json:"flagged"`
	Categories map[string]bool `json:"categories"`
}
