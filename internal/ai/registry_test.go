// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package ai

import (
	"context"
	"errors"
	"sort"
	"testing"
)

type fakeProvider struct {
	name string
	text string
	err  error

	gotSystem string
	gotUser   string
	gotOpts   GenerateOpts
}

func (f *fakeProvider) Generate(ctx context.Context, systemPrompt, userPrompt string, opts GenerateOpts) (string, error) {
	f.gotSystem = systemPrompt
	f.gotUser = userPrompt
	f.gotOpts = opts
	return f.text, f.err
}

func (f *fakeProvider) Name() string { return f.name }

func TestNewRegistrySkipsUnconfiguredProviders(t *testing.T) {
	r := NewRegistry("openai", map[string]ProviderConfig{
		"openai": {APIKey: "sk-test", Model: "gpt-4o-mini"},
		"gemini": {Model: "gemini-2.0-flash"}, // no key
		"claude": {APIKey: "sk-ant", Model: "claude-sonnet-4-20250514"},
	})

	got := r.Available()
	sort.Strings(got)
	want := []string{"claude", "openai"}
	if len(got) != len(want) {
		t.Fatalf("Available = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Available = %v, want %v", got, want)
		}
	}
	if r.HasProvider("gemini") {
		t.Error("gemini has no API key and must not be available")
	}
}

func TestRegistryActive(t *testing.T) {
	r := NewRegistry("openai", map[string]ProviderConfig{
		"openai": {APIKey: "sk-test"},
	})

	p, err := r.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if p.Name() != "openai" {
		t.Errorf("active provider = %q", p.Name())
	}
	if r.ActiveName() != "openai" {
		t.Errorf("ActiveName = %q", r.ActiveName())
	}
}

func TestRegistryActiveUnconfigured(t *testing.T) {
	r := NewRegistry("gemini", map[string]ProviderConfig{
		"openai": {APIKey: "sk-test"},
	})

	if _, err := r.Active(); err == nil {
		t.Fatal("want error when the active provider has no key")
	}
}

func TestRegistrySetActive(t *testing.T) {
	r := NewRegistry("openai", map[string]ProviderConfig{
		"openai":  {APIKey: "sk-test"},
		"mistral": {APIKey: "mk-test"},
	})

	if err := r.SetActive("mistral"); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if r.ActiveName() != "mistral" {
		t.Errorf("ActiveName = %q, want mistral", r.ActiveName())
	}

	if err := r.SetActive("gemini"); err == nil {
		t.Error("SetActive must reject providers without keys")
	}
	if r.ActiveName() != "mistral" {
		t.Error("failed SetActive must not change the active provider")
	}
}

func TestRegistryGenerateDelegates(t *testing.T) {
	r := NewRegistry("fake", map[string]ProviderConfig{})
	fake := &fakeProvider{name: "fake", text: "a caption"}
	r.Register("fake", fake)

	got, err := r.Generate(context.Background(), "system", "user", GenerateOpts{Temperature: 0.7, MaxTokens: 600})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "a caption" {
		t.Errorf("Generate = %q", got)
	}
	if fake.gotSystem != "system" || fake.gotUser != "user" {
		t.Errorf("prompts = (%q, %q)", fake.gotSystem, fake.gotUser)
	}
	if fake.gotOpts.MaxTokens != 600 {
		t.Errorf("opts = %+v", fake.gotOpts)
	}
}

func TestRegistryGenerateProviderError(t *testing.T) {
	r := NewRegistry("fake", map[string]ProviderConfig{})
	r.Register("fake", &fakeProvider{name: "fake", err: errors.New("quota exhausted")})

	if _, err := r.Generate(context.Background(), "s", "u", GenerateOpts{}); err == nil {
		t.Fatal("want provider error surfaced")
	}
}

func TestCheckPromptWithoutModerator(t *testing.T) {
	r := NewRegistry("claude", map[string]ProviderConfig{
		"claude": {APIKey: "sk-ant"},
	})

	result, err := r.CheckPrompt(context.Background(), "any brief")
	if err != nil {
		t.Fatalf("CheckPrompt: %v", err)
	}
	if !result.Safe {
		t.Error("no moderator configured must degrade to safe")
	}
}

func TestGenerateOptsMaxTokensDefault(t *testing.T) {
	if got := (GenerateOpts{}).maxTokens(); got != defaultMaxTokens {
		t.Errorf("maxTokens = %d, want %d", got, defaultMaxTokens)
	}
	if got := (GenerateOpts{MaxTokens: 600}).maxTokens(); got != 600 {
		t.Errorf("maxTokens = %d, want 600", got)
	}
}
