// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/ai"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/limiter"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

type fakeBrands struct {
	brand *models.BrandProfile
	err   error
	calls int
}

func (f *fakeBrands) BrandByTenant(ctx context.Context, tenantID uuid.UUID) (*models.BrandProfile, error) {
	f.calls++
	return f.brand, f.err
}

type fakeVoices struct {
	voice *models.VoiceProfile
	err   error
}

func (f *fakeVoices) VoiceByTenant(ctx context.Context, tenantID uuid.UUID) (*models.VoiceProfile, error) {
	return f.voice, f.err
}

type fakeGuardrails struct {
	rows       []models.GuardrailRow
	err        error
	appliedIDs []uuid.UUID
}

func (f *fakeGuardrails) ActiveGuardrails(ctx context.Context, tenantID uuid.UUID, contextType models.GuardrailContext) ([]models.GuardrailRow, error) {
	return f.rows, f.err
}

func (f *fakeGuardrails) RecordApplied(ctx context.Context, ids []uuid.UUID) error {
	f.appliedIDs = append(f.appliedIDs, ids...)
	return nil
}

type fakeUsage struct {
	tokens   int64
	requests int64
	calls    int
}

func (f *fakeUsage) AddUsage(ctx context.Context, tenantID uuid.UUID, tokens, requests int64) error {
	f.calls++
	f.tokens += tokens
	f.requests += requests
	return nil
}

type fakeInvoker struct {
	text    string
	err     error
	failFor map[string]bool // user prompts containing these keys fail
	calls   int
	prompts []string
}

func (f *fakeInvoker) Generate(ctx context.Context, systemPrompt, userPrompt string, opts ai.GenerateOpts) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, userPrompt)
	for key := range f.failFor {
		if strings.Contains(userPrompt, key) {
			return "", errors.New("provider unavailable")
		}
	}
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeModerator struct {
	result *ai.ModerationResult
	err    error
	calls  int
}

func (f *fakeModerator) CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeLimiter struct {
	decision limiter.Decision
	err      error
}

func (f *fakeLimiter) Check(ctx context.Context, userID, tenantID string) (limiter.Decision, error) {
	return f.decision, f.err
}

type fakeBudget struct {
	decision limiter.BudgetDecision
	err      error
}

func (f *fakeBudget) Check(ctx context.Context, tenantID uuid.UUID, platformCount int) (limiter.BudgetDecision, error) {
	return f.decision, f.err
}

type fakeCache struct {
	brand *models.BrandProfile
	hit   bool
	sets  int
}

func (f *fakeCache) Get(ctx context.Context, tenantID uuid.UUID) (*models.BrandProfile, bool) {
	return f.brand, f.hit
}

func (f *fakeCache) Set(ctx context.Context, tenantID uuid.UUID, brand *models.BrandProfile) {
	f.sets++
}

func serviceBrand() *models.BrandProfile {
	booking := "https://the-anchor.example/book"
	phone := "01234 567890"
	return &models.BrandProfile{
		ID:           uuid.New(),
		VenueName:    "The Anchor",
		VenueType:    "pub",
		ServesFood:   true,
		ServesDrinks: true,
		BookingURL:   &booking,
		Phone:        &phone,
	}
}

func serviceTenant() *models.Tenant {
	return &models.Tenant{ID: uuid.New(), Name: "The Anchor"}
}

type serviceFixture struct {
	brands     *fakeBrands
	voices     *fakeVoices
	guardrails *fakeGuardrails
	usage      *fakeUsage
	invoker    *fakeInvoker
	limiter    *fakeLimiter
	budget     *fakeBudget
}

func newFixture() *serviceFixture {
	return &serviceFixture{
		brands:     &fakeBrands{brand: serviceBrand()},
		voices:     &fakeVoices{},
		guardrails: &fakeGuardrails{},
		usage:      &fakeUsage{},
		invoker:    &fakeInvoker{text: "A lovely pint awaits."},
		limiter:    &fakeLimiter{decision: limiter.Decision{Allowed: true}},
		budget:     &fakeBudget{decision: limiter.BudgetDecision{Allowed: true}},
	}
}

func (f *serviceFixture) service(extra ...func(*Deps, *Config)) *Service {
	deps := Deps{
		Brands:     f.brands,
		Voices:     f.voices,
		Guardrails: f.guardrails,
		Usage:      f.usage,
		Invoker:    f.invoker,
		Limiter:    f.limiter,
		Budget:     f.budget,
	}
	cfg := Config{
		TokensPerPlatform: 800,
		Location:          time.UTC,
		Clock: func() time.Time {
			return time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC)
		},
	}
	for _, fn := range extra {
		fn(&deps, &cfg)
	}
	return NewService(deps, cfg)
}

func TestGenerateHappyPath(t *testing.T) {
	f := newFixture()
	f.guardrails.rows = []models.GuardrailRow{
		{ID: uuid.New(), FeedbackType: models.FeedbackAvoid, FeedbackText: "cheap", IsActive: true},
	}
	svc := f.service()

	contents, err := svc.Generate(context.Background(), serviceTenant(), uuid.New(), Request{
		Prompt:    "Promote quiz night",
		Platforms: []string{"facebook", "instagram"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(contents) != 2 {
		t.Fatalf("got %d platform results, want 2", len(contents))
	}
	for _, platform := range []string{PlatformFacebook, PlatformInstagram} {
		if contents[platform] == "" {
			t.Errorf("no content for %s", platform)
		}
	}
	if f.invoker.calls != 2 {
		t.Errorf("invoker calls = %d, want 2", f.invoker.calls)
	}

	// Facebook carries the preferred link; Instagram never does.
	if !strings.Contains(contents[PlatformFacebook], "https://the-anchor.example/book") {
		t.Errorf("facebook caption missing link: %q", contents[PlatformFacebook])
	}
	if strings.Contains(contents[PlatformInstagram], "http") {
		t.Errorf("instagram caption carries a link: %q", contents[PlatformInstagram])
	}

	if f.usage.calls != 1 || f.usage.tokens != 1600 || f.usage.requests != 1 {
		t.Errorf("usage = %d calls, %d tokens, %d requests; want 1, 1600, 1",
			f.usage.calls, f.usage.tokens, f.usage.requests)
	}
	if len(f.guardrails.appliedIDs) != 1 || f.guardrails.appliedIDs[0] != f.guardrails.rows[0].ID {
		t.Errorf("applied guardrail ids = %v", f.guardrails.appliedIDs)
	}
}

func TestGenerateDefaultPlatforms(t *testing.T) {
	f := newFixture()
	svc := f.service()

	contents, err := svc.Generate(context.Background(), serviceTenant(), uuid.New(), Request{
		Prompt: "Promote Sunday roast",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(contents) != 3 {
		t.Errorf("got %d platforms, want the 3 defaults", len(contents))
	}
	for _, p := range DefaultPlatforms() {
		if contents[p] == "" {
			t.Errorf("no content for default platform %s", p)
		}
	}
}

func TestGenerateNoBrandProfile(t *testing.T) {
	f := newFixture()
	f.brands.brand = nil
	svc := f.service()

	_, err := svc.Generate(context.Background(), serviceTenant(), uuid.New(), Request{Prompt: "x"})
	if !errors.Is(err, ErrBrandNotFound) {
		t.Errorf("err = %v, want ErrBrandNotFound", err)
	}
	if f.invoker.calls != 0 {
		t.Error("invoker must not be called without a brand profile")
	}
}

func TestGenerateRateLimited(t *testing.T) {
	f := newFixture()
	f.limiter.decision = limiter.Decision{
		Allowed: false,
		Scope:   "user",
		ResetAt: time.Date(2026, time.September, 2, 10, 0, 30, 0, time.UTC),
	}
	svc := f.service()

	_, err := svc.Generate(context.Background(), serviceTenant(), uuid.New(), Request{Prompt: "x"})

	var rle *RateLimitedError
	if !errors.As(err, &rle) {
		t.Fatalf("err = %v, want *RateLimitedError", err)
	}
	if rle.Scope != "user" {
		t.Errorf("Scope = %q, want user", rle.Scope)
	}
	if rle.RetryAfter != 30 {
		t.Errorf("RetryAfter = %d, want 30", rle.RetryAfter)
	}
	if f.invoker.calls != 0 {
		t.Error("invoker must not be called when rate limited")
	}
}

func TestGenerateBudgetExceeded(t *testing.T) {
	f := newFixture()
	f.budget.decision = limiter.BudgetDecision{
		Allowed:   false,
		Estimated: 1600,
		Used:      499_500,
		Cap:       500_000,
	}
	svc := f.service()

	_, err := svc.Generate(context.Background(), serviceTenant(), uuid.New(), Request{Prompt: "x"})

	var bee *BudgetExceededError
	if !errors.As(err, &bee) {
		t.Fatalf("err = %v, want *BudgetExceededError", err)
	}
	if bee.Cap != 500_000 || bee.Used != 499_500 {
		t.Errorf("budget error = %+v", bee)
	}
	if f.invoker.calls != 0 {
		t.Error("invoker must not be called when over budget")
	}
	if f.usage.calls != 0 {
		t.Error("usage must not be recorded for denied requests")
	}
}

func TestGenerateContentRejected(t *testing.T) {
	f := newFixture()
	mod := &fakeModerator{result: &ai.ModerationResult{Safe: false, Categories: []string{"hate"}}}
	svc := f.service(func(d *Deps, c *Config) { d.Moderator = mod })

	_, err := svc.Generate(context.Background(), serviceTenant(), uuid.New(), Request{Prompt: "something nasty"})

	var cre *ContentRejectedError
	if !errors.As(err, &cre) {
		t.Fatalf("err = %v, want *ContentRejectedError", err)
	}
	if len(cre.Categories) != 1 || cre.Categories[0] != "hate" {
		t.Errorf("Categories = %v", cre.Categories)
	}
	if f.invoker.calls != 0 {
		t.Error("invoker must not be called for rejected briefs")
	}
}

func TestGenerateModerationOutageDegrades(t *testing.T) {
	f := newFixture()
	mod := &fakeModerator{err: errors.New("moderation down")}
	svc := f.service(func(d *Deps, c *Config) { d.Moderator = mod })

	contents, err := svc.Generate(context.Background(), serviceTenant(), uuid.New(), Request{
		Prompt:    "Promote quiz night",
		Platforms: []string{"facebook"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(contents) != 1 {
		t.Errorf("got %d results, want 1", len(contents))
	}
	if mod.calls != 1 {
		t.Errorf("moderator calls = %d, want 1", mod.calls)
	}
}

func TestGeneratePartialPlatformFailure(t *testing.T) {
	f := newFixture()
	f.invoker.failFor = map[string]bool{"Instagram": true}
	svc := f.service()

	contents, err := svc.Generate(context.Background(), serviceTenant(), uuid.New(), Request{
		Prompt:    "Promote quiz night",
		Platforms: []string{"facebook", "instagram"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("got %d results, want 1", len(contents))
	}
	if contents[PlatformFacebook] == "" {
		t.Error("facebook content missing")
	}
	if _, ok := contents[PlatformInstagram]; ok {
		t.Error("failed platform must be absent from the result")
	}

	// Tokens are charged for the one platform that succeeded.
	if f.usage.tokens != 800 {
		t.Errorf("tokens = %d, want 800", f.usage.tokens)
	}
}

func TestGenerateAllPlatformsFail(t *testing.T) {
	f := newFixture()
	f.invoker.err = errors.New("provider down")
	svc := f.service()

	_, err := svc.Generate(context.Background(), serviceTenant(), uuid.New(), Request{
		Prompt:    "x",
		Platforms: []string{"facebook", "instagram"},
	})
	if err == nil {
		t.Fatal("want error when every platform fails")
	}
	if !strings.Contains(err.Error(), "provider down") {
		t.Errorf("err = %v, want wrapped provider error", err)
	}
	if f.usage.calls != 0 {
		t.Error("usage must not be recorded when nothing was produced")
	}
}

func TestGenerateVoiceLoadFailureDegrades(t *testing.T) {
	f := newFixture()
	f.voices.err = errors.New("db flake")
	svc := f.service()

	contents, err := svc.Generate(context.Background(), serviceTenant(), uuid.New(), Request{
		Prompt:    "Promote quiz night",
		Platforms: []string{"facebook"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(contents) != 1 {
		t.Errorf("got %d results, want 1", len(contents))
	}
}

func TestGenerateGuardrailLoadFailureFails(t *testing.T) {
	f := newFixture()
	f.guardrails.err = errors.New("db down")
	svc := f.service()

	_, err := svc.Generate(context.Background(), serviceTenant(), uuid.New(), Request{Prompt: "x"})
	if err == nil {
		t.Fatal("want error when guardrails cannot be loaded")
	}
	if f.invoker.calls != 0 {
		t.Error("invoker must not run without guardrails")
	}
}

func TestGenerateBrandCacheHit(t *testing.T) {
	f := newFixture()
	cache := &fakeCache{brand: serviceBrand(), hit: true}
	f.brands.err = errors.New("store must not be consulted")
	svc := f.service(func(d *Deps, c *Config) { d.Cache = cache })

	contents, err := svc.Generate(context.Background(), serviceTenant(), uuid.New(), Request{
		Prompt:    "Promote quiz night",
		Platforms: []string{"facebook"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if len(contents) != 1 {
		t.Errorf("got %d results, want 1", len(contents))
	}
	if f.brands.calls != 0 {
		t.Error("brand store consulted despite cache hit")
	}
}

func TestGenerateBrandCacheMissFillsCache(t *testing.T) {
	f := newFixture()
	cache := &fakeCache{}
	svc := f.service(func(d *Deps, c *Config) { d.Cache = cache })

	if _, err := svc.Generate(context.Background(), serviceTenant(), uuid.New(), Request{
		Prompt:    "Promote quiz night",
		Platforms: []string{"facebook"},
	}); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if f.brands.calls != 1 {
		t.Errorf("brand store calls = %d, want 1", f.brands.calls)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}
}

func TestGenerateCancelledContext(t *testing.T) {
	f := newFixture()
	svc := f.service()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Generate(ctx, serviceTenant(), uuid.New(), Request{
		Prompt:    "x",
		Platforms: []string{"facebook"},
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if f.invoker.calls != 0 {
		t.Error("invoker must not run after cancellation")
	}
}

func TestBuildCampaignDefaults(t *testing.T) {
	f := newFixture()
	svc := f.service()

	brandCtx := NewBrandContext(serviceBrand())
	campaign := svc.buildCampaign(PlatformFacebook, brandCtx, nil, Request{Prompt: "Promote quiz night"})

	if campaign.Objective != "Promote quiz night" {
		t.Errorf("Objective = %q", campaign.Objective)
	}
	if !campaign.ScheduledFor.Equal(time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("ScheduledFor = %v, want the pinned clock", campaign.ScheduledFor)
	}
	if campaign.IncludeEmojis {
		t.Error("emojis default off without a voice profile")
	}
	want := []string{"Book now", "Call us on 01234 567890"}
	if len(campaign.CTAOptions) != len(want) {
		t.Fatalf("CTAOptions = %v, want %v", campaign.CTAOptions, want)
	}
	for i := range want {
		if campaign.CTAOptions[i] != want[i] {
			t.Errorf("CTAOptions[%d] = %q, want %q", i, campaign.CTAOptions[i], want[i])
		}
	}
}

func TestBuildCampaignOverrides(t *testing.T) {
	f := newFixture()
	svc := f.service()

	event := time.Date(2026, time.October, 31, 19, 0, 0, 0, time.UTC)
	scheduled := time.Date(2026, time.October, 29, 9, 0, 0, 0, time.UTC)
	emojis := true

	campaign := svc.buildCampaign(PlatformInstagram, NewBrandContext(serviceBrand()), nil, Request{
		Prompt: "ignored when objective set",
		Campaign: &CampaignRequest{
			Type:          "event",
			Name:          "Halloween Party",
			Objective:     "Sell tickets",
			EventDate:     &event,
			ScheduledFor:  &scheduled,
			CTAOptions:    []string{"Grab tickets"},
			IncludeEmojis: &emojis,
			MaxLength:     300,
		},
	})

	if campaign.CampaignName != "Halloween Party" || campaign.CampaignType != "event" {
		t.Errorf("campaign header = %q (%q)", campaign.CampaignName, campaign.CampaignType)
	}
	if campaign.Objective != "Sell tickets" {
		t.Errorf("Objective = %q", campaign.Objective)
	}
	if campaign.EventDate == nil || !campaign.EventDate.Equal(event) {
		t.Errorf("EventDate = %v", campaign.EventDate)
	}
	if !campaign.ScheduledFor.Equal(scheduled) {
		t.Errorf("ScheduledFor = %v", campaign.ScheduledFor)
	}
	if !campaign.IncludeEmojis {
		t.Error("IncludeEmojis override lost")
	}
	if campaign.MaxLength != 300 {
		t.Errorf("MaxLength = %d", campaign.MaxLength)
	}
	if len(campaign.CTAOptions) != 1 || campaign.CTAOptions[0] != "Grab tickets" {
		t.Errorf("CTAOptions = %v", campaign.CTAOptions)
	}
}

func TestBriefText(t *testing.T) {
	tests := []struct {
		name string
		req  Request
		want string
	}{
		{"prompt only", Request{Prompt: "quiz night"}, "quiz night"},
		{
			"campaign fields joined",
			Request{Prompt: "quiz night", Campaign: &CampaignRequest{Name: "Quiz", Objective: "fill tables"}},
			"quiz night\nQuiz\nfill tables",
		},
		{"blank parts dropped", Request{Prompt: "  ", Campaign: &CampaignRequest{Name: "Quiz"}}, "Quiz"},
		{"all blank", Request{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := briefText(tt.req); got != tt.want {
				t.Errorf("briefText = %q, want %q", got, tt.want)
			}
		})
	}
}
