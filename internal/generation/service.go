// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/ai"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/limiter"
	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

// BrandSource loads a tenant's brand profile. Returns nil, nil when the
// tenant has none.
type BrandSource interface {
	BrandByTenant(ctx context.Context, tenantID uuid.UUID) (*models.BrandProfile, error)
}

// VoiceSource loads a tenant's voice profile. Returns nil, nil when absent.
type VoiceSource interface {
	VoiceByTenant(ctx context.Context, tenantID uuid.UUID) (*models.VoiceProfile, error)
}

// GuardrailSource loads active guardrail rows and records their use.
type GuardrailSource interface {
	ActiveGuardrails(ctx context.Context, tenantID uuid.UUID, contextType models.GuardrailContext) ([]models.GuardrailRow, error)

	// RecordApplied bumps the audit counters of the rows a generation used.
	// Best-effort: callers log failures and move on.
	RecordApplied(ctx context.Context, ids []uuid.UUID) error
}

// UsageRecorder accumulates a tenant's monthly consumption. Best-effort:
// a failed increment never fails the generation that caused it.
type UsageRecorder interface {
	AddUsage(ctx context.Context, tenantID uuid.UUID, tokens, requests int64) error
}

// Invoker is the LLM call boundary; *ai.Registry satisfies it.
type Invoker interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, opts ai.GenerateOpts) (string, error)
}

// PromptChecker is the moderation pre-flight boundary; *ai.Registry
// satisfies it.
type PromptChecker interface {
	CheckPrompt(ctx context.Context, prompt string) (*ai.ModerationResult, error)
}

// AdmissionLimiter is the request rate-limit boundary.
type AdmissionLimiter interface {
	Check(ctx context.Context, userID, tenantID string) (limiter.Decision, error)
}

// BudgetChecker is the monthly token budget boundary.
type BudgetChecker interface {
	Check(ctx context.Context, tenantID uuid.UUID, platformCount int) (limiter.BudgetDecision, error)
}

// BrandCache is an optional read-through cache in front of BrandSource.
type BrandCache interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*models.BrandProfile, bool)
	Set(ctx context.Context, tenantID uuid.UUID, brand *models.BrandProfile)
}

// Deps wires the service's collaborators. Moderator and Cache are optional;
// everything else is required.
type Deps struct {
	Brands     BrandSource
	Voices     VoiceSource
	Guardrails GuardrailSource
	Usage      UsageRecorder
	Invoker    Invoker
	Moderator  PromptChecker
	Limiter    AdmissionLimiter
	Budget     BudgetChecker
	Cache      BrandCache
}

// Config fixes the pipeline's operating parameters. Sampling is deliberately
// not caller-controlled on this path.
type Config struct {
	Temperature       float64
	MaxTokens         int
	TokensPerPlatform int64

	// Location is the venue operating region for all date phrasing;
	// nil means Europe/London.
	Location *time.Location

	// Clock is the time source; nil means time.Now. Tests pin it.
	Clock func() time.Time
}

// Service orchestrates one generation request end to end: snapshot, tone
// and guardrail resolution, admission control, the sequential per-platform
// loop, and best-effort accounting.
type Service struct {
	deps Deps
	cfg  Config
}

// NewService creates the generation service.
func NewService(deps Deps, cfg Config) *Service {
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 600
	}
	if cfg.TokensPerPlatform == 0 {
		cfg.TokensPerPlatform = 800
	}
	return &Service{deps: deps, cfg: cfg}
}

func (s *Service) now() time.Time {
	if s.cfg.Clock != nil {
		return s.cfg.Clock()
	}
	return time.Now()
}

func (s *Service) location() *time.Location {
	if s.cfg.Location != nil {
		return s.cfg.Location
	}
	return DefaultLocation
}

// Generate produces one caption per requested platform. The result map is
// best-effort per platform: a platform key is absent only if its LLM call
// failed before producing text. Admission failures and missing brand data
// surface as typed errors before any LLM call is made.
func (s *Service) Generate(ctx context.Context, tenant *models.Tenant, userID uuid.UUID, req Request) (map[string]string, error) {
	brand, err := s.loadBrand(ctx, tenant.ID)
	if err != nil {
		return nil, fmt.Errorf("load brand profile: %w", err)
	}
	if brand == nil {
		return nil, ErrBrandNotFound
	}

	voice, err := s.deps.Voices.VoiceByTenant(ctx, tenant.ID)
	if err != nil {
		// Voice is optional; degrade to brand-only tone inference.
		slog.Warn("voice profile load failed, using brand tone", "tenant", tenant.ID, "error", err)
		voice = nil
	}

	rows, err := s.deps.Guardrails.ActiveGuardrails(ctx, tenant.ID, req.ContextType())
	if err != nil {
		return nil, fmt.Errorf("load guardrails: %w", err)
	}

	brandCtx := NewBrandContext(brand)
	guardrails := BuildGuardrailSet(rows, brandCtx.ContentBoundaries)
	tones, voiceSummary := ResolveTone(voice, brandCtx, req.Tone)

	platforms := NormalizePlatforms(req.Platforms)

	if err := s.admit(ctx, tenant.ID, userID, len(platforms)); err != nil {
		return nil, err
	}

	if err := s.moderate(ctx, req); err != nil {
		return nil, err
	}

	contents := make(map[string]string, len(platforms))
	var lastErr error

	for _, platform := range platforms {
		// A timeout or disconnect stops further LLM calls but keeps what
		// already completed.
		if ctx.Err() != nil {
			break
		}

		campaign := s.buildCampaign(platform, brandCtx, voice, req)
		prompts := BuildPrompts(PromptInput{
			Brand:        brandCtx,
			Campaign:     campaign,
			Guardrails:   guardrails,
			Tones:        tones,
			VoiceSummary: voiceSummary,
		}, s.location())

		raw, err := s.deps.Invoker.Generate(ctx, prompts.System, prompts.User, ai.GenerateOpts{
			Temperature: s.cfg.Temperature,
			MaxTokens:   s.cfg.MaxTokens,
		})
		if err != nil {
			// One platform failing does not abort its siblings.
			slog.Error("platform generation failed", "platform", platform, "error", err)
			lastErr = err
			continue
		}

		contents[platform] = PostProcess(raw, PostProcessInput{
			Platform:      platform,
			CampaignType:  campaign.CampaignType,
			CampaignName:  campaign.CampaignName,
			EventDate:     campaign.EventDate,
			ScheduledFor:  campaign.ScheduledFor,
			PreferredLink: brandCtx.PreferredLink,
			Artifacts:     prompts.Artifacts,
			MaxLength:     campaign.MaxLength,
			Location:      s.location(),
		})
	}

	if len(contents) == 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if lastErr != nil {
			return nil, fmt.Errorf("generation failed for all platforms: %w", lastErr)
		}
		return nil, ErrNoContent
	}

	s.recordUsage(ctx, tenant.ID, len(contents))
	s.recordGuardrails(ctx, rows)

	return contents, nil
}

func (s *Service) loadBrand(ctx context.Context, tenantID uuid.UUID) (*models.BrandProfile, error) {
	if s.deps.Cache != nil {
		if brand, ok := s.deps.Cache.Get(ctx, tenantID); ok {
			return brand, nil
		}
	}

	brand, err := s.deps.Brands.BrandByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if brand != nil && s.deps.Cache != nil {
		s.deps.Cache.Set(ctx, tenantID, brand)
	}
	return brand, nil
}

// admit runs the rate limiter and budget gate. Both run once per request,
// before the platform loop, so admission can never fail mid-loop.
func (s *Service) admit(ctx context.Context, tenantID, userID uuid.UUID, platformCount int) error {
	if s.deps.Limiter != nil {
		decision, err := s.deps.Limiter.Check(ctx, userID.String(), tenantID.String())
		if err != nil {
			return fmt.Errorf("rate limit check: %w", err)
		}
		if !decision.Allowed {
			return &RateLimitedError{
				Scope:      decision.Scope,
				RetryAfter: decision.RetryAfterSeconds(s.now()),
			}
		}
	}

	if s.deps.Budget != nil {
		decision, err := s.deps.Budget.Check(ctx, tenantID, platformCount)
		if err != nil {
			return fmt.Errorf("budget check: %w", err)
		}
		if !decision.Allowed {
			return &BudgetExceededError{
				Estimated: decision.Estimated,
				Used:      decision.Used,
				Cap:       decision.Cap,
			}
		}
	}

	return nil
}

// moderate runs the caller-supplied text through the moderation pre-flight.
// A moderation outage degrades to allowing the brief; providers keep their
// own safety filters.
func (s *Service) moderate(ctx context.Context, req Request) error {
	if s.deps.Moderator == nil {
		return nil
	}

	brief := briefText(req)
	if brief == "" {
		return nil
	}

	result, err := s.deps.Moderator.CheckPrompt(ctx, brief)
	if err != nil {
		slog.Warn("moderation unavailable, continuing", "error", err)
		return nil
	}
	if !result.Safe {
		return &ContentRejectedError{Categories: result.Categories}
	}
	return nil
}

// briefText collects the caller-written text worth moderating. Stored brand
// data is the venue's own and is not re-checked.
func briefText(req Request) string {
	parts := []string{req.Prompt}
	if req.Campaign != nil {
		parts = append(parts, req.Campaign.Name, req.Campaign.Objective)
	}
	var nonEmpty []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

// buildCampaign derives one platform's campaign context from the request,
// applying domain defaults for the quick-post path.
func (s *Service) buildCampaign(platform string, brand BrandContext, voice *models.VoiceProfile, req Request) CampaignContext {
	campaign := CampaignContext{
		Platform:       platform,
		Objective:      req.Prompt,
		ScheduledFor:   s.now(),
		ToneAttributes: brand.ToneAttributes,
		IncludeEmojis:  voice != nil && voice.UsesEmojis,
		CTAOptions:     defaultCTAs(brand),
	}

	c := req.Campaign
	if c == nil {
		return campaign
	}

	campaign.CampaignType = c.Type
	campaign.CampaignName = c.Name
	if c.Objective != "" {
		campaign.Objective = c.Objective
	}
	campaign.EventDate = c.EventDate
	if c.ScheduledFor != nil {
		campaign.ScheduledFor = *c.ScheduledFor
	}
	if len(c.CTAOptions) > 0 {
		campaign.CTAOptions = c.CTAOptions
	}
	if c.IncludeEmojis != nil {
		campaign.IncludeEmojis = *c.IncludeEmojis
	}
	if c.IncludeHashtags != nil {
		campaign.IncludeHashtags = *c.IncludeHashtags
	}
	campaign.MaxLength = c.MaxLength
	campaign.ParagraphCount = c.ParagraphCount

	return campaign
}

func defaultCTAs(brand BrandContext) []string {
	var ctas []string
	if brand.PreferredLink != "" {
		ctas = append(ctas, "Book now")
	}
	if brand.Phone != "" {
		ctas = append(ctas, "Call us on "+brand.Phone)
	}
	if brand.WhatsApp != "" {
		ctas = append(ctas, "Message us on WhatsApp")
	}
	if len(ctas) == 0 {
		ctas = []string{"See you soon"}
	}
	return ctas
}

// recordUsage increments the tenant's monthly counters. Best-effort: a
// failure is logged and swallowed, never surfaced to the caller.
func (s *Service) recordUsage(ctx context.Context, tenantID uuid.UUID, platformCount int) {
	tokens := s.cfg.TokensPerPlatform * int64(platformCount)
	if err := s.deps.Usage.AddUsage(ctx, tenantID, tokens, 1); err != nil {
		slog.Warn("usage record failed", "tenant", tenantID, "error", err)
	}
}

// recordGuardrails bumps the audit counter of every guardrail row this
// generation applied. Best-effort.
func (s *Service) recordGuardrails(ctx context.Context, rows []models.GuardrailRow) {
	if len(rows) == 0 {
		return
	}
	ids := make([]uuid.UUID, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	if err := s.deps.Guardrails.RecordApplied(ctx, ids); err != nil {
		slog.Warn("guardrail usage record failed", "error", err)
	}
}
