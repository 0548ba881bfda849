// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package generation

import (
	"fmt"
	"strings"
	"time"
)

// PromptArtifacts carries values the post-processor must check against the
// exact wording the model was asked for. They are computed once here and
// threaded through — recomputing them later risks drift between what was
// requested and what is enforced.
type PromptArtifacts struct {
	// RelativeTiming is the near-term event phrase ("today", "this Friday")
	// the caption must mention exactly once. Empty when no event date or the
	// event is too far out for a relative phrase.
	RelativeTiming string

	// ExplicitDate is the long-form event date ("31 January 2026") used when
	// the event is beyond the relative-phrase horizon. Empty otherwise.
	ExplicitDate string

	// VoiceBaton is a short comma-joined tone hint consulted only during
	// post-processing voice hygiene, not prompt construction.
	VoiceBaton string
}

// Prompts is the assembled LLM input for one platform plus the side-channel
// artifacts the post-processor needs.
type Prompts struct {
	System    string
	User      string
	Artifacts PromptArtifacts
}

// PromptInput gathers everything the prompt builder draws from.
type PromptInput struct {
	Brand        BrandContext
	Campaign     CampaignContext
	Guardrails   GuardrailSet
	Tones        []string
	VoiceSummary string
}

// BuildPrompts assembles the system and user prompts for one platform.
// Deterministic: identical inputs always produce identical prompt text.
func BuildPrompts(in PromptInput, loc *time.Location) Prompts {
	artifacts := buildArtifacts(in, loc)

	return Prompts{
		System:    buildSystemPrompt(in),
		User:      buildUserPrompt(in, artifacts),
		Artifacts: artifacts,
	}
}

func buildArtifacts(in PromptInput, loc *time.Location) PromptArtifacts {
	a := PromptArtifacts{
		VoiceBaton: strings.Join(in.Tones, ", "),
	}

	if in.Campaign.EventDate != nil {
		label := RelativeTimingLabel(*in.Campaign.EventDate, in.Campaign.ScheduledFor, loc)
		if isRelativeLabel(label) {
			a.RelativeTiming = label
		} else {
			a.ExplicitDate = label
		}
	}

	return a
}

// isRelativeLabel distinguishes near-term phrases from long-form dates.
func isRelativeLabel(label string) bool {
	return label == "today" || label == "tomorrow" ||
		strings.HasPrefix(label, "this ") || strings.HasPrefix(label, "next ")
}

func buildSystemPrompt(in PromptInput) string {
	var b strings.Builder

	b.WriteString("You are the social media copywriter for ")
	if in.Brand.VenueName != "" {
		fmt.Fprintf(&b, "%s, a UK %s.", in.Brand.VenueName, venueNoun(in.Brand.VenueType))
	} else {
		b.WriteString("a UK hospitality venue.")
	}
	b.WriteString("\n\n")

	b.WriteString("Rules:\n")
	b.WriteString("- Write in British English spelling and punctuation.\n")
	b.WriteString("- Use only the business facts provided. Never invent prices, times, menus or events.\n")
	b.WriteString("- Output only the caption text, with no preamble, labels or quotation marks.\n")
	b.WriteString("- Do not mention that the caption was generated.\n")

	if in.VoiceSummary != "" {
		b.WriteString("\nVoice: ")
		b.WriteString(in.VoiceSummary)
		b.WriteString("\n")
	}

	return b.String()
}

func buildUserPrompt(in PromptInput, artifacts PromptArtifacts) string {
	var b strings.Builder

	writeBusinessSummary(&b, in.Brand)

	fmt.Fprintf(&b, "\nWrite a %s caption.\n", platformLabel(in.Campaign.Platform))

	if in.Campaign.CampaignName != "" {
		fmt.Fprintf(&b, "Campaign: %s", in.Campaign.CampaignName)
		if in.Campaign.CampaignType != "" {
			fmt.Fprintf(&b, " (%s)", in.Campaign.CampaignType)
		}
		b.WriteString("\n")
	}
	if in.Campaign.Objective != "" {
		fmt.Fprintf(&b, "Brief: %s\n", in.Campaign.Objective)
	}

	writeGuardrails(&b, in.Guardrails)

	if len(in.Campaign.CTAOptions) > 0 {
		fmt.Fprintf(&b, "\nClose with one of these calls to action: %s.\n",
			strings.Join(in.Campaign.CTAOptions, "; "))
	}

	writeFormattingAsks(&b, in, artifacts)

	return b.String()
}

func writeBusinessSummary(b *strings.Builder, brand BrandContext) {
	b.WriteString("Business:\n")
	if brand.VenueName != "" {
		fmt.Fprintf(b, "- Name: %s (%s)\n", brand.VenueName, venueNoun(brand.VenueType))
	}
	switch {
	case brand.ServesFood && brand.ServesDrinks:
		b.WriteString("- Serves food and drinks\n")
	case brand.ServesFood:
		b.WriteString("- Serves food\n")
	case brand.ServesDrinks:
		b.WriteString("- Serves drinks\n")
	}
	if brand.OpeningHours != "" {
		fmt.Fprintf(b, "- Opening hours: %s\n", brand.OpeningHours)
	}
	if brand.Phone != "" {
		fmt.Fprintf(b, "- Phone: %s\n", brand.Phone)
	}
	if brand.WhatsApp != "" {
		fmt.Fprintf(b, "- WhatsApp: %s\n", brand.WhatsApp)
	}
	if brand.PreferredLink != "" {
		fmt.Fprintf(b, "- Link: %s\n", brand.PreferredLink)
	}
	if brand.SecondaryLink != "" && brand.SecondaryLink != brand.PreferredLink {
		fmt.Fprintf(b, "- Website: %s\n", brand.SecondaryLink)
	}
	if brand.MenuFoodURL != "" {
		fmt.Fprintf(b, "- Food menu: %s\n", brand.MenuFoodURL)
	}
	if brand.MenuDrinkURL != "" {
		fmt.Fprintf(b, "- Drinks menu: %s\n", brand.MenuDrinkURL)
	}
}

// writeGuardrails emits one sentence per non-empty bucket. Empty buckets are
// omitted entirely so the prompt carries no dead instructions.
func writeGuardrails(b *strings.Builder, g GuardrailSet) {
	if g.Empty() && len(g.Legal) == 0 {
		return
	}

	b.WriteString("\nGuardrails:\n")
	if len(g.MustInclude) > 0 {
		fmt.Fprintf(b, "- You must mention: %s.\n", strings.Join(g.MustInclude, "; "))
	}
	if len(g.MustAvoid) > 0 {
		fmt.Fprintf(b, "- Never mention or imply: %s.\n", strings.Join(g.MustAvoid, "; "))
	}
	if len(g.Tone) > 0 {
		fmt.Fprintf(b, "- Tone feedback from the venue: %s.\n", strings.Join(g.Tone, "; "))
	}
	if len(g.Style) > 0 {
		fmt.Fprintf(b, "- Style feedback from the venue: %s.\n", strings.Join(g.Style, "; "))
	}
	if len(g.Format) > 0 {
		fmt.Fprintf(b, "- Formatting feedback from the venue: %s.\n", strings.Join(g.Format, "; "))
	}
	if len(g.Legal) > 0 {
		fmt.Fprintf(b, "- These boundaries are contractual, not stylistic: %s.\n", strings.Join(g.Legal, "; "))
	}
}

func writeFormattingAsks(b *strings.Builder, in PromptInput, artifacts PromptArtifacts) {
	b.WriteString("\nFormat:\n")

	if in.Campaign.IncludeEmojis {
		b.WriteString("- A few well-placed emojis are welcome.\n")
	} else {
		b.WriteString("- No emojis.\n")
	}
	if in.Campaign.IncludeHashtags {
		b.WriteString("- Finish with two or three relevant hashtags.\n")
	} else {
		b.WriteString("- No hashtags.\n")
	}

	paragraphs := in.Campaign.ParagraphCount
	if paragraphs <= 0 {
		paragraphs = 2
	}
	fmt.Fprintf(b, "- Use %d short paragraph%s.\n", paragraphs, plural(paragraphs))
	fmt.Fprintf(b, "- Stay under %d characters.\n", in.Campaign.EffectiveLimit())

	if artifacts.RelativeTiming != "" {
		fmt.Fprintf(b, "- Say that it is happening %s — mention this exactly once.\n", artifacts.RelativeTiming)
	}
	if artifacts.ExplicitDate != "" {
		fmt.Fprintf(b, "- Give the date as %s — mention it exactly once.\n", artifacts.ExplicitDate)
	}
}

func platformLabel(platform string) string {
	switch canonicalPlatform(platform) {
	case PlatformFacebook:
		return "Facebook"
	case PlatformInstagram:
		return "Instagram"
	case PlatformLinkedIn:
		return "LinkedIn"
	case PlatformGoogleBusiness:
		return "Google Business Profile"
	case PlatformTikTok:
		return "TikTok"
	case PlatformTwitter:
		return "Twitter"
	default:
		return platform
	}
}

func venueNoun(venueType string) string {
	if venueType == "" {
		return "hospitality venue"
	}
	return strings.ToLower(venueType)
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
