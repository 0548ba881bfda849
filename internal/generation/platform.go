// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

// Package generation implements the content-generation pipeline: guardrail
// aggregation, tone resolution, prompt assembly, admission control hooks,
// per-platform LLM invocation, and the deterministic post-processing chain
// that makes free-text model output satisfy hard platform rules.
package generation

import "strings"

// Platform identifiers. GoogleBusiness covers Google Business Profile posts.
const (
	PlatformFacebook       = "facebook"
	PlatformInstagram      = "instagram"
	PlatformLinkedIn       = "linkedin"
	PlatformGoogleBusiness = "google_my_business"
	PlatformTikTok         = "tiktok"
	PlatformTwitter        = "twitter"
)

// platformLimits are the hard character ceilings enforced by the
// post-processor. Deliberately below some platforms' technical maximums —
// captions longer than these read badly regardless of what the API accepts.
var platformLimits = map[string]int{
	PlatformFacebook:       5000,
	PlatformInstagram:      2200,
	PlatformLinkedIn:       3000,
	PlatformGoogleBusiness: 1500,
	PlatformTikTok:         2200,
	PlatformTwitter:        280,
}

// defaultCharacterLimit applies to platforms we have no specific rule for.
const defaultCharacterLimit = 2200

// googleBusinessAliases maps the spellings seen in stored platform lists to
// the canonical GoogleBusiness key.
var googleBusinessAliases = map[string]string{
	"google_business":    PlatformGoogleBusiness,
	"google my business": PlatformGoogleBusiness,
	"gbp":                PlatformGoogleBusiness,
}

// CharacterLimit returns the hard ceiling for a platform's caption.
func CharacterLimit(platform string) int {
	if n, ok := platformLimits[canonicalPlatform(platform)]; ok {
		return n
	}
	return defaultCharacterLimit
}

// stripsLinks reports whether a platform's captions cannot carry clickable
// links, in which case URLs are removed outright rather than normalized.
func stripsLinks(platform string) bool {
	switch canonicalPlatform(platform) {
	case PlatformInstagram, PlatformGoogleBusiness:
		return true
	}
	return false
}

// KnownPlatform reports whether the platform key is one we generate for.
func KnownPlatform(platform string) bool {
	_, ok := platformLimits[canonicalPlatform(platform)]
	return ok
}

// DefaultPlatforms is the set used when a request names no platforms.
// Twitter is excluded deliberately: short-form copy needs its own treatment
// and the product does not offer it on the quick path.
func DefaultPlatforms() []string {
	return []string{PlatformFacebook, PlatformInstagram, PlatformGoogleBusiness}
}

// NormalizePlatforms canonicalises, deduplicates (insertion order preserved),
// and filters a requested platform list. Twitter and unknown keys are
// dropped. An empty result falls back to DefaultPlatforms.
func NormalizePlatforms(requested []string) []string {
	seen := make(map[string]bool, len(requested))
	var out []string
	for _, p := range requested {
		key := canonicalPlatform(p)
		if key == PlatformTwitter || !KnownPlatform(key) || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	if len(out) == 0 {
		return DefaultPlatforms()
	}
	return out
}

// canonicalPlatform lower-cases and resolves aliases.
func canonicalPlatform(platform string) string {
	key := strings.ToLower(strings.TrimSpace(platform))
	if alias, ok := googleBusinessAliases[key]; ok {
		return alias
	}
	return key
}
