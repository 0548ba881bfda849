// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package generation

import (
	"fmt"
	"strings"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

// defaultTones is the neutral fallback when neither the request, the voice
// profile, nor the brand supply any tone signal.
var defaultTones = []string{"warm", "helpful"}

// ResolveTone derives the tone descriptors and a one-paragraph brand voice
// summary for a generation request. Precedence is strict:
//
//  1. the caller's tone hint, when present and non-empty
//  2. the voice profile's tone attributes (plus characteristics)
//  3. the brand profile's tone attributes
//  4. the neutral "warm, helpful" default
//
// Pure mapping; no I/O.
func ResolveTone(voice *models.VoiceProfile, brand BrandContext, hint string) ([]string, string) {
	tones := toneDescriptors(voice, brand, hint)
	return tones, voiceSummary(tones, voice, brand)
}

func toneDescriptors(voice *models.VoiceProfile, brand BrandContext, hint string) []string {
	if h := strings.TrimSpace(hint); h != "" {
		return []string{strings.ToLower(h)}
	}

	if voice != nil {
		var d dedupeList
		for _, t := range voice.ToneAttributes {
			d.add(strings.ToLower(t))
		}
		for _, c := range voice.Characteristics {
			d.add(strings.ToLower(c))
		}
		if got := d.items(); len(got) > 0 {
			return got
		}
	}

	if len(brand.ToneAttributes) > 0 {
		var d dedupeList
		for _, t := range brand.ToneAttributes {
			d.add(strings.ToLower(t))
		}
		if got := d.items(); len(got) > 0 {
			return got
		}
	}

	return append([]string(nil), defaultTones...)
}

// voiceSummary builds the single paragraph the system prompt uses to
// describe how the venue sounds.
func voiceSummary(tones []string, voice *models.VoiceProfile, brand BrandContext) string {
	var b strings.Builder

	name := brand.VenueName
	if name == "" {
		name = "The venue"
	}
	fmt.Fprintf(&b, "%s writes in a %s voice.", name, joinNatural(tones))

	if voice != nil {
		if voice.AvgSentenceLength != nil && *voice.AvgSentenceLength > 0 {
			fmt.Fprintf(&b, " Sentences average around %d words.", *voice.AvgSentenceLength)
		}
		if voice.UsesEmojis {
			freq := "occasional"
			if voice.EmojiFrequency != nil && *voice.EmojiFrequency != "" {
				freq = *voice.EmojiFrequency
			}
			fmt.Fprintf(&b, " Emoji use is %s.", freq)
		} else {
			b.WriteString(" Emojis are not part of the voice.")
		}
		if voice.HashtagStyle != nil && *voice.HashtagStyle != "" && *voice.HashtagStyle != "none" {
			fmt.Fprintf(&b, " Hashtag style is %s.", *voice.HashtagStyle)
		}
	} else {
		switch {
		case brand.ToneFormality >= 7:
			b.WriteString(" Keep the register polished and professional.")
		case brand.TonePlayfulness >= 7:
			b.WriteString(" Keep the register relaxed and a little playful.")
		}
	}

	return b.String()
}

// joinNatural renders a list as "warm", "warm and helpful", or
// "warm, friendly and helpful".
func joinNatural(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
