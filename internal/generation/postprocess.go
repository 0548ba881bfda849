// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package generation

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// PostProcessInput is everything the rule engine needs for one platform's
// raw completion. Artifacts must be the ones threaded from the prompt
// builder for the same call.
type PostProcessInput struct {
	Platform     string
	CampaignType string
	CampaignName string

	EventDate    *time.Time
	ScheduledFor time.Time

	PreferredLink string

	Artifacts PromptArtifacts

	// MaxLength tightens the platform ceiling when set below it.
	MaxLength int

	// Location is the venue's operating region; nil means Europe/London.
	Location *time.Location
}

// procState is the mutable carrier threaded through the pipeline stages.
// relativeTiming starts as the prompt artifact and is kept in step when the
// same-day stage rewrites day words, so the cardinality check always matches
// what the text now says.
type procState struct {
	in             PostProcessInput
	loc            *time.Location
	limit          int
	relativeTiming string
}

func newProcState(in PostProcessInput) *procState {
	loc := in.Location
	if loc == nil {
		loc = DefaultLocation
	}
	limit := CharacterLimit(in.Platform)
	if in.MaxLength > 0 && in.MaxLength < limit {
		limit = in.MaxLength
	}
	return &procState{
		in:             in,
		loc:            loc,
		limit:          limit,
		relativeTiming: in.Artifacts.RelativeTiming,
	}
}

// stage is one named transform in the pipeline. Stages are pure: they read
// the state and return a new string, never touching anything outside it.
type stage struct {
	name string
	fn   func(string, *procState) string
}

// pipeline is the fixed transform order, a first-class artifact so the
// ordering itself is testable. Order is load-bearing: the same-day rewrite
// must run before the cardinality check, and the tidy pass runs twice
// because cardinality enforcement can reintroduce whitespace artifacts.
var pipeline = []stage{
	{"platform_limit", limitStage},
	{"offer_rules", offerStage},
	{"links", linkStage},
	{"same_day", sameDayStage},
	{"voice_hygiene", voiceStage},
	{"tidy", tidyStage},
	{"mention_cardinality", mentionStage},
	{"final_tidy", tidyStage},
}

// PostProcess runs the full rule pipeline over a raw completion. If any
// stage panics the whole chain degrades to the lossy fallback tier: plain
// platform-limit enforcement of the raw text. The platform ceiling is never
// violated, even on the fallback path or when later stages appended text.
func PostProcess(raw string, in PostProcessInput) string {
	st := newProcState(in)

	out, err := runPipeline(raw, st)
	if err != nil {
		slog.Warn("post-processing failed, applying limit-only fallback",
			"platform", in.Platform,
			"error", err,
		)
		return EnforceLimit(raw, st.limit)
	}

	if utf8.RuneCountInString(out) > st.limit {
		out = EnforceLimit(out, st.limit)
	}
	return out
}

func runPipeline(text string, st *procState) (out string, err error) {
	current := "start"
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("stage %s: %v", current, r)
		}
	}()

	for _, s := range pipeline {
		current = s.name
		text = s.fn(text, st)
	}
	return text, nil
}

// --- stage 1: platform limit ---

func limitStage(text string, st *procState) string {
	return EnforceLimit(text, st.limit)
}

// EnforceLimit truncates text to at most limit runes, preferring a sentence
// boundary, then a clause boundary, then a word boundary, before a hard cut.
func EnforceLimit(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}

	cut := runes[:limit]
	if i := lastRuneIndexAny(cut, ".!?"); i >= limit/2 {
		return strings.TrimSpace(string(cut[:i+1]))
	}
	if i := lastRuneIndexAny(cut, ",;:"); i >= limit/2 {
		return strings.TrimSpace(string(cut[:i]))
	}
	if i := lastRuneIndexAny(cut, " \n"); i > 0 {
		return strings.TrimSpace(string(cut[:i]))
	}
	return string(cut)
}

func lastRuneIndexAny(runes []rune, chars string) int {
	for i := len(runes) - 1; i >= 0; i-- {
		if strings.ContainsRune(chars, runes[i]) {
			return i
		}
	}
	return -1
}

// --- stage 2: offer rules ---

// offerKeywords trigger evergreen treatment of promotional copy. Matching is
// a case-insensitive substring test against the campaign type and name.
var offerKeywords = []string{
	"offer", "deal", "discount", "promotion", "promo",
	"bundle", "two-for-one", "happy hour", "manager's special",
}

var (
	clockTimeRe = regexp.MustCompile(`(?i)\s*(?:\bat\s+)?\b\d{1,2}(?::\d{2})?\s*(?:am|pm)\b`)
	offerEndsRe = regexp.MustCompile(`(?i)\boffer ends\b[^.!?\n]*`)
)

func offerTriggered(campaignType, campaignName string) bool {
	haystack := strings.ToLower(campaignType + " " + campaignName)
	for _, kw := range offerKeywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}

// offerStage keeps promotional copy evergreen: explicit clock times are
// stripped and an "Offer ends …" clause is injected (or replaced in place,
// preserving trailing punctuation) with a day-relative end phrase.
func offerStage(text string, st *procState) string {
	if !offerTriggered(st.in.CampaignType, st.in.CampaignName) {
		return text
	}

	text = clockTimeRe.ReplaceAllString(text, "")

	// Without an event date there is nothing the offer can end on; the
	// time-strip still applies.
	if st.in.EventDate == nil {
		return text
	}

	phrase := RelativeTimingLabel(*st.in.EventDate, st.in.ScheduledFor, st.loc)
	clause := "Offer ends " + phrase

	if loc := offerEndsRe.FindStringIndex(text); loc != nil {
		// The match stops before sentence punctuation, so replacing the
		// matched span in place preserves whatever followed it.
		return text[:loc[0]] + clause + text[loc[1]:]
	}
	return appendSentence(text, clause+".")
}

// --- stage 3: link normalization ---

var urlRe = regexp.MustCompile(`(?i)\bhttps?://[^\s<>()]+|\bwww\.[^\s<>()]+`)

// linkStage enforces the platform link policy. Instagram and Google
// Business Profile captions cannot carry clickable links, so URLs are
// removed outright. Everywhere else the output carries the brand's
// preferred link exactly once: stray URLs are canonicalised to it, and if
// no URL is present it is appended on a new paragraph.
func linkStage(text string, st *procState) string {
	if stripsLinks(st.in.Platform) {
		return urlRe.ReplaceAllString(text, "")
	}

	pref := st.in.PreferredLink
	if pref == "" {
		return text
	}

	locs := urlRe.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return strings.TrimRight(text, " \t\n") + "\n\n" + pref
	}

	// First URL becomes the preferred link; any others are dropped.
	var b strings.Builder
	b.WriteString(text[:locs[0][0]])
	b.WriteString(pref)
	last := locs[0][1]
	for _, l := range locs[1:] {
		b.WriteString(text[last:l[0]])
		last = l[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// --- stage 4: same-day normalization ---

var (
	weekdayRelRe    = regexp.MustCompile(`(?i)\b(?:this|next)\s+(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)
	tomorrowNightRe = regexp.MustCompile(`(?i)\btomorrow\s+(?:night|evening)\b`)
	tomorrowRe      = regexp.MustCompile(`(?i)\btomorrow\b`)
	todayRe         = regexp.MustCompile(`(?i)\btoday\b`)
)

// sameDayStage rewrites relative day words when the caption goes out on the
// event day itself: "this Friday" posted on the Friday reads better as
// "today", and an evening posting reads better as "tonight". The effective
// relative-timing phrase is rewritten with the text so the cardinality
// stage checks the phrase the caption now uses.
func sameDayStage(text string, st *procState) string {
	if st.in.EventDate == nil || !sameCalendarDay(*st.in.EventDate, st.in.ScheduledFor, st.loc) {
		return text
	}

	dayWord := "today"
	if st.in.ScheduledFor.In(st.loc).Hour() >= 16 {
		dayWord = "tonight"
	}

	rewrite := func(s string) string {
		s = replacePreservingCase(tomorrowNightRe, s, "tonight")
		s = replacePreservingCase(weekdayRelRe, s, dayWord)
		s = replacePreservingCase(tomorrowRe, s, dayWord)
		if dayWord == "tonight" {
			s = replacePreservingCase(todayRe, s, "tonight")
		}
		return s
	}

	text = rewrite(text)
	if st.relativeTiming != "" {
		st.relativeTiming = rewrite(st.relativeTiming)
	}
	return text
}

// --- stage 5: voice hygiene ---

var hypeRe = regexp.MustCompile(`(?i)\b(?:epic|insane(?:ly)?|lit|unreal|awesome|mind[- ]?blowing)\b`)

// hypeLicence terms in the voice baton that mean hyperbole is part of the
// brand's voice and should be left alone.
var hypeLicence = []string{"hype", "edgy", "energetic", "loud", "bold"}

// voiceStage swaps hype words for a neutral synonym unless the voice baton
// licenses that register.
func voiceStage(text string, st *procState) string {
	baton := strings.ToLower(st.in.Artifacts.VoiceBaton)
	for _, term := range hypeLicence {
		if strings.Contains(baton, term) {
			return text
		}
	}
	return replacePreservingCase(hypeRe, text, "brilliant")
}

// --- stage 6 and 8: whitespace/punctuation tidy ---

var (
	multiSpaceRe       = regexp.MustCompile(`[ \t]{2,}`)
	danglingPrepRe     = regexp.MustCompile(`(?i)\b(?:to|from|until|till)\s+([.!?,;:])`)
	trailingPrepRe     = regexp.MustCompile(`(?i)\s+(?:to|from|until|till)$`)
	spaceBeforePunctRe = regexp.MustCompile(`[ \t]+([,.!?;:])`)
	punctRunRe         = regexp.MustCompile(`([,;:])\s*([.!?,;:])`)
	missingSpaceRe     = regexp.MustCompile(`([.!?])([A-Z][a-z])`)
	multiNewlineRe     = regexp.MustCompile(`\n{3,}`)
)

func tidyStage(text string, st *procState) string {
	return tidyText(text)
}

// tidyText repairs the artifacts earlier substitutions leave behind:
// repeated spaces, dangling prepositions ("to ."), space before
// punctuation, punctuation runs, and missing space after sentence ends.
func tidyText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		line = multiSpaceRe.ReplaceAllString(line, " ")
		line = danglingPrepRe.ReplaceAllString(line, "$1")
		line = trailingPrepRe.ReplaceAllString(line, "")
		line = spaceBeforePunctRe.ReplaceAllString(line, "$1")
		line = punctRunRe.ReplaceAllString(line, "$2")
		lines[i] = strings.TrimRight(line, " \t")
	}

	text = strings.Join(lines, "\n")
	text = missingSpaceRe.ReplaceAllString(text, "$1 $2")
	text = multiNewlineRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// --- stage 7: mention cardinality ---

// mentionStage ensures each threaded timing phrase appears exactly once:
// absent phrases get a fallback sentence, repeats keep the first occurrence.
func mentionStage(text string, st *procState) string {
	if st.relativeTiming != "" {
		text = enforceSingleMention(text, st.relativeTiming, "Happening %s.")
	}
	if st.in.Artifacts.ExplicitDate != "" {
		text = enforceSingleMention(text, st.in.Artifacts.ExplicitDate, "Save the date: %s.")
	}
	return text
}

func enforceSingleMention(text, phrase, fallbackFormat string) string {
	re := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
	locs := re.FindAllStringIndex(text, -1)

	switch len(locs) {
	case 0:
		return appendSentence(text, fmt.Sprintf(fallbackFormat, phrase))
	case 1:
		return text
	}

	// Keep the first occurrence, drop the rest. The final tidy pass cleans
	// the double spaces and orphan punctuation this leaves behind.
	var b strings.Builder
	b.WriteString(text[:locs[1][0]])
	last := locs[1][1]
	for _, l := range locs[2:] {
		b.WriteString(text[last:l[0]])
		last = l[1]
	}
	b.WriteString(text[last:])
	return b.String()
}

// --- helpers ---

// appendSentence adds sentence as a new sentence at the end of text,
// closing the existing text with a full stop if it ends mid-sentence.
func appendSentence(text, sentence string) string {
	text = strings.TrimRight(text, " \t\n")
	if text == "" {
		return sentence
	}
	last, _ := utf8.DecodeLastRuneInString(text)
	if !strings.ContainsRune(".!?…", last) {
		text += "."
	}
	return text + " " + sentence
}

// replacePreservingCase substitutes every match with repl, capitalising the
// replacement when the matched text started with an upper-case letter.
func replacePreservingCase(re *regexp.Regexp, text, repl string) string {
	return re.ReplaceAllStringFunc(text, func(m string) string {
		first, _ := utf8.DecodeRuneInString(m)
		if unicode.IsUpper(first) {
			r, size := utf8.DecodeRuneInString(repl)
			return string(unicode.ToUpper(r)) + repl[size:]
		}
		return repl
	})
}
