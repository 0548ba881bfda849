// Copyright (c) 2026 Peter Pitcher
// All rights reserved. See LICENSE for details.

package generation

import (
	"strings"

	"github.com/peterjpitcher/cheersai2.0-sub004/internal/models"
)

// GuardrailSet is the request-scoped aggregate of a tenant's active
// guardrail rows, partitioned into prompt instruction buckets. Lists are
// deduplicated (whitespace-collapsed, case-insensitive) preserving first
// occurrence order. Empty inputs yield empty lists, never nil semantics the
// prompt builder has to care about.
type GuardrailSet struct {
	MustInclude []string
	MustAvoid   []string
	Tone        []string
	Style       []string
	Format      []string

	// Legal carries the brand content boundaries verbatim for the prompt's
	// informational section. The same strings are also folded into MustAvoid
	// as enforceable instructions.
	Legal []string
}

// BuildGuardrailSet partitions active guardrail rows by feedback type and
// folds the brand's content boundaries into both the must-avoid bucket and
// the legal list. Pure function of its inputs.
func BuildGuardrailSet(rows []models.GuardrailRow, contentBoundaries []string) GuardrailSet {
	var include, avoid, tone, style, format, legal dedupeList

	for _, row := range rows {
		switch row.FeedbackType {
		case models.FeedbackInclude:
			include.add(row.FeedbackText)
		case models.FeedbackAvoid:
			avoid.add(row.FeedbackText)
		case models.FeedbackTone:
			tone.add(row.FeedbackText)
		case models.FeedbackStyle:
			style.add(row.FeedbackText)
		case models.FeedbackFormat:
			format.add(row.FeedbackText)
		}
	}

	for _, boundary := range contentBoundaries {
		avoid.add(boundary)
		legal.add(boundary)
	}

	return GuardrailSet{
		MustInclude: include.items(),
		MustAvoid:   avoid.items(),
		Tone:        tone.items(),
		Style:       style.items(),
		Format:      format.items(),
		Legal:       legal.items(),
	}
}

// Empty reports whether no bucket carries any instruction.
func (g GuardrailSet) Empty() bool {
	return len(g.MustInclude) == 0 && len(g.MustAvoid) == 0 &&
		len(g.Tone) == 0 && len(g.Style) == 0 && len(g.Format) == 0
}

// dedupeList is an order-preserving set of normalized strings.
type dedupeList struct {
	seen map[string]bool
	list []string
}

// add normalizes s (collapse internal whitespace, trim) and appends it if an
// equivalent string (case-insensitive) has not been seen before.
func (d *dedupeList) add(s string) {
	norm := strings.Join(strings.Fields(s), " ")
	if norm == "" {
		return
	}
	key := strings.ToLower(norm)
	if d.seen == nil {
		d.seen = make(map[string]bool)
	}
	if d.seen[key] {
		return
	}
	d.seen[key] = true
	d.list = append(d.list, norm)
}

func (d *dedupeList) items() []string {
	if d.list == nil {
		return []string{}
	}
	return d.list
}
