// Package scoring derives everything the dashboard shows from the raw
// ratings: gaps, priority tiers, per-domain aggregates and the top-gap
// selection. Pure functions, no I/O; derived values are recomputed on
// every read and never stored.
package scoring

import (
	"fmt"
	"sort"

	"govassess/internal/model"
)

// Priority is the derived urgency tier for a question.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
)

// PriorityOf derives the urgency tier from gap and current level. Rules
// are evaluated in order; the first match wins.
func PriorityOf(gap, current int) Priority {
	switch {
	case gap >= 3:
		return PriorityCritical
	case gap >= 2 && current <= 1:
		return PriorityCritical
	case gap >= 2:
		return PriorityHigh
	case gap >= 1:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Row is one derived line of the assessment table.
type Row struct {
	Code        string   `json:"code"`
	DomainID    int      `json:"domainId"`
	DomainName  string   `json:"domainName"`
	Question    string   `json:"question"`
	Current     int      `json:"current"`
	Target      int      `json:"target"`
	Gap         int      `json:"gap"`
	Priority    Priority `json:"priority"`
	ActionItems string   `json:"actionItems,omitempty"`
	Benefit     int      `json:"benefit"`
	Effort      int      `json:"effort"`
}

// Derive joins the catalog questions and the session ratings into the
// derived table, in catalog order. A question without a rating falls
// back to its defaults; with a seeded session that does not happen.
func Derive(questions []model.Question, domainName func(int) string, ratings map[string]model.Rating) []Row {
	rows := make([]Row, 0, len(questions))
	for _, q := range questions {
		r, ok := ratings[q.Code]
		if !ok {
			r = model.Rating{Code: q.Code, Current: q.DefaultCurrent, Target: q.DefaultTarget}
		}
		gap := r.Target - r.Current
		rows = append(rows, Row{
			Code:        q.Code,
			DomainID:    q.DomainID,
			DomainName:  domainName(q.DomainID),
			Question:    q.Prompt,
			Current:     r.Current,
			Target:      r.Target,
			Gap:         gap,
			Priority:    PriorityOf(gap, r.Current),
			ActionItems: r.ActionItems,
			Benefit:     r.Benefit,
			Effort:      r.Effort,
		})
	}
	return rows
}

// DomainSummary aggregates one governance domain.
type DomainSummary struct {
	DomainID     int     `json:"domainId"`
	DomainName   string  `json:"domainName"`
	MeanCurrent  float64 `json:"meanCurrent"`
	MeanTarget   float64 `json:"meanTarget"`
	MeanGap      float64 `json:"meanGap"`
	Questions    int     `json:"questions"`
	CriticalHigh int     `json:"criticalHigh"`
}

// Aggregate computes a summary for every catalog domain, in domain
// order. A catalog domain with zero rows cannot occur with the fixed
// questionnaire; hitting one means the data model is corrupted, so it
// panics instead of averaging an empty set.
func Aggregate(domains []model.Domain, rows []Row) []DomainSummary {
	grouped := make(map[int][]Row, len(domains))
	for _, r := range rows {
		grouped[r.DomainID] = append(grouped[r.DomainID], r)
	}

	out := make([]DomainSummary, 0, len(domains))
	for _, d := range domains {
		group := grouped[d.ID]
		if len(group) == 0 {
			panic(fmt.Sprintf("scoring: domain %d (%s) has no rows", d.ID, d.Name))
		}
		var current, target, gap, criticalHigh int
		for _, r := range group {
			current += r.Current
			target += r.Target
			gap += r.Gap
			if r.Priority == PriorityCritical || r.Priority == PriorityHigh {
				criticalHigh++
			}
		}
		n := float64(len(group))
		out = append(out, DomainSummary{
			DomainID:     d.ID,
			DomainName:   d.Name,
			MeanCurrent:  float64(current) / n,
			MeanTarget:   float64(target) / n,
			MeanGap:      float64(gap) / n,
			Questions:    len(group),
			CriticalHigh: criticalHigh,
		})
	}
	return out
}

// Overall returns whole-table means. Panics on an empty table for the
// same reason Aggregate does.
func Overall(rows []Row) (meanCurrent, meanTarget, meanGap float64) {
	if len(rows) == 0 {
		panic("scoring: overall means over an empty table")
	}
	var current, target, gap int
	for _, r := range rows {
		current += r.Current
		target += r.Target
		gap += r.Gap
	}
	n := float64(len(rows))
	return float64(current) / n, float64(target) / n, float64(gap) / n
}

// TopGapItems returns the n rows most worth acting on: positive gap
// only, widest gap first, lower current level breaking ties, catalog
// order beyond that. The sort is stable so repeated calls agree.
func TopGapItems(rows []Row, n int) []Row {
	filtered := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Gap > 0 {
			filtered = append(filtered, r)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].Gap != filtered[j].Gap {
			return filtered[i].Gap > filtered[j].Gap
		}
		return filtered[i].Current < filtered[j].Current
	})
	if n >= 0 && n < len(filtered) {
		filtered = filtered[:n]
	}
	return filtered
}
