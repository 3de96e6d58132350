// Package dashboard computes the admin views over a ticket snapshot: filtering,
// analytics and the heatmap.
package dashboard

import (
	"sort"

	"github.com/campusfix/complaint-service/internal/domain"
	"github.com/campusfix/complaint-service/pkg/util/errorutil"
)

const All = "all"

// UrgencyBand groups urgency scores for filtering.
type UrgencyBand string

const (
	BandAll    UrgencyBand = All
	BandHigh   UrgencyBand = "high"
	BandMedium UrgencyBand = "medium"
	BandLow    UrgencyBand = "low"
)

// Contains reports whether urgency falls in the band.
func (b UrgencyBand) Contains(urgency int) bool {
	switch b {
	case BandHigh:
		return urgency >= 7
	case BandMedium:
		return urgency >= 4 && urgency < 7
	case BandLow:
		return urgency < 4
	default:
		return true
	}
}

// Filter narrows the admin table. Empty fields behave like "all".
type Filter struct {
	Status   string
	Category string
	Urgency  UrgencyBand
}

// ParseFilter validates query-string values.
func ParseFilter(status, category, urgency string) (Filter, error) {
	f := Filter{Status: orAll(status), Category: orAll(category), Urgency: UrgencyBand(orAll(urgency))}

	if f.Status != All && !domain.TicketStatus(f.Status).Valid() {
		return Filter{}, errorutil.NewValidationError("invalid status filter", map[string]any{"status": status})
	}
	switch f.Urgency {
	case BandAll, BandHigh, BandMedium, BandLow:
	default:
		return Filter{}, errorutil.NewValidationError("invalid urgency filter", map[string]any{"urgency": urgency})
	}
	return f, nil
}

// Match reports whether t passes every criterion.
func (f Filter) Match(t domain.Ticket) bool {
	if f.Status != "" && f.Status != All && string(t.Status) != f.Status {
		return false
	}
	if f.Category != "" && f.Category != All && string(t.Category) != f.Category {
		return false
	}
	return f.Urgency.Contains(t.Urgency)
}

// Apply keeps matching tickets in their original order.
func (f Filter) Apply(tickets []domain.Ticket) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// UniqueCategories lists the non-empty categories present, sorted.
func UniqueCategories(tickets []domain.Ticket) []domain.Category {
	seen := make(map[domain.Category]struct{})
	out := []domain.Category{}
	for _, t := range tickets {
		if t.Category == "" {
			continue
		}
		if _, ok := seen[t.Category]; ok {
			continue
		}
		seen[t.Category] = struct{}{}
		out = append(out, t.Category)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func orAll(v string) string {
	if v == "" {
		return All
	}
	return v
}
