package dashboard

import (
	"math"

	"github.com/campusfix/complaint-service/internal/domain"
)

// CategoryStat is a category's count and share of all tickets.
type CategoryStat struct {
	Category domain.Category `json:"category"`
	Count    int             `json:"count"`
	Percent  float64         `json:"percent"`
}

// Analytics summarizes a ticket snapshot.
type Analytics struct {
	Total              int                         `json:"total"`
	ByStatus           map[domain.TicketStatus]int `json:"by_status"`
	ByCategory         []CategoryStat              `json:"by_category"`
	ByUrgency          map[int]int                 `json:"by_urgency"`
	AvgResolutionHours float64                     `json:"avg_resolution_hours"`
	AvgUrgency         float64                     `json:"avg_urgency"`
	ResolutionRate     float64                     `json:"resolution_rate"`
	OpenRate           float64                     `json:"open_rate"`
}

// ComputeAnalytics aggregates tickets. Every status and every urgency 1..10 has a key
// even when its count is zero.
func ComputeAnalytics(tickets []domain.Ticket) Analytics {
	a := Analytics{
		Total:      len(tickets),
		ByStatus:   make(map[domain.TicketStatus]int, len(domain.TicketStatuses)),
		ByCategory: []CategoryStat{},
		ByUrgency:  make(map[int]int, domain.UrgencyMax),
	}
	for _, s := range domain.TicketStatuses {
		a.ByStatus[s] = 0
	}
	for u := domain.UrgencyMin; u <= domain.UrgencyMax; u++ {
		a.ByUrgency[u] = 0
	}

	categoryIndex := map[domain.Category]int{}
	var (
		urgencySum    int
		resolvedHours int
		resolvedCount int
	)
	for _, t := range tickets {
		if _, ok := a.ByStatus[t.Status]; ok {
			a.ByStatus[t.Status]++
		}
		if _, ok := a.ByUrgency[t.Urgency]; ok {
			a.ByUrgency[t.Urgency]++
		}
		urgencySum += t.Urgency

		idx, ok := categoryIndex[t.Category]
		if !ok {
			idx = len(a.ByCategory)
			categoryIndex[t.Category] = idx
			a.ByCategory = append(a.ByCategory, CategoryStat{Category: t.Category})
		}
		a.ByCategory[idx].Count++

		if t.ResolvedAt != nil && !t.CreatedAt.IsZero() {
			// whole hours, truncated per ticket
			resolvedHours += int(t.ResolvedAt.Sub(t.CreatedAt).Hours())
			resolvedCount++
		}
	}

	if a.Total == 0 {
		return a
	}
	for i := range a.ByCategory {
		a.ByCategory[i].Percent = percent(a.ByCategory[i].Count, a.Total)
	}
	a.AvgUrgency = round1(float64(urgencySum) / float64(a.Total))
	if resolvedCount > 0 {
		a.AvgResolutionHours = round1(float64(resolvedHours) / float64(resolvedCount))
	}
	a.ResolutionRate = percent(a.ByStatus[domain.TicketStatusResolved], a.Total)
	a.OpenRate = percent(a.ByStatus[domain.TicketStatusOpen], a.Total)
	return a
}

func percent(count, total int) float64 {
	return round1(float64(count) / float64(total) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
