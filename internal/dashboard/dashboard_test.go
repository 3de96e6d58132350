package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusfix/complaint-service/internal/domain"
)

func sampleTickets() []domain.Ticket {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	resolvedA := created.Add(5*time.Hour + 50*time.Minute) // 5 whole hours
	resolvedB := created.Add(2 * time.Hour)
	return []domain.Ticket{
		{ID: "1", Category: domain.CategoryWater, Urgency: 8, Status: domain.TicketStatusOpen, CreatedAt: created,
			Location: &domain.Location{Lat: 19.07, Lng: 72.89}},
		{ID: "2", Category: domain.CategoryElectrical, Urgency: 5, Status: domain.TicketStatusResolved, CreatedAt: created, ResolvedAt: &resolvedA},
		{ID: "3", Category: domain.CategoryWater, Urgency: 2, Status: domain.TicketStatusResolved, CreatedAt: created, ResolvedAt: &resolvedB,
			Location: &domain.Location{Lat: 0, Lng: 72.89}},
		{ID: "4", Category: domain.CategoryHostel, Urgency: 0, Status: domain.TicketStatusInProgress, CreatedAt: created,
			Location: &domain.Location{Lat: 19.08, Lng: 72.9}},
	}
}

func TestFilterBands(t *testing.T) {
	tickets := sampleTickets()

	ids := func(ts []domain.Ticket) []string {
		out := []string{}
		for _, tk := range ts {
			out = append(out, tk.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1"}, ids(Filter{Urgency: BandHigh}.Apply(tickets)))
	assert.Equal(t, []string{"2"}, ids(Filter{Urgency: BandMedium}.Apply(tickets)))
	assert.Equal(t, []string{"3", "4"}, ids(Filter{Urgency: BandLow}.Apply(tickets)))
	assert.Equal(t, []string{"3"}, ids(Filter{Status: "resolved", Category: "Water"}.Apply(tickets)))
	assert.Len(t, Filter{}.Apply(tickets), 4)
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("", "Water", "high")
	require.NoError(t, err)
	assert.Equal(t, Filter{Status: All, Category: "Water", Urgency: BandHigh}, f)

	_, err = ParseFilter("closed", "", "")
	assert.Error(t, err)
	_, err = ParseFilter("", "", "urgent")
	assert.Error(t, err)
}

func TestUniqueCategoriesSorted(t *testing.T) {
	tickets := append(sampleTickets(), domain.Ticket{ID: "5"})
	assert.Equal(t, []domain.Category{domain.CategoryElectrical, domain.CategoryHostel, domain.CategoryWater}, UniqueCategories(tickets))
}

func TestComputeAnalytics(t *testing.T) {
	a := ComputeAnalytics(sampleTickets())

	assert.Equal(t, 4, a.Total)
	assert.Equal(t, map[domain.TicketStatus]int{"open": 1, "in_progress": 1, "resolved": 2}, a.ByStatus)
	assert.Len(t, a.ByUrgency, 10)
	assert.Equal(t, 1, a.ByUrgency[8])
	assert.Equal(t, 0, a.ByUrgency[10])
	assert.Equal(t, 3.5, a.AvgResolutionHours) // (5 + 2) / 2
	assert.Equal(t, 3.8, a.AvgUrgency)         // 15 / 4
	assert.Equal(t, 50.0, a.ResolutionRate)
	assert.Equal(t, 25.0, a.OpenRate)

	require.Len(t, a.ByCategory, 3)
	assert.Equal(t, CategoryStat{Category: domain.CategoryWater, Count: 2, Percent: 50}, a.ByCategory[0])
}

func TestComputeAnalyticsEmpty(t *testing.T) {
	a := ComputeAnalytics(nil)
	assert.Equal(t, 0, a.Total)
	assert.Equal(t, 0, a.ByStatus[domain.TicketStatusOpen])
	assert.Len(t, a.ByStatus, 3)
	assert.Zero(t, a.AvgResolutionHours)
	assert.Zero(t, a.AvgUrgency)
	assert.Zero(t, a.ResolutionRate)
}

func TestHeatmap(t *testing.T) {
	fc := Heatmap(sampleTickets())

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 2)
	assert.Equal(t, [2]float64{72.89, 19.07}, fc.Features[0].Geometry.Coordinates)
	assert.Equal(t, 8, fc.Features[0].Properties.Urgency)
	assert.Equal(t, "4", fc.Features[1].Properties.ID)
	assert.Equal(t, 1, fc.Features[1].Properties.Urgency)
}
