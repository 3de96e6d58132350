package dashboard

import "github.com/campusfix/complaint-service/internal/domain"

// FeatureCollection is the GeoJSON document the heatmap layer consumes.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string            `json:"type"`
	Properties FeatureProperties `json:"properties"`
	Geometry   Point             `json:"geometry"`
}

type FeatureProperties struct {
	ID      string              `json:"id"`
	Urgency int                 `json:"urgency"`
	Status  domain.TicketStatus `json:"status"`
}

// Point coordinates are [lng, lat].
type Point struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// Heatmap places every ticket that has a usable location. A zero latitude or
// longitude counts as unset.
func Heatmap(tickets []domain.Ticket) FeatureCollection {
	fc := FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
	for _, t := range tickets {
		if t.Location == nil || t.Location.Lat == 0 || t.Location.Lng == 0 {
			continue
		}
		urgency := t.Urgency
		if urgency == 0 {
			urgency = 1
		}
		fc.Features = append(fc.Features, Feature{
			Type:       "Feature",
			Properties: FeatureProperties{ID: t.ID, Urgency: urgency, Status: t.Status},
			Geometry:   Point{Type: "Point", Coordinates: [2]float64{t.Location.Lng, t.Location.Lat}},
		})
	}
	return fc
}
