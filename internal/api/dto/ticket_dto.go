package dto

import (
	"encoding/json"
	"time"

	"github.com/campusfix/complaint-service/internal/dashboard"
	"github.com/campusfix/complaint-service/internal/domain"
)

// SubmitTicketRequest payload. Either Classification (as returned by /api/classify)
// or Analyze must be given.
type SubmitTicketRequest struct {
	Description    string           `json:"description"`
	Building       string           `json:"building"`
	Floor          string           `json:"floor"`
	RoomNumber     string           `json:"room_number"`
	Location       *domain.Location `json:"location"`
	Photo          string           `json:"photo"`
	Classification json.RawMessage  `json:"classification"`
	Analyze        bool             `json:"analyze"`
}

// TicketResponse is a ticket as shown to students and admins.
type TicketResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	UserEmail   string              `json:"user_email"`
	Description string              `json:"description"`
	Building    string              `json:"building"`
	Floor       string              `json:"floor"`
	RoomNumber  string              `json:"room_number"`
	Location    *domain.Location    `json:"location"`
	PhotoURL    *string             `json:"photo_url"`
	Category    domain.Category     `json:"category"`
	Urgency     int                 `json:"urgency"`
	Summary     string              `json:"summary"`
	Status      domain.TicketStatus `json:"status"`
	AssignedTo  *string             `json:"assigned_to"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	ResolvedAt  *time.Time          `json:"resolved_at"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		UserEmail:   t.UserEmail,
		Description: t.Description,
		Building:    t.Building,
		Floor:       t.Floor,
		RoomNumber:  t.RoomNumber,
		Location:    t.Location,
		PhotoURL:    t.PhotoURL,
		Category:    t.Category,
		Urgency:     t.Urgency,
		Summary:     t.Summary,
		Status:      t.Status,
		AssignedTo:  t.AssignedTo,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		ResolvedAt:  t.ResolvedAt,
	}
}

// NewTicketList maps a slice, never returning nil.
func NewTicketList(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssignedTo string `json:"assigned_to"`
}

// AdminTicketsResponse is the filtered admin table plus the filter menu.
type AdminTicketsResponse struct {
	Tickets    []TicketResponse  `json:"tickets"`
	Total      int               `json:"total"`
	Categories []domain.Category `json:"categories"`
}

// MapResponse carries the heatmap and what the client needs to draw it.
type MapResponse struct {
	Token  string                      `json:"token"`
	Center [2]float64                  `json:"center"`
	Zoom   float64                     `json:"zoom"`
	Data   dashboard.FeatureCollection `json:"data"`
}
