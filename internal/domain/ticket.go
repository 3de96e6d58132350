package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
)

// TicketStatuses lists every status in display order.
var TicketStatuses = []TicketStatus{TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	for _, known := range TicketStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Category is the closed set of complaint labels the classifier may return.
type Category string

const (
	CategoryElectrical     Category = "Electrical"
	CategoryWater          Category = "Water"
	CategoryCleanliness    Category = "Cleanliness"
	CategoryInfrastructure Category = "Infrastructure"
	CategorySafety         Category = "Safety"
	CategoryHostel         Category = "Hostel"
	CategoryAcademic       Category = "Academic"
	CategoryOther          Category = "Other"
)

// Categories lists the labels in the order they are offered to the classifier.
var Categories = []Category{
	CategoryElectrical,
	CategoryWater,
	CategoryCleanliness,
	CategoryInfrastructure,
	CategorySafety,
	CategoryHostel,
	CategoryAcademic,
	CategoryOther,
}

// Known reports whether c is one of the enumerated labels.
func (c Category) Known() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CategoryLabels joins the labels for prompts and error messages.
func CategoryLabels() string {
	labels := make([]string, len(Categories))
	for i, c := range Categories {
		labels[i] = string(c)
	}
	return strings.Join(labels, ", ")
}

const (
	UrgencyMin     = 1
	UrgencyMax     = 10
	UrgencyDefault = 5
)

const (
	DefaultBuilding = "Main Building"
	DefaultFloor    = "Ground"
)

// Location is a point picked on the campus map.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Ticket is a campus complaint as stored.
type Ticket struct {
	ID          string
	UserID      string
	UserEmail   string
	Description string
	Building    string
	Floor       string
	RoomNumber  string
	Location    *Location
	PhotoURL    *string
	Category    Category
	Urgency     int
	Summary     string
	Status      TicketStatus
	AssignedTo  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ResolvedAt  *time.Time
}
