package dto

import "github.com/campusfix/complaint-service/internal/classify"

// ClassifyRequest payload. Photo is raw base64 or a data URL.
type ClassifyRequest struct {
	Description string `json:"description"`
	Photo       string `json:"photo"`
}

// ClassifyResponse is the classification as returned to the client, unwrapped.
type ClassifyResponse struct {
	Category string `json:"category"`
	Urgency  int    `json:"urgency"`
	Summary  string `json:"summary"`
}

// NewClassifyResponse maps a classifier result.
func NewClassifyResponse(r *classify.Result) ClassifyResponse {
	return ClassifyResponse{Category: string(r.Category), Urgency: r.Urgency, Summary: r.Summary}
}
