package dto

import (
	"time"

	"github.com/spec-kit/incident-portal/internal/domain"
)

// CreateIncidentRequest payload.
type CreateIncidentRequest struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Priority    string `json:"priority" form:"priority"`
}

// UpdateIncidentRequest payload. Both fields mirror the portal form:
// status is optional, assigned_to_id is the raw dropdown value.
type UpdateIncidentRequest struct {
	Status     string `json:"status" form:"status"`
	AssignedTo string `json:"assigned_to_id" form:"assigned_to_id"`
}

// IncidentResponse response.
type IncidentResponse struct {
	ID           int64                   `json:"id"`
	Title        string                  `json:"title"`
	Description  string                  `json:"description"`
	Status       domain.IncidentStatus   `json:"status"`
	Priority     domain.IncidentPriority `json:"priority"`
	ReporterID   int64                   `json:"reporter_id"`
	AssignedToID *int64                  `json:"assigned_to_id"`
	CreatedAt    time.Time               `json:"created_at"`
}

// IncidentListResponse bundles the incident board with the user directory
// the assignment picker needs.
type IncidentListResponse struct {
	Incidents []IncidentResponse `json:"incidents"`
	Users     []UserResponse     `json:"users"`
}
