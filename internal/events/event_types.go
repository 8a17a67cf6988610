package events

import (
	"time"

	"github.com/spec-kit/incident-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIncidentCreated       EventType = "incident_created"
	EventIncidentStatusChanged EventType = "incident_status_changed"
	EventIncidentAssigned      EventType = "incident_assigned"
	EventIncidentUnassigned    EventType = "incident_unassigned"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	IncidentID int64       `json:"incident_id"`
	ActorID    int64       `json:"actor_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// IncidentCreatedPayload payload.
type IncidentCreatedPayload struct {
	Title      string                  `json:"title"`
	Priority   domain.IncidentPriority `json:"priority"`
	ReporterID int64                   `json:"reporter_id"`
}

// IncidentStatusChangedPayload payload.
type IncidentStatusChangedPayload struct {
	OldStatus domain.IncidentStatus `json:"old_status"`
	NewStatus domain.IncidentStatus `json:"new_status"`
}

// IncidentAssignedPayload payload.
type IncidentAssignedPayload struct {
	AssigneeID int64 `json:"assignee_id"`
}

// IncidentUnassignedPayload payload.
type IncidentUnassignedPayload struct {
	PreviousAssigneeID int64 `json:"previous_assignee_id"`
}
