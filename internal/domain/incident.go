package domain

import "time"

// IncidentStatus enumerates lifecycle states for incidents. Any status can
// follow any other; NEW is the only initial state and none are terminal.
type IncidentStatus string

const (
	IncidentStatusNew        IncidentStatus = "NEW"
	IncidentStatusInProgress IncidentStatus = "IN_PROGRESS"
	IncidentStatusResolved   IncidentStatus = "RESOLVED"
	IncidentStatusClosed     IncidentStatus = "CLOSED"
)

// IncidentPriority enumerates urgency. Fixed at creation.
type IncidentPriority string

const (
	IncidentPriorityLow      IncidentPriority = "LOW"
	IncidentPriorityMedium   IncidentPriority = "MEDIUM"
	IncidentPriorityHigh     IncidentPriority = "HIGH"
	IncidentPriorityCritical IncidentPriority = "CRITICAL"
)

// Incident is the aggregate for reported incidents. ReporterID and CreatedAt
// are set once at creation and never change; AssignedToID is the only
// reference that moves over the lifecycle.
type Incident struct {
	ID           int64
	Title        string
	Description  string
	Status       IncidentStatus
	Priority     IncidentPriority
	ReporterID   int64
	AssignedToID *int64
	CreatedAt    time.Time
}
