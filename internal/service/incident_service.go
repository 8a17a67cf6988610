package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/incident-portal/internal/auth"
	"github.com/spec-kit/incident-portal/internal/domain"
	"github.com/spec-kit/incident-portal/internal/events"
	"github.com/spec-kit/incident-portal/internal/repository"
	"github.com/spec-kit/incident-portal/pkg/apperrors"
)

// IncidentService coordinates incident workflows: permission checks, state
// transitions, persistence, and event emission.
type IncidentService struct {
	incidents  repository.IncidentRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// IncidentDependencies bundles collaborators for the service.
type IncidentDependencies struct {
	IncidentRepo repository.IncidentRepository
	UserRepo     repository.UserRepository
	Dispatcher   events.Dispatcher
}

// IncidentCreateInput describes incident creation payload.
type IncidentCreateInput struct {
	Title       string
	Description string
	Priority    domain.IncidentPriority
}

// IncidentUpdateInput describes a requested mutation. Status is ignored when
// empty. AssignedTo carries the raw form value: blank or a non-positive id
// means unassign, a positive integer is the target user id.
type IncidentUpdateInput struct {
	Status     string
	AssignedTo string
}

// UpdateResult carries the persisted incident. AssignmentDenied is set when
// the assignment portion was rejected by permissions; the rest of the update
// still commits.
type UpdateResult struct {
	Incident         *domain.Incident
	AssignmentDenied bool
}

// NewIncidentService constructs the service.
func NewIncidentService(deps IncidentDependencies) *IncidentService {
	return &IncidentService{
		incidents:  deps.IncidentRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create persists a new incident reported by the actor. Status starts at NEW
// and the reporter reference is set exactly once, here.
func (s *IncidentService) Create(ctx context.Context, actor *domain.User, input IncidentCreateInput) (*domain.Incident, error) {
	if !auth.CanCreate(actor) {
		return nil, apperrors.NewUnauthorized("login required")
	}

	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" || input.Priority == "" {
		return nil, apperrors.NewValidationError("title, description and priority are required", nil)
	}

	incident := &domain.Incident{
		Title:       title,
		Description: description,
		Status:      domain.IncidentStatusNew,
		Priority:    input.Priority,
		ReporterID:  actor.ID,
	}
	if err := s.incidents.Create(ctx, incident); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventIncidentCreated,
		IncidentID: incident.ID,
		ActorID:    actor.ID,
		Payload: events.IncidentCreatedPayload{
			Title:      incident.Title,
			Priority:   incident.Priority,
			ReporterID: incident.ReporterID,
		},
	})
	return incident, nil
}

// Update applies status and assignment changes. The two sub-changes are
// decided independently against the pre-mutation snapshot: a denied
// assignment does not abort an accepted status change.
func (s *IncidentService) Update(ctx context.Context, actor *domain.User, incidentID int64, input IncidentUpdateInput) (*UpdateResult, error) {
	incident, err := s.incidents.GetByID(ctx, incidentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("incident", map[string]any{"incident_id": incidentID})
		}
		return nil, apperrors.MapError(err)
	}
	if !auth.CanUpdate(actor) {
		return nil, apperrors.NewForbidden("only managers or technicians can update incidents")
	}

	oldStatus := incident.Status
	oldAssignee := incident.AssignedToID
	target := ParseAssignee(input.AssignedTo)

	// Status values are applied verbatim; membership in the canonical set is
	// deliberately not enforced.
	statusChanged := input.Status != "" && domain.IncidentStatus(input.Status) != oldStatus

	assignChanged := false
	assignmentDenied := false
	if !assigneeEqual(target, oldAssignee) {
		if auth.CanAssign(actor, target, oldAssignee) {
			if target != nil {
				if _, err := s.users.GetByID(ctx, *target); err != nil {
					if errors.Is(err, pgx.ErrNoRows) {
						return nil, apperrors.NewNotFound("user", map[string]any{"user_id": *target})
					}
					return nil, apperrors.MapError(err)
				}
			}
			assignChanged = true
		} else {
			assignmentDenied = true
		}
	}

	if statusChanged {
		incident.Status = domain.IncidentStatus(input.Status)
	}
	if assignChanged {
		incident.AssignedToID = target
	}
	if err := s.incidents.Update(ctx, incident); err != nil {
		return nil, apperrors.MapError(err)
	}

	if assignChanged {
		if target != nil {
			s.publishEvent(ctx, events.Event{
				Type:       events.EventIncidentAssigned,
				IncidentID: incident.ID,
				ActorID:    actor.ID,
				Payload:    events.IncidentAssignedPayload{AssigneeID: *target},
			})
		} else if oldAssignee != nil {
			s.publishEvent(ctx, events.Event{
				Type:       events.EventIncidentUnassigned,
				IncidentID: incident.ID,
				ActorID:    actor.ID,
				Payload:    events.IncidentUnassignedPayload{PreviousAssigneeID: *oldAssignee},
			})
		}
	}
	if statusChanged {
		s.publishEvent(ctx, events.Event{
			Type:       events.EventIncidentStatusChanged,
			IncidentID: incident.ID,
			ActorID:    actor.ID,
			Payload: events.IncidentStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: incident.Status,
			},
		})
	}

	return &UpdateResult{Incident: incident, AssignmentDenied: assignmentDenied}, nil
}

// Delete hard-deletes an incident. Manager only; no notifications.
func (s *IncidentService) Delete(ctx context.Context, actor *domain.User, incidentID int64) error {
	if _, err := s.incidents.GetByID(ctx, incidentID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("incident", map[string]any{"incident_id": incidentID})
		}
		return apperrors.MapError(err)
	}
	if !auth.IsManager(actor) {
		return apperrors.NewForbidden("only managers can delete incidents")
	}
	if err := s.incidents.Delete(ctx, incidentID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// List returns all incidents, newest first.
func (s *IncidentService) List(ctx context.Context) ([]domain.Incident, error) {
	incidents, err := s.incidents.ListOrderedByCreatedDesc(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return incidents, nil
}

// ListUsers returns all accounts, for the assignment picker.
func (s *IncidentService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// ParseAssignee interprets the raw assigned_to_id form value: a positive
// integer targets that user, anything else means unassign.
func ParseAssignee(raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

func assigneeEqual(a, b *int64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (s *IncidentService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
