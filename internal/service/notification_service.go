package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/incident-portal/internal/domain"
	"github.com/spec-kit/incident-portal/internal/events"
	"github.com/spec-kit/incident-portal/internal/mail"
	"github.com/spec-kit/incident-portal/internal/notify"
	"github.com/spec-kit/incident-portal/internal/repository"
)

// NotificationService consumes incident events and delivers the derived
// notifications. Everything here runs off the request path; failures are
// logged and swallowed, never surfaced to the requester.
type NotificationService struct {
	dispatcher events.Dispatcher
	incidents  repository.IncidentRepository
	users      repository.UserRepository
	sender     mail.Sender
	logger     *zap.Logger
}

// NotificationDependencies bundles collaborators.
type NotificationDependencies struct {
	Dispatcher   events.Dispatcher
	IncidentRepo repository.IncidentRepository
	UserRepo     repository.UserRepository
	Sender       mail.Sender
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		incidents:  deps.IncidentRepo,
		users:      deps.UserRepo,
		sender:     deps.Sender,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to incident events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventIncidentCreated, n.handleIncidentCreated)
	n.dispatcher.Subscribe(events.EventIncidentStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventIncidentAssigned, n.handleAssigned)
	n.dispatcher.Subscribe(events.EventIncidentUnassigned, n.handleUnassigned)
}

func (n *NotificationService) handleIncidentCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IncidentCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	incident, err := n.incidents.GetByID(ctx, event.IncidentID)
	if err != nil {
		return n.skipIfGone(err, event)
	}
	reporter := n.lookupUser(ctx, payload.ReporterID)
	managers, err := n.users.ListByRole(ctx, domain.RoleManager)
	if err != nil {
		return err
	}
	n.deliver(ctx, notify.NewIncident(incident, reporter, managers))
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IncidentStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	incident, err := n.incidents.GetByID(ctx, event.IncidentID)
	if err != nil {
		return n.skipIfGone(err, event)
	}
	reporter := n.lookupUser(ctx, incident.ReporterID)
	var assignee *domain.User
	if incident.AssignedToID != nil {
		assignee = n.lookupUser(ctx, *incident.AssignedToID)
	}
	n.deliver(ctx, notify.StatusChanged(incident, payload.OldStatus, payload.NewStatus, reporter, assignee, event.ActorID))
	return nil
}

func (n *NotificationService) handleAssigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IncidentAssignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	incident, err := n.incidents.GetByID(ctx, event.IncidentID)
	if err != nil {
		return n.skipIfGone(err, event)
	}
	n.deliver(ctx, notify.Assigned(incident, n.lookupUser(ctx, payload.AssigneeID)))
	return nil
}

func (n *NotificationService) handleUnassigned(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.IncidentUnassignedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload for %s", event.Type)
	}
	incident, err := n.incidents.GetByID(ctx, event.IncidentID)
	if err != nil {
		return n.skipIfGone(err, event)
	}
	n.deliver(ctx, notify.Unassigned(incident, n.lookupUser(ctx, payload.PreviousAssigneeID)))
	return nil
}

func (n *NotificationService) deliver(ctx context.Context, msgs []notify.Message) {
	for _, msg := range msgs {
		if err := n.sender.Send(ctx, msg.Recipient, msg.Subject, msg.Body); err != nil {
			n.logger.Error("notification send failed",
				zap.String("recipient", msg.Recipient),
				zap.Int64("incident_id", msg.IncidentID),
				zap.Error(err))
			continue
		}
		n.logger.Info("notification sent",
			zap.String("recipient", msg.Recipient),
			zap.Int64("incident_id", msg.IncidentID))
	}
}

func (n *NotificationService) lookupUser(ctx context.Context, id int64) *domain.User {
	user, err := n.users.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			n.logger.Warn("recipient lookup failed", zap.Int64("user_id", id), zap.Error(err))
		}
		return nil
	}
	return user
}

// skipIfGone swallows the race where an incident is deleted between event
// publication and consumption.
func (n *NotificationService) skipIfGone(err error, event events.Event) error {
	if errors.Is(err, pgx.ErrNoRows) {
		n.logger.Debug("incident gone before notification",
			zap.Int64("incident_id", event.IncidentID),
			zap.String("event_type", string(event.Type)))
		return nil
	}
	return err
}
