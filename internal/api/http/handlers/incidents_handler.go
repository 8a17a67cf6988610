package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-portal/internal/api/dto"
	"github.com/spec-kit/incident-portal/internal/auth"
	"github.com/spec-kit/incident-portal/internal/domain"
	"github.com/spec-kit/incident-portal/internal/service"
	"github.com/spec-kit/incident-portal/pkg/apperrors"
)

// IncidentsHandler manages the incident endpoints.
type IncidentsHandler struct {
	service *service.IncidentService
}

// NewIncidentsHandler constructs handler.
func NewIncidentsHandler(incidentService *service.IncidentService) *IncidentsHandler {
	return &IncidentsHandler{service: incidentService}
}

// List GET /. Returns all incidents newest first plus the user directory.
func (h *IncidentsHandler) List(c *fiber.Ctx) error {
	incidents, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	users, err := h.service.ListUsers(c.UserContext())
	if err != nil {
		return err
	}

	resp := dto.IncidentListResponse{
		Incidents: make([]dto.IncidentResponse, 0, len(incidents)),
		Users:     make([]dto.UserResponse, 0, len(users)),
	}
	for i := range incidents {
		resp.Incidents = append(resp.Incidents, incidentResponse(&incidents[i]))
	}
	for _, u := range users {
		resp.Users = append(resp.Users, dto.UserResponse{ID: u.ID, Username: u.Username, Role: u.Role})
	}
	return c.JSON(fiber.Map{"data": resp})
}

// Create POST /incidents.
func (h *IncidentsHandler) Create(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	var req dto.CreateIncidentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	incident, err := h.service.Create(c.UserContext(), actor, service.IncidentCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    domain.IncidentPriority(req.Priority),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": incidentResponse(incident)})
}

// Update POST /incidents/:id/update.
func (h *IncidentsHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	incidentID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	var req dto.UpdateIncidentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	result, err := h.service.Update(c.UserContext(), actor, incidentID, service.IncidentUpdateInput{
		Status:     req.Status,
		AssignedTo: req.AssignedTo,
	})
	if err != nil {
		return err
	}

	resp := fiber.Map{"data": incidentResponse(result.Incident)}
	if result.AssignmentDenied {
		resp["warning"] = "permission denied: you can only self-assign or unassign"
	}
	return c.JSON(resp)
}

// Delete POST /incidents/:id/delete.
func (h *IncidentsHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.ActorFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("login required")
	}
	incidentID, err := parseID(c.Params("id"))
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, incidentID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "incident deleted"})
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid incident id", map[string]any{"id": raw})
	}
	return id, nil
}

func incidentResponse(incident *domain.Incident) dto.IncidentResponse {
	return dto.IncidentResponse{
		ID:           incident.ID,
		Title:        incident.Title,
		Description:  incident.Description,
		Status:       incident.Status,
		Priority:     incident.Priority,
		ReporterID:   incident.ReporterID,
		AssignedToID: incident.AssignedToID,
		CreatedAt:    incident.CreatedAt,
	}
}
