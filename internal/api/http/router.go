package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/incident-portal/internal/api/http/handlers"
	"github.com/spec-kit/incident-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Incidents *handlers.IncidentsHandler
	Session   *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes. Every mutating route and the incident
// board sit behind the session middleware.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/login", cfg.Auth.LoginPage)
	app.Post("/login", cfg.Auth.Login)

	protected := app.Group("", cfg.Session.Handle)
	protected.Post("/logout", cfg.Auth.Logout)
	protected.Get("/", cfg.Incidents.List)
	protected.Post("/incidents", cfg.Incidents.Create)
	protected.Post("/incidents/:id/update", cfg.Incidents.Update)
	protected.Post("/incidents/:id/delete", cfg.Incidents.Delete)
}
