package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/incident-portal/internal/domain"
	"github.com/spec-kit/incident-portal/internal/repository"
	"github.com/spec-kit/incident-portal/pkg/apperrors"
)

const actorKey = "session_actor"

// SessionMiddleware resolves the acting user from the session cookie.
type SessionMiddleware struct {
	sessions   SessionStore
	users      repository.UserRepository
	cookieName string
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(sessions SessionStore, users repository.UserRepository, cookieName string) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, users: users, cookieName: cookieName}
}

// CookieName exposes the configured cookie name for handlers that set it.
func (m *SessionMiddleware) CookieName() string {
	return m.cookieName
}

// Handle enforces an authenticated session for protected routes. Browser
// requests are redirected to the login page; API clients get 401 JSON.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(m.cookieName)
	if token == "" {
		return m.reject(c)
	}

	userID, err := m.sessions.Resolve(c.UserContext(), token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return m.reject(c)
		}
		return apperrors.MapError(err)
	}

	actor, err := m.users.GetByID(c.UserContext(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return m.reject(c)
		}
		return apperrors.MapError(err)
	}

	c.Locals(actorKey, actor)
	return c.Next()
}

func (m *SessionMiddleware) reject(c *fiber.Ctx) error {
	if strings.Contains(c.Get(fiber.HeaderAccept), "text/html") {
		return c.Redirect("/login", fiber.StatusFound)
	}
	return apperrors.NewUnauthorized("login required")
}

// ActorFromContext retrieves the authenticated user for the request.
func ActorFromContext(c *fiber.Ctx) (*domain.User, bool) {
	val := c.Locals(actorKey)
	if val == nil {
		return nil, false
	}
	actor, ok := val.(*domain.User)
	return actor, ok
}
