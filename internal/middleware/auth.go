package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/soltix-forecast/internal/auth"
	"github.com/soltixdb/soltix-forecast/internal/logging"
	"github.com/soltixdb/soltix-forecast/internal/models"
	"github.com/soltixdb/soltix-forecast/internal/session"
)

// LocalsUser is the fiber.Locals key holding the authenticated username
const LocalsUser = "user"

// Authenticator resolves the caller of a request from its session cookie,
// bearer token or API key.
type Authenticator struct {
	enabled     bool
	sessions    *session.Manager
	credentials auth.CredentialChecker
	logger      *logging.Logger
}

// NewAuthenticator creates an Authenticator. When enabled is false every
// request passes.
func NewAuthenticator(enabled bool, sessions *session.Manager, credentials auth.CredentialChecker, logger *logging.Logger) *Authenticator {
	return &Authenticator{
		enabled:     enabled,
		sessions:    sessions,
		credentials: credentials,
		logger:      logger,
	}
}

// Enabled reports whether requests must carry an identity
func (a *Authenticator) Enabled() bool {
	return a.enabled
}

// Identify returns the caller of c. Session cookies are checked first, then
// X-API-Key, then Authorization.
func (a *Authenticator) Identify(c *fiber.Ctx) (string, bool) {
	if a.sessions != nil {
		if user, ok := a.sessions.CurrentUser(c); ok {
			return user, true
		}
	}
	if key := c.Get("X-API-Key"); key != "" {
		if user, ok := a.credentials.Identify(key); ok {
			return user, true
		}
	}
	return a.credentials.Identify(c.Get(fiber.HeaderAuthorization))
}

// RequireAuth rejects requests without an identity with 401 {"error":"Unauthorized"}
func (a *Authenticator) RequireAuth() fiber.Handler {
	if !a.enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	return func(c *fiber.Ctx) error {
		user, ok := a.Identify(c)
		if !ok {
			a.logger.Warn("Unauthenticated request",
				"path", c.Path(),
				"method", c.Method(),
				"ip", c.IP(),
				"request_id", logging.RequestID(c.UserContext()))
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
				Error: "Unauthorized",
			})
		}

		c.Locals(LocalsUser, user)
		c.SetUserContext(logging.WithUser(c.UserContext(), user))
		return c.Next()
	}
}

// CurrentUser returns the username RequireAuth stored for c
func CurrentUser(c *fiber.Ctx) string {
	user, _ := c.Locals(LocalsUser).(string)
	return user
}
