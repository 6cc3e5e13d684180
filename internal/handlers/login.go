package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/soltixdb/soltix-forecast/internal/models"
	"github.com/soltixdb/soltix-forecast/internal/services"
	"github.com/soltixdb/soltix-forecast/internal/utils"
)

const (
	msgInvalidCredentials = "Invalid username or password"
	msgMissingCredentials = "Username and password are required"
	msgLoginUnavailable   = "Sign in is temporarily unavailable"
)

// Index serves the forecasting page, sending anonymous visitors to the login form
// GET /
func (h *Handler) Index(c *fiber.Ctx) error {
	user := ""
	if h.AuthEnabled() {
		var ok bool
		if user, ok = h.authenticator.Identify(c); !ok {
			return c.Redirect("/login")
		}
	}
	return h.pages.render(c, fiber.StatusOK, "index.html", pageData{User: user, AuthEnabled: h.AuthEnabled()})
}

// LoginForm renders the login form
// GET /login
func (h *Handler) LoginForm(c *fiber.Ctx) error {
	if !h.AuthEnabled() {
		return c.Redirect("/")
	}
	if _, ok := h.sessions.CurrentUser(c); ok {
		return c.Redirect("/")
	}
	return h.pages.render(c, fiber.StatusOK, "login.html", pageData{})
}

// Login verifies the submitted credentials and starts a session
// POST /login
func (h *Handler) Login(c *fiber.Ctx) error {
	if !h.AuthEnabled() {
		return c.Redirect("/", fiber.StatusSeeOther)
	}

	var form models.LoginRequest
	if err := c.BodyParser(&form); err != nil {
		return h.loginFailed(c, fiber.StatusBadRequest, msgMissingCredentials, "")
	}
	form.Username = strings.TrimSpace(form.Username)
	if form.Username == "" || form.Password == "" {
		return h.loginFailed(c, fiber.StatusBadRequest, msgMissingCredentials, form.Username)
	}

	ok, err := h.verify(c, form.Username, form.Password)
	if err != nil {
		h.logger.Error("Credential check failed", "error", err, "username", form.Username)
		return h.loginFailed(c, fiber.StatusInternalServerError, msgLoginUnavailable, form.Username)
	}
	if !ok {
		h.logger.Warn("Login rejected", "username", form.Username, "ip", c.IP())
		return h.loginFailed(c, fiber.StatusUnauthorized, msgInvalidCredentials, form.Username)
	}

	if err := h.sessions.Login(c, form.Username); err != nil {
		return services.ErrInternal(err)
	}
	h.logger.Info("User logged in", "username", form.Username, "ip", c.IP())

	if c.Is("json") {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

// Logout ends the session
// GET|POST /logout
func (h *Handler) Logout(c *fiber.Ctx) error {
	if h.sessions != nil {
		if err := h.sessions.Logout(c); err != nil {
			return services.ErrInternal(err)
		}
	}
	return c.Redirect("/login", fiber.StatusSeeOther)
}

// IssueToken exchanges credentials for a bearer token
// POST /v1/auth/token
func (h *Handler) IssueToken(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil || req.Username == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, msgMissingCredentials)
	}

	ok, err := h.verify(c, req.Username, req.Password)
	if err != nil {
		return services.ErrInternal(err)
	}
	if !ok {
		h.logger.Warn("Token request rejected", "username", req.Username, "ip", c.IP())
		return fiber.NewError(fiber.StatusUnauthorized, msgInvalidCredentials)
	}

	token, expiresAt, err := h.tokens.Issue(req.Username)
	if err != nil {
		return services.ErrInternal(err)
	}

	return c.JSON(models.TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}

// verify checks credentials with a bounded wait on the credential store
func (h *Handler) verify(c *fiber.Ctx, username, password string) (bool, error) {
	ctx, cancel := context.WithTimeout(c.UserContext(), utils.CredentialLookupTimeout)
	defer cancel()
	return h.verifier.Verify(ctx, username, password)
}

// loginFailed answers a failed login as JSON or by re-rendering the form
func (h *Handler) loginFailed(c *fiber.Ctx, status int, message, username string) error {
	if c.Is("json") {
		return c.Status(status).JSON(models.ErrorResponse{Error: message})
	}
	return h.pages.render(c, status, "login.html", pageData{Error: message, Username: username})
}
