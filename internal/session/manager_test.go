package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/soltix-forecast/internal/config"
	"github.com/soltixdb/soltix-forecast/internal/logging"
)

func setupSessionApp(t *testing.T, cfg config.SessionConfig) (*fiber.App, *Manager) {
	t.Helper()

	m, err := NewManager(cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Close() })

	app := fiber.New()
	app.Post("/login/:user", func(c *fiber.Ctx) error {
		if err := m.Login(c, c.Params("user")); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		user, ok := m.CurrentUser(c)
		if !ok {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.SendString(user)
	})
	app.Post("/logout", func(c *fiber.Ctx) error {
		if err := m.Logout(c); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app, m
}

// sessionCookie returns the named cookie set by resp
func sessionCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func doRequest(t *testing.T, app *fiber.App, method, path string, cookie *http.Cookie) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestManager_LoginLogout(t *testing.T) {
	app, _ := setupSessionApp(t, config.SessionConfig{Expiration: time.Minute})

	resp := doRequest(t, app, fiber.MethodGet, "/whoami", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Empty(t, resp.Cookies(), "anonymous requests must not create sessions")

	resp = doRequest(t, app, fiber.MethodPost, "/login/admin", nil)
	require.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	cookie := sessionCookie(t, resp, "forecast_session")
	assert.True(t, cookie.HttpOnly)
	assert.Len(t, cookie.Value, 36)

	resp = doRequest(t, app, fiber.MethodGet, "/whoami", cookie)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, fiber.MethodPost, "/logout", cookie)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, fiber.MethodGet, "/whoami", cookie)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestManager_LoginRegeneratesID(t *testing.T) {
	app, _ := setupSessionApp(t, config.SessionConfig{Expiration: time.Minute})

	resp := doRequest(t, app, fiber.MethodPost, "/login/admin", nil)
	first := sessionCookie(t, resp, "forecast_session")

	resp = doRequest(t, app, fiber.MethodPost, "/login/analyst", first)
	second := sessionCookie(t, resp, "forecast_session")
	assert.NotEqual(t, first.Value, second.Value)

	resp = doRequest(t, app, fiber.MethodGet, "/whoami", first)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestManager_Expiry(t *testing.T) {
	app, _ := setupSessionApp(t, config.SessionConfig{Expiration: time.Second})

	resp := doRequest(t, app, fiber.MethodPost, "/login/admin", nil)
	cookie := sessionCookie(t, resp, "forecast_session")

	time.Sleep(2500 * time.Millisecond)

	resp = doRequest(t, app, fiber.MethodGet, "/whoami", cookie)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestManager_SlidingRenewal(t *testing.T) {
	app, _ := setupSessionApp(t, config.SessionConfig{Expiration: time.Minute, CookieName: "sid"})

	resp := doRequest(t, app, fiber.MethodPost, "/login/admin", nil)
	cookie := sessionCookie(t, resp, "sid")

	resp = doRequest(t, app, fiber.MethodGet, "/whoami", cookie)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	renewed := sessionCookie(t, resp, "sid")
	assert.Equal(t, cookie.Value, renewed.Value)
	assert.False(t, renewed.Expires.Before(cookie.Expires))
}

func TestManager_LogoutWithoutSession(t *testing.T) {
	app, _ := setupSessionApp(t, config.SessionConfig{})

	resp := doRequest(t, app, fiber.MethodPost, "/logout", nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}

func TestNewManager_Defaults(t *testing.T) {
	m, err := NewManager(config.SessionConfig{}, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, m.TTL())
	assert.NoError(t, m.Close())
}

func TestNewManager_UnsupportedStorage(t *testing.T) {
	_, err := NewManager(config.SessionConfig{Storage: "memcached"}, logging.NewNop())
	assert.Error(t, err)
}
