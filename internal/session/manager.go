// Package session tracks logged-in users across requests with server-side
// fiber sessions keyed by a cookie.
package session

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/google/uuid"

	"github.com/soltixdb/soltix-forecast/internal/config"
	"github.com/soltixdb/soltix-forecast/internal/logging"
	"github.com/soltixdb/soltix-forecast/internal/utils"
)

// Manager creates, renews and destroys login sessions
type Manager struct {
	store   *session.Store
	storage fiber.Storage // nil for fiber's in-memory default
	ttl     time.Duration
	logger  *logging.Logger
}

// NewManager builds a session store for cfg.Storage
func NewManager(cfg config.SessionConfig, logger *logging.Logger) (*Manager, error) {
	var storage fiber.Storage
	switch cfg.Storage {
	case "", config.SessionStorageMemory:
	case config.SessionStorageRedis:
		rs, err := NewRedisStorage(cfg)
		if err != nil {
			return nil, err
		}
		storage = rs
	default:
		return nil, fmt.Errorf("unsupported session storage: %s", cfg.Storage)
	}
	return NewManagerWithStorage(cfg, storage, logger), nil
}

// NewManagerWithStorage builds a session store over storage; nil means in-memory
func NewManagerWithStorage(cfg config.SessionConfig, storage fiber.Storage, logger *logging.Logger) *Manager {
	ttl := cfg.Expiration
	if ttl <= 0 {
		ttl = utils.DefaultSessionExpiration
	}
	cookie := cfg.CookieName
	if cookie == "" {
		cookie = utils.DefaultSessionCookie
	}

	store := session.New(session.Config{
		Expiration:     ttl,
		Storage:        storage,
		KeyLookup:      "cookie:" + cookie,
		CookiePath:     "/",
		CookieSecure:   cfg.CookieSecure,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
		KeyGenerator:   uuid.NewString,
	})

	return &Manager{store: store, storage: storage, ttl: ttl, logger: logger}
}

// Login starts an authenticated session for user under a fresh session id
func (m *Manager) Login(c *fiber.Ctx, user string) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if err := sess.Regenerate(); err != nil {
		return fmt.Errorf("failed to regenerate session: %w", err)
	}
	sess.Set(utils.SessionUserKey, user)
	if err := sess.Save(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// CurrentUser returns the user bound to the request's session. A found session
// is saved again so its expiry slides forward.
func (m *Manager) CurrentUser(c *fiber.Ctx) (string, bool) {
	sess, err := m.store.Get(c)
	if err != nil {
		m.logger.Warn("Failed to load session", "error", err, "path", c.Path())
		return "", false
	}
	if sess.Fresh() {
		return "", false
	}

	user, ok := sess.Get(utils.SessionUserKey).(string)
	if !ok || user == "" {
		return "", false
	}

	if err := sess.Save(); err != nil {
		m.logger.Warn("Failed to renew session", "error", err, "user", user)
	}
	return user, true
}

// Logout destroys the request's session, if any
func (m *Manager) Logout(c *fiber.Ctx) error {
	sess, err := m.store.Get(c)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}
	if sess.Fresh() {
		return nil
	}
	if err := sess.Destroy(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}

// TTL returns the idle lifetime of a session
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Close releases the backing storage
func (m *Manager) Close() error {
	if m.storage == nil {
		return nil
	}
	return m.storage.Close()
}
