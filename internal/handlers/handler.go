package handlers

import (
	"github.com/soltixdb/soltix-forecast/internal/auth"
	"github.com/soltixdb/soltix-forecast/internal/logging"
	"github.com/soltixdb/soltix-forecast/internal/middleware"
	"github.com/soltixdb/soltix-forecast/internal/services"
	"github.com/soltixdb/soltix-forecast/internal/session"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// Options carries the collaborators of a Handler. Sessions, Verifier and Tokens
// are nil when the login gate is off.
type Options struct {
	Logger          *logging.Logger
	ForecastService *services.ForecastService
	Authenticator   *middleware.Authenticator
	Sessions        *session.Manager
	Verifier        auth.Verifier
	Tokens          *auth.TokenManager
}

// Handler contains all HTTP handlers
type Handler struct {
	logger          *logging.Logger
	forecastService *services.ForecastService
	authenticator   *middleware.Authenticator
	sessions        *session.Manager
	verifier        auth.Verifier
	tokens          *auth.TokenManager
	pages           *pageRenderer
}

// New creates a new handler instance
func New(opts Options) *Handler {
	return &Handler{
		logger:          opts.Logger,
		forecastService: opts.ForecastService,
		authenticator:   opts.Authenticator,
		sessions:        opts.Sessions,
		verifier:        opts.Verifier,
		tokens:          opts.Tokens,
		pages:           newPageRenderer(),
	}
}

// AuthEnabled reports whether the login gate is on
func (h *Handler) AuthEnabled() bool {
	return h.authenticator != nil && h.authenticator.Enabled()
}

// TokensEnabled reports whether /v1/auth/token can issue tokens
func (h *Handler) TokensEnabled() bool {
	return h.AuthEnabled() && h.tokens != nil && h.verifier != nil
}
