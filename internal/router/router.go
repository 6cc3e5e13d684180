package router

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/soltixdb/soltix-forecast/internal/auth"
	"github.com/soltixdb/soltix-forecast/internal/config"
	"github.com/soltixdb/soltix-forecast/internal/handlers"
	"github.com/soltixdb/soltix-forecast/internal/logging"
	"github.com/soltixdb/soltix-forecast/internal/middleware"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, opts handlers.Options, cfg config.Config) *handlers.Handler {
	if opts.Authenticator == nil {
		opts.Authenticator = middleware.NewAuthenticator(false, nil, auth.CredentialChecker{}, opts.Logger)
	}
	h := handlers.New(opts)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.AllowOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(opts.Logger, logging.DefaultMiddlewareConfig()))

	// Public routes
	app.Get("/health", h.Health)
	app.Get("/v1/methods", h.Methods)

	// Pages and login
	app.Get("/", h.Index)
	app.Get("/login", h.LoginForm)
	app.Post("/login", h.Login)
	app.Get("/logout", h.Logout)
	app.Post("/logout", h.Logout)
	if h.TokensEnabled() {
		app.Post("/v1/auth/token", h.IssueToken)
	}

	// Forecast routes (login gate when auth is enabled)
	requireAuth := opts.Authenticator.RequireAuth()
	app.Post("/forecast", requireAuth, h.Forecast)
	app.Post("/v1/forecast", requireAuth, h.Forecast)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(opts handlers.Options, cfg config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Soltix Forecast",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(opts.Logger),
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	Setup(app, opts, cfg)

	return app
}
