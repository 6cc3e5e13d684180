package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soltixdb/soltix-forecast/internal/auth"
	"github.com/soltixdb/soltix-forecast/internal/config"
	forecastgrpc "github.com/soltixdb/soltix-forecast/internal/grpc"
	"github.com/soltixdb/soltix-forecast/internal/handlers"
	"github.com/soltixdb/soltix-forecast/internal/logging"
	"github.com/soltixdb/soltix-forecast/internal/middleware"
	"github.com/soltixdb/soltix-forecast/internal/queue"
	"github.com/soltixdb/soltix-forecast/internal/router"
	"github.com/soltixdb/soltix-forecast/internal/services"
	"github.com/soltixdb/soltix-forecast/internal/session"
	"github.com/soltixdb/soltix-forecast/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Forecast service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)
	if Version != "dev" {
		handlers.Version = Version
	}

	// Connect to the event queue when enabled
	var publisher queue.Publisher
	if cfg.Events.Enabled {
		logger.Info("Connecting to Queue", "type", cfg.Events.Type, "url", cfg.Events.URL)
		publisher, err = queue.NewPublisher(cfg.Events)
		if err != nil {
			logger.Fatal("Failed to connect to Queue", "error", err)
		}
		defer func() { _ = publisher.Close() }()
		logger.Info("Queue connection established", "subject", cfg.Events.Subject)
	}

	forecastService := services.NewForecastService(logger, publisher, cfg.Events.Subject)
	opts := handlers.Options{
		Logger:          logger,
		ForecastService: forecastService,
	}

	var credentials auth.CredentialChecker
	if cfg.Auth.Enabled {
		verifier, closeVerifier, err := auth.NewVerifier(cfg.Auth, cfg.Etcd, logger)
		if err != nil {
			logger.Fatal("Failed to initialize credential store", "error", err)
		}
		defer func() { _ = closeVerifier() }()

		sessions, err := session.NewManager(cfg.Auth.Session, logger)
		if err != nil {
			logger.Fatal("Failed to initialize sessions", "error", err)
		}
		defer func() { _ = sessions.Close() }()

		credentials = auth.CredentialChecker{
			Tokens:  auth.NewTokenManager(cfg.Auth.JWT),
			APIKeys: auth.NewAPIKeySet(cfg.Auth.APIKeys, logger),
		}

		opts.Verifier = verifier
		opts.Sessions = sessions
		opts.Tokens = credentials.Tokens
		opts.Authenticator = middleware.NewAuthenticator(true, sessions, credentials, logger)
		logger.Info("Login gate enabled", "mode", cfg.Auth.String())
	} else {
		logger.Warn("Login gate DISABLED - all forecast requests will be allowed")
	}

	// Initialize router
	app := router.New(opts, *cfg)

	// Create context for background services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var grpcDone chan struct{}
	if cfg.Server.GRPCEnabled {
		grpcServer := forecastgrpc.NewForecastServer(forecastgrpc.ServerOptions{
			Address:     cfg.GetGRPCAddress(),
			Logger:      logger,
			Service:     forecastService,
			AuthEnabled: cfg.Auth.Enabled,
			Credentials: credentials,
		})
		grpcDone = make(chan struct{})
		go func() {
			defer close(grpcDone)
			if err := grpcServer.Start(ctx); err != nil {
				logger.Fatal("Failed to start gRPC server", "error", err)
			}
		}()
	}

	// Start server in goroutine
	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	cancel()
	if grpcDone != nil {
		select {
		case <-grpcDone:
		case <-shutdownCtx.Done():
			logger.Warn("gRPC server did not stop in time")
		}
	}

	logger.Info("Server exited")
}
