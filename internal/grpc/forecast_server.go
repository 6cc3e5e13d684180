package grpc

import (
	"context"
	"fmt"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/soltixdb/soltix-forecast/internal/auth"
	"github.com/soltixdb/soltix-forecast/internal/logging"
	"github.com/soltixdb/soltix-forecast/internal/services"
	"github.com/soltixdb/soltix-forecast/internal/utils"
)

// ServerOptions configures a ForecastServer
type ServerOptions struct {
	Address     string
	Logger      *logging.Logger
	Service     *services.ForecastService
	AuthEnabled bool
	Credentials auth.CredentialChecker
}

// ForecastServer represents the forecast gRPC server
type ForecastServer struct {
	address    string
	grpcServer *grpc.Server
	health     *health.Server
	logger     *logging.Logger

	// Service handlers
	forecastHandler *ForecastHandler
}

// NewForecastServer creates a new forecast gRPC server instance
func NewForecastServer(opts ServerOptions) *ForecastServer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Global()
	}

	interceptors := []grpc.UnaryServerInterceptor{requestInterceptor(logger)}
	if opts.AuthEnabled {
		interceptors = append(interceptors, authInterceptor(opts.Credentials, logger))
	}

	grpcServer := grpc.NewServer(
		grpc.MaxRecvMsgSize(utils.GRPCMaxMessageSize),
		grpc.MaxSendMsgSize(utils.GRPCMaxMessageSize),
		grpc.ChainUnaryInterceptor(interceptors...),
	)

	forecastHandler := NewForecastHandler(logger, opts.Service)
	RegisterForecastServiceServer(grpcServer, forecastHandler)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	// Register reflection service (for debugging with grpcurl)
	reflection.Register(grpcServer)

	logger.Info("Registered ForecastService with gRPC server", "auth_enabled", opts.AuthEnabled)

	return &ForecastServer{
		address:         opts.Address,
		grpcServer:      grpcServer,
		health:          healthServer,
		logger:          logger,
		forecastHandler: forecastHandler,
	}
}

// Start listens on the configured address and serves until ctx is cancelled
func (s *ForecastServer) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}

	s.logger.Info("gRPC server starting", "address", s.address)

	// Start serving in a goroutine
	go func() {
		if err := s.Serve(listener); err != nil {
			s.logger.Error("gRPC server error", "error", err)
		}
	}()

	// Wait for context cancellation
	<-ctx.Done()
	s.logger.Info("Shutting down gRPC server")
	s.Stop()

	return nil
}

// Serve accepts connections on lis until Stop is called
func (s *ForecastServer) Serve(lis net.Listener) error {
	return s.grpcServer.Serve(lis)
}

// Stop marks the service as not serving and stops the server gracefully
func (s *ForecastServer) Stop() {
	s.logger.Info("Stopping gRPC server")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
