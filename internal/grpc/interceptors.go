package grpc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/soltixdb/soltix-forecast/internal/auth"
	"github.com/soltixdb/soltix-forecast/internal/logging"
	"github.com/soltixdb/soltix-forecast/internal/services"
)

// Metadata keys read by the interceptors
const (
	metadataRequestID     = "x-request-id"
	metadataAuthorization = "authorization"
	metadataAPIKey        = "x-api-key"
)

// requestInterceptor tags each call with a request id, recovers panics and
// logs the outcome
func requestInterceptor(logger *logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
		start := time.Now()

		requestID := firstValue(ctx, metadataRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx = logging.WithRequestID(ctx, requestID)
		ctx = logging.WithLogger(ctx, logger)
		_ = grpc.SetHeader(ctx, metadata.Pairs(metadataRequestID, requestID))

		defer func() {
			if r := recover(); r != nil {
				logger.Error("RPC panic recovered",
					"method", info.FullMethod,
					"request_id", requestID,
					"panic", fmt.Sprint(r))
				resp = nil
				err = status.Error(codes.Internal, services.MessageInternal)
			}

			if isInfraMethod(info.FullMethod) {
				return
			}

			code := status.Code(err)
			fields := []interface{}{
				"method", info.FullMethod,
				"code", code.String(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", requestID,
			}

			switch code {
			case codes.OK:
				logger.Info("RPC completed", fields...)
			case codes.Internal, codes.Unknown:
				logger.Error("RPC failed", fields...)
			default:
				logger.Warn("RPC rejected", fields...)
			}
		}()

		return handler(ctx, req)
	}
}

// authInterceptor requires a bearer token or API key on forecast calls.
// Health and reflection stay open.
func authInterceptor(checker auth.CredentialChecker, logger *logging.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if isInfraMethod(info.FullMethod) {
			return handler(ctx, req)
		}

		for _, key := range []string{metadataAPIKey, metadataAuthorization} {
			value := firstValue(ctx, key)
			if value == "" {
				continue
			}
			if user, ok := checker.Identify(value); ok {
				return handler(logging.WithUser(ctx, user), req)
			}
		}

		logger.Debug("Unauthenticated RPC",
			"method", info.FullMethod,
			"request_id", logging.RequestID(ctx))
		return nil, status.Error(codes.Unauthenticated, "Unauthorized")
	}
}

func isInfraMethod(fullMethod string) bool {
	return strings.HasPrefix(fullMethod, "/grpc.health.v1.Health/") ||
		strings.HasPrefix(fullMethod, "/grpc.reflection.")
}

func firstValue(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
