package grpc

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/soltixdb/soltix-forecast/internal/logging"
	"github.com/soltixdb/soltix-forecast/internal/services"
)

// ForecastHandler serves the Forecast RPC on top of the shared forecast service
type ForecastHandler struct {
	logger  *logging.Logger
	service *services.ForecastService
}

// NewForecastHandler creates a new ForecastHandler
func NewForecastHandler(logger *logging.Logger, service *services.ForecastService) *ForecastHandler {
	return &ForecastHandler{
		logger:  logger,
		service: service,
	}
}

// Forecast validates the request envelope and runs the requested method
func (h *ForecastHandler) Forecast(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, h.toStatus(ctx, services.ErrMissingFields())
	}

	parsed, err := services.ParseForecastPayload(req.AsMap())
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	parsed.User = logging.User(ctx)

	resp, err := h.service.Execute(ctx, parsed)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}

	values := make([]interface{}, len(resp.Forecast))
	for i, v := range resp.Forecast {
		values[i] = v
	}
	out, err := structpb.NewStruct(map[string]interface{}{"forecast": values})
	if err != nil {
		return nil, h.toStatus(ctx, services.ErrInternal(err))
	}
	return out, nil
}

// toStatus maps a service error onto a gRPC status. Internal causes are logged
// and replaced with the generic message.
func (h *ForecastHandler) toStatus(ctx context.Context, err error) error {
	logger := h.logger.WithContext(ctx)

	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		logger.Error("Forecast RPC failed", "error", err)
		return status.Error(codes.Internal, services.MessageInternal)
	}

	switch {
	case svcErr.Internal():
		logger.Error("Forecast RPC failed",
			"code", svcErr.Code,
			"error", svcErr.Err)
		return status.Error(codes.Internal, services.MessageInternal)
	case svcErr.Status == http.StatusUnauthorized:
		return status.Error(codes.Unauthenticated, svcErr.Message)
	default:
		logger.Debug("Forecast RPC rejected",
			"code", svcErr.Code,
			"message", svcErr.Message)
		return status.Error(codes.InvalidArgument, svcErr.Message)
	}
}
