package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/soltixdb/soltix-forecast/internal/analytics/forecast"
	"github.com/soltixdb/soltix-forecast/internal/logging"
	"github.com/soltixdb/soltix-forecast/internal/queue"
	"github.com/soltixdb/soltix-forecast/internal/utils"
)

// ForecastService handles forecasting business logic
type ForecastService struct {
	logger    *logging.Logger
	publisher queue.Publisher
	subject   string
}

// NewForecastService creates a new ForecastService.
// A nil publisher disables forecast events.
func NewForecastService(logger *logging.Logger, publisher queue.Publisher, subject string) *ForecastService {
	if subject == "" {
		subject = utils.DefaultEventSubject
	}
	return &ForecastService{
		logger:    logger,
		publisher: publisher,
		subject:   subject,
	}
}

// ForecastResponse is the outcome of a forecast request
type ForecastResponse struct {
	Forecast []float64        `json:"forecast"`
	Result   *forecast.Result `json:"-"` // Nil when the engine declined the input
}

// Rejected reports whether the engine declined the input
func (r *ForecastResponse) Rejected() bool {
	return r.Result == nil
}

// Execute runs the requested method. Input the engine declines yields an empty
// forecast, not an error.
func (s *ForecastService) Execute(ctx context.Context, req *ForecastRequest) (resp *ForecastResponse, err error) {
	startExec := time.Now()
	logger := s.logger.WithContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = ErrInternal(fmt.Errorf("forecast panic: %v", r))
		}
	}()

	forecaster, err := forecast.GetForecaster(req.Method)
	if err != nil {
		return nil, ErrUnknownMethod(req.Method, forecast.ListForecasters())
	}

	resp = &ForecastResponse{Forecast: []float64{}}
	result, err := forecaster.Forecast(req.Data, req.Params)
	switch {
	case errors.Is(err, forecast.ErrInvalidInput):
		logger.Debug("Forecast input declined",
			"method", req.Method,
			"data_points", len(req.Data),
			"reason", err)
	case err != nil:
		return nil, ErrInternal(err)
	default:
		resp.Forecast = result.Forecast
		resp.Result = result
	}

	s.publish(ctx, logger, req, resp)

	logger.Info("Forecast completed",
		"method", req.Method,
		"data_points", len(req.Data),
		"rejected", resp.Rejected(),
		"latency_ms", time.Since(startExec).Milliseconds())

	return resp, nil
}

// publish sends the forecast event. Failures are logged and never reach the caller.
func (s *ForecastService) publish(ctx context.Context, logger *logging.Logger, req *ForecastRequest, resp *ForecastResponse) {
	if s.publisher == nil {
		return
	}

	event := NewForecastEvent(req, resp.Forecast, resp.Rejected())
	event.RequestID = logging.RequestID(ctx)
	if event.User == "" {
		event.User = logging.User(ctx)
	}
	data, err := event.Marshal()
	if err != nil {
		logger.Warn("Failed to encode forecast event", "error", err)
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), utils.EventPublishTimeout)
	defer cancel()

	if err := s.publisher.Publish(pubCtx, s.subject, data); err != nil {
		logger.Warn("Failed to publish forecast event",
			"subject", s.subject,
			"event_id", event.ID,
			"error", err)
		return
	}
	logger.Debug("Forecast event published", "subject", s.subject, "event_id", event.ID)
}
