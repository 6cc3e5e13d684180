package services

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/soltixdb/soltix-forecast/internal/analytics/forecast"
)

// ForecastEvent is published after every forecast the service answers
type ForecastEvent struct {
	ID         string    `json:"id"`
	Method     string    `json:"method"`
	Window     *int      `json:"window,omitempty"`
	Alpha      *float64  `json:"alpha,omitempty"`
	DataPoints int       `json:"data_points"`
	Forecast   []float64 `json:"forecast"`
	Rejected   bool      `json:"rejected"`
	User       string    `json:"user,omitempty"`
	RequestID  string    `json:"request_id,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// NewForecastEvent builds the event for a completed request
func NewForecastEvent(req *ForecastRequest, values []float64, rejected bool) *ForecastEvent {
	event := &ForecastEvent{
		ID:         uuid.NewString(),
		Method:     req.Method,
		DataPoints: len(req.Data),
		Forecast:   values,
		Rejected:   rejected,
		User:       req.User,
		Timestamp:  time.Now().UTC(),
	}

	forecaster, err := forecast.GetForecaster(req.Method)
	if err != nil {
		return event
	}
	switch forecaster.RequiredParam() {
	case "window":
		window := req.Params.Window
		event.Window = &window
	case "alpha":
		alpha := req.Params.Alpha
		event.Alpha = &alpha
	}
	return event
}

// Marshal encodes the event as JSON
func (e *ForecastEvent) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeForecastEvent decodes an event published by the service
func DecodeForecastEvent(data []byte) (*ForecastEvent, error) {
	var event ForecastEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
