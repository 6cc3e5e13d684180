package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/soltixdb/soltix-forecast/internal/analytics/forecast"
	"github.com/soltixdb/soltix-forecast/internal/utils"
)

// ForecastRequest is a structurally valid forecast request
type ForecastRequest struct {
	Data   []float64
	Method string
	Params forecast.Params
	User   string // Authenticated caller, empty when the gate is off
}

// ParseForecastPayload validates the request envelope and coerces its values.
//
// Checks run in this order: presence of data, method and params; method lookup;
// presence of the method's parameter; value coercion. Presence and unknown-method
// failures are client errors, coercion failures are internal errors.
func ParseForecastPayload(payload map[string]interface{}) (*ForecastRequest, error) {
	if payload == nil {
		return nil, ErrInvalidBody(errors.New("request body is not a JSON object"))
	}

	rawData := payload["data"]
	rawMethod := payload["method"]
	rawParams := payload["params"]

	if !truthy(rawData) || !truthy(rawMethod) || !truthy(rawParams) {
		return nil, ErrMissingFields()
	}

	method, _ := rawMethod.(string)
	forecaster, err := forecast.GetForecaster(method)
	if err != nil {
		return nil, ErrUnknownMethod(rawMethod, forecast.ListForecasters())
	}

	params, ok := rawParams.(map[string]interface{})
	if !ok {
		return nil, ErrInvalidType(fmt.Errorf("params must be an object, got %T", rawParams))
	}

	paramName := forecaster.RequiredParam()
	rawParam, present := params[paramName]
	if !present || rawParam == nil {
		return nil, ErrMissingParameter(paramName, strings.ToUpper(method))
	}

	req := &ForecastRequest{Method: method}
	switch paramName {
	case "window":
		window, err := utils.ParseInt(rawParam)
		if err != nil {
			return nil, ErrInvalidType(fmt.Errorf("window: %w", err))
		}
		req.Params.Window = window
	case "alpha":
		alpha, err := utils.ParseFloat(rawParam)
		if err != nil {
			return nil, ErrInvalidType(fmt.Errorf("alpha: %w", err))
		}
		req.Params.Alpha = alpha
	default:
		return nil, ErrInternal(fmt.Errorf("no coercion for parameter %q", paramName))
	}

	values, ok := rawData.([]interface{})
	if !ok {
		return nil, ErrInvalidType(fmt.Errorf("data must be a list, got %T", rawData))
	}
	data, err := utils.ToFloat64Slice(values)
	if err != nil {
		return nil, ErrInvalidType(fmt.Errorf("data: %w", err))
	}
	req.Data = data

	return req, nil
}

// truthy reports whether a decoded JSON value is present and non-empty
func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case []interface{}:
		return len(val) > 0
	case map[string]interface{}:
		return len(val) > 0
	default:
		if f, ok := utils.ToFloat64(v); ok {
			return f != 0
		}
		return true
	}
}
