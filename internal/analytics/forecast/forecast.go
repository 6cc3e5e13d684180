// Package forecast implements the univariate forecasting methods served by the
// forecast endpoints. Every method projects exactly Horizon future periods from a
// flat sequence of observations.
package forecast

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Horizon is the number of future periods every forecaster produces
const Horizon = 4

// ErrInvalidInput marks a request the engine declines to forecast.
// Callers translate it into an empty forecast rather than a failure.
var ErrInvalidInput = errors.New("invalid forecast input")

// InvalidInputError describes why a forecaster declined its input
type InvalidInputError struct {
	Method string
	Param  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Param == "" {
		return fmt.Sprintf("%s: %s", e.Method, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", e.Method, e.Param, e.Reason)
}

// Is reports whether target is ErrInvalidInput
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Params holds the caller-supplied method parameters
type Params struct {
	Window int     // Number of trailing periods averaged by sma
	Alpha  float64 // Smoothing factor for es, in [0, 1]
}

// ModelInfo contains metadata about the fitted model
type ModelInfo struct {
	Algorithm  string                 `json:"algorithm"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	MAPE       float64                `json:"mape"` // Mean Absolute Percentage Error
	MAE        float64                `json:"mae"`  // Mean Absolute Error
	RMSE       float64                `json:"rmse"` // Root Mean Squared Error
	DataPoints int                    `json:"data_points"`
}

// Result is the outcome of a successful forecast
type Result struct {
	Forecast  []float64 `json:"forecast"`
	Fitted    []float64 `json:"fitted,omitempty"` // In-sample one-step-ahead values
	ModelInfo ModelInfo `json:"model_info"`
}

// Forecaster is implemented by every forecasting method
type Forecaster interface {
	// Name returns the method tag used in requests
	Name() string
	// Description returns a short human readable summary
	Description() string
	// RequiredParam names the parameter the method cannot run without
	RequiredParam() string
	// Forecast projects Horizon values or returns an *InvalidInputError
	Forecast(data []float64, params Params) (*Result, error)
}

var (
	registryMu         sync.RWMutex
	forecasterRegistry = make(map[string]Forecaster)
)

// RegisterForecaster adds a forecaster to the registry
func RegisterForecaster(name string, forecaster Forecaster) {
	registryMu.Lock()
	defer registryMu.Unlock()
	forecasterRegistry[name] = forecaster
}

// UnregisterForecaster removes a forecaster from the registry
func UnregisterForecaster(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(forecasterRegistry, name)
}

// GetForecaster returns a forecaster by name
func GetForecaster(name string) (Forecaster, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	if forecaster, ok := forecasterRegistry[name]; ok {
		return forecaster, nil
	}
	return nil, fmt.Errorf("unknown forecaster: %s", name)
}

// ListForecasters returns the sorted names of all registered forecasters
func ListForecasters() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(forecasterRegistry))
	for name := range forecasterRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// checkFinite rejects sequences carrying NaN or infinities
func checkFinite(method string, data []float64) error {
	for _, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &InvalidInputError{Method: method, Param: "data", Reason: "must contain only finite numbers"}
		}
	}
	return nil
}

// CalculateMAPE calculates Mean Absolute Percentage Error, skipping zero actuals
func CalculateMAPE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}

	sum := 0.0
	count := 0
	for i := range actual {
		if actual[i] != 0 {
			sum += math.Abs((actual[i] - predicted[i]) / actual[i])
			count++
		}
	}

	if count == 0 {
		return 0
	}
	return (sum / float64(count)) * 100
}

// CalculateMAE calculates Mean Absolute Error
func CalculateMAE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}
	return floats.Distance(actual, predicted, 1) / float64(len(actual))
}

// CalculateRMSE calculates Root Mean Squared Error
func CalculateRMSE(actual, predicted []float64) float64 {
	if len(actual) != len(predicted) || len(actual) == 0 {
		return 0
	}
	d := floats.Distance(actual, predicted, 2)
	return math.Sqrt(d * d / float64(len(actual)))
}

// mean returns the arithmetic mean of values
func mean(values []float64) float64 {
	return stat.Mean(values, nil)
}

// modelInfo builds the diagnostics block shared by all forecasters
func modelInfo(algorithm string, params map[string]interface{}, actual, fitted []float64) ModelInfo {
	return ModelInfo{
		Algorithm:  algorithm,
		Parameters: params,
		MAPE:       CalculateMAPE(actual, fitted),
		MAE:        CalculateMAE(actual, fitted),
		RMSE:       CalculateRMSE(actual, fitted),
		DataPoints: len(actual),
	}
}
