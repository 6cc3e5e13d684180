package forecast

import "fmt"

// SMA forecasts Horizon periods with a recursively extended simple moving average.
// Each forecast is the mean of the last window values of the series extended by the
// forecasts produced so far. Empty data or a window outside [1, len(data)] yields an
// empty slice.
func SMA(data []float64, window int) []float64 {
	if len(data) == 0 || window <= 0 || window > len(data) {
		return []float64{}
	}

	working := make([]float64, len(data), len(data)+Horizon)
	copy(working, data)

	forecasts := make([]float64, 0, Horizon)
	for i := 0; i < Horizon; i++ {
		next := mean(working[len(working)-window:])
		forecasts = append(forecasts, next)
		working = append(working, next)
	}
	return forecasts
}

// SMAForecaster implements Simple Moving Average forecasting
type SMAForecaster struct{}

// NewSMAForecaster creates a new SMA forecaster
func NewSMAForecaster() *SMAForecaster {
	return &SMAForecaster{}
}

func init() {
	RegisterForecaster("sma", NewSMAForecaster())
}

// Name returns the algorithm name
func (f *SMAForecaster) Name() string {
	return "sma"
}

// Description returns a short summary of the method
func (f *SMAForecaster) Description() string {
	return "Simple moving average of the last window periods, recursively extended"
}

// RequiredParam returns the parameter sma cannot run without
func (f *SMAForecaster) RequiredParam() string {
	return "window"
}

// Forecast generates predictions using Simple Moving Average
func (f *SMAForecaster) Forecast(data []float64, params Params) (*Result, error) {
	if len(data) == 0 {
		return nil, &InvalidInputError{Method: "sma", Param: "data", Reason: "must not be empty"}
	}
	if err := checkFinite("sma", data); err != nil {
		return nil, err
	}
	window := params.Window
	if window <= 0 || window > len(data) {
		return nil, &InvalidInputError{
			Method: "sma",
			Param:  "window",
			Reason: fmt.Sprintf("must be between 1 and %d, got %d", len(data), window),
		}
	}

	// fitted[i] averages up to window values preceding data[i]
	fitted := make([]float64, len(data))
	fitted[0] = data[0]
	for i := 1; i < len(data); i++ {
		start := i - window
		if start < 0 {
			start = 0
		}
		fitted[i] = mean(data[start:i])
	}

	return &Result{
		Forecast:  SMA(data, window),
		Fitted:    fitted,
		ModelInfo: modelInfo("sma", map[string]interface{}{"window": window}, data, fitted),
	}, nil
}
