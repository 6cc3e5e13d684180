package forecast

import "fmt"

// ExponentialSmoothing forecasts Horizon periods with single exponential smoothing.
//
// The smoothed series starts at data[0] and follows
// s[i] = alpha*data[i-1] + (1-alpha)*s[i-1]. Projection keeps the last actual
// observation fixed and feeds each forecast back as the smoothed value, since no new
// actuals arrive between future periods. Empty data or alpha outside [0, 1] yields an
// empty slice.
func ExponentialSmoothing(data []float64, alpha float64) []float64 {
	if len(data) == 0 || !(alpha >= 0 && alpha <= 1) {
		return []float64{}
	}

	smoothed := smoothSeries(data, alpha)

	lastActual := data[len(data)-1]
	lastSmoothed := smoothed[len(smoothed)-1]

	forecasts := make([]float64, 0, Horizon)
	for i := 0; i < Horizon; i++ {
		next := alpha*lastActual + (1-alpha)*lastSmoothed
		forecasts = append(forecasts, next)
		lastSmoothed = next
	}
	return forecasts
}

// smoothSeries fits the historical smoothed series, one value per observation
func smoothSeries(data []float64, alpha float64) []float64 {
	smoothed := make([]float64, len(data))
	smoothed[0] = data[0]
	for i := 1; i < len(data); i++ {
		smoothed[i] = alpha*data[i-1] + (1-alpha)*smoothed[i-1]
	}
	return smoothed
}

// ExponentialSmoothingForecaster implements Single Exponential Smoothing forecasting
type ExponentialSmoothingForecaster struct{}

// NewExponentialSmoothingForecaster creates a new Exponential Smoothing forecaster
func NewExponentialSmoothingForecaster() *ExponentialSmoothingForecaster {
	return &ExponentialSmoothingForecaster{}
}

func init() {
	RegisterForecaster("es", NewExponentialSmoothingForecaster())
}

// Name returns the algorithm name
func (f *ExponentialSmoothingForecaster) Name() string {
	return "es"
}

// Description returns a short summary of the method
func (f *ExponentialSmoothingForecaster) Description() string {
	return "Single exponential smoothing weighted by alpha"
}

// RequiredParam returns the parameter es cannot run without
func (f *ExponentialSmoothingForecaster) RequiredParam() string {
	return "alpha"
}

// Forecast generates predictions using Single Exponential Smoothing
func (f *ExponentialSmoothingForecaster) Forecast(data []float64, params Params) (*Result, error) {
	if len(data) == 0 {
		return nil, &InvalidInputError{Method: "es", Param: "data", Reason: "must not be empty"}
	}
	if err := checkFinite("es", data); err != nil {
		return nil, err
	}
	alpha := params.Alpha
	if !(alpha >= 0 && alpha <= 1) {
		return nil, &InvalidInputError{
			Method: "es",
			Param:  "alpha",
			Reason: fmt.Sprintf("must be between 0 and 1, got %v", alpha),
		}
	}

	fitted := smoothSeries(data, alpha)

	return &Result{
		Forecast:  ExponentialSmoothing(data, alpha),
		Fitted:    fitted,
		ModelInfo: modelInfo("es", map[string]interface{}{"alpha": alpha}, data, fitted),
	}, nil
}
