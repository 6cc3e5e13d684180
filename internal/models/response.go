package models

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ForecastResponse represents a successful forecast.
// Forecast is empty, never null, when the engine declined the input.
type ForecastResponse struct {
	Forecast []float64 `json:"forecast"`
}

// ErrorResponse represents error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// MethodInfo describes a forecasting method
type MethodInfo struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	RequiredParam string `json:"required_param"`
}

// MethodListResponse represents the list of forecasting methods
type MethodListResponse struct {
	Methods []MethodInfo `json:"methods"`
	Horizon int          `json:"horizon"`
}

// TokenResponse represents an issued bearer token
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresAt string `json:"expires_at"`
}
