package models

// ForecastPayload is the forecast request envelope as received on the wire.
// It stays untyped so presence and type errors can be told apart.
type ForecastPayload map[string]interface{}

// LoginRequest represents the JSON token request body
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}
