package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
)

func TestServiceError_Error(t *testing.T) {
	err := NewServiceError("TEST_ERROR", "test error message", http.StatusBadRequest)
	if err.Error() != "test error message" {
		t.Errorf("Expected 'test error message', got '%s'", err.Error())
	}
}

func TestServiceError_Constructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *ServiceError
		code    string
		message string
		status  int
	}{
		{"invalid body", ErrInvalidBody(errors.New("eof")), CodeInvalidBody, MessageInternal, 500},
		{"missing fields", ErrMissingFields(), CodeMissingFields, "Missing data, method, or parameters", 400},
		{"missing window", ErrMissingParameter("window", "SMA"), CodeMissingParameter, "Missing 'window' parameter for SMA", 400},
		{"missing alpha", ErrMissingParameter("alpha", "ES"), CodeMissingParameter, "Missing 'alpha' parameter for ES", 400},
		{"unknown method", ErrUnknownMethod("arima", []string{"es", "sma"}), CodeUnknownMethod, "Unknown method: arima", 400},
		{"invalid type", ErrInvalidType(errors.New("bad")), CodeInvalidType, MessageInternal, 500},
		{"internal", ErrInternal(errors.New("bad")), CodeInternal, MessageInternal, 500},
		{"unauthorized", ErrUnauthorized(), CodeUnauthorized, "Unauthorized", 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.Message != tt.message {
				t.Errorf("Message = %q, want %q", tt.err.Message, tt.message)
			}
			if tt.err.Status != tt.status {
				t.Errorf("Status = %d, want %d", tt.err.Status, tt.status)
			}
			if tt.err.Internal() != (tt.status >= 500) {
				t.Errorf("Internal() = %v for status %d", tt.err.Internal(), tt.status)
			}
		})
	}
}

func TestServiceError_UnwrapKeepsCause(t *testing.T) {
	cause := errors.New("strconv: invalid syntax")
	err := ErrInvalidType(cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the cause")
	}

	var svcErr *ServiceError
	if !errors.As(error(err), &svcErr) {
		t.Fatal("Expected errors.As to match *ServiceError")
	}
	if svcErr.Message == cause.Error() {
		t.Error("Cause must not leak into the message")
	}
}

func TestServiceError_JSON(t *testing.T) {
	err := NewServiceErrorWithDetails("TEST", "msg", http.StatusBadRequest, map[string]interface{}{"key": "value"})
	err.Err = errors.New("hidden")

	data, marshalErr := json.Marshal(err)
	if marshalErr != nil {
		t.Fatalf("Failed to marshal: %v", marshalErr)
	}

	var decoded map[string]interface{}
	if unmarshalErr := json.Unmarshal(data, &decoded); unmarshalErr != nil {
		t.Fatalf("Failed to unmarshal: %v", unmarshalErr)
	}

	if decoded["code"] != "TEST" || decoded["message"] != "msg" {
		t.Errorf("Unexpected JSON: %s", data)
	}
	if _, ok := decoded["Status"]; ok {
		t.Error("Status must not be serialized")
	}
	if _, ok := decoded["Err"]; ok {
		t.Error("Err must not be serialized")
	}
	details, ok := decoded["details"].(map[string]interface{})
	if !ok || details["key"] != "value" {
		t.Errorf("Unexpected details: %v", decoded["details"])
	}
}

func TestServiceError_UnknownMethodFormatsRawValue(t *testing.T) {
	err := ErrUnknownMethod(float64(3), nil)
	if err.Message != "Unknown method: 3" {
		t.Errorf("Unexpected message: %q", err.Message)
	}
}
