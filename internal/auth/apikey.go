package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/soltixdb/soltix-forecast/internal/logging"
)

// MinAPIKeyLength is the minimum required length for API keys
const MinAPIKeyLength = 32

// ValidateAPIKey checks if an API key meets the security requirements
func ValidateAPIKey(key string) bool {
	if len(key) < MinAPIKeyLength {
		return false
	}
	return strings.TrimSpace(key) != ""
}

// APIKeySet holds the configured API keys that passed validation
type APIKeySet struct {
	keys [][]byte
}

// NewAPIKeySet drops and logs keys that fail ValidateAPIKey
func NewAPIKeySet(apiKeys []string, logger *logging.Logger) *APIKeySet {
	set := &APIKeySet{}
	for _, key := range apiKeys {
		if key == "" {
			continue
		}
		if !ValidateAPIKey(key) {
			logger.Warn("API key does not meet security requirements",
				"key_length", len(key),
				"min_required", MinAPIKeyLength,
				"key_prefix", MaskAPIKey(key))
			continue
		}
		set.keys = append(set.keys, []byte(key))
	}

	if len(set.keys) == 0 && len(apiKeys) > 0 {
		logger.Error("No valid API keys configured - all provided keys failed validation",
			"total_keys", len(apiKeys),
			"min_required_length", MinAPIKeyLength)
	}
	return set
}

// Contains reports whether key is configured, in constant time per key
func (s *APIKeySet) Contains(key string) bool {
	if s == nil || key == "" {
		return false
	}
	found := 0
	for _, k := range s.keys {
		found |= subtle.ConstantTimeCompare(k, []byte(key))
	}
	return found == 1
}

// Len returns the number of accepted keys
func (s *APIKeySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// MaskAPIKey masks an API key for logging, showing only the first 4 chars
func MaskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
