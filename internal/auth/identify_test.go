package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/soltix-forecast/internal/config"
	"github.com/soltixdb/soltix-forecast/internal/logging"
)

func TestCredentialChecker_Identify(t *testing.T) {
	tokens := NewTokenManager(config.JWTConfig{Secret: testSecret, TTL: time.Hour})
	key := strings.Repeat("k", 40)
	checker := CredentialChecker{
		Tokens:  tokens,
		APIKeys: NewAPIKeySet([]string{key}, logging.NewNop()),
	}
	assert.True(t, checker.Enabled())

	token, _, err := tokens.Issue("admin")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		user   string
		ok     bool
	}{
		{"bearer jwt", "Bearer " + token, "admin", true},
		{"bare jwt", token, "admin", true},
		{"bearer api key", "Bearer " + key, APIKeyUser, true},
		{"plain api key", key, APIKeyUser, true},
		{"padded api key", "  " + key + " ", APIKeyUser, true},
		{"unknown key", strings.Repeat("z", 40), "", false},
		{"tampered jwt", "Bearer " + token + "x", "", false},
		{"empty", "", "", false},
		{"bearer only", "Bearer ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, ok := checker.Identify(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.user, user)
		})
	}
}

func TestCredentialChecker_Disabled(t *testing.T) {
	var checker CredentialChecker
	assert.False(t, checker.Enabled())

	_, ok := checker.Identify("Bearer anything")
	assert.False(t, ok)
}
