package auth

import "strings"

// APIKeyUser is the identity recorded for requests authenticated by API key
const APIKeyUser = "api-key"

// CredentialChecker resolves bearer tokens and API keys to an identity
type CredentialChecker struct {
	Tokens  *TokenManager // nil disables bearer tokens
	APIKeys *APIKeySet    // nil disables API keys
}

// Identify resolves the value of an Authorization or X-API-Key header.
// "Bearer <jwt>" yields the token subject; a configured API key, with or
// without the Bearer prefix, yields APIKeyUser.
func (c CredentialChecker) Identify(header string) (string, bool) {
	value := strings.TrimSpace(header)
	if value == "" {
		return "", false
	}
	if after, ok := strings.CutPrefix(value, "Bearer "); ok {
		value = strings.TrimSpace(after)
	}

	if c.Tokens != nil && strings.Count(value, ".") == 2 {
		if user, err := c.Tokens.Validate(value); err == nil {
			return user, true
		}
	}
	if c.APIKeys.Contains(value) {
		return APIKeyUser, true
	}
	return "", false
}

// Enabled reports whether any header credential is accepted
func (c CredentialChecker) Enabled() bool {
	return c.Tokens != nil || c.APIKeys.Len() > 0
}
