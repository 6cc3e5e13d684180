// Package auth verifies caller identity for the forecast endpoints. Credentials
// come from a static table or etcd; bearer tokens and API keys are accepted in
// place of a login session.
package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/soltixdb/soltix-forecast/internal/config"
	"github.com/soltixdb/soltix-forecast/internal/logging"
)

// Verifier maps presented credentials to an accept/reject decision.
// An error means the decision could not be made, not that it was negative.
type Verifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// dummyHash is compared against when a user is unknown so that unknown and
// known users take similar time to reject.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("soltix-forecast"), bcrypt.DefaultCost)

// HashPassword returns the bcrypt hash stored for a password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// checkHash reports whether password matches hash. A malformed hash is an error.
func checkHash(hash []byte, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("stored password hash is invalid: %w", err)
	}
}

// NewVerifier builds the verifier selected by auth.credential_store
func NewVerifier(authCfg config.AuthConfig, etcdCfg config.EtcdConfig, logger *logging.Logger) (Verifier, func() error, error) {
	switch authCfg.CredentialStore {
	case "", config.CredentialStoreStatic:
		v, err := NewStaticVerifier(authCfg.Users)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using static credential store", "users", v.Len())
		return v, func() error { return nil }, nil

	case config.CredentialStoreEtcd:
		v, err := NewEtcdVerifier(etcdCfg)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using etcd credential store",
			"endpoints", etcdCfg.Endpoints,
			"key_prefix", v.prefix)
		return v, v.Close, nil

	default:
		return nil, nil, fmt.Errorf("unsupported credential store: %s", authCfg.CredentialStore)
	}
}
