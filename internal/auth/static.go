package auth

import (
	"context"
	"fmt"

	"github.com/soltixdb/soltix-forecast/internal/config"
)

// StaticVerifier checks credentials against an in-memory table of bcrypt hashes
type StaticVerifier struct {
	hashes map[string][]byte
}

// NewStaticVerifier builds the table from configured users. Plain passwords are
// hashed once here and never kept.
func NewStaticVerifier(users []config.UserConfig) (*StaticVerifier, error) {
	hashes := make(map[string][]byte, len(users))
	for _, u := range users {
		if u.Username == "" {
			return nil, fmt.Errorf("user without username")
		}
		if _, dup := hashes[u.Username]; dup {
			return nil, fmt.Errorf("duplicate user: %s", u.Username)
		}

		hash := u.PasswordHash
		if hash == "" {
			var err error
			if hash, err = HashPassword(u.Password); err != nil {
				return nil, err
			}
		}
		hashes[u.Username] = []byte(hash)
	}
	return &StaticVerifier{hashes: hashes}, nil
}

// Verify implements Verifier
func (v *StaticVerifier) Verify(ctx context.Context, username, password string) (bool, error) {
	hash, ok := v.hashes[username]
	if !ok {
		_, _ = checkHash(dummyHash, password)
		return false, nil
	}
	return checkHash(hash, password)
}

// Len returns the number of known users
func (v *StaticVerifier) Len() int {
	return len(v.hashes)
}
