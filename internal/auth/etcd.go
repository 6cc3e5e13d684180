package auth

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/soltixdb/soltix-forecast/internal/config"
	"github.com/soltixdb/soltix-forecast/internal/utils"
)

const (
	defaultUserPrefix = "/soltix-forecast/users"
	defaultCacheSize  = 1024
	defaultCacheTTL   = 30 * time.Second
)

// EtcdVerifier checks credentials against bcrypt hashes stored in etcd under
// <prefix>/<username>. Fetched hashes are cached for a short TTL.
type EtcdVerifier struct {
	client *clientv3.Client
	prefix string
	cache  *expirable.LRU[string, []byte]
	owned  bool // close the client on Close
}

// NewEtcdVerifier connects to etcd
func NewEtcdVerifier(cfg config.EtcdConfig) (*EtcdVerifier, error) {
	dialTimeout := cfg.DialTimeout
	if dialTimeout == 0 {
		dialTimeout = 5 * time.Second
	}

	client, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
		Username:    cfg.Username,
		Password:    cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to etcd: %w", err)
	}

	v := NewEtcdVerifierWithClient(client, cfg)
	v.owned = true
	return v, nil
}

// NewEtcdVerifierWithClient wraps an existing client. The caller keeps ownership.
func NewEtcdVerifierWithClient(client *clientv3.Client, cfg config.EtcdConfig) *EtcdVerifier {
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultUserPrefix
	}
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	return &EtcdVerifier{
		client: client,
		prefix: prefix,
		cache:  expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

// userKey returns the etcd key for username, or false if the name cannot be a key
func (v *EtcdVerifier) userKey(username string) (string, bool) {
	if username == "" || strings.ContainsAny(username, "/\x00") || username == "." || username == ".." {
		return "", false
	}
	return path.Join(v.prefix, username), true
}

// Verify implements Verifier
func (v *EtcdVerifier) Verify(ctx context.Context, username, password string) (bool, error) {
	key, ok := v.userKey(username)
	if !ok {
		return false, nil
	}

	hash, cached := v.cache.Get(username)
	if !cached {
		lookupCtx, cancel := context.WithTimeout(ctx, utils.CredentialLookupTimeout)
		defer cancel()

		resp, err := v.client.Get(lookupCtx, key)
		if err != nil {
			return false, fmt.Errorf("failed to look up user %s: %w", username, err)
		}
		if len(resp.Kvs) == 0 {
			_, _ = checkHash(dummyHash, password)
			return false, nil
		}
		hash = resp.Kvs[0].Value
		v.cache.Add(username, hash)
	}

	return checkHash(hash, password)
}

// PutUser stores a user's password hash, replacing any existing entry
func (v *EtcdVerifier) PutUser(ctx context.Context, username, password string) error {
	key, ok := v.userKey(username)
	if !ok {
		return fmt.Errorf("invalid username: %q", username)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := v.client.Put(ctx, key, hash); err != nil {
		return fmt.Errorf("failed to store user %s: %w", username, err)
	}
	v.cache.Remove(username)
	return nil
}

// DeleteUser removes a user. Deleting an unknown user is not an error.
func (v *EtcdVerifier) DeleteUser(ctx context.Context, username string) error {
	key, ok := v.userKey(username)
	if !ok {
		return fmt.Errorf("invalid username: %q", username)
	}
	if _, err := v.client.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", username, err)
	}
	v.cache.Remove(username)
	return nil
}

// Close releases the etcd client if the verifier created it
func (v *EtcdVerifier) Close() error {
	v.cache.Purge()
	if v.owned {
		return v.client.Close()
	}
	return nil
}
