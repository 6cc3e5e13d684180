package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/golang/snappy"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/soltix-forecast/internal/config"
	"github.com/soltixdb/soltix-forecast/internal/logging"
)

func getRedisURL() string {
	if url := os.Getenv("REDIS_URL"); url != "" {
		return url
	}
	return "redis://localhost:6379"
}

// setupRedisStorage skips the test when no Redis server is reachable
func setupRedisStorage(t *testing.T, compress bool) *RedisStorage {
	t.Helper()

	s, err := NewRedisStorage(config.SessionConfig{
		RedisURL:  getRedisURL(),
		KeyPrefix: "test:forecast:session:" + time.Now().Format("150405.000000") + ":",
		Compress:  compress,
	})
	if err != nil {
		t.Skipf("Redis not available, skipping test: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Reset()
		_ = s.Close()
	})
	return s
}

func TestNewRedisStorage_Unreachable(t *testing.T) {
	_, err := NewRedisStorage(config.SessionConfig{RedisURL: "redis://127.0.0.1:1"})
	assert.Error(t, err)
}

func TestRedisStorage_RoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		s := setupRedisStorage(t, compress)

		require.NoError(t, s.Set("abc", []byte("session-data"), time.Minute))

		got, err := s.Get("abc")
		require.NoError(t, err)
		assert.Equal(t, "session-data", string(got))

		raw, err := s.client.Get(context.Background(), s.key("abc")).Bytes()
		require.NoError(t, err)
		if compress {
			decoded, err := snappy.Decode(nil, raw)
			require.NoError(t, err)
			assert.Equal(t, "session-data", string(decoded))
		} else {
			assert.Equal(t, "session-data", string(raw))
		}

		require.NoError(t, s.Delete("abc"))
		got, err = s.Get("abc")
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestRedisStorage_Expiry(t *testing.T) {
	s := setupRedisStorage(t, true)

	require.NoError(t, s.Set("short", []byte("x"), time.Second))
	ttl, err := s.client.TTL(context.Background(), s.key("short")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Second)
}

func TestRedisStorage_Reset(t *testing.T) {
	s := setupRedisStorage(t, false)

	require.NoError(t, s.Set("a", []byte("1"), 0))
	require.NoError(t, s.Set("b", []byte("2"), 0))
	require.NoError(t, s.Reset())

	for _, id := range []string{"a", "b"} {
		got, err := s.Get(id)
		require.NoError(t, err)
		assert.Nil(t, got)
	}
}

func TestRedisStorage_IgnoresEmptyKeys(t *testing.T) {
	s := NewRedisStorageWithClient(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), "p:", true)
	defer func() { _ = s.Close() }()

	got, err := s.Get("")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, s.Set("", []byte("x"), 0))
	assert.NoError(t, s.Set("id", nil, 0))
	assert.NoError(t, s.Delete(""))
}

func TestManager_RedisBacked(t *testing.T) {
	s := setupRedisStorage(t, true)

	m := NewManagerWithStorage(config.SessionConfig{Expiration: time.Minute}, s, logging.NewNop())
	assert.Equal(t, time.Minute, m.TTL())
}
