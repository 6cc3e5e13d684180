package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryQueue_PublishSubscribe(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	received := make(chan string, 4)
	require.NoError(t, q.Subscribe("forecast.completed", func(data []byte) error {
		received <- string(data)
		return nil
	}))

	ctx := context.Background()
	require.NoError(t, q.Publish(ctx, "forecast.completed", []byte("one")))
	require.NoError(t, q.Publish(ctx, "forecast.completed", []byte("two")))

	for _, want := range []string{"one", "two"} {
		select {
		case got := <-received:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestMemoryQueue_PublishCopiesData(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	data := []byte("abc")
	require.NoError(t, q.Publish(context.Background(), "s", data))
	data[0] = 'z'

	got := make(chan []byte, 1)
	require.NoError(t, q.Subscribe("s", func(b []byte) error {
		got <- b
		return nil
	}))

	select {
	case b := <-got:
		assert.Equal(t, "abc", string(b))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out")
	}
}

func TestMemoryQueue_BufferFull(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	ctx := context.Background()
	for i := 0; i < memoryBufferSize; i++ {
		require.NoError(t, q.Publish(ctx, "s", []byte("x")))
	}
	assert.Equal(t, memoryBufferSize, q.Pending("s"))
	assert.Error(t, q.Publish(ctx, "s", []byte("overflow")))
}

func TestMemoryQueue_HandlerErrorContinues(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	var calls atomic.Int32
	require.NoError(t, q.Subscribe("s", func([]byte) error {
		calls.Add(1)
		return errors.New("boom")
	}))

	ctx := context.Background()
	require.NoError(t, q.Publish(ctx, "s", []byte("a")))
	require.NoError(t, q.Publish(ctx, "s", []byte("b")))

	assert.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)
}

func TestMemoryQueue_SubscriptionLifecycle(t *testing.T) {
	q := NewMemoryQueue()

	handler := func([]byte) error { return nil }
	require.NoError(t, q.Subscribe("s", handler))
	assert.Error(t, q.Subscribe("s", handler))
	require.NoError(t, q.Unsubscribe("s"))
	assert.Error(t, q.Unsubscribe("s"))

	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
	assert.Error(t, q.Publish(context.Background(), "s", []byte("x")))
	assert.Error(t, q.Subscribe("s", handler))
}

func TestMemoryQueue_CancelledContext(t *testing.T) {
	q := NewMemoryQueue()
	defer func() { _ = q.Close() }()

	ctx := context.Background()
	for i := 0; i < memoryBufferSize; i++ {
		require.NoError(t, q.Publish(ctx, "s", []byte("x")))
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.Error(t, q.Publish(cancelled, "s", []byte("x")))
}
