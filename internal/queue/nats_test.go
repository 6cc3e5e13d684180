package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
)

// setupTestNATS starts an embedded JetStream-enabled NATS server
func setupTestNATS(t *testing.T) string {
	t.Helper()

	ns, err := server.NewServer(&server.Options{
		Host:      "127.0.0.1",
		Port:      -1,
		JetStream: true,
		StoreDir:  t.TempDir(),
	})
	if err != nil {
		t.Fatalf("Failed to create NATS server: %v", err)
	}

	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns.ClientURL()
}

func TestNewNATSQueue(t *testing.T) {
	url := setupTestNATS(t)

	q, err := newNATSQueue(url, "forecast.completed")
	if err != nil {
		t.Fatalf("Failed to create NATS queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	if q.js == nil {
		t.Fatal("Expected JetStream context to be initialized")
	}

	info, err := q.js.StreamInfo(streamName("forecast.completed"))
	if err != nil {
		t.Fatalf("Expected stream to exist: %v", err)
	}
	if len(info.Config.Subjects) != 1 || info.Config.Subjects[0] != "forecast.completed" {
		t.Errorf("Unexpected stream subjects: %v", info.Config.Subjects)
	}
	if info.Config.MaxAge != eventRetention {
		t.Errorf("Expected MaxAge %v, got %v", eventRetention, info.Config.MaxAge)
	}
}

func TestNewNATSQueue_InvalidURL(t *testing.T) {
	q, err := newNATSQueue("nats://127.0.0.1:1", "forecast.completed")
	if err == nil {
		_ = q.Close()
		t.Fatal("Expected error with unreachable server")
	}
}

func TestNATSQueue_EnsureStreamIdempotent(t *testing.T) {
	url := setupTestNATS(t)

	q, err := newNATSQueue(url, "forecast.completed")
	if err != nil {
		t.Fatalf("Failed to create NATS queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	// A second queue on the same subject finds the existing stream
	q2, err := newNATSQueue(url, "forecast.completed")
	if err != nil {
		t.Fatalf("Failed to create second NATS queue: %v", err)
	}
	defer func() { _ = q2.Close() }()

	if err := q2.ensureStream("forecast.completed"); err != nil {
		t.Errorf("ensureStream should be idempotent: %v", err)
	}
}

func TestNATSQueue_PublishWithoutStream(t *testing.T) {
	url := setupTestNATS(t)

	conn, err := nats.Connect(url)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	q, err := newNATSQueueWithConn(conn)
	if err != nil {
		t.Fatalf("Failed to create NATS queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := q.Publish(ctx, "no.stream", []byte("x")); err == nil {
		t.Error("Expected publish to fail when no stream covers the subject")
	}
}

func TestNATSQueue_PublishSubscribe(t *testing.T) {
	url := setupTestNATS(t)

	q, err := newNATSQueue(url, "forecast.completed")
	if err != nil {
		t.Fatalf("Failed to create NATS queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	var mu sync.Mutex
	var received []string
	done := make(chan struct{})

	err = q.Subscribe("forecast.completed", func(data []byte) error {
		mu.Lock()
		defer mu.Unlock()
		received = append(received, string(data))
		if len(received) == 2 {
			close(done)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for _, msg := range []string{`{"method":"sma"}`, `{"method":"es"}`} {
		if err := q.Publish(ctx, "forecast.completed", []byte(msg)); err != nil {
			t.Fatalf("Failed to publish: %v", err)
		}
	}

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Timed out waiting for messages")
	}

	mu.Lock()
	defer mu.Unlock()
	if received[0] != `{"method":"sma"}` || received[1] != `{"method":"es"}` {
		t.Errorf("Unexpected messages: %v", received)
	}
}

func TestNATSQueue_SubscribeTwice(t *testing.T) {
	url := setupTestNATS(t)

	q, err := newNATSQueue(url, "forecast.completed")
	if err != nil {
		t.Fatalf("Failed to create NATS queue: %v", err)
	}
	defer func() { _ = q.Close() }()

	handler := func([]byte) error { return nil }
	if err := q.Subscribe("forecast.completed", handler); err != nil {
		t.Fatalf("Failed to subscribe: %v", err)
	}
	if err := q.Subscribe("forecast.completed", handler); err == nil {
		t.Error("Expected error on duplicate subscription")
	}

	if err := q.Unsubscribe("forecast.completed"); err != nil {
		t.Errorf("Failed to unsubscribe: %v", err)
	}
	if err := q.Unsubscribe("forecast.completed"); err == nil {
		t.Error("Expected error when unsubscribing twice")
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"forecast.completed", "forecast_completed"},
		{"a-b_c", "a-b_c"},
		{"x.*.>", "x____"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := sanitizeName(tt.input); got != tt.expected {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}

	if got := streamName("forecast.completed"); got != "FORECAST_forecast_completed" {
		t.Errorf("streamName = %q", got)
	}
}
