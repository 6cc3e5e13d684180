package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
)

// eventRetention bounds how long the broker keeps forecast events.
// Events are notifications, not a history store.
const eventRetention = 24 * time.Hour

// NATSQueue implements Queue using NATS JetStream
type NATSQueue struct {
	conn          *nats.Conn
	js            nats.JetStreamContext
	subscriptions map[string]*nats.Subscription
	streams       map[string]bool
	mu            sync.Mutex
}

// newNATSQueue connects to url and makes sure a stream covers subject
func newNATSQueue(url, subject string) (*NATSQueue, error) {
	conn, err := nats.Connect(url, nats.Name("soltix-forecast"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	q, err := newNATSQueueWithConn(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}

	if subject != "" {
		if err := q.ensureStream(subject); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return q, nil
}

// newNATSQueueWithConn wraps an existing connection
func newNATSQueueWithConn(conn *nats.Conn) (*NATSQueue, error) {
	js, err := conn.JetStream()
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &NATSQueue{
		conn:          conn,
		js:            js,
		subscriptions: make(map[string]*nats.Subscription),
		streams:       make(map[string]bool),
	}, nil
}

// ensureStream creates the stream backing subject if it does not exist.
// Caller must not hold q.mu.
func (q *NATSQueue) ensureStream(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.ensureStreamLocked(subject)
}

func (q *NATSQueue) ensureStreamLocked(subject string) error {
	if q.streams[subject] {
		return nil
	}

	name := streamName(subject)
	_, err := q.js.StreamInfo(name)
	if errors.Is(err, nats.ErrStreamNotFound) {
		_, err = q.js.AddStream(&nats.StreamConfig{
			Name:     name,
			Subjects: []string{subject},
			Storage:  nats.FileStorage,
			MaxAge:   eventRetention,
		})
	}
	if err != nil {
		return fmt.Errorf("failed to ensure stream for subject %s: %w", subject, err)
	}

	q.streams[subject] = true
	return nil
}

// Publish publishes a message and waits for the JetStream ack or ctx expiry
func (q *NATSQueue) Publish(ctx context.Context, subject string, data []byte) error {
	if _, err := q.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

// Subscribe attaches a durable consumer to subject. Messages are acked after the
// handler succeeds and redelivered up to 3 times otherwise.
func (q *NATSQueue) Subscribe(subject string, handler MessageHandler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}
	if err := q.ensureStreamLocked(subject); err != nil {
		return err
	}

	sub, err := q.js.Subscribe(subject, func(msg *nats.Msg) {
		if err := handler(msg.Data); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("tail-"+sanitizeName(subject)),
		nats.ManualAck(),
		nats.MaxAckPending(100),
		nats.AckWait(30*time.Second),
		nats.MaxDeliver(3),
		nats.DeliverNew(),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to subject %s: %w", subject, err)
	}

	q.subscriptions[subject] = sub
	return nil
}

// Unsubscribe unsubscribes from a subject
func (q *NATSQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	sub, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}
	delete(q.subscriptions, subject)

	if err := sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe from subject %s: %w", subject, err)
	}
	return nil
}

// Close drains subscriptions and closes the connection
func (q *NATSQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for subject, sub := range q.subscriptions {
		_ = sub.Unsubscribe()
		delete(q.subscriptions, subject)
	}
	q.conn.Close()
	return nil
}

// streamName derives the JetStream stream name for a subject
func streamName(subject string) string {
	return "FORECAST_" + sanitizeName(subject)
}

// sanitizeName maps a subject to the character set allowed in stream and
// consumer names: A-Z, a-z, 0-9, dash and underscore.
func sanitizeName(subject string) string {
	result := make([]byte, 0, len(subject))
	for i := 0; i < len(subject); i++ {
		c := subject[i]
		if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '-' || c == '_' {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}
	return string(result)
}
