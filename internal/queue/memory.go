package queue

import (
	"context"
	"fmt"
	"sync"
)

const memoryBufferSize = 1024

// MemoryQueue implements Queue with in-process channels.
// Used for development and tests.
type MemoryQueue struct {
	channels      map[string]chan []byte
	subscriptions map[string]context.CancelFunc
	closed        bool
	mu            sync.Mutex
}

// NewMemoryQueue creates an empty in-memory queue
func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		channels:      make(map[string]chan []byte),
		subscriptions: make(map[string]context.CancelFunc),
	}
}

func (q *MemoryQueue) channel(subject string) (chan []byte, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil, fmt.Errorf("memory queue closed")
	}
	ch, ok := q.channels[subject]
	if !ok {
		ch = make(chan []byte, memoryBufferSize)
		q.channels[subject] = ch
	}
	return ch, nil
}

// Publish buffers a copy of data for the subject. It fails instead of blocking
// when the buffer is full.
func (q *MemoryQueue) Publish(ctx context.Context, subject string, data []byte) error {
	ch, err := q.channel(subject)
	if err != nil {
		return err
	}

	msg := append([]byte(nil), data...)
	select {
	case ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fmt.Errorf("buffer full for subject: %s", subject)
	}
}

// Subscribe delivers buffered and future messages for the subject to handler
func (q *MemoryQueue) Subscribe(subject string, handler MessageHandler) error {
	ch, err := q.channel(subject)
	if err != nil {
		return err
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if _, exists := q.subscriptions[subject]; exists {
		return fmt.Errorf("already subscribed to subject: %s", subject)
	}

	ctx, cancel := context.WithCancel(context.Background())
	q.subscriptions[subject] = cancel

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case data, ok := <-ch:
				if !ok {
					return
				}
				_ = handler(data)
			}
		}
	}()
	return nil
}

// Unsubscribe stops delivery for the subject
func (q *MemoryQueue) Unsubscribe(subject string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	cancel, exists := q.subscriptions[subject]
	if !exists {
		return fmt.Errorf("not subscribed to subject: %s", subject)
	}
	cancel()
	delete(q.subscriptions, subject)
	return nil
}

// Pending returns the number of undelivered messages for a subject
func (q *MemoryQueue) Pending(subject string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.channels[subject])
}

// Close stops all subscriptions. Further publishes fail.
func (q *MemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	for subject, cancel := range q.subscriptions {
		cancel()
		delete(q.subscriptions, subject)
	}
	return nil
}
