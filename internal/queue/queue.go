// Package queue carries forecast events to a message broker. Publishing is the
// service's side; subscribing is used by operator tools that tail the events.
package queue

import "context"

// Publisher publishes messages to a subject
type Publisher interface {
	// Publish publishes one message to a subject/topic
	Publish(ctx context.Context, subject string, data []byte) error

	// Close closes the connection
	Close() error
}

// Subscriber subscribes to messages from a subject
type Subscriber interface {
	// Subscribe subscribes to a subject/topic with a handler
	Subscribe(subject string, handler MessageHandler) error

	// Unsubscribe unsubscribes from a subject/topic
	Unsubscribe(subject string) error

	// Close closes the connection
	Close() error
}

// MessageHandler handles incoming messages. A non-nil error leaves the message
// unacknowledged so the broker can redeliver it.
type MessageHandler func(data []byte) error

// Queue combines Publisher and Subscriber interfaces
type Queue interface {
	Publisher
	Subscriber
}
