package utils

import "time"

// =============================================================================
// Timeout Constants
// =============================================================================

// HTTP Handler Timeouts
const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// EventPublishTimeout bounds a single best-effort event publish
	EventPublishTimeout = 2 * time.Second

	// CredentialLookupTimeout bounds a credential store lookup
	CredentialLookupTimeout = 3 * time.Second

	// ShutdownTimeout is the grace period for draining servers on exit
	ShutdownTimeout = 10 * time.Second
)

// gRPC Constants
const (
	// GRPCMaxMessageSize caps request and response sizes for the gRPC server
	GRPCMaxMessageSize = 4 * 1024 * 1024
)

// =============================================================================
// Session Constants
// =============================================================================

const (
	// SessionUserKey is the session attribute holding the authenticated username
	SessionUserKey = "user"

	// DefaultSessionExpiration is the idle lifetime of a login session
	DefaultSessionExpiration = 30 * time.Minute

	// DefaultSessionCookie is the cookie carrying the session id
	DefaultSessionCookie = "forecast_session"

	// DefaultTokenTTL is the lifetime of issued bearer tokens
	DefaultTokenTTL = time.Hour
)

// =============================================================================
// Event Constants
// =============================================================================

const (
	// DefaultEventSubject is the subject forecast events are published to
	DefaultEventSubject = "forecast.completed"
)

// =============================================================================
// Queue Type Constants
// =============================================================================
// QueueType represents the type of message queue
type QueueType string

const (
	// QueueTypeNATS represents NATS JetStream queue (default)
	QueueTypeNATS QueueType = "nats"

	// QueueTypeRedis represents Redis Streams queue
	QueueTypeRedis QueueType = "redis"

	// QueueTypeKafka represents Apache Kafka queue
	QueueTypeKafka QueueType = "kafka"

	// QueueTypeMemory represents in-memory queue (for testing)
	QueueTypeMemory QueueType = "memory"
)
