package queue

import (
	"fmt"
	"strings"

	"github.com/soltixdb/soltix-forecast/internal/config"
	"github.com/soltixdb/soltix-forecast/internal/utils"
)

// New creates a Queue for the configured backend. NATS is the default.
func New(cfg config.EventsConfig) (Queue, error) {
	queueType := utils.QueueType(strings.ToLower(cfg.Type))
	if queueType == "" {
		queueType = utils.QueueTypeNATS
	}

	switch queueType {
	case utils.QueueTypeNATS:
		return newNATSQueue(cfg.URL, cfg.Subject)

	case utils.QueueTypeRedis:
		return newRedisQueue(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
			Group:    cfg.RedisGroup,
			Consumer: cfg.RedisConsumer,
		})

	case utils.QueueTypeKafka:
		return newKafkaQueue(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			GroupID: cfg.KafkaGroupID,
		})

	case utils.QueueTypeMemory:
		return NewMemoryQueue(), nil

	default:
		return nil, fmt.Errorf("unsupported events type: %s (supported: nats, redis, kafka, memory)", queueType)
	}
}

// NewPublisher returns the publisher for the events section, or nil when
// events are disabled.
func NewPublisher(cfg config.EventsConfig) (Publisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	return New(cfg)
}
