package config

import "time"

// QueueConfig configures reservation events on RabbitMQ.  An empty URL
// disables publishing.
type QueueConfig struct {
	URL             string        // RABBITMQ_URL, falls back to AMQP_URL
	Queue           string        // RESERVATION_QUEUE
	LogDir          string        // RESERVATION_LOG_DIR
	ConsumerEnabled bool          // RESERVATION_CONSUMER_ENABLED
	Prefetch        int           // RESERVATION_CONSUMER_PREFETCH
	PublishTimeout  time.Duration // RESERVATION_PUBLISH_TIMEOUT, bounds the broker handshake
}

func LoadQueueConfig() QueueConfig {
	return QueueConfig{
		URL:             envFirst("", "RABBITMQ_URL", "AMQP_URL"),
		Queue:           envStr("RESERVATION_QUEUE", "reservation.events"),
		LogDir:          envStr("RESERVATION_LOG_DIR", "logs"),
		ConsumerEnabled: envBool("RESERVATION_CONSUMER_ENABLED", true),
		Prefetch:        envInt("RESERVATION_CONSUMER_PREFETCH", 50),
		PublishTimeout:  envDur("RESERVATION_PUBLISH_TIMEOUT", 2*time.Second),
	}
}
