package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultPublishTimeout bounds the broker handshake when none is given.
const DefaultPublishTimeout = 2 * time.Second

// Publisher sends ReservationEvents to a durable queue.  Each publish
// opens its own connection, bounded by timeout and by the caller's
// deadline, so a broker outage never wedges a request.  Errors are
// returned, not logged; callers treat them as best-effort.
type Publisher struct {
	url     string
	queue   string
	timeout time.Duration
}

// NewPublisher returns a Publisher for url.  An empty url yields a
// publisher whose Publish is a no-op; a non-positive timeout means
// DefaultPublishTimeout.
func NewPublisher(url, queue string, timeout time.Duration) *Publisher {
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	return &Publisher{url: url, queue: queue, timeout: timeout}
}

// Enabled reports whether a broker URL is configured.
func (p *Publisher) Enabled() bool { return p != nil && p.url != "" }

// PublishReservationEvent marshals ev and publishes it as a persistent
// message on the default exchange with the queue name as routing key.
func (p *Publisher) PublishReservationEvent(ctx context.Context, ev ReservationEvent) error {
	if !p.Enabled() {
		return nil
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	timeout := p.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return fmt.Errorf("rabbitmq dial: %w", context.DeadlineExceeded)
	}

	// DefaultDial also sets the deadline for the AMQP handshake
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := declare(ch, p.queue); err != nil {
		return fmt.Errorf("declare queue %s: %w", p.queue, err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(pubCtx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// declare makes sure the durable queue exists.  Idempotent.
func declare(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(name, true, false, false, false, nil)
}
