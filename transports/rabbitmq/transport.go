// Package rabbitmq adapts the messaging transport contract to a RabbitMQ
// channel via amqp091-go. Connection and channel lifecycle stay with the
// caller; the transport only publishes, consumes and declares topology.
package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/glimte/warren-go/messaging"
	"github.com/glimte/warren-go/wire"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel is the subset of amqp.Channel the transport uses. It is an
// interface so tests can run without a broker.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Close() error
}

// Transport publishes and consumes on one injected channel.
type Transport struct {
	ch     Channel
	logger *slog.Logger
}

// Option configures the Transport.
type Option func(*Transport)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		t.logger = logger
	}
}

// NewTransport wraps an open channel.
func NewTransport(ch Channel, options ...Option) *Transport {
	t := &Transport{
		ch:     ch,
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(t)
	}
	return t
}

var _ messaging.Transport = (*Transport)(nil)

// Publish sends body with the given property record.
func (t *Transport) Publish(ctx context.Context, exchange, routingKey string, props wire.Record, body []byte) error {
	pub := ToPublishing(props, body)
	if err := t.ch.PublishWithContext(ctx, exchange, routingKey, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq: publish to %s/%s: %w", exchange, routingKey, err)
	}
	return nil
}

// Subscribe consumes queue and feeds each delivery to handler. Handler
// errors reject the delivery without requeue; successes acknowledge it.
// The delivery loop stops when ctx ends or the channel closes.
func (t *Transport) Subscribe(ctx context.Context, queue string, handler messaging.DeliveryHandler) error {
	deliveries, err := t.ch.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("rabbitmq: consume %s: %w", queue, err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, open := <-deliveries:
				if !open {
					return
				}
				msg := FromDelivery(d)
				msg.Queue = queue
				if err := handler(ctx, msg); err != nil {
					t.logger.Error("delivery handler failed",
						"queue", queue,
						"routingKey", d.RoutingKey,
						"error", err)
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()
	return nil
}

// Close closes the underlying channel.
func (t *Transport) Close() error {
	return t.ch.Close()
}
