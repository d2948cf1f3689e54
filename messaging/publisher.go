package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/glimte/warren-go/codec"
	"github.com/glimte/warren-go/contracts"
	"github.com/glimte/warren-go/wire"
	"github.com/google/uuid"
)

// Publisher encodes application values and publishes them with a full
// property record.
type Publisher struct {
	transport Transport
	codec     *codec.Codec
	logger    *slog.Logger
	source    string
}

// PublisherOption configures the Publisher.
type PublisherOption func(*Publisher)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithCodec sets the payload codec.
func WithCodec(c *codec.Codec) PublisherOption {
	return func(p *Publisher) {
		p.codec = c
	}
}

// WithSourceExchange sets the exchange replies fall back to when a
// reply-to address carries no explicit exchange part.
func WithSourceExchange(exchange string) PublisherOption {
	return func(p *Publisher) {
		p.source = exchange
	}
}

// NewPublisher creates a publisher over the given transport.
func NewPublisher(transport Transport, options ...PublisherOption) *Publisher {
	p := &Publisher{
		transport: transport,
		codec:     codec.Default(),
		logger:    slog.Default(),
	}
	for _, opt := range options {
		opt(p)
	}
	return p
}

type publishSettings struct {
	kvs    []wire.KV
	format codec.Format
}

// PublishOption adjusts one outgoing message.
type PublishOption func(*publishSettings)

// WithProperty sets one property field on the outgoing message. Explicit
// properties win over the publisher's stamped values.
func WithProperty(key string, value any) PublishOption {
	return func(s *publishSettings) {
		s.kvs = append(s.kvs, wire.KV{Key: key, Value: value})
	}
}

// WithReplyTo asks the consumer to reply to addr, either "exchange:key"
// or a bare routing key.
func WithReplyTo(addr string) PublishOption {
	return WithProperty("reply-to", addr)
}

// WithCorrelationID tags the message with a correlation id.
func WithCorrelationID(id string) PublishOption {
	return WithProperty("correlation-id", id)
}

// WithHeaders sets the application header table.
func WithHeaders(headers map[string]any) PublishOption {
	return WithProperty("headers", headers)
}

// WithFormat overrides the codec's default format for this message.
func WithFormat(format codec.Format) PublishOption {
	return func(s *publishSettings) {
		s.format = format
	}
}

// Publish encodes payload, builds the property record and sends it. The
// publisher stamps message-id, timestamp and content-type unless the
// caller supplied them.
func (p *Publisher) Publish(ctx context.Context, exchange, routingKey string, payload any, options ...PublishOption) error {
	settings := publishSettings{}
	for _, opt := range options {
		opt(&settings)
	}

	format := settings.format
	if format == "" {
		format = p.codec.DefaultFormat()
	}

	body, err := p.codec.EncodeAs(payload, format)
	if err != nil {
		p.logger.Error("failed to encode payload",
			"exchange", exchange,
			"routingKey", routingKey,
			"error", err)
		return fmt.Errorf("messaging: encode payload: %w", err)
	}

	// Caller properties come first: the record marshaller keeps the
	// first occurrence of a key, so explicit values win over stamps.
	kvs := append(settings.kvs,
		wire.KV{Key: "message-id", Value: uuid.New().String()},
		wire.KV{Key: "timestamp", Value: time.Now().UTC()},
		wire.KV{Key: "content-type", Value: p.codec.ContentType(format)},
	)
	props := wire.BuildProperties(kvs)

	if err := p.transport.Publish(ctx, exchange, routingKey, props, body); err != nil {
		p.logger.Error("failed to publish message",
			"exchange", exchange,
			"routingKey", routingKey,
			"error", err)
		return fmt.Errorf("messaging: publish to %s/%s: %w", exchange, routingKey, err)
	}

	p.logger.Debug("message published",
		"exchange", exchange,
		"routingKey", routingKey,
		"bytes", len(body))
	return nil
}

// Reply publishes payload to the reply address carried by to, copying
// the correlation id over. The publisher's source exchange fills in when
// the reply-to value has no exchange part. Fails with
// contracts.ErrMissingReplyTo when the message carries no reply-to.
func (p *Publisher) Reply(ctx context.Context, to *contracts.Message, payload any, options ...PublishOption) error {
	addr, err := to.ReplyAddress(p.source)
	if err != nil {
		return err
	}
	if v, exists := to.Properties.Get("correlation-id"); exists && wire.IsSet(v) {
		options = append(options, WithProperty("correlation-id", v))
	}
	return p.Publish(ctx, addr.Exchange, addr.RoutingKey, payload, options...)
}
