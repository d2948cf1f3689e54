package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/glimte/warren-go/codec"
	"github.com/glimte/warren-go/contracts"
)

// Handler processes one delivered message with its decoded payload.
type Handler func(ctx context.Context, msg *contracts.Message, payload any) error

// Subscriber consumes deliveries from a transport and decodes each
// payload before dispatch.
type Subscriber struct {
	transport Transport
	codec     *codec.Codec
	logger    *slog.Logger
}

// SubscriberOption configures the Subscriber.
type SubscriberOption func(*Subscriber)

// WithSubscriberLogger sets the logger.
func WithSubscriberLogger(logger *slog.Logger) SubscriberOption {
	return func(s *Subscriber) {
		s.logger = logger
	}
}

// WithSubscriberCodec sets the payload codec.
func WithSubscriberCodec(c *codec.Codec) SubscriberOption {
	return func(s *Subscriber) {
		s.codec = c
	}
}

// NewSubscriber creates a subscriber over the given transport.
func NewSubscriber(transport Transport, options ...SubscriberOption) *Subscriber {
	s := &Subscriber{
		transport: transport,
		codec:     codec.Default(),
		logger:    slog.Default(),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Subscribe registers handler on queue. Each payload is decoded with the
// configured codec and its document-to-native fallback; messages that
// fail both decode paths are not dispatched and the error propagates to
// the transport's delivery loop.
func (s *Subscriber) Subscribe(ctx context.Context, queue string, handler Handler) error {
	if handler == nil {
		return fmt.Errorf("messaging: handler cannot be nil")
	}
	return s.transport.Subscribe(ctx, queue, func(ctx context.Context, msg *contracts.Message) error {
		payload, err := s.codec.DecodeMessage(msg)
		if err != nil {
			s.logger.Error("failed to decode payload",
				"queue", queue,
				"exchange", msg.Exchange,
				"routingKey", msg.RoutingKey,
				"error", err)
			return err
		}
		return handler(ctx, msg, payload)
	})
}
