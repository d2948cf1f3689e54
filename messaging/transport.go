package messaging

import (
	"context"

	"github.com/glimte/warren-go/contracts"
	"github.com/glimte/warren-go/wire"
)

// Transport moves framed messages to and from the broker. Implementations
// own connection and channel lifecycle; this package never dials.
type Transport interface {
	// Publish sends body with the given property record.
	Publish(ctx context.Context, exchange, routingKey string, props wire.Record, body []byte) error

	// Subscribe delivers messages from queue to handler until ctx ends.
	Subscribe(ctx context.Context, queue string, handler DeliveryHandler) error

	// Close releases the transport's resources.
	Close() error
}

// DeliveryHandler receives one delivered message envelope.
type DeliveryHandler func(ctx context.Context, msg *contracts.Message) error
