package rabbitmq

import (
	"fmt"

	"github.com/glimte/warren-go/wire"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DeclareQueue declares the queue described by a queue.declare method
// record. The marshaller has already applied the protocol defaults
// (ticket, arguments); unset boolean fields declare as false.
func (t *Transport) DeclareQueue(rec wire.Record) (amqp.Queue, error) {
	if rec.SchemaName() != "queue.declare" {
		return amqp.Queue{}, fmt.Errorf("rabbitmq: expected queue.declare record, got %s", rec.SchemaName())
	}
	name := stringField(rec, "queue")
	q, err := t.ch.QueueDeclare(
		name,
		boolField(rec, "durable"),
		boolField(rec, "auto-delete"),
		boolField(rec, "exclusive"),
		boolField(rec, "no-wait"),
		tableField(rec, "arguments"),
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("rabbitmq: declare queue %s: %w", name, err)
	}
	return q, nil
}

// DeclareExchange declares the exchange described by an exchange.declare
// method record. The exchange type defaults to direct via the schema's
// default table.
func (t *Transport) DeclareExchange(rec wire.Record) error {
	if rec.SchemaName() != "exchange.declare" {
		return fmt.Errorf("rabbitmq: expected exchange.declare record, got %s", rec.SchemaName())
	}
	name := stringField(rec, "exchange")
	err := t.ch.ExchangeDeclare(
		name,
		stringField(rec, "type"),
		boolField(rec, "durable"),
		boolField(rec, "auto-delete"),
		boolField(rec, "internal"),
		boolField(rec, "no-wait"),
		tableField(rec, "arguments"),
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: declare exchange %s: %w", name, err)
	}
	return nil
}

// BindQueue creates the binding described by a queue.bind method record.
func (t *Transport) BindQueue(rec wire.Record) error {
	if rec.SchemaName() != "queue.bind" {
		return fmt.Errorf("rabbitmq: expected queue.bind record, got %s", rec.SchemaName())
	}
	queue := stringField(rec, "queue")
	exchange := stringField(rec, "exchange")
	err := t.ch.QueueBind(
		queue,
		stringField(rec, "routing-key"),
		exchange,
		boolField(rec, "no-wait"),
		tableField(rec, "arguments"),
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: bind queue %s to exchange %s: %w", queue, exchange, err)
	}
	return nil
}
