package rabbitmq

import (
	"time"

	"github.com/glimte/warren-go/contracts"
	"github.com/glimte/warren-go/ident"
	"github.com/glimte/warren-go/wire"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ToPublishing flattens a basic.properties record onto the amqp
// publishing struct. Unset fields keep their zero values.
func ToPublishing(props wire.Record, body []byte) amqp.Publishing {
	return amqp.Publishing{
		ContentType:     stringField(props, "content-type"),
		ContentEncoding: stringField(props, "content-encoding"),
		Headers:         tableField(props, "headers"),
		DeliveryMode:    uint8Field(props, "delivery-mode"),
		Priority:        uint8Field(props, "priority"),
		CorrelationId:   stringField(props, "correlation-id"),
		ReplyTo:         stringField(props, "reply-to"),
		Expiration:      stringField(props, "expiration"),
		MessageId:       stringField(props, "message-id"),
		Timestamp:       timeField(props, "timestamp"),
		Type:            stringField(props, "type"),
		UserId:          stringField(props, "user-id"),
		AppId:           stringField(props, "app-id"),
		Body:            body,
	}
}

// FromDelivery rebuilds the message envelope from a broker delivery.
// Wire fields the broker did not carry stay unset in the record.
func FromDelivery(d amqp.Delivery) *contracts.Message {
	var kvs []wire.KV
	add := func(key string, value any) {
		kvs = append(kvs, wire.KV{Key: key, Value: value})
	}
	if d.ContentType != "" {
		add("content-type", d.ContentType)
	}
	if d.ContentEncoding != "" {
		add("content-encoding", d.ContentEncoding)
	}
	if len(d.Headers) > 0 {
		add("headers", map[string]any(d.Headers))
	}
	if d.DeliveryMode != 0 {
		add("delivery-mode", d.DeliveryMode)
	}
	if d.Priority != 0 {
		add("priority", d.Priority)
	}
	if d.CorrelationId != "" {
		add("correlation-id", d.CorrelationId)
	}
	if d.ReplyTo != "" {
		add("reply-to", d.ReplyTo)
	}
	if d.Expiration != "" {
		add("expiration", d.Expiration)
	}
	if d.MessageId != "" {
		add("message-id", d.MessageId)
	}
	if !d.Timestamp.IsZero() {
		add("timestamp", d.Timestamp)
	}
	if d.Type != "" {
		add("type", d.Type)
	}
	if d.UserId != "" {
		add("user-id", d.UserId)
	}
	if d.AppId != "" {
		add("app-id", d.AppId)
	}
	return &contracts.Message{
		Properties:  wire.BuildProperties(kvs),
		Body:        d.Body,
		Exchange:    d.Exchange,
		RoutingKey:  d.RoutingKey,
		ConsumerTag: d.ConsumerTag,
	}
}

func stringField(rec wire.Record, name string) string {
	v, exists := rec.Get(name)
	if !exists || !wire.IsSet(v) {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case []byte:
		return string(x)
	case ident.Name:
		return string(x)
	default:
		return ""
	}
}

func boolField(rec wire.Record, name string) bool {
	v, exists := rec.Get(name)
	if !exists || !wire.IsSet(v) {
		return false
	}
	b, _ := v.(bool)
	return b
}

func uint8Field(rec wire.Record, name string) uint8 {
	v, exists := rec.Get(name)
	if !exists || !wire.IsSet(v) {
		return 0
	}
	switch x := v.(type) {
	case uint8:
		return x
	case int:
		return uint8(x)
	case int64:
		return uint8(x)
	case uint64:
		return uint8(x)
	default:
		return 0
	}
}

func timeField(rec wire.Record, name string) time.Time {
	v, exists := rec.Get(name)
	if !exists || !wire.IsSet(v) {
		return time.Time{}
	}
	switch x := v.(type) {
	case time.Time:
		return x
	case int64:
		return time.Unix(x, 0)
	default:
		return time.Time{}
	}
}

func tableField(rec wire.Record, name string) amqp.Table {
	v, exists := rec.Get(name)
	if !exists || !wire.IsSet(v) {
		return nil
	}
	switch x := v.(type) {
	case amqp.Table:
		return x
	case map[string]any:
		return amqp.Table(x)
	default:
		return nil
	}
}
