// Package contracts defines the message envelope exchanged with the
// transport layer and the reply-address resolution derived from it.
package contracts

import (
	"fmt"
	"strings"

	"github.com/glimte/warren-go/ident"
	"github.com/glimte/warren-go/wire"
)

// Message is the transport-facing envelope: the decoded property record
// plus the raw payload bytes, with the routing context the delivery
// arrived with. Messages are value types; the transport constructs them
// and never mutates them afterwards.
type Message struct {
	Properties  wire.Record
	Body        []byte
	Exchange    string
	RoutingKey  string
	Queue       string
	ConsumerTag string
}

// ReplyAddress routes a reply back to the requester.
type ReplyAddress struct {
	Exchange   string
	RoutingKey string
}

// PropertyList returns the key/value view of the message properties, one
// entry per schema field in wire order.
func (m *Message) PropertyList() []wire.KV {
	return m.Properties.KV()
}

// ReplyExpected reports whether the sender supplied a reply-to address.
func (m *Message) ReplyExpected() bool {
	return m.Properties.IsSet("reply-to")
}

// ReplyAddress resolves the message's reply-to value into an exchange
// and routing key. A value of the form "exchange:key" names both parts;
// the split is on the first colon, so routing keys may themselves
// contain colons. A bare value is the routing key, with sourceExchange
// filling in the exchange. Fails with ErrMissingReplyTo when the
// reply-to field is unset.
func (m *Message) ReplyAddress(sourceExchange string) (ReplyAddress, error) {
	v, exists := m.Properties.Get("reply-to")
	if !exists || !wire.IsSet(v) {
		return ReplyAddress{}, ErrMissingReplyTo
	}
	text, err := replyToText(v)
	if err != nil {
		return ReplyAddress{}, err
	}
	if exchange, key, found := strings.Cut(text, ":"); found {
		return ReplyAddress{Exchange: exchange, RoutingKey: key}, nil
	}
	return ReplyAddress{Exchange: sourceExchange, RoutingKey: text}, nil
}

func replyToText(v any) (string, error) {
	if b, ok := v.([]byte); ok {
		return string(b), nil
	}
	s, err := ident.Text(v)
	if err != nil {
		return "", fmt.Errorf("contracts: reply-to is not textual: %w", err)
	}
	return s, nil
}
