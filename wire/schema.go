package wire

import (
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownSchema is returned when a record is requested for a schema
// name that has not been registered.
var ErrUnknownSchema = errors.New("wire: unknown schema")

// Schema describes one fixed protocol record layout: the ordered field
// list of a protocol method (or the message property set) and the
// default values for fields the protocol declares optional. Field order
// is wire-significant and never changes at runtime.
type Schema struct {
	Name     string
	Fields   []string
	Defaults map[string]any
}

// PropertiesSchema is the schema name of the message property record.
const PropertiesSchema = "basic.properties"

// Built-in schemas follow the AMQP 0-9-1 field order of each method.
// Default values match what the protocol declares optional: tickets are
// deprecated and default to 0, argument tables default empty, the
// consumer tag defaults to server-assigned (empty).
var builtinSchemas = []Schema{
	{
		Name: PropertiesSchema,
		Fields: []string{
			"content-type", "content-encoding", "headers", "delivery-mode",
			"priority", "correlation-id", "reply-to", "expiration",
			"message-id", "timestamp", "type", "user-id", "app-id", "cluster-id",
		},
	},
	{
		Name: "queue.declare",
		Fields: []string{
			"ticket", "queue", "passive", "durable", "exclusive",
			"auto-delete", "no-wait", "arguments",
		},
		Defaults: map[string]any{
			"ticket":    0,
			"arguments": map[string]any{},
		},
	},
	{
		Name: "queue.bind",
		Fields: []string{
			"ticket", "queue", "exchange", "routing-key", "no-wait", "arguments",
		},
		Defaults: map[string]any{
			"ticket":    0,
			"arguments": map[string]any{},
		},
	},
	{
		Name: "queue.unbind",
		Fields: []string{
			"ticket", "queue", "exchange", "routing-key", "arguments",
		},
		Defaults: map[string]any{
			"ticket":    0,
			"arguments": map[string]any{},
		},
	},
	{
		Name: "queue.delete",
		Fields: []string{
			"ticket", "queue", "if-unused", "if-empty", "no-wait",
		},
		Defaults: map[string]any{
			"ticket": 0,
		},
	},
	{
		Name: "basic.consume",
		Fields: []string{
			"ticket", "queue", "consumer-tag", "no-local", "no-ack",
			"exclusive", "no-wait", "arguments",
		},
		Defaults: map[string]any{
			"ticket":       0,
			"consumer-tag": []byte{},
			"arguments":    map[string]any{},
		},
	},
	{
		Name: "basic.publish",
		Fields: []string{
			"ticket", "exchange", "routing-key", "mandatory", "immediate",
		},
		Defaults: map[string]any{
			"ticket": 0,
		},
	},
	{
		Name: "exchange.declare",
		Fields: []string{
			"ticket", "exchange", "type", "passive", "durable",
			"auto-delete", "internal", "no-wait", "arguments",
		},
		Defaults: map[string]any{
			"ticket":    0,
			"type":      "direct",
			"arguments": map[string]any{},
		},
	},
	{
		Name: "basic.qos",
		Fields: []string{
			"prefetch-size", "prefetch-count", "global",
		},
		Defaults: map[string]any{
			"prefetch-size": 0,
		},
	},
}

var (
	schemaMu sync.RWMutex
	schemas  = make(map[string]Schema)
)

func init() {
	for _, s := range builtinSchemas {
		schemas[s.Name] = s
	}
}

// RegisterSchema adds or replaces a schema definition. Protocol
// extensions register their method layouts before building records.
// Registered schemas and their default values must be treated as
// read-only constants.
func RegisterSchema(s Schema) error {
	if s.Name == "" {
		return fmt.Errorf("wire: schema name cannot be empty")
	}
	if len(s.Fields) == 0 {
		return fmt.Errorf("wire: schema %s has no fields", s.Name)
	}
	schemaMu.Lock()
	defer schemaMu.Unlock()
	schemas[s.Name] = s
	return nil
}

// LookupSchema retrieves a registered schema by name.
func LookupSchema(name string) (Schema, error) {
	schemaMu.RLock()
	defer schemaMu.RUnlock()
	s, exists := schemas[name]
	if !exists {
		return Schema{}, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	return s, nil
}
