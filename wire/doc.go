// Package wire converts loosely-typed key/value lists into fixed-schema
// protocol records.
//
// Every AMQP method and the message property set have a compile-time
// declared field order. Callers assemble partial key/value lists and the
// marshaller produces complete records:
//   - fields the protocol declares optional are filled from the schema's
//     default table when the caller omits them
//   - an explicit caller value always wins over a default
//   - fields with neither a value nor a default resolve to the Unset
//     sentinel rather than erroring
//   - output order is always the schema's wire order, never the order of
//     the caller's list
//
// Example:
//
//	rec, err := wire.BuildRecord("queue.declare", []wire.KV{
//		{Key: "queue", Value: "orders"},
//		{Key: "durable", Value: true},
//	})
//	// rec carries ticket = 0 and arguments = {} from the default table;
//	// passive, exclusive, auto-delete and no-wait are wire.Unset.
//
// Records are immutable value types and safe for concurrent use. Schema
// and default tables are protocol constants; extensions may add their own
// layouts with RegisterSchema.
package wire
