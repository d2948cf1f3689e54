// Package messaging provides the publisher and subscriber facade over a
// pluggable Transport.
//
// The Publisher encodes application values with the payload codec,
// assembles the property record (stamping message-id, timestamp and
// content-type) and hands the framed message to the transport. Its Reply
// method resolves the reply address carried by an incoming message and
// routes the response back with the correlation id preserved.
//
// The Subscriber runs the opposite direction: every delivery's payload
// is decoded, with the codec's document-to-native fallback, before the
// handler sees it.
//
// Transports are external collaborators; see transports/rabbitmq for the
// AMQP implementation.
package messaging
