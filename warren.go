// Copyright 2024 Warren Contributors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package warren is a lightweight AMQP messaging toolkit: a dual-format
// payload codec, a protocol record marshaller with schema defaults, and
// a publisher/subscriber facade over a pluggable transport.
package warren

import (
	"context"
	"log/slog"

	"github.com/glimte/warren-go/codec"
	"github.com/glimte/warren-go/contracts"
	"github.com/glimte/warren-go/messaging"
)

// Client bundles a publisher and a subscriber over one transport.
type Client struct {
	transport  messaging.Transport
	publisher  *messaging.Publisher
	subscriber *messaging.Subscriber
}

type clientConfig struct {
	codec  *codec.Codec
	logger *slog.Logger
	source string
}

// ClientOption configures the client.
type ClientOption func(*clientConfig)

// WithClientCodec sets the payload codec shared by publisher and
// subscriber.
func WithClientCodec(c *codec.Codec) ClientOption {
	return func(cfg *clientConfig) {
		cfg.codec = c
	}
}

// WithClientLogger sets the logger.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(cfg *clientConfig) {
		cfg.logger = logger
	}
}

// WithClientSourceExchange sets the exchange replies fall back to.
func WithClientSourceExchange(exchange string) ClientOption {
	return func(cfg *clientConfig) {
		cfg.source = exchange
	}
}

// NewClient creates a client over the given transport.
func NewClient(transport messaging.Transport, options ...ClientOption) *Client {
	cfg := clientConfig{
		codec:  codec.Default(),
		logger: slog.Default(),
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return &Client{
		transport: transport,
		publisher: messaging.NewPublisher(transport,
			messaging.WithCodec(cfg.codec),
			messaging.WithLogger(cfg.logger),
			messaging.WithSourceExchange(cfg.source)),
		subscriber: messaging.NewSubscriber(transport,
			messaging.WithSubscriberCodec(cfg.codec),
			messaging.WithSubscriberLogger(cfg.logger)),
	}
}

// Publisher returns the client's publisher.
func (c *Client) Publisher() *messaging.Publisher {
	return c.publisher
}

// Subscriber returns the client's subscriber.
func (c *Client) Subscriber() *messaging.Subscriber {
	return c.subscriber
}

// Publish encodes payload and sends it to exchange/routingKey.
func (c *Client) Publish(ctx context.Context, exchange, routingKey string, payload any, options ...messaging.PublishOption) error {
	return c.publisher.Publish(ctx, exchange, routingKey, payload, options...)
}

// Reply routes payload back to the reply address carried by to.
func (c *Client) Reply(ctx context.Context, to *contracts.Message, payload any, options ...messaging.PublishOption) error {
	return c.publisher.Reply(ctx, to, payload, options...)
}

// Subscribe registers handler on queue.
func (c *Client) Subscribe(ctx context.Context, queue string, handler messaging.Handler) error {
	return c.subscriber.Subscribe(ctx, queue, handler)
}

// Close closes the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}
