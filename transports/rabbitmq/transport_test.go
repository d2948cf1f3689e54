package rabbitmq

import (
	"context"
	"testing"
	"time"

	"github.com/glimte/warren-go/contracts"
	"github.com/glimte/warren-go/wire"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockChannel struct {
	mock.Mock
}

func (m *mockChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(ctx, exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

func (m *mockChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	ret := m.Called(queue, consumer, autoAck, exclusive, noLocal, noWait, args)
	var deliveries <-chan amqp.Delivery
	if ch := ret.Get(0); ch != nil {
		deliveries = ch.(chan amqp.Delivery)
	}
	return deliveries, ret.Error(1)
}

func (m *mockChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	ret := m.Called(name, durable, autoDelete, exclusive, noWait, args)
	return ret.Get(0).(amqp.Queue), ret.Error(1)
}

func (m *mockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	ret := m.Called(name, kind, durable, autoDelete, internal, noWait, args)
	return ret.Error(0)
}

func (m *mockChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	ret := m.Called(name, key, exchange, noWait, args)
	return ret.Error(0)
}

func (m *mockChannel) Close() error {
	ret := m.Called()
	return ret.Error(0)
}

type fakeAcknowledger struct {
	acked  chan uint64
	nacked chan uint64
}

func newFakeAcknowledger() *fakeAcknowledger {
	return &fakeAcknowledger{
		acked:  make(chan uint64, 1),
		nacked: make(chan uint64, 1),
	}
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	f.acked <- tag
	return nil
}

func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked <- tag
	return nil
}

func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.nacked <- tag
	return nil
}

func TestToPublishing(t *testing.T) {
	t.Run("maps set fields onto the publishing struct", func(t *testing.T) {
		now := time.Now().UTC().Truncate(time.Second)
		props := wire.BuildProperties([]wire.KV{
			{Key: "content-type", Value: "application/cbor"},
			{Key: "reply-to", Value: "replies:order.1"},
			{Key: "correlation-id", Value: "corr-1"},
			{Key: "delivery-mode", Value: uint8(2)},
			{Key: "timestamp", Value: now},
			{Key: "headers", Value: map[string]any{"x-origin": "test"}},
		})

		pub := ToPublishing(props, []byte("body"))

		assert.Equal(t, "application/cbor", pub.ContentType)
		assert.Equal(t, "replies:order.1", pub.ReplyTo)
		assert.Equal(t, "corr-1", pub.CorrelationId)
		assert.Equal(t, uint8(2), pub.DeliveryMode)
		assert.Equal(t, now, pub.Timestamp)
		assert.Equal(t, amqp.Table{"x-origin": "test"}, pub.Headers)
		assert.Equal(t, []byte("body"), pub.Body)
	})

	t.Run("unset fields stay zero", func(t *testing.T) {
		pub := ToPublishing(wire.BuildProperties(nil), nil)

		assert.Empty(t, pub.ContentType)
		assert.Empty(t, pub.ReplyTo)
		assert.Zero(t, pub.DeliveryMode)
		assert.True(t, pub.Timestamp.IsZero())
		assert.Nil(t, pub.Headers)
	})
}

func TestFromDelivery(t *testing.T) {
	t.Run("rebuilds the envelope with set properties", func(t *testing.T) {
		msg := FromDelivery(amqp.Delivery{
			ContentType:   "application/cbor",
			ReplyTo:       "ex1:key1",
			CorrelationId: "corr-1",
			Exchange:      "orders",
			RoutingKey:    "order.created",
			Body:          []byte("body"),
		})

		assert.True(t, msg.Properties.IsSet("reply-to"))
		assert.True(t, msg.Properties.IsSet("correlation-id"))
		assert.False(t, msg.Properties.IsSet("message-id"))
		assert.Equal(t, "orders", msg.Exchange)
		assert.Equal(t, "order.created", msg.RoutingKey)

		addr, err := msg.ReplyAddress("src")
		require.NoError(t, err)
		assert.Equal(t, contracts.ReplyAddress{Exchange: "ex1", RoutingKey: "key1"}, addr)
	})

	t.Run("empty delivery leaves every property unset", func(t *testing.T) {
		msg := FromDelivery(amqp.Delivery{})

		for _, kv := range msg.PropertyList() {
			assert.Equal(t, wire.Unset, kv.Value, kv.Key)
		}
		assert.False(t, msg.ReplyExpected())
	})
}

func TestTransportPublish(t *testing.T) {
	t.Run("publishes the flattened record", func(t *testing.T) {
		ch := &mockChannel{}
		ch.On("PublishWithContext", mock.Anything, "orders", "order.created", false, false,
			mock.MatchedBy(func(pub amqp.Publishing) bool {
				return pub.ContentType == "application/cbor" && string(pub.Body) == "body"
			})).Return(nil)

		tr := NewTransport(ch)
		props := wire.BuildProperties([]wire.KV{{Key: "content-type", Value: "application/cbor"}})
		err := tr.Publish(context.Background(), "orders", "order.created", props, []byte("body"))

		require.NoError(t, err)
		ch.AssertExpectations(t)
	})

	t.Run("wraps broker failures", func(t *testing.T) {
		ch := &mockChannel{}
		ch.On("PublishWithContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(assert.AnError)

		tr := NewTransport(ch)
		err := tr.Publish(context.Background(), "orders", "k", wire.BuildProperties(nil), nil)

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestTransportSubscribe(t *testing.T) {
	t.Run("acknowledges handled deliveries", func(t *testing.T) {
		deliveries := make(chan amqp.Delivery, 1)
		ch := &mockChannel{}
		ch.On("Consume", "tasks", "", false, false, false, false, amqp.Table(nil)).
			Return(deliveries, nil)

		tr := NewTransport(ch)
		handled := make(chan *contracts.Message, 1)
		err := tr.Subscribe(context.Background(), "tasks", func(ctx context.Context, msg *contracts.Message) error {
			handled <- msg
			return nil
		})
		require.NoError(t, err)

		ack := newFakeAcknowledger()
		deliveries <- amqp.Delivery{
			Acknowledger: ack,
			RoutingKey:   "task.run",
			Body:         []byte("body"),
		}

		select {
		case msg := <-handled:
			assert.Equal(t, "tasks", msg.Queue)
			assert.Equal(t, "task.run", msg.RoutingKey)
		case <-time.After(time.Second):
			t.Fatal("handler was not invoked")
		}

		select {
		case <-ack.acked:
		case <-time.After(time.Second):
			t.Fatal("delivery was not acknowledged")
		}
	})

	t.Run("rejects deliveries the handler fails", func(t *testing.T) {
		deliveries := make(chan amqp.Delivery, 1)
		ch := &mockChannel{}
		ch.On("Consume", "tasks", "", false, false, false, false, amqp.Table(nil)).
			Return(deliveries, nil)

		tr := NewTransport(ch)
		err := tr.Subscribe(context.Background(), "tasks", func(ctx context.Context, msg *contracts.Message) error {
			return assert.AnError
		})
		require.NoError(t, err)

		ack := newFakeAcknowledger()
		deliveries <- amqp.Delivery{Acknowledger: ack}

		select {
		case <-ack.nacked:
		case <-time.After(time.Second):
			t.Fatal("delivery was not rejected")
		}
	})

	t.Run("consume failure surfaces immediately", func(t *testing.T) {
		ch := &mockChannel{}
		ch.On("Consume", "tasks", "", false, false, false, false, amqp.Table(nil)).
			Return(nil, assert.AnError)

		tr := NewTransport(ch)
		err := tr.Subscribe(context.Background(), "tasks", func(ctx context.Context, msg *contracts.Message) error {
			return nil
		})

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestDeclareQueue(t *testing.T) {
	t.Run("reads fields from a queue.declare record", func(t *testing.T) {
		ch := &mockChannel{}
		ch.On("QueueDeclare", "tasks", true, false, false, false, amqp.Table{}).
			Return(amqp.Queue{Name: "tasks"}, nil)

		rec, err := wire.BuildRecord("queue.declare", []wire.KV{
			{Key: "queue", Value: "tasks"},
			{Key: "durable", Value: true},
		})
		require.NoError(t, err)

		tr := NewTransport(ch)
		q, err := tr.DeclareQueue(rec)

		require.NoError(t, err)
		assert.Equal(t, "tasks", q.Name)
		ch.AssertExpectations(t)
	})

	t.Run("rejects records of another schema", func(t *testing.T) {
		rec, err := wire.BuildRecord("queue.bind", nil)
		require.NoError(t, err)

		tr := NewTransport(&mockChannel{})
		_, err = tr.DeclareQueue(rec)
		assert.Error(t, err)
	})
}

func TestDeclareExchange(t *testing.T) {
	t.Run("exchange type comes from the default table", func(t *testing.T) {
		ch := &mockChannel{}
		ch.On("ExchangeDeclare", "orders", "direct", true, false, false, false, amqp.Table{}).
			Return(nil)

		rec, err := wire.BuildRecord("exchange.declare", []wire.KV{
			{Key: "exchange", Value: "orders"},
			{Key: "durable", Value: true},
		})
		require.NoError(t, err)

		tr := NewTransport(ch)
		require.NoError(t, tr.DeclareExchange(rec))
		ch.AssertExpectations(t)
	})
}

func TestBindQueue(t *testing.T) {
	t.Run("reads fields from a queue.bind record", func(t *testing.T) {
		ch := &mockChannel{}
		ch.On("QueueBind", "tasks", "task.#", "orders", false, amqp.Table{}).
			Return(nil)

		rec, err := wire.BuildRecord("queue.bind", []wire.KV{
			{Key: "queue", Value: "tasks"},
			{Key: "exchange", Value: "orders"},
			{Key: "routing-key", Value: "task.#"},
		})
		require.NoError(t, err)

		tr := NewTransport(ch)
		require.NoError(t, tr.BindQueue(rec))
		ch.AssertExpectations(t)
	})
}
