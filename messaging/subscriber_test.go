package messaging

import (
	"context"
	"testing"

	"github.com/glimte/warren-go/codec"
	"github.com/glimte/warren-go/contracts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestSubscribe(t *testing.T) {
	t.Run("decodes payloads before dispatch", func(t *testing.T) {
		transport := &mockTransport{}
		var delivery DeliveryHandler
		transport.On("Subscribe", mock.Anything, "tasks", mock.Anything).
			Run(func(args mock.Arguments) {
				delivery = args.Get(2).(DeliveryHandler)
			}).Return(nil)

		s := NewSubscriber(transport)
		var gotPayload any
		err := s.Subscribe(context.Background(), "tasks", func(ctx context.Context, msg *contracts.Message, payload any) error {
			gotPayload = payload
			return nil
		})
		require.NoError(t, err)
		require.NotNil(t, delivery)

		body, err := codec.Encode(map[string]any{"ok": true})
		require.NoError(t, err)

		err = delivery(context.Background(), &contracts.Message{Body: body})
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"ok": true}, gotPayload)
	})

	t.Run("native payloads dispatch through the fallback", func(t *testing.T) {
		transport := &mockTransport{}
		var delivery DeliveryHandler
		transport.On("Subscribe", mock.Anything, "tasks", mock.Anything).
			Run(func(args mock.Arguments) {
				delivery = args.Get(2).(DeliveryHandler)
			}).Return(nil)

		s := NewSubscriber(transport)
		var gotPayload any
		err := s.Subscribe(context.Background(), "tasks", func(ctx context.Context, msg *contracts.Message, payload any) error {
			gotPayload = payload
			return nil
		})
		require.NoError(t, err)

		body, err := codec.EncodeAs(42, codec.FormatNative)
		require.NoError(t, err)

		err = delivery(context.Background(), &contracts.Message{Body: body})
		require.NoError(t, err)
		assert.Equal(t, 42, gotPayload)
	})

	t.Run("undecodable payloads are not dispatched", func(t *testing.T) {
		transport := &mockTransport{}
		var delivery DeliveryHandler
		transport.On("Subscribe", mock.Anything, "tasks", mock.Anything).
			Run(func(args mock.Arguments) {
				delivery = args.Get(2).(DeliveryHandler)
			}).Return(nil)

		s := NewSubscriber(transport)
		called := false
		err := s.Subscribe(context.Background(), "tasks", func(ctx context.Context, msg *contracts.Message, payload any) error {
			called = true
			return nil
		})
		require.NoError(t, err)

		err = delivery(context.Background(), &contracts.Message{Body: []byte{0x9f}})
		assert.ErrorIs(t, err, codec.ErrMalformedPayload)
		assert.False(t, called)
	})

	t.Run("rejects a nil handler", func(t *testing.T) {
		s := NewSubscriber(&mockTransport{})
		err := s.Subscribe(context.Background(), "tasks", nil)
		assert.Error(t, err)
	})
}
