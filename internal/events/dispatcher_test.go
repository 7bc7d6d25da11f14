package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryDispatcher(t *testing.T) {
	ctx := context.Background()

	t.Run("delivers to matching subscribers only", func(t *testing.T) {
		d := NewInMemoryDispatcher()

		var clicked, sent int
		d.Subscribe(EventLinkClicked, func(ctx context.Context, e Event) error {
			clicked++
			return nil
		})
		d.Subscribe(EventPhishSent, func(ctx context.Context, e Event) error {
			sent++
			return nil
		})

		require.NoError(t, d.Publish(ctx, Event{Type: EventLinkClicked, StaffID: "s1", Timestamp: time.Now()}))

		assert.Equal(t, 1, clicked)
		assert.Zero(t, sent)
	})

	t.Run("handler error does not block later handlers", func(t *testing.T) {
		d := NewInMemoryDispatcher()

		var reached bool
		d.Subscribe(EventPhishSent, func(ctx context.Context, e Event) error {
			return errors.New("boom")
		})
		d.Subscribe(EventPhishSent, func(ctx context.Context, e Event) error {
			reached = true
			return nil
		})

		require.NoError(t, d.Publish(ctx, Event{Type: EventPhishSent}))
		assert.True(t, reached)
	})

	t.Run("publish without subscribers is a no-op", func(t *testing.T) {
		d := NewInMemoryDispatcher()
		assert.NoError(t, d.Publish(ctx, Event{Type: EventRiskReset}))
	})
}
