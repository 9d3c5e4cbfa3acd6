package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishRunsEveryHandlerDespiteFailures(t *testing.T) {
	d := NewInMemoryDispatcher(nil, nil)

	var calls []string
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		calls = append(calls, "first")
		return errors.New("smtp down")
	})
	d.Subscribe(EventTicketCreated, func(ctx context.Context, e Event) error {
		calls = append(calls, "second:"+e.TicketID)
		assert.NotEmpty(t, e.ID)
		assert.False(t, e.Timestamp.IsZero())
		return nil
	})
	d.Subscribe(EventTicketAssigned, func(ctx context.Context, e Event) error {
		calls = append(calls, "assigned")
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "0006"}))
	assert.Equal(t, []string{"first", "second:0006"}, calls)
}
