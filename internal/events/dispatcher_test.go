package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherRoutesByTypeAndWildcard(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var created, all []string
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		created = append(created, e.TicketID)
		return nil
	})
	d.SubscribeAll(func(_ context.Context, e Event) error {
		all = append(all, e.TicketID)
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "a"}))
	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketAssigned, TicketID: "b"}))

	assert.Equal(t, []string{"a"}, created)
	assert.Equal(t, []string{"a", "b"}, all)
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	called := false
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
		called = true
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketStatusChanged}))
	assert.True(t, called)
}

func TestBridgeEnvelopeSkipsOwnMessages(t *testing.T) {
	mine := &RedisBridge{instanceID: "one"}
	other := &RedisBridge{instanceID: "two"}

	data, err := mine.encode(Event{ID: "e1", Type: EventTicketCreated, TicketID: "t1", OwnerID: "u1"})
	require.NoError(t, err)

	_, remote, err := mine.decode(string(data))
	require.NoError(t, err)
	assert.False(t, remote)

	event, remote, err := other.decode(string(data))
	require.NoError(t, err)
	assert.True(t, remote)
	assert.Equal(t, "one", event.Origin)
	assert.Equal(t, "u1", event.OwnerID)

	_, _, err = other.decode("{not json")
	assert.Error(t, err)
}

func TestBridgeForwardIgnoresRelayedEvents(t *testing.T) {
	b := &RedisBridge{instanceID: "one"}
	// client is nil, so reaching Publish would panic
	assert.NoError(t, b.forward(context.Background(), Event{Origin: "two"}))
}
