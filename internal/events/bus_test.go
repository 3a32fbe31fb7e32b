package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	kind EventType
	name string
}

func (e testEvent) EventType() EventType { return e.kind }

func TestPublish_TypedHandlersBeforeGlobal(t *testing.T) {
	bus := NewBus()
	var calls []string

	bus.SubscribeAll(func(e Event) error {
		calls = append(calls, "all:"+e.(testEvent).name)
		return nil
	})
	bus.Subscribe("created", func(e Event) error {
		calls = append(calls, "created:"+e.(testEvent).name)
		return nil
	})
	bus.Subscribe("deleted", func(e Event) error {
		calls = append(calls, "deleted:"+e.(testEvent).name)
		return nil
	})

	require.NoError(t, bus.Publish(testEvent{kind: "created", name: "a"}))

	assert.Equal(t, []string{"created:a", "all:a"}, calls)
	assert.Equal(t, 3, bus.HandlerCount())
}

func TestPublish_HandlerErrorStopsDispatch(t *testing.T) {
	bus := NewBus()
	boom := errors.New("boom")
	called := false

	bus.Subscribe("created", func(Event) error { return boom })
	bus.SubscribeAll(func(Event) error {
		called = true
		return nil
	})

	err := bus.Publish(testEvent{kind: "created"})

	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
}

func TestPublish_ClosedBus(t *testing.T) {
	bus := NewBus()
	bus.Close()

	err := bus.Publish(testEvent{kind: "created"})

	assert.ErrorIs(t, err, ErrBusClosed)
}

func TestPublishAll_InOrder(t *testing.T) {
	bus := NewBus()
	var names []string
	bus.SubscribeAll(func(e Event) error {
		names = append(names, e.(testEvent).name)
		return nil
	})

	err := bus.PublishAll([]Event{
		testEvent{kind: "x", name: "1"},
		testEvent{kind: "y", name: "2"},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, names)
}

func TestHandlerCanSubscribeDuringPublish(t *testing.T) {
	bus := NewBus()
	bus.Subscribe("created", func(Event) error {
		bus.Subscribe("created", func(Event) error { return nil })
		return nil
	})

	require.NoError(t, bus.Publish(testEvent{kind: "created"}))
	assert.Equal(t, 2, bus.HandlerCount())
}
