package event_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/treesync/internal/event"
)

func TestDispatchOrder(t *testing.T) {
	t.Parallel()

	m := event.NewManager()
	var order []int
	m.Subscribe(event.TypeTreeUpdated, func(event.Event) bool {
		order = append(order, 1)
		return false
	})
	m.Subscribe(event.TypeTreeUpdated, func(event.Event) bool {
		order = append(order, 2)
		return false
	})
	m.Subscribe(event.TypeTreeUpdated, func(event.Event) bool {
		order = append(order, 3)
		return false
	})

	m.Dispatch(event.TypeTreeUpdated, nil)
	assert.Equal(t, []int{1, 2, 3}, order)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	m := event.NewManager()
	calls := 0
	id := m.Subscribe(event.TypeFirstParse, func(event.Event) bool {
		calls++
		return false
	})

	m.Dispatch(event.TypeFirstParse, nil)
	m.Unsubscribe(event.TypeFirstParse, id)
	m.Dispatch(event.TypeFirstParse, nil)
	assert.Equal(t, 1, calls)

	// Removing an already-removed handler is a no-op.
	m.Unsubscribe(event.TypeFirstParse, id)
	m.Unsubscribe(event.TypeFirstParse, 9999)
}

func TestUnsubscribeDuringDispatch(t *testing.T) {
	t.Parallel()

	m := event.NewManager()
	var order []string
	var selfID event.HandlerID
	selfID = m.Subscribe(event.TypeBeforeDisable, func(event.Event) bool {
		order = append(order, "self")
		m.Unsubscribe(event.TypeBeforeDisable, selfID)
		return false
	})
	m.Subscribe(event.TypeBeforeDisable, func(event.Event) bool {
		order = append(order, "other")
		return false
	})

	m.Dispatch(event.TypeBeforeDisable, nil)
	m.Dispatch(event.TypeBeforeDisable, nil)
	assert.Equal(t, []string{"self", "other", "other"}, order)
}

func TestDispatchCarriesData(t *testing.T) {
	t.Parallel()

	m := event.NewManager()
	var got event.BufferAfterChangeData
	m.Subscribe(event.TypeBufferAfterChange, func(e event.Event) bool {
		got = e.Data.(event.BufferAfterChangeData)
		return false
	})

	m.Dispatch(event.TypeBufferAfterChange, event.BufferAfterChangeData{Beg: 1, NewEnd: 2, OldLen: 0})
	assert.Equal(t, event.BufferAfterChangeData{Beg: 1, NewEnd: 2, OldLen: 0}, got)
}
