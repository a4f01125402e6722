package ecs

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

const (
	EventProjectileSpawned = "projectile_spawned"
	EventPicked            = "picked"
	EventDropped           = "dropped"
	EventSelected          = "selected"
	EventHoverEnter        = "hover_enter"
	EventHoverExit         = "hover_exit"
)

// EntityEvent is the payload of the interaction events above.
type EntityEvent struct {
	Source Entity
	Target Entity
}

// EventQueue is a simple FIFO queue, flushed at the end of every Step.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
