// Package eventbus is the in-process publish/subscribe fabric the debug
// surface (§2.2) uses to learn about Supervisor transitions without
// polling: the hook cmd/roboone installs with Context.OnTransition
// publishes here, and the chi/websocket debug server subscribes. Task
// Handler completions are not published. It never touches the wire protocol between servers —
// that remains the Messaging Fabric's job (§4.1) — this bus is purely
// local, in-process fan-out.
package eventbus

import (
	"roboone/internal/datastructures"

	"github.com/google/uuid"
)

// Event is anything a subscriber can receive: an event type name plus an
// opaque payload the handler knows how to interpret.
type Event interface {
	Type() string
	Data() interface{}
}

type event struct {
	typ  string
	data interface{}
}

func (e *event) Type() string      { return e.typ }
func (e *event) Data() interface{} { return e.data }

// New builds an event ready to Publish.
func New(typ string, data interface{}) Event {
	return &event{typ: typ, data: data}
}

// Handler receives published events. Handlers run in their own goroutine,
// so a slow subscriber never blocks the publisher or other subscribers.
type Handler func(Event)

// Subscription identifies one subscriber's registration, returned by
// Subscribe for later Unsubscribe.
type Subscription struct {
	id string
}

// Bus is a thread-safe, in-process publish/subscribe event bus keyed by
// event type name.
type Bus struct {
	subscriptions *datastructures.SafeMap[string, *datastructures.Set[string]]
	handlers      *datastructures.SafeMap[string, Handler]
}

// NewBus constructs an empty Bus.
func NewBus() *Bus {
	return &Bus{
		subscriptions: datastructures.NewSafeMap[string, *datastructures.Set[string]](),
		handlers:      datastructures.NewSafeMap[string, Handler](),
	}
}

// Subscribe registers handler for eventType, returning a Subscription to
// pass to Unsubscribe later.
func (b *Bus) Subscribe(eventType string, handler Handler) *Subscription {
	sub := &Subscription{id: uuid.New().String()}
	b.handlers.Set(sub.id, handler)

	set, ok := b.subscriptions.Get(eventType)
	if !ok {
		set = datastructures.NewSet[string]()
		b.subscriptions.Set(eventType, set)
	}
	set.Add(sub.id)
	return sub
}

// Unsubscribe removes sub from eventType. A no-op if sub is nil or was
// never subscribed to eventType.
func (b *Bus) Unsubscribe(eventType string, sub *Subscription) {
	if sub == nil {
		return
	}
	if set, ok := b.subscriptions.Get(eventType); ok {
		set.Remove(sub.id)
	}
	b.handlers.Delete(sub.id)
}

// Publish fans e out to every subscriber of e.Type(), each in its own
// goroutine. A no-op if there are no subscribers.
func (b *Bus) Publish(e Event) {
	if e == nil {
		return
	}
	set, ok := b.subscriptions.Get(e.Type())
	if !ok {
		return
	}
	for _, id := range set.Values() {
		if handler, ok := b.handlers.Get(id); ok {
			go handler(e)
		}
	}
}

// PublishData is a convenience wrapper around Publish(New(eventType, data)).
func (b *Bus) PublishData(eventType string, data interface{}) {
	b.Publish(New(eventType, data))
}
