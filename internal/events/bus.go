package events

import (
	"fmt"
	"log/slog"
	"sync"
)

// Listener receives events. Listeners must only read state or queue work;
// they must not drive the simulation from inside a callback.
type Listener func(Event)

type subscription struct {
	id uint64
	fn Listener
}

// Bus is a per-kind listener registry. A panicking listener is recovered and
// logged; the remaining listeners still run.
type Bus struct {
	mu       sync.RWMutex
	byKind   map[Kind][]subscription
	wildcard []subscription
	nextID   uint64
	logger   *slog.Logger
}

// NewBus creates an empty bus. A nil logger discards listener failures.
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		byKind: make(map[Kind][]subscription),
		logger: logger,
	}
}

// Subscribe registers fn for one kind and returns its unsubscribe function
func (b *Bus) Subscribe(kind Kind, fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.byKind[kind] = append(b.byKind[kind], subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.byKind[kind] = remove(b.byKind[kind], id)
	}
}

// SubscribeAll registers fn for every kind
func (b *Bus) SubscribeAll(fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.wildcard = append(b.wildcard, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.wildcard = remove(b.wildcard, id)
	}
}

// Emit dispatches synchronously: kind listeners first, then wildcard
// listeners, each in subscription order.
func (b *Bus) Emit(kind Kind, payload any) {
	b.mu.RLock()
	subs := make([]subscription, 0, len(b.byKind[kind])+len(b.wildcard))
	subs = append(subs, b.byKind[kind]...)
	subs = append(subs, b.wildcard...)
	b.mu.RUnlock()

	ev := Event{Kind: kind, Payload: payload}
	for _, s := range subs {
		b.dispatch(s, ev)
	}
}

// Notify emits a Notification event
func (b *Bus) Notify(n Notice) {
	b.Emit(Notification, n)
}

// ListenerCount returns the number of listeners that receive kind
func (b *Bus) ListenerCount(kind Kind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byKind[kind]) + len(b.wildcard)
}

func (b *Bus) dispatch(s subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event listener failed",
				"event", ev.Kind.String(),
				"listener", s.id,
				"panic", fmt.Sprint(r))
		}
	}()
	s.fn(ev)
}

func remove(subs []subscription, id uint64) []subscription {
	for i, s := range subs {
		if s.id == id {
			out := make([]subscription, 0, len(subs)-1)
			out = append(out, subs[:i]...)
			return append(out, subs[i+1:]...)
		}
	}
	return subs
}
