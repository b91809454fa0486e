package input

import (
	"log/slog"
	"sync"
)

type HandlerFunc func(a Action)

type Subscription struct {
	action Action
	id     uint64
}

type subscriber struct {
	id      uint64
	handler HandlerFunc
}

// Bus dispatches edge-triggered actions synchronously on the publishing
// goroutine, in subscription order.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Action][]subscriber
	nextID   uint64
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Action][]subscriber),
	}
}

func (b *Bus) Subscribe(action Action, handler HandlerFunc) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.handlers[action] = append(b.handlers[action], subscriber{id: b.nextID, handler: handler})
	return Subscription{action: action, id: b.nextID}
}

func (b *Bus) Unsubscribe(sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.handlers[sub.action]
	for i, s := range subs {
		if s.id == sub.id {
			b.handlers[sub.action] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish runs every handler for action and returns how many ran. A
// panicking handler is logged and does not stop the others.
func (b *Bus) Publish(action Action) int {
	b.mu.RLock()
	subs := make([]subscriber, len(b.handlers[action]))
	copy(subs, b.handlers[action])
	b.mu.RUnlock()

	for _, s := range subs {
		b.call(action, s.handler)
	}
	return len(subs)
}

func (b *Bus) call(action Action, h HandlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Input handler panicked", "action", action, "panic", r)
		}
	}()
	h(action)
}
