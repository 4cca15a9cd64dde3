// Package events dispatches application events to subscribers.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/vadimbarashkov/phrase-shortener/internal/entity"
)

// Handler processes a published event.
type Handler func(ctx context.Context, event entity.Event) error

// Bus delivers every published event to the handlers subscribed to its name
// and to the handlers subscribed to all events.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	all      []Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[string][]Handler)}
}

// Subscribe registers h for events with the given name.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[name] = append(b.handlers[name], h)
}

// SubscribeAll registers h for every event.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.all = append(b.all, h)
}

// Publish calls the subscribed handlers in registration order. A failing handler
// does not prevent the others from running; all failures are returned joined.
func (b *Bus) Publish(ctx context.Context, event entity.Event) error {
	const op = "adapter.events.Bus.Publish"

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.all)+len(b.handlers[event.EventName()]))
	handlers = append(handlers, b.all...)
	handlers = append(handlers, b.handlers[event.EventName()]...)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%s: %s: %w", op, event.EventName(), err)
	}

	return nil
}
