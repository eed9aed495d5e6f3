package event

import (
	"context"
	"log/slog"
	"sync"
)

// Dispatcher fans marketplace events out to subscribers (feed hub, metrics,
// audit log). Publish never blocks the engine for longer than the buffered
// inbox; subscribers run sequentially on the dispatch goroutine.
type Dispatcher struct {
	inbox chan Event

	mu   sync.RWMutex
	subs []func(Event)
}

// NewDispatcher creates a dispatcher with the given inbox size.
func NewDispatcher(inboxSize int) *Dispatcher {
	return &Dispatcher{
		inbox: make(chan Event, inboxSize),
	}
}

// Subscribe registers a handler invoked for every published event.
// Handlers must not retain pooled events past their return.
func (d *Dispatcher) Subscribe(fn func(Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.subs = append(d.subs, fn)
}

// Publish enqueues an event for dispatch. Events are dropped with a warning
// if the inbox is full rather than stalling settlement.
func (d *Dispatcher) Publish(ev Event) {
	select {
	case d.inbox <- ev:
	default:
		slog.Warn("event inbox full, dropping event",
			slog.String("type", ev.GetType()), slog.String("id", ev.GetID()))
		if sold, ok := ev.(*SoldEvent); ok {
			ReleaseSoldEvent(sold)
		}
	}
}

// Run starts the dispatch loop. This MUST be run in a single goroutine.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-d.inbox:
			d.dispatch(ev)
		}
	}
}

func (d *Dispatcher) dispatch(ev Event) {
	d.mu.RLock()
	subs := d.subs
	d.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}

	// Pooled events go back after the last subscriber has seen them.
	if sold, ok := ev.(*SoldEvent); ok {
		ReleaseSoldEvent(sold)
	}
}
