package event

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDispatcherDeliversInOrder(t *testing.T) {
	d := NewDispatcher(16)

	got := make(chan Event, 16)
	d.Subscribe(func(ev Event) {
		got <- ev
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	d.Publish(&ListedEvent{ID: "a", AssetID: 1, Price: decimal.NewFromInt(100), Symbol: "NATIVE"})
	d.Publish(&DelistedEvent{ID: "b", AssetID: 1})

	first := waitEvent(t, got)
	if first.GetType() != TypeListed {
		t.Errorf("first event type = %s, want %s", first.GetType(), TypeListed)
	}
	second := waitEvent(t, got)
	if second.GetType() != TypeDelisted {
		t.Errorf("second event type = %s, want %s", second.GetType(), TypeDelisted)
	}
}

func TestDispatcherReleasesSoldEvents(t *testing.T) {
	d := NewDispatcher(1)

	seen := make(chan uint64, 1)
	d.Subscribe(func(ev Event) {
		if sold, ok := ev.(*SoldEvent); ok {
			seen <- sold.AssetID
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	ev := AcquireSoldEvent()
	ev.ID = "t"
	ev.AssetID = 7
	ev.Price = decimal.NewFromInt(50)
	d.Publish(ev)

	if id := <-seen; id != 7 {
		t.Errorf("asset id = %d, want 7", id)
	}
}

func TestSoldEventPoolResets(t *testing.T) {
	ev := AcquireSoldEvent()
	ev.ID = "x"
	ev.Buyer = "alice"
	ev.AssetID = 3
	ev.Price = decimal.NewFromInt(10)
	ReleaseSoldEvent(ev)

	ev2 := AcquireSoldEvent()
	defer ReleaseSoldEvent(ev2)
	if ev2.ID != "" || ev2.Buyer != "" || ev2.AssetID != 0 || !ev2.Price.IsZero() {
		t.Errorf("pooled event not reset: %+v", ev2)
	}
}

func waitEvent(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}
