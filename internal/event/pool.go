package event

import (
	"sync"

	"github.com/shopspring/decimal"
)

// Sold events are the hotpath of a busy marketplace, so they are pooled to
// reduce GC pressure. The dispatcher returns them to the pool after the
// last subscriber has run.
//
// Usage:
//
//	ev := AcquireSoldEvent()
//	ev.AssetID = 42
//	// ... publish ...
//	ReleaseSoldEvent(ev)
var soldPool = sync.Pool{
	New: func() interface{} {
		return &SoldEvent{}
	},
}

// AcquireSoldEvent gets a SoldEvent from the pool.
// The returned event has zero values and must be initialized.
func AcquireSoldEvent() *SoldEvent {
	return soldPool.Get().(*SoldEvent)
}

// ReleaseSoldEvent returns a SoldEvent to the pool.
// The event is reset to zero values before being pooled.
func ReleaseSoldEvent(ev *SoldEvent) {
	if ev == nil {
		return
	}
	ev.ID = ""
	ev.Ts = 0
	ev.Buyer = ""
	ev.AssetID = 0
	ev.Price = decimal.Decimal{}
	ev.Symbol = ""

	soldPool.Put(ev)
}

// Warmup pre-allocates sold events to reduce GC pressure at startup.
func Warmup() {
	const batchSize = 256

	evs := make([]*SoldEvent, 0, batchSize)
	for i := 0; i < batchSize; i++ {
		evs = append(evs, AcquireSoldEvent())
	}
	for _, ev := range evs {
		ReleaseSoldEvent(ev)
	}
}
