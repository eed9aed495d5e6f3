package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	assetsMinted       atomic.Uint64
	assetsListed       atomic.Uint64
	assetsDelisted     atomic.Uint64
	tradesSettled      atomic.Uint64
	settlementFailures atomic.Uint64
	errorsTotal        atomic.Uint64

	// Latency tracking (settlement path)
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64

	// Gauges
	feedSubscribers atomic.Int32
	paused          atomic.Int32 // 1 = paused, 0 = running
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordMint records a successful mint.
func (m *Metrics) RecordMint() {
	m.assetsMinted.Add(1)
}

// RecordListing records a successful listing.
func (m *Metrics) RecordListing() {
	m.assetsListed.Add(1)
}

// RecordDelisting records a successful delisting.
func (m *Metrics) RecordDelisting() {
	m.assetsDelisted.Add(1)
}

// RecordTrade records a settled sale with its settlement latency.
func (m *Metrics) RecordTrade(latencyNs int64) {
	m.tradesSettled.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)
}

// RecordSettlementFailure records an aborted purchase.
func (m *Metrics) RecordSettlementFailure() {
	m.settlementFailures.Add(1)
}

// RecordError records a generic error occurrence.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// IncrementSubscribers increments feed subscribers by 1.
func (m *Metrics) IncrementSubscribers() {
	m.feedSubscribers.Add(1)
}

// DecrementSubscribers decrements feed subscribers by 1.
func (m *Metrics) DecrementSubscribers() {
	m.feedSubscribers.Add(-1)
}

// SetPaused sets the pause gauge.
func (m *Metrics) SetPaused(paused bool) {
	if paused {
		m.paused.Store(1)
	} else {
		m.paused.Store(0)
	}
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	AssetsMinted       uint64    `json:"assets_minted"`
	AssetsListed       uint64    `json:"assets_listed"`
	AssetsDelisted     uint64    `json:"assets_delisted"`
	TradesSettled      uint64    `json:"trades_settled"`
	SettlementFailures uint64    `json:"settlement_failures"`
	ErrorsTotal        uint64    `json:"errors_total"`
	AvgLatencyNs       int64     `json:"avg_latency_ns"`
	FeedSubscribers    int32     `json:"feed_subscribers"`
	Paused             bool      `json:"paused"`
	Timestamp          time.Time `json:"timestamp"`
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		AssetsMinted:       m.assetsMinted.Load(),
		AssetsListed:       m.assetsListed.Load(),
		AssetsDelisted:     m.assetsDelisted.Load(),
		TradesSettled:      m.tradesSettled.Load(),
		SettlementFailures: m.settlementFailures.Load(),
		ErrorsTotal:        m.errorsTotal.Load(),
		AvgLatencyNs:       avgLatency,
		FeedSubscribers:    m.feedSubscribers.Load(),
		Paused:             m.paused.Load() == 1,
		Timestamp:          time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.assetsMinted.Store(0)
	m.assetsListed.Store(0)
	m.assetsDelisted.Store(0)
	m.tradesSettled.Store(0)
	m.settlementFailures.Store(0)
	m.errorsTotal.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.feedSubscribers.Store(0)
	m.paused.Store(0)
}
