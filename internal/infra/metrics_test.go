package infra

import (
	"sync"
	"testing"
)

func TestMetricsCounters(t *testing.T) {
	m := &Metrics{}

	m.RecordMint()
	m.RecordMint()
	m.RecordListing()
	m.RecordDelisting()
	m.RecordTrade(1000)
	m.RecordTrade(3000)
	m.RecordSettlementFailure()

	snap := m.Snapshot()
	if snap.AssetsMinted != 2 {
		t.Errorf("AssetsMinted = %d, want 2", snap.AssetsMinted)
	}
	if snap.AssetsListed != 1 {
		t.Errorf("AssetsListed = %d, want 1", snap.AssetsListed)
	}
	if snap.TradesSettled != 2 {
		t.Errorf("TradesSettled = %d, want 2", snap.TradesSettled)
	}
	if snap.SettlementFailures != 1 {
		t.Errorf("SettlementFailures = %d, want 1", snap.SettlementFailures)
	}
	if snap.AvgLatencyNs != 2000 {
		t.Errorf("AvgLatencyNs = %d, want 2000", snap.AvgLatencyNs)
	}
}

func TestMetricsGauges(t *testing.T) {
	m := &Metrics{}

	m.IncrementSubscribers()
	m.IncrementSubscribers()
	m.DecrementSubscribers()
	m.SetPaused(true)

	snap := m.Snapshot()
	if snap.FeedSubscribers != 1 {
		t.Errorf("FeedSubscribers = %d, want 1", snap.FeedSubscribers)
	}
	if !snap.Paused {
		t.Error("Paused should be true")
	}

	m.SetPaused(false)
	if m.Snapshot().Paused {
		t.Error("Paused should be false")
	}
}

func TestMetricsConcurrentAccess(t *testing.T) {
	m := &Metrics{}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordTrade(int64(j))
			}
		}()
	}
	wg.Wait()

	if got := m.Snapshot().TradesSettled; got != 1000 {
		t.Errorf("TradesSettled = %d, want 1000", got)
	}
}

func TestMetricsReset(t *testing.T) {
	m := &Metrics{}
	m.RecordMint()
	m.RecordError()
	m.Reset()

	snap := m.Snapshot()
	if snap.AssetsMinted != 0 || snap.ErrorsTotal != 0 {
		t.Errorf("expected zeroed snapshot, got %+v", snap)
	}
}
