package progress

import (
	"testing"
	"time"
)

const chunk = int64(1 << 20)

func TestMeterRateAndETAFromChunks(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	m := NewMeterWithNow(func() time.Time { return now })
	m.Start(4 * chunk)

	now = now.Add(1 * time.Second)
	m.Add(chunk)

	stats := m.Snapshot()
	if stats.BytesDone != chunk {
		t.Fatalf("expected %d bytes done, got %d", chunk, stats.BytesDone)
	}
	want := float64(chunk)
	if stats.RateBps < want*0.9 || stats.RateBps > want*1.1 {
		t.Fatalf("expected rate around %.0f B/s, got %.2f", want, stats.RateBps)
	}
	// three chunks left at one chunk per second
	if stats.ETA < 2900*time.Millisecond || stats.ETA > 3100*time.Millisecond {
		t.Fatalf("expected ETA around 3s, got %s", stats.ETA)
	}
	if stats.Percent != 25 {
		t.Fatalf("expected 25%%, got %.2f", stats.Percent)
	}
}

func TestMeterAddTotalMidFlight(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	m := NewMeterWithNow(func() time.Time { return now })
	m.Start(2 * chunk)

	now = now.Add(1 * time.Second)
	m.Add(chunk)

	// A late Begin grows the workload; done bytes stand, percent drops.
	m.AddTotal(2 * chunk)

	stats := m.Snapshot()
	if stats.Total != 4*chunk {
		t.Fatalf("expected total %d, got %d", 4*chunk, stats.Total)
	}
	if stats.BytesDone != chunk {
		t.Fatalf("expected %d bytes done, got %d", chunk, stats.BytesDone)
	}
	if stats.Percent != 25 {
		t.Fatalf("expected 25%% after growing total, got %.2f", stats.Percent)
	}
	if stats.ETA < 2900*time.Millisecond || stats.ETA > 3100*time.Millisecond {
		t.Fatalf("expected ETA around 3s, got %s", stats.ETA)
	}
}

func TestMeterSmoothsUnevenChunkBursts(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	m := NewMeterWithNow(func() time.Time { return now })
	m.Start(100 * chunk)

	now = now.Add(1 * time.Second)
	m.Add(chunk)

	now = now.Add(1 * time.Second)
	m.Add(3 * chunk)

	// alpha 0.2: 0.2*3 + 0.8*1 chunks per second
	stats := m.Snapshot()
	want := 1.4 * float64(chunk)
	if stats.RateBps < want*0.95 || stats.RateBps > want*1.05 {
		t.Fatalf("expected smoothed rate around %.0f B/s, got %.2f", want, stats.RateBps)
	}
}

func TestMeterIgnoresNonPositiveDeltas(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	m := NewMeterWithNow(func() time.Time { return now })
	m.Start(chunk)

	m.Add(0)
	m.Add(-chunk)
	m.AddTotal(0)
	m.AddTotal(-chunk)

	stats := m.Snapshot()
	if stats.BytesDone != 0 {
		t.Fatalf("expected no bytes done, got %d", stats.BytesDone)
	}
	if stats.Total != chunk {
		t.Fatalf("expected total unchanged at %d, got %d", chunk, stats.Total)
	}
	if stats.RateBps != 0 || stats.ETA != 0 {
		t.Fatalf("expected idle meter, got rate %.2f ETA %s", stats.RateBps, stats.ETA)
	}
}
