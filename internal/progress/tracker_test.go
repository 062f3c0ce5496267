package progress

import "testing"

func TestTrackerReportsWholePointsOnly(t *testing.T) {
	tr := NewTracker(10_000)

	// 50 bytes is half a percentage point: computed but not reported.
	pct, report := tr.Advance(50)
	if report {
		t.Fatalf("expected no report at %.2f%%", pct)
	}

	// Crossing 1% reports.
	pct, report = tr.Advance(60)
	if !report {
		t.Fatal("expected report after crossing 1%")
	}
	if pct < 1 || pct > 2 {
		t.Fatalf("expected percent in (1, 2), got %.2f", pct)
	}

	// Staying within the same whole point stays quiet.
	if _, report = tr.Advance(10); report {
		t.Fatal("expected no report within the same percentage point")
	}
}

func TestTrackerMonotonicSequence(t *testing.T) {
	tr := NewTracker(1000)
	last := -1.0
	reports := 0
	for i := 0; i < 100; i++ {
		pct, report := tr.Advance(10)
		if pct < 0 || pct > 100 {
			t.Fatalf("percent %.2f out of range", pct)
		}
		if !report {
			continue
		}
		if pct <= last {
			t.Fatalf("reported percent regressed: %.2f after %.2f", pct, last)
		}
		last = pct
		reports++
	}
	if last != 100 {
		t.Fatalf("expected final reported percent 100, got %.2f", last)
	}
	if reports > 100 {
		t.Fatalf("expected at most 100 reports, got %d", reports)
	}
}

func TestTrackerClampsOvershoot(t *testing.T) {
	tr := NewTracker(100)
	pct, report := tr.Advance(150)
	if !report {
		t.Fatal("expected report at completion")
	}
	if pct != 100 {
		t.Fatalf("expected clamped 100, got %.2f", pct)
	}
}

func TestTrackerSingleChunkFile(t *testing.T) {
	tr := NewTracker(4096)
	pct, report := tr.Advance(4096)
	if !report || pct != 100 {
		t.Fatalf("expected (100, true), got (%.2f, %t)", pct, report)
	}
}

func TestTrackerPanicsOnZeroTotal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero total")
		}
	}()
	NewTracker(0)
}

func TestShouldLogThrottles(t *testing.T) {
	var last int64
	if !ShouldLog(&last) {
		t.Fatal("first call should pass")
	}
	if ShouldLog(&last) {
		t.Fatal("immediate second call should be throttled")
	}
}
