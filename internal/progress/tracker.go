package progress

import "math"

// Tracker converts cumulative bytes hashed into a monotonic completion
// percentage for one file. It suppresses redundant updates: a new value is
// reported only when it crosses into a higher whole percentage point than
// the last reported one, which caps update volume at ~100 per file no
// matter how many chunks the file splits into.
//
// A tracker belongs to a single pipeline goroutine and is not safe for
// concurrent use. Total must be positive; a zero-length file never reaches
// the tracker (its pipeline completes directly).
type Tracker struct {
	total     int64
	done      int64
	lastPoint float64
}

// NewTracker returns a tracker for a file of total bytes.
func NewTracker(total int64) *Tracker {
	if total <= 0 {
		panic("progress: total must be positive")
	}
	return &Tracker{total: total}
}

// Advance records n more bytes hashed and returns the clamped completion
// percentage plus whether it should be reported to the consumer.
func (t *Tracker) Advance(n int) (float64, bool) {
	if n > 0 {
		t.done += int64(n)
	}
	pct := float64(t.done) / float64(t.total) * 100
	if pct > 100 {
		pct = 100
	}
	point := math.Floor(pct)
	if point <= t.lastPoint {
		return pct, false
	}
	t.lastPoint = point
	return pct, true
}
