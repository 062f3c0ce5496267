package progress

import (
	"sync/atomic"
	"time"
)

// LogInterval bounds how often a plain (non-TTY) consumer prints progress.
const LogInterval = 250 * time.Millisecond

// ShouldLog reports whether at least LogInterval has elapsed since the last
// accepted call, claiming the new timestamp atomically when it has. The
// caller owns last (nanoseconds since epoch, zero-initialized) and may call
// from multiple goroutines.
func ShouldLog(last *int64) bool {
	now := time.Now().UnixNano()
	prev := atomic.LoadInt64(last)
	if now-prev < int64(LogInterval) {
		return false
	}
	return atomic.CompareAndSwapInt64(last, prev, now)
}
