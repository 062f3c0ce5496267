// Package pipeline drives a single file through read, fold, and emit.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/hashlane/hashlane/internal/chunker"
	"github.com/hashlane/hashlane/internal/digest"
	"github.com/hashlane/hashlane/internal/progress"
	"github.com/hashlane/hashlane/pkg/task"
)

// Config carries the per-pipeline tunables.
type Config struct {
	// ChunkSize is the read ceiling per chunk; <= 0 selects the default.
	ChunkSize int
	// QueueDepth bounds the chunk hand-off between the read stage and the
	// hash stage, capping in-flight memory at QueueDepth * ChunkSize.
	QueueDepth int
}

// DefaultQueueDepth bounds the read-ahead between the two stages.
const DefaultQueueDepth = 10

// Run hashes one file and reports its lifecycle on out as events tagged
// with path. The event sequence on success is: one Progressing{0} before
// any byte is read, zero or more strictly increasing Progressing updates,
// and exactly one Done carrying the digest. Intermediate updates are sent
// best-effort and dropped when out is full; the first and last events are
// delivered with blocking, context-aware sends.
//
// A zero-length file skips straight to Done. Cancellation is the context:
// it is checked between chunks and before every send, and aborts the run
// without a Done event. Open, stat, and read failures abort the same way;
// the error is returned for logging and never shown as a state.
//
// Internally the read stage and the hash stage run concurrently, joined by
// the bounded chunk channel, so a slow disk and a slow consumer cannot
// stall each other beyond the queue depth.
func Run(ctx context.Context, log *slog.Logger, path string, cfg Config, out chan<- task.Event) error {
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = DefaultQueueDepth
	}

	r, err := chunker.Open(path, cfg.ChunkSize)
	if err != nil {
		log.Warn("open failed", "path", path, "err", err)
		return err
	}
	defer r.Close()

	if r.Size() == 0 {
		return send(ctx, out, task.Event{Path: path, State: task.DoneState(digest.EmptySum)})
	}

	if err := send(ctx, out, task.Event{Path: path, State: task.ProgressingState(0)}); err != nil {
		return err
	}

	chunks := make(chan []byte, cfg.QueueDepth)
	readErr := make(chan error, 1)
	go func() {
		readErr <- r.Stream(ctx, chunks)
		close(chunks)
	}()
	// On early exit the reader unblocks via the context; queued buffers
	// still need returning to the pool.
	defer func() {
		for buf := range chunks {
			chunker.Release(buf)
		}
	}()

	acc := digest.New()
	tracker := progress.NewTracker(r.Size())
	for buf := range chunks {
		acc.Fold(buf)
		n := len(buf)
		chunker.Release(buf)

		if err := ctx.Err(); err != nil {
			return err
		}
		if pct, report := tracker.Advance(n); report {
			trySend(out, task.Event{Path: path, State: task.ProgressingState(pct)})
		}
	}

	if err := <-readErr; err != nil {
		if ctx.Err() == nil {
			log.Warn("read failed", "path", path, "err", err)
		}
		return err
	}
	return send(ctx, out, task.Event{Path: path, State: task.DoneState(acc.Finalize())})
}

// send blocks until the event is accepted or the context ends.
func send(ctx context.Context, out chan<- task.Event, ev task.Event) error {
	select {
	case out <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// trySend drops the event when the channel is full. Only redundant
// intermediate progress goes through here.
func trySend(out chan<- task.Event, ev task.Event) {
	select {
	case out <- ev:
	default:
	}
}
