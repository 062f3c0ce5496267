// Package engine runs one hashing pipeline per tracked file and multiplexes
// their lifecycle events into a single stream.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashlane/hashlane/internal/pipeline"
	"github.com/hashlane/hashlane/pkg/task"
)

// ErrNotRegularFile indicates a registered path does not currently resolve
// to a regular file.
var ErrNotRegularFile = errors.New("engine: not a regular file")

// ErrClosed indicates the engine has been shut down.
var ErrClosed = errors.New("engine: closed")

// Config carries the engine tunables.
type Config struct {
	ChunkSize     int
	QueueDepth    int
	EventBuffer   int // capacity of the multiplexed event stream
	ParallelFiles int // max pipelines hashing at once
}

const (
	// DefaultEventBuffer mirrors the small per-task event window the
	// engine was designed around.
	DefaultEventBuffer = 3
	// DefaultParallelFiles bounds concurrent pipelines.
	DefaultParallelFiles = 8
	maxParallelFiles     = 32
)

// Engine owns the tracked-file set. Each registered file gets at most one
// pipeline until it reaches Done; finished files are never re-hashed, even
// if the bytes on disk have changed since. Events for all files arrive
// interleaved on Events(), ordered per file, unordered across files.
type Engine struct {
	log  *slog.Logger
	cfg  Config
	root context.Context
	stop context.CancelFunc

	sink  chan task.Event // pipelines -> forwarder
	out   chan task.Event // forwarder -> consumer
	slots chan struct{}
	wg    sync.WaitGroup

	mu      sync.RWMutex
	states  map[string]task.FileState
	cancels map[string]*registration
	closed  bool
}

// registration identifies one pipeline's cancel handle. The pointer lets a
// finished pipeline drop its own entry without clobbering a newer
// registration for the same path.
type registration struct {
	cancel context.CancelFunc
}

// New creates an engine and starts its forwarding stage. Call Close when
// done; the consumer should drain Events() until it is closed.
func New(log *slog.Logger, cfg Config) *Engine {
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = DefaultEventBuffer
	}
	if cfg.ParallelFiles < 1 {
		cfg.ParallelFiles = DefaultParallelFiles
	}
	if cfg.ParallelFiles > maxParallelFiles {
		cfg.ParallelFiles = maxParallelFiles
	}
	root, stop := context.WithCancel(context.Background())
	e := &Engine{
		log:     log,
		cfg:     cfg,
		root:    root,
		stop:    stop,
		sink:    make(chan task.Event, cfg.EventBuffer),
		out:     make(chan task.Event, cfg.EventBuffer),
		slots:   make(chan struct{}, cfg.ParallelFiles),
		states:  make(map[string]task.FileState),
		cancels: make(map[string]*registration),
	}
	go e.forward()
	return e
}

// Events returns the multiplexed stream of (path, state) pairs. It is
// closed after Close once all pending events have been forwarded.
func (e *Engine) Events() <-chan task.Event {
	return e.out
}

// Begin registers a file for hashing and returns without waiting on the
// event stream, so a host may register any number of files before it
// starts draining Events(). It is a no-op when the path is already
// tracked, including files that already reached Done. The path must
// resolve to a regular file at registration time.
func (e *Engine) Begin(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return fmt.Errorf("stat %s: %w", abs, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", abs, ErrNotRegularFile)
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	if _, tracked := e.states[abs]; tracked {
		e.mu.Unlock()
		return nil
	}
	e.states[abs] = task.PendingState()
	ctx, cancel := context.WithCancel(e.root)
	reg := &registration{cancel: cancel}
	e.cancels[abs] = reg
	e.wg.Add(1)
	e.mu.Unlock()

	go e.runPipeline(ctx, reg, abs)
	return nil
}

// Remove stops forwarding events for the path and cancels its pipeline if
// one is in flight. Removing an unknown path is a no-op. A removed path
// may be registered again later.
func (e *Engine) Remove(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	e.mu.Lock()
	if reg, ok := e.cancels[abs]; ok {
		reg.cancel()
		delete(e.cancels, abs)
	}
	delete(e.states, abs)
	e.mu.Unlock()
}

// CancelAll removes every tracked path.
func (e *Engine) CancelAll() {
	e.mu.Lock()
	for path, reg := range e.cancels {
		reg.cancel()
		delete(e.cancels, path)
	}
	e.states = make(map[string]task.FileState)
	e.mu.Unlock()
}

// Wait blocks until every pipeline started so far has exited.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close cancels all pipelines, waits for them to exit, and shuts the event
// stream down. Events() is closed once buffered events are drained.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.stop()
	e.wg.Wait()
	close(e.sink)
}

// Snapshot copies the identity -> last-known-state map.
func (e *Engine) Snapshot() map[string]task.FileState {
	e.mu.RLock()
	defer e.mu.RUnlock()
	states := make(map[string]task.FileState, len(e.states))
	for path, st := range e.states {
		states[path] = st
	}
	return states
}

func (e *Engine) runPipeline(ctx context.Context, reg *registration, path string) {
	defer e.wg.Done()
	// Release the cancel handle once this pipeline is gone; a newer
	// registration for the same path keeps its own entry.
	defer func() {
		reg.cancel()
		e.mu.Lock()
		if e.cancels[path] == reg {
			delete(e.cancels, path)
		}
		e.mu.Unlock()
	}()

	// Pending is announced from the worker, not from Begin, so that
	// registration never blocks on the event stream; the consumer still
	// sees the task before it competes for a slot.
	e.emit(ctx, task.Event{Path: path, State: task.PendingState()})

	select {
	case e.slots <- struct{}{}:
	case <-ctx.Done():
		return
	}
	defer func() { <-e.slots }()

	cfg := pipeline.Config{ChunkSize: e.cfg.ChunkSize, QueueDepth: e.cfg.QueueDepth}
	if err := pipeline.Run(ctx, e.log, path, cfg, e.sink); err != nil {
		// All failure kinds collapse to "stopped before Done"; detail goes
		// to the log only.
		e.log.Info("pipeline stopped", "path", path, "err", err)
	}
}

// forward is the single writer of the state map for pipeline-originated
// events. Events for paths no longer tracked are discarded.
func (e *Engine) forward() {
	for ev := range e.sink {
		e.mu.Lock()
		_, tracked := e.states[ev.Path]
		if tracked {
			e.states[ev.Path] = ev.State
		}
		e.mu.Unlock()
		if tracked {
			e.out <- ev
		}
	}
	close(e.out)
}

// emit delivers an engine-originated event, giving up when the engine
// shuts down first.
func (e *Engine) emit(ctx context.Context, ev task.Event) {
	select {
	case e.sink <- ev:
	case <-ctx.Done():
	}
}
