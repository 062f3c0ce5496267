// Package ui renders engine events in the terminal: an interactive
// bubbletea display on a TTY and a line-oriented fallback otherwise.
package ui

import (
	"fmt"
	"sync"

	"github.com/hashlane/hashlane/internal/progress"
	"github.com/hashlane/hashlane/pkg/task"
)

// Row is the display state of one tracked file.
type Row struct {
	Path  string
	Size  int64
	State task.FileState
}

// View is a render-ready snapshot of the whole session.
type View struct {
	Title   string
	Rows    []Row
	Stats   progress.Stats
	AllDone bool
}

// Session accumulates engine events into display state. The event consumer
// writes while the renderer snapshots, so all access is locked.
type Session struct {
	mu    sync.Mutex
	order []string
	rows  map[string]*Row
	bytes map[string]int64
	meter *progress.Meter
}

func NewSession() *Session {
	return &Session{
		rows:  make(map[string]*Row),
		bytes: make(map[string]int64),
		meter: progress.NewMeter(),
	}
}

// AddFile registers a file for display. Paths must match the identities
// the engine emits.
func (s *Session) AddFile(path string, size int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[path]; ok {
		return
	}
	s.order = append(s.order, path)
	s.rows[path] = &Row{Path: path, Size: size, State: task.PendingState()}
}

// Start arms the throughput meter with the combined byte total.
func (s *Session) Start(totalBytes int64) {
	s.meter.Start(totalBytes)
}

// Apply folds one engine event into the session. Percent updates are
// converted back into byte deltas to feed the aggregate meter.
func (s *Session) Apply(ev task.Event) {
	s.mu.Lock()
	row, ok := s.rows[ev.Path]
	if !ok {
		s.mu.Unlock()
		return
	}
	row.State = ev.State

	var target int64
	switch ev.State.Kind {
	case task.Progressing:
		target = int64(ev.State.Percent / 100 * float64(row.Size))
	case task.Done:
		target = row.Size
	default:
		s.mu.Unlock()
		return
	}
	delta := target - s.bytes[ev.Path]
	s.bytes[ev.Path] = target
	s.mu.Unlock()

	s.meter.Add(delta)
}

// View snapshots the session for rendering. The title mirrors the overall
// progress: the lowest in-flight percentage wins, so the slowest file sets
// the number the user sees.
func (s *Session) View() View {
	s.mu.Lock()
	states := make(map[string]task.FileState, len(s.rows))
	rows := make([]Row, 0, len(s.order))
	allDone := len(s.order) > 0
	for _, path := range s.order {
		row := s.rows[path]
		rows = append(rows, *row)
		states[path] = row.State
		if row.State.Kind != task.Done {
			allDone = false
		}
	}
	s.mu.Unlock()

	title := "hashlane"
	if min := task.MinPercent(states); min > 0 {
		title = fmt.Sprintf("%.0f%% - hashlane", min)
	}
	return View{
		Title:   title,
		Rows:    rows,
		Stats:   s.meter.Snapshot(),
		AllDone: allDone,
	}
}
