// Package task defines the per-file lifecycle model shared between the hash
// engine and its consumers.
package task

// Kind discriminates the variants of FileState.
type Kind int

const (
	// Pending means the file is tracked but no bytes have been processed.
	Pending Kind = iota
	// Progressing means bytes are being folded into the digest.
	Progressing
	// Done is terminal: the full-file digest is available.
	Done
)

func (k Kind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Progressing:
		return "progressing"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// FileState is a tagged per-file state. Percent is meaningful only while
// Kind is Progressing; Digest only once Kind is Done.
type FileState struct {
	Kind    Kind
	Percent float64 // completion in [0, 100]
	Digest  string  // lowercase hex SHA-256 of the whole file
}

// PendingState returns the initial state of a tracked file.
func PendingState() FileState {
	return FileState{Kind: Pending}
}

// ProgressingState returns an in-flight state at the given percentage.
func ProgressingState(percent float64) FileState {
	return FileState{Kind: Progressing, Percent: percent}
}

// DoneState returns the terminal state carrying the final digest.
func DoneState(digest string) FileState {
	return FileState{Kind: Done, Digest: digest}
}

// Event is one engine emission: a state observed for a file identity.
// Events for a single path are ordered; events across paths are not.
type Event struct {
	Path  string
	State FileState
}

// FileTask describes one registered unit of work. Path never changes after
// creation and Size is captured once, before any byte is read.
type FileTask struct {
	Path  string
	Size  int64
	State FileState
}

// MinPercent folds a state snapshot into the lowest in-flight percentage,
// ignoring pending and finished files. It returns 0 when nothing is in
// flight. The result is what a host would show as overall progress.
func MinPercent(states map[string]FileState) float64 {
	min := 0.0
	seen := false
	for _, st := range states {
		if st.Kind != Progressing {
			continue
		}
		if !seen || st.Percent < min {
			min = st.Percent
			seen = true
		}
	}
	return min
}
