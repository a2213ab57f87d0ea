package vt

import "sync"

// SemanticMarkerType represents an OSC 133 semantic zone marker type.
type SemanticMarkerType byte

const (
	// MarkerPromptStart is 'A' - prompt start
	MarkerPromptStart SemanticMarkerType = 'A'
	// MarkerCommandStart is 'B' - command input start (after prompt)
	MarkerCommandStart SemanticMarkerType = 'B'
	// MarkerCommandExecuted is 'C' - command execution start (output begins)
	MarkerCommandExecuted SemanticMarkerType = 'C'
	// MarkerCommandFinished is 'D' - command finished (exit code available)
	MarkerCommandFinished SemanticMarkerType = 'D'
)

// SemanticMarker represents a single OSC 133 marker captured from the
// terminal. Rows are addressed by stable index, so a marker stays valid
// as lines move from the screen into scrollback.
type SemanticMarker struct {
	Type     SemanticMarkerType
	Stable   int64 // stable row index at time of emission
	Col      int   // cursor column at time of emission
	ExitCode int   // only meaningful for 'D', -1 = unknown
}

// SemanticMarkerList is a thread-safe, bounded list of semantic markers.
type SemanticMarkerList struct {
	mu       sync.Mutex
	markers  []SemanticMarker
	maxItems int
}

// NewSemanticMarkerList creates a new marker list with the given capacity.
func NewSemanticMarkerList(maxItems int) *SemanticMarkerList {
	if maxItems <= 0 {
		maxItems = 10000
	}
	return &SemanticMarkerList{
		markers:  make([]SemanticMarker, 0, 256),
		maxItems: maxItems,
	}
}

// Add appends a marker to the list, discarding the oldest if at capacity.
func (l *SemanticMarkerList) Add(m SemanticMarker) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.markers) >= l.maxItems {
		// Discard oldest 10% to avoid frequent shifts
		trim := max(l.maxItems/10, 1)
		l.markers = l.markers[trim:]
	}
	l.markers = append(l.markers, m)
}

// Markers returns a copy of all markers.
func (l *SemanticMarkerList) Markers() []SemanticMarker {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]SemanticMarker, len(l.markers))
	copy(out, l.markers)
	return out
}

// Len returns the number of markers.
func (l *SemanticMarkerList) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.markers)
}

// Clear removes all markers.
func (l *SemanticMarkerList) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.markers = l.markers[:0]
}

// Last returns the most recent marker of the given type, or nil if none.
func (l *SemanticMarkerList) Last(t SemanticMarkerType) *SemanticMarker {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := len(l.markers) - 1; i >= 0; i-- {
		if l.markers[i].Type == t {
			return &l.markers[i]
		}
	}
	return nil
}

// RemoveOnScreen removes markers that reference visible screen content,
// i.e. markers at or above the given stable top. Used when the screen is
// cleared (CSI 2J) so stale markers don't point at overwritten rows.
func (l *SemanticMarkerList) RemoveOnScreen(stableTop int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for i := range l.markers {
		if l.markers[i].Stable < stableTop {
			l.markers[n] = l.markers[i]
			n++
		}
	}
	l.markers = l.markers[:n]
}

// PruneBelow removes markers whose rows have been evicted from
// scrollback forever.
func (l *SemanticMarkerList) PruneBelow(floor int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for i := range l.markers {
		if l.markers[i].Stable >= floor {
			l.markers[n] = l.markers[i]
			n++
		}
	}
	l.markers = l.markers[:n]
}
