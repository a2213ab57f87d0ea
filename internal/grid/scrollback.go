package grid

// DefaultScrollbackSize is the default number of lines to keep in the
// scrollback buffer.
const DefaultScrollbackSize = 10000

// Scrollback stores lines that have scrolled off the top of the visible
// screen. It uses a ring buffer for O(1) insertions; eviction is FIFO and
// reported through the onTrim callback so the grid can advance its stable
// index floor.
type Scrollback struct {
	lines    []*Line
	maxLines int
	// head is the index of the oldest line, tail where the next line is
	// inserted.
	head int
	tail int
	full bool
	// onTrim is called with the number of oldest lines discarded.
	onTrim func(int)
}

// NewScrollback creates a scrollback buffer holding at most maxLines
// lines. A non-positive maxLines selects DefaultScrollbackSize.
func NewScrollback(maxLines int) *Scrollback {
	if maxLines <= 0 {
		maxLines = DefaultScrollbackSize
	}
	return &Scrollback{
		lines:    make([]*Line, maxLines),
		maxLines: maxLines,
	}
}

// SetOnTrim sets the callback fired when the ring overwrites oldest lines.
func (sb *Scrollback) SetOnTrim(fn func(int)) {
	sb.onTrim = fn
}

// Push appends a line. The line is compacted to the clustered
// representation since it has left the active edit region. If the buffer
// is full the oldest line is overwritten.
func (sb *Scrollback) Push(line *Line) {
	if line == nil {
		return
	}
	line.Compact()

	sb.lines[sb.tail] = line
	sb.tail = (sb.tail + 1) % sb.maxLines

	if sb.full {
		sb.head = (sb.head + 1) % sb.maxLines
		if sb.onTrim != nil {
			sb.onTrim(1)
		}
	}
	if sb.tail == sb.head {
		sb.full = true
	}
}

// PopNewest removes and returns the most recently pushed line, or nil when
// the buffer is empty. The grid uses it to pull history back onto the
// screen when the window grows.
func (sb *Scrollback) PopNewest() *Line {
	if sb.Len() == 0 {
		return nil
	}
	sb.tail = (sb.tail - 1 + sb.maxLines) % sb.maxLines
	l := sb.lines[sb.tail]
	sb.lines[sb.tail] = nil
	sb.full = false
	return l
}

// Len returns the number of lines currently stored.
func (sb *Scrollback) Len() int {
	if sb.full {
		return sb.maxLines
	}
	if sb.tail >= sb.head {
		return sb.tail - sb.head
	}
	return sb.maxLines - sb.head + sb.tail
}

// Line returns the line at the given index, oldest first. Out-of-range
// indices return nil.
func (sb *Scrollback) Line(index int) *Line {
	if index < 0 || index >= sb.Len() {
		return nil
	}
	return sb.lines[(sb.head+index)%sb.maxLines]
}

// Lines returns all stored lines oldest to newest. The returned slice is
// fresh but the lines are shared.
func (sb *Scrollback) Lines() []*Line {
	n := sb.Len()
	if n == 0 {
		return nil
	}
	out := make([]*Line, n)
	for i := range n {
		out[i] = sb.lines[(sb.head+i)%sb.maxLines]
	}
	return out
}

// Clear removes all lines.
func (sb *Scrollback) Clear() {
	count := sb.Len()
	sb.head = 0
	sb.tail = 0
	sb.full = false
	for i := range sb.lines {
		sb.lines[i] = nil
	}
	if sb.onTrim != nil && count > 0 {
		sb.onTrim(count)
	}
}

// MaxLines returns the configured capacity.
func (sb *Scrollback) MaxLines() int {
	return sb.maxLines
}

// SetMaxLines changes the capacity, discarding oldest lines if the new
// limit is smaller than the current length.
func (sb *Scrollback) SetMaxLines(maxLines int) {
	if maxLines <= 0 {
		maxLines = DefaultScrollbackSize
	}
	if maxLines == sb.maxLines {
		return
	}

	oldLen := sb.Len()
	newLen := min(oldLen, maxLines)
	newLines := make([]*Line, maxLines)
	dropped := oldLen - newLen
	for i := range newLen {
		newLines[i] = sb.lines[(sb.head+dropped+i)%sb.maxLines]
	}

	sb.lines = newLines
	sb.maxLines = maxLines
	sb.head = 0
	sb.tail = newLen % maxLines
	sb.full = newLen == maxLines

	if dropped > 0 && sb.onTrim != nil {
		sb.onTrim(dropped)
	}
}
