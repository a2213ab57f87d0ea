package grid

// Grid is the bounded window of visible lines plus the scrollback store of
// lines evicted from its top. Three row-addressing schemes coexist:
//
//   - physical: 0-based from the top of the visible screen; resets on
//     resize.
//   - stable: monotonically increasing since grid creation, immune to
//     scrollback eviction. The durable key for cross-component references.
//   - viewport: 0-based from the top of wherever the user has scrolled to.
//
// Stable indices are never reused or renumbered; eviction and reflow only
// ever move the floor of the stable-to-line mapping forward.
//
// The grid assumes a single writer. Concurrent renderer reads require an
// external exclusion mechanism owned by the embedding application.
type Grid struct {
	lines []*Line
	sb    *Scrollback

	rows, cols int

	// evicted counts lines discarded from scrollback forever. The stable
	// index of visible row 0 is evicted + sb.Len().
	evicted int64

	// viewOffset is how many rows the user has scrolled back into
	// history; 0 follows the bottom.
	viewOffset int

	// gen is the monotonically increasing dirty generation counter.
	gen uint64
	// viewGen is the generation at which the viewport last moved; a
	// viewport move invalidates every visible row without mutating any
	// line.
	viewGen uint64
}

// New creates a grid with the given visible size and scrollback capacity.
// A non-positive maxScrollback keeps effectively no history, which is what
// the alternate screen uses.
func New(rows, cols, maxScrollback int) *Grid {
	rows = max(rows, 1)
	cols = max(cols, 1)
	g := &Grid{
		rows: rows,
		cols: cols,
	}
	g.sb = NewScrollback(max(maxScrollback, 1))
	g.sb.SetOnTrim(func(n int) { g.evicted += int64(n) })
	g.lines = make([]*Line, rows)
	for y := range g.lines {
		g.lines[y] = NewLine(cols)
	}
	return g
}

// Rows returns the visible row count.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the visible column count.
func (g *Grid) Cols() int { return g.cols }

// Scrollback returns the scrollback store.
func (g *Grid) Scrollback() *Scrollback { return g.sb }

// Line returns the line at a physical row, or nil when out of range.
func (g *Grid) Line(y int) *Line {
	if y < 0 || y >= g.rows {
		return nil
	}
	return g.lines[y]
}

func (g *Grid) nextGen() uint64 {
	g.gen++
	return g.gen
}

// Generation returns the current dirty watermark. A renderer remembers
// the value returned here after drawing and passes it back to DirtyLines.
func (g *Grid) Generation() uint64 {
	return g.gen
}

// Touch marks a physical row dirty.
func (g *Grid) Touch(y int) {
	if l := g.Line(y); l != nil {
		l.setGeneration(g.nextGen())
	}
}

// touchRange marks physical rows [y0, y1] dirty.
func (g *Grid) touchRange(y0, y1 int) {
	for y := y0; y <= y1; y++ {
		g.Touch(y)
	}
}

// MarkAllDirty invalidates every visible row.
func (g *Grid) MarkAllDirty() {
	g.viewGen = g.nextGen()
}

// DirtyLine is one changed row in viewport coordinates.
type DirtyLine struct {
	Row    int
	Stable int64
	Line   *Line
}

// DirtyLines returns the visible rows whose generation exceeds the
// caller's watermark, in viewport coordinates top to bottom. A viewport
// move reports every row.
func (g *Grid) DirtyLines(watermark uint64) []DirtyLine {
	var out []DirtyLine
	all := g.viewGen > watermark
	for v := range g.rows {
		s := g.StableOfViewport(v)
		l := g.LineByStable(s)
		if l == nil {
			continue
		}
		if all || l.Generation() > watermark {
			out = append(out, DirtyLine{Row: v, Stable: s, Line: l})
		}
	}
	return out
}

// StableTop returns the stable index of physical row 0.
func (g *Grid) StableTop() int64 {
	return g.evicted + int64(g.sb.Len())
}

// StableOfPhysical converts a physical row to its stable index.
func (g *Grid) StableOfPhysical(y int) int64 {
	return g.StableTop() + int64(y)
}

// PhysicalOfStable converts a stable index to a physical row. ok is false
// when the row is not on the visible screen.
func (g *Grid) PhysicalOfStable(s int64) (int, bool) {
	y := s - g.StableTop()
	if y < 0 || y >= int64(g.rows) {
		return 0, false
	}
	return int(y), true
}

// StableOfViewport converts a viewport row to its stable index.
func (g *Grid) StableOfViewport(v int) int64 {
	return g.StableTop() - int64(g.viewOffset) + int64(v)
}

// ViewportOfStable converts a stable index to a viewport row. ok is false
// when the row is outside the current viewport.
func (g *Grid) ViewportOfStable(s int64) (int, bool) {
	v := s - g.StableTop() + int64(g.viewOffset)
	if v < 0 || v >= int64(g.rows) {
		return 0, false
	}
	return int(v), true
}

// LineByStable resolves a stable index to its line, in scrollback or on
// screen. Evicted and not-yet-written rows resolve to nil.
func (g *Grid) LineByStable(s int64) *Line {
	top := g.StableTop()
	if s >= top {
		return g.Line(int(s - top))
	}
	i := s - g.evicted
	if i < 0 {
		return nil
	}
	return g.sb.Line(int(i))
}

// ViewOffset returns how far back the viewport is scrolled.
func (g *Grid) ViewOffset() int {
	return g.viewOffset
}

// ScrollViewport moves the viewport, positive toward history, clamped to
// the available scrollback.
func (g *Grid) ScrollViewport(delta int) {
	off := g.viewOffset + delta
	off = max(0, min(off, g.sb.Len()))
	if off != g.viewOffset {
		g.viewOffset = off
		g.MarkAllDirty()
	}
}

// ResetViewport snaps the viewport back to the bottom.
func (g *Grid) ResetViewport() {
	if g.viewOffset != 0 {
		g.viewOffset = 0
		g.MarkAllDirty()
	}
}

// ScrollUp removes n lines from the top of the inclusive region
// [top, bot], shifting the rest up and inserting blank lines at the
// bottom. When push is true and the region starts at the physical top,
// removed lines move into scrollback; otherwise they are discarded.
func (g *Grid) ScrollUp(top, bot, n int, push bool) {
	top, bot = g.clampRegion(top, bot)
	n = min(n, bot-top+1)
	if n <= 0 {
		return
	}
	for range n {
		removed := g.lines[top]
		if push && top == 0 {
			g.sb.Push(removed)
		}
		copy(g.lines[top:bot], g.lines[top+1:bot+1])
		g.lines[bot] = NewLine(g.cols)
	}
	g.touchRange(top, bot)
}

// ScrollDown inserts n blank lines at the top of the inclusive region
// [top, bot], shifting the rest down and discarding lines pushed past the
// bottom.
func (g *Grid) ScrollDown(top, bot, n int) {
	top, bot = g.clampRegion(top, bot)
	n = min(n, bot-top+1)
	if n <= 0 {
		return
	}
	for range n {
		copy(g.lines[top+1:bot+1], g.lines[top:bot])
		g.lines[top] = NewLine(g.cols)
	}
	g.touchRange(top, bot)
}

func (g *Grid) clampRegion(top, bot int) (int, int) {
	top = max(top, 0)
	bot = min(bot, g.rows-1)
	return top, bot
}

// ClearAll resets every visible line to blanks carrying the given cell.
func (g *Grid) ClearAll(c Cell) {
	for y := range g.rows {
		g.lines[y] = NewLine(g.cols)
		if !c.Attrs.IsDefault() {
			g.lines[y].FillRange(0, g.cols, c)
		}
	}
	g.MarkAllDirty()
}

// Resize changes the visible dimensions, reflowing content on width
// change and exchanging rows with scrollback on height change. Dimensions
// clamp to at least 1x1 rather than failing. The return value is how many
// rows the remaining content moved, negative when rows left through the
// top, so callers can keep the cursor on its line.
func (g *Grid) Resize(rows, cols int) int {
	rows = max(rows, 1)
	cols = max(cols, 1)
	if rows == g.rows && cols == g.cols {
		return 0
	}

	if cols != g.cols {
		g.reflow(cols)
	}

	shift := 0
	for len(g.lines) > rows {
		// Shrinking: the top line leaves through scrollback.
		g.sb.Push(g.lines[0])
		g.lines = g.lines[1:]
		shift--
	}
	for len(g.lines) < rows {
		// Growing: pull history back before adding blank rows.
		if l := g.sb.PopNewest(); l != nil {
			l.Resize(cols)
			g.lines = append([]*Line{l}, g.lines...)
			shift++
		} else {
			g.lines = append(g.lines, NewLine(cols))
		}
	}

	g.rows = rows
	g.cols = cols
	g.viewOffset = min(g.viewOffset, g.sb.Len())
	g.MarkAllDirty()
	return shift
}

// reflow re-wraps all content, scrollback included, to a new width.
// Lines carrying the wrapped flag are joined with their successor before
// re-wrapping, so text that soft-wrapped at the old width flows naturally
// at the new one. The stable floor only ever moves forward.
func (g *Grid) reflow(cols int) {
	oldTop := g.StableTop()

	var all []*Line
	all = append(all, g.sb.Lines()...)
	all = append(all, g.lines...)

	var logical [][]Cell
	var current []Cell
	for _, l := range all {
		cells := l.visibleCells()
		if l.HasFlag(FlagWrapped) {
			current = append(current, cells...)
			continue
		}
		current = append(current, trimTrailingBlanks(cells)...)
		logical = append(logical, current)
		current = nil
	}
	if current != nil {
		logical = append(logical, current)
	}

	var wrapped []*Line
	for _, cells := range logical {
		wrapped = append(wrapped, wrapCells(cells, cols)...)
	}

	// Blank rows under the last content are cursor space, not content;
	// keeping them would push real lines into scrollback.
	for len(wrapped) > 0 {
		last := wrapped[len(wrapped)-1]
		if last.flags == 0 && last.String() == "" {
			wrapped = wrapped[:len(wrapped)-1]
			continue
		}
		break
	}

	screenRows := min(len(wrapped), g.rows)
	toScrollback := wrapped[:len(wrapped)-screenRows]

	maxSB := g.sb.MaxLines()
	g.sb = NewScrollback(maxSB)
	g.sb.SetOnTrim(func(n int) { g.evicted += int64(n) })
	for _, l := range toScrollback {
		g.sb.Push(l)
	}

	g.lines = append([]*Line(nil), wrapped[len(wrapped)-screenRows:]...)
	for len(g.lines) < g.rows {
		g.lines = append(g.lines, NewLine(cols))
	}
	g.cols = cols

	// Reflow may shrink the total line count; never let the stable floor
	// move backward because of it.
	if newTop := g.StableTop(); newTop < oldTop {
		g.evicted += oldTop - newTop
	}
}

// wrapCells splits a logical line's cells into physical lines of the
// given width. Wide cells never split across the boundary. All produced
// lines except the last carry the wrapped flag.
func wrapCells(cells []Cell, cols int) []*Line {
	if len(cells) == 0 {
		return []*Line{NewLine(cols)}
	}
	var out []*Line
	line := NewLine(cols)
	x := 0
	for _, c := range cells {
		w := int(c.Width)
		if w < 1 {
			w = 1
		}
		if x+w > cols {
			line.SetFlag(FlagWrapped)
			out = append(out, line)
			line = NewLine(cols)
			x = 0
		}
		line.SetCell(x, c)
		x += w
	}
	out = append(out, line)
	return out
}

func trimTrailingBlanks(cells []Cell) []Cell {
	n := len(cells)
	for n > 0 {
		c := cells[n-1]
		if c.Content == " " && c.Attrs.IsDefault() {
			n--
			continue
		}
		break
	}
	return cells[:n]
}
