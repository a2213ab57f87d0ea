package grid

import (
	"strings"

	"github.com/rivo/uniseg"

	"github.com/Gaurav-Gosain/vtcore/internal/hyperlink"
)

// Flags is the per-line bit-flag set.
type Flags uint16

// Line flags.
const (
	// FlagHasHyperlink marks lines holding at least one cell with a
	// hyperlink reference, so link scans can skip everything else.
	FlagHasHyperlink Flags = 1 << iota
	// FlagHyperlinkScanDone marks lines whose implicit-link scan is
	// current for the active rule generation.
	FlagHyperlinkScanDone
	// FlagWrapped marks lines that continue onto the next line, set when
	// a print wraps at the right margin. Reflow joins wrapped lines.
	FlagWrapped
	FlagDoubleWidth
	FlagDoubleHeightTop
	FlagDoubleHeightBottom
	FlagBidiEnabled
	FlagRightToLeft
	FlagAutoDirection
)

// run is one attribute cluster of a compacted line: a maximal span of
// consecutive cells sharing identical attributes. Placeholder cells are
// not stored; they are implied by double-width clusters and recreated on
// expansion.
type run struct {
	attrs Attrs
	text  string
	// widths holds the display width of each grapheme cluster of text,
	// in cluster order.
	widths []uint8
}

// Line is an ordered sequence of cells in one of two representations: a
// dense per-cell slice while the line is actively edited, or a compacted
// run list for memory-efficient scrollback. Both yield identical results
// from the visible-cell iteration interface.
type Line struct {
	cells []Cell
	runs  []run
	cols  int
	flags Flags
	gen   uint64
}

// NewLine creates a dense blank line with the given column count.
func NewLine(cols int) *Line {
	if cols < 1 {
		cols = 1
	}
	l := &Line{cols: cols}
	l.cells = make([]Cell, cols)
	for i := range l.cells {
		l.cells[i] = Blank(Attrs{})
	}
	return l
}

// Cols returns the line's column count.
func (l *Line) Cols() int {
	return l.cols
}

// Generation returns the line's dirty-tracking generation.
func (l *Line) Generation() uint64 {
	return l.gen
}

func (l *Line) setGeneration(g uint64) {
	l.gen = g
}

// HasFlag reports whether all given flags are set.
func (l *Line) HasFlag(f Flags) bool {
	return l.flags&f == f
}

// SetFlag sets the given flags.
func (l *Line) SetFlag(f Flags) {
	l.flags |= f
}

// ClearFlag clears the given flags.
func (l *Line) ClearFlag(f Flags) {
	l.flags &^= f
}

// IsCompact reports whether the line is in the clustered representation.
func (l *Line) IsCompact() bool {
	return l.cells == nil
}

// Compact converts the line to the clustered representation. It is a
// no-op on an already compact line.
func (l *Line) Compact() {
	if l.cells == nil {
		return
	}
	var runs []run
	for _, c := range l.cells {
		if c.IsPlaceholder() {
			continue
		}
		content := c.Content
		if content == "" {
			content = " "
		}
		w := c.Width
		if w == 0 {
			w = 1
		}
		if n := len(runs); n > 0 && runs[n-1].attrs.Equal(c.Attrs) {
			runs[n-1].text += content
			runs[n-1].widths = append(runs[n-1].widths, w)
			continue
		}
		runs = append(runs, run{attrs: c.Attrs, text: content, widths: []uint8{w}})
	}
	l.runs = runs
	l.cells = nil
}

// expand rebuilds the dense representation from the run list.
func (l *Line) expand() {
	if l.cells != nil {
		return
	}
	cells := make([]Cell, 0, l.cols)
	for _, r := range l.runs {
		i := 0
		g := uniseg.NewGraphemes(r.text)
		for g.Next() {
			w := uint8(1)
			if i < len(r.widths) {
				w = r.widths[i]
			}
			i++
			cells = append(cells, Cell{Content: g.Str(), Width: w, Attrs: r.attrs})
			if w == 2 {
				cells = append(cells, Placeholder(r.attrs))
			}
		}
	}
	for len(cells) < l.cols {
		cells = append(cells, Blank(Attrs{}))
	}
	if len(cells) > l.cols {
		cells = cells[:l.cols]
	}
	l.cells = cells
	l.runs = nil
}

// CellAt returns the cell at the given column, including placeholder
// cells. Out-of-range columns return a blank. A compact line answers
// without converting back to dense storage.
func (l *Line) CellAt(col int) Cell {
	if col < 0 || col >= l.cols {
		return Blank(Attrs{})
	}
	if l.cells != nil {
		return l.cells[col]
	}
	x := 0
	for _, r := range l.runs {
		i := 0
		g := uniseg.NewGraphemes(r.text)
		for g.Next() {
			w := uint8(1)
			if i < len(r.widths) {
				w = r.widths[i]
			}
			i++
			if col == x {
				return Cell{Content: g.Str(), Width: w, Attrs: r.attrs}
			}
			if w == 2 && col == x+1 {
				return Placeholder(r.attrs)
			}
			x += int(w)
		}
	}
	return Blank(Attrs{})
}

// SetCell writes a cell at the given column, maintaining the wide-cell
// placeholder invariant: writing over half of a double-width pair blanks
// the other half, and a double-width write installs its own placeholder.
func (l *Line) SetCell(col int, c Cell) {
	if col < 0 || col >= l.cols {
		return
	}
	l.expand()

	// Splitting an existing wide pair leaves no half-glyphs behind.
	old := l.cells[col]
	if old.IsPlaceholder() && col > 0 && l.cells[col-1].Width == 2 {
		l.cells[col-1] = Blank(l.cells[col-1].Attrs)
	}
	if old.Width == 2 && col+1 < l.cols {
		l.cells[col+1] = Blank(old.Attrs)
	}

	if c.Width == 2 {
		if col+1 >= l.cols {
			// No room for the placeholder half: degrade to a blank.
			l.cells[col] = Blank(c.Attrs)
			return
		}
		next := l.cells[col+1]
		if next.Width == 2 && col+2 < l.cols {
			l.cells[col+2] = Blank(next.Attrs)
		}
		l.cells[col] = c
		l.cells[col+1] = Placeholder(c.Attrs)
		return
	}
	l.cells[col] = c
}

// AppendToCell appends a combining mark to the grapheme cluster already
// stored at the column, used for zero-width characters arriving after
// their base.
func (l *Line) AppendToCell(col int, mark rune) {
	if col < 0 || col >= l.cols {
		return
	}
	l.expand()
	c := l.cells[col]
	if c.IsPlaceholder() || c.Content == "" {
		return
	}
	c.Content += string(mark)
	l.cells[col] = c
}

// FillRange overwrites columns [x0, x1) with copies of the given cell,
// clamped to the line.
func (l *Line) FillRange(x0, x1 int, c Cell) {
	x0 = max(x0, 0)
	x1 = min(x1, l.cols)
	if x0 >= x1 {
		return
	}
	l.expand()
	// Repair wide pairs cut by the fill boundaries.
	if l.cells[x0].IsPlaceholder() && x0 > 0 && l.cells[x0-1].Width == 2 {
		l.cells[x0-1] = Blank(l.cells[x0-1].Attrs)
	}
	if x1 < l.cols && l.cells[x1].IsPlaceholder() && l.cells[x1-1].Width == 2 {
		l.cells[x1] = Blank(l.cells[x1-1].Attrs)
	}
	for x := x0; x < x1; x++ {
		l.cells[x] = c
	}
}

// Each iterates visible cells left to right with their computed display
// column, skipping placeholder halves. Both storage representations
// produce identical sequences. The callback returns false to stop.
func (l *Line) Each(yield func(col int, c Cell) bool) {
	if l.cells != nil {
		for x := 0; x < len(l.cells); {
			c := l.cells[x]
			if c.IsPlaceholder() {
				x++
				continue
			}
			if !yield(x, c) {
				return
			}
			w := int(c.Width)
			if w < 1 {
				w = 1
			}
			x += w
		}
		return
	}
	x := 0
	for _, r := range l.runs {
		i := 0
		g := uniseg.NewGraphemes(r.text)
		for g.Next() {
			w := uint8(1)
			if i < len(r.widths) {
				w = r.widths[i]
			}
			i++
			if !yield(x, Cell{Content: g.Str(), Width: w, Attrs: r.attrs}) {
				return
			}
			x += int(w)
		}
	}
}

// Resize grows or truncates the line to the given column count.
func (l *Line) Resize(cols int) {
	if cols < 1 {
		cols = 1
	}
	if cols == l.cols {
		return
	}
	l.expand()
	if cols < l.cols {
		// Never truncate through the middle of a wide pair.
		if l.cells[cols].IsPlaceholder() && l.cells[cols-1].Width == 2 {
			l.cells[cols-1] = Blank(l.cells[cols-1].Attrs)
		}
		l.cells = l.cells[:cols]
	} else {
		for len(l.cells) < cols {
			l.cells = append(l.cells, Blank(Attrs{}))
		}
	}
	l.cols = cols
}

// String returns the line's text with trailing blanks trimmed.
func (l *Line) String() string {
	var sb strings.Builder
	l.Each(func(_ int, c Cell) bool {
		sb.WriteString(c.Content)
		return true
	})
	return strings.TrimRight(sb.String(), " ")
}

// Links returns the distinct hyperlinks referenced by the line's cells,
// or nil when the has-hyperlink flag is clear.
func (l *Line) Links() []*hyperlink.Link {
	if !l.HasFlag(FlagHasHyperlink) {
		return nil
	}
	var links []*hyperlink.Link
	seen := make(map[*hyperlink.Link]struct{})
	l.Each(func(_ int, c Cell) bool {
		if c.Attrs.Link != nil {
			if _, ok := seen[c.Attrs.Link]; !ok {
				seen[c.Attrs.Link] = struct{}{}
				links = append(links, c.Attrs.Link)
			}
		}
		return true
	})
	return links
}

// clone returns a deep copy sharing no mutable state with the original.
func (l *Line) clone() *Line {
	nl := &Line{cols: l.cols, flags: l.flags, gen: l.gen}
	if l.cells != nil {
		nl.cells = append([]Cell(nil), l.cells...)
		return nl
	}
	nl.runs = make([]run, len(l.runs))
	for i, r := range l.runs {
		nl.runs[i] = run{attrs: r.attrs, text: r.text, widths: append([]uint8(nil), r.widths...)}
	}
	return nl
}

// visibleCells returns the non-placeholder cells in order, used by reflow.
func (l *Line) visibleCells() []Cell {
	var out []Cell
	l.Each(func(_ int, c Cell) bool {
		out = append(out, c)
		return true
	})
	return out
}
