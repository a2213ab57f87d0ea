// Package selection models text selections over the terminal grid.
// Coordinates address rows by stable index, so a selection survives
// scrollback eviction and viewport moves without renumbering.
package selection

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Gaurav-Gosain/vtcore/internal/grid"
)

// MaxColumn is the "end of line" sentinel used in column intervals. The
// model has no knowledge of actual line lengths; consumers clamp it to
// whatever width the row really has.
const MaxColumn = math.MaxInt32

// DefaultWordChars are the non-alphanumeric runes treated as part of a
// word during double-click expansion.
const DefaultWordChars = "-./_~?&=%+#@:"

// Coordinate is one endpoint of a selection: a column and a stable row.
type Coordinate struct {
	X int
	Y int64
}

// Range is an inclusive pair of coordinates. Ranges are immutable value
// types; Extend and Normalize return new ranges, so callers can keep the
// pre-extension range around for redisplay.
type Range struct {
	Start, End Coordinate
}

// Start creates a zero-length range anchored at the coordinate.
func Start(c Coordinate) Range {
	return Range{Start: c, End: c}
}

// Extend returns a range from the original start to the new coordinate.
func (r Range) Extend(c Coordinate) Range {
	return Range{Start: r.Start, End: c}
}

// Normalize returns a range with Start.Y <= End.Y, swapping the
// endpoints if necessary. Normalizing an already normalized range is a
// no-op. Rows, ColsForRow and Contains require a normalized range.
func (r Range) Normalize() Range {
	if r.End.Y < r.Start.Y {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

// Rows returns the inclusive stable-row span of a normalized range.
func (r Range) Rows() (int64, int64) {
	return r.Start.Y, r.End.Y
}

// ColsForRow returns the half-open column interval selected on the given
// stable row of a normalized range. Rows outside the range yield an
// empty interval. The first row of a multi-row selection runs to
// MaxColumn; the last row starts at column 0; interior rows cover the
// full width.
func (r Range) ColsForRow(y int64) (lo, hi int) {
	switch {
	case y < r.Start.Y || y > r.End.Y:
		return 0, 0
	case r.Start.Y == r.End.Y:
		return min(r.Start.X, r.End.X), max(r.Start.X, r.End.X) + 1
	case y == r.Start.Y:
		return r.Start.X, MaxColumn
	case y == r.End.Y:
		return 0, r.End.X + 1
	default:
		return 0, MaxColumn
	}
}

// Contains reports whether the cell at the coordinate is inside a
// normalized range.
func (r Range) Contains(c Coordinate) bool {
	lo, hi := r.ColsForRow(c.Y)
	return c.X >= lo && c.X < hi
}

// RowSource is the read-only view of the grid the expansion helpers
// consume. *grid.Grid satisfies it.
type RowSource interface {
	LineByStable(s int64) *grid.Line
}

// ExpandWord returns the range covering the word under the coordinate,
// for double-click selection. A click on the placeholder half of a
// double-width cell resolves to the owning cell, and the returned range
// always covers whole cells, so grapheme clusters are never split.
// Clicking a non-word cell selects just that cell.
func ExpandWord(src RowSource, c Coordinate, wordChars string) Range {
	l := src.LineByStable(c.Y)
	if l == nil {
		return Start(c)
	}

	cells := rowCells(l)
	i := cellIndexAt(cells, c.X)
	if i < 0 {
		return Start(c)
	}
	if !isWordCell(cells[i].cell, wordChars) {
		return Range{
			Start: Coordinate{X: cells[i].x, Y: c.Y},
			End:   Coordinate{X: cells[i].lastCol(), Y: c.Y},
		}
	}

	lo, hi := i, i
	for lo > 0 && isWordCell(cells[lo-1].cell, wordChars) {
		lo--
	}
	for hi < len(cells)-1 && isWordCell(cells[hi+1].cell, wordChars) {
		hi++
	}
	return Range{
		Start: Coordinate{X: cells[lo].x, Y: c.Y},
		End:   Coordinate{X: cells[hi].lastCol(), Y: c.Y},
	}
}

// ExpandLine returns the range covering the full logical line under the
// coordinate, for triple-click selection. Rows soft-wrapped at the grid
// width are followed in both directions.
func ExpandLine(src RowSource, c Coordinate) Range {
	top, bot := c.Y, c.Y
	for {
		prev := src.LineByStable(top - 1)
		if prev == nil || !prev.HasFlag(grid.FlagWrapped) {
			break
		}
		top--
	}
	for {
		l := src.LineByStable(bot)
		if l == nil || !l.HasFlag(grid.FlagWrapped) {
			break
		}
		bot++
	}
	return Range{
		Start: Coordinate{X: 0, Y: top},
		End:   Coordinate{X: MaxColumn, Y: bot},
	}
}

// Text extracts the selected text for the clipboard. Rows are joined
// with newlines except across soft-wrap boundaries, and trailing blanks
// on to-end-of-line rows are trimmed.
func Text(src RowSource, r Range) string {
	r = r.Normalize()
	var b strings.Builder
	for y := r.Start.Y; y <= r.End.Y; y++ {
		l := src.LineByStable(y)
		if l == nil {
			continue
		}
		lo, hi := r.ColsForRow(y)
		var row strings.Builder
		l.Each(func(x int, c grid.Cell) bool {
			w := int(c.Width)
			if w < 1 {
				w = 1
			}
			// A cell straddling the start column is included whole, so
			// a selection starting mid-glyph still copies the glyph.
			if x+w <= lo {
				return true
			}
			if x >= hi {
				return false
			}
			row.WriteString(c.Content)
			return true
		})
		text := row.String()
		if hi >= MaxColumn {
			text = strings.TrimRight(text, " ")
		}
		b.WriteString(text)
		if y < r.End.Y && !l.HasFlag(grid.FlagWrapped) {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// ownedCell is a visible cell with its display column.
type ownedCell struct {
	x    int
	cell grid.Cell
}

func (o ownedCell) lastCol() int {
	w := int(o.cell.Width)
	if w < 1 {
		w = 1
	}
	return o.x + w - 1
}

func rowCells(l *grid.Line) []ownedCell {
	var out []ownedCell
	l.Each(func(x int, c grid.Cell) bool {
		out = append(out, ownedCell{x: x, cell: c})
		return true
	})
	return out
}

// cellIndexAt finds the cell owning the column, snapping placeholder
// halves to their owner.
func cellIndexAt(cells []ownedCell, col int) int {
	for i, o := range cells {
		if col >= o.x && col <= o.lastCol() {
			return i
		}
	}
	return -1
}

func isWordCell(c grid.Cell, wordChars string) bool {
	if c.IsBlank() || c.Content == "" {
		return false
	}
	r, _ := utf8.DecodeRuneInString(c.Content)
	if unicode.IsLetter(r) || unicode.IsDigit(r) {
		return true
	}
	return strings.ContainsRune(wordChars, r)
}
