package selection

import (
	"testing"

	"github.com/Gaurav-Gosain/vtcore/internal/grid"
)

func newGrid(t *testing.T, rows ...string) *grid.Grid {
	t.Helper()
	g := grid.New(len(rows), 20, 100)
	for y, s := range rows {
		x := 0
		for _, r := range s {
			w := 1
			if r >= 0x1100 && (r == '字' || r == '语' || r >= 0x1f300) {
				w = 2
			}
			g.Line(y).SetCell(x, grid.Cell{Content: string(r), Width: uint8(w)})
			x += w
		}
	}
	return g
}

func TestNormalizeSwapsAndIsIdempotent(t *testing.T) {
	r := Start(Coordinate{X: 3, Y: 10}).Extend(Coordinate{X: 1, Y: 4})
	n := r.Normalize()
	if n.Start.Y != 4 || n.End.Y != 10 {
		t.Fatalf("normalize = %+v", n)
	}
	if n.Normalize() != n {
		t.Fatalf("normalize not idempotent: %+v", n.Normalize())
	}
	if already := n.Normalize().Normalize(); already != n {
		t.Fatalf("double normalize changed range: %+v", already)
	}
}

func TestColsForRowSingleRow(t *testing.T) {
	for _, r := range []Range{
		Start(Coordinate{X: 2, Y: 5}).Extend(Coordinate{X: 7, Y: 5}),
		Start(Coordinate{X: 7, Y: 5}).Extend(Coordinate{X: 2, Y: 5}),
	} {
		lo, hi := r.Normalize().ColsForRow(5)
		if lo != 2 || hi != 8 {
			t.Errorf("ColsForRow(5) = [%d, %d), want [2, 8)", lo, hi)
		}
	}
}

func TestColsForRowMultiRow(t *testing.T) {
	r := Start(Coordinate{X: 4, Y: 2}).Extend(Coordinate{X: 6, Y: 5}).Normalize()

	if lo, hi := r.ColsForRow(2); lo != 4 || hi != MaxColumn {
		t.Errorf("first row = [%d, %d)", lo, hi)
	}
	if lo, hi := r.ColsForRow(3); lo != 0 || hi != MaxColumn {
		t.Errorf("interior row = [%d, %d)", lo, hi)
	}
	if lo, hi := r.ColsForRow(5); lo != 0 || hi != 7 {
		t.Errorf("last row = [%d, %d)", lo, hi)
	}
}

func TestColsForRowOutsideRowsEmpty(t *testing.T) {
	r := Start(Coordinate{X: 4, Y: 2}).Extend(Coordinate{X: 6, Y: 5}).Normalize()
	for _, y := range []int64{-1, 0, 1, 6, 100} {
		if lo, hi := r.ColsForRow(y); lo != hi {
			t.Errorf("row %d = [%d, %d), want empty", y, lo, hi)
		}
	}
}

func TestContains(t *testing.T) {
	r := Start(Coordinate{X: 4, Y: 2}).Extend(Coordinate{X: 6, Y: 5}).Normalize()
	if !r.Contains(Coordinate{X: 100, Y: 3}) {
		t.Error("interior row cell not contained")
	}
	if r.Contains(Coordinate{X: 3, Y: 2}) {
		t.Error("cell before start contained")
	}
	if r.Contains(Coordinate{X: 7, Y: 5}) {
		t.Error("cell past end contained")
	}
}

func TestExpandWordSnapsPlaceholderToOwner(t *testing.T) {
	g := newGrid(t, "ab 字cd e")
	// 字 owns columns 3 and 4; clicking the placeholder half must select
	// the whole word the glyph belongs to.
	r := ExpandWord(g, Coordinate{X: 4, Y: 0}, DefaultWordChars)
	if r.Start.X != 3 || r.End.X != 6 {
		t.Fatalf("word = cols %d..%d, want 3..6", r.Start.X, r.End.X)
	}
	if got := Text(g, r); got != "字cd" {
		t.Fatalf("word text = %q", got)
	}
}

func TestExpandWordUsesConfiguredChars(t *testing.T) {
	g := newGrid(t, "see foo.bar here")
	r := ExpandWord(g, Coordinate{X: 5, Y: 0}, DefaultWordChars)
	if got := Text(g, r); got != "foo.bar" {
		t.Fatalf("with dot: %q", got)
	}
	r = ExpandWord(g, Coordinate{X: 5, Y: 0}, "")
	if got := Text(g, r); got != "foo" {
		t.Fatalf("without dot: %q", got)
	}
}

func TestExpandWordOnBlankSelectsCell(t *testing.T) {
	g := newGrid(t, "ab cd")
	r := ExpandWord(g, Coordinate{X: 2, Y: 0}, DefaultWordChars)
	if r.Start.X != 2 || r.End.X != 2 || r.Start.Y != 0 {
		t.Fatalf("blank click = %+v", r)
	}
}

func TestExpandLineFollowsWrap(t *testing.T) {
	g := newGrid(t, "abcdefgh", "ijk", "next")
	g.Line(0).SetFlag(grid.FlagWrapped)

	for _, y := range []int64{0, 1} {
		r := ExpandLine(g, Coordinate{X: 2, Y: y})
		if r.Start.Y != 0 || r.End.Y != 1 {
			t.Errorf("from row %d: rows %d..%d, want 0..1", y, r.Start.Y, r.End.Y)
		}
	}
	r := ExpandLine(g, Coordinate{X: 0, Y: 2})
	if r.Start.Y != 2 || r.End.Y != 2 {
		t.Fatalf("unwrapped row expanded to %d..%d", r.Start.Y, r.End.Y)
	}
	if got := Text(g, ExpandLine(g, Coordinate{X: 0, Y: 0})); got != "abcdefghijk" {
		t.Fatalf("wrapped line text = %q", got)
	}
}

func TestTextSelectionStartingMidGlyph(t *testing.T) {
	g := newGrid(t, "字ab")
	// Column 1 is the placeholder half; the glyph is copied whole.
	r := Start(Coordinate{X: 1, Y: 0}).Extend(Coordinate{X: 3, Y: 0}).Normalize()
	if got := Text(g, r); got != "字ab" {
		t.Fatalf("mid-glyph start = %q", got)
	}
}

func TestTextMultiRow(t *testing.T) {
	g := newGrid(t, "hello world", "second line")
	r := Start(Coordinate{X: 6, Y: 0}).Extend(Coordinate{X: 5, Y: 1}).Normalize()
	if got := Text(g, r); got != "world\nsecon" {
		t.Fatalf("multi-row = %q", got)
	}
}
