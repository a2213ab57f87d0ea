package vt

import "github.com/Gaurav-Gosain/vtcore/internal/grid"

// Cursor tracks the insertion point and the attribute set that will be
// applied to the next printed cell.
type Cursor struct {
	X, Y  int
	Attrs grid.Attrs

	// atPhantom is the pending-wrap flag. Printing in the last column
	// sets it instead of wrapping immediately; the wrap happens when the
	// next character arrives. Explicit cursor movement clears it.
	atPhantom bool
}

// Screen is one terminal buffer (main or alternate) with its own cursor,
// saved cursor and scroll region.
type Screen struct {
	grid *grid.Grid

	cur      Cursor
	saved    Cursor
	savedSet bool

	// Scroll region as inclusive physical rows.
	top, bot int
}

func newScreen(rows, cols, scrollback int) *Screen {
	s := &Screen{grid: grid.New(rows, cols, scrollback)}
	s.top, s.bot = 0, s.grid.Rows()-1
	return s
}

// Grid returns the screen's grid.
func (s *Screen) Grid() *grid.Grid { return s.grid }

// Cursor returns a copy of the screen's cursor.
func (s *Screen) Cursor() Cursor { return s.cur }

func (s *Screen) setCursor(x, y int) {
	s.cur.X = clamp(x, 0, s.grid.Cols()-1)
	s.cur.Y = clamp(y, 0, s.grid.Rows()-1)
	s.cur.atPhantom = false
}

func (s *Screen) resetRegion() {
	s.top, s.bot = 0, s.grid.Rows()-1
}

// inRegion reports whether the cursor row is inside the scroll region.
func (s *Screen) inRegion() bool {
	return s.cur.Y >= s.top && s.cur.Y <= s.bot
}

func (s *Screen) saveCursor() {
	s.saved = s.cur
	s.savedSet = true
}

func (s *Screen) restoreCursor() {
	if !s.savedSet {
		s.cur = Cursor{}
		return
	}
	s.cur = s.saved
	s.setCursor(s.cur.X, s.cur.Y)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
