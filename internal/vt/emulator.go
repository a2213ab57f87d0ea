// Package vt implements the terminal state machine: it consumes the
// ordered action stream produced by the escape-sequence parser and
// mutates a screen model, calling out to the host for anything that must
// escape the local state.
package vt

import (
	"image/color"
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/Gaurav-Gosain/vtcore/internal/grid"
	"github.com/Gaurav-Gosain/vtcore/internal/parser"
)

// Emulator represents a virtual terminal emulator.
//
// Write and Resize lock the emulator internally, so a PTY reader
// goroutine may feed Write while the host runs elsewhere. Everything
// else is unsynchronized: hosts that read the grid or call accessors
// concurrently with Write must hold Lock for the duration of the read.
type Emulator struct {
	mu sync.Mutex

	// The terminal's indexed 256 colors.
	colors [256]color.Color

	// Both main and alt screens and a pointer to the currently active
	// screen. Only the main screen keeps scrollback.
	scrs [2]*Screen
	scr  *Screen

	logger Logger

	// Terminal default colors.
	defaultFg, defaultBg, defaultCur color.Color
	fgColor, bgColor, curColor       color.Color

	// Terminal modes.
	modes ansi.Modes

	parser *parser.Parser

	cb Callbacks

	// The terminal's icon name and title.
	iconName, title string
	// The current reported working directory. This is not validated.
	cwd string

	tabstops *tabStops

	// G0 and G1 character sets and the active GL selector.
	charsets [2]CharSet
	gl       int

	// DECSCUSR cursor style, 0/1 block blink through 6 bar steady.
	cursorStyle int

	markers *SemanticMarkerList

	allowClipboardRead  bool
	allowClipboardWrite bool

	lastPrinted rune
}

// Option configures a new emulator.
type Option func(*Emulator)

// WithScrollback sets the main screen's maximum scrollback line count.
func WithScrollback(maxLines int) Option {
	return func(e *Emulator) {
		e.scrs[0].grid.Scrollback().SetMaxLines(maxLines)
	}
}

// WithClipboardPolicy sets whether OSC 52 may read or write the host
// clipboard. Writes default to allowed, reads to denied.
func WithClipboardPolicy(read, write bool) Option {
	return func(e *Emulator) {
		e.allowClipboardRead = read
		e.allowClipboardWrite = write
	}
}

// NewEmulator creates a new virtual terminal emulator.
func NewEmulator(w, h int, opts ...Option) *Emulator {
	e := new(Emulator)
	e.scrs[0] = newScreen(h, w, 10000)
	e.scrs[1] = newScreen(h, w, 0)
	e.scr = e.scrs[0]
	e.parser = parser.New(e)
	e.tabstops = defaultTabStops(w)
	e.markers = NewSemanticMarkerList(0)
	e.allowClipboardWrite = true
	e.resetModes()

	for _, opt := range opts {
		opt(e)
	}
	return e
}

var _ parser.Performer = (*Emulator)(nil)

// SetLogger sets the terminal's logger.
func (e *Emulator) SetLogger(l Logger) {
	e.logger = l
}

// SetCallbacks sets the terminal's callbacks.
func (e *Emulator) SetCallbacks(cb Callbacks) {
	e.cb = cb
}

// Write feeds child-process output bytes into the emulator. It always
// consumes the whole slice; malformed input degrades to ignored or
// replacement actions, never an error.
func (e *Emulator) Write(p []byte) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.parser.Parse(p)
	return len(p), nil
}

// Lock takes exclusive ownership of the terminal state, blocking Write.
// Hosts hold it around grid reads and viewport changes that race a
// writer goroutine. Do not call Write or Resize while holding it.
func (e *Emulator) Lock() { e.mu.Lock() }

// Unlock releases the terminal state.
func (e *Emulator) Unlock() { e.mu.Unlock() }

// WriteString writes a string of child output to the emulator.
func (e *Emulator) WriteString(s string) (int, error) {
	return e.Write([]byte(s))
}

// Grid returns the currently active screen's grid.
func (e *Emulator) Grid() *grid.Grid {
	return e.scr.grid
}

// MainGrid returns the main screen's grid regardless of which screen is
// active. The alternate screen has no scrollback.
func (e *Emulator) MainGrid() *grid.Grid {
	return e.scrs[0].grid
}

// Screen returns the currently active screen.
func (e *Emulator) Screen() *Screen {
	return e.scr
}

// Width returns the width of the terminal.
func (e *Emulator) Width() int {
	return e.scr.grid.Cols()
}

// Height returns the height of the terminal.
func (e *Emulator) Height() int {
	return e.scr.grid.Rows()
}

// CursorPosition returns the cursor's physical column and row.
func (e *Emulator) CursorPosition() (x, y int) {
	return e.scr.cur.X, e.scr.cur.Y
}

// CursorStyle returns the DECSCUSR cursor style, 0 meaning default.
func (e *Emulator) CursorStyle() int {
	return e.cursorStyle
}

// IsCursorHidden returns whether the cursor is currently hidden.
// Applications hide the cursor with DECTCEM.
func (e *Emulator) IsCursorHidden() bool {
	return !e.isModeSet(ansi.ModeTextCursorEnable)
}

// IsAltScreen returns whether the alternate screen buffer is active.
func (e *Emulator) IsAltScreen() bool {
	return e.scr == e.scrs[1]
}

// ApplicationCursorKeys returns whether DECCKM is set. Hosts encode arrow
// keys as SS3 sequences while it is active.
func (e *Emulator) ApplicationCursorKeys() bool {
	return e.isModeSet(ansi.ModeCursorKeys)
}

// BracketedPaste returns whether bracketed paste mode is active.
func (e *Emulator) BracketedPaste() bool {
	return e.isModeSet(ansi.ModeBracketedPaste)
}

// Title returns the window title.
func (e *Emulator) Title() string { return e.title }

// IconName returns the icon name.
func (e *Emulator) IconName() string { return e.iconName }

// WorkingDirectory returns the last OSC 7 reported working directory.
func (e *Emulator) WorkingDirectory() string { return e.cwd }

// SemanticMarkers returns the captured OSC 133 prompt markers.
func (e *Emulator) SemanticMarkers() *SemanticMarkerList {
	return e.markers
}

// String returns the visible screen content as plain text, one line per
// row with trailing blanks trimmed.
func (e *Emulator) String() string {
	g := e.scr.grid
	lines := make([]string, g.Rows())
	for y := range lines {
		lines[y] = g.Line(y).String()
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// Resize resizes the terminal, reflowing main-screen content and keeping
// the cursor visible.
func (e *Emulator) Resize(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	width = max(width, 1)
	height = max(height, 1)

	x, y := e.scr.cur.X, e.scr.cur.Y
	if e.scr.cur.atPhantom && x < width-1 {
		e.scr.cur.atPhantom = false
		x++
	}

	mainShift := e.scrs[0].grid.Resize(height, width)
	altShift := e.scrs[1].grid.Resize(height, width)
	e.scrs[0].resetRegion()
	e.scrs[1].resetRegion()
	e.tabstops.Resize(width)

	// Rows exchanged with scrollback moved the content under the cursor.
	shift := mainShift
	if e.IsAltScreen() {
		shift = altShift
	}
	e.scr.setCursor(min(x, width-1), clamp(y+shift, 0, height-1))
	e.scr.grid.MarkAllDirty()
}

// Paste sends text to the child, wrapped in bracketed paste markers when
// the mode is set.
func (e *Emulator) Paste(text string) {
	if e.isModeSet(ansi.ModeBracketedPaste) {
		e.reply(ansi.BracketedPasteStart)
		defer e.reply(ansi.BracketedPasteEnd)
	}
	e.reply(text)
}

func (e *Emulator) reply(s string) {
	if e.cb.WriteReply != nil {
		e.cb.WriteReply([]byte(s))
	}
}

func (e *Emulator) logf(format string, v ...any) {
	if e.logger != nil {
		e.logger.Printf(format, v...)
	}
}

func (e *Emulator) isModeSet(m ansi.Mode) bool {
	return e.modes[m].IsSet()
}

func (e *Emulator) resetModes() {
	e.modes = ansi.Modes{}
	e.modes[ansi.ModeAutoWrap] = ansi.ModeSet
	e.modes[ansi.ModeTextCursorEnable] = ansi.ModeSet
}

// Print places a single decoded character at the cursor, honoring the
// pending-wrap flag, character sets and the insert mode.
func (e *Emulator) Print(r rune) {
	r = e.charsets[e.gl].mapRune(r)
	w := runewidth.RuneWidth(r)
	cur := &e.scr.cur
	g := e.scr.grid

	if w == 0 {
		// Combining mark: attach to the previously printed cell.
		x := cur.X
		if !cur.atPhantom {
			x--
		}
		if x < 0 {
			return
		}
		line := g.Line(cur.Y)
		if line.CellAt(x).IsPlaceholder() {
			x--
		}
		if x >= 0 {
			line.AppendToCell(x, r)
			g.Touch(cur.Y)
		}
		return
	}

	autowrap := e.isModeSet(ansi.ModeAutoWrap)
	cols := g.Cols()

	if cur.atPhantom && autowrap {
		cur.atPhantom = false
		g.Line(cur.Y).SetFlag(grid.FlagWrapped)
		e.index()
		cur.X = 0
	}
	// A wide glyph that no longer fits wraps early instead of splitting.
	if w == 2 && cur.X == cols-1 && autowrap {
		g.Line(cur.Y).SetFlag(grid.FlagWrapped)
		e.index()
		cur.X = 0
	}

	line := g.Line(cur.Y)
	if e.isModeSet(ansi.ModeInsertReplace) {
		insertCells(line, cur.X, w, grid.Blank(grid.Attrs{}))
	}

	c := grid.Cell{Content: string(r), Width: uint8(w), Attrs: cur.Attrs}
	line.SetCell(cur.X, c)
	if c.Attrs.Link != nil {
		line.SetFlag(grid.FlagHasHyperlink)
		line.ClearFlag(grid.FlagHyperlinkScanDone)
	}
	g.Touch(cur.Y)
	e.lastPrinted = r

	if cur.X+w >= cols {
		cur.X = cols - 1
		if autowrap {
			cur.atPhantom = true
		}
	} else {
		cur.X += w
	}
}

// Execute runs a C0 control immediately.
func (e *Emulator) Execute(code byte) {
	cur := &e.scr.cur
	switch code {
	case ansi.BEL:
		if e.cb.Bell != nil {
			e.cb.Bell()
		}
	case ansi.BS:
		// Clamped to the left margin; never crosses to a previous line.
		if cur.X > 0 {
			cur.X--
		}
		cur.atPhantom = false
	case ansi.HT:
		cur.X = e.tabstops.Next(cur.X)
		cur.atPhantom = false
	case ansi.LF, ansi.VT, ansi.FF:
		e.index()
		if e.isModeSet(ansi.ModeLineFeedNewLine) {
			cur.X = 0
		}
	case ansi.CR:
		cur.X = 0
		cur.atPhantom = false
	case ansi.SO:
		e.gl = 1
	case ansi.SI:
		e.gl = 0
	default:
		e.logf("unhandled control: %q", code)
	}
}

// index moves the cursor down one row, scrolling the region when the
// cursor sits on the bottom margin. The column is preserved.
func (e *Emulator) index() {
	s := e.scr
	if s.cur.Y == s.bot {
		// Only main-screen scrolls with the region anchored at the top
		// feed the scrollback.
		push := !e.IsAltScreen() && s.top == 0
		s.grid.ScrollUp(s.top, s.bot, 1, push)
	} else if s.cur.Y < s.grid.Rows()-1 {
		s.cur.Y++
	}
	s.cur.atPhantom = false
}

// reverseIndex moves the cursor up one row, scrolling the region down
// when the cursor sits on the top margin.
func (e *Emulator) reverseIndex() {
	s := e.scr
	if s.cur.Y == s.top {
		s.grid.ScrollDown(s.top, s.bot, 1)
	} else if s.cur.Y > 0 {
		s.cur.Y--
	}
	s.cur.atPhantom = false
}

// EscDispatch handles a completed ESC sequence.
func (e *Emulator) EscDispatch(intermediates []byte, final byte) {
	if len(intermediates) > 0 {
		switch intermediates[0] {
		case '(':
			e.charsets[0] = charSetFor(final)
		case ')':
			e.charsets[1] = charSetFor(final)
		case '#':
			if final == '8' {
				e.alignmentTest()
			}
		}
		return
	}

	switch final {
	case 'D': // IND
		e.index()
	case 'E': // NEL
		e.index()
		e.scr.cur.X = 0
	case 'M': // RI
		e.reverseIndex()
	case 'H': // HTS
		e.tabstops.Set(e.scr.cur.X)
	case '7': // DECSC
		e.scr.saveCursor()
	case '8': // DECRC
		e.scr.restoreCursor()
	case 'c': // RIS
		e.reset()
	case '=', '>': // DECKPAM / DECKPNM
		// Keypad modes carry no state the screen model consumes.
	case '\\': // ST terminating a string; already consumed by the parser.
	default:
		e.logf("unhandled sequence: ESC %q", final)
	}
}

// alignmentTest fills the screen with E, the DECALN pattern.
func (e *Emulator) alignmentTest() {
	g := e.scr.grid
	c := grid.Cell{Content: "E", Width: 1}
	for y := range g.Rows() {
		g.Line(y).FillRange(0, g.Cols(), c)
		g.Touch(y)
	}
	e.scr.setCursor(0, 0)
}

// reset performs RIS: full terminal reset short of forgetting the title.
func (e *Emulator) reset() {
	cols := e.Width()
	e.resetModes()
	e.scrs[0].grid.ClearAll(grid.Cell{})
	e.scrs[1].grid.ClearAll(grid.Cell{})
	e.scrs[0].cur = Cursor{}
	e.scrs[1].cur = Cursor{}
	e.scrs[0].savedSet = false
	e.scrs[1].savedSet = false
	e.scrs[0].resetRegion()
	e.scrs[1].resetRegion()
	e.scr = e.scrs[0]
	e.tabstops = defaultTabStops(cols)
	e.charsets = [2]CharSet{CharSetASCII, CharSetASCII}
	e.gl = 0
	e.cursorStyle = 0
	e.colors = [256]color.Color{}
	e.fgColor, e.bgColor, e.curColor = nil, nil, nil
}

// DcsHook begins a device control string. Payloads are framed correctly
// but otherwise ignored.
func (e *Emulator) DcsHook(params []parser.Param, intermediates []byte, final byte) {
	e.logf("ignoring DCS %q", final)
}

// DcsPut streams one DCS payload byte.
func (e *Emulator) DcsPut(b byte) {}

// DcsUnhook ends a device control string.
func (e *Emulator) DcsUnhook() {}

// ForegroundColor returns the terminal's foreground color, nil meaning
// the outer terminal default.
func (e *Emulator) ForegroundColor() color.Color {
	if e.fgColor != nil {
		return e.fgColor
	}
	return e.defaultFg
}

// SetForegroundColor sets the terminal's foreground color.
func (e *Emulator) SetForegroundColor(c color.Color) {
	if c == nil {
		c = e.defaultFg
	}
	e.fgColor = c
	if e.cb.ForegroundColor != nil {
		e.cb.ForegroundColor(c)
	}
}

// BackgroundColor returns the terminal's background color, nil meaning
// the outer terminal default.
func (e *Emulator) BackgroundColor() color.Color {
	if e.bgColor != nil {
		return e.bgColor
	}
	return e.defaultBg
}

// SetBackgroundColor sets the terminal's background color.
func (e *Emulator) SetBackgroundColor(c color.Color) {
	if c == nil {
		c = e.defaultBg
	}
	e.bgColor = c
	if e.cb.BackgroundColor != nil {
		e.cb.BackgroundColor(c)
	}
}

// CursorColor returns the terminal's cursor color.
func (e *Emulator) CursorColor() color.Color {
	if e.curColor != nil {
		return e.curColor
	}
	return e.defaultCur
}

// SetCursorColor sets the terminal's cursor color.
func (e *Emulator) SetCursorColor(c color.Color) {
	if c == nil {
		c = e.defaultCur
	}
	e.curColor = c
	if e.cb.CursorColor != nil {
		e.cb.CursorColor(c)
	}
}

// IndexedColor returns a terminal's indexed color between 0 and 255,
// with OSC 4 overrides applied.
func (e *Emulator) IndexedColor(i int) color.Color {
	if i < 0 || i > 255 {
		return nil
	}
	if c := e.colors[i]; c != nil {
		return c
	}
	return ansi.IndexedColor(uint8(i)) //nolint:gosec // bounds checked above
}

// SetIndexedColor sets a terminal's indexed color between 0 and 255.
func (e *Emulator) SetIndexedColor(i int, c color.Color) {
	if i >= 0 && i <= 255 {
		e.colors[i] = c
	}
}

// SetThemeColors sets the default foreground, background and cursor
// colors plus the 16 ANSI palette entries used by applications.
func (e *Emulator) SetThemeColors(fg, bg, cur color.Color, palette [16]color.Color) {
	e.defaultFg = fg
	e.defaultBg = bg
	e.defaultCur = cur
	if fg != nil || bg != nil {
		for i := range 16 {
			e.SetIndexedColor(i, palette[i])
		}
	}
}

// insertCells shifts cells right from column x by n, dropping cells
// pushed past the right edge.
func insertCells(l *grid.Line, x, n int, fill grid.Cell) {
	for col := l.Cols() - 1; col >= x+n; col-- {
		l.SetCell(col, l.CellAt(col-n))
	}
	l.FillRange(x, x+n, fill)
}

// deleteCells shifts cells left into column x by n, filling the freed
// right edge.
func deleteCells(l *grid.Line, x, n int, fill grid.Cell) {
	cols := l.Cols()
	for col := x; col < cols-n; col++ {
		l.SetCell(col, l.CellAt(col+n))
	}
	l.FillRange(cols-n, cols, fill)
}
