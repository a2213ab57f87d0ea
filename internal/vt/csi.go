package vt

import (
	"fmt"

	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/vtcore/internal/grid"
	"github.com/Gaurav-Gosain/vtcore/internal/parser"
)

// param returns the i-th parameter, substituting def for missing or zero
// values. Colon subparameters are skipped; they only matter to SGR.
func param(params []parser.Param, i, def int) int {
	n := 0
	for _, p := range params {
		if p.Colon {
			continue
		}
		if n == i {
			if p.Value == 0 {
				return def
			}
			return p.Value
		}
		n++
	}
	return def
}

// rawParam is like param but keeps zero values.
func rawParam(params []parser.Param, i, def int) int {
	n := 0
	for _, p := range params {
		if p.Colon {
			continue
		}
		if n == i {
			return p.Value
		}
		n++
	}
	return def
}

// CsiDispatch handles a completed CSI sequence.
func (e *Emulator) CsiDispatch(params []parser.Param, intermediates []byte, final byte) {
	var marker, inter byte
	for _, b := range intermediates {
		if b >= 0x3c && b <= 0x3f {
			marker = b
		} else {
			inter = b
		}
	}

	s := e.scr
	cur := &s.cur

	switch {
	case marker == 0 && inter == 0:
		switch final {
		case 'A': // CUU
			e.moveCursorY(-param(params, 0, 1))
		case 'B', 'e': // CUD, VPR
			e.moveCursorY(param(params, 0, 1))
		case 'C', 'a': // CUF, HPR
			s.setCursor(cur.X+param(params, 0, 1), cur.Y)
		case 'D': // CUB
			s.setCursor(cur.X-param(params, 0, 1), cur.Y)
		case 'E': // CNL
			e.moveCursorY(param(params, 0, 1))
			cur.X = 0
		case 'F': // CPL
			e.moveCursorY(-param(params, 0, 1))
			cur.X = 0
		case 'G', '`': // CHA, HPA
			s.setCursor(param(params, 0, 1)-1, cur.Y)
		case 'H', 'f': // CUP, HVP
			e.setCursorPosition(param(params, 1, 1)-1, param(params, 0, 1)-1)
		case 'd': // VPA
			e.setCursorPosition(cur.X, param(params, 0, 1)-1)
		case 'J': // ED
			e.eraseInDisplay(rawParam(params, 0, 0))
		case 'K': // EL
			e.eraseInLine(rawParam(params, 0, 0))
		case 'L': // IL
			if s.inRegion() {
				s.grid.ScrollDown(cur.Y, s.bot, param(params, 0, 1))
				cur.X = 0
			}
		case 'M': // DL
			if s.inRegion() {
				s.grid.ScrollUp(cur.Y, s.bot, param(params, 0, 1), false)
				cur.X = 0
			}
		case '@': // ICH
			l := s.grid.Line(cur.Y)
			insertCells(l, cur.X, param(params, 0, 1), e.eraseCell())
			s.grid.Touch(cur.Y)
		case 'P': // DCH
			l := s.grid.Line(cur.Y)
			deleteCells(l, cur.X, param(params, 0, 1), e.eraseCell())
			s.grid.Touch(cur.Y)
		case 'X': // ECH
			n := param(params, 0, 1)
			s.grid.Line(cur.Y).FillRange(cur.X, cur.X+n, e.eraseCell())
			s.grid.Touch(cur.Y)
		case 'S': // SU
			s.grid.ScrollUp(s.top, s.bot, param(params, 0, 1), false)
		case 'T': // SD
			s.grid.ScrollDown(s.top, s.bot, param(params, 0, 1))
		case 'I': // CHT
			for range param(params, 0, 1) {
				cur.X = e.tabstops.Next(cur.X)
			}
			cur.atPhantom = false
		case 'Z': // CBT
			for range param(params, 0, 1) {
				cur.X = e.tabstops.Prev(cur.X)
			}
			cur.atPhantom = false
		case 'b': // REP
			if e.lastPrinted != 0 {
				for range param(params, 0, 1) {
					e.Print(e.lastPrinted)
				}
			}
		case 'g': // TBC
			switch rawParam(params, 0, 0) {
			case 0:
				e.tabstops.Clear(cur.X)
			case 3:
				e.tabstops.ClearAll()
			}
		case 'r': // DECSTBM
			e.setScrollRegion(param(params, 0, 1)-1, param(params, 1, s.grid.Rows())-1)
		case 's': // SCOSC
			s.saveCursor()
		case 'u': // SCORC
			s.restoreCursor()
		case 'm': // SGR
			e.handleSgr(params)
		case 'h', 'l':
			e.setModes(params, false, final == 'h')
		case 'n': // DSR
			e.deviceStatusReport(rawParam(params, 0, 0), false)
		case 'c': // DA1
			if rawParam(params, 0, 0) == 0 {
				e.reply("\x1b[?62;22c")
			}
		default:
			e.logUnhandledCsi(params, intermediates, final)
		}

	case marker == '?':
		switch final {
		case 'h', 'l': // DECSET / DECRST
			e.setModes(params, true, final == 'h')
		case 'J': // DECSED
			e.eraseInDisplay(rawParam(params, 0, 0))
		case 'K': // DECSEL
			e.eraseInLine(rawParam(params, 0, 0))
		case 'n': // DECXCPR
			e.deviceStatusReport(rawParam(params, 0, 0), true)
		default:
			e.logUnhandledCsi(params, intermediates, final)
		}

	case marker == '>':
		if final == 'c' { // DA2
			e.reply("\x1b[>1;10;0c")
		}

	case inter == ' ':
		if final == 'q' { // DECSCUSR
			e.cursorStyle = rawParam(params, 0, 0)
		}

	default:
		e.logUnhandledCsi(params, intermediates, final)
	}
}

func (e *Emulator) logUnhandledCsi(params []parser.Param, intermediates []byte, final byte) {
	e.logf("unhandled sequence: CSI %v %q %q", params, intermediates, final)
}

// moveCursorY moves the cursor vertically, stopping at the scroll region
// margins when the cursor starts inside the region.
func (e *Emulator) moveCursorY(dy int) {
	s := e.scr
	lo, hi := 0, s.grid.Rows()-1
	if s.inRegion() {
		lo, hi = s.top, s.bot
	}
	s.cur.Y = clamp(s.cur.Y+dy, lo, hi)
	s.cur.atPhantom = false
}

// setCursorPosition places the cursor absolutely, relative to the scroll
// region when origin mode is set.
func (e *Emulator) setCursorPosition(x, y int) {
	s := e.scr
	if e.isModeSet(ansi.ModeOrigin) {
		s.setCursor(x, clamp(s.top+y, s.top, s.bot))
		return
	}
	s.setCursor(x, y)
}

func (e *Emulator) setScrollRegion(top, bot int) {
	s := e.scr
	top = clamp(top, 0, s.grid.Rows()-1)
	bot = clamp(bot, 0, s.grid.Rows()-1)
	if top >= bot {
		return
	}
	s.top, s.bot = top, bot
	e.setCursorPosition(0, 0)
}

// eraseCell is the cell used to fill erased regions: a blank carrying
// only the current background color.
func (e *Emulator) eraseCell() grid.Cell {
	return grid.Blank(grid.Attrs{Bg: e.scr.cur.Attrs.Bg})
}

func (e *Emulator) eraseInDisplay(mode int) {
	s := e.scr
	g := s.grid
	fill := e.eraseCell()
	switch mode {
	case 0: // Cursor to end of screen.
		e.eraseInLine(0)
		for y := s.cur.Y + 1; y < g.Rows(); y++ {
			g.Line(y).FillRange(0, g.Cols(), fill)
			g.Touch(y)
		}
	case 1: // Start of screen to cursor.
		e.eraseInLine(1)
		for y := range s.cur.Y {
			g.Line(y).FillRange(0, g.Cols(), fill)
			g.Touch(y)
		}
	case 2: // Whole screen.
		g.ClearAll(fill)
		// Erased content no longer matches any prompt markers on screen.
		e.markers.RemoveOnScreen(g.StableTop())
	case 3: // Scrollback.
		g.Scrollback().Clear()
		g.MarkAllDirty()
	}
}

func (e *Emulator) eraseInLine(mode int) {
	s := e.scr
	g := s.grid
	l := g.Line(s.cur.Y)
	fill := e.eraseCell()
	switch mode {
	case 0:
		l.FillRange(s.cur.X, g.Cols(), fill)
	case 1:
		l.FillRange(0, s.cur.X+1, fill)
	case 2:
		l.FillRange(0, g.Cols(), fill)
	}
	g.Touch(s.cur.Y)
}

func (e *Emulator) deviceStatusReport(code int, dec bool) {
	switch code {
	case 5:
		e.reply("\x1b[0n")
	case 6:
		s := e.scr
		y := s.cur.Y
		if e.isModeSet(ansi.ModeOrigin) {
			y -= s.top
		}
		if dec {
			e.reply(fmt.Sprintf("\x1b[?%d;%dR", y+1, s.cur.X+1))
		} else {
			e.reply(fmt.Sprintf("\x1b[%d;%dR", y+1, s.cur.X+1))
		}
	}
}

// setModes applies SM/RM and DECSET/DECRST parameter lists.
func (e *Emulator) setModes(params []parser.Param, dec, set bool) {
	for _, p := range params {
		if p.Colon {
			continue
		}
		var m ansi.Mode
		if dec {
			m = ansi.DECMode(p.Value)
		} else {
			m = ansi.ANSIMode(p.Value)
		}
		e.setMode(m, set)
	}
}

func (e *Emulator) setMode(m ansi.Mode, set bool) {
	setting := ansi.ModeReset
	if set {
		setting = ansi.ModeSet
	}
	e.modes[m] = setting

	switch m {
	case ansi.ModeOrigin:
		e.setCursorPosition(0, 0)
	case ansi.DECMode(47):
		e.switchScreen(set, false, false)
	case ansi.ModeAltScreen: // ?1047: clear the alt screen on entry.
		e.switchScreen(set, true, false)
	case ansi.ModeAltScreenSaveCursor: // ?1049: also save/restore the cursor.
		e.switchScreen(set, true, true)
	}
}

// switchScreen flips between the main and alternate buffers.
func (e *Emulator) switchScreen(alt, clear, saveCursor bool) {
	if alt == e.IsAltScreen() {
		return
	}
	if alt {
		if saveCursor {
			e.scrs[0].saveCursor()
		}
		e.scr = e.scrs[1]
		if clear {
			e.scr.grid.ClearAll(grid.Cell{})
		}
		e.scr.resetRegion()
		e.scr.setCursor(0, 0)
	} else {
		e.scr = e.scrs[0]
		if saveCursor {
			e.scr.restoreCursor()
		}
	}
	e.scr.grid.MarkAllDirty()
	if e.cb.AltScreen != nil {
		e.cb.AltScreen(alt)
	}
}
