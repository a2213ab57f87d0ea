package app

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/vtcore/internal/grid"
	"github.com/Gaurav-Gosain/vtcore/internal/hyperlink"
	"github.com/Gaurav-Gosain/vtcore/internal/selection"
	"github.com/Gaurav-Gosain/vtcore/internal/theme"
)

// View renders the terminal screen and configures the host terminal.
// The emulator lock is held throughout so the PTY reader cannot mutate
// the grid mid-render.
func (a *App) View() tea.View {
	emu := a.Session.Terminal()
	emu.Lock()
	defer emu.Unlock()

	var view tea.View

	if a.dirty || a.cachedContent == "" {
		a.cachedContent = a.renderScreen()
		a.dirty = false
	}
	view.SetContent(a.cachedContent)

	view.AltScreen = true

	// Match the host's tracking granularity to what the child asked
	// for. AllMotion for apps that only want clicks floods them with
	// motion events that surface as phantom input.
	if a.Session.Terminal().SupportsMotionEvents() {
		view.MouseMode = tea.MouseModeAllMotion
	} else {
		view.MouseMode = tea.MouseModeCellMotion
	}

	view.ReportFocus = true
	view.Cursor = a.cursor()

	return view
}

// cursor returns the host cursor for the child's cursor position, or
// nil to hide it while scrolled into history or when the child hid it.
func (a *App) cursor() *tea.Cursor {
	emu := a.Session.Terminal()
	if emu.IsCursorHidden() || emu.Grid().ViewOffset() > 0 {
		return nil
	}

	x, y := emu.CursorPosition()
	if x < 0 || y < 0 || x >= emu.Width() || y >= emu.Height() {
		return nil
	}

	cur := tea.NewCursor(x, y)
	cur.Shape, cur.Blink = mapCursorStyle(emu.CursorStyle())
	return cur
}

// mapCursorStyle converts a DECSCUSR style number to a host cursor
// shape and blink flag.
func mapCursorStyle(style int) (tea.CursorShape, bool) {
	switch style {
	case 3, 4:
		return tea.CursorUnderline, style == 3
	case 5, 6:
		return tea.CursorBar, style == 5
	default:
		return tea.CursorBlock, style != 2
	}
}

func (a *App) renderScreen() string {
	return RenderScreen(a.Session.Terminal().Grid(), a.sel, a.haveSel)
}

// RenderScreen flattens the viewport into styled text, one row per
// line. Rows come from scrollback or the live screen depending on the
// viewport offset. The selection range is honored when haveSel is set.
// Callers racing a writer goroutine hold the emulator's lock.
func RenderScreen(g *grid.Grid, sel selection.Range, haveSel bool) string {
	sel = sel.Normalize()

	var selBg, selFg color.Color
	if haveSel {
		selBg, selFg = theme.SelectionColors()
	}

	var b strings.Builder
	for v := range g.Rows() {
		if v > 0 {
			b.WriteByte('\n')
		}
		s := g.StableOfViewport(v)
		l := g.LineByStable(s)
		if l == nil {
			continue
		}
		renderLine(&b, l, s, sel, haveSel, selBg, selFg)
	}
	return b.String()
}

// renderLine emits one row, coalescing runs of equal attributes into a
// single SGR prefix and bracketing hyperlinked spans with OSC 8.
func renderLine(b *strings.Builder, l *grid.Line, row int64, sel selection.Range, haveSel bool, selBg, selFg color.Color) {
	var (
		open bool
		cur  grid.Attrs
		link *hyperlink.Link
	)
	l.Each(func(x int, c grid.Cell) bool {
		at := c.Attrs
		if haveSel && sel.Contains(selection.Coordinate{X: x, Y: row}) {
			at.Fg, at.Bg = selFg, selBg
			at.Reverse = false
		}

		if !open || !at.Equal(cur) {
			if open {
				b.WriteString(ansi.ResetStyle)
			}
			p := sgrPrefix(at)
			b.WriteString(p)
			open = p != ""
			cur = at
		}

		if c.Attrs.Link != link {
			if link != nil {
				b.WriteString(ansi.ResetHyperlink())
			}
			link = c.Attrs.Link
			if link != nil {
				if id := link.ID(); id != "" {
					b.WriteString(ansi.SetHyperlink(link.URI(), "id="+id))
				} else {
					b.WriteString(ansi.SetHyperlink(link.URI()))
				}
			}
		}

		b.WriteString(c.Content)
		return true
	})
	if link != nil {
		b.WriteString(ansi.ResetHyperlink())
	}
	if open {
		b.WriteString(ansi.ResetStyle)
	}
}

// sgrPrefix builds the escape prefix for an attribute set. Extended
// underline styles and colors have no builder methods, so their colon
// subparameter forms are appended directly.
func sgrPrefix(at grid.Attrs) string {
	var te ansi.Style

	if at.Fg != nil {
		te = te.ForegroundColor(ansi.Color(at.Fg))
	}
	if at.Bg != nil {
		te = te.BackgroundColor(ansi.Color(at.Bg))
	}

	if at.Bold {
		te = te.Bold()
	}
	if at.Faint {
		te = te.Faint()
	}
	if at.Italic {
		te = te.Italic(true)
	}
	if at.Blink {
		te = te.Blink(true)
	}
	if at.Reverse {
		te = te.Reverse(true)
	}
	if at.Strikethrough {
		te = te.Strikethrough(true)
	}
	if at.Underline == grid.UnderlineSingle {
		te = te.Underline(true)
	}

	s := te.String()
	if at.Underline > grid.UnderlineSingle {
		s += fmt.Sprintf("\x1b[4:%dm", at.Underline)
	}
	if at.Ul != nil {
		r, g, bl, _ := at.Ul.RGBA()
		s += fmt.Sprintf("\x1b[58:2::%d:%d:%dm", r>>8, g>>8, bl>>8)
	}
	if at.Hidden {
		s += "\x1b[8m"
	}
	return s
}
