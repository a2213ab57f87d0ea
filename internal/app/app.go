// Package app is the interactive terminal viewer. It hosts one PTY
// session inside a bubbletea program, translates host key and mouse
// events into the byte sequences the child expects, and layers
// scrollback navigation and mouse text selection on top of the
// emulator.
package app

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/vtcore/internal/config"
	"github.com/Gaurav-Gosain/vtcore/internal/input"
	"github.com/Gaurav-Gosain/vtcore/internal/selection"
	"github.com/Gaurav-Gosain/vtcore/internal/terminal"
)

// TickerMsg drives the periodic screen refresh.
type TickerMsg time.Time

const refreshInterval = time.Second / 30

// multiClickWindow is how long a follow-up click may trail the previous
// one, on the same cell, and still count toward a double or triple
// click.
const multiClickWindow = 500 * time.Millisecond

// wheelScrollLines is how many history lines one wheel notch moves.
const wheelScrollLines = 3

// App is the bubbletea model hosting a single terminal session.
type App struct {
	Session *terminal.Session

	width  int
	height int

	// Selection endpoints use stable rows, so a selection stays anchored
	// to its text while the child keeps scrolling underneath it.
	sel       selection.Range
	haveSel   bool
	selecting bool

	clickCount    int
	lastClickTime time.Time
	lastClickX    int
	lastClickY    int64

	configGen int64

	cachedContent string
	dirty         bool
}

// New creates a viewer around an already started session.
func New(sess *terminal.Session, width, height int) *App {
	return &App{
		Session:   sess,
		width:     width,
		height:    height,
		configGen: config.Generation(),
		dirty:     true,
	}
}

// TickCmd creates a command that generates the periodic refresh tick.
func TickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickerMsg(t)
	})
}

// Init starts the refresh tick. Mouse tracking, bracketed paste, and
// focus reporting are configured in View per the bubbletea v2 API.
func (a *App) Init() tea.Cmd {
	return TickCmd()
}

// Update handles all incoming messages.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickerMsg:
		if a.Session.ProcessExited() {
			return a, tea.Quit
		}
		if a.Session.HasNewOutput.Swap(false) {
			a.dirty = true
		}
		if g := config.Generation(); g != a.configGen {
			a.configGen = g
			a.dirty = true
		}
		return a, TickCmd()

	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.Session.Resize(msg.Width, msg.Height)
		a.clearSelection()
		a.dirty = true
		return a, nil

	case tea.KeyPressMsg:
		return a.handleKey(msg)

	case tea.MouseClickMsg:
		return a.handleClick(msg)

	case tea.MouseMotionMsg:
		return a.handleMotion(msg)

	case tea.MouseReleaseMsg:
		return a.handleRelease(msg)

	case tea.MouseWheelMsg:
		return a.handleWheel(msg)

	case tea.PasteMsg:
		emu := a.Session.Terminal()
		emu.Lock()
		defer emu.Unlock()
		_ = a.Session.SendInput(input.EncodePaste(msg.Content, emu.BracketedPaste()))
		a.afterInput()
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	emu := a.Session.Terminal()
	emu.Lock()
	defer emu.Unlock()
	g := emu.Grid()

	// Scrollback navigation stays on the host side.
	if msg.Mod == tea.ModShift {
		switch msg.Code {
		case tea.KeyPgUp:
			g.ScrollViewport(a.pageStep())
			a.dirty = true
			return a, nil
		case tea.KeyPgDown:
			g.ScrollViewport(-a.pageStep())
			a.dirty = true
			return a, nil
		case tea.KeyHome:
			g.ScrollViewport(g.Scrollback().Len())
			a.dirty = true
			return a, nil
		case tea.KeyEnd:
			g.ResetViewport()
			a.dirty = true
			return a, nil
		}
	}

	a.clearSelection()

	if b := input.EncodeKey(msg, emu.ApplicationCursorKeys()); len(b) > 0 {
		_ = a.Session.SendInput(b)
		a.afterInput()
	}
	return a, nil
}

func (a *App) handleClick(msg tea.MouseClickMsg) (tea.Model, tea.Cmd) {
	m := msg.Mouse()
	emu := a.Session.Terminal()
	emu.Lock()
	defer emu.Unlock()

	// Shift bypasses forwarding so text can still be selected while the
	// child tracks the mouse.
	if emu.HasMouseMode() && m.Mod&tea.ModShift == 0 {
		emu.SendMouse(input.ToMouse(m, m.X, m.Y, false, false))
		a.dirty = true
		return a, nil
	}

	if m.Button != tea.MouseLeft {
		return a, nil
	}

	g := emu.Grid()
	c := selection.Coordinate{X: m.X, Y: g.StableOfViewport(m.Y)}

	// Track consecutive clicks on the same cell for word and line
	// selection.
	now := time.Now()
	if now.Sub(a.lastClickTime) > multiClickWindow || a.lastClickX != c.X || a.lastClickY != c.Y {
		a.clickCount = 1
	} else {
		a.clickCount++
	}
	a.lastClickTime = now
	a.lastClickX = c.X
	a.lastClickY = c.Y

	switch a.clickCount {
	case 1:
		a.sel = selection.Start(c)
		a.haveSel = false
		a.selecting = true
	case 2:
		a.sel = selection.ExpandWord(g, c, config.SelectWordChars)
		a.haveSel = true
		a.selecting = false
	default:
		a.sel = selection.ExpandLine(g, c)
		a.haveSel = true
		a.selecting = false
		a.clickCount = 0
	}
	a.dirty = true
	return a, nil
}

func (a *App) handleMotion(msg tea.MouseMotionMsg) (tea.Model, tea.Cmd) {
	m := msg.Mouse()
	emu := a.Session.Terminal()
	emu.Lock()
	defer emu.Unlock()

	if emu.HasMouseMode() && m.Mod&tea.ModShift == 0 {
		// The emulator drops motion events the child's mode does not
		// report.
		emu.SendMouse(input.ToMouse(m, m.X, m.Y, true, false))
		return a, nil
	}

	if a.selecting {
		g := emu.Grid()
		a.sel = a.sel.Extend(selection.Coordinate{X: m.X, Y: g.StableOfViewport(m.Y)})
		a.haveSel = true
		a.dirty = true
	}
	return a, nil
}

func (a *App) handleRelease(msg tea.MouseReleaseMsg) (tea.Model, tea.Cmd) {
	m := msg.Mouse()
	emu := a.Session.Terminal()
	emu.Lock()
	defer emu.Unlock()

	if emu.HasMouseMode() && m.Mod&tea.ModShift == 0 {
		emu.SendMouse(input.ToMouse(m, m.X, m.Y, false, true))
		return a, nil
	}

	if !a.selecting && !a.haveSel {
		return a, nil
	}
	a.selecting = false
	if !a.haveSel {
		return a, nil
	}

	text := selection.Text(emu.Grid(), a.sel)
	if text == "" {
		return a, nil
	}
	return a, tea.SetClipboard(text)
}

func (a *App) handleWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	m := msg.Mouse()
	emu := a.Session.Terminal()
	emu.Lock()
	defer emu.Unlock()

	if emu.HasMouseMode() && m.Mod&tea.ModShift == 0 {
		emu.SendMouse(input.ToMouse(m, m.X, m.Y, false, false))
		return a, nil
	}

	if m.Button != tea.MouseWheelUp && m.Button != tea.MouseWheelDown {
		return a, nil
	}

	// Alternate scroll: the alt screen has no scrollback, so wheel
	// events become arrow keys for pagers and editors.
	if emu.IsAltScreen() {
		key := tea.KeyPressMsg{Code: tea.KeyUp}
		if m.Button == tea.MouseWheelDown {
			key.Code = tea.KeyDown
		}
		seq := input.EncodeKey(key, emu.ApplicationCursorKeys())
		var buf []byte
		for range wheelScrollLines {
			buf = append(buf, seq...)
		}
		_ = a.Session.SendInput(buf)
		return a, nil
	}

	g := emu.Grid()
	if m.Button == tea.MouseWheelUp {
		g.ScrollViewport(wheelScrollLines)
	} else {
		g.ScrollViewport(-wheelScrollLines)
	}
	a.dirty = true
	return a, nil
}

func (a *App) pageStep() int {
	h := a.Session.Terminal().Height()
	if h < 2 {
		return 1
	}
	return h / 2
}

// afterInput applies the scroll-to-bottom-on-input behavior. Callers
// hold the emulator lock.
func (a *App) afterInput() {
	if config.ScrollToBottomOnInput {
		a.Session.Terminal().Grid().ResetViewport()
	}
	a.dirty = true
}

func (a *App) clearSelection() {
	if a.haveSel || a.selecting {
		a.haveSel = false
		a.selecting = false
		a.dirty = true
	}
	a.clickCount = 0
}
