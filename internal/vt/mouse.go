package vt

import "github.com/charmbracelet/x/ansi"

// MouseButton represents the button involved in a mouse event, using
// X11 button numbering.
type MouseButton = ansi.MouseButton

// Mouse event buttons.
const (
	MouseNone       = ansi.MouseNone
	MouseLeft       = ansi.MouseLeft
	MouseMiddle     = ansi.MouseMiddle
	MouseRight      = ansi.MouseRight
	MouseWheelUp    = ansi.MouseWheelUp
	MouseWheelDown  = ansi.MouseWheelDown
	MouseWheelLeft  = ansi.MouseWheelLeft
	MouseWheelRight = ansi.MouseWheelRight
	MouseBackward   = ansi.MouseBackward
	MouseForward    = ansi.MouseForward
)

// Mouse represents a mouse event in cell coordinates.
type Mouse struct {
	X, Y   int
	Button MouseButton

	Shift, Alt, Ctrl bool

	// Motion marks a movement event, Release a button release.
	Motion  bool
	Release bool
}

// HasMouseMode returns true if any mouse tracking mode is enabled.
func (e *Emulator) HasMouseMode() bool {
	for _, m := range []ansi.DECMode{
		ansi.ModeMouseX10,
		ansi.ModeMouseNormal,
		ansi.ModeMouseHighlight,
		ansi.ModeMouseButtonEvent,
		ansi.ModeMouseAnyEvent,
	} {
		if e.isModeSet(m) {
			return true
		}
	}
	return false
}

// SupportsMotionEvents returns true if the child's mouse mode reports
// motion (modes 1002 or 1003). Modes 1000/1001 only report click/release.
func (e *Emulator) SupportsMotionEvents() bool {
	return e.isModeSet(ansi.ModeMouseButtonEvent) || e.isModeSet(ansi.ModeMouseAnyEvent)
}

// SendMouse encodes a mouse event for the child according to the enabled
// tracking and encoding modes and forwards it through the reply channel.
// Events the current mode does not report are dropped.
func (e *Emulator) SendMouse(m Mouse) {
	var enc, mode ansi.Mode

	for _, mm := range []ansi.DECMode{
		ansi.ModeMouseX10,         // Button press
		ansi.ModeMouseNormal,      // Button press/release
		ansi.ModeMouseHighlight,   // Button press/release/hilight
		ansi.ModeMouseButtonEvent, // Button press/release/cell motion
		ansi.ModeMouseAnyEvent,    // Button press/release/all motion
	} {
		if e.isModeSet(mm) {
			mode = mm
		}
	}
	if mode == nil {
		return
	}

	if m.Motion {
		switch mode {
		case ansi.ModeMouseX10, ansi.ModeMouseNormal, ansi.ModeMouseHighlight:
			// These modes don't report motion at all.
			return
		case ansi.ModeMouseButtonEvent:
			// Cell motion: only while a button is held.
			if m.Button == MouseNone {
				return
			}
		}
	}

	if e.isModeSet(ansi.ModeMouseExtSgr) {
		enc = ansi.ModeMouseExtSgr
	}

	b := ansi.EncodeMouseButton(m.Button, m.Motion, m.Shift, m.Alt, m.Ctrl)

	switch enc {
	case nil: // X10 mouse encoding
		e.reply(ansi.MouseX10(b, m.X, m.Y))
	case ansi.ModeMouseExtSgr: // SGR mouse encoding
		e.reply(ansi.MouseSgr(b, m.X, m.Y, m.Release))
	}
}
