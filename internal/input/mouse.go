package input

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/vtcore/internal/vt"
)

// ToMouse converts a host mouse event into the emulator's mouse
// representation. x and y are terminal-relative cell coordinates.
func ToMouse(m tea.Mouse, x, y int, motion, release bool) vt.Mouse {
	return vt.Mouse{
		X:       x,
		Y:       y,
		Button:  mapButton(m.Button),
		Shift:   m.Mod&tea.ModShift != 0,
		Alt:     m.Mod&tea.ModAlt != 0,
		Ctrl:    m.Mod&tea.ModCtrl != 0,
		Motion:  motion,
		Release: release,
	}
}

func mapButton(b tea.MouseButton) vt.MouseButton {
	switch b {
	case tea.MouseLeft:
		return vt.MouseLeft
	case tea.MouseMiddle:
		return vt.MouseMiddle
	case tea.MouseRight:
		return vt.MouseRight
	case tea.MouseWheelUp:
		return vt.MouseWheelUp
	case tea.MouseWheelDown:
		return vt.MouseWheelDown
	case tea.MouseWheelLeft:
		return vt.MouseWheelLeft
	case tea.MouseWheelRight:
		return vt.MouseWheelRight
	default:
		return vt.MouseNone
	}
}
