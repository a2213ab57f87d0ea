package vt

import (
	"image/color"

	"github.com/Gaurav-Gosain/vtcore/internal/hyperlink"
)

// Logger represents a logger interface.
type Logger interface {
	Printf(format string, v ...any)
}

// Callbacks is the host interface: everything the emulator needs from the
// surrounding application. All callbacks are optional; a nil field means
// the host does not care about that event. Calls are synchronous and must
// not re-enter the emulator.
type Callbacks struct {
	// WriteReply receives terminal-initiated replies such as cursor
	// position reports. The host forwards them to the child process.
	WriteReply func(data []byte)

	// Title is called when the window title changes.
	Title func(title string)
	// IconName is called when the icon name changes.
	IconName func(name string)
	// Bell rings the terminal bell.
	Bell func()
	// WorkingDirectory reports an OSC 7 working directory change. The
	// path is not validated.
	WorkingDirectory func(path string)

	// SetClipboard stores text into the given selection ('c' clipboard,
	// 'p' primary). Only called when the write policy allows it.
	SetClipboard func(selection byte, text string)
	// GetClipboard reads the given selection. Only called when the read
	// policy allows it.
	GetClipboard func(selection byte) string

	// OpenLink is called when the host decides a hyperlink was activated.
	OpenLink func(link *hyperlink.Link)

	// Window management forwarded to the host.
	NewWindow        func()
	NewTab           func()
	ActivateTab      func(n int, relative bool)
	ToggleFullScreen func()

	// AltScreen is called when the emulator enters or leaves the
	// alternate screen buffer.
	AltScreen func(enabled bool)

	// ForegroundColor, BackgroundColor and CursorColor report dynamic
	// color changes (OSC 10/11/12).
	ForegroundColor func(c color.Color)
	BackgroundColor func(c color.Color)
	CursorColor     func(c color.Color)

	// Osc receives OSC payloads the emulator does not interpret itself,
	// as an opaque forward. Return true if the host consumed it.
	Osc func(cmd int, data []byte) bool
}
