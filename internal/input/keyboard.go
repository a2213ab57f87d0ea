// Package input translates host key and mouse events into the byte
// sequences a terminal application expects.
package input

import (
	tea "charm.land/bubbletea/v2"
)

// EncodeKey converts a key press into the raw bytes to write to the child
// process. appCursorKeys selects SS3 encodings for cursor and navigation
// keys while DECCKM is active. Returns nil for keys with no terminal
// representation.
func EncodeKey(msg tea.KeyPressMsg, appCursorKeys bool) []byte {
	var base []byte

	switch msg.Code {
	case tea.KeyEnter:
		base = []byte{'\r'}
	case tea.KeyTab:
		if msg.Mod&tea.ModShift != 0 {
			return prefixAlt(msg, []byte("\x1b[Z"))
		}
		base = []byte{'\t'}
	case tea.KeyBackspace:
		base = []byte{0x7f}
	case tea.KeyEscape:
		base = []byte{0x1b}
	case tea.KeySpace:
		if msg.Mod&tea.ModCtrl != 0 {
			return prefixAlt(msg, []byte{0x00})
		}
		base = []byte{' '}
	case tea.KeyUp:
		base = cursorKey('A', appCursorKeys)
	case tea.KeyDown:
		base = cursorKey('B', appCursorKeys)
	case tea.KeyRight:
		base = cursorKey('C', appCursorKeys)
	case tea.KeyLeft:
		base = cursorKey('D', appCursorKeys)
	case tea.KeyHome:
		base = cursorKey('H', appCursorKeys)
	case tea.KeyEnd:
		base = cursorKey('F', appCursorKeys)
	case tea.KeyInsert:
		base = []byte("\x1b[2~")
	case tea.KeyDelete:
		base = []byte("\x1b[3~")
	case tea.KeyPgUp:
		base = []byte("\x1b[5~")
	case tea.KeyPgDown:
		base = []byte("\x1b[6~")
	case tea.KeyF1:
		base = []byte("\x1bOP")
	case tea.KeyF2:
		base = []byte("\x1bOQ")
	case tea.KeyF3:
		base = []byte("\x1bOR")
	case tea.KeyF4:
		base = []byte("\x1bOS")
	case tea.KeyF5:
		base = []byte("\x1b[15~")
	case tea.KeyF6:
		base = []byte("\x1b[17~")
	case tea.KeyF7:
		base = []byte("\x1b[18~")
	case tea.KeyF8:
		base = []byte("\x1b[19~")
	case tea.KeyF9:
		base = []byte("\x1b[20~")
	case tea.KeyF10:
		base = []byte("\x1b[21~")
	case tea.KeyF11:
		base = []byte("\x1b[23~")
	case tea.KeyF12:
		base = []byte("\x1b[24~")
	}

	if base != nil {
		return prefixAlt(msg, base)
	}

	// Control chords on plain characters: ctrl+a .. ctrl+z and the
	// punctuation column of the C0 table.
	if msg.Mod&tea.ModCtrl != 0 {
		if b, ok := ctrlByte(msg.Code); ok {
			return prefixAlt(msg, []byte{b})
		}
		return nil
	}

	if msg.Text != "" {
		return prefixAlt(msg, []byte(msg.Text))
	}
	return nil
}

func cursorKey(final byte, app bool) []byte {
	if app {
		return []byte{0x1b, 'O', final}
	}
	return []byte{0x1b, '[', final}
}

// prefixAlt adds the ESC meta prefix when alt is held.
func prefixAlt(msg tea.KeyPressMsg, seq []byte) []byte {
	if msg.Mod&tea.ModAlt != 0 {
		return append([]byte{0x1b}, seq...)
	}
	return seq
}

func ctrlByte(code rune) (byte, bool) {
	switch {
	case code >= 'a' && code <= 'z':
		return byte(code-'a') + 1, true
	case code >= 'A' && code <= 'Z':
		return byte(code-'A') + 1, true
	}
	switch code {
	case '@':
		return 0x00, true
	case '[':
		return 0x1b, true
	case '\\':
		return 0x1c, true
	case ']':
		return 0x1d, true
	case '^':
		return 0x1e, true
	case '_':
		return 0x1f, true
	case '?':
		return 0x7f, true
	}
	return 0, false
}

// EncodePaste wraps pasted text in bracketed paste markers when the
// application requested them, otherwise returns the text unchanged.
func EncodePaste(text string, bracketed bool) []byte {
	if !bracketed {
		return []byte(text)
	}
	out := make([]byte, 0, len(text)+12)
	out = append(out, "\x1b[200~"...)
	out = append(out, text...)
	out = append(out, "\x1b[201~"...)
	return out
}
