// Package config provides configuration defaults, user settings, and the
// flag-override layer.
package config

import "sync/atomic"

// =============================================================================
// Terminal Defaults
// =============================================================================

const (
	// DefaultColumns is the default terminal width when none is given
	DefaultColumns = 80

	// DefaultRows is the default terminal height when none is given
	DefaultRows = 24

	// MinColumns is the minimum terminal width
	MinColumns = 2

	// MinRows is the minimum terminal height
	MinRows = 1
)

// =============================================================================
// Scrollback Limits
// =============================================================================

const (
	// DefaultScrollbackLines is the default scrollback buffer size
	DefaultScrollbackLines = 10000

	// MinScrollbackLines is the smallest accepted scrollback buffer size
	MinScrollbackLines = 100

	// MaxScrollbackLines is the largest accepted scrollback buffer size
	MaxScrollbackLines = 1000000
)

// DefaultWordChars are the non-alphanumeric runes treated as part of a word
// during word selection.
const DefaultWordChars = "-./_~?&=%+#@:"

// =============================================================================
// Effective Settings
// =============================================================================

// These are resolved from defaults, the user config file, and CLI flags by
// ApplyOverrides. Readers that cache derived state poll Generation to notice
// when settings change.
var (
	// ScrollbackLines is the effective scrollback buffer size
	ScrollbackLines = DefaultScrollbackLines

	// SelectWordChars is the effective word-character set for selection
	SelectWordChars = DefaultWordChars

	// ScrollToBottomOnInput snaps the viewport to the bottom on keyboard input
	ScrollToBottomOnInput = true

	// ClipboardRead allows applications to query the clipboard via OSC 52
	ClipboardRead = false

	// ClipboardWrite allows applications to set the clipboard via OSC 52
	ClipboardWrite = true

	// ThemeName is the active color theme, empty for standard terminal colors
	ThemeName = ""
)

var generation atomic.Int64

// Generation returns a counter that increments every time settings are
// applied. It starts at zero and never decreases.
func Generation() int64 {
	return generation.Load()
}

func bumpGeneration() {
	generation.Add(1)
}
