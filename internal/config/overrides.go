package config

import (
	"log"

	"github.com/Gaurav-Gosain/vtcore/internal/theme"
)

// Overrides contains CLI flag values that can override user config.
// Zero values indicate the flag was not set and should use the user config default.
type Overrides struct {
	// ScrollbackLines overrides the scrollback buffer size (0 means use default)
	ScrollbackLines int

	// WordChars overrides the word-character set for selection
	WordChars string

	// AllowClipboardRead enables OSC 52 clipboard queries
	AllowClipboardRead bool

	// DenyClipboardWrite disables OSC 52 clipboard writes
	DenyClipboardWrite bool

	// NoScrollOnInput keeps the viewport in place on keyboard input
	NoScrollOnInput bool

	// ThemeName is the theme to load
	ThemeName string
}

// ApplyOverrides applies CLI flag overrides on top of the user config and
// bumps the settings generation. If userConfig is nil, only CLI flag values
// (when set) are applied.
func ApplyOverrides(overrides Overrides, userConfig *Config) {
	// Scrollback Lines - CLI flag takes precedence, otherwise use user config
	if overrides.ScrollbackLines > 0 {
		// Clamp to valid range
		lines := overrides.ScrollbackLines
		if lines < MinScrollbackLines {
			lines = MinScrollbackLines
		} else if lines > MaxScrollbackLines {
			lines = MaxScrollbackLines
		}
		ScrollbackLines = lines
	} else if userConfig != nil && userConfig.Terminal.ScrollbackLines > 0 {
		ScrollbackLines = userConfig.Terminal.ScrollbackLines
	}

	// Word Chars - CLI flag takes precedence, otherwise use user config
	if overrides.WordChars != "" {
		SelectWordChars = overrides.WordChars
	} else if userConfig != nil && userConfig.Selection.WordChars != "" {
		SelectWordChars = userConfig.Selection.WordChars
	}

	// Clipboard read - OR of CLI flag and user config
	if userConfig != nil {
		ClipboardRead = overrides.AllowClipboardRead || userConfig.Clipboard.AllowRead
	} else {
		ClipboardRead = overrides.AllowClipboardRead
	}

	// Clipboard write - flag denies, otherwise user config decides
	if overrides.DenyClipboardWrite {
		ClipboardWrite = false
	} else if userConfig != nil && userConfig.Clipboard.AllowWrite != nil {
		ClipboardWrite = *userConfig.Clipboard.AllowWrite
	}

	// Scroll on input - flag disables
	if overrides.NoScrollOnInput {
		ScrollToBottomOnInput = false
	} else if userConfig != nil && userConfig.Terminal.ScrollToBottomOnInput != nil {
		ScrollToBottomOnInput = *userConfig.Terminal.ScrollToBottomOnInput
	}

	// Theme - CLI flag takes precedence, otherwise use user config
	themeName := overrides.ThemeName
	if themeName == "" && userConfig != nil && userConfig.Appearance.Theme != "" {
		themeName = userConfig.Appearance.Theme
	}
	if themeName != "" {
		if err := theme.Initialize(themeName); err != nil {
			log.Printf("Warning: Failed to load theme '%s': %v", themeName, err)
		}
		ThemeName = themeName
	}

	bumpGeneration()
}
