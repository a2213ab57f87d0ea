// Package vtcore provides a reusable terminal emulator that can be
// embedded in other Bubble Tea applications or driven headlessly.
//
// # Basic Usage
//
// Create a viewer around your shell and run it:
//
//	model, err := vtcore.New()
//	if err != nil {
//		log.Fatal(err)
//	}
//	p := tea.NewProgram(model, vtcore.ProgramOptions()...)
//	if _, err := p.Run(); err != nil {
//		log.Fatal(err)
//	}
//
// # Custom Configuration
//
// Use options to customize behavior:
//
//	model, err := vtcore.New(
//		vtcore.WithTheme("dracula"),
//		vtcore.WithCommand("htop"),
//		vtcore.WithScrollbackLines(50000),
//	)
//
// # Headless Use
//
// The emulator works without a PTY or a program. Feed it bytes and
// inspect or render the resulting screen:
//
//	emu := vtcore.NewEmulator(80, 24)
//	emu.Write(capturedOutput)
//	fmt.Println(vtcore.Render(emu))
package vtcore

import (
	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/vtcore/internal/app"
	"github.com/Gaurav-Gosain/vtcore/internal/config"
	"github.com/Gaurav-Gosain/vtcore/internal/selection"
	"github.com/Gaurav-Gosain/vtcore/internal/terminal"
	"github.com/Gaurav-Gosain/vtcore/internal/theme"
	"github.com/Gaurav-Gosain/vtcore/internal/vt"
)

// Model is the interactive viewer model implementing tea.Model.
type Model = app.App

// Emulator is the escape-sequence interpreter and screen model. It can
// be used on its own, without a PTY or a running program.
type Emulator = vt.Emulator

// Session runs a child process on a PTY and feeds its output through
// an emulator.
type Session = terminal.Session

// Options configures a vtcore instance.
type Options struct {
	// Theme is the color theme name (e.g., "dracula", "nord",
	// "tokyonight"). Leave empty to use standard terminal colors.
	Theme string

	// ScrollbackLines is the number of lines kept in the scrollback
	// buffer. Default is 10000, min 100, max 1000000.
	ScrollbackLines int

	// WordChars are the extra characters treated as part of a word for
	// double-click selection.
	WordChars string

	// AllowClipboardRead permits applications to read the clipboard
	// via OSC 52. Off by default.
	AllowClipboardRead bool

	// DenyClipboardWrite blocks applications from writing the
	// clipboard via OSC 52.
	DenyClipboardWrite bool

	// Width is the initial width (set automatically if 0).
	Width int

	// Height is the initial height (set automatically if 0).
	Height int

	// Command is the program to run. Empty runs the user's shell.
	Command []string

	// UserConfig is a custom user configuration. If nil, the config
	// file is loaded, falling back to defaults.
	UserConfig *config.Config
}

// Option is a functional option for configuring vtcore.
type Option func(*Options)

// WithTheme sets the color theme.
func WithTheme(name string) Option {
	return func(o *Options) {
		o.Theme = name
	}
}

// WithScrollbackLines sets the scrollback buffer size.
func WithScrollbackLines(lines int) Option {
	return func(o *Options) {
		if lines < config.MinScrollbackLines {
			lines = config.MinScrollbackLines
		} else if lines > config.MaxScrollbackLines {
			lines = config.MaxScrollbackLines
		}
		o.ScrollbackLines = lines
	}
}

// WithWordChars sets the double-click word selection characters.
func WithWordChars(chars string) Option {
	return func(o *Options) {
		o.WordChars = chars
	}
}

// WithClipboardPolicy controls application access to the clipboard
// through OSC 52.
func WithClipboardPolicy(allowRead, allowWrite bool) Option {
	return func(o *Options) {
		o.AllowClipboardRead = allowRead
		o.DenyClipboardWrite = !allowWrite
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(o *Options) {
		o.Width = width
		o.Height = height
	}
}

// WithCommand sets the program to run instead of the user's shell.
func WithCommand(name string, args ...string) Option {
	return func(o *Options) {
		o.Command = append([]string{name}, args...)
	}
}

// WithUserConfig sets a custom user configuration.
func WithUserConfig(cfg *config.Config) Option {
	return func(o *Options) {
		o.UserConfig = cfg
	}
}

// DefaultOptions returns the default options.
func DefaultOptions() Options {
	return Options{
		ScrollbackLines: config.DefaultScrollbackLines,
		Width:           config.DefaultColumns,
		Height:          config.DefaultRows,
	}
}

// New creates a viewer model with the given options, starting the
// child process on a PTY. This is the main entry point for embedding
// vtcore.
func New(opts ...Option) (*Model, error) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	userConfig := options.UserConfig
	if userConfig == nil {
		var err error
		userConfig, err = config.Load()
		if err != nil {
			userConfig = config.DefaultConfig()
		}
	}

	config.ApplyOverrides(config.Overrides{
		ScrollbackLines:    options.ScrollbackLines,
		WordChars:          options.WordChars,
		AllowClipboardRead: options.AllowClipboardRead,
		DenyClipboardWrite: options.DenyClipboardWrite,
		ThemeName:          options.Theme,
	}, userConfig)

	sess, err := terminal.NewSession(options.Width, options.Height, options.Command)
	if err != nil {
		return nil, err
	}
	return app.New(sess, options.Width, options.Height), nil
}

// NewEmulator creates a standalone emulator for headless use, with no
// PTY behind it.
func NewEmulator(width, height int) *Emulator {
	return vt.NewEmulator(width, height,
		vt.WithScrollback(config.ScrollbackLines),
	)
}

// Render flattens the emulator's current viewport into styled text,
// one line per row.
func Render(emu *Emulator) string {
	return app.RenderScreen(emu.Grid(), selection.Range{}, false)
}

// ProgramOptions returns recommended tea.ProgramOption values for
// running vtcore:
//
//	model, _ := vtcore.New()
//	p := tea.NewProgram(model, vtcore.ProgramOptions()...)
func ProgramOptions() []tea.ProgramOption {
	return []tea.ProgramOption{
		tea.WithFPS(60),
	}
}

// Config re-exports configuration helpers so embedders don't need to
// import internal packages.
var Config = struct {
	// Load loads the user's configuration file.
	Load func() (*config.Config, error)
	// DefaultConfig returns the default configuration.
	DefaultConfig func() *config.Config
	// GetConfigPath returns the path to the configuration file.
	GetConfigPath func() (string, error)
}{
	Load:          config.Load,
	DefaultConfig: config.DefaultConfig,
	GetConfigPath: config.GetConfigPath,
}

// Theme re-exports theme initialization for embedders that manage
// their own configuration flow.
var Theme = struct {
	// Initialize sets up the theme registry with the given theme name.
	Initialize func(name string) error
	// IsEnabled reports whether theming is active.
	IsEnabled func() bool
}{
	Initialize: theme.Initialize,
	IsEnabled:  theme.IsEnabled,
}
