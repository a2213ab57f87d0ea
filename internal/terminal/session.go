// Package terminal runs a child process on a PTY and feeds its output
// through the emulator.
package terminal

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/colorprofile"
	xpty "github.com/charmbracelet/x/xpty"
	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/Gaurav-Gosain/vtcore/internal/config"
	"github.com/Gaurav-Gosain/vtcore/internal/theme"
	"github.com/Gaurav-Gosain/vtcore/internal/vt"
)

// Cache for local terminal environment variables (detect once, reuse for all sessions)
var (
	localTermType  string
	localColorTerm string
	localEnvOnce   sync.Once
)

// Session runs a child process on a PTY, pumping its output into a virtual
// terminal and routing the terminal's replies back to the process.
type Session struct {
	ID string

	emu    *vt.Emulator
	pty    xpty.Pty
	cmd    *exec.Cmd
	cancel context.CancelFunc

	ioMu sync.RWMutex
	ioWg sync.WaitGroup
	// cmdWaitOnce ensures cmd.Wait() is only called once
	cmdWaitOnce sync.Once

	titleMu sync.RWMutex
	title   string

	exited atomic.Bool

	// HasNewOutput is set when new data arrives from the PTY.
	// Hosts Swap(false) it to decide whether a redraw is needed.
	HasNewOutput atomic.Bool

	// OnOutput is called after each chunk of PTY output has been processed.
	// It runs on the reader goroutine and must not block.
	OnOutput func()

	// OnExit is called once when the child process exits.
	OnExit func()
}

// NewSession spawns argv on a freshly allocated PTY sized width x height.
// An empty argv runs the user's shell. The emulator picks up its scrollback
// size, clipboard policy, and theme colors from the effective settings.
func NewSession(width, height int, argv []string) (*Session, error) {
	width = max(width, config.MinColumns)
	height = max(height, config.MinRows)

	emu := vt.NewEmulator(width, height,
		vt.WithScrollback(config.ScrollbackLines),
		vt.WithClipboardPolicy(config.ClipboardRead, config.ClipboardWrite),
	)

	// Apply theme colors to the terminal (only if theming is enabled)
	if theme.IsEnabled() {
		emu.SetThemeColors(
			theme.Foreground(),
			theme.Background(),
			theme.Cursor(),
			theme.ANSIPalette(),
		)
	} else {
		// When theming is disabled, just set nil colors to use terminal defaults
		emu.SetThemeColors(nil, nil, nil, [16]color.Color{})
	}

	s := &Session{
		ID:  uuid.NewString(),
		emu: emu,
	}

	emu.SetCallbacks(vt.Callbacks{
		WriteReply: func(data []byte) {
			s.ioMu.RLock()
			defer s.ioMu.RUnlock()
			if s.pty != nil {
				_, _ = s.pty.Write(data)
			}
		},
		Title: func(title string) {
			if title != "" {
				s.titleMu.Lock()
				s.title = title
				s.titleMu.Unlock()
			}
		},
	})

	if len(argv) == 0 {
		argv = []string{detectShell()}
	}
	// #nosec G204 - the command is intentionally user-controlled
	cmd := exec.Command(argv[0], argv[1:]...)

	termType, colorTerm := getTerminalEnv()
	cmd.Env = append(os.Environ(),
		"TERM="+termType,
		"COLORTERM="+colorTerm,
		"TERM_PROGRAM=vtcore",
		"VTCORE_SESSION_ID="+s.ID,
	)

	// xpty requires dimensions at creation time
	ptyInstance, err := xpty.NewPty(width, height)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate pty: %w", err)
	}
	if err := ptyInstance.Start(cmd); err != nil {
		_ = ptyInstance.Close()
		return nil, fmt.Errorf("failed to start %s: %w", argv[0], err)
	}
	// Some PTY implementations only accept a resize once the process runs.
	_ = ptyInstance.Resize(width, height)

	ctx, cancel := context.WithCancel(context.Background())
	s.pty = ptyInstance
	s.cmd = cmd
	s.cancel = cancel

	s.startReader(ctx)

	// Monitor process lifecycle
	go func() {
		s.waitForCmd()
		s.exited.Store(true)
		cancel()

		// Give a small delay to ensure final output is captured
		time.Sleep(50 * time.Millisecond)
		if s.OnExit != nil {
			s.OnExit()
		}
	}()

	return s, nil
}

// startReader pumps PTY output into the emulator until the context ends or
// the PTY closes.
func (s *Session) startReader(ctx context.Context) {
	s.ioWg.Add(1)
	go func() {
		defer s.ioWg.Done()

		buf := make([]byte, 32*1024)
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}

			s.ioMu.RLock()
			pty := s.pty
			s.ioMu.RUnlock()
			if pty == nil {
				return
			}

			n, err := pty.Read(buf)
			if n > 0 {
				s.HasNewOutput.Store(true)
				// Write locks the emulator itself; holding ioMu here
				// would order it against the pty lock for no benefit.
				_, _ = s.emu.Write(buf[:n])
				if s.OnOutput != nil {
					s.OnOutput()
				}
			}
			if err != nil {
				// EOF and closed-PTY errors are the normal exit path.
				return
			}
		}
	}()
}

// Terminal returns the session's emulator. The reader goroutine feeds
// it through Write, so hosts must hold its Lock around grid reads.
func (s *Session) Terminal() *vt.Emulator {
	return s.emu
}

// SendInput sends input bytes to the child process.
func (s *Session) SendInput(input []byte) error {
	if len(input) == 0 {
		return nil
	}

	s.ioMu.RLock()
	defer s.ioMu.RUnlock()
	if s.pty == nil {
		return fmt.Errorf("no PTY available")
	}

	n, err := s.pty.Write(input)
	if err != nil {
		return fmt.Errorf("failed to write to PTY: %w", err)
	}
	if n != len(input) {
		return fmt.Errorf("partial write to PTY: wrote %d of %d bytes", n, len(input))
	}
	return nil
}

// Resize resizes both the emulator and the PTY.
func (s *Session) Resize(width, height int) {
	width = max(width, config.MinColumns)
	height = max(height, config.MinRows)

	s.emu.Resize(width, height)

	s.ioMu.Lock()
	pty := s.pty
	s.ioMu.Unlock()

	if pty != nil {
		_ = pty.Resize(width, height)
	}
}

// Title returns the emulator title when the application set one, otherwise
// the name of the foreground process, otherwise the spawned command.
func (s *Session) Title() string {
	if t := s.emu.Title(); t != "" {
		return t
	}
	s.titleMu.RLock()
	t := s.title
	s.titleMu.RUnlock()
	if t != "" {
		return t
	}
	if name := s.foregroundProcessName(); name != "" {
		return name
	}
	if s.cmd != nil && len(s.cmd.Args) > 0 {
		return s.cmd.Args[0]
	}
	return "vtcore"
}

// foregroundProcessName returns the name of the deepest child of the spawned
// process, approximating the foreground job. Empty on any failure.
func (s *Session) foregroundProcessName() string {
	if s.cmd == nil || s.cmd.Process == nil || s.exited.Load() {
		return ""
	}
	p, err := process.NewProcess(int32(s.cmd.Process.Pid))
	if err != nil {
		return ""
	}
	for {
		children, err := p.Children()
		if err != nil || len(children) == 0 {
			break
		}
		// The most recently spawned child is the likeliest foreground job.
		p = children[len(children)-1]
	}
	name, err := p.Name()
	if err != nil {
		return ""
	}
	return name
}

// ProcessExited reports whether the child process has exited.
func (s *Session) ProcessExited() bool {
	return s.exited.Load()
}

// waitForCmd waits for the command, ensuring Wait() is only called once.
func (s *Session) waitForCmd() {
	if s.cmd == nil {
		return
	}
	s.cmdWaitOnce.Do(func() {
		_ = s.cmd.Wait()
	})
}

// Close terminates the child process and releases the PTY.
func (s *Session) Close() {
	if s == nil {
		return
	}

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	s.ioMu.Lock()
	if s.pty != nil {
		_ = s.pty.Close()
		s.pty = nil
	}
	s.ioMu.Unlock()

	// The reader should exit fast once the PTY is closed.
	done := make(chan struct{})
	go func() {
		s.ioWg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(10 * time.Millisecond):
	}

	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		s.waitForCmd()
	}
}

func detectShell() string {
	// Check environment variable
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}

	if runtime.GOOS == "windows" {
		shells := []string{
			"powershell.exe",
			"pwsh.exe", // PowerShell Core/7+
			"cmd.exe",
		}
		for _, shell := range shells {
			if _, err := exec.LookPath(shell); err == nil {
				return shell
			}
		}
		return "cmd.exe"
	}

	shells := []string{"/bin/bash", "/bin/zsh", "/bin/fish", "/bin/sh"}
	for _, shell := range shells {
		if _, err := os.Stat(shell); err == nil {
			return shell
		}
	}
	return "/bin/sh"
}

// getTerminalEnv returns TERM and COLORTERM values for the current
// environment, cached after first detection.
func getTerminalEnv() (termType, colorTerm string) {
	localEnvOnce.Do(func() {
		envTerm := os.Getenv("TERM")
		envColorTerm := os.Getenv("COLORTERM")

		// If COLORTERM=truecolor is set, trust the environment
		if envColorTerm == "truecolor" && envTerm != "" && envTerm != "dumb" {
			localTermType = envTerm
			localColorTerm = envColorTerm
			return
		}

		// colorprofile handles TERM, COLORTERM, NO_COLOR, CLICOLOR,
		// terminfo, and tmux detection
		profile := colorprofile.Detect(os.Stdout, os.Environ())
		localTermType, localColorTerm = profileToEnv(profile)
	})
	return localTermType, localColorTerm
}

// profileToEnv converts a colorprofile.Profile to TERM and COLORTERM
// environment variables. colorTerm may be empty.
func profileToEnv(profile colorprofile.Profile) (termType, colorTerm string) {
	parentTerm := os.Getenv("TERM")

	switch profile {
	case colorprofile.TrueColor:
		if parentTerm != "" {
			termType = parentTerm
		} else {
			termType = "xterm-256color"
		}
		colorTerm = "truecolor"

	case colorprofile.ANSI256:
		if parentTerm != "" && strings.Contains(parentTerm, "256color") {
			termType = parentTerm
		} else if strings.HasPrefix(parentTerm, "screen") {
			termType = "screen-256color"
		} else if strings.HasPrefix(parentTerm, "tmux") {
			termType = "tmux-256color"
		} else {
			termType = "xterm-256color"
		}
		colorTerm = "" // Don't set COLORTERM for 256 color

	case colorprofile.ANSI:
		if parentTerm != "" && parentTerm != "dumb" {
			termType = parentTerm
		} else {
			termType = "xterm"
		}
		colorTerm = ""

	case colorprofile.Ascii, colorprofile.NoTTY:
		termType = "dumb"
		colorTerm = ""

	default:
		termType = "xterm-256color"
		colorTerm = ""
	}

	return termType, colorTerm
}
