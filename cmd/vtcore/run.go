package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "charm.land/bubbletea/v2"
	"charm.land/log/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/Gaurav-Gosain/vtcore/internal/app"
	"github.com/Gaurav-Gosain/vtcore/internal/config"
	"github.com/Gaurav-Gosain/vtcore/internal/scrollback"
	"github.com/Gaurav-Gosain/vtcore/internal/selection"
	"github.com/Gaurav-Gosain/vtcore/internal/terminal"
	"github.com/Gaurav-Gosain/vtcore/internal/theme"
	"github.com/Gaurav-Gosain/vtcore/internal/vt"
)

func setupConfig() *config.Config {
	userConfig, err := config.Load()
	if err != nil {
		log.Warn("failed to load config, using defaults", "err", err)
		userConfig = config.DefaultConfig()
	}

	config.ApplyOverrides(config.Overrides{
		ScrollbackLines:    scrollbackLines,
		WordChars:          wordChars,
		AllowClipboardRead: allowClipboard,
		DenyClipboardWrite: noClipboardWrite,
		NoScrollOnInput:    noScrollOnInput,
		ThemeName:          themeName,
	}, userConfig)

	return userConfig
}

func runTerminal(argv []string) error {
	if debugMode {
		log.SetLevel(log.DebugLevel)
	}

	setupConfig()

	if debugMode {
		if configPath, err := config.GetConfigPath(); err == nil {
			log.Debug("configuration", "path", configPath)
		}
	}

	width, height := config.DefaultColumns, config.DefaultRows
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}

	sess, err := terminal.NewSession(width, height, argv)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	if debugMode {
		sess.Terminal().SetLogger(log.Default())
	}

	p := tea.NewProgram(
		app.New(sess, width, height),
		tea.WithFPS(60),
		tea.WithoutSignalHandler(),
	)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		p.Send(tea.QuitMsg{})
	}()

	_, err = p.Run()
	sess.Close()

	if err != nil {
		return fmt.Errorf("program error: %w", err)
	}
	return nil
}

func runSnapshot(path string, cols, rows int, showBlocks, showLinks bool) error {
	userConfig := setupConfig()

	if cols <= 0 || rows <= 0 {
		cols, rows = config.DefaultColumns, config.DefaultRows
		if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
			cols, rows = w, h
		}
	}

	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path) // #nosec G304 -- user-supplied capture file
		if err != nil {
			return fmt.Errorf("failed to open capture: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	emu := vt.NewEmulator(cols, rows,
		vt.WithScrollback(config.ScrollbackLines),
		vt.WithClipboardPolicy(false, false),
	)
	if debugMode {
		emu.SetLogger(log.Default())
	}
	if _, err := io.Copy(emu, bufio.NewReader(r)); err != nil {
		return fmt.Errorf("failed to feed capture: %w", err)
	}

	switch {
	case showBlocks:
		return printBlocks(emu)
	case showLinks:
		return printReferences(userConfig, emu)
	default:
		w := colorprofile.NewWriter(os.Stdout, os.Environ())
		_, err := fmt.Fprintln(w, app.RenderScreen(emu.Grid(), selection.Range{}, false))
		return err
	}
}

func printBlocks(emu *vt.Emulator) error {
	blocks := scrollback.ParseBlocks(emu)
	if len(blocks) == 0 {
		fmt.Println("no command blocks found (no OSC 133 shell integration markers)")
		return nil
	}
	for i, b := range blocks {
		if i > 0 {
			fmt.Println()
		}
		status := "?"
		if b.ExitCode >= 0 {
			status = fmt.Sprintf("%d", b.ExitCode)
		}
		fmt.Printf("$ %s [exit %s]\n", b.Command, status)
		if b.Output != "" {
			fmt.Println(b.Output)
		}
	}
	return nil
}

func printReferences(userConfig *config.Config, emu *vt.Emulator) error {
	text := historyText(emu)
	refs := scrollback.ExtractReferences(userConfig.HyperlinkRules(), text)
	for _, ref := range refs {
		kind := "path"
		if ref.IsURL {
			kind = "url"
		}
		if ref.Line > 0 {
			fmt.Printf("%-4s %s (line %d)\n", kind, ref.Target, ref.Line)
		} else {
			fmt.Printf("%-4s %s\n", kind, ref.Target)
		}
	}
	return nil
}

// historyText flattens scrollback plus the visible screen into text.
func historyText(emu *vt.Emulator) string {
	g := emu.MainGrid()
	var b strings.Builder
	top := g.StableTop()
	for s := top - int64(g.Scrollback().Len()); s < top+int64(g.Rows()); s++ {
		l := g.LineByStable(s)
		if l == nil {
			continue
		}
		b.WriteString(l.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// ansiColorNames index the 16-color palette for preview output.
var ansiColorNames = [16]string{
	"black", "red", "green", "yellow", "blue", "purple", "cyan", "white",
	"bright black", "bright red", "bright green", "bright yellow",
	"bright blue", "bright purple", "bright cyan", "bright white",
}

func previewThemeColors(name string) error {
	if err := theme.Initialize(name); err != nil {
		return fmt.Errorf("failed to initialize themes: %w", err)
	}

	fmt.Printf("Theme: %s\n\n", name)
	for i, c := range theme.ANSIPalette() {
		var st ansi.Style
		st = st.BackgroundColor(ansi.Color(c))
		fmt.Printf("%s    \x1b[0m  %-14s %s\n", st.String(), ansiColorNames[i], theme.ColorToString(c))
	}
	fmt.Printf("\nforeground %s\nbackground %s\ncursor     %s\n",
		theme.ColorToString(theme.Foreground()),
		theme.ColorToString(theme.Background()),
		theme.ColorToString(theme.Cursor()))
	return nil
}

func printConfigPath() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to determine config path: %w", err)
	}
	fmt.Println(configPath)
	return nil
}

func resetConfigToDefaults() error {
	configPath, err := config.GetConfigPath()
	if err != nil {
		return fmt.Errorf("failed to determine config path: %w", err)
	}

	fmt.Printf("This will overwrite %s with defaults. Continue? [y/N] ", configPath)
	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer != "y" && answer != "yes" {
		fmt.Println("Aborted.")
		return nil
	}

	written, err := config.Reset()
	if err != nil {
		return fmt.Errorf("failed to reset config: %w", err)
	}
	fmt.Printf("Configuration reset: %s\n", written)
	return nil
}
