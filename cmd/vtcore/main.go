// Package main implements vtcore, a terminal emulator core with an
// interactive viewer. It runs a shell or command on a PTY, interprets
// its escape-sequence output, and renders the resulting screen with
// scrollback, mouse selection, and hyperlink support.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Gaurav-Gosain/vtcore/internal/theme"
	"github.com/charmbracelet/fang"
	tint "github.com/lrstanley/bubbletint/v2"
	"github.com/spf13/cobra"
)

// Version information (set by goreleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// Global flags
var (
	debugMode        bool
	themeName        string
	listThemes       bool
	previewTheme     string
	scrollbackLines  int
	wordChars        string
	allowClipboard   bool
	noClipboardWrite bool
	noScrollOnInput  bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "vtcore [command...]",
		Short: "Terminal emulator core",
		Long: `vtcore - terminal emulator core

Runs a shell or command on a pseudo-terminal, interprets its output,
and renders the screen with scrollback, mouse text selection, and
OSC 8 hyperlink support.`,
		Example: `  # Run your shell
  vtcore

  # Run a specific command
  vtcore -- htop

  # Run with a color theme
  vtcore --theme dracula

  # List all available themes
  vtcore --list-themes

  # Preview a theme's colors
  vtcore --preview-theme dracula

  # Interactively select a theme with fzf
  vtcore --theme $(vtcore --list-themes | fzf --preview 'vtcore --preview-theme {}')`,
		Version: version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			if previewTheme != "" {
				return previewThemeColors(previewTheme)
			}

			if listThemes {
				if err := theme.Initialize("default"); err != nil {
					return fmt.Errorf("failed to initialize themes: %w", err)
				}
				for _, t := range tint.TintIDs() {
					fmt.Println(t)
				}
				return nil
			}
			return runTerminal(args)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme to use (e.g., dracula, nord, tokyonight). Leave empty to use standard terminal colors without theming")
	rootCmd.PersistentFlags().BoolVar(&listThemes, "list-themes", false, "List all available themes and exit")
	rootCmd.PersistentFlags().StringVar(&previewTheme, "preview-theme", "", "Preview a theme's 16 ANSI colors")
	rootCmd.PersistentFlags().IntVar(&scrollbackLines, "scrollback-lines", 0, "Number of lines to keep in the scrollback buffer (default: from config or 10000, min: 100, max: 1000000)")
	rootCmd.PersistentFlags().StringVar(&wordChars, "word-chars", "", "Extra characters treated as part of a word for double-click selection (default: from config)")
	rootCmd.PersistentFlags().BoolVar(&allowClipboard, "allow-clipboard-read", false, "Allow applications to read the clipboard via OSC 52")
	rootCmd.PersistentFlags().BoolVar(&noClipboardWrite, "no-clipboard-write", false, "Deny applications writing the clipboard via OSC 52")
	rootCmd.PersistentFlags().BoolVar(&noScrollOnInput, "no-scroll-on-input", false, "Do not snap the viewport to the bottom on keyboard input")

	runCmd := &cobra.Command{
		Use:   "run [command...]",
		Short: "Run a command in the terminal emulator",
		Long: `Run a shell or command in the terminal emulator.

Equivalent to invoking vtcore with no subcommand.`,
		Example: `  vtcore run
  vtcore run -- htop`,
		Args: cobra.ArbitraryArgs,
		RunE: func(_ *cobra.Command, args []string) error {
			return runTerminal(args)
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage vtcore configuration",
		Long:  `Manage the vtcore configuration file and settings`,
	}

	configPathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print configuration file path",
		RunE: func(_ *cobra.Command, _ []string) error {
			return printConfigPath()
		},
	}

	configResetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset configuration to defaults",
		Long: `Reset the vtcore configuration file to default settings

This will overwrite your existing configuration after confirmation.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return resetConfigToDefaults()
		},
	}

	configCmd.AddCommand(configPathCmd, configResetCmd)

	var snapCols, snapRows int
	var snapBlocks, snapLinks bool

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [file]",
		Short: "Render a captured escape-sequence stream",
		Long: `Render a captured escape-sequence stream headlessly.

Feeds the file (or stdin) through the emulator and prints the final
screen. Useful for inspecting recorded terminal output and for
debugging escape-sequence handling.`,
		Example: `  # Render a capture file
  vtcore snapshot output.bin

  # Render from a pipe
  script -qc 'ls --color' /dev/null | vtcore snapshot

  # List command blocks found via shell integration markers
  vtcore snapshot --blocks session.log

  # List URLs and file paths found on the final screen
  vtcore snapshot --links build.log`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return runSnapshot(path, snapCols, snapRows, snapBlocks, snapLinks)
		},
	}
	snapshotCmd.Flags().IntVar(&snapCols, "columns", 0, "Screen width (default: current terminal or 80)")
	snapshotCmd.Flags().IntVar(&snapRows, "rows", 0, "Screen height (default: current terminal or 24)")
	snapshotCmd.Flags().BoolVar(&snapBlocks, "blocks", false, "List command blocks parsed from OSC 133 markers")
	snapshotCmd.Flags().BoolVar(&snapLinks, "links", false, "List URLs and file paths found in the output")

	rootCmd.AddCommand(runCmd, configCmd, snapshotCmd)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(fmt.Sprintf("%s\nCommit: %s\nBuilt: %s\nBy: %s", version, commit, date, builtBy)),
	); err != nil {
		os.Exit(1)
	}
}
