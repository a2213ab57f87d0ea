package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"

	"github.com/Gaurav-Gosain/vtcore/internal/hyperlink"
)

// Config represents the user's custom configuration
type Config struct {
	Terminal   TerminalConfig   `toml:"terminal"`
	Selection  SelectionConfig  `toml:"selection"`
	Clipboard  ClipboardConfig  `toml:"clipboard"`
	Hyperlinks HyperlinkConfig  `toml:"hyperlinks"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// TerminalConfig holds emulator-related settings
type TerminalConfig struct {
	ScrollbackLines       int   `toml:"scrollback_lines"`          // Number of lines to keep in scrollback buffer (default: 10000, min: 100, max: 1000000)
	ScrollToBottomOnInput *bool `toml:"scroll_to_bottom_on_input"` // Snap the viewport to the bottom on keyboard input (default: true)
}

// SelectionConfig holds text selection settings
type SelectionConfig struct {
	WordChars string `toml:"word_chars"` // Non-alphanumeric characters treated as part of a word (default: "-./_~?&=%+#@:")
}

// ClipboardConfig holds the OSC 52 clipboard policy
type ClipboardConfig struct {
	AllowRead  bool  `toml:"allow_read"`  // Let applications read the clipboard (default: false)
	AllowWrite *bool `toml:"allow_write"` // Let applications write the clipboard (default: true)
}

// HyperlinkConfig holds implicit hyperlink detection rules
type HyperlinkConfig struct {
	Rules []HyperlinkRule `toml:"rules"`
}

// HyperlinkRule is one regexp pattern with a link target format. The format
// may reference capture groups ($0, $1, ...).
type HyperlinkRule struct {
	Pattern string `toml:"pattern"`
	Format  string `toml:"format"`
}

// AppearanceConfig holds appearance-related settings
type AppearanceConfig struct {
	Theme string `toml:"theme"` // Color theme name (e.g., dracula, nord, my-custom-theme)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	scrollToBottom := true
	clipboardWrite := true
	return &Config{
		Terminal: TerminalConfig{
			ScrollbackLines:       DefaultScrollbackLines,
			ScrollToBottomOnInput: &scrollToBottom,
		},
		Selection: SelectionConfig{
			WordChars: DefaultWordChars,
		},
		Clipboard: ClipboardConfig{
			AllowRead:  false,
			AllowWrite: &clipboardWrite,
		},
		Hyperlinks: HyperlinkConfig{
			Rules: nil, // Empty means use the built-in URL rule
		},
		Appearance: AppearanceConfig{
			Theme: "",
		},
	}
}

// Load loads the user configuration from the XDG config directory
func Load() (*Config, error) {
	// Try to find existing config file
	configPath, err := xdg.SearchConfigFile("vtcore/config.toml")
	if err != nil {
		// Config doesn't exist, create default
		return createDefaultConfig()
	}

	// Read and parse config file
	// #nosec G304 - configPath is from XDG search, reading user config is intentional
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Fill in missing sections with defaults
	fillMissing(&cfg, DefaultConfig())

	// Validate configuration
	validation := Validate(&cfg)
	if validation.HasErrors() {
		for _, e := range validation.Errors {
			fmt.Fprintf(os.Stderr, "Config error in [%s]: %s - %s\n", e.Section, e.Key, e.Message)
		}
		return nil, fmt.Errorf("configuration has %d error(s), please fix and restart", len(validation.Errors))
	}

	// Log warnings (non-fatal)
	for _, w := range validation.Warnings {
		fmt.Fprintf(os.Stderr, "Config warning in [%s]: %s - %s\n", w.Section, w.Key, w.Message)
	}

	return &cfg, nil
}

// createDefaultConfig creates a default config file in the user's config directory
func createDefaultConfig() (*Config, error) {
	cfg := DefaultConfig()

	// Get config file path
	configPath, err := xdg.ConfigFile("vtcore/config.toml")
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Marshal config to TOML
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	// Build config file with header comments and marshaled data
	var sb strings.Builder
	sb.WriteString("# vtcore Configuration File\n")
	sb.WriteString("#\n")
	sb.WriteString("# Configuration location: " + configPath + "\n")
	sb.WriteString("# Documentation: https://github.com/Gaurav-Gosain/vtcore\n\n")

	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# TERMINAL SETTINGS\n")
	sb.WriteString("# ============================================================================\n")
	sb.WriteString("# scrollback_lines: Number of lines to keep in scrollback buffer\n")
	sb.WriteString("#   Range: 100 to 1000000\n")
	sb.WriteString("#   Default: 10000\n")
	sb.WriteString("#\n")
	sb.WriteString("# word_chars: Characters treated as part of a word during word selection,\n")
	sb.WriteString("#   in addition to letters and digits.\n")
	sb.WriteString("#   Default: -./_~?&=%+#@:\n")
	sb.WriteString("#\n")
	sb.WriteString("# [clipboard] allow_read / allow_write: OSC 52 clipboard policy.\n")
	sb.WriteString("#   allow_read defaults to false so applications cannot spy on the clipboard.\n")
	sb.WriteString("#\n")
	sb.WriteString("# [[hyperlinks.rules]]: regexp patterns turned into implicit hyperlinks.\n")
	sb.WriteString("#   pattern = '\\b[A-Z]+-\\d+\\b'\n")
	sb.WriteString("#   format  = 'https://issues.example.com/$0'\n")
	sb.WriteString("#\n")
	sb.WriteString("# theme: Color theme name (e.g., dracula, nord, my-custom-theme)\n")
	sb.WriteString("#   Leave empty to use standard terminal colors.\n")
	sb.WriteString("#   CLI flag --theme overrides this. Custom themes: ~/.config/vtcore/themes/*.json\n")
	sb.WriteString("#   Default: (empty - no theme)\n")
	sb.WriteString("# ============================================================================\n\n")

	if _, err := sb.Write(data); err != nil {
		return nil, fmt.Errorf("failed to write config data: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, []byte(sb.String()), 0600); err != nil {
		return nil, fmt.Errorf("failed to write config file: %w", err)
	}

	return cfg, nil
}

// Reset overwrites the user's config file with the defaults and returns its path.
func Reset() (string, error) {
	configPath, err := xdg.ConfigFile("vtcore/config.toml")
	if err != nil {
		return "", fmt.Errorf("failed to get config path: %w", err)
	}
	if err := os.Remove(configPath); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to remove config file: %w", err)
	}
	if _, err := createDefaultConfig(); err != nil {
		return "", err
	}
	return configPath, nil
}

// fillMissing fills in any missing settings with defaults
func fillMissing(cfg, defaultCfg *Config) {
	// Validate and set scrollback lines
	if cfg.Terminal.ScrollbackLines <= 0 {
		cfg.Terminal.ScrollbackLines = defaultCfg.Terminal.ScrollbackLines
	} else if cfg.Terminal.ScrollbackLines < MinScrollbackLines {
		cfg.Terminal.ScrollbackLines = MinScrollbackLines
	} else if cfg.Terminal.ScrollbackLines > MaxScrollbackLines {
		cfg.Terminal.ScrollbackLines = MaxScrollbackLines
	}

	// ScrollToBottomOnInput defaults to true (nil means use default)
	if cfg.Terminal.ScrollToBottomOnInput == nil {
		cfg.Terminal.ScrollToBottomOnInput = defaultCfg.Terminal.ScrollToBottomOnInput
	}

	if cfg.Selection.WordChars == "" {
		cfg.Selection.WordChars = defaultCfg.Selection.WordChars
	}

	// AllowWrite defaults to true, AllowRead to false (zero value)
	if cfg.Clipboard.AllowWrite == nil {
		cfg.Clipboard.AllowWrite = defaultCfg.Clipboard.AllowWrite
	}
}

// ValidationIssue describes one problem found in the config file
type ValidationIssue struct {
	Section string
	Key     string
	Message string
}

// ValidationResult collects errors and warnings from Validate
type ValidationResult struct {
	Errors   []ValidationIssue
	Warnings []ValidationIssue
}

// HasErrors reports whether validation found any fatal problems
func (r *ValidationResult) HasErrors() bool { return len(r.Errors) > 0 }

// HasWarnings reports whether validation found any non-fatal problems
func (r *ValidationResult) HasWarnings() bool { return len(r.Warnings) > 0 }

// Validate checks the configuration for malformed values. Bad hyperlink rules
// are warnings since the built-in rule still applies without them.
func Validate(cfg *Config) *ValidationResult {
	result := &ValidationResult{}

	for i, rule := range cfg.Hyperlinks.Rules {
		if rule.Pattern == "" {
			result.Warnings = append(result.Warnings, ValidationIssue{
				Section: "hyperlinks",
				Key:     fmt.Sprintf("rules[%d].pattern", i),
				Message: "empty pattern, rule ignored",
			})
			continue
		}
		if _, err := hyperlink.CompileRule(rule.Pattern, rule.Format); err != nil {
			result.Warnings = append(result.Warnings, ValidationIssue{
				Section: "hyperlinks",
				Key:     fmt.Sprintf("rules[%d].pattern", i),
				Message: err.Error(),
			})
		}
	}

	for _, r := range cfg.Selection.WordChars {
		if r == ' ' {
			result.Errors = append(result.Errors, ValidationIssue{
				Section: "selection",
				Key:     "word_chars",
				Message: "space cannot be a word character",
			})
			break
		}
	}

	return result
}

// HyperlinkRules compiles the configured implicit link rules, falling back to
// the built-in URL rule when none are configured. Rules that fail to compile
// are skipped.
func (c *Config) HyperlinkRules() []hyperlink.Rule {
	if len(c.Hyperlinks.Rules) == 0 {
		return hyperlink.DefaultRules()
	}
	rules := make([]hyperlink.Rule, 0, len(c.Hyperlinks.Rules))
	for _, r := range c.Hyperlinks.Rules {
		compiled, err := hyperlink.CompileRule(r.Pattern, r.Format)
		if err != nil {
			continue
		}
		rules = append(rules, compiled)
	}
	return rules
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	path, err := xdg.SearchConfigFile("vtcore/config.toml")
	if err != nil {
		// Return where it would be created
		return xdg.ConfigFile("vtcore/config.toml")
	}
	return path, nil
}
