package config

import (
	"testing"

	"github.com/pelletier/go-toml/v2"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Terminal.ScrollbackLines != DefaultScrollbackLines {
		t.Errorf("ScrollbackLines = %d, want %d", cfg.Terminal.ScrollbackLines, DefaultScrollbackLines)
	}
	if cfg.Selection.WordChars != DefaultWordChars {
		t.Errorf("WordChars = %q, want %q", cfg.Selection.WordChars, DefaultWordChars)
	}
	if cfg.Clipboard.AllowRead {
		t.Error("AllowRead should default to false")
	}
	if cfg.Clipboard.AllowWrite == nil || !*cfg.Clipboard.AllowWrite {
		t.Error("AllowWrite should default to true")
	}
	if cfg.Terminal.ScrollToBottomOnInput == nil || !*cfg.Terminal.ScrollToBottomOnInput {
		t.Error("ScrollToBottomOnInput should default to true")
	}
}

func TestFillMissingClampsScrollback(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"zero uses default", 0, DefaultScrollbackLines},
		{"below minimum clamps up", 10, MinScrollbackLines},
		{"above maximum clamps down", 5000000, MaxScrollbackLines},
		{"valid value kept", 5000, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.Terminal.ScrollbackLines = tt.in
			fillMissing(cfg, DefaultConfig())
			if cfg.Terminal.ScrollbackLines != tt.want {
				t.Errorf("ScrollbackLines = %d, want %d", cfg.Terminal.ScrollbackLines, tt.want)
			}
		})
	}
}

func TestPartialTOMLKeepsDefaults(t *testing.T) {
	data := `
[terminal]
scrollback_lines = 2000

[clipboard]
allow_read = true
`
	var cfg Config
	if err := toml.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	fillMissing(&cfg, DefaultConfig())

	if cfg.Terminal.ScrollbackLines != 2000 {
		t.Errorf("ScrollbackLines = %d, want 2000", cfg.Terminal.ScrollbackLines)
	}
	if !cfg.Clipboard.AllowRead {
		t.Error("AllowRead should stay true")
	}
	if cfg.Clipboard.AllowWrite == nil || !*cfg.Clipboard.AllowWrite {
		t.Error("AllowWrite should be filled with default true")
	}
	if cfg.Selection.WordChars != DefaultWordChars {
		t.Errorf("WordChars = %q, want default", cfg.Selection.WordChars)
	}
}

func TestValidateHyperlinkRules(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Hyperlinks.Rules = []HyperlinkRule{
		{Pattern: `\b[A-Z]+-\d+\b`, Format: "https://issues.example.com/$0"},
		{Pattern: `([`, Format: "broken"},
		{Pattern: "", Format: "empty"},
	}

	result := Validate(cfg)
	if result.HasErrors() {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Warnings) != 2 {
		t.Fatalf("warnings = %d, want 2", len(result.Warnings))
	}

	// Only the good rule compiles.
	rules := cfg.HyperlinkRules()
	if len(rules) != 1 {
		t.Errorf("compiled rules = %d, want 1", len(rules))
	}
}

func TestValidateRejectsSpaceInWordChars(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Selection.WordChars = "-. /"

	result := Validate(cfg)
	if !result.HasErrors() {
		t.Fatal("expected error for space in word_chars")
	}
}

func TestHyperlinkRulesFallBackToBuiltin(t *testing.T) {
	cfg := DefaultConfig()
	if len(cfg.HyperlinkRules()) == 0 {
		t.Error("expected built-in rule when none configured")
	}
}

func TestApplyOverridesPrecedence(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Terminal.ScrollbackLines = 5000
	cfg.Selection.WordChars = "-_"

	ApplyOverrides(Overrides{ScrollbackLines: 7000}, cfg)
	if ScrollbackLines != 7000 {
		t.Errorf("ScrollbackLines = %d, want flag value 7000", ScrollbackLines)
	}
	if SelectWordChars != "-_" {
		t.Errorf("SelectWordChars = %q, want config value", SelectWordChars)
	}

	// Without the flag the config value wins.
	ApplyOverrides(Overrides{}, cfg)
	if ScrollbackLines != 5000 {
		t.Errorf("ScrollbackLines = %d, want config value 5000", ScrollbackLines)
	}
}

func TestApplyOverridesClipboardPolicy(t *testing.T) {
	deny := false
	cfg := DefaultConfig()
	cfg.Clipboard.AllowWrite = &deny

	ApplyOverrides(Overrides{AllowClipboardRead: true}, cfg)
	if !ClipboardRead {
		t.Error("flag should enable clipboard read")
	}
	if ClipboardWrite {
		t.Error("config should disable clipboard write")
	}

	ApplyOverrides(Overrides{DenyClipboardWrite: true}, nil)
	if ClipboardWrite {
		t.Error("flag should disable clipboard write")
	}
}

func TestGenerationBumpsOnApply(t *testing.T) {
	before := Generation()
	ApplyOverrides(Overrides{}, nil)
	if Generation() != before+1 {
		t.Errorf("Generation = %d, want %d", Generation(), before+1)
	}
}
