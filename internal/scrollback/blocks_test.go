package scrollback

import (
	"testing"

	"github.com/Gaurav-Gosain/vtcore/internal/hyperlink"
	"github.com/Gaurav-Gosain/vtcore/internal/vt"
)

// feedCommand writes a full prompt/command/output cycle with OSC 133
// markers, the way a shell with semantic prompt integration would.
func feedCommand(emu *vt.Emulator, command, output string, exitCode int) {
	_, _ = emu.WriteString("\x1b]133;A\x07$ \x1b]133;B\x07")
	_, _ = emu.WriteString(command)
	_, _ = emu.WriteString("\r\n\x1b]133;C\x07")
	if output != "" {
		_, _ = emu.WriteString(output + "\r\n")
	}
	_, _ = emu.WriteString("\x1b]133;D;" + string(rune('0'+exitCode)) + "\x07")
}

func TestParseBlocksSingleCommand(t *testing.T) {
	emu := vt.NewEmulator(40, 10)
	feedCommand(emu, "echo hi", "hi", 0)

	blocks := ParseBlocks(emu)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	b := blocks[0]
	if b.Command != "echo hi" {
		t.Errorf("command = %q", b.Command)
	}
	if b.Output != "hi" {
		t.Errorf("output = %q", b.Output)
	}
	if b.ExitCode != 0 {
		t.Errorf("exit code = %d", b.ExitCode)
	}
}

func TestParseBlocksNewestFirst(t *testing.T) {
	emu := vt.NewEmulator(40, 10)
	feedCommand(emu, "first", "one", 0)
	feedCommand(emu, "second", "two", 1)

	blocks := ParseBlocks(emu)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Command != "second" || blocks[1].Command != "first" {
		t.Errorf("order wrong: %q, %q", blocks[0].Command, blocks[1].Command)
	}
	if blocks[0].ExitCode != 1 {
		t.Errorf("exit code = %d", blocks[0].ExitCode)
	}
}

func TestParseBlocksSkipsUnexecutedPrompt(t *testing.T) {
	emu := vt.NewEmulator(40, 10)
	feedCommand(emu, "ls", "a b c", 0)
	// A trailing prompt with typed but unexecuted input.
	_, _ = emu.WriteString("\r\n\x1b]133;A\x07$ \x1b]133;B\x07partial")

	blocks := ParseBlocks(emu)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Command != "ls" {
		t.Errorf("command = %q", blocks[0].Command)
	}
}

func TestParseBlocksSurvivesScrollIntoHistory(t *testing.T) {
	emu := vt.NewEmulator(40, 4)
	feedCommand(emu, "head", "line1\r\nline2\r\nline3", 0)
	feedCommand(emu, "tail", "done", 0)

	blocks := ParseBlocks(emu)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	// The first block's rows have scrolled off the 4-row screen.
	first := blocks[1]
	if first.Command != "head" {
		t.Errorf("command = %q", first.Command)
	}
	if first.Output == "" {
		t.Error("output lost after scrolling into history")
	}
}

func TestParseBlocksNoMarkers(t *testing.T) {
	emu := vt.NewEmulator(40, 5)
	_, _ = emu.WriteString("plain output, no shell integration")

	if blocks := ParseBlocks(emu); blocks != nil {
		t.Errorf("expected nil, got %d blocks", len(blocks))
	}
}

func TestExtractReferences(t *testing.T) {
	out := "see https://example.com/docs and /etc/hosts plus ./main.go:42:7"

	refs := ExtractReferences(hyperlink.DefaultRules(), out)

	var url, abs, rel *Reference
	for i := range refs {
		switch refs[i].Raw {
		case "https://example.com/docs":
			url = &refs[i]
		case "/etc/hosts":
			abs = &refs[i]
		case "./main.go:42:7":
			rel = &refs[i]
		}
	}
	if url == nil || !url.IsURL {
		t.Fatal("missing URL reference")
	}
	if abs == nil || abs.IsURL || abs.Target != "/etc/hosts" {
		t.Fatal("missing absolute path reference")
	}
	if rel == nil {
		t.Fatal("missing relative path reference")
	}
	if rel.Target != "./main.go" || rel.Line != 42 || rel.Col != 7 {
		t.Errorf("line:col parse wrong: %+v", rel)
	}
}

func TestExtractReferencesDedupes(t *testing.T) {
	out := "/tmp/x /tmp/x /tmp/x"
	refs := ExtractReferences(hyperlink.DefaultRules(), out)
	if len(refs) != 1 {
		t.Errorf("expected 1 reference, got %d", len(refs))
	}
}
