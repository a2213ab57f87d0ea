package app

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/Gaurav-Gosain/vtcore/internal/grid"
	"github.com/Gaurav-Gosain/vtcore/internal/selection"
	"github.com/Gaurav-Gosain/vtcore/internal/vt"
)

func TestRenderScreenPlainText(t *testing.T) {
	emu := vt.NewEmulator(10, 3)
	_, _ = emu.WriteString("hello")

	out := RenderScreen(emu.Grid(), selection.Range{}, false)

	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "hello") {
		t.Errorf("first row missing text: %q", lines[0])
	}
}

func TestRenderScreenStyledRun(t *testing.T) {
	emu := vt.NewEmulator(10, 2)
	_, _ = emu.WriteString("\x1b[1mbold\x1b[0m plain")

	out := RenderScreen(emu.Grid(), selection.Range{}, false)

	if !strings.Contains(out, "\x1b[1m") {
		t.Errorf("missing bold prefix in %q", out)
	}
	if !strings.Contains(out, "\x1b[0m") {
		t.Errorf("missing reset in %q", out)
	}
	if !strings.Contains(out, "bold") || !strings.Contains(out, "plain") {
		t.Errorf("missing text in %q", out)
	}
}

func TestRenderScreenSelectionChangesOutput(t *testing.T) {
	emu := vt.NewEmulator(10, 2)
	_, _ = emu.WriteString("selected")

	top := emu.Grid().StableTop()
	sel := selection.Range{
		Start: selection.Coordinate{X: 0, Y: top},
		End:   selection.Coordinate{X: 7, Y: top},
	}

	plain := RenderScreen(emu.Grid(), selection.Range{}, false)
	marked := RenderScreen(emu.Grid(), sel, true)

	if plain == marked {
		t.Error("selection did not change rendered output")
	}
	if !strings.Contains(marked, "selected") {
		t.Errorf("selected text missing from %q", marked)
	}
}

func TestRenderScreenHyperlink(t *testing.T) {
	emu := vt.NewEmulator(20, 2)
	_, _ = emu.WriteString("\x1b]8;;https://example.com\x1b\\link\x1b]8;;\x1b\\ text")

	out := RenderScreen(emu.Grid(), selection.Range{}, false)

	if !strings.Contains(out, "https://example.com") {
		t.Errorf("hyperlink target missing from %q", out)
	}
}

func TestRenderScreenViewportScrolled(t *testing.T) {
	emu := vt.NewEmulator(10, 2)
	for i := range 6 {
		_, _ = emu.WriteString("line" + string(rune('0'+i)) + "\r\n")
	}

	g := emu.Grid()
	g.ScrollViewport(2)
	out := RenderScreen(g, selection.Range{}, false)

	if !strings.Contains(out, "line") {
		t.Fatalf("scrolled view lost content: %q", out)
	}
	bottom := strings.Split(RenderScreen(g, selection.Range{}, false), "\n")
	g.ResetViewport()
	reset := strings.Split(RenderScreen(g, selection.Range{}, false), "\n")
	if bottom[0] == reset[0] {
		t.Error("viewport scroll did not change the top row")
	}
}

func TestSgrPrefixDefaultIsEmpty(t *testing.T) {
	if p := sgrPrefix(grid.Attrs{}); p != "" {
		t.Errorf("default attrs produced prefix %q", p)
	}
}

func TestSgrPrefixExtendedUnderline(t *testing.T) {
	p := sgrPrefix(grid.Attrs{Underline: grid.UnderlineCurly})
	if !strings.Contains(p, "\x1b[4:3m") {
		t.Errorf("curly underline missing from %q", p)
	}
}

func TestMapCursorStyle(t *testing.T) {
	tests := []struct {
		style int
		shape tea.CursorShape
		blink bool
	}{
		{0, tea.CursorBlock, true},
		{1, tea.CursorBlock, true},
		{2, tea.CursorBlock, false},
		{3, tea.CursorUnderline, true},
		{4, tea.CursorUnderline, false},
		{5, tea.CursorBar, true},
		{6, tea.CursorBar, false},
	}
	for _, tt := range tests {
		shape, blink := mapCursorStyle(tt.style)
		if shape != tt.shape || blink != tt.blink {
			t.Errorf("style %d: got (%v, %v), want (%v, %v)",
				tt.style, shape, blink, tt.shape, tt.blink)
		}
	}
}

// Mirrors the production layout: the PTY reader feeds Write on its own
// goroutine while the view renders under the emulator lock. Run with
// the race detector to catch unguarded grid access.
func TestRenderScreenConcurrentWithWriter(t *testing.T) {
	emu := vt.NewEmulator(40, 8)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 300 {
			_, _ = emu.WriteString("ls -la\r\n\x1b[31mdrwxr-xr-x\x1b[0m .config\r\n")
		}
	}()

	for range 300 {
		emu.Lock()
		out := RenderScreen(emu.Grid(), selection.Range{}, false)
		emu.Unlock()
		if out == "" {
			t.Fatal("empty render")
		}
	}
	<-done
}
