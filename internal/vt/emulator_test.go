package vt

import (
	"image/color"
	"testing"

	"github.com/Gaurav-Gosain/vtcore/internal/grid"
)

func feed(t *testing.T, e *Emulator, s string) {
	t.Helper()
	if _, err := e.WriteString(s); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func cursorAt(t *testing.T, e *Emulator, wantX, wantY int) {
	t.Helper()
	x, y := e.CursorPosition()
	if x != wantX || y != wantY {
		t.Fatalf("cursor = (%d, %d), want (%d, %d)", x, y, wantX, wantY)
	}
}

func TestBackspaceClampsAtLeftMargin(t *testing.T) {
	e := NewEmulator(4, 3)
	feed(t, e, "\b")
	cursorAt(t, e, 0, 0)

	feed(t, e, "ab\b")
	cursorAt(t, e, 1, 0)
	if got := e.String(); got != "ab" {
		t.Fatalf("screen = %q", got)
	}
}

func TestTabStopsAdvanceAndClamp(t *testing.T) {
	e := NewEmulator(25, 3)
	for _, want := range []int{8, 16, 24, 24} {
		feed(t, e, "\t")
		cursorAt(t, e, want, 0)
	}
}

func TestTabStopSetAndClear(t *testing.T) {
	e := NewEmulator(20, 2)
	feed(t, e, "\x1b[5G\x1bH\r\t") // HTS at column 4
	cursorAt(t, e, 4, 0)
	feed(t, e, "\r\x1b[3g\t") // TBC 3 clears all stops
	cursorAt(t, e, 19, 0)
}

func TestReverseIndexScrollsDownAtTop(t *testing.T) {
	e := NewEmulator(2, 4)
	feed(t, e, "a\r\nb\r\nc\r\nd.")
	cursorAt(t, e, 1, 3)

	for _, want := range []int{2, 1, 0} {
		feed(t, e, "\x1bM")
		cursorAt(t, e, 1, want)
	}

	feed(t, e, "\x1bM")
	cursorAt(t, e, 1, 0)
	g := e.Grid()
	want := []string{"", "a", "b", "c"}
	for y, w := range want {
		if got := g.Line(y).String(); got != w {
			t.Errorf("row %d = %q, want %q", y, got, w)
		}
	}
}

func TestPendingWrap(t *testing.T) {
	e := NewEmulator(4, 3)
	feed(t, e, "abcd")
	// Printing in the last column does not wrap until the next character.
	cursorAt(t, e, 3, 0)
	if !e.scr.cur.atPhantom {
		t.Fatal("pending-wrap flag not set")
	}

	feed(t, e, "e")
	cursorAt(t, e, 1, 1)
	if !e.Grid().Line(0).HasFlag(grid.FlagWrapped) {
		t.Fatal("wrapped line not flagged")
	}
	if got := e.Grid().Line(1).String(); got != "e" {
		t.Fatalf("row 1 = %q", got)
	}
}

func TestExplicitMoveClearsPendingWrap(t *testing.T) {
	e := NewEmulator(4, 3)
	feed(t, e, "abcd\x1b[1;1Hx")
	cursorAt(t, e, 1, 0)
	if got := e.Grid().Line(0).String(); got != "xbcd" {
		t.Fatalf("row 0 = %q", got)
	}
}

func TestWideGlyphWrapsEarly(t *testing.T) {
	e := NewEmulator(4, 3)
	feed(t, e, "abc字")
	if got := e.Grid().Line(0).String(); got != "abc" {
		t.Fatalf("row 0 = %q", got)
	}
	if got := e.Grid().Line(1).String(); got != "字" {
		t.Fatalf("row 1 = %q", got)
	}
	if !e.Grid().Line(0).HasFlag(grid.FlagWrapped) {
		t.Fatal("early wrap not flagged")
	}
}

func TestCombiningMarkJoinsPreviousCell(t *testing.T) {
	e := NewEmulator(4, 2)
	feed(t, e, "á")
	c := e.Grid().Line(0).CellAt(0)
	if c.Content != "á" {
		t.Fatalf("cell = %q", c.Content)
	}
	cursorAt(t, e, 1, 0)
}

func TestLineFeedScrollsIntoScrollback(t *testing.T) {
	e := NewEmulator(2, 2)
	feed(t, e, "a\r\nb\r\nc")
	if got := e.Grid().Scrollback().Len(); got != 1 {
		t.Fatalf("scrollback len = %d", got)
	}
	if got := e.Grid().Scrollback().Line(0).String(); got != "a" {
		t.Fatalf("scrollback line = %q", got)
	}
}

func TestScrollRegion(t *testing.T) {
	e := NewEmulator(4, 5)
	feed(t, e, "0\r\n1\r\n2\r\n3\r\n4")
	feed(t, e, "\x1b[2;4r") // region rows 1..3
	cursorAt(t, e, 0, 0)

	feed(t, e, "\x1b[4;1H\n") // LF at region bottom scrolls the region only
	want := []string{"0", "2", "3", "", "4"}
	for y, w := range want {
		if got := e.Grid().Line(y).String(); got != w {
			t.Errorf("row %d = %q, want %q", y, got, w)
		}
	}
	// Region scrolls never feed the scrollback.
	if got := e.Grid().Scrollback().Len(); got != 0 {
		t.Fatalf("scrollback len = %d", got)
	}
}

func TestInsertAndDeleteLines(t *testing.T) {
	e := NewEmulator(3, 4)
	feed(t, e, "a\r\nb\r\nc\r\nd")
	feed(t, e, "\x1b[2;1H\x1b[L")
	want := []string{"a", "", "b", "c"}
	for y, w := range want {
		if got := e.Grid().Line(y).String(); got != w {
			t.Errorf("after IL row %d = %q, want %q", y, got, w)
		}
	}
	feed(t, e, "\x1b[M")
	if got := e.Grid().Line(1).String(); got != "b" {
		t.Fatalf("after DL row 1 = %q", got)
	}
}

func TestInsertDeleteEraseChars(t *testing.T) {
	e := NewEmulator(8, 2)
	feed(t, e, "abcdef\x1b[1;2H\x1b[2@")
	if got := e.Grid().Line(0).String(); got != "a  bcde" {
		t.Fatalf("after ICH = %q", got)
	}
	feed(t, e, "\x1b[2P")
	if got := e.Grid().Line(0).String(); got != "abcde" {
		t.Fatalf("after DCH = %q", got)
	}
	feed(t, e, "\x1b[2X")
	if got := e.Grid().Line(0).String(); got != "a  de" {
		t.Fatalf("after ECH = %q", got)
	}
}

func TestEraseInDisplayAndLine(t *testing.T) {
	e := NewEmulator(6, 3)
	feed(t, e, "aaaaaa\r\nbbbbbb\r\ncccccc")
	feed(t, e, "\x1b[2;3H\x1b[0K")
	if got := e.Grid().Line(1).String(); got != "bb" {
		t.Fatalf("after EL0 = %q", got)
	}
	feed(t, e, "\x1b[0J")
	if got := e.Grid().Line(2).String(); got != "" {
		t.Fatalf("after ED0 row 2 = %q", got)
	}
	if got := e.Grid().Line(0).String(); got != "aaaaaa" {
		t.Fatalf("after ED0 row 0 = %q", got)
	}
	feed(t, e, "\x1b[2J")
	if got := e.String(); got != "" {
		t.Fatalf("after ED2 = %q", got)
	}
}

func TestSgrAccumulatesPendingAttrs(t *testing.T) {
	e := NewEmulator(10, 2)
	feed(t, e, "\x1b[1;4;31mX\x1b[mY")
	x := e.Grid().Line(0).CellAt(0)
	if !x.Attrs.Bold || x.Attrs.Underline != grid.UnderlineSingle {
		t.Fatalf("styled cell attrs = %+v", x.Attrs)
	}
	if x.Attrs.Fg != e.IndexedColor(1) {
		t.Fatalf("fg = %v", x.Attrs.Fg)
	}
	y := e.Grid().Line(0).CellAt(1)
	if !y.Attrs.IsDefault() {
		t.Fatalf("reset cell attrs = %+v", y.Attrs)
	}
}

func TestSgrColonSubparameters(t *testing.T) {
	e := NewEmulator(10, 2)
	feed(t, e, "\x1b[38:2:10:20:30mX")
	c := e.Grid().Line(0).CellAt(0)
	if c.Attrs.Fg != (color.RGBA{R: 10, G: 20, B: 30, A: 0xff}) {
		t.Fatalf("fg = %v", c.Attrs.Fg)
	}

	feed(t, e, "\x1b[4:3mY")
	c = e.Grid().Line(0).CellAt(1)
	if c.Attrs.Underline != grid.UnderlineCurly {
		t.Fatalf("underline = %v", c.Attrs.Underline)
	}
}

func TestAltScreenSwitchPreservesMain(t *testing.T) {
	var altEvents []bool
	e := NewEmulator(10, 3)
	e.SetCallbacks(Callbacks{AltScreen: func(on bool) { altEvents = append(altEvents, on) }})

	feed(t, e, "main\x1b[?1049h")
	if !e.IsAltScreen() {
		t.Fatal("not on alt screen")
	}
	cursorAt(t, e, 0, 0)
	feed(t, e, "alt")
	if got := e.String(); got != "alt" {
		t.Fatalf("alt screen = %q", got)
	}

	feed(t, e, "\x1b[?1049l")
	if e.IsAltScreen() {
		t.Fatal("still on alt screen")
	}
	if got := e.String(); got != "main" {
		t.Fatalf("main screen = %q", got)
	}
	cursorAt(t, e, 4, 0)

	if len(altEvents) != 2 || !altEvents[0] || altEvents[1] {
		t.Fatalf("alt screen events = %v", altEvents)
	}
}

func TestDecscRestoresCursorAndAttrs(t *testing.T) {
	e := NewEmulator(10, 3)
	feed(t, e, "\x1b[31m\x1b[2;3H\x1b7\x1b[m\x1b[1;1H\x1b8")
	cursorAt(t, e, 2, 1)
	feed(t, e, "X")
	if c := e.Grid().Line(1).CellAt(2); c.Attrs.Fg != e.IndexedColor(1) {
		t.Fatalf("restored fg = %v", c.Attrs.Fg)
	}
}

func TestCursorPositionReport(t *testing.T) {
	var reply []byte
	e := NewEmulator(10, 3)
	e.SetCallbacks(Callbacks{WriteReply: func(b []byte) { reply = append(reply, b...) }})
	feed(t, e, "\x1b[2;5H\x1b[6n")
	if got := string(reply); got != "\x1b[2;5R" {
		t.Fatalf("CPR = %q", got)
	}
}

func TestOscTitleAndWorkingDirectory(t *testing.T) {
	var title, cwd string
	e := NewEmulator(10, 3)
	e.SetCallbacks(Callbacks{
		Title:            func(s string) { title = s },
		WorkingDirectory: func(s string) { cwd = s },
	})
	feed(t, e, "\x1b]2;hello world\x07")
	feed(t, e, "\x1b]7;file://host/tmp\x1b\\")
	if title != "hello world" || e.Title() != "hello world" {
		t.Fatalf("title = %q / %q", title, e.Title())
	}
	if cwd != "file://host/tmp" {
		t.Fatalf("cwd = %q", cwd)
	}
}

func TestOscHyperlinkSpansCells(t *testing.T) {
	e := NewEmulator(10, 2)
	feed(t, e, "\x1b]8;id=1;http://example.com\x07ab\x1b]8;;\x07c")

	l := e.Grid().Line(0)
	if !l.HasFlag(grid.FlagHasHyperlink) {
		t.Fatal("hyperlink flag not set")
	}
	a, b := l.CellAt(0), l.CellAt(1)
	if a.Attrs.Link == nil || b.Attrs.Link == nil {
		t.Fatal("link missing on linked cells")
	}
	if a.Attrs.Link != b.Attrs.Link {
		t.Fatal("link not shared by reference")
	}
	if a.Attrs.Link.URI() != "http://example.com" {
		t.Fatalf("uri = %q", a.Attrs.Link.URI())
	}
	if c := l.CellAt(2); c.Attrs.Link != nil {
		t.Fatal("link leaked past OSC 8 close")
	}
}

func TestOscClipboardPolicy(t *testing.T) {
	var wrote string
	var replied []byte
	cb := Callbacks{
		SetClipboard: func(sel byte, text string) { wrote = text },
		GetClipboard: func(sel byte) string { return "secret" },
		WriteReply:   func(b []byte) { replied = append(replied, b...) },
	}

	e := NewEmulator(10, 3)
	e.SetCallbacks(cb)
	feed(t, e, "\x1b]52;c;aGVsbG8=\x07") // "hello"
	if wrote != "hello" {
		t.Fatalf("clipboard write = %q", wrote)
	}
	feed(t, e, "\x1b]52;c;?\x07")
	if len(replied) != 0 {
		t.Fatal("clipboard read allowed by default policy")
	}

	e = NewEmulator(10, 3, WithClipboardPolicy(true, true))
	e.SetCallbacks(cb)
	feed(t, e, "\x1b]52;c;?\x07")
	if got := string(replied); got != "\x1b]52;c;c2VjcmV0\x07" {
		t.Fatalf("clipboard reply = %q", got)
	}
}

func TestOscSemanticMarkers(t *testing.T) {
	e := NewEmulator(10, 3)
	feed(t, e, "\x1b]133;A\x07$ \x1b]133;B\x07ls\r\n\x1b]133;C\x07out\r\n\x1b]133;D;0\x07")

	ms := e.SemanticMarkers().Markers()
	if len(ms) != 4 {
		t.Fatalf("marker count = %d", len(ms))
	}
	if ms[0].Type != MarkerPromptStart || ms[0].Stable != 0 {
		t.Fatalf("first marker = %+v", ms[0])
	}
	if ms[3].Type != MarkerCommandFinished || ms[3].ExitCode != 0 {
		t.Fatalf("finish marker = %+v", ms[3])
	}
	if last := e.SemanticMarkers().Last(MarkerCommandStart); last == nil || last.Col != 2 {
		t.Fatalf("command start marker = %+v", last)
	}
}

func TestOscPaletteSetAndQuery(t *testing.T) {
	var replied []byte
	e := NewEmulator(10, 3)
	e.SetCallbacks(Callbacks{WriteReply: func(b []byte) { replied = append(replied, b...) }})

	feed(t, e, "\x1b]4;1;#ff0000\x07")
	r, g, b, _ := e.IndexedColor(1).RGBA()
	if r>>8 != 0xff || g != 0 || b != 0 {
		t.Fatalf("palette color = %04x %04x %04x", r, g, b)
	}
	feed(t, e, "\x1b]4;1;?\x07")
	if len(replied) == 0 {
		t.Fatal("no palette query reply")
	}
	feed(t, e, "\x1b]104\x07")
	if e.colors[1] != nil {
		t.Fatal("palette not reset")
	}
}

func TestResizeShrinkKeepsCursorLine(t *testing.T) {
	e := NewEmulator(4, 4)
	feed(t, e, "a\r\nb\r\nc\r\nd")
	cursorAt(t, e, 1, 3)

	e.Resize(4, 2)
	cursorAt(t, e, 1, 1)
	if got := e.Grid().Line(1).String(); got != "d" {
		t.Fatalf("cursor row content = %q", got)
	}
	if got := e.Grid().Scrollback().Len(); got != 2 {
		t.Fatalf("scrollback len = %d", got)
	}
}

func TestModesTracked(t *testing.T) {
	e := NewEmulator(10, 3)
	feed(t, e, "\x1b[?2004h\x1b[?1002h\x1b[?1006h")
	if !e.HasMouseMode() || !e.SupportsMotionEvents() {
		t.Fatal("mouse modes not tracked")
	}
	var reply []byte
	e.SetCallbacks(Callbacks{WriteReply: func(b []byte) { reply = append(reply, b...) }})
	e.Paste("hi")
	if got := string(reply); got != "\x1b[200~hi\x1b[201~" {
		t.Fatalf("bracketed paste = %q", got)
	}

	feed(t, e, "\x1b[?25l")
	if !e.IsCursorHidden() {
		t.Fatal("cursor not hidden")
	}
}

func TestSendMouseSgrEncoding(t *testing.T) {
	var reply []byte
	e := NewEmulator(10, 3)
	e.SetCallbacks(Callbacks{WriteReply: func(b []byte) { reply = append(reply, b...) }})

	e.SendMouse(Mouse{X: 2, Y: 1, Button: MouseLeft})
	if len(reply) != 0 {
		t.Fatal("mouse reported with no tracking mode set")
	}

	feed(t, e, "\x1b[?1000h\x1b[?1006h")
	e.SendMouse(Mouse{X: 2, Y: 1, Button: MouseLeft})
	if got := string(reply); got != "\x1b[<0;3;2M" {
		t.Fatalf("SGR mouse = %q", got)
	}

	reply = nil
	e.SendMouse(Mouse{X: 2, Y: 1, Motion: true, Button: MouseLeft})
	if len(reply) != 0 {
		t.Fatal("motion reported in click-only mode")
	}
}

func TestDecalnFillsScreen(t *testing.T) {
	e := NewEmulator(3, 2)
	feed(t, e, "\x1b#8")
	if got := e.String(); got != "EEE\nEEE" {
		t.Fatalf("DECALN = %q", got)
	}
}

func TestRisResets(t *testing.T) {
	e := NewEmulator(4, 2)
	feed(t, e, "\x1b[31mhi\x1b[?1049h\x1bc")
	if e.IsAltScreen() {
		t.Fatal("RIS left alt screen active")
	}
	if got := e.String(); got != "" {
		t.Fatalf("screen after RIS = %q", got)
	}
	cursorAt(t, e, 0, 0)
	if !e.scr.cur.Attrs.IsDefault() {
		t.Fatal("attrs survived RIS")
	}
}

func TestWriteExcludesLockedReaders(t *testing.T) {
	e := NewEmulator(20, 5)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 200 {
			_, _ = e.WriteString("line of output\r\n")
		}
	}()

	for range 200 {
		e.Lock()
		_ = e.String()
		_, _ = e.CursorPosition()
		e.Unlock()
	}
	<-done
}

func TestResizeConcurrentWithWrites(t *testing.T) {
	e := NewEmulator(20, 5)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 100 {
			_, _ = e.WriteString("some output that wraps around the margin\r\n")
		}
	}()

	for i := range 100 {
		e.Resize(10+i%20, 4+i%6)
	}
	<-done

	e.Lock()
	defer e.Unlock()
	if e.Width() < 1 || e.Height() < 1 {
		t.Fatalf("bad final size %dx%d", e.Width(), e.Height())
	}
}

func TestResizeKeepsTabStops(t *testing.T) {
	e := NewEmulator(20, 5)
	feed(t, e, "\x1b[3G\x1bH") // HTS at column 2
	e.Resize(40, 5)

	feed(t, e, "\r\t")
	cursorAt(t, e, 2, 0)
	feed(t, e, "\t\t\t\t")
	cursorAt(t, e, 32, 0)

	e.Resize(10, 5)
	feed(t, e, "\r\t")
	cursorAt(t, e, 2, 0)
}
