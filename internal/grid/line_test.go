package grid

import (
	"image/color"
	"testing"

	"github.com/Gaurav-Gosain/vtcore/internal/hyperlink"
)

func collectCells(l *Line) []Cell {
	var out []Cell
	l.Each(func(_ int, c Cell) bool {
		out = append(out, c)
		return true
	})
	return out
}

func writeString(l *Line, col int, s string, attrs Attrs) int {
	for _, r := range s {
		l.SetCell(col, Cell{Content: string(r), Width: 1, Attrs: attrs})
		col++
	}
	return col
}

func TestDenseClusteredRoundTrip(t *testing.T) {
	red := Attrs{Fg: color.RGBA{R: 255, A: 255}, Bold: true}
	link := hyperlink.New("https://example.com", map[string]string{"id": "7"})
	linked := Attrs{Link: link, Underline: UnderlineSingle}

	l := NewLine(12)
	col := writeString(l, 0, "ab", Attrs{})
	col = writeString(l, col, "cd", red)
	l.SetCell(col, Cell{Content: "漢", Width: 2, Attrs: red})
	col += 2
	writeString(l, col, "xy", linked)

	before := collectCells(l)

	l.Compact()
	if !l.IsCompact() {
		t.Fatal("line did not compact")
	}
	afterCompact := collectCells(l)

	l.expand()
	if l.IsCompact() {
		t.Fatal("line did not expand")
	}
	afterExpand := collectCells(l)

	for name, after := range map[string][]Cell{"clustered": afterCompact, "round trip": afterExpand} {
		if len(after) != len(before) {
			t.Fatalf("%s: %d visible cells, want %d", name, len(after), len(before))
		}
		for i := range before {
			if before[i].Content != after[i].Content {
				t.Errorf("%s: cell %d content %q, want %q", name, i, after[i].Content, before[i].Content)
			}
			if before[i].Width != after[i].Width {
				t.Errorf("%s: cell %d width %d, want %d", name, i, after[i].Width, before[i].Width)
			}
			if !before[i].Attrs.Equal(after[i].Attrs) {
				t.Errorf("%s: cell %d attrs differ", name, i)
			}
		}
	}

	// The placeholder after the wide cell must reappear.
	if got := l.CellAt(7); !got.IsPlaceholder() {
		t.Errorf("cell 7 = %+v, want placeholder", got)
	}
	if got := l.CellAt(6); got.Content != "漢" || got.Width != 2 {
		t.Errorf("cell 6 = %+v, want wide 漢", got)
	}
}

func TestCompactLineAnswersWithoutExpanding(t *testing.T) {
	l := NewLine(8)
	writeString(l, 0, "hi", Attrs{Italic: true})
	l.Compact()

	if got := l.CellAt(1); got.Content != "i" || !got.Attrs.Italic {
		t.Errorf("CellAt(1) = %+v", got)
	}
	if !l.IsCompact() {
		t.Error("CellAt must not expand a compact line")
	}
	if got := l.String(); got != "hi" {
		t.Errorf("String() = %q", got)
	}
}

func TestSetCellMaintainsWidePairInvariant(t *testing.T) {
	l := NewLine(6)
	l.SetCell(2, Cell{Content: "字", Width: 2})

	if !l.CellAt(3).IsPlaceholder() {
		t.Fatal("wide cell did not install its placeholder")
	}

	// Overwriting the placeholder half blanks the owner.
	l.SetCell(3, Cell{Content: "x", Width: 1})
	if got := l.CellAt(2); got.Content != " " {
		t.Errorf("owner after splitting pair = %+v, want blank", got)
	}

	// Overwriting the owner half blanks the placeholder.
	l.SetCell(2, Cell{Content: "字", Width: 2})
	l.SetCell(2, Cell{Content: "y", Width: 1})
	if got := l.CellAt(3); got.Content != " " {
		t.Errorf("placeholder after overwriting owner = %+v, want blank", got)
	}
}

func TestSetCellWideAtLastColumn(t *testing.T) {
	l := NewLine(4)
	l.SetCell(3, Cell{Content: "字", Width: 2})
	if got := l.CellAt(3); got.Content != " " || got.Width != 1 {
		t.Errorf("wide write at last column = %+v, want blank", got)
	}
}

func TestAppendToCell(t *testing.T) {
	l := NewLine(4)
	l.SetCell(0, Cell{Content: "e", Width: 1})
	l.AppendToCell(0, 0x0301) // combining acute
	if got := l.CellAt(0).Content; got != "é" {
		t.Errorf("cluster = %q, want %q", got, "é")
	}
}

func TestLineResizeThroughWidePair(t *testing.T) {
	l := NewLine(6)
	l.SetCell(3, Cell{Content: "字", Width: 2})
	l.Resize(4)
	if got := l.CellAt(3); got.Content != " " {
		t.Errorf("truncating through a wide pair left %+v", got)
	}
	l.Resize(8)
	if l.Cols() != 8 {
		t.Errorf("cols = %d, want 8", l.Cols())
	}
	if got := l.CellAt(7); got.Content != " " {
		t.Errorf("grown cell = %+v, want blank", got)
	}
}

func TestLinksScan(t *testing.T) {
	link := hyperlink.New("https://example.com", nil)
	l := NewLine(8)
	writeString(l, 0, "ab", Attrs{Link: link})

	if got := l.Links(); got != nil {
		t.Fatalf("Links without flag = %v, want nil", got)
	}
	l.SetFlag(FlagHasHyperlink)
	got := l.Links()
	if len(got) != 1 || got[0] != link {
		t.Fatalf("Links = %v, want the one shared link", got)
	}
}
