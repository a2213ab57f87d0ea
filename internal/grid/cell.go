// Package grid implements the terminal screen model: cells, lines with a
// dual dense/clustered storage representation, the visible grid, the
// scrollback ring, and dirty-line tracking.
package grid

import (
	"image/color"

	"github.com/Gaurav-Gosain/vtcore/internal/hyperlink"
)

// UnderlineStyle selects the underline rendering for a cell.
type UnderlineStyle uint8

// Underline styles, matching SGR 4 and its colon subparameters.
const (
	UnderlineNone UnderlineStyle = iota
	UnderlineSingle
	UnderlineDouble
	UnderlineCurly
	UnderlineDotted
	UnderlineDashed
)

// Attrs is the attribute set applied to a printed cell. A nil color means
// the terminal default. Link points at a shared hyperlink record rather
// than copying it per cell.
type Attrs struct {
	Fg color.Color
	Bg color.Color
	Ul color.Color

	Bold          bool
	Faint         bool
	Italic        bool
	Blink         bool
	Reverse       bool
	Hidden        bool
	Strikethrough bool
	Underline     UnderlineStyle

	Link *hyperlink.Link
}

// Equal reports whether two attribute sets are identical. All colors used
// by the emulator are comparable concrete types, so interface equality is
// the right comparison.
func (a Attrs) Equal(b Attrs) bool {
	return a == b
}

// IsDefault reports whether the attributes are the zero set.
func (a Attrs) IsDefault() bool {
	return a == Attrs{}
}

// Cell is one grid position. Content holds the full grapheme cluster
// displayed in the cell (base character plus any combining marks); Width
// is the number of columns the cluster occupies. A Cell with empty
// Content and zero Width is the continuation placeholder that follows a
// double-width cell.
type Cell struct {
	Content string
	Width   uint8
	Attrs   Attrs
}

// Blank returns a single-width space cell carrying the given attributes.
func Blank(attrs Attrs) Cell {
	return Cell{Content: " ", Width: 1, Attrs: attrs}
}

// Placeholder returns the continuation cell stored after a double-width
// cell. It carries the owner's attributes so attribute runs stay
// contiguous.
func Placeholder(attrs Attrs) Cell {
	return Cell{Attrs: attrs}
}

// IsPlaceholder reports whether the cell is a wide-cell continuation.
func (c Cell) IsPlaceholder() bool {
	return c.Width == 0 && c.Content == ""
}

// IsBlank reports whether the cell shows a plain space with no attributes
// worth preserving beyond background.
func (c Cell) IsBlank() bool {
	return c.Content == " " || c.Content == ""
}
