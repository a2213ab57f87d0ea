package vt

import (
	"image/color"

	"github.com/Gaurav-Gosain/vtcore/internal/grid"
	"github.com/Gaurav-Gosain/vtcore/internal/parser"
)

// handleSgr accumulates SGR attribute changes into the cursor's pending
// attribute set. Both the legacy semicolon form (38;5;n, 38;2;r;g;b) and
// the colon subparameter form (38:5:n, 38:2::r:g:b) of extended colors
// are accepted.
func (e *Emulator) handleSgr(params []parser.Param) {
	attrs := &e.scr.cur.Attrs

	if len(params) == 0 {
		link := attrs.Link
		*attrs = grid.Attrs{Link: link}
		return
	}

	for i := 0; i < len(params); {
		p := params[i]

		// Colon subparameters attached to an unknown leader are consumed
		// with it.
		sub := subparams(params, i)
		if len(sub) > 0 {
			e.applySgrSub(attrs, p.Value, sub)
			i += 1 + len(sub)
			continue
		}

		switch v := p.Value; v {
		case 0:
			link := attrs.Link
			*attrs = grid.Attrs{Link: link}
		case 1:
			attrs.Bold = true
		case 2:
			attrs.Faint = true
		case 3:
			attrs.Italic = true
		case 4:
			attrs.Underline = grid.UnderlineSingle
		case 5, 6:
			attrs.Blink = true
		case 7:
			attrs.Reverse = true
		case 8:
			attrs.Hidden = true
		case 9:
			attrs.Strikethrough = true
		case 21:
			attrs.Underline = grid.UnderlineDouble
		case 22:
			attrs.Bold = false
			attrs.Faint = false
		case 23:
			attrs.Italic = false
		case 24:
			attrs.Underline = grid.UnderlineNone
		case 25:
			attrs.Blink = false
		case 27:
			attrs.Reverse = false
		case 28:
			attrs.Hidden = false
		case 29:
			attrs.Strikethrough = false
		case 38, 48, 58:
			c, used := readExtendedColor(e, params, i+1)
			switch v {
			case 38:
				attrs.Fg = c
			case 48:
				attrs.Bg = c
			case 58:
				attrs.Ul = c
			}
			i += used
		case 39:
			attrs.Fg = nil
		case 49:
			attrs.Bg = nil
		case 59:
			attrs.Ul = nil
		default:
			switch {
			case v >= 30 && v <= 37:
				attrs.Fg = e.IndexedColor(v - 30)
			case v >= 40 && v <= 47:
				attrs.Bg = e.IndexedColor(v - 40)
			case v >= 90 && v <= 97:
				attrs.Fg = e.IndexedColor(v - 90 + 8)
			case v >= 100 && v <= 107:
				attrs.Bg = e.IndexedColor(v - 100 + 8)
			default:
				e.logf("unhandled SGR parameter: %d", v)
			}
		}
		i++
	}
}

// applySgrSub handles a leader with colon subparameters, e.g. 4:3 for a
// curly underline or 38:2::r:g:b for a direct color.
func (e *Emulator) applySgrSub(attrs *grid.Attrs, leader int, sub []int) {
	switch leader {
	case 4:
		style := grid.UnderlineNone
		switch sub[0] {
		case 1:
			style = grid.UnderlineSingle
		case 2:
			style = grid.UnderlineDouble
		case 3:
			style = grid.UnderlineCurly
		case 4:
			style = grid.UnderlineDotted
		case 5:
			style = grid.UnderlineDashed
		}
		attrs.Underline = style
	case 38, 48, 58:
		c := colorFromSub(e, sub)
		switch leader {
		case 38:
			attrs.Fg = c
		case 48:
			attrs.Bg = c
		case 58:
			attrs.Ul = c
		}
	default:
		e.logf("unhandled SGR subparameters: %d:%v", leader, sub)
	}
}

// subparams collects the colon-attached values following slot i.
func subparams(params []parser.Param, i int) []int {
	var out []int
	for j := i + 1; j < len(params) && params[j].Colon; j++ {
		out = append(out, params[j].Value)
	}
	return out
}

// readExtendedColor reads the semicolon form of 38/48/58 arguments
// starting at slot i, returning the color and how many slots beyond the
// leader were consumed.
func readExtendedColor(e *Emulator, params []parser.Param, i int) (color.Color, int) {
	if i >= len(params) {
		return nil, 0
	}
	switch params[i].Value {
	case 5:
		if i+1 < len(params) {
			return e.IndexedColor(params[i+1].Value), 2
		}
		return nil, 1
	case 2:
		if i+3 < len(params) {
			return rgb(params[i+1].Value, params[i+2].Value, params[i+3].Value), 4
		}
		return nil, len(params) - i
	}
	return nil, 1
}

// colorFromSub reads the colon form: 5:n, 2:r:g:b or 2::r:g:b with a
// colorspace slot.
func colorFromSub(e *Emulator, sub []int) color.Color {
	if len(sub) == 0 {
		return nil
	}
	switch sub[0] {
	case 5:
		if len(sub) >= 2 {
			return e.IndexedColor(sub[1])
		}
	case 2:
		args := sub[1:]
		// A 4-value form carries a leading colorspace id.
		if len(args) >= 4 {
			args = args[1:]
		}
		if len(args) >= 3 {
			return rgb(args[0], args[1], args[2])
		}
	}
	return nil
}

func rgb(r, g, b int) color.Color {
	return color.RGBA{
		R: uint8(clamp(r, 0, 255)), //nolint:gosec // clamped
		G: uint8(clamp(g, 0, 255)), //nolint:gosec // clamped
		B: uint8(clamp(b, 0, 255)), //nolint:gosec // clamped
		A: 0xff,
	}
}
