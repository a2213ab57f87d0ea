package vt

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"strconv"

	"github.com/charmbracelet/x/ansi"

	"github.com/Gaurav-Gosain/vtcore/internal/hyperlink"
)

// OscDispatch handles a completed OSC string. data is the whole payload
// including the numeric selector.
func (e *Emulator) OscDispatch(cmd int, data []byte) {
	switch cmd {
	case 0, 1, 2:
		e.handleTitle(cmd, data)
	case 4:
		e.handlePalette(data)
	case 104:
		e.handlePaletteReset(data)
	case 7:
		e.handleWorkingDirectory(cmd, data)
	case 8:
		e.handleHyperlink(cmd, data)
	case 10, 11, 12, 110, 111, 112:
		e.handleDefaultColor(cmd, data)
	case 52:
		e.handleClipboard(data)
	case 133:
		e.handleSemanticZone(data)
	default:
		if e.cb.Osc != nil && e.cb.Osc(cmd, data) {
			return
		}
		e.logf("unhandled sequence: OSC %q", data)
	}
}

func (e *Emulator) handleTitle(cmd int, data []byte) {
	parts := bytes.SplitN(data, []byte{';'}, 2)
	if len(parts) != 2 {
		// Invalid, ignore
		return
	}
	name := string(parts[1])
	switch cmd {
	case 0: // Set window title and icon name
		e.iconName, e.title = name, name
		if e.cb.Title != nil {
			e.cb.Title(name)
		}
		if e.cb.IconName != nil {
			e.cb.IconName(name)
		}
	case 1: // Set icon name
		e.iconName = name
		if e.cb.IconName != nil {
			e.cb.IconName(name)
		}
	case 2: // Set window title
		e.title = name
		if e.cb.Title != nil {
			e.cb.Title(name)
		}
	}
}

// handlePalette handles OSC 4: set or query indexed palette colors. The
// payload is pairs of "index;spec", a spec of "?" querying instead.
func (e *Emulator) handlePalette(data []byte) {
	parts := bytes.Split(data, []byte{';'})
	for i := 1; i+1 < len(parts); i += 2 {
		idx, err := strconv.Atoi(string(parts[i]))
		if err != nil || idx < 0 || idx > 255 {
			continue
		}
		spec := string(parts[i+1])
		if spec == "?" {
			c := e.IndexedColor(idx)
			if c != nil {
				xrgb := ansi.XRGBColor{Color: c}
				e.reply(fmt.Sprintf("\x1b]4;%d;%s\x07", idx, xrgb.String()))
			}
			continue
		}
		if c := ansi.XParseColor(spec); c != nil {
			e.SetIndexedColor(idx, c)
		}
	}
}

// handlePaletteReset handles OSC 104: reset the listed palette indices,
// or the whole palette when none are given.
func (e *Emulator) handlePaletteReset(data []byte) {
	parts := bytes.Split(data, []byte{';'})
	if len(parts) == 1 {
		e.colors = [256]color.Color{}
		return
	}
	for _, p := range parts[1:] {
		if idx, err := strconv.Atoi(string(p)); err == nil {
			e.SetIndexedColor(idx, nil)
		}
	}
}

func (e *Emulator) handleDefaultColor(cmd int, data []byte) {
	parts := bytes.Split(data, []byte{';'})
	if len(parts) == 0 {
		// Invalid, ignore
		return
	}

	cb := func(c color.Color) {
		switch cmd {
		case 10, 110: // Foreground color
			e.SetForegroundColor(c)
		case 11, 111: // Background color
			e.SetBackgroundColor(c)
		case 12, 112: // Cursor color
			e.SetCursorColor(c)
		}
	}

	switch len(parts) {
	case 1: // Reset color
		cb(nil)
	case 2: // Set/Query color
		arg := string(parts[1])
		if arg == "?" {
			var xrgb ansi.XRGBColor
			switch cmd {
			case 10: // Query foreground color
				xrgb.Color = e.ForegroundColor()
				if xrgb.Color != nil {
					e.reply(ansi.SetForegroundColor(xrgb.String()))
				}
			case 11: // Query background color
				xrgb.Color = e.BackgroundColor()
				if xrgb.Color != nil {
					e.reply(ansi.SetBackgroundColor(xrgb.String()))
				}
			case 12: // Query cursor color
				xrgb.Color = e.CursorColor()
				if xrgb.Color != nil {
					e.reply(ansi.SetCursorColor(xrgb.String()))
				}
			}
		} else if c := ansi.XParseColor(arg); c != nil {
			cb(c)
		}
	}
}

func (e *Emulator) handleWorkingDirectory(cmd int, data []byte) {
	parts := bytes.SplitN(data, []byte{';'}, 2)
	if len(parts) != 2 {
		// Invalid, ignore
		return
	}

	path := string(parts[1])
	e.cwd = path

	if e.cb.WorkingDirectory != nil {
		e.cb.WorkingDirectory(path)
	}
}

// handleHyperlink handles OSC 8: open or close a hyperlink span. The
// link is shared by reference across every cell printed while it is
// open.
func (e *Emulator) handleHyperlink(cmd int, data []byte) {
	parts := bytes.SplitN(data, []byte{';'}, 3)
	if len(parts) != 3 {
		// Invalid, ignore
		return
	}

	uri := string(parts[2])
	if uri == "" {
		e.scr.cur.Attrs.Link = nil
		return
	}
	e.scr.cur.Attrs.Link = hyperlink.New(uri, hyperlink.ParseParams(string(parts[1])))
}

// handleClipboard handles OSC 52 subject to the local allow/deny policy.
// The payload is "52;<selection>;<base64 text or ?>".
func (e *Emulator) handleClipboard(data []byte) {
	parts := bytes.SplitN(data, []byte{';'}, 3)
	if len(parts) != 3 {
		return
	}
	sel := byte('c')
	if len(parts[1]) > 0 {
		sel = parts[1][0]
	}

	if string(parts[2]) == "?" {
		if !e.allowClipboardRead || e.cb.GetClipboard == nil {
			return
		}
		text := e.cb.GetClipboard(sel)
		enc := base64.StdEncoding.EncodeToString([]byte(text))
		e.reply(fmt.Sprintf("\x1b]52;%c;%s\x07", sel, enc))
		return
	}

	if !e.allowClipboardWrite || e.cb.SetClipboard == nil {
		return
	}
	text, err := base64.StdEncoding.DecodeString(string(parts[2]))
	if err != nil {
		return
	}
	e.cb.SetClipboard(sel, string(text))
}

func (e *Emulator) handleSemanticZone(data []byte) {
	// OSC 133 format: "133;<subcommand>[;params]"
	parts := bytes.Split(data, []byte{';'})
	if len(parts) < 2 || len(parts[1]) == 0 {
		return
	}

	subCmd := parts[1][0] // 'A', 'B', 'C', or 'D'
	switch subCmd {
	case 'A', 'B', 'C', 'D':
		// valid
	default:
		return
	}

	g := e.scr.grid
	stable := g.StableOfPhysical(e.scr.cur.Y)

	exitCode := -1
	if subCmd == 'D' && len(parts) >= 3 && len(parts[2]) > 0 {
		code := 0
		for _, b := range parts[2] {
			if b >= '0' && b <= '9' {
				code = code*10 + int(b-'0')
			}
		}
		exitCode = code
	}

	e.markers.Add(SemanticMarker{
		Type:     SemanticMarkerType(subCmd),
		Stable:   stable,
		Col:      e.scr.cur.X,
		ExitCode: exitCode,
	})
}
