// Package scrollback segments terminal history into command-output
// blocks using the OSC 133 semantic markers captured by the emulator,
// and extracts actionable references from block output.
package scrollback

import (
	"strings"

	"github.com/Gaurav-Gosain/vtcore/internal/grid"
	"github.com/Gaurav-Gosain/vtcore/internal/vt"
)

// CommandBlock is one command and its output reconstructed from
// history. Start and End are stable row indices, so a block stays valid
// as its rows move from the screen into scrollback.
type CommandBlock struct {
	Command  string
	Output   string
	ExitCode int // -1 if unknown
	Start    int64
	End      int64
}

// ParseBlocks segments the emulator's history into command blocks,
// newest first. Marker sequence per command: A (prompt start), B
// (command input start), C (output start), D (finished, exit code).
func ParseBlocks(emu *vt.Emulator) []CommandBlock {
	if emu == nil {
		return nil
	}

	markers := emu.SemanticMarkers().Markers()
	if len(markers) == 0 {
		return nil
	}

	g := emu.MainGrid()
	var blocks []CommandBlock

	for i := range markers {
		m := markers[i]
		if m.Type != vt.MarkerPromptStart {
			continue
		}

		var bm, cm, dm *vt.SemanticMarker
		var nextPrompt int64 = -1
	scan:
		for j := i + 1; j < len(markers); j++ {
			switch markers[j].Type {
			case vt.MarkerCommandStart:
				if bm == nil {
					bm = &markers[j]
				}
			case vt.MarkerCommandExecuted:
				if cm == nil {
					cm = &markers[j]
				}
			case vt.MarkerCommandFinished:
				if dm == nil {
					dm = &markers[j]
				}
			case vt.MarkerPromptStart:
				nextPrompt = markers[j].Stable
				break scan
			}
		}

		if bm == nil {
			continue
		}
		// Without C or D this is an unexecuted prompt, typically the
		// current input line. Its text is not stable enough to read.
		if cm == nil && dm == nil {
			continue
		}

		cmdEnd := commandEnd(bm, cm, dm)
		command := strings.TrimSpace(textFromCol(g, bm.Stable, bm.Col))
		for s := bm.Stable + 1; s < cmdEnd; s++ {
			command += "\n" + rowText(g, s)
		}
		command = strings.TrimSpace(command)
		if command == "" {
			continue
		}

		var output string
		end := bm.Stable
		if cm != nil {
			outEnd := g.StableTop() + int64(g.Rows()) - 1
			if dm != nil {
				outEnd = dm.Stable - 1
			}
			// A clear (CSI 2J) resets the cursor to the top of the
			// screen, so the next prompt can sit above this command's D
			// marker. Cap at the next prompt either way.
			if nextPrompt >= 0 && outEnd >= nextPrompt {
				outEnd = nextPrompt - 1
			}
			var rows []string
			for s := cm.Stable; s <= outEnd; s++ {
				rows = append(rows, rowText(g, s))
			}
			output = strings.TrimRight(strings.Join(rows, "\n"), "\n ")
			end = max(outEnd, bm.Stable)
		}
		if dm != nil {
			end = dm.Stable
		}

		exitCode := -1
		if dm != nil {
			exitCode = dm.ExitCode
		}

		blocks = append(blocks, CommandBlock{
			Command:  command,
			Output:   output,
			ExitCode: exitCode,
			Start:    m.Stable,
			End:      end,
		})
	}

	// Newest first.
	for i, j := 0, len(blocks)-1; i < j; i, j = i+1, j-1 {
		blocks[i], blocks[j] = blocks[j], blocks[i]
	}
	return blocks
}

// commandEnd returns the first stable row past the command text.
func commandEnd(b, c, d *vt.SemanticMarker) int64 {
	if c != nil {
		return c.Stable
	}
	if d != nil {
		return d.Stable
	}
	return b.Stable + 1
}

func rowText(g *grid.Grid, s int64) string {
	l := g.LineByStable(s)
	if l == nil {
		return ""
	}
	return l.String()
}

// textFromCol returns a row's text starting at the given column.
func textFromCol(g *grid.Grid, s int64, col int) string {
	l := g.LineByStable(s)
	if l == nil {
		return ""
	}
	var sb strings.Builder
	l.Each(func(x int, c grid.Cell) bool {
		if x < col {
			return true
		}
		sb.WriteString(c.Content)
		return true
	})
	return strings.TrimRight(sb.String(), " ")
}
