package vt

// CharSet identifies a designated character set.
type CharSet uint8

const (
	// CharSetASCII is the default US-ASCII set.
	CharSetASCII CharSet = iota
	// CharSetDECSpecial is the DEC special graphics set used for line
	// drawing.
	CharSetDECSpecial
)

// decSpecial maps ASCII to the DEC special graphics glyphs.
var decSpecial = map[rune]rune{
	'`': '◆', 'a': '▒', 'b': '␉', 'c': '␌', 'd': '␍',
	'e': '␊', 'f': '°', 'g': '±', 'h': '␤', 'i': '␋',
	'j': '┘', 'k': '┐', 'l': '┌', 'm': '└', 'n': '┼',
	'o': '⎺', 'p': '⎻', 'q': '─', 'r': '⎼', 's': '⎽',
	't': '├', 'u': '┤', 'v': '┴', 'w': '┬', 'x': '│',
	'y': '≤', 'z': '≥', '{': 'π', '|': '≠', '}': '£',
	'~': '·',
}

func (cs CharSet) mapRune(r rune) rune {
	if cs == CharSetDECSpecial {
		if m, ok := decSpecial[r]; ok {
			return m
		}
	}
	return r
}

// charSetFor resolves an ESC ( / ESC ) designation final byte.
func charSetFor(final byte) CharSet {
	if final == '0' {
		return CharSetDECSpecial
	}
	return CharSetASCII
}
