// Package parser implements the escape-sequence automaton that classifies a
// raw terminal byte stream into ordered semantic actions.
//
// The automaton is table driven, streaming and resumable: Parse may be
// called with arbitrary chunk boundaries and a partially received sequence
// is retained until the next call. There is no error return anywhere;
// malformed input always resolves to a defined action, typically a silent
// ignore, because the byte stream comes from an untrusted child process
// and the emulator must never refuse it.
package parser

import (
	"unicode/utf8"
)

const (
	// maxParams bounds the number of CSI/DCS parameters retained.
	// Further parameters are parsed but dropped.
	maxParams = 32
	// maxParamValue is the saturation point for a numeric parameter.
	maxParamValue = 0xffff
	// maxIntermediates bounds collected intermediate bytes. Sequences
	// with more are ignored wholesale, matching DEC behavior.
	maxIntermediates = 2
	// maxOscBytes bounds an OSC payload. Longer payloads are truncated,
	// not rejected.
	maxOscBytes = 1024 * 1024
)

// Param is one numeric CSI or DCS parameter. Colon marks a subparameter
// attached to the previous slot with ':', which SGR 38/48/58 use for
// extended color arguments.
type Param struct {
	Value int
	Colon bool
}

// Performer receives the ordered action stream. Implementations must not
// retain the byte slices past the call.
type Performer interface {
	// Print places a single decoded character at the cursor.
	Print(r rune)
	// Execute runs a C0 or C1 control immediately.
	Execute(code byte)
	// EscDispatch handles a completed ESC sequence.
	EscDispatch(intermediates []byte, final byte)
	// CsiDispatch handles a completed CSI sequence.
	CsiDispatch(params []Param, intermediates []byte, final byte)
	// OscDispatch handles a completed OSC string. cmd is the leading
	// numeric selector, or -1 when the payload has none. data is the
	// whole payload including the selector.
	OscDispatch(cmd int, data []byte)
	// DcsHook begins a device control string.
	DcsHook(params []Param, intermediates []byte, final byte)
	// DcsPut streams one DCS payload byte.
	DcsPut(b byte)
	// DcsUnhook ends a device control string.
	DcsUnhook()
}

// Parser is the streaming automaton. The zero value is not usable; call
// New.
type Parser struct {
	state State

	params     []Param
	paramValue int
	paramColon bool
	// paramDigits is true once the current slot has seen a digit or a
	// separator committed it, so "CSI m" dispatches zero params while
	// "CSI 0 m" dispatches one.
	paramDigits bool

	intermediates  []byte
	tooManyInters  bool
	tooManyParams  bool
	ignoreSequence bool

	osc          []byte
	oscTruncated bool

	dcsFinal byte
	inDcs    bool

	// UTF-8 assembly for Ground prints.
	utf8Buf [utf8.UTFMax]byte
	utf8Len int
	utf8Exp int

	performer Performer
}

// New creates a parser delivering actions to the given performer.
func New(p Performer) *Parser {
	return &Parser{
		params:        make([]Param, 0, maxParams),
		intermediates: make([]byte, 0, maxIntermediates),
		osc:           make([]byte, 0, 256),
		performer:     p,
	}
}

// State returns the automaton's current state.
func (p *Parser) State() State {
	return p.state
}

// Reset forces the automaton back to Ground, discarding any partially
// received sequence. Callers use it when a stream is closed mid-sequence.
func (p *Parser) Reset() {
	if p.state == StateDcsPassthrough && p.inDcs {
		p.performer.DcsUnhook()
	}
	p.inDcs = false
	p.state = StateGround
	p.utf8Len = 0
	p.utf8Exp = 0
	p.clear()
}

// Parse processes every byte of data exactly once, emitting actions in
// input order. It never fails; see the package comment.
func (p *Parser) Parse(data []byte) {
	for _, b := range data {
		p.advance(b)
	}
}

func (p *Parser) advance(b byte) {
	// UTF-8 assembly happens before the table: continuation bytes of a
	// pending rune never reach the automaton.
	if p.utf8Exp > 0 && p.state == StateGround {
		p.advanceUTF8(b)
		return
	}
	if p.state == StateGround && b >= 0xa0 {
		switch {
		case b >= 0xc2 && b <= 0xf4:
			p.utf8Buf[0] = b
			p.utf8Len = 1
			switch {
			case b >= 0xf0:
				p.utf8Exp = 4
			case b >= 0xe0:
				p.utf8Exp = 3
			default:
				p.utf8Exp = 2
			}
		default:
			// Stray continuation or invalid lead byte.
			p.performer.Print(utf8.RuneError)
		}
		return
	}

	action, next := lookup(p.state, b)

	if next != p.state {
		p.perform(exitActions[p.state], b)
	}
	p.perform(action, b)
	if next != p.state {
		p.state = next
		p.perform(entryActions[next], b)
	}
}

func (p *Parser) advanceUTF8(b byte) {
	if b < 0x80 || b >= 0xc0 {
		// Not a continuation byte: the pending sequence was malformed.
		// Emit a replacement marker and reprocess the byte normally.
		p.utf8Len = 0
		p.utf8Exp = 0
		p.performer.Print(utf8.RuneError)
		p.advance(b)
		return
	}
	p.utf8Buf[p.utf8Len] = b
	p.utf8Len++
	if p.utf8Len < p.utf8Exp {
		return
	}
	r, _ := utf8.DecodeRune(p.utf8Buf[:p.utf8Len])
	p.utf8Len = 0
	p.utf8Exp = 0
	p.performer.Print(r)
}

func (p *Parser) perform(a Action, b byte) {
	switch a {
	case ActionNone:
	case ActionIgnore:
	case ActionPrint:
		p.performer.Print(rune(b))
	case ActionExecute:
		p.performer.Execute(b)
	case ActionClear:
		p.clear()
	case ActionCollect:
		if len(p.intermediates) >= maxIntermediates {
			p.tooManyInters = true
			return
		}
		p.intermediates = append(p.intermediates, b)
	case ActionParam:
		p.param(b)
	case ActionEscDispatch:
		if !p.ignoring() {
			p.performer.EscDispatch(p.intermediates, b)
		}
	case ActionCsiDispatch:
		p.finishParam()
		if !p.ignoring() {
			p.performer.CsiDispatch(p.params, p.intermediates, b)
		}
	case ActionHook:
		p.finishParam()
		p.dcsFinal = b
		p.inDcs = true
		if !p.ignoring() {
			p.performer.DcsHook(p.params, p.intermediates, b)
		}
	case ActionPut:
		if p.inDcs && !p.ignoring() {
			p.performer.DcsPut(b)
		}
	case ActionUnhook:
		if p.inDcs {
			p.inDcs = false
			if !p.ignoring() {
				p.performer.DcsUnhook()
			}
		}
	case ActionOscStart:
		p.osc = p.osc[:0]
		p.oscTruncated = false
	case ActionOscPut:
		if len(p.osc) >= maxOscBytes {
			p.oscTruncated = true
			return
		}
		p.osc = append(p.osc, b)
	case ActionOscEnd:
		p.dispatchOsc()
	}
}

func (p *Parser) clear() {
	p.params = p.params[:0]
	p.paramValue = 0
	p.paramColon = false
	p.paramDigits = false
	p.intermediates = p.intermediates[:0]
	p.tooManyInters = false
	p.tooManyParams = false
	p.ignoreSequence = false
}

func (p *Parser) ignoring() bool {
	return p.tooManyInters || p.ignoreSequence
}

func (p *Parser) param(b byte) {
	switch b {
	case ';', ':':
		p.pushParam()
		p.paramColon = b == ':'
	default: // '0'..'9'
		p.paramDigits = true
		v := p.paramValue*10 + int(b-'0')
		if v > maxParamValue {
			v = maxParamValue
		}
		p.paramValue = v
	}
}

// pushParam commits the slot under construction. A separator with no
// digits commits a defaulted zero so "1;;3" keeps three slots.
func (p *Parser) pushParam() {
	if len(p.params) >= maxParams {
		p.tooManyParams = true
	} else {
		p.params = append(p.params, Param{Value: p.paramValue, Colon: p.paramColon})
	}
	p.paramValue = 0
	p.paramDigits = true
}

// finishParam commits the trailing slot before a dispatch.
func (p *Parser) finishParam() {
	if p.paramDigits || p.paramColon {
		p.pushParam()
	}
}

func (p *Parser) dispatchOsc() {
	data := p.osc
	cmd := -1
	n := 0
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c < '0' || c > '9' {
			if c == ';' && i > 0 {
				cmd = n
			}
			break
		}
		n = n*10 + int(c-'0')
		if n > maxParamValue {
			n = maxParamValue
		}
		if i == len(data)-1 {
			// Selector with no payload, e.g. "OSC 104 ST".
			cmd = n
		}
	}
	p.performer.OscDispatch(cmd, data)
}
