package parser

// The transition table follows the DEC ANSI-compatible automaton: for every
// (state, byte) pair it gives the action to run and the state to move to.
// Entries pack action and next state into one byte. An entry left unset
// resolves to "no action, back to Ground", so unknown input can never take
// the automaton somewhere undefined.

// keepState in the state nibble means "stay in the current state".
const keepState = 0x0f

func entry(a Action, s State) uint8 {
	return uint8(a)<<4 | uint8(s)
}

func stay(a Action) uint8 {
	return uint8(a)<<4 | keepState
}

var table [numStates][256]uint8

// entryActions run when a state is entered, exitActions when it is left.
var entryActions = [numStates]Action{
	StateEscape:         ActionClear,
	StateCsiEntry:       ActionClear,
	StateDcsEntry:       ActionClear,
	StateDcsPassthrough: ActionHook,
	StateOscString:      ActionOscStart,
}

var exitActions = [numStates]Action{
	StateDcsPassthrough: ActionUnhook,
	StateOscString:      ActionOscEnd,
}

func setRange(s State, lo, hi byte, v uint8) {
	for b := int(lo); b <= int(hi); b++ {
		table[s][b] = v
	}
}

func set(s State, b byte, v uint8) {
	table[s][b] = v
}

// setExecute marks the C0 range (minus the bytes the caller overrides
// afterwards) as immediate Execute in the given state.
func setExecute(s State) {
	setRange(s, 0x00, 0x17, stay(ActionExecute))
	set(s, 0x19, stay(ActionExecute))
	setRange(s, 0x1c, 0x1f, stay(ActionExecute))
}

func setIgnoreC0(s State) {
	setRange(s, 0x00, 0x17, stay(ActionIgnore))
	set(s, 0x19, stay(ActionIgnore))
	setRange(s, 0x1c, 0x1f, stay(ActionIgnore))
}

func init() {
	// Transitions valid in every state. These are applied first so each
	// state can refine them; CAN and SUB abort any sequence, ESC restarts
	// escape processing, and the 8-bit C1 controls act as their 7-bit
	// sequence equivalents.
	for s := State(0); s < numStates; s++ {
		set(s, 0x18, entry(ActionExecute, StateGround))
		set(s, 0x1a, entry(ActionExecute, StateGround))
		set(s, 0x1b, entry(ActionNone, StateEscape))
		setRange(s, 0x80, 0x8f, entry(ActionExecute, StateGround))
		set(s, 0x90, entry(ActionNone, StateDcsEntry))
		setRange(s, 0x91, 0x97, entry(ActionExecute, StateGround))
		set(s, 0x98, entry(ActionNone, StateSosPmApcString))
		set(s, 0x99, entry(ActionExecute, StateGround))
		set(s, 0x9a, entry(ActionExecute, StateGround))
		set(s, 0x9b, entry(ActionNone, StateCsiEntry))
		set(s, 0x9c, entry(ActionNone, StateGround))
		set(s, 0x9d, entry(ActionNone, StateOscString))
		set(s, 0x9e, entry(ActionNone, StateSosPmApcString))
		set(s, 0x9f, entry(ActionNone, StateSosPmApcString))
	}

	// Ground: printable bytes print, C0 executes. Bytes at or above 0xa0
	// start a UTF-8 sequence which the Parser assembles before the table
	// sees them again, so the table only needs the single-byte view.
	setExecute(StateGround)
	setRange(StateGround, 0x20, 0x7f, stay(ActionPrint))
	setRange(StateGround, 0xa0, 0xff, stay(ActionPrint))

	// Escape: awaiting an intermediate or final byte.
	setExecute(StateEscape)
	set(StateEscape, 0x7f, stay(ActionIgnore))
	setRange(StateEscape, 0x20, 0x2f, entry(ActionCollect, StateEscapeIntermediate))
	setRange(StateEscape, 0x30, 0x4f, entry(ActionEscDispatch, StateGround))
	set(StateEscape, 0x50, entry(ActionNone, StateDcsEntry))
	setRange(StateEscape, 0x51, 0x57, entry(ActionEscDispatch, StateGround))
	set(StateEscape, 0x58, entry(ActionNone, StateSosPmApcString))
	set(StateEscape, 0x59, entry(ActionEscDispatch, StateGround))
	set(StateEscape, 0x5a, entry(ActionEscDispatch, StateGround))
	set(StateEscape, 0x5b, entry(ActionNone, StateCsiEntry))
	set(StateEscape, 0x5c, entry(ActionEscDispatch, StateGround))
	set(StateEscape, 0x5d, entry(ActionNone, StateOscString))
	set(StateEscape, 0x5e, entry(ActionNone, StateSosPmApcString))
	set(StateEscape, 0x5f, entry(ActionNone, StateSosPmApcString))
	setRange(StateEscape, 0x60, 0x7e, entry(ActionEscDispatch, StateGround))

	setExecute(StateEscapeIntermediate)
	setRange(StateEscapeIntermediate, 0x20, 0x2f, stay(ActionCollect))
	setRange(StateEscapeIntermediate, 0x30, 0x7e, entry(ActionEscDispatch, StateGround))
	set(StateEscapeIntermediate, 0x7f, stay(ActionIgnore))

	// CSI: ESC [ params intermediates final.
	setExecute(StateCsiEntry)
	set(StateCsiEntry, 0x7f, stay(ActionIgnore))
	setRange(StateCsiEntry, 0x20, 0x2f, entry(ActionCollect, StateCsiIntermediate))
	setRange(StateCsiEntry, 0x30, 0x3b, entry(ActionParam, StateCsiParam))
	setRange(StateCsiEntry, 0x3c, 0x3f, entry(ActionCollect, StateCsiParam))
	setRange(StateCsiEntry, 0x40, 0x7e, entry(ActionCsiDispatch, StateGround))

	setExecute(StateCsiParam)
	setRange(StateCsiParam, 0x30, 0x3b, stay(ActionParam))
	set(StateCsiParam, 0x7f, stay(ActionIgnore))
	setRange(StateCsiParam, 0x3c, 0x3f, entry(ActionNone, StateCsiIgnore))
	setRange(StateCsiParam, 0x20, 0x2f, entry(ActionCollect, StateCsiIntermediate))
	setRange(StateCsiParam, 0x40, 0x7e, entry(ActionCsiDispatch, StateGround))

	setExecute(StateCsiIntermediate)
	setRange(StateCsiIntermediate, 0x20, 0x2f, stay(ActionCollect))
	setRange(StateCsiIntermediate, 0x30, 0x3f, entry(ActionNone, StateCsiIgnore))
	setRange(StateCsiIntermediate, 0x40, 0x7e, entry(ActionCsiDispatch, StateGround))
	set(StateCsiIntermediate, 0x7f, stay(ActionIgnore))

	setExecute(StateCsiIgnore)
	setRange(StateCsiIgnore, 0x20, 0x3f, stay(ActionIgnore))
	setRange(StateCsiIgnore, 0x40, 0x7e, entry(ActionNone, StateGround))
	set(StateCsiIgnore, 0x7f, stay(ActionIgnore))

	// DCS: same entry grammar as CSI, then raw payload until ST.
	setIgnoreC0(StateDcsEntry)
	set(StateDcsEntry, 0x7f, stay(ActionIgnore))
	setRange(StateDcsEntry, 0x20, 0x2f, entry(ActionCollect, StateDcsIntermediate))
	setRange(StateDcsEntry, 0x30, 0x3b, entry(ActionParam, StateDcsParam))
	setRange(StateDcsEntry, 0x3c, 0x3f, entry(ActionCollect, StateDcsParam))
	setRange(StateDcsEntry, 0x40, 0x7e, entry(ActionNone, StateDcsPassthrough))

	setIgnoreC0(StateDcsParam)
	setRange(StateDcsParam, 0x30, 0x3b, stay(ActionParam))
	set(StateDcsParam, 0x7f, stay(ActionIgnore))
	setRange(StateDcsParam, 0x3c, 0x3f, entry(ActionNone, StateDcsIgnore))
	setRange(StateDcsParam, 0x20, 0x2f, entry(ActionCollect, StateDcsIntermediate))
	setRange(StateDcsParam, 0x40, 0x7e, entry(ActionNone, StateDcsPassthrough))

	setIgnoreC0(StateDcsIntermediate)
	setRange(StateDcsIntermediate, 0x20, 0x2f, stay(ActionCollect))
	setRange(StateDcsIntermediate, 0x30, 0x3f, entry(ActionNone, StateDcsIgnore))
	setRange(StateDcsIntermediate, 0x40, 0x7e, entry(ActionNone, StateDcsPassthrough))
	set(StateDcsIntermediate, 0x7f, stay(ActionIgnore))

	setRange(StateDcsPassthrough, 0x00, 0x17, stay(ActionPut))
	set(StateDcsPassthrough, 0x19, stay(ActionPut))
	setRange(StateDcsPassthrough, 0x1c, 0x1f, stay(ActionPut))
	setRange(StateDcsPassthrough, 0x20, 0x7e, stay(ActionPut))
	set(StateDcsPassthrough, 0x7f, stay(ActionIgnore))

	setIgnoreC0(StateDcsIgnore)
	setRange(StateDcsIgnore, 0x20, 0x7f, stay(ActionIgnore))

	// OSC: payload until BEL or ST. High bytes are passed through so
	// UTF-8 titles and hyperlink URIs survive intact; only 0x9c keeps its
	// C1 meaning as the string terminator.
	setIgnoreC0(StateOscString)
	set(StateOscString, 0x07, entry(ActionNone, StateGround))
	setRange(StateOscString, 0x20, 0x7f, stay(ActionOscPut))
	setRange(StateOscString, 0x80, 0xff, stay(ActionOscPut))
	set(StateOscString, 0x9c, entry(ActionNone, StateGround))

	// SOS/PM/APC: swallowed wholesale.
	setIgnoreC0(StateSosPmApcString)
	setRange(StateSosPmApcString, 0x20, 0x7f, stay(ActionIgnore))
	setRange(StateSosPmApcString, 0xa0, 0xff, stay(ActionIgnore))
}

// lookup returns the action and next state for a byte in a state. The
// next state equals the current state when the entry says to stay put.
func lookup(s State, b byte) (Action, State) {
	v := table[s][b]
	if State(v&0x0f) == keepState {
		return actionOf(v), s
	}
	return actionOf(v), stateOf(v)
}
