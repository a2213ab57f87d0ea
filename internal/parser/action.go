package parser

// Action is the semantic classification the automaton assigns to a byte.
type Action uint8

// Automaton actions. ActionNone means the byte only changes state.
const (
	ActionNone Action = iota
	ActionIgnore
	ActionPrint
	ActionExecute
	ActionClear
	ActionCollect
	ActionParam
	ActionEscDispatch
	ActionCsiDispatch
	ActionHook
	ActionPut
	ActionUnhook
	ActionOscStart
	ActionOscPut
	ActionOscEnd

	numActions
)

var actionNames = [numActions]string{
	"None",
	"Ignore",
	"Print",
	"Execute",
	"Clear",
	"Collect",
	"Param",
	"EscDispatch",
	"CsiDispatch",
	"Hook",
	"Put",
	"Unhook",
	"OscStart",
	"OscPut",
	"OscEnd",
}

// String returns the action name for diagnostics.
func (a Action) String() string {
	if a < numActions {
		return actionNames[a]
	}
	return "Unknown"
}

// actionOf converts a raw table entry back into an Action, treating any
// out-of-range value as Ignore so a corrupt entry can never panic.
func actionOf(v uint8) Action {
	a := Action(v >> 4)
	if a >= numActions {
		return ActionIgnore
	}
	return a
}

// stateOf converts a raw table entry back into a State, treating any
// out-of-range value as Ground.
func stateOf(v uint8) State {
	s := State(v & 0x0f)
	if s >= numStates {
		return StateGround
	}
	return s
}
