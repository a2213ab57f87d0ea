package parser

// State is one state of the escape-sequence automaton.
type State uint8

// Automaton states. The zero value is Ground so a fresh Parser starts in
// the right place.
const (
	StateGround State = iota
	StateEscape
	StateEscapeIntermediate
	StateCsiEntry
	StateCsiParam
	StateCsiIntermediate
	StateCsiIgnore
	StateDcsEntry
	StateDcsParam
	StateDcsIntermediate
	StateDcsPassthrough
	StateDcsIgnore
	StateOscString
	StateSosPmApcString

	numStates
)

var stateNames = [numStates]string{
	"Ground",
	"Escape",
	"EscapeIntermediate",
	"CsiEntry",
	"CsiParam",
	"CsiIntermediate",
	"CsiIgnore",
	"DcsEntry",
	"DcsParam",
	"DcsIntermediate",
	"DcsPassthrough",
	"DcsIgnore",
	"OscString",
	"SosPmApcString",
}

// String returns the state name for diagnostics.
func (s State) String() string {
	if s < numStates {
		return stateNames[s]
	}
	return "Unknown"
}
