// Package fsm is the state-machine intermediate representation for the
// control unit: inputs/outputs/signals, per-state control-signal
// assignments, guarded transitions, and the reset block. Assemble
// builds this IR from a dsl.Computer; lower.go translates it into
// vhdl.Entity/vhdl.Architecture.
package fsm

import "github.com/oisee/hdlgen/pkg/dsl"

// State is one control-FSM state: the control signals it asserts, an
// optional ALU opcode and bus constant, and (for all but the terminal
// decode state) the unconditional state it transitions to.
type State struct {
	Name    string
	Signals []string // insertion-ordered, de-duplicated; the asserted subset
	signalSet map[string]bool

	HasALUOp bool
	ALUOp    dsl.ALUOp
	HasConst bool
	Const    uint8
	Next     string // empty only for the decode state

	CapturesOpcodeOnFall bool // true only for store_instruction
}

// NewState builds a State asserting the given signals, in order.
func NewState(name string, signals ...string) *State {
	st := &State{Name: name}
	for _, s := range signals {
		st.assert(s)
	}
	return st
}

func (st *State) assert(signal string) {
	if st.signalSet == nil {
		st.signalSet = map[string]bool{}
	}
	if !st.signalSet[signal] {
		st.signalSet[signal] = true
		st.Signals = append(st.Signals, signal)
	}
}

// Asserts reports whether the state asserts the given control signal.
func (st *State) Asserts(signal string) bool {
	return st.signalSet[signal]
}

// Guard is a decode-edge condition: `opcode = <binary literal>`.
type Guard struct {
	OpcodeBinary string
}

// Transition is one edge of the control FSM. Guard is nil for the
// unconditional edges every non-decode state carries.
type Transition struct {
	From  string
	To    string
	Guard *Guard
}

// ConstantDef is one CONSTANT_<n> declaration backing a bus-constant
// value referenced by some state.
type ConstantDef struct {
	Value uint8
	Name  string
}

// FSM is the fully-assembled control-unit state machine: the fixed
// fetch/store_instruction/decode states merged with every
// instruction's microcode chain, opcodes assigned, and the full
// control-signal alphabet derived.
type FSM struct {
	Name           string
	ControlSignals []string // alphabet, in order of first mention
	OpcodeLength   int
	Constants      []ConstantDef
	States         []*State // insertion order: fetch, store_instruction, decode, then instruction chains
	ResetTarget    string
	Transitions    []Transition
}
