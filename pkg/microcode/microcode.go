// Package microcode lowers a single dsl.Instruction into an ordered
// sequence of State records: one state per clock cycle the
// instruction needs, each carrying the control signals it asserts.
// Naming states and stitching them into the control FSM is the
// responsibility of pkg/fsm; this package's lowering is a pure
// function from RTL moves to micro-states.
package microcode

import "github.com/oisee/hdlgen/pkg/dsl"

// State is one micro-cycle: the control signals asserted, an optional
// ALU opcode, and an optional constant driven onto the bus. Lowering
// leaves Name and Next empty; pkg/fsm names and links its own fsm.State
// values built from these records and does not fill them in here.
type State struct {
	Name     string
	Signals  []string // insertion-ordered, de-duplicated control signals
	HasALUOp bool
	ALUOp    dsl.ALUOp
	HasConst bool
	Const    uint8
	Next     string // left empty by lowering
}

func wrSignal(r dsl.Register) string { return "wr_" + string(r) }
func rdSignal(r dsl.Register) string { return "rd_" + string(r) }

// LowerInstruction translates every Move in instr into its micro-state
// sequence, in order. It performs no naming or cross-instruction
// bookkeeping.
func LowerInstruction(instr dsl.Instruction) []State {
	var states []State
	for _, mv := range instr.Moves {
		states = append(states, LowerMove(mv)...)
	}
	return states
}

// LowerMove translates one RTL move into its constituent micro-states.
func LowerMove(mv dsl.Move) []State {
	switch {
	case mv.Source.IsConstant():
		return []State{{
			Signals:  []string{wrSignal(mv.Target)},
			HasConst: true,
			Const:    uint8(mv.Source.Constant()),
		}}
	case mv.Source.IsRegister():
		return []State{{
			Signals: []string{wrSignal(mv.Target), rdSignal(mv.Source.Register())},
		}}
	case mv.Source.IsALU():
		return lowerALU(mv.Target, mv.Source.ALU())
	default:
		panic("microcode: move source has no recognized kind")
	}
}

// lowerALU is the three-step ALU lowering: load the A input (and, for
// binary ops, the B input), then latch the result. When an operand is
// a constant it drives the bus directly instead of a meaningless
// rd_<const> control signal.
func lowerALU(target dsl.Register, op dsl.ALUOperation) []State {
	var states []State

	a := op.Operands[0]
	loadA := State{HasALUOp: true, ALUOp: op.Op}
	if a.IsRegister() {
		loadA.Signals = []string{rdSignal(a.Register()), wrSignal(dsl.RegALUA)}
	} else {
		loadA.Signals = []string{wrSignal(dsl.RegALUA)}
		loadA.HasConst = true
		loadA.Const = uint8(a.Constant())
	}
	states = append(states, loadA)

	if len(op.Operands) == 2 {
		b := op.Operands[1]
		loadB := State{}
		if b.IsRegister() {
			loadB.Signals = []string{wrSignal(dsl.RegALUB), rdSignal(b.Register())}
		} else {
			loadB.Signals = []string{wrSignal(dsl.RegALUB)}
			loadB.HasConst = true
			loadB.Const = uint8(b.Constant())
		}
		states = append(states, loadB)
	}

	latch := State{
		Signals:  []string{rdSignal(dsl.RegALU), wrSignal(target)},
		HasALUOp: true,
		ALUOp:    op.Op,
	}
	states = append(states, latch)

	return states
}
