package fsm

import (
	"fmt"
	"math/bits"

	"github.com/oisee/hdlgen/pkg/dsl"
	"github.com/oisee/hdlgen/pkg/microcode"
)

const (
	stateFetch            = "fetch"
	stateStoreInstruction = "store_instruction"
	stateDecode           = "decode"

	// EntityName is the VHDL entity name every generated control FSM
	// carries, so the structural top's `control_unit` component
	// declaration binds to it regardless of the computer's own name.
	EntityName = "control_unit"
)

// Assemble runs dsl.Validate against c and, if it passes, builds the
// control-FSM IR: one instruction's microcode chain per user
// instruction, merged with the three fixed fetch/decode states,
// opcodes assigned by declaration order.
func Assemble(c dsl.Computer) (*FSM, error) {
	if errs := dsl.Validate(c); !errs.Empty() {
		return nil, errs.ErrOrNil()
	}

	opcodeWidth := opcodeBitWidth(len(c.Instructions))

	f := &FSM{
		Name:         EntityName,
		OpcodeLength: opcodeWidth,
		ResetTarget:  stateFetch,
	}

	fetch := NewState(stateFetch, "rd_pc", "wr_MA")
	fetch.Next = stateStoreInstruction

	storeInstruction := NewState(stateStoreInstruction, "rd_MD", "wr_IR", "inc_pc")
	storeInstruction.Next = stateDecode
	storeInstruction.CapturesOpcodeOnFall = true

	decode := NewState(stateDecode)

	f.States = append(f.States, fetch, storeInstruction, decode)

	for idx, instr := range c.Instructions {
		chain := lowerChain(instr)
		opcode := uint8(idx)
		guard := &Guard{OpcodeBinary: binaryString(opcode, opcodeWidth)}
		f.Transitions = append(f.Transitions, Transition{From: stateDecode, To: chain[0].Name, Guard: guard})
		f.States = append(f.States, chain...)
	}

	for _, st := range f.States {
		if st.HasConst {
			addConstant(f, st.Const)
		}
	}

	f.Transitions = orderTransitions(f)
	f.ControlSignals = deriveAlphabet(f.States)

	return f, nil
}

// lowerChain names and links one instruction's microcode states into
// the chain "<instr>_0, <instr>_1, ...", with the last state's Next
// set to "fetch". An instruction with zero moves synthesizes a single
// no-op cycle so its decode edge always has a target.
func lowerChain(instr dsl.Instruction) []*State {
	lowered := microcode.LowerInstruction(instr)
	if len(lowered) == 0 {
		lowered = []microcode.State{{}}
	}

	chain := make([]*State, len(lowered))
	for i, ms := range lowered {
		st := NewState(fmt.Sprintf("%s_%d", instr.Name, i), ms.Signals...)
		st.HasALUOp = ms.HasALUOp
		st.ALUOp = ms.ALUOp
		st.HasConst = ms.HasConst
		st.Const = ms.Const
		chain[i] = st
	}
	for i := 0; i < len(chain)-1; i++ {
		chain[i].Next = chain[i+1].Name
	}
	chain[len(chain)-1].Next = stateFetch
	return chain
}

func addConstant(f *FSM, v uint8) {
	for _, c := range f.Constants {
		if c.Value == v {
			return
		}
	}
	f.Constants = append(f.Constants, ConstantDef{Value: v, Name: fmt.Sprintf("CONSTANT_%d", v)})
}

// orderTransitions walks states in their assembled order, emitting
// each state's unconditional edge, and expands decode's guarded edges
// in instruction-declaration order at the point decode appears.
func orderTransitions(f *FSM) []Transition {
	var ordered []Transition
	for _, st := range f.States {
		if st.Name == stateDecode {
			for _, t := range f.Transitions {
				if t.From == stateDecode && t.Guard != nil {
					ordered = append(ordered, t)
				}
			}
			continue
		}
		if st.Next != "" {
			ordered = append(ordered, Transition{From: st.Name, To: st.Next})
		}
	}
	return ordered
}

// deriveAlphabet is the union of control signals asserted across all
// states, ordered by first mention.
func deriveAlphabet(states []*State) []string {
	var alphabet []string
	seen := map[string]bool{}
	for _, st := range states {
		for _, sig := range st.Signals {
			if !seen[sig] {
				seen[sig] = true
				alphabet = append(alphabet, sig)
			}
		}
	}
	return alphabet
}

func binaryString(v uint8, width int) string {
	s := fmt.Sprintf("%b", v)
	for len(s) < width {
		s = "0" + s
	}
	if len(s) > width {
		s = s[len(s)-width:]
	}
	return s
}

// opcodeBitWidth is ceil(log2 N), with the N=1 edge case pinned to
// width 1 rather than 0: a single instruction still needs an opcode
// bit to distinguish "decoded" from "not yet fetched".
func opcodeBitWidth(n int) int {
	if n <= 1 {
		return 1
	}
	return bits.Len(uint(n - 1))
}
