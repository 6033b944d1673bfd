package fsm

import (
	"testing"

	"github.com/oisee/hdlgen/pkg/dsl"
	"github.com/stretchr/testify/require"
)

func oneInstructionComputer() dsl.Computer {
	instr := dsl.NewInstruction("nop").Build()
	return dsl.NewComputer("tiny").AddInstruction(instr).Build()
}

func twoInstructionComputer() dsl.Computer {
	a := dsl.NewInstruction("inst_a").Move(dsl.RegA, dsl.ConstSource(1)).Build()
	b := dsl.NewInstruction("inst_b").Move(dsl.RegA, dsl.RegSource(dsl.RegPC)).Build()
	return dsl.NewComputer("two").AddInstruction(a).AddInstruction(b).Build()
}

// TestAssembleSingleInstructionOpcodeWidth checks that a single
// instruction still gets a one-bit opcode rather than zero bits.
func TestAssembleSingleInstructionOpcodeWidth(t *testing.T) {
	f, err := Assemble(oneInstructionComputer())
	require.NoError(t, err)
	require.Equal(t, 1, f.OpcodeLength)

	var guard *Guard
	for _, tr := range f.Transitions {
		if tr.From == stateDecode {
			guard = tr.Guard
		}
	}
	require.NotNil(t, guard)
	require.Equal(t, "0", guard.OpcodeBinary)
}

// TestAssembleZeroMoveInstructionSynthesizesNoOp pins the chosen
// policy for a moveless instruction: it gets one synthetic cycle
// instead of being rejected, so its decode edge always has a target.
func TestAssembleZeroMoveInstructionSynthesizesNoOp(t *testing.T) {
	f, err := Assemble(oneInstructionComputer())
	require.NoError(t, err)

	var found bool
	for _, st := range f.States {
		if st.Name == "nop_0" {
			found = true
			require.Equal(t, "fetch", st.Next)
		}
	}
	require.True(t, found, "expected a synthesized nop_0 state")
}

// TestAssembleDecodeGuards checks that decode gets one opcode-guarded
// edge per instruction, in declaration order.
func TestAssembleDecodeGuards(t *testing.T) {
	f, err := Assemble(twoInstructionComputer())
	require.NoError(t, err)

	var guards []Transition
	for _, tr := range f.Transitions {
		if tr.From == stateDecode {
			guards = append(guards, tr)
		}
	}
	require.Len(t, guards, 2)
	require.Equal(t, "0", guards[0].Guard.OpcodeBinary)
	require.Equal(t, "inst_a_0", guards[0].To)
	require.Equal(t, "1", guards[1].Guard.OpcodeBinary)
	require.Equal(t, "inst_b_0", guards[1].To)
}

// TestFixedStatesShape checks fetch/store_instruction/decode signals
// and the inc_pc assertion store_instruction carries.
func TestFixedStatesShape(t *testing.T) {
	f, err := Assemble(twoInstructionComputer())
	require.NoError(t, err)

	byName := map[string]*State{}
	for _, st := range f.States {
		byName[st.Name] = st
	}

	require.True(t, byName["fetch"].Asserts("rd_pc"))
	require.True(t, byName["fetch"].Asserts("wr_MA"))
	require.Equal(t, "store_instruction", byName["fetch"].Next)

	si := byName["store_instruction"]
	require.True(t, si.Asserts("rd_MD"))
	require.True(t, si.Asserts("wr_IR"))
	require.True(t, si.Asserts("inc_pc"))
	require.True(t, si.CapturesOpcodeOnFall)
	require.Equal(t, "decode", si.Next)

	require.Equal(t, "", byName["decode"].Next)
}

// TestEveryNonDecodeStateHasNext checks that every state but decode
// has a populated unconditional Next.
func TestEveryNonDecodeStateHasNext(t *testing.T) {
	f, err := Assemble(twoInstructionComputer())
	require.NoError(t, err)

	for _, st := range f.States {
		if st.Name == "decode" {
			continue
		}
		require.NotEmpty(t, st.Next, "state %s has no next", st.Name)
	}
}

// TestLastChainStateReturnsToFetch checks that an instruction's last
// microcode state always returns to fetch.
func TestLastChainStateReturnsToFetch(t *testing.T) {
	f, err := Assemble(twoInstructionComputer())
	require.NoError(t, err)

	byName := map[string]*State{}
	for _, st := range f.States {
		byName[st.Name] = st
	}
	require.Equal(t, "fetch", byName["inst_a_0"].Next)
	require.Equal(t, "fetch", byName["inst_b_0"].Next)
}

// TestOpcodeWidthForFourInstructions checks ceil(log2 4) = 2 bits and
// that the four opcodes are assigned in declaration order.
func TestOpcodeWidthForFourInstructions(t *testing.T) {
	var instrs []dsl.Instruction
	for i := 0; i < 4; i++ {
		instrs = append(instrs, dsl.NewInstruction(string(rune('a'+i))).Move(dsl.RegA, dsl.ConstSource(i)).Build())
	}
	b := dsl.NewComputer("four")
	for _, in := range instrs {
		b = b.AddInstruction(in)
	}
	f, err := Assemble(b.Build())
	require.NoError(t, err)
	require.Equal(t, 2, f.OpcodeLength)

	var opcodes []string
	for _, tr := range f.Transitions {
		if tr.From == stateDecode {
			opcodes = append(opcodes, tr.Guard.OpcodeBinary)
		}
	}
	require.Equal(t, []string{"00", "01", "10", "11"}, opcodes)
}

// TestControlSignalAlphabetMatchesAssertions checks that the derived
// alphabet is exactly the set of signals asserted somewhere in the FSM.
func TestControlSignalAlphabetMatchesAssertions(t *testing.T) {
	f, err := Assemble(twoInstructionComputer())
	require.NoError(t, err)

	asserted := map[string]bool{}
	for _, st := range f.States {
		for _, sig := range st.Signals {
			asserted[sig] = true
		}
	}
	require.Len(t, f.ControlSignals, len(asserted))
	for _, sig := range f.ControlSignals {
		require.True(t, asserted[sig])
	}
}

func TestAssembleRejectsInvalidComputer(t *testing.T) {
	_, err := Assemble(dsl.NewComputer("empty").Build())
	require.Error(t, err)
}
