package microcode

import (
	"testing"

	"github.com/oisee/hdlgen/pkg/dsl"
	"github.com/stretchr/testify/require"
)

func TestLowerConstantLoad(t *testing.T) {
	mv := dsl.Move{Target: dsl.RegA, Source: dsl.ConstSource(7)}

	states := LowerMove(mv)

	require.Len(t, states, 1)
	require.Equal(t, []string{"wr_A"}, states[0].Signals)
	require.True(t, states[0].HasConst)
	require.Equal(t, uint8(7), states[0].Const)
	require.False(t, states[0].HasALUOp)
}

func TestLowerRegisterMove(t *testing.T) {
	mv := dsl.Move{Target: dsl.RegA, Source: dsl.RegSource(dsl.RegPC)}

	states := LowerMove(mv)

	require.Len(t, states, 1)
	require.Equal(t, []string{"wr_A", "rd_pc"}, states[0].Signals)
	require.False(t, states[0].HasConst)
}

func TestLowerBinaryALU(t *testing.T) {
	b := dsl.Register("B")
	mv := dsl.Move{
		Target: dsl.RegA,
		Source: dsl.ALUSource(dsl.Add(dsl.Reg(dsl.RegA), dsl.Reg(b))),
	}

	states := LowerMove(mv)

	require.Len(t, states, 3)

	require.Equal(t, []string{"rd_A", "wr_alu_a"}, states[0].Signals)
	require.True(t, states[0].HasALUOp)
	require.Equal(t, dsl.OpAdd, states[0].ALUOp)
	require.False(t, states[0].HasConst)

	require.Equal(t, []string{"wr_alu_b", "rd_B"}, states[1].Signals)
	require.False(t, states[1].HasALUOp)

	require.Equal(t, []string{"rd_alu", "wr_A"}, states[2].Signals)
	require.True(t, states[2].HasALUOp)
	require.Equal(t, dsl.OpAdd, states[2].ALUOp)
}

func TestLowerComplementUnaryALU(t *testing.T) {
	mv := dsl.Move{
		Target: dsl.RegA,
		Source: dsl.ALUSource(dsl.Complement(dsl.Reg(dsl.RegA))),
	}

	states := LowerMove(mv)

	require.Len(t, states, 2)
	require.Equal(t, []string{"rd_A", "wr_alu_a"}, states[0].Signals)
	require.Equal(t, []string{"rd_alu", "wr_A"}, states[1].Signals)
}

// TestLowerALUConstantOperand checks that a constant ALU operand
// drives the bus directly instead of emitting a meaningless
// rd_<const> control signal.
func TestLowerALUConstantOperand(t *testing.T) {
	mv := dsl.Move{
		Target: dsl.RegA,
		Source: dsl.ALUSource(dsl.Add(dsl.Const(5), dsl.Reg(dsl.RegA))),
	}

	states := LowerMove(mv)

	require.Len(t, states, 3)
	require.Equal(t, []string{"wr_alu_a"}, states[0].Signals)
	require.True(t, states[0].HasConst)
	require.Equal(t, uint8(5), states[0].Const)

	require.Equal(t, []string{"wr_alu_b", "rd_A"}, states[1].Signals)
}

func TestLowerInstructionFlattensAllMoves(t *testing.T) {
	instr := dsl.NewInstruction("two_moves").
		Move(dsl.RegA, dsl.ConstSource(1)).
		Move(dsl.RegMA, dsl.RegSource(dsl.RegA)).
		Build()

	states := LowerInstruction(instr)
	require.Len(t, states, 2)
}
