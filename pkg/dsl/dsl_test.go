package dsl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsValidIdentifier(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want bool
	}{
		{"simple", "nop", true},
		{"with_underscore", "load_seven", true},
		{"single_letter", "A", true},
		{"starts_with_digit", "2add", false},
		{"empty", "", false},
		{"trailing_underscore", "add_", false},
		{"double_underscore", "add__sub", false},
		{"has_space", "add sub", false},
		{"has_symbol", "add-sub", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsValidIdentifier(tt.id))
		})
	}
}

func TestALUOpcodes(t *testing.T) {
	require.Equal(t, uint8(0b101), OpComplement.Opcode())
	require.Equal(t, uint8(0b010), OpAdd.Opcode())
	require.Equal(t, uint8(0b110), OpSubtract.Opcode())
}

func TestComputerBuilder(t *testing.T) {
	instr := NewInstruction("load_seven").
		Move(RegA, ConstSource(7)).
		Build()

	c := NewComputer("tiny").AddInstruction(instr).Build()

	require.Equal(t, "tiny", c.Name)
	require.Equal(t, defaultAddressWidth, c.AddressWidth)
	require.Len(t, c.Instructions, 1)
	require.Equal(t, "load_seven", c.Instructions[0].Name)
	require.Len(t, c.Instructions[0].Moves, 1)

	mv := c.Instructions[0].Moves[0]
	require.Equal(t, RegA, mv.Target)
	require.True(t, mv.Source.IsConstant())
	require.Equal(t, 7, mv.Source.Constant())
}

func TestSetAddressWidth(t *testing.T) {
	c := NewComputer("x").SetAddressWidth(6).
		AddInstruction(NewInstruction("nop").Build()).
		Build()
	require.Equal(t, 6, c.AddressWidth)
}

func TestALUOperationShapes(t *testing.T) {
	add := Add(Reg(RegA), Const(3))
	require.Equal(t, OpAdd, add.Op)
	require.Len(t, add.Operands, 2)
	require.True(t, add.Operands[0].IsRegister())
	require.False(t, add.Operands[1].IsRegister())
	require.Equal(t, 3, add.Operands[1].Constant())

	comp := Complement(Reg(RegA))
	require.Equal(t, OpComplement, comp.Op)
	require.Len(t, comp.Operands, 1)
}
