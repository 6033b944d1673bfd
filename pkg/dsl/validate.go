package dsl

import (
	"fmt"

	"github.com/oisee/hdlgen/pkg/hdlerr"
)

// Validate runs every DSL-level check against c and returns them all
// aggregated, rather than stopping at the first failure, so a caller
// (typically `hdlgen validate`) can report every problem in the user's
// program in one pass.
func Validate(c Computer) *hdlerr.MultiError {
	errs := &hdlerr.MultiError{}

	if len(c.Instructions) == 0 {
		errs.Add(hdlerr.NewDSLErrorAt(c.Pos, "computer %q declares zero instructions: opcode width is undefined", c.Name))
	}
	if !IsValidIdentifier(c.Name) {
		errs.Add(hdlerr.NewDSLErrorAt(c.Pos, "computer name %q is not a valid VHDL identifier", c.Name))
	}
	if c.AddressWidth <= 0 {
		errs.Add(hdlerr.NewDSLErrorAt(c.Pos, "computer %q has non-positive address width %d", c.Name, c.AddressWidth))
	}

	seen := make(map[string]bool, len(c.Instructions))
	for _, instr := range c.Instructions {
		if !IsValidIdentifier(instr.Name) {
			errs.Add(hdlerr.NewDSLErrorAt(instr.Pos, "instruction name %q is not a valid VHDL identifier", instr.Name))
		} else if seen[instr.Name] {
			errs.Add(hdlerr.NewDSLErrorAt(instr.Pos, "duplicate instruction name %q", instr.Name))
		}
		seen[instr.Name] = true

		for i, mv := range instr.Moves {
			validateMove(errs, instr.Name, i, mv)
		}
	}
	return errs
}

func validateMove(errs *hdlerr.MultiError, instrName string, index int, mv Move) {
	ctx := func(format string, args ...any) *hdlerr.DSLError {
		msg := fmt.Sprintf("%s: move %d: %s", instrName, index, fmt.Sprintf(format, args...))
		return hdlerr.NewDSLErrorAt(mv.Pos, "%s", msg)
	}

	if !IsValidIdentifier(string(mv.Target)) {
		errs.Add(ctx("unknown register name %q", mv.Target))
	}

	switch {
	case mv.Source.IsConstant():
		validateConstant(errs, ctx, mv.Source.Constant())
	case mv.Source.IsRegister():
		if !IsValidIdentifier(string(mv.Source.Register())) {
			errs.Add(ctx("unknown register name %q", mv.Source.Register()))
		}
	case mv.Source.IsALU():
		validateALU(errs, ctx, mv.Source.ALU())
	}
}

func validateALU(errs *hdlerr.MultiError, ctx func(string, ...any) *hdlerr.DSLError, op ALUOperation) {
	wantOperands := 2
	if op.Op == OpComplement {
		wantOperands = 1
	}
	if len(op.Operands) != wantOperands {
		errs.Add(ctx("%s expects %d operand(s), got %d", op.Op, wantOperands, len(op.Operands)))
		return
	}
	for _, operand := range op.Operands {
		if operand.IsRegister() {
			if !IsValidIdentifier(string(operand.Register())) {
				errs.Add(ctx("unknown register name %q", operand.Register()))
			}
		} else {
			validateConstant(errs, ctx, operand.Constant())
		}
	}
}

func validateConstant(errs *hdlerr.MultiError, ctx func(string, ...any) *hdlerr.DSLError, v int) {
	if v < 0 || v > 255 {
		errs.Add(ctx("constant %d out of range 0-255", v))
	}
}
