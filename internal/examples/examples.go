// Package examples is a small registry of example dsl.Computer
// definitions, standing in for the user programs an embedder of this
// DSL would write against pkg/dsl directly. cmd/hdlgen looks computers
// up here by name.
package examples

import (
	"fmt"
	"sort"

	"github.com/oisee/hdlgen/pkg/dsl"
)

// Builder constructs one example Computer.
type Builder func() dsl.Computer

var registry = map[string]Builder{
	"tiny":          tiny,
	"two_instruction": twoInstruction,
	"accumulator":   accumulator,
}

// List returns every registered computer name, sorted.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get looks up a registered computer by name and builds it.
func Get(name string) (dsl.Computer, error) {
	b, ok := registry[name]
	if !ok {
		return dsl.Computer{}, fmt.Errorf("examples: no computer registered as %q (have: %v)", name, List())
	}
	return b(), nil
}

// tiny is the smallest useful computer: one no-op instruction, so its
// opcode needs only a single bit.
func tiny() dsl.Computer {
	return dsl.NewComputer("tiny").
		AddInstruction(dsl.NewInstruction("nop").Build()).
		Build()
}

// twoInstruction exercises the decode stage's opcode-guarded edges:
// two instructions, two decode transitions.
func twoInstruction() dsl.Computer {
	instA := dsl.NewInstruction("inst_a").
		Move(dsl.RegA, dsl.ConstSource(1)).
		Build()
	instB := dsl.NewInstruction("inst_b").
		Move(dsl.RegA, dsl.RegSource(dsl.RegPC)).
		Build()
	return dsl.NewComputer("two_instruction").
		AddInstruction(instA).
		AddInstruction(instB).
		Build()
}

// accumulator is a small but complete instruction set spanning every
// RTL move shape the lowering pass supports: a constant load, a
// register move, a unary ALU op, a binary ALU op with a constant
// operand, and a moveless instruction.
func accumulator() dsl.Computer {
	loadSeven := dsl.NewInstruction("load_seven").
		Move(dsl.RegA, dsl.ConstSource(7)).
		Build()

	movAPC := dsl.NewInstruction("mov_a_pc").
		Move(dsl.RegA, dsl.RegSource(dsl.RegPC)).
		Build()

	complementA := dsl.NewInstruction("complement_a").
		Move(dsl.RegA, dsl.ALUSource(dsl.Complement(dsl.Reg(dsl.RegA)))).
		Build()

	addConst := dsl.NewInstruction("add_const").
		Move(dsl.RegA, dsl.ALUSource(dsl.Add(dsl.Reg(dsl.RegA), dsl.Const(3)))).
		Build()

	halt := dsl.NewInstruction("halt").Build()

	return dsl.NewComputer("accumulator").
		SetAddressWidth(6).
		AddInstruction(loadSeven).
		AddInstruction(movAPC).
		AddInstruction(complementA).
		AddInstruction(addConst).
		AddInstruction(halt).
		Build()
}
