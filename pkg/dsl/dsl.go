// Package dsl is the builder surface for declaring an accumulator-style
// computer as a sequence of register-transfer-level instructions. It is
// the embedded trampoline described by the hardware generator: a user
// populates a Computer with Instructions, each made of Moves, and hands
// the result to pkg/assemble to produce VHDL.
package dsl

import (
	"fmt"
	"runtime"
	"unicode"

	"github.com/oisee/hdlgen/pkg/hdlerr"
)

// capturePos records the source position of the builder call two
// frames up the stack: this function's caller's caller, i.e. whatever
// user code invoked NewComputer, NewInstruction, or Move. It is the
// programmatic stand-in for the source position a parsed DSL would
// attach to syntax, so CLI diagnostics can still point at an offending
// call site.
func capturePos() hdlerr.SourcePos {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return hdlerr.SourcePos{}
	}
	return hdlerr.SourcePos{File: file, Line: line}
}

// Register is a symbolic register identifier. The system ships with a
// fixed set of well-known registers (see the Reg* constants) but a
// Move may reference any syntactically valid identifier, since the
// datapath a computer wires up is allowed to carry user-visible
// registers beyond the built-in set.
type Register string

// Built-in register identifiers.
const (
	RegPC    Register = "pc"
	RegIR    Register = "IR"
	RegA     Register = "A"
	RegMD    Register = "MD"
	RegMA    Register = "MA"
	RegALUA  Register = "alu_a"
	RegALUB  Register = "alu_b"
	RegALU   Register = "alu" // the ALU's result, read-only source for Moves
)

// ALUOp identifies one of the three fixed ALU operations. Opcodes are
// fixed by the datapath, not assigned by the compiler.
type ALUOp int

const (
	OpComplement ALUOp = iota
	OpAdd
	OpSubtract
)

// Opcode returns the 3-bit ALU opcode for op, MSB first.
func (op ALUOp) Opcode() uint8 {
	switch op {
	case OpComplement:
		return 0b101
	case OpAdd:
		return 0b010
	case OpSubtract:
		return 0b110
	default:
		panic(fmt.Sprintf("dsl: unknown ALUOp %d", op))
	}
}

func (op ALUOp) String() string {
	switch op {
	case OpComplement:
		return "complement"
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	default:
		return fmt.Sprintf("ALUOp(%d)", int(op))
	}
}

// Operand is one argument to an ALUOperation: either an integer
// constant (0-255) or a register. A Move's right-hand side is a Source.
type Operand struct {
	isRegister bool
	register   Register
	constant   int
}

// Const builds a constant operand.
func Const(v int) Operand { return Operand{constant: v} }

// Reg builds a register operand.
func Reg(r Register) Operand { return Operand{isRegister: true, register: r} }

// IsRegister reports whether the operand names a register rather than
// carrying a constant.
func (o Operand) IsRegister() bool { return o.isRegister }

// Register returns the operand's register. Valid only if IsRegister.
func (o Operand) Register() Register { return o.register }

// Constant returns the operand's constant value. Valid only if
// !IsRegister.
func (o Operand) Constant() int { return o.constant }

// ALUOperation is a fully-applied ALU op: complement takes one
// operand, add and subtract take two.
type ALUOperation struct {
	Op       ALUOp
	Operands []Operand
}

// Add constructs an ALUOperation computing a + b.
func Add(a, b Operand) ALUOperation {
	return ALUOperation{Op: OpAdd, Operands: []Operand{a, b}}
}

// Subtract constructs an ALUOperation computing a - b.
func Subtract(a, b Operand) ALUOperation {
	return ALUOperation{Op: OpSubtract, Operands: []Operand{a, b}}
}

// Complement constructs an ALUOperation computing the complement of a.
func Complement(a Operand) ALUOperation {
	return ALUOperation{Op: OpComplement, Operands: []Operand{a}}
}

// sourceKind discriminates the three shapes a Move's source can take.
type sourceKind int

const (
	sourceConstant sourceKind = iota
	sourceRegister
	sourceALU
)

// Source is the right-hand side of a Move: a constant, a register, or
// an ALUOperation. It canonicalizes the three source shapes a Move can
// take into one tagged value instead of an interface.
type Source struct {
	kind     sourceKind
	constant int
	register Register
	alu      ALUOperation
}

// ConstSource builds a constant Move source.
func ConstSource(v int) Source { return Source{kind: sourceConstant, constant: v} }

// RegSource builds a register Move source.
func RegSource(r Register) Source { return Source{kind: sourceRegister, register: r} }

// ALUSource builds an ALU-operation Move source.
func ALUSource(op ALUOperation) Source { return Source{kind: sourceALU, alu: op} }

// IsConstant reports whether the source is a bare integer constant.
func (s Source) IsConstant() bool { return s.kind == sourceConstant }

// IsRegister reports whether the source is a bare register reference.
func (s Source) IsRegister() bool { return s.kind == sourceRegister }

// IsALU reports whether the source is an ALU operation.
func (s Source) IsALU() bool { return s.kind == sourceALU }

// Constant returns the source's constant value. Valid only if IsConstant.
func (s Source) Constant() int { return s.constant }

// Register returns the source's register. Valid only if IsRegister.
func (s Source) Register() Register { return s.register }

// ALU returns the source's ALU operation. Valid only if IsALU.
func (s Source) ALU() ALUOperation { return s.alu }

// Move is one register-transfer-level step: target <- source.
type Move struct {
	Target Register
	Source Source
	Pos    hdlerr.SourcePos // call site of the builder method that added this move
}

// Instruction is a named, ordered list of Moves.
type Instruction struct {
	Name  string
	Moves []Move
	Pos   hdlerr.SourcePos // call site of NewInstruction
}

// InstructionBuilder accumulates Moves for one Instruction.
type InstructionBuilder struct {
	instr Instruction
}

// NewInstruction starts building an instruction with the given name.
func NewInstruction(name string) *InstructionBuilder {
	return &InstructionBuilder{instr: Instruction{Name: name, Pos: capturePos()}}
}

// Move appends target <- source to the instruction.
func (b *InstructionBuilder) Move(target Register, source Source) *InstructionBuilder {
	b.instr.Moves = append(b.instr.Moves, Move{Target: target, Source: source, Pos: capturePos()})
	return b
}

// Build returns the accumulated Instruction.
func (b *InstructionBuilder) Build() Instruction { return b.instr }

// Computer is an accumulator-style machine declared as an ordered list
// of Instructions. It is immutable once Generate (pkg/assemble) begins
// reading it.
type Computer struct {
	Name         string
	AddressWidth int
	Instructions []Instruction
	Pos          hdlerr.SourcePos // call site of NewComputer
}

const defaultAddressWidth = 5

// ComputerBuilder accumulates Instructions in declaration order.
type ComputerBuilder struct {
	computer Computer
}

// NewComputer starts building a computer named name. AddressWidth
// defaults to 5 and can be overridden with SetAddressWidth.
func NewComputer(name string) *ComputerBuilder {
	return &ComputerBuilder{computer: Computer{Name: name, AddressWidth: defaultAddressWidth, Pos: capturePos()}}
}

// SetAddressWidth overrides the RAM address width.
func (b *ComputerBuilder) SetAddressWidth(n int) *ComputerBuilder {
	b.computer.AddressWidth = n
	return b
}

// AddInstruction appends instr to the computer's instruction list.
func (b *ComputerBuilder) AddInstruction(instr Instruction) *ComputerBuilder {
	b.computer.Instructions = append(b.computer.Instructions, instr)
	return b
}

// Build returns the accumulated Computer.
func (b *ComputerBuilder) Build() Computer { return b.computer }

// IsValidIdentifier reports whether s is a syntactically valid VHDL-93
// identifier: starts with a letter, contains only letters, digits and
// underscores, and does not end with or double an underscore.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	runes := []rune(s)
	if !unicode.IsLetter(runes[0]) {
		return false
	}
	if runes[len(runes)-1] == '_' {
		return false
	}
	for i, r := range runes {
		if r == '_' && i > 0 && runes[i-1] == '_' {
			return false
		}
		if !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_') {
			return false
		}
	}
	return true
}
