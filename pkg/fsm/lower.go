package fsm

import (
	"fmt"

	"github.com/oisee/hdlgen/pkg/vhdl"
)

const stateTypeName = "state_type"

// ToVHDL lowers the assembled control FSM into a VHDL entity and
// architecture: one output per control signal plus alu_operation and
// the tri-stated system_bus, a clocked state/opcode register process,
// and a combinational per-state output process.
func ToVHDL(f *FSM) (vhdl.Entity, vhdl.Architecture) {
	entity := vhdl.Entity{
		Name: f.Name,
		Ports: append([]vhdl.Port{
			{Name: "clock", Dir: vhdl.DirIn},
			{Name: "reset", Dir: vhdl.DirIn},
			{Name: "system_bus", Dir: vhdl.DirInout, Width: 8},
			{Name: "alu_operation", Dir: vhdl.DirOut, Width: 3},
		}, controlSignalPorts(f.ControlSignals)...),
	}

	arch := vhdl.Architecture{
		EntityName: f.Name,
		Types:      []vhdl.EnumType{{Name: stateTypeName, Values: stateNames(f.States)}},
		Signals: []vhdl.Signal{
			{Name: "current_state", EnumType: stateTypeName},
			{Name: "opcode", Width: f.OpcodeLength},
		},
		Constants: constantDecls(f.Constants),
	}

	arch.Processes = append(arch.Processes, stateRegisterProcess(f))
	arch.Processes = append(arch.Processes, outputProcess(f))

	return entity, arch
}

func controlSignalPorts(signals []string) []vhdl.Port {
	ports := make([]vhdl.Port, len(signals))
	for i, s := range signals {
		ports[i] = vhdl.Port{Name: s, Dir: vhdl.DirOut}
	}
	return ports
}

func stateNames(states []*State) []string {
	names := make([]string, len(states))
	for i, st := range states {
		names[i] = st.Name
	}
	return names
}

func constantDecls(constants []ConstantDef) []vhdl.Constant {
	decls := make([]vhdl.Constant, len(constants))
	for i, c := range constants {
		decls[i] = vhdl.Constant{Name: c.Name, Width: 8, Value: vhdl.VectorLiteral(uint64(c.Value), 8)}
	}
	return decls
}

// stateRegisterProcess is the clocked process: asynchronous reset of
// current_state, rising-edge next-state transition, falling-edge
// opcode capture during store_instruction.
func stateRegisterProcess(f *FSM) vhdl.Process {
	transBody := []vhdl.Stmt{transitionCase(f)}

	fallBody := []vhdl.Stmt{
		vhdl.IfStmt{
			Cond: fmt.Sprintf("current_state = %s", stateStoreInstruction),
			Then: []vhdl.Stmt{opcodeCaptureAssign(f)},
		},
	}

	return vhdl.Process{
		Sensitivity: []string{"clock", "reset"},
		Body: []vhdl.Stmt{
			vhdl.IfStmt{
				Cond: "reset = '1'",
				Then: []vhdl.Stmt{
					vhdl.Assign{Target: "current_state", Expr: f.ResetTarget},
				},
				Else: []vhdl.Stmt{
					vhdl.IfStmt{
						Cond: "rising_edge(clock)",
						Then: transBody,
						Else: []vhdl.Stmt{
							vhdl.IfStmt{
								Cond: "falling_edge(clock)",
								Then: fallBody,
							},
						},
					},
				},
			},
		},
	}
}

func opcodeCaptureAssign(f *FSM) vhdl.Assign {
	n := f.OpcodeLength
	busHigh := fmt.Sprintf("system_bus(7 downto %d)", 8-n)
	target := "opcode"
	if n > 1 {
		target = fmt.Sprintf("opcode(%d downto 0)", n-1)
	}
	return vhdl.Assign{Target: target, Expr: busHigh}
}

// transitionCase builds `case current_state is ... end case;` choosing
// the next state: an unconditional assignment for ordinary states, a
// chain of nested guarded if/else statements (in instruction-declaration
// order) for decode.
func transitionCase(f *FSM) vhdl.CaseStmt {
	byFrom := map[string][]Transition{}
	for _, t := range f.Transitions {
		byFrom[t.From] = append(byFrom[t.From], t)
	}

	var branches []vhdl.CaseBranch
	for _, st := range f.States {
		ts := byFrom[st.Name]
		if len(ts) == 0 {
			continue
		}
		branches = append(branches, vhdl.CaseBranch{Choice: st.Name, Body: transitionBody(ts)})
	}
	return vhdl.CaseStmt{Selector: "current_state", Branches: branches}
}

func transitionBody(ts []Transition) []vhdl.Stmt {
	if len(ts) == 1 && ts[0].Guard == nil {
		return []vhdl.Stmt{vhdl.Assign{Target: "current_state", Expr: ts[0].To}}
	}
	return buildGuardChain(ts)
}

// buildGuardChain builds a right-leaning chain of nested if/else
// statements from guarded transitions, in order.
func buildGuardChain(ts []Transition) []vhdl.Stmt {
	if len(ts) == 0 {
		return nil
	}
	t := ts[0]
	guard := fmt.Sprintf("opcode = \"%s\"", t.Guard.OpcodeBinary)
	stmt := vhdl.IfStmt{
		Cond: guard,
		Then: []vhdl.Stmt{vhdl.Assign{Target: "current_state", Expr: t.To}},
		Else: buildGuardChain(ts[1:]),
	}
	return []vhdl.Stmt{stmt}
}

// outputProcess is the combinational process producing every
// per-state output: control signals, alu_operation, system_bus. On
// reset it forces the reset assignments instead of the state-selected
// ones, keeping these signals driven from exactly one process.
func outputProcess(f *FSM) vhdl.Process {
	var branches []vhdl.CaseBranch
	for _, st := range f.States {
		branches = append(branches, vhdl.CaseBranch{Choice: st.Name, Body: stateOutputAssigns(f, st)})
	}

	return vhdl.Process{
		Sensitivity: []string{"reset", "current_state"},
		Body: []vhdl.Stmt{
			vhdl.IfStmt{
				Cond: "reset = '1'",
				Then: resetAssigns(f),
				Else: []vhdl.Stmt{
					vhdl.CaseStmt{Selector: "current_state", Branches: branches},
				},
			},
		},
	}
}

func resetAssigns(f *FSM) []vhdl.Stmt {
	var stmts []vhdl.Stmt
	for _, sig := range f.ControlSignals {
		stmts = append(stmts, vhdl.Assign{Target: sig, Expr: vhdl.BitLiteral(false)})
	}
	stmts = append(stmts, vhdl.Assign{Target: "alu_operation", Expr: vhdl.VectorLiteral(0, 3)})
	stmts = append(stmts, vhdl.Assign{Target: "system_bus", Expr: vhdl.HighZLiteral(8)})
	return stmts
}

func stateOutputAssigns(f *FSM, st *State) []vhdl.Stmt {
	var stmts []vhdl.Stmt
	for _, sig := range f.ControlSignals {
		stmts = append(stmts, vhdl.Assign{Target: sig, Expr: vhdl.BitLiteral(st.Asserts(sig))})
	}
	if st.HasALUOp {
		stmts = append(stmts, vhdl.Assign{Target: "alu_operation", Expr: vhdl.VectorLiteral(uint64(st.ALUOp.Opcode()), 3)})
	} else {
		stmts = append(stmts, vhdl.Assign{Target: "alu_operation", Expr: vhdl.VectorLiteral(0, 3)})
	}
	if st.HasConst {
		stmts = append(stmts, vhdl.Assign{Target: "system_bus", Expr: constantName(f, st.Const)})
	} else {
		stmts = append(stmts, vhdl.Assign{Target: "system_bus", Expr: vhdl.HighZLiteral(8)})
	}
	return stmts
}

func constantName(f *FSM, v uint8) string {
	for _, c := range f.Constants {
		if c.Value == v {
			return c.Name
		}
	}
	panic(fmt.Sprintf("fsm: no constant declared for value %d", v))
}
