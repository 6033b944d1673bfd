package vhdl

import (
	"fmt"
	"strings"
)

// Emit pretty-prints entity and arch as one VHDL-93 source file: the
// library prelude, the entity declaration, and the architecture body.
// Output is deterministic: declarations and statements are emitted in
// the order they appear in the IR.
func Emit(entity Entity, arch Architecture) string {
	var b strings.Builder

	b.WriteString("library ieee;\n")
	b.WriteString("use ieee.std_logic_1164.all;\n\n")

	emitEntity(&b, entity)
	b.WriteString("\n")
	emitArchitecture(&b, arch)

	return b.String()
}

func emitEntity(b *strings.Builder, e Entity) {
	fmt.Fprintf(b, "entity %s is\n", e.Name)
	if len(e.Ports) > 0 {
		b.WriteString("  port (\n")
		for i, p := range e.Ports {
			sep := ";"
			if i == len(e.Ports)-1 {
				sep = ""
			}
			fmt.Fprintf(b, "    %s : %s %s%s\n", p.Name, p.Dir, p.TypeString(), sep)
		}
		b.WriteString("  );\n")
	}
	fmt.Fprintf(b, "end %s;\n", e.Name)
}

func emitArchitecture(b *strings.Builder, a Architecture) {
	fmt.Fprintf(b, "architecture behavior of %s is\n\n", a.EntityName)

	for _, t := range a.Types {
		fmt.Fprintf(b, "  type %s is (%s);\n", t.Name, strings.Join(t.Values, ", "))
	}
	if len(a.Types) > 0 {
		b.WriteString("\n")
	}

	for _, c := range a.Constants {
		fmt.Fprintf(b, "  constant %s : %s := %s;\n", c.Name, c.TypeString(), c.Value)
	}
	if len(a.Constants) > 0 {
		b.WriteString("\n")
	}

	for _, s := range a.Signals {
		fmt.Fprintf(b, "  signal %s : %s;\n", s.Name, s.TypeString())
	}
	if len(a.Signals) > 0 {
		b.WriteString("\n")
	}

	for _, c := range a.Components {
		fmt.Fprintf(b, "  component %s is\n", c.Name)
		if len(c.Ports) > 0 {
			b.WriteString("    port (\n")
			for i, p := range c.Ports {
				sep := ";"
				if i == len(c.Ports)-1 {
					sep = ""
				}
				fmt.Fprintf(b, "      %s : %s %s%s\n", p.Name, p.Dir, p.TypeString(), sep)
			}
			b.WriteString("    );\n")
		}
		fmt.Fprintf(b, "  end component;\n\n")
	}

	b.WriteString("begin\n\n")

	for _, inst := range a.Instances {
		fmt.Fprintf(b, "  %s : %s\n", inst.InstanceName, inst.ComponentName)
		fmt.Fprintf(b, "    port map (%s);\n\n", strings.Join(inst.PortMap, ", "))
	}

	for _, ca := range a.ConcurrentAssigns {
		fmt.Fprintf(b, "  %s <= %s;\n", ca.Target, ca.Expr)
	}
	if len(a.ConcurrentAssigns) > 0 {
		b.WriteString("\n")
	}

	for _, p := range a.Processes {
		emitProcess(b, p)
		b.WriteString("\n")
	}

	fmt.Fprintf(b, "end behavior;\n")
}

func emitProcess(b *strings.Builder, p Process) {
	fmt.Fprintf(b, "  process (%s) is\n", strings.Join(p.Sensitivity, ", "))
	b.WriteString("  begin\n")
	emitStmts(b, p.Body, 2)
	b.WriteString("  end process;\n")
}

func emitStmts(b *strings.Builder, stmts []Stmt, indent int) {
	pad := strings.Repeat("  ", indent)
	for _, s := range stmts {
		switch v := s.(type) {
		case Assign:
			fmt.Fprintf(b, "%s%s <= %s;\n", pad, v.Target, v.Expr)
		case IfStmt:
			fmt.Fprintf(b, "%sif %s then\n", pad, v.Cond)
			emitStmts(b, v.Then, indent+1)
			if len(v.Else) > 0 {
				fmt.Fprintf(b, "%selse\n", pad)
				emitStmts(b, v.Else, indent+1)
			}
			fmt.Fprintf(b, "%send if;\n", pad)
		case CaseStmt:
			fmt.Fprintf(b, "%scase %s is\n", pad, v.Selector)
			for _, branch := range v.Branches {
				fmt.Fprintf(b, "%s  when %s =>\n", pad, branch.Choice)
				emitStmts(b, branch.Body, indent+2)
			}
			if v.OthersBody != nil {
				fmt.Fprintf(b, "%s  when others =>\n", pad)
				emitStmts(b, v.OthersBody, indent+2)
			}
			fmt.Fprintf(b, "%send case;\n", pad)
		default:
			panic(fmt.Sprintf("vhdl: unhandled statement type %T", s))
		}
	}
}

// BinaryLiteral zero-pads the binary representation of v (MSB first)
// to width bits.
func BinaryLiteral(v uint64, width int) string {
	s := fmt.Sprintf("%b", v)
	if len(s) < width {
		s = strings.Repeat("0", width-len(s)) + s
	}
	if len(s) > width {
		s = s[len(s)-width:]
	}
	return s
}

// BitLiteral quotes a single-bit value the VHDL way: '0' or '1'.
func BitLiteral(one bool) string {
	if one {
		return "'1'"
	}
	return "'0'"
}

// VectorLiteral quotes a multi-bit binary literal the VHDL way, e.g. "00000111".
func VectorLiteral(v uint64, width int) string {
	return `"` + BinaryLiteral(v, width) + `"`
}

// HighZLiteral is the tri-state "all Z" literal for a bus of the given width.
func HighZLiteral(width int) string {
	return `"` + strings.Repeat("Z", width) + `"`
}
