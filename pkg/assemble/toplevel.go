package assemble

import (
	"fmt"

	"github.com/oisee/hdlgen/pkg/dsl"
	"github.com/oisee/hdlgen/pkg/fsm"
	"github.com/oisee/hdlgen/pkg/vhdl"
)

// buildTopLevel builds the structural top entity wiring the generated
// control unit to fixed datapath components over the tri-stated
// system bus.
func buildTopLevel(c dsl.Computer, f *fsm.FSM) (vhdl.Entity, vhdl.Architecture) {
	entity := vhdl.Entity{
		Name: c.Name,
		Ports: []vhdl.Port{
			{Name: "clock", Dir: vhdl.DirIn},
			{Name: "reset", Dir: vhdl.DirIn},
			{Name: "bus_inspection", Dir: vhdl.DirOut, Width: 8},
		},
	}

	arch := vhdl.Architecture{
		EntityName: c.Name,
		Signals: append([]vhdl.Signal{
			{Name: "system_bus", Width: 8},
			{Name: "alu_operation", Width: 3},
		}, controlSignalInternalSignals(f.ControlSignals)...),
		Components: []vhdl.ComponentDecl{
			regComponent(),
			programCounterComponent(),
			ramComponent(c.AddressWidth),
			aluComponent(),
			controlUnitComponent(f),
		},
	}

	arch.Instances = []vhdl.Instance{
		{InstanceName: "pc", ComponentName: "program_counter",
			PortMap: []string{"clock", "system_bus", "system_bus", "wr_pc", "rd_pc", "inc_pc"}},
		{InstanceName: "ir", ComponentName: "reg",
			PortMap: []string{"clock", "system_bus", "system_bus", "wr_IR", "rd_IR"}},
		{InstanceName: "A", ComponentName: "reg",
			PortMap: []string{"clock", "system_bus", "system_bus", "wr_A", "rd_A"}},
		{InstanceName: "main_memory", ComponentName: "ram",
			PortMap: []string{"clock", "system_bus", "system_bus",
				addressSlice(c.AddressWidth), "wr_MD", "wr_MA", "rd_MD"}},
		{InstanceName: "alu0", ComponentName: "alu",
			PortMap: []string{"clock", "system_bus", "system_bus", "alu_operation", "wr_alu_a", "wr_alu_b", "rd_alu"}},
		{InstanceName: "control0", ComponentName: fsm.EntityName,
			PortMap: controlUnitPortMap(f)},
	}

	arch.ConcurrentAssigns = []vhdl.ConcurrentAssign{
		{Target: "bus_inspection", Expr: "system_bus"},
	}

	return entity, arch
}

// addressSlice is the bus slice wired to the RAM's address port:
// system_bus(address_width-1 downto 0).
func addressSlice(addressWidth int) string {
	return fmt.Sprintf("system_bus(%d downto 0)", addressWidth-1)
}

func controlSignalInternalSignals(signals []string) []vhdl.Signal {
	out := make([]vhdl.Signal, len(signals))
	for i, s := range signals {
		out[i] = vhdl.Signal{Name: s}
	}
	return out
}

func regComponent() vhdl.ComponentDecl {
	return vhdl.ComponentDecl{
		Name: "reg",
		Ports: []vhdl.Port{
			{Name: "clock", Dir: vhdl.DirIn},
			{Name: "data_in", Dir: vhdl.DirIn, Width: 8},
			{Name: "data_out", Dir: vhdl.DirOut, Width: 8},
			{Name: "wr", Dir: vhdl.DirIn},
			{Name: "rd", Dir: vhdl.DirIn},
		},
	}
}

func programCounterComponent() vhdl.ComponentDecl {
	c := regComponent()
	c.Name = "program_counter"
	c.Ports = append(c.Ports, vhdl.Port{Name: "inc", Dir: vhdl.DirIn})
	return c
}

func ramComponent(addressWidth int) vhdl.ComponentDecl {
	return vhdl.ComponentDecl{
		Name: "ram",
		Ports: []vhdl.Port{
			{Name: "clock", Dir: vhdl.DirIn},
			{Name: "data_in", Dir: vhdl.DirIn, Width: 8},
			{Name: "data_out", Dir: vhdl.DirOut, Width: 8},
			{Name: "address", Dir: vhdl.DirIn, Width: addressWidth},
			{Name: "wr_data", Dir: vhdl.DirIn},
			{Name: "wr_address", Dir: vhdl.DirIn},
			{Name: "rd", Dir: vhdl.DirIn},
		},
	}
}

func aluComponent() vhdl.ComponentDecl {
	return vhdl.ComponentDecl{
		Name: "alu",
		Ports: []vhdl.Port{
			{Name: "clock", Dir: vhdl.DirIn},
			{Name: "data_in", Dir: vhdl.DirIn, Width: 8},
			{Name: "data_out", Dir: vhdl.DirOut, Width: 8},
			{Name: "operation", Dir: vhdl.DirIn, Width: 3},
			{Name: "wr_a", Dir: vhdl.DirIn},
			{Name: "wr_b", Dir: vhdl.DirIn},
			{Name: "rd", Dir: vhdl.DirIn},
		},
	}
}

func controlUnitComponent(f *fsm.FSM) vhdl.ComponentDecl {
	ports := []vhdl.Port{
		{Name: "clock", Dir: vhdl.DirIn},
		{Name: "reset", Dir: vhdl.DirIn},
		{Name: "system_bus", Dir: vhdl.DirInout, Width: 8},
		{Name: "alu_operation", Dir: vhdl.DirOut, Width: 3},
	}
	for _, s := range f.ControlSignals {
		ports = append(ports, vhdl.Port{Name: s, Dir: vhdl.DirOut})
	}
	return vhdl.ComponentDecl{Name: fsm.EntityName, Ports: ports}
}

// controlUnitPortMap mirrors controlUnitComponent's port order exactly:
// clock, reset, system_bus, alu_operation, then every control signal
// in the FSM's fixed enumeration order.
func controlUnitPortMap(f *fsm.FSM) []string {
	portMap := []string{"clock", "reset", "system_bus", "alu_operation"}
	portMap = append(portMap, f.ControlSignals...)
	return portMap
}
