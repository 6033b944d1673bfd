// Package assemble drives the full pipeline from a dsl.Computer to the
// two VHDL output files: it validates the computer, lowers and
// assembles the control FSM (pkg/fsm), builds the structural top
// entity, emits both through pkg/vhdl, and writes them to disk.
package assemble

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oisee/hdlgen/pkg/dsl"
	"github.com/oisee/hdlgen/pkg/fsm"
	"github.com/oisee/hdlgen/pkg/hdlerr"
	"github.com/oisee/hdlgen/pkg/vhdl"
)

const (
	controlFileName = "control.vhdl"
	mainFileName    = "main.vhdl"
)

// GenerateOptions controls where Generate writes its output and
// whether it writes anything at all.
type GenerateOptions struct {
	// OutputRoot is the directory under which "./<name>/" is created.
	// Defaults to "." when empty.
	OutputRoot string
	// DryRun computes and validates the full pipeline but skips
	// writing files, for `hdlgen validate`.
	DryRun bool
	// Clock supplies the current time for the header comment on
	// generated files. Defaults to time.Now.
	Clock func() time.Time
}

func (o GenerateOptions) outputRoot() string {
	if o.OutputRoot == "" {
		return "."
	}
	return o.OutputRoot
}

func (o GenerateOptions) clock() func() time.Time {
	if o.Clock != nil {
		return o.Clock
	}
	return time.Now
}

// Result reports what Generate produced, for the CLI to print.
type Result struct {
	Dir             string
	ControlPath     string
	MainPath        string
	ControlVHDL     string
	MainVHDL        string
	ControlSignals  []string
	OpcodeLength    int
	InstructionCount int
}

// Generate runs the complete pipeline for c: validation, microcode
// lowering, control-FSM assembly, structural-top assembly, VHDL
// emission and (unless DryRun) writing both files under
// "<OutputRoot>/<c.Name>/". A compiler-internal invariant violation is
// recovered here and surfaced as an *hdlerr.InternalError rather than
// propagating a raw panic.
func Generate(c dsl.Computer, opts GenerateOptions) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = hdlerr.NewInternalError("panic during generate: %v", r)
		}
	}()

	f, err := fsm.Assemble(c)
	if err != nil {
		return nil, err
	}
	if err := checkInvariants(f); err != nil {
		return nil, err
	}

	controlEntity, controlArch := fsm.ToVHDL(f)
	topEntity, topArch := buildTopLevel(c, f)

	controlVHDL := header(c, opts) + vhdl.Emit(controlEntity, controlArch)
	mainVHDL := header(c, opts) + vhdl.Emit(topEntity, topArch)

	dir := filepath.Join(opts.outputRoot(), c.Name)
	result = &Result{
		Dir:              dir,
		ControlPath:      filepath.Join(dir, controlFileName),
		MainPath:         filepath.Join(dir, mainFileName),
		ControlVHDL:      controlVHDL,
		MainVHDL:         mainVHDL,
		ControlSignals:   f.ControlSignals,
		OpcodeLength:     f.OpcodeLength,
		InstructionCount: len(c.Instructions),
	}

	if opts.DryRun {
		return result, nil
	}

	if err := writeFiles(result); err != nil {
		return nil, err
	}
	return result, nil
}

func header(c dsl.Computer, opts GenerateOptions) string {
	return fmt.Sprintf("-- generated by hdlgen for computer %q on %s\n\n", c.Name, opts.clock()().UTC().Format(time.RFC3339))
}

func writeFiles(r *Result) error {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return hdlerr.NewEmissionError(r.Dir, err)
	}
	if err := os.WriteFile(r.ControlPath, []byte(r.ControlVHDL), 0o644); err != nil {
		return hdlerr.NewEmissionError(r.ControlPath, err)
	}
	if err := os.WriteFile(r.MainPath, []byte(r.MainVHDL), 0o644); err != nil {
		return hdlerr.NewEmissionError(r.MainPath, err)
	}
	return nil
}

// checkInvariants catches compiler-internal invariant violations
// before they reach VHDL emission: every non-decode state must have a
// populated Next, and the control-signal alphabet must be non-empty
// whenever there are states beyond the fixed three.
func checkInvariants(f *fsm.FSM) error {
	for _, st := range f.States {
		if st.Name == "decode" {
			continue
		}
		if st.Next == "" {
			return hdlerr.NewInternalError("state %q has no next state", st.Name)
		}
	}
	if len(f.States) > 3 && len(f.ControlSignals) == 0 {
		return hdlerr.NewInternalError("empty control-signal alphabet with pending states")
	}
	seen := map[string]bool{}
	for _, st := range f.States {
		if seen[st.Name] {
			return hdlerr.NewInternalError("duplicate state name %q", st.Name)
		}
		seen[st.Name] = true
	}
	return nil
}
