package assemble

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/oisee/hdlgen/internal/examples"
	"github.com/oisee/hdlgen/pkg/dsl"
	"github.com/oisee/hdlgen/pkg/hdlerr"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

func TestGenerateDryRunProducesBothFiles(t *testing.T) {
	c, err := examples.Get("accumulator")
	require.NoError(t, err)

	result, err := Generate(c, GenerateOptions{DryRun: true, Clock: fixedClock})
	require.NoError(t, err)

	require.Equal(t, filepath.Join(".", "accumulator"), result.Dir)
	require.Contains(t, result.ControlVHDL, "entity control_unit is")
	require.Contains(t, result.MainVHDL, "entity accumulator is")
	require.Contains(t, result.MainVHDL, "control0 : control_unit")
	require.True(t, result.InstructionCount > 0)
}

func TestGenerateWritesFiles(t *testing.T) {
	c, err := examples.Get("tiny")
	require.NoError(t, err)

	dir := t.TempDir()
	result, err := Generate(c, GenerateOptions{OutputRoot: dir, Clock: fixedClock})
	require.NoError(t, err)

	require.FileExists(t, result.ControlPath)
	require.FileExists(t, result.MainPath)
}

func TestGenerateRejectsInvalidComputer(t *testing.T) {
	_, err := Generate(dsl.NewComputer("empty").Build(), GenerateOptions{DryRun: true})
	require.Error(t, err)
	var multi *hdlerr.MultiError
	require.ErrorAs(t, err, &multi)
}

func TestGenerateTopLevelWiresControlUnitPortsInOrder(t *testing.T) {
	c, err := examples.Get("two_instruction")
	require.NoError(t, err)

	result, err := Generate(c, GenerateOptions{DryRun: true, Clock: fixedClock})
	require.NoError(t, err)

	require.Contains(t, result.MainVHDL, "control0 : control_unit")
	require.Contains(t, result.MainVHDL, "port map (clock, reset, system_bus, alu_operation")
}
