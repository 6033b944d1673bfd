package hdlerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMultiErrorAggregation(t *testing.T) {
	m := &MultiError{}
	require.True(t, m.Empty())
	require.NoError(t, m.ErrOrNil())

	m.Add(NewDSLError("bad thing %d", 1))
	m.Add(NewDSLError("worse thing"))

	require.False(t, m.Empty())
	require.Error(t, m.ErrOrNil())
	require.Contains(t, m.Error(), "2 validation error(s)")
	require.Contains(t, m.Error(), "bad thing 1")
}

func TestEmissionErrorUnwraps(t *testing.T) {
	underlying := errors.New("disk full")
	e := NewEmissionError("out/control.vhdl", underlying)

	require.ErrorIs(t, e, underlying)
	require.Contains(t, e.Error(), "out/control.vhdl")
}

func TestDSLErrorSourcePos(t *testing.T) {
	e := &DSLError{Msg: "bad register", Pos: SourcePos{File: "prog.go", Line: 12}}
	require.Equal(t, "prog.go:12: bad register", e.Error())

	plain := NewDSLError("no position")
	require.Equal(t, "no position", plain.Error())
}

func TestInternalError(t *testing.T) {
	e := NewInternalError("state %q has no next", "decode")
	require.Equal(t, `internal: state "decode" has no next`, e.Error())
}
