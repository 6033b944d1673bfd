// Package hdlerr defines the three error kinds the generator can
// raise: malformed user input (DSLError), I/O failure while writing
// VHDL (EmissionError), and compiler-internal invariant violations
// (InternalError). Library code returns these values directly, with
// DSL errors aggregated in a MultiError; only the CLI formats and
// prints them.
package hdlerr

import (
	"fmt"
	"strings"
)

// SourcePos is optional file/line metadata attached to a DSLError, so
// CLI diagnostics can point at the offending call.
type SourcePos struct {
	File string
	Line int
}

func (p SourcePos) String() string {
	if p.File == "" {
		return ""
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// DSLError reports a problem with the user's Computer/Instruction/Move
// declarations: an unknown register, an out-of-range constant, or a
// computer with zero instructions.
type DSLError struct {
	Msg string
	Pos SourcePos
}

func (e *DSLError) Error() string {
	if pos := e.Pos.String(); pos != "" {
		return fmt.Sprintf("%s: %s", pos, e.Msg)
	}
	return e.Msg
}

// NewDSLError builds a DSLError with no source position.
func NewDSLError(format string, args ...any) *DSLError {
	return &DSLError{Msg: fmt.Sprintf(format, args...)}
}

// NewDSLErrorAt builds a DSLError carrying the call site pos points at.
func NewDSLErrorAt(pos SourcePos, format string, args ...any) *DSLError {
	return &DSLError{Msg: fmt.Sprintf(format, args...), Pos: pos}
}

// MultiError aggregates every DSLError found during a single
// validation pass, so the caller can report all of them at once
// instead of failing on the first.
type MultiError struct {
	Errs []*DSLError
}

func (e *MultiError) Error() string {
	lines := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		lines[i] = err.Error()
	}
	return fmt.Sprintf("%d validation error(s):\n%s", len(e.Errs), strings.Join(lines, "\n"))
}

// Add appends err to the aggregate.
func (e *MultiError) Add(err *DSLError) { e.Errs = append(e.Errs, err) }

// Empty reports whether no errors were collected.
func (e *MultiError) Empty() bool { return len(e.Errs) == 0 }

// ErrOrNil returns e as an error, or nil if e collected nothing.
func (e *MultiError) ErrOrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

// EmissionError wraps an I/O failure writing VHDL output. Any files
// already written when this is returned must be considered invalid.
type EmissionError struct {
	Path string
	Err  error
}

func (e *EmissionError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *EmissionError) Unwrap() error { return e.Err }

// NewEmissionError wraps err as an EmissionError for the given output path.
func NewEmissionError(path string, err error) *EmissionError {
	return &EmissionError{Path: path, Err: err}
}

// InternalError indicates a compiler-internal invariant violation: an
// absent `next` on a non-terminal microcode state, a duplicate
// instruction name that slipped past validation, or an empty
// control-signal alphabet with pending states. These indicate a
// compiler bug and are always fatal.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string { return "internal: " + e.Msg }

// NewInternalError builds an InternalError.
func NewInternalError(format string, args ...any) *InternalError {
	return &InternalError{Msg: fmt.Sprintf(format, args...)}
}
