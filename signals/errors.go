package signals

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrCycle is reported when a cell reads itself, directly or through other
	// cells, while it is being evaluated.
	ErrCycle = errors.New("signals: dependency cycle")

	// ErrDisposed is reported when a disposed cell, effect or watcher is used.
	ErrDisposed = errors.New("signals: use after dispose")

	// ErrEvaluation wraps failures raised by computed getters and effect bodies.
	ErrEvaluation = errors.New("signals: evaluation failed")

	// ErrFlushOverflow is reported when a single flush keeps re-dirtying cells
	// past the configured flush limit.
	ErrFlushOverflow = errors.New("signals: flush limit exceeded")

	// ErrWrongGoroutine is reported when WithGoroutineCheck is enabled and the
	// system is touched from a goroutine that does not own it.
	ErrWrongGoroutine = errors.New("signals: access from foreign goroutine")
)

// EvalError describes a getter or effect body that panicked or returned an error.
// The cell keeps its last good value.
type EvalError struct {
	Cell  string
	Err   error
	Panic any
}

func (e *EvalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Cell, e.Err)
	}
	return fmt.Sprintf("%s: panic: %v", e.Cell, e.Panic)
}

func (e *EvalError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrEvaluation, e.Err}
	}
	return []error{ErrEvaluation}
}

// CycleError carries the read path that closed the cycle, starting and ending
// with the cell that was read while it was computing.
type CycleError struct {
	Path   []string
	origin *node
}

func newCycleError(origin *node) *CycleError {
	return &CycleError{
		Path:   []string{origin.Name()},
		origin: origin,
	}
}

// close is called by the origin once the panic unwound back to it. The path was
// collected innermost first.
func (e *CycleError) close(origin *node) {
	e.Path = append(e.Path, origin.Name())
	slices.Reverse(e.Path)
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}

func disposedError(op string, from SignalAware) error {
	return fmt.Errorf("%s %s: %w", op, from.Name(), ErrDisposed)
}
