package liquid

import (
	"fmt"

	"github.com/pkg/errors"
)

// SyntaxError reports a parse failure, carrying the human-readable message
// and, where the parser tracked one, a character offset into the source.
type SyntaxError struct {
	Message string
	Offset  int
}

func (e *SyntaxError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("syntax error at offset %d: %s", e.Offset, e.Message)
	}
	return fmt.Sprintf("syntax error: %s", e.Message)
}

// UndefinedVariableError is raised by Lookup resolution under
// strict_variables (§4.3).
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("undefined variable %q", e.Name)
}

// UndefinedFilterError is raised by filter application under
// strict_filters (§4.4).
type UndefinedFilterError struct {
	Name string
}

func (e *UndefinedFilterError) Error() string {
	return fmt.Sprintf("undefined filter %q", e.Name)
}

// FilterError wraps a failure raised by a built-in or custom filter
// function, with the filter name attached (§7).
type FilterError struct {
	Name string
	Err  error
}

func (e *FilterError) Error() string {
	return fmt.Sprintf("filter %q failed: %s", e.Name, e.Err)
}

func (e *FilterError) Unwrap() error {
	return e.Err
}

// ControlSignalError reports a break or continue that escaped every
// enclosing for loop (§7, §9): a template-authoring mistake, not a crash.
type ControlSignalError struct {
	Signal string
}

func (e *ControlSignalError) Error() string {
	return fmt.Sprintf("stray %s outside of a for loop", e.Signal)
}

func newSyntaxError(offset int, format string, args ...any) error {
	return errors.WithStack(&SyntaxError{Message: fmt.Sprintf(format, args...), Offset: offset})
}

func newUndefinedVariableError(name string) error {
	return errors.WithStack(&UndefinedVariableError{Name: name})
}

func newUndefinedFilterError(name string) error {
	return errors.WithStack(&UndefinedFilterError{Name: name})
}

func newFilterError(name string, err error) error {
	return errors.WithStack(&FilterError{Name: name, Err: err})
}

func newControlSignalError(signal string) error {
	return errors.WithStack(&ControlSignalError{Signal: signal})
}
