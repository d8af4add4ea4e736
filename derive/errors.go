package derive

import "errors"

var (
	// ErrNotCollection is reported when a pipeline source, prepend or append
	// list does not resolve to a slice or array.
	ErrNotCollection = errors.New("derive: not a collection")

	ErrUnknownOperator = errors.New("derive: unknown operator")

	// ErrTemplate wraps text/template parse and execution failures.
	ErrTemplate = errors.New("derive: template")
)
