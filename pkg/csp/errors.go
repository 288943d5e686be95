package csp

import (
	"errors"
	"fmt"
)

// ErrInvalidConstraint reports a configuration error detected while
// constructing a Store: an edge naming an unknown variable, a variable
// without a domain, or an empty initial domain. Construction fails fast;
// nothing about a half-built store is recoverable.
//
// Propagation failure and search exhaustion are not errors. Both are
// legitimate outcomes and are reported as boolean results.
var ErrInvalidConstraint = errors.New("invalid constraint configuration")

// invalidConstraint wraps ErrInvalidConstraint with context so callers
// can match with errors.Is while still seeing what was wrong.
func invalidConstraint(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrInvalidConstraint)...)
}
