package types

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is the sentinel every boundary validation failure wraps.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParamError names the offending field and why it was rejected.
type ParamError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("%s: %s %q %s", ErrInvalidParameter, e.Field, e.Value, e.Reason)
}

func (e *ParamError) Unwrap() error { return ErrInvalidParameter }
