package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument marks caller mistakes that are rejected before any I/O.
var ErrInvalidArgument = errors.New("domain: invalid argument")

// InvalidArgumentError names the offending field.
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid argument: %s", e.Field)
	}
	return fmt.Sprintf("invalid argument: %s %s", e.Field, e.Reason)
}

func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalid(field, reason string) error {
	return &InvalidArgumentError{Field: field, Reason: reason}
}
