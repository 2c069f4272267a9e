package crumb

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when a cookie name is missing or empty.
var ErrInvalidArgument = errors.New("cookie name must be a non-empty string")

// ArgumentError records the operation that rejected a cookie name.
type ArgumentError struct {
	Op   string
	Name string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Op, e.Name, ErrInvalidArgument)
}

func (e *ArgumentError) String() string { return e.Error() }

func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

func validateName(op, name string) error {
	if name == "" {
		return &ArgumentError{Op: op, Name: name}
	}
	return nil
}
