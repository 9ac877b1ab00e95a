package msgpackutil

import (
	"errors"
	"fmt"
)

// ErrUnexpectedType is returned when a handler receives a value or payload
// of a type it does not handle.
var ErrUnexpectedType = errors.New("unexpected type")

// RegistrationError represents a rejected registry mutation: an identity
// outside the requested range, a duplicate identity without override, or a
// mutation attempted on a frozen registry.
type RegistrationError struct {
	Identity int
	Problem  string
}

func errRegistration(identity int, problem string) error {
	return RegistrationError{
		Identity: identity,
		Problem:  problem,
	}
}

// Error returns a string representation of the registration error.
func (e RegistrationError) Error() string {
	return fmt.Sprintf("cannot register handler with identity %d: %s", e.Identity, e.Problem)
}

// NoHandlerError represents an encode of a value that has no primitive
// msgpack representation and no matching handler in the registry.
type NoHandlerError struct {
	TypeName string
}

func errNoHandler(value any) error {
	return NoHandlerError{
		TypeName: fmt.Sprintf("%T", value),
	}
}

// Error returns a string representation of the missing handler error.
func (e NoHandlerError) Error() string {
	return fmt.Sprintf("no serialization handler registered for type '%s'", e.TypeName)
}

// InvalidIntervalError represents an interval whose minimum exceeds its
// maximum.
type InvalidIntervalError struct {
	Min int
	Max int
}

func errInvalidInterval(minValue int, maxValue int) error {
	return InvalidIntervalError{
		Min: minValue,
		Max: maxValue,
	}
}

// Error returns a string representation of the invalid interval error.
func (e InvalidIntervalError) Error() string {
	return fmt.Sprintf("minimum value %d must be less than or equal to maximum value %d", e.Min, e.Max)
}
