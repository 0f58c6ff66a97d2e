package grow

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every ValidationError.
var ErrInvalidInput = errors.New("enter valid positive values")

// ValidationError reports a pot size or wattage that is not a finite positive number.
type ValidationError struct {
	Field string
	Value float64
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid value %v: %v", e.Field, e.Value, ErrInvalidInput)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
