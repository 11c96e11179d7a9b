package stackup

import (
	"errors"
	"fmt"
)

// ErrInvalidDimension is matched by every *DimensionError.
var ErrInvalidDimension = errors.New("stackup: invalid dimension")

// DimensionError names the reference dimension that failed validation.
type DimensionError struct {
	Name   string
	Value  float64
	Reason string
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("stackup: invalid dimension %s = %g: %s", e.Name, e.Value, e.Reason)
}

// Unwrap returns ErrInvalidDimension.
func (e *DimensionError) Unwrap() error {
	return ErrInvalidDimension
}
