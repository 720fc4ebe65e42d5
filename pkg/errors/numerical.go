package errors

import (
	"fmt"
	"math"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// NonFiniteError reports NaN or Inf where only finite values are accepted.
type NonFiniteError struct {
	Op    string
	Index int
	Value float64
}

func (e *NonFiniteError) Error() string {
	return fmt.Sprintf("dshelpers: %s: non-finite value %v at index %d", e.Op, e.Value, e.Index)
}

// MarshalZerologObject adds the structured error fields to a zerolog event.
func (e *NonFiniteError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("index", e.Index).
		Float64("value", e.Value).
		Str("type", "NonFiniteError")
}

// CheckFinite returns a NonFiniteError for the first NaN or Inf in values.
func CheckFinite(op string, values []float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.WithStack(&NonFiniteError{Op: op, Index: i, Value: v})
		}
	}
	return nil
}

// SafeDivide performs division with protection against division by zero.
// Returns 0 if denominator is zero or close to zero.
func SafeDivide(numerator, denominator float64) float64 {
	if math.Abs(denominator) < 1e-10 {
		return 0
	}
	return numerator / denominator
}
