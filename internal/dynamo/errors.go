package dynamo

import "errors"

// Domain errors for configuration of the simulation.
var (
	// ErrParameterBounds indicates a constant is outside its valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrNonFinite indicates a NaN or Inf where a finite number is required.
	ErrNonFinite = errors.New("dynamo: non-finite value")
)

// ParamError names the constant that failed validation.
type ParamError struct {
	Name    string
	Value   float64
	Reason  string
	Wrapped error
}

func (e *ParamError) Error() string {
	return e.Wrapped.Error() + ": " + e.Name + " " + e.Reason
}

func (e *ParamError) Unwrap() error {
	return e.Wrapped
}
