package biokin

import "errors"

// Domain errors for reactor and integration operations.
var (
	// ErrDimensionMismatch indicates component vectors of different lengths
	// were handed to the kinetics model or an integrator.
	ErrDimensionMismatch = errors.New("biokin: component vector dimension mismatch")

	// ErrInvalidVolume indicates a non-positive active volume.
	ErrInvalidVolume = errors.New("biokin: active volume must be positive")

	// ErrInvalidCondition indicates an out-of-range operating condition
	// (temperature below 4 degC or negative dissolved oxygen).
	ErrInvalidCondition = errors.New("biokin: invalid temperature or dissolved oxygen")

	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("biokin: invalid state (NaN or Inf detected)")
)
