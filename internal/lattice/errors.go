package lattice

import "errors"

// Domain errors for lattice construction and validation.
var (
	// ErrInvalidDimension indicates a spin slice whose length is not a perfect square.
	ErrInvalidDimension = errors.New("lattice: spin count is not a perfect square")

	// ErrInvalidSize indicates a non-positive side length.
	ErrInvalidSize = errors.New("lattice: side length must be positive")

	// ErrInvalidSpin indicates a spin value other than +1 or -1.
	ErrInvalidSpin = errors.New("lattice: spin must be +1 or -1")

	// ErrNonSquare indicates a 2D grid whose rows do not form an H x H square.
	ErrNonSquare = errors.New("lattice: grid must have H rows of H columns")
)
