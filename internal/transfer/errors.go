package transfer

import "errors"

var (
	// ErrDegenerateInput is returned when an image has no pixels.
	ErrDegenerateInput = errors.New("degenerate input: image has zero pixels")

	// ErrInvalidMode is returned for a mode outside cholesky, pca and sym.
	ErrInvalidMode = errors.New("invalid transfer mode")

	// ErrInvalidEpsilon is returned when the regularization term is not a
	// positive finite number.
	ErrInvalidEpsilon = errors.New("eps must be a positive finite number")

	// ErrNonPositiveDefinite is returned when a Cholesky factorization fails.
	ErrNonPositiveDefinite = errors.New("covariance is not positive definite")

	// ErrDecomposition is returned when an eigendecomposition or linear
	// solve fails or yields a significantly negative eigenvalue.
	ErrDecomposition = errors.New("matrix decomposition failed")

	// ErrMaskSize is returned when a region mask does not cover its image.
	ErrMaskSize = errors.New("mask size does not match image")
)
