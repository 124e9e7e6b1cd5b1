package chromaprop

import "errors"

// Sentinel errors returned (possibly wrapped) by the package. Use errors.Is
// to discriminate.
var (
	// ErrInvalidInput reports malformed input data: empty planes, mismatched
	// plane dimensions, or an image the pipeline cannot interpret.
	ErrInvalidInput = errors.New("chromaprop: invalid input")

	// ErrInvalidParameter reports a parameter outside its documented range.
	ErrInvalidParameter = errors.New("chromaprop: invalid parameter")

	// ErrSolverFailure reports that both the direct factorization and the
	// iterative fallback failed to produce a finite chroma solution.
	ErrSolverFailure = errors.New("chromaprop: solver failure")
)
