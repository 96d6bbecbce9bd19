package memory

import "errors"

// Sentinel error kinds. Operations wrap these with context; callers test
// with errors.Is.
var (
	// ErrInvalidParameter reports a parameter outside its domain.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidTime reports a negative advance, time moving backward, or a
	// reinforcement that would lie in the future.
	ErrInvalidTime = errors.New("invalid time")

	// ErrUnknownAttribute reports a blend or salience attribute absent from
	// every candidate chunk.
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrNonNumericBlend reports a blend output attribute with a
	// non-numeric value on some candidate.
	ErrNonNumericBlend = errors.New("non-numeric blend value")

	// ErrUndefinedDerivative reports a salience computation at a point
	// where no derivative is available.
	ErrUndefinedDerivative = errors.New("undefined derivative")

	// ErrSimilarityContract reports a similarity function returning a value
	// outside its declared range.
	ErrSimilarityContract = errors.New("similarity contract violation")
)
