package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates a panel or report file format that cannot be read.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Lab report extraction is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Calculation Errors.

	// ErrNonPositiveCRP indicates a C-reactive protein value that is zero or
	// negative, which has no logarithm.
	ErrNonPositiveCRP = errors.New("c-reactive protein must be positive for logarithmic conversion")

	// ErrDegenerateMortalityScore indicates the mortality score evaluated to
	// zero or less.
	ErrDegenerateMortalityScore = errors.New("mortality score must be positive for logarithmic conversion")

	// ErrDegenerateComplement indicates the mortality score reached one or
	// more, leaving no survival probability to take the logarithm of.
	ErrDegenerateComplement = errors.New("1 - mortality score must be positive for logarithmic conversion")

	// Extraction Errors.

	// ErrExtractionFailed indicates the lab report could not be turned into
	// biomarker values. It never wraps a calculation error.
	ErrExtractionFailed = errors.New("lab report extraction failed")

	// ErrIncompletePanel indicates one or more biomarkers are absent.
	ErrIncompletePanel = errors.New("incomplete biomarker panel")
)

// IsCalculationError reports whether err comes from the PhenoAge formula
// itself rather than from missing input or extraction.
func IsCalculationError(err error) bool {
	return errors.Is(err, ErrNonPositiveCRP) ||
		errors.Is(err, ErrDegenerateMortalityScore) ||
		errors.Is(err, ErrDegenerateComplement)
}
