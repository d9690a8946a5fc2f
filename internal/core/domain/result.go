package domain

import (
	"errors"
	"fmt"
)

// PhenoAgeResult is the outcome of one successful calculation.
type PhenoAgeResult struct {
	// Years is the phenotypic age estimate.
	Years float64 `json:"phenoage_years"`
}

// String renders the result with two decimals, e.g. "42.06 years".
func (r PhenoAgeResult) String() string {
	return fmt.Sprintf("%.2f years", r.Years)
}

// AssessOptions holds caller-supplied values for an assessment.
type AssessOptions struct {
	// Age is used only when the report does not state an age.
	// Nil means the caller has not supplied one.
	Age *float64
}

// Assessment is a single extract-then-calculate run over one lab report.
// It is transient and never stored.
type Assessment struct {
	// ID identifies the run in logs and structured output.
	ID string `json:"id"`

	// Extraction holds the values found in the report, with any
	// caller-supplied age applied.
	Extraction Extraction `json:"values"`

	// Result is nil unless the calculation succeeded.
	Result *PhenoAgeResult `json:"result,omitempty"`
}

// Missing returns the biomarkers that are still absent.
func (a *Assessment) Missing() []Biomarker {
	if a == nil || a.Extraction == nil {
		return AllBiomarkers()
	}
	return a.Extraction.Missing()
}

// User-facing messages for each failure class.
const (
	MessageIncomplete       = "Some values are missing or invalid. Please ensure all values are provided and try again."
	MessageExtractionFailed = "Failed to parse the lab report. Please ensure the lab report format is correct and try again."
	MessageLLMUnavailable   = "No language model is configured. Run 'phenoage settings llm' to configure one."
)

// ResultMessage renders a successful result for display.
func ResultMessage(r PhenoAgeResult) string {
	return "Your phenoage is: " + r.String()
}

// PresentError maps an error to the message shown to the user.
// Calculation failures keep their own message.
func PresentError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrExtractionFailed):
		return MessageExtractionFailed
	case errors.Is(err, ErrIncompletePanel):
		return MessageIncomplete
	case errors.Is(err, ErrLLMUnavailable):
		return MessageLLMUnavailable
	case IsCalculationError(err):
		return "Calculation failed: " + err.Error()
	default:
		return err.Error()
	}
}

// Caller-supplied age bounds, in years.
const (
	MinAge = 0
	MaxAge = 120
)

// ValidateAge checks an age entered by the user rather than extracted.
func ValidateAge(age float64) error {
	if !(age >= MinAge && age <= MaxAge) {
		return fmt.Errorf("%w: age %g not in [%d, %d]", ErrInvalidInput, age, MinAge, MaxAge)
	}
	return nil
}
