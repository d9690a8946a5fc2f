package driving

import (
	"context"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

// CalculatorService computes phenotypic age from a complete panel.
type CalculatorService interface {
	// Calculate runs the PhenoAge formula. Calculation failures are returned
	// as domain.ErrNonPositiveCRP, domain.ErrDegenerateMortalityScore or
	// domain.ErrDegenerateComplement and are never replaced by a default.
	Calculate(ctx context.Context, panel domain.BiomarkerPanel) (*domain.PhenoAgeResult, error)
}

// ExtractorService turns free-text lab reports into biomarker values.
type ExtractorService interface {
	// Extract returns all ten biomarkers, absent ones marked nil.
	// Fails with domain.ErrExtractionFailed if the model output cannot be decoded.
	Extract(ctx context.Context, report string) (domain.Extraction, error)

	// ExtractAll extracts several reports concurrently.
	// Results are in input order.
	ExtractAll(ctx context.Context, reports []string) ([]domain.Extraction, error)
}

// AssessmentService runs extraction and calculation for one report.
type AssessmentService interface {
	// Assess extracts values, applies a caller-supplied age when the report has
	// none, and calculates. On domain.ErrIncompletePanel the returned
	// Assessment still carries the extraction so callers can prompt for the rest.
	Assess(ctx context.Context, report string, opts domain.AssessOptions) (*domain.Assessment, error)
}

// ReportService turns report files into the text handed to extraction.
type ReportService interface {
	// Read converts the raw bytes of a report named name ("-" for stdin).
	// HTML, email and Word documents are reduced to their text.
	Read(ctx context.Context, name string, data []byte) (string, error)

	// Formats lists the file extensions that can be read.
	Formats() []string
}
