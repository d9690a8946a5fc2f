package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driving"
	"github.com/custodia-labs/phenoage-cli/internal/logger"
)

// Ensure AssessmentService implements the interface.
var _ driving.AssessmentService = (*AssessmentService)(nil)

// AssessmentService runs one lab report through extraction and calculation.
type AssessmentService struct {
	extractor  driving.ExtractorService
	calculator driving.CalculatorService
}

// NewAssessmentService creates a new assessment service.
func NewAssessmentService(extractor driving.ExtractorService, calculator driving.CalculatorService) *AssessmentService {
	return &AssessmentService{
		extractor:  extractor,
		calculator: calculator,
	}
}

// Assess extracts values from report and calculates phenotypic age.
//
// opts.Age is applied only when the report states no age. If any value is
// still absent the calculator is not called and the returned Assessment
// carries the extraction alongside a domain.ErrIncompletePanel error.
func (s *AssessmentService) Assess(
	ctx context.Context, report string, opts domain.AssessOptions,
) (*domain.Assessment, error) {
	logger.Section("Assessment")

	if opts.Age != nil {
		if err := domain.ValidateAge(*opts.Age); err != nil {
			return nil, err
		}
	}

	extraction, err := s.extractor.Extract(ctx, report)
	if err != nil {
		return nil, err
	}

	assessment := &domain.Assessment{
		ID:         uuid.New().String(),
		Extraction: extraction,
	}
	logger.Debug("Assessment %s", assessment.ID)

	if opts.Age != nil {
		assessment.Extraction = extraction.WithAge(*opts.Age)
	}

	panel, err := assessment.Extraction.Panel()
	if err != nil {
		logger.Info("Assessment %s incomplete: %v", assessment.ID, assessment.Missing())
		return assessment, err
	}

	result, err := s.calculator.Calculate(ctx, panel)
	if err != nil {
		return assessment, err
	}
	assessment.Result = result

	logger.Info("Assessment %s: %s", assessment.ID, result)
	return assessment, nil
}
