package mcp

import (
	"context"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

// mockCalculatorService is a mock implementation of driving.CalculatorService.
type mockCalculatorService struct {
	years  float64
	err    error
	panels []domain.BiomarkerPanel
}

func (m *mockCalculatorService) Calculate(_ context.Context, panel domain.BiomarkerPanel) (*domain.PhenoAgeResult, error) {
	m.panels = append(m.panels, panel)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.PhenoAgeResult{Years: m.years}, nil
}

// mockExtractorService is a mock implementation of driving.ExtractorService.
type mockExtractorService struct {
	extraction domain.Extraction
	err        error
}

func (m *mockExtractorService) Extract(_ context.Context, _ string) (domain.Extraction, error) {
	return m.extraction, m.err
}

func (m *mockExtractorService) ExtractAll(_ context.Context, reports []string) ([]domain.Extraction, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Extraction, len(reports))
	for i := range reports {
		out[i] = m.extraction.Clone()
	}
	return out, nil
}

// mockAssessmentService is a mock implementation of driving.AssessmentService.
type mockAssessmentService struct {
	assessment *domain.Assessment
	err        error
	opts       domain.AssessOptions
}

func (m *mockAssessmentService) Assess(_ context.Context, _ string, opts domain.AssessOptions) (*domain.Assessment, error) {
	m.opts = opts
	return m.assessment, m.err
}

func referenceInput() CalculateInput {
	return CalculateInput{
		Albumin:                       4.0,
		Creatinine:                    0.8,
		Glucose:                       90,
		CReactiveProtein:              0.2,
		LymphocytePercent:             30,
		MeanCellVolume:                90,
		RedBloodCellDistributionWidth: 13,
		AlkalinePhosphatase:           60,
		WhiteBloodCellCount:           6,
		Age:                           50,
	}
}
