package services

import (
	"context"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driving"
	"github.com/custodia-labs/phenoage-cli/internal/logger"
)

// Ensure CalculatorService implements the interface.
var _ driving.CalculatorService = (*CalculatorService)(nil)

// CalculatorService exposes the PhenoAge formula as a driving port.
// It holds no state; the formula itself lives in the domain.
type CalculatorService struct{}

// NewCalculatorService creates a new calculator service.
func NewCalculatorService() *CalculatorService {
	return &CalculatorService{}
}

// Calculate computes phenotypic age for a complete panel.
// Errors from the formula are returned unchanged so callers can classify them.
func (s *CalculatorService) Calculate(ctx context.Context, panel domain.BiomarkerPanel) (*domain.PhenoAgeResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logger.Debug("Calculating phenoage: crp=%g age=%g", panel.CReactiveProtein, panel.Age)

	years, err := domain.CalculatePhenoAge(panel)
	if err != nil {
		logger.Warn("Calculation failed: %v", err)
		return nil, err
	}

	logger.Debug("Phenoage: %.6f", years)
	return &domain.PhenoAgeResult{Years: years}, nil
}
