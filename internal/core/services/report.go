package services

import (
	"context"
	"time"

	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driven"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driving"
	"github.com/custodia-labs/phenoage-cli/internal/logger"
)

// Ensure ReportService implements the interface.
var _ driving.ReportService = (*ReportService)(nil)

// ReportService converts report files to text through the normaliser registry.
type ReportService struct {
	registry driven.NormaliserRegistry
}

// NewReportService creates a report service backed by registry.
func NewReportService(registry driven.NormaliserRegistry) *ReportService {
	return &ReportService{registry: registry}
}

// Read converts the raw bytes of a report to text.
func (s *ReportService) Read(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	defer logger.Elapsed("report conversion", time.Now())

	text, err := s.registry.Normalise(ctx, name, data)
	if err != nil {
		logger.Warn("Report conversion failed: %v", err)
		return "", err
	}

	logger.Debug("Report converted: %d bytes in, %d characters out", len(data), len([]rune(text)))
	return text, nil
}

// Formats lists the file extensions that can be read.
func (s *ReportService) Formats() []string {
	return s.registry.SupportedExtensions()
}
