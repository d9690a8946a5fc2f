package mcp

import (
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Calculator runs the PhenoAge formula.
	Calculator driving.CalculatorService

	// Extractor reads lab reports. Optional: without a configured LLM the
	// extract_lab_report tool is not offered.
	Extractor driving.ExtractorService

	// Assessment runs extraction and calculation together. Optional.
	Assessment driving.AssessmentService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Calculator == nil {
		return ErrMissingCalculatorService
	}
	return nil
}
