// Package tui provides an interactive terminal user interface for phenoage.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the TUI.
type Ports struct {
	// Calculator computes phenotypic age. Required.
	Calculator driving.CalculatorService

	// Assessment reads lab reports. Nil when no language model is configured,
	// in which case the report view is not offered.
	Assessment driving.AssessmentService

	// Settings shows and changes the model configuration.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Calculator == nil {
		return ErrMissingCalculatorService
	}
	return nil
}
