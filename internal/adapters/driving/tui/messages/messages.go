// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewAssess reads a pasted lab report.
	ViewAssess
	// ViewCalculate takes the ten values directly.
	ViewCalculate
	// ViewSettings shows the current settings.
	ViewSettings
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewAssess:
		return "assess"
	case ViewCalculate:
		return "calculate"
	case ViewSettings:
		return "settings"
	default:
		return "unknown"
	}
}

// AssessCompleted carries the outcome of extracting and calculating one report.
// On domain.ErrIncompletePanel, Assessment still holds the extraction.
type AssessCompleted struct {
	Assessment *domain.Assessment
	Err        error
}

// CalculationCompleted carries a calculation made from entered values.
type CalculationCompleted struct {
	Extraction domain.Extraction
	Result     *domain.PhenoAgeResult
	Err        error
}

// SettingsLoaded carries the application settings.
type SettingsLoaded struct {
	Settings *domain.AppSettings
	Err      error
}

// SettingsSaved signals that settings were written.
type SettingsSaved struct {
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
