package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driving"
)

// MockCalculatorService implements driving.CalculatorService for testing.
type MockCalculatorService struct {
	CalculateFunc func(ctx context.Context, panel domain.BiomarkerPanel) (*domain.PhenoAgeResult, error)
}

func (m *MockCalculatorService) Calculate(
	ctx context.Context, panel domain.BiomarkerPanel,
) (*domain.PhenoAgeResult, error) {
	if m.CalculateFunc != nil {
		return m.CalculateFunc(ctx, panel)
	}
	return &domain.PhenoAgeResult{Years: 42}, nil
}

// MockAssessmentService implements driving.AssessmentService for testing.
type MockAssessmentService struct {
	AssessFunc func(ctx context.Context, report string, opts domain.AssessOptions) (*domain.Assessment, error)
}

func (m *MockAssessmentService) Assess(
	ctx context.Context, report string, opts domain.AssessOptions,
) (*domain.Assessment, error) {
	if m.AssessFunc != nil {
		return m.AssessFunc(ctx, report, opts)
	}
	return nil, nil
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	Settings *domain.AppSettings
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	if m.Settings == nil {
		d := domain.DefaultAppSettings()
		return &d, nil
	}
	return m.Settings, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error {
	m.Settings = settings
	return nil
}

func (m *MockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	s, _ := m.Get()
	s.LLM.Provider, s.LLM.Model, s.LLM.APIKey = provider, model, apiKey
	m.Settings = s
	return nil
}

func (m *MockSettingsService) Validate() error                 { return nil }
func (m *MockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *MockSettingsService) ValidateLLMConfig() error        { return nil }

var (
	_ driving.CalculatorService = (*MockCalculatorService)(nil)
	_ driving.AssessmentService = (*MockAssessmentService)(nil)
	_ driving.SettingsService   = (*MockSettingsService)(nil)
)

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{
			name:    "nil ports",
			ports:   nil,
			wantErr: ErrInvalidPorts,
		},
		{
			name:    "missing calculator",
			ports:   &Ports{Assessment: &MockAssessmentService{}},
			wantErr: ErrMissingCalculatorService,
		},
		{
			name:  "calculator only",
			ports: &Ports{Calculator: &MockCalculatorService{}},
		},
		{
			name: "all ports",
			ports: &Ports{
				Calculator: &MockCalculatorService{},
				Assessment: &MockAssessmentService{},
				Settings:   &MockSettingsService{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
