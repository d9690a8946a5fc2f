package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driving"
)

// mockCalculator records panels and returns a fixed result.
type mockCalculator struct {
	years  float64
	err    error
	panels []domain.BiomarkerPanel
}

func (m *mockCalculator) Calculate(_ context.Context, p domain.BiomarkerPanel) (*domain.PhenoAgeResult, error) {
	m.panels = append(m.panels, p)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.PhenoAgeResult{Years: m.years}, nil
}

// mockExtractor returns results keyed by report text.
type mockExtractor struct {
	mu      sync.Mutex
	results map[string]domain.Extraction
	err     error
	calls   []string
}

func (m *mockExtractor) Extract(_ context.Context, report string) (domain.Extraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, report)
	if m.err != nil {
		return nil, m.err
	}
	if e, ok := m.results[report]; ok {
		return e, nil
	}
	return domain.NewExtraction(), nil
}

func (m *mockExtractor) ExtractAll(ctx context.Context, reports []string) ([]domain.Extraction, error) {
	out := make([]domain.Extraction, len(reports))
	for i, r := range reports {
		e, err := m.Extract(ctx, r)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

// mockAssessment returns a fixed assessment and records options.
type mockAssessment struct {
	assessment *domain.Assessment
	err        error
	reports    []string
	opts       []domain.AssessOptions
}

func (m *mockAssessment) Assess(_ context.Context, report string, opts domain.AssessOptions) (*domain.Assessment, error) {
	m.reports = append(m.reports, report)
	m.opts = append(m.opts, opts)
	return m.assessment, m.err
}

// mockSettings keeps settings in memory.
type mockSettings struct {
	settings    domain.AppSettings
	validateErr error
	pingErr     error
	saves       int
}

func newMockSettings() *mockSettings {
	return &mockSettings{settings: domain.DefaultAppSettings()}
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Save(s *domain.AppSettings) error {
	m.settings = *s
	m.saves++
	return nil
}

func (m *mockSettings) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return errors.New("invalid LLM provider")
	}
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	m.saves++
	return nil
}

func (m *mockSettings) Validate() error                 { return m.validateErr }
func (m *mockSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (m *mockSettings) ValidateLLMConfig() error        { return m.pingErr }

var (
	_ driving.CalculatorService = (*mockCalculator)(nil)
	_ driving.ExtractorService  = (*mockExtractor)(nil)
	_ driving.AssessmentService = (*mockAssessment)(nil)
	_ driving.SettingsService   = (*mockSettings)(nil)
)

// setupTestServices installs services for one test and restores the
// previous ones afterwards.
func setupTestServices(t *testing.T, s Services) {
	t.Helper()
	old := Services{
		Calculator: calculatorService,
		Extractor:  extractorService,
		Assessment: assessmentService,
		Settings:   settingsService,
		Reports:    reportService,
	}
	oldTerminal := stdinIsTerminal
	SetServices(s)
	stdinIsTerminal = func() bool { return false }
	t.Cleanup(func() {
		SetServices(old)
		stdinIsTerminal = oldTerminal
	})
}

// resetFlags restores every flag to its default so state does not leak
// between executions of the shared root command.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes the root command with args and returns what it wrote.
func run(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
		resetFlags(rootCmd)
	})

	err = rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func referenceExtraction() domain.Extraction {
	return domain.ExtractionFromPanel(domain.BiomarkerPanel{
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
	})
}

var referenceArgs = []string{
	"--albumin", "4.0", "--creatinine", "0.8", "--glucose", "90", "--crp", "0.2",
	"--lymphocyte-percent", "30", "--mcv", "90", "--rdw", "13", "--alp", "60",
	"--wbc", "6", "--age", "50",
}
