package services

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driven"
)

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	mu        sync.Mutex
	response  string
	responses map[string]string // keyed by report text
	err       error
	chatFunc  func(ctx context.Context, messages []driven.ChatMessage) (string, error)
	calls     [][]driven.ChatMessage
	options   []driven.ChatOptions
	inFlight  atomic.Int32
	peak      atomic.Int32
}

func (m *mockLLMService) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return "", nil
}

func (m *mockLLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	n := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		p := m.peak.Load()
		if n <= p || m.peak.CompareAndSwap(p, n) {
			break
		}
	}

	m.mu.Lock()
	m.calls = append(m.calls, messages)
	m.options = append(m.options, opts)
	m.mu.Unlock()

	if m.chatFunc != nil {
		return m.chatFunc(ctx, messages)
	}
	if m.err != nil {
		return "", m.err
	}
	if m.responses != nil && len(messages) > 1 {
		if resp, ok := m.responses[messages[len(messages)-1].Content]; ok {
			return resp, nil
		}
	}
	return m.response, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

func (m *mockLLMService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockExtractor implements driving.ExtractorService for testing.
type mockExtractor struct {
	extraction domain.Extraction
	err        error
}

func (m *mockExtractor) Extract(_ context.Context, _ string) (domain.Extraction, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.extraction.Clone(), nil
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

// spyCalculator wraps the real calculator and counts invocations.
type spyCalculator struct {
	calls  int
	panels []domain.BiomarkerPanel
}

func (s *spyCalculator) Calculate(ctx context.Context, panel domain.BiomarkerPanel) (*domain.PhenoAgeResult, error) {
	s.calls++
	s.panels = append(s.panels, panel)
	return NewCalculatorService().Calculate(ctx, panel)
}
