// Package ai provides factory functions for creating LLM service adapters
// from settings.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/phenoage-cli/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/phenoage-cli/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/phenoage-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/phenoage-cli/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

const settingsHint = "Run 'phenoage settings llm' to fix"

// InitResult contains the result of LLM service initialisation.
type InitResult struct {
	LLMService driven.LLMService
	Warnings   []string // Non-fatal issues; extraction is disabled when LLMService is nil.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Initialise creates the LLM service without pinging it. Failures are
// recorded as warnings so calculation from explicit values keeps working.
func Initialise(ctx context.Context, settings *domain.LLMSettings) *InitResult {
	result := &InitResult{}

	if settings == nil || !settings.IsConfigured() {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("LLM provider not configured; lab report extraction disabled. %s", settingsHint))
		return result
	}

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("LLM unavailable: %v. %s", err, settingsHint))
		return result
	}

	result.LLMService = svc
	return result
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// An unconfigured provider is reported as domain.ErrLLMUnavailable.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return fmt.Errorf("%w: provider not configured", domain.ErrLLMUnavailable)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	return svc.Ping(ctx)
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	case domain.AIProviderGemini:
		return createGeminiLLM(ctx, settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createGeminiLLM creates a Gemini LLM service.
func createGeminiLLM(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	return geminillm.NewLLMService(ctx, geminillm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
