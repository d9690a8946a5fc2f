package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

func noEnv(string) string { return "" }

func newTestSettingsService(store *memory.ConfigStore, validator *mockAIConfigValidator) *SettingsService {
	var service *SettingsService
	if validator == nil {
		service = NewSettingsService(store, nil)
	} else {
		service = NewSettingsService(store, validator)
	}
	service.getenv = noEnv
	return service
}

// seededStore returns a memory store holding values.
func seededStore(t *testing.T, values map[string]any) *memory.ConfigStore {
	t.Helper()
	store := memory.NewConfigStore()
	for k, v := range values {
		require.NoError(t, store.Set(k, v))
	}
	return store
}

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, defaults.LLM.Model, settings.LLM.Model)
	assert.Equal(t, defaults.LLM.Temperature, settings.LLM.Temperature)
	assert.Equal(t, defaults.Extraction, settings.Extraction)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "anthropic")
	_ = store.Set("llm.model", "claude-3-5-haiku-latest")
	_ = store.Set("llm.temperature", 0.3)
	_ = store.Set("extraction.concurrency", 8)
	_ = store.Set("extraction.rate_limit", int64(5))

	service := newTestSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderAnthropic, settings.LLM.Provider)
	assert.Equal(t, "claude-3-5-haiku-latest", settings.LLM.Model)
	assert.Equal(t, 0.3, settings.LLM.Temperature)
	assert.Equal(t, 8, settings.Extraction.Concurrency)
	assert.Equal(t, 5.0, settings.Extraction.RateLimit)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "invalid_provider")
	_ = store.Set("extraction.concurrency", -3)
	_ = store.Set("extraction.rate_limit", 0.0)

	service := newTestSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.LLM.Provider, settings.LLM.Provider)
	assert.Equal(t, defaults.Extraction.Concurrency, settings.Extraction.Concurrency)
	assert.Equal(t, defaults.Extraction.RateLimit, settings.Extraction.RateLimit)
}

func TestSettingsService_Get_ExplicitZeroTemperature(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.temperature", int64(0))

	service := newTestSettingsService(store, nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, 0.0, settings.LLM.Temperature)
}

func TestSettingsService_Get_APIKeyFromEnvironment(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "gemini")

	service := newTestSettingsService(store, nil)
	service.getenv = func(key string) string {
		if key == "GEMINI_API_KEY" {
			return "env-key"
		}
		return ""
	}

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "env-key", settings.LLM.APIKey)
	assert.True(t, settings.LLM.IsConfigured())
}

func TestSettingsService_Get_ConfigKeyWinsOverEnvironment(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.api_key", "sk-config")

	service := newTestSettingsService(store, nil)
	service.getenv = func(string) string { return "sk-env" }

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, "sk-config", settings.LLM.APIKey)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettingsService(store, nil)

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider:    domain.AIProviderAnthropic,
			Model:       "claude-3-5-sonnet-latest",
			APIKey:      "sk-ant-test",
			Temperature: 0.2,
		},
		Extraction: domain.ExtractionSettings{
			Concurrency: 2,
			RateLimit:   0.5,
		},
	}

	err := service.Save(settings)
	require.NoError(t, err)

	retrieved, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, retrieved)
}

func TestSettingsService_Save_DoesNotPersistEnvironmentKey(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettingsService(store, nil)
	service.getenv = func(key string) string {
		if key == "OPENAI_API_KEY" {
			return "sk-env"
		}
		return ""
	}

	settings, err := service.Get()
	require.NoError(t, err)
	require.Equal(t, "sk-env", settings.LLM.APIKey)

	require.NoError(t, service.Save(settings))

	_, stored := store.Get("llm.api_key")
	assert.False(t, stored)
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	tests := []struct {
		name        string
		provider    domain.AIProvider
		model       string
		apiKey      string
		wantModel   string
		wantBaseURL string
	}{
		{"openai default model", domain.AIProviderOpenAI, "", "sk-test", "gpt-4o", ""},
		{"openai custom model", domain.AIProviderOpenAI, "gpt-4o-mini", "sk-test", "gpt-4o-mini", ""},
		{"anthropic", domain.AIProviderAnthropic, "", "sk-ant", "claude-3-5-sonnet-latest", ""},
		{"gemini", domain.AIProviderGemini, "", "g-key", "gemini-2.0-flash", ""},
		{"ollama gets local url", domain.AIProviderOllama, "", "", "llama3.2", "http://localhost:11434"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestSettingsService(memory.NewConfigStore(), nil)

			err := service.SetLLMProvider(tt.provider, tt.model, tt.apiKey)
			require.NoError(t, err)

			settings, err := service.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.LLM.Provider)
			assert.Equal(t, tt.wantModel, settings.LLM.Model)
			assert.Equal(t, tt.wantBaseURL, settings.LLM.BaseURL)
			assert.Equal(t, tt.apiKey, settings.LLM.APIKey)
		})
	}
}

func TestSettingsService_SetLLMProvider_Errors(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)

	err := service.SetLLMProvider("mistral", "", "key")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = service.SetLLMProvider(domain.AIProviderOpenAI, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")
}

func TestSettingsService_SetLLMProvider_KeyFromEnvironment(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)
	service.getenv = func(key string) string {
		if key == "ANTHROPIC_API_KEY" {
			return "sk-ant-env"
		}
		return ""
	}

	err := service.SetLLMProvider(domain.AIProviderAnthropic, "", "")

	require.NoError(t, err)
	settings, _ := service.Get()
	assert.Equal(t, "sk-ant-env", settings.LLM.APIKey)
}

func TestSettingsService_SetLLMProvider_ClearsPreviousKey(t *testing.T) {
	store := memory.NewConfigStore()
	service := newTestSettingsService(store, nil)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderOpenAI, "", "sk-openai"))
	require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "", ""))

	assert.Empty(t, store.GetString("llm.api_key"))
}

func TestSettingsService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		wantErr error
	}{
		{
			name:    "ollama needs no key",
			values:  map[string]any{"llm.provider": "ollama"},
			wantErr: nil,
		},
		{
			name:    "openai with key",
			values:  map[string]any{"llm.api_key": "sk-test"},
			wantErr: nil,
		},
		{
			name:    "openai without key",
			values:  map[string]any{},
			wantErr: domain.ErrLLMUnavailable,
		},
		{
			name:    "temperature out of range",
			values:  map[string]any{"llm.provider": "ollama", "llm.temperature": 3.5},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestSettingsService(seededStore(t, tt.values), nil)

			err := service.Validate()

			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)

	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

// Mock AIConfigValidator for testing
type mockAIConfigValidator struct {
	llmErr error
	seen   *domain.LLMSettings
}

func (m *mockAIConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	m.seen = settings
	return m.llmErr
}

func TestSettingsService_ValidateLLMConfig_NilValidator(t *testing.T) {
	service := newTestSettingsService(memory.NewConfigStore(), nil)

	err := service.ValidateLLMConfig()

	// With nil validator, should skip validation (no error)
	assert.NoError(t, err)
}

func TestSettingsService_ValidateLLMConfig_Success(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "ollama")
	validator := &mockAIConfigValidator{}
	service := newTestSettingsService(store, validator)

	err := service.ValidateLLMConfig()

	assert.NoError(t, err)
	require.NotNil(t, validator.seen)
	assert.Equal(t, domain.AIProviderOllama, validator.seen.Provider)
}

func TestSettingsService_ValidateLLMConfig_Error(t *testing.T) {
	validator := &mockAIConfigValidator{llmErr: assert.AnError}
	service := newTestSettingsService(memory.NewConfigStore(), validator)

	err := service.ValidateLLMConfig()

	assert.ErrorIs(t, err, assert.AnError)
}
