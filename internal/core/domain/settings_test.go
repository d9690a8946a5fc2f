package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestAIProvider_IsValid tests all valid and invalid providers
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{name: "ollama is valid", provider: AIProviderOllama, expected: true},
		{name: "openai is valid", provider: AIProviderOpenAI, expected: true},
		{name: "anthropic is valid", provider: AIProviderAnthropic, expected: true},
		{name: "gemini is valid", provider: AIProviderGemini, expected: true},
		{name: "empty string is invalid", provider: AIProvider(""), expected: false},
		{name: "unknown provider is invalid", provider: AIProvider("mistral"), expected: false},
		{name: "case sensitive", provider: AIProvider("OpenAI"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

// TestAIProvider_RequiresAPIKey tests which providers need credentials
func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.True(t, AIProviderGemini.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
}

// TestAIProvider_IsLocal tests local provider detection
func TestAIProvider_IsLocal(t *testing.T) {
	assert.True(t, AIProviderOllama.IsLocal())
	assert.False(t, AIProviderOpenAI.IsLocal())
	assert.False(t, AIProviderGemini.IsLocal())
}

func TestAIProvider_APIKeyEnv(t *testing.T) {
	assert.Equal(t, "OPENAI_API_KEY", AIProviderOpenAI.APIKeyEnv())
	assert.Equal(t, "ANTHROPIC_API_KEY", AIProviderAnthropic.APIKeyEnv())
	assert.Equal(t, "GEMINI_API_KEY", AIProviderGemini.APIKeyEnv())
	assert.Empty(t, AIProviderOllama.APIKeyEnv())
}

// TestAIProvider_Description tests human-readable descriptions
func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "Ollama (local)", AIProviderOllama.Description())
	assert.Equal(t, "OpenAI (cloud)", AIProviderOpenAI.Description())
	assert.Equal(t, "Anthropic (cloud)", AIProviderAnthropic.Description())
	assert.Equal(t, "Gemini (cloud)", AIProviderGemini.Description())
	assert.Equal(t, "Unknown", AIProvider("other").Description())
}

// TestLLMSettings_IsConfigured tests configuration completeness
func TestLLMSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings LLMSettings
		expected bool
	}{
		{
			name:     "empty settings",
			settings: LLMSettings{},
			expected: false,
		},
		{
			name:     "ollama without key",
			settings: LLMSettings{Provider: AIProviderOllama},
			expected: true,
		},
		{
			name:     "openai without key",
			settings: LLMSettings{Provider: AIProviderOpenAI},
			expected: false,
		},
		{
			name:     "openai with key",
			settings: LLMSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"},
			expected: true,
		},
		{
			name:     "gemini with key",
			settings: LLMSettings{Provider: AIProviderGemini, APIKey: "g-test"},
			expected: true,
		},
		{
			name:     "invalid provider with key",
			settings: LLMSettings{Provider: "invalid", APIKey: "key"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.settings.IsConfigured())
		})
	}
}

// TestDefaultAppSettings tests the shipped defaults
func TestDefaultAppSettings(t *testing.T) {
	defaults := DefaultAppSettings()

	assert.Equal(t, AIProviderOpenAI, defaults.LLM.Provider)
	assert.Equal(t, "gpt-4o", defaults.LLM.Model)
	assert.Equal(t, 0.0, defaults.LLM.Temperature)
	assert.False(t, defaults.LLM.IsConfigured(), "no API key by default")
	assert.Equal(t, DefaultConcurrency, defaults.Extraction.Concurrency)
	assert.Equal(t, DefaultRateLimit, defaults.Extraction.RateLimit)
}

// TestDefaultLLMModels tests every provider has a default model
func TestDefaultLLMModels(t *testing.T) {
	models := DefaultLLMModels()
	for _, p := range AllLLMProviders() {
		assert.NotEmpty(t, models[p], "provider %s has no default model", p)
	}
}
