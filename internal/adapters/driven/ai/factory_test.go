package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

func TestInitResult_Close(t *testing.T) {
	t.Run("close with nil services", func(t *testing.T) {
		result := &InitResult{}
		// Should not panic
		result.Close()
	})
}

func TestInitialise(t *testing.T) {
	t.Run("unconfigured provider warns", func(t *testing.T) {
		result := Initialise(context.Background(), &domain.LLMSettings{Provider: domain.AIProviderOpenAI})

		assert.Nil(t, result.LLMService)
		require.Len(t, result.Warnings, 1)
		assert.Contains(t, result.Warnings[0], "phenoage settings llm")
	})

	t.Run("nil settings warns", func(t *testing.T) {
		result := Initialise(context.Background(), nil)

		assert.Nil(t, result.LLMService)
		assert.NotEmpty(t, result.Warnings)
	})

	t.Run("configured provider creates service without ping", func(t *testing.T) {
		result := Initialise(context.Background(), &domain.LLMSettings{
			Provider: domain.AIProviderOllama,
			BaseURL:  "http://127.0.0.1:1",
			Model:    "llama3.2",
		})
		defer result.Close()

		require.NotNil(t, result.LLMService)
		assert.Empty(t, result.Warnings)
		assert.Equal(t, "llama3.2", result.LLMService.ModelName())
	})
}

func TestCreateLLMService(t *testing.T) {
	tests := []struct {
		name      string
		settings  *domain.LLMSettings
		wantNil   bool
		wantModel string
	}{
		{
			name:     "nil settings returns nil",
			settings: nil,
			wantNil:  true,
		},
		{
			name:     "unconfigured settings returns nil",
			settings: &domain.LLMSettings{},
			wantNil:  true,
		},
		{
			name:     "unknown provider is not configured",
			settings: &domain.LLMSettings{Provider: "unknown", APIKey: "test-key"},
			wantNil:  true,
		},
		{
			name:      "ollama",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOllama, Model: "llama3.2"},
			wantModel: "llama3.2",
		},
		{
			name:      "openai",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderOpenAI, APIKey: "sk-test", Model: "gpt-4o"},
			wantModel: "gpt-4o",
		},
		{
			name:      "anthropic",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderAnthropic, APIKey: "sk-ant"},
			wantModel: "claude-3-5-sonnet-latest",
		},
		{
			name:      "gemini",
			settings:  &domain.LLMSettings{Provider: domain.AIProviderGemini, APIKey: "g-key", Model: "gemini-2.0-flash"},
			wantModel: "gemini-2.0-flash",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateLLMService(context.Background(), tt.settings)

			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, svc)
				return
			}
			require.NotNil(t, svc)
			defer svc.Close()
			assert.Equal(t, tt.wantModel, svc.ModelName())
		})
	}
}

func TestValidateLLMConfig(t *testing.T) {
	t.Run("unconfigured", func(t *testing.T) {
		err := ValidateLLMConfig(&domain.LLMSettings{Provider: domain.AIProviderAnthropic})

		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})

	t.Run("valid ollama config", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"models":[]}`))
		}))
		defer server.Close()

		err := ValidateLLMConfig(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL})

		assert.NoError(t, err)
	})

	t.Run("ping failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		err := ValidateLLMConfig(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: server.URL})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 500")
	})
}
