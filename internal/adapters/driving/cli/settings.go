package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/logger"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the language model used to read lab reports and the
extraction limits.

Use subcommands to change specific settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long: `Configure the LLM provider used to extract biomarkers from lab reports.

Without flags, an interactive prompt asks for provider, model and API key.
API keys may also come from OPENAI_API_KEY, ANTHROPIC_API_KEY or GEMINI_API_KEY.

Examples:
  phenoage settings llm --provider anthropic --api-key sk-ant-...
  phenoage settings llm --provider ollama --model llama3.2 --base-url http://gpu-box:11434`,
	RunE: runSettingsLLM,
}

var settingsExtractionCmd = &cobra.Command{
	Use:   "extraction",
	Short: "Configure extraction limits",
	Long:  `Set how many reports are extracted at once and how many LLM requests are sent per second.`,
	RunE:  runSettingsExtraction,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check settings and test the LLM connection",
	RunE:  runSettingsValidate,
}

var (
	llmProvider    string
	llmModel       string
	llmAPIKey      string
	llmBaseURL     string
	llmTemperature float64

	extractionConcurrency int
	extractionRateLimit   float64
)

func init() {
	settingsLLMCmd.Flags().StringVar(&llmProvider, "provider", "", "openai, anthropic, gemini or ollama")
	settingsLLMCmd.Flags().StringVar(&llmModel, "model", "", "model name (default depends on provider)")
	settingsLLMCmd.Flags().StringVar(&llmAPIKey, "api-key", "", "API key for cloud providers")
	settingsLLMCmd.Flags().StringVar(&llmBaseURL, "base-url", "", "API endpoint override")
	settingsLLMCmd.Flags().Float64Var(&llmTemperature, "temperature", domain.DefaultTemperature, "sampling temperature (0-2)")

	settingsExtractionCmd.Flags().IntVar(&extractionConcurrency, "concurrency", domain.DefaultConcurrency, "reports extracted at once")
	settingsExtractionCmd.Flags().Float64Var(&extractionRateLimit, "rate-limit", domain.DefaultRateLimit, "LLM requests per second")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsExtractionCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func requireSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Current Settings")
	fmt.Fprintln(w, "================")
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[LLM]")
	fmt.Fprintf(w, "  Provider: %s\n", settings.LLM.Provider.Description())
	fmt.Fprintf(w, "  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		fmt.Fprintf(w, "  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			fmt.Fprintf(w, "  API Key: %s\n", logger.Redact(settings.LLM.APIKey))
		} else {
			fmt.Fprintf(w, "  API Key: (not set, or export %s)\n", settings.LLM.Provider.APIKeyEnv())
		}
	}
	fmt.Fprintf(w, "  Temperature: %g\n", settings.LLM.Temperature)
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	fmt.Fprintf(w, "  Status: %s\n", status)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "[Extraction]")
	fmt.Fprintf(w, "  Concurrency: %d\n", settings.Extraction.Concurrency)
	fmt.Fprintf(w, "  Rate limit: %g requests/s\n", settings.Extraction.RateLimit)
	fmt.Fprintln(w)

	if err := settingsService.Validate(); err != nil {
		fmt.Fprintf(w, "Warning: %v\n", err)
		fmt.Fprintln(w, "Run 'phenoage settings llm' to fix configuration issues.")
	} else {
		fmt.Fprintln(w, "Configuration is valid.")
	}

	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	if !cmd.Flags().Changed("provider") {
		if !llmFlagsChanged(cmd) && stdinIsTerminal() {
			return configureLLMProvider(cmd, bufio.NewReader(cmd.InOrStdin()))
		}
		return errors.New("--provider is required")
	}

	provider := domain.AIProvider(strings.ToLower(strings.TrimSpace(llmProvider)))
	if err := settingsService.SetLLMProvider(provider, llmModel, llmAPIKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	if cmd.Flags().Changed("base-url") || cmd.Flags().Changed("temperature") {
		settings, err := settingsService.Get()
		if err != nil {
			return fmt.Errorf("failed to get settings: %w", err)
		}
		if cmd.Flags().Changed("base-url") {
			settings.LLM.BaseURL = llmBaseURL
		}
		if cmd.Flags().Changed("temperature") {
			settings.LLM.Temperature = llmTemperature
		}
		if err := settingsService.Save(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
	}

	if err := settingsService.Validate(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "LLM provider configured: %s (%s)\n",
		settings.LLM.Provider.Description(), settings.LLM.Model)
	return nil
}

func llmFlagsChanged(cmd *cobra.Command) bool {
	for _, name := range []string{"provider", "model", "api-key", "base-url", "temperature"} {
		if cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}

func runSettingsExtraction(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if cmd.Flags().Changed("concurrency") {
		settings.Extraction.Concurrency = extractionConcurrency
	}
	if cmd.Flags().Changed("rate-limit") {
		settings.Extraction.RateLimit = extractionRateLimit
	}
	if settings.Extraction.Concurrency < 1 || !(settings.Extraction.RateLimit > 0) {
		return fmt.Errorf("%w: concurrency must be at least 1 and rate limit positive", domain.ErrInvalidInput)
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Extraction: %d at once, %g requests/s\n",
		settings.Extraction.Concurrency, settings.Extraction.RateLimit)
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if err := requireSettings(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if err := settingsService.Validate(); err != nil {
		return err
	}

	fmt.Fprint(w, "Validating LLM connection... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		fmt.Fprintln(w, "FAILED")
		return err
	}
	fmt.Fprintln(w, "OK")
	return nil
}

// configureLLMProvider runs the interactive provider setup.
func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, "Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		fmt.Fprintf(w, "  %d. %s\n", i+1, p.Description())
	}
	fmt.Fprint(w, "\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	fmt.Fprintf(w, "Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() && os.Getenv(selectedProvider.APIKeyEnv()) == "" {
		fmt.Fprint(w, "Enter API key: ")
		apiKey = readPassword(reader)
		fmt.Fprintln(w)
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	fmt.Fprint(w, "Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		fmt.Fprintf(w, "FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	fmt.Fprintln(w, "OK")

	fmt.Fprintf(w, "LLM provider configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo from a terminal, otherwise a plain line.
func readPassword(reader *bufio.Reader) string {
	if stdinIsTerminal() {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}
