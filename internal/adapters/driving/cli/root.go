// Package cli implements the phenoage command line with cobra.
// Services are injected by the entrypoint through SetServices before Execute.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
	"github.com/custodia-labs/phenoage-cli/internal/core/ports/driving"
	"github.com/custodia-labs/phenoage-cli/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Services wired by the entrypoint. Extractor and Assessment are nil when no
// LLM could be initialised; commands that need them report that.
var (
	calculatorService driving.CalculatorService
	extractorService  driving.ExtractorService
	assessmentService driving.AssessmentService
	settingsService   driving.SettingsService
	reportService     driving.ReportService
)

var verbose bool

// startupWarnings are logged once --verbose has been parsed.
var startupWarnings []string

// stdinIsTerminal reports whether interactive prompts can be shown.
// Replaced in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var rootCmd = &cobra.Command{
	Use:   "phenoage",
	Short: "Estimate phenotypic age from blood biomarkers",
	Long: `phenoage estimates biological age with the Levine PhenoAge formula.

Values can be entered directly (calc), read from a panel file (calc --file,
watch) or extracted from a free-text lab report with a language model
(extract, assess).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		for _, w := range startupWarnings {
			logger.Warn("%s", w)
		}
		if logger.IsVerbose() {
			checkProvider()
		}
	},
}

// checkProvider pings the configured model so verbose runs report an
// unreachable provider before a command needs it.
func checkProvider() {
	if extractorService == nil || settingsService == nil {
		return
	}
	if err := settingsService.ValidateLLMConfig(); err != nil {
		logger.Warn("LLM provider unreachable: %v. Run 'phenoage settings llm' to fix", err)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output to stderr")
}

// Services groups the driving ports used by the commands.
type Services struct {
	Calculator driving.CalculatorService
	Extractor  driving.ExtractorService
	Assessment driving.AssessmentService
	Settings   driving.SettingsService
	Reports    driving.ReportService
}

// SetServices injects the services used by all commands.
func SetServices(s Services) {
	calculatorService = s.Calculator
	extractorService = s.Extractor
	assessmentService = s.Assessment
	settingsService = s.Settings
	reportService = s.Reports
}

// SetWarnings records non-fatal startup problems, such as a missing LLM
// configuration, for verbose output.
func SetWarnings(warnings []string) {
	startupWarnings = warnings
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command. Errors are printed to stderr in their
// user-facing form and returned so the caller can set the exit code.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		printError(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func printError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", domain.PresentError(err))
}

var errNoLLM = fmt.Errorf("%w: no extractor configured", domain.ErrLLMUnavailable)

func requireCalculator() error {
	if calculatorService == nil {
		return errors.New("calculator service not configured")
	}
	return nil
}
