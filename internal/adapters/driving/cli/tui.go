package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

// newProgram starts the bubbletea program. Replaced in tests.
var newProgram = func(m tea.Model) interface{ Run() (tea.Model, error) } {
	return tea.NewProgram(m, tea.WithAltScreen())
}

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for phenoage.

Paste a lab report and let the configured model find the values, or type the
ten values into a form. Report assessment is only offered when a language
model is configured.

Controls:
  ↑/k, ↓/j   - Navigate menu
  Tab        - Next field
  Enter      - Select / Calculate
  Ctrl+S     - Assess the pasted report
  Ctrl+R     - Start over
  Esc        - Back
  q, Ctrl+C  - Quit

Use --report to start on the assess view with a report file already loaded.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

var tuiReport string

func init() {
	tuiCmd.Flags().StringVarP(&tuiReport, "report", "r", "", "open the assess view with this report file loaded")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panicked: %v", r)
		}
	}()

	ports := &tui.Ports{
		Calculator: calculatorService,
		Assessment: assessmentService,
		Settings:   settingsService,
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if tuiReport != "" {
		text, err := tuiReportText(cmd)
		if err != nil {
			return err
		}
		app.WithReport(text)
	}

	if _, err := newProgram(app).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// tuiReportText reads the --report file. The terminal owns stdin, so "-" is
// refused.
func tuiReportText(cmd *cobra.Command) (string, error) {
	if assessmentService == nil {
		return "", errNoLLM
	}
	if tuiReport == "-" {
		return "", fmt.Errorf("%w: the TUI cannot read a report from stdin", domain.ErrInvalidInput)
	}
	return readReport(cmd, tuiReport)
}
