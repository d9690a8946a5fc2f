package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

var assessJSON bool

var assessCmd = &cobra.Command{
	Use:   "assess [file]",
	Short: "Calculate phenotypic age from a lab report",
	Long: `Extract biomarkers from a lab report and calculate phenotypic age.

If the report does not state an age, it is taken from --age or, when running
in a terminal, asked for interactively. The report is read from standard input
when no file is given or the file is "-".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().Float64("age", 0, "chronological age in years, used if the report has none")
	assessCmd.Flags().BoolVar(&assessJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, args []string) error {
	if assessmentService == nil {
		return errNoLLM
	}

	path := "-"
	if len(args) == 1 {
		path = args[0]
	}
	report, err := readReport(cmd, path)
	if err != nil {
		return err
	}

	var opts domain.AssessOptions
	if cmd.Flags().Changed("age") {
		age, err := cmd.Flags().GetFloat64("age")
		if err != nil {
			return fmt.Errorf("getting age flag: %w", err)
		}
		opts.Age = &age
	}

	assessment, err := assessmentService.Assess(cmd.Context(), report, opts)
	if errors.Is(err, domain.ErrIncompletePanel) && onlyAgeMissing(assessment) && path != "-" && stdinIsTerminal() {
		return promptAgeAndCalculate(cmd, assessment)
	}
	if err != nil {
		if assessment != nil && errors.Is(err, domain.ErrIncompletePanel) {
			printMissing(cmd, assessment.Extraction)
		}
		return err
	}

	return printAssessment(cmd, assessment)
}

func onlyAgeMissing(a *domain.Assessment) bool {
	if a == nil {
		return false
	}
	missing := a.Missing()
	return len(missing) == 1 && missing[0] == domain.BiomarkerAge
}

// promptAgeAndCalculate asks for the age the report did not state and
// completes the assessment without extracting again.
func promptAgeAndCalculate(cmd *cobra.Command, a *domain.Assessment) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	age, err := promptAge(cmd, reader)
	if err != nil {
		return err
	}

	a.Extraction = a.Extraction.WithAge(age)
	panel, err := a.Extraction.Panel()
	if err != nil {
		return err
	}

	result, err := calculatorService.Calculate(cmd.Context(), panel)
	if err != nil {
		return err
	}
	a.Result = result
	return printAssessment(cmd, a)
}

// promptAge reads an age in years, asking again on invalid input.
func promptAge(cmd *cobra.Command, reader *bufio.Reader) (float64, error) {
	for attempt := 0; attempt < 3; attempt++ {
		cmd.PrintErr("The report does not state an age. Enter your age in years: ")
		line, readErr := reader.ReadString('\n')
		age, err := parseAge(line)
		if err == nil {
			return age, nil
		}
		if readErr != nil {
			return 0, fmt.Errorf("%w: no age entered", domain.ErrIncompletePanel)
		}
		cmd.PrintErrln(err)
	}
	return 0, fmt.Errorf("%w: no valid age entered", domain.ErrIncompletePanel)
}

func parseAge(input string) (float64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("%w: age is required", domain.ErrInvalidInput)
	}
	age, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrInvalidInput, input)
	}
	if err := domain.ValidateAge(age); err != nil {
		return 0, err
	}
	return age, nil
}

func printAssessment(cmd *cobra.Command, a *domain.Assessment) error {
	if assessJSON {
		out := newResultOutput(a.Extraction, a.Result)
		out.ID = a.ID
		return printJSON(cmd, out)
	}
	fmt.Fprintln(cmd.OutOrStdout(), domain.ResultMessage(*a.Result))
	return nil
}
