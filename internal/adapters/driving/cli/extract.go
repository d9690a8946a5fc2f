package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

var extractJSON bool

var extractCmd = &cobra.Command{
	Use:   "extract [file...]",
	Short: "Extract biomarker values from lab reports",
	Long: `Extract the PhenoAge biomarkers from free-text lab reports with the
configured language model. Values the report does not contain are shown as
not found; they are never guessed.

Reads standard input when no file is given or the file is "-". Plain text,
Markdown, HTML, email (.eml) and Word (.docx) reports are accepted. Several
files are extracted concurrently, limited by the extraction settings.`,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output values as JSON")
	rootCmd.AddCommand(extractCmd)
}

// extractOutput is the --json shape of one extracted report.
type extractOutput struct {
	Source  string            `json:"source"`
	Values  domain.Extraction `json:"values"`
	Missing []string          `json:"missing"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractorService == nil {
		return errNoLLM
	}

	if len(args) == 0 {
		args = []string{"-"}
	}

	reports := make([]string, len(args))
	for i, path := range args {
		report, err := readReport(cmd, path)
		if err != nil {
			return err
		}
		reports[i] = report
	}

	var extractions []domain.Extraction
	if len(reports) == 1 {
		e, err := extractorService.Extract(cmd.Context(), reports[0])
		if err != nil {
			return err
		}
		extractions = []domain.Extraction{e}
	} else {
		all, err := extractorService.ExtractAll(cmd.Context(), reports)
		if err != nil {
			return err
		}
		extractions = all
	}

	if extractJSON {
		outputs := make([]extractOutput, len(extractions))
		for i, e := range extractions {
			outputs[i] = extractOutput{Source: sourceName(args[i]), Values: e, Missing: missingNames(e)}
		}
		if len(outputs) == 1 {
			return printJSON(cmd, outputs[0])
		}
		return printJSON(cmd, outputs)
	}

	w := cmd.OutOrStdout()
	for i, e := range extractions {
		if len(extractions) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "%s:\n", sourceName(args[i]))
		}
		printExtraction(cmd, e)
	}
	return nil
}

// readReport reads a report file, or the command's stdin for "-", and
// converts HTML, email and Word documents to text.
func readReport(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("read report %s: %w", sourceName(path), err)
	}
	if reportService == nil {
		return string(data), nil
	}
	return reportService.Read(cmd.Context(), path, data)
}

func sourceName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return path
}
