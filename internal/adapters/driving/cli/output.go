package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

// resultOutput is the --json shape of a calculation.
type resultOutput struct {
	ID            string            `json:"id,omitempty"`
	Values        domain.Extraction `json:"values"`
	Missing       []string          `json:"missing"`
	PhenoAgeYears *float64          `json:"phenoage_years,omitempty"`
	Formatted     string            `json:"formatted,omitempty"`
}

func newResultOutput(e domain.Extraction, result *domain.PhenoAgeResult) resultOutput {
	out := resultOutput{Values: e, Missing: missingNames(e)}
	if result != nil {
		years := result.Years
		out.PhenoAgeYears = &years
		out.Formatted = domain.ResultMessage(*result)
	}
	return out
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// printExtraction writes one line per biomarker in formula order.
func printExtraction(cmd *cobra.Command, e domain.Extraction) {
	w := cmd.OutOrStdout()
	for _, b := range domain.AllBiomarkers() {
		if v, ok := e.Get(b); ok {
			fmt.Fprintf(w, "  %-34s %10g %s\n", b, v, b.Unit())
		} else {
			fmt.Fprintf(w, "  %-34s %10s\n", b, "(not found)")
		}
	}
}

// printMissing explains an incomplete panel on stderr.
func printMissing(cmd *cobra.Command, e domain.Extraction) {
	if missing := missingNames(e); len(missing) > 0 {
		cmd.PrintErrf("Missing: %s\n", strings.Join(missing, ", "))
	}
}

func missingNames(e domain.Extraction) []string {
	missing := e.Missing()
	out := make([]string, len(missing))
	for i, b := range missing {
		out[i] = b.String()
	}
	return out
}
