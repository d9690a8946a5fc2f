package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driven/panelfile"
	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

// biomarkerFlags maps flag names to the biomarker they set, in formula order.
var biomarkerFlags = []struct {
	name      string
	biomarker domain.Biomarker
}{
	{"albumin", domain.BiomarkerAlbumin},
	{"creatinine", domain.BiomarkerCreatinine},
	{"glucose", domain.BiomarkerGlucose},
	{"crp", domain.BiomarkerCRP},
	{"lymphocyte-percent", domain.BiomarkerLymphocytePercent},
	{"mcv", domain.BiomarkerMeanCellVolume},
	{"rdw", domain.BiomarkerRedCellDistribution},
	{"alp", domain.BiomarkerAlkalinePhosphatase},
	{"wbc", domain.BiomarkerWhiteBloodCellCount},
	{"age", domain.BiomarkerAge},
}

var (
	calcFile string
	calcJSON bool
)

var calcCmd = &cobra.Command{
	Use:   "calc",
	Short: "Calculate phenotypic age from biomarker values",
	Long: `Calculate phenotypic age from the nine blood biomarkers and chronological age.

Values come from flags, a panel file (--file) or both; flags override the file.
Panel files are flat YAML, TOML or JSON mappings of biomarker names to numbers.

Examples:
  phenoage calc --albumin 4.2 --creatinine 0.9 --glucose 95 --crp 1.1 \
    --lymphocyte-percent 28 --mcv 91 --rdw 13.4 --alp 72 --wbc 5.8 --age 45

  phenoage calc --file panel.yaml --age 46`,
	Args: cobra.NoArgs,
	RunE: runCalc,
}

func init() {
	for _, f := range biomarkerFlags {
		calcCmd.Flags().Float64(f.name, 0, fmt.Sprintf("%s (%s)", f.biomarker.Description(), f.biomarker.Unit()))
	}
	calcCmd.Flags().StringVarP(&calcFile, "file", "f", "", "panel file (.yaml, .yml, .toml or .json)")
	calcCmd.Flags().BoolVar(&calcJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(calcCmd)
}

func runCalc(cmd *cobra.Command, _ []string) error {
	if err := requireCalculator(); err != nil {
		return err
	}

	extraction := domain.NewExtraction()
	if calcFile != "" {
		fromFile, err := panelfile.Load(calcFile)
		if err != nil {
			return err
		}
		extraction = fromFile
	}

	fromFlags, err := extractionFromFlags(cmd)
	if err != nil {
		return err
	}

	return calculateAndPrint(cmd, extraction.Merge(fromFlags), calcJSON)
}

// extractionFromFlags returns the values of the biomarker flags that were set.
func extractionFromFlags(cmd *cobra.Command) (domain.Extraction, error) {
	e := domain.NewExtraction()
	for _, f := range biomarkerFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		v, err := cmd.Flags().GetFloat64(f.name)
		if err != nil {
			return nil, fmt.Errorf("getting %s flag: %w", f.name, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: --%s must be a finite number", domain.ErrInvalidInput, f.name)
		}
		if f.biomarker == domain.BiomarkerAge {
			if err := domain.ValidateAge(v); err != nil {
				return nil, err
			}
		}
		e.Set(f.biomarker, v)
	}
	return e, nil
}

// calculateAndPrint resolves the extraction and prints the result.
// An incomplete panel lists what is missing on stderr.
func calculateAndPrint(cmd *cobra.Command, e domain.Extraction, asJSON bool) error {
	panel, err := e.Panel()
	if err != nil {
		printMissing(cmd, e)
		return err
	}

	result, err := calculatorService.Calculate(cmd.Context(), panel)
	if err != nil {
		return err
	}

	if asJSON {
		return printJSON(cmd, newResultOutput(e, result))
	}
	fmt.Fprintln(cmd.OutOrStdout(), domain.ResultMessage(*result))
	return nil
}
