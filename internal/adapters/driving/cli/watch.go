package cli

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/phenoage-cli/internal/adapters/driven/panelfile"
	"github.com/custodia-labs/phenoage-cli/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch <panel-file>",
	Short: "Recalculate whenever a panel file changes",
	Long: `Calculate phenotypic age from a panel file, then recalculate every time
the file is saved. Stop with Ctrl+C.

Biomarker flags (as for calc) fill values the file does not set.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	for _, f := range biomarkerFlags {
		watchCmd.Flags().Float64(f.name, 0, fmt.Sprintf("%s (%s)", f.biomarker.Description(), f.biomarker.Unit()))
	}
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireCalculator(); err != nil {
		return err
	}
	path := args[0]

	defaults, err := extractionFromFlags(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	recalculate := func(e domain.Extraction) {
		stamp := time.Now().Format(time.TimeOnly)
		merged := defaults.Merge(e)

		panel, err := merged.Panel()
		if err != nil {
			printMissing(cmd, merged)
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] Error: %s\n", stamp, domain.PresentError(err))
			return
		}
		result, err := calculatorService.Calculate(ctx, panel)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] Error: %s\n", stamp, domain.PresentError(err))
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", stamp, domain.ResultMessage(*result))
	}

	initial, err := panelfile.Load(path)
	if err != nil {
		return err
	}
	recalculate(initial)

	return panelfile.Watch(ctx, path, recalculate, func(err error) {
		printError(cmd.ErrOrStderr(), err)
	})
}
