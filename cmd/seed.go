package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"talenttrack/internal/bootstrap"
	"talenttrack/internal/errs"
	"talenttrack/internal/usecase/seed"
)

var (
	seedDemo       bool
	seedCohortSize int
)

// seedCmd loads the reference dimensions; with --demo it also generates a
// staging population.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed reference data, optionally with a demo population",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *services) error {
		summary, err := svc.Seed.Run(cmd.Context(), seed.Input{
			Demo:       seedDemo,
			CohortSize: seedCohortSize,
		})
		if err != nil {
			return errs.Wrap(err, "seed database")
		}

		if summary.Candidates > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "seeded reference data and %d demo candidates\n", summary.Candidates)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "seeded reference data")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "Also generate a demo candidate population")
	seedCmd.Flags().IntVar(&seedCohortSize, "cohort-size", 100, "Demo candidates per scheme")
}
