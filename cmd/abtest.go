package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/simulate"
	"github.com/KaramelBytes/eda-cli/internal/table"
)

var (
	abTreatmentCol string
	abControlVal   string
	abTreatmentVal string
	abBaseRate     float64
	abLift         float64
	abTestSize     float64
	abSeed         int64
	abMaxIter      int
)

var abtestCmd = &cobra.Command{
	Use:   "abtest <file>",
	Short: "Simulate an A/B test on a dataset and test the difference in outcome rates",
	Long: `Each row is randomly assigned to control or treatment (--test-size is the
treatment share). The treatment column receives --control-value or
--treatment-value, and a binary outcome is drawn with probability --base-rate,
plus --lift for treated rows. Outcome rates are compared with a two-proportion
z-test and a logistic regression over the remaining columns.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(cmd, args[0])
		if err != nil {
			return err
		}
		c := config()
		testSize, seed := c.TestSize, c.Seed
		if cmd.Flags().Changed("test-size") {
			testSize = abTestSize
		}
		if cmd.Flags().Changed("seed") {
			seed = abSeed
		}
		if abBaseRate < 0 || abBaseRate+abLift > 1 || abBaseRate+abLift < 0 {
			return fmt.Errorf("base rate %.3f with lift %.3f is not a probability", abBaseRate, abLift)
		}
		src := simulate.NewSource(seed)
		cfgAB := simulate.ABConfig{
			TreatmentColumn: abTreatmentCol,
			Treatment: func(group string) string {
				if group == simulate.Treatment {
					return abTreatmentVal
				}
				return abControlVal
			},
			Outcome: func(r table.Row) bool {
				p := abBaseRate
				if r.Get(abTreatmentCol) == abTreatmentVal {
					p += abLift
				}
				return src.Rand.Float64() < p
			},
			TestSize: testSize,
			MaxIter:  abMaxIter,
		}
		res, err := simulate.ABTest(t, cfgAB, src, newSink(cmd))
		if err != nil {
			return err
		}
		return render(cmd, []*simulate.ABResult{res})
	},
}

func init() {
	rootCmd.AddCommand(abtestCmd)
	f := abtestCmd.Flags()
	f.StringVar(&abTreatmentCol, "treatment-column", "variant", "column receiving the treatment value")
	f.StringVar(&abControlVal, "control-value", "A", "treatment column value for control rows")
	f.StringVar(&abTreatmentVal, "treatment-value", "B", "treatment column value for treated rows")
	f.Float64Var(&abBaseRate, "base-rate", 0.1, "outcome probability for control rows")
	f.Float64Var(&abLift, "lift", 0.05, "added outcome probability for treated rows")
	f.Float64Var(&abTestSize, "test-size", 0.5, "share of rows assigned to treatment")
	f.Int64Var(&abSeed, "seed", 42, "random seed")
	f.IntVar(&abMaxIter, "max-iter", 1000, "logistic regression iterations")
}
