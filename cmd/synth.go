package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
	"github.com/KaramelBytes/eda-cli/internal/parser"
	"github.com/KaramelBytes/eda-cli/internal/simulate"
)

var (
	synSamples int
	synSeed    int64
	synSummary bool
)

var synthCmd = &cobra.Command{
	Use:   "synth <file>",
	Short: "Generate synthetic rows that mimic each column's distribution",
	Long: `Synth samples each column independently: numeric columns with fewer than 20
distinct values and text columns are drawn from observed values, other numeric
columns from a normal fit. The result is written as CSV unless --summary is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(cmd, args[0])
		if err != nil {
			return err
		}
		c := config()
		n, seed := c.SyntheticSamples, c.Seed
		if cmd.Flags().Changed("samples") {
			n = synSamples
		}
		if cmd.Flags().Changed("seed") {
			seed = synSeed
		}
		syn := simulate.Synthesize(t, n, simulate.NewSource(seed), newSink(cmd))
		if len(syn.Columns) == 0 {
			return fmt.Errorf("no columns could be synthesized from %s", args[0])
		}
		if synSummary {
			return render(cmd, []*analysis.Report{analysis.Overview(syn, analysis.DefaultOptions())})
		}
		var buf bytes.Buffer
		if err := parser.WriteCSV(&buf, syn); err != nil {
			return err
		}
		return writeOutput(cmd, buf.Bytes())
	},
}

func init() {
	rootCmd.AddCommand(synthCmd)
	synthCmd.Flags().IntVarP(&synSamples, "samples", "n", 1000, "number of synthetic rows")
	synthCmd.Flags().Int64Var(&synSeed, "seed", 42, "random seed")
	synthCmd.Flags().BoolVar(&synSummary, "summary", false, "print an overview of the synthetic table instead of CSV")
}
