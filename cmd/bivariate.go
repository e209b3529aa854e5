package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
	"github.com/KaramelBytes/eda-cli/internal/report"
)

var bivariateCmd = &cobra.Command{
	Use:   "bivariate <file> <column> <column>",
	Short: "Relate two columns: crosstab, per-category describe, or correlation",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTable(cmd, args[0])
		if err != nil {
			return err
		}
		res, err := analysis.Bivariate(t, args[1], args[2], newSink(cmd))
		if err != nil {
			return err
		}
		if res == nil {
			fmt.Fprintf(progress(cmd), "⚠ No analysis available for %s and %s\n", args[1], args[2])
			return nil
		}
		return render(cmd, []report.Markdowner{res})
	},
}

func init() {
	rootCmd.AddCommand(bivariateCmd)
}
