package cmd

import (
	"fmt"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
	"github.com/KaramelBytes/eda-cli/internal/parser"
)

var (
	loadSampleRows int
	loadCorr       bool
	loadOutliers   bool
	loadOutlierThr float64
)

var loadCmd = &cobra.Command{
	Use:     "load <file|dir>",
	Aliases: []string{"analyze", "overview"},
	Short:   "Load a file or every supported file in a directory and summarize it",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		popt, err := parserOptions()
		if err != nil {
			return err
		}
		loader := parser.NewLoader(popt, newSink(cmd))

		var bar *uiprogress.Bar
		var prog *uiprogress.Progress
		if files, err := parser.CandidateFiles(path); err == nil && !quiet && len(files) > 0 {
			prog = uiprogress.New()
			prog.SetOut(cmd.ErrOrStderr())
			prog.Start()
			bar = prog.AddBar(len(files)).AppendCompleted().PrependElapsed()
			bar.PrependFunc(func(b *uiprogress.Bar) string {
				return fmt.Sprintf("Loading %d/%d ", b.Current(), len(files))
			})
			loader.OnFile = func(string, error) { bar.Incr() }
		}
		res, err := loader.Load(path)
		if prog != nil {
			prog.Stop()
		}
		if err != nil {
			return err
		}
		if res.IsDir() {
			fmt.Fprintf(progress(cmd), "✓ Loaded %d file(s) from %s\n", res.Collection.Len(), path)
		}

		opt := analysis.DefaultOptions()
		opt.SampleRows = loadSampleRows
		opt.Correlations = loadCorr
		opt.Outliers = loadOutliers
		if loadOutlierThr > 0 {
			opt.OutlierThreshold = loadOutlierThr
		}
		var reports []*analysis.Report
		for _, t := range res.Tables() {
			reports = append(reports, analysis.Overview(t, opt))
		}
		if len(reports) == 0 {
			return fmt.Errorf("no tables loaded from %s", path)
		}
		return render(cmd, reports)
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
	loadCmd.Flags().IntVar(&loadSampleRows, "sample-rows", 5, "number of sample rows to include")
	loadCmd.Flags().BoolVar(&loadCorr, "correlations", false, "compute Pearson correlations among numeric columns")
	loadCmd.Flags().BoolVar(&loadOutliers, "outliers", true, "compute robust outlier counts (MAD)")
	loadCmd.Flags().Float64Var(&loadOutlierThr, "outlier-threshold", 3.5, "robust |z| threshold for outliers (MAD-based)")
}
