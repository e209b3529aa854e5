package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
	"github.com/KaramelBytes/eda-cli/internal/report"
	"github.com/KaramelBytes/eda-cli/internal/table"
)

var (
	uniColumns   []string
	uniTop       bool
	uniMaxCats   int
	uniTopN      int
	uniMinUnique int
	uniBins      int
)

// univariateResult groups per-column results of one table.
type univariateResult struct {
	Table       string                    `json:"table" yaml:"table" toml:"table"`
	Categorical []analysis.CategoryCounts `json:"categorical,omitempty" yaml:"categorical,omitempty" toml:"categorical,omitempty"`
	Numeric     []analysis.NumericProfile `json:"numeric,omitempty" yaml:"numeric,omitempty" toml:"numeric,omitempty"`
}

func (u univariateResult) Markdown() string {
	var parts []report.Markdowner
	for _, c := range u.Categorical {
		parts = append(parts, c)
	}
	for _, n := range u.Numeric {
		parts = append(parts, n)
	}
	out := "File: " + u.Table + "\n"
	for _, p := range parts {
		out += "\n" + p.Markdown()
	}
	return out
}

var univariateCmd = &cobra.Command{
	Use:   "univariate <file|dir>",
	Short: "Value counts for categorical columns and distribution summaries for numerical ones",
	Long: `Without --columns, columns are classified first: categorical columns get value
counts (or top-N with "Other" when --top is set) and numerical columns get a
describe block, skewness, kurtosis, histogram and box-plot statistics.
With --columns, text columns are counted and numeric columns summarized.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadPath(cmd, args[0])
		if err != nil {
			return err
		}
		c := config()
		sink := newSink(cmd)
		maxCats, topN, minUnique, bins := c.MaxCategories, c.TopN, c.MinUnique, c.Bins
		fl := cmd.Flags()
		if fl.Changed("max-categories") {
			maxCats = uniMaxCats
		}
		if fl.Changed("top-n") {
			topN = uniTopN
		}
		if fl.Changed("min-unique") {
			minUnique = uniMinUnique
		}
		if fl.Changed("bins") {
			bins = uniBins
		}

		var out []univariateResult
		for _, t := range res.Tables() {
			var cats, nums []string
			if len(uniColumns) > 0 {
				for _, name := range uniColumns {
					col, err := t.Column(name)
					if err != nil {
						report.Warnf(sink, "Column '%s' not found in table.", name)
						continue
					}
					if col.Kind == table.KindNumeric {
						nums = append(nums, name)
					} else {
						cats = append(cats, name)
					}
				}
			} else {
				roles, err := classifyTable(cmd, t)
				if err != nil {
					return err
				}
				cats, nums = roles.Categorical, roles.Numerical
			}
			r := univariateResult{Table: t.Name}
			if uniTop {
				r.Categorical = analysis.TopCategories(t, cats, topN, minUnique, sink)
			} else {
				r.Categorical = analysis.CategoricalCounts(t, cats, maxCats, sink)
			}
			if len(nums) > 0 {
				r.Numeric = analysis.NumericSummary(t, nums, bins, sink)
			}
			out = append(out, r)
		}
		return render(cmd, out)
	},
}

func init() {
	rootCmd.AddCommand(univariateCmd)
	f := univariateCmd.Flags()
	f.StringSliceVar(&uniColumns, "columns", nil, "comma-separated columns to analyze (default: all, by role)")
	f.BoolVar(&uniTop, "top", false, "show top-N categories plus an Other bucket instead of full counts")
	f.IntVar(&uniMaxCats, "max-categories", 20, "skip categorical columns with more distinct values")
	f.IntVar(&uniTopN, "top-n", 10, "categories kept by --top")
	f.IntVar(&uniMinUnique, "min-unique", 15, "--top skips columns with at most this many distinct values")
	f.IntVar(&uniBins, "bins", 30, "histogram bins")
	addClassifyFlags(univariateCmd)
}
