package cmd

import (
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/eda-cli/internal/analysis"
	"github.com/KaramelBytes/eda-cli/internal/table"
)

var (
	clsTarget      string
	clsMaxUnique   int
	clsIDThreshold float64
)

// tableRoles pairs a table name with its classification for rendering.
type tableRoles struct {
	Table          string `json:"table" yaml:"table" toml:"table"`
	analysis.Roles `yaml:",inline"`
}

func (r tableRoles) Markdown() string {
	return "File: " + r.Table + "\n" + r.Roles.Markdown()
}

func classifyOptions(cmd *cobra.Command) analysis.ClassifyOptions {
	c := config()
	opt := analysis.ClassifyOptions{
		TargetColumn:             clsTarget,
		MaxUniqueForCategoricals: c.MaxUniqueForCategoricals,
		IDLikeThreshold:          c.IDLikeThreshold,
	}
	if f := cmd.Flags().Lookup("max-unique"); f != nil && f.Changed {
		opt.MaxUniqueForCategoricals = clsMaxUnique
	}
	if f := cmd.Flags().Lookup("id-threshold"); f != nil && f.Changed {
		opt.IDLikeThreshold = clsIDThreshold
	}
	return opt
}

var classifyCmd = &cobra.Command{
	Use:   "classify <file|dir>",
	Short: "Split columns into categorical and numerical roles",
	Long: `Classify treats text columns as categorical, moves numeric columns that look
like identifiers (distinct/rows above --id-threshold) or have few distinct values
(at most --max-unique) to categorical, and reports the remaining numeric columns
as numerical.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadPath(cmd, args[0])
		if err != nil {
			return err
		}
		sink := newSink(cmd)
		opt := classifyOptions(cmd)
		var out []tableRoles
		for _, t := range res.Tables() {
			roles, err := analysis.Classify(t, opt, sink)
			if err != nil {
				return err
			}
			out = append(out, tableRoles{Table: t.Name, Roles: roles})
		}
		return render(cmd, out)
	},
}

// classifyTable runs the classifier with command-line thresholds.
func classifyTable(cmd *cobra.Command, t *table.Table) (analysis.Roles, error) {
	return analysis.Classify(t, classifyOptions(cmd), newSink(cmd))
}

func addClassifyFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&clsTarget, "target", "", "target column (must exist)")
	cmd.Flags().IntVar(&clsMaxUnique, "max-unique", 20, "numeric columns with at most this many distinct values are categorical")
	cmd.Flags().Float64Var(&clsIDThreshold, "id-threshold", 0.9, "distinct/rows ratio above which a numeric column is ID-like")
}

func init() {
	rootCmd.AddCommand(classifyCmd)
	addClassifyFlags(classifyCmd)
}
