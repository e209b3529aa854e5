package analysis

import (
	"fmt"
	"slices"
	"strings"

	"github.com/KaramelBytes/eda-cli/internal/report"
	"github.com/KaramelBytes/eda-cli/internal/table"
)

// ClassifyOptions tunes the column role heuristics. Zero thresholds take
// the values of DefaultClassifyOptions.
type ClassifyOptions struct {
	// TargetColumn is optional; when set it must exist in the table.
	TargetColumn string
	// MaxUniqueForCategoricals is the distinct-count ceiling under which a
	// numeric column is treated as categorical.
	MaxUniqueForCategoricals int
	// IDLikeThreshold is the distinct/rows ratio above which a numeric
	// column is considered an identifier.
	IDLikeThreshold float64
}

// DefaultClassifyOptions returns the stock thresholds.
func DefaultClassifyOptions() ClassifyOptions {
	return ClassifyOptions{MaxUniqueForCategoricals: 20, IDLikeThreshold: 0.9}
}

// Roles is the outcome of classification. Categorical and Numerical are
// disjoint; IDLike and LowCardinality explain why numeric columns were
// moved to Categorical. Lists follow table column order.
type Roles struct {
	Categorical    []string `json:"categorical" yaml:"categorical" toml:"categorical"`
	Numerical      []string `json:"numerical" yaml:"numerical" toml:"numerical"`
	IDLike         []string `json:"id_like,omitempty" yaml:"id_like,omitempty" toml:"id_like,omitempty"`
	LowCardinality []string `json:"low_cardinality,omitempty" yaml:"low_cardinality,omitempty" toml:"low_cardinality,omitempty"`
	Omitted        []string `json:"omitted,omitempty" yaml:"omitted,omitempty" toml:"omitted,omitempty"`
}

// IsCategorical reports whether name was classified as categorical.
func (r Roles) IsCategorical(name string) bool { return slices.Contains(r.Categorical, name) }

// IsNumerical reports whether name was classified as numerical.
func (r Roles) IsNumerical(name string) bool { return slices.Contains(r.Numerical, name) }

// Markdown renders the roles as a short list.
func (r Roles) Markdown() string {
	var b strings.Builder
	b.WriteString("[COLUMN ROLES]\n")
	b.WriteString(fmt.Sprintf("Numerical columns (filtered): %s\n", listOrNone(r.Numerical)))
	b.WriteString(fmt.Sprintf("Categorical columns (incl. ID-like): %s\n", listOrNone(r.Categorical)))
	if len(r.IDLike) > 0 {
		b.WriteString(fmt.Sprintf("ID-like: %s\n", strings.Join(r.IDLike, ", ")))
	}
	if len(r.LowCardinality) > 0 {
		b.WriteString(fmt.Sprintf("Low-cardinality numeric: %s\n", strings.Join(r.LowCardinality, ", ")))
	}
	if len(r.Omitted) > 0 {
		b.WriteString(fmt.Sprintf("Not classified: %s\n", strings.Join(r.Omitted, ", ")))
	}
	return b.String()
}

// Classify partitions the columns of t into categorical and numerical roles.
//
// Numeric columns whose distinct/rows ratio exceeds IDLikeThreshold are
// identifiers and become categorical. Of the remaining numeric columns, those
// with at most MaxUniqueForCategoricals distinct values also become
// categorical. Text columns are always categorical. Bool and datetime
// columns are reported in Omitted and belong to neither role.
func Classify(t *table.Table, opt ClassifyOptions, sink report.Sink) (Roles, error) {
	if sink == nil {
		sink = report.Discard{}
	}
	def := DefaultClassifyOptions()
	if opt.MaxUniqueForCategoricals <= 0 {
		opt.MaxUniqueForCategoricals = def.MaxUniqueForCategoricals
	}
	if opt.IDLikeThreshold <= 0 {
		opt.IDLikeThreshold = def.IDLikeThreshold
	}
	if opt.TargetColumn != "" {
		if _, err := t.Column(opt.TargetColumn); err != nil {
			return Roles{}, fmt.Errorf("target column: %w", err)
		}
	}
	emitDiagnostics(t, sink)

	var roles Roles
	for _, c := range t.Columns {
		switch c.Kind {
		case table.KindText:
			roles.Categorical = append(roles.Categorical, c.Name)
		case table.KindNumeric:
			distinct := c.Distinct()
			ratio := 0.0
			if t.Rows > 0 {
				ratio = float64(distinct) / float64(t.Rows)
			}
			switch {
			case ratio > opt.IDLikeThreshold:
				roles.IDLike = append(roles.IDLike, c.Name)
				roles.Categorical = append(roles.Categorical, c.Name)
			case distinct <= opt.MaxUniqueForCategoricals:
				roles.LowCardinality = append(roles.LowCardinality, c.Name)
				roles.Categorical = append(roles.Categorical, c.Name)
			default:
				roles.Numerical = append(roles.Numerical, c.Name)
			}
		default:
			roles.Omitted = append(roles.Omitted, c.Name)
		}
	}

	report.Infof(sink, "Numerical columns (filtered): %s", listOrNone(roles.Numerical))
	report.Infof(sink, "Categorical columns (incl. ID-like): %s", listOrNone(roles.Categorical))
	sink.Emit(report.Stat{Name: "roles", Subject: t.Name, Value: roles})
	return roles, nil
}

// emitDiagnostics hands row count, kind overview and missing counts to the sink.
func emitDiagnostics(t *table.Table, sink report.Sink) {
	sink.Emit(report.Stat{Name: "rows", Subject: t.Name, Value: t.Rows})
	kinds := map[string]int{}
	for _, c := range t.Columns {
		kinds[c.Kind.String()]++
	}
	sink.Emit(report.Stat{Name: "kinds", Subject: t.Name, Value: kinds})
	if missing := MissingValues(t); len(missing) > 0 {
		sink.Emit(report.Stat{Name: "missing", Subject: t.Name, Value: missing})
	}
}

func listOrNone(list []string) string {
	if len(list) == 0 {
		return "(none)"
	}
	return strings.Join(list, ", ")
}
